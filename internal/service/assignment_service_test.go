package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/config"
	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/constants"
	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/models"
	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

type assignmentTestEnv struct {
	db       *gorm.DB
	ledger   *AllocationLedger
	svc      *AssignmentService
	query    *AllocationQueryService
	audit    *AllocationAuditService
	cargo    repository.CargoRepository
	vendor   *models.Vendor
	other    *models.Vendor
	mission  *models.Mission
	item     *models.CargoItem
	itemB    *models.CargoItem
	truck    *models.Truck
	truck2   *models.Truck
	foreign  *models.Truck
	driver   *models.Driver
	product  *models.Product
	productB *models.Product
}

func setupAssignmentServiceTest(t *testing.T) *assignmentTestEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:assignment_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	missionRepo := repository.NewMissionRepository(db)
	cargoRepo := repository.NewCargoRepository(db)
	truckRepo := repository.NewTruckRepository(db)
	driverRepo := repository.NewDriverRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	ledger := NewAllocationLedger(cargoRepo, assignmentRepo)
	svc := NewAssignmentService(
		config.AllocationConfig{EnforceCapacity: true},
		missionRepo, cargoRepo, truckRepo, driverRepo, assignmentRepo, ledger, nil,
	)
	env := &assignmentTestEnv{
		db:     db,
		ledger: ledger,
		svc:    svc,
		query:  NewAllocationQueryService(missionRepo, cargoRepo, assignmentRepo, svc),
		audit:  NewAllocationAuditService(cargoRepo, assignmentRepo),
		cargo:  cargoRepo,
	}
	env.seed(t)
	return env
}

func (e *assignmentTestEnv) seed(t *testing.T) {
	t.Helper()
	e.vendor = &models.Vendor{Name: "Fleet Co", VendorType: constants.VendorTypeLogisticProvider, Status: constants.VendorStatusApproved}
	e.other = &models.Vendor{Name: "Other Co", VendorType: constants.VendorTypeMixed, Status: constants.VendorStatusApproved}
	for _, v := range []*models.Vendor{e.vendor, e.other} {
		if err := e.db.Create(v).Error; err != nil {
			t.Fatalf("create vendor failed: %v", err)
		}
	}
	now := time.Now()
	e.mission = &models.Mission{
		Title:     "Northern corridor",
		Type:      constants.MissionTypeRegular,
		StartDate: now,
		EndDate:   now.Add(48 * time.Hour),
		Status:    constants.MissionStatusActive,
	}
	if err := e.db.Create(e.mission).Error; err != nil {
		t.Fatalf("create mission failed: %v", err)
	}
	for _, v := range []*models.Vendor{e.vendor, e.other} {
		if err := e.db.Create(&models.VendorMission{VendorID: v.ID, MissionID: e.mission.ID}).Error; err != nil {
			t.Fatalf("create vendor mission failed: %v", err)
		}
	}
	e.product = &models.Product{Name: "Maize", Quantity: 500}
	e.productB = &models.Product{Name: "Beans", Quantity: 500}
	for _, p := range []*models.Product{e.product, e.productB} {
		if err := e.db.Create(p).Error; err != nil {
			t.Fatalf("create product failed: %v", err)
		}
	}
	cargo := &models.Cargo{MissionID: e.mission.ID, TotalProductsQuantity: 80}
	if err := e.db.Create(cargo).Error; err != nil {
		t.Fatalf("create cargo failed: %v", err)
	}
	e.item = &models.CargoItem{CargoID: cargo.ID, ProductID: e.product.ID, Quantity: 50}
	e.itemB = &models.CargoItem{CargoID: cargo.ID, ProductID: e.productB.ID, Quantity: 30}
	for _, item := range []*models.CargoItem{e.item, e.itemB} {
		if err := e.db.Create(item).Error; err != nil {
			t.Fatalf("create cargo item failed: %v", err)
		}
	}
	e.truck = &models.Truck{VehicleName: "KBX 100", VendorID: e.vendor.ID, Capacity: models.NewCapacityFromFloat(100)}
	e.truck2 = &models.Truck{VehicleName: "KBX 200", VendorID: e.vendor.ID, Capacity: models.NewCapacityFromFloat(100)}
	e.foreign = &models.Truck{VehicleName: "UAX 900", VendorID: e.other.ID, Capacity: models.NewCapacityFromFloat(100)}
	for _, truck := range []*models.Truck{e.truck, e.truck2, e.foreign} {
		if err := e.db.Create(truck).Error; err != nil {
			t.Fatalf("create truck failed: %v", err)
		}
	}
	e.driver = &models.Driver{FirstName: "Amina", LastName: "Okello", Email: "amina@example.com", PhoneNumber: "+256700000001", VendorID: e.vendor.ID}
	if err := e.db.Create(e.driver).Error; err != nil {
		t.Fatalf("create driver failed: %v", err)
	}
}

func (e *assignmentTestEnv) create(truck *models.Truck, items ...AllocationRequest) (*models.TruckAssignment, error) {
	return e.svc.CreateAssignment(CreateAssignmentInput{
		VendorID:   e.vendor.ID,
		MissionID:  e.mission.UniqueID,
		TruckID:    truck.UniqueID,
		CargoItems: items,
	})
}

func (e *assignmentTestEnv) remaining(t *testing.T, item *models.CargoItem) int {
	t.Helper()
	remaining, err := e.ledger.RemainingQuantity(item, 0)
	if err != nil {
		t.Fatalf("remaining quantity failed: %v", err)
	}
	return remaining
}

func (e *assignmentTestEnv) countRows(t *testing.T, model interface{}) int64 {
	t.Helper()
	var count int64
	if err := e.db.Model(model).Count(&count).Error; err != nil {
		t.Fatalf("count rows failed: %v", err)
	}
	return count
}

func TestLedgerCanAllocateWithoutAllocations(t *testing.T) {
	env := setupAssignmentServiceTest(t)

	ok, err := env.ledger.CanAllocate(env.item, 50, 0)
	if err != nil || !ok {
		t.Fatalf("expected full quantity allocatable, ok=%v err=%v", ok, err)
	}
	ok, err = env.ledger.CanAllocate(env.item, 51, 0)
	if err != nil || ok {
		t.Fatalf("expected quantity above total rejected, ok=%v err=%v", ok, err)
	}
	if _, err := env.ledger.CanAllocate(env.item, 0, 0); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected invalid quantity for zero, got: %v", err)
	}
}

func TestCreateAssignmentRejectsOverAllocation(t *testing.T) {
	env := setupAssignmentServiceTest(t)

	if _, err := env.create(env.truck, AllocationRequest{CargoItemID: env.item.UniqueID, Quantity: 30}); err != nil {
		t.Fatalf("create first assignment failed: %v", err)
	}
	if got := env.remaining(t, env.item); got != 20 {
		t.Fatalf("expected remaining 20, got: %d", got)
	}

	_, err := env.create(env.truck2, AllocationRequest{CargoItemID: env.item.UniqueID, Quantity: 25})
	if !errors.Is(err, ErrOverAllocation) {
		t.Fatalf("expected over allocation error, got: %v", err)
	}
	var overErr *OverAllocationError
	if !errors.As(err, &overErr) {
		t.Fatalf("expected OverAllocationError in chain, got: %T", err)
	}
	if overErr.Available != 20 || overErr.Requested != 25 {
		t.Fatalf("unexpected over allocation detail: %+v", overErr)
	}
	if got := env.countRows(t, &models.TruckAssignment{}); got != 1 {
		t.Fatalf("failed create must not persist assignment, got rows: %d", got)
	}
}

func TestReplaceCargoShrinksAllocation(t *testing.T) {
	env := setupAssignmentServiceTest(t)

	assignment, err := env.create(env.truck, AllocationRequest{CargoItemID: env.item.UniqueID, Quantity: 30})
	if err != nil {
		t.Fatalf("create assignment failed: %v", err)
	}
	if _, err := env.svc.ReplaceCargo(ReplaceCargoInput{
		VendorID:     env.vendor.ID,
		AssignmentID: assignment.UniqueID,
		CargoItems:   []AllocationRequest{{CargoItemID: env.item.UniqueID, Quantity: 10}},
	}); err != nil {
		t.Fatalf("replace cargo failed: %v", err)
	}
	if got := env.remaining(t, env.item); got != 40 {
		t.Fatalf("expected remaining 40, got: %d", got)
	}
}

func TestReplaceCargoGrowsAgainstOwnAllocation(t *testing.T) {
	env := setupAssignmentServiceTest(t)

	assignment, err := env.create(env.truck, AllocationRequest{CargoItemID: env.item.UniqueID, Quantity: 40})
	if err != nil {
		t.Fatalf("create assignment failed: %v", err)
	}
	// 自身已占 40，扩到 50 仍在总量之内
	if _, err := env.svc.ReplaceCargo(ReplaceCargoInput{
		VendorID:     env.vendor.ID,
		AssignmentID: assignment.UniqueID,
		CargoItems:   []AllocationRequest{{CargoItemID: env.item.UniqueID, Quantity: 50}},
	}); err != nil {
		t.Fatalf("resize to full quantity failed: %v", err)
	}
	if got := env.remaining(t, env.item); got != 0 {
		t.Fatalf("expected remaining 0, got: %d", got)
	}
}

func TestReplaceCargoIsIdempotentAndDropsMissingItems(t *testing.T) {
	env := setupAssignmentServiceTest(t)

	assignment, err := env.create(env.truck,
		AllocationRequest{CargoItemID: env.item.UniqueID, Quantity: 10},
		AllocationRequest{CargoItemID: env.itemB.UniqueID, Quantity: 5},
	)
	if err != nil {
		t.Fatalf("create assignment failed: %v", err)
	}
	input := ReplaceCargoInput{
		VendorID:     env.vendor.ID,
		AssignmentID: assignment.UniqueID,
		CargoItems:   []AllocationRequest{{CargoItemID: env.item.UniqueID, Quantity: 12}},
	}
	for i := 0; i < 2; i++ {
		if _, err := env.svc.ReplaceCargo(input); err != nil {
			t.Fatalf("replace cargo round %d failed: %v", i, err)
		}
	}
	var rows []models.Allocation
	if err := env.db.Where("assignment_id = ?", assignment.ID).Find(&rows).Error; err != nil {
		t.Fatalf("load allocations failed: %v", err)
	}
	if len(rows) != 1 || rows[0].CargoItemID != env.item.ID || rows[0].TransferringQuantity != 12 {
		t.Fatalf("unexpected allocations after replace: %+v", rows)
	}
	if got := env.remaining(t, env.itemB); got != 30 {
		t.Fatalf("dropped item should be fully released, got remaining: %d", got)
	}
}

func TestReplaceCargoFailureKeepsPriorAllocations(t *testing.T) {
	env := setupAssignmentServiceTest(t)

	assignment, err := env.create(env.truck,
		AllocationRequest{CargoItemID: env.item.UniqueID, Quantity: 10},
		AllocationRequest{CargoItemID: env.itemB.UniqueID, Quantity: 25},
	)
	if err != nil {
		t.Fatalf("create assignment failed: %v", err)
	}

	// 第一项合法缩减，后两项失败，整体不得落库
	_, err = env.svc.ReplaceCargo(ReplaceCargoInput{
		VendorID:     env.vendor.ID,
		AssignmentID: assignment.UniqueID,
		CargoItems: []AllocationRequest{
			{CargoItemID: env.item.UniqueID, Quantity: 4},
			{CargoItemID: env.itemB.UniqueID, Quantity: 31},
			{CargoItemID: "missing-item", Quantity: 1},
		},
	})
	var validationErr *AllocationValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected aggregated validation error, got: %v", err)
	}
	if got := len(validationErr.Messages()); got != 2 {
		t.Fatalf("expected 2 messages, got %d: %v", got, validationErr.Messages())
	}
	if !errors.Is(err, ErrOverAllocation) || !errors.Is(err, ErrCargoItemNotFound) {
		t.Fatalf("aggregated error should match item errors: %v", err)
	}

	if got := env.remaining(t, env.item); got != 40 {
		t.Fatalf("item allocation should stay at 10, remaining: %d", got)
	}
	if got := env.remaining(t, env.itemB); got != 5 {
		t.Fatalf("itemB allocation should stay at 25, remaining: %d", got)
	}
	if got := env.countRows(t, &models.Allocation{}); got != 2 {
		t.Fatalf("expected 2 allocations kept, got: %d", got)
	}
}

func TestCreateAssignmentRejectsCapacityOverflow(t *testing.T) {
	env := setupAssignmentServiceTest(t)
	small := &models.Truck{VehicleName: "Pickup", VendorID: env.vendor.ID, Capacity: models.NewCapacityFromFloat(10.5)}
	if err := env.db.Create(small).Error; err != nil {
		t.Fatalf("create truck failed: %v", err)
	}

	_, err := env.create(small, AllocationRequest{CargoItemID: env.item.UniqueID, Quantity: 12})
	if !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("expected capacity exceeded, got: %v", err)
	}
	var capErr *CapacityExceededError
	if !errors.As(err, &capErr) || capErr.Requested != 12 {
		t.Fatalf("unexpected capacity error: %v", err)
	}
	if got := env.countRows(t, &models.Allocation{}); got != 0 {
		t.Fatalf("expected no allocations, got: %d", got)
	}
}

func TestCreateAssignmentForeignTruckHasNoSideEffects(t *testing.T) {
	env := setupAssignmentServiceTest(t)

	_, err := env.create(env.foreign, AllocationRequest{CargoItemID: env.item.UniqueID, Quantity: 5})
	if !errors.Is(err, ErrAuthorization) {
		t.Fatalf("expected authorization error, got: %v", err)
	}
	if got := env.countRows(t, &models.TruckAssignment{}); got != 0 {
		t.Fatalf("expected no assignments, got: %d", got)
	}
	if got := env.countRows(t, &models.Allocation{}); got != 0 {
		t.Fatalf("expected no allocations, got: %d", got)
	}
}

func TestCreateAssignmentRequiresContract(t *testing.T) {
	env := setupAssignmentServiceTest(t)
	if err := env.db.Where("vendor_id = ?", env.vendor.ID).Delete(&models.VendorMission{}).Error; err != nil {
		t.Fatalf("delete contract failed: %v", err)
	}
	_, err := env.create(env.truck, AllocationRequest{CargoItemID: env.item.UniqueID, Quantity: 5})
	if !errors.Is(err, ErrAuthorization) {
		t.Fatalf("expected authorization error, got: %v", err)
	}
}

func TestCreateAssignmentCollectsEveryItemError(t *testing.T) {
	env := setupAssignmentServiceTest(t)

	_, err := env.create(env.truck,
		AllocationRequest{CargoItemID: env.item.UniqueID, Quantity: 60},
		AllocationRequest{CargoItemID: env.itemB.UniqueID, Quantity: 31},
		AllocationRequest{CargoItemID: "missing-item", Quantity: 1},
	)
	var validationErr *AllocationValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected aggregated validation error, got: %v", err)
	}
	if got := len(validationErr.Messages()); got != 3 {
		t.Fatalf("expected 3 messages, got %d: %v", got, validationErr.Messages())
	}
	if !errors.Is(err, ErrCargoItemNotFound) || !errors.Is(err, ErrOverAllocation) {
		t.Fatalf("aggregated error should match item errors: %v", err)
	}
	if got := env.countRows(t, &models.TruckAssignment{}); got != 0 {
		t.Fatalf("expected no assignments, got: %d", got)
	}
}

func TestCreateAssignmentRejectsItemFromOtherMission(t *testing.T) {
	env := setupAssignmentServiceTest(t)
	now := time.Now()
	otherMission := &models.Mission{Title: "South", Type: constants.MissionTypeRegular, StartDate: now, EndDate: now, Status: constants.MissionStatusActive}
	if err := env.db.Create(otherMission).Error; err != nil {
		t.Fatalf("create mission failed: %v", err)
	}
	otherCargo := &models.Cargo{MissionID: otherMission.ID}
	if err := env.db.Create(otherCargo).Error; err != nil {
		t.Fatalf("create cargo failed: %v", err)
	}
	stray := &models.CargoItem{CargoID: otherCargo.ID, ProductID: env.product.ID, Quantity: 10}
	if err := env.db.Create(stray).Error; err != nil {
		t.Fatalf("create cargo item failed: %v", err)
	}

	_, err := env.create(env.truck, AllocationRequest{CargoItemID: stray.UniqueID, Quantity: 1})
	if !errors.Is(err, ErrCargoItemNotFound) {
		t.Fatalf("expected cargo item not found, got: %v", err)
	}
}

func TestCreateAssignmentDuplicatePairRejected(t *testing.T) {
	env := setupAssignmentServiceTest(t)
	if _, err := env.create(env.truck, AllocationRequest{CargoItemID: env.item.UniqueID, Quantity: 1}); err != nil {
		t.Fatalf("create assignment failed: %v", err)
	}
	if _, err := env.create(env.truck, AllocationRequest{CargoItemID: env.item.UniqueID, Quantity: 1}); !errors.Is(err, ErrAssignmentExists) {
		t.Fatalf("expected assignment exists, got: %v", err)
	}
}

func TestCreateAssignmentWithoutCargo(t *testing.T) {
	env := setupAssignmentServiceTest(t)
	if err := env.db.Where("mission_id = ?", env.mission.ID).Delete(&models.Cargo{}).Error; err != nil {
		t.Fatalf("delete cargo failed: %v", err)
	}
	if _, err := env.create(env.truck); !errors.Is(err, ErrNoCargo) {
		t.Fatalf("expected no cargo error, got: %v", err)
	}
}

func TestCreateAssignmentWithDriverAndDates(t *testing.T) {
	env := setupAssignmentServiceTest(t)
	start := time.Now()
	end := start.Add(-time.Hour)
	_, err := env.svc.CreateAssignment(CreateAssignmentInput{
		VendorID:  env.vendor.ID,
		MissionID: env.mission.UniqueID,
		TruckID:   env.truck.UniqueID,
		DriverID:  env.driver.UniqueID,
		StartDate: &start,
		EndDate:   &end,
	})
	if !errors.Is(err, ErrInvalidDateRange) {
		t.Fatalf("expected invalid date range, got: %v", err)
	}

	end = start.Add(time.Hour)
	assignment, err := env.svc.CreateAssignment(CreateAssignmentInput{
		VendorID:   env.vendor.ID,
		MissionID:  env.mission.UniqueID,
		TruckID:    env.truck.UniqueID,
		DriverID:   env.driver.UniqueID,
		StartDate:  &start,
		EndDate:    &end,
		CargoItems: []AllocationRequest{{CargoItemID: env.item.UniqueID, Quantity: 2}},
	})
	if err != nil {
		t.Fatalf("create assignment failed: %v", err)
	}
	if assignment.Driver == nil || assignment.Driver.ID != env.driver.ID {
		t.Fatalf("expected driver preloaded, got: %+v", assignment.Driver)
	}
	if len(assignment.Allocations) != 1 {
		t.Fatalf("expected 1 allocation, got: %d", len(assignment.Allocations))
	}
}

func TestUtilizationRounding(t *testing.T) {
	env := setupAssignmentServiceTest(t)
	truck := &models.Truck{VehicleName: "Odd", VendorID: env.vendor.ID, Capacity: models.NewCapacityFromFloat(3)}
	if err := env.db.Create(truck).Error; err != nil {
		t.Fatalf("create truck failed: %v", err)
	}
	assignment, err := env.create(truck, AllocationRequest{CargoItemID: env.item.UniqueID, Quantity: 2})
	if err != nil {
		t.Fatalf("create assignment failed: %v", err)
	}
	util, err := env.svc.Utilization(assignment)
	if err != nil {
		t.Fatalf("utilization failed: %v", err)
	}
	if util.Assigned != 2 || util.Percentage != 66.67 {
		t.Fatalf("unexpected utilization: %+v", util)
	}
	if util.Remaining.String() != "1" {
		t.Fatalf("expected remaining 1, got: %s", util.Remaining.String())
	}
}

func TestComputeUtilizationZeroCapacity(t *testing.T) {
	util := computeUtilization(models.NewCapacityFromFloat(0).Decimal, 5)
	if util.Percentage != 0 {
		t.Fatalf("expected zero percentage, got: %v", util.Percentage)
	}
	if !util.Remaining.IsZero() {
		t.Fatalf("expected zero remaining, got: %s", util.Remaining.String())
	}
}

func TestDeleteAssignmentReleasesQuantity(t *testing.T) {
	env := setupAssignmentServiceTest(t)
	assignment, err := env.create(env.truck, AllocationRequest{CargoItemID: env.item.UniqueID, Quantity: 20})
	if err != nil {
		t.Fatalf("create assignment failed: %v", err)
	}
	if err := env.svc.DeleteAssignment(env.other.ID, assignment.UniqueID); !errors.Is(err, ErrAuthorization) {
		t.Fatalf("other vendor delete should fail, got: %v", err)
	}
	if err := env.svc.DeleteAssignment(env.vendor.ID, assignment.UniqueID); err != nil {
		t.Fatalf("delete assignment failed: %v", err)
	}
	if got := env.remaining(t, env.item); got != 50 {
		t.Fatalf("expected remaining 50, got: %d", got)
	}
}

func TestDeleteVendorReleasesReservedQuantity(t *testing.T) {
	env := setupAssignmentServiceTest(t)

	if _, err := env.svc.CreateAssignment(CreateAssignmentInput{
		VendorID:   env.other.ID,
		MissionID:  env.mission.UniqueID,
		TruckID:    env.foreign.UniqueID,
		CargoItems: []AllocationRequest{{CargoItemID: env.item.UniqueID, Quantity: 30}},
	}); err != nil {
		t.Fatalf("create assignment for other vendor failed: %v", err)
	}
	if got := env.remaining(t, env.item); got != 20 {
		t.Fatalf("expected remaining 20 before delete, got: %d", got)
	}

	vendors := NewVendorService(repository.NewVendorRepository(env.db), repository.NewDocumentRepository(env.db))
	if err := vendors.Delete(env.other.UniqueID); err != nil {
		t.Fatalf("delete vendor failed: %v", err)
	}
	if got := env.remaining(t, env.item); got != 50 {
		t.Fatalf("deleted vendor should release its quantity, remaining: %d", got)
	}
	if got := env.countRows(t, &models.TruckAssignment{}); got != 0 {
		t.Fatalf("expected no assignments left, got: %d", got)
	}
	if got := env.countRows(t, &models.Truck{}); got != 2 {
		t.Fatalf("only the deleted vendor's truck should go, trucks left: %d", got)
	}

	// 释放的数量可以再分配给其他供应商
	if _, err := env.create(env.truck, AllocationRequest{CargoItemID: env.item.UniqueID, Quantity: 50}); err != nil {
		t.Fatalf("released quantity should be allocatable: %v", err)
	}
}

func TestMissionCargoBreakdown(t *testing.T) {
	env := setupAssignmentServiceTest(t)
	if _, err := env.create(env.truck, AllocationRequest{CargoItemID: env.item.UniqueID, Quantity: 15}); err != nil {
		t.Fatalf("create assignment failed: %v", err)
	}
	view, err := env.query.MissionCargo(env.vendor.ID, env.mission.UniqueID)
	if err != nil {
		t.Fatalf("mission cargo failed: %v", err)
	}
	if len(view.Items) != 2 {
		t.Fatalf("expected 2 items, got: %d", len(view.Items))
	}
	for _, row := range view.Items {
		if row.CargoItemID == env.item.UniqueID && (row.TransferringQuantity != 15 || row.Remaining != 35) {
			t.Fatalf("unexpected breakdown: %+v", row)
		}
		if row.CargoItemID == env.itemB.UniqueID && row.Remaining != 30 {
			t.Fatalf("unexpected breakdown: %+v", row)
		}
	}

	stranger := &models.Vendor{Name: "Stranger", VendorType: constants.VendorTypeMixed}
	if err := env.db.Create(stranger).Error; err != nil {
		t.Fatalf("create vendor failed: %v", err)
	}
	if _, err := env.query.MissionCargo(stranger.ID, env.mission.UniqueID); !errors.Is(err, ErrAuthorization) {
		t.Fatalf("expected authorization error, got: %v", err)
	}
}

func TestVendorAssignmentsSummary(t *testing.T) {
	env := setupAssignmentServiceTest(t)
	if _, err := env.create(env.truck, AllocationRequest{CargoItemID: env.item.UniqueID, Quantity: 10}); err != nil {
		t.Fatalf("create assignment failed: %v", err)
	}
	if _, err := env.create(env.truck2, AllocationRequest{CargoItemID: env.itemB.UniqueID, Quantity: 7}); err != nil {
		t.Fatalf("create assignment failed: %v", err)
	}
	summary, err := env.query.VendorAssignments(env.vendor.ID, 1, 20)
	if err != nil {
		t.Fatalf("vendor assignments failed: %v", err)
	}
	if summary.Total != 2 || summary.TotalAssigned != 17 {
		t.Fatalf("unexpected summary: total=%d assigned=%d", summary.Total, summary.TotalAssigned)
	}
}

func TestAuditSweepReportsViolations(t *testing.T) {
	env := setupAssignmentServiceTest(t)
	assignment, err := env.create(env.truck, AllocationRequest{CargoItemID: env.item.UniqueID, Quantity: 20})
	if err != nil {
		t.Fatalf("create assignment failed: %v", err)
	}
	report, err := env.audit.Sweep(context.Background(), 1)
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if report.Checked != 2 || len(report.Violations) != 0 {
		t.Fatalf("unexpected clean report: %+v", report)
	}

	// 绕过台账直接写入，模拟数据被外部改坏
	if err := env.db.Model(&models.Allocation{}).Where("assignment_id = ?", assignment.ID).
		Update("transferring_quantity", 70).Error; err != nil {
		t.Fatalf("corrupt allocation failed: %v", err)
	}
	report, err = env.audit.AuditCargoItems(context.Background(), []string{env.item.UniqueID, "missing"})
	if err != nil {
		t.Fatalf("audit failed: %v", err)
	}
	if len(report.Violations) != 1 || report.Violations[0].Allocated != 70 {
		t.Fatalf("expected one violation, got: %+v", report)
	}
	if report.Violations[0].CargoItemUniqueID != env.item.UniqueID {
		t.Fatalf("violation should carry the item unique id, got: %q", report.Violations[0].CargoItemUniqueID)
	}
	payload, err := json.Marshal(report.Violations[0])
	if err != nil {
		t.Fatalf("marshal violation failed: %v", err)
	}
	if want := `"cargo_item_id":"` + env.item.UniqueID + `"`; !strings.Contains(string(payload), want) {
		t.Fatalf("violation payload should expose only the unique id, got: %s", payload)
	}
	if _, err := env.ledger.RemainingQuantity(env.item, 0); !errors.Is(err, ErrInvariantViolation) {
		t.Fatalf("expected invariant violation, got: %v", err)
	}
}
