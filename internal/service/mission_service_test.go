package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/constants"
	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/models"
	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

type adminServices struct {
	vendors  *VendorService
	missions *MissionService
	fleet    *FleetService
	db       *gorm.DB
}

func setupAdminServicesTest(t *testing.T) adminServices {
	t.Helper()
	dsn := fmt.Sprintf("file:mission_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	vendorRepo := repository.NewVendorRepository(db)
	productRepo := repository.NewProductRepository(db)
	return adminServices{
		vendors:  NewVendorService(vendorRepo, repository.NewDocumentRepository(db)),
		missions: NewMissionService(repository.NewMissionRepository(db), vendorRepo, productRepo, repository.NewCargoRepository(db)),
		fleet:    NewFleetService(vendorRepo, productRepo, repository.NewDriverRepository(db), repository.NewTruckRepository(db)),
		db:       db,
	}
}

func (s adminServices) mission(t *testing.T) *models.Mission {
	t.Helper()
	now := time.Now()
	mission, err := s.missions.CreateMission(CreateMissionInput{
		Title:     "Flood response",
		Type:      constants.MissionTypeEmergency,
		StartDate: now,
		EndDate:   now.Add(24 * time.Hour),
	})
	if err != nil {
		t.Fatalf("create mission failed: %v", err)
	}
	return mission
}

func TestVendorCreateGeneratesRegNo(t *testing.T) {
	svc := setupAdminServicesTest(t)
	vendor, err := svc.vendors.Create(CreateVendorInput{Name: "Grain Movers", VendorType: constants.VendorTypeFoodSupplier})
	if err != nil {
		t.Fatalf("create vendor failed: %v", err)
	}
	if len(vendor.RegNo) != len("VEN-20060102-abcdef12") || vendor.Status != constants.VendorStatusPending {
		t.Fatalf("unexpected vendor defaults: reg_no=%s status=%s", vendor.RegNo, vendor.Status)
	}
	if _, err := svc.vendors.Create(CreateVendorInput{Name: "Dup", VendorType: constants.VendorTypeMixed, RegNo: vendor.RegNo}); !errors.Is(err, ErrVendorRegNoExists) {
		t.Fatalf("expected reg no exists, got: %v", err)
	}
	if _, err := svc.vendors.Create(CreateVendorInput{Name: "Bad", VendorType: "airline"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input, got: %v", err)
	}
	approved, err := svc.vendors.UpdateStatus(vendor.UniqueID, constants.VendorStatusApproved)
	if err != nil || approved.Status != constants.VendorStatusApproved {
		t.Fatalf("approve vendor failed: %v", err)
	}
}

func TestMissionRejectsInvertedDates(t *testing.T) {
	svc := setupAdminServicesTest(t)
	now := time.Now()
	_, err := svc.missions.CreateMission(CreateMissionInput{
		Title:     "Backwards",
		Type:      constants.MissionTypeRegular,
		StartDate: now,
		EndDate:   now.Add(-time.Hour),
	})
	if !errors.Is(err, ErrInvalidDateRange) {
		t.Fatalf("expected invalid date range, got: %v", err)
	}
}

func TestContractVendorOnce(t *testing.T) {
	svc := setupAdminServicesTest(t)
	vendor, err := svc.vendors.Create(CreateVendorInput{Name: "Haulers", VendorType: constants.VendorTypeLogisticProvider})
	if err != nil {
		t.Fatalf("create vendor failed: %v", err)
	}
	mission := svc.mission(t)
	if _, err := svc.missions.ContractVendor(vendor.UniqueID, mission.UniqueID); err != nil {
		t.Fatalf("contract vendor failed: %v", err)
	}
	if _, err := svc.missions.ContractVendor(vendor.UniqueID, mission.UniqueID); !errors.Is(err, ErrVendorMissionExists) {
		t.Fatalf("expected vendor mission exists, got: %v", err)
	}
	rows, err := svc.missions.ListVendorMissions("", mission.UniqueID)
	if err != nil || len(rows) != 1 {
		t.Fatalf("expected one contract, got %d err=%v", len(rows), err)
	}
	if err := svc.missions.DeleteVendorMission(rows[0].UniqueID); err != nil {
		t.Fatalf("delete contract failed: %v", err)
	}
}

func TestCreateCargoWithItems(t *testing.T) {
	svc := setupAdminServicesTest(t)
	mission := svc.mission(t)
	rice, err := svc.fleet.CreateProduct("Rice", 1000)
	if err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	oil, err := svc.fleet.CreateProduct("Oil", 200)
	if err != nil {
		t.Fatalf("create product failed: %v", err)
	}

	_, err = svc.missions.CreateCargo(CreateCargoInput{
		MissionID: mission.UniqueID,
		Items: []CargoItemInput{
			{ProductID: rice.UniqueID, Quantity: 10},
			{ProductID: rice.UniqueID, Quantity: 5},
		},
	})
	if !errors.Is(err, ErrDuplicateCargoItem) {
		t.Fatalf("expected duplicate cargo item, got: %v", err)
	}

	cargo, err := svc.missions.CreateCargo(CreateCargoInput{
		MissionID:             mission.UniqueID,
		TotalProductsQuantity: 110,
		Items:                 []CargoItemInput{{ProductID: rice.UniqueID, Quantity: 100}},
	})
	if err != nil {
		t.Fatalf("create cargo failed: %v", err)
	}
	if _, err := svc.missions.CreateCargo(CreateCargoInput{MissionID: mission.UniqueID}); !errors.Is(err, ErrCargoExists) {
		t.Fatalf("expected cargo exists, got: %v", err)
	}
	if _, err := svc.missions.AddCargoItem(cargo.UniqueID, CargoItemInput{ProductID: rice.UniqueID, Quantity: 1}); !errors.Is(err, ErrDuplicateCargoItem) {
		t.Fatalf("expected duplicate on add, got: %v", err)
	}
	if _, err := svc.missions.AddCargoItem(cargo.UniqueID, CargoItemInput{ProductID: oil.UniqueID, Quantity: 0}); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected invalid quantity, got: %v", err)
	}
	added, err := svc.missions.AddCargoItem(cargo.UniqueID, CargoItemInput{ProductID: oil.UniqueID, Quantity: 10})
	if err != nil {
		t.Fatalf("add cargo item failed: %v", err)
	}

	loaded, err := svc.missions.GetCargo(mission.UniqueID)
	if err != nil {
		t.Fatalf("get cargo failed: %v", err)
	}
	if len(loaded.Items) != 2 || loaded.Items[0].Product == nil {
		t.Fatalf("unexpected cargo items: %+v", loaded.Items)
	}
	if err := svc.missions.DeleteCargoItem(added.UniqueID); err != nil {
		t.Fatalf("delete cargo item failed: %v", err)
	}
	if err := svc.missions.DeleteCargoItem(added.UniqueID); !errors.Is(err, ErrCargoItemNotFound) {
		t.Fatalf("expected cargo item not found, got: %v", err)
	}
}

func TestFleetTruckAndDriver(t *testing.T) {
	svc := setupAdminServicesTest(t)
	vendor, err := svc.vendors.Create(CreateVendorInput{Name: "Haulers", VendorType: constants.VendorTypeLogisticProvider})
	if err != nil {
		t.Fatalf("create vendor failed: %v", err)
	}
	if _, err := svc.fleet.CreateTruck(CreateTruckInput{VehicleName: "Neg", VendorID: vendor.UniqueID, Capacity: models.NewCapacityFromFloat(-1)}); !errors.Is(err, ErrInvalidCapacity) {
		t.Fatalf("expected invalid capacity, got: %v", err)
	}
	truck, err := svc.fleet.CreateTruck(CreateTruckInput{VehicleName: "KCA 001", VendorID: vendor.UniqueID, Capacity: models.NewCapacityFromFloat(12.5)})
	if err != nil {
		t.Fatalf("create truck failed: %v", err)
	}
	if truck.Status != constants.TruckStatusActive {
		t.Fatalf("expected default active status, got: %s", truck.Status)
	}
	if _, err := svc.fleet.UpdateTruckStatus(truck.UniqueID, constants.TruckStatusMaintenance); err != nil {
		t.Fatalf("update truck status failed: %v", err)
	}

	input := CreateDriverInput{FirstName: "Juma", LastName: "Mwangi", Email: "juma@example.com", PhoneNumber: "+254700000001", VendorID: vendor.UniqueID}
	if _, err := svc.fleet.CreateDriver(input); err != nil {
		t.Fatalf("create driver failed: %v", err)
	}
	if _, err := svc.fleet.CreateDriver(input); !errors.Is(err, ErrDriverExists) {
		t.Fatalf("expected driver exists, got: %v", err)
	}
	drivers, total, err := svc.fleet.ListDrivers(repository.DriverListFilter{VendorID: vendor.ID, Page: 1, PageSize: 10})
	if err != nil || total != 1 || drivers[0].Vendor == nil {
		t.Fatalf("unexpected driver list: total=%d err=%v", total, err)
	}
}
