package service

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/config"
	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/logger"
	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/models"
	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/queue"
	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AssignmentService 车辆承运任务管理（承运记录与其货物分配作为一个整体）
type AssignmentService struct {
	cfg            config.AllocationConfig
	missionRepo    repository.MissionRepository
	cargoRepo      repository.CargoRepository
	truckRepo      repository.TruckRepository
	driverRepo     repository.DriverRepository
	assignmentRepo repository.AssignmentRepository
	ledger         *AllocationLedger
	queueClient    *queue.Client
}

// NewAssignmentService 创建承运任务服务
func NewAssignmentService(
	cfg config.AllocationConfig,
	missionRepo repository.MissionRepository,
	cargoRepo repository.CargoRepository,
	truckRepo repository.TruckRepository,
	driverRepo repository.DriverRepository,
	assignmentRepo repository.AssignmentRepository,
	ledger *AllocationLedger,
	queueClient *queue.Client,
) *AssignmentService {
	return &AssignmentService{
		cfg:            cfg,
		missionRepo:    missionRepo,
		cargoRepo:      cargoRepo,
		truckRepo:      truckRepo,
		driverRepo:     driverRepo,
		assignmentRepo: assignmentRepo,
		ledger:         ledger,
		queueClient:    queueClient,
	}
}

// AllocationRequest 单个货物明细的分配请求
type AllocationRequest struct {
	CargoItemID string `json:"cargo_item_id"`
	Quantity    int    `json:"quantity"`
}

// CreateAssignmentInput 创建承运记录输入
type CreateAssignmentInput struct {
	VendorID   uint
	MissionID  string
	TruckID    string
	DriverID   string
	StartDate  *time.Time
	EndDate    *time.Time
	CargoItems []AllocationRequest
}

// ReplaceCargoInput 替换承运货物输入
type ReplaceCargoInput struct {
	VendorID     uint
	AssignmentID string
	CargoItems   []AllocationRequest
}

// Utilization 车辆装载利用率
type Utilization struct {
	Capacity   models.Capacity `json:"capacity"`
	Assigned   int64           `json:"assigned"`
	Remaining  models.Capacity `json:"remaining"`
	Percentage float64         `json:"percentage"`
}

// allocationTarget 校验通过的目标分配
type allocationTarget struct {
	item     *models.CargoItem
	quantity int
}

// scopedRepos 绑定同一事务的仓库集合
type scopedRepos struct {
	mission    repository.MissionRepository
	cargo      repository.CargoRepository
	truck      repository.TruckRepository
	driver     repository.DriverRepository
	assignment repository.AssignmentRepository
	ledger     *AllocationLedger
}

func (s *AssignmentService) withTx(tx *gorm.DB) scopedRepos {
	return scopedRepos{
		mission:    s.missionRepo.WithTx(tx),
		cargo:      s.cargoRepo.WithTx(tx),
		truck:      s.truckRepo.WithTx(tx),
		driver:     s.driverRepo.WithTx(tx),
		assignment: s.assignmentRepo.WithTx(tx),
		ledger:     s.ledger.WithTx(tx),
	}
}

// CreateAssignment 将车辆指派到任务并分配货物，全部成功或全部回滚
func (s *AssignmentService) CreateAssignment(input CreateAssignmentInput) (*models.TruckAssignment, error) {
	if input.VendorID == 0 {
		return nil, ErrVendorNotResolved
	}
	if input.StartDate != nil && input.EndDate != nil && input.EndDate.Before(*input.StartDate) {
		return nil, ErrInvalidDateRange
	}

	var created *models.TruckAssignment
	var targets []allocationTarget
	err := s.assignmentRepo.Transaction(func(tx *gorm.DB) error {
		repos := s.withTx(tx)

		mission, err := repos.mission.GetByUniqueID(input.MissionID)
		if err != nil {
			return err
		}
		if mission == nil {
			return ErrMissionNotFound
		}
		truck, err := repos.truck.GetByUniqueID(input.TruckID)
		if err != nil {
			return err
		}
		if truck == nil {
			return ErrTruckNotFound
		}
		if truck.VendorID != input.VendorID {
			return ErrAuthorization
		}
		contracted, err := repos.mission.IsVendorContracted(input.VendorID, mission.ID)
		if err != nil {
			return err
		}
		if !contracted {
			return ErrAuthorization
		}

		var driverID *uint
		if strings.TrimSpace(input.DriverID) != "" {
			driver, err := repos.driver.GetByUniqueID(input.DriverID)
			if err != nil {
				return err
			}
			if driver == nil {
				return ErrDriverNotFound
			}
			if driver.VendorID != input.VendorID {
				return ErrAuthorization
			}
			driverID = &driver.ID
		}

		existing, err := repos.assignment.GetByMissionAndTruck(mission.ID, truck.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrAssignmentExists
		}

		cargo, err := repos.cargo.GetByMissionID(mission.ID)
		if err != nil {
			return err
		}
		if cargo == nil {
			return ErrNoCargo
		}

		targets, err = s.validateTargets(repos, cargo, truck, input.CargoItems, 0)
		if err != nil {
			return err
		}

		assignment := &models.TruckAssignment{
			MissionID: mission.ID,
			TruckID:   truck.ID,
			VendorID:  input.VendorID,
			DriverID:  driverID,
			StartDate: input.StartDate,
			EndDate:   input.EndDate,
		}
		if err := repos.assignment.Create(assignment); err != nil {
			if isUniqueViolation(err) {
				return ErrAssignmentExists
			}
			return err
		}
		for _, target := range targets {
			if _, err := repos.ledger.UpsertAllocation(assignment, target.item, target.quantity); err != nil {
				return err
			}
		}
		created = assignment
		return nil
	})
	if err != nil {
		s.logFailure("assignment_create_failed", err, "mission_id", input.MissionID, "truck_id", input.TruckID)
		return nil, err
	}

	s.enqueueAudit(targets, "assignment_create")
	return s.assignmentRepo.GetDetail(created.ID)
}

// ReplaceCargo 以目标集合整体替换承运记录的货物分配，全部成功或全部回滚
func (s *AssignmentService) ReplaceCargo(input ReplaceCargoInput) (*models.TruckAssignment, error) {
	if input.VendorID == 0 {
		return nil, ErrVendorNotResolved
	}

	var assignmentID uint
	var targets []allocationTarget
	err := s.assignmentRepo.Transaction(func(tx *gorm.DB) error {
		repos := s.withTx(tx)

		assignment, err := repos.assignment.GetByUniqueID(input.AssignmentID)
		if err != nil {
			return err
		}
		if assignment == nil {
			return ErrAssignmentNotFound
		}
		if assignment.VendorID != input.VendorID {
			return ErrAuthorization
		}
		contracted, err := repos.mission.IsVendorContracted(input.VendorID, assignment.MissionID)
		if err != nil {
			return err
		}
		if !contracted {
			return ErrAuthorization
		}
		truck, err := repos.truck.GetByID(assignment.TruckID)
		if err != nil {
			return err
		}
		if truck == nil {
			return ErrTruckNotFound
		}
		cargo, err := repos.cargo.GetByMissionID(assignment.MissionID)
		if err != nil {
			return err
		}
		if cargo == nil {
			return ErrNoCargo
		}

		targets, err = s.validateTargets(repos, cargo, truck, input.CargoItems, assignment.ID)
		if err != nil {
			return err
		}

		keep := make([]uint, 0, len(targets))
		for _, target := range targets {
			keep = append(keep, target.item.ID)
		}
		if _, err := repos.ledger.RemoveAllocationsNotIn(assignment, keep); err != nil {
			return err
		}
		for _, target := range targets {
			if _, err := repos.ledger.UpsertAllocation(assignment, target.item, target.quantity); err != nil {
				return err
			}
		}
		assignmentID = assignment.ID
		return nil
	})
	if err != nil {
		s.logFailure("assignment_replace_cargo_failed", err, "assignment_id", input.AssignmentID)
		return nil, err
	}

	s.enqueueAudit(targets, "assignment_replace_cargo")
	return s.assignmentRepo.GetDetail(assignmentID)
}

// DeleteAssignment 删除供应商自己的承运记录，分配随之删除
func (s *AssignmentService) DeleteAssignment(vendorID uint, assignmentUniqueID string) error {
	assignment, err := s.GetVendorAssignment(vendorID, assignmentUniqueID)
	if err != nil {
		return err
	}
	return s.assignmentRepo.Delete(assignment.ID)
}

// GetVendorAssignment 获取属于供应商的承运记录详情
func (s *AssignmentService) GetVendorAssignment(vendorID uint, assignmentUniqueID string) (*models.TruckAssignment, error) {
	assignment, err := s.assignmentRepo.GetByUniqueID(assignmentUniqueID)
	if err != nil {
		return nil, err
	}
	if assignment == nil {
		return nil, ErrAssignmentNotFound
	}
	if vendorID == 0 || assignment.VendorID != vendorID {
		return nil, ErrAuthorization
	}
	return s.assignmentRepo.GetDetail(assignment.ID)
}

// Utilization 计算承运记录的装载利用率
func (s *AssignmentService) Utilization(assignment *models.TruckAssignment) (*Utilization, error) {
	if assignment == nil || assignment.ID == 0 {
		return nil, ErrAssignmentNotFound
	}
	truck := assignment.Truck
	if truck == nil {
		loaded, err := s.truckRepo.GetByID(assignment.TruckID)
		if err != nil {
			return nil, err
		}
		if loaded == nil {
			return nil, ErrTruckNotFound
		}
		truck = loaded
	}
	assigned, err := s.assignmentRepo.SumAllocatedForAssignment(assignment.ID)
	if err != nil {
		return nil, err
	}
	result := computeUtilization(truck.Capacity.Decimal, assigned)
	return &result, nil
}

// validateTargets 解析并校验全部分配请求，收集所有单项错误后统一返回
// 明细按 ID 升序加锁，避免并发事务交叉加锁
func (s *AssignmentService) validateTargets(repos scopedRepos, cargo *models.Cargo, truck *models.Truck, requests []AllocationRequest, excludingAssignmentID uint) ([]allocationTarget, error) {
	var errs []error
	targets := make([]allocationTarget, 0, len(requests))
	seen := make(map[uint]struct{}, len(requests))

	for _, req := range requests {
		itemKey := strings.TrimSpace(req.CargoItemID)
		item, err := repos.cargo.GetItemInCargo(cargo.ID, itemKey)
		if err != nil {
			return nil, err
		}
		if item == nil {
			errs = append(errs, newCargoItemError(itemKey, ErrCargoItemNotFound))
			continue
		}
		if req.Quantity < 1 {
			errs = append(errs, newCargoItemError(itemKey, ErrInvalidQuantity))
			continue
		}
		if _, dup := seen[item.ID]; dup {
			errs = append(errs, newCargoItemError(itemKey, ErrDuplicateCargoItem))
			continue
		}
		seen[item.ID] = struct{}{}
		targets = append(targets, allocationTarget{item: item, quantity: req.Quantity})
	}

	if s.cfg.EnforceCapacity {
		var total int64
		for _, target := range targets {
			total += int64(target.quantity)
		}
		capacity := truck.Capacity.Decimal
		if decimal.NewFromInt(total).GreaterThan(capacity) {
			errs = append(errs, &CapacityExceededError{Capacity: capacity, Requested: total})
		}
	}

	sort.Slice(targets, func(i, j int) bool {
		return targets[i].item.ID < targets[j].item.ID
	})
	for _, target := range targets {
		if _, err := repos.ledger.CheckAllocation(target.item.ID, target.quantity, excludingAssignmentID); err != nil {
			var overErr *OverAllocationError
			if errors.As(err, &overErr) {
				errs = append(errs, overErr)
				continue
			}
			return nil, err
		}
	}

	if len(errs) > 0 {
		return nil, newAllocationValidationError(errs)
	}
	return targets, nil
}

func (s *AssignmentService) enqueueAudit(targets []allocationTarget, source string) {
	if !s.cfg.AuditEnabled || s.queueClient == nil || len(targets) == 0 {
		return
	}
	ids := make([]string, 0, len(targets))
	for _, target := range targets {
		ids = append(ids, target.item.UniqueID)
	}
	if err := s.queueClient.EnqueueAllocationAudit(queue.AllocationAuditPayload{
		CargoItemIDs: ids,
		Source:       source,
	}); err != nil {
		logger.Warnw("allocation_audit_enqueue_failed", "source", source, "error", err)
	}
}

func (s *AssignmentService) logFailure(event string, err error, kv ...interface{}) {
	var validationErr *AllocationValidationError
	switch {
	case errors.As(err, &validationErr):
		logger.Debugw(event, append(kv, "messages", validationErr.Messages())...)
	case isAllocationClientError(err):
		logger.Debugw(event, append(kv, "error", err)...)
	default:
		logger.Errorw(event, append(kv, "error", err)...)
	}
}

// isAllocationClientError 请求方可自行修正的错误
func isAllocationClientError(err error) bool {
	for _, target := range []error{
		ErrVendorNotResolved,
		ErrMissionNotFound,
		ErrTruckNotFound,
		ErrDriverNotFound,
		ErrAssignmentNotFound,
		ErrAssignmentExists,
		ErrInvalidDateRange,
		ErrAuthorization,
		ErrNoCargo,
		ErrCargoItemNotFound,
		ErrInvalidQuantity,
		ErrOverAllocation,
		ErrCapacityExceeded,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// computeUtilization 百分比保留 2 位小数，容量非正时为 0
func computeUtilization(capacity decimal.Decimal, assigned int64) Utilization {
	assignedDecimal := decimal.NewFromInt(assigned)
	remaining := capacity.Sub(assignedDecimal)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}
	percentage := decimal.Zero
	if capacity.GreaterThan(decimal.Zero) {
		percentage = assignedDecimal.Div(capacity).Mul(decimal.NewFromInt(100)).Round(2)
	}
	return Utilization{
		Capacity:   models.NewCapacityFromDecimal(capacity),
		Assigned:   assigned,
		Remaining:  models.NewCapacityFromDecimal(remaining),
		Percentage: percentage.InexactFloat64(),
	}
}
