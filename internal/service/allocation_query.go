package service

import (
	"time"

	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/logger"
	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/models"
	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/repository"
)

// AllocationQueryService 货物分配只读视图
type AllocationQueryService struct {
	missionRepo    repository.MissionRepository
	cargoRepo      repository.CargoRepository
	assignmentRepo repository.AssignmentRepository
	assignmentSvc  *AssignmentService
}

// NewAllocationQueryService 创建分配查询服务
func NewAllocationQueryService(
	missionRepo repository.MissionRepository,
	cargoRepo repository.CargoRepository,
	assignmentRepo repository.AssignmentRepository,
	assignmentSvc *AssignmentService,
) *AllocationQueryService {
	return &AllocationQueryService{
		missionRepo:    missionRepo,
		cargoRepo:      cargoRepo,
		assignmentRepo: assignmentRepo,
		assignmentSvc:  assignmentSvc,
	}
}

// CargoItemBreakdown 货物明细分配情况
type CargoItemBreakdown struct {
	CargoItemID          string          `json:"cargo_item_id"`
	Product              *models.Product `json:"product"`
	TotalQuantity        int             `json:"total_quantity"`
	TransferringQuantity int64           `json:"transferring_quantity"`
	Remaining            int64           `json:"remaining"`
}

// MissionCargoView 任务货物视图
type MissionCargoView struct {
	MissionID             string               `json:"mission_id"`
	CargoID               string               `json:"cargo_id"`
	TotalProductsQuantity int                  `json:"total_products_quantity"`
	Items                 []CargoItemBreakdown `json:"items"`
}

// AssignmentView 承运记录视图（含利用率与货物明细）
type AssignmentView struct {
	AssignmentID string               `json:"assignment_id"`
	Mission      *models.Mission      `json:"mission"`
	Truck        *models.Truck        `json:"truck"`
	Driver       *models.Driver       `json:"driver"`
	StartDate    *time.Time           `json:"start_date"`
	EndDate      *time.Time           `json:"end_date"`
	Utilization  *Utilization         `json:"utilization"`
	CargoItems   []CargoItemBreakdown `json:"cargo_items"`
}

// VendorAllocationSummary 供应商全部承运记录汇总
type VendorAllocationSummary struct {
	Assignments   []AssignmentView `json:"assignments"`
	TotalAssigned int64            `json:"total_assigned"`
	Total         int64            `json:"total"`
}

// MissionCargo 任务货物的剩余数量视图，vendorID 非 0 时要求供应商已承接该任务
func (s *AllocationQueryService) MissionCargo(vendorID uint, missionUniqueID string) (*MissionCargoView, error) {
	mission, err := s.missionRepo.GetByUniqueID(missionUniqueID)
	if err != nil {
		return nil, err
	}
	if mission == nil {
		return nil, ErrMissionNotFound
	}
	if vendorID != 0 {
		contracted, err := s.missionRepo.IsVendorContracted(vendorID, mission.ID)
		if err != nil {
			return nil, err
		}
		if !contracted {
			return nil, ErrAuthorization
		}
	}
	cargo, err := s.cargoRepo.GetByMissionID(mission.ID)
	if err != nil {
		return nil, err
	}
	if cargo == nil {
		return nil, ErrNoCargo
	}
	items, err := s.cargoRepo.ListItems(cargo.ID)
	if err != nil {
		return nil, err
	}
	breakdown, err := s.breakdownItems(items, nil)
	if err != nil {
		return nil, err
	}
	return &MissionCargoView{
		MissionID:             mission.UniqueID,
		CargoID:               cargo.UniqueID,
		TotalProductsQuantity: cargo.TotalProductsQuantity,
		Items:                 breakdown,
	}, nil
}

// AssignmentDetail 组装单个承运记录视图
func (s *AllocationQueryService) AssignmentDetail(assignment *models.TruckAssignment) (*AssignmentView, error) {
	if assignment == nil {
		return nil, ErrAssignmentNotFound
	}
	utilization, err := s.assignmentSvc.Utilization(assignment)
	if err != nil {
		return nil, err
	}

	items := make([]models.CargoItem, 0, len(assignment.Allocations))
	own := make(map[uint]int64, len(assignment.Allocations))
	for _, allocation := range assignment.Allocations {
		if allocation.CargoItem == nil {
			continue
		}
		items = append(items, *allocation.CargoItem)
		own[allocation.CargoItemID] = int64(allocation.TransferringQuantity)
	}
	breakdown, err := s.breakdownItems(items, own)
	if err != nil {
		return nil, err
	}

	view := &AssignmentView{
		AssignmentID: assignment.UniqueID,
		Mission:      assignment.Mission,
		Truck:        assignment.Truck,
		Driver:       assignment.Driver,
		StartDate:    assignment.StartDate,
		EndDate:      assignment.EndDate,
		Utilization:  utilization,
		CargoItems:   breakdown,
	}
	return view, nil
}

// VendorAssignments 供应商的全部承运记录及利用率
func (s *AllocationQueryService) VendorAssignments(vendorID uint, page, pageSize int) (*VendorAllocationSummary, error) {
	if vendorID == 0 {
		return nil, ErrVendorNotResolved
	}
	assignments, total, err := s.assignmentRepo.List(repository.AssignmentListFilter{
		Page:     page,
		PageSize: pageSize,
		VendorID: vendorID,
	})
	if err != nil {
		return nil, err
	}
	summary := &VendorAllocationSummary{
		Assignments: make([]AssignmentView, 0, len(assignments)),
		Total:       total,
	}
	for i := range assignments {
		view, err := s.AssignmentDetail(&assignments[i])
		if err != nil {
			return nil, err
		}
		summary.TotalAssigned += view.Utilization.Assigned
		summary.Assignments = append(summary.Assignments, *view)
	}
	return summary, nil
}

// breakdownItems own 为空时 transferring_quantity 为全部已分配量，否则为该承运记录自身的分配量
func (s *AllocationQueryService) breakdownItems(items []models.CargoItem, own map[uint]int64) ([]CargoItemBreakdown, error) {
	ids := make([]uint, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	allocated, err := s.assignmentRepo.SumAllocatedByItems(ids)
	if err != nil {
		return nil, err
	}

	result := make([]CargoItemBreakdown, 0, len(items))
	for _, item := range items {
		total := allocated[item.ID]
		remaining := int64(item.Quantity) - total
		if remaining < 0 {
			logger.Errorw("allocation_invariant_violation",
				"cargo_item_id", item.UniqueID,
				"quantity", item.Quantity,
				"allocated", total,
			)
			return nil, ErrInvariantViolation
		}
		transferring := total
		if own != nil {
			transferring = own[item.ID]
		}
		result = append(result, CargoItemBreakdown{
			CargoItemID:          item.UniqueID,
			Product:              item.Product,
			TotalQuantity:        item.Quantity,
			TransferringQuantity: transferring,
			Remaining:            remaining,
		})
	}
	return result, nil
}
