package service

import (
	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/logger"
	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/models"
	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/repository"

	"gorm.io/gorm"
)

// AllocationLedger 货物明细分配台账
// 剩余数量每次都在调用方事务内实时汇总，不做缓存
type AllocationLedger struct {
	cargoRepo      repository.CargoRepository
	assignmentRepo repository.AssignmentRepository
}

// NewAllocationLedger 创建分配台账
func NewAllocationLedger(cargoRepo repository.CargoRepository, assignmentRepo repository.AssignmentRepository) *AllocationLedger {
	return &AllocationLedger{
		cargoRepo:      cargoRepo,
		assignmentRepo: assignmentRepo,
	}
}

// WithTx 绑定事务
func (l *AllocationLedger) WithTx(tx *gorm.DB) *AllocationLedger {
	if tx == nil {
		return l
	}
	return &AllocationLedger{
		cargoRepo:      l.cargoRepo.WithTx(tx),
		assignmentRepo: l.assignmentRepo.WithTx(tx),
	}
}

// RemainingQuantity 明细剩余可分配数量，excludingAssignmentID 非 0 时不计该承运记录自身的分配
func (l *AllocationLedger) RemainingQuantity(item *models.CargoItem, excludingAssignmentID uint) (int, error) {
	if item == nil {
		return 0, ErrCargoItemNotFound
	}
	allocated, err := l.assignmentRepo.SumAllocatedForItem(item.ID, excludingAssignmentID)
	if err != nil {
		return 0, err
	}
	remaining := int64(item.Quantity) - allocated
	if remaining < 0 {
		logger.Errorw("allocation_invariant_violation",
			"cargo_item_id", item.UniqueID,
			"quantity", item.Quantity,
			"allocated", allocated,
			"excluding_assignment_id", excludingAssignmentID,
		)
		return 0, ErrInvariantViolation
	}
	return int(remaining), nil
}

// CanAllocate 判断请求数量是否可分配，数量非正时返回 ErrInvalidQuantity
func (l *AllocationLedger) CanAllocate(item *models.CargoItem, requested int, excludingAssignmentID uint) (bool, error) {
	if requested < 1 {
		return false, ErrInvalidQuantity
	}
	remaining, err := l.RemainingQuantity(item, excludingAssignmentID)
	if err != nil {
		return false, err
	}
	return requested <= remaining, nil
}

// CheckAllocation 加锁明细后校验可分配数量，不足时返回 *OverAllocationError
// 锁在事务结束前一直持有，后续写入不会被并发分配抢占
func (l *AllocationLedger) CheckAllocation(itemID uint, requested int, excludingAssignmentID uint) (*models.CargoItem, error) {
	if requested < 1 {
		return nil, ErrInvalidQuantity
	}
	item, err := l.cargoRepo.GetItemForUpdate(itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrCargoItemNotFound
	}
	remaining, err := l.RemainingQuantity(item, excludingAssignmentID)
	if err != nil {
		return item, err
	}
	if requested > remaining {
		return item, &OverAllocationError{
			CargoItemID: item.UniqueID,
			Requested:   requested,
			Available:   remaining,
		}
	}
	return item, nil
}

// UpsertAllocation 创建或替换 (承运记录, 明细) 的唯一分配行
// 校验时排除该承运记录自身的旧分配，调整自身数量不会被重复计算
func (l *AllocationLedger) UpsertAllocation(assignment *models.TruckAssignment, item *models.CargoItem, quantity int) (*models.Allocation, error) {
	if assignment == nil || assignment.ID == 0 {
		return nil, ErrAssignmentNotFound
	}
	if item == nil {
		return nil, ErrCargoItemNotFound
	}
	if _, err := l.CheckAllocation(item.ID, quantity, assignment.ID); err != nil {
		return nil, err
	}

	rows, err := l.assignmentRepo.ListAllocationsForPair(assignment.ID, item.ID)
	if err != nil {
		return nil, err
	}
	switch len(rows) {
	case 0:
		allocation := &models.Allocation{
			AssignmentID:         assignment.ID,
			CargoItemID:          item.ID,
			TransferringQuantity: quantity,
		}
		if err := l.assignmentRepo.CreateAllocation(allocation); err != nil {
			return nil, err
		}
		return allocation, nil
	case 1:
		allocation := rows[0]
		if allocation.TransferringQuantity != quantity {
			if err := l.assignmentRepo.UpdateAllocationQuantity(allocation.ID, quantity); err != nil {
				return nil, err
			}
			allocation.TransferringQuantity = quantity
		}
		return &allocation, nil
	default:
		logger.Errorw("allocation_invariant_violation",
			"reason", "duplicate_allocation_rows",
			"assignment_id", assignment.UniqueID,
			"cargo_item_id", item.UniqueID,
			"rows", len(rows),
		)
		return nil, ErrInvariantViolation
	}
}

// RemoveAllocationsNotIn 删除承运记录下不在保留集合中的全部分配
func (l *AllocationLedger) RemoveAllocationsNotIn(assignment *models.TruckAssignment, keepCargoItemIDs []uint) (int64, error) {
	if assignment == nil || assignment.ID == 0 {
		return 0, ErrAssignmentNotFound
	}
	return l.assignmentRepo.DeleteAllocationsNotIn(assignment.ID, keepCargoItemIDs)
}
