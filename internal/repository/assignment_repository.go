package repository

import (
	"errors"
	"strings"

	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/models"

	"gorm.io/gorm"
)

// AssignmentRepository 车辆承运记录与分配数据访问接口
type AssignmentRepository interface {
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) AssignmentRepository

	GetByID(id uint) (*models.TruckAssignment, error)
	GetByUniqueID(uniqueID string) (*models.TruckAssignment, error)
	GetByMissionAndTruck(missionID, truckID uint) (*models.TruckAssignment, error)
	GetDetail(id uint) (*models.TruckAssignment, error)
	List(filter AssignmentListFilter) ([]models.TruckAssignment, int64, error)
	Create(assignment *models.TruckAssignment) error
	Delete(id uint) error

	SumAllocatedForItem(cargoItemID uint, excludingAssignmentID uint) (int64, error)
	SumAllocatedForAssignment(assignmentID uint) (int64, error)
	SumAllocatedByItems(cargoItemIDs []uint) (map[uint]int64, error)
	ListAllocationsForPair(assignmentID, cargoItemID uint) ([]models.Allocation, error)
	ListAllocations(assignmentID uint) ([]models.Allocation, error)
	CreateAllocation(allocation *models.Allocation) error
	UpdateAllocationQuantity(id uint, quantity int) error
	DeleteAllocationsNotIn(assignmentID uint, keepCargoItemIDs []uint) (int64, error)
	AllocationTotals(cargoItemIDs []uint) ([]CargoItemAllocationTotal, error)
}

// GormAssignmentRepository GORM 实现
type GormAssignmentRepository struct {
	db *gorm.DB
}

// NewAssignmentRepository 创建承运记录仓库
func NewAssignmentRepository(db *gorm.DB) *GormAssignmentRepository {
	return &GormAssignmentRepository{db: db}
}

// WithTx 绑定事务
func (r *GormAssignmentRepository) WithTx(tx *gorm.DB) AssignmentRepository {
	if tx == nil {
		return r
	}
	return &GormAssignmentRepository{db: tx}
}

// Transaction 执行事务
func (r *GormAssignmentRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// GetByID 根据内部 ID 获取承运记录
func (r *GormAssignmentRepository) GetByID(id uint) (*models.TruckAssignment, error) {
	var assignment models.TruckAssignment
	if err := r.db.First(&assignment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &assignment, nil
}

// GetByUniqueID 根据对外标识获取承运记录
func (r *GormAssignmentRepository) GetByUniqueID(uniqueID string) (*models.TruckAssignment, error) {
	var assignment models.TruckAssignment
	if err := r.db.Where("unique_id = ?", strings.TrimSpace(uniqueID)).First(&assignment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &assignment, nil
}

// GetByMissionAndTruck 获取任务下某车辆的承运记录
func (r *GormAssignmentRepository) GetByMissionAndTruck(missionID, truckID uint) (*models.TruckAssignment, error) {
	var assignment models.TruckAssignment
	if err := r.db.Where("mission_id = ? AND truck_id = ?", missionID, truckID).First(&assignment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &assignment, nil
}

// GetDetail 获取承运记录及关联数据
func (r *GormAssignmentRepository) GetDetail(id uint) (*models.TruckAssignment, error) {
	var assignment models.TruckAssignment
	if err := r.db.
		Preload("Mission").
		Preload("Truck").
		Preload("Vendor").
		Preload("Driver").
		Preload("Allocations", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		Preload("Allocations.CargoItem").
		Preload("Allocations.CargoItem.Product").
		First(&assignment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &assignment, nil
}

// List 承运记录列表
func (r *GormAssignmentRepository) List(filter AssignmentListFilter) ([]models.TruckAssignment, int64, error) {
	query := r.db.Model(&models.TruckAssignment{})
	if filter.VendorID != 0 {
		query = query.Where("vendor_id = ?", filter.VendorID)
	}
	if filter.MissionID != 0 {
		query = query.Where("mission_id = ?", filter.MissionID)
	}
	if filter.TruckID != 0 {
		query = query.Where("truck_id = ?", filter.TruckID)
	}

	return findPage[models.TruckAssignment](query, filter.Page, filter.PageSize, "id DESC",
		"Mission", "Truck", "Driver", "Allocations", "Allocations.CargoItem", "Allocations.CargoItem.Product")
}

// Create 创建承运记录
func (r *GormAssignmentRepository) Create(assignment *models.TruckAssignment) error {
	return r.db.Omit("Allocations", "Mission", "Truck", "Vendor", "Driver").Create(assignment).Error
}

// Delete 删除承运记录及其分配
func (r *GormAssignmentRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("assignment_id = ?", id).Delete(&models.Allocation{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.TruckAssignment{}, id).Error
	})
}

// SumAllocatedForItem 汇总明细的已分配数量，excludingAssignmentID 非 0 时排除该承运记录
func (r *GormAssignmentRepository) SumAllocatedForItem(cargoItemID uint, excludingAssignmentID uint) (int64, error) {
	query := r.db.Model(&models.Allocation{}).Where("cargo_item_id = ?", cargoItemID)
	if excludingAssignmentID != 0 {
		query = query.Where("assignment_id <> ?", excludingAssignmentID)
	}
	var total int64
	if err := query.Select("COALESCE(SUM(transferring_quantity), 0)").Scan(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// SumAllocatedForAssignment 汇总承运记录的已装载数量
func (r *GormAssignmentRepository) SumAllocatedForAssignment(assignmentID uint) (int64, error) {
	var total int64
	if err := r.db.Model(&models.Allocation{}).
		Where("assignment_id = ?", assignmentID).
		Select("COALESCE(SUM(transferring_quantity), 0)").
		Scan(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// SumAllocatedByItems 批量汇总多个明细的已分配数量
func (r *GormAssignmentRepository) SumAllocatedByItems(cargoItemIDs []uint) (map[uint]int64, error) {
	result := make(map[uint]int64, len(cargoItemIDs))
	if len(cargoItemIDs) == 0 {
		return result, nil
	}
	var rows []struct {
		CargoItemID uint
		Total       int64
	}
	if err := r.db.Model(&models.Allocation{}).
		Select("cargo_item_id, COALESCE(SUM(transferring_quantity), 0) AS total").
		Where("cargo_item_id IN ?", cargoItemIDs).
		Group("cargo_item_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		result[row.CargoItemID] = row.Total
	}
	return result, nil
}

// ListAllocationsForPair 获取 (承运记录, 明细) 的分配行
func (r *GormAssignmentRepository) ListAllocationsForPair(assignmentID, cargoItemID uint) ([]models.Allocation, error) {
	var rows []models.Allocation
	if err := r.db.Where("assignment_id = ? AND cargo_item_id = ?", assignmentID, cargoItemID).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListAllocations 获取承运记录的全部分配
func (r *GormAssignmentRepository) ListAllocations(assignmentID uint) ([]models.Allocation, error) {
	var rows []models.Allocation
	if err := r.db.Where("assignment_id = ?", assignmentID).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// CreateAllocation 创建分配
func (r *GormAssignmentRepository) CreateAllocation(allocation *models.Allocation) error {
	return r.db.Omit("CargoItem").Create(allocation).Error
}

// UpdateAllocationQuantity 更新分配数量
func (r *GormAssignmentRepository) UpdateAllocationQuantity(id uint, quantity int) error {
	return r.db.Model(&models.Allocation{}).Where("id = ?", id).Update("transferring_quantity", quantity).Error
}

// DeleteAllocationsNotIn 删除承运记录下不在保留集合中的分配
func (r *GormAssignmentRepository) DeleteAllocationsNotIn(assignmentID uint, keepCargoItemIDs []uint) (int64, error) {
	query := r.db.Where("assignment_id = ?", assignmentID)
	if len(keepCargoItemIDs) > 0 {
		query = query.Where("cargo_item_id NOT IN ?", keepCargoItemIDs)
	}
	result := query.Delete(&models.Allocation{})
	return result.RowsAffected, result.Error
}

// AllocationTotals 对比明细数量与已分配数量，cargoItemIDs 为空时返回空
func (r *GormAssignmentRepository) AllocationTotals(cargoItemIDs []uint) ([]CargoItemAllocationTotal, error) {
	if len(cargoItemIDs) == 0 {
		return []CargoItemAllocationTotal{}, nil
	}
	var rows []CargoItemAllocationTotal
	if err := r.db.Table("cargo_items AS ci").
		Select("ci.id AS cargo_item_id, ci.unique_id AS cargo_item_unique_id, ci.quantity AS quantity, COALESCE(SUM(a.transferring_quantity), 0) AS allocated").
		Joins("LEFT JOIN truck_cargo_items AS a ON a.cargo_item_id = ci.id").
		Where("ci.id IN ?", cargoItemIDs).
		Group("ci.id, ci.unique_id, ci.quantity").
		Order("ci.id ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
