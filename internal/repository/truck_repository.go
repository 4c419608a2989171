package repository

import (
	"errors"
	"strings"

	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/models"

	"gorm.io/gorm"
)

// TruckRepository 车辆数据访问接口
type TruckRepository interface {
	List(filter TruckListFilter) ([]models.Truck, int64, error)
	GetByID(id uint) (*models.Truck, error)
	GetByUniqueID(uniqueID string) (*models.Truck, error)
	Create(truck *models.Truck) error
	Update(truck *models.Truck) error
	Delete(id uint) error
	WithTx(tx *gorm.DB) TruckRepository
}

// GormTruckRepository GORM 实现
type GormTruckRepository struct {
	db *gorm.DB
}

// NewTruckRepository 创建车辆仓库
func NewTruckRepository(db *gorm.DB) *GormTruckRepository {
	return &GormTruckRepository{db: db}
}

// WithTx 绑定事务
func (r *GormTruckRepository) WithTx(tx *gorm.DB) TruckRepository {
	if tx == nil {
		return r
	}
	return &GormTruckRepository{db: tx}
}

// List 车辆列表
func (r *GormTruckRepository) List(filter TruckListFilter) ([]models.Truck, int64, error) {
	query := r.db.Model(&models.Truck{})
	if filter.VendorID != 0 {
		query = query.Where("vendor_id = ?", filter.VendorID)
	}
	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("status = ?", status)
	}
	query = applySearch(query, filter.Search, "vehicle_name")

	return findPage[models.Truck](query, filter.Page, filter.PageSize, "id DESC")
}

// GetByID 根据内部 ID 获取车辆
func (r *GormTruckRepository) GetByID(id uint) (*models.Truck, error) {
	var truck models.Truck
	if err := r.db.First(&truck, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &truck, nil
}

// GetByUniqueID 根据对外标识获取车辆
func (r *GormTruckRepository) GetByUniqueID(uniqueID string) (*models.Truck, error) {
	var truck models.Truck
	if err := r.db.Where("unique_id = ?", strings.TrimSpace(uniqueID)).First(&truck).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &truck, nil
}

// Create 创建车辆
func (r *GormTruckRepository) Create(truck *models.Truck) error {
	return r.db.Create(truck).Error
}

// Update 更新车辆
func (r *GormTruckRepository) Update(truck *models.Truck) error {
	return r.db.Save(truck).Error
}

// Delete 删除车辆及其承运记录与分配
func (r *GormTruckRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		assignmentIDs := tx.Model(&models.TruckAssignment{}).Select("id").Where("truck_id = ?", id)
		if err := tx.Where("assignment_id IN (?)", assignmentIDs).Delete(&models.Allocation{}).Error; err != nil {
			return err
		}
		if err := tx.Where("truck_id = ?", id).Delete(&models.TruckAssignment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Truck{}, id).Error
	})
}
