package repository

import (
	"errors"
	"strings"

	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/models"

	"gorm.io/gorm"
)

// DriverRepository 司机数据访问接口
type DriverRepository interface {
	List(filter DriverListFilter) ([]models.Driver, int64, error)
	GetByID(id uint) (*models.Driver, error)
	GetByUniqueID(uniqueID string) (*models.Driver, error)
	Create(driver *models.Driver) error
	Delete(id uint) error
	WithTx(tx *gorm.DB) DriverRepository
}

// GormDriverRepository GORM 实现
type GormDriverRepository struct {
	db *gorm.DB
}

// NewDriverRepository 创建司机仓库
func NewDriverRepository(db *gorm.DB) *GormDriverRepository {
	return &GormDriverRepository{db: db}
}

// WithTx 绑定事务
func (r *GormDriverRepository) WithTx(tx *gorm.DB) DriverRepository {
	if tx == nil {
		return r
	}
	return &GormDriverRepository{db: tx}
}

// List 司机列表
func (r *GormDriverRepository) List(filter DriverListFilter) ([]models.Driver, int64, error) {
	query := r.db.Model(&models.Driver{})
	if filter.VendorID != 0 {
		query = query.Where("vendor_id = ?", filter.VendorID)
	}
	query = applySearch(query, filter.Search, "first_name", "last_name", "email", "phone_number")

	return findPage[models.Driver](query, filter.Page, filter.PageSize, "id DESC", "Vendor")
}

// GetByID 根据内部 ID 获取司机
func (r *GormDriverRepository) GetByID(id uint) (*models.Driver, error) {
	var driver models.Driver
	if err := r.db.First(&driver, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &driver, nil
}

// GetByUniqueID 根据对外标识获取司机
func (r *GormDriverRepository) GetByUniqueID(uniqueID string) (*models.Driver, error) {
	var driver models.Driver
	if err := r.db.Where("unique_id = ?", strings.TrimSpace(uniqueID)).First(&driver).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &driver, nil
}

// Create 创建司机
func (r *GormDriverRepository) Create(driver *models.Driver) error {
	return r.db.Create(driver).Error
}

// Delete 删除司机，已有承运记录的司机引用置空
func (r *GormDriverRepository) Delete(id uint) error {
	if err := r.db.Model(&models.TruckAssignment{}).Where("driver_id = ?", id).Update("driver_id", nil).Error; err != nil {
		return err
	}
	return r.db.Delete(&models.Driver{}, id).Error
}
