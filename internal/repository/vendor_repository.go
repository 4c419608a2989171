package repository

import (
	"errors"
	"strings"

	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/models"

	"gorm.io/gorm"
)

// VendorRepository 供应商数据访问接口
type VendorRepository interface {
	List(filter VendorListFilter) ([]models.Vendor, int64, error)
	GetByID(id uint) (*models.Vendor, error)
	GetByUniqueID(uniqueID string) (*models.Vendor, error)
	GetByRegNo(regNo string) (*models.Vendor, error)
	Create(vendor *models.Vendor) error
	Update(vendor *models.Vendor) error
	Delete(id uint) error
	WithTx(tx *gorm.DB) VendorRepository
}

// GormVendorRepository GORM 实现
type GormVendorRepository struct {
	db *gorm.DB
}

// NewVendorRepository 创建供应商仓库
func NewVendorRepository(db *gorm.DB) *GormVendorRepository {
	return &GormVendorRepository{db: db}
}

// WithTx 绑定事务
func (r *GormVendorRepository) WithTx(tx *gorm.DB) VendorRepository {
	if tx == nil {
		return r
	}
	return &GormVendorRepository{db: tx}
}

// List 供应商列表
func (r *GormVendorRepository) List(filter VendorListFilter) ([]models.Vendor, int64, error) {
	query := r.db.Model(&models.Vendor{})
	if vendorType := strings.TrimSpace(filter.VendorType); vendorType != "" {
		query = query.Where("vendor_type = ?", vendorType)
	}
	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("status = ?", status)
	}
	query = applySearch(query, filter.Search, "name", "reg_no")

	return findPage[models.Vendor](query, filter.Page, filter.PageSize, "id DESC")
}

// GetByID 根据内部 ID 获取供应商
func (r *GormVendorRepository) GetByID(id uint) (*models.Vendor, error) {
	var vendor models.Vendor
	if err := r.db.First(&vendor, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &vendor, nil
}

// GetByUniqueID 根据对外标识获取供应商
func (r *GormVendorRepository) GetByUniqueID(uniqueID string) (*models.Vendor, error) {
	var vendor models.Vendor
	if err := r.db.Where("unique_id = ?", strings.TrimSpace(uniqueID)).First(&vendor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &vendor, nil
}

// GetByRegNo 根据注册编号获取供应商
func (r *GormVendorRepository) GetByRegNo(regNo string) (*models.Vendor, error) {
	var vendor models.Vendor
	if err := r.db.Where("reg_no = ?", strings.TrimSpace(regNo)).First(&vendor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &vendor, nil
}

// Create 创建供应商
func (r *GormVendorRepository) Create(vendor *models.Vendor) error {
	return r.db.Create(vendor).Error
}

// Update 更新供应商
func (r *GormVendorRepository) Update(vendor *models.Vendor) error {
	return r.db.Save(vendor).Error
}

// Delete 删除供应商及其名下全部数据：承运记录与分配、车辆、司机、联系人、任务合同、作业区域、文件记录
func (r *GormVendorRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		truckIDs := tx.Model(&models.Truck{}).Select("id").Where("vendor_id = ?", id)
		driverIDs := tx.Model(&models.Driver{}).Select("id").Where("vendor_id = ?", id)
		assignmentIDs := tx.Model(&models.TruckAssignment{}).Select("id").
			Where("vendor_id = ? OR truck_id IN (?)", id, truckIDs)
		if err := tx.Where("assignment_id IN (?)", assignmentIDs).Delete(&models.Allocation{}).Error; err != nil {
			return err
		}
		if err := tx.Where("vendor_id = ? OR truck_id IN (?)", id, truckIDs).Delete(&models.TruckAssignment{}).Error; err != nil {
			return err
		}
		// 其他供应商承运记录引用的本供应商司机置空
		if err := tx.Model(&models.TruckAssignment{}).Where("driver_id IN (?)", driverIDs).Update("driver_id", nil).Error; err != nil {
			return err
		}
		for _, model := range []interface{}{
			&models.Truck{},
			&models.Driver{},
			&models.Contact{},
			&models.VendorMission{},
			&models.OperationRegion{},
			&models.VendorDocument{},
		} {
			if err := tx.Where("vendor_id = ?", id).Delete(model).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&models.Vendor{}, id).Error
	})
}
