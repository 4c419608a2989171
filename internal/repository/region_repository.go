package repository

import (
	"errors"
	"strings"

	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/models"

	"gorm.io/gorm"
)

// RegionRepository 区域与供应商作业区域数据访问接口
type RegionRepository interface {
	List(filter RegionListFilter) ([]models.Region, int64, error)
	GetByUniqueID(uniqueID string) (*models.Region, error)
	GetByName(name string) (*models.Region, error)
	Create(region *models.Region) error
	Delete(id uint) error
	ListOperationRegions(filter OperationRegionListFilter) ([]models.OperationRegion, int64, error)
	GetOperationRegion(vendorID, regionID uint) (*models.OperationRegion, error)
	GetOperationRegionByUniqueID(uniqueID string) (*models.OperationRegion, error)
	CreateOperationRegion(row *models.OperationRegion) error
	DeleteOperationRegion(id uint) error
}

// GormRegionRepository GORM 实现
type GormRegionRepository struct {
	db *gorm.DB
}

// NewRegionRepository 创建区域仓库
func NewRegionRepository(db *gorm.DB) *GormRegionRepository {
	return &GormRegionRepository{db: db}
}

// List 区域列表
func (r *GormRegionRepository) List(filter RegionListFilter) ([]models.Region, int64, error) {
	query := applySearch(r.db.Model(&models.Region{}), filter.Search, "region_name")
	return findPage[models.Region](query, filter.Page, filter.PageSize, "region_name ASC, id ASC")
}

// GetByUniqueID 根据对外标识获取区域
func (r *GormRegionRepository) GetByUniqueID(uniqueID string) (*models.Region, error) {
	return firstRegion(r.db.Where("unique_id = ?", strings.TrimSpace(uniqueID)))
}

// GetByName 根据名称获取区域
func (r *GormRegionRepository) GetByName(name string) (*models.Region, error) {
	return firstRegion(r.db.Where("region_name = ?", strings.TrimSpace(name)))
}

func firstRegion(query *gorm.DB) (*models.Region, error) {
	var region models.Region
	if err := query.First(&region).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &region, nil
}

// Create 创建区域
func (r *GormRegionRepository) Create(region *models.Region) error {
	return r.db.Create(region).Error
}

// Delete 删除区域及其供应商作业区域
func (r *GormRegionRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("region_id = ?", id).Delete(&models.OperationRegion{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Region{}, id).Error
	})
}

// ListOperationRegions 供应商作业区域列表
func (r *GormRegionRepository) ListOperationRegions(filter OperationRegionListFilter) ([]models.OperationRegion, int64, error) {
	query := r.db.Model(&models.OperationRegion{})
	if filter.VendorID != 0 {
		query = query.Where("vendor_id = ?", filter.VendorID)
	}
	if filter.RegionID != 0 {
		query = query.Where("region_id = ?", filter.RegionID)
	}
	return findPage[models.OperationRegion](query, filter.Page, filter.PageSize, "id DESC", "Region", "Vendor")
}

// GetOperationRegion 获取供应商在某区域的作业关系
func (r *GormRegionRepository) GetOperationRegion(vendorID, regionID uint) (*models.OperationRegion, error) {
	return firstOperationRegion(r.db.Where("vendor_id = ? AND region_id = ?", vendorID, regionID))
}

// GetOperationRegionByUniqueID 根据对外标识获取作业区域
func (r *GormRegionRepository) GetOperationRegionByUniqueID(uniqueID string) (*models.OperationRegion, error) {
	return firstOperationRegion(r.db.Preload("Region").Preload("Vendor").Where("unique_id = ?", strings.TrimSpace(uniqueID)))
}

func firstOperationRegion(query *gorm.DB) (*models.OperationRegion, error) {
	var row models.OperationRegion
	if err := query.First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// CreateOperationRegion 创建作业区域
func (r *GormRegionRepository) CreateOperationRegion(row *models.OperationRegion) error {
	return r.db.Create(row).Error
}

// DeleteOperationRegion 删除作业区域
func (r *GormRegionRepository) DeleteOperationRegion(id uint) error {
	return r.db.Delete(&models.OperationRegion{}, id).Error
}
