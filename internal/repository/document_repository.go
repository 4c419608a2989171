package repository

import (
	"errors"
	"strings"

	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/models"

	"gorm.io/gorm"
)

// DocumentRepository 供应商文件数据访问接口
type DocumentRepository interface {
	List(filter DocumentListFilter) ([]models.VendorDocument, int64, error)
	GetByUniqueID(uniqueID string) (*models.VendorDocument, error)
	ListStoragePathsByVendor(vendorID uint) ([]string, error)
	Create(doc *models.VendorDocument) error
	Delete(id uint) error
}

// GormDocumentRepository GORM 实现
type GormDocumentRepository struct {
	db *gorm.DB
}

// NewDocumentRepository 创建供应商文件仓库
func NewDocumentRepository(db *gorm.DB) *GormDocumentRepository {
	return &GormDocumentRepository{db: db}
}

// List 文件列表
func (r *GormDocumentRepository) List(filter DocumentListFilter) ([]models.VendorDocument, int64, error) {
	query := r.db.Model(&models.VendorDocument{})
	if filter.VendorID != 0 {
		query = query.Where("vendor_id = ?", filter.VendorID)
	}
	return findPage[models.VendorDocument](query, filter.Page, filter.PageSize, "id DESC")
}

// GetByUniqueID 根据对外标识获取文件
func (r *GormDocumentRepository) GetByUniqueID(uniqueID string) (*models.VendorDocument, error) {
	var doc models.VendorDocument
	if err := r.db.Where("unique_id = ?", strings.TrimSpace(uniqueID)).First(&doc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &doc, nil
}

// ListStoragePathsByVendor 供应商全部文件的存储路径
func (r *GormDocumentRepository) ListStoragePathsByVendor(vendorID uint) ([]string, error) {
	paths := make([]string, 0)
	if err := r.db.Model(&models.VendorDocument{}).Where("vendor_id = ?", vendorID).Pluck("storage_path", &paths).Error; err != nil {
		return nil, err
	}
	return paths, nil
}

// Create 创建文件记录
func (r *GormDocumentRepository) Create(doc *models.VendorDocument) error {
	return r.db.Create(doc).Error
}

// Delete 删除文件记录
func (r *GormDocumentRepository) Delete(id uint) error {
	return r.db.Delete(&models.VendorDocument{}, id).Error
}
