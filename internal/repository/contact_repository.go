package repository

import (
	"errors"
	"strings"

	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/models"

	"gorm.io/gorm"
)

// ContactRepository 联系人（用户-供应商关联）数据访问接口
type ContactRepository interface {
	GetByUserID(userID uint) (*models.Contact, error)
	GetByUniqueID(uniqueID string) (*models.Contact, error)
	ListByVendor(vendorID uint) ([]models.Contact, error)
	Create(contact *models.Contact) error
	Delete(id uint) error
}

// GormContactRepository GORM 实现
type GormContactRepository struct {
	db *gorm.DB
}

// NewContactRepository 创建联系人仓库
func NewContactRepository(db *gorm.DB) *GormContactRepository {
	return &GormContactRepository{db: db}
}

// GetByUserID 获取用户所属的供应商关联
func (r *GormContactRepository) GetByUserID(userID uint) (*models.Contact, error) {
	if userID == 0 {
		return nil, nil
	}
	var contact models.Contact
	if err := r.db.Preload("Vendor").Where("user_id = ?", userID).First(&contact).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &contact, nil
}

// GetByUniqueID 根据对外标识获取联系人
func (r *GormContactRepository) GetByUniqueID(uniqueID string) (*models.Contact, error) {
	var contact models.Contact
	if err := r.db.Preload("User").Preload("Vendor").
		Where("unique_id = ?", strings.TrimSpace(uniqueID)).First(&contact).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &contact, nil
}

// ListByVendor 获取供应商的全部联系人
func (r *GormContactRepository) ListByVendor(vendorID uint) ([]models.Contact, error) {
	var contacts []models.Contact
	if err := r.db.Preload("User").Where("vendor_id = ?", vendorID).Order("id ASC").Find(&contacts).Error; err != nil {
		return nil, err
	}
	return contacts, nil
}

// Create 创建联系人
func (r *GormContactRepository) Create(contact *models.Contact) error {
	return r.db.Omit("User", "Vendor").Create(contact).Error
}

// Delete 删除联系人
func (r *GormContactRepository) Delete(id uint) error {
	return r.db.Delete(&models.Contact{}, id).Error
}
