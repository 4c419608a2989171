package service

import (
	"strings"

	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/constants"
	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/logger"
	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/models"
	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/repository"
)

// VendorService 供应商管理
type VendorService struct {
	vendorRepo   repository.VendorRepository
	documentRepo repository.DocumentRepository
}

// NewVendorService 创建供应商服务
func NewVendorService(vendorRepo repository.VendorRepository, documentRepo repository.DocumentRepository) *VendorService {
	return &VendorService{vendorRepo: vendorRepo, documentRepo: documentRepo}
}

// CreateVendorInput 创建供应商输入
type CreateVendorInput struct {
	Name        string
	RegNo       string
	VendorType  string
	FleetSize   int
	Description string
	Status      string
}

// Create 创建供应商，注册编号留空时自动生成
func (s *VendorService) Create(input CreateVendorInput) (*models.Vendor, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" || input.FleetSize < 0 {
		return nil, ErrInvalidInput
	}
	vendorType := strings.TrimSpace(input.VendorType)
	switch vendorType {
	case constants.VendorTypeFoodSupplier, constants.VendorTypeLogisticProvider, constants.VendorTypeMixed:
	default:
		return nil, ErrInvalidInput
	}
	status := strings.TrimSpace(input.Status)
	switch status {
	case "", constants.VendorStatusPending, constants.VendorStatusApproved, constants.VendorStatusSuspended:
	default:
		return nil, ErrInvalidInput
	}

	regNo := strings.TrimSpace(input.RegNo)
	if regNo != "" {
		existing, err := s.vendorRepo.GetByRegNo(regNo)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, ErrVendorRegNoExists
		}
	}

	vendor := &models.Vendor{
		Name:        name,
		RegNo:       regNo,
		VendorType:  vendorType,
		FleetSize:   input.FleetSize,
		Description: strings.TrimSpace(input.Description),
		Status:      status,
	}
	if err := s.vendorRepo.Create(vendor); err != nil {
		return nil, err
	}
	return vendor, nil
}

// List 供应商列表
func (s *VendorService) List(filter repository.VendorListFilter) ([]models.Vendor, int64, error) {
	return s.vendorRepo.List(filter)
}

// Get 根据对外标识获取供应商
func (s *VendorService) Get(uniqueID string) (*models.Vendor, error) {
	vendor, err := s.vendorRepo.GetByUniqueID(uniqueID)
	if err != nil {
		return nil, err
	}
	if vendor == nil {
		return nil, ErrVendorNotFound
	}
	return vendor, nil
}

// UpdateStatus 更新供应商审核状态
func (s *VendorService) UpdateStatus(uniqueID, status string) (*models.Vendor, error) {
	status = strings.TrimSpace(status)
	switch status {
	case constants.VendorStatusPending, constants.VendorStatusApproved, constants.VendorStatusSuspended:
	default:
		return nil, ErrInvalidInput
	}
	vendor, err := s.Get(uniqueID)
	if err != nil {
		return nil, err
	}
	vendor.Status = status
	if err := s.vendorRepo.Update(vendor); err != nil {
		return nil, err
	}
	return vendor, nil
}

// Delete 删除供应商，名下车辆、承运记录与分配等一并删除，剩余数量随之释放
func (s *VendorService) Delete(uniqueID string) error {
	vendor, err := s.Get(uniqueID)
	if err != nil {
		return err
	}
	var documentPaths []string
	if s.documentRepo != nil {
		documentPaths, err = s.documentRepo.ListStoragePathsByVendor(vendor.ID)
		if err != nil {
			return err
		}
	}
	if err := s.vendorRepo.Delete(vendor.ID); err != nil {
		return err
	}
	for _, path := range documentPaths {
		removeStoredFile(path)
	}
	logger.Infow("vendor_deleted", "vendor_id", vendor.UniqueID, "documents_removed", len(documentPaths))
	return nil
}
