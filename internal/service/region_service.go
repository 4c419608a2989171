package service

import (
	"strings"

	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/models"
	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/repository"
)

// RegionService 区域与供应商作业区域管理
type RegionService struct {
	regionRepo repository.RegionRepository
	vendorRepo repository.VendorRepository
}

// NewRegionService 创建区域服务
func NewRegionService(regionRepo repository.RegionRepository, vendorRepo repository.VendorRepository) *RegionService {
	return &RegionService{regionRepo: regionRepo, vendorRepo: vendorRepo}
}

// CreateRegion 创建区域，名称唯一
func (s *RegionService) CreateRegion(name string) (*models.Region, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidInput
	}
	existing, err := s.regionRepo.GetByName(name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrRegionExists
	}
	region := &models.Region{RegionName: name}
	if err := s.regionRepo.Create(region); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrRegionExists
		}
		return nil, err
	}
	return region, nil
}

// ListRegions 区域列表
func (s *RegionService) ListRegions(filter repository.RegionListFilter) ([]models.Region, int64, error) {
	return s.regionRepo.List(filter)
}

// GetRegion 根据对外标识获取区域
func (s *RegionService) GetRegion(uniqueID string) (*models.Region, error) {
	region, err := s.regionRepo.GetByUniqueID(uniqueID)
	if err != nil {
		return nil, err
	}
	if region == nil {
		return nil, ErrRegionNotFound
	}
	return region, nil
}

// DeleteRegion 删除区域，供应商在该区域的作业关系一并删除
func (s *RegionService) DeleteRegion(uniqueID string) error {
	region, err := s.GetRegion(uniqueID)
	if err != nil {
		return err
	}
	return s.regionRepo.Delete(region.ID)
}

// AssignVendorRegion 登记供应商的作业区域
func (s *RegionService) AssignVendorRegion(vendorUniqueID, regionUniqueID string) (*models.OperationRegion, error) {
	vendor, err := s.vendorRepo.GetByUniqueID(vendorUniqueID)
	if err != nil {
		return nil, err
	}
	if vendor == nil {
		return nil, ErrVendorNotFound
	}
	region, err := s.GetRegion(regionUniqueID)
	if err != nil {
		return nil, err
	}
	existing, err := s.regionRepo.GetOperationRegion(vendor.ID, region.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrOperationRegionExists
	}
	row := &models.OperationRegion{RegionID: region.ID, VendorID: vendor.ID}
	if err := s.regionRepo.CreateOperationRegion(row); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrOperationRegionExists
		}
		return nil, err
	}
	row.Region = region
	row.Vendor = vendor
	return row, nil
}

// OperationRegionQuery 作业区域查询条件（对外标识）
type OperationRegionQuery struct {
	Page     int
	PageSize int
	VendorID string
	RegionID string
}

// ListOperationRegions 作业区域列表，可按供应商或区域过滤
func (s *RegionService) ListOperationRegions(query OperationRegionQuery) ([]models.OperationRegion, int64, error) {
	filter := repository.OperationRegionListFilter{Page: query.Page, PageSize: query.PageSize}
	if vendorID := strings.TrimSpace(query.VendorID); vendorID != "" {
		vendor, err := s.vendorRepo.GetByUniqueID(vendorID)
		if err != nil {
			return nil, 0, err
		}
		if vendor == nil {
			return nil, 0, ErrVendorNotFound
		}
		filter.VendorID = vendor.ID
	}
	if regionID := strings.TrimSpace(query.RegionID); regionID != "" {
		region, err := s.GetRegion(regionID)
		if err != nil {
			return nil, 0, err
		}
		filter.RegionID = region.ID
	}
	return s.regionRepo.ListOperationRegions(filter)
}

// DeleteOperationRegion 删除作业区域
func (s *RegionService) DeleteOperationRegion(uniqueID string) error {
	row, err := s.regionRepo.GetOperationRegionByUniqueID(uniqueID)
	if err != nil {
		return err
	}
	if row == nil {
		return ErrOperationRegionNotFound
	}
	return s.regionRepo.DeleteOperationRegion(row.ID)
}
