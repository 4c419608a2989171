package service

import (
	"strings"
	"time"

	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/constants"
	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/models"
	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/repository"
)

// MissionService 任务、合同关系与任务货物管理
type MissionService struct {
	missionRepo repository.MissionRepository
	vendorRepo  repository.VendorRepository
	productRepo repository.ProductRepository
	cargoRepo   repository.CargoRepository
}

// NewMissionService 创建任务服务
func NewMissionService(
	missionRepo repository.MissionRepository,
	vendorRepo repository.VendorRepository,
	productRepo repository.ProductRepository,
	cargoRepo repository.CargoRepository,
) *MissionService {
	return &MissionService{
		missionRepo: missionRepo,
		vendorRepo:  vendorRepo,
		productRepo: productRepo,
		cargoRepo:   cargoRepo,
	}
}

// CreateMissionInput 创建任务输入
type CreateMissionInput struct {
	Title                 string
	Type                  string
	NumberOfBeneficiaries int
	Description           string
	DeptLocation          string
	DestinationLocation   string
	StartDate             time.Time
	EndDate               time.Time
	Status                string
}

// CargoItemInput 货物明细输入
type CargoItemInput struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// CreateCargoInput 创建任务货物输入
type CreateCargoInput struct {
	MissionID             string
	TotalProductsQuantity int
	Items                 []CargoItemInput
}

// CreateMission 创建任务
func (s *MissionService) CreateMission(input CreateMissionInput) (*models.Mission, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" || input.NumberOfBeneficiaries < 0 {
		return nil, ErrInvalidInput
	}
	switch input.Type {
	case constants.MissionTypeSpecialized, constants.MissionTypeRegular, constants.MissionTypeEmergency:
	default:
		return nil, ErrInvalidInput
	}
	status := strings.TrimSpace(input.Status)
	if status == "" {
		status = constants.MissionStatusPending
	}
	if !isMissionStatus(status) {
		return nil, ErrInvalidInput
	}
	if input.StartDate.IsZero() || input.EndDate.IsZero() {
		return nil, ErrInvalidInput
	}
	if input.EndDate.Before(input.StartDate) {
		return nil, ErrInvalidDateRange
	}

	mission := &models.Mission{
		Title:                 title,
		Type:                  input.Type,
		NumberOfBeneficiaries: input.NumberOfBeneficiaries,
		Description:           strings.TrimSpace(input.Description),
		DeptLocation:          strings.TrimSpace(input.DeptLocation),
		DestinationLocation:   strings.TrimSpace(input.DestinationLocation),
		StartDate:             input.StartDate,
		EndDate:               input.EndDate,
		Status:                status,
	}
	if err := s.missionRepo.Create(mission); err != nil {
		return nil, err
	}
	return mission, nil
}

// ListMissions 任务列表
func (s *MissionService) ListMissions(filter repository.MissionListFilter) ([]models.Mission, int64, error) {
	return s.missionRepo.List(filter)
}

// GetMission 获取任务
func (s *MissionService) GetMission(uniqueID string) (*models.Mission, error) {
	mission, err := s.missionRepo.GetByUniqueID(uniqueID)
	if err != nil {
		return nil, err
	}
	if mission == nil {
		return nil, ErrMissionNotFound
	}
	return mission, nil
}

// UpdateMissionStatus 更新任务状态
func (s *MissionService) UpdateMissionStatus(uniqueID, status string) (*models.Mission, error) {
	status = strings.TrimSpace(status)
	if !isMissionStatus(status) {
		return nil, ErrInvalidInput
	}
	mission, err := s.GetMission(uniqueID)
	if err != nil {
		return nil, err
	}
	mission.Status = status
	if err := s.missionRepo.Update(mission); err != nil {
		return nil, err
	}
	return mission, nil
}

// DeleteMission 删除任务，级联删除货物、承运记录与分配
func (s *MissionService) DeleteMission(uniqueID string) error {
	mission, err := s.GetMission(uniqueID)
	if err != nil {
		return err
	}
	return s.missionRepo.Delete(mission.ID)
}

// ContractVendor 建立供应商与任务的合同关系
func (s *MissionService) ContractVendor(vendorUniqueID, missionUniqueID string) (*models.VendorMission, error) {
	vendor, err := s.vendorRepo.GetByUniqueID(vendorUniqueID)
	if err != nil {
		return nil, err
	}
	if vendor == nil {
		return nil, ErrVendorNotFound
	}
	mission, err := s.GetMission(missionUniqueID)
	if err != nil {
		return nil, err
	}
	existing, err := s.missionRepo.GetVendorMission(vendor.ID, mission.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrVendorMissionExists
	}
	row := &models.VendorMission{VendorID: vendor.ID, MissionID: mission.ID}
	if err := s.missionRepo.CreateVendorMission(row); err != nil {
		return nil, err
	}
	row.Vendor = vendor
	row.Mission = mission
	return row, nil
}

// ListVendorMissions 合同关系列表，参数留空表示不过滤
func (s *MissionService) ListVendorMissions(vendorUniqueID, missionUniqueID string) ([]models.VendorMission, error) {
	var vendorID, missionID uint
	if strings.TrimSpace(vendorUniqueID) != "" {
		vendor, err := s.vendorRepo.GetByUniqueID(vendorUniqueID)
		if err != nil {
			return nil, err
		}
		if vendor == nil {
			return nil, ErrVendorNotFound
		}
		vendorID = vendor.ID
	}
	if strings.TrimSpace(missionUniqueID) != "" {
		mission, err := s.GetMission(missionUniqueID)
		if err != nil {
			return nil, err
		}
		missionID = mission.ID
	}
	return s.missionRepo.ListVendorMissions(vendorID, missionID)
}

// DeleteVendorMission 解除合同关系
func (s *MissionService) DeleteVendorMission(uniqueID string) error {
	row, err := s.missionRepo.GetVendorMissionByUniqueID(uniqueID)
	if err != nil {
		return err
	}
	if row == nil {
		return ErrVendorMissionNotFound
	}
	return s.missionRepo.DeleteVendorMission(row.ID)
}

// CreateCargo 为任务创建货物及其明细（同一商品不可重复）
func (s *MissionService) CreateCargo(input CreateCargoInput) (*models.Cargo, error) {
	if input.TotalProductsQuantity < 0 {
		return nil, ErrInvalidInput
	}
	mission, err := s.GetMission(input.MissionID)
	if err != nil {
		return nil, err
	}
	existing, err := s.cargoRepo.GetByMissionID(mission.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrCargoExists
	}

	items := make([]models.CargoItem, 0, len(input.Items))
	seen := make(map[uint]struct{}, len(input.Items))
	for _, in := range input.Items {
		item, err := s.buildCargoItem(in)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[item.ProductID]; dup {
			return nil, ErrDuplicateCargoItem
		}
		seen[item.ProductID] = struct{}{}
		item.Product = nil
		items = append(items, *item)
	}

	cargo := &models.Cargo{
		MissionID:             mission.ID,
		TotalProductsQuantity: input.TotalProductsQuantity,
		Items:                 items,
	}
	if err := s.cargoRepo.Create(cargo); err != nil {
		return nil, err
	}
	return cargo, nil
}

// GetCargo 获取任务货物及明细
func (s *MissionService) GetCargo(missionUniqueID string) (*models.Cargo, error) {
	mission, err := s.GetMission(missionUniqueID)
	if err != nil {
		return nil, err
	}
	cargo, err := s.cargoRepo.GetByMissionID(mission.ID)
	if err != nil {
		return nil, err
	}
	if cargo == nil {
		return nil, ErrCargoNotFound
	}
	items, err := s.cargoRepo.ListItems(cargo.ID)
	if err != nil {
		return nil, err
	}
	cargo.Items = items
	return cargo, nil
}

// DeleteCargo 删除货物，明细与分配一并删除
func (s *MissionService) DeleteCargo(uniqueID string) error {
	cargo, err := s.cargoRepo.GetByUniqueID(uniqueID)
	if err != nil {
		return err
	}
	if cargo == nil {
		return ErrCargoNotFound
	}
	return s.cargoRepo.Delete(cargo.ID)
}

// AddCargoItem 向货物追加明细
func (s *MissionService) AddCargoItem(cargoUniqueID string, input CargoItemInput) (*models.CargoItem, error) {
	cargo, err := s.cargoRepo.GetByUniqueID(cargoUniqueID)
	if err != nil {
		return nil, err
	}
	if cargo == nil {
		return nil, ErrCargoNotFound
	}
	item, err := s.buildCargoItem(input)
	if err != nil {
		return nil, err
	}
	existing, err := s.cargoRepo.ListItems(cargo.ID)
	if err != nil {
		return nil, err
	}
	for _, row := range existing {
		if row.ProductID == item.ProductID {
			return nil, ErrDuplicateCargoItem
		}
	}
	product := item.Product
	item.CargoID = cargo.ID
	item.Product = nil
	if err := s.cargoRepo.CreateItem(item); err != nil {
		return nil, err
	}
	item.Product = product
	return item, nil
}

// DeleteCargoItem 删除货物明细，其上的全部分配在同一事务内删除
func (s *MissionService) DeleteCargoItem(uniqueID string) error {
	item, err := s.cargoRepo.GetItemByUniqueID(uniqueID)
	if err != nil {
		return err
	}
	if item == nil {
		return ErrCargoItemNotFound
	}
	return s.cargoRepo.DeleteItem(item.ID)
}

func (s *MissionService) buildCargoItem(input CargoItemInput) (*models.CargoItem, error) {
	if input.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	product, err := s.productRepo.GetByUniqueID(input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return &models.CargoItem{ProductID: product.ID, Quantity: input.Quantity, Product: product}, nil
}

func isMissionStatus(status string) bool {
	switch status {
	case constants.MissionStatusPending, constants.MissionStatusActive, constants.MissionStatusCompleted:
		return true
	}
	return false
}
