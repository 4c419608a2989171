package service

import (
	"strings"

	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/constants"
	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/models"
	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/repository"
)

// FleetService 物资、司机与车辆管理
type FleetService struct {
	vendorRepo  repository.VendorRepository
	productRepo repository.ProductRepository
	driverRepo  repository.DriverRepository
	truckRepo   repository.TruckRepository
}

// NewFleetService 创建车队服务
func NewFleetService(
	vendorRepo repository.VendorRepository,
	productRepo repository.ProductRepository,
	driverRepo repository.DriverRepository,
	truckRepo repository.TruckRepository,
) *FleetService {
	return &FleetService{
		vendorRepo:  vendorRepo,
		productRepo: productRepo,
		driverRepo:  driverRepo,
		truckRepo:   truckRepo,
	}
}

// CreateDriverInput 创建司机输入
type CreateDriverInput struct {
	FirstName   string
	LastName    string
	Email       string
	PhoneNumber string
	VendorID    string
}

// CreateTruckInput 创建车辆输入
type CreateTruckInput struct {
	VehicleName string
	VendorID    string
	Capacity    models.Capacity
	Status      string
}

// CreateProduct 创建物资
func (s *FleetService) CreateProduct(name string, quantity int) (*models.Product, error) {
	name = strings.TrimSpace(name)
	if name == "" || quantity < 0 {
		return nil, ErrInvalidInput
	}
	product := &models.Product{Name: name, Quantity: quantity}
	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}
	return product, nil
}

// ListProducts 物资列表
func (s *FleetService) ListProducts(filter repository.ProductListFilter) ([]models.Product, int64, error) {
	return s.productRepo.List(filter)
}

// GetProduct 获取物资
func (s *FleetService) GetProduct(uniqueID string) (*models.Product, error) {
	product, err := s.productRepo.GetByUniqueID(uniqueID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// DeleteProduct 删除物资
func (s *FleetService) DeleteProduct(uniqueID string) error {
	product, err := s.GetProduct(uniqueID)
	if err != nil {
		return err
	}
	return s.productRepo.Delete(product.ID)
}

// CreateDriver 创建司机
func (s *FleetService) CreateDriver(input CreateDriverInput) (*models.Driver, error) {
	firstName := strings.TrimSpace(input.FirstName)
	lastName := strings.TrimSpace(input.LastName)
	phone := strings.TrimSpace(input.PhoneNumber)
	if firstName == "" || lastName == "" || phone == "" {
		return nil, ErrInvalidInput
	}
	email, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, err
	}
	vendor, err := s.resolveVendor(input.VendorID)
	if err != nil {
		return nil, err
	}
	driver := &models.Driver{
		FirstName:   firstName,
		LastName:    lastName,
		Email:       email,
		PhoneNumber: phone,
		VendorID:    vendor.ID,
	}
	if err := s.driverRepo.Create(driver); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDriverExists
		}
		return nil, err
	}
	driver.Vendor = vendor
	return driver, nil
}

// ListDrivers 司机列表
func (s *FleetService) ListDrivers(filter repository.DriverListFilter) ([]models.Driver, int64, error) {
	return s.driverRepo.List(filter)
}

// GetDriver 获取司机
func (s *FleetService) GetDriver(uniqueID string) (*models.Driver, error) {
	driver, err := s.driverRepo.GetByUniqueID(uniqueID)
	if err != nil {
		return nil, err
	}
	if driver == nil {
		return nil, ErrDriverNotFound
	}
	return driver, nil
}

// DeleteDriver 删除司机，承运记录上的司机引用置空
func (s *FleetService) DeleteDriver(uniqueID string) error {
	driver, err := s.GetDriver(uniqueID)
	if err != nil {
		return err
	}
	return s.driverRepo.Delete(driver.ID)
}

// CreateTruck 创建车辆
func (s *FleetService) CreateTruck(input CreateTruckInput) (*models.Truck, error) {
	name := strings.TrimSpace(input.VehicleName)
	if name == "" {
		return nil, ErrInvalidInput
	}
	if input.Capacity.IsNegative() {
		return nil, ErrInvalidCapacity
	}
	status := strings.TrimSpace(input.Status)
	switch status {
	case "":
		status = constants.TruckStatusActive
	case constants.TruckStatusActive, constants.TruckStatusMaintenance:
	default:
		return nil, ErrInvalidInput
	}
	vendor, err := s.resolveVendor(input.VendorID)
	if err != nil {
		return nil, err
	}
	truck := &models.Truck{
		VehicleName: name,
		VendorID:    vendor.ID,
		Capacity:    input.Capacity,
		Status:      status,
	}
	if err := s.truckRepo.Create(truck); err != nil {
		return nil, err
	}
	truck.Vendor = vendor
	return truck, nil
}

// ListTrucks 车辆列表
func (s *FleetService) ListTrucks(filter repository.TruckListFilter) ([]models.Truck, int64, error) {
	return s.truckRepo.List(filter)
}

// GetTruck 获取车辆
func (s *FleetService) GetTruck(uniqueID string) (*models.Truck, error) {
	truck, err := s.truckRepo.GetByUniqueID(uniqueID)
	if err != nil {
		return nil, err
	}
	if truck == nil {
		return nil, ErrTruckNotFound
	}
	return truck, nil
}

// UpdateTruckStatus 更新车辆状态
func (s *FleetService) UpdateTruckStatus(uniqueID, status string) (*models.Truck, error) {
	status = strings.TrimSpace(status)
	if status != constants.TruckStatusActive && status != constants.TruckStatusMaintenance {
		return nil, ErrInvalidInput
	}
	truck, err := s.GetTruck(uniqueID)
	if err != nil {
		return nil, err
	}
	truck.Status = status
	if err := s.truckRepo.Update(truck); err != nil {
		return nil, err
	}
	return truck, nil
}

// DeleteTruck 删除车辆，级联删除其承运记录与分配
func (s *FleetService) DeleteTruck(uniqueID string) error {
	truck, err := s.GetTruck(uniqueID)
	if err != nil {
		return err
	}
	return s.truckRepo.Delete(truck.ID)
}

func (s *FleetService) resolveVendor(uniqueID string) (*models.Vendor, error) {
	vendor, err := s.vendorRepo.GetByUniqueID(uniqueID)
	if err != nil {
		return nil, err
	}
	if vendor == nil {
		return nil, ErrVendorNotFound
	}
	return vendor, nil
}
