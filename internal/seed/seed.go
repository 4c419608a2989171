package seed

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/logger"
	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/models"
	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/provider"
	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/repository"
	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/service"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

const dateLayout = "2006-01-02"

// Fixture 种子数据文件结构
type Fixture struct {
	Vendors  []VendorFixture  `yaml:"vendors"`
	Products []ProductFixture `yaml:"products"`
	Missions []MissionFixture `yaml:"missions"`
	Trucks   []TruckFixture   `yaml:"trucks"`
	Drivers  []DriverFixture  `yaml:"drivers"`
	Users    []UserFixture    `yaml:"users"`
}

// VendorFixture 供应商
type VendorFixture struct {
	Key         string `yaml:"key"`
	Name        string `yaml:"name"`
	RegNo       string `yaml:"reg_no"`
	VendorType  string `yaml:"vendor_type"`
	FleetSize   int    `yaml:"fleet_size"`
	Description string `yaml:"description"`
	Status      string `yaml:"status"`
}

// ProductFixture 物资
type ProductFixture struct {
	Key      string `yaml:"key"`
	Name     string `yaml:"name"`
	Quantity int    `yaml:"quantity"`
}

// MissionFixture 任务及其货物、承接供应商
type MissionFixture struct {
	Key                   string        `yaml:"key"`
	Title                 string        `yaml:"title"`
	Type                  string        `yaml:"type"`
	NumberOfBeneficiaries int           `yaml:"number_of_beneficiaries"`
	Description           string        `yaml:"description"`
	DeptLocation          string        `yaml:"dept_location"`
	DestinationLocation   string        `yaml:"destination_location"`
	StartDate             string        `yaml:"start_date"`
	EndDate               string        `yaml:"end_date"`
	Status                string        `yaml:"status"`
	Vendors               []string      `yaml:"vendors"`
	Cargo                 *CargoFixture `yaml:"cargo"`
}

// CargoFixture 任务货物
type CargoFixture struct {
	TotalProductsQuantity int                `yaml:"total_products_quantity"`
	Items                 []CargoItemFixture `yaml:"items"`
}

// CargoItemFixture 货物明细，Product 引用 ProductFixture.Key
type CargoItemFixture struct {
	Product  string `yaml:"product"`
	Quantity int    `yaml:"quantity"`
}

// TruckFixture 车辆，Capacity 以字符串表示避免浮点误差
type TruckFixture struct {
	Vendor      string `yaml:"vendor"`
	VehicleName string `yaml:"vehicle_name"`
	Capacity    string `yaml:"capacity"`
	Status      string `yaml:"status"`
}

// DriverFixture 司机
type DriverFixture struct {
	Vendor      string `yaml:"vendor"`
	FirstName   string `yaml:"first_name"`
	LastName    string `yaml:"last_name"`
	Email       string `yaml:"email"`
	PhoneNumber string `yaml:"phone_number"`
}

// UserFixture 登录账号
type UserFixture struct {
	Email     string `yaml:"email"`
	Password  string `yaml:"password"`
	FirstName string `yaml:"first_name"`
	LastName  string `yaml:"last_name"`
	Role      string `yaml:"role"`
	Vendor    string `yaml:"vendor"`
}

// Result 导入统计
type Result struct {
	Created int
	Skipped int
}

// LoadFile 读取并解析种子文件
func LoadFile(path string) (*Fixture, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file failed: %w", err)
	}
	return Parse(content)
}

// Parse 解析 YAML 种子数据
func Parse(content []byte) (*Fixture, error) {
	var fixture Fixture
	if err := yaml.Unmarshal(content, &fixture); err != nil {
		return nil, fmt.Errorf("parse seed file failed: %w", err)
	}
	return &fixture, nil
}

// Loader 通过业务服务写入种子数据，已存在的记录跳过
type Loader struct {
	c        *provider.Container
	vendors  map[string]*models.Vendor
	products map[string]*models.Product
	result   Result
}

// NewLoader 创建种子加载器
func NewLoader(c *provider.Container) *Loader {
	return &Loader{
		c:        c,
		vendors:  map[string]*models.Vendor{},
		products: map[string]*models.Product{},
	}
}

// Apply 按依赖顺序导入全部数据
func (l *Loader) Apply(fixture *Fixture) (Result, error) {
	if fixture == nil {
		return l.result, nil
	}
	steps := []func(*Fixture) error{
		l.applyVendors,
		l.applyProducts,
		l.applyMissions,
		l.applyTrucks,
		l.applyDrivers,
		l.applyUsers,
	}
	for _, step := range steps {
		if err := step(fixture); err != nil {
			return l.result, err
		}
	}
	return l.result, nil
}

func (l *Loader) applyVendors(fixture *Fixture) error {
	for _, item := range fixture.Vendors {
		if strings.TrimSpace(item.RegNo) != "" {
			existing, err := l.c.VendorRepo.GetByRegNo(item.RegNo)
			if err != nil {
				return err
			}
			if existing != nil {
				l.vendors[item.Key] = existing
				l.skip("vendor", item.RegNo)
				continue
			}
		}
		vendor, err := l.c.VendorService.Create(service.CreateVendorInput{
			Name:        item.Name,
			RegNo:       item.RegNo,
			VendorType:  item.VendorType,
			FleetSize:   item.FleetSize,
			Description: item.Description,
			Status:      item.Status,
		})
		if err != nil {
			return fmt.Errorf("seed vendor %s: %w", item.Key, err)
		}
		l.vendors[item.Key] = vendor
		l.created("vendor", vendor.UniqueID)
	}
	return nil
}

func (l *Loader) applyProducts(fixture *Fixture) error {
	for _, item := range fixture.Products {
		products, _, err := l.c.FleetService.ListProducts(repository.ProductListFilter{Page: 1, PageSize: 100, Search: item.Name})
		if err != nil {
			return err
		}
		if found := findProduct(products, item.Name); found != nil {
			l.products[item.Key] = found
			l.skip("product", item.Name)
			continue
		}
		product, err := l.c.FleetService.CreateProduct(item.Name, item.Quantity)
		if err != nil {
			return fmt.Errorf("seed product %s: %w", item.Key, err)
		}
		l.products[item.Key] = product
		l.created("product", product.UniqueID)
	}
	return nil
}

func (l *Loader) applyMissions(fixture *Fixture) error {
	for _, item := range fixture.Missions {
		mission, err := l.ensureMission(item)
		if err != nil {
			return err
		}
		for _, vendorKey := range item.Vendors {
			vendor, err := l.vendor(vendorKey)
			if err != nil {
				return err
			}
			if _, err := l.c.MissionService.ContractVendor(vendor.UniqueID, mission.UniqueID); err != nil {
				if errors.Is(err, service.ErrVendorMissionExists) {
					l.skip("vendor_mission", vendorKey)
					continue
				}
				return fmt.Errorf("seed contract %s/%s: %w", vendorKey, item.Key, err)
			}
			l.created("vendor_mission", vendorKey)
		}
		if item.Cargo == nil {
			continue
		}
		inputs := make([]service.CargoItemInput, 0, len(item.Cargo.Items))
		for _, cargoItem := range item.Cargo.Items {
			product, ok := l.products[cargoItem.Product]
			if !ok {
				return fmt.Errorf("seed cargo %s: unknown product %q", item.Key, cargoItem.Product)
			}
			inputs = append(inputs, service.CargoItemInput{ProductID: product.UniqueID, Quantity: cargoItem.Quantity})
		}
		_, err = l.c.MissionService.CreateCargo(service.CreateCargoInput{
			MissionID:             mission.UniqueID,
			TotalProductsQuantity: item.Cargo.TotalProductsQuantity,
			Items:                 inputs,
		})
		if err != nil {
			if errors.Is(err, service.ErrCargoExists) {
				l.skip("cargo", item.Key)
				continue
			}
			return fmt.Errorf("seed cargo %s: %w", item.Key, err)
		}
		l.created("cargo", item.Key)
	}
	return nil
}

func (l *Loader) ensureMission(item MissionFixture) (*models.Mission, error) {
	missions, _, err := l.c.MissionService.ListMissions(repository.MissionListFilter{Page: 1, PageSize: 100, Search: item.Title})
	if err != nil {
		return nil, err
	}
	for i := range missions {
		if missions[i].Title == item.Title {
			l.skip("mission", item.Title)
			return &missions[i], nil
		}
	}
	startDate, err := time.Parse(dateLayout, item.StartDate)
	if err != nil {
		return nil, fmt.Errorf("seed mission %s: invalid start_date: %w", item.Key, err)
	}
	endDate, err := time.Parse(dateLayout, item.EndDate)
	if err != nil {
		return nil, fmt.Errorf("seed mission %s: invalid end_date: %w", item.Key, err)
	}
	mission, err := l.c.MissionService.CreateMission(service.CreateMissionInput{
		Title:                 item.Title,
		Type:                  item.Type,
		NumberOfBeneficiaries: item.NumberOfBeneficiaries,
		Description:           item.Description,
		DeptLocation:          item.DeptLocation,
		DestinationLocation:   item.DestinationLocation,
		StartDate:             startDate,
		EndDate:               endDate,
		Status:                item.Status,
	})
	if err != nil {
		return nil, fmt.Errorf("seed mission %s: %w", item.Key, err)
	}
	l.created("mission", mission.UniqueID)
	return mission, nil
}

func (l *Loader) applyTrucks(fixture *Fixture) error {
	for _, item := range fixture.Trucks {
		vendor, err := l.vendor(item.Vendor)
		if err != nil {
			return err
		}
		trucks, _, err := l.c.FleetService.ListTrucks(repository.TruckListFilter{Page: 1, PageSize: 100, VendorID: vendor.ID, Search: item.VehicleName})
		if err != nil {
			return err
		}
		if hasTruck(trucks, item.VehicleName) {
			l.skip("truck", item.VehicleName)
			continue
		}
		capacity, err := decimal.NewFromString(strings.TrimSpace(item.Capacity))
		if err != nil {
			return fmt.Errorf("seed truck %s: invalid capacity: %w", item.VehicleName, err)
		}
		truck, err := l.c.FleetService.CreateTruck(service.CreateTruckInput{
			VehicleName: item.VehicleName,
			VendorID:    vendor.UniqueID,
			Capacity:    models.NewCapacityFromDecimal(capacity),
			Status:      item.Status,
		})
		if err != nil {
			return fmt.Errorf("seed truck %s: %w", item.VehicleName, err)
		}
		l.created("truck", truck.UniqueID)
	}
	return nil
}

func (l *Loader) applyDrivers(fixture *Fixture) error {
	for _, item := range fixture.Drivers {
		vendor, err := l.vendor(item.Vendor)
		if err != nil {
			return err
		}
		driver, err := l.c.FleetService.CreateDriver(service.CreateDriverInput{
			FirstName:   item.FirstName,
			LastName:    item.LastName,
			Email:       item.Email,
			PhoneNumber: item.PhoneNumber,
			VendorID:    vendor.UniqueID,
		})
		if err != nil {
			if errors.Is(err, service.ErrDriverExists) {
				l.skip("driver", item.Email)
				continue
			}
			return fmt.Errorf("seed driver %s: %w", item.Email, err)
		}
		l.created("driver", driver.UniqueID)
	}
	return nil
}

func (l *Loader) applyUsers(fixture *Fixture) error {
	for _, item := range fixture.Users {
		vendorUID := ""
		if strings.TrimSpace(item.Vendor) != "" {
			vendor, err := l.vendor(item.Vendor)
			if err != nil {
				return err
			}
			vendorUID = vendor.UniqueID
		}
		user, err := l.c.UserService.Create(service.CreateUserInput{
			Email:     item.Email,
			Password:  item.Password,
			FirstName: item.FirstName,
			LastName:  item.LastName,
			Role:      item.Role,
			VendorID:  vendorUID,
		})
		if err != nil {
			if errors.Is(err, service.ErrEmailExists) {
				l.skip("user", item.Email)
				continue
			}
			return fmt.Errorf("seed user %s: %w", item.Email, err)
		}
		l.created("user", user.UniqueID)
	}
	return nil
}

func (l *Loader) vendor(key string) (*models.Vendor, error) {
	vendor, ok := l.vendors[key]
	if !ok {
		return nil, fmt.Errorf("unknown vendor key %q", key)
	}
	return vendor, nil
}

func (l *Loader) created(kind, id string) {
	l.result.Created++
	logger.Infow("seed_record_created", "kind", kind, "id", id)
}

func (l *Loader) skip(kind, id string) {
	l.result.Skipped++
	logger.Debugw("seed_record_exists", "kind", kind, "id", id)
}

func findProduct(products []models.Product, name string) *models.Product {
	for i := range products {
		if products[i].Name == name {
			return &products[i]
		}
	}
	return nil
}

func hasTruck(trucks []models.Truck, name string) bool {
	for _, truck := range trucks {
		if truck.VehicleName == name {
			return true
		}
	}
	return false
}
