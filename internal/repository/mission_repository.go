package repository

import (
	"errors"
	"strings"

	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/models"

	"gorm.io/gorm"
)

// MissionRepository 任务与供应商合同数据访问接口
type MissionRepository interface {
	List(filter MissionListFilter) ([]models.Mission, int64, error)
	GetByID(id uint) (*models.Mission, error)
	GetByUniqueID(uniqueID string) (*models.Mission, error)
	Create(mission *models.Mission) error
	Update(mission *models.Mission) error
	Delete(id uint) error
	IsVendorContracted(vendorID, missionID uint) (bool, error)
	GetVendorMission(vendorID, missionID uint) (*models.VendorMission, error)
	GetVendorMissionByUniqueID(uniqueID string) (*models.VendorMission, error)
	ListVendorMissions(vendorID, missionID uint) ([]models.VendorMission, error)
	CreateVendorMission(row *models.VendorMission) error
	DeleteVendorMission(id uint) error
	WithTx(tx *gorm.DB) MissionRepository
}

// GormMissionRepository GORM 实现
type GormMissionRepository struct {
	db *gorm.DB
}

// NewMissionRepository 创建任务仓库
func NewMissionRepository(db *gorm.DB) *GormMissionRepository {
	return &GormMissionRepository{db: db}
}

// WithTx 绑定事务
func (r *GormMissionRepository) WithTx(tx *gorm.DB) MissionRepository {
	if tx == nil {
		return r
	}
	return &GormMissionRepository{db: tx}
}

// List 任务列表
func (r *GormMissionRepository) List(filter MissionListFilter) ([]models.Mission, int64, error) {
	query := r.db.Model(&models.Mission{})
	if missionType := strings.TrimSpace(filter.Type); missionType != "" {
		query = query.Where("type = ?", missionType)
	}
	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("status = ?", status)
	}
	if filter.VendorID != 0 {
		query = query.Where("id IN (?)", r.db.Model(&models.VendorMission{}).Select("mission_id").Where("vendor_id = ?", filter.VendorID))
	}
	query = applySearch(query, filter.Search, "title", "destination_location")

	return findPage[models.Mission](query, filter.Page, filter.PageSize, "start_date DESC, id DESC")
}

// GetByID 根据内部 ID 获取任务
func (r *GormMissionRepository) GetByID(id uint) (*models.Mission, error) {
	var mission models.Mission
	if err := r.db.First(&mission, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &mission, nil
}

// GetByUniqueID 根据对外标识获取任务
func (r *GormMissionRepository) GetByUniqueID(uniqueID string) (*models.Mission, error) {
	var mission models.Mission
	if err := r.db.Where("unique_id = ?", strings.TrimSpace(uniqueID)).First(&mission).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &mission, nil
}

// Create 创建任务
func (r *GormMissionRepository) Create(mission *models.Mission) error {
	return r.db.Create(mission).Error
}

// Update 更新任务
func (r *GormMissionRepository) Update(mission *models.Mission) error {
	return r.db.Save(mission).Error
}

// Delete 删除任务，连同货物、明细、承运记录、分配与合同
func (r *GormMissionRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		assignmentIDs := tx.Model(&models.TruckAssignment{}).Select("id").Where("mission_id = ?", id)
		if err := tx.Where("assignment_id IN (?)", assignmentIDs).Delete(&models.Allocation{}).Error; err != nil {
			return err
		}
		if err := tx.Where("mission_id = ?", id).Delete(&models.TruckAssignment{}).Error; err != nil {
			return err
		}
		cargoIDs := tx.Model(&models.Cargo{}).Select("id").Where("mission_id = ?", id)
		if err := tx.Where("cargo_id IN (?)", cargoIDs).Delete(&models.CargoItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("mission_id = ?", id).Delete(&models.Cargo{}).Error; err != nil {
			return err
		}
		if err := tx.Where("mission_id = ?", id).Delete(&models.VendorMission{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Mission{}, id).Error
	})
}

// IsVendorContracted 判断供应商是否承接该任务
func (r *GormMissionRepository) IsVendorContracted(vendorID, missionID uint) (bool, error) {
	if vendorID == 0 || missionID == 0 {
		return false, nil
	}
	var count int64
	if err := r.db.Model(&models.VendorMission{}).
		Where("vendor_id = ? AND mission_id = ?", vendorID, missionID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetVendorMission 获取供应商与任务的合同关系
func (r *GormMissionRepository) GetVendorMission(vendorID, missionID uint) (*models.VendorMission, error) {
	var row models.VendorMission
	if err := r.db.Where("vendor_id = ? AND mission_id = ?", vendorID, missionID).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// GetVendorMissionByUniqueID 根据对外标识获取合同关系
func (r *GormMissionRepository) GetVendorMissionByUniqueID(uniqueID string) (*models.VendorMission, error) {
	var row models.VendorMission
	if err := r.db.Preload("Vendor").Preload("Mission").
		Where("unique_id = ?", strings.TrimSpace(uniqueID)).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// ListVendorMissions 查询合同关系，参数为 0 时不过滤
func (r *GormMissionRepository) ListVendorMissions(vendorID, missionID uint) ([]models.VendorMission, error) {
	query := r.db.Model(&models.VendorMission{}).Preload("Vendor").Preload("Mission")
	if vendorID != 0 {
		query = query.Where("vendor_id = ?", vendorID)
	}
	if missionID != 0 {
		query = query.Where("mission_id = ?", missionID)
	}
	var rows []models.VendorMission
	if err := query.Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// CreateVendorMission 创建合同关系
func (r *GormMissionRepository) CreateVendorMission(row *models.VendorMission) error {
	return r.db.Create(row).Error
}

// DeleteVendorMission 删除合同关系
func (r *GormMissionRepository) DeleteVendorMission(id uint) error {
	return r.db.Delete(&models.VendorMission{}, id).Error
}
