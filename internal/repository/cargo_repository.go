package repository

import (
	"errors"
	"strings"

	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CargoRepository 货物与货物明细数据访问接口
type CargoRepository interface {
	GetByID(id uint) (*models.Cargo, error)
	GetByUniqueID(uniqueID string) (*models.Cargo, error)
	GetByMissionID(missionID uint) (*models.Cargo, error)
	Create(cargo *models.Cargo) error
	Delete(id uint) error
	GetItemByID(id uint) (*models.CargoItem, error)
	GetItemByUniqueID(uniqueID string) (*models.CargoItem, error)
	GetItemInCargo(cargoID uint, uniqueID string) (*models.CargoItem, error)
	GetItemForUpdate(id uint) (*models.CargoItem, error)
	ListItems(cargoID uint) ([]models.CargoItem, error)
	ListItemIDs(limit int, afterID uint) ([]uint, error)
	CreateItem(item *models.CargoItem) error
	DeleteItem(id uint) error
	WithTx(tx *gorm.DB) CargoRepository
}

// GormCargoRepository GORM 实现
type GormCargoRepository struct {
	db *gorm.DB
}

// NewCargoRepository 创建货物仓库
func NewCargoRepository(db *gorm.DB) *GormCargoRepository {
	return &GormCargoRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCargoRepository) WithTx(tx *gorm.DB) CargoRepository {
	if tx == nil {
		return r
	}
	return &GormCargoRepository{db: tx}
}

// GetByID 根据内部 ID 获取货物
func (r *GormCargoRepository) GetByID(id uint) (*models.Cargo, error) {
	var cargo models.Cargo
	if err := r.db.First(&cargo, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cargo, nil
}

// GetByUniqueID 根据对外标识获取货物
func (r *GormCargoRepository) GetByUniqueID(uniqueID string) (*models.Cargo, error) {
	var cargo models.Cargo
	if err := r.db.Where("unique_id = ?", strings.TrimSpace(uniqueID)).First(&cargo).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cargo, nil
}

// GetByMissionID 获取任务的唯一货物
func (r *GormCargoRepository) GetByMissionID(missionID uint) (*models.Cargo, error) {
	var cargo models.Cargo
	if err := r.db.Where("mission_id = ?", missionID).First(&cargo).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cargo, nil
}

// Create 创建货物
func (r *GormCargoRepository) Create(cargo *models.Cargo) error {
	return r.db.Create(cargo).Error
}

// Delete 删除货物及其明细，明细上的分配一并删除
func (r *GormCargoRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		itemIDs := tx.Model(&models.CargoItem{}).Select("id").Where("cargo_id = ?", id)
		if err := tx.Where("cargo_item_id IN (?)", itemIDs).Delete(&models.Allocation{}).Error; err != nil {
			return err
		}
		if err := tx.Where("cargo_id = ?", id).Delete(&models.CargoItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Cargo{}, id).Error
	})
}

// GetItemByID 根据内部 ID 获取货物明细
func (r *GormCargoRepository) GetItemByID(id uint) (*models.CargoItem, error) {
	var item models.CargoItem
	if err := r.db.Preload("Product").First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// GetItemByUniqueID 根据对外标识获取货物明细
func (r *GormCargoRepository) GetItemByUniqueID(uniqueID string) (*models.CargoItem, error) {
	var item models.CargoItem
	if err := r.db.Preload("Product").Where("unique_id = ?", strings.TrimSpace(uniqueID)).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// GetItemInCargo 在指定货物范围内按对外标识获取明细，不属于该货物时返回 nil
func (r *GormCargoRepository) GetItemInCargo(cargoID uint, uniqueID string) (*models.CargoItem, error) {
	var item models.CargoItem
	if err := r.db.Where("cargo_id = ? AND unique_id = ?", cargoID, strings.TrimSpace(uniqueID)).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// GetItemForUpdate 加锁获取货物明细，同一明细的分配校验在事务内串行
func (r *GormCargoRepository) GetItemForUpdate(id uint) (*models.CargoItem, error) {
	var item models.CargoItem
	if err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// ListItems 获取货物的全部明细
func (r *GormCargoRepository) ListItems(cargoID uint) ([]models.CargoItem, error) {
	var items []models.CargoItem
	if err := r.db.Preload("Product").Where("cargo_id = ?", cargoID).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// ListItemIDs 按 ID 游标分批获取明细 ID
func (r *GormCargoRepository) ListItemIDs(limit int, afterID uint) ([]uint, error) {
	if limit <= 0 {
		limit = 200
	}
	var ids []uint
	if err := r.db.Model(&models.CargoItem{}).
		Where("id > ?", afterID).
		Order("id ASC").
		Limit(limit).
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// CreateItem 创建货物明细
func (r *GormCargoRepository) CreateItem(item *models.CargoItem) error {
	return r.db.Create(item).Error
}

// DeleteItem 删除货物明细及其全部分配
func (r *GormCargoRepository) DeleteItem(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cargo_item_id = ?", id).Delete(&models.Allocation{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.CargoItem{}, id).Error
	})
}
