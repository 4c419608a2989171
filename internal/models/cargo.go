package models

import (
	"time"

	"gorm.io/gorm"
)

// Cargo 任务货物容器（每个任务唯一）
type Cargo struct {
	ID                    uint      `gorm:"primarykey" json:"-"`
	UniqueID              string    `gorm:"type:varchar(36);uniqueIndex;not null" json:"unique_id"`
	MissionID             uint      `gorm:"not null;uniqueIndex" json:"-"`
	TotalProductsQuantity int       `gorm:"not null;default:0" json:"total_products_quantity"` // 声明总量
	CreatedAt             time.Time `gorm:"index" json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`

	Items []CargoItem `gorm:"foreignKey:CargoID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// TableName 指定表名
func (Cargo) TableName() string {
	return "cargos"
}

// BeforeCreate 补齐对外标识
func (c *Cargo) BeforeCreate(tx *gorm.DB) error {
	assignUniqueID(&c.UniqueID)
	return nil
}

// CargoItem 货物明细（商品 + 数量）
// 不变量：所有分配记录的数量之和不超过 Quantity
type CargoItem struct {
	ID        uint      `gorm:"primarykey" json:"-"`
	UniqueID  string    `gorm:"type:varchar(36);uniqueIndex;not null" json:"unique_id"`
	CargoID   uint      `gorm:"not null;index" json:"-"`
	ProductID uint      `gorm:"not null;index" json:"-"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Product *Product `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"product,omitempty"`
}

// TableName 指定表名
func (CargoItem) TableName() string {
	return "cargo_items"
}

// BeforeCreate 补齐对外标识
func (ci *CargoItem) BeforeCreate(tx *gorm.DB) error {
	assignUniqueID(&ci.UniqueID)
	return nil
}
