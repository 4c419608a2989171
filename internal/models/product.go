package models

import (
	"time"

	"gorm.io/gorm"
)

// Product 物资商品
type Product struct {
	ID        uint      `gorm:"primarykey" json:"-"`
	UniqueID  string    `gorm:"type:varchar(36);uniqueIndex;not null" json:"unique_id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Quantity  int       `gorm:"not null;default:0" json:"quantity"` // 库存数量
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}

// BeforeCreate 补齐对外标识
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	assignUniqueID(&p.UniqueID)
	return nil
}
