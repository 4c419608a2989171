package models

import (
	"time"

	"gorm.io/gorm"
)

// Truck 车辆
type Truck struct {
	ID          uint      `gorm:"primarykey" json:"-"`
	UniqueID    string    `gorm:"type:varchar(36);uniqueIndex;not null" json:"unique_id"`
	VehicleName string    `gorm:"type:varchar(255);not null" json:"vehicle_name"`
	VendorID    uint      `gorm:"not null;index" json:"-"`
	Capacity    Capacity  `gorm:"type:decimal(20,2);not null;default:0" json:"capacity"` // 载重上限
	Status      string    `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Vendor *Vendor `gorm:"foreignKey:VendorID;constraint:OnDelete:CASCADE" json:"vendor,omitempty"`
}

// TableName 指定表名
func (Truck) TableName() string {
	return "trucks"
}

// BeforeCreate 补齐对外标识
func (t *Truck) BeforeCreate(tx *gorm.DB) error {
	assignUniqueID(&t.UniqueID)
	return nil
}
