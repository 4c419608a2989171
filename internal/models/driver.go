package models

import (
	"time"

	"gorm.io/gorm"
)

// Driver 司机（隶属于供应商）
type Driver struct {
	ID          uint      `gorm:"primarykey" json:"-"`
	UniqueID    string    `gorm:"type:varchar(36);uniqueIndex;not null" json:"unique_id"`
	FirstName   string    `gorm:"type:varchar(255);not null" json:"first_name"`
	LastName    string    `gorm:"type:varchar(255);not null" json:"last_name"`
	Email       string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PhoneNumber string    `gorm:"type:varchar(20);uniqueIndex;not null" json:"phone_number"`
	VendorID    uint      `gorm:"not null;index" json:"-"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Vendor *Vendor `gorm:"foreignKey:VendorID;constraint:OnDelete:CASCADE" json:"vendor,omitempty"`
}

// TableName 指定表名
func (Driver) TableName() string {
	return "drivers"
}

// BeforeCreate 补齐对外标识
func (d *Driver) BeforeCreate(tx *gorm.DB) error {
	assignUniqueID(&d.UniqueID)
	return nil
}
