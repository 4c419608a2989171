package models

import (
	"time"

	"gorm.io/gorm"
)

// Contact 用户与供应商的关联（用于解析当前登录用户所属供应商）
type Contact struct {
	ID        uint      `gorm:"primarykey" json:"-"`
	UniqueID  string    `gorm:"type:varchar(36);uniqueIndex;not null" json:"unique_id"`
	UserID    uint      `gorm:"not null;uniqueIndex" json:"-"`
	VendorID  uint      `gorm:"not null;index" json:"-"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`

	User   *User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Vendor *Vendor `gorm:"foreignKey:VendorID;constraint:OnDelete:CASCADE" json:"vendor,omitempty"`
}

// TableName 指定表名
func (Contact) TableName() string {
	return "contacts"
}

// BeforeCreate 补齐对外标识
func (c *Contact) BeforeCreate(tx *gorm.DB) error {
	assignUniqueID(&c.UniqueID)
	return nil
}
