package models

import (
	"time"

	"gorm.io/gorm"
)

// VendorDocument 供应商资质文件与协议
type VendorDocument struct {
	ID           uint      `gorm:"primarykey" json:"-"`
	UniqueID     string    `gorm:"type:varchar(36);uniqueIndex;not null" json:"unique_id"`
	VendorID     uint      `gorm:"not null;index" json:"-"`
	OriginalName string    `gorm:"type:varchar(255);not null" json:"original_name"`
	StoragePath  string    `gorm:"type:varchar(512);not null" json:"-"` // 本地存储路径，不对外暴露
	Extension    string    `gorm:"type:varchar(16);not null" json:"extension"`
	ContentType  string    `gorm:"type:varchar(100)" json:"content_type"`
	Size         int64     `gorm:"not null" json:"size"`
	CreatedAt    time.Time `gorm:"index" json:"created_at"`

	Vendor *Vendor `gorm:"foreignKey:VendorID;constraint:OnDelete:CASCADE" json:"vendor,omitempty"`
}

// TableName 指定表名
func (VendorDocument) TableName() string {
	return "documents_and_agreements"
}

// BeforeCreate 补齐对外标识
func (d *VendorDocument) BeforeCreate(tx *gorm.DB) error {
	assignUniqueID(&d.UniqueID)
	return nil
}
