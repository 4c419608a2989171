package models

import (
	"time"

	"gorm.io/gorm"
)

// Region 作业区域
type Region struct {
	ID         uint      `gorm:"primarykey" json:"-"`
	UniqueID   string    `gorm:"type:varchar(36);uniqueIndex;not null" json:"unique_id"`
	RegionName string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"region_name"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}

// TableName 指定表名
func (Region) TableName() string {
	return "regions"
}

// BeforeCreate 补齐对外标识
func (r *Region) BeforeCreate(tx *gorm.DB) error {
	assignUniqueID(&r.UniqueID)
	return nil
}

// OperationRegion 供应商的作业区域（同一供应商同一区域唯一）
type OperationRegion struct {
	ID        uint      `gorm:"primarykey" json:"-"`
	UniqueID  string    `gorm:"type:varchar(36);uniqueIndex;not null" json:"unique_id"`
	RegionID  uint      `gorm:"not null;uniqueIndex:idx_operation_region_vendor;index" json:"-"`
	VendorID  uint      `gorm:"not null;uniqueIndex:idx_operation_region_vendor" json:"-"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`

	Region *Region `gorm:"foreignKey:RegionID;constraint:OnDelete:CASCADE" json:"region,omitempty"`
	Vendor *Vendor `gorm:"foreignKey:VendorID;constraint:OnDelete:CASCADE" json:"vendor,omitempty"`
}

// TableName 指定表名
func (OperationRegion) TableName() string {
	return "operation_regions"
}

// BeforeCreate 补齐对外标识
func (o *OperationRegion) BeforeCreate(tx *gorm.DB) error {
	assignUniqueID(&o.UniqueID)
	return nil
}
