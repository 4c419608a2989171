package models

import (
	"time"

	"gorm.io/gorm"
)

// Mission 运输任务
type Mission struct {
	ID                    uint      `gorm:"primarykey" json:"-"`                                    // 主键
	UniqueID              string    `gorm:"type:varchar(36);uniqueIndex;not null" json:"unique_id"` // 对外标识
	Title                 string    `gorm:"type:varchar(255);not null" json:"title"`                // 标题
	Type                  string    `gorm:"type:varchar(20);not null" json:"type"`                  // 任务类型
	NumberOfBeneficiaries int       `gorm:"not null;default:0" json:"number_of_beneficiaries"`      // 受益人数
	Description           string    `gorm:"type:text" json:"description"`                           // 描述
	DeptLocation          string    `gorm:"type:varchar(255)" json:"dept_location"`                 // 出发地
	DestinationLocation   string    `gorm:"type:varchar(255)" json:"destination_location"`          // 目的地
	StartDate             time.Time `gorm:"not null" json:"start_date"`                             // 开始日期
	EndDate               time.Time `gorm:"not null" json:"end_date"`                               // 结束日期
	Status                string    `gorm:"type:varchar(20);not null;index" json:"status"`          // 状态
	CreatedAt             time.Time `gorm:"index" json:"created_at"`                                // 创建时间
	UpdatedAt             time.Time `json:"updated_at"`                                             // 更新时间

	Cargo *Cargo `gorm:"foreignKey:MissionID;constraint:OnDelete:CASCADE" json:"cargo,omitempty"` // 任务货物（一对一）
}

// TableName 指定表名
func (Mission) TableName() string {
	return "missions"
}

// BeforeCreate 补齐对外标识
func (m *Mission) BeforeCreate(tx *gorm.DB) error {
	assignUniqueID(&m.UniqueID)
	return nil
}

// VendorMission 供应商承接任务的合同关系
type VendorMission struct {
	ID        uint      `gorm:"primarykey" json:"-"`
	UniqueID  string    `gorm:"type:varchar(36);uniqueIndex;not null" json:"unique_id"`
	VendorID  uint      `gorm:"not null;uniqueIndex:idx_vendor_mission" json:"-"`
	MissionID uint      `gorm:"not null;uniqueIndex:idx_vendor_mission;index" json:"-"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`

	Vendor  *Vendor  `gorm:"foreignKey:VendorID;constraint:OnDelete:CASCADE" json:"vendor,omitempty"`
	Mission *Mission `gorm:"foreignKey:MissionID;constraint:OnDelete:CASCADE" json:"mission,omitempty"`
}

// TableName 指定表名
func (VendorMission) TableName() string {
	return "vendor_missions"
}

// BeforeCreate 补齐对外标识
func (vm *VendorMission) BeforeCreate(tx *gorm.DB) error {
	assignUniqueID(&vm.UniqueID)
	return nil
}
