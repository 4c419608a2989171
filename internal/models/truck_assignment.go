package models

import (
	"time"

	"gorm.io/gorm"
)

// TruckAssignment 车辆承运任务（同一任务下同一车辆唯一）
type TruckAssignment struct {
	ID        uint       `gorm:"primarykey" json:"-"`
	UniqueID  string     `gorm:"type:varchar(36);uniqueIndex;not null" json:"unique_id"`
	MissionID uint       `gorm:"not null;uniqueIndex:idx_assignment_mission_truck" json:"-"`
	TruckID   uint       `gorm:"not null;uniqueIndex:idx_assignment_mission_truck;index" json:"-"`
	VendorID  uint       `gorm:"not null;index" json:"-"`
	DriverID  *uint      `gorm:"index" json:"-"`
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
	CreatedAt time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`

	Mission     *Mission     `gorm:"foreignKey:MissionID;constraint:OnDelete:CASCADE" json:"mission,omitempty"`
	Truck       *Truck       `gorm:"foreignKey:TruckID;constraint:OnDelete:CASCADE" json:"truck,omitempty"`
	Vendor      *Vendor      `gorm:"foreignKey:VendorID;constraint:OnDelete:CASCADE" json:"vendor,omitempty"`
	Driver      *Driver      `gorm:"foreignKey:DriverID;constraint:OnDelete:SET NULL" json:"driver,omitempty"`
	Allocations []Allocation `gorm:"foreignKey:AssignmentID;constraint:OnDelete:CASCADE" json:"allocations,omitempty"`
}

// TableName 指定表名
func (TruckAssignment) TableName() string {
	return "trucks_for_mission"
}

// BeforeCreate 补齐对外标识
func (a *TruckAssignment) BeforeCreate(tx *gorm.DB) error {
	assignUniqueID(&a.UniqueID)
	return nil
}

// Allocation 货物明细分配到车辆的数量（同一承运记录下同一明细唯一）
type Allocation struct {
	ID                   uint      `gorm:"primarykey" json:"-"`
	UniqueID             string    `gorm:"type:varchar(36);uniqueIndex;not null" json:"unique_id"`
	AssignmentID         uint      `gorm:"not null;uniqueIndex:idx_allocation_assignment_item" json:"-"`
	CargoItemID          uint      `gorm:"not null;uniqueIndex:idx_allocation_assignment_item;index" json:"-"`
	TransferringQuantity int       `gorm:"not null" json:"transferring_quantity"`
	CreatedAt            time.Time `gorm:"index" json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`

	CargoItem *CargoItem `gorm:"foreignKey:CargoItemID;constraint:OnDelete:CASCADE" json:"cargo_item,omitempty"`
}

// TableName 指定表名
func (Allocation) TableName() string {
	return "truck_cargo_items"
}

// BeforeCreate 补齐对外标识
func (a *Allocation) BeforeCreate(tx *gorm.DB) error {
	assignUniqueID(&a.UniqueID)
	return nil
}
