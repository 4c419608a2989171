package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/constants"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Vendor 供应商（食品供应商 / 物流服务商）
type Vendor struct {
	ID          uint      `gorm:"primarykey" json:"-"`                                             // 主键
	UniqueID    string    `gorm:"type:varchar(36);uniqueIndex;not null" json:"unique_id"`          // 对外标识
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`                          // 名称
	RegNo       string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"reg_no"`            // 注册编号
	VendorType  string    `gorm:"type:varchar(50);not null" json:"vendor_type"`                    // 类型
	FleetSize   int       `gorm:"not null;default:0" json:"fleet_size"`                            // 车队规模
	Description string    `gorm:"type:text" json:"description"`                                    // 描述
	Status      string    `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"` // 状态
	CreatedAt   time.Time `gorm:"index" json:"created_at"`                                         // 创建时间
	UpdatedAt   time.Time `json:"updated_at"`                                                      // 更新时间
}

// TableName 指定表名
func (Vendor) TableName() string {
	return "vendors"
}

// BeforeCreate 补齐对外标识与注册编号
func (v *Vendor) BeforeCreate(tx *gorm.DB) error {
	assignUniqueID(&v.UniqueID)
	if strings.TrimSpace(v.RegNo) == "" {
		v.RegNo = GenerateVendorRegNo(time.Now())
	}
	if strings.TrimSpace(v.Status) == "" {
		v.Status = constants.VendorStatusPending
	}
	return nil
}

// GenerateVendorRegNo 生成注册编号：VEN-YYYYMMDD-<uuid 前 8 位>
func GenerateVendorRegNo(now time.Time) string {
	part := strings.SplitN(uuid.NewString(), "-", 2)[0]
	return fmt.Sprintf("%s-%s-%s", constants.VendorRegNoPrefix, now.Format("20060102"), part)
}
