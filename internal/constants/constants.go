package constants

// 供应商类型常量
const (
	VendorTypeFoodSupplier     = "food_supplier"
	VendorTypeLogisticProvider = "logistic_provider"
	VendorTypeMixed            = "mixed"
)

// 供应商状态常量
const (
	VendorStatusApproved  = "approved"
	VendorStatusPending   = "pending"
	VendorStatusSuspended = "suspended"
)

// 任务类型常量
const (
	MissionTypeSpecialized = "specialized"
	MissionTypeRegular     = "regular"
	MissionTypeEmergency   = "emergency"
)

// 任务状态常量
const (
	MissionStatusPending   = "pending"
	MissionStatusActive    = "active"
	MissionStatusCompleted = "completed"
)

// 车辆状态常量
const (
	TruckStatusActive      = "active"
	TruckStatusMaintenance = "maintenance"
)

// 用户角色常量
const (
	RoleSuperAdmin = "super_admin"
	RoleVendor     = "vendor"
)

// 用户状态常量
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// 队列与任务常量
const (
	QueueDefault  = "default"
	QueueCritical = "critical"

	TaskAllocationAudit = "allocation:audit"
)

// 供应商编号前缀（VEN-YYYYMMDD-xxxxxxxx）
const VendorRegNoPrefix = "VEN"
