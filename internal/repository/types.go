package repository

// VendorListFilter 查询供应商列表的过滤条件
type VendorListFilter struct {
	Page       int
	PageSize   int
	Search     string
	VendorType string
	Status     string
}

// ProductListFilter 查询物资列表的过滤条件
type ProductListFilter struct {
	Page     int
	PageSize int
	Search   string
}

// DriverListFilter 查询司机列表的过滤条件
type DriverListFilter struct {
	Page     int
	PageSize int
	VendorID uint
	Search   string
}

// MissionListFilter 查询任务列表的过滤条件
type MissionListFilter struct {
	Page     int
	PageSize int
	Type     string
	Status   string
	Search   string
	VendorID uint // 非 0 时仅返回该供应商承接的任务
}

// TruckListFilter 查询车辆列表的过滤条件
type TruckListFilter struct {
	Page     int
	PageSize int
	VendorID uint
	Status   string
	Search   string
}

// AssignmentListFilter 查询车辆承运记录的过滤条件
type AssignmentListFilter struct {
	Page      int
	PageSize  int
	VendorID  uint
	MissionID uint
	TruckID   uint
}

// UserListFilter 查询用户列表的过滤条件
type UserListFilter struct {
	Page     int
	PageSize int
	Keyword  string
	Role     string
	Status   string
}

// CargoItemAllocationTotal 货物明细的分配汇总
type CargoItemAllocationTotal struct {
	CargoItemID       uint
	CargoItemUniqueID string
	Quantity          int
	Allocated         int64
}

// RegionListFilter 查询区域列表的过滤条件
type RegionListFilter struct {
	Page     int
	PageSize int
	Search   string
}

// OperationRegionListFilter 查询供应商作业区域的过滤条件
type OperationRegionListFilter struct {
	Page     int
	PageSize int
	VendorID uint
	RegionID uint
}

// DocumentListFilter 查询供应商文件的过滤条件
type DocumentListFilter struct {
	Page     int
	PageSize int
	VendorID uint
}
