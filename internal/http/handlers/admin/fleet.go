package admin

import (
	"strings"

	handlershared "github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/http/handlers/shared"
	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/http/response"
	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/models"
	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/repository"
	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateProductRequest 创建物资请求
type CreateProductRequest struct {
	Name     string `json:"name" binding:"required"`
	Quantity int    `json:"quantity"`
}

// CreateDriverRequest 创建司机请求
type CreateDriverRequest struct {
	FirstName   string `json:"first_name" binding:"required"`
	LastName    string `json:"last_name" binding:"required"`
	Email       string `json:"email" binding:"required"`
	PhoneNumber string `json:"phone_number" binding:"required"`
	VendorID    string `json:"vendor_id" binding:"required"`
}

// CreateTruckRequest 创建车辆请求
type CreateTruckRequest struct {
	VehicleName string          `json:"vehicle_name" binding:"required"`
	VendorID    string          `json:"vendor_id" binding:"required"`
	Capacity    models.Capacity `json:"capacity"`
	Status      string          `json:"status"`
}

// CreateProduct 创建物资
func (h *Handler) CreateProduct(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	product, err := h.FleetService.CreateProduct(req.Name, req.Quantity)
	if err != nil {
		respondWithMappedError(c, err, response.CodeInternal, "error.internal_error")
		return
	}
	response.Success(c, product)
}

// ListProducts 物资列表
func (h *Handler) ListProducts(c *gin.Context) {
	page, pageSize := handlershared.ParsePagination(c)
	products, total, err := h.FleetService.ListProducts(repository.ProductListFilter{
		Page:     page,
		PageSize: pageSize,
		Search:   strings.TrimSpace(c.Query("search")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal_error", err)
		return
	}
	response.SuccessWithPage(c, products, response.NewPagination(page, pageSize, total))
}

// GetProduct 物资详情
func (h *Handler) GetProduct(c *gin.Context) {
	id, ok := requireParam(c, "id")
	if !ok {
		return
	}
	product, err := h.FleetService.GetProduct(id)
	if err != nil {
		respondWithMappedError(c, err, response.CodeInternal, "error.internal_error")
		return
	}
	response.Success(c, product)
}

// DeleteProduct 删除物资
func (h *Handler) DeleteProduct(c *gin.Context) {
	id, ok := requireParam(c, "id")
	if !ok {
		return
	}
	if err := h.FleetService.DeleteProduct(id); err != nil {
		respondWithMappedError(c, err, response.CodeInternal, "error.internal_error")
		return
	}
	response.Success(c, nil)
}

// CreateDriver 创建司机
func (h *Handler) CreateDriver(c *gin.Context) {
	var req CreateDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	driver, err := h.FleetService.CreateDriver(service.CreateDriverInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		VendorID:    req.VendorID,
	})
	if err != nil {
		respondWithMappedError(c, err, response.CodeInternal, "error.internal_error")
		return
	}
	response.Success(c, driver)
}

// ListDrivers 司机列表
func (h *Handler) ListDrivers(c *gin.Context) {
	page, pageSize := handlershared.ParsePagination(c)
	filter := repository.DriverListFilter{
		Page:     page,
		PageSize: pageSize,
		Search:   strings.TrimSpace(c.Query("search")),
	}
	if vendorUID := strings.TrimSpace(c.Query("vendor_id")); vendorUID != "" {
		vendor, err := h.VendorService.Get(vendorUID)
		if err != nil {
			respondWithMappedError(c, err, response.CodeInternal, "error.internal_error")
			return
		}
		filter.VendorID = vendor.ID
	}
	drivers, total, err := h.FleetService.ListDrivers(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal_error", err)
		return
	}
	response.SuccessWithPage(c, drivers, response.NewPagination(page, pageSize, total))
}

// GetDriver 司机详情
func (h *Handler) GetDriver(c *gin.Context) {
	id, ok := requireParam(c, "id")
	if !ok {
		return
	}
	driver, err := h.FleetService.GetDriver(id)
	if err != nil {
		respondWithMappedError(c, err, response.CodeInternal, "error.internal_error")
		return
	}
	response.Success(c, driver)
}

// DeleteDriver 删除司机
func (h *Handler) DeleteDriver(c *gin.Context) {
	id, ok := requireParam(c, "id")
	if !ok {
		return
	}
	if err := h.FleetService.DeleteDriver(id); err != nil {
		respondWithMappedError(c, err, response.CodeInternal, "error.internal_error")
		return
	}
	response.Success(c, nil)
}

// CreateTruck 创建车辆
func (h *Handler) CreateTruck(c *gin.Context) {
	var req CreateTruckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	truck, err := h.FleetService.CreateTruck(service.CreateTruckInput{
		VehicleName: req.VehicleName,
		VendorID:    req.VendorID,
		Capacity:    req.Capacity,
		Status:      req.Status,
	})
	if err != nil {
		respondWithMappedError(c, err, response.CodeInternal, "error.internal_error")
		return
	}
	requestLog(c).Infow("admin_truck_created", "truck_id", truck.UniqueID, "capacity", truck.Capacity.String())
	response.Success(c, truck)
}

// ListTrucks 车辆列表
func (h *Handler) ListTrucks(c *gin.Context) {
	page, pageSize := handlershared.ParsePagination(c)
	filter := repository.TruckListFilter{
		Page:     page,
		PageSize: pageSize,
		Status:   strings.TrimSpace(c.Query("status")),
		Search:   strings.TrimSpace(c.Query("search")),
	}
	if vendorUID := strings.TrimSpace(c.Query("vendor_id")); vendorUID != "" {
		vendor, err := h.VendorService.Get(vendorUID)
		if err != nil {
			respondWithMappedError(c, err, response.CodeInternal, "error.internal_error")
			return
		}
		filter.VendorID = vendor.ID
	}
	trucks, total, err := h.FleetService.ListTrucks(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal_error", err)
		return
	}
	response.SuccessWithPage(c, trucks, response.NewPagination(page, pageSize, total))
}

// GetTruck 车辆详情
func (h *Handler) GetTruck(c *gin.Context) {
	id, ok := requireParam(c, "id")
	if !ok {
		return
	}
	truck, err := h.FleetService.GetTruck(id)
	if err != nil {
		respondWithMappedError(c, err, response.CodeInternal, "error.internal_error")
		return
	}
	response.Success(c, truck)
}

// UpdateTruckStatus 更新车辆状态
func (h *Handler) UpdateTruckStatus(c *gin.Context) {
	id, ok := requireParam(c, "id")
	if !ok {
		return
	}
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	truck, err := h.FleetService.UpdateTruckStatus(id, req.Status)
	if err != nil {
		respondWithMappedError(c, err, response.CodeInternal, "error.internal_error")
		return
	}
	response.Success(c, truck)
}

// DeleteTruck 删除车辆
func (h *Handler) DeleteTruck(c *gin.Context) {
	id, ok := requireParam(c, "id")
	if !ok {
		return
	}
	if err := h.FleetService.DeleteTruck(id); err != nil {
		respondWithMappedError(c, err, response.CodeInternal, "error.internal_error")
		return
	}
	response.Success(c, nil)
}
