package admin

import (
	"strings"

	handlershared "github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/http/handlers/shared"
	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/http/response"
	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/repository"
	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateRegionRequest 创建区域请求
type CreateRegionRequest struct {
	RegionName string `json:"region_name" binding:"required"`
}

// OperationRegionRequest 登记供应商作业区域请求
type OperationRegionRequest struct {
	VendorID string `json:"vendor_id" binding:"required"`
	RegionID string `json:"region_id" binding:"required"`
}

// CreateRegion 创建区域
func (h *Handler) CreateRegion(c *gin.Context) {
	var req CreateRegionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	region, err := h.RegionService.CreateRegion(req.RegionName)
	if err != nil {
		respondWithMappedError(c, err, response.CodeInternal, "error.internal_error")
		return
	}
	response.Success(c, region)
}

// ListRegions 区域列表
func (h *Handler) ListRegions(c *gin.Context) {
	page, pageSize := handlershared.ParsePagination(c)
	regions, total, err := h.RegionService.ListRegions(repository.RegionListFilter{
		Page:     page,
		PageSize: pageSize,
		Search:   strings.TrimSpace(c.Query("search")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal_error", err)
		return
	}
	response.SuccessWithPage(c, regions, response.NewPagination(page, pageSize, total))
}

// GetRegion 区域详情
func (h *Handler) GetRegion(c *gin.Context) {
	id, ok := requireParam(c, "id")
	if !ok {
		return
	}
	region, err := h.RegionService.GetRegion(id)
	if err != nil {
		respondWithMappedError(c, err, response.CodeInternal, "error.internal_error")
		return
	}
	response.Success(c, region)
}

// DeleteRegion 删除区域
func (h *Handler) DeleteRegion(c *gin.Context) {
	id, ok := requireParam(c, "id")
	if !ok {
		return
	}
	if err := h.RegionService.DeleteRegion(id); err != nil {
		respondWithMappedError(c, err, response.CodeInternal, "error.internal_error")
		return
	}
	requestLog(c).Infow("admin_region_deleted", "region_id", id)
	response.Success(c, nil)
}

// CreateOperationRegion 登记供应商作业区域
func (h *Handler) CreateOperationRegion(c *gin.Context) {
	var req OperationRegionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	row, err := h.RegionService.AssignVendorRegion(req.VendorID, req.RegionID)
	if err != nil {
		respondWithMappedError(c, err, response.CodeInternal, "error.internal_error")
		return
	}
	response.Success(c, row)
}

// ListOperationRegions 作业区域列表
func (h *Handler) ListOperationRegions(c *gin.Context) {
	page, pageSize := handlershared.ParsePagination(c)
	rows, total, err := h.RegionService.ListOperationRegions(service.OperationRegionQuery{
		Page:     page,
		PageSize: pageSize,
		VendorID: c.Query("vendor_id"),
		RegionID: c.Query("region_id"),
	})
	if err != nil {
		respondWithMappedError(c, err, response.CodeInternal, "error.internal_error")
		return
	}
	response.SuccessWithPage(c, rows, response.NewPagination(page, pageSize, total))
}

// DeleteOperationRegion 删除作业区域
func (h *Handler) DeleteOperationRegion(c *gin.Context) {
	id, ok := requireParam(c, "id")
	if !ok {
		return
	}
	if err := h.RegionService.DeleteOperationRegion(id); err != nil {
		respondWithMappedError(c, err, response.CodeInternal, "error.internal_error")
		return
	}
	response.Success(c, nil)
}
