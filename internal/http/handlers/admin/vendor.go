package admin

import (
	"strings"

	handlershared "github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/http/handlers/shared"
	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/http/response"
	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/repository"
	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateVendorRequest 创建供应商请求
type CreateVendorRequest struct {
	Name        string `json:"name" binding:"required"`
	RegNo       string `json:"reg_no"`
	VendorType  string `json:"vendor_type" binding:"required"`
	FleetSize   int    `json:"fleet_size"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

// UpdateStatusRequest 状态更新请求
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// CreateVendor 创建供应商
func (h *Handler) CreateVendor(c *gin.Context) {
	var req CreateVendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	vendor, err := h.VendorService.Create(service.CreateVendorInput{
		Name:        req.Name,
		RegNo:       req.RegNo,
		VendorType:  req.VendorType,
		FleetSize:   req.FleetSize,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		respondWithMappedError(c, err, response.CodeInternal, "error.internal_error")
		return
	}
	requestLog(c).Infow("admin_vendor_created", "vendor_id", vendor.UniqueID, "reg_no", vendor.RegNo)
	response.Success(c, vendor)
}

// ListVendors 供应商列表
func (h *Handler) ListVendors(c *gin.Context) {
	page, pageSize := handlershared.ParsePagination(c)
	vendors, total, err := h.VendorService.List(repository.VendorListFilter{
		Page:       page,
		PageSize:   pageSize,
		Search:     strings.TrimSpace(c.Query("search")),
		VendorType: strings.TrimSpace(c.Query("vendor_type")),
		Status:     strings.TrimSpace(c.Query("status")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal_error", err)
		return
	}
	response.SuccessWithPage(c, vendors, response.NewPagination(page, pageSize, total))
}

// GetVendor 供应商详情
func (h *Handler) GetVendor(c *gin.Context) {
	id, ok := requireParam(c, "id")
	if !ok {
		return
	}
	vendor, err := h.VendorService.Get(id)
	if err != nil {
		respondWithMappedError(c, err, response.CodeInternal, "error.internal_error")
		return
	}
	response.Success(c, vendor)
}

// UpdateVendorStatus 更新供应商审核状态
func (h *Handler) UpdateVendorStatus(c *gin.Context) {
	id, ok := requireParam(c, "id")
	if !ok {
		return
	}
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	vendor, err := h.VendorService.UpdateStatus(id, req.Status)
	if err != nil {
		respondWithMappedError(c, err, response.CodeInternal, "error.internal_error")
		return
	}
	response.Success(c, vendor)
}

// DeleteVendor 删除供应商
func (h *Handler) DeleteVendor(c *gin.Context) {
	id, ok := requireParam(c, "id")
	if !ok {
		return
	}
	if err := h.VendorService.Delete(id); err != nil {
		respondWithMappedError(c, err, response.CodeInternal, "error.internal_error")
		return
	}
	requestLog(c).Infow("admin_vendor_deleted", "vendor_id", id)
	response.Success(c, nil)
}
