package public

import (
	"strings"

	handlershared "github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/http/handlers/shared"
	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/http/response"
	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/repository"

	"github.com/gin-gonic/gin"
)

// ListMyMissions 获取当前供应商承接的任务
func (h *Handler) ListMyMissions(c *gin.Context) {
	vendor, ok := h.currentVendor(c)
	if !ok {
		return
	}
	page, pageSize := handlershared.ParsePagination(c)

	missions, total, err := h.MissionService.ListMissions(repository.MissionListFilter{
		Page:     page,
		PageSize: pageSize,
		Type:     strings.TrimSpace(c.Query("type")),
		Status:   strings.TrimSpace(c.Query("status")),
		Search:   strings.TrimSpace(c.Query("search")),
		VendorID: vendor.ID,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal_error", err)
		return
	}
	response.SuccessWithPage(c, missions, response.NewPagination(page, pageSize, total))
}

// GetMissionCargo 获取已承接任务的货物明细及剩余可分配数量
func (h *Handler) GetMissionCargo(c *gin.Context) {
	vendor, ok := h.currentVendor(c)
	if !ok {
		return
	}
	missionID := strings.TrimSpace(c.Param("id"))
	if missionID == "" {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	view, err := h.AllocationQueryService.MissionCargo(vendor.ID, missionID)
	if err != nil {
		respondAllocationError(c, err)
		return
	}
	response.Success(c, view)
}

// ListMyTrucks 获取当前供应商的车辆
func (h *Handler) ListMyTrucks(c *gin.Context) {
	vendor, ok := h.currentVendor(c)
	if !ok {
		return
	}
	page, pageSize := handlershared.ParsePagination(c)

	trucks, total, err := h.FleetService.ListTrucks(repository.TruckListFilter{
		Page:     page,
		PageSize: pageSize,
		VendorID: vendor.ID,
		Status:   strings.TrimSpace(c.Query("status")),
		Search:   strings.TrimSpace(c.Query("search")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal_error", err)
		return
	}
	response.SuccessWithPage(c, trucks, response.NewPagination(page, pageSize, total))
}

// ListMyDrivers 获取当前供应商的司机
func (h *Handler) ListMyDrivers(c *gin.Context) {
	vendor, ok := h.currentVendor(c)
	if !ok {
		return
	}
	page, pageSize := handlershared.ParsePagination(c)

	drivers, total, err := h.FleetService.ListDrivers(repository.DriverListFilter{
		Page:     page,
		PageSize: pageSize,
		VendorID: vendor.ID,
		Search:   strings.TrimSpace(c.Query("search")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal_error", err)
		return
	}
	response.SuccessWithPage(c, drivers, response.NewPagination(page, pageSize, total))
}
