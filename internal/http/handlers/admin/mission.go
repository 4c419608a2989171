package admin

import (
	"strings"
	"time"

	handlershared "github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/http/handlers/shared"
	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/http/response"
	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/repository"
	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/service"

	"github.com/gin-gonic/gin"
)

const missionDateLayout = "2006-01-02"

// CreateMissionRequest 创建任务请求
type CreateMissionRequest struct {
	Title                 string `json:"title" binding:"required"`
	Type                  string `json:"type" binding:"required"`
	NumberOfBeneficiaries int    `json:"number_of_beneficiaries"`
	Description           string `json:"description"`
	DeptLocation          string `json:"dept_location"`
	DestinationLocation   string `json:"destination_location"`
	StartDate             string `json:"start_date" binding:"required"`
	EndDate               string `json:"end_date" binding:"required"`
	Status                string `json:"status"`
}

// ContractVendorRequest 供应商承接任务请求
type ContractVendorRequest struct {
	VendorID  string `json:"vendor_id" binding:"required"`
	MissionID string `json:"mission_id" binding:"required"`
}

// CreateCargoRequest 创建任务货物请求
type CreateCargoRequest struct {
	TotalProductsQuantity int                      `json:"total_products_quantity"`
	Items                 []service.CargoItemInput `json:"items"`
}

// CreateMission 创建任务
func (h *Handler) CreateMission(c *gin.Context) {
	var req CreateMissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	startDate, err := time.Parse(missionDateLayout, strings.TrimSpace(req.StartDate))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	endDate, err := time.Parse(missionDateLayout, strings.TrimSpace(req.EndDate))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	mission, err := h.MissionService.CreateMission(service.CreateMissionInput{
		Title:                 req.Title,
		Type:                  req.Type,
		NumberOfBeneficiaries: req.NumberOfBeneficiaries,
		Description:           req.Description,
		DeptLocation:          req.DeptLocation,
		DestinationLocation:   req.DestinationLocation,
		StartDate:             startDate,
		EndDate:               endDate,
		Status:                req.Status,
	})
	if err != nil {
		respondWithMappedError(c, err, response.CodeInternal, "error.internal_error")
		return
	}
	requestLog(c).Infow("admin_mission_created", "mission_id", mission.UniqueID, "type", mission.Type)
	response.Success(c, mission)
}

// ListMissions 任务列表
func (h *Handler) ListMissions(c *gin.Context) {
	page, pageSize := handlershared.ParsePagination(c)
	missions, total, err := h.MissionService.ListMissions(repository.MissionListFilter{
		Page:     page,
		PageSize: pageSize,
		Type:     strings.TrimSpace(c.Query("type")),
		Status:   strings.TrimSpace(c.Query("status")),
		Search:   strings.TrimSpace(c.Query("search")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal_error", err)
		return
	}
	response.SuccessWithPage(c, missions, response.NewPagination(page, pageSize, total))
}

// GetMission 任务详情
func (h *Handler) GetMission(c *gin.Context) {
	id, ok := requireParam(c, "id")
	if !ok {
		return
	}
	mission, err := h.MissionService.GetMission(id)
	if err != nil {
		respondWithMappedError(c, err, response.CodeInternal, "error.internal_error")
		return
	}
	response.Success(c, mission)
}

// UpdateMissionStatus 更新任务状态
func (h *Handler) UpdateMissionStatus(c *gin.Context) {
	id, ok := requireParam(c, "id")
	if !ok {
		return
	}
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	mission, err := h.MissionService.UpdateMissionStatus(id, req.Status)
	if err != nil {
		respondWithMappedError(c, err, response.CodeInternal, "error.internal_error")
		return
	}
	response.Success(c, mission)
}

// DeleteMission 删除任务
func (h *Handler) DeleteMission(c *gin.Context) {
	id, ok := requireParam(c, "id")
	if !ok {
		return
	}
	if err := h.MissionService.DeleteMission(id); err != nil {
		respondWithMappedError(c, err, response.CodeInternal, "error.internal_error")
		return
	}
	requestLog(c).Infow("admin_mission_deleted", "mission_id", id)
	response.Success(c, nil)
}

// ContractVendor 建立供应商承接任务关系
func (h *Handler) ContractVendor(c *gin.Context) {
	var req ContractVendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	row, err := h.MissionService.ContractVendor(req.VendorID, req.MissionID)
	if err != nil {
		respondWithMappedError(c, err, response.CodeInternal, "error.internal_error")
		return
	}
	response.Success(c, row)
}

// ListVendorMissions 承接关系列表，可按 vendor_id / mission_id 过滤
func (h *Handler) ListVendorMissions(c *gin.Context) {
	rows, err := h.MissionService.ListVendorMissions(
		strings.TrimSpace(c.Query("vendor_id")),
		strings.TrimSpace(c.Query("mission_id")),
	)
	if err != nil {
		respondWithMappedError(c, err, response.CodeInternal, "error.internal_error")
		return
	}
	response.Success(c, rows)
}

// DeleteVendorMission 解除承接关系
func (h *Handler) DeleteVendorMission(c *gin.Context) {
	id, ok := requireParam(c, "id")
	if !ok {
		return
	}
	if err := h.MissionService.DeleteVendorMission(id); err != nil {
		respondWithMappedError(c, err, response.CodeInternal, "error.internal_error")
		return
	}
	response.Success(c, nil)
}

// CreateCargo 为任务创建货物清单
func (h *Handler) CreateCargo(c *gin.Context) {
	missionID, ok := requireParam(c, "id")
	if !ok {
		return
	}
	var req CreateCargoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	cargo, err := h.MissionService.CreateCargo(service.CreateCargoInput{
		MissionID:             missionID,
		TotalProductsQuantity: req.TotalProductsQuantity,
		Items:                 req.Items,
	})
	if err != nil {
		respondWithMappedError(c, err, response.CodeInternal, "error.internal_error")
		return
	}
	requestLog(c).Infow("admin_cargo_created", "mission_id", missionID, "cargo_id", cargo.UniqueID, "items", len(cargo.Items))
	response.Success(c, cargo)
}

// GetCargo 获取任务货物清单
func (h *Handler) GetCargo(c *gin.Context) {
	missionID, ok := requireParam(c, "id")
	if !ok {
		return
	}
	cargo, err := h.MissionService.GetCargo(missionID)
	if err != nil {
		respondWithMappedError(c, err, response.CodeInternal, "error.internal_error")
		return
	}
	response.Success(c, cargo)
}

// DeleteCargo 删除货物清单
func (h *Handler) DeleteCargo(c *gin.Context) {
	id, ok := requireParam(c, "id")
	if !ok {
		return
	}
	if err := h.MissionService.DeleteCargo(id); err != nil {
		respondWithMappedError(c, err, response.CodeInternal, "error.internal_error")
		return
	}
	response.Success(c, nil)
}

// AddCargoItem 向货物清单追加明细
func (h *Handler) AddCargoItem(c *gin.Context) {
	cargoID, ok := requireParam(c, "id")
	if !ok {
		return
	}
	var req service.CargoItemInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	item, err := h.MissionService.AddCargoItem(cargoID, req)
	if err != nil {
		respondWithMappedError(c, err, response.CodeInternal, "error.internal_error")
		return
	}
	response.Success(c, item)
}

// DeleteCargoItem 删除货物明细，其分配随之删除
func (h *Handler) DeleteCargoItem(c *gin.Context) {
	id, ok := requireParam(c, "id")
	if !ok {
		return
	}
	if err := h.MissionService.DeleteCargoItem(id); err != nil {
		respondWithMappedError(c, err, response.CodeInternal, "error.internal_error")
		return
	}
	requestLog(c).Infow("admin_cargo_item_deleted", "cargo_item_id", id)
	response.Success(c, nil)
}

// GetMissionCargoBreakdown 任务货物分配情况（不限供应商）
func (h *Handler) GetMissionCargoBreakdown(c *gin.Context) {
	missionID, ok := requireParam(c, "id")
	if !ok {
		return
	}
	view, err := h.AllocationQueryService.MissionCargo(0, missionID)
	if err != nil {
		handlershared.RespondAllocationError(c, err, "error.internal_error")
		return
	}
	response.Success(c, view)
}
