package public

import (
	"strings"
	"time"

	handlershared "github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/http/handlers/shared"
	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/http/response"
	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateAssignmentRequest 创建承运记录请求
type CreateAssignmentRequest struct {
	MissionID  string                      `json:"mission_id" binding:"required"`
	TruckID    string                      `json:"truck_id" binding:"required"`
	DriverID   string                      `json:"driver_id"`
	StartDate  string                      `json:"start_date"`
	EndDate    string                      `json:"end_date"`
	CargoItems []service.AllocationRequest `json:"cargo_items"`
}

// ReplaceCargoRequest 替换承运货物请求
type ReplaceCargoRequest struct {
	CargoItems []service.AllocationRequest `json:"cargo_items"`
}

// CreateAssignment 创建承运记录及其货物分配
func (h *Handler) CreateAssignment(c *gin.Context) {
	vendor, ok := h.currentVendor(c)
	if !ok {
		return
	}

	var req CreateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	startDate, err := parseOptionalDate(req.StartDate)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	endDate, err := parseOptionalDate(req.EndDate)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	assignment, err := h.AssignmentService.CreateAssignment(service.CreateAssignmentInput{
		VendorID:   vendor.ID,
		MissionID:  req.MissionID,
		TruckID:    req.TruckID,
		DriverID:   req.DriverID,
		StartDate:  startDate,
		EndDate:    endDate,
		CargoItems: req.CargoItems,
	})
	if err != nil {
		respondAllocationError(c, err)
		return
	}

	h.respondAssignmentView(c, assignment.UniqueID, vendor.ID)
}

// ReplaceAssignmentCargo 以新的货物列表整体替换承运记录的分配
func (h *Handler) ReplaceAssignmentCargo(c *gin.Context) {
	vendor, ok := h.currentVendor(c)
	if !ok {
		return
	}
	assignmentID := strings.TrimSpace(c.Param("id"))
	if assignmentID == "" {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	var req ReplaceCargoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	assignment, err := h.AssignmentService.ReplaceCargo(service.ReplaceCargoInput{
		VendorID:     vendor.ID,
		AssignmentID: assignmentID,
		CargoItems:   req.CargoItems,
	})
	if err != nil {
		respondAllocationError(c, err)
		return
	}

	h.respondAssignmentView(c, assignment.UniqueID, vendor.ID)
}

// GetAssignment 获取承运记录详情
func (h *Handler) GetAssignment(c *gin.Context) {
	vendor, ok := h.currentVendor(c)
	if !ok {
		return
	}
	assignmentID := strings.TrimSpace(c.Param("id"))
	if assignmentID == "" {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	h.respondAssignmentView(c, assignmentID, vendor.ID)
}

// ListAssignments 获取当前供应商的承运记录及利用率
func (h *Handler) ListAssignments(c *gin.Context) {
	vendor, ok := h.currentVendor(c)
	if !ok {
		return
	}
	page, pageSize := handlershared.ParsePagination(c)

	summary, err := h.AllocationQueryService.VendorAssignments(vendor.ID, page, pageSize)
	if err != nil {
		respondAllocationError(c, err)
		return
	}
	response.SuccessWithPage(c, summary, response.NewPagination(page, pageSize, summary.Total))
}

// DeleteAssignment 删除承运记录，同时释放其全部分配数量
func (h *Handler) DeleteAssignment(c *gin.Context) {
	vendor, ok := h.currentVendor(c)
	if !ok {
		return
	}
	assignmentID := strings.TrimSpace(c.Param("id"))
	if assignmentID == "" {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	if err := h.AssignmentService.DeleteAssignment(vendor.ID, assignmentID); err != nil {
		respondAllocationError(c, err)
		return
	}
	response.Success(c, nil)
}

// GetAssignmentUtilization 获取承运车辆的装载利用率
func (h *Handler) GetAssignmentUtilization(c *gin.Context) {
	vendor, ok := h.currentVendor(c)
	if !ok {
		return
	}
	assignmentID := strings.TrimSpace(c.Param("id"))
	if assignmentID == "" {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	assignment, err := h.AssignmentService.GetVendorAssignment(vendor.ID, assignmentID)
	if err != nil {
		respondAllocationError(c, err)
		return
	}
	utilization, err := h.AssignmentService.Utilization(assignment)
	if err != nil {
		respondAllocationError(c, err)
		return
	}
	response.Success(c, utilization)
}

func (h *Handler) respondAssignmentView(c *gin.Context, assignmentID string, vendorID uint) {
	assignment, err := h.AssignmentService.GetVendorAssignment(vendorID, assignmentID)
	if err != nil {
		respondAllocationError(c, err)
		return
	}
	view, err := h.AllocationQueryService.AssignmentDetail(assignment)
	if err != nil {
		respondAllocationError(c, err)
		return
	}
	response.Success(c, view)
}

func parseOptionalDate(raw string) (*time.Time, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if parsed, err := time.Parse(layout, value); err == nil {
			return &parsed, nil
		}
	}
	return nil, service.ErrInvalidInput
}
