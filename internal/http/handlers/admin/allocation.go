package admin

import (
	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/http/response"

	"github.com/gin-gonic/gin"
)

// RunAllocationAudit 手动触发全量分配对账，仅报告不修正
func (h *Handler) RunAllocationAudit(c *gin.Context) {
	if h.AllocationAuditService == nil {
		respondError(c, response.CodeInternal, "error.internal_error", nil)
		return
	}
	report, err := h.AllocationAuditService.Sweep(c.Request.Context(), 0)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal_error", err)
		return
	}
	if len(report.Violations) > 0 {
		requestLog(c).Warnw("admin_allocation_audit_violations",
			"checked", report.Checked,
			"violations", len(report.Violations),
		)
	}
	response.Success(c, report)
}
