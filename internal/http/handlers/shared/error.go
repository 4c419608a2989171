package shared

import (
	"errors"

	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/http/response"
	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/i18n"
	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/logger"
	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLog 提供携带 request_id 的日志实例。
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	if requestID, ok := c.Get("request_id"); ok {
		if id, ok := requestID.(string); ok && id != "" {
			return logger.SW("request_id", id)
		}
	}
	return logger.S()
}

// RespondError 返回国际化错误响应，并在有原始错误时记录日志。
func RespondError(c *gin.Context, code int, key string, err error) {
	RespondErrorWithMsg(c, code, i18n.T(i18n.ResolveLocale(c), key), err)
}

// RespondErrorWithMsg 返回自定义消息错误响应；客户端错误记 warn，服务端错误记 error。
func RespondErrorWithMsg(c *gin.Context, code int, msg string, err error) {
	if err != nil {
		log := RequestLog(c)
		if response.IsClientError(code) {
			log.Warnw("handler_client_error", "code", code, "message", msg, "error", err)
		} else {
			log.Errorw("handler_error", "code", code, "message", msg, "error", err)
		}
	}
	response.Error(c, code, msg)
}

// MappedError 定义业务错误到接口错误响应的映射关系。
type MappedError struct {
	Target error
	Code   int
	Key    string
}

// RespondWithMappedError 按规则表输出错误，未命中时按兜底错误记录日志。
func RespondWithMappedError(c *gin.Context, err error, rules []MappedError, fallbackCode int, fallbackKey string) {
	if RespondPasswordPolicyError(c, err) {
		return
	}
	for _, rule := range rules {
		if errors.Is(err, rule.Target) {
			RespondError(c, rule.Code, rule.Key, nil)
			return
		}
	}
	RespondError(c, fallbackCode, fallbackKey, err)
}

// ConcatMappedErrors 合并多组映射规则。
func ConcatMappedErrors(groups ...[]MappedError) []MappedError {
	total := 0
	for _, group := range groups {
		total += len(group)
	}
	result := make([]MappedError, 0, total)
	for _, group := range groups {
		result = append(result, group...)
	}
	return result
}

// RespondPasswordPolicyError 密码策略错误带参数翻译，非该类错误时返回 false。
func RespondPasswordPolicyError(c *gin.Context, err error) bool {
	if !errors.Is(err, service.ErrWeakPassword) {
		return false
	}
	var perr interface {
		Key() string
		Args() []interface{}
	}
	if errors.As(err, &perr) {
		locale := i18n.ResolveLocale(c)
		RespondErrorWithMsg(c, response.CodeBadRequest, i18n.Sprintf(locale, perr.Key(), perr.Args()...), nil)
		return true
	}
	RespondError(c, response.CodeBadRequest, "error.password_weak", nil)
	return true
}

// RespondAllocationError 分配类错误：汇总校验失败时返回全部单项信息。
func RespondAllocationError(c *gin.Context, err error, fallbackKey string) {
	var validationErr *service.AllocationValidationError
	if errors.As(err, &validationErr) {
		locale := i18n.ResolveLocale(c)
		response.ErrorWithData(c, response.CodeUnprocessable, i18n.T(locale, "error.allocation_validation_failed"), gin.H{
			"errors": validationErr.Messages(),
		})
		return
	}
	var overErr *service.OverAllocationError
	if errors.As(err, &overErr) {
		response.ErrorWithData(c, response.CodeUnprocessable, overErr.Error(), gin.H{
			"cargo_item_id": overErr.CargoItemID,
			"available":     overErr.Available,
			"requested":     overErr.Requested,
		})
		return
	}
	var capErr *service.CapacityExceededError
	if errors.As(err, &capErr) {
		response.ErrorWithData(c, response.CodeUnprocessable, capErr.Error(), gin.H{
			"capacity":  capErr.Capacity,
			"requested": capErr.Requested,
		})
		return
	}
	RespondWithMappedError(c, err, DomainErrorRules, response.CodeInternal, fallbackKey)
}

// DomainErrorRules 领域通用错误映射
var DomainErrorRules = []MappedError{
	{Target: service.ErrInvalidInput, Code: response.CodeBadRequest, Key: "error.bad_request"},
	{Target: service.ErrInvalidDateRange, Code: response.CodeBadRequest, Key: "error.date_range_invalid"},
	{Target: service.ErrInvalidCapacity, Code: response.CodeBadRequest, Key: "error.truck_capacity_invalid"},
	{Target: service.ErrInvalidEmail, Code: response.CodeBadRequest, Key: "error.email_invalid"},
	{Target: service.ErrUnsupportedRole, Code: response.CodeBadRequest, Key: "error.role_unsupported"},
	{Target: service.ErrDuplicateCargoItem, Code: response.CodeBadRequest, Key: "error.cargo_item_duplicate"},
	{Target: service.ErrInvalidQuantity, Code: response.CodeBadRequest, Key: "error.allocation_quantity_invalid"},
	{Target: service.ErrDocumentRequired, Code: response.CodeBadRequest, Key: "error.document_required"},
	{Target: service.ErrDocumentTooLarge, Code: response.CodeBadRequest, Key: "error.document_too_large"},
	{Target: service.ErrDocumentExtension, Code: response.CodeBadRequest, Key: "error.document_extension"},

	{Target: service.ErrVendorNotResolved, Code: response.CodeForbidden, Key: "error.vendor_not_resolved"},
	{Target: service.ErrAuthorization, Code: response.CodeForbidden, Key: "error.allocation_forbidden"},

	{Target: service.ErrVendorNotFound, Code: response.CodeNotFound, Key: "error.vendor_not_found"},
	{Target: service.ErrProductNotFound, Code: response.CodeNotFound, Key: "error.product_not_found"},
	{Target: service.ErrDriverNotFound, Code: response.CodeNotFound, Key: "error.driver_not_found"},
	{Target: service.ErrMissionNotFound, Code: response.CodeNotFound, Key: "error.mission_not_found"},
	{Target: service.ErrVendorMissionNotFound, Code: response.CodeNotFound, Key: "error.vendor_mission_not_found"},
	{Target: service.ErrCargoNotFound, Code: response.CodeNotFound, Key: "error.cargo_not_found"},
	{Target: service.ErrCargoItemNotFound, Code: response.CodeNotFound, Key: "error.cargo_item_not_found"},
	{Target: service.ErrTruckNotFound, Code: response.CodeNotFound, Key: "error.truck_not_found"},
	{Target: service.ErrAssignmentNotFound, Code: response.CodeNotFound, Key: "error.assignment_not_found"},
	{Target: service.ErrContactNotFound, Code: response.CodeNotFound, Key: "error.contact_not_found"},
	{Target: service.ErrUserNotFound, Code: response.CodeNotFound, Key: "error.user_not_found"},
	{Target: service.ErrRegionNotFound, Code: response.CodeNotFound, Key: "error.region_not_found"},
	{Target: service.ErrOperationRegionNotFound, Code: response.CodeNotFound, Key: "error.operation_region_not_found"},
	{Target: service.ErrDocumentNotFound, Code: response.CodeNotFound, Key: "error.document_not_found"},
	{Target: service.ErrNoCargo, Code: response.CodeNotFound, Key: "error.allocation_no_cargo"},

	{Target: service.ErrVendorRegNoExists, Code: response.CodeConflict, Key: "error.vendor_reg_no_exists"},
	{Target: service.ErrVendorMissionExists, Code: response.CodeConflict, Key: "error.vendor_mission_exists"},
	{Target: service.ErrCargoExists, Code: response.CodeConflict, Key: "error.cargo_exists"},
	{Target: service.ErrContactExists, Code: response.CodeConflict, Key: "error.contact_exists"},
	{Target: service.ErrAssignmentExists, Code: response.CodeConflict, Key: "error.assignment_exists"},
	{Target: service.ErrEmailExists, Code: response.CodeConflict, Key: "error.email_exists"},
	{Target: service.ErrDriverExists, Code: response.CodeConflict, Key: "error.driver_exists"},
	{Target: service.ErrRegionExists, Code: response.CodeConflict, Key: "error.region_exists"},
	{Target: service.ErrOperationRegionExists, Code: response.CodeConflict, Key: "error.operation_region_exists"},

	{Target: service.ErrOverAllocation, Code: response.CodeUnprocessable, Key: "error.allocation_over"},
	{Target: service.ErrCapacityExceeded, Code: response.CodeUnprocessable, Key: "error.allocation_capacity"},
}
