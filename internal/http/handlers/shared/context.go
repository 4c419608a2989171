package shared

import (
	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/http/response"

	"github.com/gin-gonic/gin"
)

// 鉴权中间件写入的上下文键
const (
	ContextUserID   = "user_id"
	ContextUserRole = "user_role"
)

// GetUserID 读取当前登录用户 ID，缺失时返回 401，类型异常时返回 400
func GetUserID(c *gin.Context) (uint, bool) {
	value, exists := c.Get(ContextUserID)
	if !exists {
		RespondError(c, response.CodeUnauthorized, "error.unauthorized", nil)
		return 0, false
	}
	id, ok := value.(uint)
	if !ok || id == 0 {
		RespondError(c, response.CodeBadRequest, "error.user_id_invalid", nil)
		return 0, false
	}
	return id, true
}
