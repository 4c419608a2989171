package public

import (
	handlershared "github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/http/handlers/shared"
	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/http/response"
	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/models"

	"github.com/gin-gonic/gin"
)

func getUserID(c *gin.Context) (uint, bool) {
	return handlershared.GetUserID(c)
}

// currentVendor 解析当前登录用户所属供应商，失败时已写出响应
func (h *Handler) currentVendor(c *gin.Context) (*models.Vendor, bool) {
	userID, ok := getUserID(c)
	if !ok {
		return nil, false
	}
	vendor, err := h.UserAuthService.ResolveVendor(userID)
	if err != nil {
		respondWithMappedError(c, err, response.CodeInternal, "error.internal_error")
		return nil, false
	}
	return vendor, true
}
