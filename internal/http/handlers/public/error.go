package public

import (
	handlershared "github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

func respondWithMappedError(c *gin.Context, err error, fallbackCode int, fallbackKey string) {
	handlershared.RespondWithMappedError(c, err, handlershared.DomainErrorRules, fallbackCode, fallbackKey)
}

func respondAllocationError(c *gin.Context, err error) {
	handlershared.RespondAllocationError(c, err, "error.internal_error")
}
