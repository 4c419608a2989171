package models

import (
	"strings"

	"github.com/google/uuid"
)

// assignUniqueID 为对外标识补齐 UUID，内部自增主键不对外暴露
func assignUniqueID(target *string) {
	if target == nil {
		return
	}
	if strings.TrimSpace(*target) == "" {
		*target = uuid.NewString()
	}
}

// IsValidUniqueID 校验对外标识格式
func IsValidUniqueID(value string) bool {
	_, err := uuid.Parse(strings.TrimSpace(value))
	return err == nil
}
