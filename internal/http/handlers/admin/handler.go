package admin

import "github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/provider"

// Handler 后台管理接口处理器入口
// 说明：该处理器仅用于超级管理员 API。
type Handler struct {
	*provider.Container
}

// New 创建后台处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
