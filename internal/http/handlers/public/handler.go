package public

import "github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/provider"

// Handler 供应商侧接口处理器入口
// 说明：该处理器用于登录、个人信息及供应商承运相关 API。
type Handler struct {
	*provider.Container
}

// New 创建供应商侧处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
