package api

import (
	"github.com/gin-gonic/gin"

	"houseboard/internal/dashboard"
)

// Handler 仪表盘 API 处理器
type Handler struct {
	app *dashboard.App
}

// NewHandler 创建 API 处理器
func NewHandler(app *dashboard.App) *Handler {
	return &Handler{app: app}
}

// RegisterRoutes 注册 API 路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// 当前渲染状态
	router.GET("/state", h.GetState)

	// 排序
	router.POST("/sort", h.Sort)

	// 主题
	router.GET("/theme", h.GetTheme)
	router.POST("/theme/toggle", h.ToggleTheme)

	// 重新加载与加载日志
	router.POST("/reload", h.Reload)
	router.GET("/loads", h.ListLoads)
}
