package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetTheme 当前主题
// GET /api/theme
func (h *Handler) GetTheme(c *gin.Context) {
	c.JSON(http.StatusOK, h.app.View().Theme)
}

// ToggleTheme 切换主题，返回新主题与当前底图
// POST /api/theme/toggle
func (h *Handler) ToggleTheme(c *gin.Context) {
	st := h.app.ToggleTheme()
	v := h.app.View()
	c.JSON(http.StatusOK, gin.H{
		"theme": st,
		"tiles": v.Map.Tiles,
	})
}
