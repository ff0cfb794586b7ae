package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// SortRequest 排序请求
type SortRequest struct {
	Key string `json:"key" binding:"required"`
}

// GetState 获取所有区域的渲染结果
// GET /api/state
func (h *Handler) GetState(c *gin.Context) {
	c.JSON(http.StatusOK, h.app.View())
}

// Sort 按列排序，同一列再次请求切换方向
// POST /api/sort
func (h *Handler) Sort(c *gin.Context) {
	var req SortRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Key) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sort key is required"})
		return
	}

	if _, err := h.app.SortBy(req.Key); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.app.View())
}

// Reload 开始新的加载周期
// POST /api/reload
func (h *Handler) Reload(c *gin.Context) {
	h.app.Reload(c.Request.Context())
	c.JSON(http.StatusOK, h.app.View())
}

// ListLoads 最近的加载日志
// GET /api/loads?limit=20
func (h *Handler) ListLoads(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	logs, err := h.app.LoadLog(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read load log"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": logs})
}
