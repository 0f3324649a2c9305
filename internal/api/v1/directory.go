package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListTools 设备目录
// GET /api/tools
func (h *Handler) ListTools(c *gin.Context) {
	tools, err := h.store.ListTools(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": tools})
}

// ListUsers 用户目录
// GET /api/users
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.store.ListUsers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": users})
}
