package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"pcdmanager/internal/model"
	"pcdmanager/internal/store"
)

// StatusResponse 系统状态响应
type StatusResponse struct {
	Initialized    bool              `json:"initialized"`    // 目录中是否已有设备和用户
	ToolCount      int               `json:"toolCount"`      // 设备数
	UserCount      int               `json:"userCount"`      // 用户数
	PassdownCount  int               `json:"passdownCount"`  // 交接班记录总数
	Months         []store.MonthStat `json:"months"`         // 按月统计
	LastImport     *model.ImportLog  `json:"lastImport"`     // 最近一次导入
	SkipDuplicates bool              `json:"skipDuplicates"` // 默认判重策略
}

// GetStatus 获取系统状态
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	ctx := c.Request.Context()

	tools, users, err := h.store.DirectoryCounts(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	total, err := h.store.CountPassdowns(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	months, err := h.store.ListPassdownMonths(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if months == nil {
		months = []store.MonthStat{}
	}

	last, err := h.store.LatestImportLog(ctx)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, StatusResponse{
		Initialized:    tools > 0 && users > 0,
		ToolCount:      tools,
		UserCount:      users,
		PassdownCount:  total,
		Months:         months,
		LastImport:     last,
		SkipDuplicates: h.cfg.Import.SkipDuplicates,
	})
}
