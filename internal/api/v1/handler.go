package v1

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"pcdmanager/internal/config"
	"pcdmanager/internal/importer"
	"pcdmanager/internal/store"
)

// Handler V1 API 处理器
type Handler struct {
	store       *store.Store
	cfg         *config.AppConfig
	coordinator *importer.Coordinator
	logger      *slog.Logger
}

// NewHandler 创建 V1 API 处理器
func NewHandler(st *store.Store, cfg *config.AppConfig, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		store:       st,
		cfg:         cfg,
		coordinator: importer.NewCoordinator(st, logger),
		logger:      logger,
	}
}

// RegisterRoutes 注册 V1 API 路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// 系统状态
	router.GET("/status", h.GetStatus)

	// 目录（人工映射时选择设备 / 技术员）
	router.GET("/tools", h.ListTools)
	router.GET("/users", h.ListUsers)

	// 交接班表格导入
	imports := router.Group("/passdowns/import")
	imports.POST("/parse", h.ParseImport)
	imports.POST("/preview", h.PreviewImport)
	imports.POST("/preview/export", h.ExportPreview)
	imports.POST("/confirm", h.ConfirmImport)
	imports.POST("/confirm/stream", h.ConfirmImportStream)
}
