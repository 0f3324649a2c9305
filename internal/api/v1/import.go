package v1

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"pcdmanager/internal/exporter"
	"pcdmanager/internal/importer"
	"pcdmanager/internal/model"
	"pcdmanager/internal/parser"
)

// ConfirmRequest 提交导入请求
type ConfirmRequest struct {
	CreatorID      int64               `json:"creatorId"`
	SkipDuplicates *bool               `json:"skipDuplicates"` // 缺省使用配置
	Entries        []model.ImportEntry `json:"entries"`
}

// structuralError 工作簿结构错误返回 400，其余视为服务端错误
func (h *Handler) structuralError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, parser.ErrEmptyFile):
		c.JSON(http.StatusBadRequest, gin.H{"error": "上传文件为空"})
	case errors.Is(err, parser.ErrInvalidWorkbook):
		c.JSON(http.StatusBadRequest, gin.H{"error": "无法读取工作簿"})
	case errors.Is(err, parser.ErrEmptyWorkbook):
		c.JSON(http.StatusBadRequest, gin.H{"error": "工作簿中没有可读取的数据"})
	default:
		h.logger.Error("import request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func (h *Handler) uploadError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errFileTooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
	case errors.Is(err, errNoFile):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "读取上传文件失败"})
	}
}

// ParseImport 解析工作簿并返回待确认的设备 / 技术员匹配
// POST /api/passdowns/import/parse
func (h *Handler) ParseImport(c *gin.Context) {
	data, err := h.readUpload(c)
	if err != nil {
		h.uploadError(c, err)
		return
	}
	loc, err := h.formLocation(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.coordinator.ParseForReview(c.Request.Context(), data, loc)
	if err != nil {
		h.structuralError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// PreviewImport 按确认后的映射生成预览
// POST /api/passdowns/import/preview
func (h *Handler) PreviewImport(c *gin.Context) {
	result, ok := h.previewRequest(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, result)
}

// ExportPreview 生成预览并导出为审核工作簿
// POST /api/passdowns/import/preview/export
func (h *Handler) ExportPreview(c *gin.Context) {
	result, ok := h.previewRequest(c)
	if !ok {
		return
	}

	file, err := exporter.ExportPreview(result, exporter.ExportOptions{
		FlaggedOnly: c.PostForm("flaggedOnly") == "true",
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "导出失败: " + err.Error()})
		return
	}
	defer file.Close()

	// 设置响应头
	c.Header("Content-Disposition", exporter.ContentDisposition("passdown-preview.xlsx"))
	c.Header("Content-Type", exporter.ContentType)

	// 写入文件
	if err := file.Write(c.Writer); err != nil {
		h.logger.Warn("write preview workbook failed", "error", err)
	}
}

// previewRequest 读取预览所需的上传文件、站点与映射；失败时已写出响应
func (h *Handler) previewRequest(c *gin.Context) (*model.PreviewResult, bool) {
	data, err := h.readUpload(c)
	if err != nil {
		h.uploadError(c, err)
		return nil, false
	}
	loc, err := h.formLocation(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	toolMap, err := formMapping(c, "toolMappings")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	techMap, err := formMapping(c, "techMappings")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}

	result, err := h.coordinator.GeneratePreview(c.Request.Context(), data, loc, toolMap, techMap)
	if err != nil {
		h.structuralError(c, err)
		return nil, false
	}
	return result, true
}

func (h *Handler) bindConfirm(c *gin.Context) (*ConfirmRequest, importer.ImportOptions, bool) {
	var req ConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误"})
		return nil, importer.ImportOptions{}, false
	}
	if req.CreatorID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "缺少导入人"})
		return nil, importer.ImportOptions{}, false
	}

	opts := importer.ImportOptions{SkipDuplicates: h.cfg.Import.SkipDuplicates}
	if req.SkipDuplicates != nil {
		opts.SkipDuplicates = *req.SkipDuplicates
	}
	return &req, opts, true
}

// ConfirmImport 提交确认后的条目
// POST /api/passdowns/import/confirm
func (h *Handler) ConfirmImport(c *gin.Context) {
	req, opts, ok := h.bindConfirm(c)
	if !ok {
		return
	}

	result, err := h.coordinator.ImportEntries(c.Request.Context(), req.Entries, req.CreatorID, opts)
	if err != nil {
		if errors.Is(err, importer.ErrUnknownCreator) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "导入人不存在"})
			return
		}
		h.logger.Error("import confirm failed", "creator", req.CreatorID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// ConfirmImportStream 提交确认后的条目 (SSE 流式响应)
// POST /api/passdowns/import/confirm/stream
func (h *Handler) ConfirmImportStream(c *gin.Context) {
	req, opts, ok := h.bindConfirm(c)
	if !ok {
		return
	}

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "不支持流式响应"})
		return
	}

	// 设置 SSE 响应头
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	send := func(v any) {
		data, err := json.Marshal(v)
		if err != nil {
			return
		}
		// SSE 格式: data: {json}\n\n
		fmt.Fprintf(c.Writer, "data: %s\n\n", data)
		flusher.Flush()
	}

	opts.Progress = func(evt importer.ProgressEvent) { send(evt) }

	result, err := h.coordinator.ImportEntries(c.Request.Context(), req.Entries, req.CreatorID, opts)
	if err != nil {
		send(gin.H{"type": "error", "message": err.Error()})
		return
	}
	send(gin.H{"type": "result", "result": result})
}
