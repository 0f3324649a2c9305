package v1

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"pcdmanager/internal/model"
)

const formOverhead = 1 << 20

var (
	errNoFile       = errors.New("未找到上传文件")
	errFileTooLarge = errors.New("上传文件过大")
)

// readUpload 读取 multipart 表单中的 file 字段
func (h *Handler) readUpload(c *gin.Context) ([]byte, error) {
	limit := h.cfg.MaxUploadBytes()
	// 请求体上限额外留出表单字段的空间
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit+formOverhead)

	fh, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, errFileTooLarge
		}
		return nil, errNoFile
	}
	if fh.Size > limit {
		return nil, errFileTooLarge
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()

	return io.ReadAll(f)
}

// formLocation 表单中的站点与时区，缺省使用配置中的默认站点
func (h *Handler) formLocation(c *gin.Context) (model.Location, error) {
	loc := h.cfg.DefaultLocation()
	if v := strings.TrimSpace(c.PostForm("location")); v != "" {
		loc.Name = v
	}
	if v := strings.TrimSpace(c.PostForm("timezone")); v != "" {
		if _, err := time.LoadLocation(v); err != nil {
			return loc, fmt.Errorf("invalid timezone %q", v)
		}
		loc.TimeZone = v
	}
	return loc, nil
}

// formMapping 解析表单中的 token → ID 映射；字段缺失时返回 nil
func formMapping(c *gin.Context, field string) (map[string]*int64, error) {
	raw := strings.TrimSpace(c.PostForm(field))
	if raw == "" {
		return nil, nil
	}
	var m map[string]*int64
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", field, err)
	}
	if m == nil {
		m = map[string]*int64{}
	}
	return m, nil
}
