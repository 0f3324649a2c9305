package parser

import (
	"errors"
	"fmt"

	"pcdmanager/internal/model"
)

var (
	// ErrEmptyFile 上传内容为空
	ErrEmptyFile = errors.New("workbook file is empty")
	// ErrEmptyWorkbook 工作簿中没有任何数据行
	ErrEmptyWorkbook = errors.New("workbook contains no data")
	// ErrInvalidWorkbook 无法识别为 xlsx 工作簿
	ErrInvalidWorkbook = errors.New("invalid workbook")
)

// SheetError 单个 sheet 的读取错误，不影响其他 sheet
type SheetError struct {
	Sheet string
	Err   error
}

func (e *SheetError) Error() string {
	return fmt.Sprintf("sheet %q: %v", e.Sheet, e.Err)
}

func (e *SheetError) Unwrap() error {
	return e.Err
}

// ReadResult 工作簿读取结果
type ReadResult struct {
	Rows   []model.RawRow       `json:"rows"`
	Sheets []model.SheetSummary `json:"sheets"`
	Errors []error              `json:"-"`
}
