package parser

import (
	"bytes"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"
	"pcdmanager/internal/model"
)

// SheetReader 交接班表格读取器
type SheetReader struct {
	logger *slog.Logger
}

// NewSheetReader 创建读取器
func NewSheetReader(logger *slog.Logger) *SheetReader {
	if logger == nil {
		logger = slog.Default()
	}
	return &SheetReader{logger: logger}
}

// ReadBytes 从内存中的 xlsx 内容读取所有 sheet
func (r *SheetReader) ReadBytes(data []byte) (*ReadResult, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}

	file, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWorkbook, err)
	}
	defer file.Close()

	return r.Read(file)
}

// Read 按 sheet 顺序、行顺序读取数据行
func (r *SheetReader) Read(file *excelize.File) (*ReadResult, error) {
	result := &ReadResult{}
	hasData := false

	for _, sheetName := range file.GetSheetList() {
		// 读取所有行
		rows, err := file.GetRows(sheetName)
		if err != nil {
			result.Errors = append(result.Errors, &SheetError{Sheet: sheetName, Err: err})
			result.Sheets = append(result.Sheets, model.SheetSummary{
				SheetName: sheetName,
				Status:    model.SheetStatusError,
				Error:     err.Error(),
			})
			r.logger.Warn("failed to read sheet", "sheet", sheetName, "error", err)
			continue
		}
		if len(rows) > 0 {
			hasData = true
		}

		summary, sheetRows := r.readSheet(sheetName, rows, len(result.Rows))
		result.Sheets = append(result.Sheets, summary)
		result.Rows = append(result.Rows, sheetRows...)
	}

	if !hasData {
		return nil, ErrEmptyWorkbook
	}

	r.logger.Info("workbook read", "sheets", len(result.Sheets), "rows", len(result.Rows))
	return result, nil
}

// readSheet 读取单个 sheet，offset 为此前已输出的行数
func (r *SheetReader) readSheet(sheetName string, rows [][]string, offset int) (model.SheetSummary, []model.RawRow) {
	summary := model.SheetSummary{SheetName: sheetName}

	// 定位表头
	headerIdx := FindHeaderRow(rows)
	if headerIdx < 0 {
		summary.Status = model.SheetStatusNoHeader
		r.logger.Warn("no header row found", "sheet", sheetName)
		return summary, nil
	}

	columns := MapColumns(rows[headerIdx])
	summary.Status = model.SheetStatusRead
	summary.HeaderRow = headerIdx + 1
	summary.Columns = columns

	var out []model.RawRow
	for i := headerIdx + 1; i < len(rows); i++ {
		raw := model.RawRow{
			SheetName: sheetName,
			SourceRow: i + 1,
			DateText:  mappedCell(rows[i], columns, model.ColumnDate),
			ToolText:  mappedCell(rows[i], columns, model.ColumnTool),
			TaskText:  mappedCell(rows[i], columns, model.ColumnTask),
			TechText:  mappedCell(rows[i], columns, model.ColumnTech),
		}
		if raw.DateText == "" && raw.ToolText == "" && raw.TaskText == "" && raw.TechText == "" {
			summary.SkippedRows++
			continue
		}
		raw.Seq = offset + len(out) + 1
		out = append(out, raw)
	}
	summary.Rows = len(out)

	r.logger.Debug("sheet read", "sheet", sheetName, "headerRow", summary.HeaderRow, "rows", summary.Rows, "skipped", summary.SkippedRows)
	return summary, out
}

func mappedCell(row []string, columns map[model.Column]int, col model.Column) string {
	idx, ok := columns[col]
	if !ok {
		return ""
	}
	return cellAt(row, idx)
}
