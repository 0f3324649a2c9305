// Package exporter 将导入预览导出为待审核工作簿
package exporter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"pcdmanager/internal/model"
)

// ContentType xlsx 响应类型
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Columns 审核工作簿列
var Columns = []string{"Row", "Sheet", "Date", "Inferred", "Tool", "Tool IDs", "Task", "Tech", "Tech IDs", "Flags"}

var columnWidths = []float64{6, 14, 12, 9, 18, 10, 48, 14, 10, 28}

// ProgressEvent 导出进度事件
type ProgressEvent struct {
	Percent int
	Stage   string
}

func reportProgress(progress func(ProgressEvent), percent int, stage string) {
	if progress == nil {
		return
	}
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	progress(ProgressEvent{Percent: percent, Stage: stage})
}

// ExportOptions 导出选项
type ExportOptions struct {
	FlaggedOnly bool                // 只导出被标记的条目
	Progress    func(ProgressEvent) // 可选
}

type styles struct {
	header  int
	flagged int
}

// ExportPreview 按月份生成审核工作簿，每个有条目的月份一个 sheet，被标记的行以黄色底色突出
// 所有月份都没有条目时生成一个只有表头的 Empty sheet
func ExportPreview(preview *model.PreviewResult, opts ExportOptions) (*excelize.File, error) {
	f := excelize.NewFile()
	defaultSheet := f.GetSheetName(f.GetActiveSheetIndex())

	st, err := newStyles(f)
	if err != nil {
		f.Close()
		return nil, err
	}

	written := 0
	for i, month := range preview.Months {
		reportProgress(opts.Progress, i*100/len(preview.Months), month)

		entries := selectEntries(preview.PassdownsByMonth[month], opts.FlaggedOnly)
		if len(entries) == 0 {
			continue
		}

		sheet := month
		if written == 0 {
			err = f.SetSheetName(defaultSheet, sheet)
		} else {
			_, err = f.NewSheet(sheet)
		}
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to create sheet %s: %w", sheet, err)
		}
		if err := writeSheet(f, sheet, entries, st); err != nil {
			f.Close()
			return nil, err
		}
		written++
	}

	if written == 0 {
		if err := f.SetSheetName(defaultSheet, "Empty"); err != nil {
			f.Close()
			return nil, err
		}
		if err := writeHeader(f, "Empty", st); err != nil {
			f.Close()
			return nil, err
		}
	}

	f.SetActiveSheet(0)
	reportProgress(opts.Progress, 100, "done")
	return f, nil
}

func selectEntries(entries []model.PreviewEntry, flaggedOnly bool) []model.PreviewEntry {
	if !flaggedOnly {
		return entries
	}
	var out []model.PreviewEntry
	for _, e := range entries {
		if e.Flagged {
			out = append(out, e)
		}
	}
	return out
}

func newStyles(f *excelize.File) (styles, error) {
	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"D9E1F2"}},
	})
	if err != nil {
		return styles{}, fmt.Errorf("failed to create header style: %w", err)
	}
	flagged, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"FFF2CC"}},
	})
	if err != nil {
		return styles{}, fmt.Errorf("failed to create flag style: %w", err)
	}
	return styles{header: header, flagged: flagged}, nil
}

func writeHeader(f *excelize.File, sheet string, st styles) error {
	header := make([]any, len(Columns))
	for i, c := range Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header on %s: %w", sheet, err)
	}

	lastCol, _ := excelize.ColumnNumberToName(len(Columns))
	if err := f.SetCellStyle(sheet, "A1", lastCol+"1", st.header); err != nil {
		return err
	}
	for i, w := range columnWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(sheet, col, col, w); err != nil {
			return err
		}
	}
	return f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
}

func writeSheet(f *excelize.File, sheet string, entries []model.PreviewEntry, st styles) error {
	if err := writeHeader(f, sheet, st); err != nil {
		return err
	}

	lastCol, _ := excelize.ColumnNumberToName(len(Columns))
	for i, e := range entries {
		row := i + 2
		values := entryRow(e)
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, row, err)
		}
		if e.Flagged {
			if err := f.SetCellStyle(sheet, cell, lastCol+strconv.Itoa(row), st.flagged); err != nil {
				return err
			}
		}
	}
	return nil
}

func entryRow(e model.PreviewEntry) []any {
	date := ""
	if e.Date != nil {
		date = *e.Date
	}
	inferred := ""
	if e.DateInferred {
		inferred = "yes"
	}
	flags := make([]string, len(e.FlagReasons))
	for i, r := range e.FlagReasons {
		flags[i] = string(r)
	}
	return []any{
		e.RowID,
		e.SheetName,
		date,
		inferred,
		e.ToolString,
		joinIDs(e.ToolIDs),
		e.Task,
		e.TechString,
		joinIDs(e.TechIDs),
		strings.Join(flags, ", "),
	}
}

func joinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}

// ContentDisposition 下载文件名
func ContentDisposition(name string) string {
	return fmt.Sprintf("attachment; filename=\"%s\"", name)
}
