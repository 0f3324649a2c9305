// Package testutil 测试用工作簿与目录夹具
package testutil

import (
	"fmt"
	"testing"

	"github.com/xuri/excelize/v2"
)

// Sheet 夹具 sheet：名称与逐行数据（自 A1 起写入）
type Sheet struct {
	Name string
	Rows [][]any
}

// BuildWorkbook 构造工作簿
func BuildWorkbook(t testing.TB, sheets ...Sheet) *excelize.File {
	t.Helper()

	wb := excelize.NewFile()
	defaultSheet := wb.GetSheetName(wb.GetActiveSheetIndex())

	for i, sheet := range sheets {
		if i == 0 {
			if err := wb.SetSheetName(defaultSheet, sheet.Name); err != nil {
				t.Fatalf("SetSheetName %s failed: %v", sheet.Name, err)
			}
		} else if _, err := wb.NewSheet(sheet.Name); err != nil {
			t.Fatalf("NewSheet %s failed: %v", sheet.Name, err)
		}

		for r, values := range sheet.Rows {
			row := append([]any(nil), values...)
			cell := fmt.Sprintf("A%d", r+1)
			if err := wb.SetSheetRow(sheet.Name, cell, &row); err != nil {
				t.Fatalf("SetSheetRow %s!%s failed: %v", sheet.Name, cell, err)
			}
		}
	}

	return wb
}

// WorkbookBytes 构造工作簿并序列化为 xlsx 内容
func WorkbookBytes(t testing.TB, sheets ...Sheet) []byte {
	t.Helper()

	wb := BuildWorkbook(t, sheets...)
	defer wb.Close()

	buf, err := wb.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer failed: %v", err)
	}
	return buf.Bytes()
}

// PassdownSheet 以标准表头构造交接班 sheet
func PassdownSheet(name string, rows ...[]any) Sheet {
	all := [][]any{{"Date", "Tool", "Task", "Tech"}}
	all = append(all, rows...)
	return Sheet{Name: name, Rows: all}
}
