package exporter

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"

	"pcdmanager/internal/model"
)

func strPtr(s string) *string { return &s }

func samplePreview() *model.PreviewResult {
	res := &model.PreviewResult{
		PassdownsByMonth: map[string][]model.PreviewEntry{},
		Months:           model.MonthKeys,
		TotalEntries:     3,
	}
	for _, k := range model.MonthKeys {
		res.PassdownsByMonth[k] = []model.PreviewEntry{}
	}
	res.PassdownsByMonth["Jan"] = []model.PreviewEntry{
		{RowID: 1, SheetName: "Passdowns", Date: strPtr("2025-01-10"), DateString: "1/10/2025", ToolIDs: []int64{1}, ToolString: "BT151", Task: "Filter change", TechIDs: []int64{10}, TechString: "TW"},
		{RowID: 2, SheetName: "Passdowns", Date: strPtr("2025-01-15"), DateInferred: true, ToolIDs: []int64{}, ToolString: "BT151D", Task: "Replaced valve", TechIDs: []int64{11}, TechString: "DS",
			Flagged: true, FlagReasons: []model.FlagReason{model.FlagDateMissing, model.FlagToolUnresolved}},
	}
	res.PassdownsByMonth["Mar"] = []model.PreviewEntry{
		{RowID: 3, SheetName: "Passdowns", Date: strPtr("2025-03-01"), ToolIDs: []int64{1, 2}, Task: "PM", TechIDs: []int64{10, 11}},
	}
	return res
}

func reopen(t *testing.T, f *excelize.File) *excelize.File {
	t.Helper()

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	out, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	t.Cleanup(func() { _ = out.Close() })
	return out
}

func TestExportPreview_SheetsPerMonth(t *testing.T) {
	t.Parallel()

	var stages []string
	f, err := ExportPreview(samplePreview(), ExportOptions{Progress: func(e ProgressEvent) { stages = append(stages, e.Stage) }})
	if err != nil {
		t.Fatalf("ExportPreview: %v", err)
	}
	defer f.Close()
	wb := reopen(t, f)

	sheets := wb.GetSheetList()
	if len(sheets) != 2 || sheets[0] != "Jan" || sheets[1] != "Mar" {
		t.Fatalf("sheets=%v", sheets)
	}

	rows, err := wb.GetRows("Jan")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 3 || rows[0][0] != "Row" || rows[0][9] != "Flags" {
		t.Fatalf("rows=%v", rows)
	}
	if rows[2][2] != "2025-01-15" || rows[2][3] != "yes" || rows[2][9] != "date_missing, tool_unresolved" {
		t.Fatalf("flagged row=%v", rows[2])
	}

	mar, _ := wb.GetRows("Mar")
	if mar[1][5] != "1,2" || mar[1][8] != "10,11" {
		t.Fatalf("mar row=%v", mar[1])
	}

	plain, _ := wb.GetCellStyle("Jan", "A2")
	flagged, _ := wb.GetCellStyle("Jan", "J3")
	if flagged == 0 || flagged == plain {
		t.Fatalf("flagged row style=%d, plain=%d", flagged, plain)
	}

	if len(stages) != 13 || stages[12] != "done" {
		t.Fatalf("progress stages=%v", stages)
	}
}

func TestExportPreview_FlaggedOnly(t *testing.T) {
	t.Parallel()

	f, err := ExportPreview(samplePreview(), ExportOptions{FlaggedOnly: true})
	if err != nil {
		t.Fatalf("ExportPreview: %v", err)
	}
	defer f.Close()
	wb := reopen(t, f)

	if sheets := wb.GetSheetList(); len(sheets) != 1 || sheets[0] != "Jan" {
		t.Fatalf("sheets=%v", sheets)
	}
	rows, _ := wb.GetRows("Jan")
	if len(rows) != 2 || rows[1][0] != "2" {
		t.Fatalf("rows=%v", rows)
	}
}

func TestExportPreview_Empty(t *testing.T) {
	t.Parallel()

	res := &model.PreviewResult{PassdownsByMonth: map[string][]model.PreviewEntry{}, Months: model.MonthKeys}
	f, err := ExportPreview(res, ExportOptions{})
	if err != nil {
		t.Fatalf("ExportPreview: %v", err)
	}
	defer f.Close()
	wb := reopen(t, f)

	if sheets := wb.GetSheetList(); len(sheets) != 1 || sheets[0] != "Empty" {
		t.Fatalf("sheets=%v", sheets)
	}
	rows, _ := wb.GetRows("Empty")
	if len(rows) != 1 {
		t.Fatalf("rows=%v", rows)
	}
}
