package parser

import (
	"testing"

	"pcdmanager/internal/model"
)

func TestNormalizeColumnName(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"  Date ":         "date",
		"Tool\nID":        "toolid",
		"TECH  Initials":  "techinitials",
		"Task/Description": "task/description",
	}
	for in, want := range cases {
		if got := NormalizeColumnName(in); got != want {
			t.Fatalf("NormalizeColumnName(%q) got=%q want=%q", in, got, want)
		}
	}
}

func TestFindHeaderRow_SkipsTitleRows(t *testing.T) {
	t.Parallel()

	rows := [][]string{
		{"Passdown Log 2025"},
		{},
		{"", "DATE", "Equipment", "Comment"},
		{"", "1/10/2025", "BT151", "Filter change"},
	}
	if got := FindHeaderRow(rows); got != 2 {
		t.Fatalf("FindHeaderRow got=%d want=2", got)
	}
}

func TestFindHeaderRow_RequiresWholeCellMatch(t *testing.T) {
	t.Parallel()

	rows := [][]string{
		{"Date of shift", "Tools used"},
		{"x", "y"},
	}
	if got := FindHeaderRow(rows); got != -1 {
		t.Fatalf("FindHeaderRow got=%d want=-1", got)
	}
}

func TestMapColumns_Synonyms(t *testing.T) {
	t.Parallel()

	got := MapColumns([]string{"Shift Date", "Equipment", "Issue Description", "Technician"})
	want := map[model.Column]int{
		model.ColumnDate: 0,
		model.ColumnTool: 1,
		model.ColumnTask: 2,
		model.ColumnTech: 3,
	}
	for col, idx := range want {
		if got[col] != idx {
			t.Fatalf("column %s got=%d want=%d (all=%v)", col, got[col], idx, got)
		}
	}
}

func TestMapColumns_FirstOccurrenceWins(t *testing.T) {
	t.Parallel()

	got := MapColumns([]string{"Notes", "Comment", "Date", "Task", "Date Entered", "Tool", "Tool 2"})
	if got[model.ColumnTask] != 1 {
		t.Fatalf("task column got=%d want=1", got[model.ColumnTask])
	}
	if got[model.ColumnDate] != 2 {
		t.Fatalf("date column got=%d want=2", got[model.ColumnDate])
	}
	if got[model.ColumnTool] != 5 {
		t.Fatalf("tool column got=%d want=5", got[model.ColumnTool])
	}
	if _, ok := got[model.ColumnTech]; ok {
		t.Fatalf("tech column should be unmapped: %v", got)
	}
}

func TestMapColumns_CellMapsToOneColumnByPrecedence(t *testing.T) {
	t.Parallel()

	// "Tech Date" 包含 date，优先映射为日期列，不再参与 tech
	got := MapColumns([]string{"Tech Date", "Tool", "Tech"})
	if got[model.ColumnDate] != 0 {
		t.Fatalf("date column got=%d want=0", got[model.ColumnDate])
	}
	if got[model.ColumnTech] != 2 {
		t.Fatalf("tech column got=%d want=2", got[model.ColumnTech])
	}
}
