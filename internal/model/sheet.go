package model

// Column 逻辑列（表头识别后的语义列）
type Column string

const (
	ColumnDate Column = "date" // 日期
	ColumnTool Column = "tool" // 设备 / 工具
	ColumnTask Column = "task" // 任务 / 问题描述
	ColumnTech Column = "tech" // 技术员
)

// SheetStatus 工作表读取状态
type SheetStatus string

const (
	SheetStatusRead     SheetStatus = "read"      // 已读取
	SheetStatusNoHeader SheetStatus = "no_header" // 未找到表头，已跳过
	SheetStatusError    SheetStatus = "error"     // 读取失败
)

// SheetSummary 单个 sheet 的读取摘要
type SheetSummary struct {
	SheetName   string         `json:"sheetName"`
	Status      SheetStatus    `json:"status"`
	HeaderRow   int            `json:"headerRow,omitempty"` // 表头所在行（1-based）
	Columns     map[Column]int `json:"columns,omitempty"`   // 逻辑列 -> 列序号（0-based）
	Rows        int            `json:"rows"`                // 有效数据行数
	SkippedRows int            `json:"skippedRows"`         // 空白行数
	Error       string         `json:"error,omitempty"`
}

// RawRow 从表格中读出的一行原始数据
type RawRow struct {
	Seq       int    `json:"seq"`       // 全局序号（跨 sheet，1-based）
	SheetName string `json:"sheetName"` // 来源 sheet
	SourceRow int    `json:"sourceRow"` // 表格行号（1-based）
	DateText  string `json:"dateText"`
	ToolText  string `json:"toolText"`
	TaskText  string `json:"taskText"`
	TechText  string `json:"techText"`
}
