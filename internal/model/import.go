package model

// MatchResult 单个 token 的自动匹配结果（供人工确认）
type MatchResult struct {
	ExcelString string `json:"excelString"`
	Matched     bool   `json:"matched"`
	EntityID    *int64 `json:"entityId,omitempty"`
	EntityName  string `json:"entityName,omitempty"`
}

// ReviewResult 第一阶段（解析待确认）产物
type ReviewResult struct {
	TotalRows   int            `json:"totalRows"`
	ToolMatches []MatchResult  `json:"toolMatches"`
	TechMatches []MatchResult  `json:"techMatches"`
	Sheets      []SheetSummary `json:"sheets"`
}

// FlagReason 预览条目需要人工关注的原因
type FlagReason string

const (
	FlagDateMissing    FlagReason = "date_missing"    // 原始日期缺失或无法解析
	FlagToolUnresolved FlagReason = "tool_unresolved" // 有设备文本但未解析出设备
	FlagTechUnresolved FlagReason = "tech_unresolved" // 有技术员文本但未解析出技术员
)

// PreviewEntry 第二阶段预览条目
type PreviewEntry struct {
	RowID        int          `json:"rowId"`
	SheetName    string       `json:"sheetName"`
	Date         *string      `json:"date"`       // 最终日期（可能为推断值），YYYY-MM-DD
	DateString   string       `json:"dateString"` // 原始日期文本
	DateInferred bool         `json:"dateInferred"`
	ToolIDs      []int64      `json:"toolIds"`
	ToolString   string       `json:"toolString"`
	Task         string       `json:"task"`
	TechIDs      []int64      `json:"techIds"`
	TechString   string       `json:"techString"`
	Flagged      bool         `json:"flagged"`
	FlagReasons  []FlagReason `json:"flagReasons,omitempty"`
}

// MonthKeys 预览分桶使用的月份键（按日历顺序）
var MonthKeys = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// PreviewResult 第二阶段（预览）产物
type PreviewResult struct {
	PassdownsByMonth map[string][]PreviewEntry `json:"passdownsByMonth"`
	Months           []string                  `json:"months"`
	TotalEntries     int                       `json:"totalEntries"`
}

// ImportEntry 第三阶段待提交条目（经人工确认/编辑）
type ImportEntry struct {
	RowID   int     `json:"rowId"`
	Date    string  `json:"date"`
	Task    string  `json:"task"`
	ToolIDs []int64 `json:"toolIds"`
	TechIDs []int64 `json:"techIds"`
}

// ImportResult 第三阶段（提交）结果
type ImportResult struct {
	BatchID    string   `json:"batchId"`
	Imported   int      `json:"imported"`
	Skipped    int      `json:"skipped"` // 重复 + 失败行
	Duplicates int      `json:"duplicates"`
	Errors     []string `json:"errors"`
}
