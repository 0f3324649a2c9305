package parser

import "pcdmanager/internal/model"

// headerMarkers 表头行的识别标记（整格匹配）
var headerMarkers = []string{"date", "tool"}

type columnRule struct {
	column   model.Column
	keywords []string
}

// columnRules 表头关键词规则，按优先级排列
var columnRules = []columnRule{
	{column: model.ColumnDate, keywords: []string{"date"}},
	{column: model.ColumnTool, keywords: []string{"tool", "equipment"}},
	{column: model.ColumnTask, keywords: []string{"task", "issue", "comment", "description"}},
	{column: model.ColumnTech, keywords: []string{"tech"}},
}

// FindHeaderRow 返回表头所在行下标（0-based），未找到返回 -1
func FindHeaderRow(rows [][]string) int {
	for i, row := range rows {
		for _, cell := range row {
			v := FoldText(cell)
			for _, marker := range headerMarkers {
				if v == marker {
					return i
				}
			}
		}
	}
	return -1
}

// MapColumns 将表头映射为逻辑列
// 每个单元格最多映射到一个逻辑列；同一逻辑列以首次出现为准
func MapColumns(header []string) map[model.Column]int {
	columns := make(map[model.Column]int)
	for idx, cell := range header {
		name := NormalizeColumnName(cell)
		if name == "" {
			continue
		}
		for _, rule := range columnRules {
			if !ContainsAny(name, rule.keywords) {
				continue
			}
			if _, exists := columns[rule.column]; !exists {
				columns[rule.column] = idx
			}
			break
		}
	}
	return columns
}
