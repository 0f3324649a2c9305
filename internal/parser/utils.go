package parser

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// NormalizeColumnName 规范化表头文本：去除空白并做大小写折叠
func NormalizeColumnName(name string) string {
	name = strings.TrimSpace(name)
	name = whitespaceRe.ReplaceAllString(name, "")
	return cases.Fold().String(name)
}

// FoldText 去除首尾空白后做大小写折叠，用于不区分大小写的比较
func FoldText(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

// ContainsAny 检查字符串是否包含任意一个关键词
func ContainsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// cellAt 安全读取单元格，越界返回空串
func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
