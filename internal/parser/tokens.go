package parser

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	toolDelimiters  = regexp.MustCompile(`[/\\,]+`)
	techDelimiters  = regexp.MustCompile(`[/\\,&]+`)
	initialsPattern = regexp.MustCompile(`^[A-Z]{2,4}$`)
	trailingLetters = regexp.MustCompile(`[A-Z]+$`)
)

// 整格占位文本，不参与匹配
var (
	toolPlaceholders = []string{"N/A", "Other"}
	techPlaceholders = []string{"N/A"}
)

func isPlaceholder(text string, placeholders []string) bool {
	for _, p := range placeholders {
		if strings.EqualFold(text, p) {
			return true
		}
	}
	return false
}

// HasToolText 设备文本是否有实际内容（非空且非占位）
func HasToolText(text string) bool {
	s := strings.TrimSpace(text)
	return s != "" && !isPlaceholder(s, toolPlaceholders)
}

// HasTechText 技术员文本是否有实际内容（非空且非占位）
func HasTechText(text string) bool {
	s := strings.TrimSpace(text)
	return s != "" && !isPlaceholder(s, techPlaceholders)
}

// ToolTokens 拆分设备文本为大写 token
func ToolTokens(text string) []string {
	if !HasToolText(text) {
		return nil
	}
	var tokens []string
	for _, part := range toolDelimiters.Split(strings.TrimSpace(text), -1) {
		cleaned := strings.ToUpper(strings.TrimSpace(part))
		if cleaned != "" {
			tokens = append(tokens, cleaned)
		}
	}
	return tokens
}

// TechTokens 拆分技术员文本，只保留 2-4 位大写字母的缩写
func TechTokens(text string) []string {
	if !HasTechText(text) {
		return nil
	}
	var tokens []string
	for _, part := range techDelimiters.Split(strings.TrimSpace(text), -1) {
		cleaned := strings.ToUpper(strings.TrimSpace(part))
		if initialsPattern.MatchString(cleaned) {
			tokens = append(tokens, cleaned)
		}
	}
	return tokens
}

// BaseCode 去掉末尾字母后缀得到设备基础编码，如 GR151D -> GR151
func BaseCode(token string) string {
	return trailingLetters.ReplaceAllString(strings.ToUpper(strings.TrimSpace(token)), "")
}

// Initials 取姓名各部分首字母（大写），如 "Travis Winston" -> "TW"
func Initials(fullName string) string {
	var b strings.Builder
	for _, part := range strings.Fields(fullName) {
		r, _ := utf8.DecodeRuneInString(part)
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}
