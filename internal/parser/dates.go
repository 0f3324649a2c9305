package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// dateLayouts 支持的日期文本格式，按顺序尝试
var dateLayouts = []string{
	"2006-01-02",
	"1/2/2006",
	"1/2/06",
	"1-2-2006",
	"1-2-06",
	"2006/1/2",
	"Jan 2, 2006",
	"January 2, 2006",
	"Jan 2 2006",
	"2-Jan-06",
	"2-Jan-2006",
	"2 Jan 2006",
	"Mon, Jan 2, 2006",
	"Monday, January 2, 2006",
}

var timeSuffixRe = regexp.MustCompile(`(?i)[ T]\d{1,2}:\d{2}(:\d{2}(\.\d+)?)?\s*(am|pm)?(Z|[+-]\d{2}:?\d{2})?$`)

// Excel 序列日期的有效区间：1970-01-01 ~ 2099-12-31
const (
	minExcelSerial = 25569
	maxExcelSerial = 73050
)

// ParseDate 解析日期文本，返回 UTC 零点的日期
func ParseDate(text string) (time.Time, bool) {
	s := strings.TrimSpace(text)
	if s == "" {
		return time.Time{}, false
	}

	if t, ok := parseLayouts(s); ok {
		return t, true
	}

	// 去掉时间部分后重试
	if stripped := timeSuffixRe.ReplaceAllString(s, ""); stripped != s {
		if t, ok := parseLayouts(strings.TrimSpace(stripped)); ok {
			return t, true
		}
	}

	// Excel 序列日期（单元格未设置日期格式时读出的是数字）
	if v, err := strconv.ParseFloat(s, 64); err == nil && v >= minExcelSerial && v <= maxExcelSerial {
		if t, err := excelize.ExcelDateToTime(v, false); err == nil {
			return dateOnly(t), true
		}
	}

	return time.Time{}, false
}

func parseLayouts(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return dateOnly(t), true
		}
	}
	return time.Time{}, false
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
