package importer

import "time"

// DateSlot 日期推断的输入 / 输出单元
type DateSlot struct {
	Date     time.Time
	Known    bool // 已有日期（原始或已推断）
	Inferred bool
}

// InferMissingDates 单次顺序扫描补全缺失日期
// 已推断的日期会作为后续条目的前邻参与推断；today 为无任何参照时的兜底值
func InferMissingDates(slots []DateSlot, today time.Time) {
	for i := range slots {
		if slots[i].Known {
			continue
		}

		prev, hasPrev := nearestKnown(slots, i, -1)
		next, hasNext := nearestKnown(slots, i, 1)

		var inferred time.Time
		switch {
		case hasPrev && hasNext:
			// 取前后两个日期的中点（向下取整）
			// 两者均为 UTC 零点，按日历天数相减
			days := int(next.Unix()/86400 - prev.Unix()/86400)
			inferred = prev.AddDate(0, 0, floorDiv(days, 2))
		case hasNext:
			// 首条：放到后一条所在月份的月初
			inferred = time.Date(next.Year(), next.Month(), 1, 0, 0, 0, 0, time.UTC)
		case hasPrev:
			// 末条：前一条的次日，不跨月
			day := min(prev.Day()+1, daysInMonth(prev))
			inferred = time.Date(prev.Year(), prev.Month(), day, 0, 0, 0, 0, time.UTC)
		default:
			inferred = today
		}

		slots[i] = DateSlot{Date: inferred, Known: true, Inferred: true}
	}
}

func nearestKnown(slots []DateSlot, i, step int) (time.Time, bool) {
	for j := i + step; j >= 0 && j < len(slots); j += step {
		if slots[j].Known {
			return slots[j].Date, true
		}
	}
	return time.Time{}, false
}

func daysInMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
