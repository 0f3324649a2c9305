package importer

import (
	"time"

	"pcdmanager/internal/model"
	"pcdmanager/internal/parser"
	"pcdmanager/internal/resolver"
)

// AssemblePreview 组装预览：解析 ID、补全日期、标记待关注条目并按月分桶
func AssemblePreview(rows []model.RawRow, tools, techs resolver.Mapping, today time.Time) *model.PreviewResult {
	slots := make([]DateSlot, len(rows))
	for i, row := range rows {
		if d, ok := parser.ParseDate(row.DateText); ok {
			slots[i] = DateSlot{Date: d, Known: true}
		}
	}
	InferMissingDates(slots, today)

	result := &model.PreviewResult{
		PassdownsByMonth: make(map[string][]model.PreviewEntry, len(model.MonthKeys)),
		Months:           append([]string(nil), model.MonthKeys...),
		TotalEntries:     len(rows),
	}
	for _, key := range model.MonthKeys {
		result.PassdownsByMonth[key] = []model.PreviewEntry{}
	}

	for i, row := range rows {
		entry := model.PreviewEntry{
			RowID:      row.Seq,
			SheetName:  row.SheetName,
			DateString: row.DateText,
			ToolIDs:    tools.Resolve(parser.ToolTokens(row.ToolText)),
			ToolString: row.ToolText,
			Task:       row.TaskText,
			TechIDs:    techs.Resolve(parser.TechTokens(row.TechText)),
			TechString: row.TechText,
		}

		monthKey := model.MonthKeys[0]
		if slots[i].Known {
			date := slots[i].Date.Format(model.DateLayout)
			entry.Date = &date
			entry.DateInferred = slots[i].Inferred
			monthKey = model.MonthKeys[slots[i].Date.Month()-1]
		}

		if slots[i].Inferred {
			entry.FlagReasons = append(entry.FlagReasons, model.FlagDateMissing)
		}
		if parser.HasToolText(row.ToolText) && len(entry.ToolIDs) == 0 {
			entry.FlagReasons = append(entry.FlagReasons, model.FlagToolUnresolved)
		}
		if parser.HasTechText(row.TechText) && len(entry.TechIDs) == 0 {
			entry.FlagReasons = append(entry.FlagReasons, model.FlagTechUnresolved)
		}
		entry.Flagged = len(entry.FlagReasons) > 0

		result.PassdownsByMonth[monthKey] = append(result.PassdownsByMonth[monthKey], entry)
	}

	return result
}
