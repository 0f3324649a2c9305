package importer

import (
	"context"
	"fmt"

	"pcdmanager/internal/model"
	"pcdmanager/internal/parser"
	"pcdmanager/internal/ports"
)

// IsDuplicate 判断候选记录是否与已存记录重复：
// 同一天、任务文本（去空白、忽略大小写）相同，且设备与技术员 ID 集合完全一致
func IsDuplicate(candidate, existing model.Passdown) bool {
	if !sameDay(candidate, existing) {
		return false
	}
	if parser.FoldText(candidate.Comment) != parser.FoldText(existing.Comment) {
		return false
	}
	return sameIDSet(candidate.ToolIDs, existing.ToolIDs) && sameIDSet(candidate.TechIDs, existing.TechIDs)
}

func sameDay(a, b model.Passdown) bool {
	ay, am, ad := a.Date.Date()
	by, bm, bd := b.Date.Date()
	return ay == by && am == bm && ad == bd
}

func sameIDSet(a, b []int64) bool {
	setA := toSet(a)
	setB := toSet(b)
	if len(setA) != len(setB) {
		return false
	}
	for id := range setA {
		if _, ok := setB[id]; !ok {
			return false
		}
	}
	return true
}

func toSet(ids []int64) map[int64]struct{} {
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// DuplicateGuard 基于记录存储的判重
type DuplicateGuard struct {
	records ports.RecordStore
}

// NewDuplicateGuard 创建判重器
func NewDuplicateGuard(records ports.RecordStore) *DuplicateGuard {
	return &DuplicateGuard{records: records}
}

// Check 候选记录是否与同日已存记录重复
func (g *DuplicateGuard) Check(ctx context.Context, candidate model.Passdown) (bool, error) {
	existing, err := g.records.FindPassdownsByDate(ctx, candidate.Date)
	if err != nil {
		return false, fmt.Errorf("failed to load passdowns for %s: %w", candidate.Date.Format(model.DateLayout), err)
	}
	for _, p := range existing {
		if IsDuplicate(candidate, p) {
			return true, nil
		}
	}
	return false, nil
}
