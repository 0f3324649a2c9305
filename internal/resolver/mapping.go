package resolver

import (
	"sort"
	"strings"

	"pcdmanager/internal/model"
)

// Mapping 人工确认后的 token -> 实体 ID，nil 表示确认为“无”
type Mapping map[string]*int64

// NewMapping 规范化调用方提交的映射（键去空白并转大写）
func NewMapping(in map[string]*int64) Mapping {
	m := make(Mapping, len(in))
	for k, v := range in {
		key := strings.ToUpper(strings.TrimSpace(k))
		if key == "" {
			continue
		}
		m[key] = v
	}
	return m
}

// MappingFromMatches 以自动匹配结果构造映射（未匹配的 token 映射为 nil）
func MappingFromMatches(matches []model.MatchResult) Mapping {
	m := make(Mapping, len(matches))
	for _, match := range matches {
		m[match.ExcelString] = match.EntityID
	}
	return m
}

// Resolve 将 token 列表解析为去重后的实体 ID（保持首次出现顺序）
func (m Mapping) Resolve(tokens []string) []int64 {
	ids := make([]int64, 0, len(tokens))
	seen := make(map[int64]struct{}, len(tokens))
	for _, tok := range tokens {
		id := m[tok]
		if id == nil {
			continue
		}
		if _, dup := seen[*id]; dup {
			continue
		}
		seen[*id] = struct{}{}
		ids = append(ids, *id)
	}
	return ids
}

// TokenSet 工作簿内去重后的 token 集合
type TokenSet map[string]struct{}

// Add 加入若干 token
func (s TokenSet) Add(tokens ...string) {
	for _, tok := range tokens {
		s[tok] = struct{}{}
	}
}

// Sorted 按字典序返回所有 token
func (s TokenSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for tok := range s {
		out = append(out, tok)
	}
	sort.Strings(out)
	return out
}
