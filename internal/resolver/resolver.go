// Package resolver 将表格中的设备 / 技术员 token 匹配到目录实体
package resolver

import (
	"strings"

	"pcdmanager/internal/model"
	"pcdmanager/internal/parser"
)

// Resolver token 匹配器，结果在单次操作内按 token 缓存
// 多个实体同时满足时取目录顺序中的第一个
type Resolver struct {
	tools    []model.Tool
	users    []model.User
	initials []string

	toolCache map[string]model.MatchResult
	techCache map[string]model.MatchResult
}

// New 基于目录快照创建匹配器
func New(tools []model.Tool, users []model.User) *Resolver {
	initials := make([]string, len(users))
	for i, u := range users {
		initials[i] = parser.Initials(u.Name)
	}
	return &Resolver{
		tools:     tools,
		users:     users,
		initials:  initials,
		toolCache: make(map[string]model.MatchResult),
		techCache: make(map[string]model.MatchResult),
	}
}

// MatchTool 匹配单个设备 token：名称或副名称精确相等，或基础编码相等
// 基础编码匹配要求 token 的基础编码非空，纯字母 token 只能按名称精确命中
func (r *Resolver) MatchTool(token string) model.MatchResult {
	token = strings.ToUpper(strings.TrimSpace(token))
	if cached, ok := r.toolCache[token]; ok {
		return cached
	}

	result := model.MatchResult{ExcelString: token}
	base := parser.BaseCode(token)
	for i := range r.tools {
		tool := &r.tools[i]
		if toolNameMatches(tool.Name, token, base) || toolNameMatches(tool.SecondaryName, token, base) {
			id := tool.ID
			result.Matched = true
			result.EntityID = &id
			result.EntityName = tool.Name
			break
		}
	}

	r.toolCache[token] = result
	return result
}

func toolNameMatches(name, token, base string) bool {
	stored := strings.ToUpper(strings.TrimSpace(name))
	if stored == "" {
		return false
	}
	if stored == token {
		return true
	}
	storedBase := parser.BaseCode(stored)
	return base != "" && storedBase == base
}

// MatchTech 匹配技术员缩写：与用户姓名首字母缩写精确相等
func (r *Resolver) MatchTech(token string) model.MatchResult {
	token = strings.ToUpper(strings.TrimSpace(token))
	if cached, ok := r.techCache[token]; ok {
		return cached
	}

	result := model.MatchResult{ExcelString: token}
	for i, initials := range r.initials {
		if initials != "" && initials == token {
			id := r.users[i].ID
			result.Matched = true
			result.EntityID = &id
			result.EntityName = r.users[i].Name
			break
		}
	}

	r.techCache[token] = result
	return result
}

// MatchTools 批量匹配设备 token
func (r *Resolver) MatchTools(tokens []string) []model.MatchResult {
	out := make([]model.MatchResult, 0, len(tokens))
	for _, tok := range tokens {
		out = append(out, r.MatchTool(tok))
	}
	return out
}

// MatchTechs 批量匹配技术员 token
func (r *Resolver) MatchTechs(tokens []string) []model.MatchResult {
	out := make([]model.MatchResult, 0, len(tokens))
	for _, tok := range tokens {
		out = append(out, r.MatchTech(tok))
	}
	return out
}
