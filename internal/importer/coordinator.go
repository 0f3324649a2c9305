// Package importer 交接班表格导入流程：解析待确认、生成预览、提交导入
package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"pcdmanager/internal/model"
	"pcdmanager/internal/parser"
	"pcdmanager/internal/ports"
	"pcdmanager/internal/resolver"
)

// ErrUnknownCreator 导入人不在用户目录中
var ErrUnknownCreator = errors.New("unknown creator")

// Coordinator 导入协调器；各阶段之间不保存状态
type Coordinator struct {
	store  ports.Store
	reader *parser.SheetReader
	logger *slog.Logger
	now    func() time.Time
}

// NewCoordinator 创建导入协调器
func NewCoordinator(store ports.Store, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{
		store:  store,
		reader: parser.NewSheetReader(logger),
		logger: logger,
		now:    time.Now,
	}
}

// SetClock 替换当前时间来源
func (c *Coordinator) SetClock(now func() time.Time) {
	c.now = now
}

// ParseForReview 第一阶段：读取工作簿，提取去重后的 token 并自动匹配
func (c *Coordinator) ParseForReview(ctx context.Context, data []byte, loc model.Location) (*model.ReviewResult, error) {
	read, err := c.reader.ReadBytes(data)
	if err != nil {
		return nil, err
	}
	c.logSheetErrors(read)

	toolTokens, techTokens := collectTokens(read.Rows)

	res, err := c.newResolver(ctx)
	if err != nil {
		return nil, err
	}

	result := &model.ReviewResult{
		TotalRows:   len(read.Rows),
		ToolMatches: res.MatchTools(toolTokens.Sorted()),
		TechMatches: res.MatchTechs(techTokens.Sorted()),
		Sheets:      read.Sheets,
	}

	c.logger.Info("import parse complete",
		"location", loc.Name,
		"rows", result.TotalRows,
		"tools", len(result.ToolMatches),
		"toolsMatched", countMatched(result.ToolMatches),
		"techs", len(result.TechMatches),
		"techsMatched", countMatched(result.TechMatches),
	)
	return result, nil
}

// GeneratePreview 第二阶段：按确认后的映射生成预览
// toolMap / techMap 为 nil 时使用自动匹配结果
func (c *Coordinator) GeneratePreview(ctx context.Context, data []byte, loc model.Location, toolMap, techMap map[string]*int64) (*model.PreviewResult, error) {
	read, err := c.reader.ReadBytes(data)
	if err != nil {
		return nil, err
	}
	c.logSheetErrors(read)

	if toolMap == nil || techMap == nil {
		toolTokens, techTokens := collectTokens(read.Rows)
		res, err := c.newResolver(ctx)
		if err != nil {
			return nil, err
		}
		if toolMap == nil {
			toolMap = resolver.MappingFromMatches(res.MatchTools(toolTokens.Sorted()))
		}
		if techMap == nil {
			techMap = resolver.MappingFromMatches(res.MatchTechs(techTokens.Sorted()))
		}
	}

	result := AssemblePreview(read.Rows, resolver.NewMapping(toolMap), resolver.NewMapping(techMap), loc.Today(c.now()))

	flagged := 0
	for _, entries := range result.PassdownsByMonth {
		for _, e := range entries {
			if e.Flagged {
				flagged++
			}
		}
	}
	c.logger.Info("import preview generated", "location", loc.Name, "entries", result.TotalEntries, "flagged", flagged)
	return result, nil
}

func (c *Coordinator) newResolver(ctx context.Context) (*resolver.Resolver, error) {
	tools, err := c.store.ListTools(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tools: %w", err)
	}
	users, err := c.store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return resolver.New(tools, users), nil
}

func (c *Coordinator) logSheetErrors(read *parser.ReadResult) {
	for _, err := range read.Errors {
		c.logger.Warn("sheet skipped", "error", err)
	}
}

// collectTokens 收集工作簿内去重后的设备 / 技术员 token
func collectTokens(rows []model.RawRow) (tools, techs resolver.TokenSet) {
	tools, techs = resolver.TokenSet{}, resolver.TokenSet{}
	for _, row := range rows {
		tools.Add(parser.ToolTokens(row.ToolText)...)
		techs.Add(parser.TechTokens(row.TechText)...)
	}
	return tools, techs
}

func countMatched(matches []model.MatchResult) int {
	n := 0
	for _, m := range matches {
		if m.Matched {
			n++
		}
	}
	return n
}
