package importer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"pcdmanager/internal/model"
	"pcdmanager/internal/ports"
)

// ImportOptions 提交选项
type ImportOptions struct {
	SkipDuplicates bool                // 是否跳过与已存记录重复的条目
	Progress       func(ProgressEvent) // 可选：逐行进度回调
}

// ProgressEvent 进度事件
type ProgressEvent struct {
	Type      string    `json:"type"`    // start/row/done
	Message   string    `json:"message"` // 事件消息
	RowID     int       `json:"rowId,omitempty"`
	Status    string    `json:"status,omitempty"` // imported/duplicate/error
	Timestamp time.Time `json:"timestamp"`
}

const (
	rowImported  = "imported"
	rowDuplicate = "duplicate"
	rowError     = "error"
)

// ImportEntries 第三阶段：逐行提交确认后的条目
// 单行失败只记录错误不影响其他行；整批在一个事务中提交
func (c *Coordinator) ImportEntries(ctx context.Context, entries []model.ImportEntry, creatorID int64, opts ImportOptions) (*model.ImportResult, error) {
	if _, err := c.store.GetUser(ctx, creatorID); err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, fmt.Errorf("%w: %d", ErrUnknownCreator, creatorID)
		}
		return nil, fmt.Errorf("failed to load creator: %w", err)
	}

	batchID := uuid.NewString()
	importLog := &model.ImportLog{
		BatchID:    batchID,
		CreatorID:  creatorID,
		EntryCount: len(entries),
		Status:     model.ImportStatusProcessing,
		StartedAt:  c.now(),
	}
	if err := c.store.CreateImportLog(ctx, importLog); err != nil {
		return nil, fmt.Errorf("failed to create import log: %w", err)
	}

	c.sendProgress(opts, ProgressEvent{Type: "start", Message: fmt.Sprintf("importing %d entries", len(entries))})

	// 事务失败时 result 作废，因此在事务内使用局部结果
	var result *model.ImportResult
	err := c.store.InTx(ctx, func(tx ports.TxRepository) error {
		result = &model.ImportResult{BatchID: batchID, Errors: []string{}}
		guard := NewDuplicateGuard(tx)
		createdAt := c.now()

		for _, entry := range entries {
			if err := ctx.Err(); err != nil {
				return err
			}

			status, err := c.importEntry(ctx, tx, guard, entry, creatorID, batchID, createdAt, opts.SkipDuplicates)
			switch {
			case err != nil:
				result.Skipped++
				result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", entry.RowID, err))
				c.logger.Warn("import row failed", "batch", batchID, "row", entry.RowID, "error", err)
				status = rowError
			case status == rowDuplicate:
				result.Skipped++
				result.Duplicates++
				c.logger.Info("skipping duplicate passdown", "batch", batchID, "row", entry.RowID, "date", entry.Date)
			default:
				result.Imported++
			}
			c.sendProgress(opts, ProgressEvent{Type: "row", RowID: entry.RowID, Status: status})
		}
		return nil
	})
	if err != nil {
		importLog.Status = model.ImportStatusFailed
		importLog.ErrorMessage = err.Error()
		if logErr := c.store.FinishImportLog(ctx, importLog); logErr != nil {
			c.logger.Warn("failed to finish import log", "batch", batchID, "error", logErr)
		}
		return nil, fmt.Errorf("import transaction failed: %w", err)
	}

	importLog.Status = model.ImportStatusCompleted
	importLog.Imported = result.Imported
	importLog.Skipped = result.Skipped
	importLog.Duplicates = result.Duplicates
	importLog.ErrorCount = len(result.Errors)
	if err := c.store.FinishImportLog(ctx, importLog); err != nil {
		c.logger.Warn("failed to finish import log", "batch", batchID, "error", err)
	}

	c.sendProgress(opts, ProgressEvent{Type: "done", Message: fmt.Sprintf("imported %d, skipped %d", result.Imported, result.Skipped)})
	c.logger.Info("import complete",
		"batch", batchID,
		"creator", creatorID,
		"imported", result.Imported,
		"skipped", result.Skipped,
		"duplicates", result.Duplicates,
		"errors", len(result.Errors),
	)
	return result, nil
}

// importEntry 提交单个条目，返回 imported 或 duplicate
func (c *Coordinator) importEntry(ctx context.Context, tx ports.TxRepository, guard *DuplicateGuard, entry model.ImportEntry, creatorID int64, batchID string, createdAt time.Time, skipDuplicates bool) (string, error) {
	date, err := time.Parse(model.DateLayout, strings.TrimSpace(entry.Date))
	if err != nil {
		return "", fmt.Errorf("invalid date %q", entry.Date)
	}

	toolIDs, err := existingIDs(entry.ToolIDs, func(id int64) error {
		_, err := tx.GetTool(ctx, id)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("failed to resolve tools: %w", err)
	}
	techIDs, err := existingIDs(entry.TechIDs, func(id int64) error {
		_, err := tx.GetUser(ctx, id)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("failed to resolve technicians: %w", err)
	}

	passdown := &model.Passdown{
		Date:        date,
		Comment:     entry.Task,
		UserID:      creatorID,
		CreatedDate: createdAt,
		ToolIDs:     toolIDs,
		TechIDs:     techIDs,
		BatchID:     batchID,
	}

	status := rowImported
	err = tx.AtomicRow(ctx, func() error {
		if skipDuplicates {
			dup, err := guard.Check(ctx, *passdown)
			if err != nil {
				return err
			}
			if dup {
				status = rowDuplicate
				return nil
			}
		}
		return tx.SavePassdown(ctx, passdown)
	})
	if err != nil {
		return "", err
	}
	return status, nil
}

// existingIDs 去重并丢弃目录中已不存在的 ID
func existingIDs(ids []int64, lookup func(int64) error) ([]int64, error) {
	out := make([]int64, 0, len(ids))
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if err := lookup(id); err != nil {
			if errors.Is(err, ports.ErrNotFound) {
				continue
			}
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

func (c *Coordinator) sendProgress(opts ImportOptions, evt ProgressEvent) {
	if opts.Progress == nil {
		return
	}
	evt.Timestamp = c.now()
	opts.Progress(evt)
}
