package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"pcdmanager/internal/model"
)

// CreateImportLog 创建导入日志（processing），回填 ID
func (s *Store) CreateImportLog(ctx context.Context, log *model.ImportLog) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO import_logs (batch_id, creator_id, entry_count, status, started_at)
		VALUES (?, ?, ?, ?, ?)
	`, log.BatchID, log.CreatorID, log.EntryCount, log.Status, log.StartedAt)
	if err != nil {
		return fmt.Errorf("failed to create import log: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get import log id: %w", err)
	}
	log.ID = id
	return nil
}

// FinishImportLog 完成导入日志更新
func (s *Store) FinishImportLog(ctx context.Context, log *model.ImportLog) error {
	completedAt := time.Now()
	_, err := s.db.ExecContext(ctx, `
		UPDATE import_logs SET
			imported = ?,
			skipped = ?,
			duplicates = ?,
			error_count = ?,
			status = ?,
			error_message = ?,
			completed_at = ?
		WHERE batch_id = ?
	`, log.Imported, log.Skipped, log.Duplicates, log.ErrorCount, log.Status, log.ErrorMessage, completedAt, log.BatchID)
	if err != nil {
		return fmt.Errorf("failed to update import log: %w", err)
	}
	log.CompletedAt = &completedAt
	return nil
}

// LatestImportLog 最近一次导入日志，无记录时返回 ErrNotFound
func (s *Store) LatestImportLog(ctx context.Context) (*model.ImportLog, error) {
	var (
		log         model.ImportLog
		completedAt sql.NullTime
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, batch_id, creator_id, entry_count, imported, skipped, duplicates,
			error_count, status, error_message, started_at, completed_at
		FROM import_logs ORDER BY id DESC LIMIT 1
	`).Scan(&log.ID, &log.BatchID, &log.CreatorID, &log.EntryCount, &log.Imported, &log.Skipped,
		&log.Duplicates, &log.ErrorCount, &log.Status, &log.ErrorMessage, &log.StartedAt, &completedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query import log failed: %w", err)
	}
	if completedAt.Valid {
		log.CompletedAt = &completedAt.Time
	}
	return &log, nil
}
