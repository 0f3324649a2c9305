package store

import (
	"context"
	"database/sql"
	"fmt"

	"pcdmanager/internal/model"
	"pcdmanager/internal/ports"
)

// txRepo 事务内的存储视图
type txRepo struct {
	repo
	tx        *sql.Tx
	savepoint int
}

// InTx 在单个事务中执行 fn；fn 返回错误或提交失败时整体回滚
func (s *Store) InTx(ctx context.Context, fn func(tx ports.TxRepository) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&txRepo{repo: repo{q: tx}, tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// AtomicRow 以 SAVEPOINT 包裹单行写入
func (t *txRepo) AtomicRow(ctx context.Context, fn func() error) error {
	t.savepoint++
	name := fmt.Sprintf("row_%d", t.savepoint)

	if _, err := t.tx.ExecContext(ctx, "SAVEPOINT "+name); err != nil {
		return fmt.Errorf("failed to create savepoint: %w", err)
	}

	if err := fn(); err != nil {
		if _, rbErr := t.tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT "+name); rbErr != nil {
			return fmt.Errorf("%v (rollback to savepoint failed: %w)", err, rbErr)
		}
		_, _ = t.tx.ExecContext(ctx, "RELEASE SAVEPOINT "+name)
		return err
	}

	if _, err := t.tx.ExecContext(ctx, "RELEASE SAVEPOINT "+name); err != nil {
		return fmt.Errorf("failed to release savepoint: %w", err)
	}
	return nil
}

// SavePassdown 单条保存（非事务调用时自动包裹事务）
func (s *Store) SavePassdown(ctx context.Context, p *model.Passdown) error {
	return s.InTx(ctx, func(tx ports.TxRepository) error {
		return tx.SavePassdown(ctx, p)
	})
}
