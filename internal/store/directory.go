package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"pcdmanager/internal/model"
)

// ListTools 按 ID 升序列出设备
func (r repo) ListTools(ctx context.Context) ([]model.Tool, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT id, name, secondary_name, location_name FROM tools ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("query tools failed: %w", err)
	}
	defer rows.Close()

	var out []model.Tool
	for rows.Next() {
		var t model.Tool
		if err := rows.Scan(&t.ID, &t.Name, &t.SecondaryName, &t.LocationName); err != nil {
			return nil, fmt.Errorf("scan tool failed: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tools failed: %w", err)
	}
	return out, nil
}

// GetTool 按 ID 获取设备
func (r repo) GetTool(ctx context.Context, id int64) (*model.Tool, error) {
	var t model.Tool
	err := r.q.QueryRowContext(ctx, `
		SELECT id, name, secondary_name, location_name FROM tools WHERE id = ?
	`, id).Scan(&t.ID, &t.Name, &t.SecondaryName, &t.LocationName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("tool %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query tool failed: %w", err)
	}
	return &t, nil
}

// UpsertTool 新增或更新设备；ID 为 0 时自动分配
func (r repo) UpsertTool(ctx context.Context, t *model.Tool) error {
	if t.ID == 0 {
		res, err := r.q.ExecContext(ctx, `
			INSERT INTO tools (name, secondary_name, location_name) VALUES (?, ?, ?)
		`, t.Name, t.SecondaryName, t.LocationName)
		if err != nil {
			return fmt.Errorf("failed to insert tool: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get tool id: %w", err)
		}
		t.ID = id
		return nil
	}

	_, err := r.q.ExecContext(ctx, `
		INSERT INTO tools (id, name, secondary_name, location_name) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			secondary_name = excluded.secondary_name,
			location_name = excluded.location_name
	`, t.ID, t.Name, t.SecondaryName, t.LocationName)
	if err != nil {
		return fmt.Errorf("failed to upsert tool: %w", err)
	}
	return nil
}

// ListUsers 按 ID 升序列出用户
func (r repo) ListUsers(ctx context.Context) ([]model.User, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT id, name, email, active FROM users ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("query users failed: %w", err)
	}
	defer rows.Close()

	var out []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Active); err != nil {
			return nil, fmt.Errorf("scan user failed: %w", err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users failed: %w", err)
	}
	return out, nil
}

// GetUser 按 ID 获取用户
func (r repo) GetUser(ctx context.Context, id int64) (*model.User, error) {
	var u model.User
	err := r.q.QueryRowContext(ctx, `
		SELECT id, name, email, active FROM users WHERE id = ?
	`, id).Scan(&u.ID, &u.Name, &u.Email, &u.Active)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query user failed: %w", err)
	}
	return &u, nil
}

// UpsertUser 新增或更新用户；ID 为 0 时自动分配
func (r repo) UpsertUser(ctx context.Context, u *model.User) error {
	if u.ID == 0 {
		res, err := r.q.ExecContext(ctx, `
			INSERT INTO users (name, email, active) VALUES (?, ?, ?)
		`, u.Name, u.Email, u.Active)
		if err != nil {
			return fmt.Errorf("failed to insert user: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get user id: %w", err)
		}
		u.ID = id
		return nil
	}

	_, err := r.q.ExecContext(ctx, `
		INSERT INTO users (id, name, email, active) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			email = excluded.email,
			active = excluded.active
	`, u.ID, u.Name, u.Email, u.Active)
	if err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}
	return nil
}

// DirectoryCounts 目录规模
func (r repo) DirectoryCounts(ctx context.Context) (tools, users int, err error) {
	err = r.q.QueryRowContext(ctx, `
		SELECT (SELECT COUNT(1) FROM tools), (SELECT COUNT(1) FROM users)
	`).Scan(&tools, &users)
	if err != nil {
		return 0, 0, fmt.Errorf("count directory failed: %w", err)
	}
	return tools, users, nil
}
