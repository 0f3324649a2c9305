package store

import (
	"context"
	"fmt"
	"time"

	"pcdmanager/internal/model"
)

// SavePassdown 写入记录及其设备 / 技术员关联
func (r repo) SavePassdown(ctx context.Context, p *model.Passdown) error {
	res, err := r.q.ExecContext(ctx, `
		INSERT INTO passdowns (passdown_date, comment, user_id, created_date, batch_id)
		VALUES (?, ?, ?, ?, ?)
	`, p.Date.Format(model.DateLayout), p.Comment, p.UserID, p.CreatedDate, p.BatchID)
	if err != nil {
		return fmt.Errorf("failed to insert passdown: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get passdown id: %w", err)
	}

	for _, toolID := range p.ToolIDs {
		if _, err := r.q.ExecContext(ctx, `
			INSERT OR IGNORE INTO passdown_tools (passdown_id, tool_id) VALUES (?, ?)
		`, id, toolID); err != nil {
			return fmt.Errorf("failed to link tool %d: %w", toolID, err)
		}
	}
	for _, techID := range p.TechIDs {
		if _, err := r.q.ExecContext(ctx, `
			INSERT OR IGNORE INTO passdown_techs (passdown_id, user_id) VALUES (?, ?)
		`, id, techID); err != nil {
			return fmt.Errorf("failed to link technician %d: %w", techID, err)
		}
	}

	p.ID = id
	return nil
}

// FindPassdownsByDate 查询某一天的全部记录（含关联 ID）
func (r repo) FindPassdownsByDate(ctx context.Context, date time.Time) ([]model.Passdown, error) {
	day := date.Format(model.DateLayout)

	out, err := r.queryPassdowns(ctx, `
		SELECT id, passdown_date, comment, user_id, created_date, batch_id
		FROM passdowns WHERE passdown_date = ? ORDER BY id
	`, day)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	index := make(map[int64]int, len(out))
	for i := range out {
		index[out[i].ID] = i
	}

	toolLinks, err := r.queryLinks(ctx, `
		SELECT pt.passdown_id, pt.tool_id FROM passdown_tools pt
		JOIN passdowns p ON p.id = pt.passdown_id
		WHERE p.passdown_date = ? ORDER BY pt.passdown_id, pt.tool_id
	`, day)
	if err != nil {
		return nil, err
	}
	for _, l := range toolLinks {
		if i, ok := index[l[0]]; ok {
			out[i].ToolIDs = append(out[i].ToolIDs, l[1])
		}
	}

	techLinks, err := r.queryLinks(ctx, `
		SELECT pt.passdown_id, pt.user_id FROM passdown_techs pt
		JOIN passdowns p ON p.id = pt.passdown_id
		WHERE p.passdown_date = ? ORDER BY pt.passdown_id, pt.user_id
	`, day)
	if err != nil {
		return nil, err
	}
	for _, l := range techLinks {
		if i, ok := index[l[0]]; ok {
			out[i].TechIDs = append(out[i].TechIDs, l[1])
		}
	}

	return out, nil
}

// CountPassdowns 记录总数
func (r repo) CountPassdowns(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRowContext(ctx, `SELECT COUNT(1) FROM passdowns`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count passdowns failed: %w", err)
	}
	return n, nil
}

func (r repo) queryPassdowns(ctx context.Context, query string, args ...any) ([]model.Passdown, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query passdowns failed: %w", err)
	}
	defer rows.Close()

	out := []model.Passdown{}
	for rows.Next() {
		var (
			p   model.Passdown
			day string
		)
		if err := rows.Scan(&p.ID, &day, &p.Comment, &p.UserID, &p.CreatedDate, &p.BatchID); err != nil {
			return nil, fmt.Errorf("scan passdown failed: %w", err)
		}
		p.Date, err = time.Parse(model.DateLayout, day)
		if err != nil {
			return nil, fmt.Errorf("invalid passdown date %q: %w", day, err)
		}
		p.ToolIDs = []int64{}
		p.TechIDs = []int64{}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate passdowns failed: %w", err)
	}
	return out, nil
}

func (r repo) queryLinks(ctx context.Context, query string, args ...any) ([][2]int64, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query passdown links failed: %w", err)
	}
	defer rows.Close()

	var out [][2]int64
	for rows.Next() {
		var l [2]int64
		if err := rows.Scan(&l[0], &l[1]); err != nil {
			return nil, fmt.Errorf("scan passdown link failed: %w", err)
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate passdown links failed: %w", err)
	}
	return out, nil
}
