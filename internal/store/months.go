package store

import (
	"context"
	"fmt"
)

// MonthStat 按月统计的记录数
type MonthStat struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Count int `json:"count"`
}

// ListPassdownMonths 列出存在记录的年月（按年/月倒序）
func (s *Store) ListPassdownMonths(ctx context.Context) ([]MonthStat, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT
			CAST(substr(passdown_date, 1, 4) AS INTEGER) AS y,
			CAST(substr(passdown_date, 6, 2) AS INTEGER) AS m,
			COUNT(1)
		FROM passdowns
		GROUP BY y, m
		ORDER BY y DESC, m DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query passdown months failed: %w", err)
	}
	defer rows.Close()

	var out []MonthStat
	for rows.Next() {
		var it MonthStat
		if err := rows.Scan(&it.Year, &it.Month, &it.Count); err != nil {
			return nil, fmt.Errorf("scan passdown months failed: %w", err)
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate passdown months failed: %w", err)
	}
	return out, nil
}
