package store

import (
	"context"
	"database/sql"

	"github.com/rcliao/bmicalc/internal/model"
)

// Stats summarizes the calculations logged in this session.
type Stats struct {
	Total      int             `json:"total"`
	MeanBMI    float64         `json:"mean_bmi"`
	MinBMI     float64         `json:"min_bmi"`
	MaxBMI     float64         `json:"max_bmi"`
	Categories []CategoryStats `json:"categories"`
	Systems    []SystemStats   `json:"unit_systems"`
}

// CategoryStats holds per-category counts.
type CategoryStats struct {
	Category model.Category `json:"category"`
	Count    int            `json:"count"`
}

// SystemStats holds per-unit-system counts.
type SystemStats struct {
	System model.UnitSystem `json:"unit_system"`
	Count  int              `json:"count"`
}

// Stats returns session statistics.
func (s *SQLiteStore) Stats(ctx context.Context) (*Stats, error) {
	st := &Stats{}

	var mean, lo, hi sql.NullFloat64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), AVG(bmi), MIN(bmi), MAX(bmi) FROM calculations`).
		Scan(&st.Total, &mean, &lo, &hi)
	if err != nil {
		return nil, err
	}
	st.MeanBMI, st.MinBMI, st.MaxBMI = mean.Float64, lo.Float64, hi.Float64

	rows, err := s.db.QueryContext(ctx, `
		SELECT category, COUNT(*) AS cnt
		FROM calculations
		GROUP BY category ORDER BY cnt DESC, category`)
	if err != nil {
		return st, err
	}
	for rows.Next() {
		var c CategoryStats
		var name string
		if err := rows.Scan(&name, &c.Count); err != nil {
			rows.Close()
			return st, err
		}
		c.Category = model.Category(name)
		st.Categories = append(st.Categories, c)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return st, err
	}
	rows.Close()

	rows, err = s.db.QueryContext(ctx, `
		SELECT unit_system, COUNT(*) AS cnt
		FROM calculations
		GROUP BY unit_system ORDER BY cnt DESC, unit_system`)
	if err != nil {
		return st, err
	}
	defer rows.Close()
	for rows.Next() {
		var c SystemStats
		var name string
		if err := rows.Scan(&name, &c.Count); err != nil {
			return st, err
		}
		c.System = model.UnitSystem(name)
		st.Systems = append(st.Systems, c)
	}

	return st, rows.Err()
}
