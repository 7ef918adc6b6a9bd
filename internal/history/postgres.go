package history

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ignite/campaign-planner/internal/domain"
)

// PostgresSource loads the performance table from an analytics rollup table.
// The rollup is maintained by the (external) reporting pipeline; the planner
// only ever reads it at startup or on explicit refresh.
type PostgresSource struct {
	db *sql.DB
}

// NewPostgresSource creates a source backed by the given database.
func NewPostgresSource(db *sql.DB) *PostgresSource {
	return &PostgresSource{db: db}
}

// Load reads every time-label row from planner_slot_performance.
func (s *PostgresSource) Load(ctx context.Context) (Table, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT time_label, avg_ctr, avg_revenue, deliverability_score, success_rate
		FROM planner_slot_performance
		ORDER BY time_label
	`)
	if err != nil {
		return nil, fmt.Errorf("query slot performance: %w", err)
	}
	defer rows.Close()

	t := make(Table)
	for rows.Next() {
		var label string
		var hp domain.HistoricalPerformance
		if err := rows.Scan(&label, &hp.AvgCTR, &hp.AvgRevenue, &hp.Deliverability, &hp.SuccessRate); err != nil {
			return nil, fmt.Errorf("scan slot performance row: %w", err)
		}
		t[label] = hp
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate slot performance rows: %w", err)
	}
	return t, nil
}
