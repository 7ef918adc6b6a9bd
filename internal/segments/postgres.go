package segments

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/ignite/campaign-planner/internal/domain"
)

// PostgresRepository reads the segment catalog from Postgres.
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository creates a repository backed by the given database.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const segmentColumns = `id, name, size, ctr, erpm, rfm_tier, tags, vertical, campaign_type`

// List returns all schedulable segments ordered by name.
func (r *PostgresRepository) List(ctx context.Context) ([]domain.Segment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+segmentColumns+`
		FROM planner_segments
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("query segments: %w", err)
	}
	defer rows.Close()

	var out []domain.Segment
	for rows.Next() {
		s, err := scanSegment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate segments: %w", err)
	}
	return out, nil
}

// Get returns a single segment by ID.
func (r *PostgresRepository) Get(ctx context.Context, id string) (domain.Segment, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+segmentColumns+`
		FROM planner_segments
		WHERE id = $1
	`, id)
	s, err := scanSegment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Segment{}, fmt.Errorf("segment %s: %w", id, domain.ErrNotFound)
	}
	return s, err
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanSegment(sc scanner) (domain.Segment, error) {
	var s domain.Segment
	var tags pq.StringArray
	err := sc.Scan(&s.ID, &s.Name, &s.Size, &s.CTR, &s.ERPM, &s.RFMTier, &tags, &s.Vertical, &s.Type)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Segment{}, err
		}
		return domain.Segment{}, fmt.Errorf("scan segment: %w", err)
	}
	s.Tags = []string(tags)
	return s, nil
}
