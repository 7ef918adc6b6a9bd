// Package segments implements the catalog of schedulable audience segments.
//
// The planner treats segments as read-only external input; this package is
// the collaborator that supplies them, either from Postgres or from the
// seeded in-memory catalog used for demos and tests.
package segments

import (
	"context"

	"github.com/ignite/campaign-planner/internal/domain"
)

// Repository defines the data access contract for the segment catalog.
// Implementations must be safe for concurrent use.
type Repository interface {
	// List returns all schedulable segments, ordered by name.
	List(ctx context.Context) ([]domain.Segment, error)

	// Get returns a single segment. Returns domain.ErrNotFound if it
	// doesn't exist.
	Get(ctx context.Context, id string) (domain.Segment, error)
}
