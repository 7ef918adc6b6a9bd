package segments

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/ignite/campaign-planner/internal/domain"
)

// MemoryRepository is an in-memory segment catalog. Used when no database is
// configured, and by tests.
type MemoryRepository struct {
	mu       sync.RWMutex
	segments map[string]domain.Segment
}

// NewMemoryRepository creates a catalog with the given segments.
func NewMemoryRepository(segs ...domain.Segment) *MemoryRepository {
	m := &MemoryRepository{segments: make(map[string]domain.Segment, len(segs))}
	for _, s := range segs {
		m.segments[s.ID] = s
	}
	return m
}

// List returns all segments ordered by name.
func (m *MemoryRepository) List(_ context.Context) ([]domain.Segment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.Segment, 0, len(m.segments))
	for _, s := range m.segments {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Get returns a single segment by ID.
func (m *MemoryRepository) Get(_ context.Context, id string) (domain.Segment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.segments[id]
	if !ok {
		return domain.Segment{}, fmt.Errorf("segment %s: %w", id, domain.ErrNotFound)
	}
	return s, nil
}

// Seeded returns a demo catalog covering all verticals and campaign types,
// for no-database startup.
func Seeded() *MemoryRepository {
	return NewMemoryRepository(
		domain.Segment{
			ID: "seg-vip-card", Name: "VIP Cardholders", Size: 120000, CTR: 0.055, ERPM: 0.24,
			RFMTier: "555", Tags: []string{"vip", "card", "high-value"},
			Vertical: domain.VerticalCard, Type: domain.CampaignNewsletter,
		},
		domain.Segment{
			ID: "seg-card-prospects", Name: "Card Prospects", Size: 480000, CTR: 0.032, ERPM: 0.11,
			RFMTier: "433", Tags: []string{"card", "prospect"},
			Vertical: domain.VerticalCard, Type: domain.CampaignAlert,
		},
		domain.Segment{
			ID: "seg-loan-active", Name: "Active Loan Shoppers", Size: 210000, CTR: 0.047, ERPM: 0.19,
			RFMTier: "544", Tags: []string{"loan", "in-market"},
			Vertical: domain.VerticalLoan, Type: domain.CampaignClosing,
		},
		domain.Segment{
			ID: "seg-consortium-warm", Name: "Consortium Warm Leads", Size: 95000, CTR: 0.041, ERPM: 0.15,
			RFMTier: "444", Tags: []string{"consortium", "warm"},
			Vertical: domain.VerticalConsortium, Type: domain.CampaignNewsletter,
		},
		domain.Segment{
			ID: "seg-dormant", Name: "Dormant Reactivation", Size: 640000, CTR: 0.012, ERPM: 0.05,
			RFMTier: "211", Tags: []string{"dormant", "reactivation"},
			Vertical: domain.VerticalLoan, Type: domain.CampaignBreaking,
		},
	)
}
