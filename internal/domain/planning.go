package domain

import "fmt"

// ConflictKind enumerates the categories of scheduling risk.
type ConflictKind string

const (
	ConflictAudienceOverlap ConflictKind = "audience_overlap"
	ConflictFrequencyCap    ConflictKind = "frequency_cap"
	ConflictDeliverability  ConflictKind = "deliverability"
	// ConflictCannibalization is declared for forward compatibility with
	// cross-slot revenue cannibalization detection. No code path emits it yet.
	ConflictCannibalization ConflictKind = "cannibalization"
)

// ConflictSeverity ranks how damaging a detected risk is.
type ConflictSeverity string

const (
	SeverityLow    ConflictSeverity = "low"
	SeverityMedium ConflictSeverity = "medium"
	SeverityHigh   ConflictSeverity = "high"
)

// ConflictRisk is a typed, quantified scheduling risk for a candidate
// placement. Risks are ephemeral: computed fresh per call, never stored.
type ConflictRisk struct {
	Kind             ConflictKind     `json:"kind"`
	Severity         ConflictSeverity `json:"severity"`
	Description      string           `json:"description"`
	RevenueReduction float64          `json:"revenue_reduction"` // fraction, 0-1
	CTRReduction     float64          `json:"ctr_reduction"`     // fraction, 0-1
	Mitigations      []string         `json:"mitigations"`
}

// GoalType selects the optimization objective for slot ranking.
type GoalType string

const (
	GoalRevenue    GoalType = "revenue"
	GoalReach      GoalType = "reach"
	GoalEngagement GoalType = "engagement"
	GoalBalanced   GoalType = "balanced"
)

// GoalConstraints bundles the scheduling constraints attached to a goal.
// They are accepted as configuration and treated as soft scoring hints;
// they are not enforced as hard exclusion filters.
type GoalConstraints struct {
	MaxAudienceOverlap     float64 `json:"max_audience_overlap"`
	MinDeliverabilityScore float64 `json:"min_deliverability_score"`
	MaxCampaignsPerDay     int     `json:"max_campaigns_per_day"`
}

// OptimizationGoal is the pluggable objective handed to the recommender.
type OptimizationGoal struct {
	Type        GoalType        `json:"type"`
	Priority    float64         `json:"priority"`
	Constraints GoalConstraints `json:"constraints"`
}

// Validate rejects unknown goal types at the boundary.
func (g OptimizationGoal) Validate() error {
	switch g.Type {
	case GoalRevenue, GoalReach, GoalEngagement, GoalBalanced:
		return nil
	default:
		return fmt.Errorf("%w: unknown goal type %q", ErrInvalidInput, g.Type)
	}
}

// HistoricalPerformance is the per-time-label prior the recommender scores
// against: average CTR, average revenue per send, a 0-100 deliverability
// score, and the historical probability the label met target KPIs.
type HistoricalPerformance struct {
	AvgCTR         float64 `json:"avg_ctr"`
	AvgRevenue     float64 `json:"avg_revenue"`
	Deliverability float64 `json:"deliverability"` // 0-100
	SuccessRate    float64 `json:"success_rate"`   // 0-1
}

// SlotRecommendation is one ranked candidate placement. Score is relative
// ranking only (no fixed scale) and is never negative; confidence is in
// [0.1, 1.0].
type SlotRecommendation struct {
	Slot             Slot                  `json:"slot"`
	Score            float64               `json:"score"`
	Confidence       float64               `json:"confidence"`
	EstimatedRevenue float64               `json:"estimated_revenue"`
	EstimatedClicks  float64               `json:"estimated_clicks"`
	Reasons          []string              `json:"reasons"`
	Conflicts        []ConflictRisk        `json:"conflicts"`
	Historical       HistoricalPerformance `json:"historical"`
}

// MissedOpportunity reports the revenue left on the table by an unscheduled
// segment, assuming its historically best time label.
type MissedOpportunity struct {
	Segment       Segment `json:"segment"`
	OptimalSlot   string  `json:"optimal_slot"` // time label only, date-independent
	MissedRevenue float64 `json:"missed_revenue"`
	Reason        string  `json:"reason"`
}

// MissedOpportunityReport aggregates missed opportunities over the catalog.
type MissedOpportunityReport struct {
	TotalMissedRevenue float64             `json:"total_missed_revenue"`
	Opportunities      []MissedOpportunity `json:"opportunities"`
}
