package planner

import (
	"fmt"
	"sort"

	"github.com/ignite/campaign-planner/internal/domain"
	"github.com/ignite/campaign-planner/internal/history"
)

// maxRecommendations caps how many ranked slots a single call returns.
const maxRecommendations = 3

// confidenceFloor is the minimum confidence ever reported. Conflicts only
// ever reduce confidence; they never push it below this.
const confidenceFloor = 0.1

// Recommender scores and ranks candidate slots for a segment under a
// pluggable optimization goal. It is safe for concurrent use: all state is
// the immutable historical table injected at construction.
type Recommender struct {
	history  history.Table
	detector *Detector
}

// NewRecommender creates a recommender over the given historical table.
func NewRecommender(table history.Table) *Recommender {
	return &Recommender{
		history:  table,
		detector: NewDetector(table),
	}
}

// Detector exposes the conflict detector sharing this recommender's table.
func (r *Recommender) Detector() *Detector {
	return r.detector
}

// RecommendBestSlots scores every candidate slot for the segment and returns
// the top slots ordered by score descending. An empty candidate list yields
// an empty result, not an error; errors are reserved for invalid input.
func (r *Recommender) RecommendBestSlots(
	segment domain.Segment,
	goal domain.OptimizationGoal,
	cal domain.Calendar,
	candidates []domain.Slot,
) ([]domain.SlotRecommendation, error) {
	if err := segment.Validate(); err != nil {
		return nil, err
	}
	if err := goal.Validate(); err != nil {
		return nil, err
	}
	for _, slot := range candidates {
		if err := slot.Validate(); err != nil {
			return nil, err
		}
	}

	recs := make([]domain.SlotRecommendation, 0, len(candidates))
	for _, slot := range candidates {
		recs = append(recs, r.scoreSlot(segment, goal, cal, slot))
	}

	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].Score != recs[j].Score {
			return recs[i].Score > recs[j].Score
		}
		// Deterministic order for equal scores.
		return recs[i].Slot.String() < recs[j].Slot.String()
	})
	if len(recs) > maxRecommendations {
		recs = recs[:maxRecommendations]
	}
	return recs, nil
}

// scoreSlot produces the full recommendation record for one candidate.
func (r *Recommender) scoreSlot(
	segment domain.Segment,
	goal domain.OptimizationGoal,
	cal domain.Calendar,
	slot domain.Slot,
) domain.SlotRecommendation {
	hp, _ := r.history.Lookup(slot.TimeLabel)

	base := hp.AvgRevenue * hp.SuccessRate
	base *= goalMultiplier(segment, goal)

	conflicts := r.detector.DetectConflicts(segment, slot, cal)

	// Aggregate penalty: the sum of each conflict's revenue impact, clamped
	// to [0,1] so heavily conflicted slots bottom out at a zero estimate
	// instead of going negative.
	penalty := 0.0
	for _, c := range conflicts {
		penalty += c.RevenueReduction
	}
	if penalty > 1 {
		penalty = 1
	}

	score := base * (1 - penalty)
	if score < 0 {
		score = 0
	}

	estCTR := hp.AvgCTR * (1 - penalty)
	estClicks := float64(segment.Size) * estCTR
	estRevenue := estClicks * segment.ERPM

	confidence := hp.SuccessRate
	for _, c := range conflicts {
		switch c.Severity {
		case domain.SeverityHigh:
			confidence *= 0.7
		case domain.SeverityMedium:
			confidence *= 0.85
		case domain.SeverityLow:
			confidence *= 0.95
		}
	}
	if confidence < confidenceFloor {
		confidence = confidenceFloor
	}

	return domain.SlotRecommendation{
		Slot:             slot,
		Score:            score,
		Confidence:       confidence,
		EstimatedRevenue: estRevenue,
		EstimatedClicks:  estClicks,
		Reasons:          buildReasons(segment, goal, slot, hp),
		Conflicts:        conflicts,
		Historical:       hp,
	}
}

// goalMultiplier scales the base score toward the selected objective.
func goalMultiplier(segment domain.Segment, goal domain.OptimizationGoal) float64 {
	switch goal.Type {
	case domain.GoalRevenue:
		return 1.2
	case domain.GoalReach:
		return float64(segment.Size) / 100000
	case domain.GoalEngagement:
		return segment.CTR * 2
	default: // balanced
		return 1
	}
}

// buildReasons collects the human-readable justifications that apply to a
// slot. Order is not significant.
func buildReasons(segment domain.Segment, goal domain.OptimizationGoal, slot domain.Slot, hp domain.HistoricalPerformance) []string {
	var reasons []string
	if hp.SuccessRate > 0.8 {
		reasons = append(reasons, fmt.Sprintf("Historical success rate of %.0f%% for this slot", hp.SuccessRate*100))
	}
	if hp.AvgCTR > 0.04 {
		reasons = append(reasons, "Click-through rate above platform average at this time")
	}
	if segment.Vertical == domain.VerticalCard && slot.TimeLabel == "18:00" {
		reasons = append(reasons, "Card offers historically perform best in the 18:00 slot")
	}
	if goal.Type == domain.GoalRevenue && hp.AvgRevenue > 12 {
		reasons = append(reasons, "High-revenue time slot matches the revenue goal")
	}
	return reasons
}
