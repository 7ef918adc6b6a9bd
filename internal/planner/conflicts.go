package planner

import (
	"fmt"

	"github.com/ignite/campaign-planner/internal/domain"
	"github.com/ignite/campaign-planner/internal/history"
)

// Overlap and deliverability thresholds for conflict detection.
const (
	overlapThreshold     = 0.3 // below this, co-scheduling is considered safe
	overlapHighSeverity  = 0.6
	frequencyCapInSlot   = 2  // existing campaigns at/above this trigger a fatigue risk
	deliverabilityFloor  = 85 // scores below this emit a risk
	deliverabilityHighAt = 80
)

// Detector finds and quantifies scheduling risks for a candidate placement.
// It is a leaf component: its only dependency is the historical table, used
// for the deliverability check.
type Detector struct {
	history history.Table
}

// NewDetector creates a conflict detector over the given historical table.
func NewDetector(table history.Table) *Detector {
	return &Detector{history: table}
}

// DetectConflicts inspects the campaigns already occupying the target slot
// and returns typed, severity-ranked risks. It never fails: missing
// historical data simply skips the deliverability check, and empty occupancy
// yields no risks. The calendar and segment are read-only.
func (d *Detector) DetectConflicts(segment domain.Segment, slot domain.Slot, cal domain.Calendar) []domain.ConflictRisk {
	var risks []domain.ConflictRisk

	existing := cal.At(slot)
	for _, pc := range existing {
		overlap := estimateAudienceOverlap(segment, pc.Segment)
		if overlap <= overlapThreshold {
			continue
		}
		severity := domain.SeverityMedium
		if overlap > overlapHighSeverity {
			severity = domain.SeverityHigh
		}
		risks = append(risks, domain.ConflictRisk{
			Kind:     domain.ConflictAudienceOverlap,
			Severity: severity,
			Description: fmt.Sprintf("Estimated %.0f%% audience overlap with %q already scheduled in this slot",
				overlap*100, pc.Segment.Name),
			RevenueReduction: overlap * 0.4,
			CTRReduction:     overlap * 0.3,
			Mitigations: []string{
				"Move one of the campaigns to a different time slot",
				"Exclude shared tags from one of the segments",
				"Combine both sends into a single campaign",
			},
		})
	}

	// Two or more campaigns already in the slot is a fatigue risk regardless
	// of overlap, and additive to any overlap risks above.
	if len(existing) >= frequencyCapInSlot {
		risks = append(risks, domain.ConflictRisk{
			Kind:     domain.ConflictFrequencyCap,
			Severity: domain.SeverityHigh,
			Description: fmt.Sprintf("Slot already holds %d campaigns; adding another risks audience fatigue",
				len(existing)),
			RevenueReduction: 0.25,
			CTRReduction:     0.35,
			Mitigations: []string{
				"Pick a slot with fewer scheduled campaigns",
				"Spread the sends across adjacent days",
			},
		})
	}

	// Deliverability check only applies when real historical data exists for
	// the label; unknown labels degrade gracefully by skipping it.
	if hp, ok := d.history.Lookup(slot.TimeLabel); ok && hp.Deliverability < deliverabilityFloor {
		severity := domain.SeverityMedium
		if hp.Deliverability < deliverabilityHighAt {
			severity = domain.SeverityHigh
		}
		risks = append(risks, domain.ConflictRisk{
			Kind:     domain.ConflictDeliverability,
			Severity: severity,
			Description: fmt.Sprintf("Deliverability score %.0f for the %s slot is below the %d target",
				hp.Deliverability, slot.TimeLabel, deliverabilityFloor),
			RevenueReduction: (90 - hp.Deliverability) / 100,
			CTRReduction:     (90 - hp.Deliverability) / 200,
			Mitigations: []string{
				"Choose a time slot with a healthier deliverability score",
				"Warm up sending volume before the full blast",
			},
		})
	}

	return risks
}

// estimateAudienceOverlap approximates how much two segments' audiences
// intersect. This is a heuristic, not a measured quantity: it adds tag
// Jaccard similarity, a 0.3 bump for matching verticals, and a 0.2 bump for
// identical RFM tiers, capped at 1.0. A production-grade replacement would
// intersect actual contact-ID sets.
func estimateAudienceOverlap(a, b domain.Segment) float64 {
	overlap := tagJaccard(a.Tags, b.Tags)
	if a.Vertical != "" && a.Vertical == b.Vertical {
		overlap += 0.3
	}
	if a.RFMTier != "" && a.RFMTier == b.RFMTier {
		overlap += 0.2
	}
	if overlap > 1.0 {
		overlap = 1.0
	}
	return overlap
}

// tagJaccard returns |A ∩ B| / |A ∪ B| over the two tag sets. Two empty tag
// sets read as zero similarity, not identity.
func tagJaccard(a, b []string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	set := make(map[string]bool, len(a))
	for _, t := range a {
		set[t] = true
	}
	union := make(map[string]bool, len(a)+len(b))
	for _, t := range a {
		union[t] = true
	}
	inter := 0
	for _, t := range b {
		if set[t] {
			set[t] = false // count each shared tag once
			inter++
		}
		union[t] = true
	}
	return float64(inter) / float64(len(union))
}
