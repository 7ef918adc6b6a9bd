package planner

import (
	"fmt"

	"github.com/ignite/campaign-planner/internal/domain"
)

// CalculateMissedOpportunities estimates the revenue left unrealized by
// segments that have no placement anywhere in the calendar. For each
// unscheduled segment it assumes the time label with the best historical
// revenue x success-rate product.
//
// Known limitation, preserved deliberately: the estimate is conflict-agnostic
// and ignores slot occupancy entirely. The "optimal" label is proposed even
// when every slot carrying it is already fully booked, so the figure is an
// upper bound, not a bookable plan.
func (r *Recommender) CalculateMissedOpportunities(cal domain.Calendar, segments []domain.Segment) domain.MissedOpportunityReport {
	report := domain.MissedOpportunityReport{}

	bestLabel, best, ok := r.history.BestLabel()
	if !ok {
		return report
	}

	for _, seg := range segments {
		if cal.HasSegment(seg.ID) {
			continue
		}
		missed := float64(seg.Size) * best.AvgCTR * seg.ERPM
		report.Opportunities = append(report.Opportunities, domain.MissedOpportunity{
			Segment:       seg,
			OptimalSlot:   bestLabel,
			MissedRevenue: missed,
			Reason: fmt.Sprintf("Segment is unscheduled; the %s slot historically yields the best revenue per send",
				bestLabel),
		})
		report.TotalMissedRevenue += missed
	}
	return report
}
