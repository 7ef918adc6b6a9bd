// Package history provides the historical send-performance table the
// recommender scores against.
//
// The table is an explicit dependency: it is loaded once at startup (from the
// builtin constants, a YAML file, or an analytics database) and injected into
// the planner. Tests swap in whatever table they need.
package history

import "github.com/ignite/campaign-planner/internal/domain"

// Table maps a time-of-day label ("09:00", "18:00", ...) to its historical
// performance. Date-independent: the same label carries the same prior on
// every calendar day.
type Table map[string]domain.HistoricalPerformance

// Default is the fallback tuple used when a time label has no historical
// entry. Values match the documented platform-wide averages.
func Default() domain.HistoricalPerformance {
	return domain.HistoricalPerformance{
		AvgCTR:         0.04,
		AvgRevenue:     10,
		Deliverability: 85,
		SuccessRate:    0.75,
	}
}

// Lookup returns the entry for a label, or the default tuple when the label
// is unknown. The second return reports whether real data was found.
func (t Table) Lookup(label string) (domain.HistoricalPerformance, bool) {
	if hp, ok := t[label]; ok {
		return hp, true
	}
	return Default(), false
}

// BestLabel returns the time label with the highest avgRevenue x successRate
// product, along with its entry. Returns false when the table is empty.
// Iteration order is made deterministic by breaking ties on the label itself.
func (t Table) BestLabel() (string, domain.HistoricalPerformance, bool) {
	var (
		bestLabel string
		best      domain.HistoricalPerformance
		bestScore = -1.0
	)
	for label, hp := range t {
		score := hp.AvgRevenue * hp.SuccessRate
		if score > bestScore || (score == bestScore && label < bestLabel) {
			bestLabel, best, bestScore = label, hp, score
		}
	}
	return bestLabel, best, bestScore >= 0
}

// Builtin returns the precomputed five-label table shipped with the planner.
// In production this is replaced by a real analytics feed (see PostgresSource).
func Builtin() Table {
	return Table{
		"09:00": {AvgCTR: 0.045, AvgRevenue: 11.0, Deliverability: 92, SuccessRate: 0.82},
		"12:00": {AvgCTR: 0.038, AvgRevenue: 9.5, Deliverability: 88, SuccessRate: 0.75},
		"15:00": {AvgCTR: 0.035, AvgRevenue: 8.0, Deliverability: 90, SuccessRate: 0.70},
		"18:00": {AvgCTR: 0.052, AvgRevenue: 14.5, Deliverability: 94, SuccessRate: 0.90},
		"20:00": {AvgCTR: 0.048, AvgRevenue: 12.0, Deliverability: 86, SuccessRate: 0.78},
	}
}
