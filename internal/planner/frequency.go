package planner

import (
	"fmt"
	"sort"

	"github.com/ignite/campaign-planner/internal/domain"
)

// DefaultFrequencyCap is the per-slot campaign cap used when the caller does
// not supply one.
const DefaultFrequencyCap = 2

// CheckFrequencyViolations scans every slot in the calendar and reports the
// ones whose campaign count exceeds capPerSlot. Returns an empty list when
// the calendar is compliant. Violations are ordered by (date, time label) so
// output is stable across calls.
func CheckFrequencyViolations(cal domain.Calendar, capPerSlot int) []string {
	if capPerSlot <= 0 {
		capPerSlot = DefaultFrequencyCap
	}

	var violations []string
	for _, date := range cal.Dates() {
		byLabel := cal[date]
		labels := make([]string, 0, len(byLabel))
		for label := range byLabel {
			labels = append(labels, label)
		}
		sort.Strings(labels)
		for _, label := range labels {
			if count := len(byLabel[label]); count > capPerSlot {
				violations = append(violations,
					fmt.Sprintf("%s %s: %d/%d campaigns", date, label, count, capPerSlot))
			}
		}
	}
	return violations
}
