package domain

import (
	"fmt"
	"sort"
	"time"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// TimeLabels are the fixed time-of-day buckets a campaign can be scheduled
// into. Slots are never arbitrary times; the historical performance table is
// keyed by these labels only.
var TimeLabels = []string{"09:00", "12:00", "15:00", "18:00", "20:00"}

// Slot is a (date, time-of-day label) scheduling unit that can hold zero or
// more planned campaigns.
type Slot struct {
	Date      string `json:"date"`       // ISO "2006-01-02"
	TimeLabel string `json:"time_label"` // one of TimeLabels
}

// Validate checks that the date parses and the label is well-formed. Unknown
// labels are allowed through lookup defaults downstream, but an empty label
// or a bad date is a caller error.
func (s Slot) Validate() error {
	if _, err := time.Parse(DateLayout, s.Date); err != nil {
		return fmt.Errorf("%w: slot date %q is not YYYY-MM-DD", ErrInvalidInput, s.Date)
	}
	if s.TimeLabel == "" {
		return fmt.Errorf("%w: slot time label is required", ErrInvalidInput)
	}
	return nil
}

func (s Slot) String() string {
	return s.Date + " " + s.TimeLabel
}

// PlannedCampaign is a segment already placed into a calendar slot, with the
// revenue estimate resolved at placement time. The planning engine only ever
// reads these.
type PlannedCampaign struct {
	ID               string  `json:"id"`
	Segment          Segment `json:"segment"`
	Slot             Slot    `json:"slot"`
	EstimatedRevenue float64 `json:"estimated_revenue"`
}

// Calendar is a point-in-time snapshot of the planning board: date ->
// time label -> campaigns occupying that slot. The planner treats it as
// immutable; the owning state layer hands out fresh snapshots after every
// mutation.
type Calendar map[string]map[string][]PlannedCampaign

// At returns the campaigns occupying a slot. Missing dates/labels read as
// empty occupancy.
func (c Calendar) At(slot Slot) []PlannedCampaign {
	return c[slot.Date][slot.TimeLabel]
}

// Dates returns the calendar's dates in ascending order.
func (c Calendar) Dates() []string {
	out := make([]string, 0, len(c))
	for d := range c {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// HasSegment reports whether any slot holds a campaign for the given segment.
func (c Calendar) HasSegment(segmentID string) bool {
	for _, byLabel := range c {
		for _, campaigns := range byLabel {
			for _, pc := range campaigns {
				if pc.Segment.ID == segmentID {
					return true
				}
			}
		}
	}
	return false
}

// Clone returns a deep copy of the calendar. Campaign values are copied;
// shared tag slices are not a concern because segments are immutable.
func (c Calendar) Clone() Calendar {
	out := make(Calendar, len(c))
	for date, byLabel := range c {
		out[date] = make(map[string][]PlannedCampaign, len(byLabel))
		for label, campaigns := range byLabel {
			cp := make([]PlannedCampaign, len(campaigns))
			copy(cp, campaigns)
			out[date][label] = cp
		}
	}
	return out
}
