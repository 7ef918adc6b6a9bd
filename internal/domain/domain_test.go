package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSegmentValidate(t *testing.T) {
	valid := Segment{
		ID: "seg-1", Name: "VIP", Size: 1000, CTR: 0.05, ERPM: 0.2,
		RFMTier: "555", Vertical: VerticalCard, Type: CampaignNewsletter,
	}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Segment)
	}{
		{"missing id", func(s *Segment) { s.ID = "" }},
		{"negative size", func(s *Segment) { s.Size = -1 }},
		{"ctr above one", func(s *Segment) { s.CTR = 1.01 }},
		{"negative ctr", func(s *Segment) { s.CTR = -0.1 }},
		{"negative erpm", func(s *Segment) { s.ERPM = -2 }},
		{"rfm wrong length", func(s *Segment) { s.RFMTier = "44" }},
		{"rfm digit out of range", func(s *Segment) { s.RFMTier = "460" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid
			tt.mutate(&s)
			assert.ErrorIs(t, s.Validate(), ErrInvalidInput)
		})
	}

	// Empty RFM tier is tolerated; the overlap heuristic degrades instead.
	s := valid
	s.RFMTier = ""
	assert.NoError(t, s.Validate())
}

func TestSlotValidate(t *testing.T) {
	assert.NoError(t, Slot{Date: "2026-09-01", TimeLabel: "09:00"}.Validate())
	assert.ErrorIs(t, Slot{Date: "09/01/2026", TimeLabel: "09:00"}.Validate(), ErrInvalidInput)
	assert.ErrorIs(t, Slot{Date: "2026-09-01"}.Validate(), ErrInvalidInput)
}

func TestGoalValidate(t *testing.T) {
	for _, g := range []GoalType{GoalRevenue, GoalReach, GoalEngagement, GoalBalanced} {
		assert.NoError(t, OptimizationGoal{Type: g}.Validate())
	}
	assert.ErrorIs(t, OptimizationGoal{Type: "growth"}.Validate(), ErrInvalidInput)
}

func TestCalendarHelpers(t *testing.T) {
	slot := Slot{Date: "2026-09-01", TimeLabel: "09:00"}
	cal := Calendar{
		"2026-09-02": {"12:00": {{ID: "p2", Segment: Segment{ID: "seg-b"}}}},
		"2026-09-01": {"09:00": {{ID: "p1", Segment: Segment{ID: "seg-a"}}}},
	}

	assert.Len(t, cal.At(slot), 1)
	assert.Empty(t, cal.At(Slot{Date: "2026-09-03", TimeLabel: "09:00"}))
	assert.Equal(t, []string{"2026-09-01", "2026-09-02"}, cal.Dates())
	assert.True(t, cal.HasSegment("seg-a"))
	assert.False(t, cal.HasSegment("seg-z"))
}

func TestCalendarClone(t *testing.T) {
	cal := Calendar{
		"2026-09-01": {"09:00": {{ID: "p1"}}},
	}
	cp := cal.Clone()
	cp["2026-09-01"]["09:00"] = append(cp["2026-09-01"]["09:00"], PlannedCampaign{ID: "p2"})

	assert.Len(t, cal["2026-09-01"]["09:00"], 1, "clone mutation must not show in the original")
	assert.Len(t, cp["2026-09-01"]["09:00"], 2)
}

func TestEstimatedRevenue(t *testing.T) {
	s := Segment{Size: 100000, CTR: 0.05, ERPM: 0.2}
	assert.InDelta(t, 1000.0, s.EstimatedRevenue(), 1e-9)
}
