// planctl runs the slot recommender against a YAML scenario file, outside
// the server. Useful for eyeballing ranking changes when tuning the
// historical table.
//
// Usage:
//
//	planctl -scenario scenario.yaml [-goal revenue] [-cap 2] [-history table.yaml]
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/ignite/campaign-planner/internal/domain"
	"github.com/ignite/campaign-planner/internal/history"
	"github.com/ignite/campaign-planner/internal/planner"
)

// scenario is the YAML input shape.
type scenario struct {
	Segments []scenarioSegment `yaml:"segments"`
	Schedule []scenarioPlaced  `yaml:"schedule"`
	Target   string            `yaml:"target"` // segment ID to place
	Slots    []scenarioSlot    `yaml:"candidate_slots"`
}

type scenarioSegment struct {
	ID       string   `yaml:"id"`
	Name     string   `yaml:"name"`
	Size     int      `yaml:"size"`
	CTR      float64  `yaml:"ctr"`
	ERPM     float64  `yaml:"erpm"`
	RFMTier  string   `yaml:"rfm_tier"`
	Tags     []string `yaml:"tags"`
	Vertical string   `yaml:"vertical"`
	Type     string   `yaml:"campaign_type"`
}

type scenarioPlaced struct {
	SegmentID string `yaml:"segment_id"`
	Date      string `yaml:"date"`
	TimeLabel string `yaml:"time_label"`
}

type scenarioSlot struct {
	Date      string `yaml:"date"`
	TimeLabel string `yaml:"time_label"`
}

func main() {
	scenarioPath := flag.String("scenario", "", "path to scenario YAML (required)")
	goalType := flag.String("goal", "balanced", "optimization goal: revenue|reach|engagement|balanced")
	capPerSlot := flag.Int("cap", planner.DefaultFrequencyCap, "frequency cap per slot")
	historyPath := flag.String("history", "", "optional history table YAML (default: builtin)")
	flag.Parse()

	if *scenarioPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(*scenarioPath, *goalType, *capPerSlot, *historyPath); err != nil {
		fmt.Fprintln(os.Stderr, "planctl:", err)
		os.Exit(1)
	}
}

func run(scenarioPath, goalType string, capPerSlot int, historyPath string) error {
	data, err := os.ReadFile(scenarioPath)
	if err != nil {
		return err
	}
	var sc scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return fmt.Errorf("parse scenario: %w", err)
	}

	table := history.Builtin()
	if historyPath != "" {
		if table, err = history.LoadFile(historyPath); err != nil {
			return err
		}
	}

	byID := make(map[string]domain.Segment, len(sc.Segments))
	segs := make([]domain.Segment, 0, len(sc.Segments))
	for _, s := range sc.Segments {
		seg := domain.Segment{
			ID: s.ID, Name: s.Name, Size: s.Size, CTR: s.CTR, ERPM: s.ERPM,
			RFMTier: s.RFMTier, Tags: s.Tags,
			Vertical: domain.Vertical(s.Vertical), Type: domain.CampaignType(s.Type),
		}
		if err := seg.Validate(); err != nil {
			return err
		}
		byID[seg.ID] = seg
		segs = append(segs, seg)
	}

	cal := make(domain.Calendar)
	for _, p := range sc.Schedule {
		seg, ok := byID[p.SegmentID]
		if !ok {
			return fmt.Errorf("schedule references unknown segment %q", p.SegmentID)
		}
		slot := domain.Slot{Date: p.Date, TimeLabel: p.TimeLabel}
		if err := slot.Validate(); err != nil {
			return err
		}
		if cal[slot.Date] == nil {
			cal[slot.Date] = make(map[string][]domain.PlannedCampaign)
		}
		cal[slot.Date][slot.TimeLabel] = append(cal[slot.Date][slot.TimeLabel], domain.PlannedCampaign{
			ID:               uuid.New().String(),
			Segment:          seg,
			Slot:             slot,
			EstimatedRevenue: seg.EstimatedRevenue(),
		})
	}

	target, ok := byID[sc.Target]
	if !ok {
		return fmt.Errorf("target segment %q not in scenario", sc.Target)
	}

	candidates := make([]domain.Slot, 0, len(sc.Slots))
	for _, s := range sc.Slots {
		candidates = append(candidates, domain.Slot{Date: s.Date, TimeLabel: s.TimeLabel})
	}

	rec := planner.NewRecommender(table)
	goal := domain.OptimizationGoal{Type: domain.GoalType(goalType)}
	recs, err := rec.RecommendBestSlots(target, goal, cal, candidates)
	if err != nil {
		return err
	}

	fmt.Printf("Recommendations for %q (goal: %s)\n", target.Name, goalType)
	for i, r := range recs {
		fmt.Printf("%d. %s  score=%.2f  confidence=%.2f  est_revenue=%.2f  est_clicks=%.0f\n",
			i+1, r.Slot, r.Score, r.Confidence, r.EstimatedRevenue, r.EstimatedClicks)
		for _, reason := range r.Reasons {
			fmt.Printf("   + %s\n", reason)
		}
		for _, c := range r.Conflicts {
			fmt.Printf("   ! [%s/%s] %s\n", c.Kind, c.Severity, c.Description)
		}
	}
	if len(recs) == 0 {
		fmt.Println("(no candidate slots)")
	}

	if violations := planner.CheckFrequencyViolations(cal, capPerSlot); len(violations) > 0 {
		fmt.Printf("\nFrequency violations (cap %d):\n  %s\n", capPerSlot, strings.Join(violations, "\n  "))
	}

	report := rec.CalculateMissedOpportunities(cal, segs)
	if len(report.Opportunities) > 0 {
		fmt.Printf("\nMissed opportunities (total %.2f):\n", report.TotalMissedRevenue)
		for _, o := range report.Opportunities {
			fmt.Printf("  %s -> %s slot, %.2f\n", o.Segment.Name, o.OptimalSlot, o.MissedRevenue)
		}
	}
	return nil
}
