package history

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ignite/campaign-planner/internal/domain"
)

// fileEntry is the YAML shape of one time-label row.
type fileEntry struct {
	AvgCTR         float64 `yaml:"avg_ctr"`
	AvgRevenue     float64 `yaml:"avg_revenue"`
	Deliverability float64 `yaml:"deliverability"`
	SuccessRate    float64 `yaml:"success_rate"`
}

// LoadFile reads a historical performance table from a YAML file:
//
//	"09:00":
//	  avg_ctr: 0.045
//	  avg_revenue: 11.0
//	  deliverability: 92
//	  success_rate: 0.82
func LoadFile(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read history file: %w", err)
	}

	var raw map[string]fileEntry
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse history file %s: %w", path, err)
	}

	t := make(Table, len(raw))
	for label, e := range raw {
		if e.SuccessRate < 0 || e.SuccessRate > 1 {
			return nil, fmt.Errorf("history file %s: label %q success_rate %.3f outside [0,1]", path, label, e.SuccessRate)
		}
		if e.Deliverability < 0 || e.Deliverability > 100 {
			return nil, fmt.Errorf("history file %s: label %q deliverability %.1f outside [0,100]", path, label, e.Deliverability)
		}
		t[label] = domain.HistoricalPerformance{
			AvgCTR:         e.AvgCTR,
			AvgRevenue:     e.AvgRevenue,
			Deliverability: e.Deliverability,
			SuccessRate:    e.SuccessRate,
		}
	}
	return t, nil
}
