package domain

import (
	"fmt"
	"regexp"
)

// Vertical enumerates the product verticals a segment can belong to.
type Vertical string

const (
	VerticalCard       Vertical = "card"
	VerticalLoan       Vertical = "loan"
	VerticalConsortium Vertical = "consortium"
)

// CampaignType enumerates the editorial categories of a blast.
type CampaignType string

const (
	CampaignNewsletter CampaignType = "newsletter"
	CampaignAlert      CampaignType = "alert"
	CampaignClosing    CampaignType = "closing"
	CampaignBreaking   CampaignType = "breaking"
)

// Segment is a named audience cohort with size, engagement, and revenue
// characteristics. Segments are produced by the (external) segment catalog
// and are read-only inputs to the planning engine.
type Segment struct {
	ID       string       `json:"id" db:"id"`
	Name     string       `json:"name" db:"name"`
	Size     int          `json:"size" db:"size"`
	CTR      float64      `json:"ctr" db:"ctr"`           // 0-1
	ERPM     float64      `json:"erpm" db:"erpm"`         // revenue per 1000 sends
	RFMTier  string       `json:"rfm_tier" db:"rfm_tier"` // 3 digits, each 1-5, "555" best
	Tags     []string     `json:"tags" db:"tags"`
	Vertical Vertical     `json:"vertical" db:"vertical"`
	Type     CampaignType `json:"campaign_type" db:"campaign_type"`
}

var rfmTierPattern = regexp.MustCompile(`^[1-5]{3}$`)

// Validate checks business-rule constraints at the boundary. The planning
// engine assumes segments have already passed this check.
func (s Segment) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("%w: segment id is required", ErrInvalidInput)
	}
	if s.Size < 0 {
		return fmt.Errorf("%w: segment %s has negative size %d", ErrInvalidInput, s.ID, s.Size)
	}
	if s.CTR < 0 || s.CTR > 1 {
		return fmt.Errorf("%w: segment %s CTR %.4f outside [0,1]", ErrInvalidInput, s.ID, s.CTR)
	}
	if s.ERPM < 0 {
		return fmt.Errorf("%w: segment %s has negative eRPM %.2f", ErrInvalidInput, s.ID, s.ERPM)
	}
	if s.RFMTier != "" && !rfmTierPattern.MatchString(s.RFMTier) {
		return fmt.Errorf("%w: segment %s RFM tier %q is not three digits 1-5", ErrInvalidInput, s.ID, s.RFMTier)
	}
	return nil
}

// EstimatedRevenue is the resolved revenue estimate for sending this segment
// once: size x CTR x eRPM.
func (s Segment) EstimatedRevenue() float64 {
	return float64(s.Size) * s.CTR * s.ERPM
}
