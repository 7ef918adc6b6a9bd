package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/ignite/campaign-planner/internal/cache"
	"github.com/ignite/campaign-planner/internal/domain"
	"github.com/ignite/campaign-planner/internal/pkg/httputil"
	"github.com/ignite/campaign-planner/internal/pkg/logger"
	"github.com/ignite/campaign-planner/internal/planner"
)

// recommendationRequest asks for ranked slots for a segment. The segment can
// be referenced by catalog ID or supplied inline (inline wins).
type recommendationRequest struct {
	SegmentID      string                  `json:"segment_id,omitempty"`
	Segment        *domain.Segment         `json:"segment,omitempty"`
	Goal           domain.OptimizationGoal `json:"goal"`
	CandidateSlots []domain.Slot           `json:"candidate_slots"`
}

// resolveSegment picks the inline segment or loads it from the catalog.
// Writes the error response itself and returns false on failure.
func (s *Server) resolveSegment(w http.ResponseWriter, r *http.Request, inline *domain.Segment, id string) (domain.Segment, bool) {
	if inline != nil {
		return *inline, true
	}
	if id == "" {
		httputil.BadRequest(w, "segment or segment_id is required")
		return domain.Segment{}, false
	}
	seg, err := s.catalog.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			httputil.NotFound(w, err.Error())
		} else {
			httputil.InternalError(w, err)
		}
		return domain.Segment{}, false
	}
	return seg, true
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	var req recommendationRequest
	if !httputil.Decode(w, r, &req) {
		return
	}

	seg, ok := s.resolveSegment(w, r, req.Segment, req.SegmentID)
	if !ok {
		return
	}

	snapshot := s.board.Snapshot()

	key := cache.Key(seg, req.Goal, snapshot, req.CandidateSlots)
	if recs, hit := s.recCache.Get(r.Context(), key); hit {
		httputil.OK(w, recommendationResponse{Recommendations: recs, Cached: true})
		return
	}

	recs, err := s.rec.RecommendBestSlots(seg, req.Goal, snapshot, req.CandidateSlots)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			httputil.BadRequest(w, err.Error())
			return
		}
		httputil.InternalError(w, err)
		return
	}

	s.recCache.Set(r.Context(), key, recs)
	logger.Debug("recommendations computed",
		"segment", seg.ID, "goal", string(req.Goal.Type), "candidates", len(req.CandidateSlots))
	httputil.OK(w, recommendationResponse{Recommendations: recs})
}

type recommendationResponse struct {
	Recommendations []domain.SlotRecommendation `json:"recommendations"`
	Cached          bool                        `json:"cached,omitempty"`
}

// conflictRequest asks for the risks of placing a segment into one slot.
type conflictRequest struct {
	SegmentID string          `json:"segment_id,omitempty"`
	Segment   *domain.Segment `json:"segment,omitempty"`
	Slot      domain.Slot     `json:"slot"`
}

func (s *Server) handleConflicts(w http.ResponseWriter, r *http.Request) {
	var req conflictRequest
	if !httputil.Decode(w, r, &req) {
		return
	}

	seg, ok := s.resolveSegment(w, r, req.Segment, req.SegmentID)
	if !ok {
		return
	}
	if err := seg.Validate(); err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}
	if err := req.Slot.Validate(); err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}

	conflicts := s.rec.Detector().DetectConflicts(seg, req.Slot, s.board.Snapshot())
	if conflicts == nil {
		conflicts = []domain.ConflictRisk{}
	}
	httputil.OK(w, map[string]any{"conflicts": conflicts})
}

func (s *Server) handleMissedOpportunities(w http.ResponseWriter, r *http.Request) {
	segs, err := s.catalog.List(r.Context())
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	report := s.rec.CalculateMissedOpportunities(s.board.Snapshot(), segs)
	if report.Opportunities == nil {
		report.Opportunities = []domain.MissedOpportunity{}
	}
	httputil.OK(w, report)
}

func (s *Server) handleFrequencyViolations(w http.ResponseWriter, r *http.Request) {
	capPerSlot := s.planner.FrequencyCap
	if v := r.URL.Query().Get("cap"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			httputil.BadRequest(w, "cap must be a positive integer")
			return
		}
		capPerSlot = n
	}

	violations := planner.CheckFrequencyViolations(s.board.Snapshot(), capPerSlot)
	if violations == nil {
		violations = []string{}
	}
	httputil.OK(w, map[string]any{"cap": capPerSlot, "violations": violations})
}
