package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/campaign-planner/internal/cache"
	"github.com/ignite/campaign-planner/internal/calendar"
	"github.com/ignite/campaign-planner/internal/config"
	"github.com/ignite/campaign-planner/internal/domain"
	"github.com/ignite/campaign-planner/internal/history"
	"github.com/ignite/campaign-planner/internal/planner"
	"github.com/ignite/campaign-planner/internal/segments"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	return NewServer(
		config.ServerConfig{AllowedOrigins: []string{"http://localhost:5173"}},
		config.PlannerConfig{FrequencyCap: 2},
		planner.NewRecommender(history.Builtin()),
		calendar.NewBoard(),
		segments.Seeded(),
		cache.New(nil, 0),
	)
}

func newCachedTestServer(t *testing.T) *Server {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewServer(
		config.ServerConfig{AllowedOrigins: []string{"http://localhost:5173"}},
		config.PlannerConfig{FrequencyCap: 2},
		planner.NewRecommender(history.Builtin()),
		calendar.NewBoard(),
		segments.Seeded(),
		cache.New(client, time.Minute),
	)
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(w.Body).Decode(out))
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	w := doJSON(t, srv.Handler(), http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestRecommendationsByCatalogID(t *testing.T) {
	srv := newTestServer(t)

	body := map[string]any{
		"segment_id": "seg-vip-card",
		"goal":       map[string]string{"type": "revenue"},
		"candidate_slots": []domain.Slot{
			{Date: "2026-09-07", TimeLabel: "09:00"},
			{Date: "2026-09-07", TimeLabel: "18:00"},
			{Date: "2026-09-07", TimeLabel: "12:00"},
			{Date: "2026-09-07", TimeLabel: "20:00"},
		},
	}
	w := doJSON(t, srv.Handler(), http.MethodPost, "/api/planner/recommendations", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp recommendationResponse
	decodeBody(t, w, &resp)
	require.Len(t, resp.Recommendations, 3)
	assert.Equal(t, "18:00", resp.Recommendations[0].Slot.TimeLabel)
	for i := 1; i < len(resp.Recommendations); i++ {
		assert.GreaterOrEqual(t,
			resp.Recommendations[i-1].Score, resp.Recommendations[i].Score)
	}
	assert.False(t, resp.Cached)
}

func TestRecommendationsCacheMissWithNilRedis(t *testing.T) {
	srv := newTestServer(t)

	body := map[string]any{
		"segment_id":      "seg-vip-card",
		"goal":            map[string]string{"type": "balanced"},
		"candidate_slots": []domain.Slot{{Date: "2026-09-07", TimeLabel: "09:00"}},
	}
	for i := 0; i < 2; i++ {
		w := doJSON(t, srv.Handler(), http.MethodPost, "/api/planner/recommendations", body)
		require.Equal(t, http.StatusOK, w.Code)
		var resp recommendationResponse
		decodeBody(t, w, &resp)
		assert.False(t, resp.Cached, "no-op cache never reports a hit")
	}
}

func TestRecommendationsCacheHit(t *testing.T) {
	srv := newCachedTestServer(t)

	body := map[string]any{
		"segment_id":      "seg-vip-card",
		"goal":            map[string]string{"type": "revenue"},
		"candidate_slots": []domain.Slot{{Date: "2026-09-07", TimeLabel: "18:00"}},
	}

	w := doJSON(t, srv.Handler(), http.MethodPost, "/api/planner/recommendations", body)
	require.Equal(t, http.StatusOK, w.Code)
	var first recommendationResponse
	decodeBody(t, w, &first)
	assert.False(t, first.Cached)

	w = doJSON(t, srv.Handler(), http.MethodPost, "/api/planner/recommendations", body)
	require.Equal(t, http.StatusOK, w.Code)
	var second recommendationResponse
	decodeBody(t, w, &second)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Recommendations, second.Recommendations)
}

func TestRecommendationsCacheKeyedByFullSegment(t *testing.T) {
	// Inline segments sharing an ID but differing in attributes must never
	// be served each other's cached results.
	srv := newCachedTestServer(t)

	request := func(size int) map[string]any {
		return map[string]any{
			"segment": domain.Segment{
				ID: "seg-inline", Name: "Inline", Size: size, CTR: 0.05, ERPM: 0.3,
				Vertical: domain.VerticalCard, Type: domain.CampaignNewsletter,
			},
			"goal":            map[string]string{"type": "revenue"},
			"candidate_slots": []domain.Slot{{Date: "2026-09-07", TimeLabel: "18:00"}},
		}
	}

	w := doJSON(t, srv.Handler(), http.MethodPost, "/api/planner/recommendations", request(50000))
	require.Equal(t, http.StatusOK, w.Code)
	var first recommendationResponse
	decodeBody(t, w, &first)
	require.Len(t, first.Recommendations, 1)
	assert.InDelta(t, 50000*0.052, first.Recommendations[0].EstimatedClicks, 1e-6)

	w = doJSON(t, srv.Handler(), http.MethodPost, "/api/planner/recommendations", request(100000))
	require.Equal(t, http.StatusOK, w.Code)
	var second recommendationResponse
	decodeBody(t, w, &second)
	require.Len(t, second.Recommendations, 1)
	assert.False(t, second.Cached, "different segment attributes must miss the cache")
	assert.InDelta(t, 100000*0.052, second.Recommendations[0].EstimatedClicks, 1e-6)
}

func TestRecommendationsInlineSegmentWins(t *testing.T) {
	srv := newTestServer(t)

	body := map[string]any{
		"segment_id": "seg-dormant",
		"segment": domain.Segment{
			ID: "seg-inline", Name: "Inline", Size: 50000, CTR: 0.05, ERPM: 0.3,
			Vertical: domain.VerticalCard, Type: domain.CampaignNewsletter,
		},
		"goal":            map[string]string{"type": "revenue"},
		"candidate_slots": []domain.Slot{{Date: "2026-09-07", TimeLabel: "18:00"}},
	}
	w := doJSON(t, srv.Handler(), http.MethodPost, "/api/planner/recommendations", body)
	require.Equal(t, http.StatusOK, w.Code)

	var resp recommendationResponse
	decodeBody(t, w, &resp)
	require.Len(t, resp.Recommendations, 1)
	// Inline estimates: 50000 * 0.052 clicks at 0.3 erpm.
	assert.InDelta(t, 2600.0, resp.Recommendations[0].EstimatedClicks, 1e-6)
}

func TestRecommendationsBadRequests(t *testing.T) {
	srv := newTestServer(t)
	h := srv.Handler()

	t.Run("malformed json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/planner/recommendations",
			bytes.NewBufferString("{not json"))
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing segment", func(t *testing.T) {
		w := doJSON(t, h, http.MethodPost, "/api/planner/recommendations", map[string]any{
			"goal": map[string]string{"type": "revenue"},
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown segment id", func(t *testing.T) {
		w := doJSON(t, h, http.MethodPost, "/api/planner/recommendations", map[string]any{
			"segment_id":      "seg-nope",
			"goal":            map[string]string{"type": "revenue"},
			"candidate_slots": []domain.Slot{{Date: "2026-09-07", TimeLabel: "09:00"}},
		})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("bad goal", func(t *testing.T) {
		w := doJSON(t, h, http.MethodPost, "/api/planner/recommendations", map[string]any{
			"segment_id":      "seg-vip-card",
			"goal":            map[string]string{"type": "growth"},
			"candidate_slots": []domain.Slot{{Date: "2026-09-07", TimeLabel: "09:00"}},
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestConflictsEndpoint(t *testing.T) {
	srv := newTestServer(t)
	h := srv.Handler()

	// Occupy a slot with the VIP card segment, then probe with prospects.
	schedule := map[string]any{
		"kind":       "schedule",
		"segment_id": "seg-vip-card",
		"slot":       domain.Slot{Date: "2026-09-07", TimeLabel: "18:00"},
	}
	w := doJSON(t, h, http.MethodPost, "/api/calendar/commands", schedule)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(t, h, http.MethodPost, "/api/planner/conflicts", map[string]any{
		"segment_id": "seg-card-prospects",
		"slot":       domain.Slot{Date: "2026-09-07", TimeLabel: "18:00"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Conflicts []domain.ConflictRisk `json:"conflicts"`
	}
	decodeBody(t, w, &resp)
	require.Len(t, resp.Conflicts, 1)
	assert.Equal(t, domain.ConflictAudienceOverlap, resp.Conflicts[0].Kind)

	// Empty slot on a different day has no risks but still returns an array.
	w = doJSON(t, h, http.MethodPost, "/api/planner/conflicts", map[string]any{
		"segment_id": "seg-card-prospects",
		"slot":       domain.Slot{Date: "2026-09-08", TimeLabel: "09:00"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &resp)
	assert.NotNil(t, resp.Conflicts)
	assert.Empty(t, resp.Conflicts)
}

func TestFrequencyViolationsEndpoint(t *testing.T) {
	srv := newTestServer(t)
	h := srv.Handler()

	slot := domain.Slot{Date: "2026-09-07", TimeLabel: "12:00"}
	for _, id := range []string{"seg-vip-card", "seg-loan-active", "seg-dormant"} {
		w := doJSON(t, h, http.MethodPost, "/api/calendar/commands", map[string]any{
			"kind": "schedule", "segment_id": id, "slot": slot,
		})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := doJSON(t, h, http.MethodGet, "/api/planner/frequency-violations", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Cap        int      `json:"cap"`
		Violations []string `json:"violations"`
	}
	decodeBody(t, w, &resp)
	assert.Equal(t, 2, resp.Cap)
	assert.Equal(t, []string{"2026-09-07 12:00: 3/2 campaigns"}, resp.Violations)

	// Raising the cap clears the violation.
	w = doJSON(t, h, http.MethodGet, "/api/planner/frequency-violations?cap=3", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &resp)
	assert.Equal(t, 3, resp.Cap)
	assert.Empty(t, resp.Violations)

	w = doJSON(t, h, http.MethodGet, "/api/planner/frequency-violations?cap=0", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMissedOpportunitiesEndpoint(t *testing.T) {
	srv := newTestServer(t)
	w := doJSON(t, srv.Handler(), http.MethodGet, "/api/planner/missed-opportunities", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var report domain.MissedOpportunityReport
	decodeBody(t, w, &report)
	// Empty calendar: every seeded segment is unscheduled.
	assert.Len(t, report.Opportunities, 5)
	assert.Greater(t, report.TotalMissedRevenue, 0.0)
}

func TestCalendarCommandLifecycle(t *testing.T) {
	srv := newTestServer(t)
	h := srv.Handler()

	slot := domain.Slot{Date: "2026-09-07", TimeLabel: "09:00"}
	w := doJSON(t, h, http.MethodPost, "/api/calendar/commands", map[string]any{
		"kind": "schedule", "segment_id": "seg-loan-active", "slot": slot,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var pc domain.PlannedCampaign
	decodeBody(t, w, &pc)
	assert.NotEmpty(t, pc.ID)
	assert.Equal(t, "seg-loan-active", pc.Segment.ID)

	// Duplicate within the campaign's own slot, then undo twice and redo once.
	w = doJSON(t, h, http.MethodPost, "/api/calendar/commands", map[string]any{
		"kind": "duplicate", "campaign_id": pc.ID, "slot": slot,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var state struct {
		Calendar     domain.Calendar `json:"calendar"`
		CommandCount int             `json:"command_count"`
		Cursor       int             `json:"cursor"`
	}
	w = doJSON(t, h, http.MethodGet, "/api/calendar/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &state)
	assert.Equal(t, 2, state.CommandCount)
	assert.Equal(t, 2, state.Cursor)
	assert.Len(t, state.Calendar.At(slot), 2)

	w = doJSON(t, h, http.MethodPost, "/api/calendar/undo", nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, h, http.MethodPost, "/api/calendar/undo", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var after struct {
		Calendar domain.Calendar `json:"calendar"`
	}
	decodeBody(t, w, &after)
	assert.Empty(t, after.Calendar.At(slot))

	// Third undo has nothing left.
	w = doJSON(t, h, http.MethodPost, "/api/calendar/undo", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, h, http.MethodPost, "/api/calendar/redo", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &after)
	assert.Len(t, after.Calendar.At(slot), 1)
}

func TestCalendarCommandErrors(t *testing.T) {
	srv := newTestServer(t)
	h := srv.Handler()

	t.Run("unknown kind", func(t *testing.T) {
		w := doJSON(t, h, http.MethodPost, "/api/calendar/commands", map[string]any{
			"kind": "archive",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("schedule unknown segment", func(t *testing.T) {
		w := doJSON(t, h, http.MethodPost, "/api/calendar/commands", map[string]any{
			"kind": "schedule", "segment_id": "seg-nope",
			"slot": domain.Slot{Date: "2026-09-07", TimeLabel: "09:00"},
		})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("schedule bad slot", func(t *testing.T) {
		w := doJSON(t, h, http.MethodPost, "/api/calendar/commands", map[string]any{
			"kind": "schedule", "segment_id": "seg-vip-card",
			"slot": domain.Slot{Date: "07/09/2026", TimeLabel: "09:00"},
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("remove missing campaign", func(t *testing.T) {
		w := doJSON(t, h, http.MethodPost, "/api/calendar/commands", map[string]any{
			"kind": "remove", "campaign_id": "nope",
			"slot": domain.Slot{Date: "2026-09-07", TimeLabel: "09:00"},
		})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestSegmentEndpoints(t *testing.T) {
	srv := newTestServer(t)
	h := srv.Handler()

	w := doJSON(t, h, http.MethodGet, "/api/segments", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Segments []domain.Segment `json:"segments"`
	}
	decodeBody(t, w, &list)
	assert.Len(t, list.Segments, 5)

	w = doJSON(t, h, http.MethodGet, "/api/segments/seg-vip-card", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var seg domain.Segment
	decodeBody(t, w, &seg)
	assert.Equal(t, "VIP Cardholders", seg.Name)

	w = doJSON(t, h, http.MethodGet, "/api/segments/seg-nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
