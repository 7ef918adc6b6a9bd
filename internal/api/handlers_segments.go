package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ignite/campaign-planner/internal/domain"
	"github.com/ignite/campaign-planner/internal/pkg/httputil"
)

func (s *Server) handleSegments(w http.ResponseWriter, r *http.Request) {
	segs, err := s.catalog.List(r.Context())
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	if segs == nil {
		segs = []domain.Segment{}
	}
	httputil.OK(w, map[string]any{"segments": segs})
}

func (s *Server) handleSegment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	seg, err := s.catalog.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			httputil.NotFound(w, err.Error())
			return
		}
		httputil.InternalError(w, err)
		return
	}
	httputil.OK(w, seg)
}
