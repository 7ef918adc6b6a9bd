package api

import (
	"errors"
	"net/http"

	"github.com/ignite/campaign-planner/internal/calendar"
	"github.com/ignite/campaign-planner/internal/domain"
	"github.com/ignite/campaign-planner/internal/pkg/httputil"
)

func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	commands, cursor := s.board.History()
	httputil.OK(w, map[string]any{
		"calendar":      s.board.Snapshot(),
		"command_count": len(commands),
		"cursor":        cursor,
	})
}

// commandRequest is the wire shape for all calendar mutations. Kind selects
// which of the remaining fields apply.
type commandRequest struct {
	Kind       calendar.CommandKind `json:"kind"`
	SegmentID  string               `json:"segment_id,omitempty"`  // schedule
	CampaignID string               `json:"campaign_id,omitempty"` // remove/clone/duplicate
	Slot       domain.Slot          `json:"slot,omitempty"`        // schedule/remove/duplicate
	From       domain.Slot          `json:"from,omitempty"`        // clone
	To         domain.Slot          `json:"to,omitempty"`          // clone
}

func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	var req commandRequest
	if !httputil.Decode(w, r, &req) {
		return
	}

	switch req.Kind {
	case calendar.CommandSchedule:
		seg, err := s.catalog.Get(r.Context(), req.SegmentID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				httputil.NotFound(w, err.Error())
			} else {
				httputil.InternalError(w, err)
			}
			return
		}
		pc, err := s.board.Schedule(seg, req.Slot)
		if err != nil {
			s.writeBoardError(w, err)
			return
		}
		httputil.Created(w, pc)

	case calendar.CommandRemove:
		if err := s.board.Remove(req.CampaignID, req.Slot); err != nil {
			s.writeBoardError(w, err)
			return
		}
		httputil.OK(w, map[string]string{"status": "removed"})

	case calendar.CommandClone:
		pc, err := s.board.Clone(req.CampaignID, req.From, req.To)
		if err != nil {
			s.writeBoardError(w, err)
			return
		}
		httputil.Created(w, pc)

	case calendar.CommandDuplicate:
		pc, err := s.board.Duplicate(req.CampaignID, req.Slot)
		if err != nil {
			s.writeBoardError(w, err)
			return
		}
		httputil.Created(w, pc)

	default:
		httputil.BadRequest(w, "unknown command kind "+string(req.Kind))
	}
}

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	if err := s.board.Undo(); err != nil {
		httputil.Conflict(w, err.Error())
		return
	}
	httputil.OK(w, map[string]any{"calendar": s.board.Snapshot()})
}

func (s *Server) handleRedo(w http.ResponseWriter, r *http.Request) {
	if err := s.board.Redo(); err != nil {
		httputil.Conflict(w, err.Error())
		return
	}
	httputil.OK(w, map[string]any{"calendar": s.board.Snapshot()})
}

func (s *Server) writeBoardError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		httputil.BadRequest(w, err.Error())
	case errors.Is(err, calendar.ErrCampaignMissing):
		httputil.NotFound(w, err.Error())
	default:
		httputil.InternalError(w, err)
	}
}
