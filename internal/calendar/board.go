// Package calendar owns the mutable planning board.
//
// Every mutation goes through an explicit command (schedule, remove, clone,
// duplicate) recorded in an append-only log with a cursor, which gives
// undo/redo for free and keeps the mutation history inspectable. The planner
// never touches the board directly: it works on immutable snapshots handed
// out by Snapshot.
package calendar

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ignite/campaign-planner/internal/domain"
)

// CommandKind enumerates the calendar mutations.
type CommandKind string

const (
	CommandSchedule  CommandKind = "schedule"
	CommandRemove    CommandKind = "remove"
	CommandClone     CommandKind = "clone"     // copy a campaign into another slot
	CommandDuplicate CommandKind = "duplicate" // copy a campaign within its slot
)

// Command is one applied calendar mutation. The affected campaign is captured
// in full so the command can be undone without external lookups.
type Command struct {
	ID        string                 `json:"id"`
	Kind      CommandKind            `json:"kind"`
	Campaign  domain.PlannedCampaign `json:"campaign"`
	Source    *domain.Slot           `json:"source,omitempty"` // clone origin
	AppliedAt time.Time              `json:"applied_at"`
}

// Board errors.
var (
	ErrNothingToUndo   = errors.New("nothing to undo")
	ErrNothingToRedo   = errors.New("nothing to redo")
	ErrCampaignMissing = errors.New("campaign not found in slot")
)

// Board is the mutable calendar state behind the read-only snapshots the
// planner consumes. Safe for concurrent use.
type Board struct {
	mu     sync.RWMutex
	cal    domain.Calendar
	log    []Command
	cursor int // commands [0:cursor) are applied; the rest are redoable
}

// NewBoard creates an empty planning board.
func NewBoard() *Board {
	return &Board{cal: make(domain.Calendar)}
}

// Snapshot returns a deep copy of the current calendar. Later board mutations
// never show through a snapshot.
func (b *Board) Snapshot() domain.Calendar {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.cal.Clone()
}

// History returns a copy of the command log and the current cursor position.
func (b *Board) History() ([]Command, int) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]Command, len(b.log))
	copy(out, b.log)
	return out, b.cursor
}

// Schedule places a segment into a slot, resolving its revenue estimate at
// placement time. Returns the created campaign.
func (b *Board) Schedule(segment domain.Segment, slot domain.Slot) (domain.PlannedCampaign, error) {
	if err := segment.Validate(); err != nil {
		return domain.PlannedCampaign{}, err
	}
	if err := slot.Validate(); err != nil {
		return domain.PlannedCampaign{}, err
	}

	pc := domain.PlannedCampaign{
		ID:               uuid.New().String(),
		Segment:          segment,
		Slot:             slot,
		EstimatedRevenue: segment.EstimatedRevenue(),
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.push(Command{
		ID:        uuid.New().String(),
		Kind:      CommandSchedule,
		Campaign:  pc,
		AppliedAt: time.Now().UTC(),
	})
	return pc, nil
}

// Remove deletes a campaign from a slot.
func (b *Board) Remove(campaignID string, slot domain.Slot) error {
	if err := slot.Validate(); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	pc, ok := b.find(campaignID, slot)
	if !ok {
		return fmt.Errorf("%w: %s at %s", ErrCampaignMissing, campaignID, slot)
	}
	b.push(Command{
		ID:        uuid.New().String(),
		Kind:      CommandRemove,
		Campaign:  pc,
		AppliedAt: time.Now().UTC(),
	})
	return nil
}

// Clone copies an existing campaign into another slot under a fresh ID.
func (b *Board) Clone(campaignID string, from, to domain.Slot) (domain.PlannedCampaign, error) {
	if err := from.Validate(); err != nil {
		return domain.PlannedCampaign{}, err
	}
	if err := to.Validate(); err != nil {
		return domain.PlannedCampaign{}, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	src, ok := b.find(campaignID, from)
	if !ok {
		return domain.PlannedCampaign{}, fmt.Errorf("%w: %s at %s", ErrCampaignMissing, campaignID, from)
	}

	cp := src
	cp.ID = uuid.New().String()
	cp.Slot = to
	b.push(Command{
		ID:        uuid.New().String(),
		Kind:      CommandClone,
		Campaign:  cp,
		Source:    &from,
		AppliedAt: time.Now().UTC(),
	})
	return cp, nil
}

// Duplicate copies an existing campaign within its own slot under a fresh ID.
func (b *Board) Duplicate(campaignID string, slot domain.Slot) (domain.PlannedCampaign, error) {
	if err := slot.Validate(); err != nil {
		return domain.PlannedCampaign{}, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	src, ok := b.find(campaignID, slot)
	if !ok {
		return domain.PlannedCampaign{}, fmt.Errorf("%w: %s at %s", ErrCampaignMissing, campaignID, slot)
	}

	cp := src
	cp.ID = uuid.New().String()
	b.push(Command{
		ID:        uuid.New().String(),
		Kind:      CommandDuplicate,
		Campaign:  cp,
		AppliedAt: time.Now().UTC(),
	})
	return cp, nil
}

// Undo reverts the most recent applied command.
func (b *Board) Undo() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.cursor == 0 {
		return ErrNothingToUndo
	}
	b.cursor--
	b.revert(b.log[b.cursor])
	return nil
}

// Redo re-applies the most recently undone command.
func (b *Board) Redo() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.cursor == len(b.log) {
		return ErrNothingToRedo
	}
	b.apply(b.log[b.cursor])
	b.cursor++
	return nil
}

// push applies a new command, discarding any redoable tail first.
// Callers must hold the write lock.
func (b *Board) push(cmd Command) {
	b.log = b.log[:b.cursor]
	b.log = append(b.log, cmd)
	b.apply(cmd)
	b.cursor++
}

func (b *Board) apply(cmd Command) {
	switch cmd.Kind {
	case CommandSchedule, CommandClone, CommandDuplicate:
		b.insert(cmd.Campaign)
	case CommandRemove:
		b.delete(cmd.Campaign.ID, cmd.Campaign.Slot)
	}
}

func (b *Board) revert(cmd Command) {
	switch cmd.Kind {
	case CommandSchedule, CommandClone, CommandDuplicate:
		b.delete(cmd.Campaign.ID, cmd.Campaign.Slot)
	case CommandRemove:
		b.insert(cmd.Campaign)
	}
}

func (b *Board) insert(pc domain.PlannedCampaign) {
	byLabel, ok := b.cal[pc.Slot.Date]
	if !ok {
		byLabel = make(map[string][]domain.PlannedCampaign)
		b.cal[pc.Slot.Date] = byLabel
	}
	byLabel[pc.Slot.TimeLabel] = append(byLabel[pc.Slot.TimeLabel], pc)
}

func (b *Board) delete(campaignID string, slot domain.Slot) {
	campaigns := b.cal[slot.Date][slot.TimeLabel]
	for i, pc := range campaigns {
		if pc.ID == campaignID {
			b.cal[slot.Date][slot.TimeLabel] = append(campaigns[:i:i], campaigns[i+1:]...)
			break
		}
	}
	if len(b.cal[slot.Date][slot.TimeLabel]) == 0 {
		delete(b.cal[slot.Date], slot.TimeLabel)
		if len(b.cal[slot.Date]) == 0 {
			delete(b.cal, slot.Date)
		}
	}
}

func (b *Board) find(campaignID string, slot domain.Slot) (domain.PlannedCampaign, bool) {
	for _, pc := range b.cal.At(slot) {
		if pc.ID == campaignID {
			return pc, true
		}
	}
	return domain.PlannedCampaign{}, false
}
