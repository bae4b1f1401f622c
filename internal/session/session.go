// Package session holds the per-client editing state of a board: what is
// selected, where the viewport is, and the undo history. A Session is
// created per connection and passed explicitly to the operations that need
// it.
package session

import (
	"canvas-studio-backend/internal/models"
	"sync"

	"github.com/google/uuid"
)

const DefaultHistoryLimit = 100

// Viewport is the visible region of the board: the board point at the
// top-left of the screen and the zoom factor.
type Viewport struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Scale float64 `json:"scale"`
}

// Change is the before and after state of one object. A nil Before means
// the object was created, a nil After that it was deleted.
type Change struct {
	ID     string              `json:"id"`
	Before *models.BoardObject `json:"before,omitempty"`
	After  *models.BoardObject `json:"after,omitempty"`
}

// Entry is one undoable user action.
type Entry struct {
	Label   string   `json:"label"`
	Changes []Change `json:"changes"`
}

// Inverse returns the entry that reverts e.
func (e Entry) Inverse() Entry {
	inv := Entry{Label: e.Label, Changes: make([]Change, len(e.Changes))}
	for i, c := range e.Changes {
		inv.Changes[len(e.Changes)-1-i] = Change{ID: c.ID, Before: c.After, After: c.Before}
	}
	return inv
}

type Session struct {
	ID      string
	BoardID uuid.UUID

	mu        sync.Mutex
	selection []string
	viewport  Viewport
	undoStack []Entry
	redoStack []Entry
	limit     int
}

func New(boardID uuid.UUID) *Session {
	return &Session{
		ID:       uuid.NewString(),
		BoardID:  boardID,
		viewport: Viewport{Scale: 1},
		limit:    DefaultHistoryLimit,
	}
}

// Select replaces the selection.
func (s *Session) Select(ids []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection = append([]string(nil), ids...)
}

func (s *Session) Selection() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.selection...)
}

// Forget drops deleted ids from the selection.
func (s *Session) Forget(ids ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	gone := make(map[string]bool, len(ids))
	for _, id := range ids {
		gone[id] = true
	}
	kept := s.selection[:0]
	for _, id := range s.selection {
		if !gone[id] {
			kept = append(kept, id)
		}
	}
	s.selection = kept
}

func (s *Session) SetViewport(v Viewport) {
	if v.Scale <= 0 {
		v.Scale = 1
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewport = v
}

func (s *Session) Viewport() Viewport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewport
}

// Record pushes e onto the undo stack and clears the redo stack. Entries
// without changes are ignored.
func (s *Session) Record(e Entry) {
	if s == nil || len(e.Changes) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.undoStack = append(s.undoStack, e)
	if len(s.undoStack) > s.limit {
		s.undoStack = s.undoStack[len(s.undoStack)-s.limit:]
	}
	s.redoStack = nil
}

// Undo pops the latest entry and returns the entry that reverts it.
func (s *Session) Undo() (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.undoStack) == 0 {
		return Entry{}, false
	}
	last := len(s.undoStack) - 1
	e := s.undoStack[last]
	s.undoStack = s.undoStack[:last]
	s.redoStack = append(s.redoStack, e)
	return e.Inverse(), true
}

// Redo pops the latest undone entry and returns it for reapplication.
func (s *Session) Redo() (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.redoStack) == 0 {
		return Entry{}, false
	}
	last := len(s.redoStack) - 1
	e := s.redoStack[last]
	s.redoStack = s.redoStack[:last]
	s.undoStack = append(s.undoStack, e)
	return e, true
}

// CanUndo and CanRedo report whether the stacks are non-empty.
func (s *Session) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.undoStack) > 0
}

func (s *Session) CanRedo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.redoStack) > 0
}
