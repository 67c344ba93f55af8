package session

import (
	"context"

	"github.com/angelmondragon/propertyhub/pkg/enums"
)

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Severity enums.Severity `json:"severity"`
	Message  string         `json:"message"`
}

// Data is the persisted portion of a browser session.
type Data struct {
	UserID  uint    `json:"user_id,omitempty"`
	Flashes []Flash `json:"flashes,omitempty"`
}

// State is the per-request view of a session. Mutations mark it dirty so the
// middleware knows to persist it before the response is written.
type State struct {
	ID    string
	Data  Data
	isNew bool
	dirty bool
}

func (s *State) UserID() uint {
	if s == nil {
		return 0
	}
	return s.Data.UserID
}

func (s *State) Authenticated() bool {
	return s.UserID() != 0
}

// AddFlash queues a message for the next render.
func (s *State) AddFlash(severity enums.Severity, message string) {
	if s == nil || message == "" {
		return
	}
	if !severity.IsValid() {
		severity = enums.SeverityInfo
	}
	s.Data.Flashes = append(s.Data.Flashes, Flash{Severity: severity, Message: message})
	s.dirty = true
}

// DrainFlashes returns pending flashes in insertion order and clears them.
func (s *State) DrainFlashes() []Flash {
	if s == nil || len(s.Data.Flashes) == 0 {
		return []Flash{}
	}
	out := s.Data.Flashes
	s.Data.Flashes = nil
	s.dirty = true
	return out
}

// Bind associates the session with an authenticated user.
func (s *State) Bind(userID uint) {
	s.Data.UserID = userID
	s.dirty = true
}

// Clear drops the authenticated identity while keeping queued flashes.
func (s *State) Clear() {
	s.Data.UserID = 0
	s.dirty = true
}

// Dirty reports whether the state has unsaved changes.
func (s *State) Dirty() bool {
	return s != nil && s.dirty
}

func (s *State) empty() bool {
	return s.Data.UserID == 0 && len(s.Data.Flashes) == 0
}

type ctxKey struct{}

// WithState stores the session state on the context.
func WithState(ctx context.Context, st *State) context.Context {
	return context.WithValue(ctx, ctxKey{}, st)
}

// FromContext returns the session state bound to the request, if any.
func FromContext(ctx context.Context) (*State, bool) {
	if ctx == nil {
		return nil, false
	}
	st, ok := ctx.Value(ctxKey{}).(*State)
	return st, ok && st != nil
}
