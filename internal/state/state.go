// Package state holds the process-wide application state shared by the chat
// components. It is read concurrently and changed only through Dispatch.
package state

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/tOgg1/uplink/internal/events"
	"github.com/tOgg1/uplink/internal/logging"
	"github.com/tOgg1/uplink/internal/models"
)

// AppState is an immutable snapshot of the shared state.
type AppState struct {
	ActiveConversation models.ConversationHandle `json:"active_conversation,omitempty"`
	SidebarHidden      bool                      `json:"sidebar_hidden"`
	Language           models.Language           `json:"language"`

	// Revision counts applied actions since process start.
	Revision uint64 `json:"-"`
}

// Default returns the startup state.
func Default() AppState {
	return AppState{Language: models.DefaultLanguage}
}

// HasActiveConversation reports whether a chat is selected.
func (s AppState) HasActiveConversation() bool {
	return !s.ActiveConversation.IsZero()
}

// Saver receives snapshots after every applied action.
type Saver interface {
	Save(AppState)
}

// Store owns the shared state.
type Store struct {
	mu    sync.RWMutex
	state AppState

	// emitMu serializes apply and emit so saves and events follow revision
	// order. Subscribers must not Dispatch synchronously from a state.changed
	// handler.
	emitMu sync.Mutex

	publisher events.Publisher
	saver     Saver
	logger    zerolog.Logger
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithPublisher publishes a state.changed event after each action.
func WithPublisher(p events.Publisher) StoreOption {
	return func(s *Store) {
		s.publisher = p
	}
}

// WithSaver persists snapshots after each action.
func WithSaver(saver Saver) StoreOption {
	return func(s *Store) {
		s.saver = saver
	}
}

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) StoreOption {
	return func(s *Store) {
		s.logger = logger
	}
}

// NewStore creates a Store seeded with initial.
func NewStore(initial AppState, opts ...StoreOption) *Store {
	if initial.Language == "" {
		initial.Language = models.DefaultLanguage
	}
	initial.Revision = 0
	s := &Store{
		state:  initial,
		logger: logging.Component("state"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns the current state.
func (s *Store) Snapshot() AppState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Dispatch applies action atomically. Actions are total, so Dispatch
// cannot fail; a nil action is ignored. Concurrent dispatches reach the
// saver and publisher in the order they were applied.
func (s *Store) Dispatch(action Action) {
	if action == nil {
		return
	}

	s.emitMu.Lock()
	defer s.emitMu.Unlock()

	s.mu.Lock()
	next := action.apply(s.state)
	next.Revision = s.state.Revision + 1
	s.state = next
	s.mu.Unlock()

	s.logger.Debug().
		Str("action", action.Name()).
		Str("active_conversation", next.ActiveConversation.String()).
		Bool("sidebar_hidden", next.SidebarHidden).
		Str("language", next.Language.String()).
		Uint64("revision", next.Revision).
		Msg("state updated")

	if s.saver != nil {
		s.saver.Save(next)
	}
	if s.publisher != nil {
		s.publisher.Publish(context.Background(), events.NewEvent(
			models.EventTypeStateChanged,
			models.EntityTypeApp,
			"app",
			models.StateChangedPayload{
				Action:             action.Name(),
				ActiveConversation: next.ActiveConversation,
				SidebarHidden:      next.SidebarHidden,
				Language:           next.Language,
			},
		))
	}
}
