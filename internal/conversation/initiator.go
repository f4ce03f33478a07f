// Package conversation starts chats with peers.
//
// Starting a chat is idempotent: a backend "conversation already exists"
// answer is treated as success, and concurrent starts for the same peer
// share one backend call. The shared call is detached from the caller that
// started it, so one cancelled caller does not fail the others.
package conversation

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/tOgg1/uplink/internal/backend"
	"github.com/tOgg1/uplink/internal/events"
	"github.com/tOgg1/uplink/internal/logging"
	"github.com/tOgg1/uplink/internal/models"
	"github.com/tOgg1/uplink/internal/state"
)

// Dispatcher applies actions to the shared application state.
type Dispatcher interface {
	Dispatch(action state.Action)
}

// ChatOpener is notified after a conversation becomes active, typically to
// navigate to the chat view.
type ChatOpener func(handle models.ConversationHandle)

// Initiator turns a "chat" action on a peer into an active conversation.
type Initiator struct {
	messaging  backend.Messaging
	dispatcher Dispatcher
	publisher  events.Publisher
	onChat     ChatOpener
	logger     zerolog.Logger
	timeout    time.Duration

	group singleflight.Group
}

// Option configures an Initiator.
type Option func(*Initiator)

// WithChatOpener sets the navigation callback.
func WithChatOpener(fn ChatOpener) Option {
	return func(i *Initiator) {
		i.onChat = fn
	}
}

// WithPublisher publishes conversation.started events.
func WithPublisher(p events.Publisher) Option {
	return func(i *Initiator) {
		i.publisher = p
	}
}

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(i *Initiator) {
		i.logger = logger
	}
}

// WithTimeout bounds the shared backend call. Zero leaves it unbounded.
func WithTimeout(d time.Duration) Option {
	return func(i *Initiator) {
		i.timeout = d
	}
}

// NewInitiator creates an Initiator.
func NewInitiator(messaging backend.Messaging, dispatcher Dispatcher, opts ...Option) *Initiator {
	i := &Initiator{
		messaging:  messaging,
		dispatcher: dispatcher,
		logger:     logging.Component("conversation"),
		timeout:    defaultTimeout,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

const defaultTimeout = 30 * time.Second

type outcome struct {
	handle  models.ConversationHandle
	existed bool
}

// Start creates or reuses the conversation with peer, makes it active and
// opens the chat. It returns false, leaving state untouched, when the
// backend fails for any reason other than the conversation existing, or
// when ctx ends first. A caller that gives up does not cancel the shared
// backend call other callers are waiting on.
func (i *Initiator) Start(ctx context.Context, peer models.PeerID) (models.ConversationHandle, bool) {
	logger := logging.WithPeer(i.logger, peer.String())
	if err := peer.Validate(); err != nil {
		logger.Error().Err(err).Msg("failed to chat with friend")
		return "", false
	}

	ch := i.group.DoChan(peer.String(), func() (interface{}, error) {
		shared, cancel := i.sharedContext(ctx)
		defer cancel()
		return i.create(shared, logger, peer)
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		logger.Warn().Err(ctx.Err()).Msg("gave up waiting for conversation start")
		return "", false
	case res = <-ch:
	}
	if res.Err != nil {
		return "", false
	}
	out := res.Val.(outcome)
	if res.Shared {
		logger.Debug().Str("conversation", out.handle.String()).Msg("joined in-flight conversation start")
	}

	if i.onChat != nil {
		i.onChat(out.handle)
	}
	return out.handle, true
}

// sharedContext keeps ctx's values but not its cancellation.
func (i *Initiator) sharedContext(ctx context.Context) (context.Context, context.CancelFunc) {
	detached := context.WithoutCancel(ctx)
	if i.timeout <= 0 {
		return detached, func() {}
	}
	return context.WithTimeout(detached, i.timeout)
}

func (i *Initiator) create(ctx context.Context, logger zerolog.Logger, peer models.PeerID) (outcome, error) {
	handle, err := i.messaging.CreateConversation(ctx, peer)
	existed := false
	if err != nil {
		existing, ok := models.ExistingConversation(err)
		if !ok {
			logger.Error().Err(err).Msg("failed to chat with friend")
			return outcome{}, err
		}
		logger.Debug().Str("conversation", existing.String()).Msg("conversation already exists")
		handle, existed = existing, true
	}
	if handle.IsZero() {
		logger.Error().Err(models.ErrEmptyHandle).Msg("failed to chat with friend")
		return outcome{}, models.ErrEmptyHandle
	}

	i.dispatcher.Dispatch(state.ChatWith{Handle: handle})

	if i.publisher != nil {
		i.publisher.Publish(ctx, events.NewEvent(
			models.EventTypeConversationStarted,
			models.EntityTypeConversation,
			handle.String(),
			models.ConversationStartedPayload{Peer: peer, Handle: handle, Existed: existed},
		))
	}
	return outcome{handle: handle, existed: existed}, nil
}
