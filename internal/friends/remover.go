// Package friends handles friend-list actions triggered from the sidebar.
package friends

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/tOgg1/uplink/internal/backend"
	"github.com/tOgg1/uplink/internal/events"
	"github.com/tOgg1/uplink/internal/logging"
	"github.com/tOgg1/uplink/internal/models"
)

// Remover removes friends through the account backend. Failures are logged
// and absorbed; the caller never sees an error.
type Remover struct {
	account   backend.Account
	publisher events.Publisher
	logger    zerolog.Logger
}

// Option configures a Remover.
type Option func(*Remover)

// WithPublisher publishes friend.removed events on success.
func WithPublisher(p events.Publisher) Option {
	return func(r *Remover) {
		r.publisher = p
	}
}

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(r *Remover) {
		r.logger = logger
	}
}

// NewRemover creates a Remover.
func NewRemover(account backend.Account, opts ...Option) *Remover {
	r := &Remover{
		account: account,
		logger:  logging.Component("friends"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RemoveFriend asks the backend to drop peer from the friend list.
// Conversations with peer are left as they are.
func (r *Remover) RemoveFriend(ctx context.Context, peer models.PeerID) {
	logger := logging.WithPeer(r.logger, peer.String())
	if err := r.account.RemoveFriend(ctx, peer); err != nil {
		logger.Warn().Err(err).Msg("error removing friend")
		return
	}

	logger.Debug().Msg("friend removed")
	if r.publisher != nil {
		r.publisher.Publish(ctx, events.NewEvent(
			models.EventTypeFriendRemoved,
			models.EntityTypePeer,
			peer.String(),
			nil,
		))
	}
}
