// Package backend defines the messaging and account capabilities the chat
// interaction layer depends on, and a local SQLite-backed implementation.
package backend

import (
	"context"

	"github.com/tOgg1/uplink/internal/models"
)

// Messaging creates conversations and relays typing indicators.
type Messaging interface {
	// CreateConversation starts a conversation with peer. If one already
	// exists it returns a *models.ConversationExistsError carrying its handle.
	CreateConversation(ctx context.Context, peer models.PeerID) (models.ConversationHandle, error)

	// SendTypingIndicator relays a typing signal to a conversation.
	SendTypingIndicator(ctx context.Context, conversation models.ConversationHandle, signal models.TypingSignal) error
}

// Account manages relationships and identity metadata.
type Account interface {
	// RemoveFriend ends the friendship with peer.
	RemoveFriend(ctx context.Context, peer models.PeerID) error

	// ResolveProfilePicture returns the picture URL for identity, or "".
	ResolveProfilePicture(ctx context.Context, identity models.PeerID) string
}
