package backend

import (
	"context"

	"github.com/pkg/errors"

	"github.com/tOgg1/uplink/internal/db"
	"github.com/tOgg1/uplink/internal/events"
	"github.com/tOgg1/uplink/internal/models"
)

// Local implements Messaging and Account on a local SQLite database. It is
// used by the CLI and by integration tests.
type Local struct {
	self          models.PeerID
	friends       *db.FriendRepository
	conversations *db.ConversationRepository
	publisher     events.Publisher
}

var (
	_ Messaging = (*Local)(nil)
	_ Account   = (*Local)(nil)
)

// NewLocal creates a Local backend for the identity self. publisher may be
// nil, in which case typing indicators are dropped.
func NewLocal(self models.PeerID, database *db.DB, publisher events.Publisher) *Local {
	return &Local{
		self:          self,
		friends:       db.NewFriendRepository(database),
		conversations: db.NewConversationRepository(database),
		publisher:     publisher,
	}
}

// Self returns the local identity.
func (l *Local) Self() models.PeerID { return l.self }

// AddFriend records a friendship.
func (l *Local) AddFriend(ctx context.Context, peer models.PeerID, username, picture string) error {
	if err := l.checkPeer(peer); err != nil {
		return err
	}
	err := l.friends.Add(ctx, &db.Friend{Peer: peer, Username: username, Picture: picture})
	return errors.Wrapf(err, "add friend %s", peer)
}

// Friends lists current friends.
func (l *Local) Friends(ctx context.Context) ([]*db.Friend, error) {
	friends, err := l.friends.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list friends")
	}
	return friends, nil
}

// RemoveFriend deletes the friendship. Conversations are left untouched.
func (l *Local) RemoveFriend(ctx context.Context, peer models.PeerID) error {
	if err := l.checkPeer(peer); err != nil {
		return err
	}
	err := l.friends.Remove(ctx, peer)
	if errors.Is(err, db.ErrFriendNotFound) {
		return errors.Wrapf(models.ErrNotFriends, "remove friend %s", peer)
	}
	return errors.Wrapf(err, "remove friend %s", peer)
}

// ResolveProfilePicture returns the stored picture for identity.
func (l *Local) ResolveProfilePicture(ctx context.Context, identity models.PeerID) string {
	friend, err := l.friends.Get(ctx, identity)
	if err != nil {
		return ""
	}
	return friend.Picture
}

// CreateConversation returns a new conversation handle for peer, or a
// *models.ConversationExistsError when one exists.
func (l *Local) CreateConversation(ctx context.Context, peer models.PeerID) (models.ConversationHandle, error) {
	if err := l.checkPeer(peer); err != nil {
		return "", err
	}
	if _, err := l.friends.Get(ctx, peer); err != nil {
		if errors.Is(err, db.ErrFriendNotFound) {
			return "", errors.Wrapf(models.ErrNotFriends, "create conversation with %s", peer)
		}
		return "", errors.Wrapf(err, "create conversation with %s", peer)
	}

	handle, created, err := l.conversations.Create(ctx, peer)
	if err != nil {
		return "", errors.Wrapf(err, "create conversation with %s", peer)
	}
	if !created {
		return "", &models.ConversationExistsError{Handle: handle}
	}
	return handle, nil
}

// SendTypingIndicator publishes the signal on the event bus.
func (l *Local) SendTypingIndicator(ctx context.Context, conversation models.ConversationHandle, signal models.TypingSignal) error {
	if l.publisher == nil {
		return nil
	}
	l.publisher.Publish(ctx, events.NewEvent(
		models.EventTypeTyping,
		models.EntityTypeConversation,
		conversation.String(),
		models.TypingPayload{Signal: signal.String(), Conversation: conversation},
	))
	return nil
}

func (l *Local) checkPeer(peer models.PeerID) error {
	if err := peer.Validate(); err != nil {
		return errors.Wrapf(err, "peer %q", peer)
	}
	if peer == l.self {
		return errors.WithStack(models.ErrSelfPeer)
	}
	return nil
}
