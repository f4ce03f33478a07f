package backend

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tOgg1/uplink/internal/events"
	"github.com/tOgg1/uplink/internal/models"
	"github.com/tOgg1/uplink/internal/testutil"
)

func newTestLocal(t *testing.T) (*Local, *events.Bus) {
	t.Helper()
	bus := events.NewBus()
	return NewLocal("did:key:me", testutil.OpenDB(t), bus), bus
}

func TestLocalCreateConversation(t *testing.T) {
	local, _ := newTestLocal(t)
	ctx := context.Background()

	_, err := local.CreateConversation(ctx, "did:key:bob")
	require.ErrorIs(t, err, models.ErrNotFriends)

	require.NoError(t, local.AddFriend(ctx, "did:key:bob", "bob", ""))
	handle, err := local.CreateConversation(ctx, "did:key:bob")
	require.NoError(t, err)
	require.False(t, handle.IsZero())

	_, err = local.CreateConversation(ctx, "did:key:bob")
	existing, ok := models.ExistingConversation(err)
	require.True(t, ok)
	require.Equal(t, handle, existing)
}

func TestLocalRejectsSelfAndInvalidPeers(t *testing.T) {
	local, _ := newTestLocal(t)
	ctx := context.Background()

	require.ErrorIs(t, local.AddFriend(ctx, "did:key:me", "me", ""), models.ErrSelfPeer)
	_, err := local.CreateConversation(ctx, "")
	require.ErrorIs(t, err, models.ErrInvalidPeer)
}

func TestLocalRemoveFriend(t *testing.T) {
	local, _ := newTestLocal(t)
	ctx := context.Background()

	require.NoError(t, local.AddFriend(ctx, "did:key:bob", "bob", "https://img.example.com/bob.png"))
	require.Equal(t, "https://img.example.com/bob.png", local.ResolveProfilePicture(ctx, "did:key:bob"))

	require.NoError(t, local.RemoveFriend(ctx, "did:key:bob"))
	require.ErrorIs(t, local.RemoveFriend(ctx, "did:key:bob"), models.ErrNotFriends)
	require.Equal(t, "", local.ResolveProfilePicture(ctx, "did:key:bob"))

	friends, err := local.Friends(ctx)
	require.NoError(t, err)
	require.Empty(t, friends)
}

func TestLocalTypingIndicatorPublishes(t *testing.T) {
	local, bus := newTestLocal(t)
	var got []*models.Event
	_, err := bus.Subscribe(events.Filter{EntityID: "conv-1"}, func(e *models.Event) { got = append(got, e) })
	require.NoError(t, err)

	require.NoError(t, local.SendTypingIndicator(context.Background(), "conv-1", models.Typing))
	require.Len(t, got, 1)
	require.Equal(t, models.EventTypeTyping, got[0].Type)
}
