package friends

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tOgg1/uplink/internal/events"
	"github.com/tOgg1/uplink/internal/models"
	"github.com/tOgg1/uplink/internal/state"
)

type fakeAccount struct {
	removed []models.PeerID
	err     error
}

func (f *fakeAccount) RemoveFriend(_ context.Context, peer models.PeerID) error {
	if f.err != nil {
		return f.err
	}
	f.removed = append(f.removed, peer)
	return nil
}

func (f *fakeAccount) ResolveProfilePicture(context.Context, models.PeerID) string { return "" }

func TestRemoveFriendCallsBackendAndPublishes(t *testing.T) {
	account := &fakeAccount{}
	bus := events.NewBus()
	var got []string
	_, err := bus.Subscribe(events.Filter{EventTypes: []models.EventType{models.EventTypeFriendRemoved}}, func(e *models.Event) {
		got = append(got, e.EntityID)
	})
	require.NoError(t, err)

	NewRemover(account, WithPublisher(bus)).RemoveFriend(context.Background(), "did:key:bob")

	require.Equal(t, []models.PeerID{"did:key:bob"}, account.removed)
	require.Equal(t, []string{"did:key:bob"}, got)
}

func TestRemoveFriendFailureIsAbsorbed(t *testing.T) {
	account := &fakeAccount{err: errors.New("backend unavailable")}
	bus := events.NewBus()
	published := 0
	_, err := bus.Subscribe(events.Filter{}, func(*models.Event) { published++ })
	require.NoError(t, err)

	store := state.NewStore(state.Default(), state.WithPublisher(bus))
	store.Dispatch(state.ChatWith{Handle: "conv-bob"})
	before := store.Snapshot()
	published = 0

	require.NotPanics(t, func() {
		NewRemover(account, WithPublisher(bus)).RemoveFriend(context.Background(), "did:key:bob")
	})
	require.Equal(t, before, store.Snapshot())
	require.Zero(t, published)
}

func TestRemoveFriendLeavesActiveConversation(t *testing.T) {
	store := state.NewStore(state.Default())
	store.Dispatch(state.ChatWith{Handle: "conv-bob"})
	before := store.Snapshot()

	NewRemover(&fakeAccount{}).RemoveFriend(context.Background(), "did:key:bob")

	require.Equal(t, before, store.Snapshot())
}
