package compose

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tOgg1/uplink/internal/models"
)

type replyRecorder struct {
	replies []string
	typing  []models.TypingSignal
}

func (r *replyRecorder) reply(text string) { r.replies = append(r.replies, text) }
func (r *replyRecorder) signal(sig models.TypingSignal) { r.typing = append(r.typing, sig) }
func (r *replyRecorder) composer() *Composer { return NewComposer(r.reply, r.signal) }

func TestComposerRoundTrip(t *testing.T) {
	rec := &replyRecorder{}
	c := rec.composer()

	c.OnInput("hi")
	require.Equal(t, "hi", c.Draft())
	c.OnSendPressed()

	require.Equal(t, []string{"hi"}, rec.replies)
	require.Empty(t, c.Draft())
}

func TestComposerEnterAndSendAreIdentical(t *testing.T) {
	for name, submit := range map[string]func(*Composer){
		"enter": (*Composer).OnEnter,
		"send":  (*Composer).OnSendPressed,
	} {
		t.Run(name, func(t *testing.T) {
			rec := &replyRecorder{}
			c := rec.composer()
			c.OnInput("see you")
			submit(c)
			assert.Equal(t, []string{"see you"}, rec.replies)
			assert.Empty(t, c.Draft())
		})
	}
}

func TestComposerSignalsTypingOnEveryEdit(t *testing.T) {
	rec := &replyRecorder{}
	c := rec.composer()

	c.OnInput("h")
	c.OnInput("he")
	c.OnInput("hey")

	require.Equal(t, []models.TypingSignal{models.Typing, models.Typing, models.Typing}, rec.typing)
	require.Equal(t, "hey", c.Draft())
}

func TestComposerForwardsEmptySubmit(t *testing.T) {
	rec := &replyRecorder{}
	c := rec.composer()

	c.OnEnter()

	require.Equal(t, []string{""}, rec.replies)
}

func TestComposerDismissDropsDraft(t *testing.T) {
	rec := &replyRecorder{}
	c := rec.composer()

	c.OnInput("never mind")
	c.Dismiss()

	require.Empty(t, c.Draft())
	require.Empty(t, rec.replies)
}

func TestComposerNilHandlers(t *testing.T) {
	c := NewComposer(nil, nil)
	require.NotPanics(t, func() {
		c.OnInput("x")
		c.OnEnter()
	})
	require.Empty(t, c.Draft())
}

func TestPopoutLifecycle(t *testing.T) {
	rec := &replyRecorder{}
	p := NewPopout(rec.reply, rec.signal)
	require.False(t, p.IsOpen())

	p.Open()
	require.True(t, p.IsOpen())
	p.Composer().OnInput("draft one")

	p.Close()
	require.False(t, p.IsOpen())
	require.Empty(t, p.Composer().Draft())

	p.Open()
	p.Composer().OnInput("thanks!")
	p.Composer().OnSendPressed()

	require.False(t, p.IsOpen())
	require.Equal(t, []string{"thanks!"}, rec.replies)
}

func TestPopoutOpenResetsDraft(t *testing.T) {
	p := NewPopout(nil, nil)
	p.Open()
	p.Composer().OnInput("stale")
	p.Open()
	require.Empty(t, p.Composer().Draft())
}

type typingMessaging struct {
	sent []models.TypingSignal
	err  error
}

func (m *typingMessaging) CreateConversation(context.Context, models.PeerID) (models.ConversationHandle, error) {
	return "", errors.New("not implemented")
}

func (m *typingMessaging) SendTypingIndicator(_ context.Context, _ models.ConversationHandle, signal models.TypingSignal) error {
	m.sent = append(m.sent, signal)
	return m.err
}

func TestTypingSenderForwardsAndAbsorbsErrors(t *testing.T) {
	m := &typingMessaging{err: errors.New("offline")}
	c := NewComposer(nil, TypingSender(context.Background(), m, "conv-1", zerolog.Nop()))

	require.NotPanics(t, func() { c.OnInput("a") })
	require.Equal(t, []models.TypingSignal{models.Typing}, m.sent)
}
