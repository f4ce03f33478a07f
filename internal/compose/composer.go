// Package compose holds the reply draft for a message's popout reply panel.
package compose

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/tOgg1/uplink/internal/backend"
	"github.com/tOgg1/uplink/internal/models"
)

// ReplyHandler receives the full draft text on submit.
type ReplyHandler func(text string)

// TypingHandler receives a typing signal on every edit.
type TypingHandler func(signal models.TypingSignal)

// Composer owns a single reply draft. The zero value is not usable; use
// NewComposer.
type Composer struct {
	mu       sync.Mutex
	draft    string
	onReply  ReplyHandler
	onTyping TypingHandler
	onClose  func()
}

// NewComposer creates a Composer. Either handler may be nil.
func NewComposer(onReply ReplyHandler, onTyping TypingHandler) *Composer {
	return &Composer{onReply: onReply, onTyping: onTyping}
}

// Draft returns the current draft text.
func (c *Composer) Draft() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

// OnInput replaces the draft with the input widget's current value and
// emits a Typing signal. Every edit signals; coalescing is left to the
// handler.
func (c *Composer) OnInput(value string) {
	c.mu.Lock()
	c.draft = value
	onTyping := c.onTyping
	c.mu.Unlock()

	if onTyping != nil {
		onTyping(models.Typing)
	}
}

// OnEnter submits the draft from the inline input.
func (c *Composer) OnEnter() { c.submit() }

// OnSendPressed submits the draft from the send control.
func (c *Composer) OnSendPressed() { c.submit() }

// Dismiss discards the draft without submitting.
func (c *Composer) Dismiss() {
	c.mu.Lock()
	c.draft = ""
	c.mu.Unlock()
}

// submit hands the draft to the reply handler, even when empty, then
// resets it and asks the owning popout to close.
func (c *Composer) submit() {
	c.mu.Lock()
	text := c.draft
	c.draft = ""
	onReply, onClose := c.onReply, c.onClose
	c.mu.Unlock()

	if onReply != nil {
		onReply(text)
	}
	if onClose != nil {
		onClose()
	}
}

// TypingSender returns a TypingHandler that forwards signals for
// conversation to the messaging backend. Send failures are logged at debug.
func TypingSender(ctx context.Context, messaging backend.Messaging, conversation models.ConversationHandle, logger zerolog.Logger) TypingHandler {
	return func(signal models.TypingSignal) {
		if err := messaging.SendTypingIndicator(ctx, conversation, signal); err != nil {
			logger.Debug().Err(err).
				Str("conversation", conversation.String()).
				Str("signal", signal.String()).
				Msg("failed to send typing indicator")
		}
	}
}
