package compose

import "sync"

// Popout is the reply panel attached to one message. The composer's draft
// only lives while the popout is open.
type Popout struct {
	mu       sync.Mutex
	open     bool
	composer *Composer
}

// NewPopout creates a closed popout around a fresh composer.
func NewPopout(onReply ReplyHandler, onTyping TypingHandler) *Popout {
	p := &Popout{}
	p.composer = NewComposer(onReply, onTyping)
	p.composer.onClose = p.Close
	return p
}

// Composer returns the popout's composer.
func (p *Popout) Composer() *Composer { return p.composer }

// IsOpen reports whether the panel is shown.
func (p *Popout) IsOpen() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.open
}

// Open shows the panel with an empty draft.
func (p *Popout) Open() {
	p.composer.Dismiss()
	p.mu.Lock()
	p.open = true
	p.mu.Unlock()
}

// Close hides the panel and discards any draft. Called for the mask click,
// the close button and after a submit.
func (p *Popout) Close() {
	p.mu.Lock()
	p.open = false
	p.mu.Unlock()
	p.composer.Dismiss()
}
