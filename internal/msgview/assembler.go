// Package msgview assembles the user-facing view of a conversation: rendered
// markup, detected links, the link preview and grouping flags per message.
package msgview

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tOgg1/uplink/internal/backend"
	"github.com/tOgg1/uplink/internal/linkify"
	"github.com/tOgg1/uplink/internal/logging"
	"github.com/tOgg1/uplink/internal/models"
	"github.com/tOgg1/uplink/internal/preview"
)

const defaultConcurrency = 8

// Renderer turns message text into markup.
type Renderer interface {
	Render(text string) string
}

// Previewer resolves link previews for message text.
type Previewer interface {
	Fetch(ctx context.Context, text string) models.SiteMeta
	GetOrFetch(text string) preview.State
}

// View is everything the presentation layer needs for one message.
type View struct {
	Message        models.Message  `json:"message"`
	Markup         string          `json:"markup"`
	Links          []string        `json:"links,omitempty"`
	HasLinks       bool            `json:"has_links"`
	Preview        models.SiteMeta `json:"preview"`
	PreviewStatus  preview.Status  `json:"-"`
	Remote         bool            `json:"remote"`
	ShowTimestamp  bool            `json:"show_timestamp"`
	Timestamp      string          `json:"timestamp,omitempty"`
	ShowPicture    bool            `json:"show_picture"`
	ProfilePicture string          `json:"profile_picture,omitempty"`
}

// Assembler builds Views.
type Assembler struct {
	renderer    Renderer
	previews    Previewer
	account     backend.Account
	self        models.PeerID
	concurrency int
	now         func() time.Time
	logger      zerolog.Logger
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithConcurrency bounds how many messages are assembled at once.
func WithConcurrency(n int) Option {
	return func(a *Assembler) {
		if n > 0 {
			a.concurrency = n
		}
	}
}

// WithNow overrides the clock used for timestamps.
func WithNow(now func() time.Time) Option {
	return func(a *Assembler) {
		if now != nil {
			a.now = now
		}
	}
}

// WithAccount resolves profile pictures through account.
func WithAccount(account backend.Account) Option {
	return func(a *Assembler) {
		a.account = account
	}
}

// NewAssembler creates an Assembler for the local user self. previews may
// be nil to skip link previews.
func NewAssembler(renderer Renderer, previews Previewer, self models.PeerID, opts ...Option) *Assembler {
	a := &Assembler{
		renderer:    renderer,
		previews:    previews,
		self:        self,
		concurrency: defaultConcurrency,
		now:         time.Now,
		logger:      logging.Component("msgview"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Assemble groups msgs and builds their views, waiting for link previews
// until ctx ends. Views come back in message order.
func (a *Assembler) Assemble(ctx context.Context, msgs []models.Message) []View {
	return a.assemble(ctx, msgs, true)
}

// Snapshot is Assemble without waiting: previews that are still loading
// come back empty with PreviewStatus pending.
func (a *Assembler) Snapshot(ctx context.Context, msgs []models.Message) []View {
	return a.assemble(ctx, msgs, false)
}

func (a *Assembler) assemble(ctx context.Context, msgs []models.Message, wait bool) []View {
	grouped := Group(msgs)
	views := make([]View, len(grouped))
	now := a.now()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)
	for i := range grouped {
		g.Go(func() error {
			views[i] = a.build(gctx, grouped[i], now, wait)
			return nil
		})
	}
	_ = g.Wait()

	a.logger.Debug().Int("messages", len(views)).Bool("wait", wait).Msg("assembled message views")
	return views
}

func (a *Assembler) build(ctx context.Context, msg models.Message, now time.Time, wait bool) View {
	text := msg.Text()
	links := linkify.Scan(text)

	v := View{
		Message:       msg,
		Markup:        a.renderer.Render(text),
		Links:         links.Links(),
		HasLinks:      links.HasLinks(),
		PreviewStatus: preview.StatusReady,
		Remote:        msg.Sender != a.self,
		ShowTimestamp: msg.Position.Last,
		ShowPicture:   msg.Position.Last,
	}
	if v.ShowTimestamp {
		v.Timestamp = DisplayTime(msg.Time, now)
	}
	if v.ShowPicture && a.account != nil {
		v.ProfilePicture = a.account.ResolveProfilePicture(ctx, msg.Sender)
	}

	if v.HasLinks && a.previews != nil {
		if wait {
			v.Preview = a.previews.Fetch(ctx, text)
		} else {
			st := a.previews.GetOrFetch(text)
			v.Preview, v.PreviewStatus = st.Value(), st.Status
		}
	}
	return v
}
