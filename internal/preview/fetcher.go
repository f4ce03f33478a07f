// Package preview resolves link previews for chat messages.
//
// Results are memoized per exact message text. For each distinct text at
// most one fetch is in flight; later callers share it. Every failure
// resolves to the empty SiteMeta and is only logged.
package preview

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/tOgg1/uplink/internal/linkify"
	"github.com/tOgg1/uplink/internal/logging"
	"github.com/tOgg1/uplink/internal/models"
)

const (
	defaultFetchTimeout = 15 * time.Second
	defaultFailureTTL   = 5 * time.Minute
)

// Status is the lifecycle of a memoized fetch.
type Status int

const (
	StatusPending Status = iota
	StatusReady
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusReady:
		return "ready"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// State is a snapshot of a memo entry.
type State struct {
	Status Status
	Meta   models.SiteMeta
}

// Value returns the preview to render: the fetched meta when ready, the
// empty SiteMeta otherwise.
func (s State) Value() models.SiteMeta {
	if s.Status != StatusReady {
		return models.SiteMeta{}
	}
	return s.Meta
}

// Store persists previews by URL across process restarts.
type Store interface {
	Get(ctx context.Context, url string) (models.SiteMeta, bool, error)
	Put(ctx context.Context, url string, meta models.SiteMeta) error
}

type entry struct {
	done chan struct{}

	mu       sync.Mutex
	status   Status
	meta     models.SiteMeta
	finished time.Time
}

func newEntry() *entry {
	return &entry{done: make(chan struct{}), status: StatusPending}
}

func (e *entry) complete(meta models.SiteMeta, failed bool, at time.Time) {
	e.mu.Lock()
	if failed {
		e.status = StatusFailed
	} else {
		e.status = StatusReady
		e.meta = meta
	}
	e.finished = at
	e.mu.Unlock()
	close(e.done)
}

func (e *entry) state() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return State{Status: e.status, Meta: e.meta}
}

func (e *entry) pending() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.status == StatusPending
}

// Fetcher resolves and memoizes link previews.
type Fetcher struct {
	getter     HTTPGetter
	store      Store
	logger     zerolog.Logger
	timeout    time.Duration
	failureTTL time.Duration
	now        func() time.Time

	memo  *lruCache[*entry]
	group singleflight.Group

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithStore adds a persistent URL-keyed preview store.
func WithStore(store Store) Option {
	return func(f *Fetcher) {
		f.store = store
	}
}

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(f *Fetcher) {
		f.logger = logger
	}
}

// WithTimeout bounds a single background fetch.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		if d > 0 {
			f.timeout = d
		}
	}
}

// WithCacheSize bounds the number of memoized texts.
func WithCacheSize(n int) Option {
	return func(f *Fetcher) {
		f.memo = newLRUCache[*entry](n, (*entry).pending)
	}
}

// WithFailureTTL sets how long a failed fetch is remembered before a new
// request for the same text retries. Zero keeps failures forever.
func WithFailureTTL(d time.Duration) Option {
	return func(f *Fetcher) {
		if d >= 0 {
			f.failureTTL = d
		}
	}
}

// WithNow overrides the clock.
func WithNow(now func() time.Time) Option {
	return func(f *Fetcher) {
		if now != nil {
			f.now = now
		}
	}
}

// NewFetcher creates a Fetcher using getter for HTTP access.
func NewFetcher(getter HTTPGetter, opts ...Option) *Fetcher {
	if getter == nil {
		getter = NewHTTPClient()
	}
	ctx, cancel := context.WithCancel(context.Background())
	f := &Fetcher{
		getter:     getter,
		logger:     logging.Component("preview"),
		timeout:    defaultFetchTimeout,
		failureTTL: defaultFailureTTL,
		now:        func() time.Time { return time.Now().UTC() },
		memo:       newLRUCache[*entry](defaultCacheSize, (*entry).pending),
		ctx:        ctx,
		cancel:     cancel,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

var noPreview = func() *entry {
	e := newEntry()
	e.complete(models.SiteMeta{}, false, time.Time{})
	return e
}()

// GetOrFetch returns the current state for text without blocking, starting
// a fetch when none exists. Text without links is immediately ready with
// the empty SiteMeta.
func (f *Fetcher) GetOrFetch(text string) State {
	return f.acquire(text).state()
}

// Fetch resolves the preview for text, waiting for an in-flight fetch if
// needed. It never fails; if ctx ends first the empty SiteMeta is returned
// and the fetch keeps running for later callers.
func (f *Fetcher) Fetch(ctx context.Context, text string) models.SiteMeta {
	e := f.acquire(text)
	select {
	case <-e.done:
		return e.state().Value()
	case <-ctx.Done():
		return models.SiteMeta{}
	}
}

// Discard forgets the memo for text. An in-flight fetch still completes but
// its result is not stored.
func (f *Fetcher) Discard(text string) {
	f.memo.removeIf(text, nil)
}

// Close cancels in-flight fetches and waits for them to finish.
func (f *Fetcher) Close() {
	f.cancel()
	f.wg.Wait()
}

func (f *Fetcher) acquire(text string) *entry {
	if e, ok := f.memo.get(text); ok && f.usable(e) {
		return e
	}

	first, ok := linkify.Scan(text).First()
	if !ok {
		return noPreview
	}

	started := false
	e, _ := f.memo.getOrPut(text, f.usable, func() *entry {
		started = true
		return newEntry()
	})
	if started {
		f.wg.Add(1)
		go f.run(first.Text, e)
	}
	return e
}

func (f *Fetcher) usable(e *entry) bool {
	st := e.state()
	if st.Status != StatusFailed || f.failureTTL == 0 {
		return true
	}
	e.mu.Lock()
	finished := e.finished
	e.mu.Unlock()
	return f.now().Sub(finished) < f.failureTTL
}

func (f *Fetcher) run(link string, e *entry) {
	defer f.wg.Done()

	ctx, cancel := context.WithTimeout(f.ctx, f.timeout)
	defer cancel()

	meta, err := f.resolve(ctx, link)
	if err != nil {
		f.logger.Debug().
			Err(err).
			Str("url", logging.RedactURL(link)).
			Msg("link preview unavailable")
		e.complete(models.SiteMeta{}, true, f.now())
		return
	}
	e.complete(meta, false, f.now())
}

// resolve fetches one link. Concurrent fetches of the same URL for
// different texts share a single request.
func (f *Fetcher) resolve(ctx context.Context, link string) (models.SiteMeta, error) {
	target, err := NormalizeURL(link)
	if err != nil {
		return models.SiteMeta{}, err
	}

	v, err, _ := f.group.Do(target, func() (interface{}, error) {
		if f.store != nil {
			meta, ok, err := f.store.Get(ctx, target)
			if err != nil {
				f.logger.Debug().Err(err).Msg("preview store lookup failed")
			} else if ok {
				return meta, nil
			}
		}

		body, err := f.getter.Get(ctx, target)
		if err != nil {
			return nil, err
		}
		meta, err := ParseMeta(target, body)
		if err != nil {
			return nil, err
		}

		if f.store != nil {
			if err := f.store.Put(ctx, target, meta); err != nil {
				f.logger.Debug().Err(err).Msg("preview store write failed")
			}
		}
		return meta, nil
	})
	if err != nil {
		return models.SiteMeta{}, err
	}
	return v.(models.SiteMeta), nil
}
