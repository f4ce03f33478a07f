package cli

import (
	"context"
	"errors"
	"os"

	"github.com/rs/zerolog"

	"github.com/tOgg1/uplink/internal/backend"
	"github.com/tOgg1/uplink/internal/compose"
	"github.com/tOgg1/uplink/internal/config"
	"github.com/tOgg1/uplink/internal/conversation"
	"github.com/tOgg1/uplink/internal/db"
	"github.com/tOgg1/uplink/internal/events"
	"github.com/tOgg1/uplink/internal/friends"
	"github.com/tOgg1/uplink/internal/logging"
	"github.com/tOgg1/uplink/internal/markup"
	"github.com/tOgg1/uplink/internal/models"
	"github.com/tOgg1/uplink/internal/msgview"
	"github.com/tOgg1/uplink/internal/preview"
	"github.com/tOgg1/uplink/internal/state"
)

// app wires the interaction core for one command invocation.
type app struct {
	cfg      *config.Config
	identity *config.Identity
	logger   zerolog.Logger

	db        *db.DB
	bus       *events.Bus
	backend   *backend.Local
	persister *state.Persister
	store     *state.Store
	fetcher   *preview.Fetcher
	renderer  *markup.Renderer
	assembler *msgview.Assembler
	initiator *conversation.Initiator
	remover   *friends.Remover
}

func (rt *runtime) openApp(ctx context.Context) (*app, error) {
	cfg := rt.cfg
	logger := logging.FromContext(ctx)

	if err := cfg.EnsureDirectories(); err != nil {
		return nil, Exitf(ExitCodeFailure, "%v", err)
	}
	identity, err := config.NewIdentityStore(cfg.IdentityPath()).Ensure()
	if err != nil {
		return nil, Exitf(ExitCodeFailure, "load identity: %v", err)
	}

	database, err := db.Open(ctx, db.Config{
		Path:           cfg.DatabasePath(),
		MaxConnections: cfg.Database.MaxConnections,
		BusyTimeoutMs:  cfg.Database.BusyTimeoutMs,
	})
	if err != nil {
		return nil, Exitf(ExitCodeFailure, "open database: %v", err)
	}

	a := &app{
		cfg:      cfg,
		identity: identity,
		logger:   logging.WithPeer(logger, identity.Peer.String()),
		db:       database,
		bus:      events.NewBus(),
	}
	a.backend = backend.NewLocal(identity.Peer, database, a.bus)

	a.persister = state.NewPersister(cfg.StatePath(), cfg.State.SaveDebounce)
	initial, err := a.loadState()
	if err != nil {
		a.logger.Warn().Err(err).Msg("state file unreadable, using defaults")
	}
	a.store = state.NewStore(initial, state.WithPublisher(a.bus), state.WithSaver(a.persister))

	a.renderer = markup.New(markup.WithSanitizer(markup.UGCPolicy()))

	var previews msgview.Previewer
	if cfg.Preview.Enabled {
		opts := []preview.Option{
			preview.WithTimeout(cfg.Preview.Timeout),
			preview.WithCacheSize(cfg.Preview.CacheSize),
			preview.WithFailureTTL(cfg.Preview.FailureTTL),
		}
		if cfg.Preview.Persist {
			opts = append(opts, preview.WithStore(db.NewPreviewStore(database, cfg.Preview.StoreTTL)))
		}
		a.fetcher = preview.NewFetcher(preview.NewHTTPClient(
			preview.WithUserAgent(cfg.Preview.UserAgent),
			preview.WithMaxBodyBytes(cfg.Preview.MaxBodyBytes),
		), opts...)
		previews = a.fetcher
	}

	a.assembler = msgview.NewAssembler(a.renderer, previews, identity.Peer, msgview.WithAccount(a.backend))
	a.initiator = conversation.NewInitiator(a.backend, a.store, conversation.WithPublisher(a.bus))
	a.remover = friends.NewRemover(a.backend, friends.WithPublisher(a.bus))
	return a, nil
}

// loadState restores persisted state; a first run starts from the
// configured default language.
func (a *app) loadState() (state.AppState, error) {
	initial := state.Default()
	initial.Language = a.cfg.Locale.Default

	path := a.persister.Path()
	if path == "" {
		return initial, nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return initial, nil
	}
	loaded, err := a.persister.Load()
	if err != nil {
		return initial, err
	}
	return loaded, nil
}

// composer returns a reply panel for conversation whose typing signals go to
// the backend.
func (a *app) composer(ctx context.Context, conv models.ConversationHandle, onReply compose.ReplyHandler) *compose.Popout {
	return compose.NewPopout(onReply, compose.TypingSender(ctx, a.backend, conv, a.logger))
}

func (a *app) Close() error {
	if a.fetcher != nil {
		a.fetcher.Close()
	}
	var errs []error
	if err := a.persister.Close(); err != nil {
		errs = append(errs, err)
	}
	a.bus.Close()
	if err := a.db.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
