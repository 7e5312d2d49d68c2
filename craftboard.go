package craftboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/jpalmerr/craftboard/dashboard"
	"github.com/jpalmerr/craftboard/internal/mcsrvstat"
	"github.com/jpalmerr/craftboard/internal/poller"
	"github.com/jpalmerr/craftboard/internal/server"
	"github.com/jpalmerr/craftboard/internal/store"
)

const (
	defaultPollingInterval = poller.DefaultInterval
	defaultPort            = 8080

	// DefaultAPIBaseURL is the status API queried unless overridden with
	// [WithAPIBaseURL].
	DefaultAPIBaseURL = mcsrvstat.DefaultBaseURL
)

// Craftboard polls one Minecraft server and serves its status page.
//
// Craftboard is created using [New] with functional options and started with
// [Craftboard.Start]. The typical lifecycle is:
//
//	cb, err := craftboard.New("play.example.net")
//	if err != nil {
//	    slog.Error("failed to create craftboard", "error", err)
//	    os.Exit(1)
//	}
//
//	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer cancel()
//
//	cb.Start(ctx) // blocks until context cancelled
//
// The caller controls the lifecycle via the context. Cancel the context to
// trigger graceful shutdown. A Craftboard can be started once.
type Craftboard struct {
	address         string
	pollingInterval time.Duration
	port            int
	logger          *slog.Logger
	pollCallbacks   []func(PollResult)

	client *mcsrvstat.Client
	store  *store.MemoryStore
	poller *poller.Poller
	server *server.Server

	started atomic.Bool
}

// New creates a new [Craftboard] for the server at address.
//
// address is passed to the status API verbatim and shown on the page, so it
// may carry a port ("play.example.net:25566"). Other options have sensible
// defaults:
//   - Polling interval: 60 seconds
//   - Port: 8080
//   - Title: "Minecraft Server"
//   - Features: [DefaultFeatures]
//
// Returns an error if address is empty or if any option is invalid.
func New(address string, opts ...Option) (*Craftboard, error) {
	if address == "" {
		return nil, errors.New("server address is required")
	}

	cfg := &cbConfig{
		pollingInterval: defaultPollingInterval,
		port:            defaultPort,
		apiBaseURL:      DefaultAPIBaseURL,
		page: Page{
			Title:    defaultTitle,
			Tagline:  defaultTagline,
			Features: DefaultFeatures(),
		},
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	var clientOpts []mcsrvstat.ClientOption
	if cfg.httpClient != nil {
		clientOpts = append(clientOpts, mcsrvstat.WithHTTPClient(cfg.httpClient))
	}
	if cfg.userAgent != "" {
		clientOpts = append(clientOpts, mcsrvstat.WithUserAgent(cfg.userAgent))
	}
	client, err := mcsrvstat.NewClient(cfg.apiBaseURL, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("invalid status API: %w", err)
	}

	cb := &Craftboard{
		address:         address,
		pollingInterval: cfg.pollingInterval,
		port:            cfg.port,
		logger:          logger,
		pollCallbacks:   cfg.pollCallbacks,
		client:          client,
		store:           store.NewMemoryStore(address),
	}
	cb.poller = poller.NewPoller(client, cb.store, cb.pollingInterval, logger, cb.handleResult)
	cb.server = server.NewServer(cb.store, cb.poller, cb.port, dashboard.Assets, toServerPage(cfg.page), logger)

	return cb, nil
}

// Start begins polling the server and serving the status page.
//
// Start is a blocking call that runs until the provided context is cancelled.
// During execution:
//
//   - The server is polled immediately, then at the configured interval
//   - The HTTP server starts on the configured port
//   - The page is available at http://localhost:<port>
//
// Returns nil on graceful shutdown. Returns an error if the HTTP server fails
// to start or if Start was already called.
func (cb *Craftboard) Start(ctx context.Context) error {
	if !cb.started.CompareAndSwap(false, true) {
		return errors.New("craftboard already started")
	}

	cb.logger.Info("craftboard starting", "address", cb.address)
	cb.logger.Info("polling configured", "interval", cb.pollingInterval.String(), "api", cb.client.BaseURL())
	cb.logger.Info("dashboard available", "url", fmt.Sprintf("http://localhost:%d", cb.port))

	// check if context already cancelled
	if ctx.Err() != nil {
		return nil
	}

	cleanup := func() {
		cb.poller.Stop() // waits for an in-flight poll
		cb.client.Close()
	}

	cb.poller.Start(ctx, cb.address)

	if err := cb.server.Start(ctx); err != nil {
		cleanup()
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	<-ctx.Done()
	cleanup()
	cb.logger.Info("craftboard stopped")
	return nil
}

// Refresh polls the server now, outside the regular schedule.
//
// Returns false if no poll was started, either because one is already in
// flight or because the craftboard is not running.
func (cb *Craftboard) Refresh() bool {
	return cb.poller.RefreshNow()
}

// State returns a copy of the current dashboard state.
func (cb *Craftboard) State() State {
	return toPublicState(cb.store.Get())
}

// SetPage replaces the presentation settings of the status page. It is safe
// to call while serving; open pages pick up the change on their next load.
//
// An empty title falls back to "Minecraft Server". Polling is not affected.
func (cb *Craftboard) SetPage(p Page) {
	cb.server.SetPage(toServerPage(p))
}

// Page returns the current presentation settings.
func (cb *Craftboard) Page() Page {
	return fromServerPage(cb.server.Page())
}

// Address returns the polled server address.
func (cb *Craftboard) Address() string {
	return cb.address
}

// Port returns the configured HTTP port for the status page.
func (cb *Craftboard) Port() int {
	return cb.port
}

// PollingInterval returns the configured interval between scheduled polls.
func (cb *Craftboard) PollingInterval() time.Duration {
	return cb.pollingInterval
}

// Handler returns the status page's HTTP handler. The state it serves is
// only kept current while [Craftboard.Start] is running.
func (cb *Craftboard) Handler() http.Handler {
	return cb.server.Handler()
}

// handleResult is the poller's result hook. The store is already updated.
func (cb *Craftboard) handleResult(r poller.Result) {
	if len(cb.pollCallbacks) == 0 {
		return
	}
	public := toPublicResult(r)
	for _, fn := range cb.pollCallbacks {
		invokeCallbackSafe(fn, public, cb.logger)
	}
}

// invokeCallbackSafe calls a poll callback with panic recovery.
// Panics are logged with a correlation ID but do not propagate.
func invokeCallbackSafe(fn func(PollResult), result PollResult, logger *slog.Logger) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("poll callback panicked",
				"panic", r,
				"poll_id", result.ID,
				"correlation_id", uuid.NewString(),
			)
		}
	}()
	fn(result)
}

func toPublicSnapshot(s mcsrvstat.Snapshot) Snapshot {
	return Snapshot{
		Online: s.Online,
		Players: Players{
			Online: s.Players.Online,
			Max:    s.Players.Max,
			List:   append(make([]string, 0, len(s.Players.List)), s.Players.List...),
		},
		Version:     s.Version,
		Description: s.Description,
	}
}

func toPublicState(s store.State) State {
	st := State{
		Address:    s.Address,
		Phase:      Phase(s.Phase),
		Loading:    s.Loading,
		Refreshing: s.Refreshing,
		PolledAt:   s.PolledAt,
		UpdatedAt:  s.UpdatedAt,
	}
	if snap, ok := s.Loaded(); ok {
		pub := toPublicSnapshot(snap)
		st.snapshot = &pub
	}
	if s.LastError != nil {
		st.LastError = *s.LastError
	}
	return st
}

func toPublicResult(r poller.Result) PollResult {
	return PollResult{
		ID:        r.ID,
		Address:   r.Address,
		Trigger:   Trigger(r.Trigger),
		Snapshot:  toPublicSnapshot(r.Snapshot),
		Err:       r.Err,
		Latency:   r.Latency,
		CheckedAt: r.CheckedAt,
	}
}

func toServerPage(p Page) server.Page {
	features := make([]server.Feature, len(p.Features))
	for i, f := range p.Features {
		features[i] = server.Feature{Title: f.Title, Description: f.Description, Icon: f.Icon}
	}
	return server.Page{
		Title:      p.Title,
		Tagline:    p.Tagline,
		Background: p.Background,
		Features:   features,
	}
}

func fromServerPage(p server.Page) Page {
	features := make([]Feature, len(p.Features))
	for i, f := range p.Features {
		features[i] = Feature{Title: f.Title, Description: f.Description, Icon: f.Icon}
	}
	return Page{
		Title:      p.Title,
		Tagline:    p.Tagline,
		Background: p.Background,
		Features:   features,
	}
}
