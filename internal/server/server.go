package server

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/jpalmerr/craftboard/internal/store"
)

const (
	// sseWriteTimeout is the maximum time allowed for a single SSE write operation.
	// This prevents goroutine leaks when clients are slow or disconnected.
	// Must be <= shutdown timeout to ensure clean shutdown.
	sseWriteTimeout = 5 * time.Second

	shutdownTimeout = 5 * time.Second

	// defaultTitle is used when no display name is configured.
	defaultTitle = "Minecraft Server"

	indexTemplate = "assets/index.html"
)

// Feature is one entry of the page's static feature list.
type Feature struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// Page holds the presentation-only settings of the dashboard.
type Page struct {
	Title      string
	Tagline    string
	Background string
	Features   []Feature
}

// Refresher starts an out-of-band poll.
type Refresher interface {
	RefreshNow() bool
}

// Server handles HTTP requests for the status page and its API.
//
// Server provides these endpoints:
//   - GET /: Server-rendered status page
//   - GET /api/status: Current state as JSON
//   - GET /api/sse: Server-Sent Events stream of state changes
//   - GET /api/ws: WebSocket stream of state changes
//   - POST /api/refresh: Trigger an immediate poll
//   - GET /healthz: Liveness probe
//
// The server is designed for graceful shutdown via context cancellation.
type Server struct {
	store      store.Store
	refresher  Refresher
	port       int
	httpServer *http.Server
	assets     fs.FS
	logger     *slog.Logger
	upgrader   websocket.Upgrader

	page atomic.Pointer[Page]

	tmplOnce sync.Once
	tmpl     *template.Template
	tmplErr  error

	wsClients atomic.Int32
}

// NewServer creates a new HTTP [Server].
//
// Parameters:
//   - st: Store holding the dashboard state
//   - refresher: Target of POST /api/refresh (may be nil to disable refresh)
//   - port: TCP port to listen on
//   - assets: Embedded filesystem containing the page template (may be nil)
//   - page: Presentation settings; replaceable later with [Server.SetPage]
//   - logger: Logger for server events
//
// The server is not started until [Server.Start] is called.
func NewServer(st store.Store, refresher Refresher, port int, assets fs.FS, page Page, logger *slog.Logger) *Server {
	s := &Server{
		store:     st,
		refresher: refresher,
		port:      port,
		assets:    assets,
		logger:    logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
	s.SetPage(page)
	return s
}

// SetPage replaces the presentation settings. Safe to call while serving.
func (s *Server) SetPage(p Page) {
	if p.Title == "" {
		p.Title = defaultTitle
	}
	p.Features = append([]Feature(nil), p.Features...)
	s.page.Store(&p)
}

// Page returns the current presentation settings.
func (s *Server) Page() Page {
	p := *s.page.Load()
	p.Features = append([]Feature(nil), p.Features...)
	return p
}

// Handler returns the HTTP handler with all routes registered.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/status", s.handleStatus)
	mux.HandleFunc("/api/sse", s.handleSSE)
	mux.HandleFunc("/api/ws", s.handleWebSocket)
	mux.HandleFunc("/api/refresh", s.handleRefresh)
	mux.HandleFunc("/healthz", s.handleHealth)

	if s.assets != nil {
		mux.HandleFunc("/", s.handleDashboard)
	}

	return mux
}

// Start begins serving HTTP requests in a background goroutine.
//
// Start is non-blocking and returns immediately after confirming the server
// is listening. The server will continue running until the context is
// cancelled, at which point it initiates a graceful shutdown with a 5-second
// timeout.
//
// Returns an error if the server fails to bind to the configured port.
func (s *Server) Start(ctx context.Context) error {
	// create listener first to verify port availability synchronously
	addr := fmt.Sprintf(":%d", s.port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to bind to port %d: %w", s.port, err)
	}

	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		// BaseContext derives all request contexts from the server context.
		// When ctx is cancelled, all request contexts are also cancelled,
		// which ends long-running SSE and WebSocket handlers.
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.Error("http server error", "error", err)
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("http server shutdown error", "error", err)
		}
	}()

	return nil
}

// pageData is the template context for the status page.
type pageData struct {
	Page
	State store.State
}

func (s *Server) template() (*template.Template, error) {
	s.tmplOnce.Do(func() {
		s.tmpl, s.tmplErr = template.ParseFS(s.assets, indexTemplate)
	})
	return s.tmpl, s.tmplErr
}

// handleDashboard renders the status page with the current state inlined.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	tmpl, err := s.template()
	if err != nil {
		s.logger.Error("failed to parse dashboard template", "error", err)
		http.Error(w, "Dashboard not found", http.StatusInternalServerError)
		return
	}

	data := pageData{Page: s.Page(), State: s.store.Get()}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "index.html", data); err != nil {
		s.logger.Error("failed to render dashboard", "error", err)
	}
}

// handleStatus returns the current state as JSON.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")

	if err := json.NewEncoder(w).Encode(s.store.Get()); err != nil {
		s.logger.Error("failed to encode status response", "error", err)
	}
}

// handleRefresh triggers an immediate poll.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.refresher == nil {
		http.Error(w, "Refresh not available", http.StatusServiceUnavailable)
		return
	}

	triggered := s.refresher.RefreshNow()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	if err := json.NewEncoder(w).Encode(map[string]bool{"triggered": triggered}); err != nil {
		s.logger.Error("failed to encode refresh response", "error", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

// handleSSE streams state changes via Server-Sent Events.
//
// The handler uses write deadlines to prevent goroutine leaks when clients are
// slow or disconnected.
func (s *Server) handleSSE(w http.ResponseWriter, r *http.Request) {
	if _, ok := w.(http.Flusher); !ok {
		http.Error(w, "SSE not supported", http.StatusInternalServerError)
		return
	}

	rc := http.NewResponseController(w)
	deadlinesSupported := true

	writeAndFlush := func(state store.State) error {
		data, err := json.Marshal(state)
		if err != nil {
			return err
		}

		if deadlinesSupported {
			if err := rc.SetWriteDeadline(time.Now().Add(sseWriteTimeout)); err != nil {
				s.logger.Debug("sse write deadlines not supported", "error", err)
				deadlinesSupported = false
			}
		}

		if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
			return err
		}
		return rc.Flush()
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := s.store.Subscribe()
	defer s.store.Unsubscribe(ch)

	if err := writeAndFlush(s.store.Get()); err != nil {
		return
	}

	for {
		select {
		case state, ok := <-ch:
			if !ok {
				return
			}
			if err := writeAndFlush(state); err != nil {
				return
			}

		case <-r.Context().Done():
			// fires on both client disconnect and server shutdown
			return
		}
	}
}
