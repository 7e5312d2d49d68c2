// Package mockapi serves a simulated mcsrvstat.us status API for local
// development and demos.
//
// The simulated server starts online with a few players. Every request past
// the next scheduled change applies one random event: a player joins, a player
// leaves, or (rarely) the server goes down or comes back.
package mockapi

import (
	"encoding/json"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/jpalmerr/craftboard/internal/mcsrvstat"
)

// pool of names players are drawn from.
var pool = []string{
	"Steve", "Alex", "Notch", "Dinnerbone", "Grumm", "jeb_",
	"Herobrine", "CaptainSparklez", "xXMinerXx", "redstone_rae",
}

// Server is an http.Handler answering GET /2/{address}.
type Server struct {
	mu         sync.Mutex
	rng        *rand.Rand
	now        func() time.Time
	minGap     time.Duration
	maxGap     time.Duration
	online     bool
	players    []string
	max        int
	version    string
	motd       string
	nextChange time.Time
	logger     *slog.Logger
}

// Option configures a [Server].
type Option func(*Server)

// WithSeed makes the event sequence deterministic.
func WithSeed(seed int64) Option {
	return func(s *Server) {
		s.rng = rand.New(rand.NewSource(seed))
	}
}

// WithChangeEvery sets the range of time between simulated events.
func WithChangeEvery(lo, hi time.Duration) Option {
	return func(s *Server) {
		s.minGap, s.maxGap = lo, hi
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		s.now = now
	}
}

// WithLogger logs every simulated event.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// New creates a simulated server with three players online.
func New(opts ...Option) *Server {
	s := &Server{
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		now:     time.Now,
		minGap:  10 * time.Second,
		maxGap:  30 * time.Second,
		online:  true,
		players: []string{"Steve", "Alex", "Notch"},
		max:     20,
		version: "Paper 1.20.4",
		motd:    "A cozy survival world",
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.nextChange = s.now().Add(s.gap())
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	address, ok := strings.CutPrefix(r.URL.Path, "/2/")
	if !ok || address == "" {
		http.NotFound(w, r)
		return
	}

	s.mu.Lock()
	if !s.now().Before(s.nextChange) {
		s.step()
		s.nextChange = s.now().Add(s.gap())
	}
	resp := s.response(address)
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Error("failed to write response", "error", err)
	}
}

// Step applies one simulated event immediately.
func (s *Server) Step() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.step()
}

func (s *Server) step() {
	roll := s.rng.Intn(10)
	switch {
	case roll == 0:
		s.online = !s.online
		s.logger.Info("server availability changed", "online", s.online)
	case !s.online:
		// nothing else happens while offline
	case roll < 6 && len(s.players) < s.max:
		if name, ok := s.pickAbsent(); ok {
			s.players = append(s.players, name)
			s.logger.Info("player joined", "player", name, "online", len(s.players))
		}
	case len(s.players) > 0:
		i := s.rng.Intn(len(s.players))
		name := s.players[i]
		s.players = append(s.players[:i], s.players[i+1:]...)
		s.logger.Info("player left", "player", name, "online", len(s.players))
	}
}

func (s *Server) pickAbsent() (string, bool) {
	var absent []string
	for _, name := range pool {
		present := false
		for _, p := range s.players {
			if p == name {
				present = true
				break
			}
		}
		if !present {
			absent = append(absent, name)
		}
	}
	if len(absent) == 0 {
		return "", false
	}
	return absent[s.rng.Intn(len(absent))], true
}

func (s *Server) response(address string) mcsrvstat.Response {
	host := address
	if i := strings.LastIndex(host, ":"); i > 0 {
		host = host[:i]
	}

	if !s.online {
		return mcsrvstat.Response{Online: false, Hostname: host}
	}

	count := len(s.players)
	maxPlayers := s.max
	return mcsrvstat.Response{
		Online:   true,
		Hostname: host,
		IP:       "127.0.0.1",
		Port:     25565,
		Version:  s.version,
		Players: &mcsrvstat.Players{
			Online: &count,
			Max:    &maxPlayers,
			List:   append([]string(nil), s.players...),
		},
		MOTD: &mcsrvstat.MOTD{
			Clean: []string{s.motd},
			Raw:   []string{"§a" + s.motd},
		},
	}
}

func (s *Server) gap() time.Duration {
	if s.maxGap <= s.minGap {
		return s.minGap
	}
	return s.minGap + time.Duration(s.rng.Int63n(int64(s.maxGap-s.minGap)))
}
