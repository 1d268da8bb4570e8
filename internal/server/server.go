package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"
	"github.com/lox/diceduel/internal/game"
	"github.com/lox/diceduel/internal/randutil"
)

// SourceFactory returns the dice source for the n-th session.
type SourceFactory func(n int) game.Source

// Option configures a Server
type Option func(*Server)

// WithClock sets the clock shared by every session.
func WithClock(clock quartz.Clock) Option {
	return func(s *Server) { s.clock = clock }
}

// WithSourceFactory overrides how sessions get their dice.
func WithSourceFactory(f SourceFactory) Option {
	return func(s *Server) { s.sources = f }
}

// Server represents the WebSocket server
type Server struct {
	addr        string
	config      Config
	upgrader    websocket.Upgrader
	connections map[*Connection]bool
	register    chan *Connection
	unregister  chan *Connection
	clock       quartz.Clock
	sources     SourceFactory
	stats       *MatchStats
	logger      *log.Logger
	mu          sync.RWMutex
	ctx         context.Context
	cancel      context.CancelFunc
	httpServer  *http.Server

	sessionsMu sync.Mutex
	sessions   int
}

// NewServer creates a new WebSocket server
func NewServer(addr string, config Config, logger *log.Logger, opts ...Option) *Server {
	ctx, cancel := context.WithCancel(context.Background())

	s := &Server{
		addr:   addr,
		config: config,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// Browser clients are served from anywhere during development
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		connections: make(map[*Connection]bool),
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		clock:       quartz.NewReal(),
		stats:       NewMatchStats(),
		logger:      logger.WithPrefix("server"),
		ctx:         ctx,
		cancel:      cancel,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.sources == nil {
		s.sources = s.seededSource
	}

	go s.run()
	return s
}

// Handler returns the HTTP handler serving /ws, /health and /stats.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	mux.Handle("/stats", s.stats)
	return mux
}

// Stats returns the statistics of every match finished on this server.
func (s *Server) Stats() StatsSummary {
	return s.stats.Summary()
}

// Start starts the WebSocket server and blocks until it stops
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info("Starting WebSocket server", "addr", s.addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Stop closes every connection and shuts the HTTP server down
func (s *Server) Stop(ctx context.Context) error {
	s.cancel()

	// Close all connections
	s.mu.Lock()
	for conn := range s.connections {
		_ = conn.Close() // Ignore close errors during shutdown
	}
	s.mu.Unlock()

	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// ConnectionCount returns the number of registered connections
func (s *Server) ConnectionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.connections)
}

// run handles connection lifecycle
func (s *Server) run() {
	for {
		select {
		case conn := <-s.register:
			s.mu.Lock()
			s.connections[conn] = true
			total := len(s.connections)
			s.mu.Unlock()
			s.logger.Info("Client connected", "total", total)

		case conn := <-s.unregister:
			s.mu.Lock()
			if _, ok := s.connections[conn]; ok {
				delete(s.connections, conn)
				_ = conn.Close() // Ignore close errors during unregistration
			}
			total := len(s.connections)
			s.mu.Unlock()
			s.logger.Info("Client disconnected", "total", total)

		case <-s.ctx.Done():
			return
		}
	}
}

// handleWebSocket upgrades the request and starts a fresh match for it
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	n := s.nextSession()
	client := NewConnection(conn, s.clock, s.logger)
	session, err := newSession(s.config, s.sessionSeed(n), s.clock, s.sources(n), client, s.stats, s.logger)
	if err != nil {
		s.logger.Error("Failed to create session", "error", err)
		client.sendError("session_failed", err.Error())
		_ = conn.Close()
		return
	}
	client.session = session

	select {
	case s.register <- client:
	case <-s.ctx.Done():
		_ = client.Close()
		return
	}
	client.Start()

	// Connection cleanup is handled by the connection itself
	go func() {
		<-client.Done()
		select {
		case s.unregister <- client:
		case <-s.ctx.Done():
		}
	}()
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "OK") // Ignore write errors for health check
}

func (s *Server) nextSession() int {
	s.sessionsMu.Lock()
	defer s.sessionsMu.Unlock()
	n := s.sessions
	s.sessions++
	return n
}

func (s *Server) sessionSeed(n int) int64 {
	if s.config.Seed == 0 {
		return s.clock.Now().UnixNano() + int64(n)
	}
	return randutil.Derive(s.config.Seed, n)
}

func (s *Server) seededSource(n int) game.Source {
	settings := s.config.Settings
	return randutil.NewDiceSource(randutil.New(s.sessionSeed(n)), settings.SpinMin, settings.SpinMax)
}
