// Package server provides the glimpse HTTP search API. The API answers
// search, excerpt, and title requests, serves the JSON index, and, when
// live reindexing is on, rebuilds the library whenever content changes and
// tells WebSocket clients about it.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/aellingwood/glimpse/internal/plaintext"
	"github.com/aellingwood/glimpse/internal/search"
	"github.com/aellingwood/glimpse/internal/security"
)

// Paths of the fixed endpoints.
const (
	WebSocketPath = "/__glimpse/ws"
	IndexPath     = "/search-index.json"
)

// Builder produces a fresh search library, typically by rediscovering the
// content directory.
type Builder func(ctx context.Context) (*search.Library, error)

// Options contains the configurable settings for the API server.
type Options struct {
	Port int
	Bind string
	// ContentDir is watched for changes when LiveReindex is set.
	ContentDir  string
	LiveReindex bool
	// ContentLength caps the content field of served index entries.
	ContentLength int
	// DefaultLimit applies to searches that do not pass limit.
	DefaultLimit int
	// Debounce is the quiet period before a reindex. Zero means 200ms.
	Debounce time.Duration
	// AllowOrigin enables CORS for one browser origin, or "*" for any.
	AllowOrigin string
	Logger      *slog.Logger
}

// Server is the HTTP search API.
type Server struct {
	options Options
	logger  *slog.Logger
	build   Builder
	conv    *plaintext.Converter
	hub     *Hub
	headers security.Headers
	watcher *Watcher
	server  *http.Server

	mu  sync.RWMutex
	lib *search.Library
}

// New creates a Server answering from lib. build is used to reindex and
// may be nil when live reindexing is off.
func New(lib *search.Library, build Builder, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Debounce <= 0 {
		opts.Debounce = 200 * time.Millisecond
	}
	headers := security.Headers{
		Policy:      security.APIPolicy(opts.Port),
		AllowOrigin: opts.AllowOrigin,
	}
	return &Server{
		options: opts,
		logger:  logger,
		build:   build,
		conv:    plaintext.NewConverter(logger),
		hub:     NewHub(logger, headers.CheckOrigin),
		headers: headers,
		lib:     lib,
	}
}

// Library returns the library currently answering queries.
func (s *Server) Library() *search.Library {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lib
}

// SetLibrary swaps in lib for subsequent requests.
func (s *Server) SetLibrary(lib *search.Library) {
	s.mu.Lock()
	s.lib = lib
	s.mu.Unlock()
}

// Reindex rebuilds the library and notifies WebSocket clients. On failure
// the previous library stays in place.
func (s *Server) Reindex(ctx context.Context) error {
	if s.build == nil {
		return errors.New("reindex: no builder configured")
	}
	lib, err := s.build(ctx)
	if err != nil {
		return fmt.Errorf("reindex: %w", err)
	}
	s.SetLibrary(lib)
	s.hub.Notify(EventReindexed, lib.Len())
	s.logger.Info("reindexed", "entries", lib.Len())
	return nil
}

// Handler returns the HTTP handler with every route registered.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/search", s.handleSearch)
	mux.HandleFunc("POST /api/excerpt", s.handleExcerpt)
	mux.HandleFunc("POST /api/title", s.handleTitle)
	mux.HandleFunc("GET "+IndexPath, s.handleIndex)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET "+WebSocketPath, s.hub.HandleWS)
	return s.logRequests(s.headers.Wrap(mux))
}

// Start starts the HTTP server, WebSocket hub, and file watcher. It blocks
// until the provided context is cancelled or the server is stopped.
func (s *Server) Start(ctx context.Context) error {
	go s.hub.Run()

	addr := fmt.Sprintf("%s:%d", s.options.Bind, s.options.Port)
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.options.LiveReindex && s.build != nil && s.options.ContentDir != "" {
		s.watcher = NewWatcher([]string{s.options.ContentDir}, s.options.Debounce, func() {
			if err := s.Reindex(ctx); err != nil {
				s.logger.Error("reindex failed", "err", err)
			}
		}, s.logger)
		go func() {
			if err := s.watcher.Start(); err != nil {
				s.logger.Error("watcher error", "err", err)
			}
		}()
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}

	s.logger.Info("serving search API", "addr", "http://"+ln.Addr().String(), "liveReindex", s.watcher != nil)

	if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the server, watcher, and hub.
func (s *Server) Stop() error {
	if s.watcher != nil {
		s.watcher.Stop()
	}
	s.hub.Stop()
	if s.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.server.Shutdown(ctx)
	}
	return nil
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}
