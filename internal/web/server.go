// Package web provides the HTTP server and JSON handlers for the comment
// board API.
package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/evcraddock/comment-board/internal/comment"
	"github.com/evcraddock/comment-board/internal/events"
	"github.com/evcraddock/comment-board/internal/logging"
)

// DefaultMaxBodyBytes caps create request bodies when Options leaves it unset.
const DefaultMaxBodyBytes = 64 << 10

// Pinger reports whether the backing store is reachable. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Options configures a Server. The zero value serves under no prefix, in
// UTC, without events or health checks against a store.
type Options struct {
	Prefix       string
	Location     *time.Location
	MaxBodyBytes int64
	Publisher    events.Publisher
	Pinger       Pinger
}

// Server is the comment board HTTP server.
type Server struct {
	store     comment.Store
	publisher events.Publisher
	pinger    Pinger
	loc       *time.Location
	maxBody   int64
	prefix    string
	mux       *http.ServeMux
	handler   http.Handler
}

// NewServer creates a server backed by store.
func NewServer(store comment.Store, opts Options) *Server {
	s := &Server{
		store:     store,
		publisher: opts.Publisher,
		pinger:    opts.Pinger,
		loc:       opts.Location,
		maxBody:   opts.MaxBodyBytes,
		prefix:    normalizePrefix(opts.Prefix),
		mux:       http.NewServeMux(),
	}
	if s.publisher == nil {
		s.publisher = events.Nop{}
	}
	if s.loc == nil {
		s.loc = time.UTC
	}
	if s.maxBody <= 0 {
		s.maxBody = DefaultMaxBodyBytes
	}

	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc(s.prefix+"/comments/{$}", s.handleCommentList)
	s.mux.HandleFunc(s.prefix+"/comments", s.handleCommentList)
	s.mux.HandleFunc(s.prefix+"/comments/create/{$}", s.handleCommentCreate)
	s.mux.HandleFunc(s.prefix+"/comments/create", s.handleCommentCreate)
	s.mux.HandleFunc("/", s.handleNotFound)

	s.handler = logging.RequestLogger(recoverer(s.mux))

	return s
}

// Prefix returns the normalized API path prefix.
func (s *Server) Prefix() string {
	return s.prefix
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting comment board API", "addr", addr, "prefix", s.prefix)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving http: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	slog.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}

// handleHealth reports store reachability.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.pinger != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.pinger.PingContext(ctx); err != nil {
			slog.WarnContext(r.Context(), "health check failed", "error", err)
			writeJSON(w, map[string]string{"status": "unavailable"}, http.StatusServiceUnavailable)
			return
		}
	}
	writeJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}

// handleNotFound answers unknown paths with the envelope.
func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	writeEnvelope(w, envelope{Message: msgNotFound}, http.StatusNotFound)
}

// recoverer converts a handler panic into the 500 envelope.
func recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				if v == http.ErrAbortHandler {
					panic(v)
				}
				slog.ErrorContext(r.Context(), "panic in handler",
					"request_id", logging.RequestID(r.Context()),
					"panic", v,
				)
				writeEnvelope(w, envelope{
					Message: msgServerError,
					Error:   fmt.Sprint(v),
				}, http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// normalizePrefix returns "" or a path starting with "/" and not ending in one.
func normalizePrefix(p string) string {
	p = strings.Trim(strings.TrimSpace(p), "/")
	if p == "" {
		return ""
	}
	return "/" + p
}
