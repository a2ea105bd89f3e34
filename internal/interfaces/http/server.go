package http

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// Server wraps http.Server with the timeouts of the API.
type Server struct {
	httpServer *http.Server
}

// ServerOption customizes the underlying http.Server.
type ServerOption func(*http.Server)

// WithReadTimeout sets the request read timeout.
func WithReadTimeout(d time.Duration) ServerOption {
	return func(s *http.Server) {
		if d > 0 {
			s.ReadTimeout = d
		}
	}
}

// WithWriteTimeout sets the response write timeout.
func WithWriteTimeout(d time.Duration) ServerOption {
	return func(s *http.Server) {
		if d > 0 {
			s.WriteTimeout = d
		}
	}
}

// WithIdleTimeout sets the keep-alive idle timeout.
func WithIdleTimeout(d time.Duration) ServerOption {
	return func(s *http.Server) {
		if d > 0 {
			s.IdleTimeout = d
		}
	}
}

// NewServer creates a server listening on addr.
func NewServer(addr string, handler http.Handler, opts ...ServerOption) *Server {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	for _, opt := range opts {
		opt(srv)
	}
	return &Server{httpServer: srv}
}

// Start blocks serving requests.  A graceful shutdown returns nil.
func (s *Server) Start() error {
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests
// until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Addr returns the configured listen address.
func (s *Server) Addr() string { return s.httpServer.Addr }

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.httpServer.Handler }

//Personal.AI order the ending
