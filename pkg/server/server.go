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

	"netcentric/achistory/pkg/telemetry/tracing"
)

// Default timeouts applied when a Config field is zero.
const (
	DefaultReadHeaderTimeout = 5 * time.Second
	DefaultShutdownTimeout   = 10 * time.Second
)

// Config contains the listener settings.
type Config struct {
	// ListenAddress is the host:port to listen on.
	ListenAddress string

	// ReadHeaderTimeout bounds the time to read request headers.
	ReadHeaderTimeout time.Duration

	// ShutdownTimeout bounds the graceful shutdown.
	ShutdownTimeout time.Duration
}

// Server is the HTTP listener of the serve command.
type Server struct {
	config       Config
	handler      http.Handler
	httpServer   *http.Server
	addr         net.Addr
	started      chan struct{}
	shutdownOnce sync.Once
	mu           sync.RWMutex
	isRunning    bool
	logger       *slog.Logger
}

// New creates a server that serves handler behind the middleware chain.
func New(cfg Config, handler http.Handler) *Server {
	if cfg.ReadHeaderTimeout <= 0 {
		cfg.ReadHeaderTimeout = DefaultReadHeaderTimeout
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = DefaultShutdownTimeout
	}

	return &Server{
		config:  cfg,
		handler: handler,
		started: make(chan struct{}),
		logger:  slog.Default().With("component", "server"),
	}
}

// Start listens and serves until ctx is cancelled, then shuts down
// gracefully. It returns nil after a clean shutdown.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}
	if s.httpServer != nil {
		s.mu.Unlock()
		return fmt.Errorf("server cannot be restarted")
	}

	ln, err := net.Listen("tcp", s.config.ListenAddress)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to listen on %s: %w", s.config.ListenAddress, err)
	}

	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: s.config.ReadHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}
	s.addr = ln.Addr()
	s.isRunning = true
	s.mu.Unlock()
	close(s.started)

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "address", ln.Addr().String())
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	select {
	case err := <-errChan:
		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()
		return err
	case <-ctx.Done():
		s.logger.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.WithoutCancel(ctx))
	}
}

// Shutdown stops accepting connections and waits for active requests, at
// most ShutdownTimeout. Calls after the first are no-ops.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.RLock()
		running := s.isRunning
		s.mu.RUnlock()
		if !running {
			return
		}

		s.logger.Info("initiating graceful shutdown", "timeout", s.config.ShutdownTimeout.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
		defer cancel()

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("error during server shutdown", "error", err)
			shutdownErr = fmt.Errorf("server shutdown error: %w", err)
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		s.logger.Info("HTTP server stopped")
	})

	return shutdownErr
}

// Started is closed once the listener is bound.
func (s *Server) Started() <-chan struct{} {
	return s.started
}

// Addr returns the bound address, or nil before Start.
func (s *Server) Addr() net.Addr {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.addr
}

// IsRunning returns true while the server is serving.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Handler returns the handler wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	handler := tracing.HTTPMiddleware(s.handler)
	handler = LoggingMiddleware(handler)
	handler = RequestIDMiddleware(handler)
	// outermost
	handler = RecoveryMiddleware(handler)
	return handler
}
