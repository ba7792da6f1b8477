package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/dmitrymomot/docval/pkg/logger"
)

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger for lifecycle events. Nil keeps the discarding
// default.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithListener serves on ln instead of listening on Config.Addr.
func WithListener(ln net.Listener) Option {
	return func(s *Server) { s.listener = ln }
}

// Server runs an http.Server until its context ends, then drains in-flight
// requests for at most Config.ShutdownTimeout.
type Server struct {
	cfg      Config
	handler  http.Handler
	logger   *slog.Logger
	listener net.Listener
	running  atomic.Bool
}

func New(cfg Config, handler http.Handler, opts ...Option) *Server {
	if handler == nil {
		handler = http.NotFoundHandler()
	}
	s := &Server{
		cfg:     cfg.withDefaults(),
		handler: handler,
		logger:  logger.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run serves until ctx is cancelled or the server fails. A cancelled context
// is a clean stop and yields nil.
func (s *Server) Run(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}

	ln := s.listener
	if ln == nil {
		var err error
		if ln, err = net.Listen("tcp", s.cfg.Addr); err != nil {
			return errors.Join(ErrStart, err)
		}
	}

	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: s.cfg.ReadHeaderTimeout,
		ReadTimeout:       s.cfg.ReadTimeout,
		WriteTimeout:      s.cfg.WriteTimeout,
		IdleTimeout:       s.cfg.IdleTimeout,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
		ErrorLog:          slog.NewLogLogger(s.logger.Handler(), slog.LevelWarn),
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	s.logger.InfoContext(ctx, "http server started", slog.String("addr", ln.Addr().String()))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Join(ErrStart, err)
	case <-ctx.Done():
	}

	start := time.Now()
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		_ = srv.Close()
		return errors.Join(ErrShutdown, err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Join(ErrShutdown, err)
	}
	s.logger.InfoContext(shutdownCtx, "http server stopped", logger.Duration(time.Since(start)))
	return nil
}
