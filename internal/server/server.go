// Package server wires the Connect services into an HTTP server.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"connectrpc.com/connect"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"golang.org/x/sync/errgroup"

	"github.com/mmynk/wildpay/internal/auth"
	"github.com/mmynk/wildpay/internal/config"
	"github.com/mmynk/wildpay/internal/events"
	"github.com/mmynk/wildpay/internal/metrics"
	"github.com/mmynk/wildpay/internal/middleware"
	"github.com/mmynk/wildpay/internal/service"
	"github.com/mmynk/wildpay/internal/storage"
	"github.com/mmynk/wildpay/pkg/api"
)

// Server serves the WildPay API over HTTP/1.1 and cleartext HTTP/2.
type Server struct {
	cfg       *config.Config
	store     storage.Store
	publisher events.Publisher
	metrics   *metrics.Metrics
	jwt       *auth.JWTManager
	auth      *auth.PasswordAuthenticator
}

// Option customises a Server.
type Option func(*Server)

// WithPublisher sends domain events to p instead of discarding them.
func WithPublisher(p events.Publisher) Option {
	return func(s *Server) { s.publisher = p }
}

// WithMetrics records RPC and settlement metrics and serves /metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// WithAuthenticator replaces the default password authenticator.
func WithAuthenticator(a *auth.PasswordAuthenticator) Option {
	return func(s *Server) { s.auth = a }
}

// New builds a server. It does not start listening.
func New(cfg *config.Config, store storage.Store, opts ...Option) *Server {
	s := &Server{
		cfg:       cfg,
		store:     store,
		publisher: events.Noop{},
		jwt:       auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.auth == nil {
		s.auth = auth.NewPasswordAuthenticator(store)
	}
	return s
}

// Handler returns the full HTTP handler, including middleware.
func (s *Server) Handler() http.Handler {
	// Auth runs first so the logging interceptor sees the caller's ID.
	observe := []connect.Interceptor{
		middleware.LoggingInterceptor(),
		middleware.MetricsInterceptor(s.metrics),
	}
	authenticated := connect.WithInterceptors(append([]connect.Interceptor{middleware.RequireAuth(s.jwt)}, observe...)...)
	optional := connect.WithInterceptors(append([]connect.Interceptor{middleware.OptionalAuth(s.jwt)}, observe...)...)

	mux := http.NewServeMux()
	mux.Handle(api.NewAuthServiceHandler(
		service.NewAuthService(s.auth, s.jwt, s.store, slog.Default()), optional))
	mux.Handle(api.NewGroupServiceHandler(
		service.NewGroupService(s.store), authenticated))
	mux.Handle(api.NewExpenditureServiceHandler(
		service.NewExpenditureService(s.store, s.publisher), authenticated))
	mux.Handle(api.NewSettlementServiceHandler(
		service.NewSettlementService(s.store, s.publisher, s.metrics), authenticated))

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics.Handler())
	}

	return loggingMiddleware(corsMiddleware(mux))
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr(),
		Handler:           h2c.NewHandler(s.Handler(), &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("Connect server starting", "address", srv.Addr, "url", fmt.Sprintf("http://localhost%s", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutting down server", "timeout", s.cfg.ShutdownTimeout)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
