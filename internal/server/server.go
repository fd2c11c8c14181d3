// Package server wires the HTTP API: routes, middleware chain and graceful
// shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/skripsit/backend/internal/config"
	"github.com/skripsit/backend/internal/server/handlers"
	"github.com/skripsit/backend/internal/server/middleware"
	"github.com/skripsit/backend/internal/server/storage"
	"github.com/skripsit/backend/internal/server/token"
)

// Server is the HTTP front of the application.
type Server struct {
	logger     *slog.Logger
	cfg        config.Config
	httpServer *http.Server
}

// New builds the server with all routes and middleware attached.
func New(
	logger *slog.Logger,
	cfg config.Config,
	users storage.UserStorage,
	profiles storage.ProfileStorage,
	revoked storage.RevocationStore,
	version string,
) *Server {
	tokenConfig := token.Config{
		Secret:       []byte(cfg.JWTSecret),
		SessionTTL:   cfg.SessionTTL,
		CookieSecure: cfg.CookieSecure,
	}

	authHandler := handlers.NewAuthHandler(logger, users, revoked, tokenConfig, cfg.ResetTokenTTL)
	userHandler := handlers.NewUserHandler(logger, users, profiles)
	adminHandler := handlers.NewAdminHandler(logger, users)
	healthHandler := handlers.NewHealthHandler(logger, version)

	auth := middleware.Auth(logger, users, revoked, tokenConfig)
	admin := middleware.RequireAdmin(logger)

	mux := http.NewServeMux()

	// Public routes
	mux.HandleFunc("POST /api/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.HandleFunc("POST /api/auth/logout", authHandler.Logout)
	mux.HandleFunc("POST /api/auth/reset-password-request", authHandler.ResetPasswordRequest)
	mux.HandleFunc("GET /api/health", healthHandler.Health)
	mux.Handle("GET /metrics", promhttp.Handler())

	// Session-protected routes
	mux.Handle("GET /api/auth/verify", auth(http.HandlerFunc(authHandler.Verify)))
	mux.Handle("GET /api/auth/role", auth(http.HandlerFunc(authHandler.Role)))
	mux.Handle("POST /api/user/complete-profile", auth(http.HandlerFunc(userHandler.CompleteProfile)))
	mux.Handle("GET /api/user/profile", auth(http.HandlerFunc(userHandler.Profile)))
	mux.Handle("GET /api/user/verification-status", auth(http.HandlerFunc(userHandler.VerificationStatus)))

	// Admin routes
	mux.Handle("GET /api/admin/users", auth(admin(http.HandlerFunc(adminHandler.Users))))
	mux.Handle("GET /api/admin/users/{id}", auth(admin(http.HandlerFunc(adminHandler.UserDetails))))

	var handler http.Handler = mux
	handler = middleware.RateLimit(logger, "/api/auth/", cfg.AuthRatePerMin, cfg.AuthRateBurst)(handler)
	handler = middleware.Metrics()(handler)
	handler = middleware.LoggingWithSkip(logger, []string{"/api/health", "/metrics"})(handler)
	handler = middleware.Recovery(logger)(handler)

	return &Server{
		logger: logger,
		cfg:    cfg,
		httpServer: &http.Server{
			Addr:              cfg.ListenAddr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
	}
}

// Handler returns the fully wired handler for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("HTTP server listening", "addr", s.cfg.ListenAddr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s.logger.Info("shutting down HTTP server")
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	return nil
}
