// Copyright (c) 2026 Ticketflow. All rights reserved.

// Command gateway is the entry point for the Ticketflow browser gateway.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to Redis (session storage).
//  4. Construct the ticket backend client.
//  5. Wire HTTP handlers.
//  6. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ticketflow/gateway/internal/api"
	"github.com/ticketflow/gateway/internal/auth"
	"github.com/ticketflow/gateway/internal/backend"
	"github.com/ticketflow/gateway/internal/chat"
	"github.com/ticketflow/gateway/internal/dashboard"
	"github.com/ticketflow/gateway/internal/platform/config"
	"github.com/ticketflow/gateway/internal/platform/constants"
	"github.com/ticketflow/gateway/internal/platform/middleware"
	redisstore "github.com/ticketflow/gateway/internal/platform/redis"
	"github.com/ticketflow/gateway/internal/session"
	"github.com/ticketflow/gateway/internal/tickets"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", constants.AppName))
	slog.SetDefault(log)

	log.Info("[Ticketflow] gateway_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", constants.AppName))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// ── 4. Backend Client ─────────────────────────────────────────────────
	ticketBackend := backend.NewClient(cfg.BackendURL, log)

	// ── 5. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckSessionStore: func() error {
			return redisstore.Ping(context.Background(), rdb)
		},
		CheckBackend: func() error {
			return ticketBackend.Ping(context.Background())
		},
	}, log)

	// ── 6. Domain Wiring ──────────────────────────────────────────────────
	// Lifetime context for background routines (rate limiter cleanup).
	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()

	sessionRepository := session.NewRedisRepository(rdb)
	sessionStore := session.NewStore(sessionRepository, log)

	authService := auth.NewService(ticketBackend, sessionStore)
	loginLimiter := middleware.RateLimit(appCtx, constants.LoginRateLimitRPS, constants.LoginRateLimitBurst)
	authHandler := auth.NewHandler(authService, loginLimiter)

	ticketsHandler := tickets.NewHandler(ticketBackend)
	dashboardHandler := dashboard.NewHandler(ticketBackend)
	chatHandler := chat.NewHandler(ticketBackend)

	// ── 7. HTTP Server ────────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      authHandler,
		Tickets:   ticketsHandler,
		Dashboard: dashboardHandler,
		Chat:      chatHandler,
	}

	server := api.NewServer(appCtx, cfg, log, sessionStore, handlers)

	// ── 8. Graceful Shutdown ──────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
