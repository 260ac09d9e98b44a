// Copyright (c) 2026 Kavomjer. All rights reserved.
// Author: dario.vukelic.dev@gmail.com

// Command api is the entry point for the Kavomjer HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables (fail-fast secret gate).
//  3. Open the flat-file catalog store.
//  4. Connect to Redis when REDIS_URL is set (shared rate-limit counters).
//  5. Wire auth, rate limiters, and catalog handlers.
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

	"github.com/dvukelic/kavomjer/internal/admin"
	"github.com/dvukelic/kavomjer/internal/api"
	"github.com/dvukelic/kavomjer/internal/catalog"
	"github.com/dvukelic/kavomjer/internal/platform/config"
	"github.com/dvukelic/kavomjer/internal/platform/constants"
	"github.com/dvukelic/kavomjer/internal/platform/jsonstore"
	"github.com/dvukelic/kavomjer/internal/platform/middleware"
	redisstore "github.com/dvukelic/kavomjer/internal/platform/redis"
	"github.com/dvukelic/kavomjer/internal/platform/sec"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", "kavomjer-api"))
	slog.SetDefault(log)

	log.Info("[Kavomjer] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load(log)
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", "kavomjer-api"))
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

	// ── 3. Catalog Storage ────────────────────────────────────────────────
	store, err := jsonstore.New(cfg.DataDir)
	must(log, err, "open data directory")
	must(log, os.MkdirAll(cfg.UploadDir(), 0o755), "create upload directory")

	// ── 4. Rate-Limit Counters ────────────────────────────────────────────
	// Process-local by default; Redis-backed when REDIS_URL is set so all
	// instances share one budget per client.
	var counters middleware.CounterStore = middleware.NewMemoryCounterStore()
	var checkCache func() error

	if cfg.RedisURL != "" {
		rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
		must(log, err, "connect to redis")
		defer func() {
			log.Info("closing redis client")
			if cerr := rdb.Close(); cerr != nil {
				log.Error("redis close error", slog.Any("error", cerr))
			}
		}()

		counters = middleware.NewRedisCounterStore(rdb)
		checkCache = func() error {
			return redisstore.Ping(context.Background(), rdb)
		}
	}

	generalLimiter := middleware.NewLimiter(counters, "general", constants.GeneralRateMax, constants.GeneralRateWindow)
	loginLimiter := middleware.NewLimiter(counters, "login", constants.LoginRateMax, constants.LoginRateWindow)
	writeLimiter := middleware.NewLimiter(counters, "write", constants.WriteRateMax, constants.WriteRateWindow)
	uploadLimiter := middleware.NewLimiter(counters, "upload", constants.UploadRateMax, constants.UploadRateWindow)

	// ── 5. Auth Service ───────────────────────────────────────────────────
	jwtSvc := sec.NewTokenService(cfg.JWTSecret, constants.AuthIssuer, constants.SessionTokenTTL)

	// ── 6. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckStorage: store.Ping,
		CheckCache:   checkCache,
	}, log)

	// ── 7. Domain Wiring ──────────────────────────────────────────────────
	authService := admin.NewService(cfg, jwtSvc)
	authHandler := admin.NewHandler(authService, loginLimiter)

	catalogRepository := catalog.NewJSONRepository(store)
	catalogService := catalog.NewService(catalogRepository)
	catalogHandler := catalog.NewHandler(
		catalogService,
		cfg.UploadDir(),
		middleware.RequireAdmin(jwtSvc),
		writeLimiter.Middleware(),
		uploadLimiter.Middleware(),
	)

	// ── 8. HTTP Server ────────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      authHandler,
		Catalog:   catalogHandler,
	}

	server := api.NewServer(cfg, log, generalLimiter, handlers)

	// ── 9. Graceful Shutdown ──────────────────────────────────────────────
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
