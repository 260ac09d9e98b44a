// Copyright (c) 2026 Kavomjer. All rights reserved.
// Author: dario.vukelic.dev@gmail.com

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/api are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/dvukelic/kavomjer/internal/admin"
	"github.com/dvukelic/kavomjer/internal/catalog"
	"github.com/dvukelic/kavomjer/internal/platform/config"
	"github.com/dvukelic/kavomjer/internal/platform/constants"
	"github.com/dvukelic/kavomjer/internal/platform/middleware"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
//
// # Usage
//
// New domains add a field here — no other change to server.go is required.
type Handlers struct {
	// Liveness is the /health handler — always returns 200 if process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler — returns 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// Auth handles the admin login route.
	Auth *admin.Handler

	// Catalog handles coffees, brands, countries, stores, and price history.
	Catalog *catalog.Handler
}

// # Server Initialization

/*
NewServer constructs the chi router with the full middleware chain and
registers all route groups.

Middleware order is load-bearing:

 1. RequestID — every later log line carries the correlation ID.
 2. StructuredLogger — observes the final status of everything below.
 3. SecureHeaders — stamped before any handler can write.
 4. CORS — disallowed origins are rejected before they cost a rate slot.
 5. PanicRecovery — a panic still gets headers and a log line.

The general limiter (100 requests / 15 min / IP) guards the /api group
only: health probes and static image serving must never consume its
budget. The per-route write/upload/login limiters are wired inside the
handlers.
*/
func NewServer(cfg *config.Config, log *slog.Logger, generalLimiter *middleware.Limiter, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.SecureHeaders())
	r.Use(middleware.CORS(cfg.Origins(constants.DevOrigins)))
	r.Use(middleware.PanicRecovery(log))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	// Unauthenticated health probes for container orchestration.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # Application API
	// The shared budget applies to API traffic only.
	r.Route("/api", func(api chi.Router) {
		api.Use(generalLimiter.Middleware())
		api.Mount("/auth", h.Auth.Routes())
		api.Mount("/", h.Catalog.Routes())
	})

	// # Static Uploads
	// Coffee images are served straight from disk under /uploads.
	fileServer := http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadDir())))
	r.Get("/uploads/*", func(writer http.ResponseWriter, request *http.Request) {
		fileServer.ServeHTTP(writer, request)
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// Handler exposes the fully wired router, primarily for in-process tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
