// Copyright (c) 2026 Lurnia. All rights reserved.
// Author: minh.tranduc.vn@gmail.com

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

	"github.com/minhtran/lurnia/internal/analytics"
	"github.com/minhtran/lurnia/internal/auth"
	"github.com/minhtran/lurnia/internal/course"
	"github.com/minhtran/lurnia/internal/enrollment"
	"github.com/minhtran/lurnia/internal/platform/config"
	"github.com/minhtran/lurnia/internal/platform/constants"
	"github.com/minhtran/lurnia/internal/platform/middleware"
	"github.com/minhtran/lurnia/internal/platform/sec"
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

	// Auth handles the account lifecycle (register, login, profile, reset).
	Auth *auth.Handler

	// Course handles the catalogue: courses and their lessons.
	Course *course.Handler

	// Enrollment handles student participation and progress tracking.
	Enrollment *enrollment.Handler

	// Analytics serves instructor and admin statistics.
	Analytics *analytics.Handler

	// CourseOwner gates analytics course routes: owning instructor or admin.
	// Built in main from the course store so this package needs no store access.
	CourseOwner func(http.Handler) http.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
func NewServer(appContext context.Context, cfg *config.Config, log *slog.Logger, codec sec.TokenCodec, resolver middleware.IdentityResolver, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(appContext))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.Environment(cfg))
	r.Use(middleware.Authenticate(codec, resolver))
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	// Unauthenticated health probes for container orchestration.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # Application API
	// Domain-specific route groups mounted under versioned prefix. Role and
	// ownership guards are injected here so handler packages never depend on
	// the middleware package.
	r.Route("/api/v1", func(api chi.Router) {
		api.Mount("/auth", h.Auth.Routes(middleware.RequireAuth))
		api.Mount("/courses", h.Course.Routes(middleware.RequireRole(sec.RoleInstructor, sec.RoleAdmin)))
		api.Mount("/enrollments", h.Enrollment.Routes(middleware.RequireAuth))
		api.Mount("/analytics", h.Analytics.Routes(h.CourseOwner, middleware.RequireRole(sec.RoleAdmin)))
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
