// Copyright (c) 2026 Lurnia. All rights reserved.
// Author: minh.tranduc.vn@gmail.com

package analytics

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/minhtran/lurnia/internal/platform/request"
	"github.com/minhtran/lurnia/internal/platform/respond"
)

// Handler implements the analytics HTTP endpoints.
type Handler struct {
	analyticsService *Service
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{analyticsService: service}
}

// Middleware is the standard net/http middleware shape.
type Middleware = func(http.Handler) http.Handler

// Routes returns a [chi.Router] with the analytics routes.
//
// # Endpoints
//   - GET /courses/{courseID} : Course numbers, gated by requireCourseAccess
//     (owning instructor or admin).
//   - GET /platform           : Platform totals, gated by requireAdmin.
//
// Both guards are injected by the composition root.
func (handler *Handler) Routes(requireCourseAccess, requireAdmin Middleware) chi.Router {
	router := chi.NewRouter()

	router.With(requireCourseAccess).Get("/courses/{courseID}", handler.courseStats)
	router.With(requireAdmin).Get("/platform", handler.platformStats)

	return router
}

// courseStats handles GET /api/v1/analytics/courses/{courseID}.
func (handler *Handler) courseStats(writer http.ResponseWriter, request *http.Request) {
	stats, err := handler.analyticsService.CourseStats(
		request.Context(), requestutil.Param(request, "courseID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{"stats": stats})
}

// platformStats handles GET /api/v1/analytics/platform.
func (handler *Handler) platformStats(writer http.ResponseWriter, request *http.Request) {
	stats, err := handler.analyticsService.PlatformStats(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{"stats": stats})
}
