// Copyright (c) 2026 Lurnia. All rights reserved.
// Author: minh.tranduc.vn@gmail.com

package enrollment

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/minhtran/lurnia/internal/platform/request"
	"github.com/minhtran/lurnia/internal/platform/respond"
	"github.com/minhtran/lurnia/internal/platform/validate"
	"github.com/minhtran/lurnia/pkg/pagination"
)

// Handler implements the enrollment HTTP endpoints.
type Handler struct {
	enrollmentService *Service
	enrollments       Store
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service, enrollments Store) *Handler {
	return &Handler{enrollmentService: service, enrollments: enrollments}
}

// Middleware is the standard net/http middleware shape.
type Middleware = func(http.Handler) http.Handler

// Routes returns a [chi.Router] with the enrollment routes.
//
// # Endpoints
//   - POST /                                   : Enroll in a course.
//   - GET  /                                   : List own enrollments.
//   - DELETE /{enrollmentID}                   : Cancel.
//   - GET  /{enrollmentID}/progress            : Progress summary.
//   - POST /{enrollmentID}/lessons/{lessonID}/complete : Mark lesson done.
//
// Every route requires authentication; routes addressing a specific
// enrollment additionally verify ownership via [RequireOwn].
func (handler *Handler) Routes(requireAuth Middleware) chi.Router {
	router := chi.NewRouter()
	router.Use(requireAuth)

	router.Post("/", handler.enroll)
	router.Get("/", handler.list)

	router.Route("/{enrollmentID}", func(owned chi.Router) {
		owned.Use(RequireOwn(handler.enrollments, "enrollmentID"))
		owned.Delete("/", handler.cancel)
		owned.Get("/progress", handler.progress)
		owned.Post("/lessons/{lessonID}/complete", handler.completeLesson)
	})

	return router
}

// enroll handles POST /api/v1/enrollments.
//
// # Returns
//   - 201 Created with the new enrollment.
//   - 404 Not Found for unknown or unpublished courses.
//   - 409 Conflict when already enrolled.
func (handler *Handler) enroll(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input struct {
		CourseID string `json:"course_id"`
	}
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	v := &validate.Validator{}
	if err := v.
		Required("course_id", input.CourseID).
		UUID("course_id", input.CourseID).
		Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	enrollment, err := handler.enrollmentService.Enroll(request.Context(), principal.ID, input.CourseID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, map[string]any{"enrollment": enrollment})
}

// list handles GET /api/v1/enrollments.
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	page := pagination.FromRequest(request)
	enrollments, total, err := handler.enrollmentService.List(request.Context(), principal.ID, page)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, enrollments, pagination.NewMeta(page.Page, page.Limit, total))
}

// cancel handles DELETE /api/v1/enrollments/{enrollmentID}.
func (handler *Handler) cancel(writer http.ResponseWriter, request *http.Request) {
	enrollment := FromContext(request.Context())

	if err := handler.enrollmentService.Cancel(request.Context(), enrollment); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{"enrollment": enrollment})
}

// progress handles GET /api/v1/enrollments/{enrollmentID}/progress.
func (handler *Handler) progress(writer http.ResponseWriter, request *http.Request) {
	enrollment := FromContext(request.Context())

	summary, err := handler.enrollmentService.Progress(request.Context(), enrollment)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{"progress": summary})
}

// completeLesson handles
// POST /api/v1/enrollments/{enrollmentID}/lessons/{lessonID}/complete.
func (handler *Handler) completeLesson(writer http.ResponseWriter, request *http.Request) {
	enrollment := FromContext(request.Context())

	summary, err := handler.enrollmentService.CompleteLesson(
		request.Context(), enrollment, requestutil.Param(request, "lessonID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{"progress": summary})
}
