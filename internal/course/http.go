// Copyright (c) 2026 Lurnia. All rights reserved.
// Author: minh.tranduc.vn@gmail.com

package course

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/minhtran/lurnia/internal/platform/request"
	"github.com/minhtran/lurnia/internal/platform/respond"
	"github.com/minhtran/lurnia/internal/platform/validate"
	"github.com/minhtran/lurnia/pkg/pagination"
)

// Handler implements the catalogue HTTP endpoints.
type Handler struct {
	courseService *Service
	courses       CourseStore
}

// NewHandler constructs a new [Handler].
//
// The store is needed in addition to the service because the ownership guard
// ([RequireInstructorOf]) pre-fetches the course before the handler runs.
func NewHandler(service *Service, courses CourseStore) *Handler {
	return &Handler{courseService: service, courses: courses}
}

// Middleware is the standard net/http middleware shape.
type Middleware = func(http.Handler) http.Handler

// Routes returns a [chi.Router] with the catalogue routes.
//
// # Endpoints
//   - GET  /                        : Public paginated listing.
//   - GET  /{courseID}              : Public detail (drafts hidden).
//   - GET  /slug/{slug}             : Public detail by slug.
//   - GET  /{courseID}/lessons      : Public lesson listing (drafts hidden).
//   - POST /                        : Instructor/admin only.
//   - PATCH/DELETE /{courseID}, POST /{courseID}/publish,
//     lesson mutations              : Owning instructor or admin.
//
// requireInstructor gates course creation by role; mutations on an existing
// course additionally verify ownership via [RequireInstructorOf].
func (handler *Handler) Routes(requireInstructor Middleware) chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Get("/slug/{slug}", handler.getBySlug)
	router.Get("/{courseID}", handler.get)
	router.Get("/{courseID}/lessons", handler.listLessons)

	router.Group(func(protected chi.Router) {
		protected.Use(requireInstructor)
		protected.Post("/", handler.create)
	})

	router.Route("/{courseID}", func(owned chi.Router) {
		owned.Use(RequireInstructorOf(handler.courses, "courseID"))
		owned.Patch("/", handler.update)
		owned.Delete("/", handler.delete)
		owned.Post("/publish", handler.publish)
		owned.Post("/lessons", handler.addLesson)
		owned.Patch("/lessons/{lessonID}", handler.updateLesson)
		owned.Delete("/lessons/{lessonID}", handler.deleteLesson)
	})

	return router
}

// list handles GET /api/v1/courses.
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	page := pagination.FromRequest(request)
	category := request.URL.Query().Get("category")

	courses, total, err := handler.courseService.List(request.Context(), category, page)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, courses, pagination.NewMeta(page.Page, page.Limit, total))
}

// get handles GET /api/v1/courses/{courseID}.
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	course, err := handler.courseService.Get(
		request.Context(), requestutil.Param(request, "courseID"), requestutil.Principal(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{"course": course})
}

// getBySlug handles GET /api/v1/courses/slug/{slug}.
func (handler *Handler) getBySlug(writer http.ResponseWriter, request *http.Request) {
	course, err := handler.courseService.GetBySlug(
		request.Context(), requestutil.Param(request, "slug"), requestutil.Principal(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{"course": course})
}

// courseRequest is the shared JSON payload for course creation and updates.
type courseRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Level       string `json:"level"`
}

func (input courseRequest) validate() error {
	v := &validate.Validator{}
	return v.
		Required("title", input.Title).
		MaxLen("title", input.Title, 200).
		MaxLen("description", input.Description, 5000).
		Required("category", input.Category).
		MaxLen("category", input.Category, 60).
		OneOf("level", input.Level, string(LevelBeginner), string(LevelIntermediate), string(LevelAdvanced)).
		Err()
}

// create handles POST /api/v1/courses.
//
// # Returns
//   - 201 Created with the draft course.
//   - 409 Conflict if a course with the same slug already exists.
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input courseRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	if err := input.validate(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	course, err := handler.courseService.Create(request.Context(), principal.ID, CreateInput{
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Level:       Level(input.Level),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, map[string]any{"course": course})
}

// update handles PATCH /api/v1/courses/{courseID}.
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	course := FromContext(request.Context())

	var input courseRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	if err := input.validate(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	updated, err := handler.courseService.Update(request.Context(), course, UpdateInput{
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Level:       Level(input.Level),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{"course": updated})
}

// publish handles POST /api/v1/courses/{courseID}/publish.
func (handler *Handler) publish(writer http.ResponseWriter, request *http.Request) {
	course := FromContext(request.Context())

	if err := handler.courseService.Publish(request.Context(), course); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{"course": course})
}

// delete handles DELETE /api/v1/courses/{courseID}.
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	course := FromContext(request.Context())

	if err := handler.courseService.Delete(request.Context(), course.ID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// listLessons handles GET /api/v1/courses/{courseID}/lessons.
//
// Visibility follows the course: lessons of a draft are only served to the
// owning instructor or an admin.
func (handler *Handler) listLessons(writer http.ResponseWriter, request *http.Request) {
	course, err := handler.courseService.Get(
		request.Context(), requestutil.Param(request, "courseID"), requestutil.Principal(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	lessons, err := handler.courseService.ListLessons(request.Context(), course.ID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{"lessons": lessons})
}

// lessonRequest is the shared JSON payload for lesson creation and updates.
type lessonRequest struct {
	Title           string `json:"title"`
	Position        int    `json:"position"`
	Content         string `json:"content"`
	DurationMinutes int    `json:"duration_minutes"`
}

func (input lessonRequest) validate() error {
	v := &validate.Validator{}
	return v.
		Required("title", input.Title).
		MaxLen("title", input.Title, 200).
		Range("position", input.Position, 1, 10000).
		Range("duration_minutes", input.DurationMinutes, 0, 24*60).
		Err()
}

// addLesson handles POST /api/v1/courses/{courseID}/lessons.
func (handler *Handler) addLesson(writer http.ResponseWriter, request *http.Request) {
	course := FromContext(request.Context())

	var input lessonRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	if err := input.validate(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	lesson, err := handler.courseService.AddLesson(request.Context(), course.ID, LessonInput{
		Title:           input.Title,
		Position:        input.Position,
		Content:         input.Content,
		DurationMinutes: input.DurationMinutes,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, map[string]any{"lesson": lesson})
}

// updateLesson handles PATCH /api/v1/courses/{courseID}/lessons/{lessonID}.
func (handler *Handler) updateLesson(writer http.ResponseWriter, request *http.Request) {
	course := FromContext(request.Context())

	var input lessonRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	if err := input.validate(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	lesson, err := handler.courseService.UpdateLesson(
		request.Context(), course.ID, requestutil.Param(request, "lessonID"), LessonInput{
			Title:           input.Title,
			Position:        input.Position,
			Content:         input.Content,
			DurationMinutes: input.DurationMinutes,
		})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{"lesson": lesson})
}

// deleteLesson handles DELETE /api/v1/courses/{courseID}/lessons/{lessonID}.
func (handler *Handler) deleteLesson(writer http.ResponseWriter, request *http.Request) {
	course := FromContext(request.Context())

	if err := handler.courseService.DeleteLesson(
		request.Context(), course.ID, requestutil.Param(request, "lessonID")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
