// Copyright (c) 2026 Lurnia. All rights reserved.
// Author: minh.tranduc.vn@gmail.com

package course

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/minhtran/lurnia/internal/platform/apperr"
	"github.com/minhtran/lurnia/internal/platform/ctxkey"
	"github.com/minhtran/lurnia/internal/platform/ctxutil"
	"github.com/minhtran/lurnia/internal/platform/respond"
)

// WithCourse returns a new context with the pre-fetched course attached.
func WithCourse(ctx context.Context, course *Course) context.Context {
	return context.WithValue(ctx, ctxkey.KeyCourse, course)
}

// FromContext retrieves the course attached by [RequireInstructorOf].
// Returns nil when no guard ran on the route.
func FromContext(ctx context.Context) *Course {
	course, _ := ctx.Value(ctxkey.KeyCourse).(*Course)
	return course
}

// RequireInstructorOf builds a relationship guard over the course named by
// the route parameter.
//
// # Flow
//  1. Unauthenticated requests are rejected (401).
//  2. The course is fetched; an unknown ID yields 404, keeping the catalogue
//     unenumerable.
//  3. The request proceeds only when the identity is an admin or the owning
//     instructor (403 otherwise).
//  4. On success the course is attached to the context so the handler does
//     not repeat the lookup.
func RequireInstructorOf(store CourseStore, param string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			principal := ctxutil.GetPrincipal(request.Context())
			if principal == nil {
				respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
				return
			}

			courseID := chi.URLParam(request, param)
			course, err := store.FindByID(request.Context(), courseID)
			if err != nil {
				respond.Error(writer, request, err)
				return
			}

			if !principal.IsAdmin() && principal.ID != course.InstructorID {
				respond.Error(writer, request, apperr.Forbidden("Only the course instructor may perform this action"))
				return
			}

			ctx := WithCourse(request.Context(), course)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}
