// Copyright (c) 2026 Lurnia. All rights reserved.
// Author: minh.tranduc.vn@gmail.com

package enrollment

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/minhtran/lurnia/internal/platform/apperr"
	"github.com/minhtran/lurnia/internal/platform/ctxkey"
	"github.com/minhtran/lurnia/internal/platform/ctxutil"
	"github.com/minhtran/lurnia/internal/platform/respond"
)

// WithEnrollment returns a new context with the pre-fetched enrollment attached.
func WithEnrollment(ctx context.Context, enrollment *Enrollment) context.Context {
	return context.WithValue(ctx, ctxkey.KeyEnrollment, enrollment)
}

// FromContext retrieves the enrollment attached by [RequireOwn].
// Returns nil when no guard ran on the route.
func FromContext(ctx context.Context) *Enrollment {
	enrollment, _ := ctx.Value(ctxkey.KeyEnrollment).(*Enrollment)
	return enrollment
}

// RequireOwn builds a relationship guard over the enrollment named by the
// route parameter.
//
// An enrollment that exists but belongs to someone else answers 404 rather
// than 403 for non-admins, so enrollment IDs cannot be probed. On success the
// enrollment is attached to the context.
func RequireOwn(store Store, param string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			principal := ctxutil.GetPrincipal(request.Context())
			if principal == nil {
				respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
				return
			}

			enrollmentID := chi.URLParam(request, param)
			enrollment, err := store.FindByID(request.Context(), enrollmentID)
			if err != nil {
				respond.Error(writer, request, err)
				return
			}

			if !principal.IsAdmin() && principal.ID != enrollment.UserID {
				respond.Error(writer, request, apperr.NotFound("Enrollment"))
				return
			}

			ctx := WithEnrollment(request.Context(), enrollment)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}
