// Copyright (c) 2026 Lurnia. All rights reserved.
// Author: minh.tranduc.vn@gmail.com

package enrollment_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhtran/lurnia/internal/enrollment"
	"github.com/minhtran/lurnia/internal/platform/ctxutil"
	"github.com/minhtran/lurnia/internal/platform/sec"
)

func runRequireOwn(t *testing.T, store enrollment.Store, enrollmentID string, principal *sec.Principal) (*httptest.ResponseRecorder, *enrollment.Enrollment) {
	t.Helper()

	var attached *enrollment.Enrollment
	router := chi.NewRouter()
	router.With(enrollment.RequireOwn(store, "enrollmentID")).
		Get("/enrollments/{enrollmentID}", func(writer http.ResponseWriter, request *http.Request) {
			attached = enrollment.FromContext(request.Context())
			writer.WriteHeader(http.StatusOK)
		})

	request := httptest.NewRequest(http.MethodGet, "/enrollments/"+enrollmentID, nil)
	if principal != nil {
		request = request.WithContext(ctxutil.WithPrincipal(request.Context(), principal))
	}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	return recorder, attached
}

/*
TestRequireOwn verifies the ownership guard: foreign enrollments are
indistinguishable from missing ones (404, not 403), while the owner and
admins pass through with the enrollment attached to the context.
*/
func TestRequireOwn(t *testing.T) {
	store := newMemoryEnrollmentStore()
	owned := &enrollment.Enrollment{
		ID:         "enr-1",
		CourseID:   "course-1",
		UserID:     "student-1",
		Status:     enrollment.StatusActive,
		EnrolledAt: time.Date(2026, 5, 20, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.Create(context.Background(), owned))

	tests := []struct {
		name         string
		enrollmentID string
		principal    *sec.Principal
		wantStatus   int
	}{
		{"anonymous", "enr-1", nil, http.StatusUnauthorized},
		{"unknown_enrollment", "enr-404", &sec.Principal{ID: "student-1", Role: sec.RoleStudent}, http.StatusNotFound},
		{"foreign_user", "enr-1", &sec.Principal{ID: "student-2", Role: sec.RoleStudent}, http.StatusNotFound},
		{"owner", "enr-1", &sec.Principal{ID: "student-1", Role: sec.RoleStudent}, http.StatusOK},
		{"admin", "enr-1", &sec.Principal{ID: "root", Role: sec.RoleAdmin}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder, attached := runRequireOwn(t, store, tt.enrollmentID, tt.principal)

			assert.Equal(t, tt.wantStatus, recorder.Code)
			if tt.wantStatus == http.StatusOK {
				require.NotNil(t, attached)
				assert.Equal(t, "enr-1", attached.ID)
			}
		})
	}
}
