// Copyright (c) 2026 Lurnia. All rights reserved.
// Author: minh.tranduc.vn@gmail.com

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/minhtran/lurnia/internal/platform/request"
	"github.com/minhtran/lurnia/internal/platform/respond"
	"github.com/minhtran/lurnia/internal/platform/validate"
)

// Handler implements authentication-related HTTP endpoints.
//
// # Scope
//
// This handler manages everything related to the account lifecycle entry
// points (registration, login, verification, password reset, profile).
// It contains no business logic or database queries.
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Middleware is the standard net/http middleware shape.
type Middleware = func(http.Handler) http.Handler

// Routes returns a [chi.Router] configured with authentication routes.
//
// # Endpoints
//   - POST /register        : Creates a new account (201 + token).
//   - POST /login           : Authenticates and returns a token.
//   - POST /logout          : Clears the bearer cookie.
//   - POST /verify-email    : Consumes an email verification token.
//   - POST /forgot-password : Requests a password reset token.
//   - POST /reset-password  : Consumes a reset token.
//   - GET/PATCH /me, POST /change-password, DELETE /me : authenticated.
//
// The requireAuth guard is injected by the composition root so this package
// stays free of middleware dependencies.
func (handler *Handler) Routes(requireAuth Middleware) chi.Router {
	router := chi.NewRouter()

	router.Post("/register", handler.register)
	router.Post("/login", handler.login)
	router.Post("/logout", handler.logout)
	router.Post("/verify-email", handler.verifyEmail)
	router.Post("/forgot-password", handler.forgotPassword)
	router.Post("/reset-password", handler.resetPassword)

	router.Group(func(protected chi.Router) {
		protected.Use(requireAuth)
		protected.Get("/me", handler.me)
		protected.Patch("/me", handler.updateProfile)
		protected.Delete("/me", handler.deactivate)
		protected.Post("/change-password", handler.changePassword)
	})

	return router
}

// registerRequest represents the JSON payload expected for account creation.
type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

// register handles POST /api/v1/auth/register requests.
//
// # Returns
//   - 201 Created with the account profile and a bearer token.
//   - 400 Bad Request if validation rules fail.
//   - 409 Conflict if the email is taken.
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	// ── 1. Payload Extraction ─────────────────────────────────────────────

	var input registerRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 2. Boundary Validation ────────────────────────────────────────────

	v := &validate.Validator{}
	if err := v.
		Required("email", input.Email).
		Email("email", input.Email).
		Password("password", input.Password).
		MaxLen("full_name", input.FullName, 120).
		Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 3. Application Execution ──────────────────────────────────────────

	result, err := handler.authService.Register(request.Context(), RegisterInput{
		Email:    input.Email,
		Password: input.Password,
		FullName: input.FullName,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 4. Presentation Output ────────────────────────────────────────────

	// The User JSON projection excludes the password hash by construction.
	respond.WithToken(writer, http.StatusCreated, map[string]any{"user": result.User}, result.Token)
}

// loginRequest represents the JSON payload expected for authentication.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// login handles POST /api/v1/auth/login requests.
//
// # Returns
//   - 200 OK with a bearer token and the account profile.
//   - 401 Unauthorized for bad credentials or deactivated accounts.
//   - 423 Locked while the lockout window is active.
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if input.Email == "" || input.Password == "" {
		respond.Error(writer, request, validate.RequiredError("email/password", "are required"))
		return
	}

	result, err := handler.authService.Login(request.Context(), LoginInput{
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		// 401 without leaking whether the email or the password was wrong.
		respond.Error(writer, request, err)
		return
	}

	respond.WithToken(writer, http.StatusOK, map[string]any{"user": result.User}, result.Token)
}

// logout handles POST /api/v1/auth/logout.
//
// Access tokens are stateless, so logout amounts to expiring the bearer
// cookie for browser clients; header-based clients simply drop the token.
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	http.SetCookie(writer, &http.Cookie{
		Name:     "jwt",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	respond.Message(writer, "Logged out")
}

// tokenRequest is the shared payload for token-consuming endpoints.
type tokenRequest struct {
	Token string `json:"token"`
}

// verifyEmail handles POST /api/v1/auth/verify-email.
func (handler *Handler) verifyEmail(writer http.ResponseWriter, request *http.Request) {
	var input tokenRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if input.Token == "" {
		respond.Error(writer, request, validate.RequiredError("token", "is required"))
		return
	}

	if err := handler.authService.VerifyEmail(request.Context(), input.Token); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Message(writer, "Email verified")
}

// forgotPassword handles POST /api/v1/auth/forgot-password.
//
// Always answers 200 with the same message so the endpoint cannot be used to
// probe which emails are registered.
func (handler *Handler) forgotPassword(writer http.ResponseWriter, request *http.Request) {
	var input struct {
		Email string `json:"email"`
	}
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	v := &validate.Validator{}
	if err := v.Required("email", input.Email).Email("email", input.Email).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.RequestPasswordReset(request.Context(), input.Email); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Message(writer, "If that email is registered, a reset link has been sent")
}

// resetPasswordRequest is the payload for POST /reset-password.
type resetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// resetPassword handles POST /api/v1/auth/reset-password.
func (handler *Handler) resetPassword(writer http.ResponseWriter, request *http.Request) {
	var input resetPasswordRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	v := &validate.Validator{}
	if err := v.
		Required("token", input.Token).
		Password("password", input.Password).
		Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.ResetPassword(request.Context(), input.Token, input.Password); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Message(writer, "Password has been reset")
}

// me handles GET /api/v1/auth/me.
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.Profile(request.Context(), principal.ID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{"user": user})
}

// updateProfile handles PATCH /api/v1/auth/me.
func (handler *Handler) updateProfile(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input struct {
		FullName string `json:"full_name"`
	}
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	v := &validate.Validator{}
	if err := v.
		Required("full_name", input.FullName).
		MaxLen("full_name", input.FullName, 120).
		Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.UpdateProfile(request.Context(), principal.ID, UpdateProfileInput{
		FullName: input.FullName,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{"user": user})
}

// deactivate handles DELETE /api/v1/auth/me.
func (handler *Handler) deactivate(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.Deactivate(request.Context(), principal.ID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Message(writer, "Account deactivated")
}

// changePasswordRequest is the payload for POST /change-password.
type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// changePassword handles POST /api/v1/auth/change-password.
//
// The response carries a fresh token: rotating the password invalidates every
// previously issued token, including the one that authenticated this call.
func (handler *Handler) changePassword(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input changePasswordRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	v := &validate.Validator{}
	if err := v.
		Required("current_password", input.CurrentPassword).
		Password("new_password", input.NewPassword).
		Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.authService.ChangePassword(
		request.Context(), principal.ID, input.CurrentPassword, input.NewPassword)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.WithToken(writer, http.StatusOK, map[string]any{"user": result.User}, result.Token)
}
