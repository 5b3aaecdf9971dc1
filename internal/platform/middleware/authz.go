// Copyright (c) 2026 Lurnia. All rights reserved.
// Author: minh.tranduc.vn@gmail.com

package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/minhtran/lurnia/internal/auth"
	"github.com/minhtran/lurnia/internal/platform/apperr"
	"github.com/minhtran/lurnia/internal/platform/constants"
	"github.com/minhtran/lurnia/internal/platform/ctxutil"
	"github.com/minhtran/lurnia/internal/platform/respond"
	"github.com/minhtran/lurnia/internal/platform/sec"
)

// IdentityResolver loads the live account record referenced by a token.
//
// # Why an interface?
//
// Defining IdentityResolver here decouples the middleware from the concrete
// store implementation, allowing unit tests to inject in-memory fakes.
type IdentityResolver interface {
	FindByID(ctx context.Context, id string) (*auth.User, error)
}

// Authenticate verifies the bearer token and account state on every request
// that presents credentials.
//
// # Flow
//  1. Extract the token from 'Authorization: Bearer <token>' or, failing
//     that, from the cookie named "jwt".
//  2. No token: request proceeds as anonymous (RequireAuth decides whether
//     anonymity is acceptable per route).
//  3. Decode via the [sec.TokenCodec]; reject invalid/expired tokens (401).
//  4. Resolve the live account; reject when it no longer exists (401).
//  5. Validate account state in order: deactivated (401), locked (423),
//     token issued before the last password change (401).
//  6. Attach the [*sec.Principal] projection to the request context.
func Authenticate(codec sec.TokenCodec, resolver IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			token, ok := extractToken(request)
			if !ok {
				// ── Anonymous Access ──────────────────────────────────────
				next.ServeHTTP(writer, request)
				return
			}

			principal, err := resolvePrincipal(request.Context(), codec, resolver, token)
			if err != nil {
				respond.Error(writer, request, err)
				return
			}

			ctx := ctxutil.WithPrincipal(request.Context(), principal)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// AuthenticateOptional runs the same pipeline as [Authenticate] but never
// rejects: any failure (bad token, vanished account, locked, stale) simply
// yields an anonymous request. Used on routes that personalize output for
// logged-in users but remain public.
func AuthenticateOptional(codec sec.TokenCodec, resolver IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			token, ok := extractToken(request)
			if !ok {
				next.ServeHTTP(writer, request)
				return
			}

			principal, err := resolvePrincipal(request.Context(), codec, resolver, token)
			if err != nil {
				// Swallow the failure: no identity attached, no error surfaced.
				next.ServeHTTP(writer, request)
				return
			}

			ctx := ctxutil.WithPrincipal(request.Context(), principal)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// extractToken pulls the bearer token from the Authorization header or the
// fallback cookie. The second return reports whether a token was presented.
func extractToken(request *http.Request) (string, bool) {
	authHeader := request.Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") && parts[1] != "" {
			return parts[1], true
		}
		// A malformed header counts as a presented (invalid) token so the
		// caller gets a 401 instead of silently running anonymous.
		return "", true
	}

	if cookie, err := request.Cookie(constants.BearerCookieName); err == nil && cookie.Value != "" {
		return cookie.Value, true
	}

	return "", false
}

// resolvePrincipal performs decode → resolve → state validation and builds
// the request identity. Every failure maps onto the uniform 401/423 shape.
func resolvePrincipal(ctx context.Context, codec sec.TokenCodec, resolver IdentityResolver, token string) (*sec.Principal, error) {
	// ── 1. Decode ─────────────────────────────────────────────────────────

	claims, err := codec.Decode(token)
	if err != nil {
		if errors.Is(err, sec.ErrTokenExpired) {
			return nil, apperr.Unauthorized("Token has expired. Please log in again.")
		}
		return nil, apperr.Unauthorized("Invalid authentication token")
	}

	// ── 2. Resolve ────────────────────────────────────────────────────────

	user, err := resolver.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, apperr.Unauthorized("The account belonging to this token no longer exists")
	}

	// ── 3. Validate Account State (ordered, first failure wins) ───────────

	if !user.Active {
		return nil, apperr.Unauthorized("Account is deactivated")
	}

	if user.LockedAt(time.Now()) {
		return nil, apperr.Locked("Account is temporarily locked")
	}

	if user.TokenStale(claims.IssuedAt) {
		return nil, apperr.Unauthorized("Password was changed after this token was issued. Please log in again.")
	}

	return user.Principal(claims.IssuedAt), nil
}

// # Route Guards

// RequireAuth blocks requests that are not authenticated.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate].
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if ctxutil.GetPrincipal(request.Context()) == nil {
			respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// RequireVerified blocks authenticated accounts that have not confirmed
// their email address. Implies [RequireAuth].
func RequireVerified(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		principal := ctxutil.GetPrincipal(request.Context())
		if principal == nil {
			respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
			return
		}
		if !principal.Verified {
			respond.Error(writer, request, apperr.Unauthorized("Please verify your email address to access this resource"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// RequireRole blocks requests whose authenticated role is not in the
// allowed set. It automatically implies [RequireAuth].
//
// Roles are an explicit typed allow-list per route — [sec.Role] values,
// never raw strings from the request.
func RequireRole(allowed ...sec.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			principal := ctxutil.GetPrincipal(request.Context())

			// ── 1. Authentication Check ───────────────────────────────────
			if principal == nil {
				respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
				return
			}

			// ── 2. Authorization Check ────────────────────────────────────
			if !principal.Role.OneOf(allowed...) {
				respond.Error(writer, request, apperr.Forbidden("Insufficient permissions"))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// RequireOwnerOrAdmin authorizes the request when the authenticated account
// is an admin, or when its ID equals the route parameter named by param.
func RequireOwnerOrAdmin(param string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			principal := ctxutil.GetPrincipal(request.Context())
			if principal == nil {
				respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
				return
			}

			ownerID := chi.URLParam(request, param)
			if !principal.IsAdmin() && principal.ID != ownerID {
				respond.Error(writer, request, apperr.Forbidden("You do not own this resource"))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// # Disjunctive Authorization

// Check is a single authorization predicate over the request and the
// authenticated identity. A nil return authorizes the request.
type Check func(request *http.Request, principal *sec.Principal) error

// HasRole builds a [Check] that passes when the identity holds the role.
func HasRole(role sec.Role) Check {
	return func(_ *http.Request, principal *sec.Principal) error {
		if principal.Role == role {
			return nil
		}
		return apperr.Forbidden("Insufficient permissions")
	}
}

// IsOwner builds a [Check] that passes when the identity's ID equals the
// named route parameter.
func IsOwner(param string) Check {
	return func(request *http.Request, principal *sec.Principal) error {
		if principal.ID == chi.URLParam(request, param) {
			return nil
		}
		return apperr.Forbidden("You do not own this resource")
	}
}

// AuthorizeAny evaluates an ordered list of checks; the first success
// authorizes the request.
//
// # Semantics
//
// A failed or panicking check is treated as a non-match and evaluation
// continues with the next one. Only when the whole list is exhausted is the
// request rejected with 403. Implies [RequireAuth].
func AuthorizeAny(checks ...Check) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			principal := ctxutil.GetPrincipal(request.Context())
			if principal == nil {
				respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
				return
			}

			for _, check := range checks {
				if passes(check, request, principal) {
					next.ServeHTTP(writer, request)
					return
				}
			}

			respond.Error(writer, request, apperr.Forbidden("Insufficient permissions"))
		})
	}
}

// passes runs one check, converting a panic into a non-match so a single
// broken predicate cannot take down the request.
func passes(check Check, request *http.Request, principal *sec.Principal) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	return check(request, principal) == nil
}
