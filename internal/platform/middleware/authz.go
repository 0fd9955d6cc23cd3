// Copyright (c) 2026 Cinevault. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package middleware provides the HTTP middleware chain for the Cinevault API server.
//
// # Architecture
//
// Middleware intercepts incoming HTTP requests to apply global policies
// before they reach the domain handlers. This includes cross-cutting concerns
// like Logging, AuthZ/AuthN, Rate Limiting, and CORS.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/taibuivan/cinevault/internal/platform/apperr"
	"github.com/taibuivan/cinevault/internal/platform/ctxutil"
	"github.com/taibuivan/cinevault/internal/platform/respond"
	"github.com/taibuivan/cinevault/internal/platform/sec"
)

// TokenVerifier defines the interface needed to verify tokens in middleware.
//
// # Why an interface?
//
// Defining TokenVerifier here decouples the middleware from the concrete
// [sec.TokenService], allowing us to easily inject mocks during unit testing.
type TokenVerifier interface {
	VerifyToken(tokenStr string) (*sec.AccessClaims, error)
}

// IdentityResolver resolves a token subject id into a live [sec.Principal].
//
// The auth domain provides the implementation backed by the credential store.
// A token whose subject no longer resolves (deleted account) must not
// authenticate, even when the signature is still valid.
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, userID string) (*sec.Principal, error)
}

// Authenticate extracts and verifies the JWT from the Authorization header.
//
// # Flow
//
// Each step is a distinct failure mode, all surfaced as 401 Unauthorized:
//  1. Malformed header or failed signature/expiry check.
//  2. 'typ' claim is not "access" (e.g. a refresh token presented as access).
//  3. Missing subject id in the payload.
//  4. Subject id does not resolve to an existing user.
//
// Requests without an Authorization header proceed as anonymous; route groups
// that need identity gate themselves with [RequireAuth] or [RequireRole].
func Authenticate(verifier TokenVerifier, resolver IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			authHeader := request.Header.Get("Authorization")

			// ── 1. Anonymous Access ───────────────────────────────────────────
			if authHeader == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 2. Format Validation ──────────────────────────────────────────
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				respond.Error(writer, request, apperr.Unauthorized("Invalid authorization format"))
				return
			}

			// ── 3. Token Verification ─────────────────────────────────────────
			claims, err := verifier.VerifyToken(parts[1])
			if err != nil {
				respond.Error(writer, request, apperr.Unauthorized("Invalid or expired token"))
				return
			}

			// ── 4. Token Type Check ───────────────────────────────────────────
			if claims.TokenType != sec.TokenTypeAccess {
				respond.Error(writer, request, apperr.Unauthorized("Not an access token"))
				return
			}

			// ── 5. Subject Check ──────────────────────────────────────────────
			if claims.UserID == "" {
				respond.Error(writer, request, apperr.Unauthorized("Invalid token payload"))
				return
			}

			// ── 6. Identity Resolution ────────────────────────────────────────
			principal, err := resolver.ResolveIdentity(request.Context(), claims.UserID)
			if err != nil {
				respond.Error(writer, request, apperr.Unauthorized("User not found"))
				return
			}

			// ── 7. Context Injection ──────────────────────────────────────────
			ctx := ctxutil.WithAuthUser(request.Context(), principal)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth blocks requests that are not authenticated.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate].
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		principal := GetUser(request.Context())
		if principal == nil {
			respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// RequireRole blocks requests if the authenticated user doesn't have the required role.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate]. It automatically implies
// [RequireAuth] so you don't need to mount both.
//
// # Flow
//  1. Check if a [*sec.Principal] exists in context (implies AuthN).
//  2. Check if the user's role meets or exceeds the required target role using [sec.UserRole.AtLeast].
//  3. If insufficient, abort with HTTP 403 Forbidden.
func RequireRole(role sec.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			principal := GetUser(request.Context())

			// ── 1. Authentication Check ───────────────────────────────────────
			if principal == nil {
				respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
				return
			}

			// ── 2. Authorization Check ────────────────────────────────────────
			if !principal.Role.AtLeast(role) {
				respond.Error(writer, request, apperr.Forbidden("Insufficient permissions"))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// GetUser retrieves the [*sec.Principal] from the [context.Context].
//
// # Returns
//   - A pointer to [*sec.Principal] if the user is authenticated.
//   - nil if the user is anonymous.
func GetUser(ctx context.Context) *sec.Principal {
	return ctxutil.GetAuthUser(ctx)
}
