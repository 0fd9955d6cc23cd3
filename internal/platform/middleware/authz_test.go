// Copyright (c) 2026 Cinevault. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/cinevault/internal/platform/middleware"
	"github.com/taibuivan/cinevault/internal/platform/sec"
)

// fakeResolver resolves every subject id to a principal with the given role,
// except ids present in the missing set.
type fakeResolver struct {
	role    sec.UserRole
	missing map[string]bool
}

func (f *fakeResolver) ResolveIdentity(_ context.Context, userID string) (*sec.Principal, error) {
	if f.missing[userID] {
		return nil, errors.New("no such user")
	}
	return &sec.Principal{ID: userID, Email: userID + "@example.com", Role: f.role}, nil
}

// newGate builds an Authenticate middleware over a real HS256 token service
// and returns it together with a token minter.
func newGate(t *testing.T, resolver *fakeResolver) (func(http.Handler) http.Handler, func(userID string, ttl time.Duration) string) {
	t.Helper()

	service, err := sec.NewTokenService("test-secret", "cinevault")
	require.NoError(t, err)

	mint := func(userID string, ttl time.Duration) string {
		token, err := service.GenerateAccessToken(userID, userID+"@example.com", ttl)
		require.NoError(t, err)
		return token
	}

	return middleware.Authenticate(service, resolver), mint
}

// echoUser records the resolved principal (or nil) and returns 200.
func echoUser(captured **sec.Principal) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		*captured = middleware.GetUser(request.Context())
		writer.WriteHeader(http.StatusOK)
	})
}

func perform(handler http.Handler, authorization string) *httptest.ResponseRecorder {
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	if authorization != "" {
		request.Header.Set("Authorization", authorization)
	}
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

/*
TestAuthenticate_Anonymous verifies that a request without an Authorization
header passes through without a principal.
*/
func TestAuthenticate_Anonymous(t *testing.T) {
	gate, _ := newGate(t, &fakeResolver{role: sec.RoleUser})

	var principal *sec.Principal
	recorder := perform(gate(echoUser(&principal)), "")

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Nil(t, principal, "anonymous requests must carry no principal")
}

/*
TestAuthenticate_FailureLadder exercises each distinct 401 mode of the
access gate: malformed header, bad signature, expired token, and a subject
that no longer resolves.
*/
func TestAuthenticate_FailureLadder(t *testing.T) {
	resolver := &fakeResolver{role: sec.RoleUser, missing: map[string]bool{"ghost": true}}
	gate, mint := newGate(t, resolver)

	forged, err := sec.NewTokenService("different-secret", "cinevault")
	require.NoError(t, err)
	forgedToken, err := forged.GenerateAccessToken("user-1", "user-1@example.com", time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name          string
		authorization string
	}{
		{"malformed header", "user-1"},
		{"wrong scheme", "Basic dXNlcjpwYXNz"},
		{"forged signature", "Bearer " + forgedToken},
		{"expired token", "Bearer " + mint("user-1", -time.Minute)},
		{"deleted subject", "Bearer " + mint("ghost", time.Minute)},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var principal *sec.Principal
			recorder := perform(gate(echoUser(&principal)), test.authorization)

			assert.Equal(t, http.StatusUnauthorized, recorder.Code)
			assert.Nil(t, principal)
		})
	}
}

/*
TestAuthenticate_Success verifies that a valid token resolves into a
principal on the request context.
*/
func TestAuthenticate_Success(t *testing.T) {
	gate, mint := newGate(t, &fakeResolver{role: sec.RoleModerator})

	var principal *sec.Principal
	recorder := perform(gate(echoUser(&principal)), "Bearer "+mint("user-1", time.Minute))

	assert.Equal(t, http.StatusOK, recorder.Code)
	require.NotNil(t, principal)
	assert.Equal(t, "user-1", principal.ID)
	assert.Equal(t, sec.RoleModerator, principal.Role)
}

/*
TestRequireAuth verifies that the gate blocks anonymous requests and admits
authenticated ones.
*/
func TestRequireAuth(t *testing.T) {
	gate, mint := newGate(t, &fakeResolver{role: sec.RoleUser})

	var principal *sec.Principal
	chain := gate(middleware.RequireAuth(echoUser(&principal)))

	recorder := perform(chain, "")
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	recorder = perform(chain, "Bearer "+mint("user-1", time.Minute))
	assert.Equal(t, http.StatusOK, recorder.Code)
}

/*
TestRequireRole verifies the role hierarchy at the HTTP boundary: anonymous
is 401, an insufficient role is 403, and equal-or-higher roles pass.
*/
func TestRequireRole(t *testing.T) {
	tests := []struct {
		name     string
		role     sec.UserRole
		expected int
	}{
		{"user blocked", sec.RoleUser, http.StatusForbidden},
		{"moderator admitted", sec.RoleModerator, http.StatusOK},
		{"admin admitted", sec.RoleAdmin, http.StatusOK},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			gate, mint := newGate(t, &fakeResolver{role: test.role})

			var principal *sec.Principal
			chain := gate(middleware.RequireRole(sec.RoleModerator)(echoUser(&principal)))

			recorder := perform(chain, "Bearer "+mint("user-1", time.Minute))
			assert.Equal(t, test.expected, recorder.Code)
		})
	}

	t.Run("anonymous is 401 not 403", func(t *testing.T) {
		gate, _ := newGate(t, &fakeResolver{role: sec.RoleAdmin})

		var principal *sec.Principal
		chain := gate(middleware.RequireRole(sec.RoleModerator)(echoUser(&principal)))

		recorder := perform(chain, "")
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})
}
