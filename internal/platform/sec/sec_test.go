// Copyright (c) 2026 Cinevault. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/cinevault/internal/platform/sec"
)

/*
TestTokenService_RoundTrip verifies that a generated access token carries the
expected claims back through verification.
*/
func TestTokenService_RoundTrip(t *testing.T) {
	service, err := sec.NewTokenService("test-secret", "cinevault")
	require.NoError(t, err)

	token, err := service.GenerateAccessToken("user-1", "user@example.com", time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.Equal(t, sec.TokenTypeAccess, claims.TokenType)
	assert.Equal(t, "cinevault", claims.Issuer)
}

/*
TestTokenService_Failures covers the rejection paths: an empty secret at
construction, a token signed with a different secret, an expired token, and
garbage input.
*/
func TestTokenService_Failures(t *testing.T) {
	_, err := sec.NewTokenService("", "cinevault")
	require.Error(t, err, "an empty signing secret must be rejected")

	service, err := sec.NewTokenService("test-secret", "cinevault")
	require.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		other, err := sec.NewTokenService("different-secret", "cinevault")
		require.NoError(t, err)

		token, err := other.GenerateAccessToken("user-1", "user@example.com", time.Minute)
		require.NoError(t, err)

		_, err = service.VerifyToken(token)
		assert.Error(t, err)
	})

	t.Run("expired token", func(t *testing.T) {
		token, err := service.GenerateAccessToken("user-1", "user@example.com", -time.Minute)
		require.NoError(t, err)

		_, err = service.VerifyToken(token)
		assert.Error(t, err)
	})

	t.Run("garbage input", func(t *testing.T) {
		_, err := service.VerifyToken("not-a-jwt")
		assert.Error(t, err)
	})
}

/*
TestGenerateSecureToken verifies entropy length, URL-safety, and uniqueness
of generated opaque tokens.
*/
func TestGenerateSecureToken(t *testing.T) {
	seen := map[string]bool{}

	for i := 0; i < 32; i++ {
		token, err := sec.GenerateSecureToken(32)
		require.NoError(t, err)

		// 32 raw bytes encode to 43 unpadded base64url characters.
		assert.Len(t, token, 43)
		assert.NotContains(t, token, "+")
		assert.NotContains(t, token, "/")
		assert.NotContains(t, token, "=")

		assert.False(t, seen[token], "tokens must never repeat")
		seen[token] = true
	}
}

/*
TestHashToken verifies that the digest is deterministic hex and never equals
the input.
*/
func TestHashToken(t *testing.T) {
	digest := sec.HashToken("opaque-token")

	assert.Len(t, digest, 64) // sha256 hex
	assert.Equal(t, digest, sec.HashToken("opaque-token"))
	assert.NotEqual(t, digest, sec.HashToken("opaque-token2"))
	assert.NotEqual(t, "opaque-token", digest)
}

/*
TestPasswordHashing verifies the bcrypt round trip and rejection of a wrong
password.
*/
func TestPasswordHashing(t *testing.T) {
	hash, err := sec.HashPassword("s3cret-password")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-password", hash)

	assert.True(t, sec.CheckPasswordHash("s3cret-password", hash))
	assert.False(t, sec.CheckPasswordHash("wrong-password", hash))
}

/*
TestUserRole_AtLeast exercises the full role hierarchy matrix, including the
unknown-role floor.
*/
func TestUserRole_AtLeast(t *testing.T) {
	tests := []struct {
		role     sec.UserRole
		target   sec.UserRole
		expected bool
	}{
		{sec.RoleAdmin, sec.RoleAdmin, true},
		{sec.RoleAdmin, sec.RoleModerator, true},
		{sec.RoleAdmin, sec.RoleUser, true},
		{sec.RoleModerator, sec.RoleAdmin, false},
		{sec.RoleModerator, sec.RoleModerator, true},
		{sec.RoleModerator, sec.RoleUser, true},
		{sec.RoleUser, sec.RoleAdmin, false},
		{sec.RoleUser, sec.RoleModerator, false},
		{sec.RoleUser, sec.RoleUser, true},
		{sec.UserRole("UNKNOWN"), sec.RoleUser, false},
	}

	for _, test := range tests {
		assert.Equal(t, test.expected, test.role.AtLeast(test.target),
			"%s at least %s", test.role, test.target)
	}
}
