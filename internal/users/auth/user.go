// Copyright (c) 2026 Cinevault. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements the user identity and token lifecycle layer.

It defines the core domain entities (User, Token) and the logic for account
registration, activation, session issuance, and credential recovery.

# Architecture

This layer is the "Truth" of the system. Entities defined here have no external
dependencies and encapsulate all business rules related to user identity.
*/
package auth

import (
	"time"

	"github.com/taibuivan/cinevault/internal/platform/sec"
)

// # Domain Entities

// User represents a registered member of the Cinevault platform.
type User struct {
	ID           string       `json:"id"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"` // Explicitly omitted from JSON for security.
	IsActive     bool         `json:"is_active"`
	Role         sec.UserRole `json:"role"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// Token represents a persisted opaque token (activation, password reset, refresh).
//
// Only the SHA-256 digest of the opaque value is ever stored; the plain value
// exists exclusively in transit (email link or response body).
type Token struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	TokenHash string    `json:"-"` // Hashed value of the opaque token. Omitted for security.
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// IsExpired reports whether the token's validity window has passed.
func (token *Token) IsExpired() bool {
	return time.Now().After(token.ExpiresAt)
}

// # Field Identifiers

// Global field names for validation and identity mapping in the authentication domain.
const (
	FieldEmail       = "email"
	FieldPassword    = "password"
	FieldToken       = "token"
	FieldOldPassword = "old_password"
	FieldNewPassword = "new_password"
	FieldAccessToken = "access_token"
	FieldRefreshName = "refresh_token"
	FieldTokenType   = "token_type"
	FieldMessage     = "message"
)
