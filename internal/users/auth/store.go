// Copyright (c) 2026 Cinevault. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
)

// # User Data Access

// UserRepository defines the data access contract for user accounts.
type UserRepository interface {

	/*
		Create persists a brand-new user account, lazily creating the named
		role group when it does not exist yet.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: apperr.Conflict on duplicate email, or persistence failures
	*/
	Create(context context.Context, user *User) error

	/*
		FindByEmail returns the account with the given email.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		Activate marks the account as active and deletes all of its activation
		tokens in a single transaction.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - error: Persistence failures
	*/
	Activate(context context.Context, userID string) error

	/*
		UpdatePassword replaces only the user's password hash.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - newHash: string

		Returns:
		  - error: Persistence failures
	*/
	UpdatePassword(context context.Context, userID, newHash string) error
}

// # Token Data Access

// SingletonTokenRepository defines the contract for single-live-token stores
// (activation and password reset). At most one row may exist per user; issuing
// a new token replaces any existing one.
type SingletonTokenRepository interface {

	/*
		Replace deletes any existing token for the user and inserts the given
		one, atomically.

		Parameters:
		  - context: context.Context
		  - token: *Token

		Returns:
		  - error: Persistence failures
	*/
	Replace(context context.Context, token *Token) error

	/*
		FindByHash returns the token matching the given digest, expired or not.

		Parameters:
		  - context: context.Context
		  - tokenHash: string

		Returns:
		  - *Token: Hydrated entity
		  - error: dberr.ErrNotFound or retrieval failures
	*/
	FindByHash(context context.Context, tokenHash string) (*Token, error)

	/*
		DeleteForUser removes every token belonging to the user.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - error: Persistence failures
	*/
	DeleteForUser(context context.Context, userID string) error
}

// RefreshTokenRepository defines the contract for refresh-token persistence.
// A user may hold many live refresh tokens (one per device).
type RefreshTokenRepository interface {

	/*
		Create persists a new refresh token row.

		Parameters:
		  - context: context.Context
		  - token: *Token

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, token *Token) error

	/*
		FindByHash returns the refresh token matching the given digest,
		expired or not. Expiry handling is the caller's concern.

		Parameters:
		  - context: context.Context
		  - tokenHash: string

		Returns:
		  - *Token: Hydrated entity
		  - error: dberr.ErrNotFound or retrieval failures
	*/
	FindByHash(context context.Context, tokenHash string) (*Token, error)

	/*
		Delete removes a single refresh token by ID (logout, expiry revocation).

		Parameters:
		  - context: context.Context
		  - tokenID: string

		Returns:
		  - error: Persistence failures
	*/
	Delete(context context.Context, tokenID string) error
}
