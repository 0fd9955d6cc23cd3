// Copyright (c) 2026 Cinevault. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// PostgreSQL implementations of the auth repositories.
//
// # Architecture
//
// Repositories are strictly separated from domain logic. They implement the
// domain-defined interfaces (e.g., [UserRepository]) using the [pgxpool.Pool]
// connection manager.
//
// # Error Mapping
//
// Storage-specific errors (like pgx.ErrNoRows) are mapped through [dberr.Wrap]
// to avoid leaking driver details to clients.
package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/cinevault/internal/platform/database/schema"
	"github.com/taibuivan/cinevault/internal/platform/dberr"
)

// # User Repository

// PostgresUserRepository implements the UserRepository interface using pgx.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

/*
Create persists a new user record into the users.account table.

Description: Runs in a single transaction — the role group row is lazily
created by name when missing, then the account row is inserted referencing it.

Parameters:
  - context: context.Context
  - user: *User (Entity to persist)

Returns:
  - error: apperr.Conflict on duplicate email, or connectivity errors
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return fmt.Errorf("postgres_user_repo_begin_failed: %w", err)
	}
	defer transaction.Rollback(context)

	// ── 1. Resolve the group id, creating the named group when absent ──
	groupID, err := getOrCreateGroup(context, transaction, string(user.Role))
	if err != nil {
		return err
	}

	// ── 2. Insert the account row ──
	const query = `
		INSERT INTO users.account (id, email, passwordhash, isactive, groupid, createdat, updatedat)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err = transaction.Exec(context, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.IsActive,
		groupID,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "postgres_user_repo_create_failed")
	}

	if err := transaction.Commit(context); err != nil {
		return fmt.Errorf("postgres_user_repo_commit_failed: %w", err)
	}

	return nil
}

// getOrCreateGroup resolves a group id by its unique name, inserting the row
// first when it does not exist. ON CONFLICT absorbs concurrent creation.
func getOrCreateGroup(context context.Context, transaction pgx.Tx, name string) (int64, error) {
	const insert = `INSERT INTO users."group" (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`
	if _, err := transaction.Exec(context, insert, name); err != nil {
		return 0, dberr.Wrap(err, "postgres_group_insert_failed")
	}

	const query = `SELECT id FROM users."group" WHERE name = $1`
	var groupID int64
	if err := transaction.QueryRow(context, query, name).Scan(&groupID); err != nil {
		return 0, dberr.Wrap(err, "postgres_group_lookup_failed")
	}

	return groupID, nil
}

const userSelectColumns = `
	SELECT a.id, a.email, a.passwordhash, a.isactive, g.name, a.createdat, a.updatedat
	FROM users.account a
	JOIN users."group" g ON g.id = a.groupid`

/*
FindByEmail retrieves a user record by their unique email address.

Description: Performs a lookup on the account table joined against the role
group to hydrate the role name.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - *User: Hydrated account entity
  - error: dberr.ErrNotFound or database errors
*/
func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	query := userSelectColumns + ` WHERE a.email = $1`

	user := &User{}
	err := repository.pool.QueryRow(context, query, email).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.IsActive,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "postgres_user_repo_find_by_email_failed")
	}

	return user, nil
}

/*
FindByID retrieves a user record by their unique ID.

Description: Primary key resolution for user accounts, used by the access
gate to turn token claims into a live principal.

Parameters:
  - context: context.Context
  - id: string (UUIDv7)

Returns:
  - *User: Hydrated account entity
  - error: dberr.ErrNotFound or execution errors
*/
func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*User, error) {
	query := userSelectColumns + ` WHERE a.id = $1`

	user := &User{}
	err := repository.pool.QueryRow(context, query, id).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.IsActive,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "postgres_user_repo_find_by_id_failed")
	}

	return user, nil
}

/*
Activate marks a user account as active and burns its activation tokens.

Description: Both writes happen in one transaction so a crash can never leave
an activated account with a live activation token.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: Persistence failures
*/
func (repository *PostgresUserRepository) Activate(context context.Context, userID string) error {
	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return fmt.Errorf("postgres_user_repo_begin_failed: %w", err)
	}
	defer transaction.Rollback(context)

	const activate = `UPDATE users.account SET isactive = TRUE, updatedat = $2 WHERE id = $1`
	if _, err := transaction.Exec(context, activate, userID, time.Now()); err != nil {
		return dberr.Wrap(err, "postgres_user_repo_activate_failed")
	}

	const purge = `DELETE FROM users.activationtoken WHERE userid = $1`
	if _, err := transaction.Exec(context, purge, userID); err != nil {
		return dberr.Wrap(err, "postgres_user_repo_activation_purge_failed")
	}

	if err := transaction.Commit(context); err != nil {
		return fmt.Errorf("postgres_user_repo_commit_failed: %w", err)
	}

	return nil
}

/*
UpdatePassword updates only the password hash for a specific user.

Parameters:
  - context: context.Context
  - userID: string
  - newHash: string

Returns:
  - error: Execution errors
*/
func (repository *PostgresUserRepository) UpdatePassword(context context.Context, userID, newHash string) error {
	const query = `UPDATE users.account SET passwordhash = $2, updatedat = $3 WHERE id = $1`

	_, err := repository.pool.Exec(context, query, userID, newHash, time.Now())
	if err != nil {
		return dberr.Wrap(err, "postgres_user_repo_update_password_failed")
	}

	return nil
}

// # Singleton Token Repository

// PostgresTokenRepository implements [SingletonTokenRepository] against a
// configurable table. Activation and password reset tokens share the same
// shape and replace-not-append semantics, so one implementation serves both.
type PostgresTokenRepository struct {
	pool  *pgxpool.Pool
	table string
}

// NewActivationTokenRepository creates the store backing users.activationtoken.
func NewActivationTokenRepository(pool *pgxpool.Pool) *PostgresTokenRepository {
	return &PostgresTokenRepository{pool: pool, table: schema.UserActivationToken.Table}
}

// NewResetTokenRepository creates the store backing users.passwordresettoken.
func NewResetTokenRepository(pool *pgxpool.Pool) *PostgresTokenRepository {
	return &PostgresTokenRepository{pool: pool, table: schema.UserPasswordResetToken.Table}
}

/*
Replace atomically swaps the user's live token for a new one.

Description: DELETE-then-INSERT in a single transaction. The UNIQUE (userid)
constraint is the backstop against two concurrent issuances both surviving.

Parameters:
  - context: context.Context
  - token: *Token

Returns:
  - error: Persistence failures
*/
func (repository *PostgresTokenRepository) Replace(context context.Context, token *Token) error {
	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return fmt.Errorf("postgres_token_repo_begin_failed: %w", err)
	}
	defer transaction.Rollback(context)

	remove := fmt.Sprintf(`DELETE FROM %s WHERE userid = $1`, repository.table)
	if _, err := transaction.Exec(context, remove, token.UserID); err != nil {
		return dberr.Wrap(err, "postgres_token_repo_replace_delete_failed")
	}

	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now()
	}

	insert := fmt.Sprintf(`
		INSERT INTO %s (id, userid, tokenhash, expiresat, createdat)
		VALUES ($1, $2, $3, $4, $5)`, repository.table)

	_, err = transaction.Exec(context, insert,
		token.ID,
		token.UserID,
		token.TokenHash,
		token.ExpiresAt,
		token.CreatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "postgres_token_repo_replace_insert_failed")
	}

	if err := transaction.Commit(context); err != nil {
		return fmt.Errorf("postgres_token_repo_commit_failed: %w", err)
	}

	return nil
}

/*
FindByHash retrieves a token row by its digest, regardless of expiry.

Parameters:
  - context: context.Context
  - tokenHash: string

Returns:
  - *Token: Hydrated entity
  - error: dberr.ErrNotFound or execution errors
*/
func (repository *PostgresTokenRepository) FindByHash(context context.Context, tokenHash string) (*Token, error) {
	query := fmt.Sprintf(`
		SELECT id, userid, tokenhash, expiresat, createdat
		FROM %s
		WHERE tokenhash = $1`, repository.table)

	token := &Token{}
	err := repository.pool.QueryRow(context, query, tokenHash).Scan(
		&token.ID,
		&token.UserID,
		&token.TokenHash,
		&token.ExpiresAt,
		&token.CreatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "postgres_token_repo_find_failed")
	}

	return token, nil
}

/*
DeleteForUser removes every token row belonging to the user.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: Execution errors
*/
func (repository *PostgresTokenRepository) DeleteForUser(context context.Context, userID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE userid = $1`, repository.table)

	_, err := repository.pool.Exec(context, query, userID)
	if err != nil {
		return dberr.Wrap(err, "postgres_token_repo_delete_for_user_failed")
	}

	return nil
}

// # Refresh Token Repository

// PostgresRefreshTokenRepository implements [RefreshTokenRepository] against
// users.refreshtoken. Unlike the singleton stores, a user may hold many rows.
type PostgresRefreshTokenRepository struct {
	pool *pgxpool.Pool
}

// NewRefreshTokenRepository creates the store backing users.refreshtoken.
func NewRefreshTokenRepository(pool *pgxpool.Pool) *PostgresRefreshTokenRepository {
	return &PostgresRefreshTokenRepository{pool: pool}
}

/*
Create persists a new refresh token row.

Parameters:
  - context: context.Context
  - token: *Token

Returns:
  - error: Persistence failures
*/
func (repository *PostgresRefreshTokenRepository) Create(context context.Context, token *Token) error {
	const query = `
		INSERT INTO users.refreshtoken (id, userid, tokenhash, expiresat, createdat)
		VALUES ($1, $2, $3, $4, $5)`

	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now()
	}

	_, err := repository.pool.Exec(context, query,
		token.ID,
		token.UserID,
		token.TokenHash,
		token.ExpiresAt,
		token.CreatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "postgres_refresh_repo_create_failed")
	}

	return nil
}

/*
FindByHash retrieves a refresh token row by its digest, regardless of expiry.

Description: Expired rows are intentionally returned — the service deletes
them as a side effect of a failed refresh attempt.

Parameters:
  - context: context.Context
  - tokenHash: string

Returns:
  - *Token: Hydrated entity
  - error: dberr.ErrNotFound or execution errors
*/
func (repository *PostgresRefreshTokenRepository) FindByHash(context context.Context, tokenHash string) (*Token, error) {
	const query = `
		SELECT id, userid, tokenhash, expiresat, createdat
		FROM users.refreshtoken
		WHERE tokenhash = $1`

	token := &Token{}
	err := repository.pool.QueryRow(context, query, tokenHash).Scan(
		&token.ID,
		&token.UserID,
		&token.TokenHash,
		&token.ExpiresAt,
		&token.CreatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "postgres_refresh_repo_find_failed")
	}

	return token, nil
}

/*
Delete removes a single refresh token row by ID.

Parameters:
  - context: context.Context
  - tokenID: string

Returns:
  - error: Execution errors
*/
func (repository *PostgresRefreshTokenRepository) Delete(context context.Context, tokenID string) error {
	const query = `DELETE FROM users.refreshtoken WHERE id = $1`

	_, err := repository.pool.Exec(context, query, tokenID)
	if err != nil {
		return dberr.Wrap(err, "postgres_refresh_repo_delete_failed")
	}

	return nil
}
