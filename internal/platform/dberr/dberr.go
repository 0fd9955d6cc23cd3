// Copyright (c) 2026 Cinevault. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
package dberr

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/cinevault/internal/platform/apperr"
)

var (
	// ErrNotFound is a standard error returned when a queried row doesn't exist.
	ErrNotFound = apperr.NotFound("Resource")

	// ErrConflict is returned when an insert or update violates a unique constraint.
	ErrConflict = apperr.Conflict("Resource already exists")
)

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
// It hides internal database details from the client while classifying the error type.
//
// # Classification
//
//   - pgx.ErrNoRows            → 404 Not Found
//   - SQLSTATE 23505 (unique)  → 409 Conflict
//   - SQLSTATE 23503 (fkey)    → 400 Bad Request
//   - everything else          → 500 Internal
//
// Unique-constraint mapping is the storage-level backstop for application-level
// existence checks racing with concurrent inserts: the loser of the race gets a
// clean Conflict instead of a raw driver error.
func Wrap(err error, action string) error {
	if err == nil {
		return nil
	}

	// 1. Not Found mapping
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}

	// 2. Constraint violation mapping via SQLSTATE
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return ErrConflict
		case pgerrcode.ForeignKeyViolation:
			return apperr.BadRequest("Invalid input data")
		}
	}

	// 3. Unknown query errors become Internal Server Errors
	return apperr.Internal(fmt.Errorf("%s: %w", action, err))
}

// IsUniqueViolation reports whether err is a unique-constraint violation,
// either as a raw pgconn error or already wrapped by [Wrap].
//
// Services use it to convert an insert race into a domain-specific outcome
// (e.g. treating a duplicate cart item as the idempotent success path).
func IsUniqueViolation(err error) bool {
	if errors.Is(err, ErrConflict) {
		return true
	}

	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
