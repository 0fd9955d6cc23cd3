// Copyright (c) 2026 Cinevault. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package social

import "context"

// # Comment Data Access

// CommentRepository defines the data access contract for comments.
type CommentRepository interface {

	/*
		Create persists a new comment.

		Parameters:
		  - context: context.Context
		  - comment: *Comment

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, comment *Comment) error

	/*
		FindByID returns a single comment without reaction counts.

		Parameters:
		  - context: context.Context
		  - id: int64

		Returns:
		  - *Comment: Hydrated entity
		  - error: dberr.ErrNotFound or retrieval failures
	*/
	FindByID(context context.Context, id int64) (*Comment, error)

	/*
		Delete removes a comment; its reactions cascade with it.

		Parameters:
		  - context: context.Context
		  - id: int64

		Returns:
		  - error: Persistence failures
	*/
	Delete(context context.Context, id int64) error

	/*
		ListByMovie returns a comment page for a movie with per-comment
		like/dislike counts merged from one aggregate query, plus the total.

		Parameters:
		  - context: context.Context
		  - movieID: int64
		  - limit: int
		  - offset: int

		Returns:
		  - []*Comment: Page of entities with counts
		  - int: Total comment count for the movie
		  - error: Execution failures
	*/
	ListByMovie(context context.Context, movieID int64, limit, offset int) ([]*Comment, int, error)
}

// # Reaction Data Access

// ReactionRepository defines the data access contract for reactions.
// Both methods are UPSERTs: the (user, target) pair is unique and a repeat
// write overwrites the stored value.
type ReactionRepository interface {

	/*
		UpsertMovieReaction records or overwrites a user's reaction to a movie.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - movieID: int64
		  - reaction: string (like|dislike, pre-validated)

		Returns:
		  - error: apperr.BadRequest on a missing movie FK, or storage failures
	*/
	UpsertMovieReaction(context context.Context, userID string, movieID int64, reaction string) error

	/*
		UpsertCommentReaction records or overwrites a user's reaction to a comment.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - commentID: int64
		  - reaction: string (like|dislike, pre-validated)

		Returns:
		  - error: apperr.BadRequest on a missing comment FK, or storage failures
	*/
	UpsertCommentReaction(context context.Context, userID string, commentID int64, reaction string) error
}
