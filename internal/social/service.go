// Copyright (c) 2026 Cinevault. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package social

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/taibuivan/cinevault/internal/platform/apperr"
	"github.com/taibuivan/cinevault/internal/platform/dberr"
)

// # Contracts & Types

// MovieGate confirms a movie exists before community content attaches to it.
// The catalog service satisfies this contract.
type MovieGate interface {
	MovieExists(context context.Context, movieID int64) error
}

// CacheInvalidator drops a cached movie projection after a write that
// changes its reaction counts. The catalog movie cache satisfies this.
type CacheInvalidator interface {
	Invalidate(context context.Context, movieID int64) error
}

// Service orchestrates business rules for comments and reactions.
type Service struct {
	comments  CommentRepository
	reactions ReactionRepository
	movies    MovieGate
	cache     CacheInvalidator
}

// NewService constructs a new social [Service].
func NewService(comments CommentRepository, reactions ReactionRepository, movies MovieGate, cache CacheInvalidator) *Service {
	return &Service{
		comments:  comments,
		reactions: reactions,
		movies:    movies,
		cache:     cache,
	}
}

// # Reactions

/*
ReactToMovie records or overwrites the user's reaction to a movie.

Description: Last-write-wins UPSERT. The cached movie projection is
invalidated so its like/dislike counts refresh on the next read.

Parameters:
  - context: context.Context
  - userID: string
  - movieID: int64
  - value: string (like|dislike)

Returns:
  - err: BadRequest (bad value), NotFound (movie absent), or storage failures
*/
func (service *Service) ReactToMovie(context context.Context, userID string, movieID int64, value string) error {
	if !IsValidReaction(value) {
		return apperr.BadRequest(fmt.Sprintf("Invalid reaction value: '%s'", value))
	}

	if err := service.movies.MovieExists(context, movieID); err != nil {
		return err
	}

	if err := service.reactions.UpsertMovieReaction(context, userID, movieID, value); err != nil {
		return fmt.Errorf("social_service_movie_reaction_failed: %w", err)
	}

	// Cached detail carries reaction counts; drop it so the next read is fresh.
	_ = service.cache.Invalidate(context, movieID)

	return nil
}

/*
ReactToComment records or overwrites the user's reaction to a comment.

Parameters:
  - context: context.Context
  - userID: string
  - commentID: int64
  - value: string (like|dislike)

Returns:
  - err: BadRequest (bad value), NotFound (comment absent), or storage failures
*/
func (service *Service) ReactToComment(context context.Context, userID string, commentID int64, value string) error {
	if !IsValidReaction(value) {
		return apperr.BadRequest(fmt.Sprintf("Invalid reaction value: '%s'", value))
	}

	if _, err := service.comments.FindByID(context, commentID); err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			return apperr.NotFoundWith("Comment not found.")
		}
		return fmt.Errorf("social_service_find_comment_failed: %w", err)
	}

	if err := service.reactions.UpsertCommentReaction(context, userID, commentID, value); err != nil {
		return fmt.Errorf("social_service_comment_reaction_failed: %w", err)
	}

	return nil
}

// # Comments

/*
CreateComment attaches a new comment to a movie.

Parameters:
  - context: context.Context
  - userID: string
  - movieID: int64
  - content: string (pre-validated for presence and length)

Returns:
  - *Comment: Created entity
  - err: NotFound (movie absent) or storage failures
*/
func (service *Service) CreateComment(context context.Context, userID string, movieID int64, content string) (*Comment, error) {
	if err := service.movies.MovieExists(context, movieID); err != nil {
		return nil, err
	}

	comment := &Comment{
		UserID:  userID,
		MovieID: movieID,
		Content: strings.TrimSpace(content),
	}

	if err := service.comments.Create(context, comment); err != nil {
		return nil, fmt.Errorf("social_service_create_comment_failed: %w", err)
	}

	return comment, nil
}

/*
DeleteComment removes a comment, enforcing author-only deletion.

Description: Missing comments are a 404; someone else's comment is a 403.
Reactions on the comment are removed with it (FK cascade).

Parameters:
  - context: context.Context
  - userID: string (requesting principal)
  - commentID: int64

Returns:
  - err: NotFound, Forbidden, or storage failures
*/
func (service *Service) DeleteComment(context context.Context, userID string, commentID int64) error {
	comment, err := service.comments.FindByID(context, commentID)
	if err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			return apperr.NotFoundWith("Comment not found.")
		}
		return fmt.Errorf("social_service_find_comment_failed: %w", err)
	}

	if comment.UserID != userID {
		return apperr.Forbidden("You can only delete your own comments")
	}

	if err := service.comments.Delete(context, commentID); err != nil {
		return fmt.Errorf("social_service_delete_comment_failed: %w", err)
	}

	return nil
}

/*
ListComments returns one page of a movie's comments with reaction counts.

Parameters:
  - context: context.Context
  - movieID: int64
  - limit: int
  - offset: int

Returns:
  - []*Comment: Page with per-comment like/dislike counts
  - int: Total comment count for the movie
  - err: NotFound (movie absent) or retrieval failures
*/
func (service *Service) ListComments(context context.Context, movieID int64, limit, offset int) ([]*Comment, int, error) {
	if err := service.movies.MovieExists(context, movieID); err != nil {
		return nil, 0, err
	}

	comments, total, err := service.comments.ListByMovie(context, movieID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("social_service_list_comments_failed: %w", err)
	}

	return comments, total, nil
}
