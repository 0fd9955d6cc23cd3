// Copyright (c) 2026 Cinevault. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// PostgreSQL implementations of the social repositories.
//
// Reaction writes are single UPSERT statements — the UNIQUE (user, target)
// pair plus ON CONFLICT DO UPDATE gives last-write-wins without a read.
package social

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/cinevault/internal/platform/dberr"
)

// # Comment Repository

// commentRepository implements [CommentRepository] using pgx.
type commentRepository struct {
	pool *pgxpool.Pool
}

// NewCommentRepository constructs a PostgreSQL backed comment store.
func NewCommentRepository(pool *pgxpool.Pool) CommentRepository {
	return &commentRepository{pool: pool}
}

/*
Create persists a new comment row.

Parameters:
  - context: context.Context
  - comment: *Comment

Returns:
  - error: apperr.BadRequest on a missing movie FK, or execution failures
*/
func (repository *commentRepository) Create(context context.Context, comment *Comment) error {
	const query = `
		INSERT INTO social.comment (userid, movieid, content, createdat, updatedat)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING id, createdat, updatedat`

	err := repository.pool.QueryRow(context, query,
		comment.UserID,
		comment.MovieID,
		comment.Content,
	).Scan(&comment.ID, &comment.CreatedAt, &comment.UpdatedAt)
	if err != nil {
		return dberr.Wrap(err, "postgres: failed to create comment")
	}

	return nil
}

/*
FindByID returns a single comment row without reaction counts.

Parameters:
  - context: context.Context
  - id: int64

Returns:
  - *Comment: Hydrated entity
  - error: dberr.ErrNotFound or execution failures
*/
func (repository *commentRepository) FindByID(context context.Context, id int64) (*Comment, error) {
	const query = `
		SELECT id, userid, movieid, content, createdat, updatedat
		FROM social.comment
		WHERE id = $1`

	comment := &Comment{}
	err := repository.pool.QueryRow(context, query, id).Scan(
		&comment.ID,
		&comment.UserID,
		&comment.MovieID,
		&comment.Content,
		&comment.CreatedAt,
		&comment.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "postgres: failed to find comment")
	}

	return comment, nil
}

/*
Delete removes a comment row; social.commentreaction rows cascade.

Parameters:
  - context: context.Context
  - id: int64

Returns:
  - error: Execution failures
*/
func (repository *commentRepository) Delete(context context.Context, id int64) error {
	const query = `DELETE FROM social.comment WHERE id = $1`

	if _, err := repository.pool.Exec(context, query, id); err != nil {
		return dberr.Wrap(err, "postgres: failed to delete comment")
	}

	return nil
}

/*
ListByMovie returns one comment page with merged reaction counts.

Description: Two round-trips — the page itself (with COUNT(*) OVER() for the
total), then ONE aggregate query grouping reactions for the page's comment
ids. Counts default to zero for comments with no reactions.

Parameters:
  - context: context.Context
  - movieID: int64
  - limit: int
  - offset: int

Returns:
  - []*Comment: Page with like/dislike counts
  - int: Total comment count for the movie
  - error: Execution failures
*/
func (repository *commentRepository) ListByMovie(context context.Context, movieID int64, limit, offset int) ([]*Comment, int, error) {
	const page = `
		SELECT id, userid, movieid, content, createdat, updatedat,
			COUNT(*) OVER() AS total_count
		FROM social.comment
		WHERE movieid = $1
		ORDER BY createdat DESC, id DESC
		LIMIT $2 OFFSET $3`

	rows, err := repository.pool.Query(context, page, movieID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres: failed to list comments: %w", err)
	}
	defer rows.Close()

	var comments []*Comment
	var totalCount int
	commentIDs := make([]int64, 0, limit)

	for rows.Next() {
		comment := &Comment{}
		err := rows.Scan(
			&comment.ID,
			&comment.UserID,
			&comment.MovieID,
			&comment.Content,
			&comment.CreatedAt,
			&comment.UpdatedAt,
			&totalCount,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres: failed to scan comment: %w", err)
		}
		comments = append(comments, comment)
		commentIDs = append(commentIDs, comment.ID)
	}
	rows.Close()

	if len(comments) == 0 {
		return comments, totalCount, nil
	}

	// One aggregate pass for the whole page.
	const counts = `
		SELECT commentid, reaction, COUNT(*)
		FROM social.commentreaction
		WHERE commentid = ANY($1)
		GROUP BY commentid, reaction`

	countRows, err := repository.pool.Query(context, counts, commentIDs)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres: failed to aggregate comment reactions: %w", err)
	}
	defer countRows.Close()

	byID := make(map[int64]*Comment, len(comments))
	for _, comment := range comments {
		byID[comment.ID] = comment
	}

	for countRows.Next() {
		var commentID int64
		var reaction string
		var count int
		if err := countRows.Scan(&commentID, &reaction, &count); err != nil {
			return nil, 0, fmt.Errorf("postgres: failed to scan reaction count: %w", err)
		}

		comment, ok := byID[commentID]
		if !ok {
			continue
		}
		switch reaction {
		case ReactionLike:
			comment.LikeCount = count
		case ReactionDislike:
			comment.DislikeCount = count
		}
	}

	return comments, totalCount, nil
}

// # Reaction Repository

// reactionRepository implements [ReactionRepository] using pgx.
type reactionRepository struct {
	pool *pgxpool.Pool
}

// NewReactionRepository constructs a PostgreSQL backed reaction store.
func NewReactionRepository(pool *pgxpool.Pool) ReactionRepository {
	return &reactionRepository{pool: pool}
}

/*
UpsertMovieReaction records or overwrites a user's reaction to a movie.

Parameters:
  - context: context.Context
  - userID: string
  - movieID: int64
  - reaction: string

Returns:
  - error: apperr.BadRequest on a missing movie FK, or execution failures
*/
func (repository *reactionRepository) UpsertMovieReaction(context context.Context, userID string, movieID int64, reaction string) error {
	const query = `
		INSERT INTO social.moviereaction (userid, movieid, reaction, updatedat)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (userid, movieid)
		DO UPDATE SET reaction = EXCLUDED.reaction, updatedat = NOW()`

	if _, err := repository.pool.Exec(context, query, userID, movieID, reaction); err != nil {
		return dberr.Wrap(err, "postgres: failed to upsert movie reaction")
	}

	return nil
}

/*
UpsertCommentReaction records or overwrites a user's reaction to a comment.

Parameters:
  - context: context.Context
  - userID: string
  - commentID: int64
  - reaction: string

Returns:
  - error: apperr.BadRequest on a missing comment FK, or execution failures
*/
func (repository *reactionRepository) UpsertCommentReaction(context context.Context, userID string, commentID int64, reaction string) error {
	const query = `
		INSERT INTO social.commentreaction (userid, commentid, reaction, updatedat)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (userid, commentid)
		DO UPDATE SET reaction = EXCLUDED.reaction, updatedat = NOW()`

	if _, err := repository.pool.Exec(context, query, userID, commentID, reaction); err != nil {
		return dberr.Wrap(err, "postgres: failed to upsert comment reaction")
	}

	return nil
}
