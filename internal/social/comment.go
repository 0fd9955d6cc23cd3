/*
Package social implements the community layer: comments on movies and
like/dislike reactions on both movies and comments.

# Semantics

  - Reactions are last-write-wins: a user holds at most one reaction per
    target, and reacting again overwrites it in place.
  - Comments may be deleted only by their author; reactions on a comment
    are removed with it.
*/
package social

import "time"

// # Domain Entities

// Comment represents a user-authored remark on a movie.
type Comment struct {
	ID           int64     `json:"id"`
	UserID       string    `json:"user_id"`
	MovieID      int64     `json:"movie_id"`
	Content      string    `json:"content"`
	LikeCount    int       `json:"like_count"`
	DislikeCount int       `json:"dislike_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Reaction values accepted for movies and comments.
const (
	ReactionLike    = "like"
	ReactionDislike = "dislike"
)

// IsValidReaction reports whether value is an accepted reaction.
func IsValidReaction(value string) bool {
	return value == ReactionLike || value == ReactionDislike
}

// # Field Identifiers

const (
	FieldContent  = "content"
	FieldReaction = "reaction"
	FieldMessage  = "message"
)

// MaxCommentLength caps comment bodies; anything longer is a client error.
const MaxCommentLength = 2000
