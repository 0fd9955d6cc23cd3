// Copyright (c) 2026 Cinevault. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package social_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/cinevault/internal/platform/apperr"
	"github.com/taibuivan/cinevault/internal/platform/dberr"
	"github.com/taibuivan/cinevault/internal/social"
)

// # In-Memory Fakes

type fakeCommentRepository struct {
	byID    map[int64]*social.Comment
	nextID  int64
	findErr error // injected storage failure for FindByID
}

func newFakeCommentRepository() *fakeCommentRepository {
	return &fakeCommentRepository{byID: map[int64]*social.Comment{}, nextID: 1}
}

func (f *fakeCommentRepository) Create(_ context.Context, comment *social.Comment) error {
	comment.ID = f.nextID
	f.nextID++
	clone := *comment
	f.byID[comment.ID] = &clone
	return nil
}

func (f *fakeCommentRepository) FindByID(_ context.Context, id int64) (*social.Comment, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	comment, ok := f.byID[id]
	if !ok {
		return nil, dberr.ErrNotFound
	}
	clone := *comment
	return &clone, nil
}

func (f *fakeCommentRepository) Delete(_ context.Context, id int64) error {
	delete(f.byID, id)
	return nil
}

func (f *fakeCommentRepository) ListByMovie(_ context.Context, movieID int64, _, _ int) ([]*social.Comment, int, error) {
	var out []*social.Comment
	for _, comment := range f.byID {
		if comment.MovieID == movieID {
			clone := *comment
			out = append(out, &clone)
		}
	}
	return out, len(out), nil
}

// reactionKey identifies one (user, target) reaction slot.
type reactionKey struct {
	userID   string
	targetID int64
}

type fakeReactionRepository struct {
	movieReactions   map[reactionKey]string
	commentReactions map[reactionKey]string
}

func newFakeReactionRepository() *fakeReactionRepository {
	return &fakeReactionRepository{
		movieReactions:   map[reactionKey]string{},
		commentReactions: map[reactionKey]string{},
	}
}

func (f *fakeReactionRepository) UpsertMovieReaction(_ context.Context, userID string, movieID int64, reaction string) error {
	f.movieReactions[reactionKey{userID, movieID}] = reaction
	return nil
}

func (f *fakeReactionRepository) UpsertCommentReaction(_ context.Context, userID string, commentID int64, reaction string) error {
	f.commentReactions[reactionKey{userID, commentID}] = reaction
	return nil
}

type fakeMovieGate struct {
	existing map[int64]bool
}

func (f *fakeMovieGate) MovieExists(_ context.Context, movieID int64) error {
	if !f.existing[movieID] {
		return apperr.NotFoundWith("Movie not found.")
	}
	return nil
}

type fakeInvalidator struct {
	invalidated []int64
}

func (f *fakeInvalidator) Invalidate(_ context.Context, movieID int64) error {
	f.invalidated = append(f.invalidated, movieID)
	return nil
}

// # Harness

type socialHarness struct {
	service     *social.Service
	comments    *fakeCommentRepository
	reactions   *fakeReactionRepository
	invalidator *fakeInvalidator
}

func newSocialHarness() *socialHarness {
	comments := newFakeCommentRepository()
	reactions := newFakeReactionRepository()
	invalidator := &fakeInvalidator{}
	gate := &fakeMovieGate{existing: map[int64]bool{1: true}}

	return &socialHarness{
		service:     social.NewService(comments, reactions, gate, invalidator),
		comments:    comments,
		reactions:   reactions,
		invalidator: invalidator,
	}
}

// # Tests

/*
TestService_ReactToMovie covers value validation, overwrite semantics, and
cache invalidation.
*/
func TestService_ReactToMovie(t *testing.T) {
	t.Run("invalid_value_rejected", func(t *testing.T) {
		h := newSocialHarness()

		err := h.service.ReactToMovie(context.Background(), "user-1", 1, "meh")

		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, 400, ae.HTTPStatus)
	})

	t.Run("missing_movie_not_found", func(t *testing.T) {
		h := newSocialHarness()

		err := h.service.ReactToMovie(context.Background(), "user-1", 99, social.ReactionLike)

		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, 404, ae.HTTPStatus)
	})

	t.Run("overwrite_is_last_write_wins", func(t *testing.T) {
		h := newSocialHarness()

		require.NoError(t, h.service.ReactToMovie(context.Background(), "user-1", 1, social.ReactionLike))
		require.NoError(t, h.service.ReactToMovie(context.Background(), "user-1", 1, social.ReactionDislike))

		assert.Len(t, h.reactions.movieReactions, 1, "one slot per (user, movie)")
		assert.Equal(t, social.ReactionDislike, h.reactions.movieReactions[reactionKey{"user-1", 1}])
		assert.Equal(t, []int64{1, 1}, h.invalidator.invalidated, "every write invalidates the cached detail")
	})
}

/*
TestService_ReactToComment covers the comment-targeted reaction path.
*/
func TestService_ReactToComment(t *testing.T) {
	h := newSocialHarness()
	comment, err := h.service.CreateComment(context.Background(), "author", 1, "great movie")
	require.NoError(t, err)

	t.Run("missing_comment_not_found", func(t *testing.T) {
		err := h.service.ReactToComment(context.Background(), "user-1", 999, social.ReactionLike)

		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, 404, ae.HTTPStatus)
	})

	t.Run("valid_reaction_recorded", func(t *testing.T) {
		require.NoError(t, h.service.ReactToComment(context.Background(), "user-1", comment.ID, social.ReactionLike))
		assert.Equal(t, social.ReactionLike, h.reactions.commentReactions[reactionKey{"user-1", comment.ID}])
	})

	t.Run("storage_outage_is_internal", func(t *testing.T) {
		h := newSocialHarness()
		h.comments.findErr = apperr.Internal(errors.New("connection refused"))

		err := h.service.ReactToComment(context.Background(), "user-1", 1, social.ReactionLike)

		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, 500, ae.HTTPStatus, "storage outage must not masquerade as a missing comment")
	})
}

/*
TestService_Comments covers creation gating and author-only deletion.
*/
func TestService_Comments(t *testing.T) {
	t.Run("create_on_missing_movie_not_found", func(t *testing.T) {
		h := newSocialHarness()

		_, err := h.service.CreateComment(context.Background(), "author", 99, "hello")

		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, 404, ae.HTTPStatus)
	})

	t.Run("delete_by_author_succeeds", func(t *testing.T) {
		h := newSocialHarness()
		comment, err := h.service.CreateComment(context.Background(), "author", 1, "  trimmed  ")
		require.NoError(t, err)
		assert.Equal(t, "trimmed", comment.Content)

		require.NoError(t, h.service.DeleteComment(context.Background(), "author", comment.ID))

		_, err = h.comments.FindByID(context.Background(), comment.ID)
		assert.Error(t, err)
	})

	t.Run("delete_by_stranger_forbidden", func(t *testing.T) {
		h := newSocialHarness()
		comment, err := h.service.CreateComment(context.Background(), "author", 1, "mine")
		require.NoError(t, err)

		err = h.service.DeleteComment(context.Background(), "stranger", comment.ID)

		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, 403, ae.HTTPStatus)
	})

	t.Run("delete_missing_not_found", func(t *testing.T) {
		h := newSocialHarness()

		err := h.service.DeleteComment(context.Background(), "author", 404)

		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, 404, ae.HTTPStatus)
	})

	t.Run("delete_during_storage_outage_is_internal", func(t *testing.T) {
		h := newSocialHarness()
		h.comments.findErr = apperr.Internal(errors.New("connection refused"))

		err := h.service.DeleteComment(context.Background(), "author", 1)

		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, 500, ae.HTTPStatus, "storage outage must not masquerade as a missing comment")
	})

	t.Run("list_gates_on_movie", func(t *testing.T) {
		h := newSocialHarness()
		_, err := h.service.CreateComment(context.Background(), "author", 1, "first")
		require.NoError(t, err)

		comments, total, err := h.service.ListComments(context.Background(), 1, 20, 0)
		require.NoError(t, err)
		assert.Len(t, comments, 1)
		assert.Equal(t, 1, total)

		_, _, err = h.service.ListComments(context.Background(), 99, 20, 0)
		assert.Error(t, err)
	})
}
