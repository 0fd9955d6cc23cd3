// Copyright (c) 2026 Cinevault. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// HTTP delivery layer for comments and reactions.
//
// # Wiring
//
// Social endpoints live under the catalog's /movies/{movieID} subtree, so the
// handler methods are exported and registered by the catalog router rather
// than mounted as a standalone subrouter.
package social

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/taibuivan/cinevault/internal/platform/apperr"
	requestutil "github.com/taibuivan/cinevault/internal/platform/request"
	"github.com/taibuivan/cinevault/internal/platform/respond"
	"github.com/taibuivan/cinevault/internal/platform/validate"
	"github.com/taibuivan/cinevault/pkg/pagination"
)

// Handler implements the HTTP layer for the social domain.
type Handler struct {
	service *Service
}

// NewHandler constructs a new social [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// # Request Payloads

type commentRequest struct {
	Content string `json:"content"`
}

type reactionRequest struct {
	Reaction string `json:"reaction"`
}

// parseID extracts a positive integer URL parameter.
func parseID(request *http.Request, name string) (int64, error) {
	raw := requestutil.Param(request, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.BadRequest(fmt.Sprintf("Invalid %s: '%s'", name, raw))
	}
	return id, nil
}

/*
ListComments returns one page of a movie's comments.

GET /api/v1/movies/{movieID}/comments

Response:
  - 200: []Comment with per-comment reaction counts, paginated
  - 404: ErrNotFound: Movie absent
*/
func (handler *Handler) ListComments(writer http.ResponseWriter, request *http.Request) {
	movieID, err := parseID(request, "movieID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)

	comments, total, err := handler.service.ListComments(request.Context(), movieID, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, comments, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
CreateComment attaches a new comment to a movie.

POST /api/v1/movies/{movieID}/comments

Request:
  - Body: commentRequest (Content)

Response:
  - 201: Comment: Created entity
  - 400: ErrInvalidJSON: Missing or oversized content
  - 404: ErrNotFound: Movie absent
*/
func (handler *Handler) CreateComment(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	movieID, err := parseID(request, "movieID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input commentRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	v.Required(FieldContent, input.Content).
		MaxLen(FieldContent, input.Content, MaxCommentLength)

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := handler.service.CreateComment(request.Context(), principal.ID, movieID, input.Content)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, comment)
}

/*
DeleteComment removes the author's own comment.

DELETE /api/v1/movies/{movieID}/comments/{commentID}

Response:
  - 204: No Content
  - 403: ErrForbidden: Not the author
  - 404: ErrNotFound: Comment absent
*/
func (handler *Handler) DeleteComment(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	commentID, err := parseID(request, "commentID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteComment(request.Context(), principal.ID, commentID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
ReactToMovie records or overwrites a like/dislike on a movie.

POST /api/v1/movies/{movieID}/reactions

Request:
  - Body: reactionRequest (Reaction: like|dislike)

Response:
  - 200: Success: Reaction recorded
  - 400: ErrBadRequest: Invalid reaction value
  - 404: ErrNotFound: Movie absent
*/
func (handler *Handler) ReactToMovie(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	movieID, err := parseID(request, "movieID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input reactionRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	if err := handler.service.ReactToMovie(request.Context(), principal.ID, movieID, input.Reaction); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		FieldMessage: "Reaction recorded.",
	})
}

/*
ReactToComment records or overwrites a like/dislike on a comment.

POST /api/v1/movies/{movieID}/comments/{commentID}/reactions

Request:
  - Body: reactionRequest (Reaction: like|dislike)

Response:
  - 200: Success: Reaction recorded
  - 400: ErrBadRequest: Invalid reaction value
  - 404: ErrNotFound: Comment absent
*/
func (handler *Handler) ReactToComment(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	commentID, err := parseID(request, "commentID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input reactionRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	if err := handler.service.ReactToComment(request.Context(), principal.ID, commentID, input.Reaction); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		FieldMessage: "Reaction recorded.",
	})
}
