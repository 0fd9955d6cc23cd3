// Copyright (c) 2026 Cinevault. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
HTTP interface for the movie catalogue.

# Access Control

  - Public: Discovery (movie list, detail, genres, certifications, comments).
  - Authenticated: Reactions and comments (social handlers, wired here
    because they live under the /movies/{movieID} subtree).
  - Moderator: Movie and certification creation.
*/
package catalog

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/cinevault/internal/platform/apperr"
	"github.com/taibuivan/cinevault/internal/platform/middleware"
	requestutil "github.com/taibuivan/cinevault/internal/platform/request"
	"github.com/taibuivan/cinevault/internal/platform/respond"
	"github.com/taibuivan/cinevault/internal/platform/sec"
	"github.com/taibuivan/cinevault/internal/platform/validate"
	"github.com/taibuivan/cinevault/internal/social"
	"github.com/taibuivan/cinevault/pkg/pagination"
	"github.com/taibuivan/cinevault/pkg/query"
)

// Handler implements the HTTP layer for the catalog domain.
type Handler struct {
	service *Service
	social  *social.Handler
}

// NewHandler constructs a new catalog [Handler]. The social handler is wired
// in so its routes can be registered under the movie subtree.
func NewHandler(service *Service, socialHandler *social.Handler) *Handler {
	return &Handler{service: service, social: socialHandler}
}

// MovieRoutes returns a [chi.Router] for the /movies subtree, including the
// nested social endpoints.
func (handler *Handler) MovieRoutes() chi.Router {
	router := chi.NewRouter()

	// Public discovery
	router.Get("/", handler.listMovies)

	// Moderator+ catalogue writes
	router.With(middleware.RequireAuth, middleware.RequireRole(sec.RoleModerator)).
		Post("/", handler.createMovie)

	router.Route("/{movieID}", func(movieRoute chi.Router) {
		movieRoute.Get("/", handler.getMovie)

		// Community subtree (social handlers)
		movieRoute.Get("/comments", handler.social.ListComments)
		movieRoute.Group(func(authRoute chi.Router) {
			authRoute.Use(middleware.RequireAuth)

			authRoute.Post("/reactions", handler.social.ReactToMovie)
			authRoute.Post("/comments", handler.social.CreateComment)
			authRoute.Delete("/comments/{commentID}", handler.social.DeleteComment)
			authRoute.Post("/comments/{commentID}/reactions", handler.social.ReactToComment)
		})
	})

	return router
}

// GenreRoutes returns a [chi.Router] for the /genres reference listing.
func (handler *Handler) GenreRoutes() chi.Router {
	router := chi.NewRouter()
	router.Get("/", handler.listGenres)
	return router
}

// CertificationRoutes returns a [chi.Router] for the /certifications subtree.
func (handler *Handler) CertificationRoutes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listCertifications)
	router.With(middleware.RequireAuth, middleware.RequireRole(sec.RoleModerator)).
		Post("/", handler.createCertification)

	return router
}

// # Request Payloads

type createMovieRequest struct {
	Name            string   `json:"name"`
	Year            int      `json:"year"`
	Runtime         int      `json:"runtime"`
	IMDBRating      float64  `json:"imdb_rating"`
	Votes           int      `json:"votes"`
	MetaScore       *int     `json:"meta_score"`
	Gross           *int64   `json:"gross"`
	Description     string   `json:"description"`
	Price           float64  `json:"price"`
	CertificationID int64    `json:"certification_id"`
	Genres          []string `json:"genres"`
	Stars           []string `json:"stars"`
	Directors       []string `json:"directors"`
}

type createCertificationRequest struct {
	Name string `json:"name"`
}

/*
ListMovies returns a filtered, sorted, paginated movie page.

GET /api/v1/movies?page&limit&year&min_rating&max_rating&q&genres&sort_by&order

Response:
  - 200: []Movie: Paginated page
  - 400: ErrBadRequest: Invalid filter or sort parameter
  - 404: ErrNotFound: No movies found
*/
func (handler *Handler) listMovies(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	queryValues := request.URL.Query()

	filter := Filter{
		Query:  queryValues.Get("q"),
		Genres: query.StringSlice(queryValues.Get(FieldGenres)),
		SortBy: queryValues.Get(FieldSortBy),
		Order:  queryValues.Get(FieldOrder),
	}

	if raw := queryValues.Get(FieldYear); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			respond.Error(writer, request, apperr.BadRequest(fmt.Sprintf("Invalid year: '%s'", raw)))
			return
		}
		filter.Year = &year
	}

	if raw := queryValues.Get(FieldMinRating); raw != "" {
		rating, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			respond.Error(writer, request, apperr.BadRequest(fmt.Sprintf("Invalid min_rating: '%s'", raw)))
			return
		}
		filter.MinRating = &rating
	}

	if raw := queryValues.Get(FieldMaxRating); raw != "" {
		rating, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			respond.Error(writer, request, apperr.BadRequest(fmt.Sprintf("Invalid max_rating: '%s'", raw)))
			return
		}
		filter.MaxRating = &rating
	}

	movies, total, err := handler.service.ListMovies(request.Context(), filter, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, movies, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
GetMovie returns the full detail projection for one movie.

GET /api/v1/movies/{movieID}

Response:
  - 200: Movie: Detail with taxonomy and reaction counts
  - 404: ErrNotFound: Movie not found
*/
func (handler *Handler) getMovie(writer http.ResponseWriter, request *http.Request) {
	movieID, err := parseMovieID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	movie, err := handler.service.GetMovie(request.Context(), movieID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, movie)
}

/*
CreateMovie registers a new title with its taxonomy.

POST /api/v1/movies  (moderator+)

Request:
  - Body: createMovieRequest

Response:
  - 201: Movie: Created entity
  - 400: ErrInvalidJSON: Validation failure or unknown certification
  - 409: ErrConflict: Duplicate (name, year, runtime)
*/
func (handler *Handler) createMovie(writer http.ResponseWriter, request *http.Request) {
	var input createMovieRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	v.Required(FieldName, input.Name).
		Range(FieldYear, input.Year, 1888, 2100).
		Range(FieldRuntime, input.Runtime, 1, 1000).
		Custom(FieldIMDBRating, input.IMDBRating < 0 || input.IMDBRating > 10, "must be between 0 and 10").
		Custom(FieldVotes, input.Votes < 0, "must not be negative").
		Custom(FieldPrice, input.Price < 0, "must not be negative").
		Custom(FieldCertification, input.CertificationID <= 0, "is required")

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	movie, err := handler.service.CreateMovie(request.Context(), CreateMovieInput{
		Name:            input.Name,
		Year:            input.Year,
		Runtime:         input.Runtime,
		IMDBRating:      input.IMDBRating,
		Votes:           input.Votes,
		MetaScore:       input.MetaScore,
		Gross:           input.Gross,
		Description:     input.Description,
		Price:           input.Price,
		CertificationID: input.CertificationID,
		Genres:          input.Genres,
		Stars:           input.Stars,
		Directors:       input.Directors,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, movie)
}

/*
ListGenres returns the full genre reference list.

GET /api/v1/genres

Response:
  - 200: []Genre: All rows ordered by name
*/
func (handler *Handler) listGenres(writer http.ResponseWriter, request *http.Request) {
	genres, err := handler.service.ListGenres(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, genres)
}

/*
ListCertifications returns the full certification reference list.

GET /api/v1/certifications

Response:
  - 200: []Certification: All rows
*/
func (handler *Handler) listCertifications(writer http.ResponseWriter, request *http.Request) {
	certifications, err := handler.service.ListCertifications(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, certifications)
}

/*
CreateCertification registers a new age-rating reference row.

POST /api/v1/certifications  (moderator+)

Request:
  - Body: createCertificationRequest (Name)

Response:
  - 201: Certification: Created entity
  - 409: ErrConflict: Duplicate name
*/
func (handler *Handler) createCertification(writer http.ResponseWriter, request *http.Request) {
	var input createCertificationRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	v.Required(FieldName, input.Name)

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	certification, err := handler.service.CreateCertification(request.Context(), input.Name)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, certification)
}

// parseMovieID extracts the positive integer movie id URL parameter.
func parseMovieID(request *http.Request) (int64, error) {
	raw := requestutil.Param(request, "movieID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.BadRequest(fmt.Sprintf("Invalid movie id: '%s'", raw))
	}
	return id, nil
}
