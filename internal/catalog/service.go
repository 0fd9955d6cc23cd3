// Copyright (c) 2026 Cinevault. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/taibuivan/cinevault/internal/platform/apperr"
	"github.com/taibuivan/cinevault/internal/platform/dberr"
)

// # Contracts & Types

// DetailCache defines the read-through cache contract for movie projections.
// [MovieCache] is the Redis implementation.
type DetailCache interface {
	Get(context context.Context, movieID int64) (*Movie, error)
	Set(context context.Context, movie *Movie) error
	Invalidate(context context.Context, movieID int64) error
}

// Service orchestrates business rules for the movie catalogue.
type Service struct {
	movies     MovieRepository
	references ReferenceRepository
	cache      DetailCache
}

// NewService constructs a new catalog [Service].
func NewService(movies MovieRepository, references ReferenceRepository, cache DetailCache) *Service {
	return &Service{
		movies:     movies,
		references: references,
		cache:      cache,
	}
}

// # Movie Methods

// CreateMovieInput holds the payload for enrolling a new title.
type CreateMovieInput struct {
	Name            string
	Year            int
	Runtime         int
	IMDBRating      float64
	Votes           int
	MetaScore       *int
	Gross           *int64
	Description     string
	Price           float64
	CertificationID int64
	Genres          []string
	Stars           []string
	Directors       []string
}

/*
CreateMovie validates and persists a new title with its taxonomy.

Description: The certification reference is resolved up front (unknown ids
are a client error, not a 404), then the movie and its upserted taxonomy
rows are written in one transaction by the store.

Parameters:
  - context: context.Context
  - input: CreateMovieInput

Returns:
  - *Movie: Created entity with resolved taxonomy ids
  - err: BadRequest (unknown certification), Conflict (duplicate
    name/year/runtime triple), or storage failures
*/
func (service *Service) CreateMovie(context context.Context, input CreateMovieInput) (*Movie, error) {
	certification, err := service.references.FindCertificationByID(context, input.CertificationID)
	if err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			return nil, apperr.BadRequest(fmt.Sprintf("Unknown certification id: %d", input.CertificationID))
		}
		return nil, fmt.Errorf("catalog_service_certification_lookup_failed: %w", err)
	}

	movie := &Movie{
		Name:          strings.TrimSpace(input.Name),
		Year:          input.Year,
		Runtime:       input.Runtime,
		IMDBRating:    input.IMDBRating,
		Votes:         input.Votes,
		MetaScore:     input.MetaScore,
		Gross:         input.Gross,
		Description:   input.Description,
		Price:         input.Price,
		Certification: certification,
		Genres:        namedSlice(input.Genres, func(name string) Genre { return Genre{Name: name} }),
		Stars:         namedSlice(input.Stars, func(name string) Star { return Star{Name: name} }),
		Directors:     namedSlice(input.Directors, func(name string) Director { return Director{Name: name} }),
	}

	if err := service.movies.Create(context, movie); err != nil {
		return nil, err
	}

	return movie, nil
}

// namedSlice builds taxonomy entities from trimmed, deduplicated names.
func namedSlice[T any](names []string, build func(string) T) []T {
	seen := make(map[string]struct{}, len(names))
	out := make([]T, 0, len(names))
	for _, name := range names {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			continue
		}
		if _, dup := seen[trimmed]; dup {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, build(trimmed))
	}
	return out
}

/*
GetMovie returns the full detail projection for a movie.

Description: Read-through — the Redis cache is consulted first; on a miss
the store projection is fetched and cached best-effort.

Parameters:
  - context: context.Context
  - movieID: int64

Returns:
  - *Movie: Hydrated entity
  - err: NotFound ("Movie not found.") or retrieval failures
*/
func (service *Service) GetMovie(context context.Context, movieID int64) (*Movie, error) {
	if cached, err := service.cache.Get(context, movieID); err == nil && cached != nil {
		return cached, nil
	}

	movie, err := service.movies.FindByID(context, movieID)
	if err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			return nil, apperr.NotFoundWith("Movie not found.")
		}
		return nil, fmt.Errorf("catalog_service_get_movie_failed: %w", err)
	}

	// Best-effort population; a write failure must not break the read path.
	_ = service.cache.Set(context, movie)

	return movie, nil
}

/*
MovieExists confirms a movie row exists.

Description: Lightweight existence gate used by the social and shop domains
before attaching comments, reactions, or cart items.

Parameters:
  - context: context.Context
  - movieID: int64

Returns:
  - err: NotFound ("Movie not found.") or retrieval failures
*/
func (service *Service) MovieExists(context context.Context, movieID int64) error {
	exists, err := service.movies.Exists(context, movieID)
	if err != nil {
		return fmt.Errorf("catalog_service_movie_exists_failed: %w", err)
	}
	if !exists {
		return apperr.NotFoundWith("Movie not found.")
	}
	return nil
}

/*
ListMovies returns a validated, filtered, paginated movie page.

Description: Sort key, direction, and rating bounds are validated against
allow-lists before the store builds any SQL. An empty result page is a 404
("No movies found") rather than an empty 200.

Parameters:
  - context: context.Context
  - filter: Filter
  - limit: int (pre-clamped by pagination)
  - offset: int

Returns:
  - []*Movie: Page of entities
  - int: Total count matching the filters
  - err: BadRequest on invalid filter/sort, NotFound on an empty page
*/
func (service *Service) ListMovies(context context.Context, filter Filter, limit, offset int) ([]*Movie, int, error) {
	if err := validateFilter(filter); err != nil {
		return nil, 0, err
	}

	movies, total, err := service.movies.List(context, filter, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("catalog_service_list_movies_failed: %w", err)
	}

	if len(movies) == 0 {
		return nil, 0, apperr.NotFoundWith("No movies found")
	}

	return movies, total, nil
}

// validateFilter enforces the sort and rating allow-lists.
func validateFilter(filter Filter) error {
	if filter.SortBy != "" && !slices.Contains(AllowedSortKeys, filter.SortBy) {
		return apperr.BadRequest(fmt.Sprintf("Invalid sort key: '%s'", filter.SortBy))
	}
	if filter.Order != "" && !slices.Contains(AllowedOrders, strings.ToLower(filter.Order)) {
		return apperr.BadRequest(fmt.Sprintf("Invalid sort order: '%s'", filter.Order))
	}
	if filter.MinRating != nil && (*filter.MinRating < 0 || *filter.MinRating > 10) {
		return apperr.BadRequest("min_rating must be between 0 and 10")
	}
	if filter.MaxRating != nil && (*filter.MaxRating < 0 || *filter.MaxRating > 10) {
		return apperr.BadRequest("max_rating must be between 0 and 10")
	}
	return nil
}

// # Reference Methods

/*
ListGenres returns every genre in the catalogue.

Parameters:
  - context: context.Context

Returns:
  - []*Genre: All rows ordered by name
  - err: Retrieval failures
*/
func (service *Service) ListGenres(context context.Context) ([]*Genre, error) {
	return service.references.ListGenres(context)
}

/*
ListCertifications returns every certification reference row.

Parameters:
  - context: context.Context

Returns:
  - []*Certification: All rows
  - err: Retrieval failures
*/
func (service *Service) ListCertifications(context context.Context) ([]*Certification, error) {
	return service.references.ListCertifications(context)
}

/*
CreateCertification registers a new age-rating reference row.

Parameters:
  - context: context.Context
  - name: string

Returns:
  - *Certification: Created entity
  - err: Conflict on duplicate name, or storage failures
*/
func (service *Service) CreateCertification(context context.Context, name string) (*Certification, error) {
	certification := &Certification{Name: strings.TrimSpace(name)}

	if err := service.references.CreateCertification(context, certification); err != nil {
		return nil, err
	}

	return certification, nil
}
