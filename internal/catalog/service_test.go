// Copyright (c) 2026 Cinevault. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/cinevault/internal/catalog"
	"github.com/taibuivan/cinevault/internal/platform/apperr"
	"github.com/taibuivan/cinevault/internal/platform/dberr"
	"github.com/taibuivan/cinevault/pkg/pointer"
)

// # In-Memory Fakes

type fakeMovieRepository struct {
	byID       map[int64]*catalog.Movie
	nextID     int64
	lastFilter catalog.Filter
	findErr    error // injected storage failure for FindByID
}

func newFakeMovieRepository() *fakeMovieRepository {
	return &fakeMovieRepository{byID: map[int64]*catalog.Movie{}, nextID: 1}
}

func (f *fakeMovieRepository) Create(_ context.Context, movie *catalog.Movie) error {
	for _, existing := range f.byID {
		if existing.Name == movie.Name && existing.Year == movie.Year && existing.Runtime == movie.Runtime {
			return dberr.ErrConflict
		}
	}
	movie.ID = f.nextID
	f.nextID++
	clone := *movie
	f.byID[movie.ID] = &clone
	return nil
}

func (f *fakeMovieRepository) FindByID(_ context.Context, id int64) (*catalog.Movie, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	movie, ok := f.byID[id]
	if !ok {
		return nil, dberr.ErrNotFound
	}
	clone := *movie
	return &clone, nil
}

func (f *fakeMovieRepository) Exists(_ context.Context, id int64) (bool, error) {
	_, ok := f.byID[id]
	return ok, nil
}

func (f *fakeMovieRepository) List(_ context.Context, filter catalog.Filter, _, _ int) ([]*catalog.Movie, int, error) {
	f.lastFilter = filter
	var out []*catalog.Movie
	for _, movie := range f.byID {
		if filter.Year != nil && movie.Year != *filter.Year {
			continue
		}
		clone := *movie
		out = append(out, &clone)
	}
	return out, len(out), nil
}

type fakeReferenceRepository struct {
	certifications map[int64]*catalog.Certification
	genres         []*catalog.Genre
	nextID         int64
	findErr        error // injected storage failure for FindCertificationByID
}

func newFakeReferenceRepository() *fakeReferenceRepository {
	return &fakeReferenceRepository{certifications: map[int64]*catalog.Certification{}, nextID: 1}
}

func (f *fakeReferenceRepository) ListGenres(_ context.Context) ([]*catalog.Genre, error) {
	return f.genres, nil
}

func (f *fakeReferenceRepository) ListCertifications(_ context.Context) ([]*catalog.Certification, error) {
	var out []*catalog.Certification
	for _, certification := range f.certifications {
		out = append(out, certification)
	}
	return out, nil
}

func (f *fakeReferenceRepository) FindCertificationByID(_ context.Context, id int64) (*catalog.Certification, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	certification, ok := f.certifications[id]
	if !ok {
		return nil, dberr.ErrNotFound
	}
	return certification, nil
}

func (f *fakeReferenceRepository) CreateCertification(_ context.Context, certification *catalog.Certification) error {
	for _, existing := range f.certifications {
		if existing.Name == certification.Name {
			return dberr.ErrConflict
		}
	}
	certification.ID = f.nextID
	f.nextID++
	f.certifications[certification.ID] = certification
	return nil
}

type fakeCache struct {
	entries      map[int64]*catalog.Movie
	hits, misses int
	invalidated  []int64
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[int64]*catalog.Movie{}}
}

func (f *fakeCache) Get(_ context.Context, movieID int64) (*catalog.Movie, error) {
	if movie, ok := f.entries[movieID]; ok {
		f.hits++
		return movie, nil
	}
	f.misses++
	return nil, nil
}

func (f *fakeCache) Set(_ context.Context, movie *catalog.Movie) error {
	f.entries[movie.ID] = movie
	return nil
}

func (f *fakeCache) Invalidate(_ context.Context, movieID int64) error {
	delete(f.entries, movieID)
	f.invalidated = append(f.invalidated, movieID)
	return nil
}

// # Harness

type catalogHarness struct {
	service    *catalog.Service
	movies     *fakeMovieRepository
	references *fakeReferenceRepository
	cache      *fakeCache
}

func newCatalogHarness() *catalogHarness {
	movies := newFakeMovieRepository()
	references := newFakeReferenceRepository()
	references.certifications[1] = &catalog.Certification{ID: 1, Name: "PG-13"}
	cache := newFakeCache()

	return &catalogHarness{
		service:    catalog.NewService(movies, references, cache),
		movies:     movies,
		references: references,
		cache:      cache,
	}
}

func validCreateInput() catalog.CreateMovieInput {
	return catalog.CreateMovieInput{
		Name:            "The Matrix",
		Year:            1999,
		Runtime:         136,
		IMDBRating:      8.7,
		Votes:           2000000,
		Description:     "A hacker discovers reality is a simulation.",
		Price:           9.99,
		CertificationID: 1,
		Genres:          []string{"Sci-Fi", "Action", "Sci-Fi"},
		Stars:           []string{"Keanu Reeves"},
		Directors:       []string{"Lana Wachowski", "Lilly Wachowski"},
	}
}

// # Tests

/*
TestService_CreateMovie covers certification resolution, taxonomy
deduplication, and the duplicate-triple conflict.
*/
func TestService_CreateMovie(t *testing.T) {
	t.Run("creates_with_deduplicated_taxonomy", func(t *testing.T) {
		h := newCatalogHarness()

		movie, err := h.service.CreateMovie(context.Background(), validCreateInput())
		require.NoError(t, err)

		assert.NotZero(t, movie.ID)
		assert.Equal(t, "PG-13", movie.Certification.Name)
		assert.Len(t, movie.Genres, 2, "repeated genre names collapse to one")
		assert.Len(t, movie.Directors, 2)
	})

	t.Run("unknown_certification_bad_request", func(t *testing.T) {
		h := newCatalogHarness()
		input := validCreateInput()
		input.CertificationID = 99

		_, err := h.service.CreateMovie(context.Background(), input)

		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, 400, ae.HTTPStatus)
	})

	t.Run("certification_lookup_outage_is_internal", func(t *testing.T) {
		h := newCatalogHarness()
		h.references.findErr = apperr.Internal(errors.New("connection refused"))

		_, err := h.service.CreateMovie(context.Background(), validCreateInput())

		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, 500, ae.HTTPStatus, "storage outage must not masquerade as a client error")
	})

	t.Run("duplicate_triple_conflicts", func(t *testing.T) {
		h := newCatalogHarness()
		_, err := h.service.CreateMovie(context.Background(), validCreateInput())
		require.NoError(t, err)

		_, err = h.service.CreateMovie(context.Background(), validCreateInput())

		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, 409, ae.HTTPStatus)
	})
}

/*
TestService_GetMovie exercises the read-through cache path.
*/
func TestService_GetMovie(t *testing.T) {
	t.Run("miss_populates_cache_then_hits", func(t *testing.T) {
		h := newCatalogHarness()
		created, err := h.service.CreateMovie(context.Background(), validCreateInput())
		require.NoError(t, err)

		first, err := h.service.GetMovie(context.Background(), created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.Name, first.Name)
		assert.Equal(t, 1, h.cache.misses)

		_, err = h.service.GetMovie(context.Background(), created.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, h.cache.hits, "second read must come from the cache")
	})

	t.Run("absent_movie_not_found", func(t *testing.T) {
		h := newCatalogHarness()

		_, err := h.service.GetMovie(context.Background(), 42)

		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, 404, ae.HTTPStatus)
		assert.Equal(t, "Movie not found.", ae.Message)
	})

	t.Run("storage_outage_is_internal", func(t *testing.T) {
		h := newCatalogHarness()
		h.movies.findErr = apperr.Internal(errors.New("connection refused"))

		_, err := h.service.GetMovie(context.Background(), 42)

		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, 500, ae.HTTPStatus, "storage outage must not masquerade as a missing movie")
	})
}

/*
TestService_ListMovies checks filter validation and empty-page semantics.
*/
func TestService_ListMovies(t *testing.T) {
	invalidFilters := []struct {
		name   string
		filter catalog.Filter
	}{
		{"bad_sort_key", catalog.Filter{SortBy: "price; DROP TABLE"}},
		{"bad_order", catalog.Filter{Order: "sideways"}},
		{"min_rating_out_of_range", catalog.Filter{MinRating: pointer.To(10.5)}},
		{"max_rating_negative", catalog.Filter{MaxRating: pointer.To(-1.0)}},
	}

	for _, tt := range invalidFilters {
		t.Run(tt.name, func(t *testing.T) {
			h := newCatalogHarness()

			_, _, err := h.service.ListMovies(context.Background(), tt.filter, 20, 0)

			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, 400, ae.HTTPStatus)
		})
	}

	t.Run("empty_page_not_found", func(t *testing.T) {
		h := newCatalogHarness()

		_, _, err := h.service.ListMovies(context.Background(), catalog.Filter{}, 20, 0)

		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, 404, ae.HTTPStatus)
		assert.Equal(t, "No movies found", ae.Message)
	})

	t.Run("valid_filter_reaches_store", func(t *testing.T) {
		h := newCatalogHarness()
		_, err := h.service.CreateMovie(context.Background(), validCreateInput())
		require.NoError(t, err)

		filter := catalog.Filter{Year: pointer.To(1999), SortBy: "imdb", Order: "desc"}
		movies, total, err := h.service.ListMovies(context.Background(), filter, 20, 0)
		require.NoError(t, err)

		assert.Len(t, movies, 1)
		assert.Equal(t, 1, total)
		assert.Equal(t, "imdb", h.movies.lastFilter.SortBy)
	})
}

/*
TestService_MovieExists verifies the lightweight existence gate.
*/
func TestService_MovieExists(t *testing.T) {
	h := newCatalogHarness()
	created, err := h.service.CreateMovie(context.Background(), validCreateInput())
	require.NoError(t, err)

	assert.NoError(t, h.service.MovieExists(context.Background(), created.ID))

	err = h.service.MovieExists(context.Background(), 404)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, 404, ae.HTTPStatus)
}

/*
TestService_CreateCertification covers the reference write path.
*/
func TestService_CreateCertification(t *testing.T) {
	h := newCatalogHarness()

	created, err := h.service.CreateCertification(context.Background(), "  R  ")
	require.NoError(t, err)
	assert.Equal(t, "R", created.Name)

	_, err = h.service.CreateCertification(context.Background(), "R")
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, 409, ae.HTTPStatus)
}
