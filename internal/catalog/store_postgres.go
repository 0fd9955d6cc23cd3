// Copyright (c) 2026 Cinevault. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
PostgreSQL implementation for the catalogue's data access.

It utilizes advanced Postgres features to deliver a high-performance discovery
experience:
  - JSON Aggregation: Retrieves complex nested data (genres, stars, directors)
    in a single round-trip.
  - Window Functions: Calculates total result counts without requiring a
    separate 'COUNT' query.
  - ACID Transactions: Ensures atomicity when inserting movies and their
    junction tables.

The repository follows an "Aggregate" pattern where taxonomy rows are managed
through the movie repository instance to maintain domain integrity.
*/
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/cinevault/internal/platform/database/schema"
	"github.com/taibuivan/cinevault/internal/platform/dberr"
	"github.com/taibuivan/cinevault/pkg/slug"
	"github.com/taibuivan/cinevault/pkg/uuidv7"
)

// # PostgreSQL Repositories

// movieRepository implements the [MovieRepository] interface using pgx.
type movieRepository struct {
	pool *pgxpool.Pool
}

// NewMovieRepository constructs a PostgreSQL backed movie store.
func NewMovieRepository(pool *pgxpool.Pool) MovieRepository {
	return &movieRepository{pool: pool}
}

/*
Create persists a movie and its taxonomy atomically.

Description: Runs in one transaction — the movie row is inserted first
(the UNIQUE (name, year, runtime) triple surfaces duplicates as Conflict),
then each genre/star/director is upserted by name and linked through its
junction table with ON CONFLICT DO NOTHING.

Parameters:
  - context: context.Context
  - movie: *Movie (taxonomy slices carry the names to upsert)

Returns:
  - error: apperr.Conflict, apperr.BadRequest (unknown certification FK), or
    execution failures
*/
func (repository *movieRepository) Create(context context.Context, movie *Movie) error {
	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return fmt.Errorf("postgres: failed to begin movie create: %w", err)
	}
	defer transaction.Rollback(context)

	// ── 1. Insert the movie row ──
	const insertMovie = `
		INSERT INTO catalog.movie (
			publicid, name, year, runtime, imdbrating, votes, metascore, gross,
			description, price, certificationid, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
		RETURNING id, createdat, updatedat`

	movie.PublicID = uuidv7.New()
	err = transaction.QueryRow(context, insertMovie,
		movie.PublicID,
		movie.Name,
		movie.Year,
		movie.Runtime,
		movie.IMDBRating,
		movie.Votes,
		movie.MetaScore,
		movie.Gross,
		movie.Description,
		movie.Price,
		movie.Certification.ID,
	).Scan(&movie.ID, &movie.CreatedAt, &movie.UpdatedAt)
	if err != nil {
		return dberr.Wrap(err, "postgres: failed to insert movie")
	}

	// ── 2. Upsert taxonomy rows by name and link them ──
	for index, genre := range movie.Genres {
		id, err := upsertNamedRow(context, transaction,
			`INSERT INTO catalog.genre (name, slug) VALUES ($1, $2) ON CONFLICT (name) DO NOTHING`,
			`SELECT id FROM catalog.genre WHERE name = $1`,
			genre.Name, slug.From(genre.Name))
		if err != nil {
			return err
		}
		movie.Genres[index].ID = id
		movie.Genres[index].Slug = slug.From(genre.Name)

		if err := linkJunction(context, transaction,
			`INSERT INTO catalog.moviegenre (movieid, genreid) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			movie.ID, id); err != nil {
			return err
		}
	}

	for index, star := range movie.Stars {
		id, err := upsertNamedRow(context, transaction,
			`INSERT INTO catalog.star (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`,
			`SELECT id FROM catalog.star WHERE name = $1`,
			star.Name)
		if err != nil {
			return err
		}
		movie.Stars[index].ID = id

		if err := linkJunction(context, transaction,
			`INSERT INTO catalog.moviestar (movieid, starid) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			movie.ID, id); err != nil {
			return err
		}
	}

	for index, director := range movie.Directors {
		id, err := upsertNamedRow(context, transaction,
			`INSERT INTO catalog.director (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`,
			`SELECT id FROM catalog.director WHERE name = $1`,
			director.Name)
		if err != nil {
			return err
		}
		movie.Directors[index].ID = id

		if err := linkJunction(context, transaction,
			`INSERT INTO catalog.moviedirector (movieid, directorid) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			movie.ID, id); err != nil {
			return err
		}
	}

	if err := transaction.Commit(context); err != nil {
		return fmt.Errorf("postgres: failed to commit movie create: %w", err)
	}

	return nil
}

// upsertNamedRow inserts a name-deduplicated reference row and resolves its
// id. ON CONFLICT DO NOTHING absorbs concurrent creation; the follow-up
// SELECT sees the surviving row either way.
func upsertNamedRow(context context.Context, transaction pgx.Tx, insert, lookup string, args ...any) (int64, error) {
	if _, err := transaction.Exec(context, insert, args...); err != nil {
		return 0, dberr.Wrap(err, "postgres: failed to upsert reference row")
	}

	var id int64
	if err := transaction.QueryRow(context, lookup, args[0]).Scan(&id); err != nil {
		return 0, dberr.Wrap(err, "postgres: failed to resolve reference row")
	}

	return id, nil
}

// linkJunction inserts a movie↔taxonomy junction row, tolerating duplicates.
func linkJunction(context context.Context, transaction pgx.Tx, insert string, movieID, referenceID int64) error {
	if _, err := transaction.Exec(context, insert, movieID, referenceID); err != nil {
		return dberr.Wrap(err, "postgres: failed to link junction row")
	}
	return nil
}

// movieProjection is the shared SELECT list for detail and list queries:
// certification join, JSON-aggregated taxonomy, and reaction counts.
const movieProjection = `
	SELECT
		m.id, m.publicid, m.name, m.year, m.runtime, m.imdbrating, m.votes,
		m.metascore, m.gross, m.description, m.price, m.createdat, m.updatedat,
		c.id, c.name,
		COALESCE((
			SELECT json_agg(json_build_object('id', g.id, 'name', g.name, 'slug', g.slug))
			FROM catalog.genre g
			JOIN catalog.moviegenre mg ON g.id = mg.genreid
			WHERE mg.movieid = m.id
		), '[]') AS genres,
		COALESCE((
			SELECT json_agg(json_build_object('id', s.id, 'name', s.name))
			FROM catalog.star s
			JOIN catalog.moviestar ms ON s.id = ms.starid
			WHERE ms.movieid = m.id
		), '[]') AS stars,
		COALESCE((
			SELECT json_agg(json_build_object('id', d.id, 'name', d.name))
			FROM catalog.director d
			JOIN catalog.moviedirector md ON d.id = md.directorid
			WHERE md.movieid = m.id
		), '[]') AS directors,
		(SELECT COUNT(*) FROM social.moviereaction r WHERE r.movieid = m.id AND r.reaction = 'like') AS likes,
		(SELECT COUNT(*) FROM social.moviereaction r WHERE r.movieid = m.id AND r.reaction = 'dislike') AS dislikes`

// scanMovie hydrates one projected row, including the aggregated JSON columns.
func scanMovie(row pgx.Row, extra ...any) (*Movie, error) {
	movie := &Movie{Certification: &Certification{}}
	var genresJSON, starsJSON, directorsJSON []byte

	targets := []any{
		&movie.ID, &movie.PublicID, &movie.Name, &movie.Year, &movie.Runtime,
		&movie.IMDBRating, &movie.Votes, &movie.MetaScore, &movie.Gross,
		&movie.Description, &movie.Price, &movie.CreatedAt, &movie.UpdatedAt,
		&movie.Certification.ID, &movie.Certification.Name,
		&genresJSON, &starsJSON, &directorsJSON,
		&movie.LikeCount, &movie.DislikeCount,
	}
	targets = append(targets, extra...)

	if err := row.Scan(targets...); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(genresJSON, &movie.Genres); err != nil {
		return nil, fmt.Errorf("postgres: failed to unmarshal genres: %w", err)
	}
	if err := json.Unmarshal(starsJSON, &movie.Stars); err != nil {
		return nil, fmt.Errorf("postgres: failed to unmarshal stars: %w", err)
	}
	if err := json.Unmarshal(directorsJSON, &movie.Directors); err != nil {
		return nil, fmt.Errorf("postgres: failed to unmarshal directors: %w", err)
	}

	return movie, nil
}

/*
FindByID retrieves the full movie projection by its primary key.

Description: A single round-trip hydrates the certification, the JSON-
aggregated taxonomy, and the like/dislike counts, avoiding the classic N+1
query problem.

Parameters:
  - context: context.Context
  - id: int64

Returns:
  - *Movie: Fully hydrated entity
  - error: dberr.ErrNotFound or execution failures
*/
func (repository *movieRepository) FindByID(context context.Context, id int64) (*Movie, error) {
	query := movieProjection + `
	FROM catalog.movie m
	JOIN catalog.certification c ON c.id = m.certificationid
	WHERE m.id = $1`

	movie, err := scanMovie(repository.pool.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "postgres: failed to find movie by id")
	}

	return movie, nil
}

/*
Exists reports row presence without hydrating the projection.

Parameters:
  - context: context.Context
  - id: int64

Returns:
  - bool: Whether the movie exists
  - error: Execution failures
*/
func (repository *movieRepository) Exists(context context.Context, id int64) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM catalog.movie WHERE id = $1)`

	var exists bool
	if err := repository.pool.QueryRow(context, query, id).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, "postgres: failed to check movie existence")
	}

	return exists, nil
}

/*
List returns a filtered, paginated slice of movies and the total count.

Description: This query utilizes a window function (COUNT(*) OVER()) to
retrieve total record counts without a second query, and JSON aggregation
for the taxonomy. Filters are appended dynamically with a positional arg
counter; the sort key arrives pre-validated from the service layer.

Parameters:
  - context: context.Context
  - filter: Filter
  - limit: int
  - offset: int

Returns:
  - []*Movie: Page of hydrated entities
  - int: Total count matching the filters
  - error: Execution failures
*/
func (repository *movieRepository) List(context context.Context, filter Filter, limit, offset int) ([]*Movie, int, error) {

	// Query build initialization
	var queryBuilder strings.Builder
	var args []any
	argID := 1

	queryBuilder.WriteString(movieProjection)
	queryBuilder.WriteString(`,
		COUNT(*) OVER() AS total_count
	FROM catalog.movie m
	JOIN catalog.certification c ON c.id = m.certificationid
	WHERE TRUE`)

	// Apply Filters (Dynamic WHERE clause construction)
	if filter.Year != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND m.%s = $%d", schema.CatalogMovie.Year, argID))
		args = append(args, *filter.Year)
		argID++
	}

	if filter.MinRating != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND m.%s >= $%d", schema.CatalogMovie.IMDBRating, argID))
		args = append(args, *filter.MinRating)
		argID++
	}

	if filter.MaxRating != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND m.%s <= $%d", schema.CatalogMovie.IMDBRating, argID))
		args = append(args, *filter.MaxRating)
		argID++
	}

	// Genre membership via the junction table (any listed slug matches)
	if len(filter.Genres) > 0 {
		queryBuilder.WriteString(fmt.Sprintf(` AND EXISTS (
			SELECT 1 FROM %s mg
			JOIN %s g ON g.%s = mg.%s
			WHERE mg.%s = m.%s AND g.%s = ANY($%d)
		)`,
			schema.CatalogMovieGenre.Table,
			schema.CatalogGenre.Table, schema.CatalogGenre.ID, schema.CatalogMovieGenre.GenreID,
			schema.CatalogMovieGenre.MovieID, schema.CatalogMovie.ID,
			schema.CatalogGenre.Slug, argID))
		args = append(args, filter.Genres)
		argID++
	}

	// Substring OR-match against name and description
	if filter.Query != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND (m.%s ILIKE $%d OR m.%s ILIKE $%d)",
			schema.CatalogMovie.Name, argID, schema.CatalogMovie.Description, argID))
		args = append(args, "%"+filter.Query+"%")
		argID++
	}

	// Apply Sorting Logic (keys pre-validated by the service)
	sortColumn := schema.CatalogMovie.Name
	switch filter.SortBy {
	case "year":
		sortColumn = schema.CatalogMovie.Year
	case "imdb":
		sortColumn = schema.CatalogMovie.IMDBRating
	case "price":
		sortColumn = schema.CatalogMovie.Price
	case "votes":
		sortColumn = schema.CatalogMovie.Votes
	}

	sortDirection := "ASC"
	if strings.EqualFold(filter.Order, "desc") {
		sortDirection = "DESC"
	}

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY m.%s %s, m.%s ASC", sortColumn, sortDirection, schema.CatalogMovie.ID))

	// Pagination injection
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argID, argID+1))
	args = append(args, limit, offset)

	// Query Execution
	rows, err := repository.pool.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres: failed to list movies: %w", err)
	}
	defer rows.Close()

	var movies []*Movie
	var totalCount int

	for rows.Next() {
		movie, err := scanMovie(rows, &totalCount)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres: failed to scan movie: %w", err)
		}
		movies = append(movies, movie)
	}

	return movies, totalCount, nil
}

// # Reference Repository

// referenceRepository implements [ReferenceRepository] using pgx.
type referenceRepository struct {
	pool *pgxpool.Pool
}

// NewReferenceRepository constructs a PostgreSQL backed reference store.
func NewReferenceRepository(pool *pgxpool.Pool) ReferenceRepository {
	return &referenceRepository{pool: pool}
}

/*
ListGenres returns every genre row ordered by name.

Parameters:
  - context: context.Context

Returns:
  - []*Genre: All rows
  - error: Execution failures
*/
func (repository *referenceRepository) ListGenres(context context.Context) ([]*Genre, error) {
	const query = `SELECT id, name, slug FROM catalog.genre ORDER BY name ASC`

	rows, err := repository.pool.Query(context, query)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list genres: %w", err)
	}
	defer rows.Close()

	var genres []*Genre
	for rows.Next() {
		genre := &Genre{}
		if err := rows.Scan(&genre.ID, &genre.Name, &genre.Slug); err != nil {
			return nil, fmt.Errorf("postgres: failed to scan genre: %w", err)
		}
		genres = append(genres, genre)
	}

	return genres, nil
}

/*
ListCertifications returns every certification row ordered by id.

Parameters:
  - context: context.Context

Returns:
  - []*Certification: All rows
  - error: Execution failures
*/
func (repository *referenceRepository) ListCertifications(context context.Context) ([]*Certification, error) {
	const query = `SELECT id, name FROM catalog.certification ORDER BY id ASC`

	rows, err := repository.pool.Query(context, query)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list certifications: %w", err)
	}
	defer rows.Close()

	var certifications []*Certification
	for rows.Next() {
		certification := &Certification{}
		if err := rows.Scan(&certification.ID, &certification.Name); err != nil {
			return nil, fmt.Errorf("postgres: failed to scan certification: %w", err)
		}
		certifications = append(certifications, certification)
	}

	return certifications, nil
}

/*
FindCertificationByID resolves a single certification reference row.

Parameters:
  - context: context.Context
  - id: int64

Returns:
  - *Certification: Hydrated entity
  - error: dberr.ErrNotFound or execution failures
*/
func (repository *referenceRepository) FindCertificationByID(context context.Context, id int64) (*Certification, error) {
	const query = `SELECT id, name FROM catalog.certification WHERE id = $1`

	certification := &Certification{}
	err := repository.pool.QueryRow(context, query, id).Scan(&certification.ID, &certification.Name)
	if err != nil {
		return nil, dberr.Wrap(err, "postgres: failed to find certification")
	}

	return certification, nil
}

/*
CreateCertification inserts a new certification row.

Parameters:
  - context: context.Context
  - certification: *Certification

Returns:
  - error: apperr.Conflict on a duplicate name, or execution failures
*/
func (repository *referenceRepository) CreateCertification(context context.Context, certification *Certification) error {
	const query = `INSERT INTO catalog.certification (name) VALUES ($1) RETURNING id`

	err := repository.pool.QueryRow(context, query, certification.Name).Scan(&certification.ID)
	if err != nil {
		return dberr.Wrap(err, "postgres: failed to create certification")
	}

	return nil
}
