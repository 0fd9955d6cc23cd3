// Copyright (c) 2026 Cinevault. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import "context"

// # Movie Data Access

// MovieRepository defines the data access contract for movies.
type MovieRepository interface {

	/*
		Create persists a new movie together with its taxonomy in a single
		transaction: genre/star/director rows are upserted by name and the
		junction rows inserted with ON CONFLICT DO NOTHING.

		Parameters:
		  - context: context.Context
		  - movie: *Movie (taxonomy slices carry names to upsert)

		Returns:
		  - error: apperr.Conflict on a duplicate (name, year, runtime) triple,
		    apperr.BadRequest on an unknown certification, or storage failures
	*/
	Create(context context.Context, movie *Movie) error

	/*
		FindByID returns the full movie projection: certification, taxonomy,
		and like/dislike reaction counts.

		Parameters:
		  - context: context.Context
		  - id: int64

		Returns:
		  - *Movie: Hydrated entity
		  - error: dberr.ErrNotFound or retrieval failures
	*/
	FindByID(context context.Context, id int64) (*Movie, error)

	/*
		Exists reports whether a movie row exists, without hydrating it.

		Parameters:
		  - context: context.Context
		  - id: int64

		Returns:
		  - bool: Row presence
		  - error: Retrieval failures
	*/
	Exists(context context.Context, id int64) (bool, error)

	/*
		List returns a filtered, sorted, paginated slice of movies plus the
		total count via a window function.

		Parameters:
		  - context: context.Context
		  - filter: Filter (pre-validated sort key and direction)
		  - limit: int
		  - offset: int

		Returns:
		  - []*Movie: Page of hydrated entities
		  - int: Total count matching the filters
		  - error: Execution failures
	*/
	List(context context.Context, filter Filter, limit, offset int) ([]*Movie, int, error)
}

// # Reference Data Access

// ReferenceRepository defines the data access contract for catalogue
// reference rows (genres and certifications).
type ReferenceRepository interface {

	/*
		ListGenres returns every genre ordered by name.

		Parameters:
		  - context: context.Context

		Returns:
		  - []*Genre: All rows
		  - error: Retrieval failures
	*/
	ListGenres(context context.Context) ([]*Genre, error)

	/*
		ListCertifications returns every certification ordered by id.

		Parameters:
		  - context: context.Context

		Returns:
		  - []*Certification: All rows
		  - error: Retrieval failures
	*/
	ListCertifications(context context.Context) ([]*Certification, error)

	/*
		FindCertificationByID resolves a certification reference row.

		Parameters:
		  - context: context.Context
		  - id: int64

		Returns:
		  - *Certification: Hydrated entity
		  - error: dberr.ErrNotFound or retrieval failures
	*/
	FindCertificationByID(context context.Context, id int64) (*Certification, error)

	/*
		CreateCertification inserts a new certification row.

		Parameters:
		  - context: context.Context
		  - certification: *Certification

		Returns:
		  - error: apperr.Conflict on duplicate name, or storage failures
	*/
	CreateCertification(context context.Context, certification *Certification) error
}
