/*
Package catalog manages the movie catalogue and its taxonomic foundations.

It handles the lifecycle and retrieval of movies together with the reference
entities shared across them, ensuring data consistency and enabling rich
discovery features.

# Core Responsibility

  - Movies: Creation (with taxonomy upserts), detail lookup, filtered listing.
  - Taxonomy: [Genre], [Star], [Director] rows deduplicated by name.
  - Classification: [Certification] age-rating reference rows.

This package provides the "Common Language" used by the social and shop
domains to reference titles.
*/
package catalog

import "time"

// # Movie Domain

// Movie represents a purchasable title in the Cinevault catalogue.
type Movie struct {
	ID            int64          `json:"id"`
	PublicID      string         `json:"public_id"`
	Name          string         `json:"name"`
	Year          int            `json:"year"`
	Runtime       int            `json:"runtime"` // minutes
	IMDBRating    float64        `json:"imdb_rating"`
	Votes         int            `json:"votes"`
	MetaScore     *int           `json:"meta_score"`
	Gross         *int64         `json:"gross"`
	Description   string         `json:"description"`
	Price         float64        `json:"price"`
	Certification *Certification `json:"certification,omitempty"`
	Genres        []Genre        `json:"genres,omitempty"`
	Stars         []Star         `json:"stars,omitempty"`
	Directors     []Director     `json:"directors,omitempty"`
	LikeCount     int            `json:"like_count"`
	DislikeCount  int            `json:"dislike_count"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// # Taxonomy Domain

// Genre represents a thematic category, deduplicated by name.
type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Star represents a credited performer, deduplicated by name.
type Star struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Director represents a credited director, deduplicated by name.
type Director struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Certification represents an age-rating reference row (e.g. PG-13, R).
type Certification struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// # Search Params

// Filter holds the parameters for a paginated movie search.
//
// SortBy and Order are validated against allow-lists before reaching the
// store; the store never sees an arbitrary column name.
type Filter struct {
	Year      *int
	MinRating *float64
	MaxRating *float64
	Query     string   // substring OR-match against name and description
	Genres    []string // genre slugs, a movie matches if it carries any of them
	SortBy    string
	Order     string
}

// Allowed sort keys for movie listings, mapped to columns in the store.
var AllowedSortKeys = []string{"name", "year", "imdb", "price", "votes"}

// Allowed sort directions.
var AllowedOrders = []string{"asc", "desc"}

// # Field Identifiers

// Global field names for validation and dynamic query mapping in the catalog domain.
const (
	FieldName          = "name"
	FieldYear          = "year"
	FieldRuntime       = "runtime"
	FieldIMDBRating    = "imdb_rating"
	FieldVotes         = "votes"
	FieldDescription   = "description"
	FieldPrice         = "price"
	FieldCertification = "certification_id"
	FieldGenres        = "genres"
	FieldStars         = "stars"
	FieldDirectors     = "directors"
	FieldSortBy        = "sort_by"
	FieldOrder         = "order"
	FieldMinRating     = "min_rating"
	FieldMaxRating     = "max_rating"
	FieldMessage       = "message"
)
