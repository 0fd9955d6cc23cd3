package schema

// CatalogMovieGenreTable represents the 'catalog.moviegenre' junction table
type CatalogMovieGenreTable struct {
	Table   string
	MovieID string
	GenreID string
}

// CatalogMovieGenre is the schema definition for catalog.moviegenre
var CatalogMovieGenre = CatalogMovieGenreTable{
	Table:   "catalog.moviegenre",
	MovieID: "movieid",
	GenreID: "genreid",
}
