package schema

// CatalogMovieDirectorTable represents the 'catalog.moviedirector' junction table
type CatalogMovieDirectorTable struct {
	Table      string
	MovieID    string
	DirectorID string
}

// CatalogMovieDirector is the schema definition for catalog.moviedirector
var CatalogMovieDirector = CatalogMovieDirectorTable{
	Table:      "catalog.moviedirector",
	MovieID:    "movieid",
	DirectorID: "directorid",
}
