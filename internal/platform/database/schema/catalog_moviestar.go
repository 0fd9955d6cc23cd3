package schema

// CatalogMovieStarTable represents the 'catalog.moviestar' junction table
type CatalogMovieStarTable struct {
	Table   string
	MovieID string
	StarID  string
}

// CatalogMovieStar is the schema definition for catalog.moviestar
var CatalogMovieStar = CatalogMovieStarTable{
	Table:   "catalog.moviestar",
	MovieID: "movieid",
	StarID:  "starid",
}
