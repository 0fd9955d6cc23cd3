package schema

// CatalogMovieTable represents the 'catalog.movie' table
type CatalogMovieTable struct {
	Table           string
	ID              string
	PublicID        string
	Name            string
	Year            string
	Runtime         string
	IMDBRating      string
	Votes           string
	MetaScore       string
	Gross           string
	Description     string
	Price           string
	CertificationID string
	CreatedAt       string
	UpdatedAt       string
}

// CatalogMovie is the schema definition for catalog.movie
var CatalogMovie = CatalogMovieTable{
	Table:           "catalog.movie",
	ID:              "id",
	PublicID:        "publicid",
	Name:            "name",
	Year:            "year",
	Runtime:         "runtime",
	IMDBRating:      "imdbrating",
	Votes:           "votes",
	MetaScore:       "metascore",
	Gross:           "gross",
	Description:     "description",
	Price:           "price",
	CertificationID: "certificationid",
	CreatedAt:       "createdat",
	UpdatedAt:       "updatedat",
}
