package schema

// CatalogStarTable represents the 'catalog.star' table
type CatalogStarTable struct {
	Table string
	ID    string
	Name  string
}

// CatalogStar is the schema definition for catalog.star
var CatalogStar = CatalogStarTable{
	Table: "catalog.star",
	ID:    "id",
	Name:  "name",
}
