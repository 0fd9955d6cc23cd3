package schema

// CatalogCertificationTable represents the 'catalog.certification' table
type CatalogCertificationTable struct {
	Table string
	ID    string
	Name  string
}

// CatalogCertification is the schema definition for catalog.certification
var CatalogCertification = CatalogCertificationTable{
	Table: "catalog.certification",
	ID:    "id",
	Name:  "name",
}
