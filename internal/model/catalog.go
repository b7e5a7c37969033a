package model

import "github.com/shopspring/decimal"

// CatalogProduct is one product from the external catalog API.
type CatalogProduct struct {
	ID       int             `json:"id"`
	Title    string          `json:"title"`
	Category string          `json:"category"`
	Brand    string          `json:"brand"`
	Price    decimal.Decimal `json:"price"`
	Rating   decimal.Decimal `json:"rating"`
}

// EnrichedTransaction is a valid Transaction joined to catalog data.
// When Matched is false the catalog fields are zero values.
type EnrichedTransaction struct {
	Transaction

	Category string
	Brand    string
	Rating   decimal.Decimal
	Matched  bool
}
