package domain

import "github.com/shopspring/decimal"

// CustomizationOption is an extra a customer can select, priced as an
// additive surcharge on the base price.
type CustomizationOption struct {
	ID        string
	Label     string
	Surcharge decimal.Decimal
}

type CatalogItem struct {
	Name        string              `json:"name"`
	Price       decimal.Decimal     `json:"price"`
	Description string              `json:"description,omitempty"`
	Image       string              `json:"image,omitempty"`
	Rating      decimal.NullDecimal `json:"rating"`
}
