// Package catalog manages products, categories, attributes, and the
// variation matrix of variable products.
package catalog

import (
	"time"

	"github.com/maaltijdbox/admin-api/internal/pricing"
)

// ProductType distinguishes simple products from attribute-based variable ones.
type ProductType string

const (
	ProductSimple   ProductType = "simple"
	ProductVariable ProductType = "variable"
)

// Product is a catalog item. Prices are nullable: an unpriced product is
// displayable but not sellable, and the pricing engine reports its price as
// absent rather than zero.
type Product struct {
	ID           string          `json:"id"`
	Type         ProductType     `json:"type"`
	Name         string          `json:"name"`
	Slug         string          `json:"slug"`
	Description  *string         `json:"description"`
	TaxPercent   pricing.TaxRate `json:"tax_percent"`
	RegularPrice *float64        `json:"regular_price"`
	SalePrice    *float64        `json:"sale_price"`
	Stock        *int            `json:"stock"`
	CategoryID   *string         `json:"category_id"`
	Variations   []Variation     `json:"variations,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// Priceable views the product through the pricing engine's price pair.
func (p Product) Priceable() pricing.Priceable {
	return pricing.Priceable{RegularPrice: p.RegularPrice, SalePrice: p.SalePrice}
}

// Category groups products. SortOrder is the admin-assigned display position.
type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Attribute is a named axis of variation, such as size or flavour.
type Attribute struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Terms []Term `json:"terms,omitempty"`
}

// Term is one value of an attribute, shown in admin-assigned order.
type Term struct {
	ID          string `json:"id"`
	AttributeID string `json:"attribute_id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	SortOrder   int    `json:"sort_order"`
}

// Variation is one combination of attribute terms of a variable product. Its
// prices, when set, override the parent product's for lines that reference it.
type Variation struct {
	ID           string   `json:"id"`
	ProductID    string   `json:"product_id"`
	TermIDs      []string `json:"term_ids"`
	Label        string   `json:"label"`
	RegularPrice *float64 `json:"regular_price"`
	SalePrice    *float64 `json:"sale_price"`
	Stock        *int     `json:"stock"`
}

// Priceable views the variation through the pricing engine's price pair.
func (v Variation) Priceable() pricing.Priceable {
	return pricing.Priceable{RegularPrice: v.RegularPrice, SalePrice: v.SalePrice}
}
