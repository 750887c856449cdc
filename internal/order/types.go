// Package order manages product orders and meal-subscription orders, and
// computes their priced breakdowns.
package order

import (
	"time"

	"github.com/maaltijdbox/admin-api/internal/pricing"
)

// Status is the lifecycle state of an order.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// Valid reports whether the status is one the back office accepts.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Order is a product order placed through the shop.
type Order struct {
	ID            string    `json:"id"`
	Number        int64     `json:"number"`
	CustomerName  string    `json:"customer_name"`
	CustomerEmail string    `json:"customer_email"`
	Status        Status    `json:"status"`
	CouponCode    *string   `json:"coupon_code"`
	Lines         []Line    `json:"lines,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Line references a product, optionally one of its variations, and a quantity.
// Prices are never stored on the line; the breakdown resolves them from the
// catalog at read time.
type Line struct {
	ID          string  `json:"id"`
	OrderID     string  `json:"order_id"`
	ProductID   string  `json:"product_id"`
	VariationID *string `json:"variation_id"`
	Qty         int     `json:"qty"`
}

// MealOrder is a meal-subscription order. The weekly price is fixed at
// checkout, so it is stored rather than recomputed.
type MealOrder struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	NumberOfDays int       `json:"number_of_days"`
	WeeklyPrice  float64   `json:"weekly_price"`
	DeliveryZip  string    `json:"delivery_zip"`
	Status       Status    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// BreakdownLine is one order line with its resolved price. Priced is false
// when neither the product nor its variation carries a price; such lines are
// excluded from the totals and must be rendered as unpriced, not as free.
type BreakdownLine struct {
	ProductID   string          `json:"product_id"`
	VariationID *string         `json:"variation_id"`
	Name        string          `json:"name"`
	Qty         int             `json:"qty"`
	UnitPrice   float64         `json:"unit_price"`
	Priced      bool            `json:"priced"`
	LineTotal   float64         `json:"line_total"`
	TaxPercent  pricing.TaxRate `json:"tax_percent"`
}

// Breakdown is the fully priced view of a product order.
type Breakdown struct {
	Order    Order           `json:"order"`
	Lines    []BreakdownLine `json:"lines"`
	Totals   pricing.Totals  `json:"totals"`
	Currency string          `json:"currency"`
}
