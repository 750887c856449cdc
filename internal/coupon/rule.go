package coupon

import (
	"errors"
	"time"

	"github.com/maaltijdbox/admin-api/internal/pricing"
)

var (
	// ErrInactive is returned when attempting to redeem a deactivated coupon.
	ErrInactive = errors.New("coupon not active")
	// ErrAlreadyRedeemed indicates a one-time coupon that has been used before.
	ErrAlreadyRedeemed = errors.New("coupon already redeemed")
	// ErrNotFound is returned when no coupon matches the requested code or id.
	ErrNotFound = errors.New("coupon not found")
	// ErrDuplicateCode indicates the coupon code is already taken.
	ErrDuplicateCode = errors.New("coupon code already exists")
)

// Policy governs how often a coupon may be redeemed.
type Policy string

const (
	PolicyOnetime  Policy = "onetime"
	PolicyMultiple Policy = "multiple"
)

// Status marks whether a coupon can currently be redeemed at all.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Code is a full coupon record as managed by the back office.
type Code struct {
	ID     string             `json:"id"`
	Name   string             `json:"name"`
	Code   string             `json:"code"`
	Type   pricing.CouponType `json:"type"`
	Value  float64            `json:"value"`
	Policy Policy             `json:"policy"`
	Status Status             `json:"status"`
	// Redeemed is incremented by the storefront backend at checkout; the
	// back office only reads it.
	Redeemed  int       `json:"redeemed"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Redeemable gates a coupon before any discount math runs. Status and policy
// are application concerns; the pricing engine never checks them.
func (c Code) Redeemable() error {
	if c.Status != StatusActive {
		return ErrInactive
	}
	if c.Policy == PolicyOnetime && c.Redeemed > 0 {
		return ErrAlreadyRedeemed
	}
	return nil
}

// Pricing converts the record into the pricing engine's coupon view.
func (c Code) Pricing() pricing.Coupon {
	return pricing.Coupon{Code: c.Code, Type: c.Type, Value: c.Value}
}
