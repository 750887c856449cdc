package coupon

import (
	"errors"
	"testing"

	"github.com/maaltijdbox/admin-api/internal/pricing"
)

func TestRedeemableActiveMultiple(t *testing.T) {
	c := Code{Status: StatusActive, Policy: PolicyMultiple, Redeemed: 12}
	if err := c.Redeemable(); err != nil {
		t.Fatalf("expected redeemable, got %v", err)
	}
}

func TestRedeemableInactive(t *testing.T) {
	c := Code{Status: StatusInactive, Policy: PolicyMultiple}
	if err := c.Redeemable(); !errors.Is(err, ErrInactive) {
		t.Fatalf("expected ErrInactive, got %v", err)
	}
}

func TestRedeemableOnetimeExhausted(t *testing.T) {
	c := Code{Status: StatusActive, Policy: PolicyOnetime, Redeemed: 1}
	if err := c.Redeemable(); !errors.Is(err, ErrAlreadyRedeemed) {
		t.Fatalf("expected ErrAlreadyRedeemed, got %v", err)
	}

	c.Redeemed = 0
	if err := c.Redeemable(); err != nil {
		t.Fatalf("expected fresh one-time coupon to be redeemable, got %v", err)
	}
}

func TestPricingView(t *testing.T) {
	c := Code{Code: "WELKOM10", Type: pricing.CouponPercent, Value: 10}
	view := c.Pricing()
	if view.Code != "WELKOM10" || view.Type != pricing.CouponPercent || view.Value != 10 {
		t.Fatalf("unexpected pricing view: %+v", view)
	}
}
