package pricing

import "testing"

func TestDiscountAmountPercent(t *testing.T) {
	got := DiscountAmount(100, Coupon{Type: CouponPercent, Value: 10})
	if got != 10 {
		t.Fatalf("expected 10, got %v", got)
	}
}

func TestDiscountAmountFlat(t *testing.T) {
	got := DiscountAmount(100, Coupon{Type: CouponAmount, Value: 15})
	if got != 15 {
		t.Fatalf("expected 15, got %v", got)
	}
}

func TestDiscountAmountCappedAtSubtotal(t *testing.T) {
	got := DiscountAmount(20, Coupon{Type: CouponAmount, Value: 50})
	if got != 20 {
		t.Fatalf("expected discount capped at subtotal, got %v", got)
	}
}

func TestDiscountAmountUnknownType(t *testing.T) {
	if got := DiscountAmount(100, Coupon{Type: "loyalty", Value: 10}); got != 0 {
		t.Fatalf("expected 0 for unknown coupon type, got %v", got)
	}
}
