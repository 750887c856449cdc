package pricing

import (
	"math"
	"testing"
)

func TestAggregateTwoLineOrder(t *testing.T) {
	lines := []Line{
		{Unit: 50, Qty: 2, Rate: TaxRate9},
		{Unit: 30, Qty: 1, Rate: TaxRate21},
	}
	cfg := ShippingConfig{FreeShippingThreshold: 100, ShippingCharge: 5}

	totals := Aggregate(lines, cfg, nil)

	if totals.Subtotal != 130 {
		t.Fatalf("expected subtotal 130, got %v", totals.Subtotal)
	}
	if got := totals.TaxByRate[TaxRate9]; got != 9 {
		t.Fatalf("expected 9%% tax of 9, got %v", got)
	}
	if got := totals.TaxByRate[TaxRate21]; math.Abs(got-6.3) > 1e-9 {
		t.Fatalf("expected 21%% tax of 6.3, got %v", got)
	}
	if totals.Shipping != 0 {
		t.Fatalf("expected free shipping at 130 >= 100, got %v", totals.Shipping)
	}
	if totals.Discount != 0 {
		t.Fatalf("expected no discount, got %v", totals.Discount)
	}
	if math.Abs(totals.GrandTotal-145.3) > 1e-9 {
		t.Fatalf("expected grand total 145.3, got %v", totals.GrandTotal)
	}
}

func TestAggregateBelowFreeShippingThreshold(t *testing.T) {
	lines := []Line{{Unit: 10, Qty: 1, Rate: TaxRate9}}
	cfg := ShippingConfig{FreeShippingThreshold: 50, ShippingCharge: 4.95}

	totals := Aggregate(lines, cfg, nil)

	if totals.Shipping != 4.95 {
		t.Fatalf("expected shipping 4.95, got %v", totals.Shipping)
	}
	// Shipping tax is the 21% share inside the charge, reported separately but
	// never added on top of it.
	want := 4.95 / 100 * 21
	if math.Abs(totals.ShippingTax-want) > 1e-9 {
		t.Fatalf("expected shipping tax %v, got %v", want, totals.ShippingTax)
	}
	wantTotal := 10 + 0.9 + 4.95
	if math.Abs(totals.GrandTotal-wantTotal) > 1e-9 {
		t.Fatalf("expected grand total %v, got %v", wantTotal, totals.GrandTotal)
	}
}

func TestAggregateAppliesCoupon(t *testing.T) {
	lines := []Line{{Unit: 100, Qty: 2, Rate: TaxRate21}}
	cfg := ShippingConfig{FreeShippingThreshold: 100, ShippingCharge: 5}

	totals := Aggregate(lines, cfg, &Coupon{Type: CouponPercent, Value: 10})

	if totals.Discount != 20 {
		t.Fatalf("expected 10%% of 200 = 20 discount, got %v", totals.Discount)
	}
	// Shipping is evaluated against the pre-discount subtotal.
	if totals.Shipping != 0 {
		t.Fatalf("expected free shipping on pre-discount subtotal, got %v", totals.Shipping)
	}
	if totals.GrandTotal != 200+42-20 {
		t.Fatalf("expected grand total 222, got %v", totals.GrandTotal)
	}
}

func TestAggregateSkipsNonPositiveQuantities(t *testing.T) {
	lines := []Line{
		{Unit: 50, Qty: 0, Rate: TaxRate9},
		{Unit: 50, Qty: -2, Rate: TaxRate9},
		{Unit: 25, Qty: 1, Rate: TaxRate9},
	}
	totals := Aggregate(lines, ShippingConfig{}, nil)
	if totals.Subtotal != 25 {
		t.Fatalf("expected subtotal 25, got %v", totals.Subtotal)
	}
}

func TestAggregateDeterministic(t *testing.T) {
	lines := []Line{
		{Unit: 12.5, Qty: 3, Rate: TaxRate9},
		{Unit: 7.99, Qty: 2, Rate: TaxRate21},
	}
	cfg := ShippingConfig{FreeShippingThreshold: 60, ShippingCharge: 3.5}
	coupon := &Coupon{Type: CouponAmount, Value: 5}

	first := Aggregate(lines, cfg, coupon)
	second := Aggregate(lines, cfg, coupon)

	if first.Subtotal != second.Subtotal || first.GrandTotal != second.GrandTotal ||
		first.Shipping != second.Shipping || first.Discount != second.Discount {
		t.Fatalf("aggregation not deterministic: %+v vs %+v", first, second)
	}
	for rate, amount := range first.TaxByRate {
		if second.TaxByRate[rate] != amount {
			t.Fatalf("tax by rate differs for %s", rate)
		}
	}
}
