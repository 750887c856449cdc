package pricing

import "testing"

func fptr(v float64) *float64 { return &v }

func TestEffectivePriceSaleOverridesRegular(t *testing.T) {
	price, ok := EffectivePrice(Priceable{RegularPrice: fptr(100), SalePrice: fptr(80)}, nil)
	if !ok || price != 80 {
		t.Fatalf("expected sale price 80, got %v (ok=%v)", price, ok)
	}
}

func TestEffectivePriceFallsBackToRegular(t *testing.T) {
	price, ok := EffectivePrice(Priceable{RegularPrice: fptr(100)}, nil)
	if !ok || price != 100 {
		t.Fatalf("expected regular price 100, got %v (ok=%v)", price, ok)
	}
}

func TestEffectivePriceAbsent(t *testing.T) {
	if _, ok := EffectivePrice(Priceable{}, nil); ok {
		t.Fatal("expected no effective price when both prices are unset")
	}
}

func TestEffectivePriceVariationOverridesParent(t *testing.T) {
	parent := Priceable{RegularPrice: fptr(100), SalePrice: fptr(80)}
	variation := &Priceable{RegularPrice: fptr(120)}
	price, ok := EffectivePrice(parent, variation)
	if !ok || price != 120 {
		t.Fatalf("expected variation price 120, got %v (ok=%v)", price, ok)
	}

	// A variation with no price of its own must not fall back to the parent.
	if _, ok := EffectivePrice(parent, &Priceable{}); ok {
		t.Fatal("expected no effective price for unpriced variation")
	}
}

func TestEffectivePriceZeroSalePriceIsValid(t *testing.T) {
	price, ok := EffectivePrice(Priceable{RegularPrice: fptr(100), SalePrice: fptr(0)}, nil)
	if !ok || price != 0 {
		t.Fatalf("expected explicit zero sale price, got %v (ok=%v)", price, ok)
	}
}
