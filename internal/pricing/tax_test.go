package pricing

import (
	"math"
	"testing"
)

func TestTaxAmountKnownRates(t *testing.T) {
	if got := TaxAmount(100, TaxRate9); got != 9 {
		t.Fatalf("expected 9, got %v", got)
	}
	if got := TaxAmount(100, TaxRate21); got != 21 {
		t.Fatalf("expected 21, got %v", got)
	}
}

func TestTaxAmountUnknownRateIsZero(t *testing.T) {
	if got := TaxAmount(100, TaxRate("BTW999")); got != 0 {
		t.Fatalf("expected 0 for unknown rate, got %v", got)
	}
	if TaxRate("BTW999").Known() {
		t.Fatal("unknown classifier must not be reported as known")
	}
}

func TestTaxAmountLinearity(t *testing.T) {
	for _, price := range []float64{0, 0.01, 12.34, 99.99, 1500} {
		single := TaxAmount(price, TaxRate21)
		double := TaxAmount(2*price, TaxRate21)
		if double != 2*single {
			t.Fatalf("tax not linear at %v: 2*%v != %v", price, single, double)
		}
	}
}

func TestTaxAmountNonFinitePrice(t *testing.T) {
	for _, price := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if got := TaxAmount(price, TaxRate9); got != 0 {
			t.Fatalf("expected 0 for non-finite price, got %v", got)
		}
	}
}
