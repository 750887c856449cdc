package catalog

import "testing"

func TestGenerateVariationsCartesianProduct(t *testing.T) {
	attrs := []Attribute{
		{ID: "size", Terms: []Term{
			{ID: "s", Name: "Small"},
			{ID: "l", Name: "Large"},
		}},
		{ID: "flavour", Terms: []Term{
			{ID: "van", Name: "Vanilla"},
			{ID: "choc", Name: "Chocolate"},
			{ID: "straw", Name: "Strawberry"},
		}},
	}

	variations := GenerateVariations("prod-1", attrs)
	if len(variations) != 6 {
		t.Fatalf("expected 2x3=6 variations, got %d", len(variations))
	}

	seen := make(map[string]bool, len(variations))
	for _, v := range variations {
		if v.ProductID != "prod-1" {
			t.Fatalf("variation bound to wrong product: %q", v.ProductID)
		}
		if len(v.TermIDs) != 2 {
			t.Fatalf("expected one term per attribute, got %v", v.TermIDs)
		}
		if seen[v.Label] {
			t.Fatalf("duplicate combination %q", v.Label)
		}
		seen[v.Label] = true
	}
	if !seen["Small / Vanilla"] || !seen["Large / Strawberry"] {
		t.Fatalf("expected corner combinations, got %v", seen)
	}
}

func TestGenerateVariationsSingleAttribute(t *testing.T) {
	attrs := []Attribute{{ID: "size", Terms: []Term{{ID: "s", Name: "Small"}}}}
	variations := GenerateVariations("p", attrs)
	if len(variations) != 1 || variations[0].Label != "Small" {
		t.Fatalf("unexpected variations: %+v", variations)
	}
}

func TestGenerateVariationsSkipsEmptyAttributes(t *testing.T) {
	attrs := []Attribute{
		{ID: "size", Terms: []Term{{ID: "s", Name: "Small"}, {ID: "l", Name: "Large"}}},
		{ID: "empty"},
	}
	variations := GenerateVariations("p", attrs)
	if len(variations) != 2 {
		t.Fatalf("empty attribute must not zero the matrix, got %d variations", len(variations))
	}
}

func TestGenerateVariationsNoAttributes(t *testing.T) {
	if got := GenerateVariations("p", nil); got != nil {
		t.Fatalf("expected nil for no attributes, got %+v", got)
	}
}
