package catalog

import "strings"

// GenerateVariations builds the Cartesian product of the terms of each
// attribute: one variation per combination, labelled "Term A / Term B".
// Attributes without terms are skipped so they cannot zero out the whole
// matrix. The result carries no prices; the admin fills those in per
// variation afterwards.
func GenerateVariations(productID string, attrs []Attribute) []Variation {
	axes := make([][]Term, 0, len(attrs))
	for _, attr := range attrs {
		if len(attr.Terms) > 0 {
			axes = append(axes, attr.Terms)
		}
	}
	if len(axes) == 0 {
		return nil
	}

	total := 1
	for _, axis := range axes {
		total *= len(axis)
	}

	variations := make([]Variation, 0, total)
	combo := make([]Term, len(axes))

	var walk func(depth int)
	walk = func(depth int) {
		if depth == len(axes) {
			termIDs := make([]string, len(combo))
			names := make([]string, len(combo))
			for i, term := range combo {
				termIDs[i] = term.ID
				names[i] = term.Name
			}
			variations = append(variations, Variation{
				ProductID: productID,
				TermIDs:   termIDs,
				Label:     strings.Join(names, " / "),
			})
			return
		}
		for _, term := range axes[depth] {
			combo[depth] = term
			walk(depth + 1)
		}
	}
	walk(0)

	return variations
}
