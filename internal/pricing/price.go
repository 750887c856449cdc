package pricing

// Priceable holds the optional price pair shared by products and their
// variations. A nil pointer means the price was never set.
type Priceable struct {
	RegularPrice *float64
	SalePrice    *float64
}

// EffectivePrice resolves the unit price actually charged: the sale price when
// set, otherwise the regular price. When a variation is supplied its prices
// override the parent item entirely. The second return value is false when
// neither price is set; callers must render a placeholder instead of treating
// the item as free.
func EffectivePrice(item Priceable, variation *Priceable) (float64, bool) {
	source := item
	if variation != nil {
		source = *variation
	}
	if source.SalePrice != nil {
		return *source.SalePrice, true
	}
	if source.RegularPrice != nil {
		return *source.RegularPrice, true
	}
	return 0, false
}
