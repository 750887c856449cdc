package pricing

// Line is a single order line ready for aggregation: the effective unit price
// has already been resolved (see EffectivePrice) and the tax classifier comes
// from the line's product.
type Line struct {
	Unit float64
	Qty  int
	Rate TaxRate
}

// Totals is the priced breakdown of an order.
type Totals struct {
	// Subtotal is the sum of unit price times quantity across all lines,
	// before tax and before any discount.
	Subtotal float64
	// TaxByRate holds the accumulated tax per bracket.
	TaxByRate map[TaxRate]float64
	// Shipping is the flat shipping fee, tax included.
	Shipping float64
	// ShippingTax is the 21% portion contained within Shipping. Informational;
	// it is not added on top of Shipping.
	ShippingTax float64
	// Discount is the coupon deduction, zero when no coupon applies.
	Discount float64
	// GrandTotal is Subtotal + all tax + Shipping - Discount.
	GrandTotal float64
}

// Tax returns the total tax across all brackets.
func (t Totals) Tax() float64 {
	var sum float64
	for _, v := range t.TaxByRate {
		sum += v
	}
	return sum
}

// Aggregate folds order lines into a priced breakdown. Lines with a
// non-positive quantity are skipped. The shipping threshold is evaluated
// against the pre-tax, pre-discount subtotal, and shipping is always taxed at
// the standard 21% rate. The coupon, when present, must already have passed
// status and policy gating.
func Aggregate(lines []Line, cfg ShippingConfig, coupon *Coupon) Totals {
	totals := Totals{TaxByRate: make(map[TaxRate]float64, len(taxPercentages))}
	for _, line := range lines {
		if line.Qty <= 0 {
			continue
		}
		lineTotal := line.Unit * float64(line.Qty)
		totals.Subtotal += lineTotal
		if line.Rate.Known() {
			totals.TaxByRate[line.Rate] += TaxAmount(lineTotal, line.Rate)
		}
	}
	totals.Shipping = ShippingAmount(totals.Subtotal, cfg)
	totals.ShippingTax = TaxAmount(totals.Shipping, TaxRate21)
	if coupon != nil {
		totals.Discount = DiscountAmount(totals.Subtotal, *coupon)
	}
	totals.GrandTotal = totals.Subtotal + totals.Tax() + totals.Shipping - totals.Discount
	return totals
}
