package pricing

import "math"

// TaxRate classifies a product into one of the fixed BTW brackets.
type TaxRate string

const (
	// TaxRate9 is the reduced 9% bracket (food items).
	TaxRate9 TaxRate = "TAX9"
	// TaxRate21 is the standard 21% bracket. Shipping is always taxed at this rate.
	TaxRate21 TaxRate = "TAX21"
)

// taxPercentages maps a rate classifier to its percentage. Classifiers outside
// this table carry a zero percentage rather than an error.
var taxPercentages = map[TaxRate]float64{
	TaxRate9:  9,
	TaxRate21: 21,
}

// Percent returns the percentage encoded by the rate, or 0 for an unknown classifier.
func (r TaxRate) Percent() float64 {
	return taxPercentages[r]
}

// Known reports whether the rate maps to one of the supported brackets.
func (r TaxRate) Known() bool {
	_, ok := taxPercentages[r]
	return ok
}

// TaxAmount computes the tax owed on price at the given rate. A non-finite
// price or an unknown rate yields 0. No rounding is applied; formatting to two
// decimals is a presentation concern.
func TaxAmount(price float64, rate TaxRate) float64 {
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return 0
	}
	return price / 100 * rate.Percent()
}
