package pricing

// CouponType distinguishes flat-amount coupons from percentage coupons.
type CouponType string

const (
	// CouponAmount deducts a fixed amount from the order subtotal.
	CouponAmount CouponType = "amount"
	// CouponPercent deducts a 0-100 percentage of the order subtotal.
	CouponPercent CouponType = "percent"
)

// Coupon is the pricing-relevant view of a coupon code. Lifecycle concerns
// (status, redemption policy) are gated by the caller before the discount is
// computed; the math here is agnostic to them.
type Coupon struct {
	Code  string
	Type  CouponType
	Value float64
}

// DiscountAmount returns the deduction a coupon applies to the given subtotal.
// Amount coupons deduct their literal value, capped at the subtotal so the
// discount never exceeds what is owed. Percent coupons deduct value percent of
// the subtotal. An unrecognised type yields no discount.
func DiscountAmount(subtotal float64, c Coupon) float64 {
	switch c.Type {
	case CouponAmount:
		if c.Value > subtotal {
			return subtotal
		}
		return c.Value
	case CouponPercent:
		return subtotal / 100 * c.Value
	default:
		return 0
	}
}
