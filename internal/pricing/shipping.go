package pricing

// ShippingConfig carries the flat-rate shipping settings resolved once at
// process start. The calculator takes them as explicit parameters so it stays
// pure and testable.
type ShippingConfig struct {
	// FreeShippingThreshold is the minimum order value that waives the charge.
	FreeShippingThreshold float64
	// ShippingCharge is the flat fee applied below the threshold.
	ShippingCharge float64
}

// ShippingAmount returns the shipping fee for an order subtotal. Orders at or
// above the free-shipping threshold ship for free; everything below pays the
// flat charge. The comparison base is the pre-tax, pre-discount subtotal.
func ShippingAmount(subtotal float64, cfg ShippingConfig) float64 {
	if subtotal < cfg.FreeShippingThreshold {
		return cfg.ShippingCharge
	}
	return 0
}
