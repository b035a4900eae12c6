package models

// PricingFunc turns an order's subtotal into the amount due
type PricingFunc func(subtotal float64) float64

// StandardPricing charges the subtotal unchanged
func StandardPricing(subtotal float64) float64 {
	return subtotal
}

// DiscountPricing charges subtotal × (1 − fraction). The fraction must lie in [0, 1).
func DiscountPricing(fraction float64) (PricingFunc, error) {
	if err := ValidateDiscount(fraction); err != nil {
		return nil, err
	}
	return func(subtotal float64) float64 {
		return subtotal * (1 - fraction)
	}, nil
}

// ValidateDiscount checks that a discount fraction lies in [0, 1)
func ValidateDiscount(fraction float64) error {
	return validateValue(fraction, "finite,gte=0,lt=1", "discount")
}
