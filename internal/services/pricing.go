package services

import "math"

// Round2 rounds to two decimals (currency precision), half away from
// zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// DiscountedPrice applies a percentage discount to a base price and
// rounds to currency precision. discountPercent is clamped to [0,100].
func DiscountedPrice(basePrice, discountPercent float64) float64 {
	if discountPercent < 0 {
		discountPercent = 0
	}
	if discountPercent > 100 {
		discountPercent = 100
	}
	return Round2(basePrice * (1 - discountPercent/100))
}

// ApplyVAT adds VAT to an order subtotal. VAT is applied once to the
// subtotal, not per line, to avoid compounding rounding error across
// many items.
func ApplyVAT(subtotal, ratePercent float64) float64 {
	if ratePercent < 0 {
		ratePercent = 0
	}
	return Round2(subtotal * (1 + ratePercent/100))
}
