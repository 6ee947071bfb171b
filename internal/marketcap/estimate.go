package marketcap

import "math"

// Estimate computes an independent market-cap figure in raw units from a
// share count and a unit price.
//
// It returns nil unless both inputs are present and finite, count is
// positive and price is not negative. A zero price yields 0, which Resolve
// treats as no usable reference.
func Estimate(count, unitPrice *float64) *float64 {
	if !finite(count) || !finite(unitPrice) {
		return nil
	}
	if *count <= 0 || *unitPrice < 0 {
		return nil
	}
	product := *count * *unitPrice
	if math.IsInf(product, 0) {
		return nil
	}
	return &product
}

func finite(v *float64) bool {
	return v != nil && !math.IsNaN(*v) && !math.IsInf(*v, 0)
}
