package tokenmath

import "math"

// maxAmount caps amounts at the largest integer a float64 represents exactly.
const maxAmount = 1 << 53

// Round rounds half up to the nearest integer, negatives included (-2.5 -> -2).
// The fraction is compared directly so values just below .5 stay down.
func Round(x float64) float64 {
	f := math.Floor(x)
	if x-f >= 0.5 {
		f++
	}
	return f
}

// Amount coerces a count or balance: NaN, infinities and negatives become 0.
func Amount(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) || x < 0 {
		return 0
	}
	if x > maxAmount {
		return maxAmount
	}
	return x
}

// Percent coerces a percentage into [0,100]. Non-finite input becomes 0.
func Percent(p float64) float64 {
	if math.IsNaN(p) || math.IsInf(p, 0) || p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// signed coerces a value that may legitimately be negative (a balance delta).
func signed(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return x
}

func roundInt(x float64) int64 {
	r := Round(x)
	switch {
	case r > maxAmount:
		return maxAmount
	case r < -maxAmount:
		return -maxAmount
	}
	return int64(r)
}
