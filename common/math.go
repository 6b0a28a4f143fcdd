package common

import "math"

// FloatTolerance is the shared epsilon for every boundary comparison in the
// physics packages. Contains and Overlaps checks must agree on it or touching
// shapes classify differently depending on argument order.
const FloatTolerance = 0.0001

// HasValue reports whether f is meaningfully different from zero.
func HasValue(f float64) bool {
	return math.Abs(f) > FloatTolerance
}

// IsGreaterThanOrEqual treats values within tolerance of b as equal to b.
func IsGreaterThanOrEqual(a, b float64) bool {
	return a >= b-FloatTolerance
}

// IsLessThanOrEqual treats values within tolerance of b as equal to b.
func IsLessThanOrEqual(a, b float64) bool {
	return a <= b+FloatTolerance
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
