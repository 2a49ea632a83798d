package math

import "golang.org/x/exp/constraints"

// Clamp returns the value `f` clamped to the range [low, high].
// It works for any numeric type (integers and floats).
func Clamp[T constraints.Ordered](f, low, high T) T {
	if f < low {
		return low
	}
	if f > high {
		return high
	}
	return f
}

// Lerp blends a toward b by f; f outside [0, 1] extrapolates.
func Lerp[T constraints.Float](a, b, f T) T {
	return a + (b-a)*f
}
