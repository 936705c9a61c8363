package utils

import (
	"math"
)

// Clamp clamps a value between min and max
func Clamp(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// ClampFloat64 clamps a float64 value between min and max
func ClampFloat64(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// IsFinite reports whether v is neither NaN nor infinite
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// RoundSignificant rounds v to the given number of significant digits.
// digits <= 0 returns v unchanged.
func RoundSignificant(v float64, digits int) float64 {
	if digits <= 0 || v == 0 || !IsFinite(v) {
		return v
	}
	magnitude := math.Ceil(math.Log10(math.Abs(v)))
	scale := math.Pow(10, float64(digits)-magnitude)
	return math.Round(v*scale) / scale
}

// Lerp interpolates linearly between a and b; f is clamped to [0, 1]
func Lerp(a, b, f float64) float64 {
	f = ClampFloat64(f, 0, 1)
	if f == 1 {
		return b
	}
	return a + (b-a)*f
}
