package utils

import "math"

// AlmostEqual compara dois valores dentro de uma tolerância absoluta
func AlmostEqual(a, b, tolerance float64) bool {
	return math.Abs(a-b) <= tolerance
}
