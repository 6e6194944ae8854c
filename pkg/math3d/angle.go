package math3d

import "math"

// Eps is the tolerance used for containment tests and angle comparisons.
const Eps = 1e-6

// Mod returns x modulo m with the sign of m, so Mod(-1, 3) == 2.
func Mod(x, m float64) float64 {
	return x - math.Floor(x/m)*m
}

// Wrap maps x into the half-open interval [a, b) by adding multiples of b-a.
func Wrap(x, a, b float64) float64 {
	return a + Mod(x-a, b-a)
}

// Clamp limits x to [a, b].
func Clamp(x, a, b float64) float64 {
	return math.Min(math.Max(x, a), b)
}

// WrapAndClamp wraps x into a window of length period centred on the
// midpoint of [a, b], then clamps it into [a, b]. For a range shorter than
// the period this picks the representative closest to the range.
func WrapAndClamp(x, a, b, period float64) float64 {
	mid := 0.5 * (a + b)
	half := 0.5 * period
	return Clamp(Wrap(x, mid-half, mid+half), a, b)
}

// Hypot3 returns sqrt(x*x + y*y + z*z) without undue overflow.
func Hypot3(x, y, z float64) float64 {
	return math.Hypot(math.Hypot(x, y), z)
}
