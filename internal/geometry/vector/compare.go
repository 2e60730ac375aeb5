package vector

import "math"

// Closeness tolerances used by Equal.
const (
	Rtol = 1e-5
	Atol = 1e-8
)

// IsClose reports whether |a-b| <= Atol + Rtol*|b|.
// The test is asymmetric in b, and NaN is never close to anything.
func IsClose(a, b float64) bool {
	if math.IsInf(a, 0) || math.IsInf(b, 0) {
		return a == b
	}
	return math.Abs(a-b) <= Atol+Rtol*math.Abs(b)
}

// Equal reports whether all three components are approximately equal.
func (v Vec3) Equal(o Vec3) bool {
	return IsClose(v.X, o.X) && IsClose(v.Y, o.Y) && IsClose(v.Z, o.Z)
}
