// Package angle provides degree-based trigonometry and angle wrapping.
//
// Nothing here validates its input: NaN and Inf propagate to the result.
package angle

import "math"

// Radians converts degrees to radians
func Radians(deg float64) float64 { return deg * math.Pi / 180.0 }

// Degrees converts radians to degrees
func Degrees(rad float64) float64 { return rad * 180.0 / math.Pi }

// Cosd returns the cosine of an angle given in degrees
func Cosd(deg float64) float64 { return math.Cos(Radians(deg)) }

// Sind returns the sine of an angle given in degrees
func Sind(deg float64) float64 { return math.Sin(Radians(deg)) }

// Tand returns the tangent of an angle given in degrees.
// 90 and 270 are not special-cased.
func Tand(deg float64) float64 { return math.Tan(Radians(deg)) }

// Wrap180 shifts x into (-180, 180] with a single shift of 360.
// Inputs more than one period outside the range stay outside it.
func Wrap180(x float64) float64 {
	if x <= -180.0 {
		x += 360.0
	}
	if x > 180.0 {
		x -= 360.0
	}
	return x
}

// Wrap360 shifts x into [0, 360) with a single shift of 360.
// Inputs more than one period outside the range stay outside it.
func Wrap360(x float64) float64 {
	if x < 0.0 {
		x += 360.0
	}
	if x >= 360.0 {
		x -= 360.0
	}
	return x
}

// Map applies f to every element of xs and returns a new slice.
func Map(xs []float64, f func(float64) float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = f(x)
	}
	return out
}

// CosdAll applies Cosd elementwise.
func CosdAll(xs []float64) []float64 { return Map(xs, Cosd) }

// SindAll applies Sind elementwise.
func SindAll(xs []float64) []float64 { return Map(xs, Sind) }

// Wrap180All applies Wrap180 elementwise.
func Wrap180All(xs []float64) []float64 { return Map(xs, Wrap180) }

// Wrap360All applies Wrap360 elementwise.
func Wrap360All(xs []float64) []float64 { return Map(xs, Wrap360) }

// HeadingFromVec returns the compass heading of a horizontal vector:
// 0=north, 90=east.
func HeadingFromVec(x, y float64) float64 {
	if math.Abs(x) < 1e-9 && math.Abs(y) < 1e-9 {
		return 0
	}
	return Wrap360(Degrees(math.Atan2(x, y)))
}
