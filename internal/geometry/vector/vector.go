// Package vector provides 3D vector operations
package vector

import (
	"fmt"
	"math"
)

// NewVec3 creates a new 3D vector with the given components
func NewVec3(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// FromSlice creates a vector from exactly three components
func FromSlice(v []float64) (Vec3, error) {
	if len(v) != 3 {
		return Vec3{}, &SizeError{Size: len(v)}
	}
	return Vec3{X: v[0], Y: v[1], Z: v[2]}, nil
}

// Vec3 represents a 3D vector in local ENU (East-North-Up) coordinates
// with X=east, Y=north, Z=up (meters).
//
// Pointer methods mutate in place and are not safe for concurrent use.
type Vec3 struct{ X, Y, Z float64 }

// Components returns the components in x1, x2, x3 order
func (v Vec3) Components() [3]float64 { return [3]float64{v.X, v.Y, v.Z} }

// Slice returns a fresh slice holding the components
func (v Vec3) Slice() []float64 { return []float64{v.X, v.Y, v.Z} }

// X1 returns the first (east) component
func (v Vec3) X1() float64 { return v.X }

// X2 returns the second (north) component
func (v Vec3) X2() float64 { return v.Y }

// X3 returns the third (up) component
func (v Vec3) X3() float64 { return v.Z }

// SetX1 replaces the first component in place
func (v *Vec3) SetX1(x float64) { v.X = x }

// SetX2 replaces the second component in place
func (v *Vec3) SetX2(y float64) { v.Y = y }

// SetX3 replaces the third component in place
func (v *Vec3) SetX3(z float64) { v.Z = z }

// Component returns the i-th component (0-based)
func (v Vec3) Component(i int) (float64, error) {
	switch i {
	case 0:
		return v.X, nil
	case 1:
		return v.Y, nil
	case 2:
		return v.Z, nil
	}
	return 0, &IndexError{Index: i}
}

// SetComponent sets the i-th component (0-based)
func (v *Vec3) SetComponent(i int, x float64) error {
	switch i {
	case 0:
		v.X = x
	case 1:
		v.Y = x
	case 2:
		v.Z = x
	default:
		return &IndexError{Index: i}
	}
	return nil
}

// Add returns the sum of two vectors
func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

// Sub returns the difference between two vectors
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

// Mul returns the elementwise product of two vectors
func (v Vec3) Mul(o Vec3) Vec3 { return Vec3{v.X * o.X, v.Y * o.Y, v.Z * o.Z} }

// Div returns the elementwise quotient of two vectors
func (v Vec3) Div(o Vec3) Vec3 { return Vec3{v.X / o.X, v.Y / o.Y, v.Z / o.Z} }

// AddScalar adds k to every component
func (v Vec3) AddScalar(k float64) Vec3 { return Vec3{v.X + k, v.Y + k, v.Z + k} }

// SubScalar subtracts k from every component
func (v Vec3) SubScalar(k float64) Vec3 { return Vec3{v.X - k, v.Y - k, v.Z - k} }

// MulScalar multiplies every component by k
func (v Vec3) MulScalar(k float64) Vec3 { return Vec3{v.X * k, v.Y * k, v.Z * k} }

// DivScalar divides every component by k; k == 0 yields Inf or NaN
func (v Vec3) DivScalar(k float64) Vec3 { return Vec3{v.X / k, v.Y / k, v.Z / k} }

// Scale scales a vector by a scalar
func (v Vec3) Scale(k float64) Vec3 { return v.MulScalar(k) }

// Norm returns the vector's magnitude (Euclidean norm)
func (v Vec3) Norm() float64 { return math.Sqrt(v.Dot(v)) }

// Dot returns the dot product of two vectors
func (v Vec3) Dot(o Vec3) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

// Cross returns the cross product of two vectors
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		X: v.Y*o.Z - v.Z*o.Y,
		Y: v.Z*o.X - v.X*o.Z,
		Z: v.X*o.Y - v.Y*o.X,
	}
}

// Normalize returns a unit vector in the same direction
func (v Vec3) Normalize() Vec3 {
	norm := v.Norm()
	if norm == 0 {
		return Vec3{}
	}
	return v.MulScalar(1 / norm)
}

// Horizontal returns the vector projected onto the ground plane
func (v Vec3) Horizontal() Vec3 { return Vec3{X: v.X, Y: v.Y} }

// Key returns the exact components, usable as a map key.
// Two vectors that are Equal may still have different keys.
func (v Vec3) Key() [3]float64 { return v.Components() }

// String formats the vector as (x, y, z)
func (v Vec3) String() string {
	return fmt.Sprintf("(%g, %g, %g)", v.X, v.Y, v.Z)
}
