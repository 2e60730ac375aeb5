// Package wind describes the free-stream wind and batches of wind directions.
package wind

import (
	"errors"
	"fmt"
	"math"

	"wakeframe/internal/geometry/angle"
	"wakeframe/internal/geometry/vector"
)

// Wind is a uniform horizontal free-stream wind.
type Wind struct {
	// SpeedMS is the wind speed in m/s.
	SpeedMS float64
	// DirectionDeg is the compass direction the wind blows FROM,
	// clockwise from north (270 = westerly wind).
	DirectionDeg float64
}

// Calm returns a Wind with zero velocity (no wind).
func Calm() Wind {
	return Wind{SpeedMS: 0, DirectionDeg: 270}
}

// Velocity returns the flow vector in ENU coordinates.
// A westerly wind flows towards +X (east).
func (w Wind) Velocity() vector.Vec3 {
	return vector.Vec3{
		X: -w.SpeedMS * angle.Sind(w.DirectionDeg),
		Y: -w.SpeedMS * angle.Cosd(w.DirectionDeg),
	}
}

// FromVector creates a Wind from an ENU flow vector. Only X and Y are used.
func FromVector(v vector.Vec3) Wind {
	speed := math.Hypot(v.X, v.Y)
	if speed < 1e-9 {
		return Calm()
	}
	// the wind comes from the opposite of where it flows to
	return Wind{
		SpeedMS:      speed,
		DirectionDeg: angle.HeadingFromVec(-v.X, -v.Y),
	}
}

func (w Wind) String() string {
	return fmt.Sprintf("%.1f m/s from %.1f°", w.SpeedMS, w.DirectionDeg)
}

// MaxSweepLen caps the number of directions a single sweep may produce
// (0.01 degree steps over a full circle).
const MaxSweepLen = 36_001

var (
	ErrInvalidStep  = errors.New("wind: sweep step must be positive and finite")
	ErrSweepTooLong = errors.New("wind: sweep has too many directions")
)

// Batch is an ordered set of wind directions in degrees, one per case.
type Batch []float64

// NewBatch returns the given directions as a Batch.
func NewBatch(dirs ...float64) Batch {
	return append(Batch(nil), dirs...)
}

// Sweep returns from, from+step, ... up to and including to when it lies on
// the grid. Sweeps longer than MaxSweepLen return ErrSweepTooLong.
func Sweep(from, to, step float64) (Batch, error) {
	n, err := SweepLen(from, to, step)
	if err != nil {
		return nil, err
	}
	b := make(Batch, n)
	for i := range b {
		b[i] = from + float64(i)*step
	}
	return b, nil
}

// SweepLen returns the number of directions Sweep(from, to, step) would
// produce, without allocating them.
func SweepLen(from, to, step float64) (int, error) {
	if !(step > 0) || math.IsInf(step, 0) {
		return 0, ErrInvalidStep
	}
	if math.IsNaN(from) || math.IsNaN(to) || math.IsInf(from, 0) || math.IsInf(to, 0) || to < from {
		return 0, fmt.Errorf("wind: invalid sweep range [%v, %v]", from, to)
	}
	// count stays a float until it is known to fit
	count := math.Floor((to-from)/step+1e-9) + 1
	if math.IsInf(count, 0) || math.IsNaN(count) || count > MaxSweepLen {
		return 0, fmt.Errorf("%w: %v over [%v, %v] in steps of %v (max %d)",
			ErrSweepTooLong, count, from, to, step, MaxSweepLen)
	}
	return int(count), nil
}

// Len returns the number of directions.
func (b Batch) Len() int { return len(b) }

// Normalized returns a copy with every direction wrapped into [0, 360).
func (b Batch) Normalized() Batch {
	return Batch(angle.Wrap360All(b))
}
