// Package layout re-orients turbine layouts into a West-aligned frame.
//
// For every wind direction of a batch the layout is rotated about its
// horizontal bounding-box centre by the direction's deviation from West
// (270 degrees), giving the wake solver one fixed frame regardless of the
// compass bearing of the case.
package layout

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"

	"github.com/flywave/go3d/float64/mat2"
	"github.com/flywave/go3d/float64/vec2"
	"golang.org/x/sync/errgroup"

	"wakeframe/internal/geometry/angle"
	"wakeframe/internal/geometry/vector"
)

// West is the reference wind direction in degrees.
const West = 270.0

var (
	ErrEmptyLayout   = errors.New("layout: no turbine coordinates")
	ErrShapeMismatch = errors.New("layout: wind direction count does not match rotated rows")
	ErrRowRange      = errors.New("layout: wind direction row out of range")
)

// Rotated holds one rotated copy of the layout per wind direction.
// X[i][j] is turbine j rotated for wind direction i.
type Rotated struct {
	X, Y, Z [][]float64

	// DeviationDeg[i] is the rotation applied to row i.
	DeviationDeg []float64
	Pivot        vec2.T
}

// Shape returns the (directions, 1, turbines) shape of each coordinate array.
func (r Rotated) Shape() [3]int {
	m := 0
	if len(r.X) > 0 {
		m = len(r.X[0])
	}
	return [3]int{len(r.X), 1, m}
}

// Check verifies that the result has n wind-direction rows.
func (r Rotated) Check(n int) error {
	if len(r.X) != n {
		return fmt.Errorf("%w: have %d rows, want %d", ErrShapeMismatch, len(r.X), n)
	}
	return nil
}

// Layout returns row i as vectors.
func (r Rotated) Layout(i int) ([]vector.Vec3, error) {
	if i < 0 || i >= len(r.X) {
		return nil, fmt.Errorf("%w: %d of %d", ErrRowRange, i, len(r.X))
	}
	out := make([]vector.Vec3, len(r.X[i]))
	for j := range out {
		out[j] = vector.Vec3{X: r.X[i][j], Y: r.Y[i][j], Z: r.Z[i][j]}
	}
	return out, nil
}

// Finite reports whether every rotated coordinate is a finite number.
// Overflowing inputs or NaN directions make it false.
func (r Rotated) Finite() bool {
	for _, rows := range [][][]float64{r.X, r.Y, r.Z} {
		for _, row := range rows {
			for _, v := range row {
				if math.IsNaN(v) || math.IsInf(v, 0) {
					return false
				}
			}
		}
	}
	return true
}

// DeviationFromWest returns the rotation in degrees that maps wind direction
// d onto West. The result lies in (-360, 0].
func DeviationFromWest(d float64) float64 {
	return -math.Mod(math.Mod(d-West, 360)+360, 360)
}

// Pivot returns the centre of the horizontal bounding box of coords.
// This is not the centroid: a single outlying turbine moves it.
func Pivot(coords []vector.Vec3) (vec2.T, error) {
	if len(coords) == 0 {
		return vec2.T{}, ErrEmptyLayout
	}
	minX, maxX := coords[0].X, coords[0].X
	minY, maxY := coords[0].Y, coords[0].Y
	for _, c := range coords[1:] {
		minX = math.Min(minX, c.X)
		maxX = math.Max(maxX, c.X)
		minY = math.Min(minY, c.Y)
		maxY = math.Max(maxY, c.Y)
	}
	return vec2.T{(minX + maxX) / 2, (minY + maxY) / 2}, nil
}

// RotateAbout rotates p by dev degrees counter-clockwise about pivot in the
// horizontal plane. Z is unchanged.
func RotateAbout(p vector.Vec3, pivot vec2.T, dev float64) vector.Vec3 {
	xy := vec2.T{p.X, p.Y}
	off := vec2.Sub(&xy, &pivot)
	m := Rotation(dev)
	r := rotate(&m, off, pivot)
	return vector.Vec3{X: r[0], Y: r[1], Z: p.Z}
}

// Rotation returns the counter-clockwise rotation matrix for dev degrees.
// mat2.T is column-major: m[col][row].
func Rotation(dev float64) (m mat2.T) {
	c, s := angle.Cosd(dev), angle.Sind(dev)
	m[0][0], m[0][1] = c, s
	m[1][0], m[1][1] = -s, c
	return m
}

func rotate(m *mat2.T, off, pivot vec2.T) vec2.T {
	m.TransformVec2(&off)
	return vec2.Add(&off, &pivot)
}

// RotateRelWest rotates the layout once per wind direction.
//
// An empty direction batch yields an empty result. NaN or Inf directions are
// not rejected and produce NaN coordinates in their row.
func RotateRelWest(windDirections []float64, coords []vector.Vec3) (Rotated, error) {
	r, offsets, err := prepare(windDirections, coords)
	if err != nil {
		return Rotated{}, err
	}
	for i := range windDirections {
		r.fillRow(i, offsets, coords)
	}
	return r, nil
}

// RotateRelWestContext is RotateRelWest with the rows computed concurrently
// by at most workers goroutines. workers <= 0 means GOMAXPROCS.
func RotateRelWestContext(ctx context.Context, windDirections []float64, coords []vector.Vec3, workers int) (Rotated, error) {
	r, offsets, err := prepare(windDirections, coords)
	if err != nil {
		return Rotated{}, err
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range windDirections {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r.fillRow(i, offsets, coords)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Rotated{}, err
	}
	return r, nil
}

// prepare computes the deviations and the pivot offsets shared by all rows
// and allocates the output.
func prepare(windDirections []float64, coords []vector.Vec3) (Rotated, []vec2.T, error) {
	pivot, err := Pivot(coords)
	if err != nil {
		return Rotated{}, nil, err
	}

	offsets := make([]vec2.T, len(coords))
	for j, c := range coords {
		xy := vec2.T{c.X, c.Y}
		offsets[j] = vec2.Sub(&xy, &pivot)
	}

	n := len(windDirections)
	r := Rotated{
		X:            make([][]float64, n),
		Y:            make([][]float64, n),
		Z:            make([][]float64, n),
		DeviationDeg: make([]float64, n),
		Pivot:        pivot,
	}
	for i, d := range windDirections {
		r.DeviationDeg[i] = DeviationFromWest(d)
	}
	return r, offsets, nil
}

// fillRow writes row i. Rows are disjoint so concurrent calls for different
// i do not race.
func (r Rotated) fillRow(i int, offsets []vec2.T, coords []vector.Vec3) {
	m := len(coords)
	xs := make([]float64, m)
	ys := make([]float64, m)
	zs := make([]float64, m)

	rot := Rotation(r.DeviationDeg[i])
	for j, off := range offsets {
		p := rotate(&rot, off, r.Pivot)
		xs[j], ys[j], zs[j] = p[0], p[1], coords[j].Z
	}
	r.X[i], r.Y[i], r.Z[i] = xs, ys, zs
}
