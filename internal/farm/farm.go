// Package farm holds the turbine layout of a wind farm together with the
// names of the wake and wake-combination models the solver should use.
package farm

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"

	"wakeframe/internal/geometry/vector"
	"wakeframe/internal/layout"
	"wakeframe/internal/wind"
)

var (
	ErrNoTurbines   = errors.New("farm: at least one turbine is required")
	ErrUnknownModel = errors.New("farm: unknown model")
)

// Model names understood by the wake solver.
var (
	KnownWakeModels   = []string{"jensen", "gauss", "curl", "turbopark"}
	KnownCombinations = []string{"fls", "max", "sosfs"}
)

const (
	DefaultWakeModel       = "gauss"
	DefaultWakeCombination = "sosfs"
)

type Turbine struct {
	ID       string      `json:"id"`
	Position vector.Vec3 `json:"position"` // hub centre; Z is ground elevation + hub height
	// HubHeightM is above ground and already included in Position.Z.
	HubHeightM     float64 `json:"hubHeightM"`
	RotorDiameterM float64 `json:"rotorDiameterM"`
}

// Farm is an ordered turbine map plus the solver model references.
// Build one with New; the fields are not meant to be changed afterwards.
type Farm struct {
	Turbines        []Turbine
	WakeModel       string
	WakeCombination string

	// Ref is set when the turbines were placed from geographic sites.
	Ref *GeoRef
}

type Option func(*Farm)

func WithWakeModel(name string) Option {
	return func(f *Farm) { f.WakeModel = name }
}

func WithWakeCombination(name string) Option {
	return func(f *Farm) { f.WakeCombination = name }
}

// WithGeoRef records the origin the turbine positions were projected from.
func WithGeoRef(ref GeoRef) Option {
	return func(f *Farm) { f.Ref = &ref }
}

// New validates the turbines and returns a farm that owns a copy of them.
func New(turbines []Turbine, opts ...Option) (*Farm, error) {
	f := &Farm{
		Turbines:        append([]Turbine(nil), turbines...),
		WakeModel:       DefaultWakeModel,
		WakeCombination: DefaultWakeCombination,
	}
	for _, opt := range opts {
		opt(f)
	}
	if err := f.Valid(); err != nil {
		return nil, err
	}
	return f, nil
}

// Valid checks the farm invariants.
func (f *Farm) Valid() error {
	if len(f.Turbines) == 0 {
		return ErrNoTurbines
	}
	seen := make(map[string]struct{}, len(f.Turbines))
	for i, t := range f.Turbines {
		if t.ID == "" {
			return fmt.Errorf("farm: turbine %d has no id", i)
		}
		if _, dup := seen[t.ID]; dup {
			return fmt.Errorf("farm: duplicate turbine id %q", t.ID)
		}
		seen[t.ID] = struct{}{}

		p := t.Position
		if !finite(p.X) || !finite(p.Y) || !finite(p.Z) {
			return fmt.Errorf("farm: turbine %q has non-finite position %v", t.ID, p)
		}
		if !(t.RotorDiameterM > 0) {
			return fmt.Errorf("farm: turbine %q rotor diameter must be positive, got %v", t.ID, t.RotorDiameterM)
		}
		if t.HubHeightM < 0 || !finite(t.HubHeightM) {
			return fmt.Errorf("farm: turbine %q hub height must be non-negative, got %v", t.ID, t.HubHeightM)
		}
	}
	if !slices.Contains(KnownWakeModels, f.WakeModel) {
		return fmt.Errorf("%w: wake model %q", ErrUnknownModel, f.WakeModel)
	}
	if !slices.Contains(KnownCombinations, f.WakeCombination) {
		return fmt.Errorf("%w: wake combination %q", ErrUnknownModel, f.WakeCombination)
	}
	return nil
}

// Coordinates returns the turbine positions in farm order.
func (f *Farm) Coordinates() []vector.Vec3 {
	out := make([]vector.Vec3, len(f.Turbines))
	for i, t := range f.Turbines {
		out[i] = t.Position
	}
	return out
}

// Geo returns the latitude and longitude of turbine i. ok is false when the
// farm has no geographic reference or i is out of range.
func (f *Farm) Geo(i int) (lat, lon float64, ok bool) {
	if f.Ref == nil || i < 0 || i >= len(f.Turbines) {
		return 0, 0, false
	}
	lat, lon, _ = f.Ref.LocalToGeo(f.Turbines[i].Position)
	return lat, lon, true
}

// Bounds returns the componentwise minimum and maximum turbine positions.
func (f *Farm) Bounds() (lo, hi vector.Vec3) {
	if len(f.Turbines) == 0 {
		return
	}
	lo, hi = f.Turbines[0].Position, f.Turbines[0].Position
	for _, t := range f.Turbines[1:] {
		p := t.Position
		lo = vector.Vec3{X: math.Min(lo.X, p.X), Y: math.Min(lo.Y, p.Y), Z: math.Min(lo.Z, p.Z)}
		hi = vector.Vec3{X: math.Max(hi.X, p.X), Y: math.Max(hi.Y, p.Y), Z: math.Max(hi.Z, p.Z)}
	}
	return lo, hi
}

// Center returns the horizontal bounding-box centre, the rotation pivot.
func (f *Farm) Center() vector.Vec3 {
	lo, hi := f.Bounds()
	return lo.Add(hi).DivScalar(2).Horizontal()
}

// Rotate rotates the layout into the West-aligned frame for every direction.
func (f *Farm) Rotate(ctx context.Context, directions wind.Batch, workers int) (layout.Rotated, error) {
	return layout.RotateRelWestContext(ctx, directions, f.Coordinates(), workers)
}

func finite(x float64) bool { return !math.IsNaN(x) && !math.IsInf(x, 0) }
