package farm

import (
	"math"

	"wakeframe/internal/geometry/vector"
)

// Elevation reports the ground elevation under a horizontal position.
type Elevation interface {
	GroundAltitude(pos vector.Vec3) float64
}

// Flat is level ground at a fixed elevation.
type Flat struct {
	ElevationM float64
}

func (f Flat) GroundAltitude(vector.Vec3) float64 { return f.ElevationM }

// Terrain is a synthetic rolling site used by the demo and tests.
// Replace it with real elevation data for an actual site.
type Terrain struct {
	BaseM      float64
	AmplitudeM float64
	// WavelengthM of the dominant ridge pattern. Zero means 2000 m.
	WavelengthM float64
}

// GroundAltitude calculates the terrain height at a given position.
func (t Terrain) GroundAltitude(pos vector.Vec3) float64 {
	wl := t.WavelengthM
	if wl <= 0 {
		wl = 2000
	}
	wave1 := math.Sin(2*math.Pi*pos.X/wl) * t.AmplitudeM
	wave2 := math.Sin(2*math.Pi*(pos.X+pos.Y)/(wl/2)) * t.AmplitudeM / 2
	return t.BaseM + wave1 + wave2
}
