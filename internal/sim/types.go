package sim

import (
	"time"
)

// GeoPos is a turbine's unrotated geographic position.
type GeoPos struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type RotatedTurbine struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	Z  float64 `json:"z"`

	// Geo is set when the farm was placed from geographic sites.
	Geo *GeoPos `json:"geo,omitempty"`
}

// CaseState is one published case: the layout rotated for the current wind
// direction.
type CaseState struct {
	DirectionDeg float64 `json:"directionDeg"`
	DeviationDeg float64 `json:"deviationDeg"`
	PivotX       float64 `json:"pivotX"`
	PivotY       float64 `json:"pivotY"`

	Turbines []RotatedTurbine `json:"turbines"`
	TS       time.Time        `json:"ts"`

	ActiveCommand string `json:"activeCommand,omitempty"`
	SweepIndex    int    `json:"sweepIndex,omitempty"`
	Warning       string `json:"warning,omitempty"`
}
