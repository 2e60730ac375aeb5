package farm

import (
	"fmt"

	"wakeframe/internal/geometry/angle"
	"wakeframe/internal/geometry/vector"
)

// GeoRef projects latitude/longitude onto a local ENU plane tangent at an
// origin. The equirectangular approximation holds to a few metres across a
// farm but not across a region.
type GeoRef struct {
	OriginLat float64 `json:"originLat"`
	OriginLon float64 `json:"originLon"`
}

// metresPerDegLat is the mean length of one degree of latitude.
const metresPerDegLat = 111_320.0

// scale returns metres per degree of longitude and of latitude at the origin.
func (g GeoRef) scale() (east, north float64) {
	return metresPerDegLat * angle.Cosd(g.OriginLat), metresPerDegLat
}

// GeoToLocal projects a geographic position onto the local plane.
func (g GeoRef) GeoToLocal(lat, lon, alt float64) vector.Vec3 {
	east, north := g.scale()
	return vector.NewVec3((lon-g.OriginLon)*east, (lat-g.OriginLat)*north, alt)
}

// LocalToGeo inverts GeoToLocal.
func (g GeoRef) LocalToGeo(p vector.Vec3) (lat, lon, alt float64) {
	east, north := g.scale()
	return g.OriginLat + p.Y/north, g.OriginLon + p.X/east, p.Z
}

// Site is a turbine location given in geographic coordinates.
type Site struct {
	ID             string  `json:"id"`
	Lat            float64 `json:"lat"`
	Lon            float64 `json:"lon"`
	HubHeightM     float64 `json:"hubHeightM"`
	RotorDiameterM float64 `json:"rotorDiameterM"`
}

// PlaceGeo converts sites into turbines on the local plane. Each hub sits at
// the terrain elevation under it plus its hub height. A nil terrain is flat.
func PlaceGeo(ref GeoRef, terrain Elevation, sites []Site) ([]Turbine, error) {
	if terrain == nil {
		terrain = Flat{}
	}
	out := make([]Turbine, 0, len(sites))
	for i, s := range sites {
		if s.Lat < -90 || s.Lat > 90 {
			return nil, fmt.Errorf("farm: site %d latitude %v out of range", i, s.Lat)
		}
		p := ref.GeoToLocal(s.Lat, s.Lon, 0)
		p.Z = terrain.GroundAltitude(p) + s.HubHeightM
		out = append(out, Turbine{
			ID:             s.ID,
			Position:       p,
			HubHeightM:     s.HubHeightM,
			RotorDiameterM: s.RotorDiameterM,
		})
	}
	return out, nil
}
