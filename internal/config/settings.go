package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"wakeframe/internal/farm"
)

type Settings struct {
	Server ServerSettings `json:"server"`
	Engine EngineSettings `json:"engine"`
	Site   SiteSettings   `json:"site"`
	Farm   FarmSettings   `json:"farm"`
}

type ServerSettings struct {
	Port int `json:"port"`
}

type EngineSettings struct {
	TickHz           float64 `json:"tickHz"`
	Workers          int     `json:"workers"`
	InitialDirection float64 `json:"initialDirection"`
}

// SiteSettings locates the farm. Turbines given by lat/lon are placed
// relative to this origin.
type SiteSettings struct {
	OriginLat  float64 `json:"originLat"`
	OriginLon  float64 `json:"originLon"`
	ElevationM float64 `json:"elevationM"`
}

type FarmSettings struct {
	WakeModel       string      `json:"wakeModel"`
	WakeCombination string      `json:"wakeCombination"`
	Turbines        []farm.Site `json:"turbines"`
}

// Default returns the settings used when no file is given.
func Default() Settings {
	return Settings{
		Server: ServerSettings{
			Port: 8080,
		},
		Engine: EngineSettings{
			TickHz:           20,
			InitialDirection: 270,
		},
		Site: SiteSettings{
			OriginLat: 54.0,
			OriginLon: 7.0,
		},
		Farm: FarmSettings{
			WakeModel:       farm.DefaultWakeModel,
			WakeCombination: farm.DefaultWakeCombination,
			Turbines: []farm.Site{
				{ID: "T01", Lat: 54.0, Lon: 7.0, HubHeightM: 90, RotorDiameterM: 126},
				{ID: "T02", Lat: 54.0, Lon: 7.0097, HubHeightM: 90, RotorDiameterM: 126},
				{ID: "T03", Lat: 54.0057, Lon: 7.0, HubHeightM: 90, RotorDiameterM: 126},
				{ID: "T04", Lat: 54.0057, Lon: 7.0097, HubHeightM: 90, RotorDiameterM: 126},
			},
		},
	}
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (Settings, error) {
	s := Default()
	if path == "" {
		return s, nil
	}

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("No %s found, using defaults", path)
			return s, nil
		}
		return s, err
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&s); err != nil {
		return s, fmt.Errorf("error parsing %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return s, fmt.Errorf("invalid %s: %w", path, err)
	}

	log.Printf("Loaded settings: %d turbines, %s wake model", len(s.Farm.Turbines), s.Farm.WakeModel)
	return s, nil
}

func (s Settings) Validate() error {
	if s.Server.Port <= 0 || s.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", s.Server.Port)
	}
	if s.Engine.TickHz <= 0 {
		return fmt.Errorf("engine.tickHz must be positive, got %v", s.Engine.TickHz)
	}
	if s.Engine.Workers < 0 {
		return fmt.Errorf("engine.workers must not be negative, got %d", s.Engine.Workers)
	}
	return nil
}

// BuildFarm places the configured turbines on the site and validates them.
func (s Settings) BuildFarm() (*farm.Farm, error) {
	ref := farm.GeoRef{OriginLat: s.Site.OriginLat, OriginLon: s.Site.OriginLon}
	turbines, err := farm.PlaceGeo(ref, farm.Flat{ElevationM: s.Site.ElevationM}, s.Farm.Turbines)
	if err != nil {
		return nil, err
	}
	return farm.New(turbines,
		farm.WithWakeModel(s.Farm.WakeModel),
		farm.WithWakeCombination(s.Farm.WakeCombination),
		farm.WithGeoRef(ref),
	)
}
