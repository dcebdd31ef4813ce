package domain

import (
	"encoding/json"
	"math"
)

// Row is one record yielded by the tabular ingestion layer, keyed by column header.
type Row map[string]string

// Position is a WGS-84 latitude/longitude pair in degrees.
type Position struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lng"`
}

// Valid reports whether the position is finite and inside the lat/lon ranges.
func (p Position) Valid() bool {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lon) || math.IsInf(p.Lat, 0) || math.IsInf(p.Lon, 0) {
		return false
	}
	return p.Lat >= -90 && p.Lat <= 90 && p.Lon >= -180 && p.Lon <= 180
}

// Coordinates returns the position in GeoJSON [lon, lat] order.
func (p Position) Coordinates() [2]float64 {
	return [2]float64{p.Lon, p.Lat}
}

// Incident represents a recorded road accident
type Incident struct {
	Position    Position
	Severity    float64
	Weather     string
	RoadSurface string
}

// MarshalJSON flattens the position into latitude/longitude fields.
func (i Incident) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Latitude    float64 `json:"latitude"`
		Longitude   float64 `json:"longitude"`
		Severity    float64 `json:"severity"`
		Weather     string  `json:"weather"`
		RoadSurface string  `json:"roadSurface"`
	}{i.Position.Lat, i.Position.Lon, i.Severity, i.Weather, i.RoadSurface})
}

// Facility represents a hospital that can receive emergency alerts
type Facility struct {
	Name             string   `json:"name"`
	Position         Position `json:"position"`
	BaselineDistance float64  `json:"baselineDistance"`
}

// Column headers of the incident source.
const (
	ColIncidentLatitude    = "Latitude"
	ColIncidentLongitude   = "Longitude"
	ColIncidentSeverity    = "severity"
	ColIncidentWeather     = "Weather Condition"
	ColIncidentRoadSurface = "Road Surface Condition"
)

// Column headers of the facility source.
const (
	ColFacilityName      = "Hospital Name"
	ColFacilityLatitude  = "Latitude"
	ColFacilityLongitude = "Longitude"
	ColFacilityDistance  = "Distance"
)
