package domain

// DefaultRadiusKm is the search radius used when none is configured.
const DefaultRadiusKm = 20.0

// ProximityResult is one ranked facility in a nearby query
type ProximityResult struct {
	Rank             int        `json:"rank"`
	Name             string     `json:"name"`
	Coordinates      [2]float64 `json:"coordinates"` // [lon, lat]
	Distance         float64    `json:"distance"`
	HotspotDistance  float64    `json:"hotspotDistance"`
	BaselineDistance float64    `json:"baselineDistance"`
	Address          string     `json:"address"`
}

// NearbyResponse wraps ranked facilities with the resolved query point
type NearbyResponse struct {
	Success      bool              `json:"success"`
	Hospitals    []ProximityResult `json:"hospitals"`
	UserLocation Position          `json:"userLocation"`
	RadiusKm     float64           `json:"radiusKm"`
}
