package domain

// SeverityStats summarizes incident severities.
type SeverityStats struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Mean float64 `json:"mean"`
}

// Overview aggregates the loaded datasets for the dashboard
type Overview struct {
	IncidentCount int            `json:"incidentCount"`
	FacilityCount int            `json:"facilityCount"`
	Severity      SeverityStats  `json:"severity"`
	ByWeather     map[string]int `json:"byWeather"`
	ByRoadSurface map[string]int `json:"byRoadSurface"`
	Hotspot       Position       `json:"hotspot"`
	RadiusKm      float64        `json:"radiusKm"`
}
