package domain

import (
	"context"
	"time"
)

// HospitalRef is the facility a caller selected from a nearby query.
type HospitalRef struct {
	Name        string    `json:"name"`
	Coordinates []float64 `json:"coordinates"` // [lon, lat]
	Distance    float64   `json:"distance,omitempty"`
}

// Position converts the [lon, lat] pair into a Position. ok is false when the
// pair is absent or out of range.
func (h HospitalRef) Position() (pos Position, ok bool) {
	if len(h.Coordinates) != 2 {
		return Position{}, false
	}
	pos = Position{Lat: h.Coordinates[1], Lon: h.Coordinates[0]}
	return pos, pos.Valid()
}

// EmergencyRequest is the body of an emergency dispatch call
type EmergencyRequest struct {
	UserLocation *Position    `json:"userLocation"`
	Hospital     *HospitalRef `json:"hospital"`
}

// AlertRecord is the audit entry written for every dispatched emergency.
// It records intent only; there is no delivery confirmation.
type AlertRecord struct {
	ID           string     `json:"id"`
	Timestamp    time.Time  `json:"timestamp"`
	FacilityName string     `json:"facilityName"`
	Coordinates  [2]float64 `json:"coordinates"` // [lon, lat]
	UserLocation Position   `json:"userLocation"`
	DistanceKm   float64    `json:"distanceKm"`
}

// AlertSink defines where dispatched alerts are recorded.
// Implementations live next to their backing store (log, postgres, kafka, redis).
type AlertSink interface {
	// RecordAlert persists or emits a single alert record
	RecordAlert(ctx context.Context, rec AlertRecord) error
}
