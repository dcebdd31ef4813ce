package service

import (
	"github.com/smartcity/roadsafety/internal/domain"
)

// AlertSink is re-exported from domain for convenience
type AlertSink = domain.AlertSink

// IncidentSource provides the loaded incident collection.
type IncidentSource interface {
	Incidents() []domain.Incident
}

// FacilitySource provides the loaded facility collection in load order.
type FacilitySource interface {
	Facilities() []domain.Facility
}

// RecordSource provides both collections.
type RecordSource interface {
	IncidentSource
	FacilitySource
}
