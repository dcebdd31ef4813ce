package service

import (
	"github.com/smartcity/roadsafety/internal/domain"
)

var bangalore = domain.Position{Lat: 12.9716, Lon: 77.5946}

// stubRecords serves fixed collections to the services under test.
type stubRecords struct {
	incidents  []domain.Incident
	facilities []domain.Facility
}

func (s stubRecords) Incidents() []domain.Incident { return s.incidents }
func (s stubRecords) Facilities() []domain.Facility { return s.facilities }

// northOf returns a point roughly km kilometers north of p.
func northOf(p domain.Position, km float64) domain.Position {
	return domain.Position{Lat: p.Lat + km/111.195, Lon: p.Lon}
}
