// Package memory holds the process-lifetime, read-only record store built from
// the incident and facility sources at startup.
package memory

import (
	"fmt"
	"log/slog"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/smartcity/roadsafety/internal/domain"
)

// LoadReport summarizes how many rows of each source were kept or dropped.
type LoadReport struct {
	IncidentsLoaded   int
	IncidentsDropped  int
	FacilitiesLoaded  int
	FacilitiesDropped int
}

// RecordStore holds the immutable incident and facility collections.
// It is never mutated after Load returns, so it is safe for concurrent readers.
type RecordStore struct {
	incidents  []domain.Incident
	facilities []domain.Facility
}

// Load builds a RecordStore from raw rows. Rows whose required numeric fields
// do not parse, or whose position is out of range, are dropped and logged;
// they never abort the load.
func Load(incidentRows, facilityRows []domain.Row, logger *slog.Logger) (*RecordStore, LoadReport) {
	var report LoadReport
	s := &RecordStore{
		incidents:  make([]domain.Incident, 0, len(incidentRows)),
		facilities: make([]domain.Facility, 0, len(facilityRows)),
	}

	for i, row := range incidentRows {
		inc, err := parseIncident(row)
		if err != nil {
			report.IncidentsDropped++
			logger.Warn("dropping incident row", "row", i+1, "error", err)
			continue
		}
		s.incidents = append(s.incidents, inc)
	}
	report.IncidentsLoaded = len(s.incidents)

	for i, row := range facilityRows {
		f, err := parseFacility(row)
		if err != nil {
			report.FacilitiesDropped++
			logger.Warn("dropping facility row", "row", i+1, "error", err)
			continue
		}
		s.facilities = append(s.facilities, f)
	}
	report.FacilitiesLoaded = len(s.facilities)

	logger.Info("record store loaded",
		"incidents", report.IncidentsLoaded,
		"incidents_dropped", report.IncidentsDropped,
		"facilities", report.FacilitiesLoaded,
		"facilities_dropped", report.FacilitiesDropped,
	)
	return s, report
}

// Incidents returns a copy of the incident collection in load order.
func (s *RecordStore) Incidents() []domain.Incident {
	return slices.Clone(s.incidents)
}

// Facilities returns a copy of the facility collection in load order.
func (s *RecordStore) Facilities() []domain.Facility {
	return slices.Clone(s.facilities)
}

// Counts returns the number of incidents and facilities held.
func (s *RecordStore) Counts() (incidents, facilities int) {
	return len(s.incidents), len(s.facilities)
}

func parseIncident(row domain.Row) (domain.Incident, error) {
	pos, err := parsePosition(row, domain.ColIncidentLatitude, domain.ColIncidentLongitude)
	if err != nil {
		return domain.Incident{}, err
	}
	severity, err := parseNumber(row, domain.ColIncidentSeverity)
	if err != nil {
		return domain.Incident{}, err
	}
	return domain.Incident{
		Position:    pos,
		Severity:    severity,
		Weather:     row[domain.ColIncidentWeather],
		RoadSurface: row[domain.ColIncidentRoadSurface],
	}, nil
}

func parseFacility(row domain.Row) (domain.Facility, error) {
	pos, err := parsePosition(row, domain.ColFacilityLatitude, domain.ColFacilityLongitude)
	if err != nil {
		return domain.Facility{}, err
	}
	baseline, err := parseNumber(row, domain.ColFacilityDistance)
	if err != nil {
		return domain.Facility{}, err
	}
	return domain.Facility{
		Name:             row[domain.ColFacilityName],
		Position:         pos,
		BaselineDistance: baseline,
	}, nil
}

func parsePosition(row domain.Row, latCol, lonCol string) (domain.Position, error) {
	lat, err := parseNumber(row, latCol)
	if err != nil {
		return domain.Position{}, err
	}
	lon, err := parseNumber(row, lonCol)
	if err != nil {
		return domain.Position{}, err
	}
	pos := domain.Position{Lat: lat, Lon: lon}
	if !pos.Valid() {
		return domain.Position{}, fmt.Errorf("%w: position (%g, %g) out of range", domain.ErrMalformedRow, lat, lon)
	}
	return pos, nil
}

// parseNumber parses a required numeric column. NaN and infinities count as failures.
func parseNumber(row domain.Row, col string) (float64, error) {
	raw := strings.TrimSpace(row[col])
	if raw == "" {
		return 0, fmt.Errorf("%w: %q is empty", domain.ErrMalformedRow, col)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q=%q is not a number", domain.ErrMalformedRow, col, raw)
	}
	return v, nil
}
