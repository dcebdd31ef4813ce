package service

import (
	"math"
	"strings"

	"github.com/smartcity/roadsafety/internal/domain"
	"github.com/smartcity/roadsafety/pkg/utils"
)

const unknownCategory = "Unknown"

// OverviewService aggregates the loaded datasets
type OverviewService struct {
	records  RecordSource
	hotspot  domain.Position
	radiusKm float64
}

// NewOverviewService creates a new overview service
func NewOverviewService(records RecordSource, hotspot domain.Position, radiusKm float64) *OverviewService {
	return &OverviewService{
		records:  records,
		hotspot:  hotspot,
		radiusKm: radiusKm,
	}
}

// Summary counts incidents by weather and road surface and summarizes severities
func (s *OverviewService) Summary() domain.Overview {
	incidents := s.records.Incidents()

	overview := domain.Overview{
		IncidentCount: len(incidents),
		FacilityCount: len(s.records.Facilities()),
		ByWeather:     make(map[string]int),
		ByRoadSurface: make(map[string]int),
		Hotspot:       s.hotspot,
		RadiusKm:      s.radiusKm,
	}
	if len(incidents) == 0 {
		return overview
	}

	minSev, maxSev, sum := math.Inf(1), math.Inf(-1), 0.0
	for _, inc := range incidents {
		minSev = math.Min(minSev, inc.Severity)
		maxSev = math.Max(maxSev, inc.Severity)
		sum += inc.Severity
		overview.ByWeather[category(inc.Weather)]++
		overview.ByRoadSurface[category(inc.RoadSurface)]++
	}
	overview.Severity = domain.SeverityStats{
		Min:  minSev,
		Max:  maxSev,
		Mean: utils.RoundTo(sum/float64(len(incidents)), 2),
	}
	return overview
}

func category(v string) string {
	if v = strings.TrimSpace(v); v == "" {
		return unknownCategory
	}
	return v
}
