package service

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/smartcity/roadsafety/internal/domain"
	"github.com/smartcity/roadsafety/pkg/utils"
)

type nearbyOptions struct {
	radiusKm float64
}

// NearbyOption configures FindNearby.
type NearbyOption func(*nearbyOptions)

// WithRadius sets the inclusion radius in kilometers. Non-positive values are ignored.
func WithRadius(km float64) NearbyOption {
	return func(o *nearbyOptions) {
		if km > 0 && !math.IsInf(km, 0) {
			o.radiusKm = km
		}
	}
}

// ParsePosition parses raw lat/lng query values. Missing, unparseable or
// out-of-range values wrap domain.ErrInvalidInput.
func ParsePosition(latRaw, lngRaw string) (domain.Position, error) {
	latRaw, lngRaw = strings.TrimSpace(latRaw), strings.TrimSpace(lngRaw)
	if latRaw == "" || lngRaw == "" {
		return domain.Position{}, fmt.Errorf("%w: latitude and longitude are required", domain.ErrInvalidInput)
	}
	lat, err := strconv.ParseFloat(latRaw, 64)
	if err != nil {
		return domain.Position{}, fmt.Errorf("%w: latitude %q is not a number", domain.ErrInvalidInput, latRaw)
	}
	lon, err := strconv.ParseFloat(lngRaw, 64)
	if err != nil {
		return domain.Position{}, fmt.Errorf("%w: longitude %q is not a number", domain.ErrInvalidInput, lngRaw)
	}
	pos := domain.Position{Lat: lat, Lon: lon}
	if !pos.Valid() {
		return domain.Position{}, fmt.Errorf("%w: coordinates out of range", domain.ErrInvalidInput)
	}
	return pos, nil
}

// FindNearby ranks the facilities within the radius of query by live
// great-circle distance. Equal distances keep load order. The result is never
// nil, so it always serializes as a JSON array.
func FindNearby(query domain.Position, facilities []domain.Facility, hotspot domain.Position, opts ...NearbyOption) []domain.ProximityResult {
	o := nearbyOptions{radiusKm: domain.DefaultRadiusKm}
	for _, opt := range opts {
		opt(&o)
	}

	results := make([]domain.ProximityResult, 0)
	for _, f := range facilities {
		distance := utils.DistanceKm(query.Lat, query.Lon, f.Position.Lat, f.Position.Lon)
		if distance > o.radiusKm {
			continue
		}
		hotspotDistance := utils.DistanceKm(f.Position.Lat, f.Position.Lon, hotspot.Lat, hotspot.Lon)

		results = append(results, domain.ProximityResult{
			Name:             f.Name,
			Coordinates:      f.Position.Coordinates(),
			Distance:         distance,
			HotspotDistance:  hotspotDistance,
			BaselineDistance: f.BaselineDistance,
			Address:          fmt.Sprintf("%s (%.2fkm from accident prone area)", f.Name, hotspotDistance),
		})
	}

	slices.SortStableFunc(results, func(a, b domain.ProximityResult) int {
		return cmp.Compare(a.Distance, b.Distance)
	})
	for i := range results {
		results[i].Rank = i + 1
	}
	return results
}

// ProximityService answers nearby-hospital queries against the loaded facilities.
type ProximityService struct {
	facilities FacilitySource
	hotspot    domain.Position
	radiusKm   float64
}

// NewProximityService creates a proximity service with a fixed hotspot and default radius
func NewProximityService(facilities FacilitySource, hotspot domain.Position, radiusKm float64) *ProximityService {
	if radiusKm <= 0 {
		radiusKm = domain.DefaultRadiusKm
	}
	return &ProximityService{
		facilities: facilities,
		hotspot:    hotspot,
		radiusKm:   radiusKm,
	}
}

// Nearby validates the raw query values and returns the ranked facilities.
// radiusRaw may be empty to use the configured default.
func (s *ProximityService) Nearby(latRaw, lngRaw, radiusRaw string) (domain.NearbyResponse, error) {
	query, err := ParsePosition(latRaw, lngRaw)
	if err != nil {
		return domain.NearbyResponse{}, err
	}

	radius := s.radiusKm
	if r := strings.TrimSpace(radiusRaw); r != "" {
		v, err := strconv.ParseFloat(r, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			return domain.NearbyResponse{}, fmt.Errorf("%w: radius must be a positive number", domain.ErrInvalidInput)
		}
		radius = v
	}

	return domain.NearbyResponse{
		Success:      true,
		Hospitals:    FindNearby(query, s.facilities.Facilities(), s.hotspot, WithRadius(radius)),
		UserLocation: query,
		RadiusKm:     radius,
	}, nil
}

// Hotspot returns the configured reference point.
func (s *ProximityService) Hotspot() domain.Position {
	return s.hotspot
}

// RadiusKm returns the default search radius.
func (s *ProximityService) RadiusKm() float64 {
	return s.radiusKm
}
