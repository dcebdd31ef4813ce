package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartcity/roadsafety/internal/domain"
	"github.com/smartcity/roadsafety/pkg/utils"
)

func TestFindNearby_RadiusFilter(t *testing.T) {
	facilities := []domain.Facility{
		{Name: "Far", Position: northOf(bangalore, 25)},
		{Name: "Near", Position: northOf(bangalore, 5)},
	}

	results := FindNearby(bangalore, facilities, bangalore)

	require.Len(t, results, 1)
	assert.Equal(t, "Near", results[0].Name)
	assert.Equal(t, 1, results[0].Rank)
	assert.InDelta(t, 5.0, results[0].Distance, 0.01)
	assert.Equal(t, [2]float64{bangalore.Lon, northOf(bangalore, 5).Lat}, results[0].Coordinates)
}

func TestFindNearby_SortedAscending(t *testing.T) {
	facilities := []domain.Facility{
		{Name: "C", Position: northOf(bangalore, 12)},
		{Name: "A", Position: northOf(bangalore, 1)},
		{Name: "B", Position: northOf(bangalore, 7)},
	}

	results := FindNearby(bangalore, facilities, bangalore)

	require.Len(t, results, 3)
	names := []string{results[0].Name, results[1].Name, results[2].Name}
	assert.Equal(t, []string{"A", "B", "C"}, names)
	for i, r := range results {
		assert.Equal(t, i+1, r.Rank)
		if i > 0 {
			assert.LessOrEqual(t, results[i-1].Distance, r.Distance)
		}
	}
}

func TestFindNearby_TiesKeepLoadOrder(t *testing.T) {
	same := northOf(bangalore, 3)
	facilities := []domain.Facility{
		{Name: "First", Position: same},
		{Name: "Second", Position: same},
		{Name: "Third", Position: same},
	}

	results := FindNearby(bangalore, facilities, bangalore)

	require.Len(t, results, 3)
	assert.Equal(t, "First", results[0].Name)
	assert.Equal(t, "Second", results[1].Name)
	assert.Equal(t, "Third", results[2].Name)
}

func TestFindNearby_BoundaryIsInclusive(t *testing.T) {
	f := domain.Facility{Name: "Edge", Position: northOf(bangalore, 10)}
	d := utils.DistanceKm(bangalore.Lat, bangalore.Lon, f.Position.Lat, f.Position.Lon)

	results := FindNearby(bangalore, []domain.Facility{f}, bangalore, WithRadius(d))
	assert.Len(t, results, 1)
}

func TestFindNearby_EmptyIsNotNil(t *testing.T) {
	results := FindNearby(bangalore, nil, bangalore)
	assert.NotNil(t, results)
	assert.Empty(t, results)

	far := []domain.Facility{{Name: "Chennai", Position: domain.Position{Lat: 13.0827, Lon: 80.2707}}}
	results = FindNearby(bangalore, far, bangalore)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestFindNearby_AddressAndHotspotDistance(t *testing.T) {
	hotspot := northOf(bangalore, 2)
	f := domain.Facility{Name: "Victoria Hospital", Position: bangalore, BaselineDistance: 1.7}

	results := FindNearby(bangalore, []domain.Facility{f}, hotspot)

	require.Len(t, results, 1)
	r := results[0]
	assert.Equal(t, 0.0, r.Distance)
	assert.InDelta(t, 2.0, r.HotspotDistance, 0.01)
	assert.Equal(t, 1.7, r.BaselineDistance)
	assert.True(t, strings.HasPrefix(r.Address, "Victoria Hospital ("))
	assert.True(t, strings.HasSuffix(r.Address, "km from accident prone area)"))
	assert.Contains(t, r.Address, "2.00km")
}

func TestWithRadius_IgnoresInvalid(t *testing.T) {
	facilities := []domain.Facility{{Name: "Far", Position: northOf(bangalore, 15)}}

	for _, km := range []float64{0, -5} {
		assert.Len(t, FindNearby(bangalore, facilities, bangalore, WithRadius(km)), 1)
	}
	assert.Empty(t, FindNearby(bangalore, facilities, bangalore, WithRadius(10)))
}

func TestParsePosition(t *testing.T) {
	tests := []struct {
		name    string
		lat     string
		lng     string
		wantErr string
	}{
		{"valid", "12.97", "77.59", ""},
		{"padded", " 12.97 ", " 77.59", ""},
		{"missing lng", "12.97", "", "latitude and longitude are required"},
		{"missing lat", "", "77.59", "latitude and longitude are required"},
		{"bad lat", "north", "77.59", "is not a number"},
		{"bad lng", "12.97", "east", "is not a number"},
		{"lat out of range", "91", "77.59", "out of range"},
		{"lng out of range", "12.97", "181", "out of range"},
		{"nan", "NaN", "77.59", "out of range"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos, err := ParsePosition(tt.lat, tt.lng)
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.Equal(t, domain.Position{Lat: 12.97, Lon: 77.59}, pos)
				return
			}
			require.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestProximityService_Nearby(t *testing.T) {
	records := stubRecords{facilities: []domain.Facility{
		{Name: "Near", Position: northOf(bangalore, 5)},
		{Name: "Far", Position: northOf(bangalore, 25)},
	}}
	svc := NewProximityService(records, bangalore, 0)
	assert.Equal(t, domain.DefaultRadiusKm, svc.RadiusKm())
	assert.Equal(t, bangalore, svc.Hotspot())

	resp, err := svc.Nearby("12.9716", "77.5946", "")
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, bangalore, resp.UserLocation)
	assert.Equal(t, 20.0, resp.RadiusKm)
	require.Len(t, resp.Hospitals, 1)
	assert.Equal(t, "Near", resp.Hospitals[0].Name)

	resp, err = svc.Nearby("12.9716", "77.5946", "30")
	require.NoError(t, err)
	assert.Equal(t, 30.0, resp.RadiusKm)
	assert.Len(t, resp.Hospitals, 2)
}

func TestProximityService_NearbyInvalid(t *testing.T) {
	svc := NewProximityService(stubRecords{}, bangalore, 20)

	_, err := svc.Nearby("12.9716", "", "")
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	for _, radius := range []string{"0", "-1", "abc", "NaN", "Inf"} {
		_, err := svc.Nearby("12.9716", "77.5946", radius)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, radius)
	}
}
