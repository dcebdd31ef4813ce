package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartcity/roadsafety/internal/audit"
	"github.com/smartcity/roadsafety/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func validRequest() domain.EmergencyRequest {
	user := bangalore
	return domain.EmergencyRequest{
		UserLocation: &user,
		Hospital: &domain.HospitalRef{
			Name:        "Victoria Hospital",
			Coordinates: []float64{77.5736, 12.9634},
			Distance:    99,
		},
	}
}

func TestAlertNotifier_Dispatch(t *testing.T) {
	now := time.Date(2025, 3, 4, 10, 30, 0, 0, time.UTC)
	clock := clockwork.NewFakeClockAt(now)
	sink := audit.NewMemorySink()
	n := NewAlertNotifier(sink, clock, discardLogger())

	rec, err := n.Dispatch(context.Background(), validRequest())
	require.NoError(t, err)

	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, now, rec.Timestamp)
	assert.Equal(t, "Victoria Hospital", rec.FacilityName)
	assert.Equal(t, [2]float64{77.5736, 12.9634}, rec.Coordinates)
	assert.Equal(t, bangalore, rec.UserLocation)
	// client-supplied distance is ignored
	assert.Greater(t, rec.DistanceKm, 2.0)
	assert.Less(t, rec.DistanceKm, 3.0)

	alerts := sink.Alerts()
	require.Len(t, alerts, 1)
	assert.Equal(t, rec, alerts[0])
}

func TestAlertNotifier_UniqueIDs(t *testing.T) {
	sink := audit.NewMemorySink()
	n := NewAlertNotifier(sink, nil, discardLogger())

	a, err := n.Dispatch(context.Background(), validRequest())
	require.NoError(t, err)
	b, err := n.Dispatch(context.Background(), validRequest())
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
	assert.Len(t, sink.Alerts(), 2)
}

func TestAlertNotifier_InvalidInput(t *testing.T) {
	outOfRange := domain.Position{Lat: 120, Lon: 10}

	tests := []struct {
		name   string
		mutate func(*domain.EmergencyRequest)
	}{
		{"missing user location", func(r *domain.EmergencyRequest) { r.UserLocation = nil }},
		{"missing hospital", func(r *domain.EmergencyRequest) { r.Hospital = nil }},
		{"blank hospital name", func(r *domain.EmergencyRequest) { r.Hospital.Name = "  " }},
		{"user out of range", func(r *domain.EmergencyRequest) { r.UserLocation = &outOfRange }},
		{"no coordinates", func(r *domain.EmergencyRequest) { r.Hospital.Coordinates = nil }},
		{"short coordinates", func(r *domain.EmergencyRequest) { r.Hospital.Coordinates = []float64{77.5} }},
		{"coordinates out of range", func(r *domain.EmergencyRequest) { r.Hospital.Coordinates = []float64{200, 12} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := audit.NewMemorySink()
			n := NewAlertNotifier(sink, nil, discardLogger())

			req := validRequest()
			tt.mutate(&req)

			_, err := n.Dispatch(context.Background(), req)
			require.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Empty(t, sink.Alerts())
		})
	}
}

func TestAlertNotifier_MissingFieldsMessage(t *testing.T) {
	n := NewAlertNotifier(audit.NewMemorySink(), nil, discardLogger())

	_, err := n.Dispatch(context.Background(), domain.EmergencyRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "user location and hospital information are required")
}

func TestAlertNotifier_SinkFailure(t *testing.T) {
	sink := audit.NewMemorySink()
	sink.FailWith(errors.New("disk full"))
	n := NewAlertNotifier(sink, nil, discardLogger())

	_, err := n.Dispatch(context.Background(), validRequest())
	require.ErrorIs(t, err, domain.ErrInternal)
	assert.NotErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "disk full")
}

func TestAlertNotifier_SameLocationIsZero(t *testing.T) {
	n := NewAlertNotifier(audit.NewMemorySink(), nil, discardLogger())
	req := validRequest()
	req.Hospital.Coordinates = []float64{bangalore.Lon, bangalore.Lat}

	rec, err := n.Dispatch(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 0.0, rec.DistanceKm)
}
