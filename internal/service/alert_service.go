package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/smartcity/roadsafety/internal/domain"
	"github.com/smartcity/roadsafety/pkg/utils"
)

// AlertNotifier turns a selected hospital into an emergency alert record and
// hands it to the audit sink. It does not page or message anyone.
type AlertNotifier struct {
	sink   AlertSink
	clock  clockwork.Clock
	logger *slog.Logger
}

// NewAlertNotifier creates an alert notifier. A nil clock uses real time.
func NewAlertNotifier(sink AlertSink, clock clockwork.Clock, logger *slog.Logger) *AlertNotifier {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &AlertNotifier{
		sink:   sink,
		clock:  clock,
		logger: logger,
	}
}

// Dispatch validates the request, builds the alert record and records it.
// Missing inputs wrap domain.ErrInvalidInput; a failing sink wraps domain.ErrInternal.
func (n *AlertNotifier) Dispatch(ctx context.Context, req domain.EmergencyRequest) (domain.AlertRecord, error) {
	if req.UserLocation == nil || req.Hospital == nil || strings.TrimSpace(req.Hospital.Name) == "" {
		return domain.AlertRecord{}, fmt.Errorf("%w: user location and hospital information are required", domain.ErrInvalidInput)
	}
	user := *req.UserLocation
	if !user.Valid() {
		return domain.AlertRecord{}, fmt.Errorf("%w: user location out of range", domain.ErrInvalidInput)
	}
	facility, ok := req.Hospital.Position()
	if !ok {
		return domain.AlertRecord{}, fmt.Errorf("%w: hospital coordinates must be [longitude, latitude]", domain.ErrInvalidInput)
	}

	rec := domain.AlertRecord{
		ID:           uuid.NewString(),
		Timestamp:    n.clock.Now().UTC(),
		FacilityName: req.Hospital.Name,
		Coordinates:  facility.Coordinates(),
		UserLocation: user,
		DistanceKm:   utils.DistanceKm(user.Lat, user.Lon, facility.Lat, facility.Lon),
	}

	if err := n.sink.RecordAlert(ctx, rec); err != nil {
		n.logger.Error("record emergency alert failed", "alert_id", rec.ID, "hospital", rec.FacilityName, "error", err)
		return domain.AlertRecord{}, fmt.Errorf("%w: record alert: %w", domain.ErrInternal, err)
	}
	return rec, nil
}
