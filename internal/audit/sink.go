// Package audit provides the in-process emergency alert sinks and a fan-out
// that combines them with the external ones.
package audit

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/smartcity/roadsafety/internal/domain"
)

// LogSink writes every alert as a structured log record. It never fails.
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink creates a log sink
func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) RecordAlert(ctx context.Context, rec domain.AlertRecord) error {
	s.logger.LogAttrs(ctx, slog.LevelWarn, "emergency alert",
		slog.String("alert_id", rec.ID),
		slog.Time("time", rec.Timestamp),
		slog.String("hospital", rec.FacilityName),
		slog.Any("location", rec.Coordinates),
		slog.Float64("user_lat", rec.UserLocation.Lat),
		slog.Float64("user_lng", rec.UserLocation.Lon),
		slog.String("distance_km", strconv.FormatFloat(rec.DistanceKm, 'f', 2, 64)),
	)
	return nil
}

// MemorySink keeps alerts in memory, for tests and demo mode.
type MemorySink struct {
	mu     sync.Mutex
	alerts []domain.AlertRecord
	err    error
}

// NewMemorySink creates an empty memory sink
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

func (s *MemorySink) RecordAlert(_ context.Context, rec domain.AlertRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.alerts = append(s.alerts, rec)
	return nil
}

// FailWith makes subsequent RecordAlert calls return err. Pass nil to recover.
func (s *MemorySink) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// Alerts returns a copy of the recorded alerts in order.
func (s *MemorySink) Alerts() []domain.AlertRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.alerts)
}

// MultiSink fans an alert out to every sink. All sinks are attempted; their
// errors are joined.
type MultiSink struct {
	sinks   []domain.AlertSink
	timeout time.Duration
}

// NewMultiSink creates a fan-out over sinks. timeout bounds each external write;
// zero leaves the caller's context untouched.
func NewMultiSink(timeout time.Duration, sinks ...domain.AlertSink) *MultiSink {
	return &MultiSink{sinks: sinks, timeout: timeout}
}

func (m *MultiSink) RecordAlert(ctx context.Context, rec domain.AlertRecord) error {
	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	var errs []error
	for _, s := range m.sinks {
		if err := s.RecordAlert(ctx, rec); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
