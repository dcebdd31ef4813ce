package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/smartcity/roadsafety/internal/domain"
)

// AlertStream appends emergency alerts to a capped Redis stream.
// It implements domain.AlertSink.
type AlertStream struct {
	client *goredis.Client
	stream string
	maxLen int64
}

// NewClient opens a Redis client. Connection errors surface on first use.
func NewClient(addr, password string, db int) *goredis.Client {
	return goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// NewAlertStream creates a stream sink. maxLen <= 0 disables trimming.
func NewAlertStream(client *goredis.Client, stream string, maxLen int64) *AlertStream {
	return &AlertStream{client: client, stream: stream, maxLen: maxLen}
}

func (s *AlertStream) RecordAlert(ctx context.Context, rec domain.AlertRecord) error {
	args := &goredis.XAddArgs{
		Stream: s.stream,
		Values: alertValues(rec),
	}
	if s.maxLen > 0 {
		args.MaxLen = s.maxLen
		args.Approx = true
	}
	if err := s.client.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("redis: append alert to %s: %w", s.stream, err)
	}
	return nil
}

// Ping checks the Redis connection.
func (s *AlertStream) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis: ping: %w", err)
	}
	return nil
}

func (s *AlertStream) Close() error {
	return s.client.Close()
}

// alertValues flattens an alert into stream entry fields.
func alertValues(rec domain.AlertRecord) map[string]any {
	return map[string]any{
		"id":           rec.ID,
		"timestamp":    rec.Timestamp.Format(time.RFC3339Nano),
		"hospital":     rec.FacilityName,
		"hospital_lon": strconv.FormatFloat(rec.Coordinates[0], 'f', -1, 64),
		"hospital_lat": strconv.FormatFloat(rec.Coordinates[1], 'f', -1, 64),
		"user_lat":     strconv.FormatFloat(rec.UserLocation.Lat, 'f', -1, 64),
		"user_lng":     strconv.FormatFloat(rec.UserLocation.Lon, 'f', -1, 64),
		"distance_km":  strconv.FormatFloat(rec.DistanceKm, 'f', 3, 64),
	}
}
