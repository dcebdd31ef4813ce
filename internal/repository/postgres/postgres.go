package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/smartcity/roadsafety/internal/domain"
)

const schema = `
	CREATE TABLE IF NOT EXISTS alert_logs (
		id            UUID PRIMARY KEY,
		created_at    TIMESTAMPTZ NOT NULL,
		hospital_name TEXT NOT NULL,
		hospital_lon  DOUBLE PRECISION NOT NULL,
		hospital_lat  DOUBLE PRECISION NOT NULL,
		user_lat      DOUBLE PRECISION NOT NULL,
		user_lng      DOUBLE PRECISION NOT NULL,
		distance_km   DOUBLE PRECISION NOT NULL
	)
`

// AlertRepository implements domain.AlertSink on a PostgreSQL table
type AlertRepository struct {
	pool *pgxpool.Pool
}

// NewAlertRepository creates a new PostgreSQL alert repository
func NewAlertRepository(pool *pgxpool.Pool) *AlertRepository {
	return &AlertRepository{pool: pool}
}

// EnsureSchema creates the alert_logs table if it does not exist
func (r *AlertRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("postgres: failed to ensure alert schema: %w", err)
	}
	return nil
}

// RecordAlert persists an emergency alert to PostgreSQL
func (r *AlertRepository) RecordAlert(ctx context.Context, rec domain.AlertRecord) error {
	query := `
		INSERT INTO alert_logs (
			id, created_at, hospital_name, hospital_lon, hospital_lat,
			user_lat, user_lng, distance_km
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO NOTHING
	`

	_, err := r.pool.Exec(ctx, query,
		rec.ID, rec.Timestamp, rec.FacilityName, rec.Coordinates[0], rec.Coordinates[1],
		rec.UserLocation.Lat, rec.UserLocation.Lon, rec.DistanceKm,
	)
	if err != nil {
		return fmt.Errorf("postgres: failed to save alert: %w", err)
	}

	return nil
}

// Health checks database connectivity
func (r *AlertRepository) Health(ctx context.Context) error {
	if err := r.pool.Ping(ctx); err != nil {
		return fmt.Errorf("postgres: health check failed: %w", err)
	}
	return nil
}
