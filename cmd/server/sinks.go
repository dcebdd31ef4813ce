package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/smartcity/roadsafety/internal/adapter/kafka"
	"github.com/smartcity/roadsafety/internal/adapter/redis"
	"github.com/smartcity/roadsafety/internal/audit"
	"github.com/smartcity/roadsafety/internal/config"
	"github.com/smartcity/roadsafety/internal/delivery/http"
	"github.com/smartcity/roadsafety/internal/domain"
	"github.com/smartcity/roadsafety/internal/repository/postgres"
)

const sinkWriteTimeout = 5 * time.Second

// alertSinks is the configured fan-out plus what must be checked and closed.
type alertSinks struct {
	Sink    domain.AlertSink
	Checks  map[string]http.ReadinessCheck
	closers []func() error
}

// Close releases every external sink.
func (s *alertSinks) Close(log *slog.Logger) {
	for _, c := range s.closers {
		if err := c(); err != nil {
			log.Warn("failed to close alert sink", "error", err)
		}
	}
}

// buildSinks connects every sink named in ALERT_SINKS. The log sink is always
// included so an alert is never silently dropped.
func buildSinks(ctx context.Context, cfg *config.Config, log *slog.Logger) (*alertSinks, error) {
	out := &alertSinks{Checks: map[string]http.ReadinessCheck{}}
	sinks := []domain.AlertSink{audit.NewLogSink(log)}

	if cfg.HasSink(config.SinkPostgres) {
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		pool, err := pgxpool.New(connectCtx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("postgres: connect: %w", err)
		}
		repo := postgres.NewAlertRepository(pool)
		if err := repo.EnsureSchema(connectCtx); err != nil {
			pool.Close()
			return nil, err
		}
		sinks = append(sinks, repo)
		out.Checks[config.SinkPostgres] = repo.Health
		out.closers = append(out.closers, func() error { pool.Close(); return nil })
		log.Info("alert sink enabled", "sink", config.SinkPostgres)
	}

	if cfg.HasSink(config.SinkKafka) {
		w := kafka.NewAlertWriter(cfg.KafkaBrokers, cfg.KafkaAlertTopic)
		sinks = append(sinks, w)
		out.closers = append(out.closers, w.Close)
		log.Info("alert sink enabled", "sink", config.SinkKafka, "topic", cfg.KafkaAlertTopic)
	}

	if cfg.HasSink(config.SinkRedis) {
		s := redis.NewAlertStream(
			redis.NewClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB),
			cfg.RedisAlertStream,
			cfg.RedisStreamMaxLen,
		)
		sinks = append(sinks, s)
		out.Checks[config.SinkRedis] = s.Ping
		out.closers = append(out.closers, s.Close)
		log.Info("alert sink enabled", "sink", config.SinkRedis, "stream", cfg.RedisAlertStream)
	}

	out.Sink = audit.NewMultiSink(sinkWriteTimeout, sinks...)
	return out, nil
}
