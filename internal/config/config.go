package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/smartcity/roadsafety/internal/domain"
)

// Alert sink names accepted in ALERT_SINKS.
const (
	SinkLog      = "log"
	SinkPostgres = "postgres"
	SinkKafka    = "kafka"
	SinkRedis    = "redis"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	Port            string
	Env             string
	LogLevel        string
	LogFormat       string
	CORSOrigins     string
	ShutdownTimeout time.Duration

	// Dataset sources, read once at startup.
	IncidentsPath  string
	FacilitiesPath string

	// Proximity query settings.
	Hotspot  domain.Position
	RadiusKm float64

	// Alert audit sinks.
	AlertSinks        []string
	DatabaseURL       string
	KafkaBrokers      []string
	KafkaAlertTopic   string
	RedisAddr         string
	RedisPassword     string
	RedisDB           int
	RedisAlertStream  string
	RedisStreamMaxLen int64
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := time.ParseDuration(getEnv("SHUTDOWN_TIMEOUT", "5s"))
	if err != nil || shutdownTimeout <= 0 {
		return nil, errors.New("invalid SHUTDOWN_TIMEOUT")
	}

	hotspotLat, err := parseFloatEnv("HOTSPOT_LAT", 12.9716)
	if err != nil {
		return nil, err
	}
	hotspotLon, err := parseFloatEnv("HOTSPOT_LON", 77.5946)
	if err != nil {
		return nil, err
	}
	radius, err := parseFloatEnv("RADIUS_KM", domain.DefaultRadiusKm)
	if err != nil {
		return nil, err
	}

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil || redisDB < 0 {
		return nil, errors.New("invalid REDIS_DB")
	}
	maxLen, err := strconv.ParseInt(getEnv("REDIS_STREAM_MAXLEN", "10000"), 10, 64)
	if err != nil || maxLen <= 0 {
		return nil, errors.New("invalid REDIS_STREAM_MAXLEN")
	}

	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		Env:             getEnv("GO_ENV", "development"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFormat:       getEnv("LOG_FORMAT", "json"),
		CORSOrigins:     getEnv("CORS_ORIGINS", "*"),
		ShutdownTimeout: shutdownTimeout,

		IncidentsPath:  getEnv("INCIDENTS_PATH", "data/Accidents Sample.csv"),
		FacilitiesPath: getEnv("FACILITIES_PATH", "data/Hospitals.csv"),

		Hotspot:  domain.Position{Lat: hotspotLat, Lon: hotspotLon},
		RadiusKm: radius,

		AlertSinks:        splitList(getEnv("ALERT_SINKS", SinkLog)),
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		KafkaBrokers:      splitList(getEnv("KAFKA_BROKERS", "")),
		KafkaAlertTopic:   getEnv("KAFKA_ALERT_TOPIC", "emergency-alerts"),
		RedisAddr:         getEnv("REDIS_ADDR", ""),
		RedisPassword:     getEnv("REDIS_PASSWORD", ""),
		RedisDB:           redisDB,
		RedisAlertStream:  getEnv("REDIS_ALERT_STREAM", "emergency-alerts"),
		RedisStreamMaxLen: maxLen,
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if !c.Hotspot.Valid() {
		return errors.New("HOTSPOT_LAT/HOTSPOT_LON out of range")
	}
	if c.RadiusKm <= 0 {
		return errors.New("RADIUS_KM must be positive")
	}
	if len(c.AlertSinks) == 0 {
		return errors.New("ALERT_SINKS must name at least one sink")
	}
	for _, sink := range c.AlertSinks {
		switch sink {
		case SinkLog:
		case SinkPostgres:
			if c.DatabaseURL == "" {
				return errors.New("ALERT_SINKS includes postgres but DATABASE_URL is not set")
			}
		case SinkKafka:
			if len(c.KafkaBrokers) == 0 {
				return errors.New("ALERT_SINKS includes kafka but KAFKA_BROKERS is not set")
			}
			if c.KafkaAlertTopic == "" {
				return errors.New("KAFKA_ALERT_TOPIC is required")
			}
		case SinkRedis:
			if c.RedisAddr == "" {
				return errors.New("ALERT_SINKS includes redis but REDIS_ADDR is not set")
			}
		default:
			return fmt.Errorf("unknown alert sink %q in ALERT_SINKS", sink)
		}
	}
	return nil
}

// HasSink reports whether the named alert sink is enabled.
func (c *Config) HasSink(name string) bool {
	for _, s := range c.AlertSinks {
		if s == name {
			return true
		}
	}
	return false
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseFloatEnv(key string, defaultValue float64) (float64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return v, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.ToLower(strings.TrimSpace(part)); p != "" {
			out = append(out, p)
		}
	}
	return out
}
