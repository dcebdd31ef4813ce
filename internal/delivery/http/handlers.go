package http

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/smartcity/roadsafety/internal/domain"
	"github.com/smartcity/roadsafety/internal/observability"
	"github.com/smartcity/roadsafety/internal/service"
)

// ReadinessCheck reports whether a backing dependency is reachable.
type ReadinessCheck func(ctx context.Context) error

// Handler contains all HTTP handlers
type Handler struct {
	records   service.RecordSource
	proximity *service.ProximityService
	alerts    *service.AlertNotifier
	heatmap   *service.HeatmapService
	overview  *service.OverviewService
	metrics   *observability.Metrics
	logger    *slog.Logger
	checks    map[string]ReadinessCheck
}

// Services groups the collaborators the handlers serve from.
type Services struct {
	Records   service.RecordSource
	Proximity *service.ProximityService
	Alerts    *service.AlertNotifier
	Heatmap   *service.HeatmapService
	Overview  *service.OverviewService
}

// NewHandler creates a new handler. checks may be nil.
func NewHandler(svc Services, metrics *observability.Metrics, logger *slog.Logger, checks map[string]ReadinessCheck) *Handler {
	return &Handler{
		records:   svc.Records,
		proximity: svc.Proximity,
		alerts:    svc.Alerts,
		heatmap:   svc.Heatmap,
		overview:  svc.Overview,
		metrics:   metrics,
		logger:    logger,
		checks:    checks,
	}
}

// HealthCheck returns service health status
func (h *Handler) HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"service": "roadsafety-backend",
		"version": "1.0.0",
	})
}

// Ready reports whether the datasets are attached and every enabled sink answers.
func (h *Handler) Ready(c *fiber.Ctx) error {
	if h.records == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "not ready",
			"reason": "datasets not loaded",
		})
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	failed := fiber.Map{}
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			h.logger.Warn("readiness check failed", "check", name, "error", err)
			failed[name] = err.Error()
		}
	}
	if len(failed) > 0 {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "not ready",
			"checks": failed,
		})
	}
	return c.JSON(fiber.Map{"status": "ready"})
}

// GetAccidents returns every loaded incident
func (h *Handler) GetAccidents(c *fiber.Ctx) error {
	incidents := h.records.Incidents()
	if incidents == nil {
		incidents = []domain.Incident{}
	}
	return c.JSON(incidents)
}

// GetHospitals returns hospitals within the search radius, nearest first
func (h *Handler) GetHospitals(c *fiber.Ctx) error {
	resp, err := h.proximity.Nearby(c.Query("lat"), c.Query("lng"), c.Query("radius"))
	if err != nil {
		h.metrics.NearbyQueries.WithLabelValues(outcome(err)).Inc()
		return err
	}

	h.metrics.NearbyQueries.WithLabelValues("ok").Inc()
	h.metrics.NearbyResults.Observe(float64(len(resp.Hospitals)))
	return c.JSON(resp)
}

// PostEmergency records an emergency alert for the selected hospital
func (h *Handler) PostEmergency(c *fiber.Ctx) error {
	var req domain.EmergencyRequest
	if err := c.BodyParser(&req); err != nil {
		h.metrics.AlertsDispatched.WithLabelValues("invalid").Inc()
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	rec, err := h.alerts.Dispatch(c.UserContext(), req)
	if err != nil {
		h.metrics.AlertsDispatched.WithLabelValues(outcome(err)).Inc()
		return err
	}

	h.metrics.AlertsDispatched.WithLabelValues("ok").Inc()
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Alert successfully sent to " + rec.FacilityName,
		"alert":   rec,
	})
}

// GetHeatmap returns the accident heatmap source and paint properties
func (h *Handler) GetHeatmap(c *fiber.Ctx) error {
	layer, err := h.heatmap.Layer(c.Query("zoom"))
	if err != nil {
		return err
	}

	body := fiber.Map{
		"success": true,
		"source":  layer.Source,
		"paint":   layer.Paint,
		"spec":    layer.Spec,
	}
	if layer.AtZoom != nil {
		body["zoom"] = layer.AtZoom
	}
	return c.JSON(body)
}

// GetOverview returns aggregate counts over the loaded datasets
func (h *Handler) GetOverview(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success": true,
		"data":    h.overview.Summary(),
	})
}

func outcome(err error) string {
	if errors.Is(err, domain.ErrInvalidInput) {
		return "invalid"
	}
	return "error"
}
