package http

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/smartcity/roadsafety/internal/observability"
)

// SetupRoutes configures all HTTP routes
func SetupRoutes(app *fiber.App, handler *Handler, metrics *observability.Metrics) {
	app.Use(requestMetrics(metrics))

	// Health and operations
	app.Get("/health", handler.HealthCheck)
	app.Get("/readyz", handler.Ready)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")
	{
		// Datasets
		api.Get("/accidents", handler.GetAccidents)
		api.Get("/heatmap", handler.GetHeatmap)
		api.Get("/overview", handler.GetOverview)

		// Proximity and dispatch
		api.Get("/hospitals", handler.GetHospitals)
		api.Post("/emergency", handler.PostEmergency)
	}
}

// requestMetrics observes request latency labelled by the matched route pattern.
// Errors are rendered here so the recorded status is the one the client sees.
func requestMetrics(metrics *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		if err := c.Next(); err != nil {
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				return herr
			}
		}

		metrics.HTTPRequestDuration.
			WithLabelValues(c.Method(), c.Route().Path, strconv.Itoa(c.Response().StatusCode())).
			Observe(time.Since(start).Seconds())
		return nil
	}
}
