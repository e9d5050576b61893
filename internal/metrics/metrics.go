package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	SubmissionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "applynow_applications_submitted_total",
		Help: "Applications created through the intake flow.",
	})

	DecisionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "applynow_review_decisions_total",
		Help: "Reviewer status changes by target status.",
	}, []string{"status"})

	PredictionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "applynow_predictions_total",
		Help: "Prediction requests by strategy and outcome.",
	}, []string{"strategy", "outcome"})
)

// Handler serves the Prometheus scrape endpoint through Fiber.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
