// Package metrics exposes Prometheus instrumentation for prediction requests
// and form sessions.
package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/evcraddock/price-estimator/internal/predict"
)

// Outcome labels.
const (
	OutcomeSuccess          = "success"
	OutcomeLogicalFailure   = "logical_failure"
	OutcomeTransportFailure = "transport_failure"
	OutcomeCancelled        = "cancelled"
)

var (
	PredictionRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prediction_requests_total",
			Help: "Total number of prediction requests sent to the backend, by outcome",
		},
		[]string{"outcome"},
	)

	PredictionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "prediction_request_duration_seconds",
			Help:    "Duration of prediction requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	SessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "form_sessions_active",
			Help: "Number of live web form sessions",
		},
	)
)

// instrumented wraps a Predictor and records each call.
type instrumented struct {
	next predict.Predictor
}

// Instrument returns a Predictor that records outcomes and latency of p.
func Instrument(p predict.Predictor) predict.Predictor {
	return &instrumented{next: p}
}

func (i *instrumented) Predict(ctx context.Context, req predict.Request) (*predict.Response, error) {
	start := time.Now()
	resp, err := i.next.Predict(ctx, req)
	PredictionDuration.Observe(time.Since(start).Seconds())
	PredictionRequests.WithLabelValues(outcome(resp, err)).Inc()
	return resp, err
}

func outcome(resp *predict.Response, err error) string {
	switch {
	case errors.Is(err, context.Canceled):
		return OutcomeCancelled
	case err != nil || resp == nil:
		return OutcomeTransportFailure
	case !resp.Success:
		return OutcomeLogicalFailure
	default:
		return OutcomeSuccess
	}
}
