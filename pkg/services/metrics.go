package services

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics owns the Prometheus collectors of the service. A dedicated registry
// keeps tests free of global state.
type Metrics struct {
	Registry *prometheus.Registry

	inferenceTotal    *prometheus.CounterVec
	inferenceDuration *prometheus.HistogramVec
	httpRequests      *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
}

// NewMetrics registers all collectors on a fresh registry
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		inferenceTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rent_advisor",
			Name:      "model_inferences_total",
			Help:      "Model inferences by model and outcome.",
		}, []string{"model", "outcome"}),
		inferenceDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "rent_advisor",
			Name:      "model_inference_duration_seconds",
			Help:      "Model inference latency.",
			Buckets:   []float64{.0005, .001, .005, .01, .05, .1, .5, 1, 5},
		}, []string{"model"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rent_advisor",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "rent_advisor",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}
	reg.MustRegister(
		m.inferenceTotal,
		m.inferenceDuration,
		m.httpRequests,
		m.httpDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveRequest records one HTTP request
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, statusClass(status)).Inc()
	m.httpDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

func statusClass(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}

// InstrumentModelSet wraps every model so inferences are counted and timed
func (m *Metrics) InstrumentModelSet(ms ModelSet) ModelSet {
	if m == nil {
		return ms
	}
	return ModelSet{
		ShortTermPrice: &instrumentedSchemaPredictor{
			instrumentedPredictor: instrumentedPredictor{next: ms.ShortTermPrice, metrics: m},
			schema:                ms.ShortTermPrice,
		},
		CleaningCost: &instrumentedPredictor{next: ms.CleaningCost, metrics: m},
		LongTermRent: &instrumentedPredictor{next: ms.LongTermRent, metrics: m},
	}
}

type instrumentedPredictor struct {
	next    Predictor
	metrics *Metrics
}

func (p *instrumentedPredictor) Name() string { return p.next.Name() }

func (p *instrumentedPredictor) Predict(ctx context.Context, v *FeatureVector) (float64, error) {
	start := time.Now()
	y, err := p.next.Predict(ctx, v)
	p.metrics.inferenceDuration.WithLabelValues(p.next.Name()).Observe(time.Since(start).Seconds())
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	p.metrics.inferenceTotal.WithLabelValues(p.next.Name(), outcome).Inc()
	return y, err
}

type instrumentedSchemaPredictor struct {
	instrumentedPredictor
	schema SchemaPredictor
}

func (p *instrumentedSchemaPredictor) FeatureNames() []string { return p.schema.FeatureNames() }
