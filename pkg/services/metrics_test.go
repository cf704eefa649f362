package services_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"rent-advisor-api/internal/testutil"
	"rent-advisor-api/pkg/models"
	"rent-advisor-api/pkg/services"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// counterValue sums the samples of a counter family matching labels
func counterValue(t *testing.T, reg prometheus.Gatherer, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)

	total := 0.0
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
	metrics:
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if want, ok := labels[lp.GetName()]; ok && want != lp.GetValue() {
					continue metrics
				}
			}
			total += m.GetCounter().GetValue()
		}
	}
	return total
}

func TestInstrumentModelSetCountsInferences(t *testing.T) {
	m := services.NewMetrics()
	ms := testutil.ModelSet(t)
	ms.CleaningCost = &testutil.StaticPredictor{ModelName: "cleaning_cost", Err: errors.New("offline")}

	pricing, err := services.NewPricingServiceFromModels(m.InstrumentModelSet(ms), nil)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = pricing.PredictShortTermPrice(ctx, models.DefaultProfile())
	require.NoError(t, err)
	_, err = pricing.PredictShortTermPrice(ctx, models.DefaultProfile())
	require.NoError(t, err)
	_, err = pricing.PredictCleaningCost(ctx, models.DefaultProfile())
	require.Error(t, err)

	assert.Equal(t, 2.0, counterValue(t, m.Registry, "rent_advisor_model_inferences_total",
		map[string]string{"model": "airbnb_price", "outcome": "ok"}))
	assert.Equal(t, 1.0, counterValue(t, m.Registry, "rent_advisor_model_inferences_total",
		map[string]string{"model": "cleaning_cost", "outcome": "error"}))
}

func TestInstrumentedModelKeepsSchema(t *testing.T) {
	m := services.NewMetrics()
	ms := m.InstrumentModelSet(testutil.ModelSet(t))
	assert.Equal(t, testutil.ShortTermColumns(), ms.ShortTermPrice.FeatureNames())
	assert.Equal(t, "airbnb_price", ms.ShortTermPrice.Name())
}

func TestObserveRequest(t *testing.T) {
	m := services.NewMetrics()
	m.ObserveRequest(http.MethodPost, "/api/v1/pricing/short-term", http.StatusOK, 20*time.Millisecond)
	m.ObserveRequest(http.MethodPost, "/api/v1/pricing/short-term", http.StatusUnprocessableEntity, time.Millisecond)

	assert.Equal(t, 1.0, counterValue(t, m.Registry, "rent_advisor_http_requests_total",
		map[string]string{"status": "4xx"}))
	assert.Equal(t, 2.0, counterValue(t, m.Registry, "rent_advisor_http_requests_total", nil))

	count, err := promtest.GatherAndCount(m.Registry, "rent_advisor_http_request_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	var disabled *services.Metrics
	assert.NotPanics(t, func() { disabled.ObserveRequest(http.MethodGet, "/health", http.StatusOK, 0) })
}
