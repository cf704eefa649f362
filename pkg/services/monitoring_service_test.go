package services_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"rent-advisor-api/pkg/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	metrics := services.NewMetrics()
	monitoring := services.NewMonitoringService(metrics)

	r := gin.New()
	r.Use(monitoring.LoggingMiddleware())
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })
	r.GET("/api/v1/monitoring/logs", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/ok", "/ok", "/boom", "/api/v1/monitoring/logs", "/missing"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	}

	data := monitoring.GetDashboardData(1)
	assert.Equal(t, 2, data.Endpoints["/ok"])
	assert.Equal(t, 1, data.Endpoints["/boom"])
	assert.Equal(t, 1, data.Endpoints["/missing"])
	assert.NotContains(t, data.Endpoints, "/api/v1/monitoring/logs")

	require.Len(t, data.RecentErrors, 1)
	assert.Equal(t, "/boom", data.RecentErrors[0].Path)

	require.Len(t, data.RequestsOverTime, 1)
	assert.Equal(t, 4, data.RequestsOverTime[0]["requests"])

	// every request is counted, monitoring included
	assert.Equal(t, 5.0, counterValue(t, metrics.Registry, "rent_advisor_http_requests_total", nil))
	assert.Equal(t, 1.0, counterValue(t, metrics.Registry, "rent_advisor_http_requests_total",
		map[string]string{"route": "unmatched"}))
}

func TestGetDashboardDataWindow(t *testing.T) {
	monitoring := services.NewMonitoringService(nil)
	now := time.Now()
	monitoring.LogRequest(services.LogEntry{Timestamp: now.Add(-30 * time.Minute), Path: "/a", StatusCode: 200, ResponseTime: 10 * time.Millisecond})
	monitoring.LogRequest(services.LogEntry{Timestamp: now.Add(-30 * time.Minute), Path: "/a", StatusCode: 404, ResponseTime: 30 * time.Millisecond})
	monitoring.LogRequest(services.LogEntry{Timestamp: now.Add(-5 * time.Hour), Path: "/b", StatusCode: 200})

	data := monitoring.GetDashboardData(1)
	assert.Equal(t, map[string]int{"/a": 2}, data.Endpoints)
	assert.Equal(t, []map[string]interface{}{
		{"name": "2xx Success", "value": 1},
		{"name": "4xx Client Error", "value": 1},
		{"name": "5xx Server Error", "value": 0},
	}, data.StatusCodes)
	require.Len(t, data.AvgResponseTimes, 1)
	assert.Equal(t, int64(20), data.AvgResponseTimes[0]["responseTime"])

	data = monitoring.GetDashboardData(4)
	assert.Equal(t, map[string]int{"/a": 2}, data.Endpoints)

	data = monitoring.GetDashboardData(24)
	assert.Len(t, data.RequestsOverTime, 24)
	assert.Equal(t, map[string]int{"/a": 2, "/b": 1}, data.Endpoints)
}
