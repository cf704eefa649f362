package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"rent-advisor-api/internal/testutil"
	"rent-advisor-api/pkg/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAPIKey = "test-key"

type testServer struct {
	router  *gin.Engine
	profile services.ProfileStore
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	pricing := testutil.PricingService(t)
	advisor := services.NewAdvisorService(pricing, services.NewMarketAnalysisService(pricing, 4), testutil.OccupancyTable())
	store := services.NewJSONFileProfileStore(filepath.Join(t.TempDir(), "profiles.json"))
	metrics := services.NewMetrics()

	r := NewRouter(RouterDeps{
		APIKey:     testAPIKey,
		Advisor:    advisor,
		Profiles:   store,
		Monitoring: services.NewMonitoringService(metrics),
		Metrics:    metrics,
	})
	return &testServer{router: r, profile: store}
}

func (s *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-API-KEY", testAPIKey)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestHealthCheck(t *testing.T) {
	s := newTestServer(t)

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode(t, w)["status"])
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
}

func TestMaintenanceMode(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/admin/maintenance/start", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/admin/health-status", "")
	assert.Equal(t, true, decode(t, w)["isMaintenanceMode"])

	s.do(t, http.MethodPost, "/api/v1/admin/maintenance/stop", "")
	w = s.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAPIKeyRequired(t *testing.T) {
	s := newTestServer(t)

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/amenities", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Unauthorized", decode(t, w)["error"])
}

func TestGetAmenities(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/v1/amenities", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, float64(len(testutil.AmenityColumns)), body["count"])
	assert.Contains(t, body["data"], "Hair Dryer")
}

func TestGetDistricts(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/v1/districts", "")
	require.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].([]any)
	require.Len(t, data, services.DistrictCount)
	assert.Equal(t, "75120", data[19].(map[string]any)["region_code"])
}

func TestPredictShortTerm(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/pricing/short-term",
		`{"profile": {"arrondissement": "4", "bedrooms": 3, "bathrooms": 2, "room_type": "entire home/apt", "amenities": ["Wifi"]}}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	data := decode(t, w)["data"].(map[string]any)

	// 20 + 10*3 + 8*2
	assert.Equal(t, 66.0, data["cleaning_cost"])
	assert.Greater(t, data["nightly_price"].(float64), 0.0)
	assert.Contains(t, data, "competitive_range")
}

func TestPredictShortTermDefaultsWithoutBody(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/pricing/short-term", "")
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestPricingValidationErrors(t *testing.T) {
	s := newTestServer(t)

	cases := []struct {
		name   string
		body   string
		status int
		field  string
	}{
		{name: "unknown room type", body: `{"profile": {"room_type": "Castle"}}`, status: http.StatusUnprocessableEntity, field: "room_type"},
		{name: "non numeric district", body: `{"profile": {"arrondissement": "tenth"}}`, status: http.StatusUnprocessableEntity, field: "arrondissement"},
		{name: "occupancy out of range", body: `{"occupancy_percent": 0}`, status: http.StatusUnprocessableEntity, field: "occupancy_percent"},
		{name: "malformed json", body: `{"profile": `, status: http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := s.do(t, http.MethodPost, "/api/v1/pricing/report", tc.body)
			assert.Equal(t, tc.status, w.Code, w.Body.String())
			if tc.field != "" {
				assert.Equal(t, tc.field, decode(t, w)["field"])
			}
		})
	}
}

func TestPredictLongTerm(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/pricing/long-term",
		`{"profile": {"arrondissement": 10, "Number of rooms renting": 2, "furnished": 1}}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	data := decode(t, w)["data"].(map[string]any)
	assert.Equal(t, 1800.0, data["monthly_rent"])
}

func TestSweepAndImpact(t *testing.T) {
	s := newTestServer(t)
	profile := `{"profile": {"arrondissement": 3, "bedrooms": 2, "bathrooms": 1}}`

	w := s.do(t, http.MethodPost, "/api/v1/pricing/sweep", profile)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, float64(services.DistrictCount), body["count"])
	first := body["data"].([]any)[0].(map[string]any)
	assert.Equal(t, "75101", first["arrondissement_code"])

	w = s.do(t, http.MethodPost, "/api/v1/pricing/impact", profile)
	require.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].(map[string]any)
	impact := data["impact"].(map[string]any)
	assert.Equal(t, data["current_price"],
		impact["baseline_price"].(float64)+impact["quality_impact"].(float64)+impact["location_impact"].(float64))

	w = s.do(t, http.MethodPost, "/api/v1/pricing/impact", `{"current_price": 500}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 500.0, decode(t, w)["data"].(map[string]any)["current_price"])
}

func TestExportSweep(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/pricing/sweep/export", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Disposition"), `attachment; filename="arrondissement_prices_`))
	// xlsx is a zip archive
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("PK")))
}

func TestComparison(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/comparison",
		`{"profile": {"arrondissement": 10, "Number of rooms renting": 2, "furnished": true}, "occupancy_percent": 75}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	data := decode(t, w)["data"].(map[string]any)

	occ := data["short_term"].(map[string]any)["occupancy"].(map[string]any)
	assert.Equal(t, 0.75, occ["rate"])
	assert.Equal(t, "override", occ["source"])
	assert.Contains(t, []any{"short_term", "long_term", "tie"}, data["comparison"].(map[string]any)["winner"])
}

func TestProfileEndpoints(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/v1/profiles/alice", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodPut, "/api/v1/profiles/alice",
		`{"arrondissement": 11, "bedrooms": 2, "bathrooms": 1, "Number of rooms renting": 2, "amenities": ["Kitchen"]}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(t, http.MethodGet, "/api/v1/profiles/alice", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 11.0, decode(t, w)["data"].(map[string]any)["arrondissement"])

	w = s.do(t, http.MethodGet, "/api/v1/profiles/alice/report", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	report := decode(t, w)["data"].(map[string]any)
	assert.Len(t, report["region_prices"], services.DistrictCount)

	w = s.do(t, http.MethodGet, "/api/v1/profiles/alice/comparison?occupancy_percent=abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/profiles/alice/comparison?occupancy_percent=60", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodPut, "/api/v1/profiles/alice", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPut, "/api/v1/profiles/alice", `{"room_type": "Castle"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestPutProfileNormalizesAmenities(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPut, "/api/v1/profiles/bob",
		`{"arrondissement": 3, "amenities": ["wifi", " KITCHEN ", "Jacuzzi", "Wifi"]}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, []any{"Wifi", "Kitchen"}, decode(t, w)["data"].(map[string]any)["amenities"])

	w = s.do(t, http.MethodGet, "/api/v1/profiles/bob", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []any{"Wifi", "Kitchen"}, decode(t, w)["data"].(map[string]any)["amenities"])
}

func TestMetricsAndMonitoringEndpoints(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodGet, "/api/v1/districts", "")

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `rent_advisor_http_requests_total{method="GET",route="/api/v1/districts",status="2xx"} 1`)

	w = s.do(t, http.MethodGet, "/api/v1/monitoring/logs?period=1h", "")
	require.Equal(t, http.StatusOK, w.Code)
	endpoints := decode(t, w)["endpoints"].(map[string]any)
	assert.Equal(t, 1.0, endpoints["/api/v1/districts"])
}
