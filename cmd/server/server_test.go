package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	config "rent-advisor-api/configs"
	"rent-advisor-api/internal/app"
	"rent-advisor-api/internal/testutil"
	"rent-advisor-api/pkg/handlers"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)

	// optional in CI
	_ = godotenv.Load("../../.env")

	os.Exit(m.Run())
}

func TestApplicationSetup(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("MODEL_MANIFEST", testutil.WriteModelFiles(t, dir))
	t.Setenv("PROFILE_STORE", "json")
	t.Setenv("PROFILE_DATA_PATH", filepath.Join(dir, "profiles.json"))
	t.Setenv("OCCUPANCY_DATA_PATH", filepath.Join(dir, "missing.csv"))
	t.Setenv("API_KEY", "secret")

	cfg := config.LoadConfig()
	require.NotNil(t, cfg)

	a, err := app.New(context.Background(), cfg)
	require.NoError(t, err)
	defer a.Close()

	r := handlers.NewRouter(newRouterDeps(a))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/districts", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/districts", nil)
	req.Header.Set("X-API-KEY", "secret")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
