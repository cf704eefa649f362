package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"rent-advisor-api/pkg/models"
	"rent-advisor-api/pkg/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newModelServer(t *testing.T, predictStatus int, predictions []float64) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/schema":
			_ = json.NewEncoder(w).Encode(map[string]any{"feature_names_in": services.CleaningColumns})
		case "/predict":
			var req struct {
				Columns []string    `json:"columns"`
				Rows    [][]float64 `json:"rows"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Rows) != 1 {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			w.WriteHeader(predictStatus)
			if predictStatus == http.StatusUnprocessableEntity {
				_ = json.NewEncoder(w).Encode(map[string]any{"error": "column order differs"})
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"predictions": predictions})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func cleaningVector(t *testing.T) *services.FeatureVector {
	t.Helper()
	v, err := services.NewFeatureVector(services.CleaningColumns, []float64{2, 1})
	require.NoError(t, err)
	return v
}

func TestRemotePredictor(t *testing.T) {
	srv := newModelServer(t, http.StatusOK, []float64{57.5})
	ctx := context.Background()

	p, err := services.NewRemotePredictor(ctx, "cleaning_cost", srv.URL+"/", time.Second)
	require.NoError(t, err)
	assert.Equal(t, "cleaning_cost", p.Name())
	assert.Equal(t, services.CleaningColumns, p.FeatureNames())

	y, err := p.Predict(ctx, cleaningVector(t))
	require.NoError(t, err)
	assert.Equal(t, 57.5, y)
}

func TestRemotePredictorChecksSchemaLocally(t *testing.T) {
	srv := newModelServer(t, http.StatusOK, []float64{1})
	p, err := services.NewRemotePredictor(context.Background(), "cleaning_cost", srv.URL, time.Second)
	require.NoError(t, err)

	v, err := services.NewFeatureVector([]string{services.ColCleaningBathroom, services.ColCleaningBedroom}, []float64{1, 2})
	require.NoError(t, err)
	_, err = p.Predict(context.Background(), v)
	var mismatch *models.SchemaMismatchError
	assert.True(t, errors.As(err, &mismatch))
}

func TestRemotePredictorErrors(t *testing.T) {
	cases := []struct {
		name        string
		status      int
		predictions []float64
		schemaError bool
	}{
		{name: "schema rejected by server", status: http.StatusUnprocessableEntity, schemaError: true},
		{name: "server failure", status: http.StatusInternalServerError},
		{name: "empty predictions", status: http.StatusOK},
		{name: "too many predictions", status: http.StatusOK, predictions: []float64{1, 2}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := newModelServer(t, tc.status, tc.predictions)
			p, err := services.NewRemotePredictor(context.Background(), "cleaning_cost", srv.URL, time.Second)
			require.NoError(t, err)

			_, err = p.Predict(context.Background(), cleaningVector(t))
			require.Error(t, err)

			var mismatch *models.SchemaMismatchError
			var inference *models.InferenceError
			if tc.schemaError {
				require.True(t, errors.As(err, &mismatch))
				assert.Equal(t, "column order differs", mismatch.Detail)
			} else {
				assert.True(t, errors.As(err, &inference))
			}
		})
	}
}

func TestRemotePredictorMalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/schema" {
			_ = json.NewEncoder(w).Encode(map[string]any{"feature_names_in": services.CleaningColumns})
			return
		}
		_, _ = w.Write([]byte(`{"predictions": [57.5`))
	}))
	t.Cleanup(srv.Close)

	p, err := services.NewRemotePredictor(context.Background(), "cleaning_cost", srv.URL, time.Second)
	require.NoError(t, err)

	_, err = p.Predict(context.Background(), cleaningVector(t))
	var inference *models.InferenceError
	require.True(t, errors.As(err, &inference))
	assert.Contains(t, err.Error(), "failed to decode response")
	assert.NotContains(t, err.Error(), "expected 1 prediction")

	var syntaxErr *json.SyntaxError
	assert.True(t, errors.As(err, &syntaxErr))
}

func TestNewRemotePredictorUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := services.NewRemotePredictor(context.Background(), "cleaning_cost", url, 200*time.Millisecond)
	assert.Error(t, err)
}
