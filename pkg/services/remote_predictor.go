package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"rent-advisor-api/pkg/models"
)

// RemotePredictor calls a model-serving sidecar over HTTP.
//
//	GET  {endpoint}/schema   -> {"feature_names_in": [...]}
//	POST {endpoint}/predict  <- {"columns": [...], "rows": [[...]]}
//	                         -> {"predictions": [y]}
//
// The schema is fetched once when the predictor is created and every vector is
// checked against it before it leaves the process.
type RemotePredictor struct {
	name     string
	endpoint string
	client   *http.Client
	features []string
}

type remoteSchemaResponse struct {
	FeatureNamesIn []string `json:"feature_names_in"`
}

type remotePredictRequest struct {
	Columns []string    `json:"columns"`
	Rows    [][]float64 `json:"rows"`
}

type remotePredictResponse struct {
	Predictions []float64 `json:"predictions"`
	Error       string    `json:"error,omitempty"`
}

// NewRemotePredictor connects to a serving endpoint and loads its schema
func NewRemotePredictor(ctx context.Context, name, endpoint string, timeout time.Duration) (*RemotePredictor, error) {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	p := &RemotePredictor{
		name:     name,
		endpoint: strings.TrimRight(endpoint, "/"),
		client:   &http.Client{Timeout: timeout},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.endpoint+"/schema", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build schema request: %w", err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch schema for %s: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code fetching schema for %s: %d", name, resp.StatusCode)
	}

	var schema remoteSchemaResponse
	if err := json.NewDecoder(resp.Body).Decode(&schema); err != nil {
		return nil, fmt.Errorf("failed to parse schema for %s: %w", name, err)
	}
	if _, err := NewFeatureSchema(name, schema.FeatureNamesIn); err != nil {
		return nil, err
	}
	p.features = schema.FeatureNamesIn
	return p, nil
}

// Name returns the model name
func (p *RemotePredictor) Name() string { return p.name }

// FeatureNames returns the schema reported by the server
func (p *RemotePredictor) FeatureNames() []string {
	return append([]string(nil), p.features...)
}

// Predict sends one row to the server
func (p *RemotePredictor) Predict(ctx context.Context, v *FeatureVector) (float64, error) {
	if mismatch := models.NewSchemaMismatch(p.name, p.features, v.Columns()); mismatch != nil {
		return 0, mismatch
	}

	body, err := json.Marshal(remotePredictRequest{Columns: v.Columns(), Rows: [][]float64{v.Values()}})
	if err != nil {
		return 0, &models.InferenceError{Model: p.name, Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint+"/predict", bytes.NewReader(body))
	if err != nil {
		return 0, &models.InferenceError{Model: p.name, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return 0, &models.InferenceError{Model: p.name, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, &models.InferenceError{Model: p.name, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	var out remotePredictResponse
	decodeErr := json.Unmarshal(raw, &out)

	switch {
	case resp.StatusCode == http.StatusUnprocessableEntity:
		return 0, &models.SchemaMismatchError{
			Model:    p.name,
			Expected: p.FeatureNames(),
			Got:      v.Columns(),
			Detail:   out.Error,
		}
	case resp.StatusCode != http.StatusOK:
		return 0, &models.InferenceError{Model: p.name, Err: fmt.Errorf("unexpected status code: %d", resp.StatusCode)}
	case decodeErr != nil:
		return 0, &models.InferenceError{Model: p.name, Err: fmt.Errorf("failed to decode response: %w", decodeErr)}
	case len(out.Predictions) != 1:
		return 0, &models.InferenceError{Model: p.name, Err: fmt.Errorf("expected 1 prediction, got %d", len(out.Predictions))}
	}
	return out.Predictions[0], nil
}
