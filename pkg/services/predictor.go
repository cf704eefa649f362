package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"rent-advisor-api/pkg/models"

	"gopkg.in/yaml.v3"
)

// Predictor is a trained regression model seen as a black box
type Predictor interface {
	Name() string
	Predict(ctx context.Context, v *FeatureVector) (float64, error)
}

// SchemaPredictor is a Predictor that declares the columns it was trained on
type SchemaPredictor interface {
	Predictor
	FeatureNames() []string
}

// ModelSet holds the three models loaded at startup. They are shared read-only.
type ModelSet struct {
	ShortTermPrice SchemaPredictor
	CleaningCost   Predictor
	LongTermRent   Predictor
}

// Validate checks that every model is present
func (m ModelSet) Validate() error {
	switch {
	case m.ShortTermPrice == nil:
		return fmt.Errorf("short-term price model is not loaded")
	case m.CleaningCost == nil:
		return fmt.Errorf("cleaning cost model is not loaded")
	case m.LongTermRent == nil:
		return fmt.Errorf("long-term rent model is not loaded")
	}
	return nil
}

// LinearModelArtifact is the exported form of a fitted linear regression
type LinearModelArtifact struct {
	Name           string    `json:"name" yaml:"name"`
	FeatureNamesIn []string  `json:"feature_names_in" yaml:"feature_names_in"`
	Coefficients   []float64 `json:"coefficients" yaml:"coefficients"`
	Intercept      float64   `json:"intercept" yaml:"intercept"`
}

// LinearModel evaluates intercept + sum(coef_i * x_i) over a fixed schema
type LinearModel struct {
	name      string
	features  []string
	coef      []float64
	intercept float64
}

// NewLinearModel validates an artifact and returns the model
func NewLinearModel(a LinearModelArtifact) (*LinearModel, error) {
	if a.Name == "" {
		return nil, fmt.Errorf("model artifact has no name")
	}
	if len(a.FeatureNamesIn) == 0 {
		return nil, fmt.Errorf("model %s declares no features", a.Name)
	}
	if len(a.FeatureNamesIn) != len(a.Coefficients) {
		return nil, fmt.Errorf("model %s has %d features but %d coefficients", a.Name, len(a.FeatureNamesIn), len(a.Coefficients))
	}
	if _, err := NewFeatureSchema(a.Name, a.FeatureNamesIn); err != nil {
		return nil, err
	}
	return &LinearModel{
		name:      a.Name,
		features:  append([]string(nil), a.FeatureNamesIn...),
		coef:      append([]float64(nil), a.Coefficients...),
		intercept: a.Intercept,
	}, nil
}

// LoadLinearModel reads a .json, .yaml or .yml artifact file
func LoadLinearModel(path string) (*LinearModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model artifact: %w", err)
	}
	var a LinearModelArtifact
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &a)
	default:
		err = json.Unmarshal(data, &a)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse model artifact %s: %w", path, err)
	}
	if a.Name == "" {
		a.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return NewLinearModel(a)
}

// Name returns the model name
func (m *LinearModel) Name() string { return m.name }

// FeatureNames returns the declared input columns in order
func (m *LinearModel) FeatureNames() []string {
	return append([]string(nil), m.features...)
}

// Predict scores a single row. A vector over any other schema is a SchemaMismatchError.
func (m *LinearModel) Predict(_ context.Context, v *FeatureVector) (float64, error) {
	if mismatch := models.NewSchemaMismatch(m.name, m.features, v.Columns()); mismatch != nil {
		return 0, mismatch
	}
	y := m.intercept
	for i, x := range v.values {
		y += m.coef[i] * x
	}
	if math.IsNaN(y) || math.IsInf(y, 0) {
		return 0, &models.InferenceError{Model: m.name, Err: fmt.Errorf("non-finite output %v", y)}
	}
	return y, nil
}
