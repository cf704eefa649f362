package services_test

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"rent-advisor-api/internal/testutil"
	"rent-advisor-api/pkg/models"
	"rent-advisor-api/pkg/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// linear evaluates a fixture artifact on a vector the same way the model does
func linear(t *testing.T, a services.LinearModelArtifact, v *services.FeatureVector) float64 {
	t.Helper()
	require.Equal(t, a.FeatureNamesIn, v.Columns())
	y := a.Intercept
	for i, x := range v.Values() {
		y += a.Coefficients[i] * x
	}
	return y
}

func TestLogPriceRoundTrip(t *testing.T) {
	for _, price := range []float64{50, 120, 500, 1000} {
		assert.InDelta(t, price, services.InverseLogPrice(services.LogPrice(price)), 1e-6)
	}
}

func TestPredictShortTermPrice(t *testing.T) {
	svc := testutil.PricingService(t)
	p := models.UserProfile{District: 4, Bedrooms: 2, Bathrooms: 1, Superhost: true, ListingsCount: 3, Amenities: []string{"Wifi", "Kitchen"}}

	got, err := svc.PredictShortTermPrice(context.Background(), p)
	require.NoError(t, err)

	logPrice := linear(t, testutil.ShortTermArtifact(), svc.Builder().BuildShortTerm(p))
	assert.Equal(t, int(math.Trunc(math.Expm1(logPrice))), got)
}

func TestPredictCleaningCost(t *testing.T) {
	svc := testutil.PricingService(t)

	got, err := svc.PredictCleaningCost(context.Background(), models.UserProfile{Bedrooms: 3, Bathrooms: 2})
	require.NoError(t, err)
	// 20 + 10*3 + 8*2
	assert.Equal(t, 66, got)
}

func TestPredictListingMatchesSeparateCalls(t *testing.T) {
	svc := testutil.PricingService(t)
	p := models.UserProfile{District: 18, Bedrooms: 2, Bathrooms: 1, RoomType: models.RoomPrivate}
	ctx := context.Background()

	listing, err := svc.PredictListing(ctx, p)
	require.NoError(t, err)
	price, err := svc.PredictShortTermPrice(ctx, p)
	require.NoError(t, err)
	cost, err := svc.PredictCleaningCost(ctx, p)
	require.NoError(t, err)

	assert.Equal(t, models.ListingPrediction{NightlyPrice: price, CleaningCost: cost}, listing)
}

func TestPredictLongTermPrice(t *testing.T) {
	svc := testutil.PricingService(t)
	rooms := 2

	got, err := svc.PredictLongTermPrice(context.Background(), models.UserProfile{District: 10, RentalRooms: &rooms, Furnished: true})
	require.NoError(t, err)
	// 600 + 400*2 + 25*(20-10) + 150
	assert.Equal(t, 1800, got)

	got, err = svc.PredictLongTermPrice(context.Background(), models.UserProfile{District: 10, RentalRooms: &rooms})
	require.NoError(t, err)
	assert.Equal(t, 1650, got)
}

func TestNewPricingServiceRejectsForeignBuilder(t *testing.T) {
	cols := testutil.ShortTermColumns()
	builder, err := services.NewFeatureBuilder(cols[:len(cols)-1], nil)
	require.NoError(t, err)

	_, err = services.NewPricingService(testutil.ModelSet(t), builder)
	var mismatch *models.SchemaMismatchError
	assert.True(t, errors.As(err, &mismatch))
}

func TestNewPricingServiceRequiresAllModels(t *testing.T) {
	ms := testutil.ModelSet(t)
	ms.LongTermRent = nil
	_, err := services.NewPricingServiceFromModels(ms, nil)
	assert.ErrorContains(t, err, "long-term rent model")
}

func TestLinearModelRejectsWrongSchema(t *testing.T) {
	m, err := services.NewLinearModel(testutil.CleaningArtifact())
	require.NoError(t, err)

	v, err := services.NewFeatureVector([]string{"Bathroom", "Bedroom"}, []float64{1, 2})
	require.NoError(t, err)

	_, err = m.Predict(context.Background(), v)
	var mismatch *models.SchemaMismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, "cleaning_cost", mismatch.Model)
}

func TestInferenceErrorsAreTyped(t *testing.T) {
	ms := testutil.ModelSet(t)
	ms.CleaningCost = &testutil.StaticPredictor{ModelName: "cleaning_cost", Err: errors.New("boom")}
	svc, err := services.NewPricingServiceFromModels(ms, nil)
	require.NoError(t, err)

	_, err = svc.PredictCleaningCost(context.Background(), models.DefaultProfile())
	var inference *models.InferenceError
	require.True(t, errors.As(err, &inference))
	assert.Equal(t, "cleaning_cost", inference.Model)
	assert.ErrorContains(t, err, "boom")
}

func TestNonFiniteOutputIsInferenceError(t *testing.T) {
	ms := testutil.ModelSet(t)
	ms.LongTermRent = &testutil.StaticPredictor{ModelName: "long_term_rent", Value: math.NaN()}
	svc, err := services.NewPricingServiceFromModels(ms, nil)
	require.NoError(t, err)

	_, err = svc.PredictLongTermPrice(context.Background(), models.DefaultProfile())
	var inference *models.InferenceError
	assert.True(t, errors.As(err, &inference))
}

func TestLoadLinearModelFormats(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "cleaning.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{
		"feature_names_in": ["Bedroom", "Bathroom"],
		"coefficients": [10, 8],
		"intercept": 20
	}`), 0644))
	m, err := services.LoadLinearModel(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, "cleaning", m.Name())
	assert.Equal(t, []string{"Bedroom", "Bathroom"}, m.FeatureNames())

	yamlPath := filepath.Join(dir, "rent.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("name: rent\nfeature_names_in: [a, b]\ncoefficients: [1, 2]\nintercept: 3\n"), 0644))
	m, err = services.LoadLinearModel(yamlPath)
	require.NoError(t, err)

	v, err := services.NewFeatureVector([]string{"a", "b"}, []float64{1, 1})
	require.NoError(t, err)
	y, err := m.Predict(context.Background(), v)
	require.NoError(t, err)
	assert.Equal(t, 6.0, y)
}

func TestNewLinearModelValidation(t *testing.T) {
	_, err := services.NewLinearModel(services.LinearModelArtifact{Name: "m", FeatureNamesIn: []string{"a"}, Coefficients: []float64{1, 2}})
	assert.ErrorContains(t, err, "coefficients")

	_, err = services.NewLinearModel(services.LinearModelArtifact{Name: "m"})
	assert.ErrorContains(t, err, "no features")
}
