// Package testutil provides deterministic models and fixtures shared by tests.
package testutil

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"rent-advisor-api/pkg/services"
)

// Amenity columns of the fixture short-term model
var AmenityColumns = []string{
	"amenity__wifi",
	"amenity__kitchen",
	"amenity__air_conditioning",
	"amenity__hair_dryer_",
	"amenity__self_check-in",
	"amenity__city_skyline_view_",
	"amenity__coffee_makeru2013nespresso",
}

// RoomColumns are the room type one-hot columns in fixture order
var RoomColumns = []string{
	"room_Entire home/apt",
	"room_Hotel room",
	"room_Private room",
	"room_Shared room",
}

// ShortTermColumns mirrors the layout of the trained short-term model:
// host attributes, districts in training order, room types, amenities.
func ShortTermColumns() []string {
	cols := []string{
		services.ColSuperhost,
		services.ColListingsCount,
		services.ColIdentityVerified,
		services.ColBathrooms,
		services.ColBedrooms,
	}
	// same lexical order as the long-term model
	for _, c := range services.LongTermColumns {
		if strings.HasPrefix(c, "Arrondissement_") {
			cols = append(cols, c)
		}
	}
	cols = append(cols, RoomColumns...)
	cols = append(cols, AmenityColumns...)
	return cols
}

// DistrictLogPremium is the log-price premium of district n. District 10 is the reference.
func DistrictLogPremium(n int) float64 {
	return 0.02 * float64(10-n)
}

// ShortTermArtifact is a linear model on the log1p price scale
func ShortTermArtifact() services.LinearModelArtifact {
	cols := ShortTermColumns()
	coef := make([]float64, len(cols))
	for i, c := range cols {
		switch c {
		case services.ColSuperhost:
			coef[i] = 0.10
		case services.ColListingsCount:
			coef[i] = 0.001
		case services.ColIdentityVerified:
			coef[i] = 0.02
		case services.ColBathrooms:
			coef[i] = 0.05
		case services.ColBedrooms:
			coef[i] = 0.15
		case "room_Entire home/apt":
			coef[i] = 0.30
		case "room_Hotel room":
			coef[i] = 0.20
		case "room_Shared room":
			coef[i] = -0.30
		}
		for n := 1; n <= services.DistrictCount; n++ {
			if c == services.DistrictColumn(n) {
				coef[i] = DistrictLogPremium(n)
			}
		}
		for _, a := range AmenityColumns {
			if c == a {
				coef[i] = 0.03
			}
		}
	}
	return services.LinearModelArtifact{
		Name:           "airbnb_price",
		FeatureNamesIn: cols,
		Coefficients:   coef,
		Intercept:      4.0,
	}
}

// CleaningArtifact predicts cleaning cost in euros from bedrooms and bathrooms
func CleaningArtifact() services.LinearModelArtifact {
	return services.LinearModelArtifact{
		Name:           "cleaning_cost",
		FeatureNamesIn: services.CleaningColumns,
		Coefficients:   []float64{10, 8},
		Intercept:      20,
	}
}

// LongTermArtifact predicts monthly rent in euros
func LongTermArtifact() services.LinearModelArtifact {
	cols := services.LongTermColumns
	coef := make([]float64, len(cols))
	for i, c := range cols {
		switch c {
		case services.ColRentalRooms:
			coef[i] = 400
		case services.ColFurnished:
			coef[i] = 150
		}
		for n := 1; n <= services.DistrictCount; n++ {
			if c == services.DistrictColumn(n) {
				coef[i] = 25 * float64(20-n)
			}
		}
	}
	return services.LinearModelArtifact{
		Name:           "long_term_rent",
		FeatureNamesIn: cols,
		Coefficients:   coef,
		Intercept:      600,
	}
}

// ModelSet returns the three fixture models
func ModelSet(t testing.TB) services.ModelSet {
	t.Helper()
	return services.ModelSet{
		ShortTermPrice: mustLinear(t, ShortTermArtifact()),
		CleaningCost:   mustLinear(t, CleaningArtifact()),
		LongTermRent:   mustLinear(t, LongTermArtifact()),
	}
}

// PricingService wires the fixture models without snapshots
func PricingService(t testing.TB) *services.PricingService {
	t.Helper()
	svc, err := services.NewPricingServiceFromModels(ModelSet(t), nil)
	if err != nil {
		t.Fatalf("failed to build pricing service: %v", err)
	}
	return svc
}

// OccupancyTable returns percent values 50 + n for each district n
func OccupancyTable() *services.OccupancyTable {
	m := make(map[int]float64, services.DistrictCount)
	for n := 1; n <= services.DistrictCount; n++ {
		m[n] = 50 + float64(n)
	}
	return services.NewOccupancyTable(m)
}

// WriteModelFiles writes the three artifacts and a manifest into dir and
// returns the manifest path
func WriteModelFiles(t testing.TB, dir string) string {
	t.Helper()
	artifacts := map[string]services.LinearModelArtifact{
		"airbnb_price.json":   ShortTermArtifact(),
		"cleaning_cost.json":  CleaningArtifact(),
		"long_term_rent.json": LongTermArtifact(),
	}
	for name, a := range artifacts {
		data, err := json.Marshal(a)
		if err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(dir, name), data, 0644); err != nil {
			t.Fatal(err)
		}
	}
	manifest := `version: "1"
models:
  short_term_price:
    name: airbnb_price
    path: airbnb_price.json
  cleaning_cost:
    name: cleaning_cost
    path: cleaning_cost.json
  long_term_rent:
    name: long_term_rent
    path: long_term_rent.json
`
	path := filepath.Join(dir, "models.yaml")
	if err := os.WriteFile(path, []byte(manifest), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func mustLinear(t testing.TB, a services.LinearModelArtifact) *services.LinearModel {
	t.Helper()
	m, err := services.NewLinearModel(a)
	if err != nil {
		t.Fatalf("fixture model %s: %v", a.Name, err)
	}
	return m
}

// StaticPredictor returns a fixed value or error, for failure-path tests
type StaticPredictor struct {
	ModelName string
	Features  []string
	Value     float64
	Err       error
}

func (p *StaticPredictor) Name() string { return p.ModelName }

func (p *StaticPredictor) FeatureNames() []string { return p.Features }

func (p *StaticPredictor) Predict(_ context.Context, _ *services.FeatureVector) (float64, error) {
	return p.Value, p.Err
}
