package services

import (
	"context"
	"errors"
	"fmt"
	"math"

	"rent-advisor-api/pkg/models"

	log "github.com/sirupsen/logrus"
)

var pricingLog = log.WithField("component", "pricing")

// PricingService runs the three regression models on profiles
type PricingService struct {
	models  ModelSet
	builder *FeatureBuilder
}

// NewPricingService wires models and builder. The builder must be derived from
// the short-term model's own feature names.
func NewPricingService(ms ModelSet, builder *FeatureBuilder) (*PricingService, error) {
	if err := ms.Validate(); err != nil {
		return nil, err
	}
	if mismatch := models.NewSchemaMismatch(ms.ShortTermPrice.Name(), ms.ShortTermPrice.FeatureNames(), builder.ShortTermSchema().Columns()); mismatch != nil {
		return nil, fmt.Errorf("feature builder does not match short-term model: %w", mismatch)
	}
	return &PricingService{models: ms, builder: builder}, nil
}

// NewPricingServiceFromModels derives the builder from the short-term model schema
func NewPricingServiceFromModels(ms ModelSet, snapshots FeatureSnapshotter) (*PricingService, error) {
	if err := ms.Validate(); err != nil {
		return nil, err
	}
	builder, err := NewFeatureBuilder(ms.ShortTermPrice.FeatureNames(), snapshots)
	if err != nil {
		return nil, err
	}
	return NewPricingService(ms, builder)
}

// Builder returns the feature builder
func (s *PricingService) Builder() *FeatureBuilder { return s.builder }

// Catalog returns the amenity catalog
func (s *PricingService) Catalog() *AmenityCatalog { return s.builder.Catalog() }

// LogPrice is the transform the short-term model was trained on
func LogPrice(price float64) float64 { return math.Log1p(price) }

// InverseLogPrice recovers a price from the model's log1p scale
func InverseLogPrice(x float64) float64 { return math.Expm1(x) }

// toCurrency truncates to whole euros
func toCurrency(x float64) int { return int(math.Trunc(x)) }

// PredictShortTermPrice returns the nightly price in whole euros
func (s *PricingService) PredictShortTermPrice(ctx context.Context, p models.UserProfile) (int, error) {
	price, err := s.nightlyPrice(ctx, s.builder.BuildShortTerm(p))
	if err != nil {
		return 0, err
	}
	return toCurrency(price), nil
}

// PredictCleaningCost returns the cost of one cleaning in whole euros
func (s *PricingService) PredictCleaningCost(ctx context.Context, p models.UserProfile) (int, error) {
	cost, err := s.cleaningCost(ctx, s.builder.BuildShortTerm(p))
	if err != nil {
		return 0, err
	}
	return toCurrency(cost), nil
}

// PredictListing returns nightly price and cleaning cost from a single built vector
func (s *PricingService) PredictListing(ctx context.Context, p models.UserProfile) (models.ListingPrediction, error) {
	v := s.builder.BuildShortTerm(p)
	price, err := s.nightlyPrice(ctx, v)
	if err != nil {
		return models.ListingPrediction{}, err
	}
	cost, err := s.cleaningCost(ctx, v)
	if err != nil {
		return models.ListingPrediction{}, err
	}
	return models.ListingPrediction{NightlyPrice: toCurrency(price), CleaningCost: toCurrency(cost)}, nil
}

// PredictLongTermPrice returns the monthly rent in whole euros. The rent model
// predicts euros directly.
func (s *PricingService) PredictLongTermPrice(ctx context.Context, p models.UserProfile) (int, error) {
	rent, err := s.infer(ctx, s.models.LongTermRent, s.builder.BuildLongTerm(p))
	if err != nil {
		return 0, err
	}
	return toCurrency(rent), nil
}

// nightlyPrice runs the short-term model and undoes its log1p target
func (s *PricingService) nightlyPrice(ctx context.Context, v *FeatureVector) (float64, error) {
	y, err := s.infer(ctx, s.models.ShortTermPrice, v)
	if err != nil {
		return 0, err
	}
	return InverseLogPrice(y), nil
}

func (s *PricingService) cleaningCost(ctx context.Context, v *FeatureVector) (float64, error) {
	in, err := cleaningInput(v)
	if err != nil {
		return 0, err
	}
	return s.infer(ctx, s.models.CleaningCost, in)
}

// infer runs a model and normalises its failure into the typed errors
func (s *PricingService) infer(ctx context.Context, m Predictor, v *FeatureVector) (float64, error) {
	y, err := m.Predict(ctx, v)
	if err != nil {
		var mismatch *models.SchemaMismatchError
		var inference *models.InferenceError
		if !errors.As(err, &mismatch) && !errors.As(err, &inference) {
			err = &models.InferenceError{Model: m.Name(), Err: err}
		}
		pricingLog.WithError(err).WithField("model", m.Name()).Error("model inference failed")
		return 0, err
	}
	if math.IsNaN(y) || math.IsInf(y, 0) {
		return 0, &models.InferenceError{Model: m.Name(), Err: fmt.Errorf("non-finite output %v", y)}
	}
	return y, nil
}
