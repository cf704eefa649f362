package services

import (
	"context"
	"fmt"

	"rent-advisor-api/pkg/models"

	"golang.org/x/sync/errgroup"
)

// MarketAnalysisService computes the counterfactual views of a listing:
// the same flat in every arrondissement and the baseline/quality/location split.
type MarketAnalysisService struct {
	pricing     *PricingService
	parallelism int
}

// NewMarketAnalysisService creates the service. parallelism <= 1 runs the
// district sweep sequentially.
func NewMarketAnalysisService(pricing *PricingService, parallelism int) *MarketAnalysisService {
	if parallelism < 1 {
		parallelism = 1
	}
	return &MarketAnalysisService{pricing: pricing, parallelism: parallelism}
}

// PriceSweepByRegion predicts the nightly price of the listing in each of the
// 20 arrondissements. Records are ordered by district number.
func (s *MarketAnalysisService) PriceSweepByRegion(ctx context.Context, p models.UserProfile) ([]models.RegionPrice, error) {
	base := s.pricing.builder.BuildShortTerm(p)
	out := make([]models.RegionPrice, DistrictCount)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.parallelism)
	for n := 1; n <= DistrictCount; n++ {
		g.Go(func() error {
			price, err := s.pricing.nightlyPrice(gctx, withDistrict(base, n))
			if err != nil {
				return fmt.Errorf("district %d: %w", n, err)
			}
			out[n-1] = models.RegionPrice{
				District:   n,
				RegionCode: RegionCode(n),
				Price:      toCurrency(price),
				Name:       DistrictName(n),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// PriceImpactKPIs splits currentPrice into a baseline listing price, the value
// added by the listing's features and the value added by its location.
//
// Both benchmark prices are truncated once, and the impacts are differences of
// those whole numbers, so currentPrice == baseline + quality + location exactly.
func (s *MarketAnalysisService) PriceImpactKPIs(ctx context.Context, p models.UserProfile, currentPrice int) (models.PriceImpactKPIs, error) {
	base := s.pricing.builder.BuildShortTerm(p)

	medianVec := withDistrict(base, MedianDistrict)
	medianRaw, err := s.pricing.nightlyPrice(ctx, medianVec)
	if err != nil {
		return models.PriceImpactKPIs{}, fmt.Errorf("median location scenario: %w", err)
	}

	baselineRaw, err := s.pricing.nightlyPrice(ctx, s.baselineVector(medianVec))
	if err != nil {
		return models.PriceImpactKPIs{}, fmt.Errorf("baseline scenario: %w", err)
	}

	medianPrice := toCurrency(medianRaw)
	baselinePrice := toCurrency(baselineRaw)
	return models.PriceImpactKPIs{
		LocationImpact:      currentPrice - medianPrice,
		QualityImpact:       medianPrice - baselinePrice,
		MedianLocationPrice: medianPrice,
		BaselinePrice:       baselinePrice,
	}, nil
}

// baselineVector strips a listing down to the minimal benchmark: no superhost,
// one listing, one bedroom, one bathroom and no amenities. Location is kept.
func (s *MarketAnalysisService) baselineVector(v *FeatureVector) *FeatureVector {
	out := v.clone()
	out.set(ColSuperhost, 0)
	out.set(ColListingsCount, 1)
	out.set(ColBedrooms, 1)
	out.set(ColBathrooms, 1)
	for _, col := range s.pricing.builder.Catalog().Columns() {
		out.set(col, 0)
	}
	return out
}
