package services

import (
	"context"
	"time"

	"rent-advisor-api/pkg/models"

	"github.com/google/uuid"
)

// AdvisorService assembles the reports shown to a host from the pricing,
// market analysis and occupancy components
type AdvisorService struct {
	pricing   *PricingService
	market    *MarketAnalysisService
	occupancy OccupancyLookup
	now       func() time.Time
}

// NewAdvisorService creates the service. occupancy may be nil, in which case
// every district uses the fallback rate.
func NewAdvisorService(pricing *PricingService, market *MarketAnalysisService, occupancy OccupancyLookup) *AdvisorService {
	return &AdvisorService{
		pricing:   pricing,
		market:    market,
		occupancy: occupancy,
		now:       time.Now,
	}
}

// Pricing returns the prediction service
func (s *AdvisorService) Pricing() *PricingService { return s.pricing }

// Market returns the market analysis service
func (s *AdvisorService) Market() *MarketAnalysisService { return s.market }

// Occupancy resolves the occupancy used for a profile
func (s *AdvisorService) Occupancy(p models.UserProfile, overridePercent *float64) (models.Occupancy, error) {
	return ResolveOccupancy(s.occupancy, p.DistrictOrDefault(), overridePercent)
}

// CityMedianOccupancy returns the median occupancy percent if the dataset is loaded
func (s *AdvisorService) CityMedianOccupancy() *float64 {
	type median interface{ CityMedian() (float64, bool) }
	m, ok := s.occupancy.(median)
	if !ok {
		return nil
	}
	v, ok := m.CityMedian()
	if !ok {
		return nil
	}
	return &v
}

// ShortTermIncome predicts the listing and computes its monthly figures
func (s *AdvisorService) ShortTermIncome(ctx context.Context, p models.UserProfile, overridePercent *float64) (models.ShortTermIncome, error) {
	occ, err := s.Occupancy(p, overridePercent)
	if err != nil {
		return models.ShortTermIncome{}, err
	}
	listing, err := s.pricing.PredictListing(ctx, p)
	if err != nil {
		return models.ShortTermIncome{}, err
	}
	return ShortTermBreakdown(listing, occ), nil
}

// BuildListingReport runs every short-term view of a profile
func (s *AdvisorService) BuildListingReport(ctx context.Context, p models.UserProfile, overridePercent *float64) (models.ListingReport, error) {
	income, err := s.ShortTermIncome(ctx, p, overridePercent)
	if err != nil {
		return models.ListingReport{}, err
	}
	sweep, err := s.market.PriceSweepByRegion(ctx, p)
	if err != nil {
		return models.ListingReport{}, err
	}
	impact, err := s.market.PriceImpactKPIs(ctx, p, income.NightlyPrice)
	if err != nil {
		return models.ListingReport{}, err
	}

	return models.ListingReport{
		ReportID:         uuid.NewString(),
		Profile:          p.Clone(),
		NightlyPrice:     income.NightlyPrice,
		CompetitiveRange: CompetitiveRange(float64(income.NightlyPrice)),
		Income:           income,
		NetIncomeRange:   CompetitiveRange(income.NetIncome),
		CityMedianOcc:    s.CityMedianOccupancy(),
		RegionPrices:     sweep,
		SweepSummary:     SummarizeSweep(sweep, p.DistrictOrDefault()),
		Impact:           &impact,
		GeneratedAt:      s.now(),
	}, nil
}

// QuoteLongTerm predicts the monthly rent with its display range
func (s *AdvisorService) QuoteLongTerm(ctx context.Context, p models.UserProfile) (models.LongTermQuote, error) {
	rent, err := s.pricing.PredictLongTermPrice(ctx, withRentalRooms(p))
	if err != nil {
		return models.LongTermQuote{}, err
	}
	return models.LongTermQuote{MonthlyRent: rent, Range: CompetitiveRange(float64(rent))}, nil
}

// Compare puts the short-term and long-term monthly net incomes side by side
func (s *AdvisorService) Compare(ctx context.Context, p models.UserProfile, overridePercent *float64) (models.ComparisonReport, error) {
	st, err := s.ShortTermIncome(ctx, p, overridePercent)
	if err != nil {
		return models.ComparisonReport{}, err
	}
	rent, err := s.pricing.PredictLongTermPrice(ctx, withRentalRooms(p))
	if err != nil {
		return models.ComparisonReport{}, err
	}
	lt := models.LongTermIncome{MonthlyRent: rent, NetIncome: NetIncomeLongTerm(rent)}

	return models.ComparisonReport{
		ReportID:    uuid.NewString(),
		ShortTerm:   st,
		LongTerm:    lt,
		Comparison:  CompareStrategies(st.NetIncome, lt.NetIncome),
		GeneratedAt: s.now(),
	}, nil
}

// withRentalRooms fills an absent rented-room count with bedrooms plus
// bathrooms, at least one.
func withRentalRooms(p models.UserProfile) models.UserProfile {
	if p.RentalRooms != nil {
		return p
	}
	out := p.Clone()
	rooms := max(1, p.Bedrooms+p.Bathrooms)
	out.RentalRooms = &rooms
	return out
}
