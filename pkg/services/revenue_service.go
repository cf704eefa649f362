package services

import (
	"math"

	"rent-advisor-api/pkg/models"
)

const (
	// DaysPerMonth is the month length used for revenue estimates
	DaysPerMonth = 30
	// AverageStayNights is the mean booking length; one cleaning per stay
	AverageStayNights = 4.8
	// DefaultOccupancyRate is used when no occupancy is known for a district
	DefaultOccupancyRate = 0.5
	// RangeSpread is the ± share shown around predicted values
	RangeSpread = 0.15
)

// MonthlyRevenue is the gross short-term revenue for a month
func MonthlyRevenue(nightlyPrice int, occupancy float64) float64 {
	return float64(nightlyPrice) * DaysPerMonth * occupancy
}

// MonthlyCleanings is the expected number of turnovers per month
func MonthlyCleanings(occupancy float64) float64 {
	return (DaysPerMonth * occupancy) / AverageStayNights
}

// MonthlyCleaningCost is the cleaning spend for a month
func MonthlyCleaningCost(occupancy float64, costPerCleaning int) float64 {
	return MonthlyCleanings(occupancy) * float64(costPerCleaning)
}

// NetIncomeShortTerm is revenue minus cleaning costs
func NetIncomeShortTerm(nightlyPrice, costPerCleaning int, occupancy float64) float64 {
	return MonthlyRevenue(nightlyPrice, occupancy) - MonthlyCleaningCost(occupancy, costPerCleaning)
}

// NetIncomeLongTerm is the monthly rent; no operating costs are modeled
func NetIncomeLongTerm(monthlyRent int) float64 {
	return float64(monthlyRent)
}

// ShortTermBreakdown assembles the full monthly short-term figures
func ShortTermBreakdown(listing models.ListingPrediction, occ models.Occupancy) models.ShortTermIncome {
	return models.ShortTermIncome{
		NightlyPrice:        listing.NightlyPrice,
		CleaningCost:        listing.CleaningCost,
		Occupancy:           occ,
		MonthlyRevenue:      MonthlyRevenue(listing.NightlyPrice, occ.Rate),
		MonthlyCleanings:    MonthlyCleanings(occ.Rate),
		MonthlyCleaningCost: MonthlyCleaningCost(occ.Rate, listing.CleaningCost),
		NetIncome:           NetIncomeShortTerm(listing.NightlyPrice, listing.CleaningCost, occ.Rate),
	}
}

// CompareStrategies decides which strategy earns more per month
func CompareStrategies(shortTermNet, longTermNet float64) models.StrategyComparison {
	diff := shortTermNet - longTermNet
	winner := models.StrategyTie
	switch {
	case diff > 0:
		winner = models.StrategyShortTerm
	case diff < 0:
		winner = models.StrategyLongTerm
	}
	return models.StrategyComparison{Difference: diff, Winner: winner}
}

// CompetitiveRange returns the truncated ±15% band around a value
func CompetitiveRange(value float64) models.PriceRange {
	return models.PriceRange{
		Low:  int(math.Trunc(value * (1 - RangeSpread))),
		High: int(math.Trunc(value * (1 + RangeSpread))),
	}
}
