package services

import (
	"math"
	"sort"

	"rent-advisor-api/pkg/models"
)

// SummarizeSweep computes the spread of a district sweep and where district
// sits in it. Rank 1 is the most expensive district; ties share a rank.
// A district outside the sweep gets rank 0.
func SummarizeSweep(prices []models.RegionPrice, district int) models.SweepSummary {
	if len(prices) == 0 {
		return models.SweepSummary{}
	}

	values := make([]float64, len(prices))
	cheapest, priciest := prices[0], prices[0]
	own, found := 0, false
	for i, rp := range prices {
		values[i] = float64(rp.Price)
		if rp.Price < cheapest.Price {
			cheapest = rp
		}
		if rp.Price > priciest.Price {
			priciest = rp
		}
		if rp.District == district {
			own, found = rp.Price, true
		}
	}

	summary := models.SweepSummary{
		Mean:             calculateMean(values),
		Median:           calculateMedian(values),
		StdDev:           calculateStandardDeviation(values),
		CheapestDistrict: cheapest.District,
		CheapestPrice:    cheapest.Price,
		PriciestDistrict: priciest.District,
		PriciestPrice:    priciest.Price,
	}
	if found {
		rank := 1
		for _, rp := range prices {
			if rp.Price > own {
				rank++
			}
		}
		summary.DistrictRank = rank
		summary.DistrictPrice = own
		summary.DistrictVsMedian = float64(own) - summary.Median
	}
	return summary
}

func calculateMean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// population standard deviation
func calculateStandardDeviation(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := calculateMean(values)
	sumSquaredDiff := 0.0
	for _, v := range values {
		diff := v - mean
		sumSquaredDiff += diff * diff
	}
	return math.Sqrt(sumSquaredDiff / float64(len(values)))
}

func calculateMedian(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}
