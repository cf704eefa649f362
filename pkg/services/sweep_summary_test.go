package services_test

import (
	"testing"

	"rent-advisor-api/pkg/models"
	"rent-advisor-api/pkg/services"

	"github.com/stretchr/testify/assert"
)

func TestSummarizeSweep(t *testing.T) {
	prices := []models.RegionPrice{
		{District: 1, Price: 200},
		{District: 2, Price: 120},
		{District: 3, Price: 150},
		{District: 4, Price: 150},
	}

	s := services.SummarizeSweep(prices, 3)
	assert.Equal(t, 155.0, s.Mean)
	assert.Equal(t, 150.0, s.Median)
	assert.InDelta(t, 28.72281, s.StdDev, 1e-5)
	assert.Equal(t, 2, s.CheapestDistrict)
	assert.Equal(t, 120, s.CheapestPrice)
	assert.Equal(t, 1, s.PriciestDistrict)
	assert.Equal(t, 200, s.PriciestPrice)
	assert.Equal(t, 2, s.DistrictRank)
	assert.Equal(t, 150, s.DistrictPrice)
	assert.Equal(t, 0.0, s.DistrictVsMedian)

	// shared rank on ties
	assert.Equal(t, 2, services.SummarizeSweep(prices, 4).DistrictRank)
	assert.Equal(t, 4, services.SummarizeSweep(prices, 2).DistrictRank)

	outside := services.SummarizeSweep(prices, 25)
	assert.Equal(t, 0, outside.DistrictRank)
	assert.Equal(t, 0, outside.DistrictPrice)

	assert.Equal(t, models.SweepSummary{}, services.SummarizeSweep(nil, 1))
}
