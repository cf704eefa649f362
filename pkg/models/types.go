package models

import "time"

// District holds the reference data for one Paris arrondissement
type District struct {
	Number     int    `json:"number"`
	Column     string `json:"column"`      // one-hot column name used by the models
	RegionCode string `json:"region_code"` // official INSEE code, 75100 + number
	Name       string `json:"name"`
}

// RegionPrice is one row of the all-district price sweep
type RegionPrice struct {
	District   int    `json:"arrondissement_number"`
	RegionCode string `json:"arrondissement_code"`
	Price      int    `json:"avg_price_apt"`
	Name       string `json:"arrondissement_name"`
}

// SweepSummary describes the spread of a district sweep and the listing's place in it
type SweepSummary struct {
	Mean             float64 `json:"mean"`
	Median           float64 `json:"median"`
	StdDev           float64 `json:"std_dev"`
	CheapestDistrict int     `json:"cheapest_district"`
	CheapestPrice    int     `json:"cheapest_price"`
	PriciestDistrict int     `json:"priciest_district"`
	PriciestPrice    int     `json:"priciest_price"`
	DistrictPrice    int     `json:"district_price"`
	DistrictRank     int     `json:"district_rank"` // 1 = most expensive, 0 = district not in the sweep
	DistrictVsMedian float64 `json:"district_vs_median"`
}

// PriceImpactKPIs decomposes a nightly price into baseline, quality and location.
// CurrentPrice == BaselinePrice + QualityImpact + LocationImpact always holds.
type PriceImpactKPIs struct {
	LocationImpact      int `json:"location_impact"`
	QualityImpact       int `json:"quality_impact"`
	MedianLocationPrice int `json:"median_location_price"`
	BaselinePrice       int `json:"baseline_price"`
}

// PriceRange is the ±15% band shown around a predicted value
type PriceRange struct {
	Low  int `json:"low"`
	High int `json:"high"`
}

// ListingPrediction is the raw output of the short-term models
type ListingPrediction struct {
	NightlyPrice int `json:"nightly_price"`
	CleaningCost int `json:"cleaning_cost"`
}

// OccupancySource tells whether the occupancy rate came from data, the caller or the fallback
type OccupancySource string

const (
	OccupancyFromData     OccupancySource = "dataset"
	OccupancyFromOverride OccupancySource = "override"
	OccupancyFallback     OccupancySource = "fallback"
)

// Occupancy is the fraction of nights booked per month, with its origin
type Occupancy struct {
	Rate   float64         `json:"rate"`
	Source OccupancySource `json:"source"`
}

// ShortTermIncome is the monthly revenue breakdown of a short-term let
type ShortTermIncome struct {
	NightlyPrice        int       `json:"nightly_price"`
	CleaningCost        int       `json:"cleaning_cost"`
	Occupancy           Occupancy `json:"occupancy"`
	MonthlyRevenue      float64   `json:"monthly_revenue"`
	MonthlyCleanings    float64   `json:"monthly_cleanings"`
	MonthlyCleaningCost float64   `json:"monthly_cleaning_cost"`
	NetIncome           float64   `json:"net_income"`
}

// LongTermIncome is the monthly income of a long-term rental. No costs are modeled.
type LongTermIncome struct {
	MonthlyRent int     `json:"monthly_rent"`
	NetIncome   float64 `json:"net_income"`
}

// Strategy identifies the more profitable option
type Strategy string

const (
	StrategyShortTerm Strategy = "short_term"
	StrategyLongTerm  Strategy = "long_term"
	StrategyTie       Strategy = "tie"
)

// StrategyComparison is short-term minus long-term net income
type StrategyComparison struct {
	Difference float64  `json:"difference"`
	Winner     Strategy `json:"winner"`
}

// ListingReport gathers everything shown for a short-term listing
type ListingReport struct {
	ReportID         string           `json:"report_id"`
	Profile          UserProfile      `json:"profile"`
	NightlyPrice     int              `json:"nightly_price"`
	CompetitiveRange PriceRange       `json:"competitive_range"`
	Income           ShortTermIncome  `json:"income"`
	NetIncomeRange   PriceRange       `json:"net_income_range"`
	CityMedianOcc    *float64         `json:"city_median_occupancy_percent,omitempty"`
	RegionPrices     []RegionPrice    `json:"region_prices"`
	SweepSummary     SweepSummary     `json:"sweep_summary"`
	Impact           *PriceImpactKPIs `json:"impact"`
	GeneratedAt      time.Time        `json:"generated_at"`
}

// LongTermQuote is the long-term rent prediction with its display range
type LongTermQuote struct {
	MonthlyRent int        `json:"monthly_rent"`
	Range       PriceRange `json:"range"`
}

// ComparisonReport puts both strategies side by side
type ComparisonReport struct {
	ReportID    string             `json:"report_id"`
	ShortTerm   ShortTermIncome    `json:"short_term"`
	LongTerm    LongTermIncome     `json:"long_term"`
	Comparison  StrategyComparison `json:"comparison"`
	GeneratedAt time.Time          `json:"generated_at"`
}
