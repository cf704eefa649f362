package handlers

import (
	"fmt"
	"net/http"
	"time"

	"rent-advisor-api/pkg/services"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// PricingHandler exposes predictions, the district sweep and the comparison
type PricingHandler struct {
	advisor *services.AdvisorService
}

// NewPricingHandler creates a PricingHandler
func NewPricingHandler(advisor *services.AdvisorService) *PricingHandler {
	return &PricingHandler{advisor: advisor}
}

// GetAmenities lists the amenity labels the short-term model knows
func (h *PricingHandler) GetAmenities(c *gin.Context) {
	labels := h.advisor.Pricing().Catalog().Labels()
	c.JSON(http.StatusOK, gin.H{"success": true, "data": labels, "count": len(labels)})
}

// GetDistricts lists the 20 arrondissements
func (h *PricingHandler) GetDistricts(c *gin.Context) {
	ok(c, services.Districts())
}

// PredictShortTerm returns nightly price, its competitive range and cleaning cost
func (h *PricingHandler) PredictShortTerm(c *gin.Context) {
	_, p, valid := bindPricingRequest(c)
	if !valid {
		return
	}
	listing, err := h.advisor.Pricing().PredictListing(c.Request.Context(), p)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{
		"nightly_price":     listing.NightlyPrice,
		"cleaning_cost":     listing.CleaningCost,
		"competitive_range": services.CompetitiveRange(float64(listing.NightlyPrice)),
	})
}

// PredictLongTerm returns the monthly rent and its range
func (h *PricingHandler) PredictLongTerm(c *gin.Context) {
	_, p, valid := bindPricingRequest(c)
	if !valid {
		return
	}
	quote, err := h.advisor.QuoteLongTerm(c.Request.Context(), p)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, quote)
}

// Sweep returns the nightly price of the listing in every arrondissement
func (h *PricingHandler) Sweep(c *gin.Context) {
	_, p, valid := bindPricingRequest(c)
	if !valid {
		return
	}
	prices, err := h.advisor.Market().PriceSweepByRegion(c.Request.Context(), p)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": prices, "count": len(prices)})
}

// ExportSweep returns the sweep as an xlsx download
func (h *PricingHandler) ExportSweep(c *gin.Context) {
	_, p, valid := bindPricingRequest(c)
	if !valid {
		return
	}
	prices, err := h.advisor.Market().PriceSweepByRegion(c.Request.Context(), p)
	if err != nil {
		respondError(c, err)
		return
	}
	data, err := services.SweepXLSX(prices)
	if err != nil {
		respondError(c, err)
		return
	}
	name := fmt.Sprintf("arrondissement_prices_%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, xlsxContentType, data)
}

// Impact decomposes the nightly price into baseline, quality and location.
// current_price defaults to the predicted price of the profile.
func (h *PricingHandler) Impact(c *gin.Context) {
	req, p, valid := bindPricingRequest(c)
	if !valid {
		return
	}
	var current int
	if req.CurrentPrice != nil {
		current = *req.CurrentPrice
	} else {
		price, err := h.advisor.Pricing().PredictShortTermPrice(c.Request.Context(), p)
		if err != nil {
			respondError(c, err)
			return
		}
		current = price
	}
	kpis, err := h.advisor.Market().PriceImpactKPIs(c.Request.Context(), p, current)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"current_price": current, "impact": kpis})
}

// Report returns the full short-term listing report
func (h *PricingHandler) Report(c *gin.Context) {
	req, p, valid := bindPricingRequest(c)
	if !valid {
		return
	}
	report, err := h.advisor.BuildListingReport(c.Request.Context(), p, req.OccupancyPercent)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, report)
}

// Compare puts short-term and long-term monthly net income side by side
func (h *PricingHandler) Compare(c *gin.Context) {
	req, p, valid := bindPricingRequest(c)
	if !valid {
		return
	}
	report, err := h.advisor.Compare(c.Request.Context(), p, req.OccupancyPercent)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, report)
}
