package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"rent-advisor-api/pkg/models"
	"rent-advisor-api/pkg/services"

	"github.com/gin-gonic/gin"
)

// ProfileHandler serves stored profiles and the reports computed from them
type ProfileHandler struct {
	store   services.ProfileStore
	advisor *services.AdvisorService
}

// NewProfileHandler creates a ProfileHandler
func NewProfileHandler(store services.ProfileStore, advisor *services.AdvisorService) *ProfileHandler {
	return &ProfileHandler{store: store, advisor: advisor}
}

// GetProfile returns a stored profile
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	p, err := h.store.GetProfile(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, p)
}

// PutProfile replaces the profile fields of a user; other stored keys are kept.
// Amenity labels are stored in their catalog spelling and unknown ones are dropped.
func (h *ProfileHandler) PutProfile(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil || len(body) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "profile body is required"})
		return
	}
	var p models.UserProfile
	if err := json.Unmarshal(body, &p); err != nil {
		respondError(c, err)
		return
	}
	p.Amenities = h.advisor.Pricing().Catalog().Normalize(p.Amenities)
	if err := h.store.SaveProfile(c.Request.Context(), c.Param("username"), p); err != nil {
		respondError(c, err)
		return
	}
	ok(c, p)
}

// GetReport builds the listing report for a stored profile
func (h *ProfileHandler) GetReport(c *gin.Context) {
	p, occ, valid := h.profileAndOccupancy(c)
	if !valid {
		return
	}
	report, err := h.advisor.BuildListingReport(c.Request.Context(), p, occ)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, report)
}

// GetComparison compares both strategies for a stored profile
func (h *ProfileHandler) GetComparison(c *gin.Context) {
	p, occ, valid := h.profileAndOccupancy(c)
	if !valid {
		return
	}
	report, err := h.advisor.Compare(c.Request.Context(), p, occ)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, report)
}

func (h *ProfileHandler) profileAndOccupancy(c *gin.Context) (models.UserProfile, *float64, bool) {
	var occ *float64
	if raw := c.Query("occupancy_percent"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "occupancy_percent must be a number"})
			return models.UserProfile{}, nil, false
		}
		occ = &v
	}
	p, err := h.store.GetProfile(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondError(c, err)
		return models.UserProfile{}, nil, false
	}
	return p, occ, true
}
