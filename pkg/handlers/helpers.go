package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"rent-advisor-api/pkg/models"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// pricingRequest is the body accepted by every pricing endpoint.
// An absent profile means the default profile.
type pricingRequest struct {
	Profile          json.RawMessage `json:"profile"`
	OccupancyPercent *float64        `json:"occupancy_percent"`
	CurrentPrice     *int            `json:"current_price"`
}

func (r pricingRequest) profile() (models.UserProfile, error) {
	if len(r.Profile) == 0 || string(r.Profile) == "null" {
		return models.DefaultProfile(), nil
	}
	var p models.UserProfile
	if err := json.Unmarshal(r.Profile, &p); err != nil {
		return models.UserProfile{}, err
	}
	return p, nil
}

// bindPricingRequest decodes the body and the profile inside it. It writes the
// error response itself and reports false on failure.
func bindPricingRequest(c *gin.Context) (pricingRequest, models.UserProfile, bool) {
	var req pricingRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
			return req, models.UserProfile{}, false
		}
	}
	p, err := req.profile()
	if err != nil {
		respondError(c, err)
		return req, models.UserProfile{}, false
	}
	return req, p, true
}

// respondError maps domain errors onto HTTP status codes
func respondError(c *gin.Context, err error) {
	var validation *models.ValidationError
	var mismatch *models.SchemaMismatchError
	var inference *models.InferenceError
	var syntax *json.SyntaxError

	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "field": validation.Field})
	case errors.Is(err, models.ErrProfileNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &syntax):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON: " + err.Error()})
	case errors.As(err, &mismatch):
		log.WithError(err).WithField("model", mismatch.Model).Error("❌ model schema mismatch")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "model schema mismatch", "model": mismatch.Model})
	case errors.As(err, &inference):
		log.WithError(err).WithField("model", inference.Model).Error("❌ model inference failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "model inference failed", "model": inference.Model})
	default:
		log.WithError(err).Error("❌ request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func ok(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}
