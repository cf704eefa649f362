package handlers

import (
	"net/http"
	"sync/atomic"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// MaintenanceMode is shared by the admin endpoints and the health check.
// The zero value is "serving".
type MaintenanceMode struct {
	on atomic.Bool
}

// AdminHandler toggles maintenance mode. Its routes sit behind the API key.
type AdminHandler struct {
	mode *MaintenanceMode
}

// NewAdminHandler creates an AdminHandler
func NewAdminHandler(mode *MaintenanceMode) *AdminHandler {
	return &AdminHandler{mode: mode}
}

// StartMaintenance makes /health report unavailable
func (h *AdminHandler) StartMaintenance(c *gin.Context) {
	h.mode.on.Store(true)
	log.Warn("maintenance mode started")
	c.JSON(http.StatusOK, gin.H{"message": "Maintenance mode started"})
}

// StopMaintenance restores normal health reporting
func (h *AdminHandler) StopMaintenance(c *gin.Context) {
	h.mode.on.Store(false)
	log.Info("maintenance mode stopped")
	c.JSON(http.StatusOK, gin.H{"message": "Maintenance mode stopped"})
}

// GetHealthStatus returns the maintenance flag
func (h *AdminHandler) GetHealthStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"isMaintenanceMode": h.mode.on.Load()})
}

// HealthCheck answers load balancer probes
func (m *MaintenanceMode) HealthCheck(c *gin.Context) {
	if m.on.Load() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "message": "Server is in maintenance mode"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
