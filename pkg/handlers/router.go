package handlers

import (
	"rent-advisor-api/pkg/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterDeps is everything the HTTP layer needs
type RouterDeps struct {
	APIKey     string
	Advisor    *services.AdvisorService
	Profiles   services.ProfileStore
	Monitoring *services.MonitoringService
	Metrics    *services.Metrics
}

// NewRouter builds the gin engine with all routes and middleware
func NewRouter(d RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	if d.Monitoring != nil {
		r.Use(d.Monitoring.LoggingMiddleware())
	}
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AddAllowHeaders("X-API-KEY", RequestIDHeader)
	corsConfig.AddExposeHeaders(RequestIDHeader, "Content-Disposition")
	r.Use(cors.New(corsConfig))

	mode := &MaintenanceMode{}
	pricingHandler := NewPricingHandler(d.Advisor)
	profileHandler := NewProfileHandler(d.Profiles, d.Advisor)
	adminHandler := NewAdminHandler(mode)

	r.GET("/health", mode.HealthCheck)
	if d.Metrics != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Metrics.Registry, promhttp.HandlerOpts{})))
	}

	v1 := r.Group("/api/v1")
	v1.Use(APIKeyAuth(d.APIKey))
	{
		v1.GET("/amenities", pricingHandler.GetAmenities)
		v1.GET("/districts", pricingHandler.GetDistricts)

		pricing := v1.Group("/pricing")
		{
			pricing.POST("/short-term", pricingHandler.PredictShortTerm)
			pricing.POST("/long-term", pricingHandler.PredictLongTerm)
			pricing.POST("/sweep", pricingHandler.Sweep)
			pricing.POST("/sweep/export", pricingHandler.ExportSweep)
			pricing.POST("/impact", pricingHandler.Impact)
			pricing.POST("/report", pricingHandler.Report)
		}
		v1.POST("/comparison", pricingHandler.Compare)

		profiles := v1.Group("/profiles/:username")
		{
			profiles.GET("", profileHandler.GetProfile)
			profiles.PUT("", profileHandler.PutProfile)
			profiles.GET("/report", profileHandler.GetReport)
			profiles.GET("/comparison", profileHandler.GetComparison)
		}

		admin := v1.Group("/admin")
		{
			admin.GET("/health-status", adminHandler.GetHealthStatus)
			admin.POST("/maintenance/start", adminHandler.StartMaintenance)
			admin.POST("/maintenance/stop", adminHandler.StopMaintenance)
		}

		if d.Monitoring != nil {
			monitoringHandler := NewMonitoringHandler(d.Monitoring)
			v1.GET("/monitoring/logs", monitoringHandler.GetLogs)
		}
	}

	return r
}
