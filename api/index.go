package handler

import (
	"context"
	"net/http"
	"sync"

	config "rent-advisor-api/configs"
	"rent-advisor-api/internal/app"
	"rent-advisor-api/pkg/handlers"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

var (
	engine  *gin.Engine
	initErr error
	once    sync.Once
)

// setupApp builds the engine once per function instance. Environment comes from
// the platform settings, so .env is not read here.
func setupApp() (*gin.Engine, error) {
	once.Do(func() {
		cfg := config.LoadConfig()
		app.ConfigureLogging(cfg)
		gin.SetMode(gin.ReleaseMode)

		a, err := app.New(context.Background(), cfg)
		if err != nil {
			initErr = err
			log.WithError(err).Error("🔴 [setupApp] failed to initialise services")
			return
		}

		engine = handlers.NewRouter(handlers.RouterDeps{
			APIKey:     cfg.APIKey,
			Advisor:    a.Advisor,
			Profiles:   a.Profiles,
			Monitoring: a.Monitoring,
			Metrics:    a.Metrics,
		})
		log.Info("🟢 [setupApp] rent advisor ready")
	})
	return engine, initErr
}

// Handler is the serverless entry point for every request
func Handler(w http.ResponseWriter, r *http.Request) {
	e, err := setupApp()
	if err != nil {
		http.Error(w, `{"error":"service unavailable"}`, http.StatusServiceUnavailable)
		return
	}
	e.ServeHTTP(w, r)
}
