// Package app wires configuration, model artifacts and services together for
// every entry point (HTTP server, serverless handler, CLI).
package app

import (
	"context"
	"errors"
	"fmt"

	config "rent-advisor-api/configs"
	"rent-advisor-api/pkg/services"

	log "github.com/sirupsen/logrus"
)

// App is the fully wired service graph
type App struct {
	Config     *config.Config
	Metrics    *services.Metrics
	Monitoring *services.MonitoringService
	Occupancy  *services.OccupancyTable
	Pricing    *services.PricingService
	Market     *services.MarketAnalysisService
	Advisor    *services.AdvisorService
	Profiles   services.ProfileStore
}

// ConfigureLogging sets the logrus level and formatter
func ConfigureLogging(cfg *config.Config) {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.WithField("level", cfg.LogLevel).Warn("unknown log level, using info")
		level = log.InfoLevel
	}
	log.SetLevel(level)
	if cfg.IsProduction() {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}

// New loads the models and builds every service. Missing occupancy data is
// tolerated; missing models are not.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	manifest, err := config.LoadModelManifest(cfg.ModelManifest)
	if err != nil {
		return nil, err
	}
	ms, err := LoadModels(ctx, manifest, cfg)
	if err != nil {
		return nil, err
	}

	metrics := services.NewMetrics()
	ms = metrics.InstrumentModelSet(ms)

	var snapshots services.FeatureSnapshotter
	if w := services.NewCSVSnapshotWriter(cfg.FeatureSnapshotDir); w != nil {
		snapshots = w
	}
	pricing, err := services.NewPricingServiceFromModels(ms, snapshots)
	if err != nil {
		return nil, err
	}

	occupancy, err := services.LoadOccupancyTable(cfg.OccupancyDataPath)
	if err != nil {
		log.WithError(err).WithField("path", cfg.OccupancyDataPath).Warn("occupancy data unavailable, using fallback rate")
	}

	profiles, err := NewProfileStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	market := services.NewMarketAnalysisService(pricing, cfg.SweepParallelism)
	a := &App{
		Config:     cfg,
		Metrics:    metrics,
		Monitoring: services.NewMonitoringService(metrics),
		Occupancy:  occupancy,
		Pricing:    pricing,
		Market:     market,
		Profiles:   profiles,
	}
	if occupancy != nil {
		a.Advisor = services.NewAdvisorService(pricing, market, occupancy)
	} else {
		a.Advisor = services.NewAdvisorService(pricing, market, nil)
	}

	log.WithFields(log.Fields{
		"amenities":     pricing.Catalog().Len(),
		"features":      pricing.Builder().ShortTermSchema().Len(),
		"profile_store": cfg.ProfileStore,
	}).Info("✅ rent advisor initialised")
	return a, nil
}

// LoadModels resolves every manifest entry to a predictor
func LoadModels(ctx context.Context, m *config.ModelManifest, cfg *config.Config) (services.ModelSet, error) {
	var ms services.ModelSet
	var err error
	if ms.ShortTermPrice, err = loadModel(ctx, m.Models.ShortTermPrice, cfg); err != nil {
		return ms, err
	}
	if ms.CleaningCost, err = loadModel(ctx, m.Models.CleaningCost, cfg); err != nil {
		return ms, err
	}
	if ms.LongTermRent, err = loadModel(ctx, m.Models.LongTermRent, cfg); err != nil {
		return ms, err
	}
	return ms, nil
}

func loadModel(ctx context.Context, src config.ModelSource, cfg *config.Config) (services.SchemaPredictor, error) {
	if src.IsRemote() {
		p, err := services.NewRemotePredictor(ctx, src.Name, src.Endpoint, cfg.RemoteModelTimeout)
		if err != nil {
			return nil, fmt.Errorf("failed to connect model %s: %w", src.Name, err)
		}
		log.WithFields(log.Fields{"model": src.Name, "endpoint": src.Endpoint}).Info("remote model connected")
		return p, nil
	}
	p, err := services.LoadLinearModel(src.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to load model %s: %w", src.Name, err)
	}
	log.WithFields(log.Fields{"model": p.Name(), "path": src.Path}).Info("model loaded")
	return p, nil
}

// NewProfileStore opens the configured profile backend
func NewProfileStore(ctx context.Context, cfg *config.Config) (services.ProfileStore, error) {
	switch cfg.ProfileStore {
	case "", "json":
		return services.NewJSONFileProfileStore(cfg.ProfileDataPath), nil
	case "postgres":
		if cfg.DatabaseURL == "" {
			return nil, errors.New("DATABASE_URL is required for the postgres profile store")
		}
		store, err := services.NewPostgresProfileStore(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := store.CreateTable(ctx); err != nil {
			_ = store.Close()
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown PROFILE_STORE %q", cfg.ProfileStore)
	}
}

// Close releases the profile store
func (a *App) Close() error {
	if a.Profiles != nil {
		return a.Profiles.Close()
	}
	return nil
}
