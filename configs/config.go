package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the application configuration
type Config struct {
	Port        string
	Environment string
	APIKey      string

	ModelManifest      string
	RemoteModelTimeout time.Duration

	OccupancyDataPath string

	ProfileStore    string // "json" or "postgres"
	ProfileDataPath string
	DatabaseURL     string

	FeatureSnapshotDir string
	SweepParallelism   int
	LogLevel           string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Port:               getEnv("PORT", "8080"),
		Environment:        getEnv("ENVIRONMENT", "development"),
		APIKey:             getEnv("API_KEY", ""),
		ModelManifest:      getEnv("MODEL_MANIFEST", "ml_models/models.yaml"),
		RemoteModelTimeout: getEnvDuration("REMOTE_MODEL_TIMEOUT", 10*time.Second),
		OccupancyDataPath:  getEnv("OCCUPANCY_DATA_PATH", "data/occupancy_arrondissement.csv"),
		ProfileStore:       strings.ToLower(getEnv("PROFILE_STORE", "json")),
		ProfileDataPath:    getEnv("PROFILE_DATA_PATH", "data/profiles.json"),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		FeatureSnapshotDir: getEnv("FEATURE_SNAPSHOT_DIR", ""),
		SweepParallelism:   getEnvInt("SWEEP_PARALLELISM", 1),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
	}
}

// IsProduction reports whether the service runs in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
