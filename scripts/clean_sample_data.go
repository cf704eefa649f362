//go:build ignore

package main

import (
	"log"
	"os"
	"path/filepath"

	config "rent-advisor-api/configs"

	"github.com/joho/godotenv"
)

// Removes the feature snapshots and, with -all, the generated sample data.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}
	cfg := config.LoadConfig()

	var targets []string
	if cfg.FeatureSnapshotDir != "" {
		matches, err := filepath.Glob(filepath.Join(cfg.FeatureSnapshotDir, "user_dataset_*.csv"))
		if err != nil {
			log.Fatalf("failed to list snapshots: %v", err)
		}
		targets = append(targets, matches...)
	}
	if len(os.Args) > 1 && os.Args[1] == "-all" {
		modelDir := filepath.Dir(cfg.ModelManifest)
		targets = append(targets,
			cfg.ModelManifest,
			filepath.Join(modelDir, "airbnb_price.json"),
			filepath.Join(modelDir, "cleaning_cost.json"),
			filepath.Join(modelDir, "long_term_rent.json"),
			cfg.OccupancyDataPath,
		)
	}

	removed := 0
	for _, path := range targets {
		if err := os.Remove(path); err != nil {
			if !os.IsNotExist(err) {
				log.Printf("⚠️ failed to remove %s: %v", path, err)
			}
			continue
		}
		removed++
		log.Printf("🗑️ %s", path)
	}
	log.Printf("✅ removed %d files", removed)
}
