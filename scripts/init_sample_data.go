//go:build ignore

package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	config "rent-advisor-api/configs"
	"rent-advisor-api/pkg/services"

	"github.com/joho/godotenv"
)

// Amenity columns written into the sample short-term model
var sampleAmenities = []string{
	"amenity__wifi",
	"amenity__kitchen",
	"amenity__washer",
	"amenity__dryer",
	"amenity__heating",
	"amenity__air_conditioning",
	"amenity__tv",
	"amenity__elevator",
	"amenity__hair_dryer_",
	"amenity__iron",
	"amenity__dishwasher",
	"amenity__self_check-in",
	"amenity__lockbox",
	"amenity__dedicated_workspace",
	"amenity__balcony",
	"amenity__city_skyline_view_",
	"amenity__coffee_makeru2013nespresso",
	"amenity__paid_parking_off_premises",
	"amenity__long_term_stays_allowed",
	"amenity__bathtub",
}

// log1p premiums relative to the 10th arrondissement
var districtPremium = map[int]float64{
	1: .38, 2: .27, 3: .30, 4: .36, 5: .24, 6: .42, 7: .45, 8: .48, 9: .14, 10: 0,
	11: .02, 12: -.04, 13: -.08, 14: -.03, 15: .03, 16: .22, 17: .05, 18: -.06, 19: -.16, 20: -.12,
}

// monthly rent premiums in euros
var districtRent = map[int]float64{
	1: 520, 2: 430, 3: 470, 4: 510, 5: 440, 6: 600, 7: 640, 8: 580, 9: 300, 10: 180,
	11: 200, 12: 120, 13: 60, 14: 110, 15: 170, 16: 380, 17: 220, 18: 40, 19: -40, 20: 0,
}

func main() {
	log.Println("🚀 writing sample models and data...")

	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}
	cfg := config.LoadConfig()

	modelDir := filepath.Dir(cfg.ModelManifest)
	if err := os.MkdirAll(modelDir, 0755); err != nil {
		log.Fatalf("failed to create %s: %v", modelDir, err)
	}

	artifacts := map[string]services.LinearModelArtifact{
		"airbnb_price.json":   shortTermArtifact(),
		"cleaning_cost.json":  cleaningArtifact(),
		"long_term_rent.json": longTermArtifact(),
	}
	for name, a := range artifacts {
		if err := writeJSON(filepath.Join(modelDir, name), a); err != nil {
			log.Fatalf("failed to write %s: %v", name, err)
		}
		log.Printf("✅ %s (%d features)", name, len(a.FeatureNamesIn))
	}

	manifest := `version: "sample"
models:
  short_term_price:
    name: airbnb_price
    path: airbnb_price.json
  cleaning_cost:
    name: cleaning_cost
    path: cleaning_cost.json
  long_term_rent:
    name: long_term_rent
    path: long_term_rent.json
`
	if err := os.WriteFile(cfg.ModelManifest, []byte(manifest), 0644); err != nil {
		log.Fatalf("failed to write manifest: %v", err)
	}

	if err := writeOccupancy(cfg.OccupancyDataPath); err != nil {
		log.Fatalf("failed to write occupancy data: %v", err)
	}
	log.Printf("✅ %s", cfg.OccupancyDataPath)

	if _, err := os.Stat(cfg.ProfileDataPath); os.IsNotExist(err) {
		profiles := map[string]any{
			"demo": map[string]any{
				"arrondissement":          11,
				"bedrooms":                2,
				"bathrooms":               1,
				"num_rooms":               3,
				"host_is_superhost":       false,
				"host_listings_count":     1,
				"host_identity_verified":  true,
				"room_type":               "Entire home/apt",
				"amenities":               []string{"Wifi", "Kitchen", "Washer"},
				"Number of rooms renting": 2,
				"furnished":               true,
				"rent":                    true,
			},
		}
		if err := writeJSON(cfg.ProfileDataPath, profiles); err != nil {
			log.Fatalf("failed to write profiles: %v", err)
		}
		log.Printf("✅ %s", cfg.ProfileDataPath)
	}

	log.Println("🎉 sample data ready")
}

func shortTermArtifact() services.LinearModelArtifact {
	cols := []string{
		services.ColSuperhost,
		services.ColListingsCount,
		services.ColIdentityVerified,
		services.ColBathrooms,
		services.ColBedrooms,
	}
	coef := []float64{0.08, -0.0004, 0.02, 0.11, 0.19}
	for _, c := range services.LongTermColumns {
		if strings.HasPrefix(c, "Arrondissement_") {
			cols = append(cols, c)
			coef = append(coef, districtPremium[districtNumber(c)])
		}
	}
	rooms := map[string]float64{
		"room_Entire home/apt": 0.35,
		"room_Hotel room":      0.28,
		"room_Private room":    0,
		"room_Shared room":     -0.42,
	}
	for _, c := range []string{"room_Entire home/apt", "room_Hotel room", "room_Private room", "room_Shared room"} {
		cols = append(cols, c)
		coef = append(coef, rooms[c])
	}
	for i, c := range sampleAmenities {
		cols = append(cols, c)
		coef = append(coef, 0.01+0.002*float64(i%5))
	}
	return services.LinearModelArtifact{Name: "airbnb_price", FeatureNamesIn: cols, Coefficients: coef, Intercept: 3.9}
}

func cleaningArtifact() services.LinearModelArtifact {
	return services.LinearModelArtifact{
		Name:           "cleaning_cost",
		FeatureNamesIn: services.CleaningColumns,
		Coefficients:   []float64{14, 9},
		Intercept:      22,
	}
}

func longTermArtifact() services.LinearModelArtifact {
	coef := make([]float64, len(services.LongTermColumns))
	for i, c := range services.LongTermColumns {
		switch {
		case c == services.ColRentalRooms:
			coef[i] = 390
		case c == services.ColFurnished:
			coef[i] = 140
		case strings.HasPrefix(c, "Arrondissement_"):
			coef[i] = districtRent[districtNumber(c)]
		}
	}
	return services.LinearModelArtifact{Name: "long_term_rent", FeatureNamesIn: services.LongTermColumns, Coefficients: coef, Intercept: 640}
}

func districtNumber(col string) int {
	for n := 1; n <= services.DistrictCount; n++ {
		if services.DistrictColumn(n) == col {
			return n
		}
	}
	return 0
}

func writeOccupancy(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	var b strings.Builder
	b.WriteString("Arrondissement,Occupancy in percent\n")
	for n := 1; n <= services.DistrictCount; n++ {
		fmt.Fprintf(&b, "%d,%.1f\n", n, 58+12*districtPremium[n])
	}
	return os.WriteFile(path, []byte(b.String()), 0644)
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
