package services

import (
	"fmt"
	"strconv"

	"rent-advisor-api/pkg/models"
)

const (
	// DistrictCount is the number of Paris arrondissements
	DistrictCount = 20
	// MedianDistrict is the reference location for the impact benchmark
	MedianDistrict = 10

	regionCodeBase = 75100
)

var districtNames = map[int]string{
	1: "1er Ardt - Louvre", 2: "2e Ardt - Bourse", 3: "3e Ardt - Temple", 4: "4e Ardt - Hôtel-de-Ville", 5: "5e Ardt - Panthéon",
	6: "6e Ardt - Luxembourg", 7: "7e Ardt - Palais-Bourbon", 8: "8e Ardt - Élysée", 9: "9e Ardt - Opéra", 10: "10e Ardt - Entrepôt",
	11: "11e Ardt - Popincourt", 12: "12e Ardt - Reuilly", 13: "13e Ardt - Gobelins", 14: "14e Ardt - Observatoire", 15: "15e Ardt - Vaugirard",
	16: "16e Ardt - Passy", 17: "17e Ardt - Batignolles-Monceau", 18: "18e Ardt - Buttes-Montmartre", 19: "19e Ardt - Buttes-Chaumont", 20: "20e Ardt - Ménilmontant",
}

// ValidDistrict reports whether n is an arrondissement number
func ValidDistrict(n int) bool {
	return n >= 1 && n <= DistrictCount
}

// DistrictColumn returns the one-hot column name shared by both models, e.g.
// "Arrondissement_1er" or "Arrondissement_15e". Unknown numbers return "".
func DistrictColumn(n int) string {
	if !ValidDistrict(n) {
		return ""
	}
	if n == 1 {
		return "Arrondissement_1er"
	}
	return fmt.Sprintf("Arrondissement_%de", n)
}

// RegionCode returns the official INSEE code of an arrondissement
func RegionCode(n int) string {
	return strconv.Itoa(regionCodeBase + n)
}

// DistrictName returns the display name, or "" for unknown numbers
func DistrictName(n int) string {
	return districtNames[n]
}

// DistrictColumns returns the 20 one-hot column names ordered by district number
func DistrictColumns() []string {
	cols := make([]string, 0, DistrictCount)
	for n := 1; n <= DistrictCount; n++ {
		cols = append(cols, DistrictColumn(n))
	}
	return cols
}

// Districts returns the full reference table
func Districts() []models.District {
	out := make([]models.District, 0, DistrictCount)
	for n := 1; n <= DistrictCount; n++ {
		out = append(out, models.District{
			Number:     n,
			Column:     DistrictColumn(n),
			RegionCode: RegionCode(n),
			Name:       DistrictName(n),
		})
	}
	return out
}
