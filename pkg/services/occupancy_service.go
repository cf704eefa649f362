package services

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"rent-advisor-api/pkg/models"

	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

var occupancyLog = log.WithField("component", "occupancy")

// OccupancyLookup answers the booked share of nights for a district, in percent
type OccupancyLookup interface {
	Occupancy(district int) (percent float64, ok bool)
}

// OccupancyTable is the per-arrondissement occupancy dataset, read once
type OccupancyTable struct {
	percent map[int]float64
	rows    []float64
}

// NewOccupancyTable builds a table from district -> percent values
func NewOccupancyTable(percent map[int]float64) *OccupancyTable {
	t := &OccupancyTable{percent: make(map[int]float64, len(percent))}
	for k, v := range percent {
		t.percent[k] = v
		t.rows = append(t.rows, v)
	}
	return t
}

// LoadOccupancyTable reads a .csv or .xlsx file with Arrondissement and
// "Occupancy in percent" columns. Other columns are ignored.
func LoadOccupancyTable(path string) (*OccupancyTable, error) {
	var rows [][]string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		f, err := excelize.OpenFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open occupancy workbook: %w", err)
		}
		defer f.Close()
		rows, err = f.GetRows(f.GetSheetName(0))
		if err != nil {
			return nil, fmt.Errorf("failed to read occupancy sheet: %w", err)
		}
	default:
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r := csv.NewReader(f)
		r.FieldsPerRecord = -1
		rows, err = r.ReadAll()
		if err != nil {
			return nil, fmt.Errorf("failed to parse occupancy csv: %w", err)
		}
	}
	return parseOccupancyRows(rows)
}

func parseOccupancyRows(rows [][]string) (*OccupancyTable, error) {
	if len(rows) == 0 {
		return nil, errors.New("occupancy: no data")
	}
	header := rows[0]
	distIdx := columnIndex(header, "arrondissement", "district")
	if distIdx == -1 {
		return nil, errors.New("occupancy: Arrondissement column not found")
	}
	occIdx := columnIndex(header, "occupancy in percent", "occupancy")
	if occIdx == -1 {
		return nil, errors.New("occupancy: Occupancy in percent column not found")
	}

	percent := make(map[int]float64)
	var values []float64
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if len(row) <= distIdx || len(row) <= occIdx {
			continue
		}
		d, err := parseDecimal(row[distIdx])
		if err != nil {
			occupancyLog.WithField("row", i).Debug("skipping row with unreadable district")
			continue
		}
		v, err := parseDecimal(row[occIdx])
		if err != nil {
			occupancyLog.WithField("row", i).Debug("skipping row with unreadable occupancy")
			continue
		}
		n := int(d)
		if n > regionCodeBase && n <= regionCodeBase+DistrictCount {
			n -= regionCodeBase
		}
		percent[n] = v
		values = append(values, v)
	}
	if len(percent) == 0 {
		return nil, errors.New("occupancy: no valid rows")
	}
	return &OccupancyTable{percent: percent, rows: values}, nil
}

// columnIndex finds the first header matching one of names, ignoring case,
// surrounding spaces and a UTF-8 BOM. -1 when absent.
func columnIndex(header []string, names ...string) int {
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		for _, name := range names {
			if h == name {
				return i
			}
		}
	}
	return -1
}

// parseDecimal reads numbers such as "72.5", "72,5" or "72.5 %"
func parseDecimal(s string) (float64, error) {
	b := make([]rune, 0, len(s))
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r == '.', r == '-':
			b = append(b, r)
		case r == ',':
			b = append(b, '.')
		}
	}
	return strconv.ParseFloat(string(b), 64)
}

// Occupancy returns the occupancy percent of a district
func (t *OccupancyTable) Occupancy(district int) (float64, bool) {
	if t == nil {
		return 0, false
	}
	v, ok := t.percent[district]
	return v, ok
}

// CityMedian is the median occupancy percent over all rows of the dataset.
// Repeated districts count once per row; Occupancy keeps the last row.
func (t *OccupancyTable) CityMedian() (float64, bool) {
	if t == nil || len(t.rows) == 0 {
		return 0, false
	}
	return calculateMedian(t.rows), true
}

// ResolveOccupancy picks the occupancy fraction used for revenue figures.
// An override (percent, 0 < x <= 100) wins; then the dataset; then the 0.5 fallback.
func ResolveOccupancy(lookup OccupancyLookup, district int, overridePercent *float64) (models.Occupancy, error) {
	if overridePercent != nil {
		pct := *overridePercent
		if pct <= 0 || pct > 100 {
			return models.Occupancy{}, &models.ValidationError{
				Field:  "occupancy_percent",
				Value:  pct,
				Reason: "must be in (0, 100]",
			}
		}
		return models.Occupancy{Rate: pct / 100, Source: models.OccupancyFromOverride}, nil
	}
	if lookup != nil {
		if pct, ok := lookup.Occupancy(district); ok {
			return models.Occupancy{Rate: pct / 100, Source: models.OccupancyFromData}, nil
		}
	}
	occupancyLog.WithField("district", district).Debug("no occupancy data, using fallback")
	return models.Occupancy{Rate: DefaultOccupancyRate, Source: models.OccupancyFallback}, nil
}
