package services

import (
	"bytes"
	"fmt"
	"io"

	"rent-advisor-api/pkg/models"

	"github.com/xuri/excelize/v2"
)

// SweepSheetName is the worksheet the district sweep is written to
const SweepSheetName = "Arrondissements"

var sweepHeader = []any{"arrondissement_number", "arrondissement_code", "arrondissement_name", "avg_price_apt"}

// WriteSweepXLSX writes sweep records as a workbook, one row per district
func WriteSweepXLSX(w io.Writer, prices []models.RegionPrice) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SweepSheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	if err := f.SetSheetRow(SweepSheetName, "A1", &sweepHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, rp := range prices {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{rp.District, rp.RegionCode, rp.Name, rp.Price}
		if err := f.SetSheetRow(SweepSheetName, cell, &row); err != nil {
			return fmt.Errorf("failed to write district %d: %w", rp.District, err)
		}
	}
	if err := f.SetColWidth(SweepSheetName, "C", "C", 28); err != nil {
		return err
	}
	return f.Write(w)
}

// SweepXLSX returns the workbook bytes
func SweepXLSX(prices []models.RegionPrice) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteSweepXLSX(&buf, prices); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
