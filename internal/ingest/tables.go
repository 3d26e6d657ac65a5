package ingest

import (
	"errors"
	"fmt"
	"strings"

	"github.com/i9-energia/solar-estimator/internal/catalog"
	"github.com/i9-energia/solar-estimator/internal/schema"
)

// table is one sheet or CSV file after header resolution: the data rows keyed by
// canonical column, each with its spreadsheet line number.
type table struct {
	rows  []map[string]string
	lines []int
}

// parseTable resolves headers and validates every data row of a raw sheet.
// Blank rows are skipped. Problems are appended to verr; warnings are returned.
func parseTable(raw [][]string, s *schema.TableSchema, verr *ValidationError) (table, []string) {
	var t table
	warnings := make([]string, 0)

	if len(raw) == 0 {
		verr.add(fmt.Sprintf("%s: sheet is empty", s.Name))
		return t, warnings
	}

	headers, headerWarnings, headerErrors := schema.ResolveHeaders(raw[0], s)
	warnings = append(warnings, headerWarnings...)
	if len(headerErrors) > 0 {
		verr.add(headerErrors...)
		return t, warnings
	}

	lineNum := 2 // line 1 holds the headers
	for _, rawRow := range raw[1:] {
		if blank(rawRow) {
			lineNum++
			continue
		}

		row := headers.Row(rawRow)
		if rowErrors := schema.ValidateRow(row, s, lineNum); len(rowErrors) > 0 {
			verr.add(rowErrors...)
			lineNum++
			continue
		}

		t.rows = append(t.rows, row)
		t.lines = append(t.lines, lineNum)
		lineNum++
	}

	return t, warnings
}

func blank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// number parses a cell that already passed schema validation.
func number(row map[string]string, key string) float64 {
	v, _ := schema.Number(row[key])
	return v
}

func optionalNumber(row map[string]string, key string) *float64 {
	if strings.TrimSpace(row[key]) == "" {
		return nil
	}
	v := number(row, key)
	return &v
}

func cityFromRow(row map[string]string) catalog.CityRecord {
	return catalog.CityRecord{
		Name:       row[schema.ColCity],
		Irradiance: number(row, schema.ColIrradiance),
		State:      row[schema.ColState],
		Latitude:   optionalNumber(row, schema.ColLatitude),
		Longitude:  optionalNumber(row, schema.ColLongitude),
	}
}

// kitFromRow converts the percentage efficiency column to a fraction.
func kitFromRow(row map[string]string) catalog.EquipmentKit {
	return catalog.EquipmentKit{
		ID:            row[schema.ColKitID],
		Name:          row[schema.ColKitName],
		RatedPowerKw:  number(row, schema.ColPower),
		Efficiency:    number(row, schema.ColEfficiency) / 100,
		PricePerWatt:  number(row, schema.ColPricePerW),
		ModuleWattage: int(number(row, schema.ColModulePower)),
		Brand:         row[schema.ColBrand],
		Model:         row[schema.ColModel],
	}
}

func tariffFromRow(row map[string]string) catalog.TariffRecord {
	return catalog.TariffRecord{
		City:         row[schema.ColCity],
		Distributor:  row[schema.ColDistributor],
		TariffPerKwh: number(row, schema.ColTariff),
		Flag:         row[schema.ColFlag],
	}
}

// buildTableSet parses the three raw tables and builds a validated snapshot.
// Any problem in any table rejects the whole set.
func buildTableSet(cityRaw, kitRaw, tariffRaw [][]string) (*catalog.TableSet, []string, error) {
	verr := &ValidationError{}
	warnings := make([]string, 0)

	cityTable, w := parseTable(cityRaw, &schema.Cities, verr)
	warnings = append(warnings, w...)
	kitTable, w := parseTable(kitRaw, &schema.Kits, verr)
	warnings = append(warnings, w...)
	tariffTable, w := parseTable(tariffRaw, &schema.Tariffs, verr)
	warnings = append(warnings, w...)

	if !verr.empty() {
		return nil, warnings, verr
	}

	cities := make([]catalog.CityRecord, 0, len(cityTable.rows))
	for _, row := range cityTable.rows {
		cities = append(cities, cityFromRow(row))
	}
	kits := make([]catalog.EquipmentKit, 0, len(kitTable.rows))
	for _, row := range kitTable.rows {
		kits = append(kits, kitFromRow(row))
	}
	tariffs := make([]catalog.TariffRecord, 0, len(tariffTable.rows))
	for _, row := range tariffTable.rows {
		tariffs = append(tariffs, tariffFromRow(row))
	}

	ts, err := catalog.NewTableSet(cities, kits, tariffs)
	if err != nil {
		var cerr *catalog.ValidationError
		if errors.As(err, &cerr) {
			verr.add(cerr.Problems...)
			return nil, warnings, verr
		}
		return nil, warnings, fmt.Errorf("build table set: %w", err)
	}

	return ts, warnings, nil
}
