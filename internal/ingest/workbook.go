package ingest

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/i9-energia/solar-estimator/internal/catalog"
	"github.com/i9-energia/solar-estimator/internal/schema"
)

// sheets holds the raw rows of the three tables found in a workbook.
type sheets struct {
	cities, kits, tariffs [][]string
}

// openWorkbook reads an xlsx stream and extracts the three table sheets.
// Missing sheets are reported through the returned ValidationError.
func openWorkbook(r io.Reader) (*sheets, *ValidationError, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrUnreadableFile, err)
	}
	defer f.Close()

	verr := &ValidationError{}
	found := &sheets{}
	targets := []struct {
		schema *schema.TableSchema
		rows   *[][]string
	}{
		{&schema.Cities, &found.cities},
		{&schema.Kits, &found.kits},
		{&schema.Tariffs, &found.tariffs},
	}

	sheetList := f.GetSheetList()
	for _, target := range targets {
		name, ok := findSheet(sheetList, target.schema)
		if !ok {
			verr.MissingSheets = append(verr.MissingSheets, target.schema.Name)
			verr.add(fmt.Sprintf("sheet '%s' not found", target.schema.Name))
			continue
		}
		rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, nil, fmt.Errorf("%w: sheet %s: %v", ErrUnreadableFile, name, err)
		}
		*target.rows = rows
	}

	return found, verr, nil
}

func findSheet(sheetList []string, s *schema.TableSchema) (string, bool) {
	for _, name := range sheetList {
		if s.MatchesSheet(name) {
			return name, true
		}
	}
	return "", false
}

// ReadWorkbook parses an xlsx workbook with the sheets Cidades, Inversores and
// Tarifas into a validated table set. Any problem rejects the whole workbook;
// the returned warnings are non-fatal (unknown columns).
func ReadWorkbook(r io.Reader) (*catalog.TableSet, []string, error) {
	found, verr, err := openWorkbook(r)
	if err != nil {
		return nil, nil, err
	}
	if !verr.empty() {
		return nil, nil, verr
	}

	return buildTableSet(found.cities, found.kits, found.tariffs)
}

// ValidateWorkbook checks the workbook structure (sheets and required columns)
// without validating or loading any row.
func ValidateWorkbook(r io.Reader) ([]string, error) {
	found, verr, err := openWorkbook(r)
	if err != nil {
		return nil, err
	}

	warnings := make([]string, 0)
	check := func(raw [][]string, s *schema.TableSchema) {
		if len(raw) == 0 {
			verr.add(fmt.Sprintf("%s: sheet is empty", s.Name))
			return
		}
		_, w, errs := schema.ResolveHeaders(raw[0], s)
		warnings = append(warnings, w...)
		verr.add(errs...)
	}
	if !contains(verr.MissingSheets, schema.Cities.Name) {
		check(found.cities, &schema.Cities)
	}
	if !contains(verr.MissingSheets, schema.Kits.Name) {
		check(found.kits, &schema.Kits)
	}
	if !contains(verr.MissingSheets, schema.Tariffs.Name) {
		check(found.tariffs, &schema.Tariffs)
	}

	if !verr.empty() {
		return warnings, verr
	}
	return warnings, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
