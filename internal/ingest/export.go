package ingest

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/i9-energia/solar-estimator/internal/catalog"
	"github.com/i9-energia/solar-estimator/internal/locale"
	"github.com/i9-energia/solar-estimator/internal/schema"
)

const instructionsSheet = "Instruções"

// columnWidths per table, in schema column order.
var columnWidths = map[string][]float64{
	schema.Cities.Name:  {20, 12, 8, 12, 12},
	schema.Kits.Name:    {18, 25, 10, 12, 10, 15, 15, 20},
	schema.Tariffs.Name: {20, 20, 12, 10},
}

// WriteWorkbook exports a table set as an xlsx workbook in the import layout.
// Kit efficiency is written back as a percentage.
func WriteWorkbook(ts *catalog.TableSet, w io.Writer) error {
	f, err := tablesWorkbook(ts.Tables())
	if err != nil {
		return err
	}
	defer f.Close()

	return write(f, w)
}

// WriteTemplate writes an import template. With sample data it holds example
// rows and an instructions sheet; otherwise only the header rows.
func WriteTemplate(w io.Writer, withSample bool) error {
	tables := catalog.Tables{}
	if withSample {
		tables = sampleTables()
	}

	f, err := tablesWorkbook(tables)
	if err != nil {
		return err
	}
	defer f.Close()

	if withSample {
		if err := writeInstructions(f); err != nil {
			return err
		}
	}

	return write(f, w)
}

func write(f *excelize.File, w io.Writer) error {
	f.SetActiveSheet(0)
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func tablesWorkbook(tables catalog.Tables) (*excelize.File, error) {
	f := excelize.NewFile()

	cityRows := make([][]interface{}, 0, len(tables.Cities))
	for _, c := range tables.Cities {
		cityRows = append(cityRows, []interface{}{c.Name, c.Irradiance, c.State, optional(c.Latitude), optional(c.Longitude)})
	}
	kitRows := make([][]interface{}, 0, len(tables.Kits))
	for _, k := range tables.Kits {
		kitRows = append(kitRows, []interface{}{
			k.ID, k.Name, k.RatedPowerKw, locale.Round(k.Efficiency*100, 6),
			k.PricePerWatt, k.ModuleWattage, k.Brand, k.Model,
		})
	}
	tariffRows := make([][]interface{}, 0, len(tables.Tariffs))
	for _, t := range tables.Tariffs {
		tariffRows = append(tariffRows, []interface{}{t.City, t.Distributor, t.TariffPerKwh, t.Flag})
	}

	// NewFile starts with a default sheet, which becomes the first table.
	if err := f.SetSheetName(f.GetSheetName(0), schema.Cities.Name); err != nil {
		f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	for _, sheet := range []struct {
		schema *schema.TableSchema
		rows   [][]interface{}
	}{
		{&schema.Cities, cityRows},
		{&schema.Kits, kitRows},
		{&schema.Tariffs, tariffRows},
	} {
		if err := writeSheet(f, sheet.schema.Name, headerRow(sheet.schema.Columns), sheet.rows, columnWidths[sheet.schema.Name]); err != nil {
			f.Close()
			return nil, err
		}
	}

	return f, nil
}

func optional(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func headerRow(columns []string) []interface{} {
	row := make([]interface{}, len(columns))
	for i, c := range columns {
		row[i] = c
	}
	return row
}

// writeSheet creates the sheet when needed and writes a bold header row followed by data rows.
func writeSheet(f *excelize.File, name string, header []interface{}, rows [][]interface{}, widths []float64) error {
	idx, err := f.GetSheetIndex(name)
	if err != nil {
		return fmt.Errorf("sheet %s: %w", name, err)
	}
	if idx < 0 {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("create sheet %s: %w", name, err)
		}
	}

	all := append([][]interface{}{header}, rows...)
	for i := range all {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(name, cell, &all[i]); err != nil {
			return fmt.Errorf("sheet %s row %d: %w", name, i+1, err)
		}
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	if err := f.SetRowStyle(name, 1, 1, style); err != nil {
		return fmt.Errorf("sheet %s header style: %w", name, err)
	}

	for i, width := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(name, col, col, width); err != nil {
			return fmt.Errorf("sheet %s width: %w", name, err)
		}
	}
	return nil
}

// writeInstructions documents every column of the three tables.
func writeInstructions(f *excelize.File) error {
	rows := [][]interface{}{
		{"INSTRUÇÕES DE USO", "", ""},
		{"", "", ""},
	}
	for i, s := range schema.All() {
		if i > 0 {
			rows = append(rows, []interface{}{"", "", ""})
		}
		rows = append(rows, []interface{}{fmt.Sprintf("ABA %s:", strings.ToUpper(s.Name)), "", ""})
		for _, col := range s.Columns {
			def := s.Fields[col]
			rows = append(rows, []interface{}{col, def.Description, def.Example})
		}
	}

	header := []interface{}{"Campo", "Descrição", "Exemplo"}
	return writeSheet(f, instructionsSheet, header, rows, []float64{20, 40, 20})
}
