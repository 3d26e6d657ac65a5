package ingest

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/i9-energia/solar-estimator/internal/catalog"
)

// readCSV reads every record of a CSV file. Rows may have a variable number of
// fields. Files whose header line has more ';' than ',' are read as
// semicolon-separated, the default of spreadsheet exports in pt-BR locales.
func readCSV(reader io.Reader, name string) ([][]string, error) {
	br := bufio.NewReader(reader)
	head, _ := br.Peek(4096) // short files return what is available
	firstLine := string(head)
	if i := strings.IndexByte(firstLine, '\n'); i >= 0 {
		firstLine = firstLine[:i]
	}

	csvReader := csv.NewReader(br)
	csvReader.FieldsPerRecord = -1
	if strings.Count(firstLine, ";") > strings.Count(firstLine, ",") {
		csvReader.Comma = ';'
	}
	csvReader.TrimLeadingSpace = true

	rows := make([][]string, 0)
	for {
		row, err := csvReader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("%w: %s: %v", ErrUnreadableFile, name, err)
		}
		rows = append(rows, row)
	}

	if len(rows) > 0 && len(rows[0]) > 0 {
		rows[0][0] = trimBOM(rows[0][0])
	}
	return rows, nil
}

func trimBOM(s string) string {
	return strings.TrimPrefix(s, "\ufeff")
}

// ReadCSVTables builds a table set from three CSV files, one per table, with the
// same columns as the workbook sheets. Warnings are non-fatal (unknown columns).
func ReadCSVTables(cities, kits, tariffs io.Reader) (*catalog.TableSet, []string, error) {
	cityRaw, err := readCSV(cities, "cities")
	if err != nil {
		return nil, nil, err
	}
	kitRaw, err := readCSV(kits, "kits")
	if err != nil {
		return nil, nil, err
	}
	tariffRaw, err := readCSV(tariffs, "tariffs")
	if err != nil {
		return nil, nil, err
	}

	return buildTableSet(cityRaw, kitRaw, tariffRaw)
}
