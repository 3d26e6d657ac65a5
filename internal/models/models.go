package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Import sources. SourceBuiltin marks a reset to the tables shipped with the binary.
const (
	SourceXLSX    = "xlsx"
	SourceCSV     = "csv"
	SourceBuiltin = "builtin"
)

// TableImport represents an accepted lookup-table upload.
// DB columns: id, filename, source, content_hash, city_count, kit_count,
//
//	tariff_count, tables, warnings, imported_by, created_at, activated_at
type TableImport struct {
	ID          uuid.UUID       `json:"import_id"`
	Filename    string          `json:"filename"`
	Source      string          `json:"source"`
	ContentHash string          `json:"content_hash"`
	CityCount   int             `json:"city_count"`
	KitCount    int             `json:"kit_count"`
	TariffCount int             `json:"tariff_count"`
	Tables      json.RawMessage `json:"-"`
	Warnings    json.RawMessage `json:"warnings"`
	ImportedBy  *uuid.UUID      `json:"imported_by,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	ActivatedAt time.Time       `json:"activated_at"`
}
