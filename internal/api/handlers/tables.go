package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/i9-energia/solar-estimator/internal/api/response"
	"github.com/i9-energia/solar-estimator/internal/catalog"
	"github.com/i9-energia/solar-estimator/internal/config"
	"github.com/i9-energia/solar-estimator/internal/ingest"
	"github.com/i9-energia/solar-estimator/internal/models"
	"github.com/i9-energia/solar-estimator/internal/repository"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	exportFilename        = "dados_solares.xlsx"
	templateFilename      = "template_dados_solares.xlsx"
	emptyTemplateFilename = "template_vazio_dados_solares.xlsx"

	defaultImportListLimit = 20
	maxImportListLimit     = 100
)

var errFileTooLarge = errors.New("file too large")

// ImportStore persists accepted imports and which one is in effect.
// It is nil when the database is disabled.
type ImportStore interface {
	Create(ctx context.Context, imp *models.TableImport) error
	GetByContentHash(ctx context.Context, hash string) (*models.TableImport, error)
	Activate(ctx context.Context, id uuid.UUID) (time.Time, error)
	List(ctx context.Context, limit int) ([]models.TableImport, error)
}

// TablesHandler handles the admin lookup-table operations.
type TablesHandler struct {
	store   *catalog.Store
	imports ImportStore
	cfg     *config.Config
}

// NewTablesHandler creates a new tables handler. imports may be nil.
func NewTablesHandler(store *catalog.Store, imports ImportStore, cfg *config.Config) *TablesHandler {
	return &TablesHandler{store: store, imports: imports, cfg: cfg}
}

type importResult struct {
	ImportID  *uuid.UUID    `json:"import_id,omitempty"`
	Filename  string        `json:"filename"`
	Source    string        `json:"source"`
	Stats     catalog.Stats `json:"stats"`
	Warnings  []string      `json:"warnings"`
	Duplicate bool          `json:"duplicate"`
	CreatedAt *time.Time    `json:"created_at,omitempty"`

	ActivatedAt *time.Time `json:"activated_at,omitempty"`
}

// upload is the raw content of one import request.
type upload struct {
	filename string
	source   string
	parts    [][]byte
}

// HandleImport handles POST /api/v1/admin/tables.
// It accepts either a workbook in the "file" field or three CSV files in the
// "cities", "kits" and "tariffs" fields. Nothing changes unless every table is valid.
func (h *TablesHandler) HandleImport(c *gin.Context) {
	up, ok := h.readUpload(c)
	if !ok {
		return
	}

	ts, warnings, err := parseUpload(up)
	if err != nil {
		h.respondParseError(c, err)
		return
	}

	result := importResult{
		Filename: up.filename,
		Source:   up.source,
		Stats:    ts.Stats(),
		Warnings: nonNilStrings(warnings),
	}
	status := http.StatusCreated

	// Persist before swapping so a failed write leaves the current tables in place.
	if h.imports != nil {
		imp, err := newImport(up, repository.HashContent(up.parts...), ts, warnings, importedBy(c))
		if err != nil {
			response.InternalError(c, err.Error())
			return
		}

		active, duplicate, err := h.record(c.Request.Context(), imp)
		if err != nil {
			response.InternalError(c, err.Error())
			return
		}

		result.ImportID = &active.ID
		result.CreatedAt = &active.CreatedAt
		result.ActivatedAt = &active.ActivatedAt
		result.Duplicate = duplicate
		if duplicate {
			status = http.StatusOK
		}
	}

	h.store.Replace(ts)

	correlationID, _ := c.Get("correlation_id")
	slog.Info("lookup tables replaced",
		"filename", up.filename,
		"source", up.source,
		"cities", result.Stats.TotalCities,
		"kits", result.Stats.TotalKits,
		"tariffs", result.Stats.TotalTariffs,
		"warnings", len(warnings),
		"duplicate", result.Duplicate,
		"correlation_id", correlationID,
	)

	response.Success(c, status, result)
}

// HandleValidate handles POST /api/v1/admin/tables/validate: a structure-only
// check of a workbook (sheets and required columns). Nothing is installed.
func (h *TablesHandler) HandleValidate(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "file field is required", nil)
		return
	}
	data, ok := h.readFile(c, file, ".xlsx")
	if !ok {
		return
	}

	warnings, err := ingest.ValidateWorkbook(bytes.NewReader(data))
	problems := []string{}
	var verr *ingest.ValidationError
	if errors.As(err, &verr) {
		problems = verr.Problems
	} else if err != nil {
		h.respondParseError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"valid":    len(problems) == 0,
		"problems": problems,
		"warnings": nonNilStrings(warnings),
	})
}

// HandleExport handles GET /api/v1/admin/tables/export.
func (h *TablesHandler) HandleExport(c *gin.Context) {
	var buf bytes.Buffer
	if err := ingest.WriteWorkbook(h.store.Load(), &buf); err != nil {
		response.InternalError(c, fmt.Sprintf("failed to export tables: %v", err))
		return
	}
	sendWorkbook(c, exportFilename, buf.Bytes())
}

// HandleTemplate handles GET /api/v1/admin/tables/template. sample defaults to true.
func (h *TablesHandler) HandleTemplate(c *gin.Context) {
	withSample := true
	if raw := c.Query("sample"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			response.BadRequest(c, "sample must be a boolean", nil)
			return
		}
		withSample = v
	}

	var buf bytes.Buffer
	if err := ingest.WriteTemplate(&buf, withSample); err != nil {
		response.InternalError(c, fmt.Sprintf("failed to build template: %v", err))
		return
	}

	filename := templateFilename
	if !withSample {
		filename = emptyTemplateFilename
	}
	sendWorkbook(c, filename, buf.Bytes())
}

// HandleStats handles GET /api/v1/admin/tables/stats.
func (h *TablesHandler) HandleStats(c *gin.Context) {
	response.Success(c, http.StatusOK, h.store.Load().Stats())
}

// HandleReset handles POST /api/v1/admin/tables/reset: the built-in tables come back.
// With the database enabled the reset is recorded so a restart keeps the built-in tables.
func (h *TablesHandler) HandleReset(c *gin.Context) {
	if h.imports != nil {
		marker, err := newImport(&upload{filename: "built-in", source: models.SourceBuiltin},
			repository.BuiltinContentHash, catalog.Builtin(), nil, importedBy(c))
		if err != nil {
			response.InternalError(c, err.Error())
			return
		}
		if _, _, err := h.record(c.Request.Context(), marker); err != nil {
			response.InternalError(c, err.Error())
			return
		}
	}

	h.store.Reset()
	stats := h.store.Load().Stats()

	slog.Info("lookup tables reset to built-in", "cities", stats.TotalCities, "kits", stats.TotalKits)
	response.Success(c, http.StatusOK, stats)
}

// HandleListImports handles GET /api/v1/admin/tables/imports.
func (h *TablesHandler) HandleListImports(c *gin.Context) {
	if h.imports == nil {
		response.Unavailable(c, "import history requires the database")
		return
	}

	limit := defaultImportListLimit
	if raw := c.Query("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			response.BadRequest(c, "limit must be a positive integer", nil)
			return
		}
		limit = min(v, maxImportListLimit)
	}

	imports, err := h.imports.List(c.Request.Context(), limit)
	if err != nil {
		response.InternalError(c, fmt.Sprintf("failed to list imports: %v", err))
		return
	}
	response.Success(c, http.StatusOK, imports)
}

// record stores imp as the import in effect. Content already on file is
// activated again instead of stored twice; the returned record is the one in
// effect and the flag reports whether it already existed.
func (h *TablesHandler) record(ctx context.Context, imp *models.TableImport) (*models.TableImport, bool, error) {
	existing, err := h.imports.GetByContentHash(ctx, imp.ContentHash)
	if err != nil {
		return nil, false, fmt.Errorf("failed to check for duplicate import: %w", err)
	}

	if existing != nil {
		activatedAt, err := h.imports.Activate(ctx, existing.ID)
		if err != nil {
			return nil, false, fmt.Errorf("failed to activate import: %w", err)
		}
		existing.ActivatedAt = activatedAt
		return existing, true, nil
	}

	if err := h.imports.Create(ctx, imp); err != nil {
		return nil, false, fmt.Errorf("failed to record import: %w", err)
	}
	return imp, false, nil
}

// readUpload collects the request's files. It writes the error response itself
// and reports false when the request cannot proceed.
func (h *TablesHandler) readUpload(c *gin.Context) (*upload, bool) {
	if file, err := c.FormFile("file"); err == nil {
		data, ok := h.readFile(c, file, ".xlsx")
		if !ok {
			return nil, false
		}
		return &upload{filename: file.Filename, source: models.SourceXLSX, parts: [][]byte{data}}, true
	}

	fields := []string{"cities", "kits", "tariffs"}
	up := &upload{source: models.SourceCSV}
	for _, field := range fields {
		file, err := c.FormFile(field)
		if err != nil {
			response.BadRequest(c, "provide a workbook in 'file' or CSV files in 'cities', 'kits' and 'tariffs'",
				gin.H{"missing_field": field})
			return nil, false
		}
		data, ok := h.readFile(c, file, ".csv")
		if !ok {
			return nil, false
		}
		if up.filename != "" {
			up.filename += ","
		}
		up.filename += file.Filename
		up.parts = append(up.parts, data)
	}
	return up, true
}

func (h *TablesHandler) readFile(c *gin.Context, file *multipart.FileHeader, ext string) ([]byte, bool) {
	if !h.cfg.Upload.AllowsExtension(file.Filename) || !hasExtension(file.Filename, ext) {
		response.BadRequest(c, fmt.Sprintf("file %s must be a %s file", file.Filename, ext), nil)
		return nil, false
	}
	if file.Size > h.cfg.Upload.MaxFileSize {
		response.FileTooLarge(c, h.cfg.Upload.MaxFileSize)
		return nil, false
	}

	data, err := readLimited(file, h.cfg.Upload.MaxFileSize)
	if errors.Is(err, errFileTooLarge) {
		response.FileTooLarge(c, h.cfg.Upload.MaxFileSize)
		return nil, false
	}
	if err != nil {
		response.InternalError(c, "failed to read uploaded file")
		return nil, false
	}
	return data, true
}

func (h *TablesHandler) respondParseError(c *gin.Context, err error) {
	var verr *ingest.ValidationError
	switch {
	case errors.As(err, &verr):
		response.BadRequest(c, "lookup tables rejected", gin.H{
			"problems":       verr.Problems,
			"missing_sheets": nonNilStrings(verr.MissingSheets),
		})
	case errors.Is(err, ingest.ErrUnreadableFile):
		response.UnreadableFile(c, err.Error())
	default:
		response.InternalError(c, err.Error())
	}
}

func parseUpload(up *upload) (*catalog.TableSet, []string, error) {
	if up.source == models.SourceXLSX {
		return ingest.ReadWorkbook(bytes.NewReader(up.parts[0]))
	}
	return ingest.ReadCSVTables(
		bytes.NewReader(up.parts[0]),
		bytes.NewReader(up.parts[1]),
		bytes.NewReader(up.parts[2]),
	)
}

func newImport(up *upload, contentHash string, ts *catalog.TableSet, warnings []string, by *uuid.UUID) (*models.TableImport, error) {
	tables, err := repository.EncodeTables(ts)
	if err != nil {
		return nil, err
	}
	warningsJSON, err := json.Marshal(nonNilStrings(warnings))
	if err != nil {
		return nil, fmt.Errorf("encode warnings: %w", err)
	}

	stats := ts.Stats()
	now := time.Now()
	return &models.TableImport{
		ID:          uuid.New(),
		Filename:    up.filename,
		Source:      up.source,
		ContentHash: contentHash,
		CityCount:   stats.TotalCities,
		KitCount:    stats.TotalKits,
		TariffCount: stats.TotalTariffs,
		Tables:      tables,
		Warnings:    warningsJSON,
		ImportedBy:  by,
		CreatedAt:   now,
		ActivatedAt: now,
	}, nil
}

func importedBy(c *gin.Context) *uuid.UUID {
	if v, ok := c.Get("user_id"); ok {
		if id, ok := v.(uuid.UUID); ok {
			return &id
		}
	}
	return nil
}

func readLimited(file *multipart.FileHeader, maxBytes int64) ([]byte, error) {
	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > maxBytes {
		return nil, errFileTooLarge
	}
	return data, nil
}

func hasExtension(filename, ext string) bool {
	return strings.EqualFold(filepath.Ext(filename), ext)
}

func sendWorkbook(c *gin.Context, filename string, data []byte) {
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
