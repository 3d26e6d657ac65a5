package repository

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/i9-energia/solar-estimator/internal/catalog"
	"github.com/i9-energia/solar-estimator/internal/models"
)

// ImportRepository handles data access for table import records
type ImportRepository struct {
	pool *pgxpool.Pool
}

// NewImportRepository creates a new import repository
func NewImportRepository(pool *pgxpool.Pool) *ImportRepository {
	return &ImportRepository{pool: pool}
}

// importColumns is the canonical column list for table_imports, used across all queries.
const importColumns = `id, filename, source, content_hash, city_count, kit_count,
	tariff_count, tables, warnings, imported_by, created_at, activated_at`

// BuiltinContentHash is the content hash of the reset marker row.
const BuiltinContentHash = "builtin"

// scanImport scans a row into a TableImport using the canonical column order.
func scanImport(row pgx.Row, imp *models.TableImport) error {
	return row.Scan(
		&imp.ID,
		&imp.Filename,
		&imp.Source,
		&imp.ContentHash,
		&imp.CityCount,
		&imp.KitCount,
		&imp.TariffCount,
		&imp.Tables,
		&imp.Warnings,
		&imp.ImportedBy,
		&imp.CreatedAt,
		&imp.ActivatedAt,
	)
}

// Create inserts a new import record. It becomes the import in effect, stamped
// with the database clock like Activate.
func (r *ImportRepository) Create(ctx context.Context, imp *models.TableImport) error {
	if imp == nil {
		return errors.New("import cannot be nil")
	}

	query := `
		INSERT INTO table_imports (
			id, filename, source, content_hash, city_count, kit_count,
			tariff_count, tables, warnings, imported_by, created_at, activated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, now()
		)
		RETURNING ` + importColumns

	return scanImport(r.pool.QueryRow(
		ctx, query,
		imp.ID, imp.Filename, imp.Source, imp.ContentHash, imp.CityCount, imp.KitCount,
		imp.TariffCount, imp.Tables, imp.Warnings, imp.ImportedBy, imp.CreatedAt,
	), imp)
}

// Activate marks an existing import as the one in effect and returns the new
// activation time.
func (r *ImportRepository) Activate(ctx context.Context, id uuid.UUID) (time.Time, error) {
	query := `UPDATE table_imports SET activated_at = now() WHERE id = $1 RETURNING activated_at`

	var activatedAt time.Time
	if err := r.pool.QueryRow(ctx, query, id).Scan(&activatedAt); err != nil {
		return time.Time{}, fmt.Errorf("activate import %s: %w", id, err)
	}
	return activatedAt, nil
}

// GetByContentHash retrieves an import by SHA-256 content hash.
// Returns nil, nil if no match found.
func (r *ImportRepository) GetByContentHash(ctx context.Context, hash string) (*models.TableImport, error) {
	query := `SELECT ` + importColumns + ` FROM table_imports WHERE content_hash = $1`
	return r.getOne(ctx, query, hash)
}

// Latest retrieves the import activated last, which may be the built-in reset
// marker. Returns nil, nil when there is none.
func (r *ImportRepository) Latest(ctx context.Context) (*models.TableImport, error) {
	query := `SELECT ` + importColumns + ` FROM table_imports ORDER BY activated_at DESC LIMIT 1`
	return r.getOne(ctx, query)
}

// List retrieves imports by activation, the one in effect first.
func (r *ImportRepository) List(ctx context.Context, limit int) ([]models.TableImport, error) {
	query := `SELECT ` + importColumns + ` FROM table_imports ORDER BY activated_at DESC LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	imports := make([]models.TableImport, 0)
	for rows.Next() {
		var imp models.TableImport
		if err := scanImport(rows, &imp); err != nil {
			return nil, err
		}
		imports = append(imports, imp)
	}

	return imports, rows.Err()
}

func (r *ImportRepository) getOne(ctx context.Context, query string, args ...interface{}) (*models.TableImport, error) {
	imp := &models.TableImport{}
	err := scanImport(r.pool.QueryRow(ctx, query, args...), imp)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return imp, nil
}

// HashContent returns the hex SHA-256 of the given parts. Each part is
// length-prefixed so that different splits of the same bytes hash differently.
func HashContent(parts ...[]byte) string {
	hasher := sha256.New()
	for _, p := range parts {
		fmt.Fprintf(hasher, "%d:", len(p))
		hasher.Write(p)
	}
	return hex.EncodeToString(hasher.Sum(nil))
}

// EncodeTables serializes a table set for the tables JSONB column.
func EncodeTables(ts *catalog.TableSet) (json.RawMessage, error) {
	data, err := json.Marshal(ts.Tables())
	if err != nil {
		return nil, fmt.Errorf("encode tables: %w", err)
	}
	return data, nil
}

// DecodeTables rebuilds and revalidates the table set stored with an import.
func DecodeTables(imp *models.TableImport) (*catalog.TableSet, error) {
	var tables catalog.Tables
	if err := json.Unmarshal(imp.Tables, &tables); err != nil {
		return nil, fmt.Errorf("decode tables of import %s: %w", imp.ID, err)
	}
	ts, err := tables.Build()
	if err != nil {
		return nil, fmt.Errorf("rebuild tables of import %s: %w", imp.ID, err)
	}
	return ts, nil
}
