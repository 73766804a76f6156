package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/refsheet-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/refsheet-cli/internal/core/domain"
	"github.com/custodia-labs/refsheet-cli/internal/core/ports/driven"
)

// DatabaseFile is the history database file name inside the data directory.
const DatabaseFile = "history.db"

// Store is a SQLite-based history that provides access to
// the analysis and sheet store interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.refsheet/data/history.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".refsheet", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, DatabaseFile)

	// Open database with WAL journaling and a busy timeout.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// AnalysisStore returns an AnalysisStore interface backed by this store.
func (s *Store) AnalysisStore() driven.AnalysisStore {
	return &analysisStore{store: s}
}

// SheetStore returns a SheetStore interface backed by this store.
func (s *Store) SheetStore() driven.SheetStore {
	return &sheetStore{store: s}
}

// migrate runs all pending migrations and records each applied version.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_initial.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// schemaVersion returns the highest applied migration version.
func (s *Store) schemaVersion(ctx context.Context) (int, error) {
	var version int
	err := s.db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&version)
	return version, err
}

// ==================== Analysis Store ====================

// analysisStore implements driven.AnalysisStore.
type analysisStore struct {
	store *Store
}

var _ driven.AnalysisStore = (*analysisStore)(nil)

const analysisColumns = `id, response, total_files, files_analyzed, model_used, created_at`

// Save stores or replaces an analysis result.
func (s *analysisStore) Save(ctx context.Context, result domain.AnalysisResult) error {
	if result.ID == "" {
		return domain.ErrInvalidInput
	}

	files := result.FilesAnalyzed
	if files == nil {
		files = []string{}
	}
	filesJSON, err := json.Marshal(files)
	if err != nil {
		return fmt.Errorf("marshalling files: %w", err)
	}

	if result.CreatedAt.IsZero() {
		result.CreatedAt = time.Now()
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO analyses (`+analysisColumns+`)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			response = excluded.response,
			total_files = excluded.total_files,
			files_analyzed = excluded.files_analyzed,
			model_used = excluded.model_used,
			created_at = excluded.created_at
	`, result.ID, result.Response, result.TotalFiles, string(filesJSON),
		nullString(result.ModelUsed), result.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("saving analysis: %w", err)
	}
	return nil
}

// Get retrieves an analysis by ID.
func (s *analysisStore) Get(ctx context.Context, id string) (*domain.AnalysisResult, error) {
	row := s.store.db.QueryRowContext(ctx,
		`SELECT `+analysisColumns+` FROM analyses WHERE id = ?`, id)
	return scanAnalysis(row)
}

// Latest returns the most recently created analysis.
func (s *analysisStore) Latest(ctx context.Context) (*domain.AnalysisResult, error) {
	row := s.store.db.QueryRowContext(ctx,
		`SELECT `+analysisColumns+` FROM analyses ORDER BY created_at DESC, rowid DESC LIMIT 1`)
	return scanAnalysis(row)
}

// List returns up to limit analyses, newest first. A non-positive limit lists all.
func (s *analysisStore) List(ctx context.Context, limit int) ([]domain.AnalysisResult, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.store.db.QueryContext(ctx,
		`SELECT `+analysisColumns+` FROM analyses ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying analyses: %w", err)
	}
	defer rows.Close()

	var results []domain.AnalysisResult //nolint:prealloc // size unknown from query
	for rows.Next() {
		result, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating analyses: %w", err)
	}

	return results, nil
}

// Delete removes an analysis and the sheets generated from it.
func (s *analysisStore) Delete(ctx context.Context, id string) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, "DELETE FROM analyses WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting analysis: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM sheets WHERE analysis_id = ?", id); err != nil {
		return fmt.Errorf("deleting sheets: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing delete: %w", err)
	}
	return nil
}

// ==================== Sheet Store ====================

// sheetStore implements driven.SheetStore.
type sheetStore struct {
	store *Store
}

var _ driven.SheetStore = (*sheetStore)(nil)

const sheetColumns = `id, analysis_id, text, model_used, quality_score, quality_label, page1, page2, created_at`

// Save stores or replaces a reference sheet.
func (s *sheetStore) Save(ctx context.Context, sheet domain.ReferenceSheet) error {
	if sheet.ID == "" {
		return domain.ErrInvalidInput
	}
	if sheet.CreatedAt.IsZero() {
		sheet.CreatedAt = time.Now()
	}

	var score sql.NullFloat64
	var label sql.NullString
	if q := sheet.Quality; q != nil {
		if q.Numeric {
			score = sql.NullFloat64{Float64: q.Score, Valid: true}
		} else {
			label = sql.NullString{String: q.Label, Valid: true}
		}
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO sheets (`+sheetColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			analysis_id = excluded.analysis_id,
			text = excluded.text,
			model_used = excluded.model_used,
			quality_score = excluded.quality_score,
			quality_label = excluded.quality_label,
			page1 = excluded.page1,
			page2 = excluded.page2,
			created_at = excluded.created_at
	`, sheet.ID, nullString(sheet.AnalysisID), sheet.Text, nullString(sheet.ModelUsed),
		score, label, sheet.Pages.First, sheet.Pages.Second, sheet.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("saving sheet: %w", err)
	}
	return nil
}

// Get retrieves a sheet by ID.
func (s *sheetStore) Get(ctx context.Context, id string) (*domain.ReferenceSheet, error) {
	row := s.store.db.QueryRowContext(ctx,
		`SELECT `+sheetColumns+` FROM sheets WHERE id = ?`, id)
	return scanSheet(row)
}

// Latest returns the most recently created sheet.
func (s *sheetStore) Latest(ctx context.Context) (*domain.ReferenceSheet, error) {
	row := s.store.db.QueryRowContext(ctx,
		`SELECT `+sheetColumns+` FROM sheets ORDER BY created_at DESC, rowid DESC LIMIT 1`)
	return scanSheet(row)
}

// ListByAnalysis returns the sheets for an analysis, newest first.
func (s *sheetStore) ListByAnalysis(ctx context.Context, analysisID string) ([]domain.ReferenceSheet, error) {
	rows, err := s.store.db.QueryContext(ctx,
		`SELECT `+sheetColumns+` FROM sheets WHERE analysis_id = ? ORDER BY created_at DESC, rowid DESC`,
		analysisID)
	if err != nil {
		return nil, fmt.Errorf("querying sheets: %w", err)
	}
	defer rows.Close()

	var sheets []domain.ReferenceSheet //nolint:prealloc // size unknown from query
	for rows.Next() {
		sheet, err := scanSheet(rows)
		if err != nil {
			return nil, err
		}
		sheets = append(sheets, *sheet)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sheets: %w", err)
	}

	return sheets, nil
}

// ==================== Helpers ====================

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanAnalysis(row scanner) (*domain.AnalysisResult, error) {
	var result domain.AnalysisResult
	var filesJSON string
	var modelUsed sql.NullString
	var createdAt sql.NullTime
	if err := row.Scan(&result.ID, &result.Response, &result.TotalFiles, &filesJSON,
		&modelUsed, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning analysis: %w", err)
	}

	if err := json.Unmarshal([]byte(filesJSON), &result.FilesAnalyzed); err != nil {
		return nil, fmt.Errorf("unmarshaling files: %w", err)
	}
	result.ModelUsed = modelUsed.String
	if createdAt.Valid {
		result.CreatedAt = createdAt.Time
	}

	return &result, nil
}

func scanSheet(row scanner) (*domain.ReferenceSheet, error) {
	var sheet domain.ReferenceSheet
	var analysisID, modelUsed, label sql.NullString
	var score sql.NullFloat64
	var createdAt sql.NullTime
	if err := row.Scan(&sheet.ID, &analysisID, &sheet.Text, &modelUsed, &score, &label,
		&sheet.Pages.First, &sheet.Pages.Second, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning sheet: %w", err)
	}

	sheet.AnalysisID = analysisID.String
	sheet.ModelUsed = modelUsed.String
	switch {
	case score.Valid:
		sheet.Quality = &domain.SheetQuality{Score: score.Float64, Numeric: true}
	case label.Valid:
		sheet.Quality = &domain.SheetQuality{Label: label.String}
	}
	if createdAt.Valid {
		sheet.CreatedAt = createdAt.Time
	}

	return &sheet, nil
}

// nullString converts an empty string to NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
