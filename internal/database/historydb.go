package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/trackscrape/internal/model"
)

// FileName is the name of the database file inside the data directory.
const FileName = "trackscrape.db"

// ErrNilReport is returned when SaveReport is called without a report.
var ErrNilReport = errors.New("report is nil")

// HistoryDB stores completed lookups.
// It satisfies pipeline.Recorder.
//
// Design decision: The full report is kept as JSON next to a handful of
// summary columns. Listing history only reads the columns; the report is
// decoded when one entry is shown.
type HistoryDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a HistoryDB in dbDir.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (run a lookup first to create it)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// mode=rw refuses to create a missing file; mode=rwc allows it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Path returns the database file path.
func (hdb *HistoryDB) Path() string {
	return hdb.dbPath
}

// Close closes the database connection.
func (hdb *HistoryDB) Close() error {
	return hdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (hdb *HistoryDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS lookups (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		query TEXT NOT NULL,
		url TEXT NOT NULL,
		track_name TEXT,
		course_count INTEGER DEFAULT 0,
		warning_count INTEGER DEFAULT 0,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		report_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_lookups_query ON lookups(query);
	CREATE INDEX IF NOT EXISTS idx_lookups_url ON lookups(url);
	CREATE INDEX IF NOT EXISTS idx_lookups_timestamp ON lookups(timestamp);
	`

	_, err := hdb.db.ExecContext(context.Background(), schema)
	return err
}

// SaveReport stores a completed report.
// Reports created from a URL rather than a query are stored under their URL.
func (hdb *HistoryDB) SaveReport(ctx context.Context, report *model.TrackReport) error {
	if report == nil {
		return ErrNilReport
	}

	reportJSON, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to serialize report: %w", err)
	}

	query := report.Query
	if query == "" {
		query = report.URL
	}

	var trackName string
	var courseCount int
	if report.Track != nil {
		trackName = report.Track.Name
		courseCount = len(report.Track.Courses)
	}

	_, err = hdb.db.ExecContext(ctx, `
	INSERT INTO lookups (query, url, track_name, course_count, warning_count, report_json)
	VALUES (?, ?, ?, ?, ?, ?)
	`,
		query,
		report.URL,
		trackName,
		courseCount,
		len(report.Warnings),
		string(reportJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}

	return nil
}

// GetLatestReport retrieves the most recent report for a query.
// It returns nil without an error when the query was never stored.
func (hdb *HistoryDB) GetLatestReport(ctx context.Context, query string) (*model.TrackReport, error) {
	row := hdb.db.QueryRowContext(ctx, `
	SELECT report_json FROM lookups
	WHERE query = ?
	ORDER BY timestamp DESC, id DESC
	LIMIT 1
	`, query)
	return scanReport(row)
}

// GetReportByID retrieves a report by its database ID.
// It returns nil without an error when no such entry exists.
func (hdb *HistoryDB) GetReportByID(ctx context.Context, id int64) (*model.TrackReport, error) {
	row := hdb.db.QueryRowContext(ctx, `SELECT report_json FROM lookups WHERE id = ?`, id)
	return scanReport(row)
}

// scanReport decodes the report_json column of row.
func scanReport(row *sql.Row) (*model.TrackReport, error) {
	var reportJSON string
	err := row.Scan(&reportJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}

	var report model.TrackReport
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}
	return &report, nil
}

// ListQueries returns every stored query in alphabetical order.
func (hdb *HistoryDB) ListQueries(ctx context.Context) ([]string, error) {
	rows, err := hdb.db.QueryContext(ctx, `
	SELECT DISTINCT query FROM lookups
	ORDER BY query
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list queries: %w", err)
	}
	defer rows.Close()

	queries := make([]string, 0)
	for rows.Next() {
		var q string
		if err := rows.Scan(&q); err != nil {
			return nil, fmt.Errorf("failed to scan query: %w", err)
		}
		queries = append(queries, q)
	}

	return queries, rows.Err()
}

// LookupMetadata contains summary information about one stored lookup.
// This is used for displaying history without loading the full report.
type LookupMetadata struct {
	// ID is the unique identifier of the entry in the database.
	ID int64 `json:"id"`

	// Query is the search query, or the URL when none was given.
	Query string `json:"query"`

	// URL is the track page URL.
	URL string `json:"url"`

	// TrackName is the extracted title.
	TrackName string `json:"track_name"`

	// CourseCount is the number of listed courses.
	CourseCount int `json:"course_count"`

	// WarningCount is the number of degraded enrichments.
	WarningCount int `json:"warning_count"`

	// Timestamp is when the lookup was stored.
	Timestamp time.Time `json:"timestamp"`
}

// GetHistory returns metadata for stored lookups, newest first.
// An empty query lists every lookup. A limit of zero or less means no limit.
func (hdb *HistoryDB) GetHistory(ctx context.Context, query string, limit int) ([]LookupMetadata, error) {
	stmt := `
	SELECT id, query, url, track_name, course_count, warning_count, timestamp
	FROM lookups
	WHERE 1=1
	`
	args := make([]any, 0, 2)

	if query != "" {
		stmt += " AND query = ?"
		args = append(args, query)
	}

	stmt += " ORDER BY timestamp DESC, id DESC"

	if limit > 0 {
		stmt += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := hdb.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}
	defer rows.Close()

	results := make([]LookupMetadata, 0)
	for rows.Next() {
		var meta LookupMetadata
		var trackName sql.NullString
		var timestamp string

		if err := rows.Scan(
			&meta.ID,
			&meta.Query,
			&meta.URL,
			&trackName,
			&meta.CourseCount,
			&meta.WarningCount,
			&timestamp,
		); err != nil {
			return nil, fmt.Errorf("failed to scan metadata: %w", err)
		}

		meta.TrackName = trackName.String
		meta.Timestamp = parseTimestamp(timestamp)
		results = append(results, meta)
	}

	return results, rows.Err()
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
