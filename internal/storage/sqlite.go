package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hyperjump/logsentry/internal/models"
)

// SQLiteHistory implements History using SQLite.
type SQLiteHistory struct {
	db *sql.DB
}

// NewSQLiteHistory opens or creates a SQLite database at dbPath and initializes the schema.
// Parent directories are created if they do not exist.
func NewSQLiteHistory(dbPath string) (*SQLiteHistory, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteHistory{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS analyses (
		id TEXT PRIMARY KEY,
		query TEXT NOT NULL,
		zone TEXT,
		client TEXT,
		app TEXT,
		version TEXT,
		rca TEXT,
		exact_matches INTEGER NOT NULL DEFAULT 0,
		similar_errors INTEGER NOT NULL DEFAULT 0,
		solutions INTEGER NOT NULL DEFAULT 0,
		total_errors INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_analyses_created_at ON analyses(created_at);
	CREATE INDEX IF NOT EXISTS idx_analyses_origin ON analyses(zone, client, app);
	`
	_, err := db.Exec(schema)
	return err
}

// SaveAnalysis inserts a completed analysis run.
func (s *SQLiteHistory) SaveAnalysis(ctx context.Context, record *models.AnalysisRecord) error {
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO analyses (id, query, zone, client, app, version, rca,
		                       exact_matches, similar_errors, solutions, total_errors, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID, record.Query,
		record.Origin.Zone, record.Origin.Client, record.Origin.App, record.Origin.Version,
		record.RCA, record.ExactMatches, record.SimilarErrors, record.Solutions,
		record.TotalErrors, record.CreatedAt,
	)
	return err
}

// GetAnalysis returns an analysis run by ID.
func (s *SQLiteHistory) GetAnalysis(ctx context.Context, id string) (*models.AnalysisRecord, error) {
	var record models.AnalysisRecord
	err := s.db.QueryRowContext(ctx,
		`SELECT id, query, zone, client, app, version, rca,
		        exact_matches, similar_errors, solutions, total_errors, created_at
		 FROM analyses WHERE id = ?`, id,
	).Scan(&record.ID, &record.Query,
		&record.Origin.Zone, &record.Origin.Client, &record.Origin.App, &record.Origin.Version,
		&record.RCA, &record.ExactMatches, &record.SimilarErrors, &record.Solutions,
		&record.TotalErrors, &record.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("analysis not found: %s", id)
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// ListAnalyses returns analysis runs newest first, with offset and limit.
func (s *SQLiteHistory) ListAnalyses(ctx context.Context, offset, limit int) ([]*models.AnalysisRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, query, zone, client, app, version, rca,
		        exact_matches, similar_errors, solutions, total_errors, created_at
		 FROM analyses ORDER BY created_at DESC LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*models.AnalysisRecord
	for rows.Next() {
		var record models.AnalysisRecord
		if err := rows.Scan(&record.ID, &record.Query,
			&record.Origin.Zone, &record.Origin.Client, &record.Origin.App, &record.Origin.Version,
			&record.RCA, &record.ExactMatches, &record.SimilarErrors, &record.Solutions,
			&record.TotalErrors, &record.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, &record)
	}
	return records, rows.Err()
}

// CountAnalyses returns the total number of stored runs.
func (s *SQLiteHistory) CountAnalyses(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM analyses`).Scan(&count)
	return count, err
}

// Close closes the database connection.
func (s *SQLiteHistory) Close() error {
	return s.db.Close()
}
