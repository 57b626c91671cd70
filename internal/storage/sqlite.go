// Package storage provides SQLite implementation of the Storage interface.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/clinscribe/clinscribe/internal/models"
)

// SQLiteStorage implements Storage using SQLite.
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage opens or creates a SQLite database at dbPath and initializes the schema.
// Parent directories are created if they do not exist.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
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

	return &SQLiteStorage{db: db}, nil
}

func initSchema(db *sql.DB) error {
	// Flattened summary columns are duplicated from the output JSON so that
	// listings and exports never have to unmarshal the full envelope.
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		source TEXT,
		transcript TEXT NOT NULL,
		output TEXT NOT NULL,
		soap TEXT,
		patient_name TEXT,
		diagnosis TEXT,
		severity TEXT,
		sentiment TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
	CREATE INDEX IF NOT EXISTS idx_runs_source ON runs(source);
	`
	_, err := db.Exec(schema)
	return err
}

// CreateRun inserts a run. The flattened summary columns are derived from the
// run's output and SOAP note at insert time.
func (s *SQLiteStorage) CreateRun(ctx context.Context, run *models.Run) error {
	outputJSON, err := json.Marshal(run.Output)
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	var soapJSON string
	if run.SOAP != nil {
		b, err := json.Marshal(run.SOAP)
		if err != nil {
			return fmt.Errorf("failed to marshal soap note: %w", err)
		}
		soapJSON = string(b)
	}

	run.CreatedAt = time.Now()
	row := summaryRow(run)

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO runs (id, source, transcript, output, soap, patient_name, diagnosis, severity, sentiment, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Source, run.Transcript, string(outputJSON), soapJSON,
		row.PatientName, row.Diagnosis, row.Severity, row.Sentiment, run.CreatedAt,
	)
	return err
}

// summaryRow flattens a run into its listing view.
func summaryRow(run *models.Run) models.RunSummaryRow {
	row := models.RunSummaryRow{
		ID:        run.ID,
		Source:    run.Source,
		CreatedAt: run.CreatedAt,
	}
	if run.Output != nil {
		row.PatientName = run.Output.Summary.PatientName
		row.Diagnosis = run.Output.Summary.Diagnosis
		row.Sentiment = run.Output.SentimentAnalysis.Overall.DominantSentiment
	}
	if run.SOAP != nil {
		row.Severity = run.SOAP.Assessment.Severity
	}
	return row
}

// GetRun returns a run by ID.
func (s *SQLiteStorage) GetRun(ctx context.Context, id string) (*models.Run, error) {
	var run models.Run
	var outputJSON, soapJSON string

	err := s.db.QueryRowContext(ctx,
		`SELECT id, source, transcript, output, soap, created_at
		 FROM runs WHERE id = ?`, id,
	).Scan(&run.ID, &run.Source, &run.Transcript, &outputJSON, &soapJSON, &run.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run not found: %s", id)
	}
	if err != nil {
		return nil, err
	}

	if outputJSON != "" {
		if err := json.Unmarshal([]byte(outputJSON), &run.Output); err != nil {
			return nil, fmt.Errorf("failed to unmarshal output: %w", err)
		}
	}
	if soapJSON != "" {
		if err := json.Unmarshal([]byte(soapJSON), &run.SOAP); err != nil {
			return nil, fmt.Errorf("failed to unmarshal soap note: %w", err)
		}
	}

	return &run, nil
}

// DeleteRun removes a run by ID.
func (s *SQLiteStorage) DeleteRun(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	return err
}

// ListRuns returns flattened run rows with offset and limit, newest first.
func (s *SQLiteStorage) ListRuns(ctx context.Context, offset, limit int) ([]*models.RunSummaryRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source, patient_name, diagnosis, severity, sentiment, created_at
		 FROM runs ORDER BY created_at DESC LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.RunSummaryRow
	for rows.Next() {
		var row models.RunSummaryRow
		if err := rows.Scan(&row.ID, &row.Source, &row.PatientName, &row.Diagnosis, &row.Severity, &row.Sentiment, &row.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &row)
	}
	return out, rows.Err()
}

// CountRuns returns the total number of stored runs.
func (s *SQLiteStorage) CountRuns(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs`).Scan(&count)
	return count, err
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
