package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hyperjump/hansard/internal/models"
)

// SQLiteStorage implements Storage using SQLite.
type SQLiteStorage struct {
	db   *sql.DB
	path string
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

	return &SQLiteStorage{db: db, path: dbPath}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		subject TEXT NOT NULL,
		column_name TEXT NOT NULL,
		algorithm TEXT NOT NULL,
		vocabulary_size INTEGER NOT NULL,
		converged INTEGER NOT NULL,
		iterations INTEGER NOT NULL,
		num_documents INTEGER NOT NULL,
		num_clusters INTEGER NOT NULL,
		elapsed_ms INTEGER NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);

	CREATE TABLE IF NOT EXISTS run_documents (
		run_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		row_index INTEGER NOT NULL,
		text TEXT NOT NULL,
		label INTEGER NOT NULL,
		exemplar INTEGER NOT NULL,
		PRIMARY KEY (run_id, position),
		FOREIGN KEY (run_id) REFERENCES runs(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_run_documents_label ON run_documents(run_id, label);
	`
	_, err := db.Exec(schema)
	return err
}

// Path returns the database file path.
func (s *SQLiteStorage) Path() string {
	return s.path
}

// CreateRun inserts a run and its documents in one transaction. CreatedAt is set
// when zero.
func (s *SQLiteStorage) CreateRun(ctx context.Context, run *models.Run) error {
	if err := run.Validate(); err != nil {
		return err
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, subject, column_name, algorithm, vocabulary_size, converged,
		 iterations, num_documents, num_clusters, elapsed_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Subject, run.Column, run.Algorithm, run.VocabularySize, run.Converged,
		run.Iterations, run.NumDocuments, run.NumClusters, run.ElapsedMS, run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO run_documents (run_id, position, row_index, text, label, exemplar)
		 VALUES (?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, d := range run.Documents {
		if _, err := stmt.ExecContext(ctx, run.ID, d.Position, d.Row, d.Text, d.Label, d.Exemplar); err != nil {
			return fmt.Errorf("failed to insert document %d: %w", d.Position, err)
		}
	}
	return tx.Commit()
}

// GetRun returns a run by ID with its documents in corpus order.
func (s *SQLiteStorage) GetRun(ctx context.Context, id string) (*models.Run, error) {
	run, err := scanRun(s.db.QueryRowContext(ctx,
		`SELECT id, subject, column_name, algorithm, vocabulary_size, converged, iterations,
		 num_documents, num_clusters, elapsed_ms, created_at
		 FROM runs WHERE id = ?`, id,
	))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT position, row_index, text, label, exemplar
		 FROM run_documents WHERE run_id = ? ORDER BY position`, id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	run.Documents = []*models.RunDocument{}
	for rows.Next() {
		var d models.RunDocument
		if err := rows.Scan(&d.Position, &d.Row, &d.Text, &d.Label, &d.Exemplar); err != nil {
			return nil, err
		}
		run.Documents = append(run.Documents, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	run.Summarize()
	return run, nil
}

// ListRuns returns runs with offset and limit, newest first.
func (s *SQLiteStorage) ListRuns(ctx context.Context, offset, limit int) ([]*models.Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, subject, column_name, algorithm, vocabulary_size, converged, iterations,
		 num_documents, num_clusters, elapsed_ms, created_at
		 FROM runs ORDER BY created_at DESC, id LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*models.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// DeleteRun removes a run and its documents.
func (s *SQLiteStorage) DeleteRun(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM run_documents WHERE run_id = ?`, id); err != nil {
		return err
	}
	result, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return tx.Commit()
}

// CountRuns returns the total number of runs.
func (s *SQLiteStorage) CountRuns(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs`).Scan(&count)
	return count, err
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*models.Run, error) {
	var run models.Run
	err := row.Scan(&run.ID, &run.Subject, &run.Column, &run.Algorithm, &run.VocabularySize,
		&run.Converged, &run.Iterations, &run.NumDocuments, &run.NumClusters, &run.ElapsedMS,
		&run.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &run, nil
}
