// Package history keeps a local ledger of submitted jobs so past
// generations can be listed and re-downloaded without the API.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
)

// Job kinds recorded in the ledger
const (
	KindGeneration = "generation"
	KindMotion     = "motion"
	KindVariation  = "variation"
)

// Job statuses recorded in the ledger
const (
	StatusPending  = "pending"
	StatusComplete = "complete"
	StatusFailed   = "failed"
)

// ErrNotFound is returned when no entry has the given ID
var ErrNotFound = errors.New("history entry not found")

// Entry is one submitted job as recorded locally. Files holds a JSON
// array of downloaded file paths.
type Entry struct {
	ID        string    `db:"id"`
	Kind      string    `db:"kind"`
	Prompt    string    `db:"prompt"`
	ModelID   string    `db:"model_id"`
	Status    string    `db:"status"`
	BatchID   string    `db:"batch_id"`
	Files     string    `db:"files"`
	Error     string    `db:"error"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// FileList decodes the stored file paths
func (e *Entry) FileList() []string {
	if e.Files == "" {
		return nil
	}
	var files []string
	if err := json.Unmarshal([]byte(e.Files), &files); err != nil {
		return nil
	}
	return files
}

// DefaultPath returns the per-user history database path
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".leonardo-cli", "history.db"), nil
}

// Store handles all database operations for the job ledger
type Store struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a new Store instance
func NewStore(db *sqlx.DB, logger *slog.Logger) *Store {
	return &Store{
		db:     db,
		logger: logger,
	}
}

const schema = `
	CREATE TABLE IF NOT EXISTS jobs (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		prompt TEXT NOT NULL DEFAULT '',
		model_id TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		batch_id TEXT NOT NULL DEFAULT '',
		files TEXT NOT NULL DEFAULT '',
		error TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_jobs_status ON jobs(status);
	CREATE INDEX IF NOT EXISTS idx_jobs_batch ON jobs(batch_id);
`

// Init creates the schema when missing
func (s *Store) Init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}

// Record inserts a new entry, stamping creation time. Entries without
// an explicit status start as pending.
func (s *Store) Record(ctx context.Context, entry *Entry) error {
	now := time.Now().UTC()
	entry.CreatedAt = now
	entry.UpdatedAt = now
	if entry.Status == "" {
		entry.Status = StatusPending
	}

	query := `
		INSERT INTO jobs (id, kind, prompt, model_id, status, batch_id, files, error, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(
		ctx,
		query,
		entry.ID,
		entry.Kind,
		entry.Prompt,
		entry.ModelID,
		entry.Status,
		entry.BatchID,
		entry.Files,
		entry.Error,
		entry.CreatedAt,
		entry.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to record job: %w", err)
	}

	s.logger.Debug("Job recorded",
		slog.String("job_id", entry.ID),
		slog.String("kind", entry.Kind),
	)

	return nil
}

// UpdateStatus marks an entry with its outcome and downloaded files
func (s *Store) UpdateStatus(ctx context.Context, id, status string, files []string, errorMsg string) error {
	var filesJSON string
	if len(files) > 0 {
		data, err := json.Marshal(files)
		if err != nil {
			return fmt.Errorf("failed to marshal file list: %w", err)
		}
		filesJSON = string(data)
	}

	query := `
		UPDATE jobs
		SET status = ?, files = ?, error = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := s.db.ExecContext(ctx, query, status, filesJSON, errorMsg, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update job status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	s.logger.Debug("Job status updated",
		slog.String("job_id", id),
		slog.String("status", status),
	)

	return nil
}

// Get retrieves an entry by job ID
func (s *Store) Get(ctx context.Context, id string) (*Entry, error) {
	query := `
		SELECT id, kind, prompt, model_id, status, batch_id, files, error, created_at, updated_at
		FROM jobs
		WHERE id = ?
	`

	var entry Entry
	if err := s.db.GetContext(ctx, &entry, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	return &entry, nil
}

// Filter narrows List results
type Filter struct {
	Kind    string
	Status  string
	BatchID string
	Limit   int
}

// List returns entries newest first
func (s *Store) List(ctx context.Context, filter Filter) ([]Entry, error) {
	query := `
		SELECT id, kind, prompt, model_id, status, batch_id, files, error, created_at, updated_at
		FROM jobs
		WHERE 1=1
	`
	args := []interface{}{}

	if filter.Kind != "" {
		query += " AND kind = ?"
		args = append(args, filter.Kind)
	}

	if filter.Status != "" {
		query += " AND status = ?"
		args = append(args, filter.Status)
	}

	if filter.BatchID != "" {
		query += " AND batch_id = ?"
		args = append(args, filter.BatchID)
	}

	query += " ORDER BY created_at DESC, id DESC"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	var entries []Entry
	if err := s.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}

	return entries, nil
}
