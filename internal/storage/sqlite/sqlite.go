// Package sqlite provides a SQLite-backed implementation of the
// storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/jastipin/billing/internal/models"
	"github.com/jastipin/billing/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveRun persists a full run snapshot in one transaction.
func (s *SQLiteStore) SaveRun(ctx context.Context, run *models.Run) error {
	if run.Ledger == nil {
		return fmt.Errorf("run has no ledger")
	}
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.CreatedAt == 0 {
		run.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO runs (id, source, created_at) VALUES (?, ?, ?)",
		run.ID, run.Source, run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	for i, item := range run.Ledger.Items {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO run_items (run_id, idx, name, unit_price, unpriced) VALUES (?, ?, ?, ?, ?)",
			run.ID, i, item.Name, item.UnitPrice, boolToInt(item.Unpriced),
		)
		if err != nil {
			return fmt.Errorf("failed to insert item: %w", err)
		}
	}

	for i, c := range run.Ledger.Customers {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO run_customers (run_id, idx, key, display_name, phone) VALUES (?, ?, ?, ?, ?)",
			run.ID, i, c.Key, c.DisplayName, c.Phone,
		)
		if err != nil {
			return fmt.Errorf("failed to insert customer: %w", err)
		}
	}

	for i, e := range run.Ledger.Entries {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO run_entries (run_id, idx, customer_key, item_index, note, quantity) VALUES (?, ?, ?, ?, ?, ?)",
			run.ID, i, e.CustomerKey, e.ItemIndex, e.Note, e.Quantity,
		)
		if err != nil {
			return fmt.Errorf("failed to insert entry: %w", err)
		}
	}

	for i, d := range run.Ledger.Diagnostics {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO run_diagnostics (run_id, idx, kind, line, message) VALUES (?, ?, ?, ?, ?)",
			run.ID, i, string(d.Kind), d.Line, d.Message,
		)
		if err != nil {
			return fmt.Errorf("failed to insert diagnostic: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetRun retrieves a run by ID, rebuilding the full Ledger.
func (s *SQLiteStore) GetRun(ctx context.Context, id string) (*models.Run, error) {
	run := &models.Run{Ledger: &models.Ledger{}}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, source, created_at FROM runs WHERE id = ?", id,
	).Scan(&run.ID, &run.Source, &run.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, storage.ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT name, unit_price, unpriced FROM run_items WHERE run_id = ? ORDER BY idx", id)
	if err != nil {
		return nil, fmt.Errorf("failed to get items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var item models.Item
		var unpriced int
		if err := rows.Scan(&item.Name, &item.UnitPrice, &unpriced); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		item.Unpriced = unpriced != 0
		run.Ledger.Items = append(run.Ledger.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate items: %w", err)
	}

	custRows, err := s.db.QueryContext(ctx,
		"SELECT key, display_name, phone FROM run_customers WHERE run_id = ? ORDER BY idx", id)
	if err != nil {
		return nil, fmt.Errorf("failed to get customers: %w", err)
	}
	defer custRows.Close()
	for custRows.Next() {
		var c models.Customer
		if err := custRows.Scan(&c.Key, &c.DisplayName, &c.Phone); err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		run.Ledger.Customers = append(run.Ledger.Customers, c)
	}
	if err := custRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate customers: %w", err)
	}

	entryRows, err := s.db.QueryContext(ctx,
		"SELECT customer_key, item_index, note, quantity FROM run_entries WHERE run_id = ? ORDER BY idx", id)
	if err != nil {
		return nil, fmt.Errorf("failed to get entries: %w", err)
	}
	defer entryRows.Close()
	for entryRows.Next() {
		var e models.LedgerEntry
		if err := entryRows.Scan(&e.CustomerKey, &e.ItemIndex, &e.Note, &e.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		run.Ledger.Entries = append(run.Ledger.Entries, e)
	}
	if err := entryRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate entries: %w", err)
	}

	diagRows, err := s.db.QueryContext(ctx,
		"SELECT kind, line, message FROM run_diagnostics WHERE run_id = ? ORDER BY idx", id)
	if err != nil {
		return nil, fmt.Errorf("failed to get diagnostics: %w", err)
	}
	defer diagRows.Close()
	for diagRows.Next() {
		var d models.Diagnostic
		var kind string
		if err := diagRows.Scan(&kind, &d.Line, &d.Message); err != nil {
			return nil, fmt.Errorf("failed to scan diagnostic: %w", err)
		}
		d.Kind = models.DiagnosticKind(kind)
		run.Ledger.Diagnostics = append(run.Ledger.Diagnostics, d)
	}
	if err := diagRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate diagnostics: %w", err)
	}

	return run, nil
}

// ListRuns returns archive summaries, newest first.
func (s *SQLiteStore) ListRuns(ctx context.Context) ([]models.RunSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, r.source, r.created_at,
		       (SELECT COUNT(*) FROM run_items i WHERE i.run_id = r.id),
		       (SELECT COUNT(*) FROM run_customers c WHERE c.run_id = r.id),
		       (SELECT COUNT(*) FROM run_entries e WHERE e.run_id = r.id),
		       (SELECT COUNT(*) FROM run_diagnostics d WHERE d.run_id = r.id)
		FROM runs r
		ORDER BY r.created_at DESC, r.id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var out []models.RunSummary
	for rows.Next() {
		var sum models.RunSummary
		if err := rows.Scan(&sum.ID, &sum.Source, &sum.CreatedAt,
			&sum.ItemCount, &sum.CustomerCount, &sum.EntryCount, &sum.DiagnosticCount); err != nil {
			return nil, fmt.Errorf("failed to scan run summary: %w", err)
		}
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}
	return out, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
