// Package storage provides abstractions for the run archive.
package storage

import (
	"context"
	"errors"

	"github.com/jastipin/billing/internal/models"
)

// ErrRunNotFound is returned when a run ID is unknown to the archive.
var ErrRunNotFound = errors.New("run not found")

// Store defines the interface for archiving parsing runs. The archive is
// write-once per run; live parsing never depends on it. The abstraction
// allows swapping storage backends without changing the service layer.
type Store interface {
	// SaveRun persists a run snapshot. run.ID and run.CreatedAt are
	// populated by the store when unset.
	SaveRun(ctx context.Context, run *models.Run) error

	// GetRun retrieves a run by ID, including its full Ledger.
	// Returns ErrRunNotFound for unknown IDs.
	GetRun(ctx context.Context, id string) (*models.Run, error)

	// ListRuns returns summaries of all archived runs, newest first.
	ListRuns(ctx context.Context) ([]models.RunSummary, error)

	// Close releases any resources held by the store.
	Close() error
}
