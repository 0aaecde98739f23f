// Package storage defines the persistence interface for clustering runs.
package storage

import (
	"context"
	"errors"

	"github.com/hyperjump/hansard/internal/models"
)

// ErrRunNotFound is returned when a run ID does not exist.
var ErrRunNotFound = errors.New("run not found")

// Storage defines run persistence operations.
type Storage interface {
	// CreateRun stores a run and all of its documents.
	CreateRun(ctx context.Context, run *models.Run) error
	// GetRun returns a run with its documents and cluster summary.
	GetRun(ctx context.Context, id string) (*models.Run, error)
	// ListRuns returns runs newest first, without documents.
	ListRuns(ctx context.Context, offset, limit int) ([]*models.Run, error)
	DeleteRun(ctx context.Context, id string) error

	CountRuns(ctx context.Context) (int64, error)

	Close() error
}
