// Package storage defines the persistence interface for pipeline runs.
package storage

import (
	"context"

	"github.com/clinscribe/clinscribe/internal/models"
)

// Storage defines run persistence operations.
type Storage interface {
	// Run operations
	CreateRun(ctx context.Context, run *models.Run) error
	GetRun(ctx context.Context, id string) (*models.Run, error)
	DeleteRun(ctx context.Context, id string) error
	ListRuns(ctx context.Context, offset, limit int) ([]*models.RunSummaryRow, error)

	// Stats
	CountRuns(ctx context.Context) (int64, error)

	Close() error
}
