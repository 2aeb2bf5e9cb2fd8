package repository

import (
	"context"

	"github.com/damon-houk/largest-banks-etl/internal/domain/entity"
)

// RunRepository defines the interface for ETL run history storage
type RunRepository interface {
	// Store saves or overwrites a run
	Store(ctx context.Context, run *entity.Run) error

	// FindByID retrieves a run by its unique identifier
	FindByID(ctx context.Context, id string) (*entity.Run, error)

	// Latest returns the most recently started run, or nil if none exists
	Latest(ctx context.Context) (*entity.Run, error)
}
