package interfaces

import (
	"context"

	"github.com/stride-hq/stride/pkg/domain/model"
	"github.com/stride-hq/stride/pkg/domain/types"
)

// IterationRepository defines the interface for iteration data access
type IterationRepository interface {
	// Create creates a new iteration with auto-generated ID
	Create(ctx context.Context, iteration *model.Iteration) (*model.Iteration, error)

	// Get retrieves an iteration by ID
	Get(ctx context.Context, id int64) (*model.Iteration, error)

	// ListByProject retrieves all iterations of a project, newest
	// first
	ListByProject(ctx context.Context, projectID int64) ([]*model.Iteration, error)

	// Update updates an existing iteration
	Update(ctx context.Context, iteration *model.Iteration) (*model.Iteration, error)

	// FindByProjectAndStatus retrieves the most recently started
	// iteration of a project in the given status. Returns nil, nil if
	// none matches.
	FindByProjectAndStatus(ctx context.Context, projectID int64, status types.IterationStatus) (*model.Iteration, error)
}
