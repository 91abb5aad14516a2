package interfaces

import (
	"context"

	"github.com/stride-hq/stride/pkg/domain/model"
)

// WorkItemRepository defines the interface for work item data access
type WorkItemRepository interface {
	// Create creates a new work item with auto-generated ID
	Create(ctx context.Context, item *model.WorkItem) (*model.WorkItem, error)

	// Get retrieves a work item by ID
	Get(ctx context.Context, id int64) (*model.WorkItem, error)

	// ListByProject retrieves all work items of a project ordered by
	// position
	ListByProject(ctx context.Context, projectID int64) ([]*model.WorkItem, error)

	// Update updates an existing work item
	Update(ctx context.Context, item *model.WorkItem) (*model.WorkItem, error)

	// Delete deletes a work item by ID
	Delete(ctx context.Context, id int64) error

	// MaxPosition returns the highest ordering key used in a project,
	// or -1 when the project backlog is empty
	MaxPosition(ctx context.Context, projectID int64) (int, error)
}
