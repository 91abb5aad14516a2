package interfaces

import (
	"context"

	"github.com/stride-hq/stride/pkg/domain/model"
)

// MembershipRepository defines the interface for iteration membership
// data access. The (iteration, item) pair is unique.
type MembershipRepository interface {
	// Create creates a membership row. Fails with ErrAlreadyExists if
	// the pair already exists or the item is already scoped into
	// another iteration.
	Create(ctx context.Context, m *model.Membership) (*model.Membership, error)

	// Get retrieves the membership for an (iteration, item) pair
	Get(ctx context.Context, iterationID, itemID int64) (*model.Membership, error)

	// FindByItem retrieves the live membership of an item regardless
	// of iteration. Returns nil, nil if the item is not scoped into
	// any iteration.
	FindByItem(ctx context.Context, itemID int64) (*model.Membership, error)

	// ListByIteration retrieves all memberships of an iteration
	ListByIteration(ctx context.Context, iterationID int64) ([]*model.Membership, error)

	// Update updates an existing membership row
	Update(ctx context.Context, m *model.Membership) (*model.Membership, error)

	// Delete removes the membership for an (iteration, item) pair
	Delete(ctx context.Context, iterationID, itemID int64) error
}
