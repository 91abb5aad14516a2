package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/stride-hq/stride/pkg/domain/model"
)

type membershipKey struct {
	iterationID int64
	itemID      int64
}

type membershipRepository struct {
	mu          sync.RWMutex
	memberships map[membershipKey]*model.Membership
}

func newMembershipRepository() *membershipRepository {
	return &membershipRepository{
		memberships: make(map[membershipKey]*model.Membership),
	}
}

func copyMembership(m *model.Membership) *model.Membership {
	copied := *m
	if m.ActualPoints != nil {
		points := *m.ActualPoints
		copied.ActualPoints = &points
	}
	if m.CompletedAt != nil {
		completedAt := *m.CompletedAt
		copied.CompletedAt = &completedAt
	}
	return &copied
}

func (r *membershipRepository) Create(ctx context.Context, m *model.Membership) (*model.Membership, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := membershipKey{iterationID: m.IterationID, itemID: m.ItemID}
	if _, exists := r.memberships[key]; exists {
		return nil, goerr.Wrap(ErrAlreadyExists, "membership already exists",
			goerr.V("iterationID", m.IterationID),
			goerr.V("itemID", m.ItemID),
		)
	}
	for existing := range r.memberships {
		if existing.itemID == m.ItemID {
			return nil, goerr.Wrap(ErrAlreadyExists, "item is already scoped into another iteration",
				goerr.V("itemID", m.ItemID),
				goerr.V("iterationID", existing.iterationID),
			)
		}
	}

	created := copyMembership(m)
	if created.AddedAt.IsZero() {
		created.AddedAt = time.Now().UTC()
	}

	r.memberships[key] = created
	return copyMembership(created), nil
}

func (r *membershipRepository) Get(ctx context.Context, iterationID, itemID int64) (*model.Membership, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, exists := r.memberships[membershipKey{iterationID: iterationID, itemID: itemID}]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "membership not found",
			goerr.V("iterationID", iterationID),
			goerr.V("itemID", itemID),
		)
	}

	return copyMembership(m), nil
}

func (r *membershipRepository) FindByItem(ctx context.Context, itemID int64) (*model.Membership, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for key, m := range r.memberships {
		if key.itemID == itemID {
			return copyMembership(m), nil
		}
	}

	return nil, nil
}

func (r *membershipRepository) ListByIteration(ctx context.Context, iterationID int64) ([]*model.Membership, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	memberships := make([]*model.Membership, 0)
	for key, m := range r.memberships {
		if key.iterationID == iterationID {
			memberships = append(memberships, copyMembership(m))
		}
	}

	sort.Slice(memberships, func(i, j int) bool {
		return memberships[i].AddedAt.Before(memberships[j].AddedAt)
	})

	return memberships, nil
}

func (r *membershipRepository) Update(ctx context.Context, m *model.Membership) (*model.Membership, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := membershipKey{iterationID: m.IterationID, itemID: m.ItemID}
	if _, exists := r.memberships[key]; !exists {
		return nil, goerr.Wrap(ErrNotFound, "membership not found",
			goerr.V("iterationID", m.IterationID),
			goerr.V("itemID", m.ItemID),
		)
	}

	updated := copyMembership(m)
	r.memberships[key] = updated
	return copyMembership(updated), nil
}

func (r *membershipRepository) Delete(ctx context.Context, iterationID, itemID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := membershipKey{iterationID: iterationID, itemID: itemID}
	if _, exists := r.memberships[key]; !exists {
		return goerr.Wrap(ErrNotFound, "membership not found",
			goerr.V("iterationID", iterationID),
			goerr.V("itemID", itemID),
		)
	}

	delete(r.memberships, key)
	return nil
}
