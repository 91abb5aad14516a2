package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/stride-hq/stride/pkg/domain/model"
	"github.com/stride-hq/stride/pkg/domain/types"
)

type iterationRepository struct {
	mu         sync.RWMutex
	iterations map[int64]*model.Iteration
	nextID     int64
}

func newIterationRepository() *iterationRepository {
	return &iterationRepository{
		iterations: make(map[int64]*model.Iteration),
		nextID:     1,
	}
}

func copyIteration(it *model.Iteration) *model.Iteration {
	copied := *it
	if it.StartedAt != nil {
		startedAt := *it.StartedAt
		copied.StartedAt = &startedAt
	}
	if it.EndedAt != nil {
		endedAt := *it.EndedAt
		copied.EndedAt = &endedAt
	}
	return &copied
}

func (r *iterationRepository) Create(ctx context.Context, iteration *model.Iteration) (*model.Iteration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := copyIteration(iteration)
	created.ID = r.nextID
	created.CreatedAt = time.Now().UTC()
	r.nextID++

	r.iterations[created.ID] = created
	return copyIteration(created), nil
}

func (r *iterationRepository) Get(ctx context.Context, id int64) (*model.Iteration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	iteration, exists := r.iterations[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "iteration not found", goerr.V("id", id))
	}

	return copyIteration(iteration), nil
}

func (r *iterationRepository) ListByProject(ctx context.Context, projectID int64) ([]*model.Iteration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	iterations := make([]*model.Iteration, 0)
	for _, iteration := range r.iterations {
		if iteration.ProjectID == projectID {
			iterations = append(iterations, copyIteration(iteration))
		}
	}

	sort.Slice(iterations, func(i, j int) bool {
		return iterations[i].CreatedAt.After(iterations[j].CreatedAt)
	})

	return iterations, nil
}

func (r *iterationRepository) Update(ctx context.Context, iteration *model.Iteration) (*model.Iteration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.iterations[iteration.ID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "iteration not found", goerr.V("id", iteration.ID))
	}

	updated := copyIteration(iteration)
	updated.CreatedAt = existing.CreatedAt

	r.iterations[updated.ID] = updated
	return copyIteration(updated), nil
}

func (r *iterationRepository) FindByProjectAndStatus(ctx context.Context, projectID int64, status types.IterationStatus) (*model.Iteration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var found *model.Iteration
	for _, iteration := range r.iterations {
		if iteration.ProjectID != projectID || iteration.Status != status {
			continue
		}
		if found == nil || laterStart(iteration, found) {
			found = iteration
		}
	}

	if found == nil {
		return nil, nil
	}
	return copyIteration(found), nil
}

func laterStart(a, b *model.Iteration) bool {
	switch {
	case a.StartedAt == nil:
		return false
	case b.StartedAt == nil:
		return true
	default:
		return a.StartedAt.After(*b.StartedAt)
	}
}
