package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/stride-hq/stride/pkg/domain/model"
)

type workItemRepository struct {
	mu     sync.RWMutex
	items  map[int64]*model.WorkItem
	nextID int64
}

func newWorkItemRepository() *workItemRepository {
	return &workItemRepository{
		items:  make(map[int64]*model.WorkItem),
		nextID: 1,
	}
}

func copyWorkItem(item *model.WorkItem) *model.WorkItem {
	copied := *item
	if item.PointEstimate != nil {
		points := *item.PointEstimate
		copied.PointEstimate = &points
	}
	if item.ReviewedBy != nil {
		reviewer := *item.ReviewedBy
		copied.ReviewedBy = &reviewer
	}
	if item.ReviewedAt != nil {
		reviewedAt := *item.ReviewedAt
		copied.ReviewedAt = &reviewedAt
	}
	if item.BoardColumn != nil {
		column := *item.BoardColumn
		copied.BoardColumn = &column
	}
	return &copied
}

func (r *workItemRepository) Create(ctx context.Context, item *model.WorkItem) (*model.WorkItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	created := copyWorkItem(item)
	created.ID = r.nextID
	created.CreatedAt = now
	created.UpdatedAt = now
	r.nextID++

	r.items[created.ID] = created
	return copyWorkItem(created), nil
}

func (r *workItemRepository) Get(ctx context.Context, id int64) (*model.WorkItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, exists := r.items[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "work item not found", goerr.V("id", id))
	}

	return copyWorkItem(item), nil
}

func (r *workItemRepository) ListByProject(ctx context.Context, projectID int64) ([]*model.WorkItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]*model.WorkItem, 0)
	for _, item := range r.items {
		if item.ProjectID == projectID {
			items = append(items, copyWorkItem(item))
		}
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].Position < items[j].Position
	})

	return items, nil
}

func (r *workItemRepository) Update(ctx context.Context, item *model.WorkItem) (*model.WorkItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.items[item.ID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "work item not found", goerr.V("id", item.ID))
	}

	updated := copyWorkItem(item)
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	r.items[updated.ID] = updated
	return copyWorkItem(updated), nil
}

func (r *workItemRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[id]; !exists {
		return goerr.Wrap(ErrNotFound, "work item not found", goerr.V("id", id))
	}

	delete(r.items, id)
	return nil
}

func (r *workItemRepository) MaxPosition(ctx context.Context, projectID int64) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	maxPos := -1
	for _, item := range r.items {
		if item.ProjectID == projectID && item.Position > maxPos {
			maxPos = item.Position
		}
	}

	return maxPos, nil
}
