package firestore

import (
	"context"
	"fmt"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/stride-hq/stride/pkg/domain/model"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type workItemRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newWorkItemRepository(client *firestore.Client) *workItemRepository {
	return &workItemRepository{
		client:           client,
		collectionPrefix: "",
	}
}

func (r *workItemRepository) workItemsCollection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_work_items"
	}
	return "work_items"
}

func (r *workItemRepository) counterCollection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_counters"
	}
	return "counters"
}

func (r *workItemRepository) getNextID(ctx context.Context) (int64, error) {
	counterRef := r.client.Collection(r.counterCollection()).Doc("work_item_counter")

	var nextID int64
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(counterRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				nextID = 1
				return tx.Set(counterRef, map[string]interface{}{
					"value": nextID,
				})
			}
			return goerr.Wrap(err, "failed to get counter")
		}

		currentValue, err := doc.DataAt("value")
		if err != nil {
			return goerr.Wrap(err, "failed to get counter value")
		}

		val, ok := currentValue.(int64)
		if !ok {
			return goerr.New("counter value is not of type int64", goerr.V("value", currentValue))
		}
		nextID = val + 1
		return tx.Update(counterRef, []firestore.Update{
			{Path: "value", Value: nextID},
		})
	})

	if err != nil {
		return 0, goerr.Wrap(err, "failed to get next ID")
	}

	return nextID, nil
}

func (r *workItemRepository) Create(ctx context.Context, item *model.WorkItem) (*model.WorkItem, error) {
	nextID, err := r.getNextID(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get next ID")
	}

	now := time.Now().UTC()
	created := *item
	created.ID = nextID
	created.CreatedAt = now
	created.UpdatedAt = now

	docID := fmt.Sprintf("%d", created.ID)
	if _, err := r.client.Collection(r.workItemsCollection()).Doc(docID).Set(ctx, &created); err != nil {
		return nil, goerr.Wrap(err, "failed to create work item", goerr.V("id", created.ID))
	}

	return &created, nil
}

func (r *workItemRepository) Get(ctx context.Context, id int64) (*model.WorkItem, error) {
	docID := fmt.Sprintf("%d", id)
	docSnap, err := r.client.Collection(r.workItemsCollection()).Doc(docID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "work item not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get work item", goerr.V("id", id))
	}

	var item model.WorkItem
	if err := docSnap.DataTo(&item); err != nil {
		return nil, goerr.Wrap(err, "failed to decode work item", goerr.V("id", id))
	}

	return &item, nil
}

func (r *workItemRepository) ListByProject(ctx context.Context, projectID int64) ([]*model.WorkItem, error) {
	iter := r.client.Collection(r.workItemsCollection()).
		Where("ProjectID", "==", projectID).
		Documents(ctx)
	defer iter.Stop()

	var items []*model.WorkItem
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate work items", goerr.V("projectID", projectID))
		}

		var item model.WorkItem
		if err := docSnap.DataTo(&item); err != nil {
			return nil, goerr.Wrap(err, "failed to decode work item", goerr.V("doc_id", docSnap.Ref.ID))
		}

		items = append(items, &item)
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].Position < items[j].Position
	})

	return items, nil
}

func (r *workItemRepository) Update(ctx context.Context, item *model.WorkItem) (*model.WorkItem, error) {
	docID := fmt.Sprintf("%d", item.ID)
	docRef := r.client.Collection(r.workItemsCollection()).Doc(docID)

	docSnap, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "work item not found", goerr.V("id", item.ID))
		}
		return nil, goerr.Wrap(err, "failed to check work item existence", goerr.V("id", item.ID))
	}

	var existing model.WorkItem
	if err := docSnap.DataTo(&existing); err != nil {
		return nil, goerr.Wrap(err, "failed to decode work item", goerr.V("id", item.ID))
	}

	updated := *item
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	if _, err := docRef.Set(ctx, &updated); err != nil {
		return nil, goerr.Wrap(err, "failed to update work item", goerr.V("id", item.ID))
	}

	return &updated, nil
}

func (r *workItemRepository) Delete(ctx context.Context, id int64) error {
	docID := fmt.Sprintf("%d", id)
	docRef := r.client.Collection(r.workItemsCollection()).Doc(docID)

	if _, err := docRef.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "work item not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to check work item existence", goerr.V("id", id))
	}

	if _, err := docRef.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete work item", goerr.V("id", id))
	}

	return nil
}

func (r *workItemRepository) MaxPosition(ctx context.Context, projectID int64) (int, error) {
	iter := r.client.Collection(r.workItemsCollection()).
		Where("ProjectID", "==", projectID).
		OrderBy("Position", firestore.Desc).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	docSnap, err := iter.Next()
	if err == iterator.Done {
		return -1, nil
	}
	if err != nil {
		return 0, goerr.Wrap(err, "failed to query max position", goerr.V("projectID", projectID))
	}

	var item model.WorkItem
	if err := docSnap.DataTo(&item); err != nil {
		return 0, goerr.Wrap(err, "failed to decode work item", goerr.V("doc_id", docSnap.Ref.ID))
	}

	return item.Position, nil
}
