package firestore

import (
	"context"
	"fmt"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/stride-hq/stride/pkg/domain/model"
	"github.com/stride-hq/stride/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type iterationRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newIterationRepository(client *firestore.Client) *iterationRepository {
	return &iterationRepository{
		client:           client,
		collectionPrefix: "",
	}
}

func (r *iterationRepository) iterationsCollection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_iterations"
	}
	return "iterations"
}

func (r *iterationRepository) counterCollection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_counters"
	}
	return "counters"
}

func (r *iterationRepository) getNextID(ctx context.Context) (int64, error) {
	counterRef := r.client.Collection(r.counterCollection()).Doc("iteration_counter")

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

func (r *iterationRepository) Create(ctx context.Context, iteration *model.Iteration) (*model.Iteration, error) {
	nextID, err := r.getNextID(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get next ID")
	}

	created := *iteration
	created.ID = nextID
	created.CreatedAt = time.Now().UTC()

	docID := fmt.Sprintf("%d", created.ID)
	if _, err := r.client.Collection(r.iterationsCollection()).Doc(docID).Set(ctx, &created); err != nil {
		return nil, goerr.Wrap(err, "failed to create iteration", goerr.V("id", created.ID))
	}

	return &created, nil
}

func (r *iterationRepository) Get(ctx context.Context, id int64) (*model.Iteration, error) {
	docID := fmt.Sprintf("%d", id)
	docSnap, err := r.client.Collection(r.iterationsCollection()).Doc(docID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "iteration not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get iteration", goerr.V("id", id))
	}

	var iteration model.Iteration
	if err := docSnap.DataTo(&iteration); err != nil {
		return nil, goerr.Wrap(err, "failed to decode iteration", goerr.V("id", id))
	}

	return &iteration, nil
}

func (r *iterationRepository) ListByProject(ctx context.Context, projectID int64) ([]*model.Iteration, error) {
	iter := r.client.Collection(r.iterationsCollection()).
		Where("ProjectID", "==", projectID).
		Documents(ctx)
	defer iter.Stop()

	var iterations []*model.Iteration
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate iterations", goerr.V("projectID", projectID))
		}

		var iteration model.Iteration
		if err := docSnap.DataTo(&iteration); err != nil {
			return nil, goerr.Wrap(err, "failed to decode iteration", goerr.V("doc_id", docSnap.Ref.ID))
		}

		iterations = append(iterations, &iteration)
	}

	sort.Slice(iterations, func(i, j int) bool {
		return iterations[i].CreatedAt.After(iterations[j].CreatedAt)
	})

	return iterations, nil
}

func (r *iterationRepository) Update(ctx context.Context, iteration *model.Iteration) (*model.Iteration, error) {
	docID := fmt.Sprintf("%d", iteration.ID)
	docRef := r.client.Collection(r.iterationsCollection()).Doc(docID)

	docSnap, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "iteration not found", goerr.V("id", iteration.ID))
		}
		return nil, goerr.Wrap(err, "failed to check iteration existence", goerr.V("id", iteration.ID))
	}

	var existing model.Iteration
	if err := docSnap.DataTo(&existing); err != nil {
		return nil, goerr.Wrap(err, "failed to decode iteration", goerr.V("id", iteration.ID))
	}

	updated := *iteration
	updated.CreatedAt = existing.CreatedAt

	if _, err := docRef.Set(ctx, &updated); err != nil {
		return nil, goerr.Wrap(err, "failed to update iteration", goerr.V("id", iteration.ID))
	}

	return &updated, nil
}

func (r *iterationRepository) FindByProjectAndStatus(ctx context.Context, projectID int64, statusValue types.IterationStatus) (*model.Iteration, error) {
	iter := r.client.Collection(r.iterationsCollection()).
		Where("ProjectID", "==", projectID).
		Where("Status", "==", string(statusValue)).
		Documents(ctx)
	defer iter.Stop()

	var found *model.Iteration
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to query iterations",
				goerr.V("projectID", projectID),
				goerr.V("status", statusValue),
			)
		}

		var iteration model.Iteration
		if err := docSnap.DataTo(&iteration); err != nil {
			return nil, goerr.Wrap(err, "failed to decode iteration", goerr.V("doc_id", docSnap.Ref.ID))
		}

		if found == nil || startedAfter(&iteration, found) {
			found = &iteration
		}
	}

	return found, nil
}

func startedAfter(a, b *model.Iteration) bool {
	switch {
	case a.StartedAt == nil:
		return false
	case b.StartedAt == nil:
		return true
	default:
		return a.StartedAt.After(*b.StartedAt)
	}
}
