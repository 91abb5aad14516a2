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

type membershipRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newMembershipRepository(client *firestore.Client) *membershipRepository {
	return &membershipRepository{
		client:           client,
		collectionPrefix: "",
	}
}

func (r *membershipRepository) membershipsCollection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_memberships"
	}
	return "memberships"
}

func membershipDocID(iterationID, itemID int64) string {
	return fmt.Sprintf("%d_%d", iterationID, itemID)
}

func (r *membershipRepository) Create(ctx context.Context, m *model.Membership) (*model.Membership, error) {
	created := *m
	if created.AddedAt.IsZero() {
		created.AddedAt = time.Now().UTC()
	}

	collection := r.client.Collection(r.membershipsCollection())
	docRef := collection.Doc(membershipDocID(m.IterationID, m.ItemID))

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		// the item must not be scoped into any iteration yet
		query := collection.Where("ItemID", "==", m.ItemID).Limit(1)
		iter := tx.Documents(query)
		defer iter.Stop()

		existing, err := iter.Next()
		if err != iterator.Done {
			if err != nil {
				return goerr.Wrap(err, "failed to query memberships", goerr.V("itemID", m.ItemID))
			}
			return goerr.Wrap(ErrAlreadyExists, "item is already scoped into an iteration",
				goerr.V("itemID", m.ItemID),
				goerr.V("doc_id", existing.Ref.ID),
			)
		}

		return tx.Set(docRef, &created)
	})
	if err != nil {
		return nil, err
	}

	return &created, nil
}

func (r *membershipRepository) Get(ctx context.Context, iterationID, itemID int64) (*model.Membership, error) {
	docSnap, err := r.client.Collection(r.membershipsCollection()).
		Doc(membershipDocID(iterationID, itemID)).
		Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "membership not found",
				goerr.V("iterationID", iterationID),
				goerr.V("itemID", itemID),
			)
		}
		return nil, goerr.Wrap(err, "failed to get membership",
			goerr.V("iterationID", iterationID),
			goerr.V("itemID", itemID),
		)
	}

	var m model.Membership
	if err := docSnap.DataTo(&m); err != nil {
		return nil, goerr.Wrap(err, "failed to decode membership", goerr.V("doc_id", docSnap.Ref.ID))
	}

	return &m, nil
}

func (r *membershipRepository) FindByItem(ctx context.Context, itemID int64) (*model.Membership, error) {
	iter := r.client.Collection(r.membershipsCollection()).
		Where("ItemID", "==", itemID).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	docSnap, err := iter.Next()
	if err == iterator.Done {
		return nil, nil
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query memberships", goerr.V("itemID", itemID))
	}

	var m model.Membership
	if err := docSnap.DataTo(&m); err != nil {
		return nil, goerr.Wrap(err, "failed to decode membership", goerr.V("doc_id", docSnap.Ref.ID))
	}

	return &m, nil
}

func (r *membershipRepository) ListByIteration(ctx context.Context, iterationID int64) ([]*model.Membership, error) {
	iter := r.client.Collection(r.membershipsCollection()).
		Where("IterationID", "==", iterationID).
		Documents(ctx)
	defer iter.Stop()

	var memberships []*model.Membership
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate memberships", goerr.V("iterationID", iterationID))
		}

		var m model.Membership
		if err := docSnap.DataTo(&m); err != nil {
			return nil, goerr.Wrap(err, "failed to decode membership", goerr.V("doc_id", docSnap.Ref.ID))
		}

		memberships = append(memberships, &m)
	}

	sort.Slice(memberships, func(i, j int) bool {
		return memberships[i].AddedAt.Before(memberships[j].AddedAt)
	})

	return memberships, nil
}

func (r *membershipRepository) Update(ctx context.Context, m *model.Membership) (*model.Membership, error) {
	docRef := r.client.Collection(r.membershipsCollection()).
		Doc(membershipDocID(m.IterationID, m.ItemID))

	if _, err := docRef.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "membership not found",
				goerr.V("iterationID", m.IterationID),
				goerr.V("itemID", m.ItemID),
			)
		}
		return nil, goerr.Wrap(err, "failed to check membership existence",
			goerr.V("iterationID", m.IterationID),
			goerr.V("itemID", m.ItemID),
		)
	}

	updated := *m
	if _, err := docRef.Set(ctx, &updated); err != nil {
		return nil, goerr.Wrap(err, "failed to update membership",
			goerr.V("iterationID", m.IterationID),
			goerr.V("itemID", m.ItemID),
		)
	}

	return &updated, nil
}

func (r *membershipRepository) Delete(ctx context.Context, iterationID, itemID int64) error {
	docRef := r.client.Collection(r.membershipsCollection()).
		Doc(membershipDocID(iterationID, itemID))

	if _, err := docRef.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "membership not found",
				goerr.V("iterationID", iterationID),
				goerr.V("itemID", itemID),
			)
		}
		return goerr.Wrap(err, "failed to check membership existence",
			goerr.V("iterationID", iterationID),
			goerr.V("itemID", itemID),
		)
	}

	if _, err := docRef.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete membership",
			goerr.V("iterationID", iterationID),
			goerr.V("itemID", itemID),
		)
	}

	return nil
}
