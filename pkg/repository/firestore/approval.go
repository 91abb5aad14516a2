package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/stride-hq/stride/pkg/domain/model"
	"github.com/stride-hq/stride/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type approvalRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newApprovalRepository(client *firestore.Client) *approvalRepository {
	return &approvalRepository{
		client:           client,
		collectionPrefix: "",
	}
}

func (r *approvalRepository) approvalsCollection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_approvals"
	}
	return "approvals"
}

func approvalDocID(itemID, iterationID, approverID int64) string {
	return fmt.Sprintf("%d_%d_%d", itemID, iterationID, approverID)
}

func (r *approvalRepository) CreateBatch(ctx context.Context, records []*model.ApprovalRecord) error {
	if len(records) == 0 {
		return nil
	}

	itemID := records[0].ItemID
	iterationID := records[0].IterationID
	collection := r.client.Collection(r.approvalsCollection())

	now := time.Now().UTC()
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		query := collection.
			Where("ItemID", "==", itemID).
			Where("IterationID", "==", iterationID).
			Limit(1)
		iter := tx.Documents(query)
		defer iter.Stop()

		if _, err := iter.Next(); err != iterator.Done {
			if err != nil {
				return goerr.Wrap(err, "failed to query approvals",
					goerr.V("itemID", itemID),
					goerr.V("iterationID", iterationID),
				)
			}
			return goerr.Wrap(ErrAlreadyExists, "approval records already exist for this request",
				goerr.V("itemID", itemID),
				goerr.V("iterationID", iterationID),
			)
		}

		for _, rec := range records {
			created := *rec
			if created.RequestedAt.IsZero() {
				created.RequestedAt = now
			}
			docRef := collection.Doc(approvalDocID(rec.ItemID, rec.IterationID, rec.ApproverID))
			if err := tx.Set(docRef, &created); err != nil {
				return goerr.Wrap(err, "failed to create approval record", goerr.V("doc_id", docRef.ID))
			}
		}

		return nil
	})

	return err
}

func (r *approvalRepository) Get(ctx context.Context, itemID, iterationID, approverID int64) (*model.ApprovalRecord, error) {
	docSnap, err := r.client.Collection(r.approvalsCollection()).
		Doc(approvalDocID(itemID, iterationID, approverID)).
		Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "approval record not found",
				goerr.V("itemID", itemID),
				goerr.V("iterationID", iterationID),
				goerr.V("approverID", approverID),
			)
		}
		return nil, goerr.Wrap(err, "failed to get approval record",
			goerr.V("itemID", itemID),
			goerr.V("iterationID", iterationID),
			goerr.V("approverID", approverID),
		)
	}

	var rec model.ApprovalRecord
	if err := docSnap.DataTo(&rec); err != nil {
		return nil, goerr.Wrap(err, "failed to decode approval record", goerr.V("doc_id", docSnap.Ref.ID))
	}

	return &rec, nil
}

func (r *approvalRepository) ListByPair(ctx context.Context, itemID, iterationID int64) ([]*model.ApprovalRecord, error) {
	query := r.client.Collection(r.approvalsCollection()).
		Where("ItemID", "==", itemID).
		Where("IterationID", "==", iterationID)
	return r.listByQuery(ctx, query)
}

func (r *approvalRepository) ListByIteration(ctx context.Context, iterationID int64) ([]*model.ApprovalRecord, error) {
	query := r.client.Collection(r.approvalsCollection()).
		Where("IterationID", "==", iterationID)
	return r.listByQuery(ctx, query)
}

func (r *approvalRepository) ListPendingByApprover(ctx context.Context, approverID int64) ([]*model.ApprovalRecord, error) {
	query := r.client.Collection(r.approvalsCollection()).
		Where("ApproverID", "==", approverID).
		Where("Status", "==", string(types.ApprovalStatusPending))
	return r.listByQuery(ctx, query)
}

func (r *approvalRepository) ListPendingOlderThan(ctx context.Context, cutoff time.Time) ([]*model.ApprovalRecord, error) {
	query := r.client.Collection(r.approvalsCollection()).
		Where("Status", "==", string(types.ApprovalStatusPending)).
		Where("RequestedAt", "<", cutoff)
	return r.listByQuery(ctx, query)
}

func (r *approvalRepository) listByQuery(ctx context.Context, query firestore.Query) ([]*model.ApprovalRecord, error) {
	iter := query.Documents(ctx)
	defer iter.Stop()

	var records []*model.ApprovalRecord
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate approval records")
		}

		var rec model.ApprovalRecord
		if err := docSnap.DataTo(&rec); err != nil {
			return nil, goerr.Wrap(err, "failed to decode approval record", goerr.V("doc_id", docSnap.Ref.ID))
		}

		records = append(records, &rec)
	}

	return records, nil
}

func (r *approvalRepository) Resolve(ctx context.Context, itemID, iterationID, approverID int64, decision types.ApprovalStatus, reason string) (*model.ApprovalRecord, error) {
	docRef := r.client.Collection(r.approvalsCollection()).
		Doc(approvalDocID(itemID, iterationID, approverID))

	var resolved model.ApprovalRecord
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		docSnap, err := tx.Get(docRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return goerr.Wrap(ErrNotFound, "approval record not found",
					goerr.V("itemID", itemID),
					goerr.V("iterationID", iterationID),
					goerr.V("approverID", approverID),
				)
			}
			return goerr.Wrap(err, "failed to get approval record", goerr.V("doc_id", docRef.ID))
		}

		var rec model.ApprovalRecord
		if err := docSnap.DataTo(&rec); err != nil {
			return goerr.Wrap(err, "failed to decode approval record", goerr.V("doc_id", docRef.ID))
		}

		if rec.Status != types.ApprovalStatusPending {
			return goerr.Wrap(ErrConflict, "approval already resolved",
				goerr.V("itemID", itemID),
				goerr.V("iterationID", iterationID),
				goerr.V("approverID", approverID),
				goerr.V("status", rec.Status),
			)
		}

		now := time.Now().UTC()
		rec.Status = decision
		rec.RejectionReason = reason
		rec.RespondedAt = &now
		resolved = rec

		return tx.Set(docRef, &rec)
	})
	if err != nil {
		return nil, err
	}

	return &resolved, nil
}

func (r *approvalRepository) DeleteByPair(ctx context.Context, itemID, iterationID int64) error {
	query := r.client.Collection(r.approvalsCollection()).
		Where("ItemID", "==", itemID).
		Where("IterationID", "==", iterationID)
	return r.deleteByQuery(ctx, query)
}

func (r *approvalRepository) DeleteByIteration(ctx context.Context, iterationID int64) error {
	query := r.client.Collection(r.approvalsCollection()).
		Where("IterationID", "==", iterationID)
	return r.deleteByQuery(ctx, query)
}

func (r *approvalRepository) deleteByQuery(ctx context.Context, query firestore.Query) error {
	iter := query.Documents(ctx)
	defer iter.Stop()

	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return goerr.Wrap(err, "failed to iterate approval records")
		}

		if _, err := docSnap.Ref.Delete(ctx); err != nil {
			return goerr.Wrap(err, "failed to delete approval record", goerr.V("doc_id", docSnap.Ref.ID))
		}
	}

	return nil
}
