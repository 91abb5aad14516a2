package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/stride-hq/stride/pkg/domain/interfaces"
)

type Firestore struct {
	client     *firestore.Client
	workItem   *workItemRepository
	iteration  *iterationRepository
	membership *membershipRepository
	approval   *approvalRepository
}

var _ interfaces.Repository = &Firestore{}

type Option func(*Firestore)

func WithCollectionPrefix(prefix string) Option {
	return func(f *Firestore) {
		f.workItem.collectionPrefix = prefix
		f.iteration.collectionPrefix = prefix
		f.membership.collectionPrefix = prefix
		f.approval.collectionPrefix = prefix
	}
}

func New(ctx context.Context, projectID string, opts ...Option) (*Firestore, error) {
	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client", goerr.V("projectID", projectID))
	}

	f := &Firestore{
		client:     client,
		workItem:   newWorkItemRepository(client),
		iteration:  newIterationRepository(client),
		membership: newMembershipRepository(client),
		approval:   newApprovalRepository(client),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

func (f *Firestore) WorkItem() interfaces.WorkItemRepository {
	return f.workItem
}

func (f *Firestore) Iteration() interfaces.IterationRepository {
	return f.iteration
}

func (f *Firestore) Membership() interfaces.MembershipRepository {
	return f.membership
}

func (f *Firestore) Approval() interfaces.ApprovalRepository {
	return f.approval
}

func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}
