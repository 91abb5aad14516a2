package memory

import (
	"github.com/stride-hq/stride/pkg/domain/interfaces"
)

// Client is an in-memory implementation of interfaces.Repository,
// used for development and tests
type Client struct {
	workItem   *workItemRepository
	iteration  *iterationRepository
	membership *membershipRepository
	approval   *approvalRepository
}

var _ interfaces.Repository = &Client{}

// New creates a new in-memory repository
func New() *Client {
	return &Client{
		workItem:   newWorkItemRepository(),
		iteration:  newIterationRepository(),
		membership: newMembershipRepository(),
		approval:   newApprovalRepository(),
	}
}

func (c *Client) WorkItem() interfaces.WorkItemRepository {
	return c.workItem
}

func (c *Client) Iteration() interfaces.IterationRepository {
	return c.iteration
}

func (c *Client) Membership() interfaces.MembershipRepository {
	return c.membership
}

func (c *Client) Approval() interfaces.ApprovalRepository {
	return c.approval
}

func (c *Client) Close() error {
	return nil
}
