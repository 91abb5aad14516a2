package interfaces

// Repository defines the interface for data persistence
type Repository interface {
	WorkItem() WorkItemRepository
	Iteration() IterationRepository
	Membership() MembershipRepository
	Approval() ApprovalRepository

	Close() error
}
