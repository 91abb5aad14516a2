package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/stride-hq/stride/pkg/domain/types"
)

// WorkItem represents a unit of backlog work (story, epic, bug or
// technical task)
type WorkItem struct {
	ID                 int64
	ProjectID          int64
	Title              string
	Description        string
	Type               types.ItemType
	PointEstimate      *int
	Priority           int
	Position           int
	Status             types.ItemStatus
	AcceptanceCriteria string
	CreatedBy          int64
	CreatedByRole      types.Role
	ReviewedBy         *int64
	ReviewedAt         *time.Time
	RejectionReason    string

	// BoardColumn is only meaningful while the owning iteration is
	// ACTIVE. It is reset to the entry column when the iteration starts
	// and cleared when the item leaves iteration scope.
	BoardColumn *types.BoardColumn

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks required fields of a work item
func (w *WorkItem) Validate() error {
	if w.ProjectID == 0 {
		return goerr.New("work item project ID is required")
	}
	if w.Title == "" {
		return goerr.New("work item title is required")
	}
	if !w.Type.IsValid() {
		return goerr.New("invalid work item type", goerr.V("type", w.Type))
	}
	if w.PointEstimate != nil && *w.PointEstimate < 0 {
		return goerr.New("work item point estimate must not be negative", goerr.V("points", *w.PointEstimate))
	}
	return nil
}

// Points returns the point estimate, treating an unestimated item as
// zero points
func (w *WorkItem) Points() int {
	if w.PointEstimate == nil {
		return 0
	}
	return *w.PointEstimate
}
