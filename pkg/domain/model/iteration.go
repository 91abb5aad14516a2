package model

import (
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/stride-hq/stride/pkg/domain/types"
)

// Iteration represents a time-boxed planning and execution cycle
// ("sprint")
type Iteration struct {
	ID          int64
	ProjectID   int64
	Name        string
	Goal        string
	StartDate   time.Time
	EndDate     time.Time
	LengthWeeks int
	Status      types.IterationStatus
	Capacity    int
	CreatedBy   int64
	CreatedAt   time.Time
	StartedAt   *time.Time
	EndedAt     *time.Time
}

// Validate checks required fields of an iteration
func (i *Iteration) Validate() error {
	if i.ProjectID == 0 {
		return goerr.New("iteration project ID is required")
	}
	if strings.TrimSpace(i.Name) == "" {
		return goerr.New("iteration name is required")
	}
	if i.LengthWeeks < 0 {
		return goerr.New("iteration length must not be negative", goerr.V("length_weeks", i.LengthWeeks))
	}
	if !i.StartDate.IsZero() && !i.EndDate.IsZero() && i.EndDate.Before(i.StartDate) {
		return goerr.New("iteration end date must not precede start date",
			goerr.V("start_date", i.StartDate), goerr.V("end_date", i.EndDate))
	}
	return nil
}

// HasGoal reports whether the iteration goal is non-empty after
// trimming whitespace. Starting an iteration requires a goal.
func (i *Iteration) HasGoal() bool {
	return strings.TrimSpace(i.Goal) != ""
}
