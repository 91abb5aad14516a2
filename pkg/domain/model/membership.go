package model

import "time"

// Membership records that a work item is scoped into a specific
// iteration. Its existence is the source of truth for "item is in
// iteration", independent of the item's workflow status. An item has
// at most one live membership at a time.
type Membership struct {
	ItemID          int64
	IterationID     int64
	CommittedPoints int
	ActualPoints    *int
	AddedAt         time.Time
	CompletedAt     *time.Time
}
