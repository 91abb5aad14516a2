package types_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/stride-hq/stride/pkg/domain/types"
)

func TestItemStatus_IsValid(t *testing.T) {
	for _, status := range types.AllItemStatuses() {
		gt.B(t, status.IsValid()).True()
	}
	gt.B(t, types.ItemStatus("invalid").IsValid()).False()
	gt.B(t, types.ItemStatus("").IsValid()).False()
}

func TestItemStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name string
		from types.ItemStatus
		to   types.ItemStatus
		want bool
	}{
		{
			name: "backlog to pending approval",
			from: types.ItemStatusBacklog,
			to:   types.ItemStatusPendingApproval,
			want: true,
		},
		{
			name: "backlog to in sprint via direct admission",
			from: types.ItemStatusBacklog,
			to:   types.ItemStatusInSprint,
			want: true,
		},
		{
			name: "pending approval to sprint ready",
			from: types.ItemStatusPendingApproval,
			to:   types.ItemStatusSprintReady,
			want: true,
		},
		{
			name: "pending approval back to backlog on veto",
			from: types.ItemStatusPendingApproval,
			to:   types.ItemStatusBacklog,
			want: true,
		},
		{
			name: "sprint ready to in sprint",
			from: types.ItemStatusSprintReady,
			to:   types.ItemStatusInSprint,
			want: true,
		},
		{
			name: "in sprint to done",
			from: types.ItemStatusInSprint,
			to:   types.ItemStatusDone,
			want: true,
		},
		{
			name: "in sprint back to backlog on reset",
			from: types.ItemStatusInSprint,
			to:   types.ItemStatusBacklog,
			want: true,
		},
		{
			name: "done to accepted",
			from: types.ItemStatusDone,
			to:   types.ItemStatusAccepted,
			want: true,
		},
		{
			name: "backlog cannot skip to done",
			from: types.ItemStatusBacklog,
			to:   types.ItemStatusDone,
			want: false,
		},
		{
			name: "backlog cannot skip to sprint ready",
			from: types.ItemStatusBacklog,
			to:   types.ItemStatusSprintReady,
			want: false,
		},
		{
			name: "accepted cannot go back to in sprint",
			from: types.ItemStatusAccepted,
			to:   types.ItemStatusInSprint,
			want: false,
		},
		{
			name: "rejected cannot be accepted",
			from: types.ItemStatusRejected,
			to:   types.ItemStatusAccepted,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.want {
				gt.B(t, tt.from.CanTransitionTo(tt.to)).True()
			} else {
				gt.B(t, tt.from.CanTransitionTo(tt.to)).False()
			}
		})
	}
}

func TestItemStatus_Finished(t *testing.T) {
	gt.B(t, types.ItemStatusDone.Finished()).True()
	gt.B(t, types.ItemStatusAccepted.Finished()).True()
	gt.B(t, types.ItemStatusInSprint.Finished()).False()
	gt.B(t, types.ItemStatusPendingAcceptance.Finished()).False()
	gt.B(t, types.ItemStatusRejected.Finished()).False()
}

func TestItemStatus_SprintEligible(t *testing.T) {
	gt.B(t, types.ItemStatusSprintReady.SprintEligible()).True()
	gt.B(t, types.ItemStatusInSprint.SprintEligible()).True()
	gt.B(t, types.ItemStatusBacklog.SprintEligible()).False()
	gt.B(t, types.ItemStatusPendingApproval.SprintEligible()).False()
	gt.B(t, types.ItemStatusDone.SprintEligible()).False()
}

func TestParseItemStatus(t *testing.T) {
	status, err := types.ParseItemStatus("IN_SPRINT")
	gt.NoError(t, err)
	gt.Value(t, status).Equal(types.ItemStatusInSprint)

	_, err = types.ParseItemStatus("in_sprint")
	gt.Error(t, err)
}
