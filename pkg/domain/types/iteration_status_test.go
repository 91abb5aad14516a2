package types_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/stride-hq/stride/pkg/domain/types"
)

func TestIterationStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name string
		from types.IterationStatus
		to   types.IterationStatus
		want bool
	}{
		{
			name: "planned to active",
			from: types.IterationStatusPlanned,
			to:   types.IterationStatusActive,
			want: true,
		},
		{
			name: "planned to cancelled",
			from: types.IterationStatusPlanned,
			to:   types.IterationStatusCancelled,
			want: true,
		},
		{
			name: "active to completed",
			from: types.IterationStatusActive,
			to:   types.IterationStatusCompleted,
			want: true,
		},
		{
			name: "active to cancelled",
			from: types.IterationStatusActive,
			to:   types.IterationStatusCancelled,
			want: true,
		},
		{
			name: "planned cannot complete",
			from: types.IterationStatusPlanned,
			to:   types.IterationStatusCompleted,
			want: false,
		},
		{
			name: "completed is terminal",
			from: types.IterationStatusCompleted,
			to:   types.IterationStatusCancelled,
			want: false,
		},
		{
			name: "cancelled is terminal",
			from: types.IterationStatusCancelled,
			to:   types.IterationStatusActive,
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

func TestIterationStatus_Terminal(t *testing.T) {
	gt.B(t, types.IterationStatusCompleted.Terminal()).True()
	gt.B(t, types.IterationStatusCancelled.Terminal()).True()
	gt.B(t, types.IterationStatusPlanned.Terminal()).False()
	gt.B(t, types.IterationStatusActive.Terminal()).False()
}

func TestParseIterationStatus(t *testing.T) {
	status, err := types.ParseIterationStatus("ACTIVE")
	gt.NoError(t, err)
	gt.Value(t, status).Equal(types.IterationStatusActive)

	_, err = types.ParseIterationStatus("RUNNING")
	gt.Error(t, err)
}
