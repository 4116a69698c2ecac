//go:build unit

package program_test

import (
	"testing"

	"relief-ledger/internal/domain/program"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEnrollmentStatus(t *testing.T) {
	t.Run("accepts every known status", func(t *testing.T) {
		for _, s := range []string{"enrolled", "active", "completed", "dropped-out", "transferred"} {
			status, err := program.NewEnrollmentStatus(s)
			require.NoError(t, err, s)
			assert.Equal(t, program.EnrollmentStatus(s), status)
		}
	})

	t.Run("rejects unknown statuses", func(t *testing.T) {
		for _, s := range []string{"", "ENROLLED", "graduated", "dropped_out"} {
			_, err := program.NewEnrollmentStatus(s)
			require.ErrorIs(t, err, program.ErrInvalidStatus, s)
		}
	})
}

func TestTransitionDelta(t *testing.T) {
	cases := []struct {
		name string
		prev program.EnrollmentStatus
		next program.EnrollmentStatus
		want program.CounterDelta
	}{
		{
			name: "enrolled to dropped-out decrements enrolled",
			prev: program.StatusEnrolled,
			next: program.StatusDroppedOut,
			want: program.CounterDelta{Enrolled: -1},
		},
		{
			name: "active to transferred decrements enrolled",
			prev: program.StatusActive,
			next: program.StatusTransferred,
			want: program.CounterDelta{Enrolled: -1},
		},
		{
			name: "enrolled to active leaves counters untouched",
			prev: program.StatusEnrolled,
			next: program.StatusActive,
			want: program.CounterDelta{},
		},
		{
			name: "active to completed increments completed",
			prev: program.StatusActive,
			next: program.StatusCompleted,
			want: program.CounterDelta{Completed: 1},
		},
		{
			name: "enrolled to completed increments completed only",
			prev: program.StatusEnrolled,
			next: program.StatusCompleted,
			want: program.CounterDelta{Completed: 1},
		},
		{
			name: "completed back to active decrements completed",
			prev: program.StatusCompleted,
			next: program.StatusActive,
			want: program.CounterDelta{Completed: -1},
		},
		{
			name: "completed to dropped-out decrements completed only",
			prev: program.StatusCompleted,
			next: program.StatusDroppedOut,
			want: program.CounterDelta{Completed: -1},
		},
		{
			name: "dropped-out to transferred leaves counters untouched",
			prev: program.StatusDroppedOut,
			next: program.StatusTransferred,
			want: program.CounterDelta{},
		},
		{
			name: "transferred to completed increments completed",
			prev: program.StatusTransferred,
			next: program.StatusCompleted,
			want: program.CounterDelta{Completed: 1},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, program.TransitionDelta(tc.prev, tc.next))
		})
	}
}

func TestCounterDeltaIsZero(t *testing.T) {
	assert.True(t, program.CounterDelta{}.IsZero())
	assert.False(t, program.CounterDelta{Enrolled: -1}.IsZero())
	assert.False(t, program.CounterDelta{Completed: 1}.IsZero())
}
