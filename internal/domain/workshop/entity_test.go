//go:build unit

package workshop_test

import (
	"testing"

	"relief-ledger/internal/domain/workshop"
	"relief-ledger/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWorkshop(t *testing.T) {
	t.Run("basic success case", func(t *testing.T) {
		actual, err := builder.NewWorkshopBuilder().BuildDomain()
		require.NoError(t, err)
		require.NotNil(t, actual)

		assert.NotEqual(t, uuid.Nil, actual.ID())
		assert.Equal(t, "First Aid Basics", actual.Title())
		assert.Empty(t, actual.MaterialsUsed())
	})

	t.Run("empty title", func(t *testing.T) {
		actual, err := builder.NewWorkshopBuilder().WithTitle("").BuildDomain()
		require.Nil(t, actual)
		require.ErrorIs(t, err, workshop.ErrInvalidTitle)
	})

	t.Run("missing conductor", func(t *testing.T) {
		actual, err := builder.NewWorkshopBuilder().WithoutConductor().BuildDomain()
		require.Nil(t, actual)
		require.ErrorIs(t, err, workshop.ErrNoConductor)
	})
}

func TestAttendanceStatus(t *testing.T) {
	t.Run("eligibility", func(t *testing.T) {
		cases := []struct {
			status   workshop.AttendanceStatus
			eligible bool
		}{
			{workshop.AttendanceAttended, true},
			{workshop.AttendanceLate, true},
			{workshop.AttendanceLeftEarly, true},
			{workshop.AttendanceRegistered, false},
			{workshop.AttendanceAbsent, false},
		}
		for _, tc := range cases {
			assert.Equal(t, tc.eligible, tc.status.Eligible(), string(tc.status))
		}
	})

	t.Run("parsing", func(t *testing.T) {
		status, err := workshop.NewAttendanceStatus("left-early")
		require.NoError(t, err)
		assert.Equal(t, workshop.AttendanceLeftEarly, status)

		_, err = workshop.NewAttendanceStatus("present")
		require.ErrorIs(t, err, workshop.ErrInvalidAttendanceStatus)
	})
}

func TestRecordUsage(t *testing.T) {
	productID := uuid.New()
	p1 := uuid.New()
	p2 := uuid.New()

	ws := builder.NewWorkshopBuilder().BuildReconstructed()

	updated := ws.RecordUsage(productID, "Soap", 10, []uuid.UUID{p1, p2})
	require.Len(t, updated, 1)

	// a second distribution folds into the same entry on the aggregate
	updated = ws.RecordUsage(productID, "Soap", 5, []uuid.UUID{p1})
	require.Len(t, updated, 1)
	assert.Equal(t, int64(15), updated[0].Quantity)
	assert.Equal(t, []uuid.UUID{p1, p2, p1}, updated[0].DistributedTo)
	assert.Equal(t, updated, ws.MaterialsUsed())
}
