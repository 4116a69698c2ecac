//go:build unit

package balance_test

import (
	"testing"

	"relief-ledger/internal/domain/balance"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBalance(allocated, available int64) *balance.Balance {
	return &balance.Balance{
		OwnerID:           uuid.New(),
		ProductID:         uuid.New(),
		ProductName:       "Soap",
		AllocatedQuantity: allocated,
		AvailableQuantity: available,
	}
}

func TestCanDistribute(t *testing.T) {
	b := newBalance(25, 25)

	assert.True(t, b.CanDistribute(1))
	assert.True(t, b.CanDistribute(25))
	assert.False(t, b.CanDistribute(26))
	assert.False(t, b.CanDistribute(0))
	assert.False(t, b.CanDistribute(-5))
}

func TestAllocate(t *testing.T) {
	t.Run("raises both quantities", func(t *testing.T) {
		b := newBalance(10, 4)
		require.NoError(t, b.Allocate(6))
		assert.Equal(t, int64(16), b.AllocatedQuantity)
		assert.Equal(t, int64(10), b.AvailableQuantity)
	})

	t.Run("rejects non-positive quantities", func(t *testing.T) {
		b := newBalance(10, 4)
		require.ErrorIs(t, b.Allocate(0), balance.ErrInvalidQuantity)
		require.ErrorIs(t, b.Allocate(-1), balance.ErrInvalidQuantity)
	})
}

func TestDistribute(t *testing.T) {
	t.Run("lowers available only", func(t *testing.T) {
		b := newBalance(25, 25)
		require.NoError(t, b.Distribute(15))
		assert.Equal(t, int64(25), b.AllocatedQuantity)
		assert.Equal(t, int64(10), b.AvailableQuantity)
	})

	t.Run("exact balance drains to zero", func(t *testing.T) {
		b := newBalance(25, 25)
		require.NoError(t, b.Distribute(25))
		assert.Equal(t, int64(0), b.AvailableQuantity)
	})

	t.Run("insufficient balance", func(t *testing.T) {
		b := newBalance(25, 10)
		require.ErrorIs(t, b.Distribute(11), balance.ErrInsufficient)
		assert.Equal(t, int64(10), b.AvailableQuantity)
	})

	t.Run("rejects non-positive quantities", func(t *testing.T) {
		b := newBalance(25, 10)
		require.ErrorIs(t, b.Distribute(0), balance.ErrInvalidQuantity)
	})
}
