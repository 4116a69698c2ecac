// Package balance models the per-owner quantity ledger row: how much of a
// product has been allocated to an owner and how much of that is still
// available to distribute.
//
// Invariants:
//   - AvailableQuantity >= 0 at all times.
//   - AvailableQuantity <= AllocatedQuantity.
//   - A row is created on first allocation and never deleted, only zeroed.
package balance

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrInsufficient    = errors.New("insufficient available quantity")
)

type Balance struct {
	OwnerID           uuid.UUID
	ProductID         uuid.UUID
	ProductName       string
	AllocatedQuantity int64
	AvailableQuantity int64
	LastUpdated       time.Time
}

// CanDistribute reports whether qty units can be distributed out of this
// balance. The authoritative guard is the store's conditional decrement; this
// check exists so preconditions fail fast with a descriptive error before any
// write is attempted.
func (b *Balance) CanDistribute(qty int64) bool {
	return qty > 0 && b.AvailableQuantity >= qty
}

// Allocate applies an allocation of qty units to the in-memory copy.
func (b *Balance) Allocate(qty int64) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	b.AllocatedQuantity += qty
	b.AvailableQuantity += qty
	return nil
}

// Distribute applies a distribution of qty units to the in-memory copy.
func (b *Balance) Distribute(qty int64) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	if b.AvailableQuantity < qty {
		return ErrInsufficient
	}
	b.AvailableQuantity -= qty
	return nil
}
