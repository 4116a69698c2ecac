// Package ledger defines the append-only stock transaction log. Entries are
// immutable once written: no update or delete operation exists, corrections
// are new entries. The log is the sole audit trail for quantity mutations and
// is read only by the reporting side, never by the mutation path.
package ledger

import (
	"time"

	"github.com/google/uuid"
)

type Kind string

const (
	// KindAllocation moves stock from the catalog pool into an owner balance.
	KindAllocation Kind = "allocation"
	// KindDistribution moves available quantity from an owner balance to a
	// recipient. Bulk distributions write one entry per recipient.
	KindDistribution Kind = "distribution"
)

// Entry is one completed quantity mutation. FromOwnerID is uuid.Nil for
// allocations out of the catalog pool.
type Entry struct {
	ID          uuid.UUID
	Kind        Kind
	FromOwnerID uuid.UUID
	ToOwnerID   uuid.UUID
	ProductID   uuid.UUID
	ProductName string
	Quantity    int64
	WorkshopID  *uuid.UUID
	Notes       string
	RecordedAt  time.Time
}

func NewEntry(kind Kind, fromOwnerID, toOwnerID, productID uuid.UUID, productName string, qty int64, workshopID *uuid.UUID, notes string, at time.Time) Entry {
	return Entry{
		ID:          uuid.New(),
		Kind:        kind,
		FromOwnerID: fromOwnerID,
		ToOwnerID:   toOwnerID,
		ProductID:   productID,
		ProductName: productName,
		Quantity:    qty,
		WorkshopID:  workshopID,
		Notes:       notes,
		RecordedAt:  at,
	}
}
