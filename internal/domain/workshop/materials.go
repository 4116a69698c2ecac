package workshop

import (
	"github.com/google/uuid"
)

// MaterialUsage is one denormalized usage entry on a workshop: at most one
// entry exists per product, its Quantity is the running sum of every
// distribution of that product recorded against the workshop, and
// DistributedTo lists the recipients event by event.
//
// DistributedTo is intentionally NOT deduplicated: a participant who receives
// the same product in two separate distribution events appears twice, so the
// list stays a faithful event trace rather than a set.
type MaterialUsage struct {
	ProductID     uuid.UUID   `json:"product_id"`
	ProductName   string      `json:"product_name"`
	Quantity      int64       `json:"quantity"`
	DistributedTo []uuid.UUID `json:"distributed_to"`
}

// UpsertUsage applies the find-or-append algorithm: if an entry for productID
// exists its quantity is incremented and the recipient ids appended, otherwise
// a new entry is appended. Entries are never removed; there is no inverse
// operation.
func UpsertUsage(entries []MaterialUsage, productID uuid.UUID, productName string, qty int64, recipientIDs []uuid.UUID) []MaterialUsage {
	for i := range entries {
		if entries[i].ProductID == productID {
			entries[i].Quantity += qty
			entries[i].DistributedTo = append(entries[i].DistributedTo, recipientIDs...)
			return entries
		}
	}

	entry := MaterialUsage{
		ProductID:     productID,
		ProductName:   productName,
		Quantity:      qty,
		DistributedTo: append([]uuid.UUID(nil), recipientIDs...),
	}
	return append(entries, entry)
}

// TotalQuantity sums the recorded usage across all products.
func TotalQuantity(entries []MaterialUsage) int64 {
	var total int64
	for _, e := range entries {
		total += e.Quantity
	}
	return total
}

// UsageFor returns the entry for productID, if any.
func UsageFor(entries []MaterialUsage, productID uuid.UUID) (MaterialUsage, bool) {
	for _, e := range entries {
		if e.ProductID == productID {
			return e, true
		}
	}
	return MaterialUsage{}, false
}
