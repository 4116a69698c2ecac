package participant

import (
	"time"

	"github.com/google/uuid"
)

// ReceiptEntry is one material receipt on a participant's record. The list is
// append-only: one entry per distribution event received, never merged.
type ReceiptEntry struct {
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	Quantity    int64     `json:"quantity"`
	ReceivedAt  time.Time `json:"received_at"`
}

type Participant struct {
	ID                uuid.UUID
	FullName          string
	MaterialsReceived []ReceiptEntry
}

// AppendReceipt records a received distribution on the participant's copy.
func (p *Participant) AppendReceipt(productID uuid.UUID, productName string, qty int64, at time.Time) {
	p.MaterialsReceived = append(p.MaterialsReceived, ReceiptEntry{
		ProductID:   productID,
		ProductName: productName,
		Quantity:    qty,
		ReceivedAt:  at,
	})
}
