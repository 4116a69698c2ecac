//go:build unit || e2e

package builder

import (
	reqdto "relief-ledger/internal/handler/dto/request"
	"relief-ledger/internal/usecase/commands"

	"github.com/google/uuid"
)

type AllocationBuilder struct {
	OwnerID   uuid.UUID
	ProductID uuid.UUID
	Quantity  int64
	Notes     string
}

func NewAllocationBuilder() *AllocationBuilder {
	return &AllocationBuilder{
		OwnerID:   uuid.New(),
		ProductID: uuid.New(),
		Quantity:  25,
	}
}

func (b *AllocationBuilder) With(mutate func(*AllocationBuilder)) *AllocationBuilder {
	mutate(b)
	return b
}

func (b *AllocationBuilder) BuildParams() commands.AllocateParams {
	return commands.AllocateParams{
		OwnerID:   b.OwnerID,
		ProductID: b.ProductID,
		Quantity:  b.Quantity,
		Notes:     b.Notes,
	}
}

func (b *AllocationBuilder) BuildRequestDTO() reqdto.AllocateRequest {
	return reqdto.AllocateRequest{
		OwnerID:   b.OwnerID,
		ProductID: b.ProductID,
		Quantity:  b.Quantity,
		Notes:     b.Notes,
	}
}

func (b *AllocationBuilder) WithOwnerID(id uuid.UUID) *AllocationBuilder {
	b.OwnerID = id
	return b
}

func (b *AllocationBuilder) WithProductID(id uuid.UUID) *AllocationBuilder {
	b.ProductID = id
	return b
}

func (b *AllocationBuilder) WithQuantity(qty int64) *AllocationBuilder {
	b.Quantity = qty
	return b
}
