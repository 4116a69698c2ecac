//go:build unit || e2e

package builder

import (
	reqdto "relief-ledger/internal/handler/dto/request"
	"relief-ledger/internal/usecase/commands"

	"github.com/google/uuid"
)

type DistributionBuilder struct {
	WorkshopID    uuid.UUID
	ParticipantID uuid.UUID
	ProductID     uuid.UUID
	Quantity      int64
	Notes         string
}

func NewDistributionBuilder() *DistributionBuilder {
	return &DistributionBuilder{
		WorkshopID:    uuid.New(),
		ParticipantID: uuid.New(),
		ProductID:     uuid.New(),
		Quantity:      5,
		Notes:         "weekly hygiene kit",
	}
}

func (b *DistributionBuilder) With(mutate func(*DistributionBuilder)) *DistributionBuilder {
	mutate(b)
	return b
}

func (b *DistributionBuilder) BuildParams() commands.DistributeParams {
	return commands.DistributeParams{
		WorkshopID:    b.WorkshopID,
		ParticipantID: b.ParticipantID,
		ProductID:     b.ProductID,
		Quantity:      b.Quantity,
		Notes:         b.Notes,
	}
}

func (b *DistributionBuilder) BuildRequestDTO() reqdto.DistributeRequest {
	return reqdto.DistributeRequest{
		WorkshopID:    b.WorkshopID,
		ParticipantID: b.ParticipantID,
		ProductID:     b.ProductID,
		Quantity:      b.Quantity,
		Notes:         b.Notes,
	}
}

func (b *DistributionBuilder) WithQuantity(qty int64) *DistributionBuilder {
	b.Quantity = qty
	return b
}

func (b *DistributionBuilder) WithWorkshopID(id uuid.UUID) *DistributionBuilder {
	b.WorkshopID = id
	return b
}

func (b *DistributionBuilder) WithParticipantID(id uuid.UUID) *DistributionBuilder {
	b.ParticipantID = id
	return b
}

func (b *DistributionBuilder) WithProductID(id uuid.UUID) *DistributionBuilder {
	b.ProductID = id
	return b
}

type BulkDistributionBuilder struct {
	WorkshopID     uuid.UUID
	ProductID      uuid.UUID
	QuantityEach   int64
	ParticipantIDs []uuid.UUID
	Notes          string
}

func NewBulkDistributionBuilder() *BulkDistributionBuilder {
	return &BulkDistributionBuilder{
		WorkshopID:   uuid.New(),
		ProductID:    uuid.New(),
		QuantityEach: 5,
	}
}

func (b *BulkDistributionBuilder) With(mutate func(*BulkDistributionBuilder)) *BulkDistributionBuilder {
	mutate(b)
	return b
}

func (b *BulkDistributionBuilder) BuildParams() commands.BulkDistributeParams {
	return commands.BulkDistributeParams{
		WorkshopID:     b.WorkshopID,
		ProductID:      b.ProductID,
		QuantityEach:   b.QuantityEach,
		ParticipantIDs: b.ParticipantIDs,
		Notes:          b.Notes,
	}
}

func (b *BulkDistributionBuilder) BuildRequestDTO() reqdto.BulkDistributeRequest {
	return reqdto.BulkDistributeRequest{
		WorkshopID:     b.WorkshopID,
		ProductID:      b.ProductID,
		QuantityEach:   b.QuantityEach,
		ParticipantIDs: b.ParticipantIDs,
		Notes:          b.Notes,
	}
}

func (b *BulkDistributionBuilder) WithQuantityEach(qty int64) *BulkDistributionBuilder {
	b.QuantityEach = qty
	return b
}

func (b *BulkDistributionBuilder) WithWorkshopID(id uuid.UUID) *BulkDistributionBuilder {
	b.WorkshopID = id
	return b
}

func (b *BulkDistributionBuilder) WithProductID(id uuid.UUID) *BulkDistributionBuilder {
	b.ProductID = id
	return b
}

func (b *BulkDistributionBuilder) WithParticipantIDs(ids ...uuid.UUID) *BulkDistributionBuilder {
	b.ParticipantIDs = ids
	return b
}
