//go:build unit || e2e

package builder

import (
	"time"

	"relief-ledger/internal/domain/workshop"

	"github.com/google/uuid"
)

type WorkshopBuilder struct {
	ID            uuid.UUID
	Title         string
	ConductorID   uuid.UUID
	Location      string
	ScheduledAt   time.Time
	MaterialsUsed []workshop.MaterialUsage
}

func NewWorkshopBuilder() *WorkshopBuilder {
	return &WorkshopBuilder{
		ID:          uuid.New(),
		Title:       "First Aid Basics",
		ConductorID: uuid.New(),
		Location:    "Community Hall",
		ScheduledAt: time.Now().Add(24 * time.Hour),
	}
}

func (b *WorkshopBuilder) With(mutate func(*WorkshopBuilder)) *WorkshopBuilder {
	mutate(b)
	return b
}

// Build methods
func (b *WorkshopBuilder) BuildDomain() (*workshop.Workshop, error) {
	return workshop.NewWorkshop(b.Title, b.ConductorID, b.Location, b.ScheduledAt)
}

// BuildReconstructed bypasses creation validation and yields a workshop as it
// would come back from storage, materials included.
func (b *WorkshopBuilder) BuildReconstructed() *workshop.Workshop {
	return workshop.ReconstructWorkshop(b.ID, b.Title, b.ConductorID, b.Location, b.ScheduledAt, b.MaterialsUsed)
}

// Fluent builder methods
func (b *WorkshopBuilder) WithTitle(title string) *WorkshopBuilder {
	b.Title = title
	return b
}

func (b *WorkshopBuilder) WithConductorID(id uuid.UUID) *WorkshopBuilder {
	b.ConductorID = id
	return b
}

func (b *WorkshopBuilder) WithoutConductor() *WorkshopBuilder {
	b.ConductorID = uuid.Nil
	return b
}

func (b *WorkshopBuilder) WithUsage(usage ...workshop.MaterialUsage) *WorkshopBuilder {
	b.MaterialsUsed = append(b.MaterialsUsed, usage...)
	return b
}
