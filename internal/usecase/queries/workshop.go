package queries

import (
	"context"

	"relief-ledger/internal/domain/workshop"

	"github.com/jinzhu/copier"
	"github.com/google/uuid"
)

type WorkshopReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*workshop.Workshop, error)
}

type WorkshopQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*WorkshopView, error)
}

type workshopQueriesImpl struct {
	reader WorkshopReader
}

func NewWorkshopQueries(reader WorkshopReader) WorkshopQueries {
	return &workshopQueriesImpl{reader: reader}
}

func (q *workshopQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*WorkshopView, error) {
	w, err := q.reader.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var materials []MaterialUsageView
	if err := copier.Copy(&materials, w.MaterialsUsed()); err != nil {
		return nil, err
	}

	return &WorkshopView{
		ID:            w.ID(),
		Title:         w.Title(),
		ConductorID:   w.ConductorID(),
		Location:      w.Location(),
		ScheduledAt:   w.ScheduledAt(),
		MaterialsUsed: materials,
	}, nil
}
