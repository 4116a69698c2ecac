package queries

import (
	"context"

	"relief-ledger/internal/domain/balance"

	"github.com/google/uuid"
)

type BalanceReader interface {
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*balance.Balance, error)
}

type BalanceQueries interface {
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]BalanceView, error)
}

type balanceQueriesImpl struct {
	reader BalanceReader
}

func NewBalanceQueries(reader BalanceReader) BalanceQueries {
	return &balanceQueriesImpl{reader: reader}
}

func (q *balanceQueriesImpl) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]BalanceView, error) {
	rows, err := q.reader.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	views := make([]BalanceView, len(rows))
	for i, b := range rows {
		views[i] = BalanceView{
			OwnerID:           b.OwnerID,
			ProductID:         b.ProductID,
			ProductName:       b.ProductName,
			AllocatedQuantity: b.AllocatedQuantity,
			AvailableQuantity: b.AvailableQuantity,
			LastUpdated:       b.LastUpdated,
		}
	}
	return views, nil
}
