package queries

import (
	"context"
)

// ReportStore is the read side of the stock transaction ledger. The mutation
// path never consults it; it exists purely for reporting.
type ReportStore interface {
	TotalsByProduct(ctx context.Context) ([]ProductTotal, error)
	TotalsByRecipient(ctx context.Context) ([]RecipientTotal, error)
}

type ReportQueries interface {
	StockTotalsByProduct(ctx context.Context) ([]ProductTotal, error)
	StockTotalsByRecipient(ctx context.Context) ([]RecipientTotal, error)
}

type reportQueriesImpl struct {
	store ReportStore
}

func NewReportQueries(store ReportStore) ReportQueries {
	return &reportQueriesImpl{store: store}
}

func (q *reportQueriesImpl) StockTotalsByProduct(ctx context.Context) ([]ProductTotal, error) {
	return q.store.TotalsByProduct(ctx)
}

func (q *reportQueriesImpl) StockTotalsByRecipient(ctx context.Context) ([]RecipientTotal, error) {
	return q.store.TotalsByRecipient(ctx)
}
