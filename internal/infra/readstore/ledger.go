package readstore

import (
	"context"

	"relief-ledger/internal/infra"
	"relief-ledger/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgxpool"
)

// LedgerReadStore aggregates the append-only stock transaction log for
// reporting. It issues SELECTs only.
type LedgerReadStore struct {
	pool *pgxpool.Pool
}

func NewLedgerReadStore(pool *pgxpool.Pool) *LedgerReadStore {
	return &LedgerReadStore{pool: pool}
}

func (r *LedgerReadStore) TotalsByProduct(ctx context.Context) ([]queries.ProductTotal, error) {
	const q = `
		SELECT product_id,
		       max(product_name),
		       COALESCE(sum(quantity) FILTER (WHERE kind = 'distribution'), 0),
		       COALESCE(sum(quantity) FILTER (WHERE kind = 'allocation'), 0),
		       count(*),
		       max(recorded_at)
		FROM stock_transactions
		GROUP BY product_id
		ORDER BY max(product_name)`

	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to aggregate totals by product", err)
	}
	defer rows.Close()

	var result []queries.ProductTotal
	for rows.Next() {
		var t queries.ProductTotal
		if err := rows.Scan(&t.ProductID, &t.ProductName, &t.Distributed, &t.Allocated, &t.EntryCount, &t.LastRecorded); err != nil {
			return nil, infra.WrapRepoErr("failed to scan product total row", err)
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate product total rows", err)
	}

	return result, nil
}

func (r *LedgerReadStore) TotalsByRecipient(ctx context.Context) ([]queries.RecipientTotal, error) {
	const q = `
		SELECT to_owner_id,
		       sum(quantity),
		       count(*),
		       max(recorded_at)
		FROM stock_transactions
		WHERE kind = 'distribution'
		GROUP BY to_owner_id
		ORDER BY sum(quantity) DESC`

	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to aggregate totals by recipient", err)
	}
	defer rows.Close()

	var result []queries.RecipientTotal
	for rows.Next() {
		var t queries.RecipientTotal
		if err := rows.Scan(&t.RecipientID, &t.Quantity, &t.EntryCount, &t.LastRecorded); err != nil {
			return nil, infra.WrapRepoErr("failed to scan recipient total row", err)
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate recipient total rows", err)
	}

	return result, nil
}
