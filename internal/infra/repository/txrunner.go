package repository

import (
	"context"

	"relief-ledger/internal/infra/db"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxTxRunner adapts the pool's transaction helper to the command layer's
// TxRunner port, retrying serialization failures and deadlocks.
type PgxTxRunner struct {
	pool *pgxpool.Pool
}

func NewPgxTxRunner(pool *pgxpool.Pool) *PgxTxRunner {
	return &PgxTxRunner{pool: pool}
}

func (r *PgxTxRunner) RunInTx(ctx context.Context, fn func(tx db.DBTX) error) error {
	_, err := db.RunInTxWithRetry(ctx, r.pool, 3, func(tx db.DBTX) (struct{}, error) {
		return struct{}{}, fn(tx)
	})
	return err
}
