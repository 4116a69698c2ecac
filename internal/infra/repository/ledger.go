package repository

import (
	"context"

	"relief-ledger/internal/domain/ledger"
	"relief-ledger/internal/infra"
	"relief-ledger/internal/infra/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// LedgerRepository is append-only: Record and RecordBatch are the only write
// operations, and no update or delete exists.
type LedgerRepository struct {
	pool *pgxpool.Pool
}

func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{pool: pool}
}

const insertEntry = `
	INSERT INTO stock_transactions
		(id, kind, from_owner_id, to_owner_id, product_id, product_name, quantity, workshop_id, notes, recorded_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

func (r *LedgerRepository) Record(ctx context.Context, tx db.DBTX, e ledger.Entry) error {
	_, err := tx.Exec(ctx, insertEntry,
		e.ID, e.Kind, nilIfZero(e.FromOwnerID), e.ToOwnerID,
		e.ProductID, e.ProductName, e.Quantity, e.WorkshopID, e.Notes, e.RecordedAt,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to record ledger entry", err)
	}
	return nil
}

func (r *LedgerRepository) RecordBatch(ctx context.Context, tx db.DBTX, entries []ledger.Entry) error {
	for _, e := range entries {
		if err := r.Record(ctx, tx, e); err != nil {
			return err
		}
	}
	return nil
}

func nilIfZero(id uuid.UUID) any {
	if id == uuid.Nil {
		return nil
	}
	return id
}
