package repository

import (
	"context"

	"relief-ledger/internal/domain/balance"
	"relief-ledger/internal/infra"
	"relief-ledger/internal/infra/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BalanceRepository struct {
	pool *pgxpool.Pool
}

func NewBalanceRepository(pool *pgxpool.Pool) *BalanceRepository {
	return &BalanceRepository{pool: pool}
}

func (r *BalanceRepository) Find(ctx context.Context, ownerID, productID uuid.UUID) (*balance.Balance, error) {
	const q = `
		SELECT owner_id, product_id, product_name, allocated_quantity, available_quantity, last_updated
		FROM balances
		WHERE owner_id = $1 AND product_id = $2`

	var b balance.Balance
	err := r.pool.QueryRow(ctx, q, ownerID, productID).Scan(
		&b.OwnerID, &b.ProductID, &b.ProductName,
		&b.AllocatedQuantity, &b.AvailableQuantity, &b.LastUpdated,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, infra.WrapRepoErr("balance not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find balance", err)
	}

	return &b, nil
}

func (r *BalanceRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*balance.Balance, error) {
	const q = `
		SELECT owner_id, product_id, product_name, allocated_quantity, available_quantity, last_updated
		FROM balances
		WHERE owner_id = $1
		ORDER BY product_name`

	rows, err := r.pool.Query(ctx, q, ownerID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list balances", err)
	}
	defer rows.Close()

	var result []*balance.Balance
	for rows.Next() {
		var b balance.Balance
		if err := rows.Scan(
			&b.OwnerID, &b.ProductID, &b.ProductName,
			&b.AllocatedQuantity, &b.AvailableQuantity, &b.LastUpdated,
		); err != nil {
			return nil, infra.WrapRepoErr("failed to scan balance row", err)
		}
		result = append(result, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate balance rows", err)
	}

	return result, nil
}

// UpsertIncrement raises both allocated and available quantity, creating the
// row on first allocation with the product name denormalized in.
func (r *BalanceRepository) UpsertIncrement(ctx context.Context, tx db.DBTX, ownerID, productID uuid.UUID, productName string, qty int64) error {
	const q = `
		INSERT INTO balances (owner_id, product_id, product_name, allocated_quantity, available_quantity, last_updated)
		VALUES ($1, $2, $3, $4, $4, now())
		ON CONFLICT (owner_id, product_id) DO UPDATE
		SET allocated_quantity = balances.allocated_quantity + EXCLUDED.allocated_quantity,
		    available_quantity = balances.available_quantity + EXCLUDED.available_quantity,
		    last_updated = now()`

	if _, err := tx.Exec(ctx, q, ownerID, productID, productName, qty); err != nil {
		if isForeignKeyViolation(err) {
			return infra.WrapRepoErr("owner or product does not exist", err, infra.KindForeignKeyViolated)
		}
		return infra.WrapRepoErr("failed to upsert balance", err)
	}
	return nil
}

// Decrement performs the atomic conditional decrement of available quantity.
// The `available_quantity >= $3` guard and the decrement execute as one
// statement; a stale precondition read can no longer drive the balance
// negative under concurrency. Rows-affected zero means either the row is
// missing or the quantity is insufficient - both are reported as INSUFFICIENT
// because the engine has already verified existence.
func (r *BalanceRepository) Decrement(ctx context.Context, tx db.DBTX, ownerID, productID uuid.UUID, qty int64) error {
	const q = `
		UPDATE balances
		SET available_quantity = available_quantity - $3, last_updated = now()
		WHERE owner_id = $1 AND product_id = $2 AND available_quantity >= $3`

	tag, err := tx.Exec(ctx, q, ownerID, productID, qty)
	if err != nil {
		return infra.WrapRepoErr("failed to decrement balance", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.NewRepoErr("insufficient available quantity", infra.KindInsufficient)
	}
	return nil
}
