package repository

import (
	"context"
	"time"

	"relief-ledger/internal/infra"
	"relief-ledger/internal/infra/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type IdempotencyRecord struct {
	Key         uuid.UUID
	UserID      uuid.UUID
	Endpoint    string
	Status      string
	RequestHash string
	ResultHash  *string
	ResultRef   *uuid.UUID
	ExpiresAt   time.Time
}

type IdempotencyRepository struct {
	pool *pgxpool.Pool
}

func NewIdempotencyRepository(pool *pgxpool.Pool) *IdempotencyRepository {
	return &IdempotencyRepository{pool: pool}
}

// TryInsert claims the key for this user and reports whether this call won
// the claim. ON CONFLICT DO NOTHING makes the claim race-free: the loser of a
// concurrent claim observes the winner's row on the follow-up Get.
func (r *IdempotencyRepository) TryInsert(ctx context.Context, key, userID uuid.UUID, endpoint, requestHash string, expiresAt time.Time) (bool, error) {
	const q = `
		INSERT INTO idempotency_keys (key, user_id, endpoint, request_hash, status, expires_at)
		VALUES ($1, $2, $3, $4, 'processing', $5)
		ON CONFLICT (key, user_id) DO NOTHING`

	tag, err := r.pool.Exec(ctx, q, key, userID, endpoint, requestHash, expiresAt)
	if err != nil {
		return false, infra.WrapRepoErr("failed to insert idempotency key", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *IdempotencyRepository) Get(ctx context.Context, key, userID uuid.UUID) (*IdempotencyRecord, error) {
	const q = `
		SELECT key, user_id, endpoint, status, request_hash, result_hash, result_ref, expires_at
		FROM idempotency_keys
		WHERE key = $1 AND user_id = $2`

	var rec IdempotencyRecord
	err := r.pool.QueryRow(ctx, q, key, userID).Scan(
		&rec.Key, &rec.UserID, &rec.Endpoint, &rec.Status,
		&rec.RequestHash, &rec.ResultHash, &rec.ResultRef, &rec.ExpiresAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, infra.WrapRepoErr("idempotency key not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get idempotency key", err)
	}
	return &rec, nil
}

func (r *IdempotencyRepository) UpdateStatusCompleted(ctx context.Context, tx db.DBTX, key, userID uuid.UUID, resultHash string, resultRef uuid.UUID) error {
	const q = `
		UPDATE idempotency_keys
		SET status = 'completed', result_hash = $3, result_ref = $4, updated_at = now()
		WHERE key = $1 AND user_id = $2`

	tag, err := tx.Exec(ctx, q, key, userID, resultHash, resultRef)
	if err != nil {
		return infra.WrapRepoErr("failed to complete idempotency key", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.NewRepoErr("idempotency key not found", infra.KindNotFound)
	}
	return nil
}

// Delete releases a processing claim so the caller can retry immediately.
// Used when the mutation fails after the claim but before its transaction
// commits; completed keys are never deleted this way.
func (r *IdempotencyRepository) Delete(ctx context.Context, key, userID uuid.UUID) error {
	const q = `
		DELETE FROM idempotency_keys
		WHERE key = $1 AND user_id = $2 AND status = 'processing'`

	if _, err := r.pool.Exec(ctx, q, key, userID); err != nil {
		return infra.WrapRepoErr("failed to delete idempotency key", err)
	}
	return nil
}

// ClaimExpired re-arms an expired processing key for a fresh attempt.
func (r *IdempotencyRepository) ClaimExpired(ctx context.Context, key, userID uuid.UUID, requestHash string, expiresAt time.Time) (bool, error) {
	const q = `
		UPDATE idempotency_keys
		SET request_hash = $3, status = 'processing', result_hash = NULL, result_ref = NULL,
		    expires_at = $4, updated_at = now()
		WHERE key = $1 AND user_id = $2 AND status = 'processing' AND expires_at < now()`

	tag, err := r.pool.Exec(ctx, q, key, userID, requestHash, expiresAt)
	if err != nil {
		return false, infra.WrapRepoErr("failed to claim expired idempotency key", err)
	}
	return tag.RowsAffected() > 0, nil
}
