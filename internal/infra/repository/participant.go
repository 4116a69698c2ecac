package repository

import (
	"context"
	"encoding/json"

	"relief-ledger/internal/domain/participant"
	"relief-ledger/internal/infra"
	"relief-ledger/internal/infra/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ParticipantRepository struct {
	pool *pgxpool.Pool
}

func NewParticipantRepository(pool *pgxpool.Pool) *ParticipantRepository {
	return &ParticipantRepository{pool: pool}
}

func (r *ParticipantRepository) Create(ctx context.Context, fullName string) (uuid.UUID, error) {
	const q = `INSERT INTO participants (full_name) VALUES ($1) RETURNING id`

	var id uuid.UUID
	if err := r.pool.QueryRow(ctx, q, fullName).Scan(&id); err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create participant", err)
	}
	return id, nil
}

func (r *ParticipantRepository) FindByID(ctx context.Context, id uuid.UUID) (*participant.Participant, error) {
	const q = `SELECT id, full_name, materials_received FROM participants WHERE id = $1`

	var (
		p            participant.Participant
		receivedJSON []byte
	)
	err := r.pool.QueryRow(ctx, q, id).Scan(&p.ID, &p.FullName, &receivedJSON)
	if err != nil {
		if isNoRows(err) {
			return nil, infra.WrapRepoErr("participant not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find participant", err)
	}

	if err := json.Unmarshal(receivedJSON, &p.MaterialsReceived); err != nil {
		return nil, infra.WrapRepoErr("failed to decode materials_received", err)
	}
	return &p, nil
}

// ExistingIDs filters ids down to those with a participant row, preserving
// input order.
func (r *ParticipantRepository) ExistingIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	const q = `SELECT id FROM participants WHERE id = ANY($1)`

	rows, err := r.pool.Query(ctx, q, ids)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query participants", err)
	}
	defer rows.Close()

	found := make(map[uuid.UUID]struct{}, len(ids))
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, infra.WrapRepoErr("failed to scan participant id", err)
		}
		found[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate participant rows", err)
	}

	result := make([]uuid.UUID, 0, len(found))
	for _, id := range ids {
		if _, ok := found[id]; ok {
			result = append(result, id)
		}
	}
	return result, nil
}

// AppendReceipt appends one receipt entry to the participant's append-only
// materialsReceived list using a jsonb concatenation, so concurrent appends
// do not overwrite each other.
func (r *ParticipantRepository) AppendReceipt(ctx context.Context, tx db.DBTX, participantID uuid.UUID, entry participant.ReceiptEntry) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return infra.WrapRepoErr("failed to encode receipt entry", err)
	}

	const q = `
		UPDATE participants
		SET materials_received = materials_received || $2::jsonb
		WHERE id = $1`

	tag, err := tx.Exec(ctx, q, participantID, payload)
	if err != nil {
		return infra.WrapRepoErr("failed to append receipt", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.NewRepoErr("participant not found", infra.KindNotFound)
	}
	return nil
}
