package repository

import (
	"context"
	"encoding/json"
	"time"

	"relief-ledger/internal/domain/workshop"
	"relief-ledger/internal/infra"
	"relief-ledger/internal/infra/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type WorkshopRepository struct {
	pool *pgxpool.Pool
}

func NewWorkshopRepository(pool *pgxpool.Pool) *WorkshopRepository {
	return &WorkshopRepository{pool: pool}
}

func (r *WorkshopRepository) Create(ctx context.Context, w *workshop.Workshop) error {
	const q = `
		INSERT INTO workshops (id, title, conductor_id, location, scheduled_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.pool.Exec(ctx, q, w.ID(), w.Title(), w.ConductorID(), w.Location(), w.ScheduledAt())
	if err != nil {
		if isForeignKeyViolation(err) {
			return infra.WrapRepoErr("conductor does not exist", err, infra.KindForeignKeyViolated)
		}
		return infra.WrapRepoErr("failed to create workshop", err)
	}
	return nil
}

func (r *WorkshopRepository) FindByID(ctx context.Context, id uuid.UUID) (*workshop.Workshop, error) {
	const q = `
		SELECT id, title, conductor_id, location, scheduled_at, materials_used
		FROM workshops
		WHERE id = $1`

	return r.scanWorkshop(r.pool.QueryRow(ctx, q, id))
}

// FindByIDForUpdate locks the workshop row for the duration of the enclosing
// transaction so the materialsUsed read-modify-write stays serialized.
func (r *WorkshopRepository) FindByIDForUpdate(ctx context.Context, tx db.DBTX, id uuid.UUID) (*workshop.Workshop, error) {
	const q = `
		SELECT id, title, conductor_id, location, scheduled_at, materials_used
		FROM workshops
		WHERE id = $1
		FOR UPDATE`

	return r.scanWorkshop(tx.QueryRow(ctx, q, id))
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *WorkshopRepository) scanWorkshop(row rowScanner) (*workshop.Workshop, error) {
	var (
		id            uuid.UUID
		title         string
		conductorID   uuid.UUID
		location      string
		scheduledAt   time.Time
		materialsJSON []byte
	)
	err := row.Scan(&id, &title, &conductorID, &location, &scheduledAt, &materialsJSON)
	if err != nil {
		if isNoRows(err) {
			return nil, infra.WrapRepoErr("workshop not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find workshop", err)
	}

	var materials []workshop.MaterialUsage
	if err := json.Unmarshal(materialsJSON, &materials); err != nil {
		return nil, infra.WrapRepoErr("failed to decode materials_used", err)
	}

	return workshop.ReconstructWorkshop(id, title, conductorID, location, scheduledAt, materials), nil
}

// SaveMaterialsUsed writes back the full materialsUsed array after a domain
// level upsert.
func (r *WorkshopRepository) SaveMaterialsUsed(ctx context.Context, tx db.DBTX, id uuid.UUID, materials []workshop.MaterialUsage) error {
	payload, err := json.Marshal(materials)
	if err != nil {
		return infra.WrapRepoErr("failed to encode materials_used", err)
	}

	const q = `UPDATE workshops SET materials_used = $2, updated_at = now() WHERE id = $1`

	tag, err := tx.Exec(ctx, q, id, payload)
	if err != nil {
		return infra.WrapRepoErr("failed to save materials_used", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.NewRepoErr("workshop not found", infra.KindNotFound)
	}
	return nil
}

func (r *WorkshopRepository) RegisterAttendance(ctx context.Context, workshopID, participantID uuid.UUID, status workshop.AttendanceStatus) error {
	const q = `
		INSERT INTO workshop_attendance (workshop_id, participant_id, status)
		VALUES ($1, $2, $3)
		ON CONFLICT (workshop_id, participant_id) DO UPDATE SET status = EXCLUDED.status`

	if _, err := r.pool.Exec(ctx, q, workshopID, participantID, status); err != nil {
		if isForeignKeyViolation(err) {
			return infra.WrapRepoErr("workshop or participant does not exist", err, infra.KindForeignKeyViolated)
		}
		return infra.WrapRepoErr("failed to register attendance", err)
	}
	return nil
}

// Attendance returns the attendance rows for the given participants at a
// workshop. Participants with no row are simply absent from the result.
func (r *WorkshopRepository) Attendance(ctx context.Context, workshopID uuid.UUID, participantIDs []uuid.UUID) ([]workshop.Attendance, error) {
	const q = `
		SELECT participant_id, status
		FROM workshop_attendance
		WHERE workshop_id = $1 AND participant_id = ANY($2)`

	rows, err := r.pool.Query(ctx, q, workshopID, participantIDs)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query attendance", err)
	}
	defer rows.Close()

	var result []workshop.Attendance
	for rows.Next() {
		var a workshop.Attendance
		if err := rows.Scan(&a.ParticipantID, &a.Status); err != nil {
			return nil, infra.WrapRepoErr("failed to scan attendance row", err)
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate attendance rows", err)
	}

	return result, nil
}

// EligibleAttendance returns every participant of the workshop whose recorded
// status qualifies for material distribution.
func (r *WorkshopRepository) EligibleAttendance(ctx context.Context, workshopID uuid.UUID) ([]workshop.Attendance, error) {
	const q = `
		SELECT participant_id, status
		FROM workshop_attendance
		WHERE workshop_id = $1 AND status IN ('attended', 'late', 'left-early')
		ORDER BY participant_id`

	rows, err := r.pool.Query(ctx, q, workshopID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query eligible attendance", err)
	}
	defer rows.Close()

	var result []workshop.Attendance
	for rows.Next() {
		var a workshop.Attendance
		if err := rows.Scan(&a.ParticipantID, &a.Status); err != nil {
			return nil, infra.WrapRepoErr("failed to scan attendance row", err)
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate attendance rows", err)
	}

	return result, nil
}
