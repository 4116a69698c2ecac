package repository

import (
	"context"

	"relief-ledger/internal/domain/program"
	"relief-ledger/internal/infra"
	"relief-ledger/internal/infra/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ProgramRepository struct {
	pool *pgxpool.Pool
}

func NewProgramRepository(pool *pgxpool.Pool) *ProgramRepository {
	return &ProgramRepository{pool: pool}
}

func (r *ProgramRepository) Create(ctx context.Context, name string, coordinatorID uuid.UUID) (uuid.UUID, error) {
	const q = `INSERT INTO programs (name, coordinator_id) VALUES ($1, $2) RETURNING id`

	var id uuid.UUID
	if err := r.pool.QueryRow(ctx, q, name, coordinatorID).Scan(&id); err != nil {
		if isForeignKeyViolation(err) {
			return uuid.Nil, infra.WrapRepoErr("coordinator does not exist", err, infra.KindForeignKeyViolated)
		}
		return uuid.Nil, infra.WrapRepoErr("failed to create program", err)
	}
	return id, nil
}

func (r *ProgramRepository) FindByID(ctx context.Context, id uuid.UUID) (*program.Program, error) {
	const q = `
		SELECT id, name, coordinator_id, enrolled_participants, completed_participants
		FROM programs
		WHERE id = $1`

	var p program.Program
	err := r.pool.QueryRow(ctx, q, id).Scan(&p.ID, &p.Name, &p.CoordinatorID, &p.EnrolledParticipants, &p.CompletedParticipants)
	if err != nil {
		if isNoRows(err) {
			return nil, infra.WrapRepoErr("program not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find program", err)
	}
	return &p, nil
}

func (r *ProgramRepository) Enroll(ctx context.Context, programID, participantID uuid.UUID) error {
	const q = `
		INSERT INTO program_enrollments (program_id, participant_id, status)
		VALUES ($1, $2, 'enrolled')`

	if _, err := r.pool.Exec(ctx, q, programID, participantID); err != nil {
		if isUniqueViolation(err) {
			return infra.WrapRepoErr("participant already enrolled", err, infra.KindDuplicateKey)
		}
		if isForeignKeyViolation(err) {
			return infra.WrapRepoErr("program or participant does not exist", err, infra.KindForeignKeyViolated)
		}
		return infra.WrapRepoErr("failed to enroll participant", err)
	}

	const counter = `UPDATE programs SET enrolled_participants = enrolled_participants + 1, updated_at = now() WHERE id = $1`
	if _, err := r.pool.Exec(ctx, counter, programID); err != nil {
		return infra.WrapRepoErr("failed to bump enrolled counter", err)
	}
	return nil
}

// FindEnrollmentForUpdate reads the stored status with a row lock so the
// transition delta is computed against the value the update will replace.
func (r *ProgramRepository) FindEnrollmentForUpdate(ctx context.Context, tx db.DBTX, programID, participantID uuid.UUID) (*program.Enrollment, error) {
	const q = `
		SELECT program_id, participant_id, status
		FROM program_enrollments
		WHERE program_id = $1 AND participant_id = $2
		FOR UPDATE`

	var e program.Enrollment
	err := tx.QueryRow(ctx, q, programID, participantID).Scan(&e.ProgramID, &e.ParticipantID, &e.Status)
	if err != nil {
		if isNoRows(err) {
			return nil, infra.WrapRepoErr("enrollment not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find enrollment", err)
	}
	return &e, nil
}

func (r *ProgramRepository) UpdateEnrollmentStatus(ctx context.Context, tx db.DBTX, programID, participantID uuid.UUID, status program.EnrollmentStatus) error {
	const q = `
		UPDATE program_enrollments
		SET status = $3, updated_at = now()
		WHERE program_id = $1 AND participant_id = $2`

	tag, err := tx.Exec(ctx, q, programID, participantID, status)
	if err != nil {
		return infra.WrapRepoErr("failed to update enrollment status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.NewRepoErr("enrollment not found", infra.KindNotFound)
	}
	return nil
}

// ApplyCounterDelta adjusts the program's denormalized counters by the delta
// the domain computed for one status transition.
func (r *ProgramRepository) ApplyCounterDelta(ctx context.Context, tx db.DBTX, programID uuid.UUID, delta program.CounterDelta) error {
	if delta.IsZero() {
		return nil
	}

	const q = `
		UPDATE programs
		SET enrolled_participants = enrolled_participants + $2,
		    completed_participants = completed_participants + $3,
		    updated_at = now()
		WHERE id = $1`

	tag, err := tx.Exec(ctx, q, programID, delta.Enrolled, delta.Completed)
	if err != nil {
		return infra.WrapRepoErr("failed to apply counter delta", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.NewRepoErr("program not found", infra.KindNotFound)
	}
	return nil
}
