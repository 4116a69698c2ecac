package repository

import (
	"context"

	"relief-ledger/internal/infra"
	"relief-ledger/internal/infra/db"
	"relief-ledger/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*queries.UserView, string, error) {
	const q = `
		SELECT id, email, role, is_active, password_hash
		FROM users
		WHERE email = $1`

	var (
		view queries.UserView
		hash string
	)
	err := r.pool.QueryRow(ctx, q, email).Scan(&view.ID, &view.Email, &view.Role, &view.IsActive, &hash)
	if err != nil {
		if isNoRows(err) {
			return nil, "", infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return nil, "", infra.WrapRepoErr("failed to find user by email", err)
	}

	return &view, hash, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*queries.UserView, error) {
	const q = `
		SELECT id, email, role, is_active
		FROM users
		WHERE id = $1`

	var view queries.UserView
	err := r.pool.QueryRow(ctx, q, id).Scan(&view.ID, &view.Email, &view.Role, &view.IsActive)
	if err != nil {
		if isNoRows(err) {
			return nil, infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find user by ID", err)
	}

	return &view, nil
}

func (r *UserRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1 AND is_active)`

	var exists bool
	if err := r.pool.QueryRow(ctx, q, id).Scan(&exists); err != nil {
		return false, infra.WrapRepoErr("failed to check user existence", err)
	}
	return exists, nil
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, userID uuid.UUID) error {
	const q = `UPDATE users SET last_login = now(), updated_at = now() WHERE id = $1`

	if _, err := r.pool.Exec(ctx, q, userID); err != nil {
		return infra.WrapRepoErr("failed to update last login", err)
	}
	return nil
}

func (r *UserRepository) Create(ctx context.Context, tx db.DBTX, email, passwordHash, role string) (uuid.UUID, error) {
	const q = `
		INSERT INTO users (email, password_hash, role)
		VALUES ($1, $2, $3)
		RETURNING id`

	var id uuid.UUID
	err := tx.QueryRow(ctx, q, email, passwordHash, role).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return uuid.Nil, infra.WrapRepoErr("email already registered", err, infra.KindDuplicateKey)
		}
		return uuid.Nil, infra.WrapRepoErr("failed to create user", err)
	}
	return id, nil
}
