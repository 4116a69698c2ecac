//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// bcrypt hash of "password123"
const testPasswordHash = "$2a$12$uhAjVE9f92IGYv3E25pJNetg.27lVt0p7jmLWjqjmhOg92ldPS0A."

func CreateTestUser(t *testing.T, db DBLike, email, role string) uuid.UUID {
	t.Helper()

	userID := uuid.New()
	ctx := context.Background()

	tag, err := db.Exec(ctx, "INSERT INTO users (id, email, password_hash, role, is_active) VALUES ($1, $2, $3, $4, true) ON CONFLICT (email) DO NOTHING",
		userID, email, testPasswordHash, role)
	require.NoError(t, err)

	if tag.RowsAffected() == 0 {
		_ = db.QueryRow(ctx, "SELECT id FROM users WHERE email = $1 AND is_active = true", email).Scan(&userID)
	}

	return userID
}

func CreateTestProduct(t *testing.T, db DBLike, name, sku string, stock int64) uuid.UUID {
	t.Helper()

	productID := uuid.New()
	ctx := context.Background()

	tag, err := db.Exec(ctx, "INSERT INTO products (id, name, sku, stock, price_cents, category) VALUES ($1, $2, $3, $4, 0, 'test') ON CONFLICT (sku) DO NOTHING",
		productID, name, sku, stock)
	require.NoError(t, err)

	if tag.RowsAffected() == 0 {
		_ = db.QueryRow(ctx, "SELECT id FROM products WHERE sku = $1", sku).Scan(&productID)
	}

	return productID
}

func CreateTestParticipant(t *testing.T, db DBLike, fullName string) uuid.UUID {
	t.Helper()

	participantID := uuid.New()
	_, err := db.Exec(context.Background(),
		"INSERT INTO participants (id, full_name) VALUES ($1, $2)", participantID, fullName)
	require.NoError(t, err)

	return participantID
}

func CreateTestWorkshop(t *testing.T, db DBLike, title string, conductorID uuid.UUID) uuid.UUID {
	t.Helper()

	workshopID := uuid.New()
	_, err := db.Exec(context.Background(),
		"INSERT INTO workshops (id, title, conductor_id, location, scheduled_at) VALUES ($1, $2, $3, 'Community Hall', now() + interval '1 day')",
		workshopID, title, conductorID)
	require.NoError(t, err)

	return workshopID
}

func RegisterAttendance(t *testing.T, db DBLike, workshopID, participantID uuid.UUID, status string) {
	t.Helper()

	_, err := db.Exec(context.Background(),
		"INSERT INTO workshop_attendance (workshop_id, participant_id, status) VALUES ($1, $2, $3) ON CONFLICT (workshop_id, participant_id) DO UPDATE SET status = $3",
		workshopID, participantID, status)
	require.NoError(t, err)
}

func SeedBalance(t *testing.T, db DBLike, ownerID, productID uuid.UUID, productName string, quantity int64) {
	t.Helper()

	_, err := db.Exec(context.Background(),
		`INSERT INTO balances (owner_id, product_id, product_name, allocated_quantity, available_quantity)
		 VALUES ($1, $2, $3, $4, $4)
		 ON CONFLICT (owner_id, product_id) DO UPDATE
		 SET allocated_quantity = $4, available_quantity = $4`,
		ownerID, productID, productName, quantity)
	require.NoError(t, err)
}

func CreateTestProgram(t *testing.T, db DBLike, name string, coordinatorID uuid.UUID) uuid.UUID {
	t.Helper()

	programID := uuid.New()
	_, err := db.Exec(context.Background(),
		"INSERT INTO programs (id, name, coordinator_id) VALUES ($1, $2, $3)", programID, name, coordinatorID)
	require.NoError(t, err)

	return programID
}

func EnrollParticipant(t *testing.T, db DBLike, programID, participantID uuid.UUID, status string) {
	t.Helper()

	_, err := db.Exec(context.Background(),
		"INSERT INTO program_enrollments (program_id, participant_id, status) VALUES ($1, $2, $3)",
		programID, participantID, status)
	require.NoError(t, err)

	if status == "enrolled" || status == "active" {
		_, err = db.Exec(context.Background(),
			"UPDATE programs SET enrolled_participants = enrolled_participants + 1 WHERE id = $1", programID)
		require.NoError(t, err)
	}
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	if _, err := pool.Exec(ctx, sqlAny.(string)); err != nil {
		return err
	}

	return nil
}
