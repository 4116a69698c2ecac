package commands

import (
	"context"
	"time"

	"relief-ledger/internal/domain/balance"
	"relief-ledger/internal/domain/ledger"
	"relief-ledger/internal/domain/notification"
	"relief-ledger/internal/domain/participant"
	"relief-ledger/internal/domain/product"
	"relief-ledger/internal/domain/program"
	"relief-ledger/internal/domain/workshop"
	"relief-ledger/internal/infra/db"
	"relief-ledger/internal/infra/repository"

	"github.com/google/uuid"
)

// TxRunner runs fn inside one database transaction. The engine uses it for
// the irreversible step of every mutation; downstream best-effort steps run
// outside it on purpose.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(tx db.DBTX) error) error
}

type BalanceRepository interface {
	Find(ctx context.Context, ownerID, productID uuid.UUID) (*balance.Balance, error)
	UpsertIncrement(ctx context.Context, tx db.DBTX, ownerID, productID uuid.UUID, productName string, qty int64) error
	Decrement(ctx context.Context, tx db.DBTX, ownerID, productID uuid.UUID, qty int64) error
}

type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*product.Product, error)
	DecrementStock(ctx context.Context, tx db.DBTX, id uuid.UUID, qty int64) error
}

type WorkshopRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*workshop.Workshop, error)
	FindByIDForUpdate(ctx context.Context, tx db.DBTX, id uuid.UUID) (*workshop.Workshop, error)
	SaveMaterialsUsed(ctx context.Context, tx db.DBTX, id uuid.UUID, materials []workshop.MaterialUsage) error
	Attendance(ctx context.Context, workshopID uuid.UUID, participantIDs []uuid.UUID) ([]workshop.Attendance, error)
	EligibleAttendance(ctx context.Context, workshopID uuid.UUID) ([]workshop.Attendance, error)
}

type ParticipantRepository interface {
	ExistingIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error)
	AppendReceipt(ctx context.Context, tx db.DBTX, participantID uuid.UUID, entry participant.ReceiptEntry) error
}

type ProgramRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*program.Program, error)
	FindEnrollmentForUpdate(ctx context.Context, tx db.DBTX, programID, participantID uuid.UUID) (*program.Enrollment, error)
	UpdateEnrollmentStatus(ctx context.Context, tx db.DBTX, programID, participantID uuid.UUID, status program.EnrollmentStatus) error
	ApplyCounterDelta(ctx context.Context, tx db.DBTX, programID uuid.UUID, delta program.CounterDelta) error
}

type LedgerRepository interface {
	Record(ctx context.Context, tx db.DBTX, e ledger.Entry) error
	RecordBatch(ctx context.Context, tx db.DBTX, entries []ledger.Entry) error
}

type NotificationRepository interface {
	Create(ctx context.Context, n notification.Notification) error
}

type UserRepository interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type IdempotencyRepository interface {
	TryInsert(ctx context.Context, key, userID uuid.UUID, endpoint, requestHash string, expiresAt time.Time) (bool, error)
	Get(ctx context.Context, key, userID uuid.UUID) (*repository.IdempotencyRecord, error)
	UpdateStatusCompleted(ctx context.Context, tx db.DBTX, key, userID uuid.UUID, resultHash string, resultRef uuid.UUID) error
	Delete(ctx context.Context, key, userID uuid.UUID) error
	ClaimExpired(ctx context.Context, key, userID uuid.UUID, requestHash string, expiresAt time.Time) (bool, error)
}
