// Package commands implements the ledger mutation engine: every operation
// that adjusts a quantity balance, emits subsidiary documents, and records an
// auditable stock transaction goes through one code path with a shared
// precondition order and shared failure semantics.
//
// Each mutation runs in phases:
//
//  1. Preconditions - reads only. Any failure returns a typed error and zero
//     writes have happened.
//  2. Irreversible step - one transaction holding the atomic conditional
//     decrement (and, for allocations, the balance upsert). After it commits
//     the mutation is considered applied.
//  3. Downstream propagation - aggregate usage upsert, recipient receipts,
//     ledger entries. Failures here do NOT roll back phase 2; the result
//     carries a warning and the failure is logged for manual reconciliation.
//  4. Notification fan-out - best effort, individually swallowed.
package commands

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"relief-ledger/internal/domain/user"
	"relief-ledger/internal/pkg/clock"
	"relief-ledger/internal/pkg/errs"

	"github.com/google/uuid"
)

type Kind string

const (
	KindSingleDistribution     Kind = "single_distribution"
	KindBulkDistribution       Kind = "bulk_distribution"
	KindStockAllocation        Kind = "stock_allocation"
	KindEnrollmentStatusChange Kind = "enrollment_status_change"
	KindNotificationFanout     Kind = "notification_fanout"
)

// MutationResult reports a completed mutation. Warning is set when the
// irreversible step committed but a downstream step failed (partial failure):
// the caller still sees success for the committed decrement, with the warning
// flagging incomplete aggregate or ledger propagation.
type MutationResult struct {
	Kind           Kind        `json:"kind"`
	Reference      uuid.UUID   `json:"reference,omitempty"`
	BalanceAfter   *int64      `json:"balance_after,omitempty"`
	LedgerEntryIDs []uuid.UUID `json:"ledger_entry_ids,omitempty"`
	Recipients     []uuid.UUID `json:"recipients,omitempty"`
	Warning        *string     `json:"warning,omitempty"`
	IsReplayed     bool        `json:"is_replayed"`
}

type MutationEngine interface {
	Execute(ctx context.Context, kind Kind, params any, principal user.Principal, idempotencyKey uuid.UUID) (*MutationResult, error)

	Distribute(ctx context.Context, p DistributeParams, principal user.Principal, idempotencyKey uuid.UUID) (*MutationResult, error)
	DistributeBulk(ctx context.Context, p BulkDistributeParams, principal user.Principal, idempotencyKey uuid.UUID) (*MutationResult, error)
	Allocate(ctx context.Context, p AllocateParams, principal user.Principal, idempotencyKey uuid.UUID) (*MutationResult, error)
	ChangeEnrollmentStatus(ctx context.Context, p EnrollmentStatusParams, principal user.Principal) (*MutationResult, error)
	Fanout(ctx context.Context, p FanoutParams, principal user.Principal) (*MutationResult, error)
}

type Engine struct {
	balances     BalanceRepository
	products     ProductRepository
	workshops    WorkshopRepository
	participants ParticipantRepository
	programs     ProgramRepository
	entries      LedgerRepository
	notifier     NotificationRepository
	users        UserRepository
	idempotency  IdempotencyRepository
	tx           TxRunner
	clock        clock.Clock
}

func NewEngine(
	balances BalanceRepository,
	products ProductRepository,
	workshops WorkshopRepository,
	participants ParticipantRepository,
	programs ProgramRepository,
	entries LedgerRepository,
	notifier NotificationRepository,
	users UserRepository,
	idempotency IdempotencyRepository,
	tx TxRunner,
	clock clock.Clock,
) MutationEngine {
	return &Engine{
		balances:     balances,
		products:     products,
		workshops:    workshops,
		participants: participants,
		programs:     programs,
		entries:      entries,
		notifier:     notifier,
		users:        users,
		idempotency:  idempotency,
		tx:           tx,
		clock:        clock,
	}
}

// Execute is the generalized entry point: kind selects the operation, params
// must be the matching parameter struct.
func (e *Engine) Execute(ctx context.Context, kind Kind, params any, principal user.Principal, idempotencyKey uuid.UUID) (*MutationResult, error) {
	switch kind {
	case KindSingleDistribution:
		p, ok := params.(DistributeParams)
		if !ok {
			return nil, errs.Mark(errs.Newf("expected DistributeParams, got %T", params), ErrValidation)
		}
		return e.Distribute(ctx, p, principal, idempotencyKey)
	case KindBulkDistribution:
		p, ok := params.(BulkDistributeParams)
		if !ok {
			return nil, errs.Mark(errs.Newf("expected BulkDistributeParams, got %T", params), ErrValidation)
		}
		return e.DistributeBulk(ctx, p, principal, idempotencyKey)
	case KindStockAllocation:
		p, ok := params.(AllocateParams)
		if !ok {
			return nil, errs.Mark(errs.Newf("expected AllocateParams, got %T", params), ErrValidation)
		}
		return e.Allocate(ctx, p, principal, idempotencyKey)
	case KindEnrollmentStatusChange:
		p, ok := params.(EnrollmentStatusParams)
		if !ok {
			return nil, errs.Mark(errs.Newf("expected EnrollmentStatusParams, got %T", params), ErrValidation)
		}
		return e.ChangeEnrollmentStatus(ctx, p, principal)
	case KindNotificationFanout:
		p, ok := params.(FanoutParams)
		if !ok {
			return nil, errs.Mark(errs.Newf("expected FanoutParams, got %T", params), ErrValidation)
		}
		return e.Fanout(ctx, p, principal)
	default:
		return nil, errs.Mark(errs.Newf("unknown mutation kind %q", kind), ErrValidation)
	}
}

// canMutate is the single capability check every mutation kind reuses: the
// caller must be an admin or the recorded owner (conductor) of the target.
func canMutate(principal user.Principal, ownerID uuid.UUID) bool {
	return principal.IsAdmin() || principal.ID == ownerID
}

const idempotencyTTL = 24 * time.Hour

// claimIdempotency runs the key protocol before any write. It returns a
// non-nil result when a completed request with the same key is being
// replayed.
func (e *Engine) claimIdempotency(ctx context.Context, kind Kind, key uuid.UUID, principal user.Principal, requestHash string) (*MutationResult, error) {
	if key == uuid.Nil {
		return nil, ErrIdempotencyKeyRequired
	}

	expiresAt := e.clock.Now().Add(idempotencyTTL)

	claimed, err := e.idempotency.TryInsert(ctx, key, principal.ID, string(kind), requestHash, expiresAt)
	if err != nil {
		return nil, errs.Mark(err, ErrIdempotencyCheckFailed)
	}
	if claimed {
		return nil, nil
	}

	existing, err := e.idempotency.Get(ctx, key, principal.ID)
	if err != nil {
		return nil, errs.Mark(err, ErrIdempotencyCheckFailed)
	}

	if existing.RequestHash != requestHash {
		return nil, ErrDuplicateRequest
	}

	switch existing.Status {
	case "completed":
		result := &MutationResult{Kind: kind, IsReplayed: true}
		if existing.ResultRef != nil {
			result.Reference = *existing.ResultRef
		}
		return result, nil
	case "processing":
		reclaimed, err := e.idempotency.ClaimExpired(ctx, key, principal.ID, requestHash, expiresAt)
		if err != nil {
			return nil, errs.Mark(err, ErrIdempotencyCheckFailed)
		}
		if reclaimed {
			return nil, nil
		}
		return nil, ErrIdempotencyInProgress
	default:
		return nil, errs.Mark(errs.Newf("invalid idempotency key status %q", existing.Status), ErrIdempotencyCheckFailed)
	}
}

// releaseClaim frees a processing claim after the irreversible step failed to
// commit, so an immediate retry with the same key is not blocked until the
// claim expires. Best effort; a leftover claim self-heals via ClaimExpired.
func (e *Engine) releaseClaim(ctx context.Context, key uuid.UUID, principal user.Principal) {
	if err := e.idempotency.Delete(ctx, key, principal.ID); err != nil {
		slog.Warn("failed to release idempotency claim", "key", key, "user_id", principal.ID, "error", err)
	}
}

func requestHash(v any) string {
	data, _ := json.Marshal(v)
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

func resultHash(id uuid.UUID) string {
	hash := sha256.Sum256([]byte(id.String()))
	return hex.EncodeToString(hash[:])
}

// partialFailure logs a post-commit step failure with enough context for
// manual reconciliation and returns the warning to surface to the caller.
func partialFailure(kind Kind, step string, ownerID, productID uuid.UUID, qty int64, err error) *string {
	slog.Error("mutation committed but downstream step failed",
		"kind", string(kind),
		"step", step,
		"owner_id", ownerID,
		"product_id", productID,
		"quantity", qty,
		"error", err,
	)
	w := fmt.Sprintf("partial failure: %s did not complete; ledger state requires reconciliation", step)
	return &w
}
