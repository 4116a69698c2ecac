package commands

import (
	"context"
	"fmt"
	"log/slog"

	"relief-ledger/internal/domain/ledger"
	"relief-ledger/internal/domain/notification"
	"relief-ledger/internal/domain/user"
	"relief-ledger/internal/infra"
	"relief-ledger/internal/infra/db"
	"relief-ledger/internal/pkg/errs"

	"github.com/google/uuid"
)

type AllocateParams struct {
	OwnerID   uuid.UUID `json:"owner_id"`
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int64     `json:"quantity"`
	Notes     string    `json:"notes,omitempty"`
}

func (p AllocateParams) validate() error {
	if p.OwnerID == uuid.Nil {
		return errs.Mark(errs.New("owner_id is required"), ErrValidation)
	}
	if p.ProductID == uuid.Nil {
		return errs.Mark(errs.New("product_id is required"), ErrValidation)
	}
	if p.Quantity <= 0 {
		return errs.Mark(errs.New("quantity must be positive"), ErrValidation)
	}
	return nil
}

// Allocate moves qty units from catalog stock into an owner's balance. Only
// admins allocate. The stock decrement and the balance increment commit
// together; the ledger entry and the notification follow best effort.
func (e *Engine) Allocate(ctx context.Context, p AllocateParams, principal user.Principal, idempotencyKey uuid.UUID) (*MutationResult, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	if !principal.IsAdmin() {
		return nil, ErrPermissionDenied
	}

	exists, err := e.users.Exists(ctx, p.OwnerID)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if !exists {
		return nil, errs.Mark(errs.Newf("owner %s does not exist", p.OwnerID), ErrOwnerNotFound)
	}

	prod, err := e.products.FindByID(ctx, p.ProductID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrProductNotFound)
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if !prod.CanAllocate(p.Quantity) {
		return nil, errs.Mark(errs.Newf("insufficient stock: have %d, need %d", prod.Stock(), p.Quantity), ErrInsufficientStock)
	}

	reqHash := requestHash(struct {
		Kind   Kind           `json:"kind"`
		Params AllocateParams `json:"params"`
	}{KindStockAllocation, p})
	if replay, err := e.claimIdempotency(ctx, KindStockAllocation, idempotencyKey, principal, reqHash); err != nil || replay != nil {
		return replay, err
	}

	now := e.clock.Now()
	entry := ledger.NewEntry(ledger.KindAllocation, uuid.Nil, p.OwnerID, p.ProductID, prod.Name(), p.Quantity, nil, p.Notes, now)

	err = e.tx.RunInTx(ctx, func(tx db.DBTX) error {
		if err := e.products.DecrementStock(ctx, tx, p.ProductID, p.Quantity); err != nil {
			return err
		}
		if err := e.balances.UpsertIncrement(ctx, tx, p.OwnerID, p.ProductID, prod.Name(), p.Quantity); err != nil {
			return err
		}
		return e.idempotency.UpdateStatusCompleted(ctx, tx, idempotencyKey, principal.ID, resultHash(entry.ID), entry.ID)
	})
	if err != nil {
		e.releaseClaim(ctx, idempotencyKey, principal)
		if infra.IsKind(err, infra.KindInsufficient) {
			return nil, errs.Mark(errs.Newf("insufficient stock: have %d, need %d", prod.Stock(), p.Quantity), ErrInsufficientStock)
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	result := &MutationResult{
		Kind:           KindStockAllocation,
		Reference:      entry.ID,
		LedgerEntryIDs: []uuid.UUID{entry.ID},
		Recipients:     []uuid.UUID{p.OwnerID},
	}
	if after, err := e.balances.Find(ctx, p.OwnerID, p.ProductID); err == nil {
		result.BalanceAfter = &after.AvailableQuantity
	}

	err = e.tx.RunInTx(ctx, func(tx db.DBTX) error {
		return e.entries.Record(ctx, tx, entry)
	})
	if err != nil {
		result.Warning = partialFailure(KindStockAllocation, "ledger entry", p.OwnerID, p.ProductID, p.Quantity, err)
		return result, nil
	}

	n := notification.New(
		p.OwnerID,
		notification.TypeAllocationReceived,
		"Stock allocated",
		fmt.Sprintf("%d x %s allocated to your balance", p.Quantity, prod.Name()),
		notification.PriorityNormal,
		map[string]any{"product_id": p.ProductID.String()},
		now,
	)
	if err := e.notifier.Create(ctx, n); err != nil {
		slog.Warn("notification delivery failed", "recipient", p.OwnerID, "error", err)
	}

	return result, nil
}
