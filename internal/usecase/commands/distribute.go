package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"relief-ledger/internal/domain/ledger"
	"relief-ledger/internal/domain/notification"
	"relief-ledger/internal/domain/participant"
	"relief-ledger/internal/domain/user"
	"relief-ledger/internal/domain/workshop"
	"relief-ledger/internal/infra"
	"relief-ledger/internal/infra/db"
	"relief-ledger/internal/pkg/errs"

	"github.com/google/uuid"
)

type DistributeParams struct {
	WorkshopID    uuid.UUID `json:"workshop_id"`
	ParticipantID uuid.UUID `json:"participant_id"`
	ProductID     uuid.UUID `json:"product_id"`
	Quantity      int64     `json:"quantity"`
	Notes         string    `json:"notes,omitempty"`
}

func (p DistributeParams) validate() error {
	if p.WorkshopID == uuid.Nil {
		return errs.Mark(errs.New("workshop_id is required"), ErrValidation)
	}
	if p.ParticipantID == uuid.Nil {
		return errs.Mark(errs.New("participant_id is required"), ErrValidation)
	}
	if p.ProductID == uuid.Nil {
		return errs.Mark(errs.New("product_id is required"), ErrValidation)
	}
	if p.Quantity <= 0 {
		return errs.Mark(errs.New("quantity must be positive"), ErrValidation)
	}
	return nil
}

type BulkDistributeParams struct {
	WorkshopID uuid.UUID `json:"workshop_id"`
	ProductID  uuid.UUID `json:"product_id"`
	// QuantityEach is deducted once per recipient.
	QuantityEach int64 `json:"quantity_each"`
	// ParticipantIDs optionally restricts the recipients. When empty, every
	// eligible attendee of the workshop receives the product.
	ParticipantIDs []uuid.UUID `json:"participant_ids,omitempty"`
	Notes          string      `json:"notes,omitempty"`
}

func (p BulkDistributeParams) validate() error {
	if p.WorkshopID == uuid.Nil {
		return errs.Mark(errs.New("workshop_id is required"), ErrValidation)
	}
	if p.ProductID == uuid.Nil {
		return errs.Mark(errs.New("product_id is required"), ErrValidation)
	}
	if p.QuantityEach <= 0 {
		return errs.Mark(errs.New("quantity_each must be positive"), ErrValidation)
	}
	return nil
}

// Distribute hands qty units of one product to a single workshop participant,
// deducting the conductor's balance.
func (e *Engine) Distribute(ctx context.Context, p DistributeParams, principal user.Principal, idempotencyKey uuid.UUID) (*MutationResult, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	ws, err := e.workshops.FindByID(ctx, p.WorkshopID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrWorkshopNotFound)
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	if !canMutate(principal, ws.ConductorID()) {
		return nil, ErrPermissionDenied
	}

	existing, err := e.participants.ExistingIDs(ctx, []uuid.UUID{p.ParticipantID})
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if len(existing) == 0 {
		return nil, errs.Mark(errs.Newf("participant %s does not exist", p.ParticipantID), ErrParticipantNotFound)
	}
	attendance, err := e.workshops.Attendance(ctx, p.WorkshopID, []uuid.UUID{p.ParticipantID})
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if len(attendance) == 0 || !attendance[0].Status.Eligible() {
		return nil, errs.Mark(errs.Newf("participant %s is not an eligible attendee of workshop %s", p.ParticipantID, p.WorkshopID), ErrNoEligibleRecipients)
	}

	bal, err := e.balances.Find(ctx, ws.ConductorID(), p.ProductID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrBalanceNotFound)
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if !bal.CanDistribute(p.Quantity) {
		return nil, &InsufficientBalanceError{Available: bal.AvailableQuantity, Required: p.Quantity}
	}

	prod, err := e.products.FindByID(ctx, p.ProductID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrProductNotFound)
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	reqHash := requestHash(struct {
		Kind   Kind             `json:"kind"`
		Params DistributeParams `json:"params"`
	}{KindSingleDistribution, p})
	if replay, err := e.claimIdempotency(ctx, KindSingleDistribution, idempotencyKey, principal, reqHash); err != nil || replay != nil {
		return replay, err
	}

	now := e.clock.Now()
	workshopID := p.WorkshopID
	entry := ledger.NewEntry(ledger.KindDistribution, ws.ConductorID(), p.ParticipantID, p.ProductID, prod.Name(), p.Quantity, &workshopID, p.Notes, now)

	err = e.tx.RunInTx(ctx, func(tx db.DBTX) error {
		if err := e.balances.Decrement(ctx, tx, ws.ConductorID(), p.ProductID, p.Quantity); err != nil {
			return err
		}
		return e.idempotency.UpdateStatusCompleted(ctx, tx, idempotencyKey, principal.ID, resultHash(entry.ID), entry.ID)
	})
	if err != nil {
		e.releaseClaim(ctx, idempotencyKey, principal)
		if infra.IsKind(err, infra.KindInsufficient) {
			return nil, &InsufficientBalanceError{Available: bal.AvailableQuantity, Required: p.Quantity}
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	result := &MutationResult{
		Kind:           KindSingleDistribution,
		Reference:      entry.ID,
		LedgerEntryIDs: []uuid.UUID{entry.ID},
		Recipients:     []uuid.UUID{p.ParticipantID},
	}
	if after, err := e.balances.Find(ctx, ws.ConductorID(), p.ProductID); err == nil {
		result.BalanceAfter = &after.AvailableQuantity
	}

	shares := []recipientShare{{ParticipantID: p.ParticipantID, Quantity: p.Quantity}}
	if err := e.propagateDistribution(ctx, p.WorkshopID, p.ProductID, prod.Name(), p.Quantity, shares, []ledger.Entry{entry}, now); err != nil {
		result.Warning = partialFailure(KindSingleDistribution, "distribution propagation", ws.ConductorID(), p.ProductID, p.Quantity, err)
		return result, nil
	}

	e.notifyDistribution(ctx, principal, ws, prod.Name(), p.Quantity, 1)
	return result, nil
}

// DistributeBulk hands quantity_each units to every recipient in one
// mutation, deducting quantity_each * len(recipients) from the conductor's
// balance atomically. Either every recipient is covered by the decrement or
// none is.
func (e *Engine) DistributeBulk(ctx context.Context, p BulkDistributeParams, principal user.Principal, idempotencyKey uuid.UUID) (*MutationResult, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	ws, err := e.workshops.FindByID(ctx, p.WorkshopID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrWorkshopNotFound)
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	if !canMutate(principal, ws.ConductorID()) {
		return nil, ErrPermissionDenied
	}

	recipients, err := e.resolveRecipients(ctx, p.WorkshopID, p.ParticipantIDs)
	if err != nil {
		return nil, err
	}

	total := p.QuantityEach * int64(len(recipients))

	bal, err := e.balances.Find(ctx, ws.ConductorID(), p.ProductID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrBalanceNotFound)
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if !bal.CanDistribute(total) {
		return nil, &InsufficientBalanceError{Available: bal.AvailableQuantity, Required: total}
	}

	prod, err := e.products.FindByID(ctx, p.ProductID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrProductNotFound)
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	reqHash := requestHash(struct {
		Kind   Kind                 `json:"kind"`
		Params BulkDistributeParams `json:"params"`
	}{KindBulkDistribution, p})
	if replay, err := e.claimIdempotency(ctx, KindBulkDistribution, idempotencyKey, principal, reqHash); err != nil || replay != nil {
		return replay, err
	}

	now := e.clock.Now()
	workshopID := p.WorkshopID
	entries := make([]ledger.Entry, 0, len(recipients))
	shares := make([]recipientShare, 0, len(recipients))
	for _, recipientID := range recipients {
		entries = append(entries, ledger.NewEntry(ledger.KindDistribution, ws.ConductorID(), recipientID, p.ProductID, prod.Name(), p.QuantityEach, &workshopID, p.Notes, now))
		shares = append(shares, recipientShare{ParticipantID: recipientID, Quantity: p.QuantityEach})
	}

	err = e.tx.RunInTx(ctx, func(tx db.DBTX) error {
		if err := e.balances.Decrement(ctx, tx, ws.ConductorID(), p.ProductID, total); err != nil {
			return err
		}
		return e.idempotency.UpdateStatusCompleted(ctx, tx, idempotencyKey, principal.ID, resultHash(entries[0].ID), entries[0].ID)
	})
	if err != nil {
		e.releaseClaim(ctx, idempotencyKey, principal)
		if infra.IsKind(err, infra.KindInsufficient) {
			return nil, &InsufficientBalanceError{Available: bal.AvailableQuantity, Required: total}
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	entryIDs := make([]uuid.UUID, len(entries))
	for i, entry := range entries {
		entryIDs[i] = entry.ID
	}
	result := &MutationResult{
		Kind:           KindBulkDistribution,
		Reference:      entries[0].ID,
		LedgerEntryIDs: entryIDs,
		Recipients:     recipients,
	}
	if after, err := e.balances.Find(ctx, ws.ConductorID(), p.ProductID); err == nil {
		result.BalanceAfter = &after.AvailableQuantity
	}

	if err := e.propagateDistribution(ctx, p.WorkshopID, p.ProductID, prod.Name(), total, shares, entries, now); err != nil {
		result.Warning = partialFailure(KindBulkDistribution, "distribution propagation", ws.ConductorID(), p.ProductID, total, err)
		return result, nil
	}

	e.notifyDistribution(ctx, principal, ws, prod.Name(), total, len(recipients))
	return result, nil
}

// resolveRecipients returns the recipient set for a bulk distribution. An
// explicit list must name existing participants who are all eligible
// attendees; an empty list means every eligible attendee.
func (e *Engine) resolveRecipients(ctx context.Context, workshopID uuid.UUID, participantIDs []uuid.UUID) ([]uuid.UUID, error) {
	if len(participantIDs) == 0 {
		attendance, err := e.workshops.EligibleAttendance(ctx, workshopID)
		if err != nil {
			return nil, errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if len(attendance) == 0 {
			return nil, errs.Mark(errs.Newf("workshop %s has no eligible attendees", workshopID), ErrNoEligibleRecipients)
		}
		recipients := make([]uuid.UUID, len(attendance))
		for i, a := range attendance {
			recipients[i] = a.ParticipantID
		}
		return recipients, nil
	}

	existing, err := e.participants.ExistingIDs(ctx, participantIDs)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if len(existing) != len(participantIDs) {
		return nil, errs.Mark(errs.Newf("%d of %d participants do not exist", len(participantIDs)-len(existing), len(participantIDs)), ErrParticipantNotFound)
	}

	attendance, err := e.workshops.Attendance(ctx, workshopID, participantIDs)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	eligible := make(map[uuid.UUID]bool, len(attendance))
	for _, a := range attendance {
		if a.Status.Eligible() {
			eligible[a.ParticipantID] = true
		}
	}
	for _, id := range participantIDs {
		if !eligible[id] {
			return nil, errs.Mark(errs.Newf("participant %s is not an eligible attendee of workshop %s", id, workshopID), ErrNoEligibleRecipients)
		}
	}
	return participantIDs, nil
}

type recipientShare struct {
	ParticipantID uuid.UUID
	Quantity      int64
}

// propagateDistribution applies the post-decrement side effects in their own
// transaction: the workshop usage aggregate, per-recipient receipts, and the
// ledger entries. The caller treats a failure here as a partial failure, not
// a rollback.
func (e *Engine) propagateDistribution(ctx context.Context, workshopID, productID uuid.UUID, productName string, totalQty int64, shares []recipientShare, entries []ledger.Entry, at time.Time) error {
	return e.tx.RunInTx(ctx, func(tx db.DBTX) error {
		ws, err := e.workshops.FindByIDForUpdate(ctx, tx, workshopID)
		if err != nil {
			return err
		}
		recipients := make([]uuid.UUID, len(shares))
		for i, s := range shares {
			recipients[i] = s.ParticipantID
		}
		updated := ws.RecordUsage(productID, productName, totalQty, recipients)
		if err := e.workshops.SaveMaterialsUsed(ctx, tx, workshopID, updated); err != nil {
			return err
		}
		for _, s := range shares {
			receipt := participant.ReceiptEntry{
				ProductID:   productID,
				ProductName: productName,
				Quantity:    s.Quantity,
				ReceivedAt:  at,
			}
			if err := e.participants.AppendReceipt(ctx, tx, s.ParticipantID, receipt); err != nil {
				return err
			}
		}
		return e.entries.RecordBatch(ctx, tx, entries)
	})
}

// notifyDistribution tells the conductor someone else distributed on their
// behalf. Delivery failures are logged and swallowed.
func (e *Engine) notifyDistribution(ctx context.Context, principal user.Principal, ws *workshop.Workshop, productName string, totalQty int64, recipientCount int) {
	if principal.ID == ws.ConductorID() {
		return
	}
	n := notification.New(
		ws.ConductorID(),
		notification.TypeMaterialsDistributed,
		"Materials distributed",
		fmt.Sprintf("%d x %s distributed to %d participant(s) in workshop %q", totalQty, productName, recipientCount, ws.Title()),
		notification.PriorityNormal,
		map[string]any{"workshop_id": ws.ID().String()},
		e.clock.Now(),
	)
	if err := e.notifier.Create(ctx, n); err != nil {
		slog.Warn("notification delivery failed", "recipient", ws.ConductorID(), "error", err)
	}
}
