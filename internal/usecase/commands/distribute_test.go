//go:build unit

package commands_test

import (
	"context"
	"errors"

	"relief-ledger/internal/domain/balance"
	"relief-ledger/internal/domain/product"
	"relief-ledger/internal/domain/user"
	"relief-ledger/internal/domain/workshop"
	"relief-ledger/internal/infra"
	"relief-ledger/internal/infra/repository"
	"relief-ledger/internal/usecase/commands"
	"relief-ledger/tests/common/builder"

	"github.com/google/uuid"
	"go.uber.org/mock/gomock"
)

type distributeFixture struct {
	conductorID uuid.UUID
	principal   user.Principal
	key         uuid.UUID
	ws          *workshop.Workshop
	prod        *product.Product
	params      commands.DistributeParams
}

// newDistributeFixture sets up a conductor distributing from their own
// balance, so the self-notification suppression keeps the notifier quiet.
func (s *EngineTestSuite) newDistributeFixture(qty int64) distributeFixture {
	conductorID := uuid.New()
	wb := builder.NewWorkshopBuilder().WithConductorID(conductorID)
	ws := wb.BuildReconstructed()
	params := builder.NewDistributionBuilder().
		WithWorkshopID(ws.ID()).
		WithQuantity(qty).
		BuildParams()
	prod := product.ReconstructProduct(params.ProductID, "Soap", "HYG-001", 100, 250, "hygiene")

	return distributeFixture{
		conductorID: conductorID,
		principal:   user.Principal{ID: conductorID, Role: user.RoleCoordinator},
		key:         uuid.New(),
		ws:          ws,
		prod:        prod,
		params:      params,
	}
}

func (s *EngineTestSuite) expectDistributePreconditions(f distributeFixture, available int64) {
	s.workshops.EXPECT().FindByID(gomock.Any(), f.params.WorkshopID).Return(f.ws, nil)
	s.participants.EXPECT().ExistingIDs(gomock.Any(), []uuid.UUID{f.params.ParticipantID}).
		Return([]uuid.UUID{f.params.ParticipantID}, nil)
	s.workshops.EXPECT().Attendance(gomock.Any(), f.params.WorkshopID, []uuid.UUID{f.params.ParticipantID}).
		Return([]workshop.Attendance{{ParticipantID: f.params.ParticipantID, Status: workshop.AttendanceAttended}}, nil)
	s.balances.EXPECT().Find(gomock.Any(), f.conductorID, f.params.ProductID).
		Return(&balance.Balance{
			OwnerID:           f.conductorID,
			ProductID:         f.params.ProductID,
			ProductName:       f.prod.Name(),
			AllocatedQuantity: available,
			AvailableQuantity: available,
		}, nil)
	s.products.EXPECT().FindByID(gomock.Any(), f.params.ProductID).Return(f.prod, nil)
}

func (s *EngineTestSuite) TestDistribute() {
	ctx := context.Background()

	s.Run("success: decrements balance, propagates, records one entry", func() {
		f := s.newDistributeFixture(5)

		s.expectDistributePreconditions(f, 25)
		s.expectClaim()
		s.expectTx(2)

		s.balances.EXPECT().Decrement(gomock.Any(), gomock.Any(), f.conductorID, f.params.ProductID, int64(5)).Return(nil)
		s.balances.EXPECT().Find(gomock.Any(), f.conductorID, f.params.ProductID).
			Return(&balance.Balance{AvailableQuantity: 20, AllocatedQuantity: 25}, nil)

		s.workshops.EXPECT().FindByIDForUpdate(gomock.Any(), gomock.Any(), f.params.WorkshopID).
			Return(builder.NewWorkshopBuilder().WithConductorID(f.conductorID).BuildReconstructed(), nil)
		s.workshops.EXPECT().SaveMaterialsUsed(gomock.Any(), gomock.Any(), f.params.WorkshopID, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ any, _ uuid.UUID, materials []workshop.MaterialUsage) error {
				s.Require().Len(materials, 1)
				s.Equal(int64(5), materials[0].Quantity)
				s.Equal([]uuid.UUID{f.params.ParticipantID}, materials[0].DistributedTo)
				return nil
			})
		s.participants.EXPECT().AppendReceipt(gomock.Any(), gomock.Any(), f.params.ParticipantID, gomock.Any()).Return(nil)
		s.entries.EXPECT().RecordBatch(gomock.Any(), gomock.Any(), gomock.Len(1)).Return(nil)

		result, err := s.engine.Distribute(ctx, f.params, f.principal, f.key)

		s.Require().NoError(err)
		s.Equal(commands.KindSingleDistribution, result.Kind)
		s.NotEqual(uuid.Nil, result.Reference)
		s.Len(result.LedgerEntryIDs, 1)
		s.Equal([]uuid.UUID{f.params.ParticipantID}, result.Recipients)
		s.Require().NotNil(result.BalanceAfter)
		s.Equal(int64(20), *result.BalanceAfter)
		s.Nil(result.Warning)
		s.False(result.IsReplayed)
	})

	s.Run("error: workshop missing stops before any other read", func() {
		f := s.newDistributeFixture(5)

		s.workshops.EXPECT().FindByID(gomock.Any(), f.params.WorkshopID).
			Return(nil, infra.NewRepoErr("workshop not found", infra.KindNotFound))

		result, err := s.engine.Distribute(ctx, f.params, f.principal, f.key)
		s.Nil(result)
		s.Require().ErrorIs(err, commands.ErrWorkshopNotFound)
	})

	s.Run("error: non-conductor coordinator is denied before recipient checks", func() {
		f := s.newDistributeFixture(5)
		stranger := user.Principal{ID: uuid.New(), Role: user.RoleCoordinator}

		s.workshops.EXPECT().FindByID(gomock.Any(), f.params.WorkshopID).Return(f.ws, nil)

		result, err := s.engine.Distribute(ctx, f.params, stranger, f.key)
		s.Nil(result)
		s.Require().ErrorIs(err, commands.ErrPermissionDenied)
	})

	s.Run("success: admin may distribute on the conductor's behalf", func() {
		f := s.newDistributeFixture(5)
		admin := user.Principal{ID: uuid.New(), Role: user.RoleAdmin}

		s.expectDistributePreconditions(f, 25)
		s.expectClaim()
		s.expectTx(2)
		s.balances.EXPECT().Decrement(gomock.Any(), gomock.Any(), f.conductorID, f.params.ProductID, int64(5)).Return(nil)
		s.balances.EXPECT().Find(gomock.Any(), f.conductorID, f.params.ProductID).
			Return(&balance.Balance{AvailableQuantity: 20, AllocatedQuantity: 25}, nil)
		s.workshops.EXPECT().FindByIDForUpdate(gomock.Any(), gomock.Any(), f.params.WorkshopID).
			Return(builder.NewWorkshopBuilder().WithConductorID(f.conductorID).BuildReconstructed(), nil)
		s.workshops.EXPECT().SaveMaterialsUsed(gomock.Any(), gomock.Any(), f.params.WorkshopID, gomock.Any()).Return(nil)
		s.participants.EXPECT().AppendReceipt(gomock.Any(), gomock.Any(), f.params.ParticipantID, gomock.Any()).Return(nil)
		s.entries.EXPECT().RecordBatch(gomock.Any(), gomock.Any(), gomock.Len(1)).Return(nil)
		// the conductor is told someone else moved their balance
		s.notifier.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

		result, err := s.engine.Distribute(ctx, f.params, admin, f.key)
		s.Require().NoError(err)
		s.Nil(result.Warning)
	})

	s.Run("error: unknown participant", func() {
		f := s.newDistributeFixture(5)

		s.workshops.EXPECT().FindByID(gomock.Any(), f.params.WorkshopID).Return(f.ws, nil)
		s.participants.EXPECT().ExistingIDs(gomock.Any(), []uuid.UUID{f.params.ParticipantID}).
			Return(nil, nil)

		result, err := s.engine.Distribute(ctx, f.params, f.principal, f.key)
		s.Nil(result)
		s.Require().ErrorIs(err, commands.ErrParticipantNotFound)
	})

	s.Run("error: registered but not attended participant is ineligible", func() {
		f := s.newDistributeFixture(5)

		s.workshops.EXPECT().FindByID(gomock.Any(), f.params.WorkshopID).Return(f.ws, nil)
		s.participants.EXPECT().ExistingIDs(gomock.Any(), []uuid.UUID{f.params.ParticipantID}).
			Return([]uuid.UUID{f.params.ParticipantID}, nil)
		s.workshops.EXPECT().Attendance(gomock.Any(), f.params.WorkshopID, []uuid.UUID{f.params.ParticipantID}).
			Return([]workshop.Attendance{{ParticipantID: f.params.ParticipantID, Status: workshop.AttendanceRegistered}}, nil)

		result, err := s.engine.Distribute(ctx, f.params, f.principal, f.key)
		s.Nil(result)
		s.Require().ErrorIs(err, commands.ErrNoEligibleRecipients)
	})

	s.Run("error: no balance row for this product", func() {
		f := s.newDistributeFixture(5)

		s.workshops.EXPECT().FindByID(gomock.Any(), f.params.WorkshopID).Return(f.ws, nil)
		s.participants.EXPECT().ExistingIDs(gomock.Any(), []uuid.UUID{f.params.ParticipantID}).
			Return([]uuid.UUID{f.params.ParticipantID}, nil)
		s.workshops.EXPECT().Attendance(gomock.Any(), f.params.WorkshopID, []uuid.UUID{f.params.ParticipantID}).
			Return([]workshop.Attendance{{ParticipantID: f.params.ParticipantID, Status: workshop.AttendanceLate}}, nil)
		s.balances.EXPECT().Find(gomock.Any(), f.conductorID, f.params.ProductID).
			Return(nil, infra.NewRepoErr("balance not found", infra.KindNotFound))

		result, err := s.engine.Distribute(ctx, f.params, f.principal, f.key)
		s.Nil(result)
		s.Require().ErrorIs(err, commands.ErrBalanceNotFound)
	})

	s.Run("error: insufficient balance reports have and need", func() {
		f := s.newDistributeFixture(11)

		s.workshops.EXPECT().FindByID(gomock.Any(), f.params.WorkshopID).Return(f.ws, nil)
		s.participants.EXPECT().ExistingIDs(gomock.Any(), []uuid.UUID{f.params.ParticipantID}).
			Return([]uuid.UUID{f.params.ParticipantID}, nil)
		s.workshops.EXPECT().Attendance(gomock.Any(), f.params.WorkshopID, []uuid.UUID{f.params.ParticipantID}).
			Return([]workshop.Attendance{{ParticipantID: f.params.ParticipantID, Status: workshop.AttendanceAttended}}, nil)
		s.balances.EXPECT().Find(gomock.Any(), f.conductorID, f.params.ProductID).
			Return(&balance.Balance{AllocatedQuantity: 25, AvailableQuantity: 10}, nil)

		result, err := s.engine.Distribute(ctx, f.params, f.principal, f.key)
		s.Nil(result)
		s.Require().ErrorIs(err, commands.ErrInsufficientBalance)

		var insufficient *commands.InsufficientBalanceError
		s.Require().ErrorAs(err, &insufficient)
		s.Equal(int64(10), insufficient.Available)
		s.Equal(int64(11), insufficient.Required)
	})

	s.Run("error: missing idempotency key after preconditions pass", func() {
		f := s.newDistributeFixture(5)

		s.expectDistributePreconditions(f, 25)

		result, err := s.engine.Distribute(ctx, f.params, f.principal, uuid.Nil)
		s.Nil(result)
		s.Require().ErrorIs(err, commands.ErrIdempotencyKeyRequired)
	})

	s.Run("success: completed key replays without re-executing", func() {
		f := s.newDistributeFixture(5)
		resultRef := uuid.New()

		s.expectDistributePreconditions(f, 25)

		var seenHash string
		s.idempotency.EXPECT().TryInsert(gomock.Any(), f.key, f.principal.ID, gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _, _ uuid.UUID, _, requestHash string, _ any) (bool, error) {
				seenHash = requestHash
				return false, nil
			})
		s.idempotency.EXPECT().Get(gomock.Any(), f.key, f.principal.ID).
			DoAndReturn(func(_ context.Context, _, _ uuid.UUID) (*repository.IdempotencyRecord, error) {
				return &repository.IdempotencyRecord{
					Status:      "completed",
					RequestHash: seenHash,
					ResultRef:   &resultRef,
				}, nil
			})

		result, err := s.engine.Distribute(ctx, f.params, f.principal, f.key)
		s.Require().NoError(err)
		s.True(result.IsReplayed)
		s.Equal(resultRef, result.Reference)
	})

	s.Run("error: same key with different parameters is rejected", func() {
		f := s.newDistributeFixture(5)

		s.expectDistributePreconditions(f, 25)
		s.idempotency.EXPECT().TryInsert(gomock.Any(), f.key, f.principal.ID, gomock.Any(), gomock.Any(), gomock.Any()).
			Return(false, nil)
		s.idempotency.EXPECT().Get(gomock.Any(), f.key, f.principal.ID).
			Return(&repository.IdempotencyRecord{Status: "completed", RequestHash: "different-request"}, nil)

		result, err := s.engine.Distribute(ctx, f.params, f.principal, f.key)
		s.Nil(result)
		s.Require().ErrorIs(err, commands.ErrDuplicateRequest)
	})

	s.Run("error: concurrent request holding a live claim", func() {
		f := s.newDistributeFixture(5)

		s.expectDistributePreconditions(f, 25)

		var seenHash string
		s.idempotency.EXPECT().TryInsert(gomock.Any(), f.key, f.principal.ID, gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _, _ uuid.UUID, _, requestHash string, _ any) (bool, error) {
				seenHash = requestHash
				return false, nil
			})
		s.idempotency.EXPECT().Get(gomock.Any(), f.key, f.principal.ID).
			DoAndReturn(func(_ context.Context, _, _ uuid.UUID) (*repository.IdempotencyRecord, error) {
				return &repository.IdempotencyRecord{Status: "processing", RequestHash: seenHash}, nil
			})
		s.idempotency.EXPECT().ClaimExpired(gomock.Any(), f.key, f.principal.ID, gomock.Any(), gomock.Any()).
			Return(false, nil)

		result, err := s.engine.Distribute(ctx, f.params, f.principal, f.key)
		s.Nil(result)
		s.Require().ErrorIs(err, commands.ErrIdempotencyInProgress)
	})

	s.Run("error: decrement lost the race, claim is released", func() {
		f := s.newDistributeFixture(5)

		s.expectDistributePreconditions(f, 25)
		s.idempotency.EXPECT().TryInsert(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(true, nil)
		s.expectTx(1)
		s.balances.EXPECT().Decrement(gomock.Any(), gomock.Any(), f.conductorID, f.params.ProductID, int64(5)).
			Return(infra.NewRepoErr("conditional decrement matched no row", infra.KindInsufficient))
		s.idempotency.EXPECT().Delete(gomock.Any(), f.key, f.principal.ID).Return(nil)

		result, err := s.engine.Distribute(ctx, f.params, f.principal, f.key)
		s.Nil(result)
		s.Require().ErrorIs(err, commands.ErrInsufficientBalance)
	})

	s.Run("success with warning: propagation failure does not roll back", func() {
		f := s.newDistributeFixture(5)

		s.expectDistributePreconditions(f, 25)
		s.expectClaim()
		s.expectTx(2)
		s.balances.EXPECT().Decrement(gomock.Any(), gomock.Any(), f.conductorID, f.params.ProductID, int64(5)).Return(nil)
		s.balances.EXPECT().Find(gomock.Any(), f.conductorID, f.params.ProductID).
			Return(&balance.Balance{AvailableQuantity: 20, AllocatedQuantity: 25}, nil)
		s.workshops.EXPECT().FindByIDForUpdate(gomock.Any(), gomock.Any(), f.params.WorkshopID).
			Return(nil, errors.New("lock timeout"))

		result, err := s.engine.Distribute(ctx, f.params, f.principal, f.key)
		s.Require().NoError(err)
		s.Require().NotNil(result.Warning)
		s.Contains(*result.Warning, "reconciliation")
		s.Len(result.LedgerEntryIDs, 1)
	})
}

func (s *EngineTestSuite) TestDistributeBulk() {
	ctx := context.Background()

	s.Run("success: 3 eligible attendees at 5 each drain 15 from a balance of 25", func() {
		conductorID := uuid.New()
		principal := user.Principal{ID: conductorID, Role: user.RoleCoordinator}
		key := uuid.New()
		ws := builder.NewWorkshopBuilder().WithConductorID(conductorID).BuildReconstructed()
		params := builder.NewBulkDistributionBuilder().
			WithWorkshopID(ws.ID()).
			WithQuantityEach(5).
			BuildParams()
		prod := product.ReconstructProduct(params.ProductID, "Soap", "HYG-001", 100, 250, "hygiene")
		p1, p2, p3 := uuid.New(), uuid.New(), uuid.New()

		s.workshops.EXPECT().FindByID(gomock.Any(), params.WorkshopID).Return(ws, nil)
		s.workshops.EXPECT().EligibleAttendance(gomock.Any(), params.WorkshopID).
			Return([]workshop.Attendance{
				{ParticipantID: p1, Status: workshop.AttendanceAttended},
				{ParticipantID: p2, Status: workshop.AttendanceLate},
				{ParticipantID: p3, Status: workshop.AttendanceLeftEarly},
			}, nil)
		s.balances.EXPECT().Find(gomock.Any(), conductorID, params.ProductID).
			Return(&balance.Balance{AllocatedQuantity: 25, AvailableQuantity: 25}, nil)
		s.products.EXPECT().FindByID(gomock.Any(), params.ProductID).Return(prod, nil)
		s.expectClaim()
		s.expectTx(2)

		s.balances.EXPECT().Decrement(gomock.Any(), gomock.Any(), conductorID, params.ProductID, int64(15)).Return(nil)
		s.balances.EXPECT().Find(gomock.Any(), conductorID, params.ProductID).
			Return(&balance.Balance{AllocatedQuantity: 25, AvailableQuantity: 10}, nil)

		s.workshops.EXPECT().FindByIDForUpdate(gomock.Any(), gomock.Any(), params.WorkshopID).
			Return(builder.NewWorkshopBuilder().WithConductorID(conductorID).BuildReconstructed(), nil)
		s.workshops.EXPECT().SaveMaterialsUsed(gomock.Any(), gomock.Any(), params.WorkshopID, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ any, _ uuid.UUID, materials []workshop.MaterialUsage) error {
				s.Require().Len(materials, 1)
				s.Equal(int64(15), materials[0].Quantity)
				s.Equal([]uuid.UUID{p1, p2, p3}, materials[0].DistributedTo)
				return nil
			})
		s.participants.EXPECT().AppendReceipt(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(3)
		s.entries.EXPECT().RecordBatch(gomock.Any(), gomock.Any(), gomock.Len(3)).Return(nil)

		result, err := s.engine.DistributeBulk(ctx, params, principal, key)

		s.Require().NoError(err)
		s.Equal(commands.KindBulkDistribution, result.Kind)
		s.Len(result.LedgerEntryIDs, 3)
		s.Equal([]uuid.UUID{p1, p2, p3}, result.Recipients)
		s.Require().NotNil(result.BalanceAfter)
		s.Equal(int64(10), *result.BalanceAfter)
		s.Nil(result.Warning)
	})

	s.Run("error: empty workshop has no eligible attendees", func() {
		conductorID := uuid.New()
		principal := user.Principal{ID: conductorID, Role: user.RoleCoordinator}
		ws := builder.NewWorkshopBuilder().WithConductorID(conductorID).BuildReconstructed()
		params := builder.NewBulkDistributionBuilder().WithWorkshopID(ws.ID()).BuildParams()

		s.workshops.EXPECT().FindByID(gomock.Any(), params.WorkshopID).Return(ws, nil)
		s.workshops.EXPECT().EligibleAttendance(gomock.Any(), params.WorkshopID).Return(nil, nil)

		result, err := s.engine.DistributeBulk(ctx, params, principal, uuid.New())
		s.Nil(result)
		s.Require().ErrorIs(err, commands.ErrNoEligibleRecipients)
	})

	s.Run("error: explicit recipient list must be eligible in full", func() {
		conductorID := uuid.New()
		principal := user.Principal{ID: conductorID, Role: user.RoleCoordinator}
		ws := builder.NewWorkshopBuilder().WithConductorID(conductorID).BuildReconstructed()
		p1, p2 := uuid.New(), uuid.New()
		params := builder.NewBulkDistributionBuilder().
			WithWorkshopID(ws.ID()).
			WithParticipantIDs(p1, p2).
			BuildParams()

		s.workshops.EXPECT().FindByID(gomock.Any(), params.WorkshopID).Return(ws, nil)
		s.participants.EXPECT().ExistingIDs(gomock.Any(), []uuid.UUID{p1, p2}).
			Return([]uuid.UUID{p1, p2}, nil)
		s.workshops.EXPECT().Attendance(gomock.Any(), params.WorkshopID, []uuid.UUID{p1, p2}).
			Return([]workshop.Attendance{
				{ParticipantID: p1, Status: workshop.AttendanceAttended},
				{ParticipantID: p2, Status: workshop.AttendanceAbsent},
			}, nil)

		result, err := s.engine.DistributeBulk(ctx, params, principal, uuid.New())
		s.Nil(result)
		s.Require().ErrorIs(err, commands.ErrNoEligibleRecipients)
	})

	s.Run("error: total exceeds balance even though each share fits", func() {
		conductorID := uuid.New()
		principal := user.Principal{ID: conductorID, Role: user.RoleCoordinator}
		ws := builder.NewWorkshopBuilder().WithConductorID(conductorID).BuildReconstructed()
		params := builder.NewBulkDistributionBuilder().
			WithWorkshopID(ws.ID()).
			WithQuantityEach(10).
			BuildParams()
		p1, p2, p3 := uuid.New(), uuid.New(), uuid.New()

		s.workshops.EXPECT().FindByID(gomock.Any(), params.WorkshopID).Return(ws, nil)
		s.workshops.EXPECT().EligibleAttendance(gomock.Any(), params.WorkshopID).
			Return([]workshop.Attendance{
				{ParticipantID: p1, Status: workshop.AttendanceAttended},
				{ParticipantID: p2, Status: workshop.AttendanceAttended},
				{ParticipantID: p3, Status: workshop.AttendanceAttended},
			}, nil)
		s.balances.EXPECT().Find(gomock.Any(), conductorID, params.ProductID).
			Return(&balance.Balance{AllocatedQuantity: 25, AvailableQuantity: 25}, nil)

		result, err := s.engine.DistributeBulk(ctx, params, principal, uuid.New())
		s.Nil(result)

		var insufficient *commands.InsufficientBalanceError
		s.Require().ErrorAs(err, &insufficient)
		s.Equal(int64(25), insufficient.Available)
		s.Equal(int64(30), insufficient.Required)
	})
}
