//go:build unit

package commands_test

import (
	"context"
	"errors"

	"relief-ledger/internal/domain/balance"
	"relief-ledger/internal/domain/notification"
	"relief-ledger/internal/domain/product"
	"relief-ledger/internal/domain/user"
	"relief-ledger/internal/infra"
	"relief-ledger/internal/usecase/commands"
	"relief-ledger/tests/common/builder"

	"github.com/google/uuid"
	"go.uber.org/mock/gomock"
)

func (s *EngineTestSuite) TestAllocate() {
	ctx := context.Background()
	admin := user.Principal{ID: uuid.New(), Role: user.RoleAdmin}

	s.Run("success: stock moves into the owner's balance", func() {
		params := builder.NewAllocationBuilder().WithQuantity(25).BuildParams()
		prod := product.ReconstructProduct(params.ProductID, "Soap", "HYG-001", 100, 250, "hygiene")
		key := uuid.New()

		s.users.EXPECT().Exists(gomock.Any(), params.OwnerID).Return(true, nil)
		s.products.EXPECT().FindByID(gomock.Any(), params.ProductID).Return(prod, nil)
		s.expectClaim()
		s.expectTx(2)
		s.products.EXPECT().DecrementStock(gomock.Any(), gomock.Any(), params.ProductID, int64(25)).Return(nil)
		s.balances.EXPECT().UpsertIncrement(gomock.Any(), gomock.Any(), params.OwnerID, params.ProductID, "Soap", int64(25)).Return(nil)
		s.balances.EXPECT().Find(gomock.Any(), params.OwnerID, params.ProductID).
			Return(&balance.Balance{AllocatedQuantity: 25, AvailableQuantity: 25}, nil)
		s.entries.EXPECT().Record(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		s.notifier.EXPECT().Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, n notification.Notification) error {
				s.Equal(params.OwnerID, n.RecipientUserID)
				s.Equal(notification.TypeAllocationReceived, n.Type)
				return nil
			})

		result, err := s.engine.Allocate(ctx, params, admin, key)

		s.Require().NoError(err)
		s.Equal(commands.KindStockAllocation, result.Kind)
		s.Len(result.LedgerEntryIDs, 1)
		s.Equal([]uuid.UUID{params.OwnerID}, result.Recipients)
		s.Require().NotNil(result.BalanceAfter)
		s.Equal(int64(25), *result.BalanceAfter)
		s.Nil(result.Warning)
	})

	s.Run("error: only admins allocate", func() {
		params := builder.NewAllocationBuilder().BuildParams()
		coordinator := user.Principal{ID: uuid.New(), Role: user.RoleCoordinator}

		result, err := s.engine.Allocate(ctx, params, coordinator, uuid.New())
		s.Nil(result)
		s.Require().ErrorIs(err, commands.ErrPermissionDenied)
	})

	s.Run("error: unknown owner", func() {
		params := builder.NewAllocationBuilder().BuildParams()

		s.users.EXPECT().Exists(gomock.Any(), params.OwnerID).Return(false, nil)

		result, err := s.engine.Allocate(ctx, params, admin, uuid.New())
		s.Nil(result)
		s.Require().ErrorIs(err, commands.ErrOwnerNotFound)
	})

	s.Run("error: unknown product", func() {
		params := builder.NewAllocationBuilder().BuildParams()

		s.users.EXPECT().Exists(gomock.Any(), params.OwnerID).Return(true, nil)
		s.products.EXPECT().FindByID(gomock.Any(), params.ProductID).
			Return(nil, infra.NewRepoErr("product not found", infra.KindNotFound))

		result, err := s.engine.Allocate(ctx, params, admin, uuid.New())
		s.Nil(result)
		s.Require().ErrorIs(err, commands.ErrProductNotFound)
	})

	s.Run("error: pool stock too low", func() {
		params := builder.NewAllocationBuilder().WithQuantity(25).BuildParams()
		prod := product.ReconstructProduct(params.ProductID, "Soap", "HYG-001", 10, 250, "hygiene")

		s.users.EXPECT().Exists(gomock.Any(), params.OwnerID).Return(true, nil)
		s.products.EXPECT().FindByID(gomock.Any(), params.ProductID).Return(prod, nil)

		result, err := s.engine.Allocate(ctx, params, admin, uuid.New())
		s.Nil(result)
		s.Require().ErrorIs(err, commands.ErrInsufficientStock)
	})

	s.Run("error: stock decrement lost the race, claim is released", func() {
		params := builder.NewAllocationBuilder().WithQuantity(25).BuildParams()
		prod := product.ReconstructProduct(params.ProductID, "Soap", "HYG-001", 100, 250, "hygiene")
		key := uuid.New()

		s.users.EXPECT().Exists(gomock.Any(), params.OwnerID).Return(true, nil)
		s.products.EXPECT().FindByID(gomock.Any(), params.ProductID).Return(prod, nil)
		s.idempotency.EXPECT().TryInsert(gomock.Any(), key, admin.ID, gomock.Any(), gomock.Any(), gomock.Any()).
			Return(true, nil)
		s.expectTx(1)
		s.products.EXPECT().DecrementStock(gomock.Any(), gomock.Any(), params.ProductID, int64(25)).
			Return(infra.NewRepoErr("conditional decrement matched no row", infra.KindInsufficient))
		s.idempotency.EXPECT().Delete(gomock.Any(), key, admin.ID).Return(nil)

		result, err := s.engine.Allocate(ctx, params, admin, key)
		s.Nil(result)
		s.Require().ErrorIs(err, commands.ErrInsufficientStock)
	})

	s.Run("success with warning: ledger write failure does not undo the allocation", func() {
		params := builder.NewAllocationBuilder().WithQuantity(25).BuildParams()
		prod := product.ReconstructProduct(params.ProductID, "Soap", "HYG-001", 100, 250, "hygiene")
		key := uuid.New()

		s.users.EXPECT().Exists(gomock.Any(), params.OwnerID).Return(true, nil)
		s.products.EXPECT().FindByID(gomock.Any(), params.ProductID).Return(prod, nil)
		s.expectClaim()
		s.expectTx(2)
		s.products.EXPECT().DecrementStock(gomock.Any(), gomock.Any(), params.ProductID, int64(25)).Return(nil)
		s.balances.EXPECT().UpsertIncrement(gomock.Any(), gomock.Any(), params.OwnerID, params.ProductID, "Soap", int64(25)).Return(nil)
		s.balances.EXPECT().Find(gomock.Any(), params.OwnerID, params.ProductID).
			Return(&balance.Balance{AllocatedQuantity: 25, AvailableQuantity: 25}, nil)
		s.entries.EXPECT().Record(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("connection reset"))

		result, err := s.engine.Allocate(ctx, params, admin, key)

		s.Require().NoError(err)
		s.Require().NotNil(result.Warning)
		s.Contains(*result.Warning, "ledger entry")
	})
}
