//go:build unit

package commands_test

import (
	"context"
	"errors"

	"relief-ledger/internal/domain/notification"
	"relief-ledger/internal/domain/user"
	"relief-ledger/internal/usecase/commands"

	"github.com/google/uuid"
	"go.uber.org/mock/gomock"
)

func (s *EngineTestSuite) TestFanout() {
	ctx := context.Background()
	admin := user.Principal{ID: uuid.New(), Role: user.RoleAdmin}

	baseParams := func(recipients ...uuid.UUID) commands.FanoutParams {
		return commands.FanoutParams{
			RecipientIDs: recipients,
			Title:        "Distribution point moved",
			Message:      "Saturday distributions now run from the east warehouse.",
		}
	}

	s.Run("success: every recipient gets one notification", func() {
		recipients := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
		params := baseParams(recipients...)
		params.Priority = "high"

		seen := make([]uuid.UUID, 0, 3)
		s.notifier.EXPECT().Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, n notification.Notification) error {
				s.Equal(notification.TypeAnnouncement, n.Type)
				s.Equal(notification.PriorityHigh, n.Priority)
				seen = append(seen, n.RecipientUserID)
				return nil
			}).Times(3)

		result, err := s.engine.Fanout(ctx, params, admin)

		s.Require().NoError(err)
		s.Equal(commands.KindNotificationFanout, result.Kind)
		s.Equal(recipients, result.Recipients)
		s.Equal(recipients, seen)
		s.Nil(result.Warning)
	})

	s.Run("success with warning: one failed delivery does not stop the rest", func() {
		recipients := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
		params := baseParams(recipients...)

		s.notifier.EXPECT().Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, n notification.Notification) error {
				if n.RecipientUserID == recipients[1] {
					return errors.New("connection reset")
				}
				return nil
			}).Times(3)

		result, err := s.engine.Fanout(ctx, params, admin)

		s.Require().NoError(err)
		s.Equal([]uuid.UUID{recipients[0], recipients[2]}, result.Recipients)
		s.Require().NotNil(result.Warning)
		s.Contains(*result.Warning, "1 of 3 notifications were not delivered")
	})

	s.Run("error: viewers may not fan out", func() {
		viewer := user.Principal{ID: uuid.New(), Role: user.RoleViewer}

		result, err := s.engine.Fanout(ctx, baseParams(uuid.New()), viewer)
		s.Nil(result)
		s.Require().ErrorIs(err, commands.ErrPermissionDenied)
	})

	s.Run("error: empty recipient list", func() {
		result, err := s.engine.Fanout(ctx, baseParams(), admin)
		s.Nil(result)
		s.Require().ErrorIs(err, commands.ErrValidation)
	})

	s.Run("error: zero id in the recipient list", func() {
		result, err := s.engine.Fanout(ctx, baseParams(uuid.New(), uuid.Nil), admin)
		s.Nil(result)
		s.Require().ErrorIs(err, commands.ErrValidation)
	})

	s.Run("error: missing title", func() {
		params := baseParams(uuid.New())
		params.Title = ""

		result, err := s.engine.Fanout(ctx, params, admin)
		s.Nil(result)
		s.Require().ErrorIs(err, commands.ErrValidation)
	})

	s.Run("error: unknown priority", func() {
		params := baseParams(uuid.New())
		params.Priority = "urgent"

		result, err := s.engine.Fanout(ctx, params, admin)
		s.Nil(result)
		s.Require().ErrorIs(err, commands.ErrValidation)
	})
}
