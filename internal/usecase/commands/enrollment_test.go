//go:build unit

package commands_test

import (
	"context"

	"relief-ledger/internal/domain/notification"
	"relief-ledger/internal/domain/program"
	"relief-ledger/internal/domain/user"
	"relief-ledger/internal/infra"
	"relief-ledger/internal/usecase/commands"

	"github.com/google/uuid"
	"go.uber.org/mock/gomock"
)

type enrollmentFixture struct {
	coordinatorID uuid.UUID
	principal     user.Principal
	prog          *program.Program
	params        commands.EnrollmentStatusParams
}

func newEnrollmentFixture(newStatus string) enrollmentFixture {
	coordinatorID := uuid.New()
	programID := uuid.New()
	return enrollmentFixture{
		coordinatorID: coordinatorID,
		principal:     user.Principal{ID: coordinatorID, Role: user.RoleCoordinator},
		prog: &program.Program{
			ID:            programID,
			Name:          "Winter Relief 2025",
			CoordinatorID: coordinatorID,
		},
		params: commands.EnrollmentStatusParams{
			ProgramID:     programID,
			ParticipantID: uuid.New(),
			NewStatus:     newStatus,
		},
	}
}

func (s *EngineTestSuite) TestChangeEnrollmentStatus() {
	ctx := context.Background()

	s.Run("success: active to completed bumps the completed counter", func() {
		f := newEnrollmentFixture("completed")

		s.programs.EXPECT().FindByID(gomock.Any(), f.params.ProgramID).Return(f.prog, nil)
		s.expectTx(1)
		s.programs.EXPECT().FindEnrollmentForUpdate(gomock.Any(), gomock.Any(), f.params.ProgramID, f.params.ParticipantID).
			Return(&program.Enrollment{ProgramID: f.params.ProgramID, ParticipantID: f.params.ParticipantID, Status: program.StatusActive}, nil)
		s.programs.EXPECT().UpdateEnrollmentStatus(gomock.Any(), gomock.Any(), f.params.ProgramID, f.params.ParticipantID, program.StatusCompleted).Return(nil)
		s.programs.EXPECT().ApplyCounterDelta(gomock.Any(), gomock.Any(), f.params.ProgramID, program.CounterDelta{Completed: 1}).Return(nil)

		result, err := s.engine.ChangeEnrollmentStatus(ctx, f.params, f.principal)

		s.Require().NoError(err)
		s.Equal(commands.KindEnrollmentStatusChange, result.Kind)
		s.Equal(f.params.ProgramID, result.Reference)
		s.Equal([]uuid.UUID{f.params.ParticipantID}, result.Recipients)
		s.Nil(result.Warning)
	})

	s.Run("success: dropping an active participant decrements enrolled", func() {
		f := newEnrollmentFixture("dropped-out")

		s.programs.EXPECT().FindByID(gomock.Any(), f.params.ProgramID).Return(f.prog, nil)
		s.expectTx(1)
		s.programs.EXPECT().FindEnrollmentForUpdate(gomock.Any(), gomock.Any(), f.params.ProgramID, f.params.ParticipantID).
			Return(&program.Enrollment{ProgramID: f.params.ProgramID, ParticipantID: f.params.ParticipantID, Status: program.StatusEnrolled}, nil)
		s.programs.EXPECT().UpdateEnrollmentStatus(gomock.Any(), gomock.Any(), f.params.ProgramID, f.params.ParticipantID, program.StatusDroppedOut).Return(nil)
		s.programs.EXPECT().ApplyCounterDelta(gomock.Any(), gomock.Any(), f.params.ProgramID, program.CounterDelta{Enrolled: -1}).Return(nil)

		result, err := s.engine.ChangeEnrollmentStatus(ctx, f.params, f.principal)

		s.Require().NoError(err)
		s.Equal([]uuid.UUID{f.params.ParticipantID}, result.Recipients)
	})

	s.Run("success: an admin acting for the coordinator triggers a notification", func() {
		f := newEnrollmentFixture("completed")
		admin := user.Principal{ID: uuid.New(), Role: user.RoleAdmin}

		s.programs.EXPECT().FindByID(gomock.Any(), f.params.ProgramID).Return(f.prog, nil)
		s.expectTx(1)
		s.programs.EXPECT().FindEnrollmentForUpdate(gomock.Any(), gomock.Any(), f.params.ProgramID, f.params.ParticipantID).
			Return(&program.Enrollment{ProgramID: f.params.ProgramID, ParticipantID: f.params.ParticipantID, Status: program.StatusActive}, nil)
		s.programs.EXPECT().UpdateEnrollmentStatus(gomock.Any(), gomock.Any(), f.params.ProgramID, f.params.ParticipantID, program.StatusCompleted).Return(nil)
		s.programs.EXPECT().ApplyCounterDelta(gomock.Any(), gomock.Any(), f.params.ProgramID, program.CounterDelta{Completed: 1}).Return(nil)
		s.notifier.EXPECT().Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, n notification.Notification) error {
				s.Equal(f.coordinatorID, n.RecipientUserID)
				s.Equal(notification.TypeEnrollmentChanged, n.Type)
				return nil
			})

		_, err := s.engine.ChangeEnrollmentStatus(ctx, f.params, admin)
		s.Require().NoError(err)
	})

	s.Run("error: unknown status string", func() {
		f := newEnrollmentFixture("graduated")

		result, err := s.engine.ChangeEnrollmentStatus(ctx, f.params, f.principal)
		s.Nil(result)
		s.Require().ErrorIs(err, commands.ErrValidation)
	})

	s.Run("error: program does not exist", func() {
		f := newEnrollmentFixture("active")

		s.programs.EXPECT().FindByID(gomock.Any(), f.params.ProgramID).
			Return(nil, infra.NewRepoErr("program not found", infra.KindNotFound))

		result, err := s.engine.ChangeEnrollmentStatus(ctx, f.params, f.principal)
		s.Nil(result)
		s.Require().ErrorIs(err, commands.ErrProgramNotFound)
	})

	s.Run("error: a coordinator of another program is refused", func() {
		f := newEnrollmentFixture("active")
		stranger := user.Principal{ID: uuid.New(), Role: user.RoleCoordinator}

		s.programs.EXPECT().FindByID(gomock.Any(), f.params.ProgramID).Return(f.prog, nil)

		result, err := s.engine.ChangeEnrollmentStatus(ctx, f.params, stranger)
		s.Nil(result)
		s.Require().ErrorIs(err, commands.ErrPermissionDenied)
	})

	s.Run("error: transition to the current status writes nothing", func() {
		f := newEnrollmentFixture("active")

		s.programs.EXPECT().FindByID(gomock.Any(), f.params.ProgramID).Return(f.prog, nil)
		s.expectTx(1)
		s.programs.EXPECT().FindEnrollmentForUpdate(gomock.Any(), gomock.Any(), f.params.ProgramID, f.params.ParticipantID).
			Return(&program.Enrollment{ProgramID: f.params.ProgramID, ParticipantID: f.params.ParticipantID, Status: program.StatusActive}, nil)

		result, err := s.engine.ChangeEnrollmentStatus(ctx, f.params, f.principal)
		s.Nil(result)
		s.Require().ErrorIs(err, commands.ErrValidation)
		s.Require().ErrorIs(err, program.ErrSameStatus)
	})

	s.Run("error: participant never enrolled in the program", func() {
		f := newEnrollmentFixture("active")

		s.programs.EXPECT().FindByID(gomock.Any(), f.params.ProgramID).Return(f.prog, nil)
		s.expectTx(1)
		s.programs.EXPECT().FindEnrollmentForUpdate(gomock.Any(), gomock.Any(), f.params.ProgramID, f.params.ParticipantID).
			Return(nil, infra.NewRepoErr("enrollment not found", infra.KindNotFound))

		result, err := s.engine.ChangeEnrollmentStatus(ctx, f.params, f.principal)
		s.Nil(result)
		s.Require().ErrorIs(err, commands.ErrEnrollmentNotFound)
	})

	s.Run("error: missing program id", func() {
		f := newEnrollmentFixture("active")
		f.params.ProgramID = uuid.Nil

		result, err := s.engine.ChangeEnrollmentStatus(ctx, f.params, f.principal)
		s.Nil(result)
		s.Require().ErrorIs(err, commands.ErrValidation)
	})
}
