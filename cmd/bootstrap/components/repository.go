package components

import (
	"relief-ledger/internal/infra/readstore"
	repo_impl "relief-ledger/internal/infra/repository"
	"relief-ledger/internal/usecase"
	"relief-ledger/internal/usecase/commands"
	"relief-ledger/internal/usecase/queries"

	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		// User
		fx.Annotate(
			repo_impl.NewUserRepository,
			fx.As(new(usecase.UserRepository)),
		),
		fx.Annotate(
			repo_impl.NewUserRepository,
			fx.As(new(commands.UserRepository)),
		),
		// Balance
		fx.Annotate(
			repo_impl.NewBalanceRepository,
			fx.As(new(commands.BalanceRepository)),
		),
		fx.Annotate(
			repo_impl.NewBalanceRepository,
			fx.As(new(queries.BalanceReader)),
		),
		// Product
		fx.Annotate(
			repo_impl.NewProductRepository,
			fx.As(new(commands.ProductRepository)),
		),
		fx.Annotate(
			repo_impl.NewProductRepository,
			fx.As(new(usecase.ProductStore)),
		),
		// Workshop
		fx.Annotate(
			repo_impl.NewWorkshopRepository,
			fx.As(new(commands.WorkshopRepository)),
		),
		fx.Annotate(
			repo_impl.NewWorkshopRepository,
			fx.As(new(usecase.WorkshopStore)),
		),
		fx.Annotate(
			repo_impl.NewWorkshopRepository,
			fx.As(new(queries.WorkshopReader)),
		),
		// Participant
		fx.Annotate(
			repo_impl.NewParticipantRepository,
			fx.As(new(commands.ParticipantRepository)),
		),
		fx.Annotate(
			repo_impl.NewParticipantRepository,
			fx.As(new(usecase.ParticipantStore)),
		),
		// Program
		fx.Annotate(
			repo_impl.NewProgramRepository,
			fx.As(new(commands.ProgramRepository)),
		),
		fx.Annotate(
			repo_impl.NewProgramRepository,
			fx.As(new(usecase.ProgramStore)),
		),
		// Ledger
		fx.Annotate(
			repo_impl.NewLedgerRepository,
			fx.As(new(commands.LedgerRepository)),
		),
		fx.Annotate(
			readstore.NewLedgerReadStore,
			fx.As(new(queries.ReportStore)),
		),
		// Notification
		fx.Annotate(
			repo_impl.NewNotificationRepository,
			fx.As(new(commands.NotificationRepository)),
		),
		fx.Annotate(
			repo_impl.NewNotificationRepository,
			fx.As(new(queries.NotificationReader)),
		),
		// Idempotency
		fx.Annotate(
			repo_impl.NewIdempotencyRepository,
			fx.As(new(commands.IdempotencyRepository)),
		),
		// Transactions
		fx.Annotate(
			repo_impl.NewPgxTxRunner,
			fx.As(new(commands.TxRunner)),
		),
	),
)
