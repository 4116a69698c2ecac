package components

import (
	"relief-ledger/internal/handler"
	"relief-ledger/internal/handler/api"
	"relief-ledger/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewAuthHandler,
		api.NewMutationHandler,
		api.NewRegistryHandler,
		api.NewQueryHandler,
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)
