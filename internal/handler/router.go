package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"relief-ledger/internal/domain/user"
	"relief-ledger/internal/handler/api"
	"relief-ledger/internal/handler/middleware"
	"relief-ledger/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(
	engine *gin.Engine,
	cfg config.Config,
	authHandler *api.AuthHandler,
	mutationHandler *api.MutationHandler,
	registryHandler *api.RegistryHandler,
	queryHandler *api.QueryHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, authHandler, mutationHandler, registryHandler, queryHandler, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(nil, cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(
	engine *gin.Engine,
	authHandler *api.AuthHandler,
	mutationHandler *api.MutationHandler,
	registryHandler *api.RegistryHandler,
	queryHandler *api.QueryHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		auth := apiGroup.Group("/auth")
		{
			addRoutes(auth, []route{
				{Method: http.MethodPost, Path: "/login", Handler: authHandler.Login},
				{Method: http.MethodPost, Path: "/refresh", Handler: authHandler.Refresh},
			})

			authRequired := auth.Group("")
			authRequired.Use(authMiddleware.RequireAuth())
			addRoutes(authRequired, []route{
				{Method: http.MethodPost, Path: "/logout", Handler: authHandler.Logout},
				{Method: http.MethodGet, Path: "/me", Handler: authHandler.Me},
			})
		}

		distributions := apiGroup.Group("/distributions")
		distributions.Use(authMiddleware.RequireAuth())
		{
			addRoutes(distributions, []route{
				{Method: http.MethodPost, Path: "", Handler: mutationHandler.Distribute},
				{Method: http.MethodPost, Path: "/bulk", Handler: mutationHandler.DistributeBulk},
			})
		}

		allocations := apiGroup.Group("/allocations")
		allocations.Use(authMiddleware.RequireAuth())
		{
			addRoutes(allocations, []route{
				{Method: http.MethodPost, Path: "", Handler: mutationHandler.Allocate},
			})
		}

		products := apiGroup.Group("/products")
		products.Use(authMiddleware.RequireAuth())
		{
			addRoutes(products, []route{
				{Method: http.MethodPost, Path: "", Handler: registryHandler.CreateProduct},
				{Method: http.MethodGet, Path: "", Handler: registryHandler.ListProducts},
				{Method: http.MethodGet, Path: "/:id", Handler: registryHandler.GetProduct},
				{Method: http.MethodPut, Path: "/:id", Handler: registryHandler.UpdateProduct},
				{Method: http.MethodDelete, Path: "/:id", Handler: registryHandler.DeleteProduct},
			})
		}

		workshops := apiGroup.Group("/workshops")
		workshops.Use(authMiddleware.RequireAuth())
		{
			addRoutes(workshops, []route{
				{Method: http.MethodPost, Path: "", Handler: registryHandler.CreateWorkshop},
				{Method: http.MethodGet, Path: "/:id", Handler: queryHandler.GetWorkshop},
				{Method: http.MethodPost, Path: "/:id/attendance", Handler: registryHandler.RegisterAttendance},
			})
		}

		participants := apiGroup.Group("/participants")
		participants.Use(authMiddleware.RequireAuth())
		{
			addRoutes(participants, []route{
				{Method: http.MethodPost, Path: "", Handler: registryHandler.CreateParticipant},
			})
		}

		programs := apiGroup.Group("/programs")
		programs.Use(authMiddleware.RequireAuth())
		{
			addRoutes(programs, []route{
				{Method: http.MethodPost, Path: "", Handler: registryHandler.CreateProgram},
				{Method: http.MethodPost, Path: "/:id/enrollments", Handler: registryHandler.EnrollParticipant},
				{Method: http.MethodPatch, Path: "/:id/enrollments/:participantId/status", Handler: mutationHandler.ChangeEnrollmentStatus},
			})
		}

		balances := apiGroup.Group("/balances")
		balances.Use(authMiddleware.RequireAuth())
		{
			addRoutes(balances, []route{
				{Method: http.MethodGet, Path: "", Handler: queryHandler.ListMyBalances},
				{
					Method:  http.MethodGet,
					Path:    "/:ownerId",
					Handler: queryHandler.ListOwnerBalances,
					Mw:      []gin.HandlerFunc{authMiddleware.RequireRoleAtLeast(user.RoleAdmin)},
				},
			})
		}

		reports := apiGroup.Group("/reports")
		reports.Use(authMiddleware.RequireAuth())
		{
			addRoutes(reports, []route{
				{Method: http.MethodGet, Path: "/products", Handler: queryHandler.ReportByProduct},
				{Method: http.MethodGet, Path: "/recipients", Handler: queryHandler.ReportByRecipient},
			})
		}

		notifications := apiGroup.Group("/notifications")
		notifications.Use(authMiddleware.RequireAuth())
		{
			addRoutes(notifications, []route{
				{Method: http.MethodGet, Path: "", Handler: queryHandler.ListNotifications},
				{Method: http.MethodPost, Path: "/fanout", Handler: mutationHandler.Fanout},
				{Method: http.MethodPatch, Path: "/:id/read", Handler: queryHandler.MarkNotificationRead},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
