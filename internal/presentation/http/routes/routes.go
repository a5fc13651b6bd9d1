package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/tradebook-api/internal/config"
	domainRepo "github.com/sangkips/tradebook-api/internal/domain/repository"
	"github.com/sangkips/tradebook-api/internal/presentation/http/handler"
	"github.com/sangkips/tradebook-api/internal/presentation/http/middleware"
	"github.com/sangkips/tradebook-api/pkg/utils"
	"go.uber.org/zap"
)

// Permissions checked on the ledger routes
const (
	PermissionViewLedgers   = "view-ledgers"
	PermissionManageLedgers = "manage-ledgers"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Health       *handler.HealthHandler
	Ledger       *handler.LedgerHandler
	Counterparty *handler.CounterpartyHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	RateLimiter     *middleware.TenantRateLimiter
	Log             *zap.Logger
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	router.Use(middleware.LoggerMiddleware(deps.Log))
	router.Use(middleware.RecoveryMiddleware(deps.Log))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", h.Health.Check)

	v1 := router.Group("/api/v1")
	{
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))
		protected.Use(middleware.RequireTenant())
		if deps.RateLimiter != nil {
			protected.Use(deps.RateLimiter.Middleware())
		}

		registerLedgerRoutes(protected, h, deps)
		registerCounterpartyRoutes(protected, h)
	}

	return router
}

func registerLedgerRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	ledgers := protected.Group("/ledgers/:ledger_type")
	{
		ledgers.GET("/entries", middleware.RequirePermission(PermissionViewLedgers), h.Ledger.Entries)
		ledgers.GET("/pending", middleware.RequirePermission(PermissionViewLedgers), h.Ledger.Pending)
		ledgers.GET("/balances", middleware.RequirePermission(PermissionViewLedgers), h.Ledger.Balances)
		ledgers.GET("/export", middleware.RequirePermission(PermissionViewLedgers), h.Ledger.Export)

		// writes replay the first response for a repeated Idempotency-Key
		idempotent := middleware.Idempotency(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
			Log:  deps.Log,
		})
		ledgers.POST("/payments", middleware.RequirePermission(PermissionManageLedgers), idempotent, h.Ledger.RecordPayment)
		ledgers.POST("/references/:reference_id/mark-paid", middleware.RequirePermission(PermissionManageLedgers), idempotent, h.Ledger.MarkAsPaid)
	}
}

func registerCounterpartyRoutes(protected *gin.RouterGroup, h *Handlers) {
	counterparties := protected.Group("/counterparties")
	{
		counterparties.GET("", middleware.RequirePermission(PermissionViewLedgers), h.Counterparty.List)
		counterparties.GET("/:id", middleware.RequirePermission(PermissionViewLedgers), h.Counterparty.Get)
		counterparties.POST("", middleware.RequirePermission(PermissionManageLedgers), h.Counterparty.Create)
	}
}
