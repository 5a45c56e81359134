package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/shopledger-api/internal/config"
	domainRepo "github.com/sangkips/shopledger-api/internal/domain/repository"
	"github.com/sangkips/shopledger-api/internal/infrastructure/metrics"
	"github.com/sangkips/shopledger-api/internal/presentation/http/handler"
	"github.com/sangkips/shopledger-api/internal/presentation/http/middleware"
	"go.uber.org/zap"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Settlement  *handler.SettlementHandler
	Transaction *handler.TransactionHandler
	PaymentPlan *handler.PaymentPlanHandler
	Ledger      *handler.LedgerHandler
	Obligation  *handler.ObligationHandler
	Debt        *handler.DebtHandler
	Report      *handler.ReportHandler
	Product     *handler.ProductHandler
	Employee    *handler.EmployeeHandler
	Admin       *handler.AdminHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	Cfg             *config.Config
	Logger          *zap.Logger
	Metrics         *metrics.Metrics
	RateLimiter     *middleware.ClientRateLimiter
	IdempotencyRepo domainRepo.IdempotencyRepository
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(middleware.RecoveryMiddleware(deps.Logger))
	router.Use(middleware.LoggerMiddleware(deps.Logger, deps.Metrics))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})
	router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))

	v1 := router.Group("/api/v1")
	if deps.RateLimiter != nil {
		v1.Use(deps.RateLimiter.Middleware())
	}
	if deps.IdempotencyRepo != nil {
		v1.Use(middleware.Idempotency(middleware.IdempotencyConfig{
			Repo:   deps.IdempotencyRepo,
			Logger: deps.Logger,
		}))
	}

	registerSettlementRoutes(v1, h)
	registerPlanRoutes(v1, h)
	registerLedgerRoutes(v1, h)
	registerObligationRoutes(v1, h)
	registerDebtRoutes(v1, h)
	registerReportRoutes(v1, h)
	registerCatalogRoutes(v1, h)

	admin := v1.Group("/admin")
	{
		admin.POST("/reset", h.Admin.Reset)
	}

	return router
}

func registerSettlementRoutes(v1 *gin.RouterGroup, h *Handlers) {
	v1.POST("/sales", h.Settlement.CreateSale)
	v1.POST("/purchases", h.Settlement.CreatePurchase)

	transactions := v1.Group("/transactions")
	{
		transactions.GET("", h.Transaction.List)
		transactions.GET("/:id", h.Transaction.Get)
		transactions.DELETE("/:id", h.Settlement.DeleteTransaction)
		transactions.POST("/:id/pay", h.Settlement.PayInstallment)
		transactions.POST("/:id/undo", h.Settlement.UndoPayment)
	}
}

func registerPlanRoutes(v1 *gin.RouterGroup, h *Handlers) {
	plans := v1.Group("/plans")
	{
		plans.GET("", h.PaymentPlan.List)
		plans.POST("", h.PaymentPlan.Create)
		plans.GET("/:id", h.PaymentPlan.Get)
		plans.POST("/:id/cancel", h.PaymentPlan.Cancel)
	}
	v1.POST("/installments/:id/pay", h.PaymentPlan.PayInstallment)
}

func registerLedgerRoutes(v1 *gin.RouterGroup, h *Handlers) {
	v1.GET("/cash-flow", h.Ledger.GetYear)
	v1.POST("/income", h.Ledger.AddIncome)
}

func registerObligationRoutes(v1 *gin.RouterGroup, h *Handlers) {
	v1.GET("/expected-payments", h.Obligation.ListExpected)
	v1.POST("/expected-payments", h.Obligation.CreateExpected)
	v1.GET("/overdue", h.Obligation.ListOverdue)
}

func registerDebtRoutes(v1 *gin.RouterGroup, h *Handlers) {
	debts := v1.Group("/debts")
	{
		debts.GET("", h.Debt.List)
		debts.POST("", h.Debt.Create)
		debts.POST("/:id/pay", h.Debt.Pay)
		debts.POST("/:id/undo", h.Debt.UndoPayment)
	}

	planned := v1.Group("/planned-payments")
	{
		planned.GET("", h.Debt.ListPlanned)
		planned.POST("", h.Debt.CreatePlanned)
		planned.POST("/:id/confirm", h.Debt.ConfirmPlanned)
		planned.DELETE("/:id", h.Debt.DeletePlanned)
	}
}

func registerReportRoutes(v1 *gin.RouterGroup, h *Handlers) {
	reports := v1.Group("/reports")
	{
		reports.GET("/summary", h.Report.Summary)
		reports.GET("/export", h.Report.Export)
	}
}

func registerCatalogRoutes(v1 *gin.RouterGroup, h *Handlers) {
	products := v1.Group("/products")
	{
		products.GET("", h.Product.List)
		products.POST("", h.Product.Create)
		products.GET("/:code", h.Product.GetByCode)
	}

	employees := v1.Group("/employees")
	{
		employees.GET("", h.Employee.List)
		employees.POST("", h.Employee.Create)
		employees.GET("/:id", h.Employee.Get)
	}
}
