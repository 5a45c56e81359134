package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/shopledger-api/internal/application/service"
	"github.com/sangkips/shopledger-api/internal/config"
	"github.com/sangkips/shopledger-api/internal/infrastructure/database"
	"github.com/sangkips/shopledger-api/internal/infrastructure/metrics"
	"github.com/sangkips/shopledger-api/internal/infrastructure/repository"
	"github.com/sangkips/shopledger-api/internal/presentation/http/handler"
	"github.com/sangkips/shopledger-api/internal/presentation/http/middleware"
	"github.com/sangkips/shopledger-api/internal/presentation/http/routes"
	"github.com/sangkips/shopledger-api/pkg/logger"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	log, err := logger.New(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	if !cfg.EnvFileLoaded {
		log.Info("no .env file found, using environment variables")
	}

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.Open(&cfg.Database, cfg.App.Debug, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db, log); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	m := metrics.New("shopledger")

	// Initialize repositories
	txManager := repository.NewTxManager(db)
	transactionRepo := repository.NewTransactionRepository(db)
	productRepo := repository.NewProductRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	planRepo := repository.NewPaymentPlanRepository(db)
	installmentRepo := repository.NewInstallmentRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)
	debtRepo := repository.NewDebtRepository(db)
	plannedRepo := repository.NewPlannedPaymentRepository(db)
	expectedRepo := repository.NewExpectedPaymentRepository(db)
	reportRepo := repository.NewReportRepository(db)
	maintenanceRepo := repository.NewMaintenanceRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	// Initialize services
	ledgerService := service.NewLedgerService(ledgerRepo, m, log)
	settlementService := service.NewSettlementService(txManager, service.SettlementRepositories{
		Transactions:    transactionRepo,
		Products:        productRepo,
		Employees:       employeeRepo,
		Plans:           planRepo,
		Installments:    installmentRepo,
		Debts:           debtRepo,
		PlannedPayments: plannedRepo,
	}, ledgerService, m, log)
	planService := service.NewPaymentPlanService(txManager, planRepo, installmentRepo, transactionRepo, ledgerService, log)
	obligationService := service.NewObligationService(transactionRepo, planRepo, expectedRepo, cfg.Ledger.StaleDays, cfg.Ledger.OverdueDays)
	debtService := service.NewDebtService(txManager, debtRepo, plannedRepo, ledgerService, log)
	reportService := service.NewReportService(reportRepo, planRepo, ledgerService)
	productService := service.NewProductService(productRepo)
	employeeService := service.NewEmployeeService(employeeRepo)
	transactionService := service.NewTransactionService(transactionRepo)
	resetService := service.NewResetService(txManager, maintenanceRepo, log)

	// Initialize handlers
	handlers := &routes.Handlers{
		Settlement:  handler.NewSettlementHandler(settlementService),
		Transaction: handler.NewTransactionHandler(transactionService),
		PaymentPlan: handler.NewPaymentPlanHandler(planService),
		Ledger:      handler.NewLedgerHandler(ledgerService),
		Obligation:  handler.NewObligationHandler(obligationService),
		Debt:        handler.NewDebtHandler(debtService),
		Report:      handler.NewReportHandler(reportService),
		Product:     handler.NewProductHandler(productService),
		Employee:    handler.NewEmployeeHandler(employeeService),
		Admin:       handler.NewAdminHandler(resetService),
	}

	rateLimiter := middleware.NewClientRateLimiter(cfg.RateLimit)
	defer rateLimiter.Stop()

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		Cfg:             cfg,
		Logger:          log,
		Metrics:         m,
		RateLimiter:     rateLimiter,
		IdempotencyRepo: idempotencyRepo,
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	server := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("starting server",
			zap.String("name", cfg.App.Name),
			zap.String("port", port),
			zap.String("env", cfg.App.Env),
			zap.String("db_driver", cfg.Database.Driver),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	log.Info("shutting down")
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", zap.Error(err))
	}
}
