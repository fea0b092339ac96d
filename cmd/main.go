package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"servicehub/internal/authclient"
	"servicehub/internal/caching"
	"servicehub/internal/config"
	"servicehub/internal/handlers"
	"servicehub/internal/jobs/background"
	"servicehub/internal/middleware"
	"servicehub/internal/repositories"
	"servicehub/internal/services"
	"servicehub/pkg/database"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("loading configuration")
	}

	ctx := context.Background()
	pool, err := database.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("connecting to database")
	}
	defer pool.Close()

	// Identity validation against the remote auth service. A missing
	// token is allowed and downgrades validation to the skip mode.
	authClient := authclient.New(cfg.AuthServiceURL)
	validator := authclient.NewValidator(authClient, cfg.ServiceAuthToken)
	authclient.SetDefault(validator)

	cache := caching.NewRedisCacheService(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)

	storage, err := services.NewMinioStorage(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioUseSSL)
	if err != nil {
		log.Fatal().Err(err).Msg("connecting to object storage")
	}
	if err := storage.EnsureBucketExists(ctx, cfg.DocumentBucket); err != nil {
		log.Warn().Err(err).Str("bucket", cfg.DocumentBucket).Msg("document bucket not available")
	}

	// Repositories
	invoiceRepo := repositories.NewInvoiceRepo(pool)
	paymentRepo := repositories.NewPaymentRepo(pool)
	quoteRepo := repositories.NewQuoteRepo(pool)
	orderRepo := repositories.NewOrderRepo(pool)
	expenseRepo := repositories.NewExpenseRepo(pool)
	budgetRepo := repositories.NewBudgetRepo(pool)
	statsRepo := repositories.NewStatsRepo(pool)

	// Services
	invoiceService := services.NewInvoiceService(invoiceRepo, validator, cache)
	paymentService := services.NewPaymentService(paymentRepo, validator, cache)
	quoteService := services.NewQuoteService(quoteRepo, validator)
	orderService := services.NewOrderService(orderRepo, validator)
	expenseService := services.NewExpenseService(expenseRepo, validator)
	budgetService := services.NewBudgetService(budgetRepo)
	statsService := services.NewStatsService(statsRepo, cache)
	documentService := services.NewDocumentService(storage, cfg.DocumentBucket)

	// Handlers
	healthHandlers := handlers.NewHealthHandlers(pool, cache)
	invoiceHandlers := handlers.NewInvoiceHandlers(invoiceService, documentService)
	paymentHandlers := handlers.NewPaymentHandlers(paymentService)
	quoteHandlers := handlers.NewQuoteHandlers(quoteService)
	orderHandlers := handlers.NewOrderHandlers(orderService)
	expenseHandlers := handlers.NewExpenseHandlers(expenseService)
	budgetHandlers := handlers.NewBudgetHandlers(budgetService)
	statsHandlers := handlers.NewStatsHandlers(statsService)

	e := echo.New()
	e.HideBanner = true
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())
	e.Use(echoMiddleware.RequestID())

	e.GET("/health", healthHandlers.HealthCheck)
	e.GET("/health/ready", healthHandlers.ReadyCheck)

	// Token verification: local JWKS verification when the auth service
	// publishes keys, otherwise fall back to per-request remote checks.
	var authMiddleware echo.MiddlewareFunc
	if jwks, err := middleware.NewJWKS(cfg.JWKSURL); err != nil {
		log.Warn().Err(err).Msg("jwks unavailable, falling back to remote token verification")
		authMiddleware = middleware.RemoteVerifyMiddleware(authClient)
	} else {
		authMiddleware = middleware.JWTMiddleware(jwks)
	}

	v1 := e.Group("/v1", authMiddleware)

	v1.GET("/invoices", invoiceHandlers.ListInvoices)
	v1.POST("/invoices", invoiceHandlers.CreateInvoice)
	v1.GET("/invoices/:id", invoiceHandlers.GetInvoice)
	v1.PATCH("/invoices/:id", invoiceHandlers.UpdateInvoice)
	v1.DELETE("/invoices/:id", invoiceHandlers.DeleteInvoice)
	v1.POST("/invoices/:id/pdf", invoiceHandlers.GenerateInvoicePDF)

	v1.GET("/payments", paymentHandlers.ListPayments)
	v1.POST("/payments", paymentHandlers.CreatePayment)
	v1.GET("/payments/:id", paymentHandlers.GetPayment)
	v1.DELETE("/payments/:id", paymentHandlers.DeletePayment)

	v1.GET("/quotes", quoteHandlers.ListQuotes)
	v1.POST("/quotes", quoteHandlers.CreateQuote)
	v1.GET("/quotes/:id", quoteHandlers.GetQuote)
	v1.PATCH("/quotes/:id", quoteHandlers.UpdateQuote)
	v1.DELETE("/quotes/:id", quoteHandlers.DeleteQuote)

	v1.GET("/orders", orderHandlers.ListOrders)
	v1.POST("/orders", orderHandlers.CreateOrder)
	v1.GET("/orders/:id", orderHandlers.GetOrder)
	v1.PATCH("/orders/:id", orderHandlers.UpdateOrder)
	v1.DELETE("/orders/:id", orderHandlers.DeleteOrder)

	v1.GET("/expenses", expenseHandlers.ListExpenses)
	v1.POST("/expenses", expenseHandlers.CreateExpense)
	v1.GET("/expenses/:id", expenseHandlers.GetExpense)
	v1.PATCH("/expenses/:id", expenseHandlers.UpdateExpense)
	v1.DELETE("/expenses/:id", expenseHandlers.DeleteExpense)

	v1.GET("/budgets", budgetHandlers.ListBudgets)
	v1.POST("/budgets", budgetHandlers.CreateBudget)
	v1.GET("/budgets/:id", budgetHandlers.GetBudget)
	v1.PATCH("/budgets/:id", budgetHandlers.UpdateBudget)
	v1.DELETE("/budgets/:id", budgetHandlers.DeleteBudget)

	v1.GET("/stats", statsHandlers.GetStats)

	scheduler, err := background.NewJobScheduler(invoiceService, statsService)
	if err != nil {
		log.Fatal().Err(err).Msg("creating job scheduler")
	}
	scheduler.Start()
	defer func() {
		if err := scheduler.Stop(); err != nil {
			log.Error().Err(err).Msg("stopping job scheduler")
		}
	}()

	go func() {
		if err := e.Start(fmt.Sprintf(":%d", cfg.Port)); err != nil {
			log.Info().Err(err).Msg("http server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server shutdown")
	}
}
