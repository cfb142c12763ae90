package main

import (
	"context"
	"log/slog"
	"net/http"

	"finance-ledger/internal/cache"
	"finance-ledger/internal/config"
	"finance-ledger/internal/handlers"
	"finance-ledger/internal/middleware"
	"finance-ledger/internal/repositories"
	"finance-ledger/internal/services"
	"finance-ledger/internal/session"
	"finance-ledger/internal/validation"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

// application holds the wired services behind the HTTP API
type application struct {
	cfg      *config.Config
	registry *prometheus.Registry

	metrics      services.MetricsRecorderInterface
	tokenService services.TokenServiceInterface
	userService  services.UserServiceInterface
	validator    *validation.Validator
	rateLimiter  *middleware.RateLimiter

	health       *handlers.HealthCheckHandler
	auth         *handlers.AuthHandler
	users        *handlers.UserHandler
	transactions *handlers.TransactionHandler
	categories   *handlers.CategoryHandler
	budgets      *handlers.BudgetHandler
	reports      *handlers.ReportHandler
}

func newApplication(cfg *config.Config, db *gorm.DB, registry *prometheus.Registry, logger *slog.Logger) *application {
	metrics := services.NewPrometheusMetrics(registry)
	events := services.NewLedgerEventLogger(logger)
	validator := validation.NewValidator(cfg.Ledger.ValidationRules())
	sessions := session.NewContextProvider()

	txRepo := repositories.NewTransactionRepository(db)
	categoryRepo := repositories.NewCategoryRepository(db)
	budgetRepo := repositories.NewBudgetRepository(db)
	userRepo := repositories.NewUserRepository(db)

	reportCache := cache.NewLRUCache[any](cfg.Ledger.ReportCacheSize, cfg.Ledger.ReportCacheTTL)
	reportService := services.NewReportService(
		txRepo, budgetRepo, categoryRepo,
		sessions, validator, events, metrics, logger,
		services.WithReportCache(reportCache),
		services.WithRecentLimit(cfg.Ledger.RecentLimit),
	)

	tokenService := services.NewTokenService(&cfg.JWT)
	passwordService := services.NewPasswordService(cfg.Security.BCryptCost)
	authService := services.NewAuthService(userRepo, passwordService, tokenService, validator, events, metrics, logger, nil)
	userService := services.NewUserService(userRepo, sessions, events, metrics, logger)
	transactionService := services.NewTransactionService(txRepo, categoryRepo, sessions, validator, reportService, events, metrics, logger)
	categoryService := services.NewCategoryService(categoryRepo, sessions, validator, reportService, events, metrics, logger)
	budgetService := services.NewBudgetService(budgetRepo, categoryRepo, sessions, validator, reportService, events, metrics, logger, nil)

	rps := cfg.Security.RateLimitPerSecond
	return &application{
		cfg:          cfg,
		registry:     registry,
		metrics:      metrics,
		tokenService: tokenService,
		userService:  userService,
		validator:    validator,
		rateLimiter:  middleware.NewRateLimiter(rps, rps*2),

		health:       handlers.NewHealthCheckHandler(db),
		auth:         handlers.NewAuthHandler(authService),
		users:        handlers.NewUserHandler(userService),
		transactions: handlers.NewTransactionHandler(transactionService),
		categories:   handlers.NewCategoryHandler(categoryService),
		budgets:      handlers.NewBudgetHandler(budgetService, reportService),
		reports:      handlers.NewReportHandler(reportService),
	}
}

// start launches the rate limiter's visitor cleanup; it stops with ctx
func (a *application) start(ctx context.Context) {
	go a.rateLimiter.Run(ctx)
}

func (a *application) router() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handlers.NewValidator(a.validator)
	e.HTTPErrorHandler = middleware.NewHTTPErrorHandler(a.metrics)

	e.Use(middleware.RequestID())
	e.Use(middleware.PanicRecovery())
	e.Use(middleware.SecurityHeaders())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:  a.cfg.Server.CORSAllowOrigins,
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{echo.HeaderAuthorization, echo.HeaderContentType, echo.HeaderXRequestID},
		ExposeHeaders: []string{echo.HeaderXRequestID},
	}))
	e.Use(echomw.BodyLimit("1M"))

	e.GET("/health", a.health.HealthCheck)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{})))

	api := e.Group("/api/v1", a.rateLimiter.Middleware())

	authGroup := api.Group("/auth")
	authGroup.POST("/register", a.auth.Register)
	authGroup.POST("/login", a.auth.Login)

	protected := api.Group("", middleware.RequireAuth(a.tokenService), middleware.RequireActiveUser(a.userService))

	protected.GET("/me", a.users.GetProfile)
	protected.POST("/me/deactivate", a.users.DeactivateProfile)
	protected.GET("/users", a.users.ListUsers)

	tx := protected.Group("/transactions")
	tx.POST("", a.transactions.CreateTransaction)
	tx.GET("", a.transactions.ListTransactions)
	tx.GET("/search", a.transactions.SearchTransactions)
	tx.GET("/:id", a.transactions.GetTransaction)
	tx.PUT("/:id", a.transactions.UpdateTransaction)
	tx.DELETE("/:id", a.transactions.DeleteTransaction)
	tx.POST("/:id/deactivate", a.transactions.DeactivateTransaction)
	tx.POST("/:id/activate", a.transactions.ActivateTransaction)

	categories := protected.Group("/categories")
	categories.POST("", a.categories.CreateCategory)
	categories.GET("", a.categories.ListCategories)
	categories.GET("/:id", a.categories.GetCategory)
	categories.PUT("/:id", a.categories.UpdateCategory)
	categories.DELETE("/:id", a.categories.DeleteCategory)
	categories.POST("/:id/deactivate", a.categories.DeactivateCategory)
	categories.POST("/:id/activate", a.categories.ActivateCategory)

	budgets := protected.Group("/budgets")
	budgets.POST("", a.budgets.CreateBudget)
	budgets.GET("", a.budgets.ListBudgets)
	budgets.GET("/:id", a.budgets.GetBudget)
	budgets.GET("/:id/status", a.budgets.GetBudgetStatus)
	budgets.PUT("/:id", a.budgets.UpdateBudget)
	budgets.DELETE("/:id", a.budgets.DeleteBudget)
	budgets.POST("/:id/deactivate", a.budgets.DeactivateBudget)
	budgets.POST("/:id/activate", a.budgets.ActivateBudget)

	reports := protected.Group("/reports")
	reports.GET("/overview", a.reports.GetOverview)
	reports.GET("/period", a.reports.GetPeriodSummary)
	reports.GET("/monthly", a.reports.GetMonthlySummary)
	reports.GET("/yearly", a.reports.GetYearlySummary)
	reports.GET("/recent", a.reports.GetRecentTransactions)
	reports.GET("/budgets", a.reports.GetBudgetReport)
	reports.GET("/categories", a.reports.GetCategoryNetTotals)
	reports.GET("/categories/:id", a.reports.GetCategoryReport)
	reports.GET("/dashboard", a.reports.GetDashboard)

	return e
}
