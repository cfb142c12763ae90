package services

import (
	"context"
	"time"

	"finance-ledger/internal/dto"
	"finance-ledger/internal/models"

	"github.com/google/uuid"
)

// TransactionServiceInterface defines the current user's transaction operations
type TransactionServiceInterface interface {
	Create(ctx context.Context, req *dto.TransactionRequest) (*models.Transaction, error)
	Update(ctx context.Context, id uuid.UUID, req *dto.TransactionRequest) (*models.Transaction, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Deactivate(ctx context.Context, id uuid.UUID) error
	Activate(ctx context.Context, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*models.Transaction, error)
	List(ctx context.Context, filters models.TransactionFilters) ([]models.Transaction, int64, error)
	SearchByDescription(ctx context.Context, term string) ([]models.Transaction, error)
}

// CategoryServiceInterface defines operations on the shared category list
type CategoryServiceInterface interface {
	Create(ctx context.Context, req *dto.CategoryRequest) (*models.Category, error)
	Update(ctx context.Context, id uuid.UUID, req *dto.CategoryRequest) (*models.Category, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Deactivate(ctx context.Context, id uuid.UUID) error
	Activate(ctx context.Context, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*models.Category, error)
	GetByName(ctx context.Context, name string) (*models.Category, error)
	List(ctx context.Context, includeInactive bool) ([]models.Category, error)
}

// BudgetServiceInterface defines the current user's budget operations
type BudgetServiceInterface interface {
	Create(ctx context.Context, req *dto.BudgetRequest) (*models.Budget, error)
	Update(ctx context.Context, id uuid.UUID, req *dto.BudgetRequest) (*models.Budget, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Deactivate(ctx context.Context, id uuid.UUID) error
	Activate(ctx context.Context, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*models.Budget, error)
	ListByPeriod(ctx context.Context, month, year int) ([]models.Budget, error)
	ListByYear(ctx context.Context, year int) ([]models.Budget, error)
}

// ReportServiceInterface composes the read-only views of the current user's ledger
type ReportServiceInterface interface {
	Overview(ctx context.Context) (*models.OverallSummary, error)
	PeriodSummary(ctx context.Context, start, end time.Time) (*models.PeriodSummary, error)
	MonthlySummary(ctx context.Context, month, year int) (*models.PeriodSummary, error)
	YearlySummary(ctx context.Context, year int) (*models.YearlySummary, error)
	RecentTransactions(ctx context.Context, n int) ([]models.Transaction, error)
	BudgetReport(ctx context.Context, month, year int) (*models.BudgetReport, error)
	BudgetStatus(ctx context.Context, budgetID uuid.UUID) (*models.BudgetReportItem, error)
	CategoryReport(ctx context.Context, categoryID uuid.UUID) (*models.CategoryReport, error)
	CategoryNetTotals(ctx context.Context) ([]models.CategoryNetTotal, error)
	Dashboard(ctx context.Context) (*models.Dashboard, error)
}

// ReportInvalidatorInterface drops cached report results after writes
type ReportInvalidatorInterface interface {
	InvalidateUser(ctx context.Context, userID uuid.UUID)
	InvalidateAll(ctx context.Context)
}

type AuthServiceInterface interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
}

// UserServiceInterface defines operations on the current user's record
type UserServiceInterface interface {
	Get(ctx context.Context) (*models.User, error)
	Deactivate(ctx context.Context) error
	Activate(ctx context.Context) error
	List(ctx context.Context, includeInactive bool) ([]models.User, error)
}

type TokenServiceInterface interface {
	GenerateAccessToken(user *models.User) (string, time.Time, error)
	ValidateAccessToken(tokenString string) (*models.CustomClaims, error)
	ExtractTokenFromHeader(authHeader string) (string, error)
	GetTokenExpiry(tokenString string) (time.Time, error)
}

type PasswordServiceInterface interface {
	HashPassword(secret string) (string, error)
	ComparePassword(secret, hash string) bool
}

type MetricsRecorderInterface interface {
	IncrementCounter(name string, tags map[string]string)
	RecordProcessingTime(name string, duration time.Duration)
	RecordGauge(name string, value float64, tags map[string]string)
}

type LedgerEventLoggerInterface interface {
	LogEntityWritten(ctx context.Context, entity, operation string, entityID, userID uuid.UUID)
	LogWriteRejected(ctx context.Context, entity, operation string, userID uuid.UUID, reason string)
	LogBudgetOverLimit(ctx context.Context, budgetID, userID uuid.UUID, status models.BudgetStatus)
	LogAuthenticationEvent(ctx context.Context, event, userName string, success bool)
	LogReportCacheInvalidated(ctx context.Context, userID uuid.UUID, removed int)
	LogReportGenerated(ctx context.Context, report string, userID uuid.UUID, cached bool, durationMs int64)
}
