package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"finance-ledger/internal/dto"
	apierrors "finance-ledger/internal/errors"
	"finance-ledger/internal/models"
	"finance-ledger/internal/repositories"
	"finance-ledger/internal/session"
	"finance-ledger/internal/validation"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const budgetExistsReason = "an active budget already exists for this category and period"

// BudgetService manages the current user's monthly category budgets
type BudgetService struct {
	budgetRepo   repositories.BudgetRepositoryInterface
	categoryRepo repositories.CategoryRepositoryInterface
	sessions     session.Provider
	validator    *validation.Validator
	reports      ReportInvalidatorInterface
	recorder     writeRecorder
	logger       *slog.Logger
	now          Clock
}

// NewBudgetService creates a new budget service; a nil clock means time.Now
func NewBudgetService(
	budgetRepo repositories.BudgetRepositoryInterface,
	categoryRepo repositories.CategoryRepositoryInterface,
	sessions session.Provider,
	validator *validation.Validator,
	reports ReportInvalidatorInterface,
	events LedgerEventLoggerInterface,
	metrics MetricsRecorderInterface,
	logger *slog.Logger,
	clock Clock,
) BudgetServiceInterface {
	return &BudgetService{
		budgetRepo:   budgetRepo,
		categoryRepo: categoryRepo,
		sessions:     sessions,
		validator:    validator,
		reports:      reports,
		recorder:     writeRecorder{events: events, metrics: metrics},
		logger:       logger,
		now:          clock.orDefault(),
	}
}

// Create stores a budget after checking the category and the one-active-budget rule
func (s *BudgetService) Create(ctx context.Context, req *dto.BudgetRequest) (*models.Budget, error) {
	userID, err := currentUser(ctx, s.sessions)
	if err != nil {
		return nil, err
	}

	limit, err := parseBudgetRequest(req)
	if err != nil {
		return nil, s.recorder.rejected(ctx, "budget", "create", userID, err)
	}

	month, year := s.period(req.Month, req.Year)
	budget := models.NewBudget(userID, req.CategoryID, limit, month, year)
	budget.Description = strings.TrimSpace(req.Description)

	if err := s.check(budget, uuid.Nil); err != nil {
		return nil, s.recorder.rejected(ctx, "budget", "create", userID, err)
	}

	if err := s.budgetRepo.Create(budget); err != nil {
		return nil, s.recorder.rejected(ctx, "budget", "create", userID, s.mapWriteError(err, budget.ID))
	}

	s.reports.InvalidateUser(ctx, userID)
	s.recorder.written(ctx, "budget", "create", budget.ID, userID)

	return budget, nil
}

// Update replaces the limit, category, period and description of a budget
func (s *BudgetService) Update(ctx context.Context, id uuid.UUID, req *dto.BudgetRequest) (*models.Budget, error) {
	userID, err := currentUser(ctx, s.sessions)
	if err != nil {
		return nil, err
	}

	budget, err := s.owned(userID, id)
	if err != nil {
		return nil, err
	}

	limit, err := parseBudgetRequest(req)
	if err != nil {
		return nil, s.recorder.rejected(ctx, "budget", "update", userID, err)
	}

	budget.CategoryID = req.CategoryID
	budget.Limit = limit
	budget.Month, budget.Year = s.period(req.Month, req.Year)
	budget.Description = strings.TrimSpace(req.Description)

	if err := s.check(budget, budget.ID); err != nil {
		return nil, s.recorder.rejected(ctx, "budget", "update", userID, err)
	}

	if err := s.budgetRepo.Update(budget); err != nil {
		return nil, s.recorder.rejected(ctx, "budget", "update", userID, s.mapWriteError(err, id))
	}

	s.reports.InvalidateUser(ctx, userID)
	s.recorder.written(ctx, "budget", "update", budget.ID, userID)

	return budget, nil
}

func (s *BudgetService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.change(ctx, id, "delete", func(*models.Budget) error {
		return s.budgetRepo.Delete(id)
	})
}

func (s *BudgetService) Deactivate(ctx context.Context, id uuid.UUID) error {
	return s.change(ctx, id, "deactivate", func(*models.Budget) error {
		return s.budgetRepo.Deactivate(id)
	})
}

// Activate restores a budget unless its slot was filled while it was inactive
func (s *BudgetService) Activate(ctx context.Context, id uuid.UUID) error {
	return s.change(ctx, id, "activate", func(budget *models.Budget) error {
		if budget.Active {
			return nil
		}
		if err := s.ensureSlotFree(budget, budget.ID); err != nil {
			return err
		}
		return s.budgetRepo.Activate(id)
	})
}

func (s *BudgetService) change(ctx context.Context, id uuid.UUID, operation string, apply func(*models.Budget) error) error {
	userID, err := currentUser(ctx, s.sessions)
	if err != nil {
		return err
	}

	budget, err := s.owned(userID, id)
	if err != nil {
		return err
	}

	if err := apply(budget); err != nil {
		return s.recorder.rejected(ctx, "budget", operation, userID, s.mapWriteError(err, id))
	}

	s.reports.InvalidateUser(ctx, userID)
	s.recorder.written(ctx, "budget", operation, id, userID)

	return nil
}

func (s *BudgetService) Get(ctx context.Context, id uuid.UUID) (*models.Budget, error) {
	userID, err := currentUser(ctx, s.sessions)
	if err != nil {
		return nil, err
	}
	return s.owned(userID, id)
}

// ListByPeriod returns the current user's active budgets of one month
func (s *BudgetService) ListByPeriod(ctx context.Context, month, year int) ([]models.Budget, error) {
	userID, err := currentUser(ctx, s.sessions)
	if err != nil {
		return nil, err
	}

	if err := s.validator.ValidatePeriod(month, year); err != nil {
		return nil, err
	}

	return s.budgetRepo.ListByUserAndPeriod(userID, month, year)
}

// ListByYear returns the current user's active budgets of one year, by month
func (s *BudgetService) ListByYear(ctx context.Context, year int) ([]models.Budget, error) {
	userID, err := currentUser(ctx, s.sessions)
	if err != nil {
		return nil, err
	}

	if err := s.validator.ValidatePeriod(1, year); err != nil {
		return nil, err
	}

	return s.budgetRepo.ListByUserAndYear(userID, year)
}

// period fills a zero month or year from the current date
func (s *BudgetService) period(month, year int) (int, int) {
	current := models.CurrentPeriod(s.now())
	if month == 0 {
		month = current.Month
	}
	if year == 0 {
		year = current.Year
	}
	return month, year
}

func (s *BudgetService) check(budget *models.Budget, excludeID uuid.UUID) error {
	if err := s.validator.ValidateBudget(budget); err != nil {
		return err
	}

	if err := requireActiveCategory(s.categoryRepo, budget.CategoryID); err != nil {
		return err
	}

	if !budget.Active {
		return nil
	}
	return s.ensureSlotFree(budget, excludeID)
}

func (s *BudgetService) ensureSlotFree(budget *models.Budget, excludeID uuid.UUID) error {
	exists, err := s.budgetRepo.ExistsByCategoryAndPeriod(budget.UserID, budget.CategoryID, budget.Month, budget.Year, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return conflict(apierrors.LedgerBudgetExists, budgetExistsReason, "category_id", "month", "year")
	}
	return nil
}

func (s *BudgetService) owned(userID, id uuid.UUID) (*models.Budget, error) {
	budget, err := s.budgetRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrBudgetNotFound) {
			return nil, notFound("budget", id)
		}
		return nil, err
	}

	if budget.UserID != userID {
		return nil, notFound("budget", id)
	}

	return budget, nil
}

func (s *BudgetService) mapWriteError(err error, id uuid.UUID) error {
	switch {
	case errors.Is(err, repositories.ErrBudgetAlreadyExists):
		return conflict(apierrors.LedgerBudgetExists, budgetExistsReason, "category_id", "month", "year")
	case errors.Is(err, repositories.ErrBudgetNotFound):
		return notFound("budget", id)
	default:
		return err
	}
}

func parseBudgetRequest(req *dto.BudgetRequest) (decimal.Decimal, error) {
	if req == nil {
		return decimal.Zero, apierrors.NewValidationFailure(ErrNilRequest.Error())
	}

	raw := strings.TrimSpace(req.Limit)
	if raw == "" {
		return decimal.Zero, invalidField(apierrors.ValidationRequiredField, "limit", "limit is required")
	}

	limit, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, invalidField(apierrors.ValidationInvalidFormat, "limit", "limit must be a decimal number")
	}
	return limit, nil
}
