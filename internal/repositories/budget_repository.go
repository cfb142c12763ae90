package repositories

import (
	"errors"

	apierrors "finance-ledger/internal/errors"
	"finance-ledger/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrBudgetNotFound      = errors.New("budget not found")
	ErrBudgetAlreadyExists = errors.New("an active budget already exists for this category and period")
	ErrNilBudget           = errors.New("budget cannot be nil")
)

type budgetRepository struct {
	db *gorm.DB
}

// NewBudgetRepository creates a new budget repository
func NewBudgetRepository(db *gorm.DB) BudgetRepositoryInterface {
	return &budgetRepository{db: db}
}

func (r *budgetRepository) Create(budget *models.Budget) error {
	if budget == nil {
		return ErrNilBudget
	}

	if err := r.db.Create(budget).Error; err != nil {
		if isDuplicateKeyError(err) {
			return ErrBudgetAlreadyExists
		}
		return apierrors.NewStorageFailure("failed to create budget", err)
	}

	return nil
}

func (r *budgetRepository) Update(budget *models.Budget) error {
	if budget == nil {
		return ErrNilBudget
	}

	found, err := updateRow(r.db, budget)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrBudgetAlreadyExists
		}
		return apierrors.NewStorageFailure("failed to update budget", err)
	}
	if !found {
		return ErrBudgetNotFound
	}

	return nil
}

func (r *budgetRepository) Delete(id uuid.UUID) error {
	found, err := deleteRow(r.db, &models.Budget{}, id)
	if err != nil {
		return apierrors.NewStorageFailure("failed to delete budget", err)
	}
	if !found {
		return ErrBudgetNotFound
	}
	return nil
}

func (r *budgetRepository) Deactivate(id uuid.UUID) error {
	return r.setActive(id, false)
}

func (r *budgetRepository) Activate(id uuid.UUID) error {
	return r.setActive(id, true)
}

func (r *budgetRepository) setActive(id uuid.UUID, active bool) error {
	found, err := setActive(r.db, &models.Budget{}, id, active)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrBudgetAlreadyExists
		}
		return apierrors.NewStorageFailure("failed to change budget status", err)
	}
	if !found {
		return ErrBudgetNotFound
	}
	return nil
}

func (r *budgetRepository) GetByID(id uuid.UUID) (*models.Budget, error) {
	var budget models.Budget
	if err := r.db.Where("id = ?", id).First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBudgetNotFound
		}
		return nil, apierrors.NewStorageFailure("failed to get budget", err)
	}
	return &budget, nil
}

func (r *budgetRepository) ListAll(includeInactive bool) ([]models.Budget, error) {
	var budgets []models.Budget
	err := r.db.Scopes(activeScope(includeInactive)).
		Order("year DESC, month DESC").
		Find(&budgets).Error
	if err != nil {
		return nil, apierrors.NewStorageFailure("failed to list budgets", err)
	}
	return budgets, nil
}

func (r *budgetRepository) ListByUserAndPeriod(userID uuid.UUID, month, year int) ([]models.Budget, error) {
	var budgets []models.Budget
	err := r.db.Scopes(activeScope(false)).
		Where("user_id = ? AND month = ? AND year = ?", userID, month, year).
		Order("created_at ASC").
		Find(&budgets).Error
	if err != nil {
		return nil, apierrors.NewStorageFailure("failed to list budgets by period", err)
	}
	return budgets, nil
}

func (r *budgetRepository) ListByUserAndYear(userID uuid.UUID, year int) ([]models.Budget, error) {
	var budgets []models.Budget
	err := r.db.Scopes(activeScope(false)).
		Where("user_id = ? AND year = ?", userID, year).
		Order("month ASC, created_at ASC").
		Find(&budgets).Error
	if err != nil {
		return nil, apierrors.NewStorageFailure("failed to list budgets by year", err)
	}
	return budgets, nil
}

func (r *budgetRepository) ExistsByCategoryAndPeriod(userID, categoryID uuid.UUID, month, year int, excludeID uuid.UUID) (bool, error) {
	query := r.db.Model(&models.Budget{}).
		Where("user_id = ? AND category_id = ? AND month = ? AND year = ? AND active = ?", userID, categoryID, month, year, true)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, apierrors.NewStorageFailure("failed to check budget period", err)
	}
	return count > 0, nil
}
