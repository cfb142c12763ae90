package repositories

import (
	"time"

	"finance-ledger/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionRepositoryInterface is the storage contract for transactions.
// The List* and Sum* methods only see active rows.
type TransactionRepositoryInterface interface {
	Create(transaction *models.Transaction) error
	Update(transaction *models.Transaction) error
	Delete(id uuid.UUID) error
	Deactivate(id uuid.UUID) error
	Activate(id uuid.UUID) error
	GetByID(id uuid.UUID) (*models.Transaction, error)
	ListAll(includeInactive bool) ([]models.Transaction, error)
	ListByUser(userID uuid.UUID) ([]models.Transaction, error)
	ListByUserAndPeriod(userID uuid.UUID, start, end time.Time) ([]models.Transaction, error)
	ListByUserAndCategory(userID, categoryID uuid.UUID) ([]models.Transaction, error)
	SumByUserAndKind(userID uuid.UUID, kind models.TransactionKind) (decimal.Decimal, error)
	CountByUser(userID uuid.UUID) (int64, error)
	GetRecentByUser(userID uuid.UUID, limit int) ([]models.Transaction, error)
	GetWithFilters(filters models.TransactionFilters) ([]models.Transaction, int64, error)
}

// CategoryRepositoryInterface is the storage contract for categories
type CategoryRepositoryInterface interface {
	Create(category *models.Category) error
	Update(category *models.Category) error
	Delete(id uuid.UUID) error
	Deactivate(id uuid.UUID) error
	Activate(id uuid.UUID) error
	GetByID(id uuid.UUID) (*models.Category, error)
	// GetByName finds the active category with the given name, ignoring case
	GetByName(name string) (*models.Category, error)
	// ExistsActiveByName reports whether another active category already uses name
	ExistsActiveByName(name string, excludeID uuid.UUID) (bool, error)
	ListAll(includeInactive bool) ([]models.Category, error)
}

// BudgetRepositoryInterface is the storage contract for budgets
type BudgetRepositoryInterface interface {
	Create(budget *models.Budget) error
	Update(budget *models.Budget) error
	Delete(id uuid.UUID) error
	Deactivate(id uuid.UUID) error
	Activate(id uuid.UUID) error
	GetByID(id uuid.UUID) (*models.Budget, error)
	ListAll(includeInactive bool) ([]models.Budget, error)
	ListByUserAndPeriod(userID uuid.UUID, month, year int) ([]models.Budget, error)
	ListByUserAndYear(userID uuid.UUID, year int) ([]models.Budget, error)
	// ExistsByCategoryAndPeriod reports whether the user already has another active
	// budget for the category in that month
	ExistsByCategoryAndPeriod(userID, categoryID uuid.UUID, month, year int, excludeID uuid.UUID) (bool, error)
}

// UserRepositoryInterface is the storage contract for users
type UserRepositoryInterface interface {
	Create(user *models.User) error
	Update(user *models.User) error
	Delete(id uuid.UUID) error
	Deactivate(id uuid.UUID) error
	Activate(id uuid.UUID) error
	GetByID(id uuid.UUID) (*models.User, error)
	GetByName(name string) (*models.User, error)
	ExistsByName(name string) (bool, error)
	ListAll(includeInactive bool) ([]models.User, error)
	UpdateLastLogin(id uuid.UUID, at time.Time) error
}
