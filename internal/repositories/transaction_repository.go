package repositories

import (
	"errors"
	"strings"
	"time"

	apierrors "finance-ledger/internal/errors"
	"finance-ledger/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrNilTransaction      = errors.New("transaction cannot be nil")
)

const transactionOrder = "transaction_date DESC, created_at DESC"

type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *gorm.DB) TransactionRepositoryInterface {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Create(transaction *models.Transaction) error {
	if transaction == nil {
		return ErrNilTransaction
	}

	if err := r.db.Create(transaction).Error; err != nil {
		return apierrors.NewStorageFailure("failed to create transaction", err)
	}

	return nil
}

func (r *transactionRepository) Update(transaction *models.Transaction) error {
	if transaction == nil {
		return ErrNilTransaction
	}

	found, err := updateRow(r.db, transaction)
	if err != nil {
		return apierrors.NewStorageFailure("failed to update transaction", err)
	}
	if !found {
		return ErrTransactionNotFound
	}

	return nil
}

func (r *transactionRepository) Delete(id uuid.UUID) error {
	found, err := deleteRow(r.db, &models.Transaction{}, id)
	if err != nil {
		return apierrors.NewStorageFailure("failed to delete transaction", err)
	}
	if !found {
		return ErrTransactionNotFound
	}
	return nil
}

func (r *transactionRepository) Deactivate(id uuid.UUID) error {
	return r.setActive(id, false)
}

func (r *transactionRepository) Activate(id uuid.UUID) error {
	return r.setActive(id, true)
}

func (r *transactionRepository) setActive(id uuid.UUID, active bool) error {
	found, err := setActive(r.db, &models.Transaction{}, id, active)
	if err != nil {
		return apierrors.NewStorageFailure("failed to change transaction status", err)
	}
	if !found {
		return ErrTransactionNotFound
	}
	return nil
}

func (r *transactionRepository) GetByID(id uuid.UUID) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := r.db.Where("id = ?", id).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, apierrors.NewStorageFailure("failed to get transaction", err)
	}

	return &transaction, nil
}

func (r *transactionRepository) ListAll(includeInactive bool) ([]models.Transaction, error) {
	var transactions []models.Transaction
	if err := r.db.Scopes(activeScope(includeInactive)).Order(transactionOrder).Find(&transactions).Error; err != nil {
		return nil, apierrors.NewStorageFailure("failed to list transactions", err)
	}
	return transactions, nil
}

func (r *transactionRepository) ListByUser(userID uuid.UUID) ([]models.Transaction, error) {
	var transactions []models.Transaction
	err := r.db.Scopes(activeScope(false)).
		Where("user_id = ?", userID).
		Order(transactionOrder).
		Find(&transactions).Error
	if err != nil {
		return nil, apierrors.NewStorageFailure("failed to list transactions by user", err)
	}
	return transactions, nil
}

// ListByUserAndPeriod returns the user's active transactions dated within [start, end]
func (r *transactionRepository) ListByUserAndPeriod(userID uuid.UUID, start, end time.Time) ([]models.Transaction, error) {
	var transactions []models.Transaction
	err := r.db.Scopes(activeScope(false)).
		Where("user_id = ?", userID).
		Where("transaction_date >= ? AND transaction_date <= ?", models.DateOnly(start), models.DateOnly(end)).
		Order(transactionOrder).
		Find(&transactions).Error
	if err != nil {
		return nil, apierrors.NewStorageFailure("failed to list transactions by period", err)
	}
	return transactions, nil
}

func (r *transactionRepository) ListByUserAndCategory(userID, categoryID uuid.UUID) ([]models.Transaction, error) {
	var transactions []models.Transaction
	err := r.db.Scopes(activeScope(false)).
		Where("user_id = ? AND category_id = ?", userID, categoryID).
		Order(transactionOrder).
		Find(&transactions).Error
	if err != nil {
		return nil, apierrors.NewStorageFailure("failed to list transactions by category", err)
	}
	return transactions, nil
}

// SumByUserAndKind totals the user's active transactions of one kind in storage
func (r *transactionRepository) SumByUserAndKind(userID uuid.UUID, kind models.TransactionKind) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}

	err := r.db.Model(&models.Transaction{}).
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("user_id = ? AND kind = ? AND active = ?", userID, kind, true).
		Scan(&result).Error
	if err != nil {
		return decimal.Zero, apierrors.NewStorageFailure("failed to sum transactions", err)
	}

	// Some drivers hand back SUM as a float
	return result.Total.Round(2), nil
}

func (r *transactionRepository) CountByUser(userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&models.Transaction{}).
		Where("user_id = ? AND active = ?", userID, true).
		Count(&count).Error
	if err != nil {
		return 0, apierrors.NewStorageFailure("failed to count transactions", err)
	}
	return count, nil
}

func (r *transactionRepository) GetRecentByUser(userID uuid.UUID, limit int) ([]models.Transaction, error) {
	var transactions []models.Transaction
	err := r.db.Scopes(activeScope(false)).
		Where("user_id = ?", userID).
		Order(transactionOrder).
		Limit(limit).
		Find(&transactions).Error
	if err != nil {
		return nil, apierrors.NewStorageFailure("failed to get recent transactions", err)
	}
	return transactions, nil
}

// GetWithFilters returns one page of matching transactions and the total match count
func (r *transactionRepository) GetWithFilters(filters models.TransactionFilters) ([]models.Transaction, int64, error) {
	query := r.db.Model(&models.Transaction{}).Scopes(activeScope(filters.IncludeInactive))

	if filters.UserID != uuid.Nil {
		query = query.Where("user_id = ?", filters.UserID)
	}
	if filters.Kind != "" {
		query = query.Where("kind = ?", filters.Kind)
	}
	if filters.CategoryID != nil {
		query = query.Where("category_id = ?", *filters.CategoryID)
	}
	if filters.StartDate != nil {
		query = query.Where("transaction_date >= ?", models.DateOnly(*filters.StartDate))
	}
	if filters.EndDate != nil {
		query = query.Where("transaction_date <= ?", models.DateOnly(*filters.EndDate))
	}
	if term := strings.TrimSpace(filters.Description); term != "" {
		query = query.Where("LOWER(description) LIKE ?", "%"+strings.ToLower(term)+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apierrors.NewStorageFailure("failed to count transactions", err)
	}

	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}

	var transactions []models.Transaction
	if err := query.Order(transactionOrder).Find(&transactions).Error; err != nil {
		return nil, 0, apierrors.NewStorageFailure("failed to get transactions", err)
	}

	return transactions, total, nil
}
