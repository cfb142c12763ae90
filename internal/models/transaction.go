package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TransactionKind is the direction of a money movement
type TransactionKind string

const (
	TransactionKindIncome  TransactionKind = "INCOME"
	TransactionKindExpense TransactionKind = "EXPENSE"
)

// CurrencyScale is the number of decimal places stored for every amount
const CurrencyScale = 2

var (
	ErrInvalidTransactionKind = errors.New("invalid transaction kind")
	ErrInvalidAmount          = errors.New("transaction amount must be positive")
	ErrAmountTooPrecise       = errors.New("amount must not have more than 2 decimal places")
	ErrTransactionOwnerNil    = errors.New("transaction owner is required")
	ErrDescriptionRequired    = errors.New("transaction description is required")
	ErrTransactionDateMissing = errors.New("transaction date is required")
)

// Transaction represents one income or expense entry of a user's ledger
type Transaction struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	UserID          uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	CategoryID      *uuid.UUID      `gorm:"type:uuid;index" json:"category_id,omitempty"`
	Description     string          `gorm:"type:varchar(255);not null" json:"description" validate:"notblank,max=255"`
	Amount          decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount" validate:"required,positive_decimal,currency_scale"`
	TransactionDate time.Time       `gorm:"type:date;not null;index" json:"transaction_date" validate:"required"`
	Kind            TransactionKind `gorm:"type:varchar(10);not null" json:"kind" validate:"required,transaction_kind"`
	Note            string          `gorm:"type:text" json:"note,omitempty" validate:"max=2000"`
	Active          bool            `gorm:"not null;index" json:"active"`
	CreatedAt       time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"not null" json:"updated_at"`

	Category *Category `gorm:"foreignKey:CategoryID" json:"-" validate:"-"`
}

// NewTransaction builds an active transaction with both timestamps set to now
func NewTransaction(userID uuid.UUID, kind TransactionKind, amount decimal.Decimal, date time.Time, description string) *Transaction {
	now := time.Now()
	return &Transaction{
		UserID:          userID,
		Kind:            kind,
		Amount:          amount,
		TransactionDate: DateOnly(date),
		Description:     description,
		Active:          true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// BeforeCreate hook for Transaction
func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}

	now := time.Now()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = now
	}
	t.TransactionDate = DateOnly(t.TransactionDate)

	return t.Validate()
}

// BeforeUpdate hook for Transaction
func (t *Transaction) BeforeUpdate(tx *gorm.DB) error {
	t.UpdatedAt = time.Now()
	t.TransactionDate = DateOnly(t.TransactionDate)
	return t.Validate()
}

// Validate checks the invariants every stored transaction must hold
func (t *Transaction) Validate() error {
	if t.UserID == uuid.Nil {
		return ErrTransactionOwnerNil
	}

	if !IsValidTransactionKind(t.Kind) {
		return ErrInvalidTransactionKind
	}

	if t.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	if !HasCurrencyScale(t.Amount) {
		return ErrAmountTooPrecise
	}

	if t.Description == "" {
		return ErrDescriptionRequired
	}

	if t.TransactionDate.IsZero() {
		return ErrTransactionDateMissing
	}

	return nil
}

func (t *Transaction) touch() {
	t.UpdatedAt = time.Now()
}

func (t *Transaction) SetDescription(description string) {
	t.Description = description
	t.touch()
}

func (t *Transaction) SetAmount(amount decimal.Decimal) {
	t.Amount = amount
	t.touch()
}

func (t *Transaction) SetDate(date time.Time) {
	t.TransactionDate = DateOnly(date)
	t.touch()
}

func (t *Transaction) SetKind(kind TransactionKind) {
	t.Kind = kind
	t.touch()
}

// SetCategory assigns a category; nil clears it
func (t *Transaction) SetCategory(categoryID *uuid.UUID) {
	t.CategoryID = categoryID
	t.touch()
}

func (t *Transaction) SetNote(note string) {
	t.Note = note
	t.touch()
}

// Deactivate soft-deletes the transaction
func (t *Transaction) Deactivate() {
	t.Active = false
	t.touch()
}

func (t *Transaction) Activate() {
	t.Active = true
	t.touch()
}

func (t *Transaction) IsIncome() bool {
	return t.Kind == TransactionKindIncome
}

func (t *Transaction) IsExpense() bool {
	return t.Kind == TransactionKindExpense
}

// HasCategory reports whether the transaction references the given category
func (t *Transaction) HasCategory(categoryID uuid.UUID) bool {
	return t.CategoryID != nil && *t.CategoryID == categoryID
}

// HasCurrencyScale reports whether d fits in whole cents
func HasCurrencyScale(d decimal.Decimal) bool {
	return d.Equal(d.Round(CurrencyScale))
}

// SignedAmount returns the amount with income positive and expense negative
func (t *Transaction) SignedAmount() decimal.Decimal {
	if t.IsExpense() {
		return t.Amount.Neg()
	}
	return t.Amount
}

// TableName returns the table name for Transaction
func (t *Transaction) TableName() string {
	return "transactions"
}

// IsValidTransactionKind checks if the kind is INCOME or EXPENSE
func IsValidTransactionKind(kind TransactionKind) bool {
	switch kind {
	case TransactionKindIncome, TransactionKindExpense:
		return true
	default:
		return false
	}
}

// DateOnly truncates t to midnight UTC of its calendar date
func DateOnly(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
