package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BudgetState is the three-state utilization status of a budget
type BudgetState string

const (
	BudgetStateUnder BudgetState = "UNDER_BUDGET"
	BudgetStateAt    BudgetState = "AT_LIMIT"
	BudgetStateOver  BudgetState = "OVER_BUDGET"
)

var (
	ErrBudgetOwnerNil      = errors.New("budget owner is required")
	ErrBudgetCategoryNil   = errors.New("budget category is required")
	ErrInvalidBudgetLimit  = errors.New("budget limit must be positive")
	ErrInvalidBudgetPeriod = errors.New("budget month must be between 1 and 12")
)

// Period identifies one calendar month
type Period struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

// CurrentPeriod returns the period containing now
func CurrentPeriod(now time.Time) Period {
	return Period{Month: int(now.Month()), Year: now.Year()}
}

// Budget is a spending ceiling for one category in one calendar month.
// Spent, available and status are derived at read time and never stored.
type Budget struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	UserID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	CategoryID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"category_id" validate:"required"`
	Limit       decimal.Decimal `gorm:"column:limit_amount;type:decimal(15,2);not null" json:"limit" validate:"required,positive_decimal,currency_scale"`
	Month       int             `gorm:"not null" json:"month" validate:"min=1,max=12"`
	Year        int             `gorm:"not null" json:"year" validate:"budget_year"`
	Description string          `gorm:"type:text" json:"description,omitempty" validate:"max=500"`
	Active      bool            `gorm:"not null;index" json:"active"`
	CreatedAt   time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"not null" json:"updated_at"`

	Category *Category `gorm:"foreignKey:CategoryID" json:"-" validate:"-"`
}

// NewBudget builds an active budget; a zero month or year defaults to the current period
func NewBudget(userID, categoryID uuid.UUID, limit decimal.Decimal, month, year int) *Budget {
	now := time.Now()
	current := CurrentPeriod(now)
	if month == 0 {
		month = current.Month
	}
	if year == 0 {
		year = current.Year
	}

	return &Budget{
		UserID:     userID,
		CategoryID: categoryID,
		Limit:      limit,
		Month:      month,
		Year:       year,
		Active:     true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func (b *Budget) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}

	now := time.Now()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	if b.UpdatedAt.IsZero() {
		b.UpdatedAt = now
	}

	return b.Validate()
}

func (b *Budget) BeforeUpdate(tx *gorm.DB) error {
	b.UpdatedAt = time.Now()
	return b.Validate()
}

// Validate checks the structural invariants of a stored budget.
// The year epoch is configuration and is enforced by the validation package.
func (b *Budget) Validate() error {
	if b.UserID == uuid.Nil {
		return ErrBudgetOwnerNil
	}
	if b.CategoryID == uuid.Nil {
		return ErrBudgetCategoryNil
	}
	if b.Limit.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidBudgetLimit
	}
	if !HasCurrencyScale(b.Limit) {
		return ErrAmountTooPrecise
	}
	if b.Month < 1 || b.Month > 12 {
		return ErrInvalidBudgetPeriod
	}
	return nil
}

func (b *Budget) Period() Period {
	return Period{Month: b.Month, Year: b.Year}
}

func (b *Budget) Deactivate() {
	b.Active = false
	b.UpdatedAt = time.Now()
}

func (b *Budget) Activate() {
	b.Active = true
	b.UpdatedAt = time.Now()
}

func (b *Budget) TableName() string {
	return "budgets"
}

// BudgetStatus is the derived utilization of a budget
type BudgetStatus struct {
	Limit              decimal.Decimal `json:"limit"`
	Spent              decimal.Decimal `json:"spent"`
	Available          decimal.Decimal `json:"available"`
	UtilizationPercent float64         `json:"utilization_percent"`
	State              BudgetState     `json:"state"`
}

func (s BudgetStatus) IsOver() bool {
	return s.State == BudgetStateOver
}
