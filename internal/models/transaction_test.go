package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransaction_Validate(t *testing.T) {
	userID := uuid.New()
	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		transaction Transaction
		wantErr     error
	}{
		{
			name: "valid income",
			transaction: Transaction{
				UserID:          userID,
				Kind:            TransactionKindIncome,
				Amount:          decimal.RequireFromString("5000.00"),
				TransactionDate: date,
				Description:     "Salary",
			},
		},
		{
			name: "valid expense",
			transaction: Transaction{
				UserID:          userID,
				Kind:            TransactionKindExpense,
				Amount:          decimal.RequireFromString("0.01"),
				TransactionDate: date,
				Description:     "Gum",
			},
		},
		{
			name: "fraction of a cent",
			transaction: Transaction{
				UserID:          userID,
				Kind:            TransactionKindExpense,
				Amount:          decimal.RequireFromString("10.005"),
				TransactionDate: date,
				Description:     "Fuel",
			},
			wantErr: ErrAmountTooPrecise,
		},
		{
			name: "missing owner",
			transaction: Transaction{
				Kind:            TransactionKindIncome,
				Amount:          decimal.NewFromInt(10),
				TransactionDate: date,
				Description:     "Gift",
			},
			wantErr: ErrTransactionOwnerNil,
		},
		{
			name: "unknown kind",
			transaction: Transaction{
				UserID:          userID,
				Kind:            "TRANSFER",
				Amount:          decimal.NewFromInt(10),
				TransactionDate: date,
				Description:     "Move",
			},
			wantErr: ErrInvalidTransactionKind,
		},
		{
			name: "zero amount",
			transaction: Transaction{
				UserID:          userID,
				Kind:            TransactionKindExpense,
				Amount:          decimal.Zero,
				TransactionDate: date,
				Description:     "Nothing",
			},
			wantErr: ErrInvalidAmount,
		},
		{
			name: "negative amount",
			transaction: Transaction{
				UserID:          userID,
				Kind:            TransactionKindExpense,
				Amount:          decimal.NewFromInt(-5),
				TransactionDate: date,
				Description:     "Refund",
			},
			wantErr: ErrInvalidAmount,
		},
		{
			name: "missing description",
			transaction: Transaction{
				UserID:          userID,
				Kind:            TransactionKindExpense,
				Amount:          decimal.NewFromInt(5),
				TransactionDate: date,
			},
			wantErr: ErrDescriptionRequired,
		},
		{
			name: "missing date",
			transaction: Transaction{
				UserID:      userID,
				Kind:        TransactionKindExpense,
				Amount:      decimal.NewFromInt(5),
				Description: "Coffee",
			},
			wantErr: ErrTransactionDateMissing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.transaction.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewTransaction(t *testing.T) {
	userID := uuid.New()
	date := time.Date(2024, 3, 15, 18, 45, 0, 0, time.FixedZone("CET", 3600))

	tx := NewTransaction(userID, TransactionKindExpense, decimal.NewFromInt(42), date, "Groceries")

	assert.True(t, tx.Active)
	assert.False(t, tx.CreatedAt.IsZero())
	assert.Equal(t, tx.CreatedAt, tx.UpdatedAt)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), tx.TransactionDate)
	assert.Equal(t, uuid.Nil, tx.ID)
	require.NoError(t, tx.Validate())
}

func TestTransaction_MutatorsRefreshUpdatedAt(t *testing.T) {
	past := time.Now().Add(-time.Hour)
	categoryID := uuid.New()

	mutations := map[string]func(tx *Transaction){
		"description": func(tx *Transaction) { tx.SetDescription("Rent") },
		"amount":      func(tx *Transaction) { tx.SetAmount(decimal.NewFromInt(900)) },
		"date":        func(tx *Transaction) { tx.SetDate(time.Now()) },
		"kind":        func(tx *Transaction) { tx.SetKind(TransactionKindIncome) },
		"category":    func(tx *Transaction) { tx.SetCategory(&categoryID) },
		"note":        func(tx *Transaction) { tx.SetNote("monthly") },
		"deactivate":  func(tx *Transaction) { tx.Deactivate() },
		"activate":    func(tx *Transaction) { tx.Activate() },
	}

	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			tx := &Transaction{CreatedAt: past, UpdatedAt: past}
			mutate(tx)
			assert.True(t, tx.UpdatedAt.After(past))
			assert.Equal(t, past, tx.CreatedAt)
		})
	}
}

func TestTransaction_DeactivateAndActivate(t *testing.T) {
	tx := NewTransaction(uuid.New(), TransactionKindIncome, decimal.NewFromInt(1), time.Now(), "Tip")

	tx.Deactivate()
	assert.False(t, tx.Active)

	tx.Activate()
	assert.True(t, tx.Active)
}

func TestTransaction_SignedAmount(t *testing.T) {
	income := &Transaction{Kind: TransactionKindIncome, Amount: decimal.RequireFromString("12.50")}
	expense := &Transaction{Kind: TransactionKindExpense, Amount: decimal.RequireFromString("12.50")}

	assert.True(t, income.SignedAmount().Equal(decimal.RequireFromString("12.50")))
	assert.True(t, expense.SignedAmount().Equal(decimal.RequireFromString("-12.50")))
	assert.True(t, income.IsIncome())
	assert.True(t, expense.IsExpense())
}

func TestTransaction_HasCategory(t *testing.T) {
	categoryID := uuid.New()
	tx := &Transaction{}

	assert.False(t, tx.HasCategory(categoryID))

	tx.SetCategory(&categoryID)
	assert.True(t, tx.HasCategory(categoryID))
	assert.False(t, tx.HasCategory(uuid.New()))

	tx.SetCategory(nil)
	assert.False(t, tx.HasCategory(categoryID))
}

func TestDateOnly(t *testing.T) {
	assert.True(t, DateOnly(time.Time{}).IsZero())

	local := time.Date(2024, 12, 31, 23, 59, 59, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), DateOnly(local))
}

func TestIsValidTransactionKind(t *testing.T) {
	assert.True(t, IsValidTransactionKind(TransactionKindIncome))
	assert.True(t, IsValidTransactionKind(TransactionKindExpense))
	assert.False(t, IsValidTransactionKind("income"))
	assert.False(t, IsValidTransactionKind(""))
}
