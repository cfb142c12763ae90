package ledger

import (
	"finance-ledger/internal/models"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// EvaluateBudget derives the utilization of a budget from its limit and spent amount.
// Thresholds compare decimals; the percentage is converted to float only at the end.
func EvaluateBudget(limit, spent decimal.Decimal) models.BudgetStatus {
	status := models.BudgetStatus{
		Limit:     limit,
		Spent:     spent,
		Available: limit.Sub(spent),
	}

	if !limit.IsZero() {
		status.UtilizationPercent = spent.Div(limit).Mul(hundred).Round(2).InexactFloat64()
	}

	switch spent.Cmp(limit) {
	case 1:
		status.State = models.BudgetStateOver
	case 0:
		status.State = models.BudgetStateAt
	default:
		status.State = models.BudgetStateUnder
	}

	return status
}

// SpentForBudget sums the owner's active expenses in the budget's category and month
func SpentForBudget(txs []models.Transaction, budget *models.Budget) decimal.Decimal {
	return Sum(txs, And(
		ByKind(models.TransactionKindExpense),
		ByCategory(budget.CategoryID),
		InPeriod(budget.Month, budget.Year),
		ByUser(budget.UserID),
	))
}

// BudgetStatusFor evaluates a budget against a transaction set
func BudgetStatusFor(txs []models.Transaction, budget *models.Budget) models.BudgetStatus {
	return EvaluateBudget(budget.Limit, SpentForBudget(txs, budget))
}
