package ledger

import (
	"sort"

	"finance-ledger/internal/models"

	"github.com/shopspring/decimal"
)

// Sum adds the amounts of the active transactions matching p
func Sum(txs []models.Transaction, p Predicate) decimal.Decimal {
	total := decimal.Zero
	for i := range txs {
		if txs[i].Active && p(&txs[i]) {
			total = total.Add(txs[i].Amount)
		}
	}
	return total
}

// Balance is income minus expense over the active transactions matching p
func Balance(txs []models.Transaction, p Predicate) decimal.Decimal {
	income := Sum(txs, And(ByKind(models.TransactionKindIncome), p))
	expense := Sum(txs, And(ByKind(models.TransactionKindExpense), p))
	return income.Sub(expense)
}

// Count returns how many active transactions match p
func Count(txs []models.Transaction, p Predicate) int {
	n := 0
	for i := range txs {
		if txs[i].Active && p(&txs[i]) {
			n++
		}
	}
	return n
}

// Filter returns the active transactions matching p, in their original order
func Filter(txs []models.Transaction, p Predicate) []models.Transaction {
	out := make([]models.Transaction, 0)
	for i := range txs {
		if txs[i].Active && p(&txs[i]) {
			out = append(out, txs[i])
		}
	}
	return out
}

// Totals reports income and expense as separate subtotals along with their balance
func Totals(txs []models.Transaction, p Predicate) models.Totals {
	income := Sum(txs, And(ByKind(models.TransactionKindIncome), p))
	expense := Sum(txs, And(ByKind(models.TransactionKindExpense), p))
	return models.Totals{
		Income:  income,
		Expense: expense,
		Balance: income.Sub(expense),
		Count:   Count(txs, p),
	}
}

// NetTotalsBy groups active transactions by key and returns each group's
// signed total, income adding and expense subtracting. Rows for which key
// reports false are skipped.
func NetTotalsBy[K comparable](txs []models.Transaction, key func(t *models.Transaction) (K, bool)) map[K]decimal.Decimal {
	totals := make(map[K]decimal.Decimal)
	for i := range txs {
		t := &txs[i]
		if !t.Active {
			continue
		}
		k, ok := key(t)
		if !ok {
			continue
		}
		current, seen := totals[k]
		if !seen {
			current = decimal.Zero
		}
		totals[k] = current.Add(t.SignedAmount())
	}
	return totals
}

// MostRecent returns up to n active transactions, newest date first and
// newest creation first within a date
func MostRecent(txs []models.Transaction, n int) []models.Transaction {
	if n <= 0 {
		return []models.Transaction{}
	}

	active := Filter(txs, All())
	sort.SliceStable(active, func(i, j int) bool {
		di, dj := models.DateOnly(active[i].TransactionDate), models.DateOnly(active[j].TransactionDate)
		if !di.Equal(dj) {
			return di.After(dj)
		}
		return active[i].CreatedAt.After(active[j].CreatedAt)
	})

	if len(active) > n {
		active = active[:n]
	}
	return active
}
