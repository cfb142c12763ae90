package ledger

import (
	"strings"
	"time"

	"finance-ledger/internal/models"

	"github.com/google/uuid"
)

// Predicate selects transactions for an aggregate. Activity is checked
// separately, so predicates only describe which rows are relevant.
type Predicate func(t *models.Transaction) bool

// All matches every transaction
func All() Predicate {
	return func(*models.Transaction) bool { return true }
}

func ByKind(kind models.TransactionKind) Predicate {
	return func(t *models.Transaction) bool { return t.Kind == kind }
}

// ByCategory matches transactions referencing the category; uncategorised rows never match
func ByCategory(categoryID uuid.UUID) Predicate {
	return func(t *models.Transaction) bool { return t.HasCategory(categoryID) }
}

func ByUser(userID uuid.UUID) Predicate {
	return func(t *models.Transaction) bool { return t.UserID == userID }
}

// Between matches dates in [start, end] at calendar-day granularity
func Between(start, end time.Time) Predicate {
	from := models.DateOnly(start)
	to := models.DateOnly(end)
	return func(t *models.Transaction) bool {
		d := models.DateOnly(t.TransactionDate)
		return !d.Before(from) && !d.After(to)
	}
}

// InPeriod matches transactions dated within the given calendar month
func InPeriod(month, year int) Predicate {
	start, end := MonthRange(month, year)
	return Between(start, end)
}

func InYear(year int) Predicate {
	start, end := YearRange(year)
	return Between(start, end)
}

// DescriptionContains is a case-insensitive substring match on the description
func DescriptionContains(term string) Predicate {
	needle := strings.ToLower(strings.TrimSpace(term))
	return func(t *models.Transaction) bool {
		return strings.Contains(strings.ToLower(t.Description), needle)
	}
}

// And matches when every predicate matches; with no predicates it matches everything
func And(predicates ...Predicate) Predicate {
	return func(t *models.Transaction) bool {
		for _, p := range predicates {
			if !p(t) {
				return false
			}
		}
		return true
	}
}
