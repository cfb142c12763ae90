package models

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Totals is the income, expense and balance of a set of transactions
type Totals struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Balance decimal.Decimal `json:"balance"`
	Count   int             `json:"count"`
}

// OverallSummary holds all-time totals of a user
type OverallSummary struct {
	UserID uuid.UUID `json:"user_id"`
	Totals
}

// PeriodSummary covers an inclusive date range
type PeriodSummary struct {
	StartDate    time.Time     `json:"start_date"`
	EndDate      time.Time     `json:"end_date"`
	Totals       Totals        `json:"totals"`
	Transactions []Transaction `json:"transactions"`
}

// MonthlyBreakdown is one row of a yearly summary
type MonthlyBreakdown struct {
	Month  int    `json:"month"`
	Totals Totals `json:"totals"`
}

type YearlySummary struct {
	Year   int                `json:"year"`
	Totals Totals             `json:"totals"`
	Months []MonthlyBreakdown `json:"months"`
}

// BudgetReportItem pairs a budget with its derived status
type BudgetReportItem struct {
	BudgetID     uuid.UUID    `json:"budget_id"`
	CategoryID   uuid.UUID    `json:"category_id"`
	CategoryName string       `json:"category_name"`
	Description  string       `json:"description,omitempty"`
	Status       BudgetStatus `json:"status"`
}

type BudgetReport struct {
	Period         Period             `json:"period"`
	Items          []BudgetReportItem `json:"items"`
	TotalBudgeted  decimal.Decimal    `json:"total_budgeted"`
	TotalSpent     decimal.Decimal    `json:"total_spent"`
	TotalRemaining decimal.Decimal    `json:"total_remaining"`
	OverBudget     int                `json:"over_budget"`
}

// CategoryReport keeps income and expense subtotals of one category apart
type CategoryReport struct {
	CategoryID   uuid.UUID     `json:"category_id"`
	CategoryName string        `json:"category_name"`
	Totals       Totals        `json:"totals"`
	Transactions []Transaction `json:"transactions"`
}

// CategoryNetTotal is the signed total of a category, income adding and expense subtracting
type CategoryNetTotal struct {
	CategoryID   uuid.UUID       `json:"category_id"`
	CategoryName string          `json:"category_name"`
	Net          decimal.Decimal `json:"net"`
}

type Dashboard struct {
	Month              PeriodSummary `json:"month"`
	Year               YearlySummary `json:"year"`
	RecentTransactions []Transaction `json:"recent_transactions"`
	IsNewUser          bool          `json:"is_new_user"`
	GeneratedAt        time.Time     `json:"generated_at"`
}

// Clone returns a copy whose transaction slice is not shared with s
func (s *PeriodSummary) Clone() *PeriodSummary {
	if s == nil {
		return nil
	}
	c := *s
	c.Transactions = slices.Clone(s.Transactions)
	return &c
}

func (s *OverallSummary) Clone() *OverallSummary {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

func (s *YearlySummary) Clone() *YearlySummary {
	if s == nil {
		return nil
	}
	c := *s
	c.Months = slices.Clone(s.Months)
	return &c
}

func (r *BudgetReport) Clone() *BudgetReport {
	if r == nil {
		return nil
	}
	c := *r
	c.Items = slices.Clone(r.Items)
	return &c
}

func (i *BudgetReportItem) Clone() *BudgetReportItem {
	if i == nil {
		return nil
	}
	c := *i
	return &c
}

func (r *CategoryReport) Clone() *CategoryReport {
	if r == nil {
		return nil
	}
	c := *r
	c.Transactions = slices.Clone(r.Transactions)
	return &c
}
