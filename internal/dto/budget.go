package dto

import "github.com/google/uuid"

// BudgetRequest is the payload for creating or replacing a budget.
// A zero month or year means the current period.
type BudgetRequest struct {
	CategoryID  uuid.UUID `json:"category_id" validate:"required"`
	Limit       string    `json:"limit" validate:"required"`
	Month       int       `json:"month,omitempty"`
	Year        int       `json:"year,omitempty"`
	Description string    `json:"description,omitempty" validate:"max=500"`
}
