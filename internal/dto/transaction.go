package dto

import (
	"fmt"
	"strings"
	"time"

	"finance-ledger/internal/models"

	"github.com/google/uuid"
)

// DateLayout is the calendar date format accepted and returned by the API
const DateLayout = "2006-01-02"

// TransactionRequest is the payload for creating or replacing a transaction
type TransactionRequest struct {
	Kind            string     `json:"kind" validate:"required"`
	Amount          string     `json:"amount" validate:"required"`
	TransactionDate string     `json:"transaction_date" validate:"required"`
	Description     string     `json:"description" validate:"required,max=255"`
	CategoryID      *uuid.UUID `json:"category_id,omitempty"`
	Note            string     `json:"note,omitempty" validate:"max=2000"`
}

// TransactionListParams contains filtering options for transaction queries
type TransactionListParams struct {
	Kind            string `query:"kind"`
	CategoryID      string `query:"category_id"`
	StartDate       string `query:"start_date"`
	EndDate         string `query:"end_date"`
	Description     string `query:"q"`
	IncludeInactive bool   `query:"include_inactive"`
	Offset          int    `query:"offset"`
	Limit           int    `query:"limit"`
}

// PaginationInfo contains pagination metadata
type PaginationInfo struct {
	HasMore bool  `json:"has_more"`
	Offset  int   `json:"offset"`
	Limit   int   `json:"limit"`
	Total   int64 `json:"total"`
}

// ListTransactionsResponse represents the response for listing transactions
type ListTransactionsResponse struct {
	Transactions []models.Transaction `json:"transactions"`
	Pagination   PaginationInfo       `json:"pagination"`
}

// NewPaginationInfo builds pagination metadata for one page of results
func NewPaginationInfo(offset, limit, returned int, total int64) PaginationInfo {
	return PaginationInfo{
		HasMore: int64(offset+returned) < total,
		Offset:  offset,
		Limit:   limit,
		Total:   total,
	}
}

// ParseDate accepts a calendar date or an RFC3339 timestamp and returns the date at UTC midnight
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(DateLayout, value); err == nil {
		return models.DateOnly(t), nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return models.DateOnly(t), nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", value)
}
