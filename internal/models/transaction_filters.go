package models

import (
	"time"

	"github.com/google/uuid"
)

// TransactionFilters contains filtering options for transaction queries
type TransactionFilters struct {
	UserID          uuid.UUID
	Kind            TransactionKind
	CategoryID      *uuid.UUID
	StartDate       *time.Time
	EndDate         *time.Time
	Description     string
	IncludeInactive bool
	Offset          int
	Limit           int
}
