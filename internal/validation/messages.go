package validation

import (
	"fmt"
	"reflect"

	"finance-ledger/internal/models"

	"github.com/go-playground/validator/v10"
)

// FormatFieldError converts a validator.FieldError to a human-readable message
func FormatFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "notblank":
		return "must not be blank"
	case "min":
		switch fe.Kind() {
		case reflect.String:
			return fmt.Sprintf("must be at least %s characters long", fe.Param())
		default:
			return fmt.Sprintf("must be at least %s", fe.Param())
		}
	case "max":
		switch fe.Kind() {
		case reflect.String:
			return fmt.Sprintf("must be at most %s characters long", fe.Param())
		default:
			return fmt.Sprintf("must be at most %s", fe.Param())
		}
	case "len":
		return fmt.Sprintf("must be exactly %s characters long", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "uuid":
		return "must be a valid UUID"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "positive_decimal":
		return "must be a decimal amount greater than 0"
	case "currency_scale":
		return fmt.Sprintf("must not have more than %d decimal places", models.CurrencyScale)
	case "transaction_kind":
		return "must be INCOME or EXPENSE"
	case "no_whitespace":
		return "must not contain whitespace"
	case "budget_year":
		return "is before the earliest allowed budget year"
	case "secret_length":
		return "is too short"
	case "name_length":
		return "is too short"
	default:
		return fmt.Sprintf("failed validation for '%s'", fe.Tag())
	}
}
