package errors

// ErrorCode represents a standardized error code used throughout the API
type ErrorCode string

// Authentication error codes (AUTH_*)
const (
	AuthInvalidCredentials ErrorCode = "AUTH_001"
	AuthMissingToken       ErrorCode = "AUTH_002"
	AuthExpiredToken       ErrorCode = "AUTH_003"
	AuthInvalidTokenFormat ErrorCode = "AUTH_004"
	AuthRequired           ErrorCode = "AUTH_005"
	AuthUserInactive       ErrorCode = "AUTH_006"
	AuthUserAlreadyExists  ErrorCode = "AUTH_007"
)

// Validation error codes (VALIDATION_*)
const (
	ValidationGeneral       ErrorCode = "VALIDATION_001"
	ValidationRequiredField ErrorCode = "VALIDATION_002"
	ValidationInvalidFormat ErrorCode = "VALIDATION_003"
	ValidationOutOfRange    ErrorCode = "VALIDATION_004"
	ValidationInvalidDate   ErrorCode = "VALIDATION_005"
	ValidationInvalidPeriod ErrorCode = "VALIDATION_006"
)

// Ledger error codes (LEDGER_*)
const (
	LedgerTransactionNotFound ErrorCode = "LEDGER_001"
	LedgerCategoryNotFound    ErrorCode = "LEDGER_002"
	LedgerBudgetNotFound      ErrorCode = "LEDGER_003"
	LedgerUserNotFound        ErrorCode = "LEDGER_004"
	LedgerCategoryNameTaken   ErrorCode = "LEDGER_005"
	LedgerBudgetExists        ErrorCode = "LEDGER_006"
	LedgerCategoryInactive    ErrorCode = "LEDGER_007"
	LedgerResourceNotFound    ErrorCode = "LEDGER_008"
)

// System error codes (SYSTEM_*)
const (
	SystemInternalError      ErrorCode = "SYSTEM_001"
	SystemDatabaseError      ErrorCode = "SYSTEM_002"
	SystemServiceUnavailable ErrorCode = "SYSTEM_003"
	SystemConfigurationError ErrorCode = "SYSTEM_004"
	SystemUnexpectedError    ErrorCode = "SYSTEM_005"
	SystemRateLimitExceeded  ErrorCode = "SYSTEM_006"
)

var errorMessages = map[ErrorCode]string{
	AuthInvalidCredentials: "Invalid user name or secret",
	AuthMissingToken:       "Authorization token is required",
	AuthExpiredToken:       "Authorization token has expired",
	AuthInvalidTokenFormat: "Invalid authorization token format",
	AuthRequired:           "No user is logged in",
	AuthUserInactive:       "User is inactive",
	AuthUserAlreadyExists:  "A user with this name already exists",

	ValidationGeneral:       "Validation failed",
	ValidationRequiredField: "Required field is missing",
	ValidationInvalidFormat: "Invalid field format",
	ValidationOutOfRange:    "Field value is out of allowed range",
	ValidationInvalidDate:   "Invalid date format or range",
	ValidationInvalidPeriod: "Invalid month or year",

	LedgerTransactionNotFound: "Transaction not found",
	LedgerCategoryNotFound:    "Category not found",
	LedgerBudgetNotFound:      "Budget not found",
	LedgerUserNotFound:        "User not found",
	LedgerCategoryNameTaken:   "An active category with this name already exists",
	LedgerBudgetExists:        "An active budget already exists for this category and period",
	LedgerCategoryInactive:    "Category is inactive",
	LedgerResourceNotFound:    "Resource not found",

	SystemInternalError:      "An unexpected error occurred. Please contact support with trace ID",
	SystemDatabaseError:      "Database error",
	SystemServiceUnavailable: "Service temporarily unavailable",
	SystemConfigurationError: "System configuration error",
	SystemUnexpectedError:    "An unexpected error occurred",
	SystemRateLimitExceeded:  "Rate limit exceeded. Please try again later",
}

// GetErrorMessage returns the default message for a given error code
func GetErrorMessage(code ErrorCode) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}
	return "An error occurred"
}

// IsValidErrorCode checks if the provided error code is a registered code
func IsValidErrorCode(code ErrorCode) bool {
	_, ok := errorMessages[code]
	return ok
}
