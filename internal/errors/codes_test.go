package errors

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/suite"
)

// CodesTestSuite defines the test suite for error codes
type CodesTestSuite struct {
	suite.Suite
}

func TestCodesTestSuite(t *testing.T) {
	suite.Run(t, new(CodesTestSuite))
}

func (s *CodesTestSuite) TestGetErrorMessage_ValidCode() {
	testCases := []struct {
		name     string
		code     ErrorCode
		expected string
	}{
		{name: "Auth Invalid Credentials", code: AuthInvalidCredentials, expected: "Invalid user name or secret"},
		{name: "Auth Required", code: AuthRequired, expected: "No user is logged in"},
		{name: "Validation General", code: ValidationGeneral, expected: "Validation failed"},
		{name: "Category Name Taken", code: LedgerCategoryNameTaken, expected: "An active category with this name already exists"},
		{name: "Budget Exists", code: LedgerBudgetExists, expected: "An active budget already exists for this category and period"},
		{name: "System Internal Error", code: SystemInternalError, expected: "An unexpected error occurred. Please contact support with trace ID"},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.Equal(tc.expected, GetErrorMessage(tc.code))
		})
	}
}

func (s *CodesTestSuite) TestGetErrorMessage_InvalidCode() {
	s.Equal("An error occurred", GetErrorMessage("INVALID_CODE"))
}

func (s *CodesTestSuite) TestIsValidErrorCode() {
	s.True(IsValidErrorCode(LedgerTransactionNotFound))
	s.True(IsValidErrorCode(SystemRateLimitExceeded))
	s.False(IsValidErrorCode("LEDGER_999"))
}

func (s *CodesTestSuite) TestGetHTTPStatus() {
	testCases := []struct {
		code     ErrorCode
		expected int
	}{
		{ValidationGeneral, http.StatusBadRequest},
		{ValidationInvalidPeriod, http.StatusBadRequest},
		{AuthRequired, http.StatusUnauthorized},
		{AuthUserInactive, http.StatusForbidden},
		{LedgerBudgetNotFound, http.StatusNotFound},
		{LedgerCategoryNameTaken, http.StatusConflict},
		{LedgerBudgetExists, http.StatusConflict},
		{LedgerCategoryInactive, http.StatusUnprocessableEntity},
		{SystemRateLimitExceeded, http.StatusTooManyRequests},
		{SystemServiceUnavailable, http.StatusServiceUnavailable},
		{SystemDatabaseError, http.StatusInternalServerError},
		{"UNKNOWN", http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		s.Run(string(tc.code), func() {
			s.Equal(tc.expected, GetHTTPStatus(tc.code))
		})
	}
}
