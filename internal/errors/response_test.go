package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

// ResponseTestSuite defines the test suite for error responses
type ResponseTestSuite struct {
	suite.Suite
	traceID string
}

func (s *ResponseTestSuite) SetupTest() {
	s.traceID = "550e8400-e29b-41d4-a716-446655440000"
}

func TestResponseTestSuite(t *testing.T) {
	suite.Run(t, new(ResponseTestSuite))
}

func (s *ResponseTestSuite) TestNewErrorResponse_BasicUsage() {
	response := NewErrorResponse(AuthInvalidCredentials, s.traceID)

	s.Equal("AUTH_001", response.Error.Code)
	s.Equal("Invalid user name or secret", response.Error.Message)
	s.Equal(s.traceID, response.Error.TraceID)
	s.Empty(response.Error.Details)
}

func (s *ResponseTestSuite) TestNewErrorResponse_WithOptions() {
	response := NewErrorResponse(ValidationGeneral, s.traceID,
		WithMessage("bad input"),
		WithFields("amount"),
		WithDetails("amount must be greater than 0"),
	)

	s.Equal("bad input", response.Error.Message)
	s.Equal([]string{"amount"}, response.Error.Fields)
	s.Equal([]string{"amount must be greater than 0"}, response.Error.Details)
	s.True(response.IsClientError())
	s.False(response.IsServerError())
}

func (s *ResponseTestSuite) TestNewValidationError() {
	response := NewValidationError(map[string]string{"month": "must be at most 12"}, s.traceID)

	s.Equal(string(ValidationGeneral), response.Error.Code)
	s.Equal([]string{"month"}, response.Error.Fields)
	s.Equal([]string{"month: must be at most 12"}, response.Error.Details)
}

func (s *ResponseTestSuite) TestNewFailureResponse_Validation() {
	err := fmt.Errorf("create budget: %w", NewValidationFailure("limit must be greater than 0", "limit"))

	response := NewFailureResponse(err, s.traceID)

	s.Equal(string(ValidationGeneral), response.Error.Code)
	s.Equal([]string{"limit"}, response.Error.Fields)
	s.Equal([]string{"limit must be greater than 0"}, response.Error.Details)
	s.Equal(http.StatusBadRequest, response.GetHTTPStatus())
}

func (s *ResponseTestSuite) TestNewFailureResponse_NotFound() {
	id := uuid.New()
	response := NewFailureResponse(NewNotFoundFailure("budget", id), s.traceID)

	s.Equal(string(LedgerBudgetNotFound), response.Error.Code)
	s.Equal([]string{"budget not found: " + id.String()}, response.Error.Details)
	s.Equal(http.StatusNotFound, response.GetHTTPStatus())
}

func (s *ResponseTestSuite) TestNewFailureResponse_StorageHidesCause() {
	err := NewStorageFailure("failed to list budgets", stderrors.New("pq: relation \"budgets\" does not exist"))

	response := NewFailureResponse(err, s.traceID)

	s.Equal(string(SystemDatabaseError), response.Error.Code)
	s.Empty(response.Error.Details)
	s.True(response.IsServerError())
}

func (s *ResponseTestSuite) TestToJSON() {
	response := NewErrorResponse(LedgerCategoryNotFound, s.traceID)

	data, err := response.ToJSON()
	s.Require().NoError(err)

	var decoded map[string]map[string]any
	s.Require().NoError(json.Unmarshal(data, &decoded))
	s.Equal("LEDGER_002", decoded["error"]["code"])
	s.Equal(s.traceID, decoded["error"]["trace_id"])
}

func (s *ResponseTestSuite) TestString() {
	response := NewErrorResponse(SystemDatabaseError, "trace-1")
	s.Equal("[SYSTEM_002] Database error (trace: trace-1)", response.String())
}
