package handlers

import (
	"log/slog"
	"net/http"

	"finance-ledger/internal/errors"

	"github.com/labstack/echo/v4"
)

// STANDARDIZED ERROR HANDLING PATTERNS
//
// All handlers must use the following standardized error response functions:
//
// 1. SendError - For request problems detected in the handler itself (4xx responses)
//    Use cases:
//    - Malformed bodies: SendError(c, errors.ValidationGeneral, errors.WithDetails("..."))
//    - Bad path or query values: SendError(c, errors.ValidationInvalidFormat)
//    - Missing session: SendError(c, errors.AuthMissingToken)
//
// 2. SendFailure - For errors returned by the services
//    ValidationFailure, NotFoundFailure and authentication failures keep their
//    code; storage and unknown errors become a generic system error.
//
// 3. SendSystemError - For unexpected errors outside the service contract (500 responses)
//
// DO NOT USE:
//    - echo.NewHTTPError() - Use SendError or SendFailure instead
//    - Direct c.JSON() for errors - Use the helper functions

const (
	// TraceIDContextKey is the context key for storing the trace ID
	TraceIDContextKey = "trace_id"
)

// SuccessResponse represents a standard success response
// Used for successful API responses with data, messages, and metadata
type SuccessResponse struct {
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Meta    interface{} `json:"meta,omitempty"`
}

// ErrorResponse is an alias for the standardized error response type
type ErrorResponse = errors.ErrorResponse

// getTraceID extracts the trace ID from the Echo context
func getTraceID(c echo.Context) string {
	traceID, ok := c.Get(TraceIDContextKey).(string)
	if !ok {
		return ""
	}
	return traceID
}

// SendError sends a standardized error response with trace ID from context
func SendError(c echo.Context, code errors.ErrorCode, opts ...errors.ErrorOption) error {
	traceID := getTraceID(c)
	errorResponse := errors.NewErrorResponse(code, traceID, opts...)
	return c.JSON(errorResponse.GetHTTPStatus(), errorResponse)
}

// SendFailure maps a service error onto its API error code
func SendFailure(c echo.Context, err error) error {
	traceID := getTraceID(c)
	errorResponse := errors.NewFailureResponse(err, traceID)
	status := errorResponse.GetHTTPStatus()

	if status >= http.StatusInternalServerError {
		slog.ErrorContext(c.Request().Context(), "request failed",
			"trace_id", traceID,
			"error_code", errorResponse.Error.Code,
			"path", c.Request().URL.Path,
			"error", err.Error(),
		)
	}

	return c.JSON(status, errorResponse)
}

// SendSystemError wraps a system error with generic message and logs the internal error
func SendSystemError(c echo.Context, err error) error {
	traceID := getTraceID(c)
	errorResponse, internal := errors.WrapSystemError(err, traceID)
	slog.ErrorContext(c.Request().Context(), "unexpected error",
		"trace_id", traceID,
		"error", internal,
	)
	return c.JSON(http.StatusInternalServerError, errorResponse)
}
