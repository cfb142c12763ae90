package middleware

import (
	"regexp"

	"finance-ledger/internal/session"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	// RequestIDHeader carries the correlation id into and out of the API
	RequestIDHeader = echo.HeaderXRequestID
	// TraceIDContextKey is the echo context key error envelopes read the id from
	TraceIDContextKey = "trace_id"
)

// Client supplied ids end up in logs, so only short opaque tokens are kept.
var requestIDPattern = regexp.MustCompile(`^[A-Za-z0-9._:-]{1,64}$`)

// RequestID gives every request a correlation id. A well-formed X-Request-ID
// from the client is kept and anything else is replaced by a new UUID. The id
// is echoed in the response and stored on the echo context, and it is seeded
// into the request context so ledger events logged while serving the request
// carry it as correlation_id.
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			id := correlationID(req.Header.Get(RequestIDHeader))

			c.Set(TraceIDContextKey, id)
			c.SetRequest(req.WithContext(session.WithTraceID(req.Context(), id)))
			c.Response().Header().Set(RequestIDHeader, id)
			return next(c)
		}
	}
}

func correlationID(incoming string) string {
	if requestIDPattern.MatchString(incoming) {
		return incoming
	}
	return uuid.New().String()
}

// GetTraceID returns the correlation id RequestID stored, or "" outside it
func GetTraceID(c echo.Context) string {
	traceID, _ := c.Get(TraceIDContextKey).(string)
	return traceID
}
