package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"finance-ledger/internal/services"
	"finance-ledger/internal/session"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"
)

type RequestIDTestSuite struct {
	suite.Suite
	echo *echo.Echo
}

func (s *RequestIDTestSuite) SetupTest() {
	s.echo = echo.New()
}

func TestRequestIDTestSuite(t *testing.T) {
	suite.Run(t, new(RequestIDTestSuite))
}

// serve runs RequestID around handler and returns the id the response carried
func (s *RequestIDTestSuite) serve(incoming string, handler echo.HandlerFunc) string {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/transactions", nil)
	if incoming != "" {
		req.Header.Set(RequestIDHeader, incoming)
	}
	rec := httptest.NewRecorder()

	s.Require().NoError(RequestID()(handler)(s.echo.NewContext(req, rec)))
	return rec.Header().Get(RequestIDHeader)
}

func noContent(c echo.Context) error {
	return c.NoContent(http.StatusNoContent)
}

func (s *RequestIDTestSuite) TestGeneratesUUIDWhenMissing() {
	id := s.serve("", noContent)

	_, err := uuid.Parse(id)
	s.NoError(err)
}

func (s *RequestIDTestSuite) TestKeepsWellFormedClientID() {
	s.Equal("mobile-app.42:retry-1", s.serve("mobile-app.42:retry-1", noContent))
}

func (s *RequestIDTestSuite) TestReplacesMalformedClientID() {
	for _, incoming := range []string{
		"has spaces in it",
		"line\nbreak",
		`quote"injection`,
		strings.Repeat("a", 65),
	} {
		id := s.serve(incoming, noContent)

		s.NotEqual(incoming, id)
		_, err := uuid.Parse(id)
		s.NoError(err, incoming)
	}
}

func (s *RequestIDTestSuite) TestSameIDInEchoAndRequestContext() {
	var fromEcho, fromSession string
	id := s.serve("", func(c echo.Context) error {
		fromEcho = GetTraceID(c)
		fromSession = session.TraceID(c.Request().Context())
		return noContent(c)
	})

	s.Equal(id, fromEcho)
	s.Equal(id, fromSession)
}

func (s *RequestIDTestSuite) TestLedgerEventsCarryRequestID() {
	var buf bytes.Buffer
	events := services.NewLedgerEventLogger(slog.New(slog.NewJSONHandler(&buf, nil)))
	userID, txID := uuid.New(), uuid.New()

	id := s.serve("checkout-7f3a", func(c echo.Context) error {
		events.LogEntityWritten(c.Request().Context(), "transaction", "create", txID, userID)
		return noContent(c)
	})

	var event map[string]interface{}
	s.Require().NoError(json.Unmarshal(buf.Bytes(), &event))
	s.Equal("checkout-7f3a", id)
	s.Equal(id, event["correlation_id"])
	s.Equal(txID.String(), event["entity_id"])
}

func (s *RequestIDTestSuite) TestGetTraceIDOutsideMiddleware() {
	c := s.echo.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	s.Empty(GetTraceID(c))
}
