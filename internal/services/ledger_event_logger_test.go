package services

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"finance-ledger/internal/models"
	"finance-ledger/internal/session"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCapturingEventLogger() (LedgerEventLoggerInterface, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return NewLedgerEventLogger(logger), &buf
}

func decodeEvent(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var event map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &event))
	return event
}

func TestLedgerEventLogger_EntityWrittenCarriesTraceID(t *testing.T) {
	events, buf := newCapturingEventLogger()
	entityID, userID := uuid.New(), uuid.New()
	ctx := session.WithTraceID(context.Background(), "trace-123")

	events.LogEntityWritten(ctx, "transaction", "create", entityID, userID)

	event := decodeEvent(t, buf)
	assert.Equal(t, "ledger_write", event["event_type"])
	assert.Equal(t, "transaction", event["entity"])
	assert.Equal(t, entityID.String(), event["entity_id"])
	assert.Equal(t, userID.String(), event["user_id"])
	assert.Equal(t, "trace-123", event["correlation_id"])
}

func TestLedgerEventLogger_FailedLoginIsWarning(t *testing.T) {
	events, buf := newCapturingEventLogger()

	events.LogAuthenticationEvent(context.Background(), "login", "alice", false)

	event := decodeEvent(t, buf)
	assert.Equal(t, "WARN", event["level"])
	assert.Equal(t, "alice", event["user_name"])
	assert.Equal(t, false, event["success"])
}

func TestLedgerEventLogger_BudgetOverLimit(t *testing.T) {
	events, buf := newCapturingEventLogger()
	status := models.BudgetStatus{
		Limit:              decimal.NewFromInt(100),
		Spent:              decimal.RequireFromString("124.50"),
		UtilizationPercent: 124.5,
	}

	events.LogBudgetOverLimit(context.Background(), uuid.New(), uuid.New(), status)

	event := decodeEvent(t, buf)
	assert.Equal(t, "budget_over_limit", event["event_type"])
	assert.Equal(t, "124.5", event["spent"])
	assert.Equal(t, 124.5, event["utilization_percent"])
}
