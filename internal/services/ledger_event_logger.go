package services

import (
	"context"
	"log/slog"
	"time"

	"finance-ledger/internal/models"
	"finance-ledger/internal/session"

	"github.com/google/uuid"
)

type LedgerEventLogger struct {
	logger *slog.Logger
}

func NewLedgerEventLogger(logger *slog.Logger) LedgerEventLoggerInterface {
	return &LedgerEventLogger{
		logger: logger,
	}
}

func (l *LedgerEventLogger) LogEntityWritten(ctx context.Context, entity, operation string, entityID, userID uuid.UUID) {
	l.logger.InfoContext(ctx, "ledger entity written",
		slog.String("event_type", "ledger_write"),
		slog.String("entity", entity),
		slog.String("operation", operation),
		slog.String("entity_id", entityID.String()),
		slog.String("user_id", userID.String()),
		slog.Time("timestamp", time.Now()),
		slog.String("correlation_id", getCorrelationID(ctx)),
	)
}

func (l *LedgerEventLogger) LogWriteRejected(ctx context.Context, entity, operation string, userID uuid.UUID, reason string) {
	l.logger.WarnContext(ctx, "ledger write rejected",
		slog.String("event_type", "ledger_write_rejected"),
		slog.String("entity", entity),
		slog.String("operation", operation),
		slog.String("user_id", userID.String()),
		slog.String("error", reason),
		slog.Time("timestamp", time.Now()),
		slog.String("correlation_id", getCorrelationID(ctx)),
	)
}

func (l *LedgerEventLogger) LogBudgetOverLimit(ctx context.Context, budgetID, userID uuid.UUID, status models.BudgetStatus) {
	l.logger.WarnContext(ctx, "budget over limit",
		slog.String("event_type", "budget_over_limit"),
		slog.String("budget_id", budgetID.String()),
		slog.String("user_id", userID.String()),
		slog.String("limit", status.Limit.String()),
		slog.String("spent", status.Spent.String()),
		slog.Float64("utilization_percent", status.UtilizationPercent),
		slog.String("correlation_id", getCorrelationID(ctx)),
	)
}

func (l *LedgerEventLogger) LogAuthenticationEvent(ctx context.Context, event, userName string, success bool) {
	level := slog.LevelInfo
	if !success {
		level = slog.LevelWarn
	}

	l.logger.Log(ctx, level, "authentication event",
		slog.String("event_type", event),
		slog.String("user_name", userName),
		slog.Bool("success", success),
		slog.Time("timestamp", time.Now()),
		slog.String("correlation_id", getCorrelationID(ctx)),
	)
}

func (l *LedgerEventLogger) LogReportCacheInvalidated(ctx context.Context, userID uuid.UUID, removed int) {
	l.logger.DebugContext(ctx, "report cache invalidated",
		slog.String("event_type", "report_cache_invalidated"),
		slog.String("user_id", userID.String()),
		slog.Int("removed", removed),
		slog.String("correlation_id", getCorrelationID(ctx)),
	)
}

func (l *LedgerEventLogger) LogReportGenerated(ctx context.Context, report string, userID uuid.UUID, cached bool, durationMs int64) {
	l.logger.DebugContext(ctx, "report generated",
		slog.String("event_type", "report_generated"),
		slog.String("report", report),
		slog.String("user_id", userID.String()),
		slog.Bool("cached", cached),
		slog.Int64("duration_ms", durationMs),
		slog.String("correlation_id", getCorrelationID(ctx)),
	)
}

func getCorrelationID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	return session.TraceID(ctx)
}
