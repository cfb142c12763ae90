package services

import (
	"context"
	"io"
	"log/slog"

	"finance-ledger/internal/session"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestMetrics registers the ledger metrics on a private registry so suites do not collide
func newTestMetrics() *PrometheusMetrics {
	return NewPrometheusMetrics(prometheus.NewRegistry()).(*PrometheusMetrics)
}

func userContext(userID uuid.UUID) context.Context {
	return session.WithUserID(context.Background(), userID)
}

// sessionProviderFunc ignores the context and returns a fixed answer
type sessionProviderFunc func() (uuid.UUID, bool)

func (f sessionProviderFunc) CurrentUserID(context.Context) (uuid.UUID, bool) {
	return f()
}
