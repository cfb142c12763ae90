package services

import (
	"context"
	"time"

	apierrors "finance-ledger/internal/errors"
	"finance-ledger/internal/session"

	"github.com/google/uuid"
)

// Clock returns the current time
type Clock func() time.Time

func (c Clock) orDefault() Clock {
	if c == nil {
		return time.Now
	}
	return c
}

// currentUser resolves the user a call is made on behalf of
func currentUser(ctx context.Context, sessions session.Provider) (uuid.UUID, error) {
	userID, ok := sessions.CurrentUserID(ctx)
	if !ok {
		return uuid.Nil, apierrors.ErrAuthenticationRequired
	}
	return userID, nil
}

// conflict reports a uniqueness violation as a validation failure with its own code
func conflict(code apierrors.ErrorCode, reason string, fields ...string) error {
	failure := apierrors.NewValidationFailure(reason, fields...)
	failure.Code = code
	return failure
}

func invalidField(code apierrors.ErrorCode, field, reason string) error {
	failure := apierrors.NewValidationFailure(reason, field)
	failure.Code = code
	return failure
}

func notFound(entity string, id uuid.UUID) error {
	return apierrors.NewNotFoundFailure(entity, id)
}

// rejectionReason names the failure class for logs and metric labels
func rejectionReason(err error) string {
	switch apierrors.CodeFor(err) {
	case apierrors.LedgerBudgetExists, apierrors.LedgerCategoryNameTaken, apierrors.AuthUserAlreadyExists:
		return "conflict"
	case apierrors.AuthRequired:
		return "unauthenticated"
	case apierrors.SystemDatabaseError:
		return "storage"
	}

	var vf *apierrors.ValidationFailure
	if apierrors.As(err, &vf) {
		return "validation"
	}
	var nf *apierrors.NotFoundFailure
	if apierrors.As(err, &nf) {
		return "not_found"
	}
	return "internal"
}

// writeRecorder reports the outcome of every write to the event log and metrics
type writeRecorder struct {
	events  LedgerEventLoggerInterface
	metrics MetricsRecorderInterface
}

func (r writeRecorder) written(ctx context.Context, entity, operation string, entityID, userID uuid.UUID) {
	r.events.LogEntityWritten(ctx, entity, operation, entityID, userID)
	r.metrics.IncrementCounter("ledger.write", map[string]string{
		"entity":    entity,
		"operation": operation,
		"status":    "success",
	})
}

// rejected records err and returns it unchanged
func (r writeRecorder) rejected(ctx context.Context, entity, operation string, userID uuid.UUID, err error) error {
	reason := rejectionReason(err)
	r.events.LogWriteRejected(ctx, entity, operation, userID, err.Error())
	r.metrics.IncrementCounter("ledger.write", map[string]string{
		"entity":    entity,
		"operation": operation,
		"status":    reason,
	})
	return err
}
