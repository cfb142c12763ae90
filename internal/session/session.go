// Package session carries the authenticated user id through a request context.
package session

import (
	"context"

	"github.com/google/uuid"
)

type contextKey struct{}

type traceKey struct{}

// Provider resolves the user a call is made on behalf of
type Provider interface {
	CurrentUserID(ctx context.Context) (uuid.UUID, bool)
}

// WithUserID returns a copy of ctx carrying the user id
func WithUserID(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, contextKey{}, userID)
}

// UserIDFromContext returns the user id stored in ctx, if any
func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	if ctx == nil {
		return uuid.Nil, false
	}
	userID, ok := ctx.Value(contextKey{}).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return uuid.Nil, false
	}
	return userID, true
}

// ContextProvider reads the user id placed in the context by the auth middleware
type ContextProvider struct{}

func NewContextProvider() *ContextProvider {
	return &ContextProvider{}
}

func (ContextProvider) CurrentUserID(ctx context.Context) (uuid.UUID, bool) {
	return UserIDFromContext(ctx)
}

// WithTraceID returns a copy of ctx carrying the request trace id
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceKey{}, traceID)
}

// TraceID returns the request trace id stored in ctx, or ""
func TraceID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	traceID, _ := ctx.Value(traceKey{}).(string)
	return traceID
}
