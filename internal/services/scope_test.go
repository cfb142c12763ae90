package services

import (
	"errors"
	"testing"

	apierrors "finance-ledger/internal/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestRejectionReason(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		want string
	}{
		{"conflict", conflict(apierrors.LedgerBudgetExists, "taken", "month"), "conflict"},
		{"unauthenticated", apierrors.ErrAuthenticationRequired, "unauthenticated"},
		{"storage", apierrors.NewStorageFailure("op", errors.New("boom")), "storage"},
		{"validation", apierrors.NewValidationFailure("bad", "amount"), "validation"},
		{"not found", notFound("budget", uuid.New()), "not_found"},
		{"other", errors.New("boom"), "internal"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, rejectionReason(tc.err))
		})
	}
}

func TestCurrentUser(t *testing.T) {
	provider := sessionProviderFunc(func() (uuid.UUID, bool) { return uuid.Nil, false })
	_, err := currentUser(userContext(uuid.New()), provider)
	assert.ErrorIs(t, err, apierrors.ErrAuthenticationRequired)

	id := uuid.New()
	provider = sessionProviderFunc(func() (uuid.UUID, bool) { return id, true })
	got, err := currentUser(userContext(uuid.New()), provider)
	assert.NoError(t, err)
	assert.Equal(t, id, got)
}
