package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordService_HashAndCompare(t *testing.T) {
	ps := NewPasswordService(bcrypt.MinCost)

	hash, err := ps.HashPassword("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", hash)
	assert.True(t, strings.HasPrefix(hash, "$2a$"))

	assert.True(t, ps.ComparePassword("s3cret", hash))
	assert.False(t, ps.ComparePassword("S3cret", hash))
	assert.False(t, ps.ComparePassword("s3cret", "not-a-hash"))
}

func TestPasswordService_SaltsEveryHash(t *testing.T) {
	ps := NewPasswordService(bcrypt.MinCost)

	first, err := ps.HashPassword("same")
	require.NoError(t, err)
	second, err := ps.HashPassword("same")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestPasswordService_RejectsUnhashableSecrets(t *testing.T) {
	ps := NewPasswordService(bcrypt.MinCost)

	_, err := ps.HashPassword("")
	assert.ErrorIs(t, err, ErrSecretEmpty)

	_, err = ps.HashPassword(strings.Repeat("a", MaxSecretLength+1))
	assert.ErrorIs(t, err, ErrSecretTooLong)
}

func TestPasswordService_CostOutOfRangeUsesDefault(t *testing.T) {
	ps := NewPasswordService(99).(*PasswordService)
	assert.Equal(t, DefaultBCryptCost, ps.cost)

	ps = NewPasswordService(0).(*PasswordService)
	assert.Equal(t, DefaultBCryptCost, ps.cost)
}
