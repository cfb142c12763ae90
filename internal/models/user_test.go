package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestUser_Validate(t *testing.T) {
	tests := []struct {
		name    string
		user    User
		wantErr error
	}{
		{
			name: "valid user",
			user: User{Name: "alice", SecretHash: "$2a$10$hash"},
		},
		{
			name:    "blank name",
			user:    User{Name: "   ", SecretHash: "$2a$10$hash"},
			wantErr: ErrUserNameRequired,
		},
		{
			name:    "missing hash",
			user:    User{Name: "alice"},
			wantErr: ErrUserSecretRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.user.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewUser(t *testing.T) {
	user := NewUser("  bob ", "$2a$10$hash")

	assert.Equal(t, "bob", user.Name)
	assert.True(t, user.Active)
	assert.True(t, user.IsNew())
	assert.Equal(t, uuid.Nil, user.ID)
}

func TestUser_UpdateLastLogin(t *testing.T) {
	user := NewUser("carol", "hash")

	before := time.Now()
	user.UpdateLastLogin()

	assert.NotNil(t, user.LastLoginAt)
	assert.False(t, user.LastLoginAt.Before(before))
	assert.False(t, user.IsNew())
}

func TestUser_ActiveToggle(t *testing.T) {
	user := NewUser("dave", "hash")

	user.Deactivate()
	assert.False(t, user.Active)

	user.Activate()
	assert.True(t, user.Active)
	assert.Equal(t, "users", user.TableName())
}
