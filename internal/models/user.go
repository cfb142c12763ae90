package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrUserNameRequired   = errors.New("user name is required")
	ErrUserSecretRequired = errors.New("user secret hash is required")
)

// User owns transactions and budgets. The secret is only ever stored as a bcrypt hash.
type User struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	Name        string     `gorm:"type:varchar(100);uniqueIndex;not null" json:"name" validate:"notblank,name_length,no_whitespace,max=100"`
	SecretHash  string     `gorm:"type:varchar(255);not null" json:"-" validate:"required"`
	Active      bool       `gorm:"not null;index" json:"active"`
	LastLoginAt *time.Time `gorm:"index" json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null" json:"updated_at"`
}

// NewUser builds an active user from an already hashed secret
func NewUser(name, secretHash string) *User {
	now := time.Now()
	return &User{
		Name:       strings.TrimSpace(name),
		SecretHash: secretHash,
		Active:     true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}

	now := time.Now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	if u.UpdatedAt.IsZero() {
		u.UpdatedAt = now
	}

	return u.Validate()
}

func (u *User) BeforeUpdate(tx *gorm.DB) error {
	// Map-based updates carry an empty struct, nothing to validate
	if tx.Statement.Dest != nil {
		if _, ok := tx.Statement.Dest.(map[string]interface{}); ok {
			return nil
		}
	}

	u.UpdatedAt = time.Now()
	return u.Validate()
}

func (u *User) Validate() error {
	if strings.TrimSpace(u.Name) == "" {
		return ErrUserNameRequired
	}

	if u.SecretHash == "" {
		return ErrUserSecretRequired
	}

	return nil
}

func (u *User) UpdateLastLogin() {
	now := time.Now()
	u.LastLoginAt = &now
}

// IsNew reports whether the user has never logged in before
func (u *User) IsNew() bool {
	return u.LastLoginAt == nil
}

func (u *User) Deactivate() {
	u.Active = false
	u.UpdatedAt = time.Now()
}

func (u *User) Activate() {
	u.Active = true
	u.UpdatedAt = time.Now()
}

func (u *User) TableName() string {
	return "users"
}
