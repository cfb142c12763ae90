package models

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const MaxCategoryNameLength = 100

var (
	ErrCategoryNameRequired = errors.New("category name is required")
	ErrCategoryNameTooLong  = errors.New("category name must not exceed 100 characters")
)

// Category groups transactions and budgets under a name shared by all users
type Category struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name           string    `gorm:"type:varchar(100);not null" json:"name" validate:"notblank,max=100"`
	NormalizedName string    `gorm:"type:varchar(100);not null" json:"-"` // unique among active categories
	Description    string    `gorm:"type:text" json:"description,omitempty" validate:"max=500"`
	Active         bool      `gorm:"not null;index" json:"active"`
	CreatedAt      time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time `gorm:"not null" json:"updated_at"`
}

// NewCategory builds an active category
func NewCategory(name, description string) *Category {
	now := time.Now()
	return &Category{
		Name:           strings.TrimSpace(name),
		NormalizedName: NormalizeCategoryName(name),
		Description:    description,
		Active:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}

	now := time.Now()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = now
	}
	c.NormalizedName = NormalizeCategoryName(c.Name)

	return c.Validate()
}

func (c *Category) BeforeUpdate(tx *gorm.DB) error {
	c.UpdatedAt = time.Now()
	c.NormalizedName = NormalizeCategoryName(c.Name)
	return c.Validate()
}

func (c *Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrCategoryNameRequired
	}
	if utf8.RuneCountInString(c.Name) > MaxCategoryNameLength {
		return ErrCategoryNameTooLong
	}
	return nil
}

func (c *Category) Rename(name string) {
	c.Name = strings.TrimSpace(name)
	c.NormalizedName = NormalizeCategoryName(name)
	c.UpdatedAt = time.Now()
}

func (c *Category) Deactivate() {
	c.Active = false
	c.UpdatedAt = time.Now()
}

func (c *Category) Activate() {
	c.Active = true
	c.UpdatedAt = time.Now()
}

func (c *Category) TableName() string {
	return "categories"
}

// NormalizeCategoryName trims and lower-cases a category name, folding
// non-ASCII letters too, for comparisons
func NormalizeCategoryName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
