package repositories

import (
	"errors"
	"strings"
	"time"

	apierrors "finance-ledger/internal/errors"
	"finance-ledger/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrNilUser           = errors.New("user cannot be nil")
)

// UserRepository handles database operations for users
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepositoryInterface {
	return &UserRepository{
		db: db,
	}
}

// Create creates a new user in the database
func (r *UserRepository) Create(user *models.User) error {
	if user == nil {
		return ErrNilUser
	}

	if err := r.db.Create(user).Error; err != nil {
		if isDuplicateKeyError(err) {
			return ErrUserAlreadyExists
		}
		return apierrors.NewStorageFailure("failed to create user", err)
	}

	return nil
}

// GetByID retrieves a user by their ID
func (r *UserRepository) GetByID(id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, apierrors.NewStorageFailure("failed to get user by ID", err)
	}

	return &user, nil
}

// GetByName retrieves a user by name, ignoring case
func (r *UserRepository) GetByName(name string) (*models.User, error) {
	var user models.User

	if err := r.db.Where("LOWER(name) = ?", normalizeUserName(name)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, apierrors.NewStorageFailure("failed to get user by name", err)
	}

	return &user, nil
}

// ExistsByName reports whether any user, active or not, already uses name
func (r *UserRepository) ExistsByName(name string) (bool, error) {
	var count int64
	err := r.db.Model(&models.User{}).
		Where("LOWER(name) = ?", normalizeUserName(name)).
		Count(&count).Error
	if err != nil {
		return false, apierrors.NewStorageFailure("failed to check user name", err)
	}
	return count > 0, nil
}

// Update updates a user in the database
func (r *UserRepository) Update(user *models.User) error {
	if user == nil {
		return ErrNilUser
	}

	found, err := updateRow(r.db, user)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrUserAlreadyExists
		}
		return apierrors.NewStorageFailure("failed to update user", err)
	}
	if !found {
		return ErrUserNotFound
	}

	return nil
}

// UpdateLastLogin stamps the login time without touching the rest of the row
func (r *UserRepository) UpdateLastLogin(id uuid.UUID, at time.Time) error {
	result := r.db.Model(&models.User{}).Where("id = ?", id).UpdateColumn("last_login_at", at.UTC())
	if result.Error != nil {
		return apierrors.NewStorageFailure("failed to update last login", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}

// Delete removes a user together with their ledger rows
func (r *UserRepository) Delete(userID uuid.UUID) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.Transaction{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.Budget{}).Error; err != nil {
			return err
		}

		found, err := deleteRow(tx, &models.User{}, userID)
		if err != nil {
			return err
		}
		if !found {
			return ErrUserNotFound
		}
		return nil
	})

	if errors.Is(err, ErrUserNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return apierrors.NewStorageFailure("failed to delete user", err)
	}

	return nil
}

func (r *UserRepository) Deactivate(id uuid.UUID) error {
	return r.setActive(id, false)
}

func (r *UserRepository) Activate(id uuid.UUID) error {
	return r.setActive(id, true)
}

func (r *UserRepository) setActive(id uuid.UUID, active bool) error {
	found, err := setActive(r.db, &models.User{}, id, active)
	if err != nil {
		return apierrors.NewStorageFailure("failed to change user status", err)
	}
	if !found {
		return ErrUserNotFound
	}
	return nil
}

// ListAll lists users ordered by name
func (r *UserRepository) ListAll(includeInactive bool) ([]models.User, error) {
	var users []models.User
	if err := r.db.Scopes(activeScope(includeInactive)).Order("name ASC").Find(&users).Error; err != nil {
		return nil, apierrors.NewStorageFailure("failed to list users", err)
	}
	return users, nil
}

func normalizeUserName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
