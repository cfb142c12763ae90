package repositories

import (
	"errors"

	apierrors "finance-ledger/internal/errors"
	"finance-ledger/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrCategoryNotFound   = errors.New("category not found")
	ErrCategoryNameExists = errors.New("an active category with this name already exists")
	ErrNilCategory        = errors.New("category cannot be nil")
)

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db *gorm.DB) CategoryRepositoryInterface {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(category *models.Category) error {
	if category == nil {
		return ErrNilCategory
	}

	if err := r.db.Create(category).Error; err != nil {
		if isDuplicateKeyError(err) {
			return ErrCategoryNameExists
		}
		return apierrors.NewStorageFailure("failed to create category", err)
	}

	return nil
}

func (r *categoryRepository) Update(category *models.Category) error {
	if category == nil {
		return ErrNilCategory
	}

	found, err := updateRow(r.db, category)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrCategoryNameExists
		}
		return apierrors.NewStorageFailure("failed to update category", err)
	}
	if !found {
		return ErrCategoryNotFound
	}

	return nil
}

// Delete removes the row; storage rejects it while transactions or budgets still reference it
func (r *categoryRepository) Delete(id uuid.UUID) error {
	found, err := deleteRow(r.db, &models.Category{}, id)
	if err != nil {
		return apierrors.NewStorageFailure("failed to delete category", err)
	}
	if !found {
		return ErrCategoryNotFound
	}
	return nil
}

func (r *categoryRepository) Deactivate(id uuid.UUID) error {
	return r.setActive(id, false)
}

func (r *categoryRepository) Activate(id uuid.UUID) error {
	return r.setActive(id, true)
}

func (r *categoryRepository) setActive(id uuid.UUID, active bool) error {
	found, err := setActive(r.db, &models.Category{}, id, active)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrCategoryNameExists
		}
		return apierrors.NewStorageFailure("failed to change category status", err)
	}
	if !found {
		return ErrCategoryNotFound
	}
	return nil
}

func (r *categoryRepository) GetByID(id uuid.UUID) (*models.Category, error) {
	var category models.Category
	if err := r.db.Where("id = ?", id).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, apierrors.NewStorageFailure("failed to get category", err)
	}
	return &category, nil
}

func (r *categoryRepository) GetByName(name string) (*models.Category, error) {
	var category models.Category
	err := r.db.Where("normalized_name = ? AND active = ?", models.NormalizeCategoryName(name), true).
		First(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, apierrors.NewStorageFailure("failed to get category by name", err)
	}
	return &category, nil
}

func (r *categoryRepository) ExistsActiveByName(name string, excludeID uuid.UUID) (bool, error) {
	query := r.db.Model(&models.Category{}).
		Where("normalized_name = ? AND active = ?", models.NormalizeCategoryName(name), true)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, apierrors.NewStorageFailure("failed to check category name", err)
	}
	return count > 0, nil
}

func (r *categoryRepository) ListAll(includeInactive bool) ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.Scopes(activeScope(includeInactive)).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, apierrors.NewStorageFailure("failed to list categories", err)
	}
	return categories, nil
}
