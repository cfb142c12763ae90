package services

import (
	"context"
	"errors"
	"log/slog"

	"finance-ledger/internal/dto"
	apierrors "finance-ledger/internal/errors"
	"finance-ledger/internal/models"
	"finance-ledger/internal/repositories"
	"finance-ledger/internal/session"
	"finance-ledger/internal/validation"

	"github.com/google/uuid"
)

const categoryNameTakenReason = "an active category with this name already exists"

// CategoryService manages the category list shared by all users
type CategoryService struct {
	categoryRepo repositories.CategoryRepositoryInterface
	sessions     session.Provider
	validator    *validation.Validator
	reports      ReportInvalidatorInterface
	recorder     writeRecorder
	logger       *slog.Logger
}

// NewCategoryService creates a new category service
func NewCategoryService(
	categoryRepo repositories.CategoryRepositoryInterface,
	sessions session.Provider,
	validator *validation.Validator,
	reports ReportInvalidatorInterface,
	events LedgerEventLoggerInterface,
	metrics MetricsRecorderInterface,
	logger *slog.Logger,
) CategoryServiceInterface {
	return &CategoryService{
		categoryRepo: categoryRepo,
		sessions:     sessions,
		validator:    validator,
		reports:      reports,
		recorder:     writeRecorder{events: events, metrics: metrics},
		logger:       logger,
	}
}

func (s *CategoryService) Create(ctx context.Context, req *dto.CategoryRequest) (*models.Category, error) {
	userID, err := currentUser(ctx, s.sessions)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, apierrors.NewValidationFailure(ErrNilRequest.Error())
	}

	category := models.NewCategory(req.Name, req.Description)
	if err := s.validator.ValidateCategory(category); err != nil {
		return nil, s.recorder.rejected(ctx, "category", "create", userID, err)
	}

	if err := s.ensureNameFree(category.Name, uuid.Nil); err != nil {
		return nil, s.recorder.rejected(ctx, "category", "create", userID, err)
	}

	if err := s.categoryRepo.Create(category); err != nil {
		return nil, s.recorder.rejected(ctx, "category", "create", userID, s.mapWriteError(err, category.ID))
	}

	s.reports.InvalidateAll(ctx)
	s.recorder.written(ctx, "category", "create", category.ID, userID)

	return category, nil
}

// Update renames a category or changes its description
func (s *CategoryService) Update(ctx context.Context, id uuid.UUID, req *dto.CategoryRequest) (*models.Category, error) {
	userID, err := currentUser(ctx, s.sessions)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, apierrors.NewValidationFailure(ErrNilRequest.Error())
	}

	category, err := s.find(id)
	if err != nil {
		return nil, err
	}

	previous := category.NormalizedName
	category.Rename(req.Name)
	category.Description = req.Description

	if err := s.validator.ValidateCategory(category); err != nil {
		return nil, s.recorder.rejected(ctx, "category", "update", userID, err)
	}

	if category.Active && category.NormalizedName != previous {
		if err := s.ensureNameFree(category.Name, category.ID); err != nil {
			return nil, s.recorder.rejected(ctx, "category", "update", userID, err)
		}
	}

	if err := s.categoryRepo.Update(category); err != nil {
		return nil, s.recorder.rejected(ctx, "category", "update", userID, s.mapWriteError(err, id))
	}

	s.reports.InvalidateAll(ctx)
	s.recorder.written(ctx, "category", "update", category.ID, userID)

	return category, nil
}

// Delete removes a category. Storage refuses while transactions or budgets reference it.
func (s *CategoryService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.change(ctx, id, "delete", func(*models.Category) error {
		return s.categoryRepo.Delete(id)
	})
}

func (s *CategoryService) Deactivate(ctx context.Context, id uuid.UUID) error {
	return s.change(ctx, id, "deactivate", func(*models.Category) error {
		return s.categoryRepo.Deactivate(id)
	})
}

// Activate restores a category unless another active one took its name meanwhile
func (s *CategoryService) Activate(ctx context.Context, id uuid.UUID) error {
	return s.change(ctx, id, "activate", func(category *models.Category) error {
		if category.Active {
			return nil
		}
		if err := s.ensureNameFree(category.Name, category.ID); err != nil {
			return err
		}
		return s.categoryRepo.Activate(id)
	})
}

func (s *CategoryService) change(ctx context.Context, id uuid.UUID, operation string, apply func(*models.Category) error) error {
	userID, err := currentUser(ctx, s.sessions)
	if err != nil {
		return err
	}

	category, err := s.find(id)
	if err != nil {
		return err
	}

	if err := apply(category); err != nil {
		err = s.mapWriteError(err, id)
		s.logger.WarnContext(ctx, "category change failed", "error", err, "operation", operation, "category_id", id)
		return s.recorder.rejected(ctx, "category", operation, userID, err)
	}

	s.reports.InvalidateAll(ctx)
	s.recorder.written(ctx, "category", operation, id, userID)

	return nil
}

func (s *CategoryService) Get(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	if _, err := currentUser(ctx, s.sessions); err != nil {
		return nil, err
	}
	return s.find(id)
}

// GetByName finds an active category by name, ignoring case
func (s *CategoryService) GetByName(ctx context.Context, name string) (*models.Category, error) {
	if _, err := currentUser(ctx, s.sessions); err != nil {
		return nil, err
	}

	category, err := s.categoryRepo.GetByName(name)
	if err != nil {
		if errors.Is(err, repositories.ErrCategoryNotFound) {
			return nil, &apierrors.NotFoundFailure{Entity: "category", ID: name}
		}
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) List(ctx context.Context, includeInactive bool) ([]models.Category, error) {
	if _, err := currentUser(ctx, s.sessions); err != nil {
		return nil, err
	}
	return s.categoryRepo.ListAll(includeInactive)
}

func (s *CategoryService) find(id uuid.UUID) (*models.Category, error) {
	category, err := s.categoryRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrCategoryNotFound) {
			return nil, notFound("category", id)
		}
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) ensureNameFree(name string, excludeID uuid.UUID) error {
	taken, err := s.categoryRepo.ExistsActiveByName(name, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return conflict(apierrors.LedgerCategoryNameTaken, categoryNameTakenReason, "name")
	}
	return nil
}

func (s *CategoryService) mapWriteError(err error, id uuid.UUID) error {
	switch {
	case errors.Is(err, repositories.ErrCategoryNameExists):
		return conflict(apierrors.LedgerCategoryNameTaken, categoryNameTakenReason, "name")
	case errors.Is(err, repositories.ErrCategoryNotFound):
		return notFound("category", id)
	default:
		return err
	}
}
