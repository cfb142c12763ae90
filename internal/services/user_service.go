package services

import (
	"context"
	"errors"
	"log/slog"

	"finance-ledger/internal/models"
	"finance-ledger/internal/repositories"
	"finance-ledger/internal/session"

	"github.com/google/uuid"
)

// UserService exposes the current user's own record
type UserService struct {
	userRepo repositories.UserRepositoryInterface
	sessions session.Provider
	recorder writeRecorder
	logger   *slog.Logger
}

func NewUserService(
	userRepo repositories.UserRepositoryInterface,
	sessions session.Provider,
	events LedgerEventLoggerInterface,
	metrics MetricsRecorderInterface,
	logger *slog.Logger,
) UserServiceInterface {
	return &UserService{
		userRepo: userRepo,
		sessions: sessions,
		recorder: writeRecorder{events: events, metrics: metrics},
		logger:   logger,
	}
}

func (s *UserService) Get(ctx context.Context) (*models.User, error) {
	userID, err := currentUser(ctx, s.sessions)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, notFound("user", userID)
		}
		return nil, err
	}
	return user, nil
}

// Deactivate disables the current user; later logins are refused
func (s *UserService) Deactivate(ctx context.Context) error {
	return s.setActive(ctx, "deactivate", s.userRepo.Deactivate)
}

func (s *UserService) Activate(ctx context.Context) error {
	return s.setActive(ctx, "activate", s.userRepo.Activate)
}

func (s *UserService) setActive(ctx context.Context, operation string, apply func(id uuid.UUID) error) error {
	userID, err := currentUser(ctx, s.sessions)
	if err != nil {
		return err
	}

	if err := apply(userID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			err = notFound("user", userID)
		}
		return s.recorder.rejected(ctx, "user", operation, userID, err)
	}

	s.recorder.written(ctx, "user", operation, userID, userID)
	return nil
}

// List returns all users ordered by name
func (s *UserService) List(ctx context.Context, includeInactive bool) ([]models.User, error) {
	if _, err := currentUser(ctx, s.sessions); err != nil {
		return nil, err
	}
	return s.userRepo.ListAll(includeInactive)
}
