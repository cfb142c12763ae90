package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"finance-ledger/internal/dto"
	apierrors "finance-ledger/internal/errors"
	"finance-ledger/internal/models"
	"finance-ledger/internal/repositories"
	"finance-ledger/internal/validation"
)

var ErrInvalidCredentials = errors.New("invalid name or secret")

const userExistsReason = "a user with this name already exists"

// AuthService handles registration and login
type AuthService struct {
	userRepo        repositories.UserRepositoryInterface
	passwordService PasswordServiceInterface
	tokenService    TokenServiceInterface
	validator       *validation.Validator
	events          LedgerEventLoggerInterface
	metrics         MetricsRecorderInterface
	logger          *slog.Logger
	now             Clock
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo repositories.UserRepositoryInterface,
	passwordService PasswordServiceInterface,
	tokenService TokenServiceInterface,
	validator *validation.Validator,
	events LedgerEventLoggerInterface,
	metrics MetricsRecorderInterface,
	logger *slog.Logger,
	clock Clock,
) AuthServiceInterface {
	return &AuthService{
		userRepo:        userRepo,
		passwordService: passwordService,
		tokenService:    tokenService,
		validator:       validator,
		events:          events,
		metrics:         metrics,
		logger:          logger,
		now:             clock.orDefault(),
	}
}

// Register creates a new user with a hashed secret
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*models.User, error) {
	if req == nil {
		return nil, apierrors.NewValidationFailure(ErrNilRequest.Error())
	}

	name := strings.TrimSpace(req.Name)
	if err := s.validator.ValidateCredentials(name, req.Secret); err != nil {
		s.audit(ctx, "register", name, false)
		return nil, err
	}

	exists, err := s.userRepo.ExistsByName(name)
	if err != nil {
		return nil, err
	}
	if exists {
		s.audit(ctx, "register", name, false)
		return nil, conflict(apierrors.AuthUserAlreadyExists, userExistsReason, "name")
	}

	hash, err := s.passwordService.HashPassword(req.Secret)
	if err != nil {
		return nil, fmt.Errorf("failed to hash secret: %w", err)
	}

	user := models.NewUser(name, hash)
	if err := s.validator.ValidateUser(user); err != nil {
		return nil, err
	}

	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, repositories.ErrUserAlreadyExists) {
			s.audit(ctx, "register", name, false)
			return nil, conflict(apierrors.AuthUserAlreadyExists, userExistsReason, "name")
		}
		return nil, err
	}

	s.audit(ctx, "register", name, true)

	return user, nil
}

// Login checks the credentials of an active user and issues an access token.
// Every rejection returns the same error so callers cannot probe for names.
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	if req == nil {
		return nil, ErrInvalidCredentials
	}

	name := strings.TrimSpace(req.Name)
	user, err := s.userRepo.GetByName(name)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			s.audit(ctx, "login", name, false)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !user.Active || !s.passwordService.ComparePassword(req.Secret, user.SecretHash) {
		s.audit(ctx, "login", name, false)
		return nil, ErrInvalidCredentials
	}

	isNew := user.IsNew()
	if err := s.userRepo.UpdateLastLogin(user.ID, s.now()); err != nil {
		s.logger.WarnContext(ctx, "failed to record last login",
			"error", err,
			"user_id", user.ID)
	}

	accessToken, expiresAt, err := s.tokenService.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	s.audit(ctx, "login", name, true)

	return &dto.TokenResponse{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
		UserID:      user.ID.String(),
		IsNewUser:   isNew,
	}, nil
}

func (s *AuthService) audit(ctx context.Context, event, name string, success bool) {
	s.events.LogAuthenticationEvent(ctx, event, name, success)

	outcome := "success"
	if !success {
		outcome = "failure"
	}
	s.metrics.IncrementCounter("authentication_event", map[string]string{"event_type": event + "_" + outcome})
}
