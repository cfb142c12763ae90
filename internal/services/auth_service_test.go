package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"finance-ledger/internal/dto"
	apierrors "finance-ledger/internal/errors"
	"finance-ledger/internal/models"
	"finance-ledger/internal/repositories"
	"finance-ledger/internal/repositories/repository_mocks"
	"finance-ledger/internal/services/service_mocks"
	"finance-ledger/internal/validation"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
)

type AuthServiceTestSuite struct {
	suite.Suite
	ctrl            *gomock.Controller
	userRepo        *repository_mocks.MockUserRepositoryInterface
	passwordService *service_mocks.MockPasswordServiceInterface
	tokenService    *service_mocks.MockTokenServiceInterface
	metrics         *PrometheusMetrics
	authService     AuthServiceInterface
	now             time.Time
	ctx             context.Context
}

func (s *AuthServiceTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.userRepo = repository_mocks.NewMockUserRepositoryInterface(s.ctrl)
	s.passwordService = service_mocks.NewMockPasswordServiceInterface(s.ctrl)
	s.tokenService = service_mocks.NewMockTokenServiceInterface(s.ctrl)
	s.metrics = newTestMetrics()
	s.now = time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	s.ctx = context.Background()
	logger := quietLogger()

	s.authService = NewAuthService(
		s.userRepo,
		s.passwordService,
		s.tokenService,
		validation.NewValidator(validation.DefaultRules()),
		NewLedgerEventLogger(logger),
		s.metrics,
		logger,
		func() time.Time { return s.now },
	)
}

func (s *AuthServiceTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestAuthServiceSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}

func (s *AuthServiceTestSuite) authEvents(eventType string) float64 {
	return testutil.ToFloat64(s.metrics.authenticationEventsTotal.WithLabelValues(eventType))
}

func (s *AuthServiceTestSuite) existingUser(name string) *models.User {
	user := models.NewUser(name, "hashed")
	user.ID = uuid.New()
	return user
}

func (s *AuthServiceTestSuite) TestRegister_Success() {
	name := gofakeit.Username()
	req := &dto.RegisterRequest{Name: name, Secret: "s3cret"}

	s.userRepo.EXPECT().ExistsByName(name).Return(false, nil).Times(1)
	s.passwordService.EXPECT().HashPassword("s3cret").Return("hashed_secret", nil).Times(1)
	s.userRepo.EXPECT().Create(gomock.Any()).Return(nil).Times(1)

	user, err := s.authService.Register(s.ctx, req)

	s.Require().NoError(err)
	s.Equal(name, user.Name)
	s.Equal("hashed_secret", user.SecretHash)
	s.True(user.Active)
	s.True(user.IsNew())
	s.Equal(1.0, s.authEvents("register_success"))
}

func (s *AuthServiceTestSuite) TestRegister_NameTaken() {
	s.userRepo.EXPECT().ExistsByName("alice").Return(true, nil).Times(1)

	user, err := s.authService.Register(s.ctx, &dto.RegisterRequest{Name: "alice", Secret: "s3cret"})

	s.Nil(user)
	var vf *apierrors.ValidationFailure
	s.Require().True(errors.As(err, &vf))
	s.Equal(apierrors.AuthUserAlreadyExists, vf.Code)
	s.Equal([]string{"name"}, vf.Fields)
	s.Equal(1.0, s.authEvents("register_failure"))
}

func (s *AuthServiceTestSuite) TestRegister_StorageDuplicateMapsToConflict() {
	s.userRepo.EXPECT().ExistsByName("alice").Return(false, nil).Times(1)
	s.passwordService.EXPECT().HashPassword("s3cret").Return("hashed", nil).Times(1)
	s.userRepo.EXPECT().Create(gomock.Any()).Return(repositories.ErrUserAlreadyExists).Times(1)

	_, err := s.authService.Register(s.ctx, &dto.RegisterRequest{Name: "alice", Secret: "s3cret"})

	s.Equal(apierrors.AuthUserAlreadyExists, apierrors.CodeFor(err))
}

func (s *AuthServiceTestSuite) TestRegister_InvalidCredentials() {
	testCases := []struct {
		name   string
		req    dto.RegisterRequest
		fields []string
	}{
		{"short name", dto.RegisterRequest{Name: "al", Secret: "s3cret"}, []string{"name"}},
		{"name with space", dto.RegisterRequest{Name: "al ice", Secret: "s3cret"}, []string{"name"}},
		{"short secret", dto.RegisterRequest{Name: "alice", Secret: "abc"}, []string{"secret"}},
		{"blank secret", dto.RegisterRequest{Name: "alice", Secret: ""}, []string{"secret"}},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			req := tc.req
			_, err := s.authService.Register(s.ctx, &req)

			var vf *apierrors.ValidationFailure
			s.Require().True(errors.As(err, &vf))
			s.Equal(tc.fields, vf.Fields)
		})
	}
}

func (s *AuthServiceTestSuite) TestLogin_Success() {
	user := s.existingUser("alice")
	expiresAt := s.now.Add(time.Hour)

	s.userRepo.EXPECT().GetByName("alice").Return(user, nil).Times(1)
	s.passwordService.EXPECT().ComparePassword("s3cret", "hashed").Return(true).Times(1)
	s.userRepo.EXPECT().UpdateLastLogin(user.ID, s.now).Return(nil).Times(1)
	s.tokenService.EXPECT().GenerateAccessToken(user).Return("signed.jwt.token", expiresAt, nil).Times(1)

	resp, err := s.authService.Login(s.ctx, &dto.LoginRequest{Name: " alice ", Secret: "s3cret"})

	s.Require().NoError(err)
	s.Equal("signed.jwt.token", resp.AccessToken)
	s.Equal("Bearer", resp.TokenType)
	s.Equal(expiresAt, resp.ExpiresAt)
	s.Equal(user.ID.String(), resp.UserID)
	s.True(resp.IsNewUser)
	s.Equal(1.0, s.authEvents("login_success"))
}

func (s *AuthServiceTestSuite) TestLogin_ReturningUserIsNotNew() {
	user := s.existingUser("alice")
	lastLogin := s.now.AddDate(0, 0, -3)
	user.LastLoginAt = &lastLogin

	s.userRepo.EXPECT().GetByName("alice").Return(user, nil).Times(1)
	s.passwordService.EXPECT().ComparePassword("s3cret", "hashed").Return(true).Times(1)
	s.userRepo.EXPECT().UpdateLastLogin(user.ID, s.now).Return(errors.New("write failed")).Times(1)
	s.tokenService.EXPECT().GenerateAccessToken(user).Return("token", s.now, nil).Times(1)

	resp, err := s.authService.Login(s.ctx, &dto.LoginRequest{Name: "alice", Secret: "s3cret"})

	s.Require().NoError(err)
	s.False(resp.IsNewUser)
}

func (s *AuthServiceTestSuite) TestLogin_FailuresLookAlike() {
	inactive := s.existingUser("bob")
	inactive.Active = false

	s.userRepo.EXPECT().GetByName("ghost").Return(nil, repositories.ErrUserNotFound).Times(1)
	s.userRepo.EXPECT().GetByName("bob").Return(inactive, nil).Times(1)
	s.userRepo.EXPECT().GetByName("alice").Return(s.existingUser("alice"), nil).Times(1)
	s.passwordService.EXPECT().ComparePassword("wrong", "hashed").Return(false).Times(1)

	for _, req := range []*dto.LoginRequest{
		{Name: "ghost", Secret: "s3cret"},
		{Name: "bob", Secret: "s3cret"},
		{Name: "alice", Secret: "wrong"},
	} {
		resp, err := s.authService.Login(s.ctx, req)
		s.Nil(resp)
		s.Equal(ErrInvalidCredentials, err, req.Name)
	}

	s.Equal(3.0, s.authEvents("login_failure"))
}

func (s *AuthServiceTestSuite) TestLogin_StorageError() {
	s.userRepo.EXPECT().GetByName("alice").Return(nil, errors.New("db down")).Times(1)

	_, err := s.authService.Login(s.ctx, &dto.LoginRequest{Name: "alice", Secret: "s3cret"})

	s.Error(err)
	s.NotEqual(ErrInvalidCredentials, err)
}
