package services

import (
	"crypto/rsa"
	"errors"
	"testing"
	"time"

	"finance-ledger/internal/config"
	"finance-ledger/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

// TokenServiceTestSuite defines the test suite for TokenService
type TokenServiceTestSuite struct {
	suite.Suite
	privateKey     *rsa.PrivateKey
	publicKey      *rsa.PublicKey
	service        TokenServiceInterface
	issuer         string
	accessDuration time.Duration
	user           *models.User
}

func (s *TokenServiceTestSuite) SetupTest() {
	var err error
	s.privateKey, s.publicKey, err = config.GenerateRSAKeyPair()
	s.Require().NoError(err)

	s.issuer = "finance-ledger-test"
	s.accessDuration = time.Hour
	s.service = s.newService(s.issuer, s.accessDuration)

	s.user = models.NewUser("alice", "$2a$04$hash")
	s.user.ID = uuid.New()
}

func (s *TokenServiceTestSuite) newService(issuer string, duration time.Duration) TokenServiceInterface {
	return NewTokenService(&config.JWTConfig{
		PrivateKey:          s.privateKey,
		PublicKey:           s.publicKey,
		Issuer:              issuer,
		AccessTokenDuration: duration,
	})
}

func TestTokenServiceSuite(t *testing.T) {
	suite.Run(t, new(TokenServiceTestSuite))
}

func (s *TokenServiceTestSuite) TestGenerateAndValidateAccessToken() {
	token, expiresAt, err := s.service.GenerateAccessToken(s.user)
	s.Require().NoError(err)
	s.NotEmpty(token)
	s.WithinDuration(time.Now().Add(s.accessDuration), expiresAt, 5*time.Second)

	claims, err := s.service.ValidateAccessToken(token)
	s.Require().NoError(err)
	s.Equal(s.user.ID.String(), claims.UserID)
	s.Equal(s.user.ID.String(), claims.Subject)
	s.Equal("alice", claims.Name)
	s.Equal(TokenTypeAccess, claims.TokenType)
	s.Equal(s.issuer, claims.Issuer)
}

func (s *TokenServiceTestSuite) TestGenerateAccessToken_NilUser() {
	_, _, err := s.service.GenerateAccessToken(nil)
	s.Error(err)
}

func (s *TokenServiceTestSuite) TestValidateAccessToken_Expired() {
	expired := s.newService(s.issuer, -time.Minute)
	token, _, err := expired.GenerateAccessToken(s.user)
	s.Require().NoError(err)

	_, err = s.service.ValidateAccessToken(token)
	s.True(errors.Is(err, ErrExpiredToken))
}

func (s *TokenServiceTestSuite) TestValidateAccessToken_WrongIssuer() {
	other := s.newService("someone-else", s.accessDuration)
	token, _, err := other.GenerateAccessToken(s.user)
	s.Require().NoError(err)

	_, err = s.service.ValidateAccessToken(token)
	s.True(errors.Is(err, ErrInvalidIssuer))
}

func (s *TokenServiceTestSuite) TestValidateAccessToken_ForeignKey() {
	foreignKey, _, err := config.GenerateRSAKeyPair()
	s.Require().NoError(err)

	claims := models.CustomClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		UserID:    s.user.ID.String(),
		TokenType: TokenTypeAccess,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(foreignKey)
	s.Require().NoError(err)

	_, err = s.service.ValidateAccessToken(token)
	s.True(errors.Is(err, ErrInvalidToken))
}

func (s *TokenServiceTestSuite) TestValidateAccessToken_RejectsOtherTokenTypes() {
	claims := models.CustomClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		UserID:    s.user.ID.String(),
		TokenType: "refresh",
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(s.privateKey)
	s.Require().NoError(err)

	_, err = s.service.ValidateAccessToken(token)
	s.True(errors.Is(err, ErrInvalidTokenType))
}

func (s *TokenServiceTestSuite) TestValidateAccessToken_Garbage() {
	_, err := s.service.ValidateAccessToken("")
	s.True(errors.Is(err, ErrEmptyToken))

	_, err = s.service.ValidateAccessToken("not.a.token")
	s.True(errors.Is(err, ErrInvalidToken))
}

func (s *TokenServiceTestSuite) TestExtractTokenFromHeader() {
	testCases := []struct {
		name   string
		header string
		token  string
		err    error
	}{
		{"bearer", "Bearer abc.def.ghi", "abc.def.ghi", nil},
		{"lower case scheme", "bearer abc", "abc", nil},
		{"empty", "", "", ErrInvalidAuthHeader},
		{"basic", "Basic dXNlcjpwYXNz", "", ErrInvalidAuthHeader},
		{"missing token", "Bearer   ", "", ErrInvalidAuthHeader},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			token, err := s.service.ExtractTokenFromHeader(tc.header)
			if tc.err != nil {
				s.True(errors.Is(err, tc.err))
				return
			}
			s.NoError(err)
			s.Equal(tc.token, token)
		})
	}
}

func (s *TokenServiceTestSuite) TestGetTokenExpiry() {
	token, expiresAt, err := s.service.GenerateAccessToken(s.user)
	s.Require().NoError(err)

	expiry, err := s.service.GetTokenExpiry(token)
	s.NoError(err)
	s.Equal(expiresAt.Unix(), expiry.Unix())

	_, err = s.service.GetTokenExpiry("")
	s.True(errors.Is(err, ErrEmptyToken))
}
