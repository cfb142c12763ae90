package middleware

import (
	stderrors "errors"

	"finance-ledger/internal/errors"
	"finance-ledger/internal/handlers"
	"finance-ledger/internal/services"
	"finance-ledger/internal/session"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	// UserIDContextKey holds the authenticated user's uuid.UUID
	UserIDContextKey = "user_id"
	// UserNameContextKey holds the authenticated user's name
	UserNameContextKey = "user_name"
	// TokenIDContextKey holds the access token's jti
	TokenIDContextKey = "token_jti"
)

// RequireAuth creates a middleware that requires a valid JWT access token.
// The user id is stored on the echo context and on the request context,
// where the services resolve the current user.
func RequireAuth(tokenService services.TokenServiceInterface) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return handlers.SendError(c, errors.AuthMissingToken)
			}

			token, err := tokenService.ExtractTokenFromHeader(authHeader)
			if err != nil {
				return handlers.SendError(c, errors.AuthInvalidTokenFormat)
			}

			claims, err := tokenService.ValidateAccessToken(token)
			if err != nil {
				if stderrors.Is(err, services.ErrExpiredToken) {
					return handlers.SendError(c, errors.AuthExpiredToken)
				}
				return handlers.SendError(c, errors.AuthInvalidTokenFormat)
			}

			userID, err := uuid.Parse(claims.UserID)
			if err != nil {
				return handlers.SendError(c, errors.AuthInvalidTokenFormat, errors.WithDetails("Invalid user ID in token"))
			}

			c.Set(UserIDContextKey, userID)
			c.Set(UserNameContextKey, claims.Name)
			c.Set(TokenIDContextKey, claims.ID)

			req := c.Request()
			c.SetRequest(req.WithContext(session.WithUserID(req.Context(), userID)))

			return next(c)
		}
	}
}
