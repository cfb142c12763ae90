package middleware

import (
	"finance-ledger/internal/errors"
	"finance-ledger/internal/handlers"
	"finance-ledger/internal/services"

	"github.com/labstack/echo/v4"
)

// RequireActiveUser rejects requests whose token belongs to a deactivated user.
// It must run after RequireAuth.
func RequireActiveUser(userService services.UserServiceInterface) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, err := userService.Get(c.Request().Context())
			if err != nil {
				return handlers.SendFailure(c, err)
			}

			if !user.Active {
				return handlers.SendError(c, errors.AuthUserInactive)
			}

			return next(c)
		}
	}
}
