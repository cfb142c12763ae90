package handlers

import (
	"net/http"

	"finance-ledger/internal/dto"
	"finance-ledger/internal/models"
	"finance-ledger/internal/services"

	"github.com/labstack/echo/v4"
)

// UserHandler serves the authenticated user's own record
type UserHandler struct {
	userService services.UserServiceInterface
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService services.UserServiceInterface) *UserHandler {
	return &UserHandler{userService: userService}
}

// GetProfile returns the caller's profile
// @Summary Current user
// @Tags Users
// @Security BearerAuth
// @Produce json
// @Success 200 {object} SuccessResponse{data=dto.UserProfileResponse}
// @Failure 401 {object} errors.ErrorResponse "AUTH_005 - Authentication required"
// @Router /me [get]
func (h *UserHandler) GetProfile(c echo.Context) error {
	user, err := h.userService.Get(c.Request().Context())
	if err != nil {
		return SendFailure(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Data: toUserProfile(user)})
}

// DeactivateProfile disables the caller's account; later logins are refused
// @Summary Deactivate current user
// @Tags Users
// @Security BearerAuth
// @Success 200 {object} SuccessResponse
// @Router /me/deactivate [post]
func (h *UserHandler) DeactivateProfile(c echo.Context) error {
	if err := h.userService.Deactivate(c.Request().Context()); err != nil {
		return SendFailure(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: "User deactivated"})
}

// ListUsers returns the registered users without their secrets
// @Summary List users
// @Tags Users
// @Security BearerAuth
// @Produce json
// @Param include_inactive query bool false "Include deactivated users"
// @Success 200 {object} SuccessResponse{data=[]dto.UserProfileResponse}
// @Router /users [get]
func (h *UserHandler) ListUsers(c echo.Context) error {
	users, err := h.userService.List(c.Request().Context(), c.QueryParam("include_inactive") == "true")
	if err != nil {
		return SendFailure(c, err)
	}

	profiles := make([]dto.UserProfileResponse, 0, len(users))
	for i := range users {
		profiles = append(profiles, toUserProfile(&users[i]))
	}

	return c.JSON(http.StatusOK, SuccessResponse{Data: profiles, Meta: map[string]int{"count": len(profiles)}})
}

func toUserProfile(user *models.User) dto.UserProfileResponse {
	return dto.UserProfileResponse{
		ID:          user.ID.String(),
		Name:        user.Name,
		Active:      user.Active,
		LastLoginAt: user.LastLoginAt,
		CreatedAt:   user.CreatedAt,
		UpdatedAt:   user.UpdatedAt,
	}
}
