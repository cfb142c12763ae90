package handlers

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"finance-ledger/internal/dto"
	"finance-ledger/internal/errors"
	"finance-ledger/internal/models"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ErrUnauthorized is returned when user context is invalid
var ErrUnauthorized = fmt.Errorf("unauthorized")

// Helper function to extract user ID from context
// Returns ErrUnauthorized if user ID is missing or invalid
func getUserIDFromContext(c echo.Context) (uuid.UUID, error) {
	userIDValue := c.Get("user_id")
	if userIDValue == nil {
		return uuid.UUID{}, ErrUnauthorized
	}

	userID, ok := userIDValue.(uuid.UUID)
	if !ok {
		return uuid.UUID{}, ErrUnauthorized
	}

	return userID, nil
}

func getIntParam(c echo.Context, name string, defaultValue int) int {
	param := c.QueryParam(name)
	if param == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(strings.TrimSpace(param))
	if err != nil {
		return defaultValue
	}

	return value
}

// parseIDParam reads a UUID path parameter, writing the error response itself when it is malformed
func parseIDParam(c echo.Context, name string) (uuid.UUID, bool, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, false, SendError(c, errors.ValidationInvalidFormat,
			errors.WithFields(name),
			errors.WithDetails(fmt.Sprintf("Invalid %s", name)))
	}
	return id, true, nil
}

// parseMonthYear reads the month and year query parameters; missing values fall back to defaults
func parseMonthYear(c echo.Context, defaultMonth, defaultYear int) (int, int) {
	return getIntParam(c, "month", defaultMonth), getIntParam(c, "year", defaultYear)
}

// parseDateQuery reads an optional date query parameter
func parseDateQuery(c echo.Context, name string) (*time.Time, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return nil, nil
	}

	date, err := dto.ParseDate(raw)
	if err != nil {
		return nil, err
	}
	return &date, nil
}

// currentPeriod fills missing month and year query parameters from today's date
func currentPeriod(c echo.Context) (int, int) {
	now := models.CurrentPeriod(time.Now())
	return parseMonthYear(c, now.Month, now.Year)
}
