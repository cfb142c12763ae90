package handlers

import (
	"net/http"
	"time"

	"finance-ledger/internal/dto"
	"finance-ledger/internal/errors"
	"finance-ledger/internal/models"
	"finance-ledger/internal/services"

	"github.com/labstack/echo/v4"
)

// BudgetHandler handles the current user's monthly budgets
type BudgetHandler struct {
	budgetService services.BudgetServiceInterface
	reportService services.ReportServiceInterface
}

// NewBudgetHandler creates a new budget handler
func NewBudgetHandler(budgetService services.BudgetServiceInterface, reportService services.ReportServiceInterface) *BudgetHandler {
	return &BudgetHandler{
		budgetService: budgetService,
		reportService: reportService,
	}
}

// CreateBudget sets a spending limit for one category and month
// @Summary Create budget
// @Tags Budgets
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.BudgetRequest true "Budget; month and year default to the current period"
// @Success 201 {object} SuccessResponse{data=models.Budget}
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_001/006 - Invalid budget"
// @Failure 409 {object} errors.ErrorResponse "LEDGER_006 - Budget already exists"
// @Router /budgets [post]
func (h *BudgetHandler) CreateBudget(c echo.Context) error {
	var req dto.BudgetRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}

	if err := c.Validate(req); err != nil {
		return err
	}

	budget, err := h.budgetService.Create(c.Request().Context(), &req)
	if err != nil {
		return SendFailure(c, err)
	}

	return c.JSON(http.StatusCreated, SuccessResponse{Data: budget, Message: "Budget created"})
}

// ListBudgets returns the budgets of one month, or of a whole year when only year is given
// @Summary List budgets
// @Tags Budgets
// @Security BearerAuth
// @Produce json
// @Param month query int false "Month (1-12)"
// @Param year query int false "Year"
// @Success 200 {object} SuccessResponse{data=[]models.Budget}
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_006 - Invalid period"
// @Router /budgets [get]
func (h *BudgetHandler) ListBudgets(c echo.Context) error {
	ctx := c.Request().Context()

	var (
		budgets []models.Budget
		err     error
	)
	if c.QueryParam("month") == "" && c.QueryParam("year") != "" {
		budgets, err = h.budgetService.ListByYear(ctx, getIntParam(c, "year", time.Now().Year()))
	} else {
		month, year := currentPeriod(c)
		budgets, err = h.budgetService.ListByPeriod(ctx, month, year)
	}
	if err != nil {
		return SendFailure(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Data: budgets, Meta: map[string]int{"count": len(budgets)}})
}

// GetBudget returns one of the caller's budgets
// @Summary Get budget
// @Tags Budgets
// @Security BearerAuth
// @Produce json
// @Param id path string true "Budget ID"
// @Success 200 {object} SuccessResponse{data=models.Budget}
// @Failure 404 {object} errors.ErrorResponse "LEDGER_003 - Budget not found"
// @Router /budgets/{id} [get]
func (h *BudgetHandler) GetBudget(c echo.Context) error {
	id, ok, err := parseIDParam(c, "id")
	if !ok {
		return err
	}

	budget, err := h.budgetService.Get(c.Request().Context(), id)
	if err != nil {
		return SendFailure(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Data: budget})
}

// GetBudgetStatus reports spending against a budget's limit
// @Summary Budget status
// @Tags Budgets
// @Security BearerAuth
// @Produce json
// @Param id path string true "Budget ID"
// @Success 200 {object} SuccessResponse{data=models.BudgetReportItem}
// @Failure 404 {object} errors.ErrorResponse "LEDGER_003 - Budget not found"
// @Router /budgets/{id}/status [get]
func (h *BudgetHandler) GetBudgetStatus(c echo.Context) error {
	id, ok, err := parseIDParam(c, "id")
	if !ok {
		return err
	}

	item, err := h.reportService.BudgetStatus(c.Request().Context(), id)
	if err != nil {
		return SendFailure(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Data: item})
}

// UpdateBudget replaces a budget's limit, period and description
// @Summary Update budget
// @Tags Budgets
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Budget ID"
// @Param request body dto.BudgetRequest true "Budget"
// @Success 200 {object} SuccessResponse{data=models.Budget}
// @Router /budgets/{id} [put]
func (h *BudgetHandler) UpdateBudget(c echo.Context) error {
	id, ok, err := parseIDParam(c, "id")
	if !ok {
		return err
	}

	var req dto.BudgetRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}

	if err := c.Validate(req); err != nil {
		return err
	}

	budget, err := h.budgetService.Update(c.Request().Context(), id, &req)
	if err != nil {
		return SendFailure(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Data: budget, Message: "Budget updated"})
}

// DeleteBudget
// @Summary Delete budget
// @Tags Budgets
// @Security BearerAuth
// @Param id path string true "Budget ID"
// @Success 204
// @Router /budgets/{id} [delete]
func (h *BudgetHandler) DeleteBudget(c echo.Context) error {
	id, ok, err := parseIDParam(c, "id")
	if !ok {
		return err
	}

	if err := h.budgetService.Delete(c.Request().Context(), id); err != nil {
		return SendFailure(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// DeactivateBudget
// @Summary Deactivate budget
// @Tags Budgets
// @Security BearerAuth
// @Param id path string true "Budget ID"
// @Success 200 {object} SuccessResponse
// @Router /budgets/{id}/deactivate [post]
func (h *BudgetHandler) DeactivateBudget(c echo.Context) error {
	id, ok, err := parseIDParam(c, "id")
	if !ok {
		return err
	}

	if err := h.budgetService.Deactivate(c.Request().Context(), id); err != nil {
		return SendFailure(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: "Budget deactivated"})
}

// ActivateBudget
// @Summary Activate budget
// @Tags Budgets
// @Security BearerAuth
// @Param id path string true "Budget ID"
// @Success 200 {object} SuccessResponse
// @Router /budgets/{id}/activate [post]
func (h *BudgetHandler) ActivateBudget(c echo.Context) error {
	id, ok, err := parseIDParam(c, "id")
	if !ok {
		return err
	}

	if err := h.budgetService.Activate(c.Request().Context(), id); err != nil {
		return SendFailure(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: "Budget activated"})
}
