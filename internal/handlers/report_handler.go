package handlers

import (
	"net/http"
	"time"

	"finance-ledger/internal/errors"
	"finance-ledger/internal/services"

	"github.com/labstack/echo/v4"
)

// ReportHandler exposes the read-only views of the caller's ledger
type ReportHandler struct {
	reportService services.ReportServiceInterface
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService services.ReportServiceInterface) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// GetOverview returns all-time income, expense and balance
// @Summary Overall summary
// @Tags Reports
// @Security BearerAuth
// @Produce json
// @Success 200 {object} SuccessResponse{data=models.OverallSummary}
// @Router /reports/overview [get]
func (h *ReportHandler) GetOverview(c echo.Context) error {
	summary, err := h.reportService.Overview(c.Request().Context())
	if err != nil {
		return SendFailure(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Data: summary})
}

// GetPeriodSummary returns totals between two dates, both inclusive
// @Summary Period summary
// @Tags Reports
// @Security BearerAuth
// @Produce json
// @Param start_date query string true "Start date (YYYY-MM-DD)"
// @Param end_date query string true "End date (YYYY-MM-DD)"
// @Success 200 {object} SuccessResponse{data=models.PeriodSummary}
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_005 - Invalid date range"
// @Router /reports/period [get]
func (h *ReportHandler) GetPeriodSummary(c echo.Context) error {
	start, err := parseDateQuery(c, "start_date")
	if err != nil {
		return SendError(c, errors.ValidationInvalidDate, errors.WithFields("start_date"), errors.WithDetails(err.Error()))
	}
	end, err := parseDateQuery(c, "end_date")
	if err != nil {
		return SendError(c, errors.ValidationInvalidDate, errors.WithFields("end_date"), errors.WithDetails(err.Error()))
	}

	var startDate, endDate time.Time
	if start != nil {
		startDate = *start
	}
	if end != nil {
		endDate = *end
	}

	summary, err := h.reportService.PeriodSummary(c.Request().Context(), startDate, endDate)
	if err != nil {
		return SendFailure(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Data: summary})
}

// GetMonthlySummary returns totals for one calendar month
// @Summary Monthly summary
// @Tags Reports
// @Security BearerAuth
// @Produce json
// @Param month query int false "Month (1-12), defaults to the current month"
// @Param year query int false "Year, defaults to the current year"
// @Success 200 {object} SuccessResponse{data=models.PeriodSummary}
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_006 - Invalid period"
// @Router /reports/monthly [get]
func (h *ReportHandler) GetMonthlySummary(c echo.Context) error {
	month, year := currentPeriod(c)

	summary, err := h.reportService.MonthlySummary(c.Request().Context(), month, year)
	if err != nil {
		return SendFailure(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Data: summary})
}

// GetYearlySummary returns yearly totals with a twelve-month breakdown
// @Summary Yearly summary
// @Tags Reports
// @Security BearerAuth
// @Produce json
// @Param year query int false "Year, defaults to the current year"
// @Success 200 {object} SuccessResponse{data=models.YearlySummary}
// @Router /reports/yearly [get]
func (h *ReportHandler) GetYearlySummary(c echo.Context) error {
	_, year := currentPeriod(c)

	summary, err := h.reportService.YearlySummary(c.Request().Context(), year)
	if err != nil {
		return SendFailure(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Data: summary})
}

// GetRecentTransactions returns the newest active transactions
// @Summary Recent transactions
// @Tags Reports
// @Security BearerAuth
// @Produce json
// @Param n query int false "Number of transactions"
// @Success 200 {object} SuccessResponse{data=[]models.Transaction}
// @Router /reports/recent [get]
func (h *ReportHandler) GetRecentTransactions(c echo.Context) error {
	txs, err := h.reportService.RecentTransactions(c.Request().Context(), getIntParam(c, "n", 0))
	if err != nil {
		return SendFailure(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Data: txs, Meta: map[string]int{"count": len(txs)}})
}

// GetBudgetReport returns every budget of a month with its spending status
// @Summary Budget report
// @Tags Reports
// @Security BearerAuth
// @Produce json
// @Param month query int false "Month (1-12)"
// @Param year query int false "Year"
// @Success 200 {object} SuccessResponse{data=models.BudgetReport}
// @Router /reports/budgets [get]
func (h *ReportHandler) GetBudgetReport(c echo.Context) error {
	month, year := currentPeriod(c)

	report, err := h.reportService.BudgetReport(c.Request().Context(), month, year)
	if err != nil {
		return SendFailure(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Data: report})
}

// GetCategoryNetTotals returns income minus expense per active category
// @Summary Category net totals
// @Tags Reports
// @Security BearerAuth
// @Produce json
// @Success 200 {object} SuccessResponse{data=[]models.CategoryNetTotal}
// @Router /reports/categories [get]
func (h *ReportHandler) GetCategoryNetTotals(c echo.Context) error {
	totals, err := h.reportService.CategoryNetTotals(c.Request().Context())
	if err != nil {
		return SendFailure(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Data: totals})
}

// GetCategoryReport returns the caller's totals for one category
// @Summary Category report
// @Tags Reports
// @Security BearerAuth
// @Produce json
// @Param id path string true "Category ID"
// @Success 200 {object} SuccessResponse{data=models.CategoryReport}
// @Failure 404 {object} errors.ErrorResponse "LEDGER_002 - Category not found"
// @Router /reports/categories/{id} [get]
func (h *ReportHandler) GetCategoryReport(c echo.Context) error {
	id, ok, err := parseIDParam(c, "id")
	if !ok {
		return err
	}

	report, err := h.reportService.CategoryReport(c.Request().Context(), id)
	if err != nil {
		return SendFailure(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Data: report})
}

// GetDashboard returns the current month, year and recent activity in one response
// @Summary Dashboard
// @Tags Reports
// @Security BearerAuth
// @Produce json
// @Success 200 {object} SuccessResponse{data=models.Dashboard}
// @Router /reports/dashboard [get]
func (h *ReportHandler) GetDashboard(c echo.Context) error {
	dashboard, err := h.reportService.Dashboard(c.Request().Context())
	if err != nil {
		return SendFailure(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Data: dashboard})
}
