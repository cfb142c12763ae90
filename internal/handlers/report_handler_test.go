package handlers

import (
	"net/http"
	"testing"
	"time"

	"finance-ledger/internal/errors"
	"finance-ledger/internal/models"
	"finance-ledger/internal/services/service_mocks"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type ReportHandlerTestSuite struct {
	suite.Suite
	ctrl          *gomock.Controller
	echo          *echo.Echo
	reportService *service_mocks.MockReportServiceInterface
	handler       *ReportHandler
}

func TestReportHandlerSuite(t *testing.T) {
	suite.Run(t, new(ReportHandlerTestSuite))
}

func (s *ReportHandlerTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.echo = newTestEcho()
	s.reportService = service_mocks.NewMockReportServiceInterface(s.ctrl)
	s.handler = NewReportHandler(s.reportService)
}

func (s *ReportHandlerTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *ReportHandlerTestSuite) TestGetOverview() {
	summary := &models.OverallSummary{
		UserID: uuid.New(),
		Totals: models.Totals{
			Income:  decimal.NewFromInt(5000),
			Expense: decimal.NewFromInt(1200),
			Balance: decimal.NewFromInt(3800),
			Count:   3,
		},
	}
	s.reportService.EXPECT().Overview(gomock.Any()).Return(summary, nil).Times(1)

	c, rec := newContext(s.echo, http.MethodGet, "/api/v1/reports/overview", nil)

	s.NoError(s.handler.GetOverview(c))
	s.Equal(http.StatusOK, rec.Code)

	got := decodeData[models.OverallSummary](s.T(), rec)
	s.True(got.Balance.Equal(decimal.NewFromInt(3800)))
	s.Equal(3, got.Count)
}

func (s *ReportHandlerTestSuite) TestGetPeriodSummary() {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)

	s.reportService.EXPECT().
		PeriodSummary(gomock.Any(), start, end).
		Return(&models.PeriodSummary{StartDate: start, EndDate: end}, nil).
		Times(1)

	c, rec := newContext(s.echo, http.MethodGet, "/api/v1/reports/period?start_date=2025-01-01&end_date=2025-01-31", nil)

	s.NoError(s.handler.GetPeriodSummary(c))
	s.Equal(http.StatusOK, rec.Code)
}

func (s *ReportHandlerTestSuite) TestGetPeriodSummary_MissingDatesReachService() {
	missing := &errors.ValidationFailure{Fields: []string{"start_date", "end_date"}, Reason: "start and end dates are required", Code: errors.ValidationInvalidDate}
	s.reportService.EXPECT().PeriodSummary(gomock.Any(), time.Time{}, time.Time{}).Return(nil, missing).Times(1)

	c, rec := newContext(s.echo, http.MethodGet, "/api/v1/reports/period", nil)

	s.NoError(s.handler.GetPeriodSummary(c))
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal(string(errors.ValidationInvalidDate), decodeError(s.T(), rec).Code)
}

func (s *ReportHandlerTestSuite) TestGetPeriodSummary_MalformedDate() {
	c, rec := newContext(s.echo, http.MethodGet, "/api/v1/reports/period?start_date=2025-13-01&end_date=2025-01-31", nil)

	s.NoError(s.handler.GetPeriodSummary(c))
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal([]string{"start_date"}, decodeError(s.T(), rec).Fields)
}

func (s *ReportHandlerTestSuite) TestGetMonthlySummary() {
	s.reportService.EXPECT().MonthlySummary(gomock.Any(), 2, 2025).Return(&models.PeriodSummary{}, nil).Times(1)

	c, rec := newContext(s.echo, http.MethodGet, "/api/v1/reports/monthly?month=2&year=2025", nil)

	s.NoError(s.handler.GetMonthlySummary(c))
	s.Equal(http.StatusOK, rec.Code)
}

func (s *ReportHandlerTestSuite) TestGetMonthlySummary_DefaultsToCurrentMonth() {
	now := time.Now()
	s.reportService.EXPECT().MonthlySummary(gomock.Any(), int(now.Month()), now.Year()).Return(&models.PeriodSummary{}, nil).Times(1)

	c, rec := newContext(s.echo, http.MethodGet, "/api/v1/reports/monthly", nil)

	s.NoError(s.handler.GetMonthlySummary(c))
	s.Equal(http.StatusOK, rec.Code)
}

func (s *ReportHandlerTestSuite) TestGetYearlySummary() {
	months := make([]models.MonthlyBreakdown, 12)
	for i := range months {
		months[i].Month = i + 1
	}
	s.reportService.EXPECT().YearlySummary(gomock.Any(), 2024).Return(&models.YearlySummary{Year: 2024, Months: months}, nil).Times(1)

	c, rec := newContext(s.echo, http.MethodGet, "/api/v1/reports/yearly?year=2024", nil)

	s.NoError(s.handler.GetYearlySummary(c))
	s.Len(decodeData[models.YearlySummary](s.T(), rec).Months, 12)
}

func (s *ReportHandlerTestSuite) TestGetRecentTransactions() {
	s.Run("explicit count", func() {
		s.reportService.EXPECT().RecentTransactions(gomock.Any(), 3).Return([]models.Transaction{}, nil).Times(1)
		c, rec := newContext(s.echo, http.MethodGet, "/api/v1/reports/recent?n=3", nil)

		s.NoError(s.handler.GetRecentTransactions(c))
		s.Equal(http.StatusOK, rec.Code)
	})

	s.Run("default count", func() {
		s.reportService.EXPECT().RecentTransactions(gomock.Any(), 0).Return(nil, nil).Times(1)
		c, rec := newContext(s.echo, http.MethodGet, "/api/v1/reports/recent", nil)

		s.NoError(s.handler.GetRecentTransactions(c))
		s.Equal(http.StatusOK, rec.Code)
	})
}

func (s *ReportHandlerTestSuite) TestGetBudgetReport() {
	report := &models.BudgetReport{
		Period:     models.Period{Month: 7, Year: 2025},
		OverBudget: 1,
	}
	s.reportService.EXPECT().BudgetReport(gomock.Any(), 7, 2025).Return(report, nil).Times(1)

	c, rec := newContext(s.echo, http.MethodGet, "/api/v1/reports/budgets?month=7&year=2025", nil)

	s.NoError(s.handler.GetBudgetReport(c))
	s.Equal(1, decodeData[models.BudgetReport](s.T(), rec).OverBudget)
}

func (s *ReportHandlerTestSuite) TestGetCategoryNetTotals() {
	totals := []models.CategoryNetTotal{
		{CategoryID: uuid.New(), CategoryName: "Food", Net: decimal.NewFromInt(-50)},
		{CategoryID: uuid.New(), CategoryName: "Salary", Net: decimal.Zero},
	}
	s.reportService.EXPECT().CategoryNetTotals(gomock.Any()).Return(totals, nil).Times(1)

	c, rec := newContext(s.echo, http.MethodGet, "/api/v1/reports/categories", nil)

	s.NoError(s.handler.GetCategoryNetTotals(c))

	got := decodeData[[]models.CategoryNetTotal](s.T(), rec)
	s.Require().Len(got, 2)
	s.True(got[0].Net.Equal(decimal.NewFromInt(-50)))
}

func (s *ReportHandlerTestSuite) TestGetCategoryReport() {
	id := uuid.New()
	s.reportService.EXPECT().CategoryReport(gomock.Any(), id).Return(nil, errors.NewNotFoundFailure("category", id)).Times(1)

	c, rec := newContext(s.echo, http.MethodGet, "/", nil)

	s.NoError(s.handler.GetCategoryReport(withID(c, id.String())))
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *ReportHandlerTestSuite) TestGetDashboard() {
	dashboard := &models.Dashboard{IsNewUser: true, GeneratedAt: time.Now().UTC()}
	s.reportService.EXPECT().Dashboard(gomock.Any()).Return(dashboard, nil).Times(1)

	c, rec := newContext(s.echo, http.MethodGet, "/api/v1/reports/dashboard", nil)

	s.NoError(s.handler.GetDashboard(c))
	s.True(decodeData[models.Dashboard](s.T(), rec).IsNewUser)
}

func (s *ReportHandlerTestSuite) TestGetDashboard_StorageFailure() {
	s.reportService.EXPECT().
		Dashboard(gomock.Any()).
		Return(nil, errors.NewStorageFailure("sum transactions", http.ErrHandlerTimeout)).
		Times(1)

	c, rec := newContext(s.echo, http.MethodGet, "/api/v1/reports/dashboard", nil)

	s.NoError(s.handler.GetDashboard(c))
	s.Equal(http.StatusInternalServerError, rec.Code)

	detail := decodeError(s.T(), rec)
	s.Equal(string(errors.SystemDatabaseError), detail.Code)
	s.NotContains(rec.Body.String(), "timeout")
}
