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
	"finance-ledger/internal/session"
	"finance-ledger/internal/validation"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type BudgetServiceTestSuite struct {
	suite.Suite
	ctrl         *gomock.Controller
	budgetRepo   *repository_mocks.MockBudgetRepositoryInterface
	categoryRepo *repository_mocks.MockCategoryRepositoryInterface
	reports      *service_mocks.MockReportInvalidatorInterface
	service      BudgetServiceInterface
	userID       uuid.UUID
	category     *models.Category
	ctx          context.Context
}

func (s *BudgetServiceTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.budgetRepo = repository_mocks.NewMockBudgetRepositoryInterface(s.ctrl)
	s.categoryRepo = repository_mocks.NewMockCategoryRepositoryInterface(s.ctrl)
	s.reports = service_mocks.NewMockReportInvalidatorInterface(s.ctrl)
	logger := quietLogger()

	clock := func() time.Time { return time.Date(2025, 7, 15, 10, 0, 0, 0, time.UTC) }
	s.service = NewBudgetService(
		s.budgetRepo,
		s.categoryRepo,
		session.NewContextProvider(),
		validation.NewValidator(validation.DefaultRules()),
		s.reports,
		NewLedgerEventLogger(logger),
		newTestMetrics(),
		logger,
		clock,
	)

	s.userID = uuid.New()
	s.ctx = userContext(s.userID)
	s.category = models.NewCategory("Food", "")
	s.category.ID = uuid.New()
}

func (s *BudgetServiceTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestBudgetServiceSuite(t *testing.T) {
	suite.Run(t, new(BudgetServiceTestSuite))
}

func (s *BudgetServiceTestSuite) stored(userID uuid.UUID) *models.Budget {
	b := models.NewBudget(userID, s.category.ID, decimal.NewFromInt(500), 3, 2025)
	b.ID = uuid.New()
	return b
}

func (s *BudgetServiceTestSuite) TestCreate_DefaultsToCurrentPeriod() {
	s.categoryRepo.EXPECT().GetByID(s.category.ID).Return(s.category, nil).Times(1)
	s.budgetRepo.EXPECT().ExistsByCategoryAndPeriod(s.userID, s.category.ID, 7, 2025, uuid.Nil).Return(false, nil).Times(1)
	s.budgetRepo.EXPECT().Create(gomock.Any()).Return(nil).Times(1)
	s.reports.EXPECT().InvalidateUser(gomock.Any(), s.userID).Times(1)

	budget, err := s.service.Create(s.ctx, &dto.BudgetRequest{CategoryID: s.category.ID, Limit: "500.00"})

	s.Require().NoError(err)
	s.Equal(7, budget.Month)
	s.Equal(2025, budget.Year)
	s.Equal(s.userID, budget.UserID)
	s.True(decimal.NewFromInt(500).Equal(budget.Limit))
}

func (s *BudgetServiceTestSuite) TestCreate_DuplicateSlot() {
	s.categoryRepo.EXPECT().GetByID(s.category.ID).Return(s.category, nil).Times(1)
	s.budgetRepo.EXPECT().ExistsByCategoryAndPeriod(s.userID, s.category.ID, 3, 2025, uuid.Nil).Return(true, nil).Times(1)

	_, err := s.service.Create(s.ctx, &dto.BudgetRequest{CategoryID: s.category.ID, Limit: "100", Month: 3, Year: 2025})

	var vf *apierrors.ValidationFailure
	s.Require().True(errors.As(err, &vf))
	s.Equal(apierrors.LedgerBudgetExists, vf.Code)
	s.Equal([]string{"category_id", "month", "year"}, vf.Fields)
}

func (s *BudgetServiceTestSuite) TestCreate_StorageDuplicateMapsToConflict() {
	s.categoryRepo.EXPECT().GetByID(s.category.ID).Return(s.category, nil).Times(1)
	s.budgetRepo.EXPECT().ExistsByCategoryAndPeriod(s.userID, s.category.ID, 3, 2025, uuid.Nil).Return(false, nil).Times(1)
	s.budgetRepo.EXPECT().Create(gomock.Any()).Return(repositories.ErrBudgetAlreadyExists).Times(1)

	_, err := s.service.Create(s.ctx, &dto.BudgetRequest{CategoryID: s.category.ID, Limit: "100", Month: 3, Year: 2025})

	s.Equal(apierrors.LedgerBudgetExists, apierrors.CodeFor(err))
}

func (s *BudgetServiceTestSuite) TestCreate_InvalidInput() {
	testCases := []struct {
		name   string
		req    dto.BudgetRequest
		fields []string
		code   apierrors.ErrorCode
	}{
		{"missing limit", dto.BudgetRequest{CategoryID: s.category.ID}, []string{"limit"}, apierrors.ValidationRequiredField},
		{"bad limit", dto.BudgetRequest{CategoryID: s.category.ID, Limit: "lots"}, []string{"limit"}, apierrors.ValidationInvalidFormat},
		{"zero limit", dto.BudgetRequest{CategoryID: s.category.ID, Limit: "0"}, []string{"limit"}, apierrors.ValidationGeneral},
		{"month 13", dto.BudgetRequest{CategoryID: s.category.ID, Limit: "10", Month: 13}, []string{"month"}, apierrors.ValidationGeneral},
		{"before epoch", dto.BudgetRequest{CategoryID: s.category.ID, Limit: "10", Month: 1, Year: 2019}, []string{"year"}, apierrors.ValidationGeneral},
		{"no category", dto.BudgetRequest{Limit: "10"}, []string{"category_id"}, apierrors.ValidationGeneral},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			req := tc.req
			_, err := s.service.Create(s.ctx, &req)

			var vf *apierrors.ValidationFailure
			s.Require().True(errors.As(err, &vf))
			s.Equal(tc.fields, vf.Fields)
			s.Equal(tc.code, apierrors.CodeFor(err))
		})
	}
}

func (s *BudgetServiceTestSuite) TestCreate_InactiveCategory() {
	s.category.Active = false
	s.categoryRepo.EXPECT().GetByID(s.category.ID).Return(s.category, nil).Times(1)

	_, err := s.service.Create(s.ctx, &dto.BudgetRequest{CategoryID: s.category.ID, Limit: "10"})

	s.Equal(apierrors.LedgerCategoryInactive, apierrors.CodeFor(err))
}

func (s *BudgetServiceTestSuite) TestUpdate_ExcludesItselfFromSlotCheck() {
	budget := s.stored(s.userID)

	s.budgetRepo.EXPECT().GetByID(budget.ID).Return(budget, nil).Times(1)
	s.categoryRepo.EXPECT().GetByID(s.category.ID).Return(s.category, nil).Times(1)
	s.budgetRepo.EXPECT().ExistsByCategoryAndPeriod(s.userID, s.category.ID, 3, 2025, budget.ID).Return(false, nil).Times(1)
	s.budgetRepo.EXPECT().Update(budget).Return(nil).Times(1)
	s.reports.EXPECT().InvalidateUser(gomock.Any(), s.userID).Times(1)

	updated, err := s.service.Update(s.ctx, budget.ID, &dto.BudgetRequest{
		CategoryID:  s.category.ID,
		Limit:       "750",
		Month:       3,
		Year:        2025,
		Description: " groceries ",
	})

	s.Require().NoError(err)
	s.True(decimal.NewFromInt(750).Equal(updated.Limit))
	s.Equal("groceries", updated.Description)
}

func (s *BudgetServiceTestSuite) TestGet_OtherUsersBudgetIsNotFound() {
	budget := s.stored(uuid.New())
	s.budgetRepo.EXPECT().GetByID(budget.ID).Return(budget, nil).Times(1)

	_, err := s.service.Get(s.ctx, budget.ID)

	s.Equal(apierrors.LedgerBudgetNotFound, apierrors.CodeFor(err))
}

func (s *BudgetServiceTestSuite) TestActivate_SlotTaken() {
	budget := s.stored(s.userID)
	budget.Active = false

	s.budgetRepo.EXPECT().GetByID(budget.ID).Return(budget, nil).Times(1)
	s.budgetRepo.EXPECT().ExistsByCategoryAndPeriod(s.userID, s.category.ID, 3, 2025, budget.ID).Return(true, nil).Times(1)

	err := s.service.Activate(s.ctx, budget.ID)

	s.Equal(apierrors.LedgerBudgetExists, apierrors.CodeFor(err))
}

func (s *BudgetServiceTestSuite) TestDeactivateAndDelete() {
	budget := s.stored(s.userID)

	s.budgetRepo.EXPECT().GetByID(budget.ID).Return(budget, nil).Times(2)
	s.budgetRepo.EXPECT().Deactivate(budget.ID).Return(nil).Times(1)
	s.budgetRepo.EXPECT().Delete(budget.ID).Return(nil).Times(1)
	s.reports.EXPECT().InvalidateUser(gomock.Any(), s.userID).Times(2)

	s.NoError(s.service.Deactivate(s.ctx, budget.ID))
	s.NoError(s.service.Delete(s.ctx, budget.ID))
}

func (s *BudgetServiceTestSuite) TestListByPeriodAndYear() {
	s.budgetRepo.EXPECT().ListByUserAndPeriod(s.userID, 3, 2025).Return([]models.Budget{*s.stored(s.userID)}, nil).Times(1)
	s.budgetRepo.EXPECT().ListByUserAndYear(s.userID, 2025).Return([]models.Budget{}, nil).Times(1)

	budgets, err := s.service.ListByPeriod(s.ctx, 3, 2025)
	s.NoError(err)
	s.Len(budgets, 1)

	budgets, err = s.service.ListByYear(s.ctx, 2025)
	s.NoError(err)
	s.Empty(budgets)

	_, err = s.service.ListByPeriod(s.ctx, 0, 2025)
	s.Equal(apierrors.ValidationInvalidPeriod, apierrors.CodeFor(err))
}

func (s *BudgetServiceTestSuite) TestRequiresUser() {
	_, err := s.service.ListByYear(context.Background(), 2025)
	s.True(errors.Is(err, apierrors.ErrAuthenticationRequired))
}
