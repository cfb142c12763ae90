package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"finance-ledger/internal/cache"
	"finance-ledger/internal/ledger"
	"finance-ledger/internal/models"
	"finance-ledger/internal/repositories"
	"finance-ledger/internal/session"
	"finance-ledger/internal/validation"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const DefaultRecentLimit = 10

// ReportService answers every read about the current user's money: it fetches
// the user's rows, feeds them through the ledger package and caches the result
// until a write for that user comes in.
type ReportService struct {
	txRepo       repositories.TransactionRepositoryInterface
	budgetRepo   repositories.BudgetRepositoryInterface
	categoryRepo repositories.CategoryRepositoryInterface
	sessions     session.Provider
	validator    *validation.Validator
	cache        cache.Cache[any]
	events       LedgerEventLoggerInterface
	metrics      MetricsRecorderInterface
	logger       *slog.Logger
	now          Clock
	recentLimit  int

	// generations advance on every invalidation so a load that raced with a
	// write is not stored
	genMu       sync.Mutex
	globalGen   uint64
	generations map[uuid.UUID]uint64
}

// ReportOption customizes a ReportService
type ReportOption func(*ReportService)

// WithReportCache enables read-through caching of report results
func WithReportCache(c cache.Cache[any]) ReportOption {
	return func(s *ReportService) {
		s.cache = c
	}
}

func WithClock(clock Clock) ReportOption {
	return func(s *ReportService) {
		s.now = clock.orDefault()
	}
}

// WithRecentLimit sets how many transactions RecentTransactions returns when asked for none
func WithRecentLimit(n int) ReportOption {
	return func(s *ReportService) {
		if n > 0 {
			s.recentLimit = n
		}
	}
}

// NewReportService creates the report service. It also satisfies
// ReportInvalidatorInterface for the write services.
func NewReportService(
	txRepo repositories.TransactionRepositoryInterface,
	budgetRepo repositories.BudgetRepositoryInterface,
	categoryRepo repositories.CategoryRepositoryInterface,
	sessions session.Provider,
	validator *validation.Validator,
	events LedgerEventLoggerInterface,
	metrics MetricsRecorderInterface,
	logger *slog.Logger,
	opts ...ReportOption,
) *ReportService {
	s := &ReportService{
		txRepo:       txRepo,
		budgetRepo:   budgetRepo,
		categoryRepo: categoryRepo,
		sessions:     sessions,
		validator:    validator,
		events:       events,
		metrics:      metrics,
		logger:       logger,
		now:          time.Now,
		recentLimit:  DefaultRecentLimit,
		generations:  make(map[uuid.UUID]uint64),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Overview returns all-time totals, summed by storage
func (s *ReportService) Overview(ctx context.Context) (*models.OverallSummary, error) {
	userID, err := currentUser(ctx, s.sessions)
	if err != nil {
		return nil, err
	}

	return cached(ctx, s, userID, "overview", "", func() (*models.OverallSummary, error) {
		income, err := s.txRepo.SumByUserAndKind(userID, models.TransactionKindIncome)
		if err != nil {
			return nil, err
		}
		expense, err := s.txRepo.SumByUserAndKind(userID, models.TransactionKindExpense)
		if err != nil {
			return nil, err
		}
		count, err := s.txRepo.CountByUser(userID)
		if err != nil {
			return nil, err
		}

		return &models.OverallSummary{
			UserID: userID,
			Totals: models.Totals{
				Income:  income,
				Expense: expense,
				Balance: income.Sub(expense),
				Count:   int(count),
			},
		}, nil
	})
}

// PeriodSummary covers an inclusive date range
func (s *ReportService) PeriodSummary(ctx context.Context, start, end time.Time) (*models.PeriodSummary, error) {
	userID, err := currentUser(ctx, s.sessions)
	if err != nil {
		return nil, err
	}
	if err := s.validator.ValidateDateRange(start, end); err != nil {
		return nil, err
	}

	start, end = models.DateOnly(start), models.DateOnly(end)
	params := start.Format(time.DateOnly) + ".." + end.Format(time.DateOnly)

	return cached(ctx, s, userID, "period", params, func() (*models.PeriodSummary, error) {
		return s.periodSummary(userID, start, end)
	})
}

func (s *ReportService) MonthlySummary(ctx context.Context, month, year int) (*models.PeriodSummary, error) {
	userID, err := currentUser(ctx, s.sessions)
	if err != nil {
		return nil, err
	}
	if err := s.validator.ValidatePeriod(month, year); err != nil {
		return nil, err
	}

	return cached(ctx, s, userID, "monthly", fmt.Sprintf("%d-%02d", year, month), func() (*models.PeriodSummary, error) {
		start, end := ledger.MonthRange(month, year)
		return s.periodSummary(userID, start, end)
	})
}

func (s *ReportService) periodSummary(userID uuid.UUID, start, end time.Time) (*models.PeriodSummary, error) {
	txs, err := s.txRepo.ListByUserAndPeriod(userID, start, end)
	if err != nil {
		return nil, err
	}

	scope := ledger.And(ledger.ByUser(userID), ledger.Between(start, end))
	return &models.PeriodSummary{
		StartDate:    start,
		EndDate:      end,
		Totals:       ledger.Totals(txs, scope),
		Transactions: ledger.Filter(txs, scope),
	}, nil
}

// YearlySummary totals a year and breaks it down into its twelve months
func (s *ReportService) YearlySummary(ctx context.Context, year int) (*models.YearlySummary, error) {
	userID, err := currentUser(ctx, s.sessions)
	if err != nil {
		return nil, err
	}
	if err := s.validator.ValidatePeriod(1, year); err != nil {
		return nil, err
	}

	return cached(ctx, s, userID, "yearly", fmt.Sprintf("%d", year), func() (*models.YearlySummary, error) {
		start, end := ledger.YearRange(year)
		txs, err := s.txRepo.ListByUserAndPeriod(userID, start, end)
		if err != nil {
			return nil, err
		}

		owned := ledger.ByUser(userID)
		summary := &models.YearlySummary{
			Year:   year,
			Totals: ledger.Totals(txs, ledger.And(owned, ledger.InYear(year))),
			Months: make([]models.MonthlyBreakdown, 0, 12),
		}
		for month := 1; month <= 12; month++ {
			summary.Months = append(summary.Months, models.MonthlyBreakdown{
				Month:  month,
				Totals: ledger.Totals(txs, ledger.And(owned, ledger.InPeriod(month, year))),
			})
		}
		return summary, nil
	})
}

// RecentTransactions returns the n newest active transactions; n <= 0 uses the configured default
func (s *ReportService) RecentTransactions(ctx context.Context, n int) ([]models.Transaction, error) {
	userID, err := currentUser(ctx, s.sessions)
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		n = s.recentLimit
	}

	return cached(ctx, s, userID, "recent", fmt.Sprintf("%d", n), func() ([]models.Transaction, error) {
		txs, err := s.txRepo.GetRecentByUser(userID, n)
		if err != nil {
			return nil, err
		}
		return ledger.MostRecent(ledger.Filter(txs, ledger.ByUser(userID)), n), nil
	})
}

// BudgetReport evaluates every active budget of the user in a month
func (s *ReportService) BudgetReport(ctx context.Context, month, year int) (*models.BudgetReport, error) {
	userID, err := currentUser(ctx, s.sessions)
	if err != nil {
		return nil, err
	}
	if err := s.validator.ValidatePeriod(month, year); err != nil {
		return nil, err
	}

	return cached(ctx, s, userID, "budgets", fmt.Sprintf("%d-%02d", year, month), func() (*models.BudgetReport, error) {
		budgets, err := s.budgetRepo.ListByUserAndPeriod(userID, month, year)
		if err != nil {
			return nil, err
		}

		start, end := ledger.MonthRange(month, year)
		txs, err := s.txRepo.ListByUserAndPeriod(userID, start, end)
		if err != nil {
			return nil, err
		}

		names, err := s.categoryNames(true)
		if err != nil {
			return nil, err
		}

		report := &models.BudgetReport{
			Period:         models.Period{Month: month, Year: year},
			Items:          make([]models.BudgetReportItem, 0, len(budgets)),
			TotalBudgeted:  decimal.Zero,
			TotalSpent:     decimal.Zero,
			TotalRemaining: decimal.Zero,
		}
		for i := range budgets {
			budget := &budgets[i]
			if !budget.Active || budget.UserID != userID {
				continue
			}

			item := s.budgetItem(ctx, budget, txs, names)
			report.Items = append(report.Items, item)
			report.TotalBudgeted = report.TotalBudgeted.Add(item.Status.Limit)
			report.TotalSpent = report.TotalSpent.Add(item.Status.Spent)
			if item.Status.IsOver() {
				report.OverBudget++
			}
		}
		report.TotalRemaining = report.TotalBudgeted.Sub(report.TotalSpent)

		return report, nil
	})
}

// BudgetStatus evaluates a single budget of the current user
func (s *ReportService) BudgetStatus(ctx context.Context, budgetID uuid.UUID) (*models.BudgetReportItem, error) {
	userID, err := currentUser(ctx, s.sessions)
	if err != nil {
		return nil, err
	}

	return cached(ctx, s, userID, "budget", budgetID.String(), func() (*models.BudgetReportItem, error) {
		budget, err := s.budgetRepo.GetByID(budgetID)
		if err != nil {
			if errors.Is(err, repositories.ErrBudgetNotFound) {
				return nil, notFound("budget", budgetID)
			}
			return nil, err
		}
		if budget.UserID != userID {
			return nil, notFound("budget", budgetID)
		}

		start, end := ledger.MonthRange(budget.Month, budget.Year)
		txs, err := s.txRepo.ListByUserAndPeriod(userID, start, end)
		if err != nil {
			return nil, err
		}

		names := map[uuid.UUID]string{}
		if category, err := s.categoryRepo.GetByID(budget.CategoryID); err == nil {
			names[category.ID] = category.Name
		} else if !errors.Is(err, repositories.ErrCategoryNotFound) {
			return nil, err
		}

		item := s.budgetItem(ctx, budget, txs, names)
		return &item, nil
	})
}

func (s *ReportService) budgetItem(ctx context.Context, budget *models.Budget, txs []models.Transaction, names map[uuid.UUID]string) models.BudgetReportItem {
	status := ledger.BudgetStatusFor(txs, budget)
	if status.IsOver() {
		s.events.LogBudgetOverLimit(ctx, budget.ID, budget.UserID, status)
		s.metrics.IncrementCounter("budget.over_limit", nil)
	}

	return models.BudgetReportItem{
		BudgetID:     budget.ID,
		CategoryID:   budget.CategoryID,
		CategoryName: names[budget.CategoryID],
		Description:  budget.Description,
		Status:       status,
	}
}

// CategoryReport keeps the income and expense of one category apart
func (s *ReportService) CategoryReport(ctx context.Context, categoryID uuid.UUID) (*models.CategoryReport, error) {
	userID, err := currentUser(ctx, s.sessions)
	if err != nil {
		return nil, err
	}

	return cached(ctx, s, userID, "category", categoryID.String(), func() (*models.CategoryReport, error) {
		category, err := s.categoryRepo.GetByID(categoryID)
		if err != nil {
			if errors.Is(err, repositories.ErrCategoryNotFound) {
				return nil, notFound("category", categoryID)
			}
			return nil, err
		}

		txs, err := s.txRepo.ListByUserAndCategory(userID, categoryID)
		if err != nil {
			return nil, err
		}

		scope := ledger.And(ledger.ByUser(userID), ledger.ByCategory(categoryID))
		return &models.CategoryReport{
			CategoryID:   category.ID,
			CategoryName: category.Name,
			Totals:       ledger.Totals(txs, scope),
			Transactions: ledger.Filter(txs, scope),
		}, nil
	})
}

// CategoryNetTotals returns the signed total of every active category, ordered by name.
// Uncategorised transactions and inactive categories are left out.
func (s *ReportService) CategoryNetTotals(ctx context.Context) ([]models.CategoryNetTotal, error) {
	userID, err := currentUser(ctx, s.sessions)
	if err != nil {
		return nil, err
	}

	return cached(ctx, s, userID, "category_totals", "", func() ([]models.CategoryNetTotal, error) {
		categories, err := s.categoryRepo.ListAll(false)
		if err != nil {
			return nil, err
		}

		txs, err := s.txRepo.ListByUser(userID)
		if err != nil {
			return nil, err
		}

		active := make(map[uuid.UUID]bool, len(categories))
		for _, c := range categories {
			active[c.ID] = true
		}

		nets := ledger.NetTotalsBy(ledger.Filter(txs, ledger.ByUser(userID)), func(t *models.Transaction) (uuid.UUID, bool) {
			if t.CategoryID == nil || !active[*t.CategoryID] {
				return uuid.Nil, false
			}
			return *t.CategoryID, true
		})

		totals := make([]models.CategoryNetTotal, 0, len(categories))
		for _, c := range categories {
			net, ok := nets[c.ID]
			if !ok {
				net = decimal.Zero
			}
			totals = append(totals, models.CategoryNetTotal{
				CategoryID:   c.ID,
				CategoryName: c.Name,
				Net:          net,
			})
		}
		return totals, nil
	})
}

// Dashboard loads the current month, the current year, the recent transactions
// and the transaction count concurrently. A user without any transaction is new.
func (s *ReportService) Dashboard(ctx context.Context) (*models.Dashboard, error) {
	userID, err := currentUser(ctx, s.sessions)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	now := s.now()
	current := models.CurrentPeriod(now)

	var (
		month  *models.PeriodSummary
		year   *models.YearlySummary
		recent []models.Transaction
		count  int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		month, err = s.MonthlySummary(gctx, current.Month, current.Year)
		return err
	})
	g.Go(func() error {
		var err error
		year, err = s.YearlySummary(gctx, current.Year)
		return err
	})
	g.Go(func() error {
		var err error
		recent, err = s.RecentTransactions(gctx, s.recentLimit)
		return err
	})
	g.Go(func() error {
		var err error
		count, err = s.txRepo.CountByUser(userID)
		return err
	})

	if err := g.Wait(); err != nil {
		s.logger.WarnContext(ctx, "failed to build dashboard",
			"error", err,
			"user_id", userID)
		return nil, err
	}

	s.observe(ctx, "dashboard", userID, false, time.Since(started))

	return &models.Dashboard{
		Month:              *month,
		Year:               *year,
		RecentTransactions: recent,
		IsNewUser:          count == 0,
		GeneratedAt:        now,
	}, nil
}

// InvalidateUser drops every cached report of a user
func (s *ReportService) InvalidateUser(ctx context.Context, userID uuid.UUID) {
	if s.cache == nil {
		return
	}

	s.genMu.Lock()
	s.generations[userID]++
	s.genMu.Unlock()

	removed := s.cache.DeletePrefix(userPrefix(userID))
	s.events.LogReportCacheInvalidated(ctx, userID, removed)
	s.metrics.RecordGauge("report.cache.size", float64(s.cache.Size()), nil)
}

// InvalidateAll drops every cached report; used when shared data such as categories changes
func (s *ReportService) InvalidateAll(ctx context.Context) {
	if s.cache == nil {
		return
	}

	s.genMu.Lock()
	s.globalGen++
	s.genMu.Unlock()

	removed := s.cache.Size()
	s.cache.Purge()
	s.events.LogReportCacheInvalidated(ctx, uuid.Nil, removed)
	s.metrics.RecordGauge("report.cache.size", 0, nil)
}

func (s *ReportService) categoryNames(includeInactive bool) (map[uuid.UUID]string, error) {
	categories, err := s.categoryRepo.ListAll(includeInactive)
	if err != nil {
		return nil, err
	}

	names := make(map[uuid.UUID]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}
	return names, nil
}

func (s *ReportService) observe(ctx context.Context, report string, userID uuid.UUID, hit bool, elapsed time.Duration) {
	outcome := "miss"
	if hit {
		outcome = "hit"
	} else if s.cache == nil {
		outcome = "disabled"
	}

	s.metrics.IncrementCounter("report.request", map[string]string{"report": report, "cache": outcome})
	s.metrics.RecordProcessingTime("report."+report, elapsed)
	s.events.LogReportGenerated(ctx, report, userID, hit, elapsed.Milliseconds())
}

func userPrefix(userID uuid.UUID) string {
	return "user:" + userID.String() + ":"
}

type cacheGeneration struct {
	global, user uint64
}

func (s *ReportService) generation(userID uuid.UUID) cacheGeneration {
	s.genMu.Lock()
	defer s.genMu.Unlock()
	return cacheGeneration{global: s.globalGen, user: s.generations[userID]}
}

// cached serves a report from the cache or computes and stores it. Failed
// computations are never cached, and neither are results whose user was
// invalidated while they were being computed. Callers always get their own
// copy of the result.
func cached[T any](ctx context.Context, s *ReportService, userID uuid.UUID, report, params string, load func() (T, error)) (T, error) {
	started := time.Now()
	key := userPrefix(userID) + report + ":" + params

	if s.cache != nil {
		if hit, ok := s.cache.Get(key); ok {
			if value, ok := hit.(T); ok {
				s.observe(ctx, report, userID, true, time.Since(started))
				return cloneReport(value), nil
			}
		}
	}

	var gen cacheGeneration
	if s.cache != nil {
		gen = s.generation(userID)
	}

	value, err := load()
	if err != nil {
		var zero T
		return zero, err
	}

	if s.cache != nil {
		if s.generation(userID) == gen {
			s.cache.Set(key, cloneReport(value))
		} else {
			s.logger.DebugContext(ctx, "report invalidated during computation, not caching",
				"report", report,
				"user_id", userID)
		}
		s.metrics.RecordGauge("report.cache.size", float64(s.cache.Size()), nil)
	}
	s.observe(ctx, report, userID, false, time.Since(started))

	return value, nil
}

// cloneReport copies a report result so the cache and callers never share
// the same summary or slice.
func cloneReport[T any](value T) T {
	if c, ok := any(value).(interface{ Clone() T }); ok {
		return c.Clone()
	}

	switch v := any(value).(type) {
	case []models.Transaction:
		return any(slices.Clone(v)).(T)
	case []models.CategoryNetTotal:
		return any(slices.Clone(v)).(T)
	}
	return value
}
