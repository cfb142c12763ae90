package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"finance-ledger/internal/dto"
	apierrors "finance-ledger/internal/errors"
	"finance-ledger/internal/models"
	"finance-ledger/internal/repositories"
	"finance-ledger/internal/session"
	"finance-ledger/internal/validation"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	DefaultPageSize = 50
	MaxPageSize     = 500
)

var ErrNilRequest = errors.New("request cannot be nil")

// TransactionService manages the current user's income and expense entries
type TransactionService struct {
	txRepo       repositories.TransactionRepositoryInterface
	categoryRepo repositories.CategoryRepositoryInterface
	sessions     session.Provider
	validator    *validation.Validator
	reports      ReportInvalidatorInterface
	recorder     writeRecorder
	logger       *slog.Logger
}

// NewTransactionService creates a new transaction service
func NewTransactionService(
	txRepo repositories.TransactionRepositoryInterface,
	categoryRepo repositories.CategoryRepositoryInterface,
	sessions session.Provider,
	validator *validation.Validator,
	reports ReportInvalidatorInterface,
	events LedgerEventLoggerInterface,
	metrics MetricsRecorderInterface,
	logger *slog.Logger,
) TransactionServiceInterface {
	return &TransactionService{
		txRepo:       txRepo,
		categoryRepo: categoryRepo,
		sessions:     sessions,
		validator:    validator,
		reports:      reports,
		recorder:     writeRecorder{events: events, metrics: metrics},
		logger:       logger,
	}
}

// Create validates and stores a new transaction owned by the current user
func (s *TransactionService) Create(ctx context.Context, req *dto.TransactionRequest) (*models.Transaction, error) {
	userID, err := currentUser(ctx, s.sessions)
	if err != nil {
		return nil, err
	}

	parsed, err := parseTransactionRequest(req)
	if err != nil {
		return nil, s.recorder.rejected(ctx, "transaction", "create", userID, err)
	}

	tx := models.NewTransaction(userID, parsed.kind, parsed.amount, parsed.date, strings.TrimSpace(req.Description))
	tx.CategoryID = req.CategoryID
	tx.Note = req.Note

	if err := s.validator.ValidateTransaction(tx); err != nil {
		return nil, s.recorder.rejected(ctx, "transaction", "create", userID, err)
	}

	if err := s.checkCategory(tx.CategoryID); err != nil {
		return nil, s.recorder.rejected(ctx, "transaction", "create", userID, err)
	}

	if err := s.txRepo.Create(tx); err != nil {
		s.logger.ErrorContext(ctx, "failed to create transaction", "error", err, "user_id", userID)
		return nil, s.recorder.rejected(ctx, "transaction", "create", userID, err)
	}

	s.reports.InvalidateUser(ctx, userID)
	s.recorder.written(ctx, "transaction", "create", tx.ID, userID)

	return tx, nil
}

// Update replaces the editable fields of one of the current user's transactions
func (s *TransactionService) Update(ctx context.Context, id uuid.UUID, req *dto.TransactionRequest) (*models.Transaction, error) {
	userID, err := currentUser(ctx, s.sessions)
	if err != nil {
		return nil, err
	}

	tx, err := s.owned(userID, id)
	if err != nil {
		return nil, err
	}

	parsed, err := parseTransactionRequest(req)
	if err != nil {
		return nil, s.recorder.rejected(ctx, "transaction", "update", userID, err)
	}

	tx.SetKind(parsed.kind)
	tx.SetAmount(parsed.amount)
	tx.SetDate(parsed.date)
	tx.SetDescription(strings.TrimSpace(req.Description))
	tx.SetCategory(req.CategoryID)
	tx.SetNote(req.Note)

	if err := s.validator.ValidateTransaction(tx); err != nil {
		return nil, s.recorder.rejected(ctx, "transaction", "update", userID, err)
	}

	if err := s.checkCategory(tx.CategoryID); err != nil {
		return nil, s.recorder.rejected(ctx, "transaction", "update", userID, err)
	}

	if err := s.txRepo.Update(tx); err != nil {
		if errors.Is(err, repositories.ErrTransactionNotFound) {
			return nil, notFound("transaction", id)
		}
		s.logger.ErrorContext(ctx, "failed to update transaction", "error", err, "transaction_id", id)
		return nil, s.recorder.rejected(ctx, "transaction", "update", userID, err)
	}

	s.reports.InvalidateUser(ctx, userID)
	s.recorder.written(ctx, "transaction", "update", tx.ID, userID)

	return tx, nil
}

// Delete removes a transaction permanently
func (s *TransactionService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.change(ctx, id, "delete", s.txRepo.Delete)
}

// Deactivate hides a transaction from every total without removing it
func (s *TransactionService) Deactivate(ctx context.Context, id uuid.UUID) error {
	return s.change(ctx, id, "deactivate", s.txRepo.Deactivate)
}

func (s *TransactionService) Activate(ctx context.Context, id uuid.UUID) error {
	return s.change(ctx, id, "activate", s.txRepo.Activate)
}

func (s *TransactionService) change(ctx context.Context, id uuid.UUID, operation string, apply func(uuid.UUID) error) error {
	userID, err := currentUser(ctx, s.sessions)
	if err != nil {
		return err
	}

	if _, err := s.owned(userID, id); err != nil {
		return err
	}

	if err := apply(id); err != nil {
		if errors.Is(err, repositories.ErrTransactionNotFound) {
			return notFound("transaction", id)
		}
		s.logger.ErrorContext(ctx, "failed to change transaction", "error", err, "operation", operation, "transaction_id", id)
		return s.recorder.rejected(ctx, "transaction", operation, userID, err)
	}

	s.reports.InvalidateUser(ctx, userID)
	s.recorder.written(ctx, "transaction", operation, id, userID)

	return nil
}

// Get returns one of the current user's transactions, active or not
func (s *TransactionService) Get(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	userID, err := currentUser(ctx, s.sessions)
	if err != nil {
		return nil, err
	}
	return s.owned(userID, id)
}

// List returns one page of the current user's transactions and the total match count
func (s *TransactionService) List(ctx context.Context, filters models.TransactionFilters) ([]models.Transaction, int64, error) {
	userID, err := currentUser(ctx, s.sessions)
	if err != nil {
		return nil, 0, err
	}

	filters.UserID = userID
	if filters.Kind != "" && !models.IsValidTransactionKind(filters.Kind) {
		return nil, 0, invalidField(apierrors.ValidationInvalidFormat, "kind", "kind must be INCOME or EXPENSE")
	}
	if filters.StartDate != nil && filters.EndDate != nil {
		if err := s.validator.ValidateDateRange(*filters.StartDate, *filters.EndDate); err != nil {
			return nil, 0, err
		}
	}
	if filters.Offset < 0 {
		filters.Offset = 0
	}
	if filters.Limit <= 0 {
		filters.Limit = DefaultPageSize
	}
	if filters.Limit > MaxPageSize {
		filters.Limit = MaxPageSize
	}

	return s.txRepo.GetWithFilters(filters)
}

// SearchByDescription finds the current user's active transactions whose description contains term
func (s *TransactionService) SearchByDescription(ctx context.Context, term string) ([]models.Transaction, error) {
	userID, err := currentUser(ctx, s.sessions)
	if err != nil {
		return nil, err
	}

	term = strings.TrimSpace(term)
	if term == "" {
		return nil, invalidField(apierrors.ValidationRequiredField, "description", "search term must not be blank")
	}

	txs, _, err := s.txRepo.GetWithFilters(models.TransactionFilters{UserID: userID, Description: term})
	return txs, err
}

// owned loads a transaction and hides those of other users behind a not-found failure
func (s *TransactionService) owned(userID, id uuid.UUID) (*models.Transaction, error) {
	tx, err := s.txRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrTransactionNotFound) {
			return nil, notFound("transaction", id)
		}
		return nil, err
	}

	if tx.UserID != userID {
		return nil, notFound("transaction", id)
	}

	return tx, nil
}

// checkCategory requires a referenced category to exist and be active
func (s *TransactionService) checkCategory(categoryID *uuid.UUID) error {
	if categoryID == nil {
		return nil
	}
	return requireActiveCategory(s.categoryRepo, *categoryID)
}

func requireActiveCategory(repo repositories.CategoryRepositoryInterface, categoryID uuid.UUID) error {
	category, err := repo.GetByID(categoryID)
	if err != nil {
		if errors.Is(err, repositories.ErrCategoryNotFound) {
			return notFound("category", categoryID)
		}
		return err
	}

	if !category.Active {
		return invalidField(apierrors.LedgerCategoryInactive, "category_id", "category is inactive")
	}

	return nil
}

type parsedTransaction struct {
	kind   models.TransactionKind
	amount decimal.Decimal
	date   time.Time
}

// parseTransactionRequest converts the textual request fields, reporting every unparseable one
func parseTransactionRequest(req *dto.TransactionRequest) (*parsedTransaction, error) {
	if req == nil {
		return nil, apierrors.NewValidationFailure(ErrNilRequest.Error())
	}

	parsed := &parsedTransaction{
		kind: models.TransactionKind(strings.ToUpper(strings.TrimSpace(req.Kind))),
	}

	var fields, reasons []string
	if strings.TrimSpace(req.Amount) != "" {
		amount, err := decimal.NewFromString(strings.TrimSpace(req.Amount))
		if err != nil {
			fields = append(fields, "amount")
			reasons = append(reasons, "amount must be a decimal number")
		}
		parsed.amount = amount
	}

	if strings.TrimSpace(req.TransactionDate) != "" {
		date, err := dto.ParseDate(req.TransactionDate)
		if err != nil {
			fields = append(fields, "transaction_date")
			reasons = append(reasons, err.Error())
		}
		parsed.date = date
	}

	if len(fields) > 0 {
		failure := apierrors.NewValidationFailure(strings.Join(reasons, "; "), fields...)
		failure.Code = apierrors.ValidationInvalidFormat
		return nil, failure
	}

	return parsed, nil
}
