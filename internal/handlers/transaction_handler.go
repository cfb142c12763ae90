package handlers

import (
	"context"
	"net/http"
	"strings"

	"finance-ledger/internal/dto"
	"finance-ledger/internal/errors"
	"finance-ledger/internal/models"
	"finance-ledger/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// TransactionHandler handles transaction-related HTTP requests
type TransactionHandler struct {
	transactionService services.TransactionServiceInterface
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(transactionService services.TransactionServiceInterface) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
	}
}

// CreateTransaction records an income or expense
// @Summary Create transaction
// @Tags Transactions
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.TransactionRequest true "Transaction"
// @Success 201 {object} SuccessResponse{data=models.Transaction}
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_001/003 - Invalid transaction"
// @Failure 404 {object} errors.ErrorResponse "LEDGER_002 - Category not found"
// @Failure 422 {object} errors.ErrorResponse "LEDGER_007 - Category inactive"
// @Router /transactions [post]
func (h *TransactionHandler) CreateTransaction(c echo.Context) error {
	var req dto.TransactionRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}

	if err := c.Validate(req); err != nil {
		return err
	}

	tx, err := h.transactionService.Create(c.Request().Context(), &req)
	if err != nil {
		return SendFailure(c, err)
	}

	return c.JSON(http.StatusCreated, SuccessResponse{Data: tx, Message: "Transaction created"})
}

// GetTransaction returns one of the caller's transactions
// @Summary Get transaction
// @Tags Transactions
// @Security BearerAuth
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} SuccessResponse{data=models.Transaction}
// @Failure 404 {object} errors.ErrorResponse "LEDGER_001 - Transaction not found"
// @Router /transactions/{id} [get]
func (h *TransactionHandler) GetTransaction(c echo.Context) error {
	id, ok, err := parseIDParam(c, "id")
	if !ok {
		return err
	}

	tx, err := h.transactionService.Get(c.Request().Context(), id)
	if err != nil {
		return SendFailure(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Data: tx})
}

// UpdateTransaction replaces the editable fields of a transaction
// @Summary Update transaction
// @Tags Transactions
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Transaction ID"
// @Param request body dto.TransactionRequest true "Transaction"
// @Success 200 {object} SuccessResponse{data=models.Transaction}
// @Router /transactions/{id} [put]
func (h *TransactionHandler) UpdateTransaction(c echo.Context) error {
	id, ok, err := parseIDParam(c, "id")
	if !ok {
		return err
	}

	var req dto.TransactionRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}

	if err := c.Validate(req); err != nil {
		return err
	}

	tx, err := h.transactionService.Update(c.Request().Context(), id, &req)
	if err != nil {
		return SendFailure(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Data: tx, Message: "Transaction updated"})
}

// DeleteTransaction removes a transaction permanently
// @Summary Delete transaction
// @Tags Transactions
// @Security BearerAuth
// @Param id path string true "Transaction ID"
// @Success 204
// @Router /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c echo.Context) error {
	return h.change(c, h.transactionService.Delete, "")
}

// DeactivateTransaction hides a transaction from all totals
// @Summary Deactivate transaction
// @Tags Transactions
// @Security BearerAuth
// @Param id path string true "Transaction ID"
// @Success 200 {object} SuccessResponse
// @Router /transactions/{id}/deactivate [post]
func (h *TransactionHandler) DeactivateTransaction(c echo.Context) error {
	return h.change(c, h.transactionService.Deactivate, "Transaction deactivated")
}

// ActivateTransaction counts a deactivated transaction again
// @Summary Activate transaction
// @Tags Transactions
// @Security BearerAuth
// @Param id path string true "Transaction ID"
// @Success 200 {object} SuccessResponse
// @Router /transactions/{id}/activate [post]
func (h *TransactionHandler) ActivateTransaction(c echo.Context) error {
	return h.change(c, h.transactionService.Activate, "Transaction activated")
}

// change runs a state change; an empty message answers 204
func (h *TransactionHandler) change(c echo.Context, apply func(ctx context.Context, id uuid.UUID) error, message string) error {
	id, ok, err := parseIDParam(c, "id")
	if !ok {
		return err
	}

	if err := apply(c.Request().Context(), id); err != nil {
		return SendFailure(c, err)
	}

	if message == "" {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: message})
}

// ListTransactions retrieves a filtered page of the caller's transactions
// @Summary List transactions
// @Tags Transactions
// @Security BearerAuth
// @Produce json
// @Param kind query string false "INCOME or EXPENSE"
// @Param category_id query string false "Category ID"
// @Param start_date query string false "Start date (YYYY-MM-DD), inclusive"
// @Param end_date query string false "End date (YYYY-MM-DD), inclusive"
// @Param q query string false "Description substring"
// @Param include_inactive query bool false "Include deactivated transactions"
// @Param offset query int false "Offset" default(0)
// @Param limit query int false "Page size (max 500)" default(50)
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_003/005 - Invalid filters"
// @Router /transactions [get]
func (h *TransactionHandler) ListTransactions(c echo.Context) error {
	var params dto.TransactionListParams
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &params); err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Invalid query parameters"))
	}

	filters := models.TransactionFilters{
		Kind:            models.TransactionKind(strings.ToUpper(strings.TrimSpace(params.Kind))),
		Description:     strings.TrimSpace(params.Description),
		IncludeInactive: params.IncludeInactive,
		Offset:          params.Offset,
		Limit:           params.Limit,
	}

	if params.CategoryID != "" {
		categoryID, err := uuid.Parse(params.CategoryID)
		if err != nil {
			return SendError(c, errors.ValidationInvalidFormat, errors.WithFields("category_id"), errors.WithDetails("Invalid category ID"))
		}
		filters.CategoryID = &categoryID
	}

	var err error
	if filters.StartDate, err = parseDateQuery(c, "start_date"); err != nil {
		return SendError(c, errors.ValidationInvalidDate, errors.WithFields("start_date"), errors.WithDetails(err.Error()))
	}
	if filters.EndDate, err = parseDateQuery(c, "end_date"); err != nil {
		return SendError(c, errors.ValidationInvalidDate, errors.WithFields("end_date"), errors.WithDetails(err.Error()))
	}

	txs, total, err := h.transactionService.List(c.Request().Context(), filters)
	if err != nil {
		return SendFailure(c, err)
	}

	offset, limit := pageBounds(params.Offset, params.Limit)
	return c.JSON(http.StatusOK, dto.ListTransactionsResponse{
		Transactions: txs,
		Pagination:   dto.NewPaginationInfo(offset, limit, len(txs), total),
	})
}

// SearchTransactions finds active transactions by description
// @Summary Search transactions
// @Tags Transactions
// @Security BearerAuth
// @Produce json
// @Param q query string true "Description substring"
// @Success 200 {object} SuccessResponse{data=[]models.Transaction}
// @Router /transactions/search [get]
func (h *TransactionHandler) SearchTransactions(c echo.Context) error {
	txs, err := h.transactionService.SearchByDescription(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return SendFailure(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Data: txs, Meta: map[string]int{"count": len(txs)}})
}

// pageBounds mirrors the clamping the transaction service applies
func pageBounds(offset, limit int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = services.DefaultPageSize
	}
	if limit > services.MaxPageSize {
		limit = services.MaxPageSize
	}
	return offset, limit
}
