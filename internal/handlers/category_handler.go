package handlers

import (
	"net/http"
	"strings"

	"finance-ledger/internal/dto"
	"finance-ledger/internal/errors"
	"finance-ledger/internal/services"

	"github.com/labstack/echo/v4"
)

// CategoryHandler handles the shared category list
type CategoryHandler struct {
	categoryService services.CategoryServiceInterface
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(categoryService services.CategoryServiceInterface) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// CreateCategory adds a category
// @Summary Create category
// @Tags Categories
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CategoryRequest true "Category"
// @Success 201 {object} SuccessResponse{data=models.Category}
// @Failure 409 {object} errors.ErrorResponse "LEDGER_005 - Name already taken"
// @Router /categories [post]
func (h *CategoryHandler) CreateCategory(c echo.Context) error {
	var req dto.CategoryRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}

	if err := c.Validate(req); err != nil {
		return err
	}

	category, err := h.categoryService.Create(c.Request().Context(), &req)
	if err != nil {
		return SendFailure(c, err)
	}

	return c.JSON(http.StatusCreated, SuccessResponse{Data: category, Message: "Category created"})
}

// ListCategories returns every category, or the one matching ?name=
// @Summary List categories
// @Tags Categories
// @Security BearerAuth
// @Produce json
// @Param name query string false "Exact category name"
// @Param include_inactive query bool false "Include deactivated categories"
// @Success 200 {object} SuccessResponse{data=[]models.Category}
// @Router /categories [get]
func (h *CategoryHandler) ListCategories(c echo.Context) error {
	ctx := c.Request().Context()

	if name := strings.TrimSpace(c.QueryParam("name")); name != "" {
		category, err := h.categoryService.GetByName(ctx, name)
		if err != nil {
			return SendFailure(c, err)
		}
		return c.JSON(http.StatusOK, SuccessResponse{Data: category})
	}

	includeInactive := c.QueryParam("include_inactive") == "true"
	categories, err := h.categoryService.List(ctx, includeInactive)
	if err != nil {
		return SendFailure(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Data: categories, Meta: map[string]int{"count": len(categories)}})
}

// GetCategory returns a category by ID
// @Summary Get category
// @Tags Categories
// @Security BearerAuth
// @Produce json
// @Param id path string true "Category ID"
// @Success 200 {object} SuccessResponse{data=models.Category}
// @Failure 404 {object} errors.ErrorResponse "LEDGER_002 - Category not found"
// @Router /categories/{id} [get]
func (h *CategoryHandler) GetCategory(c echo.Context) error {
	id, ok, err := parseIDParam(c, "id")
	if !ok {
		return err
	}

	category, err := h.categoryService.Get(c.Request().Context(), id)
	if err != nil {
		return SendFailure(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Data: category})
}

// UpdateCategory renames or re-describes a category
// @Summary Update category
// @Tags Categories
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Category ID"
// @Param request body dto.CategoryRequest true "Category"
// @Success 200 {object} SuccessResponse{data=models.Category}
// @Router /categories/{id} [put]
func (h *CategoryHandler) UpdateCategory(c echo.Context) error {
	id, ok, err := parseIDParam(c, "id")
	if !ok {
		return err
	}

	var req dto.CategoryRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}

	if err := c.Validate(req); err != nil {
		return err
	}

	category, err := h.categoryService.Update(c.Request().Context(), id, &req)
	if err != nil {
		return SendFailure(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Data: category, Message: "Category updated"})
}

// DeleteCategory removes a category
// @Summary Delete category
// @Tags Categories
// @Security BearerAuth
// @Param id path string true "Category ID"
// @Success 204
// @Router /categories/{id} [delete]
func (h *CategoryHandler) DeleteCategory(c echo.Context) error {
	id, ok, err := parseIDParam(c, "id")
	if !ok {
		return err
	}

	if err := h.categoryService.Delete(c.Request().Context(), id); err != nil {
		return SendFailure(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// DeactivateCategory
// @Summary Deactivate category
// @Tags Categories
// @Security BearerAuth
// @Param id path string true "Category ID"
// @Success 200 {object} SuccessResponse
// @Router /categories/{id}/deactivate [post]
func (h *CategoryHandler) DeactivateCategory(c echo.Context) error {
	id, ok, err := parseIDParam(c, "id")
	if !ok {
		return err
	}

	if err := h.categoryService.Deactivate(c.Request().Context(), id); err != nil {
		return SendFailure(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: "Category deactivated"})
}

// ActivateCategory
// @Summary Activate category
// @Tags Categories
// @Security BearerAuth
// @Param id path string true "Category ID"
// @Success 200 {object} SuccessResponse
// @Router /categories/{id}/activate [post]
func (h *CategoryHandler) ActivateCategory(c echo.Context) error {
	id, ok, err := parseIDParam(c, "id")
	if !ok {
		return err
	}

	if err := h.categoryService.Activate(c.Request().Context(), id); err != nil {
		return SendFailure(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: "Category activated"})
}
