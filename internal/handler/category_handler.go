package handler

import (
	"net/http"

	"github.com/gastosapp/gastos-backend/internal/domain"
	"github.com/gastosapp/gastos-backend/internal/middleware"
	"github.com/gastosapp/gastos-backend/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// CategoryHandler handles category and subcategory HTTP requests
type CategoryHandler struct {
	categoryService *service.CategoryService
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// CategoryRequest represents the create/update category request body
type CategoryRequest struct {
	Name string `json:"name"`
}

// CreateCategory godoc
// @Summary Create a category
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CategoryRequest true "Category creation request"
// @Success 201 {object} domain.Category
// @Failure 400 {object} ProblemDetails
// @Router /categories [post]
func (h *CategoryHandler) CreateCategory(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req CategoryRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	category, err := h.categoryService.CreateCategory(userID, req.Name)
	if err != nil {
		return RespondDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, category)
}

// GetCategories godoc
// @Summary List the user's categories
// @Tags categories
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.Category
// @Router /categories [get]
func (h *CategoryHandler) GetCategories(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	categories, err := h.categoryService.GetCategories(userID)
	if err != nil {
		return RespondDomainError(c, err)
	}
	if categories == nil {
		categories = []*domain.Category{}
	}
	return c.JSON(http.StatusOK, categories)
}

// UpdateCategory godoc
// @Summary Rename a category
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Category ID"
// @Param request body CategoryRequest true "Category update request"
// @Success 200 {object} domain.Category
// @Failure 404 {object} ProblemDetails
// @Router /categories/{id} [put]
func (h *CategoryHandler) UpdateCategory(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := pathUUID(c, "id")
	if err != nil {
		return NewNotFoundError(c, "Category not found")
	}

	var req CategoryRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	category, err := h.categoryService.UpdateCategory(userID, id, req.Name)
	if err != nil {
		return RespondDomainError(c, err)
	}
	return c.JSON(http.StatusOK, category)
}

// DeleteCategory godoc
// @Summary Delete a category
// @Description Fails with 409 while expenses still reference the category
// @Tags categories
// @Security BearerAuth
// @Param id path string true "Category ID"
// @Success 204
// @Failure 404 {object} ProblemDetails
// @Failure 409 {object} ProblemDetails
// @Router /categories/{id} [delete]
func (h *CategoryHandler) DeleteCategory(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := pathUUID(c, "id")
	if err != nil {
		return NewNotFoundError(c, "Category not found")
	}

	if err := h.categoryService.DeleteCategory(userID, id); err != nil {
		return RespondDomainError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// CreateSubcategory godoc
// @Summary Create a subcategory
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Category ID"
// @Param request body CategoryRequest true "Subcategory creation request"
// @Success 201 {object} domain.Subcategory
// @Failure 404 {object} ProblemDetails
// @Router /categories/{id}/subcategories [post]
func (h *CategoryHandler) CreateSubcategory(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	categoryID, err := pathUUID(c, "id")
	if err != nil {
		return NewNotFoundError(c, "Category not found")
	}

	var req CategoryRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	sub, err := h.categoryService.CreateSubcategory(userID, categoryID, req.Name)
	if err != nil {
		return RespondDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, sub)
}

// GetSubcategories godoc
// @Summary List the subcategories of a category
// @Tags categories
// @Produce json
// @Security BearerAuth
// @Param id path string true "Category ID"
// @Success 200 {array} domain.Subcategory
// @Failure 404 {object} ProblemDetails
// @Router /categories/{id}/subcategories [get]
func (h *CategoryHandler) GetSubcategories(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	categoryID, err := pathUUID(c, "id")
	if err != nil {
		return NewNotFoundError(c, "Category not found")
	}

	subs, err := h.categoryService.GetSubcategories(userID, categoryID)
	if err != nil {
		return RespondDomainError(c, err)
	}
	if subs == nil {
		subs = []*domain.Subcategory{}
	}
	return c.JSON(http.StatusOK, subs)
}

// DeleteSubcategory godoc
// @Summary Delete a subcategory
// @Tags categories
// @Security BearerAuth
// @Param subcategoryId path string true "Subcategory ID"
// @Success 204
// @Failure 404 {object} ProblemDetails
// @Router /categories/subcategories/{subcategoryId} [delete]
func (h *CategoryHandler) DeleteSubcategory(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := pathUUID(c, "subcategoryId")
	if err != nil {
		return NewNotFoundError(c, "Subcategory not found")
	}

	if err := h.categoryService.DeleteSubcategory(userID, id); err != nil {
		return RespondDomainError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
