package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gastosapp/gastos-backend/internal/middleware"
	"github.com/gastosapp/gastos-backend/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ReceiptHandler handles receipt upload/download HTTP requests
type ReceiptHandler struct {
	receiptService *service.ReceiptService
}

// NewReceiptHandler creates a new ReceiptHandler
func NewReceiptHandler(receiptService *service.ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{receiptService: receiptService}
}

func respondReceiptError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrReceiptTooLarge),
		errors.Is(err, service.ErrInvalidReceiptFormat),
		errors.Is(err, service.ErrReceiptTooSmall),
		errors.Is(err, service.ErrInvalidReceiptData):
		return NewValidationError(c, err.Error(), nil)
	case errors.Is(err, service.ErrReceiptNotFound):
		return NewNotFoundError(c, err.Error())
	case errors.Is(err, service.ErrReceiptStorageDisabled):
		return NewInternalError(c, err.Error())
	}
	return RespondDomainError(c, err)
}

// UploadReceipt godoc
// @Summary Attach a receipt image to an expense
// @Description Accepts a multipart "receipt" file; stores thumb/display/original variants
// @Tags receipts
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path string true "Expense ID"
// @Param receipt formData file true "Receipt image (JPEG, PNG, WebP; max 5MB)"
// @Success 201 {object} service.ReceiptURLs
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /expenses/{id}/receipt [post]
func (h *ReceiptHandler) UploadReceipt(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	expenseID, err := pathUUID(c, "id")
	if err != nil {
		return NewNotFoundError(c, "Expense not found")
	}

	fileHeader, err := c.FormFile("receipt")
	if err != nil {
		return NewValidationError(c, "Missing receipt file", []ValidationError{
			{Field: "receipt", Message: "A file upload named 'receipt' is required"},
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return NewInternalError(c, "Failed to read upload")
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, service.MaxReceiptSize+1))
	if err != nil {
		return NewInternalError(c, "Failed to read upload")
	}

	urls, err := h.receiptService.UploadReceipt(c.Request().Context(), userID, expenseID, data, fileHeader.Filename)
	if err != nil {
		return respondReceiptError(c, err)
	}
	return c.JSON(http.StatusCreated, urls)
}

// GetReceipt godoc
// @Summary Presigned links to an expense's receipt
// @Tags receipts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Expense ID"
// @Success 200 {object} service.ReceiptURLs
// @Failure 404 {object} ProblemDetails
// @Router /expenses/{id}/receipt [get]
func (h *ReceiptHandler) GetReceipt(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	expenseID, err := pathUUID(c, "id")
	if err != nil {
		return NewNotFoundError(c, "Expense not found")
	}

	urls, err := h.receiptService.GetReceiptURLs(c.Request().Context(), userID, expenseID)
	if err != nil {
		return respondReceiptError(c, err)
	}
	return c.JSON(http.StatusOK, urls)
}

// DeleteReceipt godoc
// @Summary Remove an expense's receipt
// @Tags receipts
// @Security BearerAuth
// @Param id path string true "Expense ID"
// @Success 204
// @Failure 404 {object} ProblemDetails
// @Router /expenses/{id}/receipt [delete]
func (h *ReceiptHandler) DeleteReceipt(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	expenseID, err := pathUUID(c, "id")
	if err != nil {
		return NewNotFoundError(c, "Expense not found")
	}

	if err := h.receiptService.DeleteReceipt(c.Request().Context(), userID, expenseID); err != nil {
		return respondReceiptError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
