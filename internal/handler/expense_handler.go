package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gastosapp/gastos-backend/internal/domain"
	"github.com/gastosapp/gastos-backend/internal/middleware"
	"github.com/gastosapp/gastos-backend/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// ExpenseHandler handles expense-related HTTP requests
type ExpenseHandler struct {
	expenseService     *service.ExpenseService
	installmentService *service.InstallmentService
	summaryService     *service.SummaryService
}

// NewExpenseHandler creates a new ExpenseHandler
func NewExpenseHandler(expenseService *service.ExpenseService, installmentService *service.InstallmentService, summaryService *service.SummaryService) *ExpenseHandler {
	return &ExpenseHandler{
		expenseService:     expenseService,
		installmentService: installmentService,
		summaryService:     summaryService,
	}
}

// ExpenseRequest represents the create/update expense request body
type ExpenseRequest struct {
	Description          string  `json:"description"`
	Amount               string  `json:"amount"`
	PurchaseDate         *string `json:"purchaseDate,omitempty"`
	CardID               *string `json:"cardId,omitempty"`
	CategoryID           string  `json:"categoryId"`
	SubcategoryID        *string `json:"subcategoryId,omitempty"`
	InstallmentsCount    int32   `json:"installmentsCount,omitempty"`
	FirstInstallmentDate *string `json:"firstInstallmentDate,omitempty"`
	IsScheduled          bool    `json:"isScheduled,omitempty"`
	ScheduledMonths      *int32  `json:"scheduledMonths,omitempty"`
}

// UpdateInstallmentStatusRequest represents the status change body
type UpdateInstallmentStatusRequest struct {
	PaymentStatus string `json:"paymentStatus"`
}

// MarkAsPaidRequest represents the optional mark-as-paid body. Without a
// status the route settles the target as pagada.
type MarkAsPaidRequest struct {
	PaymentStatus string `json:"paymentStatus,omitempty"`
}

func parseDate(value string) (time.Time, error) {
	return time.Parse("2006-01-02", value)
}

func parseOptionalDate(value *string, field string, c echo.Context) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	parsed, err := parseDate(*value)
	if err != nil {
		return nil, NewValidationError(c, "Invalid date", []ValidationError{
			{Field: field, Message: "Must be in YYYY-MM-DD format"},
		})
	}
	return &parsed, nil
}

func parseOptionalUUID(value *string, field string, c echo.Context) (*uuid.UUID, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	parsed, err := uuid.Parse(*value)
	if err != nil {
		return nil, NewValidationError(c, "Invalid ID", []ValidationError{
			{Field: field, Message: "Must be a valid UUID"},
		})
	}
	return &parsed, nil
}

// pathUUID parses a :param path segment as a UUID
func pathUUID(c echo.Context, param string) (uuid.UUID, error) {
	return uuid.Parse(c.Param(param))
}

// expenseFiltersFromQuery reads the optional card/category/status filters
func expenseFiltersFromQuery(c echo.Context) (*domain.ExpenseFilters, error) {
	filters := &domain.ExpenseFilters{}
	if raw := c.QueryParam("cardId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, NewValidationError(c, "Invalid cardId filter", nil)
		}
		filters.CardID = &id
	}
	if raw := c.QueryParam("categoryId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, NewValidationError(c, "Invalid categoryId filter", nil)
		}
		filters.CategoryID = &id
	}
	if raw := c.QueryParam("paymentStatus"); raw != "" {
		status := domain.PaymentStatus(raw)
		if !status.Valid() {
			return nil, NewValidationError(c, "Invalid paymentStatus filter", nil)
		}
		filters.PaymentStatus = &status
	}
	return filters, nil
}

// CreateExpense godoc
// @Summary Create an expense
// @Description Create an expense; credit purchases with installmentsCount > 1 get their cuotas generated
// @Tags expenses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ExpenseRequest true "Expense creation request"
// @Success 201 {object} domain.Expense
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Router /expenses [post]
func (h *ExpenseHandler) CreateExpense(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req ExpenseRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}

	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		return NewValidationError(c, "Invalid categoryId", []ValidationError{
			{Field: "categoryId", Message: "Must be a valid UUID"},
		})
	}

	purchaseDate, herr := parseOptionalDate(req.PurchaseDate, "purchaseDate", c)
	if herr != nil {
		return herr
	}
	firstInstallmentDate, herr := parseOptionalDate(req.FirstInstallmentDate, "firstInstallmentDate", c)
	if herr != nil {
		return herr
	}
	cardID, herr := parseOptionalUUID(req.CardID, "cardId", c)
	if herr != nil {
		return herr
	}
	subcategoryID, herr := parseOptionalUUID(req.SubcategoryID, "subcategoryId", c)
	if herr != nil {
		return herr
	}

	expense, err := h.expenseService.CreateExpense(userID, service.CreateExpenseInput{
		Description:          req.Description,
		Amount:               amount,
		PurchaseDate:         purchaseDate,
		CardID:               cardID,
		CategoryID:           categoryID,
		SubcategoryID:        subcategoryID,
		InstallmentsCount:    req.InstallmentsCount,
		FirstInstallmentDate: firstInstallmentDate,
		IsScheduled:          req.IsScheduled,
		ScheduledMonths:      req.ScheduledMonths,
	})
	if err != nil {
		return RespondDomainError(c, err)
	}

	return c.JSON(http.StatusCreated, expense)
}

// GetExpenses godoc
// @Summary List expenses
// @Tags expenses
// @Produce json
// @Security BearerAuth
// @Param cardId query string false "Filter by card"
// @Param categoryId query string false "Filter by category"
// @Param paymentStatus query string false "Filter by payment status"
// @Success 200 {array} domain.Expense
// @Router /expenses [get]
func (h *ExpenseHandler) GetExpenses(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	filters, herr := expenseFiltersFromQuery(c)
	if herr != nil {
		return herr
	}

	expenses, err := h.expenseService.GetExpenses(userID, filters)
	if err != nil {
		return RespondDomainError(c, err)
	}
	if expenses == nil {
		expenses = []*domain.Expense{}
	}
	return c.JSON(http.StatusOK, expenses)
}

// GetExpenseByID godoc
// @Summary Get one expense
// @Tags expenses
// @Produce json
// @Security BearerAuth
// @Param id path string true "Expense ID"
// @Success 200 {object} domain.Expense
// @Failure 404 {object} ProblemDetails
// @Router /expenses/{id} [get]
func (h *ExpenseHandler) GetExpenseByID(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := pathUUID(c, "id")
	if err != nil {
		return NewNotFoundError(c, "Expense not found")
	}

	expense, err := h.expenseService.GetExpenseByID(userID, id)
	if err != nil {
		return RespondDomainError(c, err)
	}
	return c.JSON(http.StatusOK, expense)
}

// yearMonthFromQuery reads the year/month query params. Missing or malformed
// values come back as 0; the summary service answers an unusable period with
// an empty result instead of an error.
func yearMonthFromQuery(c echo.Context) (int, int) {
	year, _ := strconv.Atoi(c.QueryParam("year"))
	month, _ := strconv.Atoi(c.QueryParam("month"))
	return year, month
}

// GetMonthlyExpenses godoc
// @Summary Month view: direct expenses merged with installments due
// @Tags expenses
// @Produce json
// @Security BearerAuth
// @Param year query int false "Year"
// @Param month query int false "Month 1-12"
// @Param cardId query string false "Filter by card"
// @Param categoryId query string false "Filter by category"
// @Param paymentStatus query string false "Filter by payment status"
// @Success 200 {array} domain.MonthlyItem
// @Router /expenses/monthly [get]
func (h *ExpenseHandler) GetMonthlyExpenses(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	year, month := yearMonthFromQuery(c)
	filters, herr := expenseFiltersFromQuery(c)
	if herr != nil {
		return herr
	}

	items, err := h.summaryService.GetMonthlyItems(userID, year, month, filters)
	if err != nil {
		return RespondDomainError(c, err)
	}
	if items == nil {
		items = []*domain.MonthlyItem{}
	}
	return c.JSON(http.StatusOK, items)
}

// GetMonthlyTotal godoc
// @Summary Month totals: debit/transfer direct spend plus installments due
// @Tags expenses
// @Produce json
// @Security BearerAuth
// @Param year query int false "Year"
// @Param month query int false "Month 1-12"
// @Param cardId query string false "Filter by card"
// @Param categoryId query string false "Filter by category"
// @Param paymentStatus query string false "Filter by payment status"
// @Success 200 {object} domain.MonthlyTotal
// @Router /expenses/monthly-total [get]
func (h *ExpenseHandler) GetMonthlyTotal(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	year, month := yearMonthFromQuery(c)
	filters, herr := expenseFiltersFromQuery(c)
	if herr != nil {
		return herr
	}

	total, err := h.summaryService.GetMonthlyTotal(userID, year, month, filters)
	if err != nil {
		return RespondDomainError(c, err)
	}
	return c.JSON(http.StatusOK, total)
}

// GetAnnualTotal godoc
// @Summary Annual totals: the twelve month windows of one year
// @Tags expenses
// @Produce json
// @Security BearerAuth
// @Param year query int false "Year"
// @Param cardId query string false "Filter by card"
// @Param categoryId query string false "Filter by category"
// @Param paymentStatus query string false "Filter by payment status"
// @Success 200 {object} domain.AnnualTotal
// @Router /expenses/annual-total [get]
func (h *ExpenseHandler) GetAnnualTotal(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	year, _ := strconv.Atoi(c.QueryParam("year"))
	filters, herr := expenseFiltersFromQuery(c)
	if herr != nil {
		return herr
	}

	total, err := h.summaryService.GetAnnualTotal(userID, year, filters)
	if err != nil {
		return RespondDomainError(c, err)
	}
	return c.JSON(http.StatusOK, total)
}

// CreateInstallments godoc
// @Summary Recreate missing installments
// @Description Regenerates the cuotas of an expense whose generation failed at creation
// @Tags expenses
// @Produce json
// @Security BearerAuth
// @Param id path string true "Expense ID"
// @Success 201 {array} domain.Installment
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /expenses/{id}/installments [post]
func (h *ExpenseHandler) CreateInstallments(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := pathUUID(c, "id")
	if err != nil {
		return NewNotFoundError(c, "Expense not found")
	}

	installments, err := h.installmentService.RecreateInstallments(userID, id)
	if err != nil {
		return RespondDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, installments)
}

// GetInstallments godoc
// @Summary List the installments of an expense
// @Tags expenses
// @Produce json
// @Security BearerAuth
// @Param id path string true "Expense ID"
// @Success 200 {array} domain.Installment
// @Router /expenses/{id}/installments [get]
func (h *ExpenseHandler) GetInstallments(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := pathUUID(c, "id")
	if err != nil {
		return NewNotFoundError(c, "Expense not found")
	}

	installments, err := h.installmentService.ListInstallments(userID, id)
	if err != nil {
		return RespondDomainError(c, err)
	}
	if installments == nil {
		installments = []*domain.Installment{}
	}
	return c.JSON(http.StatusOK, installments)
}

// UpdateInstallmentStatus godoc
// @Summary Change one installment's payment status
// @Description Updates the cuota and recomputes the parent expense's status
// @Tags expenses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Installment ID"
// @Param request body UpdateInstallmentStatusRequest true "New status"
// @Success 200 {object} domain.Installment
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /expenses/installments/{id}/status [put]
func (h *ExpenseHandler) UpdateInstallmentStatus(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := pathUUID(c, "id")
	if err != nil {
		return NewNotFoundError(c, "Installment not found")
	}

	var req UpdateInstallmentStatusRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	installment, err := h.installmentService.UpdateInstallmentStatus(userID, id, domain.PaymentStatus(req.PaymentStatus))
	if err != nil {
		return RespondDomainError(c, err)
	}
	return c.JSON(http.StatusOK, installment)
}

// MarkAsPaid godoc
// @Summary Apply a payment status to an expense or a single installment
// @Description The id may be an expense UUID or "installment-<uuid>" for one cuota; the body status defaults to pagada
// @Tags expenses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Expense ID or installment-<uuid>"
// @Param request body MarkAsPaidRequest false "Status to apply (default pagada)"
// @Success 200 {object} domain.Expense
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /expenses/{id}/mark-as-paid [put]
func (h *ExpenseHandler) MarkAsPaid(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req MarkAsPaidRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	status := domain.PaymentStatusPaid
	if req.PaymentStatus != "" {
		status = domain.PaymentStatus(req.PaymentStatus)
	}

	expense, err := h.installmentService.MarkAsPaid(userID, c.Param("id"), status)
	if err != nil {
		return RespondDomainError(c, err)
	}
	return c.JSON(http.StatusOK, expense)
}

// UpdateExpense godoc
// @Summary Update an expense
// @Tags expenses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Expense ID"
// @Param request body ExpenseRequest true "Expense update request"
// @Success 200 {object} domain.Expense
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /expenses/{id} [put]
func (h *ExpenseHandler) UpdateExpense(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := pathUUID(c, "id")
	if err != nil {
		return NewNotFoundError(c, "Expense not found")
	}

	var req ExpenseRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}

	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		return NewValidationError(c, "Invalid categoryId", []ValidationError{
			{Field: "categoryId", Message: "Must be a valid UUID"},
		})
	}

	purchaseDate := time.Now().UTC().Truncate(24 * time.Hour)
	if parsed, herr := parseOptionalDate(req.PurchaseDate, "purchaseDate", c); herr != nil {
		return herr
	} else if parsed != nil {
		purchaseDate = *parsed
	}

	firstInstallmentDate, herr := parseOptionalDate(req.FirstInstallmentDate, "firstInstallmentDate", c)
	if herr != nil {
		return herr
	}
	cardID, herr := parseOptionalUUID(req.CardID, "cardId", c)
	if herr != nil {
		return herr
	}
	subcategoryID, herr := parseOptionalUUID(req.SubcategoryID, "subcategoryId", c)
	if herr != nil {
		return herr
	}

	expense, err := h.expenseService.UpdateExpense(userID, id, service.UpdateExpenseInput{
		Description:          req.Description,
		Amount:               amount,
		PurchaseDate:         purchaseDate,
		CardID:               cardID,
		CategoryID:           categoryID,
		SubcategoryID:        subcategoryID,
		InstallmentsCount:    req.InstallmentsCount,
		FirstInstallmentDate: firstInstallmentDate,
	})
	if err != nil {
		return RespondDomainError(c, err)
	}
	return c.JSON(http.StatusOK, expense)
}

// DeleteExpense godoc
// @Summary Delete an expense and its installments
// @Tags expenses
// @Security BearerAuth
// @Param id path string true "Expense ID"
// @Success 204
// @Failure 404 {object} ProblemDetails
// @Router /expenses/{id} [delete]
func (h *ExpenseHandler) DeleteExpense(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := pathUUID(c, "id")
	if err != nil {
		return NewNotFoundError(c, "Expense not found")
	}

	if err := h.expenseService.DeleteExpense(userID, id); err != nil {
		return RespondDomainError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteScheduledExpense godoc
// @Summary Delete a scheduled occurrence or the rest of its series
// @Tags expenses
// @Produce json
// @Security BearerAuth
// @Param id path string true "Expense ID"
// @Param deleteOption query string true "current or future"
// @Success 200 {object} map[string]int64
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /expenses/{id}/scheduled [delete]
func (h *ExpenseHandler) DeleteScheduledExpense(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := pathUUID(c, "id")
	if err != nil {
		return NewNotFoundError(c, "Expense not found")
	}

	option := service.DeleteOption(c.QueryParam("deleteOption"))
	deleted, err := h.expenseService.DeleteScheduledExpense(userID, id, option)
	if err != nil {
		return RespondDomainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]int64{"deleted": deleted})
}
