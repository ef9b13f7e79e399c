package handler

import (
	"net/http"

	"github.com/gastosapp/gastos-backend/internal/domain"
	"github.com/gastosapp/gastos-backend/internal/middleware"
	"github.com/gastosapp/gastos-backend/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// CardHandler handles card-related HTTP requests
type CardHandler struct {
	cardService *service.CardService
}

// NewCardHandler creates a new CardHandler
func NewCardHandler(cardService *service.CardService) *CardHandler {
	return &CardHandler{cardService: cardService}
}

// CardRequest represents the create/update card request body
type CardRequest struct {
	Name        string  `json:"name"`
	Type        string  `json:"type"`
	Bank        *string `json:"bank,omitempty"`
	PaymentDay  *int32  `json:"paymentDay,omitempty"`
	CreditLimit *string `json:"creditLimit,omitempty"`
}

func (r *CardRequest) toInput(c echo.Context) (service.CardInput, error) {
	input := service.CardInput{
		Name:       r.Name,
		Type:       domain.CardType(r.Type),
		Bank:       r.Bank,
		PaymentDay: r.PaymentDay,
	}
	if r.CreditLimit != nil && *r.CreditLimit != "" {
		limit, err := decimal.NewFromString(*r.CreditLimit)
		if err != nil {
			return input, NewValidationError(c, "Invalid creditLimit", []ValidationError{
				{Field: "creditLimit", Message: "Must be a valid decimal number"},
			})
		}
		input.CreditLimit = &limit
	}
	return input, nil
}

// CreateCard godoc
// @Summary Create a card
// @Tags cards
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CardRequest true "Card creation request"
// @Success 201 {object} domain.Card
// @Failure 400 {object} ProblemDetails
// @Router /cards [post]
func (h *CardHandler) CreateCard(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req CardRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input, herr := req.toInput(c)
	if herr != nil {
		return herr
	}

	card, err := h.cardService.CreateCard(userID, input)
	if err != nil {
		return RespondDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, card)
}

// GetCards godoc
// @Summary List the user's cards
// @Tags cards
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.Card
// @Router /cards [get]
func (h *CardHandler) GetCards(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	cards, err := h.cardService.GetCards(userID)
	if err != nil {
		return RespondDomainError(c, err)
	}
	if cards == nil {
		cards = []*domain.Card{}
	}
	return c.JSON(http.StatusOK, cards)
}

// GetCardByID godoc
// @Summary Get one card
// @Tags cards
// @Produce json
// @Security BearerAuth
// @Param id path string true "Card ID"
// @Success 200 {object} domain.Card
// @Failure 404 {object} ProblemDetails
// @Router /cards/{id} [get]
func (h *CardHandler) GetCardByID(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := pathUUID(c, "id")
	if err != nil {
		return NewNotFoundError(c, "Card not found")
	}

	card, err := h.cardService.GetCardByID(userID, id)
	if err != nil {
		return RespondDomainError(c, err)
	}
	return c.JSON(http.StatusOK, card)
}

// UpdateCard godoc
// @Summary Update a card
// @Tags cards
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Card ID"
// @Param request body CardRequest true "Card update request"
// @Success 200 {object} domain.Card
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /cards/{id} [put]
func (h *CardHandler) UpdateCard(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := pathUUID(c, "id")
	if err != nil {
		return NewNotFoundError(c, "Card not found")
	}

	var req CardRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input, herr := req.toInput(c)
	if herr != nil {
		return herr
	}

	card, err := h.cardService.UpdateCard(userID, id, input)
	if err != nil {
		return RespondDomainError(c, err)
	}
	return c.JSON(http.StatusOK, card)
}

// DeleteCard godoc
// @Summary Delete a card
// @Tags cards
// @Security BearerAuth
// @Param id path string true "Card ID"
// @Success 204
// @Failure 404 {object} ProblemDetails
// @Router /cards/{id} [delete]
func (h *CardHandler) DeleteCard(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := pathUUID(c, "id")
	if err != nil {
		return NewNotFoundError(c, "Card not found")
	}

	if err := h.cardService.DeleteCard(userID, id); err != nil {
		return RespondDomainError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
