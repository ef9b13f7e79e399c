package service

import (
	"strings"

	"github.com/gastosapp/gastos-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CardService handles card business logic
type CardService struct {
	cardRepo domain.CardRepository
}

// NewCardService creates a new CardService
func NewCardService(cardRepo domain.CardRepository) *CardService {
	return &CardService{cardRepo: cardRepo}
}

// CardInput holds the input for creating or updating a card
type CardInput struct {
	Name        string
	Type        domain.CardType
	Bank        *string
	PaymentDay  *int32
	CreditLimit *decimal.Decimal
}

func (s *CardService) validate(input *CardInput) error {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return domain.ErrNameRequired
	}
	if len(input.Name) > domain.MaxNameLength {
		return domain.ErrNameTooLong
	}
	if !input.Type.Valid() {
		return domain.ErrInvalidCardType
	}
	if input.PaymentDay != nil && (*input.PaymentDay < 1 || *input.PaymentDay > 31) {
		return domain.ErrInvalidPaymentDay
	}
	if input.CreditLimit != nil && input.CreditLimit.LessThanOrEqual(decimal.Zero) {
		return domain.ErrInvalidAmount
	}
	return nil
}

// CreateCard creates a new card
func (s *CardService) CreateCard(userID uuid.UUID, input CardInput) (*domain.Card, error) {
	if err := s.validate(&input); err != nil {
		return nil, err
	}
	return s.cardRepo.Create(&domain.Card{
		UserID:      userID,
		Name:        input.Name,
		Type:        input.Type,
		Bank:        input.Bank,
		PaymentDay:  input.PaymentDay,
		CreditLimit: input.CreditLimit,
	})
}

// GetCards retrieves all cards for a user
func (s *CardService) GetCards(userID uuid.UUID) ([]*domain.Card, error) {
	return s.cardRepo.ListByUser(userID)
}

// GetCardByID retrieves one card the user owns
func (s *CardService) GetCardByID(userID, id uuid.UUID) (*domain.Card, error) {
	return s.cardRepo.GetByID(userID, id)
}

// UpdateCard updates an existing card
func (s *CardService) UpdateCard(userID, id uuid.UUID, input CardInput) (*domain.Card, error) {
	if err := s.validate(&input); err != nil {
		return nil, err
	}
	return s.cardRepo.Update(&domain.Card{
		ID:          id,
		UserID:      userID,
		Name:        input.Name,
		Type:        input.Type,
		Bank:        input.Bank,
		PaymentDay:  input.PaymentDay,
		CreditLimit: input.CreditLimit,
	})
}

// DeleteCard removes a card. Existing expenses keep their rows and lose the
// card reference.
func (s *CardService) DeleteCard(userID, id uuid.UUID) error {
	return s.cardRepo.Delete(userID, id)
}
