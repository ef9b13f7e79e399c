package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/gastosapp/gastos-backend/internal/domain"
	"github.com/gastosapp/gastos-backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestCreateCard_Success(t *testing.T) {
	cardRepo := testutil.NewMockCardRepository()
	svc := NewCardService(cardRepo)

	userID := uuid.New()
	day := int32(10)
	limit := decimal.RequireFromString("50000")

	card, err := svc.CreateCard(userID, CardInput{
		Name:        "  Visa Gold  ",
		Type:        domain.CardTypeCredit,
		PaymentDay:  &day,
		CreditLimit: &limit,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if card.Name != "Visa Gold" {
		t.Errorf("Expected trimmed name 'Visa Gold', got %q", card.Name)
	}
	if card.Type != domain.CardTypeCredit {
		t.Errorf("Expected type 'credito', got %q", card.Type)
	}
}

func TestCreateCard_Validation(t *testing.T) {
	cardRepo := testutil.NewMockCardRepository()
	svc := NewCardService(cardRepo)
	userID := uuid.New()

	if _, err := svc.CreateCard(userID, CardInput{Name: " ", Type: domain.CardTypeDebit}); !errors.Is(err, domain.ErrNameRequired) {
		t.Errorf("Expected ErrNameRequired, got %v", err)
	}

	longName := strings.Repeat("x", domain.MaxNameLength+1)
	if _, err := svc.CreateCard(userID, CardInput{Name: longName, Type: domain.CardTypeDebit}); !errors.Is(err, domain.ErrNameTooLong) {
		t.Errorf("Expected ErrNameTooLong, got %v", err)
	}

	if _, err := svc.CreateCard(userID, CardInput{Name: "Visa", Type: "prepaid"}); !errors.Is(err, domain.ErrInvalidCardType) {
		t.Errorf("Expected ErrInvalidCardType, got %v", err)
	}

	badDay := int32(32)
	if _, err := svc.CreateCard(userID, CardInput{Name: "Visa", Type: domain.CardTypeCredit, PaymentDay: &badDay}); !errors.Is(err, domain.ErrInvalidPaymentDay) {
		t.Errorf("Expected ErrInvalidPaymentDay, got %v", err)
	}

	zeroLimit := decimal.Zero
	if _, err := svc.CreateCard(userID, CardInput{Name: "Visa", Type: domain.CardTypeCredit, CreditLimit: &zeroLimit}); !errors.Is(err, domain.ErrInvalidAmount) {
		t.Errorf("Expected ErrInvalidAmount, got %v", err)
	}
}

func TestUpdateCard_NotFound(t *testing.T) {
	cardRepo := testutil.NewMockCardRepository()
	svc := NewCardService(cardRepo)

	if _, err := svc.UpdateCard(uuid.New(), uuid.New(), CardInput{Name: "Visa", Type: domain.CardTypeDebit}); !errors.Is(err, domain.ErrCardNotFound) {
		t.Errorf("Expected ErrCardNotFound, got %v", err)
	}
}

func TestDeleteCard_OtherUser(t *testing.T) {
	cardRepo := testutil.NewMockCardRepository()
	svc := NewCardService(cardRepo)

	ownerID := uuid.New()
	card, err := svc.CreateCard(ownerID, CardInput{Name: "Visa", Type: domain.CardTypeDebit})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if err := svc.DeleteCard(uuid.New(), card.ID); !errors.Is(err, domain.ErrCardNotFound) {
		t.Errorf("Expected ErrCardNotFound for foreign user, got %v", err)
	}
	if _, err := svc.GetCardByID(ownerID, card.ID); err != nil {
		t.Errorf("Expected card to survive, got %v", err)
	}
}
