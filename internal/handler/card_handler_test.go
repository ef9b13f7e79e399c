package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gastosapp/gastos-backend/internal/domain"
	"github.com/gastosapp/gastos-backend/internal/service"
	"github.com/gastosapp/gastos-backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func newCardHandlerFixture() (*echo.Echo, *testutil.MockCardRepository, *CardHandler, uuid.UUID) {
	e := echo.New()
	cardRepo := testutil.NewMockCardRepository()
	handler := NewCardHandler(service.NewCardService(cardRepo))
	return e, cardRepo, handler, uuid.New()
}

func TestCreateCard_Handler_Success(t *testing.T) {
	e, _, handler, userID := newCardHandlerFixture()

	body := `{"name": "Visa Gold", "type": "credito", "paymentDay": 10, "creditLimit": "50000"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cards", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContextWithUser(c, "auth0|tester", "tester@example.com", "Tester", userID)

	if err := handler.CreateCard(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var card domain.Card
	if err := json.Unmarshal(rec.Body.Bytes(), &card); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if card.Name != "Visa Gold" {
		t.Errorf("Expected name 'Visa Gold', got %q", card.Name)
	}
	if card.Type != domain.CardTypeCredit {
		t.Errorf("Expected type 'credito', got %q", card.Type)
	}
}

func TestCreateCard_Handler_InvalidType(t *testing.T) {
	e, _, handler, userID := newCardHandlerFixture()

	body := `{"name": "Visa", "type": "prepaid"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cards", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContextWithUser(c, "auth0|tester", "tester@example.com", "Tester", userID)

	if err := handler.CreateCard(c); err != nil {
		t.Fatalf("Expected handled error response, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestGetCardByID_Handler_ForeignCardIs404(t *testing.T) {
	e, cardRepo, handler, userID := newCardHandlerFixture()

	foreign := &domain.Card{ID: uuid.New(), UserID: uuid.New(), Name: "Ajena", Type: domain.CardTypeDebit}
	cardRepo.AddCard(foreign)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cards/"+foreign.ID.String(), nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(foreign.ID.String())
	setupAuthContextWithUser(c, "auth0|tester", "tester@example.com", "Tester", userID)

	if err := handler.GetCardByID(c); err != nil {
		t.Fatalf("Expected handled error response, got %v", err)
	}
	// Ownership misses read as 404, never 403
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}
