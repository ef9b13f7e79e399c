package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gastosapp/gastos-backend/internal/domain"
	"github.com/gastosapp/gastos-backend/internal/service"
	"github.com/gastosapp/gastos-backend/internal/testutil"
	"github.com/gastosapp/gastos-backend/internal/websocket"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type expenseHandlerFixture struct {
	e               *echo.Echo
	expenseRepo     *testutil.MockExpenseRepository
	installmentRepo *testutil.MockInstallmentRepository
	cardRepo        *testutil.MockCardRepository
	categoryRepo    *testutil.MockCategoryRepository
	handler         *ExpenseHandler

	userID     uuid.UUID
	categoryID uuid.UUID
}

func newExpenseHandlerFixture() *expenseHandlerFixture {
	f := &expenseHandlerFixture{
		e:            echo.New(),
		expenseRepo:  testutil.NewMockExpenseRepository(),
		cardRepo:     testutil.NewMockCardRepository(),
		categoryRepo: testutil.NewMockCategoryRepository(),
		userID:       uuid.New(),
	}
	f.installmentRepo = testutil.NewMockInstallmentRepository(f.expenseRepo)

	category := &domain.Category{ID: uuid.New(), UserID: f.userID, Name: "Supermercado"}
	f.categoryRepo.AddCategory(category)
	f.categoryID = category.ID

	publisher := &websocket.NoOpPublisher{}
	installmentService := service.NewInstallmentService(f.expenseRepo, f.installmentRepo, publisher)
	expenseService := service.NewExpenseService(f.expenseRepo, f.installmentRepo, f.cardRepo, f.categoryRepo, installmentService, service.NoOpReconcilePublisher{}, publisher)
	summaryService := service.NewSummaryService(f.expenseRepo, f.installmentRepo)
	f.handler = NewExpenseHandler(expenseService, installmentService, summaryService)
	return f
}

func (f *expenseHandlerFixture) request(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	c := f.e.NewContext(req, rec)
	setupAuthContextWithUser(c, "auth0|tester", "tester@example.com", "Tester", f.userID)
	return c, rec
}

func TestCreateExpense_Handler_Success(t *testing.T) {
	f := newExpenseHandlerFixture()

	body := `{"description": "Supermercado", "amount": "150.50", "categoryId": "` + f.categoryID.String() + `"}`
	c, rec := f.request(http.MethodPost, "/api/v1/expenses", body)

	if err := f.handler.CreateExpense(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var expense domain.Expense
	if err := json.Unmarshal(rec.Body.Bytes(), &expense); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if expense.Description != "Supermercado" {
		t.Errorf("Expected description 'Supermercado', got %q", expense.Description)
	}
	if !expense.Amount.Equal(decimal.RequireFromString("150.50")) {
		t.Errorf("Expected amount 150.50, got %s", expense.Amount)
	}
	if expense.PaymentStatus != domain.PaymentStatusPaid {
		t.Errorf("Expected cardless expense 'pagada', got %q", expense.PaymentStatus)
	}
}

func TestCreateExpense_Handler_InvalidAmount(t *testing.T) {
	f := newExpenseHandlerFixture()

	body := `{"description": "Supermercado", "amount": "abc", "categoryId": "` + f.categoryID.String() + `"}`
	c, rec := f.request(http.MethodPost, "/api/v1/expenses", body)

	if err := f.handler.CreateExpense(c); err != nil {
		t.Fatalf("Expected handled error response, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestCreateExpense_Handler_Unauthenticated(t *testing.T) {
	f := newExpenseHandlerFixture()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/expenses", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := f.e.NewContext(req, rec)
	// No user in context

	if err := f.handler.CreateExpense(c); err != nil {
		t.Fatalf("Expected handled error response, got %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rec.Code)
	}
}

func TestCreateExpense_Handler_WithInstallments(t *testing.T) {
	f := newExpenseHandlerFixture()
	card := &domain.Card{ID: uuid.New(), UserID: f.userID, Name: "Visa", Type: domain.CardTypeCredit}
	f.cardRepo.AddCard(card)

	body := `{
		"description": "Notebook",
		"amount": "12000",
		"categoryId": "` + f.categoryID.String() + `",
		"cardId": "` + card.ID.String() + `",
		"installmentsCount": 3,
		"firstInstallmentDate": "2025-01-15"
	}`
	c, rec := f.request(http.MethodPost, "/api/v1/expenses", body)

	if err := f.handler.CreateExpense(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var expense domain.Expense
	if err := json.Unmarshal(rec.Body.Bytes(), &expense); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	installments, _ := f.installmentRepo.ListByExpense(expense.ID)
	if len(installments) != 3 {
		t.Fatalf("Expected 3 installments, got %d", len(installments))
	}
	if !installments[0].Amount.Equal(decimal.RequireFromString("4000")) {
		t.Errorf("Expected per-cuota 4000, got %s", installments[0].Amount)
	}
}

func TestGetExpenses_Handler_EmptyIsArray(t *testing.T) {
	f := newExpenseHandlerFixture()

	c, rec := f.request(http.MethodGet, "/api/v1/expenses", "")

	if err := f.handler.GetExpenses(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
		t.Errorf("Expected empty array, got %s", body)
	}
}

func TestGetMonthlyExpenses_Handler(t *testing.T) {
	f := newExpenseHandlerFixture()

	f.expenseRepo.AddExpense(&domain.Expense{
		UserID:            f.userID,
		Description:       "Farmacia",
		Amount:            decimal.RequireFromString("80"),
		PurchaseDate:      time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		CategoryID:        f.categoryID,
		InstallmentsCount: 1,
		PaymentStatus:     domain.PaymentStatusPaid,
	})

	c, rec := f.request(http.MethodGet, "/api/v1/expenses/monthly?year=2025&month=3", "")

	if err := f.handler.GetMonthlyExpenses(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var items []domain.MonthlyItem
	if err := json.Unmarshal(rec.Body.Bytes(), &items); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("Expected 1 item, got %d", len(items))
	}
	if items[0].IsInstallment {
		t.Error("Expected a direct expense item")
	}
}

func TestGetMonthlyExpenses_Handler_InvalidMonthIsEmpty(t *testing.T) {
	f := newExpenseHandlerFixture()

	f.expenseRepo.AddExpense(&domain.Expense{
		UserID:            f.userID,
		Description:       "Farmacia",
		Amount:            decimal.RequireFromString("80"),
		PurchaseDate:      time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		CategoryID:        f.categoryID,
		InstallmentsCount: 1,
		PaymentStatus:     domain.PaymentStatusPaid,
	})

	// An unusable period answers with an empty month, not a 400
	c, rec := f.request(http.MethodGet, "/api/v1/expenses/monthly?year=2025&month=13", "")

	if err := f.handler.GetMonthlyExpenses(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
		t.Errorf("Expected empty array, got %s", body)
	}
}

func TestGetMonthlyTotal_Handler(t *testing.T) {
	f := newExpenseHandlerFixture()

	debit := domain.CardTypeDebit
	f.expenseRepo.AddExpense(&domain.Expense{
		UserID:            f.userID,
		Description:       "Nafta",
		Amount:            decimal.RequireFromString("5000"),
		PurchaseDate:      time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC),
		CategoryID:        f.categoryID,
		InstallmentsCount: 1,
		PaymentStatus:     domain.PaymentStatusPaid,
		CardType:          &debit,
	})

	c, rec := f.request(http.MethodGet, "/api/v1/expenses/monthly-total?year=2025&month=3", "")

	if err := f.handler.GetMonthlyTotal(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var total domain.MonthlyTotal
	if err := json.Unmarshal(rec.Body.Bytes(), &total); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if !total.TotalDebitTransfer.Equal(decimal.RequireFromString("5000")) {
		t.Errorf("Expected totalDebitTransfer 5000, got %s", total.TotalDebitTransfer)
	}
	if total.ExpensesCount != 1 {
		t.Errorf("Expected expensesCount 1, got %d", total.ExpensesCount)
	}
}

func TestGetMonthlyTotal_Handler_CardFilter(t *testing.T) {
	f := newExpenseHandlerFixture()

	debit := domain.CardTypeDebit
	cardA := uuid.New()
	cardB := uuid.New()
	f.expenseRepo.AddExpense(&domain.Expense{
		ID:                uuid.New(),
		UserID:            f.userID,
		Description:       "Nafta",
		Amount:            decimal.RequireFromString("5000"),
		PurchaseDate:      time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC),
		CategoryID:        f.categoryID,
		InstallmentsCount: 1,
		PaymentStatus:     domain.PaymentStatusPaid,
		CardID:            &cardA,
		CardType:          &debit,
	})
	f.expenseRepo.AddExpense(&domain.Expense{
		ID:                uuid.New(),
		UserID:            f.userID,
		Description:       "Supermercado",
		Amount:            decimal.RequireFromString("7000"),
		PurchaseDate:      time.Date(2025, 3, 8, 0, 0, 0, 0, time.UTC),
		CategoryID:        f.categoryID,
		InstallmentsCount: 1,
		PaymentStatus:     domain.PaymentStatusPaid,
		CardID:            &cardB,
		CardType:          &debit,
	})

	c, rec := f.request(http.MethodGet, "/api/v1/expenses/monthly-total?year=2025&month=3&cardId="+cardA.String(), "")

	if err := f.handler.GetMonthlyTotal(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var total domain.MonthlyTotal
	if err := json.Unmarshal(rec.Body.Bytes(), &total); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if !total.TotalDebitTransfer.Equal(decimal.RequireFromString("5000")) {
		t.Errorf("Expected totalDebitTransfer 5000 for the filtered card, got %s", total.TotalDebitTransfer)
	}
	if total.ExpensesCount != 1 {
		t.Errorf("Expected expensesCount 1, got %d", total.ExpensesCount)
	}
}

func TestMarkAsPaid_Handler_InstallmentPrefix(t *testing.T) {
	f := newExpenseHandlerFixture()

	firstDate := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	expense := &domain.Expense{
		ID:                   uuid.New(),
		UserID:               f.userID,
		Description:          "Notebook",
		Amount:               decimal.RequireFromString("3000"),
		PurchaseDate:         firstDate,
		CategoryID:           f.categoryID,
		InstallmentsCount:    3,
		FirstInstallmentDate: &firstDate,
		PaymentStatus:        domain.PaymentStatusPending,
	}
	f.expenseRepo.AddExpense(expense)
	inst := &domain.Installment{
		ID:            uuid.New(),
		ExpenseID:     expense.ID,
		Number:        1,
		Amount:        decimal.RequireFromString("1000"),
		DueDate:       firstDate,
		PaymentStatus: domain.PaymentStatusPending,
	}
	f.installmentRepo.Installments[inst.ID] = inst

	c, rec := f.request(http.MethodPut, "/api/v1/expenses/installment-"+inst.ID.String()+"/mark-as-paid", "")
	c.SetParamNames("id")
	c.SetParamValues("installment-" + inst.ID.String())

	if err := f.handler.MarkAsPaid(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if inst.PaymentStatus != domain.PaymentStatusPaid {
		t.Errorf("Expected installment 'pagada', got %q", inst.PaymentStatus)
	}
}

func TestMarkAsPaid_Handler_StatusBody(t *testing.T) {
	f := newExpenseHandlerFixture()

	expense := &domain.Expense{
		ID:                uuid.New(),
		UserID:            f.userID,
		Description:       "Luz",
		Amount:            decimal.RequireFromString("45.50"),
		PurchaseDate:      time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC),
		CategoryID:        f.categoryID,
		InstallmentsCount: 1,
		PaymentStatus:     domain.PaymentStatusPending,
	}
	f.expenseRepo.AddExpense(expense)

	body := `{"paymentStatus": "en_deuda"}`
	c, rec := f.request(http.MethodPut, "/api/v1/expenses/"+expense.ID.String()+"/mark-as-paid", body)
	c.SetParamNames("id")
	c.SetParamValues(expense.ID.String())

	if err := f.handler.MarkAsPaid(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var updated domain.Expense
	if err := json.Unmarshal(rec.Body.Bytes(), &updated); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if updated.PaymentStatus != domain.PaymentStatusInDebt {
		t.Errorf("Expected 'en_deuda', got %q", updated.PaymentStatus)
	}
}

func TestMarkAsPaid_Handler_InvalidStatus(t *testing.T) {
	f := newExpenseHandlerFixture()

	body := `{"paymentStatus": "settled"}`
	c, rec := f.request(http.MethodPut, "/api/v1/expenses/"+uuid.New().String()+"/mark-as-paid", body)
	c.SetParamNames("id")
	c.SetParamValues(uuid.New().String())

	if err := f.handler.MarkAsPaid(c); err != nil {
		t.Fatalf("Expected handled error response, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestUpdateInstallmentStatus_Handler_InvalidStatus(t *testing.T) {
	f := newExpenseHandlerFixture()

	body := `{"paymentStatus": "whatever"}`
	c, rec := f.request(http.MethodPut, "/api/v1/expenses/installments/"+uuid.New().String()+"/status", body)
	c.SetParamNames("id")
	c.SetParamValues(uuid.New().String())

	if err := f.handler.UpdateInstallmentStatus(c); err != nil {
		t.Fatalf("Expected handled error response, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestDeleteScheduledExpense_Handler_Future(t *testing.T) {
	f := newExpenseHandlerFixture()

	seriesID := uuid.New()
	var target *domain.Expense
	for i := 0; i < 3; i++ {
		e := &domain.Expense{
			ID:                uuid.New(),
			UserID:            f.userID,
			Description:       "Netflix",
			Amount:            decimal.RequireFromString("15"),
			PurchaseDate:      time.Date(2025, time.Month(1+i), 10, 0, 0, 0, 0, time.UTC),
			CategoryID:        f.categoryID,
			InstallmentsCount: 1,
			PaymentStatus:     domain.PaymentStatusPaid,
			IsScheduled:       true,
			SeriesID:          &seriesID,
		}
		f.expenseRepo.AddExpense(e)
		if i == 1 {
			target = e
		}
	}

	c, rec := f.request(http.MethodDelete, "/api/v1/expenses/"+target.ID.String()+"/scheduled?deleteOption=future", "")
	c.SetParamNames("id")
	c.SetParamValues(target.ID.String())

	if err := f.handler.DeleteScheduledExpense(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var resp map[string]int64
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if resp["deleted"] != 2 {
		t.Errorf("Expected 2 deleted, got %d", resp["deleted"])
	}
}

func TestDeleteExpense_Handler_NotFound(t *testing.T) {
	f := newExpenseHandlerFixture()

	c, rec := f.request(http.MethodDelete, "/api/v1/expenses/"+uuid.New().String(), "")
	c.SetParamNames("id")
	c.SetParamValues(uuid.New().String())

	if err := f.handler.DeleteExpense(c); err != nil {
		t.Fatalf("Expected handled error response, got %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}
