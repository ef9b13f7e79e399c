package service

import (
	"testing"
	"time"

	"github.com/gastosapp/gastos-backend/internal/domain"
	"github.com/gastosapp/gastos-backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func addDirectExpense(repo *testutil.MockExpenseRepository, userID uuid.UUID, amount string, date time.Time, cardType *domain.CardType) *domain.Expense {
	expense := &domain.Expense{
		ID:                uuid.New(),
		UserID:            userID,
		Description:       "Compra",
		Amount:            decimal.RequireFromString(amount),
		PurchaseDate:      date,
		CategoryID:        uuid.New(),
		InstallmentsCount: 1,
		PaymentStatus:     domain.PaymentStatusPaid,
		CardType:          cardType,
	}
	if cardType != nil {
		cardID := uuid.New()
		expense.CardID = &cardID
	}
	repo.AddExpense(expense)
	return expense
}

func addInstallmentDue(expenseRepo *testutil.MockExpenseRepository, installmentRepo *testutil.MockInstallmentRepository, userID uuid.UUID, amount string, dueDate time.Time, status domain.PaymentStatus) *domain.Installment {
	purchase := dueDate.AddDate(0, -2, 0)
	expense := &domain.Expense{
		ID:                   uuid.New(),
		UserID:               userID,
		Description:          "Compra en cuotas",
		Amount:               decimal.RequireFromString(amount).Mul(decimal.NewFromInt(3)),
		PurchaseDate:         purchase,
		CategoryID:           uuid.New(),
		InstallmentsCount:    3,
		FirstInstallmentDate: &purchase,
		PaymentStatus:        domain.PaymentStatusPending,
	}
	expenseRepo.AddExpense(expense)

	inst := &domain.Installment{
		ID:            uuid.New(),
		ExpenseID:     expense.ID,
		Number:        1,
		Amount:        decimal.RequireFromString(amount),
		DueDate:       dueDate,
		PaymentStatus: status,
	}
	installmentRepo.Installments[inst.ID] = inst
	return inst
}

func TestGetMonthlyItems_MergesDirectAndInstallments(t *testing.T) {
	expenseRepo := testutil.NewMockExpenseRepository()
	installmentRepo := testutil.NewMockInstallmentRepository(expenseRepo)
	svc := NewSummaryService(expenseRepo, installmentRepo)

	userID := uuid.New()
	addDirectExpense(expenseRepo, userID, "500", time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), nil)
	addInstallmentDue(expenseRepo, installmentRepo, userID, "1000", time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC), domain.PaymentStatusPending)

	items, err := svc.GetMonthlyItems(userID, 2025, 3, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(items))
	}

	if items[0].IsInstallment {
		t.Error("Expected direct expense first")
	}
	if !items[1].IsInstallment {
		t.Error("Expected installment second")
	}
	if items[1].InstallmentNumber == nil || *items[1].InstallmentNumber != 1 {
		t.Error("Expected installment number 1")
	}
}

func TestGetMonthlyItems_WindowBoundaries(t *testing.T) {
	expenseRepo := testutil.NewMockExpenseRepository()
	installmentRepo := testutil.NewMockInstallmentRepository(expenseRepo)
	svc := NewSummaryService(expenseRepo, installmentRepo)

	userID := uuid.New()
	// First day of the month is in; first day of the next month is out.
	inExpense := addDirectExpense(expenseRepo, userID, "100", time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), nil)
	addDirectExpense(expenseRepo, userID, "200", time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), nil)
	addDirectExpense(expenseRepo, userID, "300", time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC), nil)

	items, err := svc.GetMonthlyItems(userID, 2025, 3, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("Expected 1 item, got %d", len(items))
	}
	if items[0].ID != inExpense.ID {
		t.Errorf("Expected expense %s, got %s", inExpense.ID, items[0].ID)
	}
}

func TestGetMonthlyItems_InstallmentAppearsByDueDateOnly(t *testing.T) {
	expenseRepo := testutil.NewMockExpenseRepository()
	installmentRepo := testutil.NewMockInstallmentRepository(expenseRepo)
	svc := NewSummaryService(expenseRepo, installmentRepo)

	userID := uuid.New()
	// Purchased in January, cuota due in March: shows in March, not January.
	addInstallmentDue(expenseRepo, installmentRepo, userID, "1000", time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC), domain.PaymentStatusPaid)

	march, err := svc.GetMonthlyItems(userID, 2025, 3, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(march) != 1 {
		t.Fatalf("Expected 1 item in March, got %d", len(march))
	}

	january, err := svc.GetMonthlyItems(userID, 2025, 1, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(january) != 0 {
		t.Errorf("Expected no items in January, got %d", len(january))
	}
}

func TestGetMonthlyItems_Idempotent(t *testing.T) {
	expenseRepo := testutil.NewMockExpenseRepository()
	installmentRepo := testutil.NewMockInstallmentRepository(expenseRepo)
	svc := NewSummaryService(expenseRepo, installmentRepo)

	userID := uuid.New()
	addDirectExpense(expenseRepo, userID, "500", time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), nil)
	addInstallmentDue(expenseRepo, installmentRepo, userID, "1000", time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC), domain.PaymentStatusPending)

	first, err := svc.GetMonthlyItems(userID, 2025, 3, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	second, err := svc.GetMonthlyItems(userID, 2025, 3, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("Expected identical results, got %d then %d items", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Errorf("Item %d differs between reads", i)
		}
	}
}

func TestGetMonthlyItems_InvalidMonthIsEmpty(t *testing.T) {
	expenseRepo := testutil.NewMockExpenseRepository()
	installmentRepo := testutil.NewMockInstallmentRepository(expenseRepo)
	svc := NewSummaryService(expenseRepo, installmentRepo)

	userID := uuid.New()
	addDirectExpense(expenseRepo, userID, "500", time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), nil)

	// An unusable period is answered with an empty month, not an error
	for _, month := range []int{0, 13} {
		items, err := svc.GetMonthlyItems(userID, 2025, month, nil)
		if err != nil {
			t.Fatalf("Expected no error for month %d, got %v", month, err)
		}
		if len(items) != 0 {
			t.Errorf("Expected no items for month %d, got %d", month, len(items))
		}
	}
}

func TestGetMonthlyTotal_Buckets(t *testing.T) {
	expenseRepo := testutil.NewMockExpenseRepository()
	installmentRepo := testutil.NewMockInstallmentRepository(expenseRepo)
	svc := NewSummaryService(expenseRepo, installmentRepo)

	userID := uuid.New()
	debit := domain.CardTypeDebit
	addDirectExpense(expenseRepo, userID, "5000", time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC), &debit)
	addInstallmentDue(expenseRepo, installmentRepo, userID, "3000", time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC), domain.PaymentStatusPaid)

	total, err := svc.GetMonthlyTotal(userID, 2025, 3, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !total.TotalDebitTransfer.Equal(decimal.RequireFromString("5000")) {
		t.Errorf("Expected totalDebitTransfer 5000, got %s", total.TotalDebitTransfer)
	}
	if !total.TotalCredit.Equal(decimal.RequireFromString("3000")) {
		t.Errorf("Expected totalCredit 3000, got %s", total.TotalCredit)
	}
	if !total.TotalExpenses.Equal(decimal.RequireFromString("8000")) {
		t.Errorf("Expected totalExpenses 8000, got %s", total.TotalExpenses)
	}
	if total.ExpensesCount != 1 {
		t.Errorf("Expected expensesCount 1, got %d", total.ExpensesCount)
	}
	if total.InstallmentsCount != 1 {
		t.Errorf("Expected installmentsCount 1, got %d", total.InstallmentsCount)
	}
}

func TestGetMonthlyTotal_CardlessCountsAsDebitTransfer(t *testing.T) {
	expenseRepo := testutil.NewMockExpenseRepository()
	installmentRepo := testutil.NewMockInstallmentRepository(expenseRepo)
	svc := NewSummaryService(expenseRepo, installmentRepo)

	userID := uuid.New()
	addDirectExpense(expenseRepo, userID, "750", time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC), nil)

	total, err := svc.GetMonthlyTotal(userID, 2025, 3, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !total.TotalDebitTransfer.Equal(decimal.RequireFromString("750")) {
		t.Errorf("Expected totalDebitTransfer 750, got %s", total.TotalDebitTransfer)
	}
}

func TestGetMonthlyTotal_CreditDirectExcludedFromBothBuckets(t *testing.T) {
	expenseRepo := testutil.NewMockExpenseRepository()
	installmentRepo := testutil.NewMockInstallmentRepository(expenseRepo)
	svc := NewSummaryService(expenseRepo, installmentRepo)

	userID := uuid.New()
	credit := domain.CardTypeCredit
	addDirectExpense(expenseRepo, userID, "900", time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC), &credit)

	total, err := svc.GetMonthlyTotal(userID, 2025, 3, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// A single-cuota credit purchase is counted but sums into neither bucket
	if total.ExpensesCount != 1 {
		t.Errorf("Expected expensesCount 1, got %d", total.ExpensesCount)
	}
	if !total.TotalDebitTransfer.IsZero() {
		t.Errorf("Expected totalDebitTransfer 0, got %s", total.TotalDebitTransfer)
	}
	if !total.TotalCredit.IsZero() {
		t.Errorf("Expected totalCredit 0, got %s", total.TotalCredit)
	}
	if !total.TotalExpenses.IsZero() {
		t.Errorf("Expected totalExpenses 0, got %s", total.TotalExpenses)
	}
}

func TestGetMonthlyTotal_PaidInstallmentsStillCount(t *testing.T) {
	expenseRepo := testutil.NewMockExpenseRepository()
	installmentRepo := testutil.NewMockInstallmentRepository(expenseRepo)
	svc := NewSummaryService(expenseRepo, installmentRepo)

	userID := uuid.New()
	addInstallmentDue(expenseRepo, installmentRepo, userID, "2000", time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC), domain.PaymentStatusPaid)
	addInstallmentDue(expenseRepo, installmentRepo, userID, "1500", time.Date(2025, 3, 18, 0, 0, 0, 0, time.UTC), domain.PaymentStatusInDebt)

	total, err := svc.GetMonthlyTotal(userID, 2025, 3, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !total.TotalCredit.Equal(decimal.RequireFromString("3500")) {
		t.Errorf("Expected totalCredit 3500, got %s", total.TotalCredit)
	}
}

func TestGetMonthlyTotal_FiltersByCard(t *testing.T) {
	expenseRepo := testutil.NewMockExpenseRepository()
	installmentRepo := testutil.NewMockInstallmentRepository(expenseRepo)
	svc := NewSummaryService(expenseRepo, installmentRepo)

	userID := uuid.New()
	debit := domain.CardTypeDebit
	cardA := uuid.New()
	cardB := uuid.New()

	onA := addDirectExpense(expenseRepo, userID, "5000", time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC), &debit)
	onA.CardID = &cardA
	onB := addDirectExpense(expenseRepo, userID, "7000", time.Date(2025, 3, 8, 0, 0, 0, 0, time.UTC), &debit)
	onB.CardID = &cardB

	total, err := svc.GetMonthlyTotal(userID, 2025, 3, &domain.ExpenseFilters{CardID: &cardA})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !total.TotalDebitTransfer.Equal(decimal.RequireFromString("5000")) {
		t.Errorf("Expected totalDebitTransfer 5000 for card A only, got %s", total.TotalDebitTransfer)
	}
	if total.ExpensesCount != 1 {
		t.Errorf("Expected expensesCount 1, got %d", total.ExpensesCount)
	}
}

func TestGetMonthlyTotal_FiltersApplyToInstallments(t *testing.T) {
	expenseRepo := testutil.NewMockExpenseRepository()
	installmentRepo := testutil.NewMockInstallmentRepository(expenseRepo)
	svc := NewSummaryService(expenseRepo, installmentRepo)

	userID := uuid.New()
	paid := domain.PaymentStatusPaid
	addInstallmentDue(expenseRepo, installmentRepo, userID, "2000", time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC), domain.PaymentStatusPaid)
	addInstallmentDue(expenseRepo, installmentRepo, userID, "1500", time.Date(2025, 3, 18, 0, 0, 0, 0, time.UTC), domain.PaymentStatusPending)

	total, err := svc.GetMonthlyTotal(userID, 2025, 3, &domain.ExpenseFilters{PaymentStatus: &paid})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !total.TotalCredit.Equal(decimal.RequireFromString("2000")) {
		t.Errorf("Expected totalCredit 2000 with pagada filter, got %s", total.TotalCredit)
	}
	if total.InstallmentsCount != 1 {
		t.Errorf("Expected installmentsCount 1, got %d", total.InstallmentsCount)
	}
}

func TestGetMonthlyTotal_InvalidMonthIsZeroed(t *testing.T) {
	expenseRepo := testutil.NewMockExpenseRepository()
	installmentRepo := testutil.NewMockInstallmentRepository(expenseRepo)
	svc := NewSummaryService(expenseRepo, installmentRepo)

	userID := uuid.New()
	addDirectExpense(expenseRepo, userID, "500", time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), nil)

	total, err := svc.GetMonthlyTotal(userID, 2025, 13, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !total.TotalExpenses.IsZero() || total.ExpensesCount != 0 {
		t.Errorf("Expected zeroed totals for month 13, got %s / %d", total.TotalExpenses, total.ExpensesCount)
	}
}

func TestGetAnnualTotal_SumsTwelveMonths(t *testing.T) {
	expenseRepo := testutil.NewMockExpenseRepository()
	installmentRepo := testutil.NewMockInstallmentRepository(expenseRepo)
	svc := NewSummaryService(expenseRepo, installmentRepo)

	userID := uuid.New()
	addDirectExpense(expenseRepo, userID, "100", time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC), nil)
	addDirectExpense(expenseRepo, userID, "200", time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC), nil)
	addInstallmentDue(expenseRepo, installmentRepo, userID, "50", time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC), domain.PaymentStatusPending)
	// Out of year
	addDirectExpense(expenseRepo, userID, "999", time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), nil)

	annual, err := svc.GetAnnualTotal(userID, 2025, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if annual.Year != 2025 {
		t.Errorf("Expected year 2025, got %d", annual.Year)
	}
	if len(annual.Months) != 12 {
		t.Fatalf("Expected 12 month entries, got %d", len(annual.Months))
	}
	if !annual.Total.TotalExpenses.Equal(decimal.RequireFromString("350")) {
		t.Errorf("Expected annual total 350, got %s", annual.Total.TotalExpenses)
	}
	if annual.Total.ExpensesCount != 2 {
		t.Errorf("Expected 2 direct expenses, got %d", annual.Total.ExpensesCount)
	}
	if annual.Total.InstallmentsCount != 1 {
		t.Errorf("Expected 1 installment, got %d", annual.Total.InstallmentsCount)
	}

	june := annual.Months[5]
	if june.Month != 6 {
		t.Fatalf("Expected month 6 at index 5, got %d", june.Month)
	}
	if !june.TotalDebitTransfer.Equal(decimal.RequireFromString("200")) {
		t.Errorf("Expected June totalDebitTransfer 200, got %s", june.TotalDebitTransfer)
	}
}
