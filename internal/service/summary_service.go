package service

import (
	"github.com/gastosapp/gastos-backend/internal/domain"
	"github.com/gastosapp/gastos-backend/internal/util"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SummaryService merges direct expenses and installments into month views
// and computes their totals.
type SummaryService struct {
	expenseRepo     domain.ExpenseRepository
	installmentRepo domain.InstallmentRepository
}

// NewSummaryService creates a new SummaryService
func NewSummaryService(expenseRepo domain.ExpenseRepository, installmentRepo domain.InstallmentRepository) *SummaryService {
	return &SummaryService{
		expenseRepo:     expenseRepo,
		installmentRepo: installmentRepo,
	}
}

// GetMonthlyItems returns the month's merged view: direct expenses by
// purchase date, newest first, followed by installments due in the month in
// due-date order. An installment shows up in the month its cuota falls due,
// no matter when the purchase happened or what state it is in.
func (s *SummaryService) GetMonthlyItems(userID uuid.UUID, year, month int, filters *domain.ExpenseFilters) ([]*domain.MonthlyItem, error) {
	// An out-of-range month/year yields an empty month, not an error
	if !util.ValidYearMonth(year, month) {
		return []*domain.MonthlyItem{}, nil
	}
	start, end := util.MonthWindow(year, month)

	direct, err := s.expenseRepo.GetDirectByPeriod(userID, start, end, filters)
	if err != nil {
		return nil, err
	}
	installments, err := s.installmentRepo.GetDueInPeriod(userID, start, end, filters)
	if err != nil {
		return nil, err
	}

	items := make([]*domain.MonthlyItem, 0, len(direct)+len(installments))
	for _, e := range direct {
		// Re-check the window on the way out; the rows came filtered from the
		// store but the boundary is load-bearing, so it is enforced here too.
		if !util.InWindow(e.PurchaseDate, start, end) {
			continue
		}
		items = append(items, directItem(e))
	}
	for _, inst := range installments {
		if !util.InWindow(inst.DueDate, start, end) {
			continue
		}
		items = append(items, installmentItem(inst))
	}
	return items, nil
}

// GetMonthlyTotal computes the month's totals over the same two filtered
// source sets as the month view. Debit, transfer, and cardless direct
// expenses sum into totalDebitTransfer; every installment due in the month
// sums into totalCredit regardless of its status. A direct expense on a
// credit card lands in neither bucket: the card's spending is only ever
// counted through cuotas.
func (s *SummaryService) GetMonthlyTotal(userID uuid.UUID, year, month int, filters *domain.ExpenseFilters) (*domain.MonthlyTotal, error) {
	total := &domain.MonthlyTotal{
		TotalDebitTransfer: decimal.Zero,
		TotalCredit:        decimal.Zero,
		TotalExpenses:      decimal.Zero,
	}
	// An out-of-range month/year yields zeroed totals, not an error
	if !util.ValidYearMonth(year, month) {
		return total, nil
	}
	start, end := util.MonthWindow(year, month)

	direct, err := s.expenseRepo.GetDirectByPeriod(userID, start, end, filters)
	if err != nil {
		return nil, err
	}
	installments, err := s.installmentRepo.GetDueInPeriod(userID, start, end, filters)
	if err != nil {
		return nil, err
	}
	for _, e := range direct {
		if !util.InWindow(e.PurchaseDate, start, end) {
			continue
		}
		total.ExpensesCount++
		if e.CardType == nil || *e.CardType != domain.CardTypeCredit {
			total.TotalDebitTransfer = total.TotalDebitTransfer.Add(e.Amount)
		}
	}
	for _, inst := range installments {
		if !util.InWindow(inst.DueDate, start, end) {
			continue
		}
		total.InstallmentsCount++
		total.TotalCredit = total.TotalCredit.Add(inst.Amount)
	}
	total.TotalExpenses = total.TotalDebitTransfer.Add(total.TotalCredit)
	return total, nil
}

// GetAnnualTotal rolls the twelve month windows of a year into one summary.
// An out-of-range year produces twelve zeroed months.
func (s *SummaryService) GetAnnualTotal(userID uuid.UUID, year int, filters *domain.ExpenseFilters) (*domain.AnnualTotal, error) {
	annual := &domain.AnnualTotal{
		Year: year,
		Total: domain.MonthlyTotal{
			TotalDebitTransfer: decimal.Zero,
			TotalCredit:        decimal.Zero,
			TotalExpenses:      decimal.Zero,
		},
		Months: make([]domain.MonthTotal, 0, 12),
	}

	for month := 1; month <= 12; month++ {
		monthly, err := s.GetMonthlyTotal(userID, year, month, filters)
		if err != nil {
			return nil, err
		}
		annual.Months = append(annual.Months, domain.MonthTotal{
			Month:        month,
			MonthlyTotal: *monthly,
		})
		annual.Total.TotalDebitTransfer = annual.Total.TotalDebitTransfer.Add(monthly.TotalDebitTransfer)
		annual.Total.TotalCredit = annual.Total.TotalCredit.Add(monthly.TotalCredit)
		annual.Total.TotalExpenses = annual.Total.TotalExpenses.Add(monthly.TotalExpenses)
		annual.Total.ExpensesCount += monthly.ExpensesCount
		annual.Total.InstallmentsCount += monthly.InstallmentsCount
	}
	return annual, nil
}

func directItem(e *domain.Expense) *domain.MonthlyItem {
	return &domain.MonthlyItem{
		ID:                e.ID,
		IsInstallment:     false,
		ExpenseID:         e.ID,
		Description:       e.Description,
		Amount:            e.Amount,
		Date:              e.PurchaseDate,
		InstallmentsCount: e.InstallmentsCount,
		CardID:            e.CardID,
		CardName:          e.CardName,
		CardType:          e.CardType,
		CategoryID:        e.CategoryID,
		CategoryName:      e.CategoryName,
		SubcategoryID:     e.SubcategoryID,
		SubcategoryName:   e.SubcategoryName,
		PaymentStatus:     e.PaymentStatus,
	}
}

func installmentItem(inst *domain.InstallmentWithExpense) *domain.MonthlyItem {
	number := inst.Number
	return &domain.MonthlyItem{
		ID:                inst.ID,
		IsInstallment:     true,
		ExpenseID:         inst.ExpenseID,
		Description:       inst.ExpenseDescription,
		Amount:            inst.Amount,
		Date:              inst.DueDate,
		InstallmentNumber: &number,
		InstallmentsCount: inst.InstallmentsCount,
		CardID:            inst.CardID,
		CardName:          inst.CardName,
		CardType:          inst.CardType,
		CategoryID:        inst.CategoryID,
		CategoryName:      inst.CategoryName,
		SubcategoryID:     inst.SubcategoryID,
		SubcategoryName:   inst.SubcategoryName,
		PaymentStatus:     inst.PaymentStatus,
	}
}
