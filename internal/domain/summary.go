package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MonthlyItem is one row of the merged monthly view: either a direct expense
// dated by purchase_date or an installment dated by due_date.
type MonthlyItem struct {
	ID                uuid.UUID       `json:"id"`
	IsInstallment     bool            `json:"isInstallment"`
	ExpenseID         uuid.UUID       `json:"expenseId"`
	Description       string          `json:"description"`
	Amount            decimal.Decimal `json:"amount"`
	Date              time.Time       `json:"date"`
	InstallmentNumber *int32          `json:"installmentNumber,omitempty"`
	InstallmentsCount int32           `json:"installmentsCount"`
	CardID            *uuid.UUID      `json:"cardId,omitempty"`
	CardName          *string         `json:"cardName,omitempty"`
	CardType          *CardType       `json:"cardType,omitempty"`
	CategoryID        uuid.UUID       `json:"categoryId"`
	CategoryName      *string         `json:"categoryName,omitempty"`
	SubcategoryID     *uuid.UUID      `json:"subcategoryId,omitempty"`
	SubcategoryName   *string         `json:"subcategoryName,omitempty"`
	PaymentStatus     PaymentStatus   `json:"paymentStatus"`
}

// MonthlyTotal sums one month. Direct credit-card expenses belong to neither
// bucket; only their installments count, under TotalCredit.
type MonthlyTotal struct {
	TotalDebitTransfer decimal.Decimal `json:"totalDebitTransfer"`
	TotalCredit        decimal.Decimal `json:"totalCredit"`
	TotalExpenses      decimal.Decimal `json:"totalExpenses"`
	ExpensesCount      int             `json:"expensesCount"`
	InstallmentsCount  int             `json:"installmentsCount"`
}

// MonthTotal is a MonthlyTotal labeled with its month, for annual rollups.
type MonthTotal struct {
	Month int `json:"month"`
	MonthlyTotal
}

type AnnualTotal struct {
	Year   int          `json:"year"`
	Total  MonthlyTotal `json:"total"`
	Months []MonthTotal `json:"months"`
}
