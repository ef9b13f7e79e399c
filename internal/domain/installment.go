package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Installment is one scheduled payment slice (cuota) of a credit purchase.
// It has no user_id of its own; ownership checks always go through the
// parent expense.
type Installment struct {
	ID            uuid.UUID       `json:"id"`
	ExpenseID     uuid.UUID       `json:"expenseId"`
	Number        int32           `json:"number"`
	Amount        decimal.Decimal `json:"amount"`
	DueDate       time.Time       `json:"dueDate"`
	PaymentStatus PaymentStatus   `json:"paymentStatus"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// InstallmentWithExpense is an installment joined to its parent expense's
// descriptive fields, as needed by the monthly view.
type InstallmentWithExpense struct {
	Installment
	ExpenseDescription string     `json:"expenseDescription"`
	InstallmentsCount  int32      `json:"installmentsCount"`
	CardID             *uuid.UUID `json:"cardId,omitempty"`
	CardName           *string    `json:"cardName,omitempty"`
	CardType           *CardType  `json:"cardType,omitempty"`
	CategoryID         uuid.UUID  `json:"categoryId"`
	CategoryName       *string    `json:"categoryName,omitempty"`
	SubcategoryID      *uuid.UUID `json:"subcategoryId,omitempty"`
	SubcategoryName    *string    `json:"subcategoryName,omitempty"`
}

type InstallmentRepository interface {
	CreateBatch(installments []*Installment) error
	// GetByIDForUser resolves an installment through its parent expense,
	// enforcing ownership.
	GetByIDForUser(userID, id uuid.UUID) (*Installment, error)
	ListByExpense(expenseID uuid.UUID) ([]*Installment, error)
	CountByExpense(expenseID uuid.UUID) (int64, error)
	// GetDueInPeriod returns installments with due_date in [start, end) for
	// expenses owned by userID, ascending by due date. Paid installments are
	// included.
	GetDueInPeriod(userID uuid.UUID, start, end time.Time, filters *ExpenseFilters) ([]*InstallmentWithExpense, error)
	UpdateStatus(userID, id uuid.UUID, status PaymentStatus) (*Installment, error)
	DeleteByExpense(expenseID uuid.UUID) error
}
