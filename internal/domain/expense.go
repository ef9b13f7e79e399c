package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Expense is one purchase event. A credit purchase split into cuotas still
// has exactly one Expense row; the slices live in the installments table.
type Expense struct {
	ID                   uuid.UUID       `json:"id"`
	UserID               uuid.UUID       `json:"userId"`
	Description          string          `json:"description"`
	Amount               decimal.Decimal `json:"amount"`
	PurchaseDate         time.Time       `json:"purchaseDate"`
	CardID               *uuid.UUID      `json:"cardId,omitempty"`
	CategoryID           uuid.UUID       `json:"categoryId"`
	SubcategoryID        *uuid.UUID      `json:"subcategoryId,omitempty"`
	InstallmentsCount    int32           `json:"installmentsCount"`
	FirstInstallmentDate *time.Time      `json:"firstInstallmentDate,omitempty"`
	PaymentStatus        PaymentStatus   `json:"paymentStatus"`
	IsScheduled          bool            `json:"isScheduled"`
	SeriesID             *uuid.UUID      `json:"seriesId,omitempty"`
	ReceiptPath          *string         `json:"-"`
	CreatedAt            time.Time       `json:"createdAt"`
	UpdatedAt            time.Time       `json:"updatedAt"`

	// Populated by list queries that join reference tables.
	CardName        *string   `json:"cardName,omitempty"`
	CardType        *CardType `json:"cardType,omitempty"`
	CategoryName    *string   `json:"categoryName,omitempty"`
	SubcategoryName *string   `json:"subcategoryName,omitempty"`
}

// ExpenseFilters narrows expense and installment queries. All fields are
// optional and combine with AND.
type ExpenseFilters struct {
	CardID        *uuid.UUID
	CategoryID    *uuid.UUID
	PaymentStatus *PaymentStatus
}

type ExpenseRepository interface {
	Create(expense *Expense) (*Expense, error)
	GetByID(userID, id uuid.UUID) (*Expense, error)
	// GetAnyByID fetches an expense without user scoping. Reserved for the
	// reconciliation worker, which acts on queue messages, not user requests.
	GetAnyByID(id uuid.UUID) (*Expense, error)
	ListByUser(userID uuid.UUID, filters *ExpenseFilters) ([]*Expense, error)
	// GetDirectByPeriod returns non-installment expenses (installments_count = 1)
	// whose purchase_date falls in [start, end), newest first.
	GetDirectByPeriod(userID uuid.UUID, start, end time.Time, filters *ExpenseFilters) ([]*Expense, error)
	Update(expense *Expense) (*Expense, error)
	UpdateStatus(id uuid.UUID, status PaymentStatus) error
	SetReceiptPath(userID, id uuid.UUID, path *string) error
	Delete(userID, id uuid.UUID) error
	// DeleteSeriesFrom removes every expense of a scheduled series whose
	// purchase_date is on or after from. Returns the number of rows removed.
	DeleteSeriesFrom(userID, seriesID uuid.UUID, from time.Time) (int64, error)
	CountByCategory(userID, categoryID uuid.UUID) (int64, error)
	// ListMissingInstallments finds expenses that should have installments but
	// have none, for the reconciliation sweep.
	ListMissingInstallments(limit int32) ([]*Expense, error)
}
