package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CardType determines whether an expense on the card can split into
// installments and which payment status a new expense starts with.
type CardType string

const (
	CardTypeCredit   CardType = "credito"
	CardTypeDebit    CardType = "debito"
	CardTypeTransfer CardType = "transferencia"
)

// Valid reports whether t is one of the known card types.
func (t CardType) Valid() bool {
	switch t {
	case CardTypeCredit, CardTypeDebit, CardTypeTransfer:
		return true
	}
	return false
}

// DefaultPaymentStatus returns the status a freshly created expense on a card
// of this type starts with: credit purchases are pending until settled, debit
// and transfer purchases are paid at once.
func (t CardType) DefaultPaymentStatus() PaymentStatus {
	if t == CardTypeCredit {
		return PaymentStatusPending
	}
	return PaymentStatusPaid
}

type Card struct {
	ID          uuid.UUID        `json:"id"`
	UserID      uuid.UUID        `json:"userId"`
	Name        string           `json:"name"`
	Type        CardType         `json:"type"`
	Bank        *string          `json:"bank,omitempty"`
	PaymentDay  *int32           `json:"paymentDay,omitempty"`
	CreditLimit *decimal.Decimal `json:"creditLimit,omitempty"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

type CardRepository interface {
	Create(card *Card) (*Card, error)
	GetByID(userID, id uuid.UUID) (*Card, error)
	ListByUser(userID uuid.UUID) ([]*Card, error)
	Update(card *Card) (*Card, error)
	Delete(userID, id uuid.UUID) error
}
