package domain

// PaymentStatus is the payment state of an expense or installment.
// It is a closed enum stored as a text code, never as a numeric ID.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pendiente"
	PaymentStatusInDebt  PaymentStatus = "en_deuda"
	PaymentStatusPaid    PaymentStatus = "pagada"
)

// Valid reports whether s is one of the known payment statuses.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusInDebt, PaymentStatusPaid:
		return true
	}
	return false
}

// AggregateStatus derives an expense's status from its installment statuses.
// Precedence is fixed: any en_deuda dominates, then any pendiente, and pagada
// only when every installment is pagada. An empty set defaults to pendiente.
func AggregateStatus(statuses []PaymentStatus) PaymentStatus {
	if len(statuses) == 0 {
		return PaymentStatusPending
	}
	anyPending := false
	for _, s := range statuses {
		switch s {
		case PaymentStatusInDebt:
			return PaymentStatusInDebt
		case PaymentStatusPaid:
		default:
			anyPending = true
		}
	}
	if anyPending {
		return PaymentStatusPending
	}
	return PaymentStatusPaid
}
