package amqp

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ReconcileMessage asks the worker to rebuild the installments of one
// expense. It carries only the ID; the worker reads the row itself so stale
// payloads cannot overwrite fresher data.
type ReconcileMessage struct {
	ExpenseID uuid.UUID `json:"expenseId"`
	Timestamp time.Time `json:"timestamp"`
}

// NewReconcileMessage creates a reconcile message for one expense
func NewReconcileMessage(expenseID uuid.UUID) *ReconcileMessage {
	return &ReconcileMessage{
		ExpenseID: expenseID,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *ReconcileMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ReconcileMessageFromJSON creates a message from JSON bytes
func ReconcileMessageFromJSON(data []byte) (*ReconcileMessage, error) {
	var msg ReconcileMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
