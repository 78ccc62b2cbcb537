package amqp

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"conta/internal/core"
)

// Message types carried in the AMQP "type" property.
const (
	TypeTransactionRecorded = "transaction.recorded"
	TypeLedgerReset         = "ledger.reset"
)

// TransactionRecordedMessage announces a completed deposit or withdrawal.
// Amounts are decimal strings, as in the snapshot file.
type TransactionRecordedMessage struct {
	ID         uuid.UUID `json:"id"`
	Kind       string    `json:"kind"`
	Amount     string    `json:"amount"`
	Balance    string    `json:"balance"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewTransactionRecordedMessage builds the event for t and the balance it left.
func NewTransactionRecordedMessage(t core.Transaction, balance core.Money) *TransactionRecordedMessage {
	return &TransactionRecordedMessage{
		ID:         uuid.New(),
		Kind:       t.Kind.String(),
		Amount:     t.Amount.String(),
		Balance:    balance.String(),
		OccurredAt: t.Timestamp,
	}
}

func (m *TransactionRecordedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func TransactionRecordedMessageFromJSON(data []byte) (*TransactionRecordedMessage, error) {
	var msg TransactionRecordedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// LedgerResetMessage announces that balance and history were cleared.
type LedgerResetMessage struct {
	ID        uuid.UUID `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewLedgerResetMessage() *LedgerResetMessage {
	return &LedgerResetMessage{
		ID:        uuid.New(),
		Timestamp: time.Now(),
	}
}

func (m *LedgerResetMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}
