package amqp

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EntryKind says which ledger operation produced an entry.
type EntryKind string

const (
	KindDeposit     EntryKind = "deposit"
	KindWithdrawal  EntryKind = "withdrawal"
	KindTransferOut EntryKind = "transfer_out"
	KindTransferIn  EntryKind = "transfer_in"
)

// EntryRecordedMessage announces one entry appended to a category ledger.
// Both legs of a transfer share the same TransferID.
type EntryRecordedMessage struct {
	ID          string          `json:"id"`
	TransferID  string          `json:"transfer_id,omitempty"`
	Category    string          `json:"category"`
	Kind        EntryKind       `json:"kind"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description,omitempty"`
	Balance     decimal.Decimal `json:"balance"`
}

// NewEntryRecordedMessage creates a message with a fresh ID.
func NewEntryRecordedMessage(category string, kind EntryKind, amount decimal.Decimal, description string, balance decimal.Decimal) *EntryRecordedMessage {
	return &EntryRecordedMessage{
		ID:          uuid.NewString(),
		Category:    category,
		Kind:        kind,
		Amount:      amount,
		Description: description,
		Balance:     balance,
	}
}

// ToJSON converts the message to JSON bytes
func (m *EntryRecordedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// EntryRecordedMessageFromJSON creates a message from JSON bytes
func EntryRecordedMessageFromJSON(data []byte) (*EntryRecordedMessage, error) {
	var msg EntryRecordedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
