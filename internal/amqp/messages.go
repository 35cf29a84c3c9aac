package amqp

import (
	"encoding/json"
	"time"
)

// ExpenseCreatedMessage announces a freshly stored expense. It carries only
// the id plus a few routing-friendly fields; consumers fetch the full record
// from storage by id. Idempotent replays never produce a message.
type ExpenseCreatedMessage struct {
	ID          string    `json:"id"`
	AmountMinor int64     `json:"amount_minor"`
	Category    string    `json:"category"`
	Date        string    `json:"date"`
	Timestamp   time.Time `json:"timestamp"`
}

func NewExpenseCreatedMessage(id string, amountMinor int64, category, date string) *ExpenseCreatedMessage {
	return &ExpenseCreatedMessage{
		ID:          id,
		AmountMinor: amountMinor,
		Category:    category,
		Date:        date,
		Timestamp:   time.Now(),
	}
}

func (m *ExpenseCreatedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ExpenseCreatedMessageFromJSON(data []byte) (*ExpenseCreatedMessage, error) {
	var msg ExpenseCreatedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
