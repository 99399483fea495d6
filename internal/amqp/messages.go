package amqp

import (
	"encoding/json"
	"time"
)

// PaymentRecordedMessage announces that a payment was booked for an income
// source. It carries enough for the ledger worker to append a row without
// a database round trip.
type PaymentRecordedMessage struct {
	SourceID   int64     `json:"source_id"`
	SourceName string    `json:"source_name"`
	Amount     float64   `json:"amount"`
	RecordedAt time.Time `json:"recorded_at"`
}

func NewPaymentRecordedMessage(sourceID int64, sourceName string, amount float64, recordedAt time.Time) *PaymentRecordedMessage {
	return &PaymentRecordedMessage{
		SourceID:   sourceID,
		SourceName: sourceName,
		Amount:     amount,
		RecordedAt: recordedAt,
	}
}

// ToJSON converts the message to JSON bytes
func (m *PaymentRecordedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// PaymentRecordedMessageFromJSON creates a message from JSON bytes
func PaymentRecordedMessageFromJSON(data []byte) (*PaymentRecordedMessage, error) {
	var msg PaymentRecordedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
