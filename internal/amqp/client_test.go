package amqp

import (
	"testing"
	"time"
)

func TestNewPaymentRecordedMessage(t *testing.T) {
	at := time.Date(2024, 6, 15, 9, 30, 0, 0, time.UTC)

	msg := NewPaymentRecordedMessage(42, "Acme Corp", 2500.50, at)

	if msg.SourceID != 42 {
		t.Errorf("SourceID = %v, want 42", msg.SourceID)
	}
	if msg.SourceName != "Acme Corp" {
		t.Errorf("SourceName = %v, want Acme Corp", msg.SourceName)
	}
	if msg.Amount != 2500.50 {
		t.Errorf("Amount = %v, want 2500.50", msg.Amount)
	}
	if !msg.RecordedAt.Equal(at) {
		t.Errorf("RecordedAt = %v, want %v", msg.RecordedAt, at)
	}
}

func TestPaymentRecordedMessage_JSON(t *testing.T) {
	at := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	msg := &PaymentRecordedMessage{
		SourceID:   12345,
		SourceName: "Side Gig",
		Amount:     987.65,
		RecordedAt: at,
	}

	jsonBytes, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	parsed, err := PaymentRecordedMessageFromJSON(jsonBytes)
	if err != nil {
		t.Fatalf("PaymentRecordedMessageFromJSON() error = %v", err)
	}

	if parsed.SourceID != msg.SourceID {
		t.Errorf("Parsed SourceID = %v, want %v", parsed.SourceID, msg.SourceID)
	}
	if parsed.SourceName != msg.SourceName {
		t.Errorf("Parsed SourceName = %v, want %v", parsed.SourceName, msg.SourceName)
	}
	if parsed.Amount != msg.Amount {
		t.Errorf("Parsed Amount = %v, want %v", parsed.Amount, msg.Amount)
	}
	if !parsed.RecordedAt.Equal(msg.RecordedAt) {
		t.Errorf("Parsed RecordedAt = %v, want %v", parsed.RecordedAt, msg.RecordedAt)
	}
}

func TestPaymentRecordedMessage_InvalidJSON(t *testing.T) {
	invalidJSON := []byte(`{"source_id": "not_a_number"}`)

	if _, err := PaymentRecordedMessageFromJSON(invalidJSON); err == nil {
		t.Error("PaymentRecordedMessageFromJSON() should fail with invalid JSON")
	}
}
