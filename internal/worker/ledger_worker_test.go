package worker

import (
	"context"
	"testing"
	"time"

	"finch/internal/amqp"
	"finch/internal/export/memory"
)

func TestHandlePaymentRecorded(t *testing.T) {
	ledger := memory.New()
	w := NewLedgerWorker(ledger)

	at := time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)
	msg := amqp.NewPaymentRecordedMessage(7, "Acme Corp", 2500, at)

	if err := w.HandlePaymentRecorded(context.Background(), msg); err != nil {
		t.Fatalf("HandlePaymentRecorded: %v", err)
	}

	entries := ledger.Entries()
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	if entries[0].SourceID != 7 || entries[0].SourceName != "Acme Corp" || entries[0].Amount != 2500 {
		t.Errorf("unexpected entry: %+v", entries[0])
	}
	if !entries[0].RecordedAt.Equal(at) {
		t.Errorf("RecordedAt = %v, want %v", entries[0].RecordedAt, at)
	}
}

func TestHandlePaymentRecordedNoLedger(t *testing.T) {
	w := NewLedgerWorker(nil)
	msg := amqp.NewPaymentRecordedMessage(1, "X", 1, time.Now())

	if err := w.HandlePaymentRecorded(context.Background(), msg); err == nil {
		t.Fatal("expected error without a ledger writer")
	}
}
