package worker

import (
	"context"
	"fmt"
	"log/slog"

	"finch/internal/amqp"
	"finch/internal/export"
)

// LedgerWorker appends booked payments to an external ledger as they
// arrive over AMQP.
type LedgerWorker struct {
	ledger export.LedgerWriter
}

func NewLedgerWorker(ledger export.LedgerWriter) *LedgerWorker {
	return &LedgerWorker{ledger: ledger}
}

// HandlePaymentRecorded processes a single payment message.
func (w *LedgerWorker) HandlePaymentRecorded(ctx context.Context, msg *amqp.PaymentRecordedMessage) error {
	if w.ledger == nil {
		return fmt.Errorf("ledger writer not configured")
	}

	entry := export.LedgerEntry{
		SourceID:   msg.SourceID,
		SourceName: msg.SourceName,
		Amount:     msg.Amount,
		RecordedAt: msg.RecordedAt,
	}

	ref, err := w.ledger.Append(ctx, entry)
	if err != nil {
		return fmt.Errorf("append to ledger: %w", err)
	}

	slog.InfoContext(ctx, "Payment appended to ledger",
		"source_id", msg.SourceID,
		"source_name", msg.SourceName,
		"amount", msg.Amount,
		"ledger_ref", ref)

	return nil
}
