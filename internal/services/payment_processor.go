package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"finch/internal/core"
)

// PaymentProcessor books payments for every income source whose scheduled
// date has elapsed. Each sweep advances a due source exactly one cycle;
// a source several cycles behind catches up over repeated sweeps.
type PaymentProcessor struct {
	store     IncomeStore
	publisher PaymentPublisher
}

func NewPaymentProcessor(store IncomeStore, publisher PaymentPublisher) *PaymentProcessor {
	return &PaymentProcessor{
		store:     store,
		publisher: publisher,
	}
}

// ProcessDuePayments sweeps all due income sources and returns how many
// were booked. A failure on one source never blocks the others.
func (p *PaymentProcessor) ProcessDuePayments(ctx context.Context, now time.Time) (int, error) {
	if p.store == nil {
		return 0, fmt.Errorf("processor not properly initialized")
	}

	due, err := p.store.ListDueIncomeSources(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("failed to list due income sources: %w", err)
	}

	slog.InfoContext(ctx, "Processing due payments",
		"total_due", len(due),
		"processing_date", now.Format("2006-01-02"))

	processedCount := 0

	for _, src := range due {
		amount := core.PaymentAmount(src)

		// Payments are booked into the month the sweep runs in, not the
		// month they were due.
		src.Totals.Add(src.Name, amount, now)
		totalsRaw, err := src.Totals.Encode()
		if err != nil {
			slog.ErrorContext(ctx, "Failed to encode monthly totals",
				"id", src.ID, "name", src.Name, "error", err)
			continue
		}

		next := core.NextPaymentDate(src.NextPaymentDate, src.Frequency)

		if err := p.store.RecordPayment(ctx, src.ID, totalsRaw, next); err != nil {
			slog.ErrorContext(ctx, "Failed to record payment",
				"id", src.ID, "name", src.Name, "error", err)
			continue
		}

		processedCount++
		slog.InfoContext(ctx, "Payment booked",
			"id", src.ID,
			"name", src.Name,
			"amount", amount,
			"next_payment_date", next.Format(core.TimeLayout))

		if err := p.publishRecorded(ctx, src.ID, src.Name, amount, now); err != nil {
			slog.ErrorContext(ctx, "Failed to publish payment message",
				"id", src.ID, "error", err)
			// The payment is booked locally either way.
		}
	}

	slog.InfoContext(ctx, "Payment sweep complete",
		"processed", processedCount,
		"total_checked", len(due))

	return processedCount, nil
}

func (p *PaymentProcessor) publishRecorded(ctx context.Context, id int64, name string, amount float64, at time.Time) error {
	if p.publisher == nil {
		return nil
	}
	return p.publisher.PublishPaymentRecorded(ctx, id, name, amount, at)
}
