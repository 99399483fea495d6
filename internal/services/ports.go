package services

import (
	"context"
	"time"

	"finch/internal/core"
)

// IncomeStore is the persistence surface the income services need. The
// SQLite repository satisfies it; tests swap in fakes.
type IncomeStore interface {
	ListIncomeSources(ctx context.Context) ([]core.IncomeSource, error)
	GetIncomeSource(ctx context.Context, id int64) (core.IncomeSource, error)
	CreateIncomeSource(ctx context.Context, s core.IncomeSource) (int64, error)
	UpdateIncomeSource(ctx context.Context, s core.IncomeSource) error
	DeleteIncomeSource(ctx context.Context, id int64) error
	ListDueIncomeSources(ctx context.Context, now time.Time) ([]core.IncomeSource, error)
	SaveMonthlyTotals(ctx context.Context, id int64, totals string) error
	RecordPayment(ctx context.Context, id int64, totals string, next time.Time) error
}

// PaymentPublisher emits a message after a payment has been booked. Nil
// publishers are tolerated everywhere; booking never depends on messaging.
type PaymentPublisher interface {
	PublishPaymentRecorded(ctx context.Context, sourceID int64, sourceName string, amount float64, recordedAt time.Time) error
}
