package export

import (
	"context"
	"time"
)

// LedgerEntry is one booked payment, ready to append to an external ledger.
type LedgerEntry struct {
	SourceID   int64
	SourceName string
	Amount     float64
	RecordedAt time.Time
}

// LedgerWriter appends booked payments to an external ledger.
type LedgerWriter interface {
	Append(ctx context.Context, entry LedgerEntry) (rowRef string, err error)
}
