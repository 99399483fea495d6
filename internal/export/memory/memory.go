package memory

import (
	"context"
	"fmt"
	"sync"

	"finch/internal/export"
)

// Ledger is an in-memory LedgerWriter used in tests and local runs without
// Google credentials.
type Ledger struct {
	mu      sync.Mutex
	entries []export.LedgerEntry
}

func New() *Ledger {
	return &Ledger{}
}

// Append stores the entry and returns a synthetic row reference.
func (l *Ledger) Append(_ context.Context, entry export.LedgerEntry) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, entry)
	return fmt.Sprintf("mem:%d", len(l.entries)), nil
}

// Entries returns a copy of everything appended so far.
func (l *Ledger) Entries() []export.LedgerEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]export.LedgerEntry(nil), l.entries...)
}
