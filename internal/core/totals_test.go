package core

import (
	"math"
	"testing"
	"time"
)

func TestParseMonthlyTotals(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"empty string", "", false},
		{"empty object", "{}", false},
		{"valid nested", `{"2024":{"1":{"Day Job":8000}}}`, false},
		{"malformed json yields empty structure", "{not json", true},
		{"null yields empty structure", "null", false},
		{"wrong shape yields empty structure", `{"2024":"oops"}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			totals, err := ParseMonthlyTotals(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseMonthlyTotals() error = %v, wantErr %v", err, tt.wantErr)
			}
			if totals == nil {
				t.Fatal("ParseMonthlyTotals() returned nil totals")
			}
			// The returned structure must be writable even after a decode error.
			totals.Add("Day Job", 100, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
			if got := totals.Amount(2024, 3, "Day Job"); got != 100 {
				t.Errorf("Amount after Add = %v, want 100", got)
			}
		})
	}
}

func TestMonthlyTotalsMalformedBlobKeepsOnlyNewEntry(t *testing.T) {
	totals, err := ParseMonthlyTotals("{not json")
	if err == nil {
		t.Fatal("expected decode error")
	}
	at := time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC)
	totals.Add("Day Job", 8000, at)

	if len(totals) != 1 {
		t.Errorf("totals has %d years, want 1", len(totals))
	}
	if got := totals.Amount(2024, 5, "Day Job"); got != 8000 {
		t.Errorf("Amount = %v, want 8000", got)
	}
}

func TestMonthlyTotalsAdd(t *testing.T) {
	at := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	totals := NewMonthlyTotals()

	totals.Add("Day Job", 8000, at)
	totals.Add("Day Job", 8000, at)
	if got := totals.Amount(2024, 1, "Day Job"); got != 16000 {
		t.Errorf("Amount = %v, want 16000", got)
	}

	// Distinct names in the same period accumulate independently.
	totals.Add("Side Gig", 500, at)
	if got := totals.Amount(2024, 1, "Side Gig"); got != 500 {
		t.Errorf("Amount = %v, want 500", got)
	}
	if got := totals.Amount(2024, 1, "Day Job"); got != 16000 {
		t.Errorf("sibling entry mutated: Amount = %v, want 16000", got)
	}

	// Missing paths resolve to zero, never an error.
	if got := totals.Amount(2023, 1, "Day Job"); got != 0 {
		t.Errorf("Amount for absent year = %v, want 0", got)
	}
	if got := totals.Amount(2024, 2, "Day Job"); got != 0 {
		t.Errorf("Amount for absent month = %v, want 0", got)
	}
}

// accumulate(accumulate(T, n, a), n, b) == accumulate(T, n, a+b)
func TestMonthlyTotalsAddAssociative(t *testing.T) {
	at := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)

	split := NewMonthlyTotals()
	split.Add("Day Job", 1234.56, at)
	split.Add("Day Job", 765.44, at)

	joined := NewMonthlyTotals()
	joined.Add("Day Job", 2000, at)

	a, b := split.Amount(2024, 7, "Day Job"), joined.Amount(2024, 7, "Day Job")
	if math.Abs(a-b) > 1e-9 {
		t.Errorf("split = %v, joined = %v", a, b)
	}
}

func TestMonthlyTotalsSet(t *testing.T) {
	at := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	totals := NewMonthlyTotals()
	totals.Add("Day Job", 8000, at)

	totals.Set("Day Job", 123.45, at)
	if got := totals.Amount(2024, 1, "Day Job"); got != 123.45 {
		t.Errorf("Amount after Set = %v, want 123.45", got)
	}

	// Set followed by a zero-delta Add must be a no-op.
	totals.Add("Day Job", 0, at)
	if got := totals.Amount(2024, 1, "Day Job"); got != 123.45 {
		t.Errorf("Amount after Set+Add(0) = %v, want 123.45", got)
	}
}

func TestMonthlyTotalsRoundTrip(t *testing.T) {
	totals := NewMonthlyTotals()
	totals.Add("Day Job", 8000.25, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))
	totals.Add("Side Gig", 99.99, time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC))

	raw, err := totals.Encode()
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	decoded, err := ParseMonthlyTotals(raw)
	if err != nil {
		t.Fatalf("ParseMonthlyTotals() error = %v", err)
	}
	if got := decoded.Amount(2024, 1, "Day Job"); got != 8000.25 {
		t.Errorf("round-tripped Amount = %v, want 8000.25", got)
	}
	if got := decoded.Amount(2023, 12, "Side Gig"); got != 99.99 {
		t.Errorf("round-tripped Amount = %v, want 99.99", got)
	}
}
