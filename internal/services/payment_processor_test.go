package services

import (
	"context"
	"testing"
	"time"

	"finch/internal/core"
)

type fakePublisher struct {
	published []int64
}

func (f *fakePublisher) PublishPaymentRecorded(_ context.Context, sourceID int64, _ string, _ float64, _ time.Time) error {
	f.published = append(f.published, sourceID)
	return nil
}

func TestProcessDuePaymentsNothingDue(t *testing.T) {
	store := newFakeStore()
	store.add(core.IncomeSource{
		Name:            "Acme Corp",
		Kind:            core.Employment,
		Frequency:       core.Monthly,
		AnnualAmount:    120000,
		NextPaymentDate: time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC),
	})

	p := NewPaymentProcessor(store, nil)
	now := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)

	n, err := p.ProcessDuePayments(context.Background(), now)
	if err != nil {
		t.Fatalf("ProcessDuePayments: %v", err)
	}
	if n != 0 {
		t.Errorf("processed = %d, want 0", n)
	}
	if len(store.recorded) != 0 {
		t.Error("no payments should be written when nothing is due")
	}
}

func TestProcessDuePaymentsBooksAndAdvances(t *testing.T) {
	store := newFakeStore()
	id := store.add(core.IncomeSource{
		Name:            "Acme Corp",
		Kind:            core.Employment,
		Frequency:       core.Biweekly,
		AnnualAmount:    52000,
		NextPaymentDate: time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC),
	})

	pub := &fakePublisher{}
	p := NewPaymentProcessor(store, pub)
	now := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)

	n, err := p.ProcessDuePayments(context.Background(), now)
	if err != nil {
		t.Fatalf("ProcessDuePayments: %v", err)
	}
	if n != 1 {
		t.Fatalf("processed = %d, want 1", n)
	}

	saved, _ := store.GetIncomeSource(context.Background(), id)

	// Exactly one cycle forward from the due date, not from now.
	wantNext := time.Date(2024, time.June, 24, 0, 0, 0, 0, time.UTC)
	if !saved.NextPaymentDate.Equal(wantNext) {
		t.Errorf("next payment date = %v, want %v", saved.NextPaymentDate, wantNext)
	}

	// Booked into the sweep month under the source name.
	if got := saved.Totals.Amount(2024, 6, "Acme Corp"); got != 2000 {
		t.Errorf("booked amount = %v, want 2000", got)
	}

	if len(pub.published) != 1 || pub.published[0] != id {
		t.Errorf("published ids = %v, want [%d]", pub.published, id)
	}
}

func TestProcessDuePaymentsSingleStepPerSweep(t *testing.T) {
	store := newFakeStore()
	id := store.add(core.IncomeSource{
		Name:            "Acme Corp",
		Kind:            core.Employment,
		Frequency:       core.Weekly,
		AnnualAmount:    52000,
		NextPaymentDate: time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC),
	})

	p := NewPaymentProcessor(store, nil)
	// Several weekly cycles have elapsed by mid-June.
	now := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)

	if _, err := p.ProcessDuePayments(context.Background(), now); err != nil {
		t.Fatalf("ProcessDuePayments: %v", err)
	}

	saved, _ := store.GetIncomeSource(context.Background(), id)
	wantNext := time.Date(2024, time.May, 8, 0, 0, 0, 0, time.UTC)
	if !saved.NextPaymentDate.Equal(wantNext) {
		t.Errorf("next payment date = %v, want one cycle = %v", saved.NextPaymentDate, wantNext)
	}

	// A second sweep advances one more cycle and books again.
	if _, err := p.ProcessDuePayments(context.Background(), now); err != nil {
		t.Fatalf("second sweep: %v", err)
	}
	saved, _ = store.GetIncomeSource(context.Background(), id)
	wantNext = time.Date(2024, time.May, 15, 0, 0, 0, 0, time.UTC)
	if !saved.NextPaymentDate.Equal(wantNext) {
		t.Errorf("next payment date after second sweep = %v, want %v", saved.NextPaymentDate, wantNext)
	}
	if got := saved.Totals.Amount(2024, 6, "Acme Corp"); got != 2000 {
		t.Errorf("total after two sweeps = %v, want 2000", got)
	}
}

func TestProcessDuePaymentsIsolatesFailures(t *testing.T) {
	store := newFakeStore()
	bad := store.add(core.IncomeSource{
		Name:            "Broken",
		Kind:            core.Employment,
		Frequency:       core.Monthly,
		AnnualAmount:    12000,
		NextPaymentDate: time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC),
	})
	good := store.add(core.IncomeSource{
		Name:            "Fine",
		Kind:            core.Employment,
		Frequency:       core.Monthly,
		AnnualAmount:    24000,
		NextPaymentDate: time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC),
	})
	store.failRecordFor[bad] = true

	p := NewPaymentProcessor(store, nil)
	now := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)

	n, err := p.ProcessDuePayments(context.Background(), now)
	if err != nil {
		t.Fatalf("ProcessDuePayments: %v", err)
	}
	if n != 1 {
		t.Errorf("processed = %d, want 1 despite one failure", n)
	}

	saved, _ := store.GetIncomeSource(context.Background(), good)
	if got := saved.Totals.Amount(2024, 6, "Fine"); got != 2000 {
		t.Errorf("surviving source booked %v, want 2000", got)
	}
}

func TestProcessDuePaymentsNilStore(t *testing.T) {
	p := &PaymentProcessor{}
	if _, err := p.ProcessDuePayments(context.Background(), time.Now()); err == nil {
		t.Fatal("expected error for uninitialized processor")
	}
}
