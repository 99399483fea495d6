package services

import (
	"context"
	"testing"
	"time"

	"finch/internal/core"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestCreateSourceSchedulesAndBooksFirstPayment(t *testing.T) {
	store := newFakeStore()
	svc := NewIncomeService(store)
	now := time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)
	svc.now = fixedClock(now)

	src := core.IncomeSource{
		Name:         "Acme Corp",
		Kind:         core.Employment,
		Frequency:    core.Monthly,
		AnnualAmount: 120000,
		PayDate:      time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC),
	}

	id, err := svc.CreateSource(context.Background(), src)
	if err != nil {
		t.Fatalf("CreateSource: %v", err)
	}

	saved, err := store.GetIncomeSource(context.Background(), id)
	if err != nil {
		t.Fatalf("GetIncomeSource: %v", err)
	}

	// Pay day 15 has not passed on the 10th, so the first payment stays
	// in March.
	want := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)
	if !saved.NextPaymentDate.Equal(want) {
		t.Errorf("next payment date = %v, want %v", saved.NextPaymentDate, want)
	}

	raw, ok := store.savedTotals[id]
	if !ok {
		t.Fatal("first payment was not booked")
	}
	totals, err := core.ParseMonthlyTotals(raw)
	if err != nil {
		t.Fatalf("ParseMonthlyTotals: %v", err)
	}
	if got := totals.Amount(2024, 3, "Acme Corp"); got != 10000 {
		t.Errorf("first booked amount = %v, want 10000", got)
	}
}

func TestCreateSourcePushesElapsedPayDayForward(t *testing.T) {
	store := newFakeStore()
	svc := NewIncomeService(store)
	svc.now = fixedClock(time.Date(2024, time.March, 20, 12, 0, 0, 0, time.UTC))

	src := core.IncomeSource{
		Name:         "Acme Corp",
		Kind:         core.Employment,
		Frequency:    core.Monthly,
		AnnualAmount: 120000,
		PayDate:      time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC),
	}

	id, err := svc.CreateSource(context.Background(), src)
	if err != nil {
		t.Fatalf("CreateSource: %v", err)
	}

	saved, _ := store.GetIncomeSource(context.Background(), id)
	want := time.Date(2024, time.April, 5, 0, 0, 0, 0, time.UTC)
	if !saved.NextPaymentDate.Equal(want) {
		t.Errorf("next payment date = %v, want %v", saved.NextPaymentDate, want)
	}
}

func TestCreateSourceRejectsInvalid(t *testing.T) {
	store := newFakeStore()
	svc := NewIncomeService(store)

	_, err := svc.CreateSource(context.Background(), core.IncomeSource{
		Kind:      core.Employment,
		Frequency: core.Monthly,
	})
	if err == nil {
		t.Fatal("expected validation error for empty name")
	}
	if len(store.sources) != 0 {
		t.Error("invalid source must not be persisted")
	}
}

func TestPaymentAmountUsesDeductions(t *testing.T) {
	store := newFakeStore()
	id := store.add(core.IncomeSource{
		Name:         "Acme Corp",
		Kind:         core.Employment,
		Frequency:    core.Monthly,
		AnnualAmount: 120000,
		Deductions: []core.DeductionItem{
			{Name: "401k", Kind: core.Deduction, Format: core.FormatPercent, Value: 10, Frequency: core.PerPaycheck},
		},
	})
	svc := NewIncomeService(store)

	got, err := svc.PaymentAmount(context.Background(), id)
	if err != nil {
		t.Fatalf("PaymentAmount: %v", err)
	}
	if got != 9000 {
		t.Errorf("payment amount = %v, want 9000", got)
	}
}

func TestAdjustMonthlyTotalOverwrites(t *testing.T) {
	store := newFakeStore()
	totals := core.NewMonthlyTotals()
	at := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	totals.Add("Side Gig", 500, at)
	id := store.add(core.IncomeSource{
		Name:         "Side Gig",
		Kind:         core.OtherRecurring,
		Frequency:    core.Monthly,
		AnnualAmount: 6000,
		Totals:       totals,
	})

	svc := NewIncomeService(store)
	svc.now = fixedClock(at)

	if err := svc.AdjustMonthlyTotal(context.Background(), id, 750); err != nil {
		t.Fatalf("AdjustMonthlyTotal: %v", err)
	}

	parsed, err := core.ParseMonthlyTotals(store.savedTotals[id])
	if err != nil {
		t.Fatalf("ParseMonthlyTotals: %v", err)
	}
	if got := parsed.Amount(2024, 6, "Side Gig"); got != 750 {
		t.Errorf("adjusted total = %v, want absolute 750", got)
	}
}

func TestAccumulateMonthlyTotalAdds(t *testing.T) {
	store := newFakeStore()
	totals := core.NewMonthlyTotals()
	at := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	totals.Add("Side Gig", 500, at)
	id := store.add(core.IncomeSource{
		Name:         "Side Gig",
		Kind:         core.OtherRecurring,
		Frequency:    core.Monthly,
		AnnualAmount: 6000,
		Totals:       totals,
	})

	svc := NewIncomeService(store)
	svc.now = fixedClock(at)

	if err := svc.AccumulateMonthlyTotal(context.Background(), id, 250); err != nil {
		t.Fatalf("AccumulateMonthlyTotal: %v", err)
	}

	parsed, err := core.ParseMonthlyTotals(store.savedTotals[id])
	if err != nil {
		t.Fatalf("ParseMonthlyTotals: %v", err)
	}
	if got := parsed.Amount(2024, 6, "Side Gig"); got != 750 {
		t.Errorf("accumulated total = %v, want 750", got)
	}
}
