package services

import (
	"context"
	"fmt"
	"time"

	"finch/internal/core"
)

// fakeStore is an in-memory IncomeStore for service tests. Individual
// methods can be forced to fail per source id.
type fakeStore struct {
	sources map[int64]core.IncomeSource
	nextID  int64

	failRecordFor map[int64]bool
	savedTotals   map[int64]string
	recorded      []int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		sources:       make(map[int64]core.IncomeSource),
		nextID:        1,
		failRecordFor: make(map[int64]bool),
		savedTotals:   make(map[int64]string),
	}
}

func (f *fakeStore) add(s core.IncomeSource) int64 {
	id := f.nextID
	f.nextID++
	s.ID = id
	if s.Totals == nil {
		s.Totals = core.NewMonthlyTotals()
	}
	f.sources[id] = s
	return id
}

func (f *fakeStore) ListIncomeSources(_ context.Context) ([]core.IncomeSource, error) {
	var out []core.IncomeSource
	for _, s := range f.sources {
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeStore) GetIncomeSource(_ context.Context, id int64) (core.IncomeSource, error) {
	s, ok := f.sources[id]
	if !ok {
		return core.IncomeSource{}, fmt.Errorf("fake: source %d not found", id)
	}
	return s, nil
}

func (f *fakeStore) CreateIncomeSource(_ context.Context, s core.IncomeSource) (int64, error) {
	return f.add(s), nil
}

func (f *fakeStore) UpdateIncomeSource(_ context.Context, s core.IncomeSource) error {
	if _, ok := f.sources[s.ID]; !ok {
		return fmt.Errorf("fake: source %d not found", s.ID)
	}
	f.sources[s.ID] = s
	return nil
}

func (f *fakeStore) DeleteIncomeSource(_ context.Context, id int64) error {
	delete(f.sources, id)
	return nil
}

func (f *fakeStore) ListDueIncomeSources(_ context.Context, now time.Time) ([]core.IncomeSource, error) {
	var due []core.IncomeSource
	for _, s := range f.sources {
		if !s.NextPaymentDate.IsZero() && !s.NextPaymentDate.After(now) {
			due = append(due, s)
		}
	}
	return due, nil
}

func (f *fakeStore) SaveMonthlyTotals(_ context.Context, id int64, totals string) error {
	f.savedTotals[id] = totals
	return nil
}

func (f *fakeStore) RecordPayment(_ context.Context, id int64, totals string, next time.Time) error {
	if f.failRecordFor[id] {
		return fmt.Errorf("fake: forced record failure for %d", id)
	}
	s, ok := f.sources[id]
	if !ok {
		return fmt.Errorf("fake: source %d not found", id)
	}
	parsed, err := core.ParseMonthlyTotals(totals)
	if err != nil {
		return err
	}
	s.Totals = parsed
	s.NextPaymentDate = next
	f.sources[id] = s
	f.savedTotals[id] = totals
	f.recorded = append(f.recorded, id)
	return nil
}
