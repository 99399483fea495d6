package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"finch/internal/core"
)

// IncomeService orchestrates income source CRUD and the bookkeeping that
// goes with it: computing payment amounts, advancing schedule cursors and
// accumulating monthly totals.
type IncomeService struct {
	store IncomeStore
	now   func() time.Time
}

func NewIncomeService(store IncomeStore) *IncomeService {
	return &IncomeService{
		store: store,
		now:   time.Now,
	}
}

// ListSources returns all income sources with deductions and totals loaded.
func (s *IncomeService) ListSources(ctx context.Context) ([]core.IncomeSource, error) {
	sources, err := s.store.ListIncomeSources(ctx)
	if err != nil {
		return nil, fmt.Errorf("list income sources: %w", err)
	}
	return sources, nil
}

func (s *IncomeService) GetSource(ctx context.Context, id int64) (core.IncomeSource, error) {
	return s.store.GetIncomeSource(ctx, id)
}

// CreateSource saves a new income source, schedules its first payment date
// and books the first payment into the current month's totals.
//
// The schedule anchor is the pay date; if its day of month has already
// passed, the first scheduled payment moves one month forward.
func (s *IncomeService) CreateSource(ctx context.Context, src core.IncomeSource) (int64, error) {
	if err := src.Validate(); err != nil {
		return 0, fmt.Errorf("validate income source: %w", err)
	}

	now := s.now()
	payDate := src.PayDate
	if payDate.IsZero() {
		payDate = now
	}

	next := payDate
	if payDate.Day() < now.Day() {
		next = core.AddMonths(payDate, 1)
	}
	src.NextPaymentDate = next
	if src.Totals == nil {
		src.Totals = core.NewMonthlyTotals()
	}

	id, err := s.store.CreateIncomeSource(ctx, src)
	if err != nil {
		return 0, fmt.Errorf("create income source: %w", err)
	}

	// Book the first payment right away so the current month reflects the
	// new source without waiting for a sweep.
	saved, err := s.store.GetIncomeSource(ctx, id)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to reload income source for first booking",
			"id", id, "error", err)
		return id, nil
	}
	amount := core.PaymentAmount(saved)
	if err := s.accumulate(ctx, saved, amount, now); err != nil {
		slog.ErrorContext(ctx, "Failed to book first payment",
			"id", id, "name", saved.Name, "error", err)
	}

	slog.InfoContext(ctx, "Income source created",
		"id", id, "name", src.Name, "frequency", src.Frequency,
		"next_payment_date", next.Format(core.TimeLayout))
	return id, nil
}

// UpdateSource rewrites an income source. The deduction list is replaced
// wholesale; callers always send the complete list.
func (s *IncomeService) UpdateSource(ctx context.Context, src core.IncomeSource) error {
	if err := src.Validate(); err != nil {
		return fmt.Errorf("validate income source: %w", err)
	}
	if err := s.store.UpdateIncomeSource(ctx, src); err != nil {
		return fmt.Errorf("update income source: %w", err)
	}
	return nil
}

func (s *IncomeService) DeleteSource(ctx context.Context, id int64) error {
	if err := s.store.DeleteIncomeSource(ctx, id); err != nil {
		return fmt.Errorf("delete income source: %w", err)
	}
	slog.InfoContext(ctx, "Income source deleted", "id", id)
	return nil
}

// PaymentAmount computes the net per-paycheck amount for one source.
func (s *IncomeService) PaymentAmount(ctx context.Context, id int64) (float64, error) {
	src, err := s.store.GetIncomeSource(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("load income source: %w", err)
	}
	return core.PaymentAmount(src), nil
}

// NextPaymentDate computes where the schedule cursor would advance to on
// the source's next booking, without moving it.
func (s *IncomeService) NextPaymentDate(ctx context.Context, id int64) (time.Time, error) {
	src, err := s.store.GetIncomeSource(ctx, id)
	if err != nil {
		return time.Time{}, fmt.Errorf("load income source: %w", err)
	}
	return core.NextPaymentDate(src.NextPaymentDate, src.Frequency), nil
}

// AccumulateMonthlyTotal adds delta to the current month's entry for the
// source's display name.
func (s *IncomeService) AccumulateMonthlyTotal(ctx context.Context, id int64, delta float64) error {
	src, err := s.store.GetIncomeSource(ctx, id)
	if err != nil {
		return fmt.Errorf("load income source: %w", err)
	}
	return s.accumulate(ctx, src, delta, s.now())
}

// AdjustMonthlyTotal overwrites the current month's entry for the source's
// display name. This is the manual correction path; scheduled bookings are
// always additive.
func (s *IncomeService) AdjustMonthlyTotal(ctx context.Context, id int64, amount float64) error {
	src, err := s.store.GetIncomeSource(ctx, id)
	if err != nil {
		return fmt.Errorf("load income source: %w", err)
	}

	src.Totals.Set(src.Name, amount, s.now())
	raw, err := src.Totals.Encode()
	if err != nil {
		return fmt.Errorf("encode totals: %w", err)
	}
	if err := s.store.SaveMonthlyTotals(ctx, id, raw); err != nil {
		return fmt.Errorf("save totals: %w", err)
	}

	slog.InfoContext(ctx, "Monthly total adjusted",
		"id", id, "name", src.Name, "amount", amount)
	return nil
}

func (s *IncomeService) accumulate(ctx context.Context, src core.IncomeSource, delta float64, at time.Time) error {
	src.Totals.Add(src.Name, delta, at)
	raw, err := src.Totals.Encode()
	if err != nil {
		return fmt.Errorf("encode totals: %w", err)
	}
	if err := s.store.SaveMonthlyTotals(ctx, src.ID, raw); err != nil {
		return fmt.Errorf("save totals: %w", err)
	}
	return nil
}
