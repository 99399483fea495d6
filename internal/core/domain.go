package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Weekly      PayFrequency = "weekly"
	Biweekly    PayFrequency = "biweekly"
	Semimonthly PayFrequency = "semimonthly"
	Monthly     PayFrequency = "monthly"
	Quarterly   PayFrequency = "quarterly"
	Annually    PayFrequency = "annually"
	NoFrequency PayFrequency = "none"
)

const (
	Employment     IncomeKind = "employment"
	OtherRecurring IncomeKind = "other_recurring"
	Simple         IncomeKind = "simple"
)

const (
	Credit    DeductionKind = "credit"
	Deduction DeductionKind = "deduction"
)

const (
	FormatPercent DeductionFormat = "percent"
	FormatAmount  DeductionFormat = "amount"
)

const (
	PerPaycheck    DeductionFrequency = "per_paycheck"
	DeductMonthly  DeductionFrequency = "monthly"
	DeductAnnually DeductionFrequency = "annually"
)

// TimeLayout is the persisted timestamp format. All stored timestamps are
// UTC in this fixed-width layout, so lexicographic comparison orders them
// chronologically.
const TimeLayout = time.RFC3339

type (
	PayFrequency       string
	IncomeKind         string
	DeductionKind      string
	DeductionFormat    string
	DeductionFrequency string

	// IncomeSource is a recurring or one-time inflow record. AnnualAmount is
	// the gross yearly figure; the per-paycheck net is always derived, never
	// stored.
	IncomeSource struct {
		ID              int64
		Name            string
		Kind            IncomeKind
		Frequency       PayFrequency
		AnnualAmount    float64
		PayDate         time.Time // day-of-month anchor for the first cycle
		NextPaymentDate time.Time // zero when the source is not scheduled
		Totals          MonthlyTotals
		Deductions      []DeductionItem
	}

	// DeductionItem is a named adjustment against an income source's base
	// pay. Its lifecycle is tied to the parent source: edits replace the
	// whole list, there is no partial update.
	DeductionItem struct {
		ID        int64
		SourceID  int64
		Name      string
		Kind      DeductionKind
		Format    DeductionFormat
		Value     float64
		Frequency DeductionFrequency
	}
)

var (
	ErrEmptyName        = errors.New("empty name")
	ErrInvalidKind      = errors.New("invalid income kind")
	ErrInvalidFrequency = errors.New("invalid pay frequency")
	ErrInvalidFormat    = errors.New("invalid deduction format")
	ErrNegativeAmount   = errors.New("negative amount")
)

func (k IncomeKind) Valid() bool {
	switch k {
	case Employment, OtherRecurring, Simple:
		return true
	}
	return false
}

func (f PayFrequency) Valid() bool {
	switch f {
	case Weekly, Biweekly, Semimonthly, Monthly, Quarterly, Annually, NoFrequency:
		return true
	}
	return false
}

func (s IncomeSource) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return ErrEmptyName
	}
	if !s.Kind.Valid() {
		return ErrInvalidKind
	}
	if !s.Frequency.Valid() {
		return ErrInvalidFrequency
	}
	if s.AnnualAmount < 0 {
		return ErrNegativeAmount
	}
	for _, d := range s.Deductions {
		if err := d.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (d DeductionItem) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return ErrEmptyName
	}
	switch d.Kind {
	case Credit, Deduction:
	default:
		return errors.New("invalid deduction kind")
	}
	switch d.Format {
	case FormatPercent, FormatAmount:
	default:
		return ErrInvalidFormat
	}
	switch d.Frequency {
	case PerPaycheck, DeductMonthly, DeductAnnually:
	default:
		return errors.New("invalid deduction frequency")
	}
	if d.Value < 0 {
		return ErrNegativeAmount
	}
	return nil
}

// Scheduled reports whether the source has a next payment date set.
func (s IncomeSource) Scheduled() bool {
	return !s.NextPaymentDate.IsZero()
}
