package core

import (
	"math"
	"testing"
)

func TestNetPaycheck(t *testing.T) {
	tests := []struct {
		name       string
		base       float64
		freq       PayFrequency
		deductions []DeductionItem
		want       float64
	}{
		{
			name: "no deductions",
			base: 10000, freq: Monthly,
			want: 10000,
		},
		{
			name: "percent per paycheck",
			base: 10000, freq: Monthly,
			deductions: []DeductionItem{
				{Name: "401k", Kind: Deduction, Format: FormatPercent, Value: 20, Frequency: PerPaycheck},
			},
			want: 8000,
		},
		{
			name: "fixed annual converted to per paycheck",
			base: 10000, freq: Monthly,
			deductions: []DeductionItem{
				{Name: "dues", Kind: Deduction, Format: FormatAmount, Value: 1200, Frequency: DeductAnnually},
			},
			want: 9900,
		},
		{
			name: "fixed monthly on biweekly source",
			base: 1000, freq: Biweekly,
			deductions: []DeductionItem{
				{Name: "insurance", Kind: Deduction, Format: FormatAmount, Value: 217, Frequency: DeductMonthly},
			},
			want: 900,
		},
		{
			name: "credit still subtracts",
			base: 10000, freq: Monthly,
			deductions: []DeductionItem{
				{Name: "stipend", Kind: Credit, Format: FormatAmount, Value: 500, Frequency: PerPaycheck},
			},
			want: 9500,
		},
		{
			name: "unknown item frequency contributes nothing",
			base: 10000, freq: Monthly,
			deductions: []DeductionItem{
				{Name: "odd", Kind: Deduction, Format: FormatAmount, Value: 500, Frequency: DeductionFrequency("daily")},
			},
			want: 10000,
		},
		{
			name: "net may go negative",
			base: 1000, freq: Monthly,
			deductions: []DeductionItem{
				{Name: "big", Kind: Deduction, Format: FormatAmount, Value: 1500, Frequency: PerPaycheck},
			},
			want: -500,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NetPaycheck(tt.base, tt.freq, tt.deductions)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("NetPaycheck() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPaymentAmount(t *testing.T) {
	tests := []struct {
		name   string
		source IncomeSource
		want   float64
	}{
		{
			name: "annual salary with percent deduction",
			source: IncomeSource{
				Name: "Day Job", Frequency: Monthly, AnnualAmount: 120000,
				Deductions: []DeductionItem{
					{Name: "401k", Kind: Deduction, Format: FormatPercent, Value: 20, Frequency: PerPaycheck},
				},
			},
			want: 8000,
		},
		{
			name:   "missing amount treated as zero",
			source: IncomeSource{Name: "Side", Frequency: Weekly},
			want:   0,
		},
		{
			name:   "unknown frequency uses monthly factors",
			source: IncomeSource{Name: "Odd", Frequency: PayFrequency("fortnightly"), AnnualAmount: 24000},
			want:   2000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PaymentAmount(tt.source)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("PaymentAmount() = %v, want %v", got, tt.want)
			}
		})
	}
}

// Scaling the annual amount by k scales the result by k when every
// deduction is percent-format.
func TestPaymentAmountLinearInAnnualAmount(t *testing.T) {
	deductions := []DeductionItem{
		{Name: "401k", Kind: Deduction, Format: FormatPercent, Value: 12.5, Frequency: PerPaycheck},
		{Name: "hsa", Kind: Deduction, Format: FormatPercent, Value: 3, Frequency: DeductMonthly},
	}
	src := IncomeSource{Name: "Day Job", Frequency: Biweekly, AnnualAmount: 91000, Deductions: deductions}
	base := PaymentAmount(src)

	for _, k := range []float64{0, 0.5, 2, 3.25} {
		scaled := src
		scaled.AnnualAmount = src.AnnualAmount * k
		got := PaymentAmount(scaled)
		if math.Abs(got-base*k) > 1e-6 {
			t.Errorf("PaymentAmount(%v * annual) = %v, want %v", k, got, base*k)
		}
	}
}
