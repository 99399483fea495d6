package core

import (
	"testing"
	"time"
)

func date(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

func TestNextPaymentDate(t *testing.T) {
	tests := []struct {
		name    string
		current time.Time
		freq    PayFrequency
		want    time.Time
	}{
		{"weekly", date(2024, 1, 15), Weekly, date(2024, 1, 22)},
		{"biweekly", date(2024, 1, 15), Biweekly, date(2024, 1, 29)},
		{"semimonthly is a fixed 15 days", date(2024, 1, 31), Semimonthly, date(2024, 2, 15)},
		{"monthly", date(2024, 1, 15), Monthly, date(2024, 2, 15)},
		{"monthly clamps to end of february", date(2024, 1, 31), Monthly, date(2024, 2, 29)},
		{"quarterly", date(2024, 1, 15), Quarterly, date(2024, 4, 15)},
		{"quarterly across year end", date(2024, 11, 30), Quarterly, date(2025, 2, 28)},
		{"annually", date(2024, 3, 1), Annually, date(2025, 3, 1)},
		{"annually from leap day", date(2024, 2, 29), Annually, date(2025, 2, 28)},
		{"none is a self loop", date(2024, 1, 15), NoFrequency, date(2024, 1, 15)},
		{"unknown is a self loop", date(2024, 1, 15), PayFrequency("fortnightly"), date(2024, 1, 15)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextPaymentDate(tt.current, tt.freq)
			if !got.Equal(tt.want) {
				t.Errorf("NextPaymentDate(%v, %s) = %v, want %v", tt.current, tt.freq, got, tt.want)
			}
		})
	}
}

// The advancer depends only on its inputs, never on the wall clock.
func TestNextPaymentDateIsPure(t *testing.T) {
	current := date(2024, 1, 15)
	first := NextPaymentDate(current, Biweekly)
	second := NextPaymentDate(current, Biweekly)
	if !first.Equal(second) {
		t.Errorf("repeated calls disagree: %v vs %v", first, second)
	}
}

func TestAddMonths(t *testing.T) {
	tests := []struct {
		name   string
		start  time.Time
		months int
		want   time.Time
	}{
		{"simple", date(2024, 1, 10), 1, date(2024, 2, 10)},
		{"clamp jan 31 to feb 29", date(2024, 1, 31), 1, date(2024, 2, 29)},
		{"clamp in non leap year", date(2023, 1, 31), 1, date(2023, 2, 28)},
		{"across year boundary", date(2024, 11, 15), 3, date(2025, 2, 15)},
		{"twelve months", date(2024, 6, 30), 12, date(2025, 6, 30)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AddMonths(tt.start, tt.months)
			if !got.Equal(tt.want) {
				t.Errorf("AddMonths(%v, %d) = %v, want %v", tt.start, tt.months, got, tt.want)
			}
		})
	}
}
