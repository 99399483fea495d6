// Package core holds the domain model and the payment calculation,
// scheduling, and accumulation logic shared by services, storage, and the
// HTTP layer.
package core

import (
	"encoding/json"
	"strconv"
	"time"
)

// MonthlyTotals tracks realized income per period as a nested mapping of
// 4-digit year -> 1-based month (no zero padding) -> source name ->
// accumulated amount. It is persisted as a JSON text blob and must
// round-trip exactly; a missing year, month, or name resolves to zero.
type MonthlyTotals map[string]map[string]map[string]float64

// NewMonthlyTotals returns an empty, ready-to-use structure.
func NewMonthlyTotals() MonthlyTotals {
	return make(MonthlyTotals)
}

// ParseMonthlyTotals decodes a persisted totals blob. Corrupt or empty input
// yields a fresh empty structure together with the decode error so the
// caller can log and continue; the returned totals are always usable.
func ParseMonthlyTotals(raw string) (MonthlyTotals, error) {
	if raw == "" {
		return NewMonthlyTotals(), nil
	}
	var t MonthlyTotals
	if err := json.Unmarshal([]byte(raw), &t); err != nil {
		return NewMonthlyTotals(), err
	}
	if t == nil {
		t = NewMonthlyTotals()
	}
	return t, nil
}

// Encode serializes the totals for persistence.
func (t MonthlyTotals) Encode() (string, error) {
	b, err := json.Marshal(t)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Add accumulates delta onto the entry for name in the year and month of at,
// creating the nested containers as needed. Sibling entries are untouched.
func (t MonthlyTotals) Add(name string, delta float64, at time.Time) {
	year, month := periodKeys(at)
	t.ensure(year, month)
	t[year][month][name] += delta
}

// Set overwrites the entry for name in the year and month of at. Used only
// by the manual adjust path, never by scheduled accumulation.
func (t MonthlyTotals) Set(name string, amount float64, at time.Time) {
	year, month := periodKeys(at)
	t.ensure(year, month)
	t[year][month][name] = amount
}

// Amount returns the accumulated amount for name in the given period, or 0
// when any level of the path is absent.
func (t MonthlyTotals) Amount(year, month int, name string) float64 {
	return t[strconv.Itoa(year)][strconv.Itoa(month)][name]
}

func (t MonthlyTotals) ensure(year, month string) {
	if t[year] == nil {
		t[year] = make(map[string]map[string]float64)
	}
	if t[year][month] == nil {
		t[year][month] = make(map[string]float64)
	}
}

func periodKeys(at time.Time) (year, month string) {
	return strconv.Itoa(at.Year()), strconv.Itoa(int(at.Month()))
}
