package core

// Paycheck conversion factors per pay frequency. The per-month values are
// rounded approximations (52/12, 26/12, ...) and are pinned as-is; they do
// not reconcile exactly with the per-year values.
var (
	paychecksPerYear = map[PayFrequency]float64{
		Weekly:      52,
		Biweekly:    26,
		Semimonthly: 24,
		Monthly:     12,
		Quarterly:   4,
		Annually:    1,
	}

	paychecksPerMonth = map[PayFrequency]float64{
		Weekly:      4.33,
		Biweekly:    2.17,
		Semimonthly: 2,
		Monthly:     1,
		Quarterly:   0.33,
		Annually:    0.083,
	}
)

// PaychecksPerYear returns how many paychecks a year holds for the
// frequency. Unknown or absent frequencies fall back to monthly (12); no
// error is raised.
func (f PayFrequency) PaychecksPerYear() float64 {
	if n, ok := paychecksPerYear[f]; ok {
		return n
	}
	return 12
}

// PaychecksPerMonth returns how many paychecks a month holds for the
// frequency, falling back to monthly (1) for unknown values.
func (f PayFrequency) PaychecksPerMonth() float64 {
	if n, ok := paychecksPerMonth[f]; ok {
		return n
	}
	return 1
}
