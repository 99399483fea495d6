package core

// NetPaycheck applies a source's deduction line items to a per-paycheck base
// amount and returns the net. Percent items are always a percentage of the
// per-paycheck base, never of a monthly or annual figure; fixed items are
// taken verbatim. An item's own frequency then converts its contribution to
// a per-paycheck equivalent using the source's pay frequency.
//
// Credit items are not sign-flipped: they reduce net pay exactly like
// deductions. Items with an unrecognized frequency contribute nothing.
// The result may be negative; callers accept it as-is.
func NetPaycheck(base float64, freq PayFrequency, deductions []DeductionItem) float64 {
	var total float64
	for _, d := range deductions {
		amount := d.Value
		if d.Format == FormatPercent {
			amount = base * d.Value / 100
		}
		switch d.Frequency {
		case PerPaycheck:
			total += amount
		case DeductMonthly:
			total += amount / freq.PaychecksPerMonth()
		case DeductAnnually:
			total += amount / freq.PaychecksPerYear()
		}
	}
	return base - total
}

// PaymentAmount converts a source's annual gross amount into the net amount
// of a single paycheck.
func PaymentAmount(s IncomeSource) float64 {
	base := s.AnnualAmount / s.Frequency.PaychecksPerYear()
	return NetPaycheck(base, s.Frequency, s.Deductions)
}
