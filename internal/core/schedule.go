package core

import "time"

// NextPaymentDate advances a payment cycle date by one frequency unit. It is
// a pure function of its inputs; an unrecognized frequency (including
// "none") returns the current date unchanged rather than erroring.
func NextPaymentDate(current time.Time, freq PayFrequency) time.Time {
	switch freq {
	case Weekly:
		return current.AddDate(0, 0, 7)
	case Biweekly:
		return current.AddDate(0, 0, 14)
	case Semimonthly:
		// Fixed 15-day step, not a calendar-aware half month.
		return current.AddDate(0, 0, 15)
	case Monthly:
		return AddMonths(current, 1)
	case Quarterly:
		return AddMonths(current, 3)
	case Annually:
		return AddMonths(current, 12)
	default:
		return current
	}
}

// AddMonths adds calendar months, clamping the day to the last day of the
// target month (Jan 31 + 1 month = Feb 28/29). time.Time.AddDate would
// normalize overflow into the following month instead.
func AddMonths(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	hour, min, sec := t.Clock()

	m := int(month) + months
	y := year + (m-1)/12
	m = (m-1)%12 + 1
	if m < 1 {
		m += 12
		y--
	}

	if last := daysInMonth(y, time.Month(m)); day > last {
		day = last
	}
	return time.Date(y, time.Month(m), day, hour, min, sec, t.Nanosecond(), t.Location())
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
