package ledger

import "time"

// AddMonths advances d by n calendar months, preserving the day of month
// where it exists and clamping to the last day of the target month
// otherwise (Jan 31 + 1 month = Feb 28/29).
func AddMonths(d time.Time, n int) time.Time {
	first := time.Date(d.Year(), d.Month()+time.Month(n), 1, 0, 0, 0, 0, d.Location())
	day := d.Day()
	if last := first.AddDate(0, 1, -1).Day(); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, d.Location())
}

// MonthStart truncates d to the first day of its month.
func MonthStart(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, d.Location())
}

// MonthEnd returns the last day of d's month.
func MonthEnd(d time.Time) time.Time {
	return MonthStart(d).AddDate(0, 1, -1)
}

// StatementDueDate places a card's due day inside the statement period's
// month, clamped to the month's last day when the due day does not exist
// (due day 31 in a 30-day month).
func StatementDueDate(period time.Time, dueDay int) time.Time {
	start := MonthStart(period)
	if last := MonthEnd(period).Day(); dueDay > last {
		dueDay = last
	}
	return time.Date(start.Year(), start.Month(), dueDay, 0, 0, 0, 0, start.Location())
}

// monthsBetween counts whole calendar months from a's month to b's month.
func monthsBetween(a, b time.Time) int {
	return (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
}
