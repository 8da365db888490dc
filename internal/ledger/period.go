package ledger

import (
	"time"

	"github.com/propledger-dev/propledger/internal/apperr"
)

// Named reporting periods accepted by the report endpoints.
const (
	PeriodCurrentMonth   = "current_month"
	PeriodLastMonth      = "last_month"
	PeriodCurrentQuarter = "current_quarter"
	PeriodLastQuarter    = "last_quarter"
	PeriodCurrentYear    = "current_year"
	PeriodLastYear       = "last_year"
)

const dateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD date into a date-only UTC time.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, apperr.Validation("date", "invalid date %q, expected YYYY-MM-DD", s)
	}
	return DateOnly(t), nil
}

// ResolvePeriod maps a named period to an inclusive calendar date range.
// "Current" periods run from the calendar boundary through today; "last"
// periods cover the whole previous month, quarter or year. An unknown name
// is a validation error rather than a silent default.
func ResolvePeriod(name string, now time.Time) (DateRange, error) {
	today := DateOnly(now)
	y, m, _ := today.Date()
	monthStart := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	quarterStart := time.Date(y, m-(m-1)%3, 1, 0, 0, 0, 0, time.UTC)
	yearStart := time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC)

	switch name {
	case PeriodCurrentMonth:
		return DateRange{Start: monthStart, End: today}, nil
	case PeriodLastMonth:
		return DateRange{
			Start: monthStart.AddDate(0, -1, 0),
			End:   monthStart.AddDate(0, 0, -1),
		}, nil
	case PeriodCurrentQuarter:
		return DateRange{Start: quarterStart, End: today}, nil
	case PeriodLastQuarter:
		return DateRange{
			Start: quarterStart.AddDate(0, -3, 0),
			End:   quarterStart.AddDate(0, 0, -1),
		}, nil
	case PeriodCurrentYear:
		return DateRange{Start: yearStart, End: today}, nil
	case PeriodLastYear:
		return DateRange{
			Start: yearStart.AddDate(-1, 0, 0),
			End:   yearStart.AddDate(0, 0, -1),
		}, nil
	}
	return DateRange{}, apperr.Validation("period", "unknown period %q", name)
}
