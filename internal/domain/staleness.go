package domain

import "time"

// MonthsBetween returns the number of whole calendar months elapsed from
// `from` to `now`. An indicator updated exactly N months ago counts N; one
// updated a day short of N months counts N-1. Returns 0 when now precedes
// from.
//
// AddDate is used for the boundary check so end-of-month normalization
// (Jan 31 + 1 month = Mar 3) matches how expiration dates are computed.
func MonthsBetween(from, now time.Time) int {
	if now.Before(from) {
		return 0
	}

	months := (now.Year()-from.Year())*12 + int(now.Month()) - int(from.Month())
	for months > 0 && from.AddDate(0, months, 0).After(now) {
		months--
	}
	return months
}

// StaleAt returns the moment the indicator's data exceeds its declared
// cadence: UpdatedAt plus periodicity months. ok is false when the indicator
// has no periodicity and therefore never goes stale.
func (i Indicator) StaleAt() (t time.Time, ok bool) {
	if i.PeriodicityMonths == nil {
		return time.Time{}, false
	}
	return i.UpdatedAt.AddDate(0, *i.PeriodicityMonths, 0), true
}

// IsStale reports whether the indicator's last update is at least one full
// cadence period behind now. Indicators without a periodicity are never stale.
func (i Indicator) IsStale(now time.Time) bool {
	if i.PeriodicityMonths == nil {
		return false
	}
	return MonthsBetween(i.UpdatedAt, now) >= *i.PeriodicityMonths
}
