package domain

import "time"

// Trend is the current or desired direction of an indicator's value.
type Trend string

const (
	TrendAscending     Trend = "ascending"
	TrendDescending    Trend = "descending"
	TrendNotApplicable Trend = "not_applicable"
)

// Valid reports whether t is one of the known trend values.
func (t Trend) Valid() bool {
	switch t {
	case TrendAscending, TrendDescending, TrendNotApplicable:
		return true
	}
	return false
}

// Indicator is a tracked metric with a declared update cadence and ownership.
// PeriodicityMonths is nil for indicators that never go stale.
type Indicator struct {
	ID                int64
	Name              string
	LastValue         *string
	LastValueYear     *string
	Trend             Trend
	Source            *string
	PeriodicityMonths *int
	Active            bool
	Archived          bool
	MeasurementUnitID *int64
	CoverageID        *int64
	OdsID             *int64
	CreatedBy         *int64
	UpdatedBy         *int64
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// IndicatorRef is the id+name projection used in conflict results and digests.
type IndicatorRef struct {
	ID   int64
	Name string
}
