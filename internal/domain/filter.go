package domain

// IndicatorFilter contains filtering/pagination parameters for indicator
// listings and counts. Absent dimensions impose no restriction.
type IndicatorFilter struct {
	Search string

	GoalID       *int64
	GoalIDs      []int64
	FeaturedOnly *bool

	TopicID  *int64
	TopicIDs []int64

	CoverageIDs       []int64
	OdsIDs            []int64
	MeasurementUnitID *int64

	UserID  *int64
	UserIDs []int64
	OwnerID *int64

	Active *bool

	SortBy    string
	SortOrder string
	Page      int
	PerPage   int
}
