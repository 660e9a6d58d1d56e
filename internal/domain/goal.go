package domain

import "time"

// MaxFeaturedPerGoal bounds the number of indicators featured within a goal.
const MaxFeaturedPerGoal = 5

// Goal groups indicators and exposes a bounded number of featured slots.
type Goal struct {
	ID        int64
	Title     string
	Alias     *string
	Color     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// GoalMembership is the indicator↔goal association row.
type GoalMembership struct {
	IndicatorID int64
	GoalID      int64
	Featured    bool
}

// FeaturedUpdate requests flipping the featured flag of one membership.
type FeaturedUpdate struct {
	GoalID   int64
	Featured bool
}

// GoalFeaturedStatus is the per-goal featured flag of a single indicator.
type GoalFeaturedStatus struct {
	GoalID   int64
	Title    string
	Featured bool
}

// GoalFeaturedIndicators lists the indicators currently featured in a goal.
// It doubles as the payload of a featured-slot capacity conflict: the caller
// sees who occupies the slots and can unfeature one of them.
type GoalFeaturedIndicators struct {
	GoalID     int64
	Title      string
	Indicators []IndicatorRef
}
