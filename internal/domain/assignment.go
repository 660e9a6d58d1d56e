package domain

import "time"

// Assignment grants a user visibility and responsibility over an indicator.
// At most one assignment per indicator has IsOwner set; Notified flips to
// true when a staleness digest has been delivered for the current episode and
// is reset by the indicator-update flow, never by this core.
type Assignment struct {
	ID          int64
	UserID      int64
	IndicatorID int64
	IsOwner     bool
	Notified    bool
	NotifiedAt  *time.Time
	Active      bool
	CreatedBy   int64
	UpdatedBy   *int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// AssignmentPair identifies one (user, indicator) grant.
type AssignmentPair struct {
	UserID      int64
	IndicatorID int64
}

// GrantAttrs carries the shared attributes of a bulk grant.
type GrantAttrs struct {
	IsOwner   bool
	CreatedBy int64
	UpdatedBy int64
}

// AssignmentWithUser is the listing projection for a single indicator's
// assignments: the relation row plus the assignee's display fields.
type AssignmentWithUser struct {
	Assignment
	UserNames         string
	UserFirstSurname  string
	UserSecondSurname *string
	UserEmail         string
}
