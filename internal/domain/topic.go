package domain

import "time"

// Topic is a display grouping for indicators. Public listings require every
// indicator to belong to at least one topic.
type Topic struct {
	ID        int64
	Name      string
	Code      *string
	Color     *string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
