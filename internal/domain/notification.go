package domain

import "time"

// StaleCandidate is the scanner's working row: an un-notified active
// assignment joined with its indicator's cadence fields and its user's
// contact fields. Candidates are loaded in assignment-creation order so that
// per-user digest grouping is deterministic.
type StaleCandidate struct {
	AssignmentID       int64
	UserID             int64
	UserNames          string
	UserFirstSurname   string
	UserEmail          string
	IndicatorID        int64
	IndicatorName      string
	IndicatorUpdatedAt time.Time
	PeriodicityMonths  int
}

// DigestItem is one due indicator inside a user's digest, with the date its
// data was expected to be refreshed.
type DigestItem struct {
	IndicatorID int64
	Name        string
	ExpiredAt   time.Time
}

// Digest is the per-user batch notification produced by one scanner run.
// AssignmentIDs are the rows to mark notified once the digest is delivered.
type Digest struct {
	UserID        int64
	Email         string
	Salutation    string
	Items         []DigestItem
	AssignmentIDs []int64
}
