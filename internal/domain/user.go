package domain

import (
	"strings"
	"time"
)

// User is a catalog account. Lifecycle is managed outside this service; the
// core reads active, email and name fields for notification purposes.
type User struct {
	ID            int64
	Names         string
	FirstSurname  string
	SecondSurname *string
	Email         string
	Active        bool
	RoleID        *int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Salutation returns the first name token, used to open notification digests.
func (u User) Salutation() string {
	fields := strings.Fields(u.Names)
	if len(fields) == 0 {
		return u.Names
	}
	return fields[0]
}

// FullName returns names and surnames joined with single spaces.
func (u User) FullName() string {
	parts := []string{u.Names, u.FirstSurname}
	if u.SecondSurname != nil && *u.SecondSurname != "" {
		parts = append(parts, *u.SecondSurname)
	}
	return strings.Join(parts, " ")
}
