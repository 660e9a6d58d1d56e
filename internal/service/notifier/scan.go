package notifier

import (
	"strings"
	"time"

	"github.com/datapolis/indicators-backend/internal/domain"
)

// BuildDigests selects the candidates that are due at `now` and groups them
// into per-user digests. Pure function: no I/O, so the due computation is
// testable without a store.
//
// A candidate is due when at least its full cadence has elapsed since the
// indicator's last update, in whole calendar months. Users appear in the
// order their first due assignment appears in the input.
func BuildDigests(candidates []domain.StaleCandidate, now time.Time) []domain.Digest {
	byUser := make(map[int64]int)
	digests := []domain.Digest{}

	for _, c := range candidates {
		if domain.MonthsBetween(c.IndicatorUpdatedAt, now) < c.PeriodicityMonths {
			continue
		}

		item := domain.DigestItem{
			IndicatorID: c.IndicatorID,
			Name:        c.IndicatorName,
			ExpiredAt:   c.IndicatorUpdatedAt.AddDate(0, c.PeriodicityMonths, 0),
		}

		idx, ok := byUser[c.UserID]
		if !ok {
			idx = len(digests)
			byUser[c.UserID] = idx
			digests = append(digests, domain.Digest{
				UserID:     c.UserID,
				Email:      c.UserEmail,
				Salutation: salutation(c.UserNames),
			})
		}
		digests[idx].Items = append(digests[idx].Items, item)
		digests[idx].AssignmentIDs = append(digests[idx].AssignmentIDs, c.AssignmentID)
	}

	return digests
}

// salutation returns the first name token.
func salutation(names string) string {
	fields := strings.Fields(names)
	if len(fields) == 0 {
		return names
	}
	return fields[0]
}
