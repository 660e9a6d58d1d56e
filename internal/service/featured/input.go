package featured

import (
	"github.com/datapolis/indicators-backend/internal/domain"
)

// SetFeaturedStatusInput holds the requested featured flags for one indicator
// across several goals.
type SetFeaturedStatusInput struct {
	IndicatorID int64
	Updates     []domain.FeaturedUpdate
}

// Validate checks all fields and collects all errors.
func (i SetFeaturedStatusInput) Validate() error {
	var errs []domain.FieldError

	if i.IndicatorID == 0 {
		errs = append(errs, domain.FieldError{Field: "indicator_id", Message: "required"})
	}
	if len(i.Updates) == 0 {
		errs = append(errs, domain.FieldError{Field: "updates", Message: "at least one goal update required"})
	}

	seen := make(map[int64]bool, len(i.Updates))
	for _, u := range i.Updates {
		if u.GoalID == 0 {
			errs = append(errs, domain.FieldError{Field: "updates", Message: "goal_id required"})
			continue
		}
		if seen[u.GoalID] {
			errs = append(errs, domain.FieldError{Field: "updates", Message: "duplicate goal_id in batch"})
		}
		seen[u.GoalID] = true
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}
