package featured

import "github.com/datapolis/indicators-backend/internal/domain"

// Result is the outcome of SetFeaturedStatus. A capacity conflict is not an
// error: Applied is false and GoalsAtCapacity lists, per full goal, the
// indicators currently holding its slots so the caller can unfeature one.
type Result struct {
	Applied         bool
	GoalsAtCapacity []domain.GoalFeaturedIndicators
}
