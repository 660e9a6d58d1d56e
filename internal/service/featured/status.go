package featured

import (
	"context"
	"fmt"

	"github.com/datapolis/indicators-backend/internal/domain"
)

// GoalStatusForIndicator returns, per goal the indicator belongs to, whether
// it is currently featured there. Used to render the featured toggles.
func (s *Service) GoalStatusForIndicator(ctx context.Context, indicatorID int64) ([]domain.GoalFeaturedStatus, error) {
	if indicatorID == 0 {
		return nil, domain.NewValidationError("indicator_id", "required")
	}

	statuses, err := s.goals.StatusForIndicator(ctx, indicatorID)
	if err != nil {
		return nil, fmt.Errorf("goal status for indicator: %w", err)
	}
	return statuses, nil
}

// FeaturedIndicatorsByGoals returns the current slot holders of the given
// goals.
func (s *Service) FeaturedIndicatorsByGoals(ctx context.Context, goalIDs []int64) ([]domain.GoalFeaturedIndicators, error) {
	if len(goalIDs) == 0 {
		return nil, domain.NewValidationError("goal_ids", "at least one goal required")
	}

	occupied, err := s.goals.FeaturedByGoals(ctx, goalIDs)
	if err != nil {
		return nil, fmt.Errorf("featured indicators by goals: %w", err)
	}
	return occupied, nil
}
