package featured

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/datapolis/indicators-backend/internal/domain"
)

// SetFeaturedStatus applies a batch of featured-flag changes for one
// indicator. The whole batch is validated and applied inside a single
// transaction; membership rows of the touched goals are locked first, so a
// concurrent batch on the same goal waits and then re-validates against
// committed state. The batch is all-or-nothing: one goal at capacity aborts
// every update in it.
func (s *Service) SetFeaturedStatus(ctx context.Context, input SetFeaturedStatusInput) (*Result, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	goalIDs := make([]int64, 0, len(input.Updates))
	featuring := make([]int64, 0, len(input.Updates))
	for _, u := range input.Updates {
		goalIDs = append(goalIDs, u.GoalID)
		if u.Featured {
			featuring = append(featuring, u.GoalID)
		}
	}

	var result *Result
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		related, err := s.goals.RelatedGoalIDs(txCtx, input.IndicatorID, goalIDs)
		if err != nil {
			return fmt.Errorf("check goal relations: %w", err)
		}

		var unrelated []int64
		for _, id := range goalIDs {
			if !related[id] {
				unrelated = append(unrelated, id)
			}
		}
		if len(unrelated) > 0 {
			titles, err := s.goals.GetTitles(txCtx, unrelated)
			if err != nil {
				return fmt.Errorf("resolve goal titles: %w", err)
			}
			names := make([]string, 0, len(unrelated))
			for _, id := range unrelated {
				if title, ok := titles[id]; ok {
					names = append(names, title)
				} else {
					names = append(names, fmt.Sprintf("goal %d", id))
				}
			}
			sort.Strings(names)
			return &domain.UnrelatedGoalError{IndicatorID: input.IndicatorID, Titles: names}
		}

		if err := s.goals.LockMemberships(txCtx, goalIDs); err != nil {
			return fmt.Errorf("lock goal memberships: %w", err)
		}

		if len(featuring) > 0 {
			counts, err := s.goals.CountOtherFeatured(txCtx, featuring, input.IndicatorID)
			if err != nil {
				return fmt.Errorf("count featured slots: %w", err)
			}

			var atCapacity []int64
			for _, id := range featuring {
				if counts[id] >= domain.MaxFeaturedPerGoal {
					atCapacity = append(atCapacity, id)
				}
			}
			if len(atCapacity) > 0 {
				occupied, err := s.goals.FeaturedByGoals(txCtx, atCapacity)
				if err != nil {
					return fmt.Errorf("list occupied slots: %w", err)
				}
				result = &Result{GoalsAtCapacity: occupied}
				return nil
			}
		}

		if err := s.goals.UpdateFeatured(txCtx, input.IndicatorID, input.Updates); err != nil {
			return fmt.Errorf("update featured flags: %w", err)
		}
		result = &Result{Applied: true}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !result.Applied {
		s.log.InfoContext(ctx, "featured update rejected, goals at capacity",
			slog.Int64("indicator_id", input.IndicatorID),
			slog.Int("goals_at_capacity", len(result.GoalsAtCapacity)),
		)
		return result, nil
	}

	s.log.InfoContext(ctx, "featured flags updated",
		slog.Int64("indicator_id", input.IndicatorID),
		slog.Int("updates", len(input.Updates)),
	)
	return result, nil
}
