// Package featured enforces the bounded featured-slot policy on goal
// memberships: an indicator can be featured in a goal only while the goal
// has fewer than domain.MaxFeaturedPerGoal featured indicators.
package featured

import (
	"context"
	"log/slog"

	"github.com/datapolis/indicators-backend/internal/domain"
)

type goalRepo interface {
	GetTitles(ctx context.Context, goalIDs []int64) (map[int64]string, error)
	RelatedGoalIDs(ctx context.Context, indicatorID int64, goalIDs []int64) (map[int64]bool, error)
	LockMemberships(ctx context.Context, goalIDs []int64) error
	CountOtherFeatured(ctx context.Context, goalIDs []int64, excludeIndicatorID int64) (map[int64]int, error)
	UpdateFeatured(ctx context.Context, indicatorID int64, updates []domain.FeaturedUpdate) error
	FeaturedByGoals(ctx context.Context, goalIDs []int64) ([]domain.GoalFeaturedIndicators, error)
	StatusForIndicator(ctx context.Context, indicatorID int64) ([]domain.GoalFeaturedStatus, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service provides featured-slot operations.
type Service struct {
	goals goalRepo
	tx    txManager
	log   *slog.Logger
}

// NewService creates a new Featured service.
func NewService(log *slog.Logger, goals goalRepo, tx txManager) *Service {
	return &Service{
		goals: goals,
		tx:    tx,
		log:   log.With("service", "featured"),
	}
}
