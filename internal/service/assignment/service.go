// Package assignment manages who can see and edit each indicator: bulk
// grants, revocation and the single-owner transfer flow.
package assignment

import (
	"context"
	"log/slog"

	"github.com/datapolis/indicators-backend/internal/domain"
)

type assignmentRepo interface {
	BulkCreate(ctx context.Context, pairs []domain.AssignmentPair, attrs domain.GrantAttrs) (int, error)
	DeleteByIDs(ctx context.Context, ids []int64) (int, error)
	GetOwnerForUpdate(ctx context.Context, indicatorID int64) (*domain.Assignment, error)
	GetByUserAndIndicatorForUpdate(ctx context.Context, userID, indicatorID int64) (*domain.Assignment, error)
	SetOwnerFlag(ctx context.Context, id int64, isOwner bool, updatedBy int64) error
	IsUserAssigned(ctx context.Context, userID, indicatorID int64) (bool, error)
	ListByIndicator(ctx context.Context, indicatorID int64, limit, offset int) ([]domain.AssignmentWithUser, int, error)
	ListUnassignedUsers(ctx context.Context, indicatorID int64) ([]domain.User, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service provides assignment management operations.
type Service struct {
	assignments assignmentRepo
	tx          txManager
	log         *slog.Logger
}

// NewService creates a new Assignment service.
func NewService(log *slog.Logger, assignments assignmentRepo, tx txManager) *Service {
	return &Service{
		assignments: assignments,
		tx:          tx,
		log:         log.With("service", "assignment"),
	}
}
