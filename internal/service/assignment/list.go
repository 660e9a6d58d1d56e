package assignment

import (
	"context"
	"fmt"

	"github.com/datapolis/indicators-backend/internal/domain"
)

const defaultPerPage = 20

// ListByIndicator returns a page of an indicator's assignments with assignee
// display fields, plus the total count.
func (s *Service) ListByIndicator(ctx context.Context, input ListByIndicatorInput) ([]domain.AssignmentWithUser, int, error) {
	if err := input.Validate(); err != nil {
		return nil, 0, err
	}

	page := input.Page
	if page < 1 {
		page = 1
	}
	perPage := input.PerPage
	if perPage < 1 {
		perPage = defaultPerPage
	}

	list, total, err := s.assignments.ListByIndicator(ctx, input.IndicatorID, perPage, (page-1)*perPage)
	if err != nil {
		return nil, 0, fmt.Errorf("list assignments: %w", err)
	}
	return list, total, nil
}

// ListUnassignedUsers returns active users without an assignment on the
// indicator, for grant pickers.
func (s *Service) ListUnassignedUsers(ctx context.Context, indicatorID int64) ([]domain.User, error) {
	if indicatorID == 0 {
		return nil, domain.NewValidationError("indicator_id", "required")
	}

	users, err := s.assignments.ListUnassignedUsers(ctx, indicatorID)
	if err != nil {
		return nil, fmt.Errorf("list unassigned users: %w", err)
	}
	return users, nil
}

// IsUserAssigned reports whether the user holds an active assignment on an
// active indicator.
func (s *Service) IsUserAssigned(ctx context.Context, userID, indicatorID int64) (bool, error) {
	if userID == 0 || indicatorID == 0 {
		return false, domain.NewValidationError("user_id/indicator_id", "required")
	}
	return s.assignments.IsUserAssigned(ctx, userID, indicatorID)
}
