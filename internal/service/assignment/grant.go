package assignment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/datapolis/indicators-backend/internal/domain"
)

// Grant assigns every user in input.UserIDs to every indicator in
// input.IndicatorIDs. Pairs that already exist are silently skipped, so the
// call is idempotent.
func (s *Service) Grant(ctx context.Context, input GrantInput) error {
	if err := input.Validate(); err != nil {
		return err
	}

	pairs := make([]domain.AssignmentPair, 0, len(input.UserIDs)*len(input.IndicatorIDs))
	for _, userID := range input.UserIDs {
		for _, indicatorID := range input.IndicatorIDs {
			pairs = append(pairs, domain.AssignmentPair{UserID: userID, IndicatorID: indicatorID})
		}
	}

	created, err := s.assignments.BulkCreate(ctx, pairs, domain.GrantAttrs{
		CreatedBy: input.ActingUserID,
		UpdatedBy: input.ActingUserID,
	})
	if err != nil {
		return fmt.Errorf("grant assignments: %w", err)
	}

	s.log.InfoContext(ctx, "access granted",
		slog.Int64("acting_user_id", input.ActingUserID),
		slog.Int("requested", len(pairs)),
		slog.Int("created", created),
	)
	return nil
}

// AssignCreatorAsOwner grants the indicator's creator an owner assignment.
// Called once per indicator at creation time, before anyone else is granted.
func (s *Service) AssignCreatorAsOwner(ctx context.Context, creatorID, indicatorID int64) error {
	if creatorID == 0 {
		return domain.NewValidationError("creator_id", "required")
	}
	if indicatorID == 0 {
		return domain.NewValidationError("indicator_id", "required")
	}

	pairs := []domain.AssignmentPair{{UserID: creatorID, IndicatorID: indicatorID}}
	_, err := s.assignments.BulkCreate(ctx, pairs, domain.GrantAttrs{
		IsOwner:   true,
		CreatedBy: creatorID,
		UpdatedBy: creatorID,
	})
	if err != nil {
		return fmt.Errorf("assign creator as owner: %w", err)
	}

	s.log.InfoContext(ctx, "creator assigned as owner",
		slog.Int64("user_id", creatorID),
		slog.Int64("indicator_id", indicatorID),
	)
	return nil
}
