package assignment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/datapolis/indicators-backend/internal/domain"
)

// TransferOwnership moves the owner flag of an indicator to another user in
// one transaction. The current owner row is read with a row lock, so two
// concurrent transfers on the same indicator serialize: the second sees the
// committed state and either no-ops or demotes the winner of the first.
//
// Returns domain.ErrOwnerNotFound when the indicator has no owner row. Every
// indicator receives an owner at creation, so that is a data-integrity fault,
// not a user error.
func (s *Service) TransferOwnership(ctx context.Context, input TransferOwnershipInput) error {
	if err := input.Validate(); err != nil {
		return err
	}

	var transferred bool
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		owner, err := s.assignments.GetOwnerForUpdate(txCtx, input.IndicatorID)
		if errors.Is(err, domain.ErrOwnerNotFound) {
			// A transfer that committed while we waited on the row lock moved
			// the flag to a row outside this statement's snapshot. At read
			// committed a second read takes a fresh snapshot and finds it;
			// only a repeated miss means the indicator truly has no owner.
			owner, err = s.assignments.GetOwnerForUpdate(txCtx, input.IndicatorID)
		}
		if err != nil {
			return err
		}

		if owner.UserID == input.NewOwnerUserID {
			return nil
		}

		if err := s.assignments.SetOwnerFlag(txCtx, owner.ID, false, input.ActingUserID); err != nil {
			return fmt.Errorf("demote current owner: %w", err)
		}

		existing, err := s.assignments.GetByUserAndIndicatorForUpdate(txCtx, input.NewOwnerUserID, input.IndicatorID)
		switch {
		case err == nil:
			if err := s.assignments.SetOwnerFlag(txCtx, existing.ID, true, input.ActingUserID); err != nil {
				return fmt.Errorf("promote new owner: %w", err)
			}
		case errors.Is(err, domain.ErrNotFound):
			pairs := []domain.AssignmentPair{{UserID: input.NewOwnerUserID, IndicatorID: input.IndicatorID}}
			if _, err := s.assignments.BulkCreate(txCtx, pairs, domain.GrantAttrs{
				IsOwner:   true,
				CreatedBy: input.ActingUserID,
				UpdatedBy: input.ActingUserID,
			}); err != nil {
				return fmt.Errorf("create owner assignment: %w", err)
			}
		default:
			return err
		}

		transferred = true
		return nil
	})
	if err != nil {
		return err
	}

	if !transferred {
		s.log.InfoContext(ctx, "ownership transfer no-op, user already owns indicator",
			slog.Int64("user_id", input.NewOwnerUserID),
			slog.Int64("indicator_id", input.IndicatorID),
		)
		return nil
	}

	s.log.InfoContext(ctx, "ownership transferred",
		slog.Int64("new_owner_user_id", input.NewOwnerUserID),
		slog.Int64("indicator_id", input.IndicatorID),
		slog.Int64("acting_user_id", input.ActingUserID),
	)
	return nil
}
