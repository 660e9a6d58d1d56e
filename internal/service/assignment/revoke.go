package assignment

import (
	"context"
	"fmt"
	"log/slog"
)

// Revoke hard-deletes the given assignments. Ids that no longer exist are
// skipped.
func (s *Service) Revoke(ctx context.Context, input RevokeInput) error {
	if err := input.Validate(); err != nil {
		return err
	}

	deleted, err := s.assignments.DeleteByIDs(ctx, input.AssignmentIDs)
	if err != nil {
		return fmt.Errorf("revoke assignments: %w", err)
	}

	s.log.InfoContext(ctx, "access revoked",
		slog.Int("requested", len(input.AssignmentIDs)),
		slog.Int("deleted", deleted),
	)
	return nil
}
