package notifier

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/datapolis/indicators-backend/internal/domain"
	"github.com/datapolis/indicators-backend/pkg/ctxutil"
)

// RunStats summarizes one scanner run.
type RunStats struct {
	Candidates int
	Digests    int
	Sent       int
	Failed     int
	Marked     int
}

// Run executes one staleness scan and dispatches the resulting digests.
// Returns domain.ErrScanInProgress when a previous run is still dispatching.
//
// Dispatch is sequential with a pause between users. A send failure is
// logged and skips only that user: their assignments stay un-notified and are
// retried on the next run. Context cancellation stops the run between users,
// leaving the remaining assignments untouched.
func (s *Service) Run(ctx context.Context) (*RunStats, error) {
	if !s.running.TryLock() {
		return nil, domain.ErrScanInProgress
	}
	defer s.running.Unlock()

	log := s.log
	if rid := ctxutil.RunIDFromCtx(ctx); rid != "" {
		log = log.With(slog.String("run_id", rid))
	}

	candidates, err := s.assignments.ListNotificationCandidates(ctx)
	if err != nil {
		return nil, fmt.Errorf("load notification candidates: %w", err)
	}

	digests := BuildDigests(candidates, s.now())
	stats := &RunStats{Candidates: len(candidates), Digests: len(digests)}

	for _, digest := range digests {
		if err := s.limiter.Wait(ctx); err != nil {
			return stats, fmt.Errorf("dispatch interrupted: %w", err)
		}

		if err := s.sender.SendDigest(ctx, digest); err != nil {
			stats.Failed++
			log.ErrorContext(ctx, "digest send failed, will retry next run",
				slog.Int64("user_id", digest.UserID),
				slog.Int("items", len(digest.Items)),
				slog.Any("error", err),
			)
			continue
		}
		stats.Sent++

		marked, err := s.assignments.MarkNotified(ctx, digest.AssignmentIDs, s.now())
		if err != nil {
			// The digest went out but the flags did not stick; the next run
			// re-sends for these assignments. Surfacing the error stops the
			// run so a storage outage is not hammered user by user.
			return stats, fmt.Errorf("mark notified for user %d: %w", digest.UserID, err)
		}
		stats.Marked += marked
	}

	log.InfoContext(ctx, "staleness run finished",
		slog.Int("candidates", stats.Candidates),
		slog.Int("digests", stats.Digests),
		slog.Int("sent", stats.Sent),
		slog.Int("failed", stats.Failed),
		slog.Int("assignments_marked", stats.Marked),
	)
	return stats, nil
}
