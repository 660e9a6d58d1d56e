// Package notifier runs the staleness pipeline: scan assignments for
// indicators whose data outlived its declared cadence, group them into
// per-user digests, deliver the digests at a bounded rate and record the
// delivery so no user is nagged twice for the same staleness episode.
package notifier

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/datapolis/indicators-backend/internal/domain"
)

type candidateRepo interface {
	ListNotificationCandidates(ctx context.Context) ([]domain.StaleCandidate, error)
	MarkNotified(ctx context.Context, ids []int64, at time.Time) (int, error)
}

type digestSender interface {
	SendDigest(ctx context.Context, digest domain.Digest) error
}

// Service runs staleness scans and dispatches digests.
type Service struct {
	assignments candidateRepo
	sender      digestSender
	limiter     *rate.Limiter
	log         *slog.Logger

	// running guards against overlapping runs: a second Run while the first
	// is still dispatching would re-send digests for assignments whose
	// notified flag has not been persisted yet.
	running sync.Mutex

	now func() time.Time
}

// NewService creates a new Notifier service. sendDelay is the minimum pause
// between two consecutive per-user dispatches.
func NewService(log *slog.Logger, assignments candidateRepo, sender digestSender, sendDelay time.Duration) *Service {
	limit := rate.Inf
	if sendDelay > 0 {
		limit = rate.Every(sendDelay)
	}
	return &Service{
		assignments: assignments,
		sender:      sender,
		limiter:     rate.NewLimiter(limit, 1),
		log:         log.With("service", "notifier"),
		now:         time.Now,
	}
}
