// Package goal implements the Goal repository using PostgreSQL. It owns the
// indicator↔goal membership rows and the featured flag that lives on them.
package goal

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/datapolis/indicators-backend/internal/adapter/postgres"
	"github.com/datapolis/indicators-backend/internal/domain"
)

// Repo provides goal and goal-membership persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new goal repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const getTitlesSQL = `
SELECT g.id, g.title
FROM goals g
WHERE g.id = ANY($1::bigint[])`

// GetTitles returns the titles of the given goals keyed by id. Unknown ids
// are simply absent from the result.
func (r *Repo) GetTitles(ctx context.Context, goalIDs []int64) (map[int64]string, error) {
	if len(goalIDs) == 0 {
		return map[int64]string{}, nil
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)
	rows, err := querier.Query(ctx, getTitlesSQL, goalIDs)
	if err != nil {
		return nil, fmt.Errorf("get goal titles: %w", err)
	}
	defer rows.Close()

	titles := make(map[int64]string, len(goalIDs))
	for rows.Next() {
		var (
			id    int64
			title string
		)
		if err := rows.Scan(&id, &title); err != nil {
			return nil, fmt.Errorf("get goal titles: %w", err)
		}
		titles[id] = title
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get goal titles: %w", err)
	}

	return titles, nil
}

const relatedGoalIDsSQL = `
SELECT ig.goal_id
FROM indicator_goals ig
WHERE ig.indicator_id = $1 AND ig.goal_id = ANY($2::bigint[])`

// RelatedGoalIDs returns the subset of goalIDs the indicator is a member of.
func (r *Repo) RelatedGoalIDs(ctx context.Context, indicatorID int64, goalIDs []int64) (map[int64]bool, error) {
	if len(goalIDs) == 0 {
		return map[int64]bool{}, nil
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)
	rows, err := querier.Query(ctx, relatedGoalIDsSQL, indicatorID, goalIDs)
	if err != nil {
		return nil, fmt.Errorf("get related goals: %w", err)
	}
	defer rows.Close()

	related := make(map[int64]bool, len(goalIDs))
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("get related goals: %w", err)
		}
		related[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get related goals: %w", err)
	}

	return related, nil
}

const lockMembershipsSQL = `
SELECT ig.indicator_id
FROM indicator_goals ig
WHERE ig.goal_id = ANY($1::bigint[])
ORDER BY ig.goal_id ASC, ig.indicator_id ASC
FOR UPDATE`

// LockMemberships locks every membership row of the given goals for the
// duration of the surrounding transaction. Two concurrent featured-slot
// updates on the same goal serialize here, so the capacity count that
// follows cannot be validated against a stale snapshot. Rows are locked in
// a fixed order so overlapping batches queue instead of deadlocking.
func (r *Repo) LockMemberships(ctx context.Context, goalIDs []int64) error {
	if len(goalIDs) == 0 {
		return nil
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)
	rows, err := querier.Query(ctx, lockMembershipsSQL, goalIDs)
	if err != nil {
		return fmt.Errorf("lock goal memberships: %w", err)
	}
	rows.Close()
	return rows.Err()
}

const countOtherFeaturedSQL = `
SELECT ig.goal_id, COUNT(*)
FROM indicator_goals ig
WHERE ig.goal_id = ANY($1::bigint[])
  AND ig.featured
  AND ig.indicator_id <> $2
GROUP BY ig.goal_id`

// CountOtherFeatured returns, per goal, how many indicators other than
// excludeIndicatorID are currently featured. Goals with no other featured
// indicators are absent from the map.
func (r *Repo) CountOtherFeatured(ctx context.Context, goalIDs []int64, excludeIndicatorID int64) (map[int64]int, error) {
	if len(goalIDs) == 0 {
		return map[int64]int{}, nil
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)
	rows, err := querier.Query(ctx, countOtherFeaturedSQL, goalIDs, excludeIndicatorID)
	if err != nil {
		return nil, fmt.Errorf("count featured per goal: %w", err)
	}
	defer rows.Close()

	counts := make(map[int64]int, len(goalIDs))
	for rows.Next() {
		var (
			goalID int64
			n      int
		)
		if err := rows.Scan(&goalID, &n); err != nil {
			return nil, fmt.Errorf("count featured per goal: %w", err)
		}
		counts[goalID] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("count featured per goal: %w", err)
	}

	return counts, nil
}

const updateFeaturedSQL = `
UPDATE indicator_goals
SET featured = $3
WHERE indicator_id = $1 AND goal_id = $2`

// UpdateFeatured applies the requested featured flags on the indicator's
// membership rows in one batch. Callers run it inside a transaction so the
// batch is all-or-nothing.
func (r *Repo) UpdateFeatured(ctx context.Context, indicatorID int64, updates []domain.FeaturedUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, u := range updates {
		batch.Queue(updateFeaturedSQL, indicatorID, u.GoalID, u.Featured)
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)
	results := querier.SendBatch(ctx, batch)
	defer results.Close()

	for range updates {
		if _, err := results.Exec(); err != nil {
			return postgres.MapError(err, "indicator_goal", indicatorID)
		}
	}
	return nil
}

const featuredByGoalsSQL = `
SELECT g.id, g.title, i.id, i.name
FROM goals g
JOIN indicator_goals ig ON ig.goal_id = g.id AND ig.featured
JOIN indicators i ON i.id = ig.indicator_id
WHERE g.id = ANY($1::bigint[])
ORDER BY g.id ASC, i.id ASC`

// FeaturedByGoals returns, per goal, the indicators currently featured in
// it. Goals with no featured indicators are omitted.
func (r *Repo) FeaturedByGoals(ctx context.Context, goalIDs []int64) ([]domain.GoalFeaturedIndicators, error) {
	if len(goalIDs) == 0 {
		return []domain.GoalFeaturedIndicators{}, nil
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)
	rows, err := querier.Query(ctx, featuredByGoalsSQL, goalIDs)
	if err != nil {
		return nil, fmt.Errorf("list featured by goals: %w", err)
	}
	defer rows.Close()

	result := []domain.GoalFeaturedIndicators{}
	for rows.Next() {
		var (
			goalID int64
			title  string
			ref    domain.IndicatorRef
		)
		if err := rows.Scan(&goalID, &title, &ref.ID, &ref.Name); err != nil {
			return nil, fmt.Errorf("list featured by goals: %w", err)
		}

		if n := len(result); n > 0 && result[n-1].GoalID == goalID {
			result[n-1].Indicators = append(result[n-1].Indicators, ref)
			continue
		}
		result = append(result, domain.GoalFeaturedIndicators{
			GoalID:     goalID,
			Title:      title,
			Indicators: []domain.IndicatorRef{ref},
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list featured by goals: %w", err)
	}

	return result, nil
}

const statusForIndicatorSQL = `
SELECT ig.goal_id, g.title, ig.featured
FROM indicator_goals ig
JOIN goals g ON g.id = ig.goal_id
WHERE ig.indicator_id = $1
ORDER BY ig.goal_id ASC`

// StatusForIndicator returns the featured flag of the indicator in each goal
// it belongs to.
func (r *Repo) StatusForIndicator(ctx context.Context, indicatorID int64) ([]domain.GoalFeaturedStatus, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, statusForIndicatorSQL, indicatorID)
	if err != nil {
		return nil, fmt.Errorf("goal status for indicator: %w", err)
	}
	defer rows.Close()

	result := []domain.GoalFeaturedStatus{}
	for rows.Next() {
		var s domain.GoalFeaturedStatus
		if err := rows.Scan(&s.GoalID, &s.Title, &s.Featured); err != nil {
			return nil, fmt.Errorf("goal status for indicator: %w", err)
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("goal status for indicator: %w", err)
	}

	return result, nil
}
