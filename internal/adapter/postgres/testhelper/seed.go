package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/datapolis/indicators-backend/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedUser creates an active user and returns the filled domain.User.
func SeedUser(t *testing.T, pool *pgxpool.Pool) domain.User {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	user := domain.User{
		Names:        "Test User " + suffix,
		FirstSurname: "Seeded",
		Email:        "testuser-" + suffix + "@example.com",
		Active:       true,
	}

	err := pool.QueryRow(ctx,
		`INSERT INTO users (names, first_surname, email, active)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		user.Names, user.FirstSurname, user.Email, user.Active,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		t.Fatalf("testhelper: SeedUser insert user: %v", err)
	}

	return user
}

// IndicatorOpt customizes a seeded indicator before insert.
type IndicatorOpt func(*domain.Indicator)

// WithPeriodicity sets the staleness cadence in months.
func WithPeriodicity(months int) IndicatorOpt {
	return func(i *domain.Indicator) { i.PeriodicityMonths = &months }
}

// WithUpdatedAt overrides the last-update timestamp, used to seed stale rows.
func WithUpdatedAt(ts time.Time) IndicatorOpt {
	return func(i *domain.Indicator) { i.UpdatedAt = ts }
}

// WithInactive marks the indicator inactive.
func WithInactive() IndicatorOpt {
	return func(i *domain.Indicator) { i.Active = false }
}

// SeedIndicator creates an active indicator and returns the filled
// domain.Indicator. Pass opts to tweak periodicity, activity or timestamps.
func SeedIndicator(t *testing.T, pool *pgxpool.Pool, opts ...IndicatorOpt) domain.Indicator {
	t.Helper()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	ind := domain.Indicator{
		Name:      "Test Indicator " + uniqueSuffix(),
		Trend:     domain.TrendNotApplicable,
		Active:    true,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(&ind)
	}

	err := pool.QueryRow(ctx,
		`INSERT INTO indicators (name, trend, periodicity_months, active, updated_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		ind.Name, string(ind.Trend), ind.PeriodicityMonths, ind.Active, ind.UpdatedAt,
	).Scan(&ind.ID, &ind.CreatedAt)
	if err != nil {
		t.Fatalf("testhelper: SeedIndicator insert: %v", err)
	}

	return ind
}

// SeedGoal creates a goal and returns the filled domain.Goal.
func SeedGoal(t *testing.T, pool *pgxpool.Pool) domain.Goal {
	t.Helper()
	ctx := context.Background()

	goal := domain.Goal{Title: "Test Goal " + uniqueSuffix()}
	err := pool.QueryRow(ctx,
		`INSERT INTO goals (title) VALUES ($1) RETURNING id, created_at, updated_at`,
		goal.Title,
	).Scan(&goal.ID, &goal.CreatedAt, &goal.UpdatedAt)
	if err != nil {
		t.Fatalf("testhelper: SeedGoal insert: %v", err)
	}

	return goal
}

// SeedTopic creates an active topic and returns the filled domain.Topic.
func SeedTopic(t *testing.T, pool *pgxpool.Pool) domain.Topic {
	t.Helper()
	ctx := context.Background()

	topic := domain.Topic{Name: "Test Topic " + uniqueSuffix(), Active: true}
	err := pool.QueryRow(ctx,
		`INSERT INTO topics (name, active) VALUES ($1, $2) RETURNING id, created_at, updated_at`,
		topic.Name, topic.Active,
	).Scan(&topic.ID, &topic.CreatedAt, &topic.UpdatedAt)
	if err != nil {
		t.Fatalf("testhelper: SeedTopic insert: %v", err)
	}

	return topic
}

// LinkGoal associates an indicator with a goal, optionally featured.
func LinkGoal(t *testing.T, pool *pgxpool.Pool, indicatorID, goalID int64, featured bool) {
	t.Helper()

	_, err := pool.Exec(context.Background(),
		`INSERT INTO indicator_goals (indicator_id, goal_id, featured) VALUES ($1, $2, $3)`,
		indicatorID, goalID, featured,
	)
	if err != nil {
		t.Fatalf("testhelper: LinkGoal insert: %v", err)
	}
}

// LinkTopic associates an indicator with a topic.
func LinkTopic(t *testing.T, pool *pgxpool.Pool, indicatorID, topicID int64) {
	t.Helper()

	_, err := pool.Exec(context.Background(),
		`INSERT INTO indicator_topics (indicator_id, topic_id) VALUES ($1, $2)`,
		indicatorID, topicID,
	)
	if err != nil {
		t.Fatalf("testhelper: LinkTopic insert: %v", err)
	}
}

// SeedAssignment grants userID the indicator, created by createdBy, and
// returns the filled domain.Assignment.
func SeedAssignment(t *testing.T, pool *pgxpool.Pool, userID, indicatorID, createdBy int64, isOwner bool) domain.Assignment {
	t.Helper()
	ctx := context.Background()

	a := domain.Assignment{
		UserID:      userID,
		IndicatorID: indicatorID,
		IsOwner:     isOwner,
		Active:      true,
		CreatedBy:   createdBy,
	}
	err := pool.QueryRow(ctx,
		`INSERT INTO user_indicators (user_id, indicator_id, is_owner, active, created_by)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, notified, created_at, updated_at`,
		a.UserID, a.IndicatorID, a.IsOwner, a.Active, a.CreatedBy,
	).Scan(&a.ID, &a.Notified, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		t.Fatalf("testhelper: SeedAssignment insert: %v", err)
	}

	return a
}
