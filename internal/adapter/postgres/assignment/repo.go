// Package assignment implements the user↔indicator relation repository using
// PostgreSQL. It backs the grant/revoke/ownership flows and the staleness
// notification pipeline.
package assignment

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/datapolis/indicators-backend/internal/adapter/postgres"
	"github.com/datapolis/indicators-backend/internal/domain"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Repo provides assignment persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new assignment repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// BulkCreate inserts one assignment per pair. Existing (user, indicator)
// pairs are skipped via ON CONFLICT DO NOTHING, making the grant idempotent.
// Returns the number of rows actually inserted.
func (r *Repo) BulkCreate(ctx context.Context, pairs []domain.AssignmentPair, attrs domain.GrantAttrs) (int, error) {
	if len(pairs) == 0 {
		return 0, nil
	}

	b := psql.Insert("user_indicators").
		Columns("user_id", "indicator_id", "is_owner", "created_by", "updated_by")
	for _, p := range pairs {
		b = b.Values(p.UserID, p.IndicatorID, attrs.IsOwner, attrs.CreatedBy, attrs.UpdatedBy)
	}
	b = b.Suffix("ON CONFLICT (user_id, indicator_id) DO NOTHING")

	query, args, err := b.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build bulk create query: %w", err)
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)
	tag, err := querier.Exec(ctx, query, args...)
	if err != nil {
		return 0, postgres.MapError(err, "user_indicator", 0)
	}
	return int(tag.RowsAffected()), nil
}

const deleteByIDsSQL = `DELETE FROM user_indicators WHERE id = ANY($1::bigint[])`

// DeleteByIDs hard-deletes the given assignments. Unknown ids are skipped;
// returns the number of rows deleted.
func (r *Repo) DeleteByIDs(ctx context.Context, ids []int64) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)
	tag, err := querier.Exec(ctx, deleteByIDsSQL, ids)
	if err != nil {
		return 0, fmt.Errorf("delete assignments: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

const assignmentColumns = `
    ui.id, ui.user_id, ui.indicator_id, ui.is_owner, ui.notified,
    ui.notified_at, ui.active, ui.created_by, ui.updated_by,
    ui.created_at, ui.updated_at`

const getOwnerForUpdateSQL = `
SELECT` + assignmentColumns + `
FROM user_indicators ui
WHERE ui.indicator_id = $1 AND ui.is_owner
FOR UPDATE`

// GetOwnerForUpdate returns the current owner assignment of an indicator and
// locks the row for the duration of the surrounding transaction. Returns
// domain.ErrOwnerNotFound when the indicator has no owner row, an integrity
// fault, since every indicator receives an owner at creation.
func (r *Repo) GetOwnerForUpdate(ctx context.Context, indicatorID int64) (*domain.Assignment, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	a, err := scanAssignment(querier.QueryRow(ctx, getOwnerForUpdateSQL, indicatorID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("indicator %d: %w", indicatorID, domain.ErrOwnerNotFound)
		}
		return nil, postgres.MapError(err, "user_indicator", indicatorID)
	}
	return &a, nil
}

const getByUserAndIndicatorForUpdateSQL = `
SELECT` + assignmentColumns + `
FROM user_indicators ui
WHERE ui.user_id = $1 AND ui.indicator_id = $2
FOR UPDATE`

// GetByUserAndIndicatorForUpdate returns the assignment of a user on an
// indicator, locking it. Returns domain.ErrNotFound when the user has no
// assignment there.
func (r *Repo) GetByUserAndIndicatorForUpdate(ctx context.Context, userID, indicatorID int64) (*domain.Assignment, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	a, err := scanAssignment(querier.QueryRow(ctx, getByUserAndIndicatorForUpdateSQL, userID, indicatorID))
	if err != nil {
		return nil, postgres.MapError(err, "user_indicator", indicatorID)
	}
	return &a, nil
}

const setOwnerFlagSQL = `
UPDATE user_indicators
SET is_owner = $2, updated_by = $3, updated_at = now()
WHERE id = $1`

// SetOwnerFlag flips the is_owner flag of one assignment.
// Returns domain.ErrNotFound if the assignment does not exist.
func (r *Repo) SetOwnerFlag(ctx context.Context, id int64, isOwner bool, updatedBy int64) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := querier.Exec(ctx, setOwnerFlagSQL, id, isOwner, updatedBy)
	if err != nil {
		return postgres.MapError(err, "user_indicator", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user_indicator %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

const isUserAssignedSQL = `
SELECT EXISTS (
    SELECT 1
    FROM user_indicators ui
    JOIN users u ON u.id = ui.user_id AND u.active
    JOIN indicators i ON i.id = ui.indicator_id AND i.active
    WHERE ui.user_id = $1 AND ui.indicator_id = $2 AND ui.active
)`

// IsUserAssigned reports whether the user holds an active assignment on an
// active indicator. Used by the authorization layer before write operations.
func (r *Repo) IsUserAssigned(ctx context.Context, userID, indicatorID int64) (bool, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var assigned bool
	if err := querier.QueryRow(ctx, isUserAssignedSQL, userID, indicatorID).Scan(&assigned); err != nil {
		return false, fmt.Errorf("check assignment: %w", err)
	}
	return assigned, nil
}

const listByIndicatorSQL = `
SELECT` + assignmentColumns + `,
    u.names, u.first_surname, u.second_surname, u.email
FROM user_indicators ui
JOIN users u ON u.id = ui.user_id AND u.active
WHERE ui.indicator_id = $1
ORDER BY ui.created_at ASC, ui.id ASC
LIMIT $2 OFFSET $3`

const countByIndicatorSQL = `
SELECT COUNT(*)
FROM user_indicators ui
JOIN users u ON u.id = ui.user_id AND u.active
WHERE ui.indicator_id = $1`

// ListByIndicator returns a page of an indicator's assignments with the
// assignees' display fields, plus the total count for pagination.
func (r *Repo) ListByIndicator(ctx context.Context, indicatorID int64, limit, offset int) ([]domain.AssignmentWithUser, int, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var total int
	if err := querier.QueryRow(ctx, countByIndicatorSQL, indicatorID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count assignments: %w", err)
	}

	rows, err := querier.Query(ctx, listByIndicatorSQL, indicatorID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list assignments: %w", err)
	}
	defer rows.Close()

	result := []domain.AssignmentWithUser{}
	for rows.Next() {
		var a domain.AssignmentWithUser
		err := rows.Scan(
			&a.ID, &a.UserID, &a.IndicatorID, &a.IsOwner, &a.Notified,
			&a.NotifiedAt, &a.Active, &a.CreatedBy, &a.UpdatedBy,
			&a.CreatedAt, &a.UpdatedAt,
			&a.UserNames, &a.UserFirstSurname, &a.UserSecondSurname, &a.UserEmail,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("list assignments: %w", err)
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list assignments: %w", err)
	}

	return result, total, nil
}

const listUnassignedUsersSQL = `
SELECT u.id, u.names, u.first_surname, u.second_surname, u.email, u.active,
    u.role_id, u.created_at, u.updated_at
FROM users u
WHERE u.active
  AND NOT EXISTS (
    SELECT 1 FROM user_indicators ui
    WHERE ui.user_id = u.id AND ui.indicator_id = $1
  )
ORDER BY u.id ASC`

// ListUnassignedUsers returns the active users that have no assignment on
// the given indicator, for grant pickers.
func (r *Repo) ListUnassignedUsers(ctx context.Context, indicatorID int64) ([]domain.User, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, listUnassignedUsersSQL, indicatorID)
	if err != nil {
		return nil, fmt.Errorf("list unassigned users: %w", err)
	}
	defer rows.Close()

	result := []domain.User{}
	for rows.Next() {
		var u domain.User
		err := rows.Scan(
			&u.ID, &u.Names, &u.FirstSurname, &u.SecondSurname, &u.Email,
			&u.Active, &u.RoleID, &u.CreatedAt, &u.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("list unassigned users: %w", err)
		}
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list unassigned users: %w", err)
	}

	return result, nil
}

const listNotificationCandidatesSQL = `
SELECT
    ui.id, ui.user_id, u.names, u.first_surname, u.email,
    i.id, i.name, i.updated_at, i.periodicity_months
FROM user_indicators ui
JOIN users u ON u.id = ui.user_id AND u.active
JOIN indicators i ON i.id = ui.indicator_id AND i.active
WHERE ui.active
  AND NOT ui.notified
  AND i.periodicity_months IS NOT NULL
ORDER BY ui.id ASC`

// ListNotificationCandidates loads every assignment that could become due:
// active relation, active user, active indicator with a declared cadence,
// not yet notified for the current staleness episode. The scanner decides
// due-ness in memory; ordering by assignment id keeps per-user grouping
// deterministic.
func (r *Repo) ListNotificationCandidates(ctx context.Context) ([]domain.StaleCandidate, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, listNotificationCandidatesSQL)
	if err != nil {
		return nil, fmt.Errorf("list notification candidates: %w", err)
	}
	defer rows.Close()

	result := []domain.StaleCandidate{}
	for rows.Next() {
		var c domain.StaleCandidate
		err := rows.Scan(
			&c.AssignmentID, &c.UserID, &c.UserNames, &c.UserFirstSurname, &c.UserEmail,
			&c.IndicatorID, &c.IndicatorName, &c.IndicatorUpdatedAt, &c.PeriodicityMonths,
		)
		if err != nil {
			return nil, fmt.Errorf("list notification candidates: %w", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list notification candidates: %w", err)
	}

	return result, nil
}

const markNotifiedSQL = `
UPDATE user_indicators
SET notified = true, notified_at = $2, updated_at = now()
WHERE id = ANY($1::bigint[]) AND NOT notified`

// MarkNotified flips notified/notified_at on the given assignments.
// Idempotent: rows already notified are untouched, so re-running after a
// partial dispatch failure only affects the remainder. Returns the number of
// rows updated.
func (r *Repo) MarkNotified(ctx context.Context, ids []int64, at time.Time) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)
	tag, err := querier.Exec(ctx, markNotifiedSQL, ids, at)
	if err != nil {
		return 0, fmt.Errorf("mark notified: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// ---------------------------------------------------------------------------
// Row scanning helpers
// ---------------------------------------------------------------------------

func scanAssignment(row pgx.Row) (domain.Assignment, error) {
	var a domain.Assignment
	err := row.Scan(
		&a.ID, &a.UserID, &a.IndicatorID, &a.IsOwner, &a.Notified,
		&a.NotifiedAt, &a.Active, &a.CreatedBy, &a.UpdatedBy,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return domain.Assignment{}, err
	}
	return a, nil
}
