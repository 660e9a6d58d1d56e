// Package indicator implements the Indicator read repository using
// PostgreSQL. Listing and counting share one filter composition so a page
// and its total always agree.
package indicator

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/datapolis/indicators-backend/internal/adapter/postgres"
	"github.com/datapolis/indicators-backend/internal/domain"
)

// psql builds queries with PostgreSQL ($1, $2, ...) placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var indicatorColumns = []string{
	"i.id", "i.name", "i.last_value", "i.last_value_year", "i.trend",
	"i.source", "i.periodicity_months", "i.active", "i.archived",
	"i.measurement_unit_id", "i.coverage_id", "i.ods_id",
	"i.created_by", "i.updated_by", "i.created_at", "i.updated_at",
}

// Repo provides indicator persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new indicator repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// List returns the indicators matching the filter, ordered per the filter's
// normalized sort settings with an id tie-break. Association joins can
// multiply rows, so the selection is DISTINCT over indicator columns.
// Returns an empty slice (not nil) when nothing matches.
func (r *Repo) List(ctx context.Context, f Filter) ([]domain.Indicator, error) {
	f.normalize()

	b := f.apply(psql.Select(indicatorColumns...).Distinct().From("indicators i")).
		OrderBy(f.orderBy()...)
	if f.Limit > 0 {
		b = b.Limit(f.Limit)
	}
	if f.Offset > 0 {
		b = b.Offset(f.Offset)
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)
	rows, err := querier.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list indicators: %w", err)
	}
	defer rows.Close()

	result, err := scanIndicators(rows)
	if err != nil {
		return nil, fmt.Errorf("list indicators: %w", err)
	}
	return result, nil
}

// Count returns the number of distinct indicators matching the filter. It
// composes the exact same fragments as List.
func (r *Repo) Count(ctx context.Context, f Filter) (int, error) {
	f.normalize()

	query, args, err := f.apply(psql.Select("COUNT(DISTINCT i.id)").From("indicators i")).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count query: %w", err)
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var count int
	if err := querier.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count indicators: %w", err)
	}
	return count, nil
}

const getByIDSQL = `
SELECT
    i.id, i.name, i.last_value, i.last_value_year, i.trend,
    i.source, i.periodicity_months, i.active, i.archived,
    i.measurement_unit_id, i.coverage_id, i.ods_id,
    i.created_by, i.updated_by, i.created_at, i.updated_at
FROM indicators i
WHERE i.id = $1`

// GetByID returns an indicator by primary key.
// Returns domain.ErrNotFound if the indicator does not exist.
func (r *Repo) GetByID(ctx context.Context, id int64) (*domain.Indicator, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	row := querier.QueryRow(ctx, getByIDSQL, id)
	ind, err := scanIndicator(row)
	if err != nil {
		return nil, postgres.MapError(err, "indicator", id)
	}
	return &ind, nil
}

// ---------------------------------------------------------------------------
// Row scanning helpers
// ---------------------------------------------------------------------------

func scanIndicator(row pgx.Row) (domain.Indicator, error) {
	var (
		i     domain.Indicator
		trend string
	)

	err := row.Scan(
		&i.ID, &i.Name, &i.LastValue, &i.LastValueYear, &trend,
		&i.Source, &i.PeriodicityMonths, &i.Active, &i.Archived,
		&i.MeasurementUnitID, &i.CoverageID, &i.OdsID,
		&i.CreatedBy, &i.UpdatedBy, &i.CreatedAt, &i.UpdatedAt,
	)
	if err != nil {
		return domain.Indicator{}, err
	}

	i.Trend = domain.Trend(trend)
	return i, nil
}

func scanIndicators(rows pgx.Rows) ([]domain.Indicator, error) {
	var result []domain.Indicator
	for rows.Next() {
		i, err := scanIndicator(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if result == nil {
		result = []domain.Indicator{}
	}
	return result, nil
}
