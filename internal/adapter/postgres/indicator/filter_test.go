package indicator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildSQL(t *testing.T, f Filter) (string, []any) {
	t.Helper()
	f.normalize()
	query, args, err := f.apply(psql.Select(indicatorColumns...).Distinct().From("indicators i")).
		OrderBy(f.orderBy()...).
		ToSql()
	require.NoError(t, err)
	return query, args
}

func TestFilterNormalizeDefaults(t *testing.T) {
	t.Parallel()

	f := Filter{SortBy: "secret_column", SortOrder: "sideways"}
	f.normalize()

	assert.Equal(t, "updated_at", f.SortBy)
	assert.Equal(t, "DESC", f.SortOrder)
	assert.Equal(t, []string{"i.updated_at DESC", "i.id ASC"}, f.orderBy())
}

func TestFilterEmptyMeansNoRestriction(t *testing.T) {
	t.Parallel()

	query, args := buildSQL(t, Filter{})

	assert.NotContains(t, query, "JOIN")
	assert.NotContains(t, query, "WHERE")
	assert.Empty(t, args)
}

func TestFilterGoalFragment(t *testing.T) {
	t.Parallel()

	featured := true
	query, _ := buildSQL(t, Filter{GoalIDs: []int64{1, 2}, FeaturedOnly: &featured})

	assert.Contains(t, query, "JOIN indicator_goals ig ON ig.indicator_id = i.id")
	assert.Contains(t, query, "ig.goal_id IN")
	// The featured predicate must target the membership row.
	assert.Contains(t, query, "ig.featured =")
}

func TestFilterFeaturedWithoutGoalIDsStillJoins(t *testing.T) {
	t.Parallel()

	featured := true
	query, _ := buildSQL(t, Filter{FeaturedOnly: &featured})

	assert.Contains(t, query, "JOIN indicator_goals")
	assert.NotContains(t, query, "ig.goal_id")
}

func TestFilterTopicFragment(t *testing.T) {
	t.Parallel()

	// Public view: inner join even without ids.
	query, _ := buildSQL(t, Filter{RequireTopic: true})
	assert.Contains(t, query, "JOIN indicator_topics it ON it.indicator_id = i.id")
	assert.NotContains(t, query, "it.topic_id")

	// Private view without topic filter: no join at all.
	query, _ = buildSQL(t, Filter{})
	assert.NotContains(t, query, "indicator_topics")

	query, _ = buildSQL(t, Filter{TopicIDs: []int64{7}})
	assert.Contains(t, query, "it.topic_id IN")
}

func TestFilterUserFragment(t *testing.T) {
	t.Parallel()

	owner := int64(42)
	query, args := buildSQL(t, Filter{OwnerID: &owner})

	assert.Contains(t, query, "JOIN user_indicators ui ON ui.indicator_id = i.id")
	assert.Contains(t, query, "ui.is_owner")
	assert.Contains(t, args, int64(42))
}

func TestFilterSearchFragment(t *testing.T) {
	t.Parallel()

	t.Run("text query", func(t *testing.T) {
		t.Parallel()
		query, args := buildSQL(t, Filter{Search: "agua"})

		assert.Contains(t, query, "LEFT JOIN measurement_units mu")
		assert.Contains(t, query, "i.name ILIKE")
		assert.Contains(t, query, "mu.name ILIKE")
		assert.NotContains(t, query, "i.id =")
		assert.Contains(t, args, "%agua%")
	})

	t.Run("integer query also matches id", func(t *testing.T) {
		t.Parallel()
		query, args := buildSQL(t, Filter{Search: "118"})

		assert.Contains(t, query, "i.id =")
		assert.Contains(t, args, int64(118))
		// Substring matching still applies, OR-combined.
		assert.Contains(t, query, "i.name ILIKE")
		assert.Contains(t, args, "%118%")
	})
}

func TestFilterCountAndListSharePredicates(t *testing.T) {
	t.Parallel()

	featured := true
	active := true
	f := Filter{
		Search:       "empleo",
		GoalIDs:      []int64{3},
		TopicIDs:     []int64{1, 2},
		FeaturedOnly: &featured,
		Active:       &active,
	}

	f.normalize()
	listQuery, listArgs, err := f.apply(psql.Select(indicatorColumns...).Distinct().From("indicators i")).ToSql()
	require.NoError(t, err)
	countQuery, countArgs, err := f.apply(psql.Select("COUNT(DISTINCT i.id)").From("indicators i")).ToSql()
	require.NoError(t, err)

	// Identical predicates and identical argument order: only the select
	// list differs.
	wherePart := func(q string) string {
		idx := strings.Index(q, " FROM ")
		require.Positive(t, idx)
		return q[idx:]
	}
	assert.Equal(t, wherePart(listQuery), wherePart(countQuery))
	assert.Equal(t, listArgs, countArgs)
}
