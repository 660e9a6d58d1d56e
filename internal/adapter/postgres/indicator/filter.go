package indicator

import (
	"strconv"

	sq "github.com/Masterminds/squirrel"
)

// Filter defines parameters for listing and counting indicators. Each
// dimension is composed into the query by exactly one fragment function, so a
// count and its corresponding page always share identical predicates.
type Filter struct {
	// Search performs a case-insensitive substring match over the indicator
	// name and the measurement-unit label. When the query parses as an
	// integer it additionally matches the indicator id, combined with OR.
	Search string

	// GoalIDs filters indicators that belong to any of the given goals.
	GoalIDs []int64

	// FeaturedOnly, when set, applies the featured predicate on the goal
	// membership row (not on the goal), so an indicator is matched by the
	// state of its own association.
	FeaturedOnly *bool

	// TopicIDs filters indicators that belong to any of the given topics.
	TopicIDs []int64

	// RequireTopic forces an inner topic join even without topic ids: the
	// public catalog only lists indicators attached to at least one topic.
	RequireTopic bool

	// CoverageIDs, OdsIDs and MeasurementUnitID restrict the reference
	// catalog columns on the indicator row.
	CoverageIDs       []int64
	OdsIDs            []int64
	MeasurementUnitID *int64

	// UserIDs filters indicators assigned to any of the given users.
	// OwnerID restricts to indicators owned by the given user.
	UserIDs []int64
	OwnerID *int64

	// Active, when set, restricts by the indicator's active flag.
	Active *bool

	// SortBy determines the sort column: "name", "created_at", "updated_at".
	// Default: "updated_at". SortOrder is "ASC" or "DESC", default "DESC".
	// The id ascending tie-break is always appended for stable pagination.
	SortBy    string
	SortOrder string

	// Limit caps the page size; 0 means no limit. Offset skips rows.
	Limit  uint64
	Offset uint64
}

const (
	sortByName      = "name"
	sortByCreatedAt = "created_at"
	sortByUpdatedAt = "updated_at"

	sortOrderASC  = "ASC"
	sortOrderDESC = "DESC"
)

// normalize applies defaults and discards sort values outside the allow-list.
func (f *Filter) normalize() {
	switch f.SortBy {
	case sortByName, sortByCreatedAt, sortByUpdatedAt:
		// valid
	default:
		f.SortBy = sortByUpdatedAt
	}

	switch f.SortOrder {
	case sortOrderASC, sortOrderDESC:
		// valid
	default:
		f.SortOrder = sortOrderDESC
	}
}

// orderBy returns the ORDER BY clauses for the normalized sort settings.
func (f *Filter) orderBy() []string {
	return []string{"i." + f.SortBy + " " + f.SortOrder, "i.id ASC"}
}

// ---------------------------------------------------------------------------
// Dimension fragments
//
// Each fragment degrades to "no restriction" when its filter values are
// absent. Association dimensions join the association table and predicate on
// the association row; reference-catalog dimensions predicate on the
// indicator row directly.
// ---------------------------------------------------------------------------

// apply attaches every dimension fragment to the builder. Both List and
// Count go through here; this is the single definition of filter semantics.
func (f *Filter) apply(b sq.SelectBuilder) sq.SelectBuilder {
	b = f.goalFragment(b)
	b = f.topicFragment(b)
	b = f.userFragment(b)
	b = f.catalogFragment(b)
	b = f.searchFragment(b)

	if f.Active != nil {
		b = b.Where(sq.Eq{"i.active": *f.Active})
	}
	return b
}

// goalFragment joins goal memberships when a goal id or featured restriction
// is present. The featured predicate lives on the membership row so an
// indicator featured in one goal is not matched through another.
func (f *Filter) goalFragment(b sq.SelectBuilder) sq.SelectBuilder {
	if len(f.GoalIDs) == 0 && f.FeaturedOnly == nil {
		return b
	}

	b = b.Join("indicator_goals ig ON ig.indicator_id = i.id")
	if len(f.GoalIDs) > 0 {
		b = b.Where(sq.Eq{"ig.goal_id": f.GoalIDs})
	}
	if f.FeaturedOnly != nil {
		b = b.Where(sq.Eq{"ig.featured": *f.FeaturedOnly})
	}
	return b
}

// topicFragment joins topic memberships. The join is mandatory for the
// public view (RequireTopic) even without an id restriction.
func (f *Filter) topicFragment(b sq.SelectBuilder) sq.SelectBuilder {
	if !f.RequireTopic && len(f.TopicIDs) == 0 {
		return b
	}

	b = b.Join("indicator_topics it ON it.indicator_id = i.id")
	if len(f.TopicIDs) > 0 {
		b = b.Where(sq.Eq{"it.topic_id": f.TopicIDs})
	}
	return b
}

// userFragment joins assignments when an assignee or owner restriction is
// present. The owner predicate lives on the assignment row.
func (f *Filter) userFragment(b sq.SelectBuilder) sq.SelectBuilder {
	if len(f.UserIDs) == 0 && f.OwnerID == nil {
		return b
	}

	b = b.Join("user_indicators ui ON ui.indicator_id = i.id")
	if len(f.UserIDs) > 0 {
		b = b.Where(sq.Eq{"ui.user_id": f.UserIDs})
	}
	if f.OwnerID != nil {
		b = b.Where(sq.Eq{"ui.user_id": *f.OwnerID, "ui.is_owner": true})
	}
	return b
}

// catalogFragment restricts the reference-catalog foreign keys.
func (f *Filter) catalogFragment(b sq.SelectBuilder) sq.SelectBuilder {
	if len(f.CoverageIDs) > 0 {
		b = b.Where(sq.Eq{"i.coverage_id": f.CoverageIDs})
	}
	if len(f.OdsIDs) > 0 {
		b = b.Where(sq.Eq{"i.ods_id": f.OdsIDs})
	}
	if f.MeasurementUnitID != nil {
		b = b.Where(sq.Eq{"i.measurement_unit_id": *f.MeasurementUnitID})
	}
	return b
}

// searchFragment applies the free-text search: ILIKE over the indicator name
// and the measurement-unit label, plus an id equality when the query is an
// integer.
func (f *Filter) searchFragment(b sq.SelectBuilder) sq.SelectBuilder {
	if f.Search == "" {
		return b
	}

	pattern := "%" + f.Search + "%"
	b = b.LeftJoin("measurement_units mu ON mu.id = i.measurement_unit_id")

	or := sq.Or{
		sq.ILike{"i.name": pattern},
		sq.ILike{"mu.name": pattern},
	}
	if id, err := strconv.ParseInt(f.Search, 10, 64); err == nil {
		or = append(or, sq.Eq{"i.id": id})
	}
	return b.Where(or)
}
