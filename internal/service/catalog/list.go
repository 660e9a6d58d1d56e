package catalog

import (
	"context"
	"fmt"

	"github.com/datapolis/indicators-backend/internal/adapter/postgres/indicator"
	"github.com/datapolis/indicators-backend/internal/domain"
)

const defaultPerPage = 20

// Page is one listing page together with the total row count for the same
// filter set. Total is computed with the exact predicates that produced
// Items, never a separate approximation.
type Page struct {
	Items   []domain.Indicator
	Total   int
	Page    int
	PerPage int
}

// List returns one page of the admin catalog plus the matching total.
func (s *Service) List(ctx context.Context, f domain.IndicatorFilter) (*Page, error) {
	return s.list(ctx, f, false)
}

// ListPublic returns one page of the public catalog: active indicators
// attached to at least one topic. Assignment and ownership dimensions are
// ignored here, they are admin-only.
func (s *Service) ListPublic(ctx context.Context, f domain.IndicatorFilter) (*Page, error) {
	f.UserID = nil
	f.UserIDs = nil
	f.OwnerID = nil
	return s.list(ctx, f, true)
}

func (s *Service) list(ctx context.Context, f domain.IndicatorFilter, public bool) (*Page, error) {
	page := f.Page
	if page < 1 {
		page = 1
	}
	perPage := f.PerPage
	if perPage < 1 {
		perPage = defaultPerPage
	}

	adapted := adaptFilter(f, public)
	adapted.Limit = uint64(perPage)
	adapted.Offset = uint64((page - 1) * perPage)

	items, err := s.indicators.List(ctx, adapted)
	if err != nil {
		return nil, fmt.Errorf("list indicators: %w", err)
	}

	total, err := s.indicators.Count(ctx, adapted)
	if err != nil {
		return nil, fmt.Errorf("count indicators: %w", err)
	}

	return &Page{Items: items, Total: total, Page: page, PerPage: perPage}, nil
}

// Count returns the number of indicators matching the filter in the admin
// view.
func (s *Service) Count(ctx context.Context, f domain.IndicatorFilter) (int, error) {
	total, err := s.indicators.Count(ctx, adaptFilter(f, false))
	if err != nil {
		return 0, fmt.Errorf("count indicators: %w", err)
	}
	return total, nil
}

// GetByID returns one indicator.
func (s *Service) GetByID(ctx context.Context, id int64) (*domain.Indicator, error) {
	if id == 0 {
		return nil, domain.NewValidationError("id", "required")
	}
	return s.indicators.GetByID(ctx, id)
}

// adaptFilter folds the single-id convenience fields into their list
// counterparts and applies the public-view restrictions.
func adaptFilter(f domain.IndicatorFilter, public bool) indicator.Filter {
	adapted := indicator.Filter{
		Search:            f.Search,
		GoalIDs:           f.GoalIDs,
		FeaturedOnly:      f.FeaturedOnly,
		TopicIDs:          f.TopicIDs,
		CoverageIDs:       f.CoverageIDs,
		OdsIDs:            f.OdsIDs,
		MeasurementUnitID: f.MeasurementUnitID,
		UserIDs:           f.UserIDs,
		OwnerID:           f.OwnerID,
		Active:            f.Active,
		SortBy:            f.SortBy,
		SortOrder:         f.SortOrder,
	}

	if f.GoalID != nil {
		adapted.GoalIDs = append(adapted.GoalIDs, *f.GoalID)
	}
	if f.TopicID != nil {
		adapted.TopicIDs = append(adapted.TopicIDs, *f.TopicID)
	}
	if f.UserID != nil {
		adapted.UserIDs = append(adapted.UserIDs, *f.UserID)
	}

	if public {
		active := true
		adapted.Active = &active
		adapted.RequireTopic = true
	}

	return adapted
}
