// Package catalog serves indicator listings. The public view only exposes
// active indicators attached to at least one topic; the private (admin) view
// sees everything and unlocks the assignment and ownership dimensions.
package catalog

import (
	"context"
	"log/slog"

	"github.com/datapolis/indicators-backend/internal/adapter/postgres/indicator"
	"github.com/datapolis/indicators-backend/internal/domain"
)

type indicatorRepo interface {
	List(ctx context.Context, f indicator.Filter) ([]domain.Indicator, error)
	Count(ctx context.Context, f indicator.Filter) (int, error)
	GetByID(ctx context.Context, id int64) (*domain.Indicator, error)
}

// Service provides indicator listing and counting.
type Service struct {
	indicators indicatorRepo
	log        *slog.Logger
}

// NewService creates a new Catalog service.
func NewService(log *slog.Logger, indicators indicatorRepo) *Service {
	return &Service{
		indicators: indicators,
		log:        log.With("service", "catalog"),
	}
}
