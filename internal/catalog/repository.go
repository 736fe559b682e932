package catalog

import (
	"context"

	"github.com/engrosnet/catalog-service/internal/model"
)

type Repository interface {
	Create(ctx context.Context, p *model.Product) error
	Update(ctx context.Context, p *model.Product) error
	Delete(ctx context.Context, id string) error

	// Find methods return (nil, nil) when nothing matches; mapping that to
	// the domain NotFound is the usecase's job.
	FindByID(ctx context.Context, id string) (*model.Product, error)
	FindBySlug(ctx context.Context, slug string) (*model.Product, error)
	FindByIDs(ctx context.Context, ids []string) ([]model.Product, error)

	// FindPage applies the product-stage filter with SQL-side sort and
	// pagination; FindAllMatches returns the full sorted match set for the
	// stock-filtered plan.
	FindPage(ctx context.Context, f *ProductStageFilter, sort Sort, page Pagination) ([]model.Product, error)
	FindAllMatches(ctx context.Context, f *ProductStageFilter, sort Sort) ([]model.Product, error)
	Count(ctx context.Context, f *ProductStageFilter) (int, error)

	Search(ctx context.Context, query string, limit int) ([]model.CompactProduct, error)
	IsSlugUnique(ctx context.Context, slug, excludeID string) (bool, error)
}
