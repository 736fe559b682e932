package category

import (
	"context"

	"github.com/engrosnet/catalog-service/internal/category/dto"
	"github.com/engrosnet/catalog-service/internal/model"
)

type Repository interface {
	Create(ctx context.Context, c *model.Category) error
	FindByID(ctx context.Context, id string) (*model.Category, error)
	FindAll(ctx context.Context, filters *dto.CategoryFilters) ([]model.Category, int, error)
	Update(ctx context.Context, c *model.Category) error
	Delete(ctx context.Context, id string) error

	// RefsByIDs resolves category ids to the {id, name, slug} projection
	// joined onto products. Unknown ids are simply absent from the result.
	RefsByIDs(ctx context.Context, ids []string) (map[string]model.CategoryRef, error)
}
