package catalog

import (
	"context"

	"github.com/engrosnet/catalog-service/internal/auth"
	"github.com/engrosnet/catalog-service/internal/catalog/dto"
	"github.com/engrosnet/catalog-service/internal/model"
)

type UseCase interface {
	// Read path (query engine)
	ListProducts(ctx context.Context, q *ListQuery, caller auth.Caller) (*dto.ProductPage, error)
	GetProductByID(ctx context.Context, id string, caller auth.Caller) (*model.Product, error)
	GetProductBySlug(ctx context.Context, slug string, caller auth.Caller) (*model.Product, error)
	QuickSearch(ctx context.Context, query string, limit int) ([]model.CompactProduct, error)

	// Write path (mutation gateway)
	CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error)
	UpdateProduct(ctx context.Context, input *dto.UpdateProductInput) (*model.Product, error)
	DeleteProduct(ctx context.Context, id string) error
}
