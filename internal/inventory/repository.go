package inventory

import (
	"context"

	"github.com/engrosnet/catalog-service/internal/model"
)

type Repository interface {
	ListByProduct(ctx context.Context, productID string) ([]model.InventoryRecord, error)
	BatchByProducts(ctx context.Context, productIDs []string) ([]model.InventoryRecord, error)

	// Upsert adds the received quantity onto the (product, warehouse,
	// expiration) row. Only the receiving listener calls it.
	Upsert(ctx context.Context, rec *model.InventoryRecord) error
}
