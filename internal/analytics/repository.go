package analytics

import (
	"context"

	"github.com/engrosnet/catalog-service/internal/analytics/dto"
)

// Repository aggregates over the order history. The order collections are
// strictly read-only from this subsystem.
type Repository interface {
	// TopProducts unwinds order items in the window, groups by product and
	// sums quantities; ties break on product id for determinism.
	TopProducts(ctx context.Context, w dto.Window, limit int) ([]dto.TopProduct, error)
	RevenueByDay(ctx context.Context, w dto.Window) ([]dto.RevenuePoint, error)
	StatusByDay(ctx context.Context, w dto.Window) ([]dto.StatusPoint, error)
}
