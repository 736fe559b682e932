package analytics

import (
	"context"

	"github.com/engrosnet/catalog-service/internal/analytics/dto"
)

type UseCase interface {
	// LowStockReport partitions all products (admin view, no visibility
	// filter) by computed stock against the threshold.
	LowStockReport(ctx context.Context, threshold int) (*dto.LowStockReport, error)
	TopProducts(ctx context.Context, limit int, w dto.Window) ([]dto.TopProduct, error)
	RevenueSeries(ctx context.Context, w dto.Window) ([]dto.RevenuePoint, error)
	StatusSeries(ctx context.Context, w dto.Window) ([]dto.StatusPoint, error)
}
