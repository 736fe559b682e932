package usecase

import (
	"context"

	"github.com/engrosnet/catalog-service/internal/analytics"
	"github.com/engrosnet/catalog-service/internal/analytics/dto"
	"github.com/engrosnet/catalog-service/internal/catalog"
	"github.com/engrosnet/catalog-service/internal/inventory"
	"github.com/engrosnet/catalog-service/internal/model"
	"go.uber.org/zap"
)

const (
	DefaultLowStockThreshold = 5
	DefaultTopLimit          = 10
	MaxTopLimit              = 100
)

type analyticsUseCase struct {
	orders   analytics.Repository
	products catalog.Repository
	invUC    inventory.UseCase
	logger   *zap.Logger
}

func NewAnalyticsUseCase(orders analytics.Repository, products catalog.Repository, invUC inventory.UseCase, log *zap.Logger) analytics.UseCase {
	return &analyticsUseCase{
		orders:   orders,
		products: products,
		invUC:    invUC,
		logger:   log,
	}
}

func (uc *analyticsUseCase) LowStockReport(ctx context.Context, threshold int) (*dto.LowStockReport, error) {
	if threshold < 0 {
		threshold = DefaultLowStockThreshold
	}

	// Admin view: every product, regardless of visibility or active flag.
	sort := catalog.Sort{Field: "name", Direction: "ASC"}
	products, err := uc.products.FindAllMatches(ctx, &catalog.ProductStageFilter{}, sort)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(products))
	for i := range products {
		ids = append(ids, products[i].ID)
	}
	summaries, err := uc.invUC.StockForBatch(ctx, ids)
	if err != nil {
		return nil, err
	}

	report := &dto.LowStockReport{
		OutOfStock: []model.Product{},
		LowStock:   []model.Product{},
	}
	for i := range products {
		s := summaries[products[i].ID]
		products[i].Stock = s.Stock
		products[i].BestBeforeDate = s.BestBeforeDate

		if s.Stock == 0 {
			report.OutOfStock = append(report.OutOfStock, products[i])
		}
		if s.Stock <= threshold {
			report.LowStock = append(report.LowStock, products[i])
		}
	}
	report.OutOfStockCount = len(report.OutOfStock)
	report.LowStockCount = len(report.LowStock)

	return report, nil
}

func (uc *analyticsUseCase) TopProducts(ctx context.Context, limit int, w dto.Window) ([]dto.TopProduct, error) {
	if limit <= 0 {
		limit = DefaultTopLimit
	}
	if limit > MaxTopLimit {
		limit = MaxTopLimit
	}

	rows, err := uc.orders.TopProducts(ctx, w, limit)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []dto.TopProduct{}, nil
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ProductID)
	}
	products, err := uc.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]model.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	// Hard-deleted products leave dangling order items; those rows are
	// dropped rather than returned without display fields.
	out := make([]dto.TopProduct, 0, len(rows))
	for _, row := range rows {
		p, ok := byID[row.ProductID]
		if !ok {
			uc.logger.Debug("dropping top seller with deleted product", zap.String("product_id", row.ProductID))
			continue
		}
		compact := &model.CompactProduct{
			ID:        p.ID,
			Name:      p.Name,
			Slug:      p.Slug,
			SKU:       p.SKU,
			SalePrice: p.SalePrice,
		}
		if len(p.Images) > 0 {
			img := p.Images[0]
			compact.Image = &img
		}
		row.Product = compact
		out = append(out, row)
	}
	return out, nil
}

func (uc *analyticsUseCase) RevenueSeries(ctx context.Context, w dto.Window) ([]dto.RevenuePoint, error) {
	return uc.orders.RevenueByDay(ctx, w)
}

func (uc *analyticsUseCase) StatusSeries(ctx context.Context, w dto.Window) ([]dto.StatusPoint, error) {
	return uc.orders.StatusByDay(ctx, w)
}
