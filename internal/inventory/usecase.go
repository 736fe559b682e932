package inventory

import (
	"context"

	"github.com/engrosnet/catalog-service/internal/inventory/dto"
	"github.com/engrosnet/catalog-service/internal/model"
)

type UseCase interface {
	// StockFor reduces a single product's rows; no rows is not an error.
	StockFor(ctx context.Context, productID string) (model.StockSummary, error)
	// StockForBatch reduces rows for every given product id; ids without
	// rows are present in the result with zero stock.
	StockForBatch(ctx context.Context, productIDs []string) (map[string]model.StockSummary, error)

	ApplyReceipt(ctx context.Context, input *dto.ReceiptInput) (*model.InventoryRecord, error)
}
