package usecase

import (
	"context"
	"time"

	"github.com/engrosnet/catalog-service/internal/inventory"
	"github.com/engrosnet/catalog-service/internal/inventory/dto"
	"github.com/engrosnet/catalog-service/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type inventoryUseCase struct {
	repo   inventory.Repository
	logger *zap.Logger
}

func NewInventoryUseCase(repo inventory.Repository, log *zap.Logger) inventory.UseCase {
	return &inventoryUseCase{
		repo:   repo,
		logger: log,
	}
}

func (uc *inventoryUseCase) StockFor(ctx context.Context, productID string) (model.StockSummary, error) {
	records, err := uc.repo.ListByProduct(ctx, productID)
	if err != nil {
		return model.StockSummary{}, err
	}
	return inventory.Reduce(records), nil
}

func (uc *inventoryUseCase) StockForBatch(ctx context.Context, productIDs []string) (map[string]model.StockSummary, error) {
	records, err := uc.repo.BatchByProducts(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	return inventory.ReduceBatch(productIDs, records), nil
}

func (uc *inventoryUseCase) ApplyReceipt(ctx context.Context, input *dto.ReceiptInput) (*model.InventoryRecord, error) {
	if input.ProductID == "" {
		return nil, &model.ValidationError{Field: "product_id", Message: "is required"}
	}
	if input.WarehouseID == "" {
		return nil, &model.ValidationError{Field: "warehouse_id", Message: "is required"}
	}
	if input.Quantity <= 0 {
		return nil, &model.ValidationError{Field: "quantity", Message: "must be positive"}
	}

	rec := &model.InventoryRecord{
		ID:             uuid.New().String(),
		ProductID:      input.ProductID,
		WarehouseID:    input.WarehouseID,
		Quantity:       input.Quantity,
		ExpirationDate: input.ExpirationDate,
		UpdatedAt:      time.Now(),
	}

	if err := uc.repo.Upsert(ctx, rec); err != nil {
		return nil, err
	}

	uc.logger.Info("applied goods receipt",
		zap.String("product_id", rec.ProductID),
		zap.String("warehouse_id", rec.WarehouseID),
		zap.Int("quantity", rec.Quantity),
	)
	return rec, nil
}
