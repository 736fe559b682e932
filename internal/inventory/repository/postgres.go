package repository

import (
	"context"

	"github.com/engrosnet/catalog-service/internal/model"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) ListByProduct(ctx context.Context, productID string) ([]model.InventoryRecord, error) {
	records := []model.InventoryRecord{}
	query := `SELECT * FROM inventory WHERE product_id = $1`
	if err := r.DB.SelectContext(ctx, &records, query, productID); err != nil {
		return nil, errors.Wrap(err, "select inventory by product")
	}
	return records, nil
}

func (r *PGRepository) BatchByProducts(ctx context.Context, productIDs []string) ([]model.InventoryRecord, error) {
	if len(productIDs) == 0 {
		return []model.InventoryRecord{}, nil
	}

	query, args, err := sqlx.In(`SELECT * FROM inventory WHERE product_id IN (?)`, productIDs)
	if err != nil {
		return nil, errors.Wrap(err, "build inventory batch query")
	}
	query = r.DB.Rebind(query)

	records := []model.InventoryRecord{}
	if err := r.DB.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, errors.Wrap(err, "select inventory batch")
	}
	return records, nil
}

func (r *PGRepository) Upsert(ctx context.Context, rec *model.InventoryRecord) error {
	query := `
        INSERT INTO inventory (id, product_id, warehouse_id, quantity, expiration_date, updated_at)
        VALUES (:id, :product_id, :warehouse_id, :quantity, :expiration_date, :updated_at)
        ON CONFLICT (product_id, warehouse_id, expiration_date)
        DO UPDATE SET
            quantity = inventory.quantity + EXCLUDED.quantity,
            updated_at = EXCLUDED.updated_at
    `
	if _, err := r.DB.NamedExecContext(ctx, query, rec); err != nil {
		return errors.Wrap(err, "upsert inventory")
	}
	return nil
}
