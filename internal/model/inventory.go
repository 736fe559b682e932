package model

import "time"

// InventoryRecord is one warehouse's stock row for a product. Rows are
// written by the receiving process; the catalog read path only sums them.
type InventoryRecord struct {
	ID             string     `db:"id"`
	ProductID      string     `db:"product_id"`
	WarehouseID    string     `db:"warehouse_id"`
	Quantity       int        `db:"quantity"`
	ExpirationDate *time.Time `db:"expiration_date"`
	UpdatedAt      time.Time  `db:"updated_at"`
}

// StockSummary is the reduction of a product's inventory rows.
// Zero rows reduce to {0, nil}.
type StockSummary struct {
	Stock          int
	BestBeforeDate *time.Time
}
