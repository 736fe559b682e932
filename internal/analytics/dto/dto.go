package dto

import (
	"time"

	"github.com/engrosnet/catalog-service/internal/model"
)

// Window is a validated, half-open [from, to) date range over order
// creation times. Either side may be open.
type Window struct {
	From *time.Time
	To   *time.Time
}

// NewWindow fails fast on an inverted range instead of letting raw
// parameters leak through the aggregation layers.
func NewWindow(from, to *time.Time) (Window, error) {
	if from != nil && to != nil && from.After(*to) {
		return Window{}, model.ErrInvalidRange
	}
	return Window{From: from, To: to}, nil
}

type TopProduct struct {
	ProductID     string                `db:"product_id" json:"product_id"`
	TotalQuantity int                   `db:"total_quantity" json:"total_quantity"`
	TotalOrders   int                   `db:"total_orders" json:"total_orders"`
	Product       *model.CompactProduct `db:"-" json:"product"`
}

type RevenuePoint struct {
	Date         time.Time `db:"day" json:"date"`
	OrderCount   int       `db:"order_count" json:"order_count"`
	TotalRevenue float64   `db:"total_revenue" json:"total_revenue"`
	TotalCost    float64   `db:"total_cost" json:"total_cost"`
	TotalProfit  float64   `db:"total_profit" json:"total_profit"`
}

type StatusPoint struct {
	Date      time.Time `db:"day" json:"date"`
	Confirmed int       `db:"confirmed" json:"confirmed"`
	Shipped   int       `db:"shipped" json:"shipped"`
	Delivered int       `db:"delivered" json:"delivered"`
	Cancelled int       `db:"cancelled" json:"cancelled"`
}

type LowStockReport struct {
	OutOfStock      []model.Product `json:"out_of_stock"`
	LowStock        []model.Product `json:"low_stock"`
	OutOfStockCount int             `json:"out_of_stock_count"`
	LowStockCount   int             `json:"low_stock_count"`
}
