package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/engrosnet/catalog-service/internal/analytics/dto"
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

// windowClause builds the [from, to) conditions on the given created_at
// column reference.
func windowClause(w dto.Window, col string) ([]string, map[string]interface{}) {
	conditions := []string{}
	args := map[string]interface{}{}

	if w.From != nil {
		conditions = append(conditions, col+" >= :from")
		args["from"] = *w.From
	}
	if w.To != nil {
		conditions = append(conditions, col+" < :to")
		args["to"] = *w.To
	}
	return conditions, args
}

func (r *PGRepository) TopProducts(ctx context.Context, w dto.Window, limit int) ([]dto.TopProduct, error) {
	conditions, args := windowClause(w, "o.created_at")

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`
        SELECT oi.product_id,
               SUM(oi.quantity) AS total_quantity,
               COUNT(DISTINCT oi.order_id) AS total_orders
        FROM order_items oi
        JOIN orders o ON o.id = oi.order_id%s
        GROUP BY oi.product_id
        ORDER BY total_quantity DESC, oi.product_id ASC
        LIMIT %d
    `, whereClause, limit)

	rows := []dto.TopProduct{}
	if err := r.selectNamed(ctx, &rows, query, args); err != nil {
		return nil, errors.Wrap(err, "select top products")
	}
	return rows, nil
}

func (r *PGRepository) RevenueByDay(ctx context.Context, w dto.Window) ([]dto.RevenuePoint, error) {
	conditions, args := windowClause(w, "o.created_at")

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	// Days without orders are absent from the series; callers must not
	// assume a dense range.
	query := fmt.Sprintf(`
        SELECT date_trunc('day', o.created_at)::date AS day,
               COUNT(DISTINCT o.id) AS order_count,
               SUM(oi.quantity * oi.unit_price) AS total_revenue,
               SUM(oi.quantity * oi.unit_cost) AS total_cost,
               SUM(oi.quantity * (oi.unit_price - oi.unit_cost)) AS total_profit
        FROM orders o
        JOIN order_items oi ON oi.order_id = o.id%s
        GROUP BY day
        ORDER BY day ASC
    `, whereClause)

	rows := []dto.RevenuePoint{}
	if err := r.selectNamed(ctx, &rows, query, args); err != nil {
		return nil, errors.Wrap(err, "select revenue series")
	}
	return rows, nil
}

func (r *PGRepository) StatusByDay(ctx context.Context, w dto.Window) ([]dto.StatusPoint, error) {
	conditions, args := windowClause(w, "created_at")

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	args["confirmed"] = string(model.OrderStatusConfirmed)
	args["shipped"] = string(model.OrderStatusShipped)
	args["delivered"] = string(model.OrderStatusDelivered)
	args["cancelled"] = string(model.OrderStatusCancelled)

	query := fmt.Sprintf(`
        SELECT date_trunc('day', created_at)::date AS day,
               COUNT(*) FILTER (WHERE status = :confirmed) AS confirmed,
               COUNT(*) FILTER (WHERE status = :shipped) AS shipped,
               COUNT(*) FILTER (WHERE status = :delivered) AS delivered,
               COUNT(*) FILTER (WHERE status = :cancelled) AS cancelled
        FROM orders%s
        GROUP BY day
        ORDER BY day ASC
    `, whereClause)

	rows := []dto.StatusPoint{}
	if err := r.selectNamed(ctx, &rows, query, args); err != nil {
		return nil, errors.Wrap(err, "select status series")
	}
	return rows, nil
}

func (r *PGRepository) selectNamed(ctx context.Context, dest interface{}, query string, args map[string]interface{}) error {
	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return err
	}
	defer nstmt.Close()
	return nstmt.SelectContext(ctx, dest, args)
}
