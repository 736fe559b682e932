package inventory

import "github.com/engrosnet/catalog-service/internal/model"

// Reduce folds a product's inventory rows into a single stock summary:
// stock is the sum of quantities, best-before is the minimum expiration.
// Zero rows reduce to {0, nil}.
func Reduce(records []model.InventoryRecord) model.StockSummary {
	var s model.StockSummary
	for _, r := range records {
		s.Stock += r.Quantity
		if r.ExpirationDate == nil {
			continue
		}
		if s.BestBeforeDate == nil || r.ExpirationDate.Before(*s.BestBeforeDate) {
			exp := *r.ExpirationDate
			s.BestBeforeDate = &exp
		}
	}
	return s
}

// ReduceBatch reduces rows per product. Every requested product id gets an
// entry; ids with no rows get a zero summary, so "no record" and "no stock"
// are indistinguishable downstream.
func ReduceBatch(productIDs []string, records []model.InventoryRecord) map[string]model.StockSummary {
	byProduct := make(map[string][]model.InventoryRecord, len(productIDs))
	for _, r := range records {
		byProduct[r.ProductID] = append(byProduct[r.ProductID], r)
	}

	out := make(map[string]model.StockSummary, len(productIDs))
	for _, id := range productIDs {
		out[id] = Reduce(byProduct[id])
	}
	return out
}
