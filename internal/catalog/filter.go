package catalog

import (
	"strconv"

	"github.com/engrosnet/catalog-service/internal/auth"
	"github.com/engrosnet/catalog-service/internal/model"
)

// StockStatus is a post-aggregation predicate: it cannot be applied until
// stock has been computed, because stock never lives on the product row.
type StockStatus string

const (
	StockInStock    StockStatus = "in-stock"
	StockOutOfStock StockStatus = "out-of-stock"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// ListQuery carries the raw, untrusted query parameters of a listing call.
type ListQuery struct {
	Query      string
	CategoryID string
	PriceMin   *float64
	PriceMax   *float64
	Stock      string
	Visibility string // admin callers only
	Active     *bool  // admin callers only
	Page       string
	Limit      string
	SortBy     string
	SortOrder  string
}

// ProductStageFilter is the part of a compiled filter that applies directly
// to product rows, before any join.
type ProductStageFilter struct {
	IsActive     *bool
	Visibilities []model.Visibility
	CategoryID   string
	PriceMin     *float64
	PriceMax     *float64
	Query        string
}

type Sort struct {
	Field     string // column name, whitelisted by Compile
	Direction string // ASC or DESC
}

type Pagination struct {
	Page  int
	Limit int
}

func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

// CompiledFilter keeps the two filter stages explicit so the engine can
// apply them at the correct pipeline positions.
type CompiledFilter struct {
	ProductStage ProductStageFilter
	StockStage   *StockStatus
	Sort         Sort
	Pagination   Pagination
}

// ParsePagination coerces raw page/limit leniently: anything non-numeric or
// out of range falls back to the defaults. The listing endpoint stays
// permissive on purpose.
func ParsePagination(rawPage, rawLimit string) Pagination {
	page := DefaultPage
	if n, err := strconv.Atoi(rawPage); err == nil && n >= 1 {
		page = n
	}

	limit := DefaultLimit
	if n, err := strconv.Atoi(rawLimit); err == nil && n >= 1 {
		limit = n
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return Pagination{Page: page, Limit: limit}
}

// Compile turns a raw listing query into the two-stage filter. Storefront
// callers are unconditionally pinned to active products with external or
// both visibility; their own visibility/active parameters are ignored and
// the pinning is ANDed with every other filter they supply.
func Compile(q *ListQuery, caller auth.Caller) *CompiledFilter {
	cf := &CompiledFilter{
		ProductStage: ProductStageFilter{
			CategoryID: q.CategoryID,
			PriceMin:   q.PriceMin,
			PriceMax:   q.PriceMax,
			Query:      q.Query,
		},
		Sort:       compileSort(q.SortBy, q.SortOrder),
		Pagination: ParsePagination(q.Page, q.Limit),
	}

	if caller.IsStorefront() {
		active := true
		cf.ProductStage.IsActive = &active
		cf.ProductStage.Visibilities = []model.Visibility{model.VisibilityExternal, model.VisibilityBoth}
	} else {
		cf.ProductStage.IsActive = q.Active
		if v := model.Visibility(q.Visibility); v.Valid() {
			cf.ProductStage.Visibilities = []model.Visibility{v}
		}
	}

	switch StockStatus(q.Stock) {
	case StockInStock:
		s := StockInStock
		cf.StockStage = &s
	case StockOutOfStock:
		s := StockOutOfStock
		cf.StockStage = &s
	}

	return cf
}

func compileSort(field, order string) Sort {
	s := Sort{Field: "created_at", Direction: "DESC"}
	switch field {
	case "name":
		s.Field = "name"
	case "price":
		s.Field = "sale_price"
	case "created_at":
		s.Field = "created_at"
	}
	if order == "asc" {
		s.Direction = "ASC"
	} else if order == "desc" {
		s.Direction = "DESC"
	}
	return s
}

// Matches applies the deferred stock predicate to a computed stock value.
// A product with no inventory rows counts as out of stock.
func (s StockStatus) Matches(stock int) bool {
	switch s {
	case StockInStock:
		return stock > 0
	case StockOutOfStock:
		return stock == 0
	}
	return true
}
