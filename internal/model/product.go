package model

import (
	"time"

	"github.com/lib/pq"
)

// Visibility controls whether storefront customers may see a product.
type Visibility string

const (
	VisibilityInternal Visibility = "internal"
	VisibilityExternal Visibility = "external"
	VisibilityBoth     Visibility = "both"
)

func (v Visibility) Valid() bool {
	switch v {
	case VisibilityInternal, VisibilityExternal, VisibilityBoth:
		return true
	}
	return false
}

type Product struct {
	BaseModel
	Slug             string         `db:"slug" json:"slug"`
	Name             string         `db:"name" json:"name"`
	ShortDescription *string        `db:"short_description" json:"short_description"`
	Description      *string        `db:"description" json:"description"`
	SKU              string         `db:"sku" json:"sku"`
	Barcode          *string        `db:"barcode" json:"barcode"`
	CostPrice        float64        `db:"cost_price" json:"cost_price"`
	SalePrice        float64        `db:"sale_price" json:"sale_price"`
	VATRate          float64        `db:"vat_rate" json:"vat_rate"`
	VolumeDiscount   bool           `db:"volume_discount" json:"volume_discount"`
	CategoryIDs      pq.StringArray `db:"category_ids" json:"category_ids"`
	Visibility       Visibility     `db:"visibility" json:"visibility"`
	IsActive         bool           `db:"is_active" json:"is_active"`
	Weight           float64        `db:"weight" json:"weight"`
	Length           *float64       `db:"length" json:"length"`
	Width            *float64       `db:"width" json:"width"`
	Height           *float64       `db:"height" json:"height"`
	Images           pq.StringArray `db:"images" json:"images"`
	OriginCountry    *string        `db:"origin_country" json:"origin_country"`
	HSCode           *string        `db:"hs_code" json:"hs_code"`
	SupplierID       *string        `db:"supplier_id" json:"supplier_id"`
	SupplierName     *string        `db:"supplier_name" json:"supplier_name"`

	// Computed at query time, never persisted.
	Stock          int           `db:"-" json:"stock"`
	BestBeforeDate *time.Time    `db:"-" json:"best_before_date"`
	Categories     []CategoryRef `db:"-" json:"categories"`
	IsFavorite     *bool         `db:"-" json:"is_favorite,omitempty"`
}

// CategoryRef is the projection joined onto products; the full category
// graph is never embedded.
type CategoryRef struct {
	ID   string `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
	Slug string `db:"slug" json:"slug"`
}

// CompactProduct is the quick-search projection.
type CompactProduct struct {
	ID        string  `db:"id" json:"id"`
	Name      string  `db:"name" json:"name"`
	Slug      string  `db:"slug" json:"slug"`
	SKU       string  `db:"sku" json:"sku"`
	SalePrice float64 `db:"sale_price" json:"sale_price"`
	Image     *string `db:"image" json:"image"`
}
