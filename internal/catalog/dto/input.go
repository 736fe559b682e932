package dto

type CreateProductInput struct {
	Slug             string   `json:"slug"` // Derived from name when blank
	Name             string   `json:"name"`
	ShortDescription string   `json:"short_description"`
	Description      string   `json:"description"`
	SKU              string   `json:"sku"`
	Barcode          string   `json:"barcode"`
	CostPrice        float64  `json:"cost_price"`
	SalePrice        float64  `json:"sale_price"`
	VATRate          float64  `json:"vat_rate"`
	VolumeDiscount   bool     `json:"volume_discount"`
	CategoryIDs      []string `json:"category_ids"`
	Visibility       string   `json:"visibility"`
	Weight           float64  `json:"weight"`
	Length           *float64 `json:"length"`
	Width            *float64 `json:"width"`
	Height           *float64 `json:"height"`
	Images           []string `json:"images"`
	OriginCountry    string   `json:"origin_country"`
	HSCode           string   `json:"hs_code"`
	SupplierID       string   `json:"supplier_id"`
	SupplierName     string   `json:"supplier_name"`
}

type UpdateProductInput struct {
	ID               string   `json:"-"`    // Taken from the route, never the body
	Slug             string   `json:"slug"` // Keeps the current slug when blank
	Name             string   `json:"name"`
	ShortDescription string   `json:"short_description"`
	Description      string   `json:"description"`
	SKU              string   `json:"sku"`
	Barcode          string   `json:"barcode"`
	CostPrice        float64  `json:"cost_price"`
	SalePrice        float64  `json:"sale_price"`
	VATRate          float64  `json:"vat_rate"`
	VolumeDiscount   bool     `json:"volume_discount"`
	CategoryIDs      []string `json:"category_ids"`
	Visibility       string   `json:"visibility"`
	IsActive         bool     `json:"is_active"`
	Weight           float64  `json:"weight"`
	Length           *float64 `json:"length"`
	Width            *float64 `json:"width"`
	Height           *float64 `json:"height"`
	Images           []string `json:"images"`
	OriginCountry    string   `json:"origin_country"`
	HSCode           string   `json:"hs_code"`
	SupplierID       string   `json:"supplier_id"`
	SupplierName     string   `json:"supplier_name"`
}
