package dto

type CreateCategoryInput struct {
	Name     string  `json:"name"`
	Slug     string  `json:"slug"` // Derived from name when blank
	ParentID *string `json:"parent_id"`
}

type UpdateCategoryInput struct {
	ID       string  `json:"-"`    // Taken from the route, never the body
	Name     string  `json:"name"`
	Slug     string  `json:"slug"`
	ParentID *string `json:"parent_id"`
	IsActive bool    `json:"is_active"`
}

type CategoryFilters struct {
	ParentID *string // Empty string selects root categories
	IsActive *bool
	Page     int
	PageSize int
}
