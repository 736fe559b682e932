package model

type Category struct {
	BaseModel
	Name     string  `db:"name" json:"name"`
	Slug     string  `db:"slug" json:"slug"`
	ParentID *string `db:"parent_id" json:"parent_id"`
	IsActive bool    `db:"is_active" json:"is_active"`
}

func (c *Category) Ref() CategoryRef {
	return CategoryRef{ID: c.ID, Name: c.Name, Slug: c.Slug}
}
