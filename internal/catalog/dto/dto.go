package dto

import "github.com/engrosnet/catalog-service/internal/model"

type ProductPage struct {
	Items      []model.Product `json:"items"`
	TotalCount int             `json:"total_count"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"total_pages"`
}
