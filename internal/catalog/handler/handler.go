package handler

import (
	"net/http"
	"strconv"

	"github.com/engrosnet/catalog-service/internal/catalog"
	"github.com/engrosnet/catalog-service/internal/catalog/dto"
	"github.com/engrosnet/catalog-service/internal/httpx"
	"github.com/engrosnet/catalog-service/internal/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CatalogHandler struct {
	uc     catalog.UseCase
	logger *zap.Logger
}

func NewCatalogHandler(uc catalog.UseCase, log *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *CatalogHandler) List(c *gin.Context) {
	q := &catalog.ListQuery{
		Query:      c.Query("query"),
		CategoryID: c.Query("category"),
		PriceMin:   floatQuery(c, "price_min"),
		PriceMax:   floatQuery(c, "price_max"),
		Stock:      c.Query("stock"),
		Visibility: c.Query("visibility"),
		Active:     boolQuery(c, "active"),
		Page:       c.Query("page"),
		Limit:      c.Query("limit"),
		SortBy:     c.Query("sort"),
		SortOrder:  c.Query("order"),
	}

	page, err := h.uc.ListProducts(c.Request.Context(), q, middleware.CallerFrom(c))
	if err != nil {
		h.logger.Error("failed to list products", zap.Error(err))
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *CatalogHandler) GetByID(c *gin.Context) {
	p, err := h.uc.GetProductByID(c.Request.Context(), c.Param("id"), middleware.CallerFrom(c))
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *CatalogHandler) GetBySlug(c *gin.Context) {
	p, err := h.uc.GetProductBySlug(c.Request.Context(), c.Param("slug"), middleware.CallerFrom(c))
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *CatalogHandler) QuickSearch(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	results, err := h.uc.QuickSearch(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		h.logger.Error("quick search failed", zap.Error(err))
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": results})
}

func (h *CatalogHandler) Create(c *gin.Context) {
	var input dto.CreateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	p, err := h.uc.CreateProduct(c.Request.Context(), &input)
	if err != nil {
		h.logger.Error("failed to create product", zap.Error(err))
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *CatalogHandler) Update(c *gin.Context) {
	var input dto.UpdateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	input.ID = c.Param("id")

	p, err := h.uc.UpdateProduct(c.Request.Context(), &input)
	if err != nil {
		h.logger.Error("failed to update product", zap.Error(err), zap.String("id", input.ID))
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *CatalogHandler) Delete(c *gin.Context) {
	if err := h.uc.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		httpx.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func floatQuery(c *gin.Context, key string) *float64 {
	raw := c.Query(key)
	if raw == "" {
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &f
}

func boolQuery(c *gin.Context, key string) *bool {
	raw := c.Query(key)
	if raw == "" {
		return nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &b
}
