package usecase

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/engrosnet/catalog-service/internal/auth"
	"github.com/engrosnet/catalog-service/internal/catalog"
	"github.com/engrosnet/catalog-service/internal/catalog/dto"
	"github.com/engrosnet/catalog-service/internal/category"
	"github.com/engrosnet/catalog-service/internal/favorite"
	"github.com/engrosnet/catalog-service/internal/inventory"
	"github.com/engrosnet/catalog-service/internal/model"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	searchIndex  = "products"
	listCacheTTL = 5 * time.Minute
)

type catalogUseCase struct {
	repo    catalog.Repository
	invUC   inventory.UseCase
	catRepo category.Repository
	favRepo favorite.Repository
	cache   *redis.Client
	es      *elasticsearch.Client
	logger  *zap.Logger
}

func NewCatalogUseCase(
	repo catalog.Repository,
	invUC inventory.UseCase,
	catRepo category.Repository,
	favRepo favorite.Repository,
	cache *redis.Client,
	es *elasticsearch.Client,
	logger *zap.Logger,
) catalog.UseCase {
	return &catalogUseCase{
		repo:    repo,
		invUC:   invUC,
		catRepo: catRepo,
		favRepo: favRepo,
		cache:   cache,
		es:      es,
		logger:  logger,
	}
}

// --- Query engine ---

func (uc *catalogUseCase) ListProducts(ctx context.Context, q *catalog.ListQuery, caller auth.Caller) (*dto.ProductPage, error) {
	cf := catalog.Compile(q, caller)

	cacheKey := uc.listCacheKey(cf)
	var page *dto.ProductPage
	if uc.cache != nil && cacheKey != "" {
		if val, err := uc.cache.Get(ctx, cacheKey).Result(); err == nil {
			var cached dto.ProductPage
			if err := json.Unmarshal([]byte(val), &cached); err == nil {
				page = &cached
			}
		}
	}

	if page == nil {
		var items []model.Product
		var total int
		var err error

		if cf.StockStage == nil {
			items, total, err = uc.listPlain(ctx, cf)
		} else {
			items, total, err = uc.listStockFiltered(ctx, cf)
		}
		if err != nil {
			return nil, err
		}

		if err := uc.attachCategories(ctx, items); err != nil {
			return nil, err
		}

		page = &dto.ProductPage{
			Items:      items,
			TotalCount: total,
			Page:       cf.Pagination.Page,
			Limit:      cf.Pagination.Limit,
			TotalPages: (total + cf.Pagination.Limit - 1) / cf.Pagination.Limit,
		}

		if uc.cache != nil && cacheKey != "" {
			if data, err := json.Marshal(page); err == nil {
				uc.cache.Set(ctx, cacheKey, data, listCacheTTL)
			}
		}
	}

	// Favorites are per-caller and toggled outside this service, so they
	// are attached after the cache and never stored in it.
	if caller.IsAuthenticated() {
		if err := uc.attachFavorites(ctx, caller.UserID, page.Items); err != nil {
			return nil, err
		}
	}

	return page, nil
}

// listPlain is the no-stock-filter plan: SQL count plus a SQL-sorted page,
// stock reduced for the page only.
func (uc *catalogUseCase) listPlain(ctx context.Context, cf *catalog.CompiledFilter) ([]model.Product, int, error) {
	total, err := uc.repo.Count(ctx, &cf.ProductStage)
	if err != nil {
		return nil, 0, err
	}

	items, err := uc.repo.FindPage(ctx, &cf.ProductStage, cf.Sort, cf.Pagination)
	if err != nil {
		return nil, 0, err
	}

	if err := uc.attachStock(ctx, items); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// listStockFiltered fetches the full sorted match set, reduces stock, then
// applies the deferred stock predicate before paginating, so the reported
// total agrees with the items a caller can actually page through.
func (uc *catalogUseCase) listStockFiltered(ctx context.Context, cf *catalog.CompiledFilter) ([]model.Product, int, error) {
	matches, err := uc.repo.FindAllMatches(ctx, &cf.ProductStage, cf.Sort)
	if err != nil {
		return nil, 0, err
	}

	if err := uc.attachStock(ctx, matches); err != nil {
		return nil, 0, err
	}

	filtered := matches[:0]
	for _, p := range matches {
		if cf.StockStage.Matches(p.Stock) {
			filtered = append(filtered, p)
		}
	}

	total := len(filtered)
	start := cf.Pagination.Offset()
	if start > total {
		start = total
	}
	end := start + cf.Pagination.Limit
	if end > total {
		end = total
	}

	return filtered[start:end], total, nil
}

func (uc *catalogUseCase) GetProductByID(ctx context.Context, id string, caller auth.Caller) (*model.Product, error) {
	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return uc.enrichOne(ctx, p, caller)
}

func (uc *catalogUseCase) GetProductBySlug(ctx context.Context, s string, caller auth.Caller) (*model.Product, error) {
	p, err := uc.repo.FindBySlug(ctx, s)
	if err != nil {
		return nil, err
	}
	return uc.enrichOne(ctx, p, caller)
}

func (uc *catalogUseCase) enrichOne(ctx context.Context, p *model.Product, caller auth.Caller) (*model.Product, error) {
	if p == nil {
		return nil, model.ErrNotFound
	}
	// Storefront callers never see inactive or internal-only products,
	// even by direct id/slug lookup.
	if caller.IsStorefront() {
		if !p.IsActive || (p.Visibility != model.VisibilityExternal && p.Visibility != model.VisibilityBoth) {
			return nil, model.ErrNotFound
		}
	}

	summary, err := uc.invUC.StockFor(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	p.Stock = summary.Stock
	p.BestBeforeDate = summary.BestBeforeDate

	items := []model.Product{*p}
	if err := uc.attachCategories(ctx, items); err != nil {
		return nil, err
	}
	if caller.IsAuthenticated() {
		fav, err := uc.favRepo.IsFavorite(ctx, caller.UserID, p.ID)
		if err != nil {
			return nil, err
		}
		items[0].IsFavorite = &fav
	}
	return &items[0], nil
}

func (uc *catalogUseCase) QuickSearch(ctx context.Context, query string, limit int) ([]model.CompactProduct, error) {
	if limit <= 0 {
		limit = catalog.DefaultLimit
	}
	if limit > catalog.MaxLimit {
		limit = catalog.MaxLimit
	}
	if query == "" {
		return []model.CompactProduct{}, nil
	}

	if uc.es != nil {
		results, err := uc.searchIndexed(ctx, query, limit)
		if err == nil {
			return results, nil
		}
		uc.logger.Error("search index failed, falling back to DB", zap.Error(err))
	}

	return uc.repo.Search(ctx, query, limit)
}

func (uc *catalogUseCase) searchIndexed(ctx context.Context, query string, limit int) ([]model.CompactProduct, error) {
	body := map[string]interface{}{
		"query": map[string]interface{}{
			"query_string": map[string]interface{}{
				"query":  fmt.Sprintf("*%s*", query),
				"fields": []string{"name^3", "slug", "sku", "short_description"},
			},
		},
		"size": limit,
	}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	res, err := uc.es.Search(
		uc.es.Search.WithContext(ctx),
		uc.es.Search.WithIndex(searchIndex),
		uc.es.Search.WithBody(bytes.NewReader(data)),
	)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, errors.Errorf("search index: %s", res.Status())
	}

	var out struct {
		Hits struct {
			Hits []struct {
				Source model.CompactProduct `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, err
	}

	results := make([]model.CompactProduct, 0, len(out.Hits.Hits))
	for _, hit := range out.Hits.Hits {
		results = append(results, hit.Source)
	}
	return results, nil
}

// --- Enrichment ---

func (uc *catalogUseCase) attachStock(ctx context.Context, items []model.Product) error {
	if len(items) == 0 {
		return nil
	}
	ids := make([]string, 0, len(items))
	for i := range items {
		ids = append(ids, items[i].ID)
	}

	summaries, err := uc.invUC.StockForBatch(ctx, ids)
	if err != nil {
		return err
	}
	for i := range items {
		s := summaries[items[i].ID]
		items[i].Stock = s.Stock
		items[i].BestBeforeDate = s.BestBeforeDate
	}
	return nil
}

func (uc *catalogUseCase) attachCategories(ctx context.Context, items []model.Product) error {
	if len(items) == 0 {
		return nil
	}
	idSet := map[string]struct{}{}
	ids := []string{}
	for i := range items {
		for _, cid := range items[i].CategoryIDs {
			if _, ok := idSet[cid]; !ok {
				idSet[cid] = struct{}{}
				ids = append(ids, cid)
			}
		}
	}

	refs, err := uc.catRepo.RefsByIDs(ctx, ids)
	if err != nil {
		return err
	}

	for i := range items {
		resolved := make([]model.CategoryRef, 0, len(items[i].CategoryIDs))
		for _, cid := range items[i].CategoryIDs {
			// Deleted categories drop out of the projection silently.
			if ref, ok := refs[cid]; ok {
				resolved = append(resolved, ref)
			}
		}
		items[i].Categories = resolved
	}
	return nil
}

func (uc *catalogUseCase) attachFavorites(ctx context.Context, userID string, items []model.Product) error {
	if len(items) == 0 {
		return nil
	}
	ids := make([]string, 0, len(items))
	for i := range items {
		ids = append(ids, items[i].ID)
	}

	membership, err := uc.favRepo.FilterFavorites(ctx, userID, ids)
	if err != nil {
		return err
	}
	for i := range items {
		fav := membership[items[i].ID]
		items[i].IsFavorite = &fav
	}
	return nil
}

// --- Mutation gateway ---

func (uc *catalogUseCase) CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error) {
	if err := validateCommercial(input.Name, input.SalePrice, input.VATRate, input.Visibility); err != nil {
		return nil, err
	}

	s := input.Slug
	if s == "" {
		s = slug.Make(input.Name)
	}
	unique, err := uc.repo.IsSlugUnique(ctx, s, "")
	if err != nil {
		return nil, err
	}
	if !unique {
		return nil, &model.ValidationError{Field: "slug", Message: "already exists"}
	}

	now := time.Now()
	p := &model.Product{
		BaseModel:      model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		Slug:           s,
		Name:           input.Name,
		SKU:            input.SKU,
		CostPrice:      input.CostPrice,
		SalePrice:      input.SalePrice,
		VATRate:        input.VATRate,
		VolumeDiscount: input.VolumeDiscount,
		CategoryIDs:    pq.StringArray(input.CategoryIDs),
		Visibility:     model.Visibility(input.Visibility),
		IsActive:       true,
		Weight:         input.Weight,
		Length:         input.Length,
		Width:          input.Width,
		Height:         input.Height,
		Images:         pq.StringArray(input.Images),
	}
	p.ShortDescription = optional(input.ShortDescription)
	p.Description = optional(input.Description)
	p.Barcode = optional(input.Barcode)
	p.OriginCountry = optional(input.OriginCountry)
	p.HSCode = optional(input.HSCode)
	p.SupplierID = optional(input.SupplierID)
	p.SupplierName = optional(input.SupplierName)

	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	go uc.invalidateListCache(context.Background())
	go uc.syncToSearch(context.Background(), p)

	return p, nil
}

func (uc *catalogUseCase) UpdateProduct(ctx context.Context, input *dto.UpdateProductInput) (*model.Product, error) {
	p, err := uc.repo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, model.ErrNotFound
	}

	if err := validateCommercial(input.Name, input.SalePrice, input.VATRate, input.Visibility); err != nil {
		return nil, err
	}

	if input.Slug != "" && input.Slug != p.Slug {
		unique, err := uc.repo.IsSlugUnique(ctx, input.Slug, p.ID)
		if err != nil {
			return nil, err
		}
		if !unique {
			return nil, &model.ValidationError{Field: "slug", Message: "already exists"}
		}
	}

	// The UPDATE keeps the stored slug when this is blank, so the
	// keep-current rule does not depend on the snapshot read above.
	currentSlug := p.Slug
	p.Slug = input.Slug
	p.Name = input.Name
	p.ShortDescription = optional(input.ShortDescription)
	p.Description = optional(input.Description)
	p.SKU = input.SKU
	p.Barcode = optional(input.Barcode)
	p.CostPrice = input.CostPrice
	p.SalePrice = input.SalePrice
	p.VATRate = input.VATRate
	p.VolumeDiscount = input.VolumeDiscount
	p.CategoryIDs = pq.StringArray(input.CategoryIDs)
	p.Visibility = model.Visibility(input.Visibility)
	p.IsActive = input.IsActive
	p.Weight = input.Weight
	p.Length = input.Length
	p.Width = input.Width
	p.Height = input.Height
	p.Images = pq.StringArray(input.Images)
	p.OriginCountry = optional(input.OriginCountry)
	p.HSCode = optional(input.HSCode)
	p.SupplierID = optional(input.SupplierID)
	p.SupplierName = optional(input.SupplierName)
	p.UpdatedAt = time.Now()

	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	if p.Slug == "" {
		p.Slug = currentSlug
	}

	go uc.invalidateListCache(context.Background())
	go uc.syncToSearch(context.Background(), p)

	return p, nil
}

func (uc *catalogUseCase) DeleteProduct(ctx context.Context, id string) error {
	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return model.ErrNotFound
	}

	// Hard delete; historical orders keep their dangling references and
	// analytics drops them on join.
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}

	go uc.invalidateListCache(context.Background())
	if uc.es != nil {
		go func() {
			res, err := uc.es.Delete(searchIndex, id, uc.es.Delete.WithContext(context.Background()))
			if err != nil {
				uc.logger.Error("failed to remove product from search index", zap.Error(err))
				return
			}
			res.Body.Close()
		}()
	}

	return nil
}

func validateCommercial(name string, salePrice, vatRate float64, visibility string) error {
	if name == "" {
		return &model.ValidationError{Field: "name", Message: "is required"}
	}
	if salePrice < 0 {
		return &model.ValidationError{Field: "sale_price", Message: "must not be negative"}
	}
	if vatRate < 0 || vatRate > 100 {
		return &model.ValidationError{Field: "vat_rate", Message: "must be between 0 and 100"}
	}
	if !model.Visibility(visibility).Valid() {
		return &model.ValidationError{Field: "visibility", Message: "must be internal, external or both"}
	}
	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// --- Cache & search sync ---

// listCacheKey hashes the compiled filter only. Cached pages carry no
// per-caller data, so callers with identical filters share entries.
func (uc *catalogUseCase) listCacheKey(cf *catalog.CompiledFilter) string {
	data, err := json.Marshal(cf)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("catalog:list:%x", md5.Sum(data))
}

func (uc *catalogUseCase) invalidateListCache(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	keys, err := uc.cache.Keys(ctx, "catalog:list:*").Result()
	if err == nil && len(keys) > 0 {
		uc.cache.Del(ctx, keys...)
	}
}

func (uc *catalogUseCase) syncToSearch(ctx context.Context, p *model.Product) {
	if uc.es == nil {
		return
	}

	doc := map[string]interface{}{
		"id":         p.ID,
		"name":       p.Name,
		"slug":       p.Slug,
		"sku":        p.SKU,
		"sale_price": p.SalePrice,
	}
	if p.ShortDescription != nil {
		doc["short_description"] = *p.ShortDescription
	}
	if len(p.Images) > 0 {
		doc["image"] = p.Images[0]
	}

	data, err := json.Marshal(doc)
	if err != nil {
		uc.logger.Error("failed to marshal search document", zap.Error(err))
		return
	}

	res, err := uc.es.Index(
		searchIndex,
		bytes.NewReader(data),
		uc.es.Index.WithDocumentID(p.ID),
		uc.es.Index.WithContext(ctx),
	)
	if err != nil {
		uc.logger.Error("failed to index product", zap.Error(err))
		return
	}
	res.Body.Close()
}
