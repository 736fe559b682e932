package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/engrosnet/catalog-service/internal/auth"
	"github.com/engrosnet/catalog-service/internal/catalog"
	"github.com/engrosnet/catalog-service/internal/catalog/dto"
	catdto "github.com/engrosnet/catalog-service/internal/category/dto"
	invdto "github.com/engrosnet/catalog-service/internal/inventory/dto"
	"github.com/engrosnet/catalog-service/internal/model"
	"github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// --- Fakes ---

type fakeRepo struct {
	products []model.Product
}

func (f *fakeRepo) matches(p *model.Product, filter *catalog.ProductStageFilter) bool {
	if filter.IsActive != nil && p.IsActive != *filter.IsActive {
		return false
	}
	if len(filter.Visibilities) > 0 {
		ok := false
		for _, v := range filter.Visibilities {
			if p.Visibility == v {
				ok = true
			}
		}
		if !ok {
			return false
		}
	}
	if filter.CategoryID != "" {
		ok := false
		for _, cid := range p.CategoryIDs {
			if cid == filter.CategoryID {
				ok = true
			}
		}
		if !ok {
			return false
		}
	}
	if filter.PriceMin != nil && p.SalePrice < *filter.PriceMin {
		return false
	}
	if filter.PriceMax != nil && p.SalePrice > *filter.PriceMax {
		return false
	}
	if filter.Query != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(filter.Query)) {
		return false
	}
	return true
}

func (f *fakeRepo) all(filter *catalog.ProductStageFilter) []model.Product {
	out := []model.Product{}
	for _, p := range f.products {
		p := p
		if f.matches(&p, filter) {
			out = append(out, p)
		}
	}
	return out
}

func (f *fakeRepo) Create(_ context.Context, p *model.Product) error {
	f.products = append(f.products, *p)
	return nil
}

func (f *fakeRepo) Update(_ context.Context, p *model.Product) error {
	for i := range f.products {
		if f.products[i].ID == p.ID {
			updated := *p
			// Mirrors the UPDATE statement: a blank slug keeps the
			// stored value.
			if updated.Slug == "" {
				updated.Slug = f.products[i].Slug
			}
			f.products[i] = updated
		}
	}
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id string) error {
	out := f.products[:0]
	for _, p := range f.products {
		if p.ID != id {
			out = append(out, p)
		}
	}
	f.products = out
	return nil
}

func (f *fakeRepo) FindByID(_ context.Context, id string) (*model.Product, error) {
	for _, p := range f.products {
		if p.ID == id {
			p := p
			return &p, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) FindBySlug(_ context.Context, slug string) (*model.Product, error) {
	for _, p := range f.products {
		if p.Slug == slug {
			p := p
			return &p, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) FindByIDs(_ context.Context, ids []string) ([]model.Product, error) {
	out := []model.Product{}
	for _, id := range ids {
		for _, p := range f.products {
			if p.ID == id {
				out = append(out, p)
			}
		}
	}
	return out, nil
}

func (f *fakeRepo) FindPage(_ context.Context, filter *catalog.ProductStageFilter, _ catalog.Sort, page catalog.Pagination) ([]model.Product, error) {
	matches := f.all(filter)
	start := page.Offset()
	if start > len(matches) {
		start = len(matches)
	}
	end := start + page.Limit
	if end > len(matches) {
		end = len(matches)
	}
	return matches[start:end], nil
}

func (f *fakeRepo) FindAllMatches(_ context.Context, filter *catalog.ProductStageFilter, _ catalog.Sort) ([]model.Product, error) {
	return f.all(filter), nil
}

func (f *fakeRepo) Count(_ context.Context, filter *catalog.ProductStageFilter) (int, error) {
	return len(f.all(filter)), nil
}

func (f *fakeRepo) Search(_ context.Context, query string, limit int) ([]model.CompactProduct, error) {
	out := []model.CompactProduct{}
	for _, p := range f.products {
		if len(out) == limit {
			break
		}
		if strings.Contains(strings.ToLower(p.Name), strings.ToLower(query)) {
			out = append(out, model.CompactProduct{ID: p.ID, Name: p.Name, Slug: p.Slug, SKU: p.SKU, SalePrice: p.SalePrice})
		}
	}
	return out, nil
}

func (f *fakeRepo) IsSlugUnique(_ context.Context, slug, excludeID string) (bool, error) {
	for _, p := range f.products {
		if p.Slug == slug && p.ID != excludeID {
			return false, nil
		}
	}
	return true, nil
}

type fakeInventoryUC struct {
	summaries map[string]model.StockSummary
}

func (f *fakeInventoryUC) StockFor(_ context.Context, productID string) (model.StockSummary, error) {
	return f.summaries[productID], nil
}

func (f *fakeInventoryUC) StockForBatch(_ context.Context, productIDs []string) (map[string]model.StockSummary, error) {
	out := make(map[string]model.StockSummary, len(productIDs))
	for _, id := range productIDs {
		out[id] = f.summaries[id]
	}
	return out, nil
}

func (f *fakeInventoryUC) ApplyReceipt(_ context.Context, _ *invdto.ReceiptInput) (*model.InventoryRecord, error) {
	return nil, nil
}

type fakeCategoryRepo struct {
	refs map[string]model.CategoryRef
}

func (f *fakeCategoryRepo) Create(_ context.Context, _ *model.Category) error  { return nil }
func (f *fakeCategoryRepo) Update(_ context.Context, _ *model.Category) error  { return nil }
func (f *fakeCategoryRepo) Delete(_ context.Context, _ string) error           { return nil }
func (f *fakeCategoryRepo) FindByID(_ context.Context, _ string) (*model.Category, error) {
	return nil, nil
}
func (f *fakeCategoryRepo) FindAll(_ context.Context, _ *catdto.CategoryFilters) ([]model.Category, int, error) {
	return nil, 0, nil
}

func (f *fakeCategoryRepo) RefsByIDs(_ context.Context, ids []string) (map[string]model.CategoryRef, error) {
	out := map[string]model.CategoryRef{}
	for _, id := range ids {
		if ref, ok := f.refs[id]; ok {
			out[id] = ref
		}
	}
	return out, nil
}

type fakeFavoriteRepo struct {
	favorites map[string]bool // productID -> favorited
}

func (f *fakeFavoriteRepo) IsFavorite(_ context.Context, _, productID string) (bool, error) {
	return f.favorites[productID], nil
}

func (f *fakeFavoriteRepo) FilterFavorites(_ context.Context, _ string, productIDs []string) (map[string]bool, error) {
	out := map[string]bool{}
	for _, id := range productIDs {
		if f.favorites[id] {
			out[id] = true
		}
	}
	return out, nil
}

// --- Fixtures ---

func product(id, slug string, active bool, vis model.Visibility, categoryIDs ...string) model.Product {
	return model.Product{
		BaseModel:   model.BaseModel{ID: id, CreatedAt: time.Now(), UpdatedAt: time.Now()},
		Slug:        slug,
		Name:        strings.ReplaceAll(slug, "-", " "),
		SKU:         "SKU-" + id,
		SalePrice:   10,
		Visibility:  vis,
		IsActive:    active,
		CategoryIDs: pq.StringArray(categoryIDs),
	}
}

func newUseCase(repo *fakeRepo, inv *fakeInventoryUC, cats *fakeCategoryRepo, favs *fakeFavoriteRepo) catalog.UseCase {
	if inv == nil {
		inv = &fakeInventoryUC{summaries: map[string]model.StockSummary{}}
	}
	if cats == nil {
		cats = &fakeCategoryRepo{refs: map[string]model.CategoryRef{}}
	}
	if favs == nil {
		favs = &fakeFavoriteRepo{favorites: map[string]bool{}}
	}
	return NewCatalogUseCase(repo, inv, cats, favs, nil, nil, zap.NewNop())
}

var (
	storefront = auth.Caller{}
	customer   = auth.Caller{UserID: "u1", Role: auth.RoleCustomer}
	admin      = auth.Caller{UserID: "a1", Role: auth.RoleAdmin}
)

// --- Query engine ---

func TestListProductsStorefrontVisibility(t *testing.T) {
	repo := &fakeRepo{products: []model.Product{
		product("1", "visible", true, model.VisibilityExternal),
		product("2", "both-ways", true, model.VisibilityBoth),
		product("3", "hidden-internal", true, model.VisibilityInternal),
		product("4", "hidden-inactive", false, model.VisibilityExternal),
	}}
	uc := newUseCase(repo, nil, nil, nil)

	// Even a filter that explicitly asks for internal/inactive products
	// must not widen a storefront listing.
	inactive := false
	page, err := uc.ListProducts(context.Background(), &catalog.ListQuery{
		Visibility: "internal",
		Active:     &inactive,
	}, storefront)

	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	for _, item := range page.Items {
		assert.True(t, item.IsActive)
		assert.NotEqual(t, model.VisibilityInternal, item.Visibility)
	}
	assert.Equal(t, 2, page.TotalCount)
}

func TestListProductsStockFilter(t *testing.T) {
	repo := &fakeRepo{products: []model.Product{
		product("a", "a", true, model.VisibilityBoth),
		product("b", "b", true, model.VisibilityBoth),
		product("c", "c", true, model.VisibilityBoth),
	}}
	inv := &fakeInventoryUC{summaries: map[string]model.StockSummary{
		"a": {Stock: 5},
		"c": {Stock: 2},
		// "b" has no inventory rows at all.
	}}
	uc := newUseCase(repo, inv, nil, nil)

	page, err := uc.ListProducts(context.Background(), &catalog.ListQuery{Stock: "in-stock"}, admin)
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	for _, item := range page.Items {
		assert.Greater(t, item.Stock, 0)
	}
	// The total reflects the stock filter, so pagination metadata agrees
	// with what the caller can actually page through.
	assert.Equal(t, 2, page.TotalCount)
	assert.Equal(t, 1, page.TotalPages)

	page, err = uc.ListProducts(context.Background(), &catalog.ListQuery{Stock: "out-of-stock"}, admin)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "b", page.Items[0].ID)
	assert.Equal(t, 0, page.Items[0].Stock)
	assert.Equal(t, 1, page.TotalCount)
}

func TestListProductsPaginationDeterminism(t *testing.T) {
	repo := &fakeRepo{}
	for _, id := range []string{"1", "2", "3", "4", "5"} {
		repo.products = append(repo.products, product(id, "p-"+id, true, model.VisibilityBoth))
	}
	uc := newUseCase(repo, nil, nil, nil)

	collect := func(page int) []string {
		p, err := uc.ListProducts(context.Background(), &catalog.ListQuery{
			Page:  []string{"", "1", "2", "3"}[page],
			Limit: "2",
		}, admin)
		require.NoError(t, err)
		ids := []string{}
		for _, item := range p.Items {
			ids = append(ids, item.ID)
		}
		return ids
	}

	p1, p2, p3 := collect(1), collect(2), collect(3)
	assert.Equal(t, []string{"1", "2"}, p1)
	assert.Equal(t, []string{"3", "4"}, p2)
	assert.Equal(t, []string{"5"}, p3)

	// Out-of-range pages are empty, never an error.
	far, err := uc.ListProducts(context.Background(), &catalog.ListQuery{Page: "99", Limit: "2"}, admin)
	require.NoError(t, err)
	assert.Empty(t, far.Items)
	assert.Equal(t, 5, far.TotalCount)
}

func TestListProductsEmptyMatch(t *testing.T) {
	uc := newUseCase(&fakeRepo{}, nil, nil, nil)

	page, err := uc.ListProducts(context.Background(), &catalog.ListQuery{Query: "nothing"}, storefront)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, 0, page.TotalCount)
	assert.Equal(t, 0, page.TotalPages)
}

func TestListProductsEnrichment(t *testing.T) {
	repo := &fakeRepo{products: []model.Product{
		product("1", "cheddar", true, model.VisibilityBoth, "cat-1", "cat-gone"),
	}}
	inv := &fakeInventoryUC{summaries: map[string]model.StockSummary{"1": {Stock: 4}}}
	cats := &fakeCategoryRepo{refs: map[string]model.CategoryRef{
		"cat-1": {ID: "cat-1", Name: "Cheese", Slug: "cheese"},
	}}
	favs := &fakeFavoriteRepo{favorites: map[string]bool{"1": true}}
	uc := newUseCase(repo, inv, cats, favs)

	page, err := uc.ListProducts(context.Background(), &catalog.ListQuery{}, customer)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)

	item := page.Items[0]
	assert.Equal(t, 4, item.Stock)
	// Deleted category ids drop out of the projection without error.
	require.Len(t, item.Categories, 1)
	assert.Equal(t, "cheese", item.Categories[0].Slug)
	require.NotNil(t, item.IsFavorite)
	assert.True(t, *item.IsFavorite)
}

func TestListProductsCachedPageFreshFavorites(t *testing.T) {
	srv := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: srv.Addr()})

	repo := &fakeRepo{products: []model.Product{
		product("1", "cheddar", true, model.VisibilityBoth),
	}}
	inv := &fakeInventoryUC{summaries: map[string]model.StockSummary{}}
	cats := &fakeCategoryRepo{refs: map[string]model.CategoryRef{}}
	favs := &fakeFavoriteRepo{favorites: map[string]bool{}}
	uc := NewCatalogUseCase(repo, inv, cats, favs, cache, nil, zap.NewNop())

	page, err := uc.ListProducts(context.Background(), &catalog.ListQuery{}, customer)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	require.NotNil(t, page.Items[0].IsFavorite)
	assert.False(t, *page.Items[0].IsFavorite)

	// Toggle the favorite outside this service and change the row under
	// the cache: the second read must serve the cached page but with a
	// fresh favorite flag.
	favs.favorites["1"] = true
	repo.products[0].Name = "renamed"

	page, err = uc.ListProducts(context.Background(), &catalog.ListQuery{}, customer)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "cheddar", page.Items[0].Name)
	require.NotNil(t, page.Items[0].IsFavorite)
	assert.True(t, *page.Items[0].IsFavorite)
}

func TestGetProductByIDVisibility(t *testing.T) {
	repo := &fakeRepo{products: []model.Product{
		product("1", "internal-only", true, model.VisibilityInternal),
	}}
	uc := newUseCase(repo, nil, nil, nil)

	_, err := uc.GetProductByID(context.Background(), "1", storefront)
	assert.ErrorIs(t, err, model.ErrNotFound)

	p, err := uc.GetProductByID(context.Background(), "1", admin)
	require.NoError(t, err)
	assert.Equal(t, "1", p.ID)

	_, err = uc.GetProductByID(context.Background(), "missing", admin)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestGetProductStockScenario(t *testing.T) {
	exp1 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	repo := &fakeRepo{products: []model.Product{
		product("A", "a", true, model.VisibilityBoth),
	}}
	inv := &fakeInventoryUC{summaries: map[string]model.StockSummary{
		"A": {Stock: 8, BestBeforeDate: &exp1},
	}}
	uc := newUseCase(repo, inv, nil, nil)

	p, err := uc.GetProductByID(context.Background(), "A", admin)
	require.NoError(t, err)
	assert.Equal(t, 8, p.Stock)
	require.NotNil(t, p.BestBeforeDate)
	assert.True(t, exp1.Equal(*p.BestBeforeDate))
}

// --- Mutation gateway ---

func TestCreateProductSlugRoundTrip(t *testing.T) {
	repo := &fakeRepo{}
	uc := newUseCase(repo, nil, nil, nil)

	p, err := uc.CreateProduct(context.Background(), &dto.CreateProductInput{
		Name:       "Ost & Skinke",
		SKU:        "OS-1",
		SalePrice:  49.5,
		VATRate:    25,
		Visibility: "both",
	})
	require.NoError(t, err)

	assert.NotContains(t, p.Slug, " ")
	assert.NotContains(t, p.Slug, "&")
	assert.Equal(t, strings.ToLower(p.Slug), p.Slug)

	got, err := uc.GetProductBySlug(context.Background(), p.Slug, admin)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
}

func TestCreateProductValidation(t *testing.T) {
	uc := newUseCase(&fakeRepo{}, nil, nil, nil)

	tests := []struct {
		name  string
		input dto.CreateProductInput
	}{
		{"missing name", dto.CreateProductInput{SalePrice: 1, Visibility: "both"}},
		{"negative price", dto.CreateProductInput{Name: "x", SalePrice: -1, Visibility: "both"}},
		{"vat out of range", dto.CreateProductInput{Name: "x", SalePrice: 1, VATRate: 130, Visibility: "both"}},
		{"bad visibility", dto.CreateProductInput{Name: "x", SalePrice: 1, Visibility: "public"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.CreateProduct(context.Background(), &tt.input)
			assert.True(t, model.IsValidation(err), "expected validation error, got %v", err)
		})
	}
}

func TestCreateProductDuplicateSlug(t *testing.T) {
	repo := &fakeRepo{products: []model.Product{
		product("1", "gouda", true, model.VisibilityBoth),
	}}
	uc := newUseCase(repo, nil, nil, nil)

	_, err := uc.CreateProduct(context.Background(), &dto.CreateProductInput{
		Name:       "Gouda",
		Slug:       "gouda",
		SalePrice:  1,
		Visibility: "both",
	})
	assert.True(t, model.IsValidation(err))
}

func TestUpdateProductSlugRetention(t *testing.T) {
	repo := &fakeRepo{products: []model.Product{
		product("1", "gouda", true, model.VisibilityBoth),
	}}
	uc := newUseCase(repo, nil, nil, nil)

	// A blank slug keeps the stored one even though other fields change.
	p, err := uc.UpdateProduct(context.Background(), &dto.UpdateProductInput{
		ID: "1", Name: "Gouda Aged", SalePrice: 12, Visibility: "both", IsActive: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "gouda", p.Slug)

	got, err := uc.GetProductBySlug(context.Background(), "gouda", admin)
	require.NoError(t, err)
	assert.Equal(t, "Gouda Aged", got.Name)

	// An explicit slug still renames.
	p, err = uc.UpdateProduct(context.Background(), &dto.UpdateProductInput{
		ID: "1", Slug: "gouda-aged", Name: "Gouda Aged", SalePrice: 12, Visibility: "both", IsActive: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "gouda-aged", p.Slug)

	_, err = uc.GetProductBySlug(context.Background(), "gouda", admin)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestUpdateProductNotFound(t *testing.T) {
	uc := newUseCase(&fakeRepo{}, nil, nil, nil)

	_, err := uc.UpdateProduct(context.Background(), &dto.UpdateProductInput{
		ID: "missing", Name: "x", SalePrice: 1, Visibility: "both",
	})
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestDeleteProduct(t *testing.T) {
	repo := &fakeRepo{products: []model.Product{
		product("1", "gone-soon", true, model.VisibilityBoth),
	}}
	uc := newUseCase(repo, nil, nil, nil)

	require.NoError(t, uc.DeleteProduct(context.Background(), "1"))
	assert.ErrorIs(t, uc.DeleteProduct(context.Background(), "1"), model.ErrNotFound)
}

func TestQuickSearchFallback(t *testing.T) {
	repo := &fakeRepo{products: []model.Product{
		product("1", "smoked-ham", true, model.VisibilityBoth),
		product("2", "cheddar", true, model.VisibilityBoth),
	}}
	// No search cluster wired: the engine must fall back to the repository.
	uc := newUseCase(repo, nil, nil, nil)

	results, err := uc.QuickSearch(context.Background(), "ham", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "1", results[0].ID)

	results, err = uc.QuickSearch(context.Background(), "", 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}
