package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/engrosnet/catalog-service/internal/catalog"
	"github.com/engrosnet/catalog-service/internal/model"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, p *model.Product) error {
	query := `
        INSERT INTO products (
            id, slug, name, short_description, description, sku, barcode,
            cost_price, sale_price, vat_rate, volume_discount, category_ids,
            visibility, is_active, weight, length, width, height, images,
            origin_country, hs_code, supplier_id, supplier_name,
            created_at, updated_at
        )
        VALUES (
            :id, :slug, :name, :short_description, :description, :sku, :barcode,
            :cost_price, :sale_price, :vat_rate, :volume_discount, :category_ids,
            :visibility, :is_active, :weight, :length, :width, :height, :images,
            :origin_country, :hs_code, :supplier_id, :supplier_name,
            :created_at, :updated_at
        )
    `
	if _, err := r.DB.NamedExecContext(ctx, query, p); err != nil {
		return errors.Wrap(err, "insert product")
	}
	return nil
}

func (r *PGRepository) Update(ctx context.Context, p *model.Product) error {
	// Single atomic statement; stock is never part of this row. A blank
	// slug keeps the stored value so a concurrent rename is not clobbered
	// by a stale snapshot.
	query := `
        UPDATE products
        SET slug = COALESCE(NULLIF(:slug, ''), slug),
            name = :name,
            short_description = :short_description,
            description = :description,
            sku = :sku,
            barcode = :barcode,
            cost_price = :cost_price,
            sale_price = :sale_price,
            vat_rate = :vat_rate,
            volume_discount = :volume_discount,
            category_ids = :category_ids,
            visibility = :visibility,
            is_active = :is_active,
            weight = :weight,
            length = :length,
            width = :width,
            height = :height,
            images = :images,
            origin_country = :origin_country,
            hs_code = :hs_code,
            supplier_id = :supplier_id,
            supplier_name = :supplier_name,
            updated_at = :updated_at
        WHERE id = :id
    `
	if _, err := r.DB.NamedExecContext(ctx, query, p); err != nil {
		return errors.Wrap(err, "update product")
	}
	return nil
}

func (r *PGRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.DB.ExecContext(ctx, "DELETE FROM products WHERE id = $1", id); err != nil {
		return errors.Wrap(err, "delete product")
	}
	return nil
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Product, error) {
	var product model.Product
	query := `SELECT * FROM products WHERE id = $1 LIMIT 1`
	err := r.DB.GetContext(ctx, &product, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "select product by id")
	}
	return &product, nil
}

func (r *PGRepository) FindBySlug(ctx context.Context, slug string) (*model.Product, error) {
	var product model.Product
	query := `SELECT * FROM products WHERE slug = $1 LIMIT 1`
	err := r.DB.GetContext(ctx, &product, query, slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "select product by slug")
	}
	return &product, nil
}

func (r *PGRepository) FindByIDs(ctx context.Context, ids []string) ([]model.Product, error) {
	if len(ids) == 0 {
		return []model.Product{}, nil
	}

	query, args, err := sqlx.In(`SELECT * FROM products WHERE id IN (?)`, ids)
	if err != nil {
		return nil, errors.Wrap(err, "build products batch query")
	}
	query = r.DB.Rebind(query)

	products := []model.Product{}
	if err := r.DB.SelectContext(ctx, &products, query, args...); err != nil {
		return nil, errors.Wrap(err, "select products batch")
	}
	return products, nil
}

// buildWhere translates the product-stage filter into a WHERE clause and a
// named-args map. Conditions are whitelisted, never interpolated from input.
func buildWhere(f *catalog.ProductStageFilter) (string, map[string]interface{}) {
	conditions := []string{}
	args := map[string]interface{}{}

	if f.IsActive != nil {
		conditions = append(conditions, "is_active = :is_active")
		args["is_active"] = *f.IsActive
	}
	if len(f.Visibilities) > 0 {
		vis := make([]string, 0, len(f.Visibilities))
		for _, v := range f.Visibilities {
			vis = append(vis, string(v))
		}
		conditions = append(conditions, "visibility IN (:visibilities)")
		args["visibilities"] = vis
	}
	if f.CategoryID != "" {
		conditions = append(conditions, ":category_id = ANY(category_ids)")
		args["category_id"] = f.CategoryID
	}
	if f.PriceMin != nil {
		conditions = append(conditions, "sale_price >= :price_min")
		args["price_min"] = *f.PriceMin
	}
	if f.PriceMax != nil {
		conditions = append(conditions, "sale_price <= :price_max")
		args["price_max"] = *f.PriceMax
	}
	if f.Query != "" {
		conditions = append(conditions, "(name ILIKE :search OR slug ILIKE :search OR short_description ILIKE :search OR sku ILIKE :search)")
		args["search"] = "%" + f.Query + "%"
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func (r *PGRepository) selectProducts(ctx context.Context, query string, args map[string]interface{}) ([]model.Product, error) {
	q, in, err := sqlx.Named(query, args)
	if err != nil {
		return nil, errors.Wrap(err, "bind product query")
	}
	q, in, err = sqlx.In(q, in...)
	if err != nil {
		return nil, errors.Wrap(err, "expand product query")
	}
	q = r.DB.Rebind(q)

	products := []model.Product{}
	if err := r.DB.SelectContext(ctx, &products, q, in...); err != nil {
		return nil, errors.Wrap(err, "select products")
	}
	return products, nil
}

func (r *PGRepository) FindPage(ctx context.Context, f *catalog.ProductStageFilter, sort catalog.Sort, page catalog.Pagination) ([]model.Product, error) {
	where, args := buildWhere(f)
	// Secondary id sort keeps pages disjoint under equal sort keys.
	query := fmt.Sprintf("SELECT * FROM products%s ORDER BY %s %s, id ASC LIMIT %d OFFSET %d",
		where, sort.Field, sort.Direction, page.Limit, page.Offset())
	return r.selectProducts(ctx, query, args)
}

func (r *PGRepository) FindAllMatches(ctx context.Context, f *catalog.ProductStageFilter, sort catalog.Sort) ([]model.Product, error) {
	where, args := buildWhere(f)
	query := fmt.Sprintf("SELECT * FROM products%s ORDER BY %s %s, id ASC", where, sort.Field, sort.Direction)
	return r.selectProducts(ctx, query, args)
}

func (r *PGRepository) Count(ctx context.Context, f *catalog.ProductStageFilter) (int, error) {
	where, args := buildWhere(f)
	query := "SELECT count(*) FROM products" + where

	q, in, err := sqlx.Named(query, args)
	if err != nil {
		return 0, errors.Wrap(err, "bind product count")
	}
	q, in, err = sqlx.In(q, in...)
	if err != nil {
		return 0, errors.Wrap(err, "expand product count")
	}
	q = r.DB.Rebind(q)

	var count int
	if err := r.DB.GetContext(ctx, &count, q, in...); err != nil {
		return 0, errors.Wrap(err, "count products")
	}
	return count, nil
}

func (r *PGRepository) Search(ctx context.Context, query string, limit int) ([]model.CompactProduct, error) {
	// SQL fallback for quick search; images[1] is NULL for empty arrays.
	q := `
        SELECT id, name, slug, sku, sale_price, images[1] AS image
        FROM products
        WHERE name ILIKE $1 OR slug ILIKE $1 OR short_description ILIKE $1 OR sku ILIKE $1
        ORDER BY name ASC
        LIMIT $2
    `
	results := []model.CompactProduct{}
	if err := r.DB.SelectContext(ctx, &results, q, "%"+query+"%", limit); err != nil {
		return nil, errors.Wrap(err, "search products")
	}
	return results, nil
}

func (r *PGRepository) IsSlugUnique(ctx context.Context, slug, excludeID string) (bool, error) {
	var count int
	query := `SELECT count(*) FROM products WHERE slug = $1`
	args := []interface{}{slug}
	if excludeID != "" {
		query += ` AND id != $2`
		args = append(args, excludeID)
	}

	if err := r.DB.GetContext(ctx, &count, query, args...); err != nil {
		return false, errors.Wrap(err, "check slug uniqueness")
	}
	return count == 0, nil
}
