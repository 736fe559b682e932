package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/engrosnet/catalog-service/internal/category/dto"
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

func (r *PGRepository) Create(ctx context.Context, c *model.Category) error {
	query := `
        INSERT INTO categories (id, name, slug, parent_id, is_active, created_at, updated_at)
        VALUES (:id, :name, :slug, :parent_id, :is_active, :created_at, :updated_at)
    `
	if _, err := r.DB.NamedExecContext(ctx, query, c); err != nil {
		return errors.Wrap(err, "insert category")
	}
	return nil
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Category, error) {
	var category model.Category
	query := `SELECT * FROM categories WHERE id = $1 LIMIT 1`
	err := r.DB.GetContext(ctx, &category, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "select category")
	}
	return &category, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.CategoryFilters) ([]model.Category, int, error) {
	var categories []model.Category
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.ParentID != nil {
		if *f.ParentID == "" {
			conditions = append(conditions, "parent_id IS NULL")
		} else {
			conditions = append(conditions, "parent_id = :parent_id")
			args["parent_id"] = *f.ParentID
		}
	}
	if f.IsActive != nil {
		conditions = append(conditions, "is_active = :is_active")
		args["is_active"] = *f.IsActive
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT count(*) FROM categories" + whereClause
	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, errors.Wrap(err, "count categories")
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&count); err != nil {
			return nil, 0, errors.Wrap(err, "scan category count")
		}
	}

	query := "SELECT * FROM categories" + whereClause + " ORDER BY name ASC"
	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, errors.Wrap(err, "prepare category list")
	}
	defer nstmt.Close()

	if err := nstmt.SelectContext(ctx, &categories, args); err != nil {
		return nil, 0, errors.Wrap(err, "select categories")
	}

	return categories, count, nil
}

func (r *PGRepository) Update(ctx context.Context, c *model.Category) error {
	query := `
        UPDATE categories
        SET name = :name,
            slug = :slug,
            parent_id = :parent_id,
            is_active = :is_active,
            updated_at = :updated_at
        WHERE id = :id
    `
	if _, err := r.DB.NamedExecContext(ctx, query, c); err != nil {
		return errors.Wrap(err, "update category")
	}
	return nil
}

func (r *PGRepository) Delete(ctx context.Context, id string) error {
	// FK on categories.parent_id is SET NULL, so children become roots.
	if _, err := r.DB.ExecContext(ctx, "DELETE FROM categories WHERE id = $1", id); err != nil {
		return errors.Wrap(err, "delete category")
	}
	return nil
}

func (r *PGRepository) RefsByIDs(ctx context.Context, ids []string) (map[string]model.CategoryRef, error) {
	if len(ids) == 0 {
		return map[string]model.CategoryRef{}, nil
	}

	query, args, err := sqlx.In(`SELECT id, name, slug FROM categories WHERE id IN (?)`, ids)
	if err != nil {
		return nil, errors.Wrap(err, "build category refs query")
	}
	query = r.DB.Rebind(query)

	var refs []model.CategoryRef
	if err := r.DB.SelectContext(ctx, &refs, query, args...); err != nil {
		return nil, errors.Wrap(err, "select category refs")
	}

	out := make(map[string]model.CategoryRef, len(refs))
	for _, ref := range refs {
		out[ref.ID] = ref
	}
	return out, nil
}
