package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) IsFavorite(ctx context.Context, userID, productID string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM favorites WHERE user_id = $1 AND product_id = $2)`
	if err := r.DB.GetContext(ctx, &exists, query, userID, productID); err != nil {
		return false, errors.Wrap(err, "check favorite")
	}
	return exists, nil
}

func (r *PGRepository) FilterFavorites(ctx context.Context, userID string, productIDs []string) (map[string]bool, error) {
	out := make(map[string]bool, len(productIDs))
	if len(productIDs) == 0 {
		return out, nil
	}

	query, args, err := sqlx.In(`SELECT product_id FROM favorites WHERE user_id = ? AND product_id IN (?)`, userID, productIDs)
	if err != nil {
		return nil, errors.Wrap(err, "build favorites query")
	}
	query = r.DB.Rebind(query)

	var ids []string
	if err := r.DB.SelectContext(ctx, &ids, query, args...); err != nil {
		return nil, errors.Wrap(err, "select favorites")
	}

	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}
