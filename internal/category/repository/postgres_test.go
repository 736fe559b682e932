package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/engrosnet/catalog-service/internal/category/dto"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (*PGRepository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPGRepository(sqlx.NewDb(db, "sqlmock")), mock
}

func TestFindAllReturnsCountAndRows(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	mock.ExpectQuery(`SELECT count\(\*\) FROM categories`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	prep := mock.ExpectPrepare(`SELECT \* FROM categories ORDER BY name ASC`)
	prep.ExpectQuery().WillReturnRows(
		sqlmock.NewRows([]string{"id", "name", "slug", "parent_id", "is_active", "created_at", "updated_at"}).
			AddRow("c1", "Cheese", "cheese", nil, true, now, now).
			AddRow("c2", "Ham", "ham", nil, true, now, now),
	)

	categories, total, err := repo.FindAll(context.Background(), &dto.CategoryFilters{})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, categories, 2)
	assert.Equal(t, "cheese", categories[0].Slug)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindAllCountScanError(t *testing.T) {
	repo, mock := newMockRepo(t)

	// A count column that cannot scan into int must surface, not be
	// swallowed leaving total at zero.
	mock.ExpectQuery(`SELECT count\(\*\) FROM categories`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow("not-a-number"))

	_, _, err := repo.FindAll(context.Background(), &dto.CategoryFilters{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scan category count")
}
