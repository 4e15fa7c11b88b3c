package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/GoSim-25-26J-441/go-shop-backend/internal/catalog/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const categoryID = "0f6c2e7b-4a1d-4e8f-9b3c-5d7e9f1a2b3c"

var categoryCols = []string{"id", "name", "slug", "description", "image", "featured", "parent_id", "created_at", "updated_at"}

func TestCategoryRepository_Create(t *testing.T) {
	t.Run("stores the parent", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()
		now := time.Now()
		parent := categoryID

		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO categories (id, name, slug, description, image, featured, parent_id)")).
			WithArgs(pgxmock.AnyArg(), "Sci-Fi", "sci-fi", "", domain.PlaceholderImage, false, &parent).
			WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

		c := &domain.Category{Name: "Sci-Fi", Slug: "sci-fi", Image: domain.PlaceholderImage, ParentID: &parent}
		require.NoError(t, NewCategoryRepository(mock).Create(context.Background(), c))
		assert.NotEmpty(t, c.ID)
		assert.Equal(t, now, c.CreatedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate slug", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO categories")).
			WithArgs(pgxmock.AnyArg(), "Fiction", "fiction", "", domain.PlaceholderImage, false, (*string)(nil)).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "categories_slug_key"})

		err = NewCategoryRepository(mock).Create(context.Background(), &domain.Category{Name: "Fiction", Slug: "fiction", Image: domain.PlaceholderImage})
		assert.ErrorIs(t, err, domain.ErrSlugTaken)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("parent removed meanwhile", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()
		parent := categoryID

		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO categories")).
			WithArgs(pgxmock.AnyArg(), "Poetry", "poetry", "", "", false, &parent).
			WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "categories_parent_id_fkey"})

		err = NewCategoryRepository(mock).Create(context.Background(), &domain.Category{Name: "Poetry", Slug: "poetry", ParentID: &parent})
		assert.ErrorIs(t, err, domain.ErrCategoryNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCategoryRepository_Update(t *testing.T) {
	t.Run("slug taken by another category", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(regexp.QuoteMeta("UPDATE categories")).
			WithArgs(categoryID, "Fiction", "fiction", "", "", false, (*string)(nil)).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "categories_slug_key"})

		err = NewCategoryRepository(mock).Update(context.Background(), &domain.Category{ID: categoryID, Name: "Fiction", Slug: "fiction"})
		assert.ErrorIs(t, err, domain.ErrSlugTaken)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing row", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(regexp.QuoteMeta("UPDATE categories")).
			WithArgs(categoryID, "Fiction", "fiction", "", "", false, (*string)(nil)).
			WillReturnError(pgx.ErrNoRows)

		err = NewCategoryRepository(mock).Update(context.Background(), &domain.Category{ID: categoryID, Name: "Fiction", Slug: "fiction"})
		assert.ErrorIs(t, err, domain.ErrCategoryNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCategoryRepository_List(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	now := time.Now()
	parent := categoryID

	mock.ExpectQuery(regexp.QuoteMeta("FROM categories WHERE featured ORDER BY name")).
		WillReturnRows(pgxmock.NewRows(categoryCols).
			AddRow(categoryID, "Fiction", "fiction", "", "", true, nil, now, now).
			AddRow("1a2b3c4d-5e6f-4a8b-9c0d-1e2f3a4b5c6d", "Sci-Fi", "sci-fi", "", "", true, &parent, now, now))

	got, err := NewCategoryRepository(mock).List(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Nil(t, got[0].ParentID)
	require.NotNil(t, got[1].ParentID)
	assert.Equal(t, categoryID, *got[1].ParentID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryRepository_GetBySlug(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM categories WHERE slug = $1")).
		WithArgs("தமிழ்").
		WillReturnError(pgx.ErrNoRows)

	_, err = NewCategoryRepository(mock).GetBySlug(context.Background(), "தமிழ்")
	assert.ErrorIs(t, err, domain.ErrCategoryNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())

	_, err = NewCategoryRepository(mock).Get(context.Background(), "fiction")
	assert.ErrorIs(t, err, domain.ErrCategoryNotFound, "malformed id never reaches the database")
}

func TestCategoryRepository_Delete(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM categories WHERE id = $1")).
		WithArgs(categoryID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	assert.ErrorIs(t, NewCategoryRepository(mock).Delete(context.Background(), categoryID), domain.ErrCategoryNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
