package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/GoSim-25-26J-441/go-shop-backend/internal/catalog/domain"
	"github.com/GoSim-25-26J-441/go-shop-backend/internal/storage/postgres"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const categoryColumns = `id, name, slug, description, image, featured, parent_id, created_at, updated_at`

type CategoryRepository struct {
	db postgres.DBTX
}

func NewCategoryRepository(db postgres.DBTX) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) List(ctx context.Context, featuredOnly bool) ([]domain.Category, error) {
	q := `SELECT ` + categoryColumns + ` FROM categories`
	if featuredOnly {
		q += ` WHERE featured`
	}
	q += ` ORDER BY name`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Category, 0, 16)
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (r *CategoryRepository) Get(ctx context.Context, id string) (*domain.Category, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrCategoryNotFound
	}
	return r.getOne(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
}

func (r *CategoryRepository) GetBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	return r.getOne(ctx, `SELECT `+categoryColumns+` FROM categories WHERE slug = $1`, slug)
}

func (r *CategoryRepository) getOne(ctx context.Context, q, arg string) (*domain.Category, error) {
	c, err := scanCategory(r.db.QueryRow(ctx, q, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrCategoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

// Create inserts c and fills in its ID and timestamps.
func (r *CategoryRepository) Create(ctx context.Context, c *domain.Category) error {
	c.ID = uuid.NewString()

	const q = `
INSERT INTO categories (id, name, slug, description, image, featured, parent_id)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING created_at, updated_at;
`
	err := r.db.QueryRow(ctx, q, c.ID, c.Name, c.Slug, c.Description, c.Image, c.Featured, c.ParentID).
		Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if postgres.IsUniqueViolation(err, "categories_slug_key") {
			return domain.ErrSlugTaken
		}
		if postgres.IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: parent", domain.ErrCategoryNotFound)
		}
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

func (r *CategoryRepository) Update(ctx context.Context, c *domain.Category) error {
	const q = `
UPDATE categories
SET name = $2, slug = $3, description = $4, image = $5, featured = $6, parent_id = $7, updated_at = now()
WHERE id = $1
RETURNING updated_at;
`
	err := r.db.QueryRow(ctx, q, c.ID, c.Name, c.Slug, c.Description, c.Image, c.Featured, c.ParentID).Scan(&c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrCategoryNotFound
	}
	if err != nil {
		if postgres.IsUniqueViolation(err, "categories_slug_key") {
			return domain.ErrSlugTaken
		}
		if postgres.IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: parent", domain.ErrCategoryNotFound)
		}
		return fmt.Errorf("update category: %w", err)
	}
	return nil
}

func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return domain.ErrCategoryNotFound
	}
	tag, err := r.db.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}

func scanCategory(row pgx.Row) (*domain.Category, error) {
	var c domain.Category
	if err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.Image, &c.Featured, &c.ParentID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}
