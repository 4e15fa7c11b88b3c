package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/GoSim-25-26J-441/go-shop-backend/internal/catalog/domain"
	"github.com/GoSim-25-26J-441/go-shop-backend/internal/storage/postgres"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const productColumns = `id, shop_id, category_id, seller_id, name, description, image, price, count_in_stock,
is_bestseller, is_new_release, is_special_offer, discount_percentage, approved, approved_by, approved_at,
rating, num_reviews, created_at, updated_at`

type ProductRepository struct {
	db postgres.DBTX
}

func NewProductRepository(db postgres.DBTX) *ProductRepository {
	return &ProductRepository{db: db}
}

// whereClause builds the shared filter for List and its count query.
func whereClause(f domain.ProductFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if !f.IncludeUnapproved {
		conds = append(conds, "approved")
	}
	if kw := strings.TrimSpace(f.Keyword); kw != "" {
		conds = append(conds, "name ILIKE '%' || "+arg(kw)+" || '%'")
	}
	if f.CategoryID != "" {
		conds = append(conds, "category_id = "+arg(f.CategoryID))
	}
	if f.ShopID != "" {
		conds = append(conds, "shop_id = "+arg(f.ShopID))
	}
	if f.Bestseller {
		conds = append(conds, "is_bestseller")
	}
	if f.NewRelease {
		conds = append(conds, "is_new_release")
	}
	if f.SpecialOffer {
		conds = append(conds, "is_special_offer")
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// List returns one page of products, newest first, and the total match count.
func (r *ProductRepository) List(ctx context.Context, f domain.ProductFilter) ([]domain.Product, int, error) {
	if (f.CategoryID != "" && uuid.Validate(f.CategoryID) != nil) || (f.ShopID != "" && uuid.Validate(f.ShopID) != nil) {
		return []domain.Product{}, 0, nil
	}

	where, args := whereClause(f)

	var total int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM products`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	page := f.Page
	if page < 1 {
		page = 1
	}
	n := len(args)
	q := `SELECT ` + productColumns + ` FROM products` + where +
		` ORDER BY created_at DESC LIMIT $` + strconv.Itoa(n+1) + ` OFFSET $` + strconv.Itoa(n+2)
	args = append(args, domain.PageSize, (page-1)*domain.PageSize)

	products, err := r.list(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (r *ProductRepository) Top(ctx context.Context, limit int) ([]domain.Product, error) {
	return r.list(ctx,
		`SELECT `+productColumns+` FROM products WHERE approved ORDER BY rating DESC, num_reviews DESC LIMIT $1`, limit)
}

func (r *ProductRepository) ListPending(ctx context.Context) ([]domain.Product, error) {
	return r.list(ctx, `SELECT `+productColumns+` FROM products WHERE NOT approved ORDER BY created_at`)
}

func (r *ProductRepository) list(ctx context.Context, q string, args ...any) ([]domain.Product, error) {
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Product, 0, domain.PageSize)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *ProductRepository) Get(ctx context.Context, id string) (*domain.Product, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrProductNotFound
	}
	p, err := scanProduct(r.db.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) error {
	p.ID = uuid.NewString()

	const q = `
INSERT INTO products (id, shop_id, category_id, seller_id, name, description, image, price, count_in_stock,
    is_bestseller, is_new_release, is_special_offer, discount_percentage, approved, approved_by, approved_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
RETURNING created_at, updated_at;
`
	err := r.db.QueryRow(ctx, q,
		p.ID, p.ShopID, p.CategoryID, p.SellerID, p.Name, p.Description, p.Image, p.Price, p.CountInStock,
		p.IsBestseller, p.IsNewRelease, p.IsSpecialOffer, p.DiscountPercentage, p.Approved, p.ApprovedBy, p.ApprovedAt,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// Update writes every mutable column of p.
func (r *ProductRepository) Update(ctx context.Context, p *domain.Product) error {
	const q = `
UPDATE products
SET shop_id = $2, category_id = $3, name = $4, description = $5, image = $6, price = $7, count_in_stock = $8,
    is_bestseller = $9, is_new_release = $10, is_special_offer = $11, discount_percentage = $12, updated_at = now()
WHERE id = $1
RETURNING updated_at;
`
	err := r.db.QueryRow(ctx, q,
		p.ID, p.ShopID, p.CategoryID, p.Name, p.Description, p.Image, p.Price, p.CountInStock,
		p.IsBestseller, p.IsNewRelease, p.IsSpecialOffer, p.DiscountPercentage,
	).Scan(&p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrProductNotFound
	}
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

func (r *ProductRepository) Approve(ctx context.Context, id, approverID string) (*domain.Product, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrProductNotFound
	}
	p, err := scanProduct(r.db.QueryRow(ctx, `
UPDATE products SET approved = true, approved_by = $2, approved_at = now(), updated_at = now()
WHERE id = $1
RETURNING `+productColumns, id, approverID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("approve product: %w", err)
	}
	return p, nil
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return domain.ErrProductNotFound
	}
	tag, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// AddReview stores a review and recomputes the product's rating and review
// count in the same transaction. The product row is locked so concurrent
// reviews see each other's effect on the mean.
func (r *ProductRepository) AddReview(ctx context.Context, productID, userID string, in domain.ReviewInput) (*domain.Review, error) {
	if _, err := uuid.Parse(productID); err != nil {
		return nil, domain.ErrProductNotFound
	}

	rev := &domain.Review{
		ID:        uuid.NewString(),
		ProductID: productID,
		UserID:    userID,
		Rating:    in.Rating,
		Comment:   in.Comment,
	}

	err := postgres.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		var locked string
		err := tx.QueryRow(ctx, `SELECT id FROM products WHERE id = $1 FOR UPDATE`, productID).Scan(&locked)
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrProductNotFound
		}
		if err != nil {
			return fmt.Errorf("lock product: %w", err)
		}

		err = tx.QueryRow(ctx, `
INSERT INTO reviews (id, product_id, user_id, name, rating, comment)
SELECT $1, $2, $3, u.name, $4, $5 FROM users u WHERE u.id = $3
RETURNING name, created_at;
`, rev.ID, productID, userID, rev.Rating, rev.Comment).Scan(&rev.Name, &rev.CreatedAt)
		if err != nil {
			if postgres.IsUniqueViolation(err, "reviews_product_user_key") {
				return domain.ErrAlreadyReviewed
			}
			// The SELECT from users yields no row once the account is gone.
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrUserNotFound
			}
			return fmt.Errorf("insert review: %w", err)
		}

		_, err = tx.Exec(ctx, `
UPDATE products p
SET rating = s.avg, num_reviews = s.cnt, updated_at = now()
FROM (SELECT COALESCE(AVG(rating), 0) AS avg, count(*) AS cnt FROM reviews WHERE product_id = $1) s
WHERE p.id = $1;
`, productID)
		if err != nil {
			return fmt.Errorf("update rating: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rev, nil
}

func (r *ProductRepository) Reviews(ctx context.Context, productID string) ([]domain.Review, error) {
	if _, err := uuid.Parse(productID); err != nil {
		return nil, domain.ErrProductNotFound
	}
	rows, err := r.db.Query(ctx, `
SELECT id, product_id, user_id, name, rating, comment, created_at
FROM reviews WHERE product_id = $1 ORDER BY created_at DESC`, productID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Review, 0, 8)
	for rows.Next() {
		var rv domain.Review
		if err := rows.Scan(&rv.ID, &rv.ProductID, &rv.UserID, &rv.Name, &rv.Rating, &rv.Comment, &rv.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	err := row.Scan(
		&p.ID, &p.ShopID, &p.CategoryID, &p.SellerID, &p.Name, &p.Description, &p.Image, &p.Price, &p.CountInStock,
		&p.IsBestseller, &p.IsNewRelease, &p.IsSpecialOffer, &p.DiscountPercentage, &p.Approved, &p.ApprovedBy, &p.ApprovedAt,
		&p.Rating, &p.NumReviews, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
