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

const shopColumns = `id, owner_id, name, description, logo, approved, created_at, updated_at`

type ShopRepository struct {
	db postgres.DBTX
}

func NewShopRepository(db postgres.DBTX) *ShopRepository {
	return &ShopRepository{db: db}
}

func (r *ShopRepository) Create(ctx context.Context, s *domain.Shop) error {
	s.ID = uuid.NewString()

	const q = `
INSERT INTO shops (id, owner_id, name, description, logo, approved)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING created_at, updated_at;
`
	if err := r.db.QueryRow(ctx, q, s.ID, s.OwnerID, s.Name, s.Description, s.Logo, s.Approved).
		Scan(&s.CreatedAt, &s.UpdatedAt); err != nil {
		return fmt.Errorf("insert shop: %w", err)
	}
	return nil
}

func (r *ShopRepository) Get(ctx context.Context, id string) (*domain.Shop, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrShopNotFound
	}
	s, err := scanShop(r.db.QueryRow(ctx, `SELECT `+shopColumns+` FROM shops WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrShopNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get shop: %w", err)
	}
	return s, nil
}

func (r *ShopRepository) ListApproved(ctx context.Context) ([]domain.Shop, error) {
	return r.list(ctx, `SELECT `+shopColumns+` FROM shops WHERE approved ORDER BY name`)
}

func (r *ShopRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Shop, error) {
	if _, err := uuid.Parse(ownerID); err != nil {
		return []domain.Shop{}, nil
	}
	return r.list(ctx, `SELECT `+shopColumns+` FROM shops WHERE owner_id = $1 ORDER BY created_at DESC`, ownerID)
}

func (r *ShopRepository) ListPending(ctx context.Context) ([]domain.Shop, error) {
	return r.list(ctx, `SELECT `+shopColumns+` FROM shops WHERE NOT approved ORDER BY created_at`)
}

func (r *ShopRepository) list(ctx context.Context, q string, args ...any) ([]domain.Shop, error) {
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list shops: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Shop, 0, 8)
	for rows.Next() {
		s, err := scanShop(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

func (r *ShopRepository) Approve(ctx context.Context, id string) (*domain.Shop, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrShopNotFound
	}
	s, err := scanShop(r.db.QueryRow(ctx,
		`UPDATE shops SET approved = true, updated_at = now() WHERE id = $1 RETURNING `+shopColumns, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrShopNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("approve shop: %w", err)
	}
	return s, nil
}

func (r *ShopRepository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return domain.ErrShopNotFound
	}
	tag, err := r.db.Exec(ctx, `DELETE FROM shops WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete shop: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrShopNotFound
	}
	return nil
}

func scanShop(row pgx.Row) (*domain.Shop, error) {
	var s domain.Shop
	if err := row.Scan(&s.ID, &s.OwnerID, &s.Name, &s.Description, &s.Logo, &s.Approved, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}
