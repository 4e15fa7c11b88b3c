package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/GoSim-25-26J-441/go-shop-backend/internal/auth/domain"
	"github.com/GoSim-25-26J-441/go-shop-backend/internal/storage/postgres"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const userColumns = `id, name, email, password_hash, role, phone, address, created_at, updated_at`

type UserRepository struct {
	db postgres.DBTX
}

func NewUserRepository(db postgres.DBTX) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a user, assigning an ID when missing.
func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}

	const q = `
INSERT INTO users (id, name, email, password_hash, role, phone, address)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING created_at, updated_at;
`
	err := r.db.QueryRow(ctx, q, u.ID, u.Name, u.Email, u.PasswordHash, u.Role, u.Phone, u.Address).
		Scan(&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if postgres.IsUniqueViolation(err, "users_email_key") {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrUserNotFound
	}
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// GetByEmail retrieves a user by email (case-insensitive)
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email)
}

func (r *UserRepository) getOne(ctx context.Context, q string, arg string) (*domain.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, q, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// Update writes every mutable column of u.
func (r *UserRepository) Update(ctx context.Context, u *domain.User) error {
	const q = `
UPDATE users
SET name = $2, email = $3, password_hash = $4, role = $5, phone = $6, address = $7, updated_at = now()
WHERE id = $1
RETURNING updated_at;
`
	err := r.db.QueryRow(ctx, q, u.ID, u.Name, u.Email, u.PasswordHash, u.Role, u.Phone, u.Address).
		Scan(&u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrUserNotFound
	}
	if err != nil {
		if postgres.IsUniqueViolation(err, "users_email_key") {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

// List returns users matching f, newest first.
func (r *UserRepository) List(ctx context.Context, f domain.ListFilter) ([]domain.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE 1=1`
	args := []any{}

	if len(f.Roles) > 0 {
		args = append(args, f.Roles)
		q += fmt.Sprintf(" AND role = ANY($%d)", len(args))
	}
	if f.ExcludeID != "" {
		args = append(args, f.ExcludeID)
		q += fmt.Sprintf(" AND id <> $%d", len(args))
	}
	q += " ORDER BY created_at DESC"

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	out := make([]domain.User, 0, 16)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes a user.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return domain.ErrUserNotFound
	}

	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if postgres.IsForeignKeyViolation(err) {
		return domain.ErrUserInUse
	}
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var (
		u         domain.User
		createdAt time.Time
		updatedAt time.Time
	)
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.Phone, &u.Address, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	u.CreatedAt = createdAt
	u.UpdatedAt = updatedAt
	return &u, nil
}
