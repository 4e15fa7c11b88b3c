package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/GoSim-25-26J-441/go-shop-backend/internal/directory/domain"
	"github.com/GoSim-25-26J-441/go-shop-backend/internal/storage/postgres"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const memberColumns = `id, name, email, phone, role, notes, created_at, updated_at`

// MemberRepository provides persistence operations for directory members
type MemberRepository struct {
	db postgres.DBTX
}

func NewMemberRepository(db postgres.DBTX) *MemberRepository {
	return &MemberRepository{db: db}
}

func (r *MemberRepository) List(ctx context.Context) ([]domain.Member, error) {
	rows, err := r.db.Query(ctx, `SELECT `+memberColumns+` FROM members ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Member, 0, 16)
	for rows.Next() {
		var m domain.Member
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Phone, &m.Role, &m.Notes, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *MemberRepository) Get(ctx context.Context, id string) (*domain.Member, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrMemberNotFound
	}

	var m domain.Member
	err := r.db.QueryRow(ctx, `SELECT `+memberColumns+` FROM members WHERE id = $1`, id).
		Scan(&m.ID, &m.Name, &m.Email, &m.Phone, &m.Role, &m.Notes, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrMemberNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get member: %w", err)
	}
	return &m, nil
}

func (r *MemberRepository) Create(ctx context.Context, in domain.MemberInput) (*domain.Member, error) {
	const q = `
INSERT INTO members (id, name, email, phone, role, notes)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING ` + memberColumns

	var m domain.Member
	err := r.db.QueryRow(ctx, q, uuid.NewString(), in.Name, in.Email, in.Phone, in.Role, in.Notes).
		Scan(&m.ID, &m.Name, &m.Email, &m.Phone, &m.Role, &m.Notes, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if postgres.IsUniqueViolation(err, "members_email_key") {
			return nil, domain.ErrEmailExists
		}
		return nil, fmt.Errorf("insert member: %w", err)
	}
	return &m, nil
}

func (r *MemberRepository) Update(ctx context.Context, id string, in domain.MemberInput) (*domain.Member, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrMemberNotFound
	}

	const q = `
UPDATE members
SET name = $2, email = $3, phone = $4, role = $5, notes = $6, updated_at = now()
WHERE id = $1
RETURNING ` + memberColumns

	var m domain.Member
	err := r.db.QueryRow(ctx, q, id, in.Name, in.Email, in.Phone, in.Role, in.Notes).
		Scan(&m.ID, &m.Name, &m.Email, &m.Phone, &m.Role, &m.Notes, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrMemberNotFound
	}
	if err != nil {
		if postgres.IsUniqueViolation(err, "members_email_key") {
			return nil, domain.ErrEmailExists
		}
		return nil, fmt.Errorf("update member: %w", err)
	}
	return &m, nil
}

// EmailTaken reports whether email belongs to a member other than exceptID.
func (r *MemberRepository) EmailTaken(ctx context.Context, email, exceptID string) (bool, error) {
	q := `SELECT EXISTS (SELECT 1 FROM members WHERE lower(email) = lower($1))`
	args := []any{email}
	if exceptID != "" {
		if _, err := uuid.Parse(exceptID); err == nil {
			q = `SELECT EXISTS (SELECT 1 FROM members WHERE lower(email) = lower($1) AND id <> $2)`
			args = append(args, exceptID)
		}
	}

	var taken bool
	if err := r.db.QueryRow(ctx, q, args...).Scan(&taken); err != nil {
		return false, fmt.Errorf("check email: %w", err)
	}
	return taken, nil
}

func (r *MemberRepository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return domain.ErrMemberNotFound
	}

	tag, err := r.db.Exec(ctx, `DELETE FROM members WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete member: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrMemberNotFound
	}
	return nil
}
