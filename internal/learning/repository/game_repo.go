package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/GoSim-25-26J-441/go-shop-backend/internal/learning/domain"
	"github.com/GoSim-25-26J-441/go-shop-backend/internal/storage/postgres"
	"github.com/jackc/pgx/v5"
)

type GameRepository struct {
	db postgres.DBTX
}

func NewGameRepository(db postgres.DBTX) *GameRepository {
	return &GameRepository{db: db}
}

func (r *GameRepository) List(ctx context.Context) ([]domain.GameCategory, error) {
	rows, err := r.db.Query(ctx, `SELECT id, title, description, tasks FROM game_categories ORDER BY position, id`)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	defer rows.Close()

	out := []domain.GameCategory{}
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *g)
	}
	return out, rows.Err()
}

func (r *GameRepository) Get(ctx context.Context, id string) (*domain.GameCategory, error) {
	g, err := scanGame(r.db.QueryRow(ctx, `SELECT id, title, description, tasks FROM game_categories WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrGameNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get game: %w", err)
	}
	return g, nil
}

// UpdateTasks rewrites a category's tasks under a row lock.
func (r *GameRepository) UpdateTasks(ctx context.Context, id string, fn func([]domain.GameTask) ([]domain.GameTask, error)) error {
	return postgres.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		var raw []byte
		err := tx.QueryRow(ctx, `SELECT tasks FROM game_categories WHERE id = $1 FOR UPDATE`, id).Scan(&raw)
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrGameNotFound
		}
		if err != nil {
			return fmt.Errorf("lock game: %w", err)
		}

		var tasks []domain.GameTask
		if err := json.Unmarshal(raw, &tasks); err != nil {
			return fmt.Errorf("decode game tasks: %w", err)
		}
		tasks, err = fn(tasks)
		if err != nil {
			return err
		}

		body, err := json.Marshal(tasks)
		if err != nil {
			return fmt.Errorf("encode game tasks: %w", err)
		}
		if _, err := tx.Exec(ctx, `UPDATE game_categories SET tasks = $2 WHERE id = $1`, id, body); err != nil {
			return fmt.Errorf("update game tasks: %w", err)
		}
		return nil
	})
}

func (r *GameRepository) Upsert(ctx context.Context, g *domain.GameCategory, position int) error {
	tasks, err := json.Marshal(g.Tasks)
	if err != nil {
		return fmt.Errorf("encode game tasks: %w", err)
	}
	_, err = r.db.Exec(ctx, `
INSERT INTO game_categories (id, title, description, position, tasks)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (id) DO UPDATE
SET title = EXCLUDED.title, description = EXCLUDED.description, position = EXCLUDED.position, tasks = EXCLUDED.tasks`,
		g.ID, g.Title, g.Description, position, tasks)
	if err != nil {
		return fmt.Errorf("upsert game %s: %w", g.ID, err)
	}
	return nil
}

func scanGame(row pgx.Row) (*domain.GameCategory, error) {
	var (
		g   domain.GameCategory
		raw []byte
	)
	if err := row.Scan(&g.ID, &g.Title, &g.Description, &raw); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, &g.Tasks); err != nil {
		return nil, fmt.Errorf("decode game tasks: %w", err)
	}
	if g.Tasks == nil {
		g.Tasks = []domain.GameTask{}
	}
	return &g, nil
}
