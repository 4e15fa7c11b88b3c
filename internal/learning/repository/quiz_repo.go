package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/GoSim-25-26J-441/go-shop-backend/internal/learning/domain"
	"github.com/GoSim-25-26J-441/go-shop-backend/internal/storage/postgres"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const quizCategoryKey = "quizzes_category_key"

type QuizRepository struct {
	db postgres.DBTX
}

func NewQuizRepository(db postgres.DBTX) *QuizRepository {
	return &QuizRepository{db: db}
}

func (r *QuizRepository) List(ctx context.Context) ([]domain.Quiz, error) {
	rows, err := r.db.Query(ctx, `SELECT id, category, title, description, tasks FROM quizzes ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	defer rows.Close()

	out := []domain.Quiz{}
	for rows.Next() {
		q, err := scanQuiz(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *q)
	}
	return out, rows.Err()
}

func (r *QuizRepository) Get(ctx context.Context, id string) (*domain.Quiz, error) {
	if uuid.Validate(id) != nil {
		return nil, domain.ErrQuizNotFound
	}
	return r.getOne(ctx, `SELECT id, category, title, description, tasks FROM quizzes WHERE id = $1`, id)
}

func (r *QuizRepository) GetByCategory(ctx context.Context, category string) (*domain.Quiz, error) {
	return r.getOne(ctx, `SELECT id, category, title, description, tasks FROM quizzes WHERE category = $1`, category)
}

func (r *QuizRepository) getOne(ctx context.Context, sql string, arg string) (*domain.Quiz, error) {
	q, err := scanQuiz(r.db.QueryRow(ctx, sql, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrQuizNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get quiz: %w", err)
	}
	return q, nil
}

func (r *QuizRepository) Create(ctx context.Context, q *domain.Quiz) error {
	tasks, err := json.Marshal(q.Tasks)
	if err != nil {
		return fmt.Errorf("encode quiz tasks: %w", err)
	}

	q.ID = uuid.NewString()
	_, err = r.db.Exec(ctx, `
INSERT INTO quizzes (id, category, title, description, tasks)
VALUES ($1, $2, $3, $4, $5)`, q.ID, q.Category, q.Title, q.Description, tasks)
	if postgres.IsUniqueViolation(err, quizCategoryKey) {
		return domain.ErrQuizCategoryTaken
	}
	if err != nil {
		return fmt.Errorf("create quiz: %w", err)
	}
	return nil
}

func (r *QuizRepository) Update(ctx context.Context, q *domain.Quiz) error {
	if uuid.Validate(q.ID) != nil {
		return domain.ErrQuizNotFound
	}
	tasks, err := json.Marshal(q.Tasks)
	if err != nil {
		return fmt.Errorf("encode quiz tasks: %w", err)
	}

	tag, err := r.db.Exec(ctx, `
UPDATE quizzes
SET category = $2, title = $3, description = $4, tasks = $5, updated_at = now()
WHERE id = $1`, q.ID, q.Category, q.Title, q.Description, tasks)
	if postgres.IsUniqueViolation(err, quizCategoryKey) {
		return domain.ErrQuizCategoryTaken
	}
	if err != nil {
		return fmt.Errorf("update quiz: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrQuizNotFound
	}
	return nil
}

func (r *QuizRepository) Delete(ctx context.Context, id string) error {
	if uuid.Validate(id) != nil {
		return domain.ErrQuizNotFound
	}
	tag, err := r.db.Exec(ctx, `DELETE FROM quizzes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete quiz: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrQuizNotFound
	}
	return nil
}

// UpdateTasks rewrites the task list of the quiz in category under a row
// lock. fn receives the current tasks and returns the replacement.
func (r *QuizRepository) UpdateTasks(ctx context.Context, category string, fn func([]domain.QuizTask) ([]domain.QuizTask, error)) error {
	return postgres.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		var (
			id  string
			raw []byte
		)
		err := tx.QueryRow(ctx, `SELECT id, tasks FROM quizzes WHERE category = $1 FOR UPDATE`, category).Scan(&id, &raw)
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrQuizNotFound
		}
		if err != nil {
			return fmt.Errorf("lock quiz: %w", err)
		}

		var tasks []domain.QuizTask
		if err := json.Unmarshal(raw, &tasks); err != nil {
			return fmt.Errorf("decode quiz tasks: %w", err)
		}
		tasks, err = fn(tasks)
		if err != nil {
			return err
		}

		body, err := json.Marshal(tasks)
		if err != nil {
			return fmt.Errorf("encode quiz tasks: %w", err)
		}
		if _, err := tx.Exec(ctx, `UPDATE quizzes SET tasks = $2, updated_at = now() WHERE id = $1`, id, body); err != nil {
			return fmt.Errorf("update quiz tasks: %w", err)
		}
		return nil
	})
}

// Upsert creates or replaces the quiz for q.Category.
func (r *QuizRepository) Upsert(ctx context.Context, q *domain.Quiz) error {
	tasks, err := json.Marshal(q.Tasks)
	if err != nil {
		return fmt.Errorf("encode quiz tasks: %w", err)
	}

	err = r.db.QueryRow(ctx, `
INSERT INTO quizzes (id, category, title, description, tasks)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (category) DO UPDATE
SET title = EXCLUDED.title, description = EXCLUDED.description, tasks = EXCLUDED.tasks, updated_at = now()
RETURNING id`, uuid.NewString(), q.Category, q.Title, q.Description, tasks).Scan(&q.ID)
	if err != nil {
		return fmt.Errorf("upsert quiz %s: %w", q.Category, err)
	}
	return nil
}

func scanQuiz(row pgx.Row) (*domain.Quiz, error) {
	var (
		q   domain.Quiz
		raw []byte
	)
	if err := row.Scan(&q.ID, &q.Category, &q.Title, &q.Description, &raw); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, &q.Tasks); err != nil {
		return nil, fmt.Errorf("decode quiz tasks: %w", err)
	}
	if q.Tasks == nil {
		q.Tasks = []domain.QuizTask{}
	}
	return &q, nil
}
