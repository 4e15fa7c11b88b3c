package service

import (
	"context"
	"errors"

	"github.com/GoSim-25-26J-441/go-shop-backend/internal/learning/domain"
)

type GameStore interface {
	List(ctx context.Context) ([]domain.GameCategory, error)
	Get(ctx context.Context, id string) (*domain.GameCategory, error)
	UpdateTasks(ctx context.Context, id string, fn func([]domain.GameTask) ([]domain.GameTask, error)) error
}

type GameService struct {
	store GameStore
}

func NewGameService(store GameStore) *GameService {
	return &GameService{store: store}
}

func (s *GameService) List(ctx context.Context) ([]domain.GameCategory, error) {
	return s.store.List(ctx)
}

func (s *GameService) Get(ctx context.Context, category string) (*domain.GameCategory, error) {
	return s.store.Get(ctx, category)
}

// Task finds a task by slug within a category.
func (s *GameService) Task(ctx context.Context, category, slug string) (*domain.GameTask, error) {
	g, err := s.store.Get(ctx, category)
	if err != nil {
		return nil, err
	}
	for i := range g.Tasks {
		if g.Tasks[i].Slug == slug {
			return &g.Tasks[i], nil
		}
	}
	return nil, domain.ErrTaskNotFound
}

// Unlock marks a task unlocked by ID. A missing category reports the task
// as missing too.
func (s *GameService) Unlock(ctx context.Context, category, taskID string) error {
	err := s.store.UpdateTasks(ctx, category, func(tasks []domain.GameTask) ([]domain.GameTask, error) {
		for i := range tasks {
			if tasks[i].ID == taskID {
				tasks[i].IsUnlocked = true
				return tasks, nil
			}
		}
		return nil, domain.ErrTaskNotFound
	})
	if errors.Is(err, domain.ErrGameNotFound) {
		return domain.ErrTaskNotFound
	}
	return err
}
