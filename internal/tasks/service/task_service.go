package service

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/GoSim-25-26J-441/go-shop-backend/internal/tasks/domain"
	"go.uber.org/zap"
)

type TaskStore interface {
	List(ctx context.Context) ([]domain.Task, error)
	Get(ctx context.Context, id string) (*domain.Task, error)
	Create(ctx context.Context, t domain.Task) (*domain.Task, error)
	Update(ctx context.Context, id string, fn func(*domain.Task) error) (*domain.Task, error)
	Delete(ctx context.Context, id string) error
}

type TaskService struct {
	store TaskStore
	now   func() time.Time
	log   *zap.Logger
}

func NewTaskService(store TaskStore, log *zap.Logger) *TaskService {
	return &TaskService{store: store, now: time.Now, log: log}
}

// List returns tasks matching q. Without a sort the file order is kept.
func (s *TaskService) List(ctx context.Context, q domain.ListQuery) ([]domain.Task, error) {
	if q.Priority != "" && !domain.ValidPriority(q.Priority) {
		return nil, domain.ErrInvalidPriority
	}

	tasks, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(q.Q))
	out := tasks[:0]
	for _, t := range tasks {
		if q.Priority != "" && t.Priority != q.Priority {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(t.Title), needle) &&
			!strings.Contains(strings.ToLower(t.Description), needle) {
			continue
		}
		out = append(out, t)
	}

	switch q.Sort {
	case "":
	case "date-asc":
		sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	case "date-desc":
		sort.SliceStable(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	case "priority":
		sort.SliceStable(out, func(i, j int) bool {
			return domain.PriorityRank(out[i].Priority) < domain.PriorityRank(out[j].Priority)
		})
	default:
		return nil, domain.ErrInvalidSort
	}

	return out, nil
}

func (s *TaskService) Get(ctx context.Context, id string) (*domain.Task, error) {
	return s.store.Get(ctx, id)
}

func (s *TaskService) Create(ctx context.Context, req domain.CreateTaskRequest) (*domain.Task, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, domain.ErrTitleRequired
	}

	now := s.now()
	t := domain.Task{
		ID:          strconv.FormatInt(now.UnixMilli(), 10),
		Title:       title,
		Description: req.Description,
		Priority:    req.Priority,
		Date:        req.Date,
		CreatedAt:   now.UTC(),
	}
	if t.Priority == "" {
		t.Priority = domain.PriorityMedium
	}
	if !domain.ValidPriority(t.Priority) {
		return nil, domain.ErrInvalidPriority
	}
	if t.Date == "" {
		t.Date = now.Format(domain.DateLayout)
	}
	if !domain.ValidDate(t.Date) {
		return nil, domain.ErrInvalidDate
	}

	created, err := s.store.Create(ctx, t)
	if err != nil {
		return nil, err
	}
	s.log.Debug("task created", zap.String("task_id", created.ID))
	return created, nil
}

func (s *TaskService) Update(ctx context.Context, id string, req domain.UpdateTaskRequest) (*domain.Task, error) {
	if req.Priority != nil && *req.Priority != "" && !domain.ValidPriority(*req.Priority) {
		return nil, domain.ErrInvalidPriority
	}
	if req.Date != nil && *req.Date != "" && !domain.ValidDate(*req.Date) {
		return nil, domain.ErrInvalidDate
	}

	return s.store.Update(ctx, id, func(t *domain.Task) error {
		if req.Title != nil {
			if title := strings.TrimSpace(*req.Title); title != "" {
				t.Title = title
			}
		}
		if req.Description != nil {
			t.Description = *req.Description
		}
		if req.Priority != nil && *req.Priority != "" {
			t.Priority = *req.Priority
		}
		if req.Date != nil && *req.Date != "" {
			t.Date = *req.Date
		}
		now := s.now().UTC()
		t.UpdatedAt = &now
		return nil
	})
}

func (s *TaskService) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}
