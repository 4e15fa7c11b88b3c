package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/GoSim-25-26J-441/go-shop-backend/internal/learning/domain"
	"go.uber.org/zap"
)

type QuizStore interface {
	List(ctx context.Context) ([]domain.Quiz, error)
	Get(ctx context.Context, id string) (*domain.Quiz, error)
	GetByCategory(ctx context.Context, category string) (*domain.Quiz, error)
	Create(ctx context.Context, q *domain.Quiz) error
	Update(ctx context.Context, q *domain.Quiz) error
	Delete(ctx context.Context, id string) error
	UpdateTasks(ctx context.Context, category string, fn func([]domain.QuizTask) ([]domain.QuizTask, error)) error
}

// QuizInput is a partial quiz update; nil fields are left unchanged.
type QuizInput struct {
	Category    *string            `json:"category"`
	Title       *string            `json:"title"`
	Description *string            `json:"description"`
	Tasks       *[]domain.QuizTask `json:"tasks"`
}

type QuizService struct {
	store QuizStore
	log   *zap.Logger
}

func NewQuizService(store QuizStore, log *zap.Logger) *QuizService {
	return &QuizService{store: store, log: log}
}

// List returns every quiz. Answers are only included for editors.
func (s *QuizService) List(ctx context.Context, withAnswers bool) ([]domain.Quiz, error) {
	quizzes, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	if !withAnswers {
		for i := range quizzes {
			quizzes[i] = quizzes[i].WithoutAnswers()
		}
	}
	return quizzes, nil
}

func (s *QuizService) Get(ctx context.Context, id string, withAnswers bool) (*domain.Quiz, error) {
	q, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !withAnswers {
		stripped := q.WithoutAnswers()
		q = &stripped
	}
	return q, nil
}

func (s *QuizService) Create(ctx context.Context, in QuizInput) (*domain.Quiz, error) {
	q := &domain.Quiz{Tasks: []domain.QuizTask{}}
	if err := applyQuiz(q, in); err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, q); err != nil {
		return nil, err
	}
	s.log.Info("quiz created", zap.String("quiz_id", q.ID), zap.String("category", q.Category))
	return q, nil
}

func (s *QuizService) Update(ctx context.Context, id string, in QuizInput) (*domain.Quiz, error) {
	q, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyQuiz(q, in); err != nil {
		return nil, err
	}
	if err := s.store.Update(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *QuizService) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

// TaskQuestions returns the questions of one task without their answers.
func (s *QuizService) TaskQuestions(ctx context.Context, category, slug string) ([]domain.Question, error) {
	q, err := s.store.GetByCategory(ctx, category)
	if err != nil {
		return nil, err
	}
	i := q.TaskBySlug(slug)
	if i < 0 {
		return nil, domain.ErrTaskNotFound
	}
	return domain.StripAnswers(q.Tasks[i].Questions), nil
}

func (s *QuizService) Verify(ctx context.Context, req domain.VerifyRequest) (*domain.VerifyResult, error) {
	q, err := s.store.GetByCategory(ctx, req.Category)
	if err != nil {
		return nil, err
	}
	i := q.TaskBySlug(req.TaskSlug)
	if i < 0 {
		return nil, domain.ErrTaskNotFound
	}

	questions := q.Tasks[i].Questions
	if req.QuestionIndex == nil || *req.QuestionIndex < 0 || *req.QuestionIndex >= len(questions) {
		return nil, domain.ErrQuestionNotFound
	}
	question := questions[*req.QuestionIndex]
	return &domain.VerifyResult{
		IsCorrect:   question.CorrectAnswer == req.Answer,
		Explanation: question.Explanation,
	}, nil
}

// UnlockNext unlocks the task after slug.
func (s *QuizService) UnlockNext(ctx context.Context, category, slug string) error {
	err := s.store.UpdateTasks(ctx, category, func(tasks []domain.QuizTask) ([]domain.QuizTask, error) {
		i := -1
		for j, t := range tasks {
			if t.Slug == slug {
				i = j
				break
			}
		}
		if i < 0 || i == len(tasks)-1 {
			return nil, domain.ErrNoNextTask
		}
		tasks[i+1].IsUnlocked = true
		return tasks, nil
	})
	if err != nil {
		return err
	}
	s.log.Info("quiz task unlocked", zap.String("category", category), zap.String("after", slug))
	return nil
}

func applyQuiz(q *domain.Quiz, in QuizInput) error {
	if in.Category != nil {
		q.Category = strings.TrimSpace(*in.Category)
	}
	if in.Title != nil {
		q.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		q.Description = strings.TrimSpace(*in.Description)
	}
	if in.Tasks != nil {
		q.Tasks = *in.Tasks
	}

	if q.Category == "" || q.Title == "" {
		return fmt.Errorf("%w: category and title are required", domain.ErrValidation)
	}
	seen := make(map[string]bool, len(q.Tasks))
	for _, t := range q.Tasks {
		if t.Slug == "" {
			return fmt.Errorf("%w: every task needs a slug", domain.ErrValidation)
		}
		if seen[t.Slug] {
			return fmt.Errorf("%w: duplicate task slug %q", domain.ErrValidation, t.Slug)
		}
		seen[t.Slug] = true
	}
	return nil
}
