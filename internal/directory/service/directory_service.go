package service

import (
	"context"
	"strings"

	"github.com/GoSim-25-26J-441/go-shop-backend/internal/directory/domain"
)

type MemberStore interface {
	List(ctx context.Context) ([]domain.Member, error)
	Get(ctx context.Context, id string) (*domain.Member, error)
	Create(ctx context.Context, in domain.MemberInput) (*domain.Member, error)
	Update(ctx context.Context, id string, in domain.MemberInput) (*domain.Member, error)
	EmailTaken(ctx context.Context, email, exceptID string) (bool, error)
	Delete(ctx context.Context, id string) error
}

type DirectoryService struct {
	store MemberStore
}

func NewDirectoryService(store MemberStore) *DirectoryService {
	return &DirectoryService{store: store}
}

func (s *DirectoryService) List(ctx context.Context) ([]domain.Member, error) {
	return s.store.List(ctx)
}

func (s *DirectoryService) Get(ctx context.Context, id string) (*domain.Member, error) {
	return s.store.Get(ctx, id)
}

func (s *DirectoryService) Create(ctx context.Context, in domain.MemberInput) (*domain.Member, error) {
	in, err := s.normalize(ctx, in, "")
	if err != nil {
		return nil, err
	}
	return s.store.Create(ctx, in)
}

func (s *DirectoryService) Update(ctx context.Context, id string, in domain.MemberInput) (*domain.Member, error) {
	in, err := s.normalize(ctx, in, id)
	if err != nil {
		return nil, err
	}
	return s.store.Update(ctx, id, in)
}

func (s *DirectoryService) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

// normalize trims every field and enforces the required/unique rules.
// The unique index still backs the email check against concurrent writers.
func (s *DirectoryService) normalize(ctx context.Context, in domain.MemberInput, exceptID string) (domain.MemberInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Role = strings.TrimSpace(in.Role)
	in.Notes = strings.TrimSpace(in.Notes)

	if in.Name == "" || in.Email == "" {
		return in, domain.ErrNameEmail
	}

	taken, err := s.store.EmailTaken(ctx, in.Email, exceptID)
	if err != nil {
		return in, err
	}
	if taken {
		return in, domain.ErrEmailExists
	}
	return in, nil
}
