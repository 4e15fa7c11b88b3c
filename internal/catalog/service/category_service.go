package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/GoSim-25-26J-441/go-shop-backend/internal/catalog/domain"
)

type CategoryStore interface {
	List(ctx context.Context, featuredOnly bool) ([]domain.Category, error)
	Get(ctx context.Context, id string) (*domain.Category, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Category, error)
	Create(ctx context.Context, c *domain.Category) error
	Update(ctx context.Context, c *domain.Category) error
	Delete(ctx context.Context, id string) error
}

type CategoryService struct {
	store CategoryStore
}

func NewCategoryService(store CategoryStore) *CategoryService {
	return &CategoryService{store: store}
}

var nonSlug = regexp.MustCompile(`[^\p{L}\p{M}\p{N}]+`)

// Slugify lowercases s and collapses every run of characters that are not
// letters, combining marks or digits into a dash. Non-Latin scripts are kept.
func Slugify(s string) string {
	return strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

func (s *CategoryService) List(ctx context.Context) ([]domain.Category, error) {
	return s.store.List(ctx, false)
}

func (s *CategoryService) Featured(ctx context.Context) ([]domain.Category, error) {
	return s.store.List(ctx, true)
}

func (s *CategoryService) Get(ctx context.Context, id string) (*domain.Category, error) {
	return s.store.Get(ctx, id)
}

func (s *CategoryService) GetBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	return s.store.GetBySlug(ctx, slug)
}

func (s *CategoryService) Create(ctx context.Context, in domain.CategoryInput) (*domain.Category, error) {
	c := &domain.Category{Image: domain.PlaceholderImage}
	if err := applyCategory(c, in); err != nil {
		return nil, err
	}
	if c.Name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if c.Slug == "" {
		c.Slug = Slugify(c.Name)
	}
	if c.Slug == "" {
		return nil, fmt.Errorf("%w: slug cannot be derived from name", domain.ErrValidation)
	}
	if err := s.setParent(ctx, c, in.ParentCategory); err != nil {
		return nil, err
	}

	if err := s.store.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CategoryService) Update(ctx context.Context, id string, in domain.CategoryInput) (*domain.Category, error) {
	c, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyCategory(c, in); err != nil {
		return nil, err
	}
	if c.Slug == "" {
		c.Slug = Slugify(c.Name)
	}
	if err := s.setParent(ctx, c, in.ParentCategory); err != nil {
		return nil, err
	}
	if err := s.store.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// maxCategoryDepth bounds the ancestor walk in setParent.
const maxCategoryDepth = 16

// setParent applies a requested parent to c. nil leaves the parent as is and
// an empty string detaches it. The parent must exist and must not be c or
// one of c's descendants.
func (s *CategoryService) setParent(ctx context.Context, c *domain.Category, parent *string) error {
	if parent == nil {
		return nil
	}
	id := strings.TrimSpace(*parent)
	if id == "" {
		c.ParentID = nil
		return nil
	}
	if id == c.ID {
		return fmt.Errorf("%w: a category cannot be its own parent", domain.ErrValidation)
	}

	next := id
	for depth := 0; next != ""; depth++ {
		if depth >= maxCategoryDepth {
			return fmt.Errorf("%w: category tree is deeper than %d", domain.ErrValidation, maxCategoryDepth)
		}
		p, err := s.store.Get(ctx, next)
		if err != nil {
			if errors.Is(err, domain.ErrCategoryNotFound) {
				return fmt.Errorf("%w: parent category not found", domain.ErrValidation)
			}
			return err
		}
		if c.ID != "" && p.ID == c.ID {
			return fmt.Errorf("%w: parent would create a cycle", domain.ErrValidation)
		}
		next = ""
		if p.ParentID != nil {
			next = *p.ParentID
		}
	}

	c.ParentID = &id
	return nil
}

func (s *CategoryService) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

// applyCategory copies non-nil, non-empty fields of in onto c. Featured
// and description may be cleared explicitly.
func applyCategory(c *domain.Category, in domain.CategoryInput) error {
	if in.Name != nil {
		if name := strings.TrimSpace(*in.Name); name != "" {
			c.Name = name
		}
	}
	if in.Slug != nil {
		if slug := Slugify(*in.Slug); slug != "" {
			c.Slug = slug
		} else if strings.TrimSpace(*in.Slug) != "" {
			return fmt.Errorf("%w: invalid slug", domain.ErrValidation)
		}
	}
	if in.Description != nil {
		c.Description = strings.TrimSpace(*in.Description)
	}
	if in.Image != nil && strings.TrimSpace(*in.Image) != "" {
		c.Image = strings.TrimSpace(*in.Image)
	}
	if in.Featured != nil {
		c.Featured = *in.Featured
	}
	return nil
}
