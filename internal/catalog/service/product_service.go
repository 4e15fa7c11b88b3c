package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	authdomain "github.com/GoSim-25-26J-441/go-shop-backend/internal/auth/domain"
	"github.com/GoSim-25-26J-441/go-shop-backend/internal/catalog/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ProductStore interface {
	List(ctx context.Context, f domain.ProductFilter) ([]domain.Product, int, error)
	Top(ctx context.Context, limit int) ([]domain.Product, error)
	ListPending(ctx context.Context) ([]domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	Create(ctx context.Context, p *domain.Product) error
	Update(ctx context.Context, p *domain.Product) error
	Approve(ctx context.Context, id, approverID string) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
	AddReview(ctx context.Context, productID, userID string, in domain.ReviewInput) (*domain.Review, error)
	Reviews(ctx context.Context, productID string) ([]domain.Review, error)
}

// ShopLookup resolves the shop a product is listed under.
type ShopLookup interface {
	Get(ctx context.Context, id string) (*domain.Shop, error)
}

type ProductService struct {
	store ProductStore
	shops ShopLookup
	now   func() time.Time
	log   *zap.Logger
}

func NewProductService(store ProductStore, shops ShopLookup, log *zap.Logger) *ProductService {
	return &ProductService{store: store, shops: shops, now: time.Now, log: log}
}

// List pages through products. Anonymous callers and customers only see
// approved products.
func (s *ProductService) List(ctx context.Context, actor *authdomain.Actor, f domain.ProductFilter) (*domain.ProductPage, error) {
	f.IncludeUnapproved = actor != nil && actor.IsAdmin()
	if f.Page < 1 {
		f.Page = 1
	}

	products, total, err := s.store.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return &domain.ProductPage{
		Products: products,
		Page:     f.Page,
		Pages:    (total + domain.PageSize - 1) / domain.PageSize,
	}, nil
}

func (s *ProductService) Top(ctx context.Context) ([]domain.Product, error) {
	return s.store.Top(ctx, domain.TopLimit)
}

// Get returns a product; unapproved products are visible to admins only.
func (s *ProductService) Get(ctx context.Context, actor *authdomain.Actor, id string) (*domain.Product, error) {
	p, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.Approved && (actor == nil || !actor.IsAdmin()) {
		return nil, domain.ErrProductNotFound
	}
	return p, nil
}

// Create lists a new product. Products from a superAdmin are approved
// immediately; everyone else's wait in the approval queue.
func (s *ProductService) Create(ctx context.Context, actor authdomain.Actor, in domain.ProductInput) (*domain.Product, error) {
	p := &domain.Product{
		SellerID: actor.ID,
		Image:    domain.PlaceholderImage,
	}
	if err := s.apply(ctx, actor, p, in); err != nil {
		return nil, err
	}
	if p.Name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}

	if actor.Role == authdomain.RoleSuperAdmin {
		now := s.now().UTC()
		p.Approved = true
		p.ApprovedBy = &actor.ID
		p.ApprovedAt = &now
	}

	if err := s.store.Create(ctx, p); err != nil {
		return nil, err
	}
	s.log.Info("product created",
		zap.String("product_id", p.ID),
		zap.String("seller_id", actor.ID),
		zap.Bool("approved", p.Approved))
	return p, nil
}

func (s *ProductService) Update(ctx context.Context, actor authdomain.Actor, id string, in domain.ProductInput) (*domain.Product, error) {
	p, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, actor, p, in); err != nil {
		return nil, err
	}
	if err := s.store.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProductService) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

func (s *ProductService) Pending(ctx context.Context) ([]domain.Product, error) {
	return s.store.ListPending(ctx)
}

func (s *ProductService) Approve(ctx context.Context, actor authdomain.Actor, id string) (*domain.Product, error) {
	p, err := s.store.Approve(ctx, id, actor.ID)
	if err != nil {
		return nil, err
	}
	s.log.Info("product approved", zap.String("product_id", id), zap.String("by", actor.ID))
	return p, nil
}

// Reject removes a product that was not approved.
func (s *ProductService) Reject(ctx context.Context, actor authdomain.Actor, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("product rejected", zap.String("product_id", id), zap.String("by", actor.ID))
	return nil
}

func (s *ProductService) AddReview(ctx context.Context, actor authdomain.Actor, productID string, in domain.ReviewInput) (*domain.Review, error) {
	in.Comment = strings.TrimSpace(in.Comment)
	if in.Rating < 1 || in.Rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", domain.ErrValidation)
	}
	if in.Comment == "" {
		return nil, fmt.Errorf("%w: comment is required", domain.ErrValidation)
	}

	if _, err := s.Get(ctx, &actor, productID); err != nil {
		return nil, err
	}
	return s.store.AddReview(ctx, productID, actor.ID, in)
}

func (s *ProductService) Reviews(ctx context.Context, actor *authdomain.Actor, productID string) ([]domain.Review, error) {
	if _, err := s.Get(ctx, actor, productID); err != nil {
		return nil, err
	}
	return s.store.Reviews(ctx, productID)
}

// apply merges in onto p and validates the result.
func (s *ProductService) apply(ctx context.Context, actor authdomain.Actor, p *domain.Product, in domain.ProductInput) error {
	if in.Name != nil {
		if v := strings.TrimSpace(*in.Name); v != "" {
			p.Name = v
		}
	}
	if in.Description != nil {
		p.Description = strings.TrimSpace(*in.Description)
	}
	if in.Image != nil && strings.TrimSpace(*in.Image) != "" {
		p.Image = strings.TrimSpace(*in.Image)
	}
	if in.Price != nil {
		if *in.Price < 0 {
			return fmt.Errorf("%w: price cannot be negative", domain.ErrValidation)
		}
		p.Price = *in.Price
	}
	if in.CountInStock != nil {
		if *in.CountInStock < 0 {
			return fmt.Errorf("%w: countInStock cannot be negative", domain.ErrValidation)
		}
		p.CountInStock = *in.CountInStock
	}
	if in.DiscountPercentage != nil {
		if *in.DiscountPercentage < 0 || *in.DiscountPercentage > 100 {
			return fmt.Errorf("%w: discountPercentage must be between 0 and 100", domain.ErrValidation)
		}
		p.DiscountPercentage = *in.DiscountPercentage
	}
	if in.IsBestseller != nil {
		p.IsBestseller = *in.IsBestseller
	}
	if in.IsNewRelease != nil {
		p.IsNewRelease = *in.IsNewRelease
	}
	if in.IsSpecialOffer != nil {
		p.IsSpecialOffer = *in.IsSpecialOffer
	}
	if in.CategoryID != nil {
		p.CategoryID = nonEmpty(*in.CategoryID)
		if p.CategoryID != nil && uuid.Validate(*p.CategoryID) != nil {
			return fmt.Errorf("%w: invalid categoryId", domain.ErrValidation)
		}
	}
	if in.ShopID != nil {
		shopID := nonEmpty(*in.ShopID)
		if shopID != nil {
			shop, err := s.shops.Get(ctx, *shopID)
			if err != nil {
				return err
			}
			if shop.OwnerID != actor.ID && actor.Role != authdomain.RoleSuperAdmin {
				return fmt.Errorf("%w: shop belongs to another seller", domain.ErrForbidden)
			}
		}
		p.ShopID = shopID
	}
	return nil
}

func nonEmpty(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
