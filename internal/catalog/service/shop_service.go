package service

import (
	"context"
	"fmt"
	"strings"

	authdomain "github.com/GoSim-25-26J-441/go-shop-backend/internal/auth/domain"
	"github.com/GoSim-25-26J-441/go-shop-backend/internal/catalog/domain"
	"go.uber.org/zap"
)

type ShopStore interface {
	Create(ctx context.Context, s *domain.Shop) error
	Get(ctx context.Context, id string) (*domain.Shop, error)
	ListApproved(ctx context.Context) ([]domain.Shop, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Shop, error)
	ListPending(ctx context.Context) ([]domain.Shop, error)
	Approve(ctx context.Context, id string) (*domain.Shop, error)
	Delete(ctx context.Context, id string) error
}

type ShopService struct {
	store ShopStore
	log   *zap.Logger
}

func NewShopService(store ShopStore, log *zap.Logger) *ShopService {
	return &ShopService{store: store, log: log}
}

// Create opens a shop for the caller. It stays hidden until an admin approves it.
func (s *ShopService) Create(ctx context.Context, actor authdomain.Actor, in domain.ShopInput) (*domain.Shop, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: shop name is required", domain.ErrValidation)
	}

	shop := &domain.Shop{
		OwnerID:     actor.ID,
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		Logo:        strings.TrimSpace(in.Logo),
	}
	if err := s.store.Create(ctx, shop); err != nil {
		return nil, err
	}
	s.log.Info("shop created", zap.String("shop_id", shop.ID), zap.String("owner_id", actor.ID))
	return shop, nil
}

func (s *ShopService) ListApproved(ctx context.Context) ([]domain.Shop, error) {
	return s.store.ListApproved(ctx)
}

// Mine lists the caller's shops regardless of approval.
func (s *ShopService) Mine(ctx context.Context, actor authdomain.Actor) ([]domain.Shop, error) {
	return s.store.ListByOwner(ctx, actor.ID)
}

// Get hides unapproved shops from everyone except their owner and admins.
func (s *ShopService) Get(ctx context.Context, actor *authdomain.Actor, id string) (*domain.Shop, error) {
	shop, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !shop.Approved && (actor == nil || (actor.ID != shop.OwnerID && !actor.IsAdmin())) {
		return nil, domain.ErrShopNotFound
	}
	return shop, nil
}

func (s *ShopService) Pending(ctx context.Context) ([]domain.Shop, error) {
	return s.store.ListPending(ctx)
}

func (s *ShopService) Approve(ctx context.Context, actor authdomain.Actor, id string) (*domain.Shop, error) {
	shop, err := s.store.Approve(ctx, id)
	if err != nil {
		return nil, err
	}
	s.log.Info("shop approved", zap.String("shop_id", id), zap.String("by", actor.ID))
	return shop, nil
}

// Reject removes a shop together with its products.
func (s *ShopService) Reject(ctx context.Context, actor authdomain.Actor, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("shop rejected", zap.String("shop_id", id), zap.String("by", actor.ID))
	return nil
}
