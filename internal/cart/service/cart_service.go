package service

import (
	"context"
	"errors"
	"sort"

	"github.com/GoSim-25-26J-441/go-shop-backend/internal/cart/domain"
	catalogdomain "github.com/GoSim-25-26J-441/go-shop-backend/internal/catalog/domain"
	"go.uber.org/zap"
)

type CartStore interface {
	Add(ctx context.Context, userID, productID string, qty int) (int, error)
	Set(ctx context.Context, userID, productID string, qty int) error
	Remove(ctx context.Context, userID, productID string) error
	Items(ctx context.Context, userID string) (map[string]int, error)
	Clear(ctx context.Context, userID string) error
}

// ProductLookup reads products from the catalog.
type ProductLookup interface {
	Get(ctx context.Context, id string) (*catalogdomain.Product, error)
}

type CartService struct {
	store    CartStore
	products ProductLookup
	log      *zap.Logger
}

func NewCartService(store CartStore, products ProductLookup, log *zap.Logger) *CartService {
	return &CartService{store: store, products: products, log: log}
}

// Get returns the cart priced at current product prices. Lines whose
// product was deleted or unapproved are dropped from the stored cart.
func (s *CartService) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	lines, err := s.store.Items(ctx, userID)
	if err != nil {
		return nil, err
	}

	cart := &domain.Cart{Items: make([]domain.Item, 0, len(lines))}
	for productID, qty := range lines {
		p, err := s.buyable(ctx, productID)
		if errors.Is(err, domain.ErrProductNotFound) {
			if err := s.store.Remove(ctx, userID, productID); err != nil {
				s.log.Warn("drop stale cart line", zap.String("product_id", productID), zap.Error(err))
			}
			continue
		}
		if err != nil {
			return nil, err
		}

		item := domain.Item{
			ProductID:    p.ID,
			Name:         p.Name,
			Image:        p.Image,
			Price:        p.Price,
			CountInStock: p.CountInStock,
			Quantity:     qty,
			Subtotal:     p.Price * float64(qty),
		}
		cart.Items = append(cart.Items, item)
		cart.Total += item.Subtotal
		cart.ItemCount += qty
	}

	sort.Slice(cart.Items, func(i, j int) bool { return cart.Items[i].Name < cart.Items[j].Name })
	return cart, nil
}

// Add puts qty units of a product in the cart; qty defaults to one.
func (s *CartService) Add(ctx context.Context, userID, productID string, qty int) (*domain.Cart, error) {
	if qty == 0 {
		qty = 1
	}
	if qty < 0 {
		return nil, domain.ErrInvalidQuantity
	}
	if _, err := s.buyable(ctx, productID); err != nil {
		return nil, err
	}
	if _, err := s.store.Add(ctx, userID, productID, qty); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID)
}

// Set replaces a line's quantity; zero or less removes the line.
func (s *CartService) Set(ctx context.Context, userID, productID string, qty int) (*domain.Cart, error) {
	if qty > 0 {
		if _, err := s.buyable(ctx, productID); err != nil {
			return nil, err
		}
	}
	if err := s.store.Set(ctx, userID, productID, qty); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID)
}

func (s *CartService) Remove(ctx context.Context, userID, productID string) (*domain.Cart, error) {
	if err := s.store.Remove(ctx, userID, productID); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID)
}

func (s *CartService) Clear(ctx context.Context, userID string) error {
	return s.store.Clear(ctx, userID)
}

func (s *CartService) buyable(ctx context.Context, productID string) (*catalogdomain.Product, error) {
	p, err := s.products.Get(ctx, productID)
	if errors.Is(err, catalogdomain.ErrProductNotFound) {
		return nil, domain.ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	if !p.Approved {
		return nil, domain.ErrProductNotFound
	}
	return p, nil
}
