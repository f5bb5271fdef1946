package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/Juli03-22/lookaly-fullstack/models"
)

// CartStore is the durable per-owner slot for cart lines.
type CartStore interface {
	Get(ctx context.Context, owner string) (*models.Cart, error)
	Save(ctx context.Context, cart *models.Cart) error
	Delete(ctx context.Context, owner string) error
}

// GuestOwner returns the cart bucket for an anonymous session. Guest carts
// are never merged into a user cart on login; each identity loads its own
// persisted slot.
func GuestOwner(sid string) string {
	return "guest:" + sid
}

// CartService manages cart lines for the active identity (or guest). Lines
// are keyed by (product, site): the same product at two retailers is two
// distinct lines. Every mutation persists the whole line list before
// returning.
type CartService struct {
	repo CartStore
	log  *zap.Logger
}

func NewCartService(repo CartStore, log *zap.Logger) *CartService {
	return &CartService{repo: repo, log: log}
}

// Get loads the owner's cart. Corrupt storage resets to an empty cart.
func (s *CartService) Get(ctx context.Context, owner string) (*models.Cart, error) {
	return s.repo.Get(ctx, owner)
}

// AddLine increments the (productID, site) line by qty, appending a new
// line if none exists. It never rejects and enforces no upper bound.
func (s *CartService) AddLine(ctx context.Context, owner, productID, site string, qty int) (*models.Cart, error) {
	if qty < 1 {
		qty = 1
	}

	cart, err := s.repo.Get(ctx, owner)
	if err != nil {
		return nil, err
	}

	found := false
	for i, line := range cart.Lines {
		if line.ProductID == productID && line.SelectedSite == site {
			cart.Lines[i].Quantity += qty
			found = true
			break
		}
	}
	if !found {
		cart.Lines = append(cart.Lines, models.CartLine{
			ProductID:    productID,
			Quantity:     qty,
			SelectedSite: site,
		})
	}

	if err := s.repo.Save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// RemoveLine removes every line for the product, regardless of retailer.
// This is deliberately coarser than AddLine's (product, site) key: the
// storefront only exposes per-product removal.
func (s *CartService) RemoveLine(ctx context.Context, owner, productID string) (*models.Cart, error) {
	cart, err := s.repo.Get(ctx, owner)
	if err != nil {
		return nil, err
	}

	kept := cart.Lines[:0]
	for _, line := range cart.Lines {
		if line.ProductID != productID {
			kept = append(kept, line)
		}
	}
	cart.Lines = kept

	if err := s.repo.Save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// AdjustQuantity adds delta to every line of the product, clamping each to
// a floor of 1. Decrementing below 1 is a no-op floor, never zero or
// negative.
func (s *CartService) AdjustQuantity(ctx context.Context, owner, productID string, delta int) (*models.Cart, error) {
	cart, err := s.repo.Get(ctx, owner)
	if err != nil {
		return nil, err
	}

	for i, line := range cart.Lines {
		if line.ProductID != productID {
			continue
		}
		q := line.Quantity + delta
		if q < 1 {
			q = 1
		}
		cart.Lines[i].Quantity = q
	}

	if err := s.repo.Save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// Clear empties the cart for the owner.
func (s *CartService) Clear(ctx context.Context, owner string) error {
	return s.repo.Delete(ctx, owner)
}

// Count is the sum of all line quantities, recomputed on every call.
func (s *CartService) Count(ctx context.Context, owner string) (int, error) {
	cart, err := s.repo.Get(ctx, owner)
	if err != nil {
		return 0, err
	}
	return cart.Count(), nil
}
