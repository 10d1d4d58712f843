package port

import (
	"context"

	"github.com/nikolayk812/pizzeria-cart/internal/cart"
	"github.com/nikolayk812/pizzeria-cart/internal/domain"
)

// CartRepository keeps one cart per owner on the server side.
//
// Update loads the owner's cart into a cart.Store, applies fn and saves the
// result as one atomic step; concurrent updates of the same owner are
// serialized. When fn returns an error nothing is saved.
type CartRepository interface {
	GetCart(ctx context.Context, ownerID string) (domain.Cart, error)
	Update(ctx context.Context, ownerID string, fn func(s *cart.Store) error) (domain.Cart, error)
	DeleteCart(ctx context.Context, ownerID string) (bool, error)
}
