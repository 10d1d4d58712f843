package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/nikolayk812/pizzeria-cart/internal/cart"
	"github.com/nikolayk812/pizzeria-cart/internal/domain"
	"github.com/nikolayk812/pizzeria-cart/internal/port"
)

type memoryCartRepository struct {
	mu    sync.Mutex
	carts map[string][]domain.CartItem
}

// NewMemoryCart keeps carts in process memory. Used when no database is configured.
func NewMemoryCart() port.CartRepository {
	return &memoryCartRepository{
		carts: make(map[string][]domain.CartItem),
	}
}

func (r *memoryCartRepository) GetCart(_ context.Context, ownerID string) (domain.Cart, error) {
	if ownerID == "" {
		return domain.Cart{}, fmt.Errorf("ownerID is empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	return domain.Cart{
		OwnerID: ownerID,
		Items:   cart.Restore(r.carts[ownerID]).Snapshot(),
	}, nil
}

func (r *memoryCartRepository) Update(ctx context.Context, ownerID string, fn func(s *cart.Store) error) (domain.Cart, error) {
	if ownerID == "" {
		return domain.Cart{}, fmt.Errorf("ownerID is empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return domain.Cart{}, err
	}

	store := cart.Restore(r.carts[ownerID])
	if err := fn(store); err != nil {
		return domain.Cart{}, err
	}

	items := store.Snapshot()
	if len(items) == 0 {
		delete(r.carts, ownerID)
	} else {
		r.carts[ownerID] = items
	}

	return domain.Cart{
		OwnerID: ownerID,
		Items:   store.Snapshot(),
	}, nil
}

func (r *memoryCartRepository) DeleteCart(_ context.Context, ownerID string) (bool, error) {
	if ownerID == "" {
		return false, fmt.Errorf("ownerID is empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.carts[ownerID]
	delete(r.carts, ownerID)
	return ok, nil
}
