// Package cart owns the line items of a single shopping session.
//
// A Store is single-owner: it performs no locking. Callers that share a
// store across goroutines serialize access themselves (see port.CartRepository).
package cart

import (
	"slices"
	"time"

	"github.com/nikolayk812/pizzeria-cart/internal/domain"
)

type Store struct {
	items []domain.CartItem
	now   func() time.Time
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

func New(opts ...Option) *Store {
	s := &Store{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Restore rebuilds a store from a previously taken snapshot. Lines sharing a
// signature are merged into the first one, and lines without a positive
// quantity are dropped.
func Restore(items []domain.CartItem, opts ...Option) *Store {
	s := New(opts...)
	for _, item := range items {
		if item.Quantity < 1 {
			continue
		}
		if i := s.find(item.Signature()); i >= 0 {
			s.items[i].Quantity += item.Quantity
			continue
		}
		s.items = append(s.items, cloneItem(item))
	}
	return s
}

// AddItem appends a new line with quantity 1, or bumps the quantity of the
// line with the same signature. The first-seen unit price of a line is kept.
func (s *Store) AddItem(item domain.CartItem) {
	sig := item.Signature()
	if i := s.find(sig); i >= 0 {
		s.items[i].Quantity++
		return
	}

	s.items = append(s.items, domain.CartItem{
		Name:      item.Name,
		UnitPrice: item.UnitPrice,
		Extras:    domain.NormalizeExtras(item.Extras),
		Quantity:  1,
		CreatedAt: s.now(),
	})
}

// IncreaseQuantity is a no-op when the line is absent.
func (s *Store) IncreaseQuantity(item domain.CartItem) {
	if i := s.find(item.Signature()); i >= 0 {
		s.items[i].Quantity++
	}
}

// DecreaseQuantity removes the line instead of letting its quantity reach zero.
// It is a no-op when the line is absent.
func (s *Store) DecreaseQuantity(item domain.CartItem) {
	i := s.find(item.Signature())
	if i < 0 {
		return
	}

	if s.items[i].Quantity > 1 {
		s.items[i].Quantity--
		return
	}
	s.items = slices.Delete(s.items, i, i+1)
}

// RemoveItem deletes the line regardless of its quantity. It is a no-op when
// the line is absent.
func (s *Store) RemoveItem(item domain.CartItem) {
	if i := s.find(item.Signature()); i >= 0 {
		s.items = slices.Delete(s.items, i, i+1)
	}
}

func (s *Store) ClearCart() {
	s.items = nil
}

// Snapshot returns a deep copy of the line items in insertion order.
func (s *Store) Snapshot() []domain.CartItem {
	out := make([]domain.CartItem, len(s.items))
	for i, item := range s.items {
		out[i] = cloneItem(item)
	}
	return out
}

// ItemCount is the sum of quantities, shown on the cart badge.
func (s *Store) ItemCount() int {
	var n int
	for _, item := range s.items {
		n += item.Quantity
	}
	return n
}

func (s *Store) Len() int {
	return len(s.items)
}

func (s *Store) IsEmpty() bool {
	return len(s.items) == 0
}

func (s *Store) find(sig domain.Signature) int {
	return slices.IndexFunc(s.items, func(item domain.CartItem) bool {
		return item.Signature().Equal(sig)
	})
}

func cloneItem(item domain.CartItem) domain.CartItem {
	item.Extras = domain.NormalizeExtras(item.Extras)
	return item
}
