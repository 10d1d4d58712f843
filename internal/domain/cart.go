package domain

import (
	"slices"
	"time"
)

type Cart struct {
	OwnerID string
	Items   []CartItem
}

// ItemCount is the sum of quantities across line items.
func (c Cart) ItemCount() int {
	var n int
	for _, item := range c.Items {
		n += item.Quantity
	}
	return n
}

// CartItem is one line item. UnitPrice already includes the surcharges of
// the selected extras and is fixed when the line is first added.
type CartItem struct {
	Name      string
	UnitPrice Money
	Extras    []string
	Quantity  int

	CreatedAt time.Time
}

// Signature identifies a line item: two additions with equal signatures
// land on the same line.
type Signature struct {
	Name   string
	Extras []string
}

func NewSignature(name string, extras []string) Signature {
	return Signature{
		Name:   name,
		Extras: NormalizeExtras(extras),
	}
}

// Equal compares the normalized extras element by element, so no extra ID
// can collide with a combination of others.
func (s Signature) Equal(other Signature) bool {
	return s.Name == other.Name && slices.Equal(s.Extras, other.Extras)
}

func (i CartItem) Signature() Signature {
	return NewSignature(i.Name, i.Extras)
}

// NormalizeExtras returns the extras as a sorted set, or nil when empty.
func NormalizeExtras(extras []string) []string {
	if len(extras) == 0 {
		return nil
	}

	normalized := slices.Clone(extras)
	slices.Sort(normalized)
	return slices.Compact(normalized)
}
