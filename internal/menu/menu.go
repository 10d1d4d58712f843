// Package menu reads the catalog snapshot: a JSON object mapping a category
// name to the items sold under it.
package menu

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/nikolayk812/pizzeria-cart/internal/domain"
	"github.com/shopspring/decimal"
)

// AllCategories selects every item of every category.
const AllCategories = "All Categories"

type Menu struct {
	categories map[string][]domain.CatalogItem
	names      []string
}

// Empty is the menu before any snapshot was loaded: nothing can be added.
func Empty() *Menu {
	return &Menu{categories: map[string][]domain.CatalogItem{}}
}

func Decode(r io.Reader) (*Menu, error) {
	var raw map[string][]domain.CatalogItem
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("json.Decode: %w", err)
	}

	m := Empty()
	for category, items := range raw {
		for _, item := range items {
			if item.Name == "" {
				return nil, fmt.Errorf("category[%s] has an item without a name", category)
			}
			if item.Price.IsNegative() {
				return nil, fmt.Errorf("item[%s] price is negative", item.Name)
			}
		}
		m.categories[category] = items
		m.names = append(m.names, category)
	}
	slices.Sort(m.names)

	return m, nil
}

// Load reads a snapshot file. A missing file yields an empty menu.
func Load(path string) (*Menu, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Empty(), nil
		}
		return nil, fmt.Errorf("os.Open: %w", err)
	}
	defer f.Close()

	m, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return m, nil
}

// Categories returns category names sorted alphabetically.
func (m *Menu) Categories() []string {
	return slices.Clone(m.names)
}

// Items returns the items of one category, or of all of them for
// AllCategories. Unknown categories have no items.
func (m *Menu) Items(category string) []domain.CatalogItem {
	if category != AllCategories {
		return slices.Clone(m.categories[category])
	}

	var all []domain.CatalogItem
	for _, name := range m.names {
		all = append(all, m.categories[name]...)
	}
	return all
}

// Lookup finds an item by name across categories, in category order.
func (m *Menu) Lookup(name string) (domain.CatalogItem, bool) {
	for _, category := range m.names {
		for _, item := range m.categories[category] {
			if item.Name == name {
				return item, true
			}
		}
	}
	return domain.CatalogItem{}, false
}

func (m *Menu) IsEmpty() bool {
	return len(m.names) == 0
}

const (
	fullStar = "★"
	halfStar = "⯪"
)

// Stars renders a rating as full stars plus a half star for any fractional
// part. A missing or zero rating reads "No rating".
func Stars(rating decimal.NullDecimal) string {
	if !rating.Valid || rating.Decimal.IsZero() {
		return "No rating"
	}

	whole := rating.Decimal.Floor()
	var stars []string
	for range whole.IntPart() {
		stars = append(stars, fullStar)
	}
	if !rating.Decimal.Equal(whole) {
		stars = append(stars, halfStar)
	}
	return strings.Join(stars, " ")
}
