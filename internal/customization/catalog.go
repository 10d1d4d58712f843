// Package customization holds the fixed table of customization options and
// their surcharges.
package customization

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/nikolayk812/pizzeria-cart/internal/domain"
	"github.com/shopspring/decimal"
)

// UnknownOptionError is returned when an option identifier is not registered.
type UnknownOptionError struct {
	ID string
}

func (e *UnknownOptionError) Error() string {
	return fmt.Sprintf("customization option[%s] is not registered", e.ID)
}

type Catalog struct {
	options []domain.CustomizationOption
	byID    map[string]int
}

// New builds a catalog that enumerates options in the given order.
func New(options ...domain.CustomizationOption) (*Catalog, error) {
	c := &Catalog{
		options: make([]domain.CustomizationOption, 0, len(options)),
		byID:    make(map[string]int, len(options)),
	}

	for _, o := range options {
		if o.ID == "" {
			return nil, fmt.Errorf("option ID is empty")
		}
		if o.Surcharge.IsNegative() {
			return nil, fmt.Errorf("option[%s] surcharge is negative", o.ID)
		}
		if _, ok := c.byID[o.ID]; ok {
			return nil, fmt.Errorf("option[%s] is duplicated", o.ID)
		}
		if o.Label == "" {
			o.Label = Label(o.ID)
		}

		c.byID[o.ID] = len(c.options)
		c.options = append(c.options, o)
	}

	return c, nil
}

// Default returns the storefront's standard pizza extras.
func Default() *Catalog {
	c, err := New(
		option("extraCheese", 20),
		option("extraSpicy", 10),
		option("extraToppings", 30),
		option("glutenFreeCrust", 40),
		option("doubleSauce", 15),
		option("noOnions", 5),
		option("extraOlives", 25),
		option("stuffedCrust", 50),
	)
	if err != nil {
		panic(err)
	}
	return c
}

func option(id string, surcharge int64) domain.CustomizationOption {
	return domain.CustomizationOption{
		ID:        id,
		Label:     Label(id),
		Surcharge: decimal.NewFromInt(surcharge),
	}
}

func (c *Catalog) SurchargeOf(id string) (decimal.Decimal, error) {
	i, ok := c.byID[id]
	if !ok {
		return decimal.Zero, &UnknownOptionError{ID: id}
	}
	return c.options[i].Surcharge, nil
}

func (c *Catalog) Has(id string) bool {
	_, ok := c.byID[id]
	return ok
}

// Options returns a copy of all options in catalog order.
func (c *Catalog) Options() []domain.CustomizationOption {
	out := make([]domain.CustomizationOption, len(c.options))
	copy(out, c.options)
	return out
}

// Label turns a camelCase identifier into a display label,
// e.g. "glutenFreeCrust" becomes "Gluten Free Crust".
func Label(id string) string {
	var b strings.Builder
	for i, r := range id {
		switch {
		case i == 0:
			b.WriteRune(unicode.ToUpper(r))
		case unicode.IsUpper(r):
			b.WriteByte(' ')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
