// Package pricing derives the unit price of a customized item.
package pricing

import (
	"fmt"

	"github.com/nikolayk812/pizzeria-cart/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// InvalidOptionError rejects a customization that references an option the
// catalog does not know.
type InvalidOptionError struct {
	ID  string
	Err error
}

func (e *InvalidOptionError) Error() string {
	return fmt.Sprintf("invalid customization option[%s]: %v", e.ID, e.Err)
}

func (e *InvalidOptionError) Unwrap() error {
	return e.Err
}

type SurchargeSource interface {
	SurchargeOf(id string) (decimal.Decimal, error)
}

type Engine struct {
	catalog SurchargeSource
}

func New(catalog SurchargeSource) *Engine {
	return &Engine{catalog: catalog}
}

// ComputeUnitPrice returns base plus the surcharge of every selected option.
// Selected options are a set; order and repeats do not matter. The sum is
// rounded once, at the end.
func (e *Engine) ComputeUnitPrice(base domain.Money, selected []string) (domain.Money, error) {
	if base.Amount.IsNegative() {
		return domain.Money{}, fmt.Errorf("base price is negative")
	}

	total := base.Amount
	for _, id := range domain.NormalizeExtras(selected) {
		surcharge, err := e.catalog.SurchargeOf(id)
		if err != nil {
			return domain.Money{}, &InvalidOptionError{ID: id, Err: err}
		}
		total = total.Add(surcharge)
	}

	return domain.NewMoney(total, base.Currency).Round(), nil
}

// Customize prices a catalog item with the selected options and returns the
// line item to hand to the cart store.
func (e *Engine) Customize(item domain.CatalogItem, unit currency.Unit, selected []string) (domain.CartItem, error) {
	if item.Name == "" {
		return domain.CartItem{}, fmt.Errorf("item name is empty")
	}

	price, err := e.ComputeUnitPrice(domain.NewMoney(item.Price, unit), selected)
	if err != nil {
		return domain.CartItem{}, fmt.Errorf("e.ComputeUnitPrice: %w", err)
	}

	return domain.CartItem{
		Name:      item.Name,
		UnitPrice: price,
		Extras:    domain.NormalizeExtras(selected),
		Quantity:  1,
	}, nil
}
