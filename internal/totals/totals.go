// Package totals derives order amounts from a cart snapshot.
//
// Amounts are kept exact through the whole calculation; Rounded gives the
// two-decimal values meant for display, invoices and payment.
package totals

import (
	"fmt"

	"github.com/nikolayk812/pizzeria-cart/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

type Policy struct {
	Currency     currency.Unit
	DiscountRate decimal.Decimal
	TaxRate      decimal.Decimal
}

// Summary is the totals tuple of an order.
type Summary struct {
	Subtotal           domain.Money
	Discount           domain.Money
	DiscountedSubtotal domain.Money
	Tax                domain.Money
	GrandTotal         domain.Money
}

// Rounded returns the summary with each amount rounded half-up to two
// decimals, independently from the exact values.
func (s Summary) Rounded() Summary {
	return Summary{
		Subtotal:           s.Subtotal.Round(),
		Discount:           s.Discount.Round(),
		DiscountedSubtotal: s.DiscountedSubtotal.Round(),
		Tax:                s.Tax.Round(),
		GrandTotal:         s.GrandTotal.Round(),
	}
}

// Row is one line of the invoice table.
type Row struct {
	Name      string
	Extras    []string
	Quantity  int
	UnitPrice domain.Money
	LineTotal domain.Money
}

type Calculator struct {
	policy Policy
}

func NewCalculator(policy Policy) (*Calculator, error) {
	if err := validateRate(policy.DiscountRate); err != nil {
		return nil, fmt.Errorf("discount rate: %w", err)
	}
	if err := validateRate(policy.TaxRate); err != nil {
		return nil, fmt.Errorf("tax rate: %w", err)
	}
	if policy.Currency == (currency.Unit{}) {
		return nil, fmt.Errorf("currency is empty")
	}

	return &Calculator{policy: policy}, nil
}

func validateRate(rate decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("rate[%s] is out of range [0, 1]", rate)
	}
	return nil
}

func (c *Calculator) Policy() Policy {
	return c.policy
}

// Calculate returns the exact totals of the given line items. An empty cart
// yields zero amounts in the policy currency.
func (c *Calculator) Calculate(items []domain.CartItem) (Summary, error) {
	subtotal := domain.ZeroMoney(c.policy.Currency)
	for _, item := range items {
		line := LineTotal(item)
		if !line.SameCurrency(subtotal) {
			return Summary{}, fmt.Errorf("item[%s] currency[%s] does not match order currency[%s]",
				item.Name, line.Currency, subtotal.Currency)
		}
		subtotal = subtotal.Add(line)
	}

	discount := subtotal.Mul(c.policy.DiscountRate)
	discounted := subtotal.Sub(discount)
	tax := discounted.Mul(c.policy.TaxRate)

	return Summary{
		Subtotal:           subtotal,
		Discount:           discount,
		DiscountedSubtotal: discounted,
		Tax:                tax,
		GrandTotal:         discounted.Add(tax),
	}, nil
}

func LineTotal(item domain.CartItem) domain.Money {
	return item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
}

// Rows projects line items into invoice rows, in cart order.
func Rows(items []domain.CartItem) []Row {
	rows := make([]Row, 0, len(items))
	for _, item := range items {
		rows = append(rows, Row{
			Name:      item.Name,
			Extras:    domain.NormalizeExtras(item.Extras),
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice.Round(),
			LineTotal: LineTotal(item).Round(),
		})
	}
	return rows
}
