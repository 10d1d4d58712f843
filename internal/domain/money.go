package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// MinorUnits is the number of decimal places monetary output is rounded to.
const MinorUnits = 2

type Money struct {
	Amount   decimal.Decimal
	Currency currency.Unit
}

func NewMoney(amount decimal.Decimal, unit currency.Unit) Money {
	return Money{Amount: amount, Currency: unit}
}

func ZeroMoney(unit currency.Unit) Money {
	return Money{Amount: decimal.Zero, Currency: unit}
}

func (m Money) Add(other Money) Money {
	return Money{Amount: m.Amount.Add(other.Amount), Currency: m.Currency}
}

func (m Money) Sub(other Money) Money {
	return Money{Amount: m.Amount.Sub(other.Amount), Currency: m.Currency}
}

func (m Money) Mul(factor decimal.Decimal) Money {
	return Money{Amount: m.Amount.Mul(factor), Currency: m.Currency}
}

// Round rounds half away from zero to MinorUnits, which is round-half-up for
// the non-negative amounts the cart deals with.
func (m Money) Round() Money {
	return Money{Amount: m.Amount.Round(MinorUnits), Currency: m.Currency}
}

func (m Money) IsZero() bool {
	return m.Amount.IsZero()
}

func (m Money) SameCurrency(other Money) bool {
	return m.Currency.String() == other.Currency.String()
}

// Fixed renders the amount with exactly MinorUnits decimals.
func (m Money) Fixed() string {
	return m.Amount.StringFixed(MinorUnits)
}

func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.Currency.String(), m.Fixed())
}
