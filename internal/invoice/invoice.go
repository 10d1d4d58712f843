// Package invoice assembles the data an external document renderer needs to
// print a bill for the current cart.
package invoice

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/pizzeria-cart/internal/domain"
	"github.com/nikolayk812/pizzeria-cart/internal/totals"
	"github.com/shopspring/decimal"
)

var ErrEmptyCart = errors.New("cart is empty")

// Columns are the headers of the line-item table, in row field order.
var Columns = []string{"Item", "Quantity", "Price", "Total"}

type Invoice struct {
	Number   string
	IssuedAt time.Time
	Rows     []totals.Row
	// Summary holds rounded amounts.
	Summary         totals.Summary
	DiscountPercent decimal.Decimal
	TaxPercent      decimal.Decimal
}

type Issuer struct {
	prefix string
	calc   *totals.Calculator
	now    func() time.Time
	newID  func() string
}

func NewIssuer(prefix string, calc *totals.Calculator) *Issuer {
	return &Issuer{
		prefix: prefix,
		calc:   calc,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

func (i *Issuer) Issue(items []domain.CartItem) (Invoice, error) {
	if len(items) == 0 {
		return Invoice{}, ErrEmptyCart
	}

	summary, err := i.calc.Calculate(items)
	if err != nil {
		return Invoice{}, fmt.Errorf("calc.Calculate: %w", err)
	}

	hundred := decimal.NewFromInt(100)
	policy := i.calc.Policy()

	return Invoice{
		Number:          i.number(),
		IssuedAt:        i.now(),
		Rows:            totals.Rows(items),
		Summary:         summary.Rounded(),
		DiscountPercent: policy.DiscountRate.Mul(hundred),
		TaxPercent:      policy.TaxRate.Mul(hundred),
	}, nil
}

// number takes the first group of a fresh UUID, e.g. CUSTPIE1A2B3C4D.
func (i *Issuer) number() string {
	id, _, _ := strings.Cut(i.newID(), "-")
	return i.prefix + strings.ToUpper(id)
}

// Cells returns a row as the strings of the Columns table.
func Cells(row totals.Row) []string {
	return []string{
		row.Name,
		fmt.Sprintf("%d", row.Quantity),
		row.UnitPrice.Fixed(),
		row.LineTotal.Fixed(),
	}
}
