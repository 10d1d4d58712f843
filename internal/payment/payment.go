// Package payment builds the hand-off to an external UPI payment app. The
// outcome of the payment is not tracked.
package payment

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/nikolayk812/pizzeria-cart/internal/domain"
)

var ErrNotPayable = errors.New("not payable")

type Payee struct {
	VPA          string
	Name         string
	MerchantCode string
	URL          string
}

type Request struct {
	Amount        domain.Money
	TransactionID string
	Link          string
}

// NewRequest prepares a UPI deep link for the given grand total.
func NewRequest(payee Payee, grandTotal domain.Money) (Request, error) {
	if payee.VPA == "" {
		return Request{}, fmt.Errorf("payee VPA is empty")
	}

	amount := grandTotal.Round()
	if !amount.Amount.IsPositive() {
		return Request{}, fmt.Errorf("amount[%s] is %w", amount.Fixed(), ErrNotPayable)
	}

	txID := strings.ReplaceAll(uuid.NewString(), "-", "")

	return Request{
		Amount:        amount,
		TransactionID: txID,
		Link:          link(payee, txID, amount),
	}, nil
}

func link(payee Payee, txID string, amount domain.Money) string {
	merchantCode := payee.MerchantCode
	if merchantCode == "" {
		merchantCode = "0000"
	}

	params := [][2]string{
		{"pa", payee.VPA},
		{"pn", payee.Name},
		{"mc", merchantCode},
		{"tid", txID},
		{"url", payee.URL},
		{"am", amount.Fixed()},
		{"cu", amount.Currency.String()},
	}

	var b strings.Builder
	b.WriteString("upi://pay?")
	for i, p := range params {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(p[0])
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p[1]))
	}
	return b.String()
}
