package httpapi

import (
	"time"

	"github.com/nikolayk812/pizzeria-cart/internal/domain"
	"github.com/nikolayk812/pizzeria-cart/internal/invoice"
	"github.com/nikolayk812/pizzeria-cart/internal/menu"
	"github.com/nikolayk812/pizzeria-cart/internal/totals"
)

type moneyJSON struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

func toMoneyJSON(m domain.Money) moneyJSON {
	return moneyJSON{
		Amount:   m.Round().Fixed(),
		Currency: m.Currency.String(),
	}
}

type lineItemJSON struct {
	Name      string    `json:"name"`
	Extras    []string  `json:"extras"`
	Quantity  int       `json:"quantity"`
	UnitPrice moneyJSON `json:"unitPrice"`
	LineTotal moneyJSON `json:"lineTotal"`
}

func toLineItemsJSON(rows []totals.Row) []lineItemJSON {
	out := make([]lineItemJSON, 0, len(rows))
	for _, row := range rows {
		extras := row.Extras
		if extras == nil {
			extras = []string{}
		}

		out = append(out, lineItemJSON{
			Name:      row.Name,
			Extras:    extras,
			Quantity:  row.Quantity,
			UnitPrice: toMoneyJSON(row.UnitPrice),
			LineTotal: toMoneyJSON(row.LineTotal),
		})
	}
	return out
}

type cartJSON struct {
	SessionID string         `json:"sessionId"`
	Items     []lineItemJSON `json:"items"`
	ItemCount int            `json:"itemCount"`
}

func toCartJSON(c domain.Cart) cartJSON {
	return cartJSON{
		SessionID: c.OwnerID,
		Items:     toLineItemsJSON(totals.Rows(c.Items)),
		ItemCount: c.ItemCount(),
	}
}

type summaryJSON struct {
	Subtotal           moneyJSON      `json:"subtotal"`
	Discount           moneyJSON      `json:"discount"`
	DiscountedSubtotal moneyJSON      `json:"discountedSubtotal"`
	Tax                moneyJSON      `json:"tax"`
	GrandTotal         moneyJSON      `json:"grandTotal"`
	Rows               []lineItemJSON `json:"rows"`
}

func toSummaryJSON(s totals.Summary, rows []totals.Row) summaryJSON {
	return summaryJSON{
		Subtotal:           toMoneyJSON(s.Subtotal),
		Discount:           toMoneyJSON(s.Discount),
		DiscountedSubtotal: toMoneyJSON(s.DiscountedSubtotal),
		Tax:                toMoneyJSON(s.Tax),
		GrandTotal:         toMoneyJSON(s.GrandTotal),
		Rows:               toLineItemsJSON(rows),
	}
}

type invoiceJSON struct {
	Number          string      `json:"number"`
	IssuedAt        time.Time   `json:"issuedAt"`
	Columns         []string    `json:"columns"`
	Rows            [][]string  `json:"rows"`
	Summary         summaryJSON `json:"summary"`
	DiscountPercent string      `json:"discountPercent"`
	TaxPercent      string      `json:"taxPercent"`
}

func toInvoiceJSON(inv invoice.Invoice) invoiceJSON {
	rows := make([][]string, 0, len(inv.Rows))
	for _, row := range inv.Rows {
		rows = append(rows, invoice.Cells(row))
	}

	return invoiceJSON{
		Number:          inv.Number,
		IssuedAt:        inv.IssuedAt,
		Columns:         invoice.Columns,
		Rows:            rows,
		Summary:         toSummaryJSON(inv.Summary, inv.Rows),
		DiscountPercent: inv.DiscountPercent.String(),
		TaxPercent:      inv.TaxPercent.String(),
	}
}

type menuItemJSON struct {
	Name        string    `json:"name"`
	Price       moneyJSON `json:"price"`
	Description string    `json:"description,omitempty"`
	Image       string    `json:"image,omitempty"`
	Rating      *string   `json:"rating"`
	Stars       string    `json:"stars"`
}

func toMenuItemJSON(item domain.CatalogItem, m domain.Money) menuItemJSON {
	out := menuItemJSON{
		Name:        item.Name,
		Price:       toMoneyJSON(m),
		Description: item.Description,
		Image:       item.Image,
		Stars:       menu.Stars(item.Rating),
	}
	if item.Rating.Valid {
		r := item.Rating.Decimal.String()
		out.Rating = &r
	}
	return out
}

type menuJSON struct {
	Categories []string       `json:"categories"`
	Category   string         `json:"category"`
	Items      []menuItemJSON `json:"items"`
}

type customizationJSON struct {
	ID        string    `json:"id"`
	Label     string    `json:"label"`
	Surcharge moneyJSON `json:"surcharge"`
}

type paymentJSON struct {
	Amount        moneyJSON `json:"amount"`
	TransactionID string    `json:"transactionId"`
	Link          string    `json:"link"`
}

type addItemRequest struct {
	Name    string   `json:"name"`
	Options []string `json:"options"`
}

type lineRequest struct {
	Name   string   `json:"name"`
	Extras []string `json:"extras"`
}

type errorJSON struct {
	Error string `json:"error"`
}
