// Package httpapi exposes the cart and pricing engine over JSON, one
// server-held cart per session.
package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/nikolayk812/pizzeria-cart/internal/customization"
	"github.com/nikolayk812/pizzeria-cart/internal/invoice"
	"github.com/nikolayk812/pizzeria-cart/internal/menu"
	"github.com/nikolayk812/pizzeria-cart/internal/payment"
	"github.com/nikolayk812/pizzeria-cart/internal/port"
	"github.com/nikolayk812/pizzeria-cart/internal/pricing"
	"github.com/nikolayk812/pizzeria-cart/internal/totals"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"golang.org/x/text/currency"
)

type Deps struct {
	Repo     port.CartRepository
	Menu     *menu.Menu
	Catalog  *customization.Catalog
	Calc     *totals.Calculator
	Issuer   *invoice.Issuer
	Payee    payment.Payee
	Currency currency.Unit
	Log      *slog.Logger

	// CORSOrigins enables cross-origin access for browser clients. Empty disables it.
	CORSOrigins []string
}

type Server struct {
	repo     port.CartRepository
	menu     *menu.Menu
	catalog  *customization.Catalog
	engine   *pricing.Engine
	calc     *totals.Calculator
	issuer   *invoice.Issuer
	payee    payment.Payee
	currency currency.Unit
	log      *slog.Logger
	origins  []string
}

func NewServer(d Deps) *Server {
	m := d.Menu
	if m == nil {
		m = menu.Empty()
	}

	return &Server{
		repo:     d.Repo,
		menu:     m,
		catalog:  d.Catalog,
		engine:   pricing.New(d.Catalog),
		calc:     d.Calc,
		issuer:   d.Issuer,
		payee:    d.Payee,
		currency: d.Currency,
		log:      d.Log,
		origins:  d.CORSOrigins,
	}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recoverer, metrics, s.logRequests)
	if len(s.origins) > 0 {
		r.Use(cors.New(cors.Options{
			AllowedOrigins: s.origins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
			AllowedHeaders: []string{"Content-Type", SessionHeader},
			ExposedHeaders: []string{SessionHeader},
		}).Handler)
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Get("/menu", s.handleMenu)
	r.Get("/menu/{category}", s.handleMenuCategory)
	r.Get("/customizations", s.handleCustomizations)

	r.Route("/cart", func(r chi.Router) {
		r.Use(session)

		r.Get("/", s.handleGetCart)
		r.Delete("/", s.handleClearCart)
		r.Post("/items", s.handleAddItem)
		r.Post("/items/increase", s.handleIncrease)
		r.Post("/items/decrease", s.handleDecrease)
		r.Post("/items/remove", s.handleRemove)
		r.Get("/summary", s.handleSummary)
		r.Get("/invoice", s.handleInvoice)
		r.Get("/payment", s.handlePayment)
	})

	return r
}
