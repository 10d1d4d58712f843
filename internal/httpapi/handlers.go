package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/nikolayk812/pizzeria-cart/internal/cart"
	"github.com/nikolayk812/pizzeria-cart/internal/domain"
	"github.com/nikolayk812/pizzeria-cart/internal/invoice"
	"github.com/nikolayk812/pizzeria-cart/internal/logging"
	"github.com/nikolayk812/pizzeria-cart/internal/menu"
	"github.com/nikolayk812/pizzeria-cart/internal/payment"
	"github.com/nikolayk812/pizzeria-cart/internal/pricing"
	"github.com/nikolayk812/pizzeria-cart/internal/totals"
)

const maxBodyBytes = 8 * 1024

func (s *Server) handleMenu(w http.ResponseWriter, r *http.Request) {
	s.writeMenu(w, r.URL.Query().Get("category"))
}

func (s *Server) handleMenuCategory(w http.ResponseWriter, r *http.Request) {
	s.writeMenu(w, chi.URLParam(r, "category"))
}

func (s *Server) writeMenu(w http.ResponseWriter, category string) {
	if category == "" {
		category = menu.AllCategories
	}

	items := s.menu.Items(category)
	out := menuJSON{
		Categories: append([]string{menu.AllCategories}, s.menu.Categories()...),
		Category:   category,
		Items:      make([]menuItemJSON, 0, len(items)),
	}
	for _, item := range items {
		out.Items = append(out.Items, toMenuItemJSON(item, domain.NewMoney(item.Price, s.currency)))
	}

	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCustomizations(w http.ResponseWriter, r *http.Request) {
	options := s.catalog.Options()

	out := make([]customizationJSON, 0, len(options))
	for _, o := range options {
		out = append(out, customizationJSON{
			ID:        o.ID,
			Label:     o.Label,
			Surcharge: toMoneyJSON(domain.NewMoney(o.Surcharge, s.currency)),
		})
	}

	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetCart(w http.ResponseWriter, r *http.Request) {
	c, err := s.repo.GetCart(r.Context(), sessionID(r.Context()))
	if err != nil {
		s.internalError(w, r, fmt.Errorf("repo.GetCart: %w", err))
		return
	}

	writeJSON(w, http.StatusOK, toCartJSON(c))
}

func (s *Server) handleAddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	base, ok := s.menu.Lookup(req.Name)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("menu item[%s] not found", req.Name))
		return
	}

	item, err := s.engine.Customize(base, s.currency, req.Options)
	if err != nil {
		var invalid *pricing.InvalidOptionError
		if errors.As(err, &invalid) {
			writeError(w, http.StatusBadRequest, invalid.Error())
			return
		}
		s.internalError(w, r, fmt.Errorf("engine.Customize: %w", err))
		return
	}

	s.update(w, r, "add", func(st *cart.Store) { st.AddItem(item) })
}

func (s *Server) handleIncrease(w http.ResponseWriter, r *http.Request) {
	s.updateLine(w, r, "increase", (*cart.Store).IncreaseQuantity)
}

func (s *Server) handleDecrease(w http.ResponseWriter, r *http.Request) {
	s.updateLine(w, r, "decrease", (*cart.Store).DecreaseQuantity)
}

func (s *Server) handleRemove(w http.ResponseWriter, r *http.Request) {
	s.updateLine(w, r, "remove", (*cart.Store).RemoveItem)
}

func (s *Server) handleClearCart(w http.ResponseWriter, r *http.Request) {
	s.update(w, r, "clear", (*cart.Store).ClearCart)
}

func (s *Server) updateLine(w http.ResponseWriter, r *http.Request, op string, fn func(*cart.Store, domain.CartItem)) {
	var req lineRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is empty")
		return
	}

	ref := domain.CartItem{Name: req.Name, Extras: req.Extras}
	s.update(w, r, op, func(st *cart.Store) { fn(st, ref) })
}

func (s *Server) update(w http.ResponseWriter, r *http.Request, op string, fn func(*cart.Store)) {
	ctx := r.Context()

	c, err := s.repo.Update(ctx, sessionID(ctx), func(st *cart.Store) error {
		fn(st)
		return nil
	})
	if err != nil {
		s.internalError(w, r, fmt.Errorf("repo.Update: %w", err))
		return
	}
	cartOperations.WithLabelValues(op).Inc()

	logging.FromCtx(ctx).Debug("cart updated", "op", op, "lines", len(c.Items), "item_count", c.ItemCount())
	writeJSON(w, http.StatusOK, toCartJSON(c))
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	c, err := s.repo.GetCart(r.Context(), sessionID(r.Context()))
	if err != nil {
		s.internalError(w, r, fmt.Errorf("repo.GetCart: %w", err))
		return
	}

	summary, err := s.calc.Calculate(c.Items)
	if err != nil {
		s.internalError(w, r, fmt.Errorf("calc.Calculate: %w", err))
		return
	}

	writeJSON(w, http.StatusOK, toSummaryJSON(summary.Rounded(), totals.Rows(c.Items)))
}

func (s *Server) handleInvoice(w http.ResponseWriter, r *http.Request) {
	c, err := s.repo.GetCart(r.Context(), sessionID(r.Context()))
	if err != nil {
		s.internalError(w, r, fmt.Errorf("repo.GetCart: %w", err))
		return
	}

	inv, err := s.issuer.Issue(c.Items)
	if err != nil {
		if errors.Is(err, invoice.ErrEmptyCart) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		s.internalError(w, r, fmt.Errorf("issuer.Issue: %w", err))
		return
	}

	logging.FromCtx(r.Context()).Info("invoice issued", "number", inv.Number, "grand_total", inv.Summary.GrandTotal.Fixed())
	writeJSON(w, http.StatusOK, toInvoiceJSON(inv))
}

func (s *Server) handlePayment(w http.ResponseWriter, r *http.Request) {
	c, err := s.repo.GetCart(r.Context(), sessionID(r.Context()))
	if err != nil {
		s.internalError(w, r, fmt.Errorf("repo.GetCart: %w", err))
		return
	}

	summary, err := s.calc.Calculate(c.Items)
	if err != nil {
		s.internalError(w, r, fmt.Errorf("calc.Calculate: %w", err))
		return
	}

	req, err := payment.NewRequest(s.payee, summary.GrandTotal)
	if err != nil {
		if errors.Is(err, payment.ErrNotPayable) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		s.internalError(w, r, fmt.Errorf("payment.NewRequest: %w", err))
		return
	}

	writeJSON(w, http.StatusOK, paymentJSON{
		Amount:        toMoneyJSON(req.Amount),
		TransactionID: req.TransactionID,
		Link:          req.Link,
	})
}

func (s *Server) internalError(w http.ResponseWriter, r *http.Request, err error) {
	logging.FromCtx(r.Context()).Error("request failed", "error", err)
	writeError(w, http.StatusInternalServerError, "internal error")
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorJSON{Error: msg})
}
