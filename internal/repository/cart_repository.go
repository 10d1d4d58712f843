package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/pizzeria-cart/internal/cart"
	"github.com/nikolayk812/pizzeria-cart/internal/db"
	"github.com/nikolayk812/pizzeria-cart/internal/domain"
	"github.com/nikolayk812/pizzeria-cart/internal/port"
	"golang.org/x/text/currency"
)

type cartRepository struct {
	q    *db.Queries
	pool *pgxpool.Pool
}

func NewCart(pool *pgxpool.Pool) port.CartRepository {
	return &cartRepository{
		q:    db.New(pool),
		pool: pool,
	}
}

func NewCartWithTx(tx pgx.Tx) port.CartRepository {
	return &cartRepository{
		q:    db.New(tx),
		pool: nil, // use provided transaction instead
	}
}

func (r *cartRepository) GetCart(ctx context.Context, ownerID string) (domain.Cart, error) {
	if ownerID == "" {
		return domain.Cart{}, fmt.Errorf("ownerID is empty")
	}

	items, err := getItems(ctx, r.q, ownerID)
	if err != nil {
		return domain.Cart{}, err
	}

	return domain.Cart{
		OwnerID: ownerID,
		Items:   items,
	}, nil
}

func (r *cartRepository) Update(ctx context.Context, ownerID string, fn func(s *cart.Store) error) (domain.Cart, error) {
	if ownerID == "" {
		return domain.Cart{}, fmt.Errorf("ownerID is empty")
	}

	return inCartTx(ctx, r.pool, r.q, func(q *db.Queries) (domain.Cart, error) {
		if err := q.LockCart(ctx, ownerID); err != nil {
			return domain.Cart{}, fmt.Errorf("q.LockCart: %w", err)
		}

		items, err := getItems(ctx, q, ownerID)
		if err != nil {
			return domain.Cart{}, err
		}

		store := cart.Restore(items)
		if err := fn(store); err != nil {
			return domain.Cart{}, err
		}
		items = store.Snapshot()

		if _, err := q.DeleteCart(ctx, ownerID); err != nil {
			return domain.Cart{}, fmt.Errorf("q.DeleteCart: %w", err)
		}

		for i, item := range items {
			if err := q.InsertItem(ctx, mapDomainToInsertItemParams(ownerID, i, item)); err != nil {
				return domain.Cart{}, fmt.Errorf("q.InsertItem: %w", err)
			}
		}

		return domain.Cart{
			OwnerID: ownerID,
			Items:   items,
		}, nil
	})
}

func (r *cartRepository) DeleteCart(ctx context.Context, ownerID string) (bool, error) {
	if ownerID == "" {
		return false, fmt.Errorf("ownerID is empty")
	}

	rowsAffected, err := r.q.DeleteCart(ctx, ownerID)
	if err != nil {
		return false, fmt.Errorf("q.DeleteCart: %w", err)
	}

	return rowsAffected > 0, nil
}

func getItems(ctx context.Context, q *db.Queries, ownerID string) ([]domain.CartItem, error) {
	dbCartItems, err := q.GetCart(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("q.GetCart: %w", err)
	}

	items, err := mapGetCartRowsToDomain(dbCartItems)
	if err != nil {
		return nil, fmt.Errorf("mapGetCartRowsToDomain: %w", err)
	}

	return items, nil
}

func mapDomainToInsertItemParams(ownerID string, position int, item domain.CartItem) db.InsertItemParams {
	extras := domain.NormalizeExtras(item.Extras)
	if extras == nil {
		extras = []string{}
	}

	return db.InsertItemParams{
		OwnerID:       ownerID,
		Position:      int32(position),
		Name:          item.Name,
		Extras:        extras,
		PriceAmount:   item.UnitPrice.Amount,
		PriceCurrency: item.UnitPrice.Currency.String(),
		Quantity:      int32(item.Quantity),
		CreatedAt:     item.CreatedAt,
	}
}

func mapGetCartRowToDomain(row db.GetCartRow) (domain.CartItem, error) {
	parsedCurrency, err := currency.ParseISO(row.PriceCurrency)
	if err != nil {
		return domain.CartItem{}, fmt.Errorf("currency[%s] is not valid: %w", row.PriceCurrency, err)
	}

	return domain.CartItem{
		Name:      row.Name,
		UnitPrice: domain.Money{Amount: row.PriceAmount, Currency: parsedCurrency},
		Extras:    domain.NormalizeExtras(row.Extras),
		Quantity:  int(row.Quantity),
		CreatedAt: row.CreatedAt,
	}, nil
}

func mapGetCartRowsToDomain(rows []db.GetCartRow) ([]domain.CartItem, error) {
	var items []domain.CartItem

	for _, row := range rows {
		item, err := mapGetCartRowToDomain(row)
		if err != nil {
			return nil, fmt.Errorf("mapGetCartRowToDomain: %w", err)
		}

		items = append(items, item)
	}

	return items, nil
}
