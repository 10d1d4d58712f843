package db

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

const lockCart = `-- name: LockCart :exec
SELECT pg_advisory_xact_lock(hashtext($1))
`

// LockCart serializes writers of one owner's cart until the transaction ends.
func (q *Queries) LockCart(ctx context.Context, ownerID string) error {
	_, err := q.db.Exec(ctx, lockCart, ownerID)
	return err
}

const getCart = `-- name: GetCart :many
SELECT name, extras, price_amount, price_currency, quantity, created_at
FROM cart_items
WHERE owner_id = $1
ORDER BY position
`

type GetCartRow struct {
	Name          string
	Extras        []string
	PriceAmount   decimal.Decimal
	PriceCurrency string
	Quantity      int32
	CreatedAt     time.Time
}

func (q *Queries) GetCart(ctx context.Context, ownerID string) ([]GetCartRow, error) {
	rows, err := q.db.Query(ctx, getCart, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []GetCartRow
	for rows.Next() {
		var i GetCartRow
		if err := rows.Scan(
			&i.Name,
			&i.Extras,
			&i.PriceAmount,
			&i.PriceCurrency,
			&i.Quantity,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const insertItem = `-- name: InsertItem :exec
INSERT INTO cart_items (owner_id, position, name, extras, price_amount, price_currency, quantity, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`

type InsertItemParams struct {
	OwnerID       string
	Position      int32
	Name          string
	Extras        []string
	PriceAmount   decimal.Decimal
	PriceCurrency string
	Quantity      int32
	CreatedAt     time.Time
}

func (q *Queries) InsertItem(ctx context.Context, arg InsertItemParams) error {
	_, err := q.db.Exec(ctx, insertItem,
		arg.OwnerID,
		arg.Position,
		arg.Name,
		arg.Extras,
		arg.PriceAmount,
		arg.PriceCurrency,
		arg.Quantity,
		arg.CreatedAt,
	)
	return err
}

const deleteCart = `-- name: DeleteCart :execrows
DELETE FROM cart_items
WHERE owner_id = $1
`

func (q *Queries) DeleteCart(ctx context.Context, ownerID string) (int64, error) {
	result, err := q.db.Exec(ctx, deleteCart, ownerID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
