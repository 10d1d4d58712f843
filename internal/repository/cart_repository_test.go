package repository_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/pizzeria-cart/internal/cart"
	"github.com/nikolayk812/pizzeria-cart/internal/domain"
	"github.com/nikolayk812/pizzeria-cart/internal/port"
	"github.com/nikolayk812/pizzeria-cart/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type cartRepositorySuite struct {
	suite.Suite

	repo port.CartRepository
	pool *pgxpool.Pool
}

// entry point to run the tests in the suite
func TestCartRepositorySuite(t *testing.T) {
	suite.Run(t, new(cartRepositorySuite))
}

// before all tests in the suite
func (suite *cartRepositorySuite) SetupSuite() {
	ctx := suite.T().Context()

	_, connStr, err := startPostgres(ctx)
	suite.Require().NoError(err)

	suite.pool, err = pgxpool.New(ctx, connStr)
	suite.Require().NoError(err)

	suite.repo = repository.NewCart(suite.pool)
}

// after all tests in the suite
func (suite *cartRepositorySuite) TearDownSuite() {
	if suite.pool != nil {
		suite.pool.Close()
	}
}

func (suite *cartRepositorySuite) TestUpdateAddItem() {
	defer suite.deleteAll()

	pizza := randomCartItem()
	other := randomCartItem()

	tests := []struct {
		name      string
		ownerID   string
		adds      []domain.CartItem
		want      []domain.CartItem
		wantError string
	}{
		{
			name:    "add item to cart: ok",
			ownerID: gofakeit.UUID(),
			adds:    []domain.CartItem{pizza},
			want:    []domain.CartItem{withQuantity(pizza, 1)},
		},
		{
			name:    "add same item twice merges: ok",
			ownerID: gofakeit.UUID(),
			adds:    []domain.CartItem{pizza, pizza},
			want:    []domain.CartItem{withQuantity(pizza, 2)},
		},
		{
			name:    "insertion order survives round trip: ok",
			ownerID: gofakeit.UUID(),
			adds:    []domain.CartItem{other, pizza, other},
			want:    []domain.CartItem{withQuantity(other, 2), withQuantity(pizza, 1)},
		},
		{
			name:    "add item without extras: ok",
			ownerID: gofakeit.UUID(),
			adds: []domain.CartItem{{
				Name:      gofakeit.Dessert(),
				UnitPrice: domain.Money{Amount: decimal.Zero, Currency: randomCurrency()},
			}},
		},
		{
			name:      "add item with empty owner ID: error",
			ownerID:   "",
			adds:      []domain.CartItem{pizza},
			wantError: "ownerID is empty",
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()
			ctx := t.Context()

			for _, item := range tt.adds {
				_, err := suite.repo.Update(ctx, tt.ownerID, addItem(item))
				if tt.wantError != "" {
					require.EqualError(t, err, tt.wantError)
					return
				}
				require.NoError(t, err)
			}

			c, err := suite.repo.GetCart(ctx, tt.ownerID)
			require.NoError(t, err)
			assert.Equal(t, tt.ownerID, c.OwnerID)

			want := tt.want
			if want == nil {
				want = []domain.CartItem{withQuantity(tt.adds[0], 1)}
			}
			assertCartItems(t, want, c.Items)

			for _, item := range c.Items {
				assert.False(t, item.CreatedAt.IsZero())
			}
		})
	}
}

func (suite *cartRepositorySuite) TestUpdateFirstSeenPriceWins() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()
	ownerID := gofakeit.UUID()

	first := randomCartItem()
	repriced := first
	repriced.UnitPrice.Amount = first.UnitPrice.Amount.Add(decimal.NewFromInt(10))

	_, err := suite.repo.Update(ctx, ownerID, addItem(first))
	require.NoError(t, err)
	c, err := suite.repo.Update(ctx, ownerID, addItem(repriced))
	require.NoError(t, err)

	assertCartItems(t, []domain.CartItem{withQuantity(first, 2)}, c.Items)
}

func (suite *cartRepositorySuite) TestUpdateDecreaseToRemoval() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()
	ownerID := gofakeit.UUID()
	item := randomCartItem()

	_, err := suite.repo.Update(ctx, ownerID, addItem(item))
	require.NoError(t, err)

	c, err := suite.repo.Update(ctx, ownerID, func(s *cart.Store) error {
		s.DecreaseQuantity(item)
		return nil
	})
	require.NoError(t, err)
	assert.Empty(t, c.Items)

	c, err = suite.repo.GetCart(ctx, ownerID)
	require.NoError(t, err)
	assert.Empty(t, c.Items)
}

func (suite *cartRepositorySuite) TestUpdateRollsBackOnError() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()
	ownerID := gofakeit.UUID()
	item := randomCartItem()

	_, err := suite.repo.Update(ctx, ownerID, addItem(item))
	require.NoError(t, err)

	_, err = suite.repo.Update(ctx, ownerID, func(s *cart.Store) error {
		s.ClearCart()
		return errors.New("rejected")
	})
	require.EqualError(t, err, "rejected")

	c, err := suite.repo.GetCart(ctx, ownerID)
	require.NoError(t, err)
	assertCartItems(t, []domain.CartItem{withQuantity(item, 1)}, c.Items)
}

func (suite *cartRepositorySuite) TestUpdateConcurrentAdds() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()
	ownerID := gofakeit.UUID()
	item := randomCartItem()

	const writers = 10

	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := suite.repo.Update(ctx, ownerID, addItem(item))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	c, err := suite.repo.GetCart(ctx, ownerID)
	require.NoError(t, err)
	assertCartItems(t, []domain.CartItem{withQuantity(item, writers)}, c.Items)
}

func (suite *cartRepositorySuite) TestDeleteCart() {
	defer suite.deleteAll()

	tests := []struct {
		name        string
		ownerID     string
		setupItems  []domain.CartItem
		wantDeleted bool
		wantError   string
	}{
		{
			name:        "delete existing cart: ok",
			ownerID:     gofakeit.UUID(),
			setupItems:  []domain.CartItem{randomCartItem(), randomCartItem()},
			wantDeleted: true,
		},
		{
			name:        "delete empty cart: not found",
			ownerID:     gofakeit.UUID(),
			wantDeleted: false,
		},
		{
			name:      "delete with empty owner ID: error",
			ownerID:   "",
			wantError: "ownerID is empty",
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()
			ctx := t.Context()

			for _, item := range tt.setupItems {
				_, err := suite.repo.Update(ctx, tt.ownerID, addItem(item))
				require.NoError(t, err)
			}

			deleted, err := suite.repo.DeleteCart(ctx, tt.ownerID)
			if tt.wantError != "" {
				require.EqualError(t, err, tt.wantError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantDeleted, deleted)

			c, err := suite.repo.GetCart(ctx, tt.ownerID)
			require.NoError(t, err)
			assert.Empty(t, c.Items)
		})
	}
}

func (suite *cartRepositorySuite) TestUpdateWithTx() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()
	ownerID := gofakeit.UUID()
	item := randomCartItem()

	tx, err := suite.pool.Begin(ctx)
	require.NoError(t, err)

	_, err = repository.NewCartWithTx(tx).Update(ctx, ownerID, addItem(item))
	require.NoError(t, err)

	require.NoError(t, tx.Rollback(ctx))

	c, err := suite.repo.GetCart(ctx, ownerID)
	require.NoError(t, err)
	assert.Empty(t, c.Items)
}

func (suite *cartRepositorySuite) TestGetCartKeepsCreatedAt() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()
	ownerID := gofakeit.UUID()

	_, err := suite.repo.Update(ctx, ownerID, addItem(randomCartItem()))
	require.NoError(t, err)

	before, err := suite.repo.GetCart(ctx, ownerID)
	require.NoError(t, err)

	_, err = suite.repo.Update(ctx, ownerID, addItem(randomCartItem()))
	require.NoError(t, err)

	after, err := suite.repo.GetCart(ctx, ownerID)
	require.NoError(t, err)

	require.Len(t, after.Items, 2)
	assert.WithinDuration(t, before.Items[0].CreatedAt, after.Items[0].CreatedAt, time.Microsecond)
}

func (suite *cartRepositorySuite) deleteAll() {
	_, err := suite.pool.Exec(suite.T().Context(), "TRUNCATE TABLE cart_items CASCADE")
	suite.NoError(err)
}

func withQuantity(item domain.CartItem, quantity int) domain.CartItem {
	item.Quantity = quantity
	item.Extras = domain.NormalizeExtras(item.Extras)
	return item
}
