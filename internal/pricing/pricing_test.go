package pricing_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/nikolayk812/pizzeria-cart/internal/customization"
	"github.com/nikolayk812/pizzeria-cart/internal/domain"
	"github.com/nikolayk812/pizzeria-cart/internal/pricing"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/currency"
)

func inr(s string) domain.Money {
	return domain.NewMoney(decimal.RequireFromString(s), currency.INR)
}

func TestComputeUnitPrice(t *testing.T) {
	engine := pricing.New(customization.Default())

	tests := []struct {
		name      string
		base      domain.Money
		selected  []string
		want      string
		wantError string
	}{
		{
			name:     "no options: ok",
			base:     inr("100"),
			selected: nil,
			want:     "100.00",
		},
		{
			name:     "cheese then olives: ok",
			base:     inr("100"),
			selected: []string{"extraCheese", "extraOlives"},
			want:     "145.00",
		},
		{
			name:     "olives then cheese: ok",
			base:     inr("100"),
			selected: []string{"extraOlives", "extraCheese"},
			want:     "145.00",
		},
		{
			name:     "repeated option counted once: ok",
			base:     inr("100"),
			selected: []string{"extraCheese", "extraCheese"},
			want:     "120.00",
		},
		{
			name:     "all options: ok",
			base:     inr("199.99"),
			selected: []string{"extraCheese", "extraSpicy", "extraToppings", "glutenFreeCrust", "doubleSauce", "noOnions", "extraOlives", "stuffedCrust"},
			want:     "394.99",
		},
		{
			name:     "zero base price: ok",
			base:     inr("0"),
			selected: []string{"noOnions"},
			want:     "5.00",
		},
		{
			name:     "half rounds up once at the end: ok",
			base:     inr("10.005"),
			selected: []string{"extraSpicy"},
			want:     "20.01",
		},
		{
			name:      "unknown option: error",
			base:      inr("100"),
			selected:  []string{"extraCheese", "pineapple"},
			wantError: "invalid customization option[pineapple]: customization option[pineapple] is not registered",
		},
		{
			name:      "negative base price: error",
			base:      inr("-1"),
			wantError: "base price is negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := engine.ComputeUnitPrice(tt.base, tt.selected)
			if tt.wantError != "" {
				require.EqualError(t, err, tt.wantError)
				return
			}
			require.NoError(t, err)

			assert.Equal(t, tt.want, got.Fixed())
			assert.Equal(t, currency.INR, got.Currency)
		})
	}
}

func TestComputeUnitPriceErrorTypes(t *testing.T) {
	engine := pricing.New(customization.Default())

	_, err := engine.ComputeUnitPrice(inr("100"), []string{"pineapple"})
	require.Error(t, err)

	var invalid *pricing.InvalidOptionError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "pineapple", invalid.ID)

	var unknown *customization.UnknownOptionError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "pineapple", unknown.ID)
}

func TestCustomize(t *testing.T) {
	engine := pricing.New(customization.Default())
	item := domain.CatalogItem{Name: "Margherita", Price: decimal.NewFromInt(100)}

	got, err := engine.Customize(item, currency.INR, []string{"extraOlives", "extraCheese"})
	require.NoError(t, err)

	want := domain.CartItem{
		Name:      "Margherita",
		UnitPrice: inr("145"),
		Extras:    []string{"extraCheese", "extraOlives"},
		Quantity:  1,
	}
	diff := cmp.Diff(want, got, cmp.Comparer(func(x, y domain.Money) bool {
		return x.Amount.Equal(y.Amount) && x.SameCurrency(y)
	}))
	assert.Empty(t, diff)

	_, err = engine.Customize(item, currency.INR, []string{"pineapple"})
	var invalid *pricing.InvalidOptionError
	assert.ErrorAs(t, err, &invalid)

	_, err = engine.Customize(domain.CatalogItem{}, currency.INR, nil)
	assert.EqualError(t, err, "item name is empty")
}
