package domain

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductValidate(t *testing.T) {
	ok := Product{ID: 1, Price: decimal.RequireFromString("0"), Rating: Rating{Rate: 5, Count: 0}}
	require.NoError(t, ok.Validate())

	bad := []Product{
		{ID: 0},
		{ID: 1, Price: decimal.NewFromInt(-1)},
		{ID: 1, Rating: Rating{Rate: 5.1}},
		{ID: 1, Rating: Rating{Rate: math.NaN()}},
		{ID: 1, Rating: Rating{Rate: math.Inf(1)}},
		{ID: 1, Rating: Rating{Count: -1}},
	}
	for _, p := range bad {
		assert.Error(t, p.Validate(), "%+v", p)
	}
}

func TestCartTotals(t *testing.T) {
	cart := Cart{
		{Product: Product{ID: 1, Price: decimal.RequireFromString("0.10")}, Quantity: 3},
		{Product: Product{ID: 2, Price: decimal.RequireFromString("0.20")}, Quantity: 1},
	}
	assert.Equal(t, 4, cart.TotalItems())
	assert.True(t, decimal.RequireFromString("0.50").Equal(cart.TotalPrice()))
	assert.Equal(t, 1, cart.Index(2))
	assert.Equal(t, -1, cart.Index(3))
	assert.True(t, Cart{}.TotalPrice().IsZero())
}

func TestCartItemJSONIsFlat(t *testing.T) {
	item := CartItem{Product: Product{ID: 4, Title: "Mug", Price: decimal.RequireFromString("6.5")}, Quantity: 2}
	raw, err := json.Marshal(item)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))
	assert.EqualValues(t, 4, fields["id"])
	assert.EqualValues(t, 2, fields["quantity"])
	assert.Equal(t, "Mug", fields["title"])
}

func TestWishlistContains(t *testing.T) {
	w := Wishlist{3, 1}
	assert.True(t, w.Contains(1))
	assert.False(t, w.Contains(2))
}
