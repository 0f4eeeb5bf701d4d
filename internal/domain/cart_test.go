package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProduct(id string, price int64) *Product {
	return &Product{
		ID:    id,
		Title: "Product " + id,
		Price: price,
		Media: Media{Kind: MediaNone},
	}
}

func TestNewCart(t *testing.T) {
	cart := NewCart("sess-1")

	assert.Equal(t, "sess-1", cart.SessionID)
	assert.Equal(t, "INR", cart.Currency)
	assert.True(t, cart.IsEmpty())
	assert.Zero(t, cart.Total())
	assert.NotZero(t, cart.CreatedAt)
}

func TestAddProduct_NewLine(t *testing.T) {
	cart := NewCart("sess-1")

	cart.AddProduct(testProduct("prod-1", 49900))

	require.Equal(t, 1, cart.LineCount())
	assert.Equal(t, 1, cart.Lines[0].Quantity)
	assert.Equal(t, int64(49900), cart.Lines[0].Price)
}

func TestAddProduct_MergesExistingLine(t *testing.T) {
	cart := NewCart("sess-1")

	cart.AddProduct(testProduct("prod-1", 49900))
	cart.AddProduct(testProduct("prod-1", 49900))
	cart.AddProduct(testProduct("prod-2", 19900))

	require.Equal(t, 2, cart.LineCount())
	assert.Equal(t, 2, cart.Lines[0].Quantity)
	assert.Equal(t, 1, cart.Lines[1].Quantity)
}

func TestTotal_RecomputedFromLines(t *testing.T) {
	cart := NewCart("sess-1")
	cart.AddProduct(testProduct("prod-1", 49900))
	cart.AddProduct(testProduct("prod-1", 49900))
	cart.AddProduct(testProduct("prod-2", 19900))

	assert.Equal(t, int64(2*49900+19900), cart.Total())

	require.True(t, cart.ApplyQuantityDelta("prod-2", 2))
	assert.Equal(t, int64(2*49900+3*19900), cart.Total())
}

func TestApplyQuantityDelta_ClampsAtOne(t *testing.T) {
	cart := NewCart("sess-1")
	cart.AddProduct(testProduct("prod-1", 49900))

	require.True(t, cart.ApplyQuantityDelta("prod-1", -5))
	assert.Equal(t, 1, cart.Lines[0].Quantity, "decrement must clamp, not remove")

	require.True(t, cart.ApplyQuantityDelta("prod-1", 3))
	assert.Equal(t, 4, cart.Lines[0].Quantity)
}

func TestApplyQuantityDelta_UnknownProduct(t *testing.T) {
	cart := NewCart("sess-1")

	assert.False(t, cart.ApplyQuantityDelta("missing", 1))
}

func TestRemoveLine(t *testing.T) {
	cart := NewCart("sess-1")
	cart.AddProduct(testProduct("prod-1", 49900))
	cart.AddProduct(testProduct("prod-2", 19900))

	require.True(t, cart.RemoveLine("prod-1"))
	require.Equal(t, 1, cart.LineCount())
	assert.Equal(t, "prod-2", cart.Lines[0].ProductID)

	assert.False(t, cart.RemoveLine("prod-1"))
}

func TestSnapshot_InsulatedFromMutation(t *testing.T) {
	cart := NewCart("sess-1")
	cart.AddProduct(testProduct("prod-1", 49900))

	snap := cart.Snapshot()
	cart.ApplyQuantityDelta("prod-1", 5)
	cart.RemoveLine("prod-1")

	require.Len(t, snap, 1)
	assert.Equal(t, 1, snap[0].Quantity)
}
