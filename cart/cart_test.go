package cart

import (
	"context"
	"testing"

	"souq/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGuestCart() (*guestCart, *int) {
	saves := 0
	s := &session.Session{SID: "test", Cart: map[string]int{}}
	return &guestCart{s: s, save: func() error { saves++; return nil }}, &saves
}

func TestGuestCartAddMergesQuantities(t *testing.T) {
	c, saves := newGuestCart()
	ctx := context.Background()

	require.NoError(t, c.Add(ctx, "p1", 2))
	require.NoError(t, c.Add(ctx, "p1", 3))
	require.NoError(t, c.Add(ctx, "p2", 1))

	items, err := c.Items(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"p1": 5, "p2": 1}, items)
	assert.Equal(t, 3, *saves)
}

func TestGuestCartRemoveAbsentIsNoError(t *testing.T) {
	c, _ := newGuestCart()
	ctx := context.Background()

	require.NoError(t, c.Remove(ctx, "never-added"))

	require.NoError(t, c.Add(ctx, "p1", 1))
	require.NoError(t, c.Remove(ctx, "p1"))

	items, err := c.Items(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestGuestCartClear(t *testing.T) {
	c, _ := newGuestCart()
	ctx := context.Background()

	require.NoError(t, c.Add(ctx, "p1", 2))
	require.NoError(t, c.Add(ctx, "p2", 4))
	require.NoError(t, c.Clear(ctx))

	items, err := c.Items(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestGuestCartItemsReturnsCopy(t *testing.T) {
	c, _ := newGuestCart()
	ctx := context.Background()

	require.NoError(t, c.Add(ctx, "p1", 2))

	items, err := c.Items(ctx)
	require.NoError(t, err)
	items["p1"] = 99

	again, err := c.Items(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, again["p1"])
}
