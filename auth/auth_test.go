package auth

import (
	"context"
	"testing"

	"souq/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingCart struct {
	items map[string]int
}

func (c *recordingCart) Items(context.Context) (map[string]int, error) { return c.items, nil }

func (c *recordingCart) Add(_ context.Context, productID string, quantity int) error {
	c.items[productID] += quantity
	return nil
}

func (c *recordingCart) Remove(_ context.Context, productID string) error {
	delete(c.items, productID)
	return nil
}

func (c *recordingCart) Clear(context.Context) error {
	c.items = map[string]int{}
	return nil
}

func TestMergeGuestCart(t *testing.T) {
	s := &session.Session{SID: "s1", Cart: map[string]int{"p1": 2, "p2": 1}}
	persisted := &recordingCart{items: map[string]int{"p1": 3}}

	require.NoError(t, mergeGuestCart(context.Background(), s, persisted))

	assert.Equal(t, map[string]int{"p1": 5, "p2": 1}, persisted.items)
	assert.Empty(t, s.Cart)
}

func TestMergeGuestCartEmptySession(t *testing.T) {
	s := &session.Session{SID: "s1", Cart: map[string]int{}}
	persisted := &recordingCart{items: map[string]int{"p1": 1}}

	require.NoError(t, mergeGuestCart(context.Background(), s, persisted))
	assert.Equal(t, map[string]int{"p1": 1}, persisted.items)
}
