package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shravanik22/MediLink/internal/repository"
)

type stubOrderRepo struct {
	orders []*repository.Order
	err    error
}

func (s *stubOrderRepo) GetAllActiveOrders(ctx context.Context) ([]*repository.Order, error) {
	return s.orders, s.err
}

func TestLoadInitialData(t *testing.T) {
	t.Parallel()

	repo := &stubOrderRepo{orders: []*repository.Order{
		{ID: "ORD-1", Status: "pending"},
		{ID: "ORD-2", Status: "out_for_delivery"},
	}}
	c := NewOrderCache(repo)

	require.NoError(t, c.LoadInitialData(context.Background()))

	_, ok := c.Get("ORD-1")
	assert.True(t, ok)
	_, ok = c.Get("ORD-2")
	assert.True(t, ok)
}

func TestGetReturnsCopy(t *testing.T) {
	t.Parallel()

	c := NewOrderCache(nil)
	c.Set(&repository.Order{ID: "ORD-1", Status: "pending"})

	first, ok := c.Get("ORD-1")
	require.True(t, ok)
	first.Status = "mutated"

	second, ok := c.Get("ORD-1")
	require.True(t, ok)
	assert.Equal(t, "pending", second.Status)
}

func TestSetEvictsTerminalOrders(t *testing.T) {
	t.Parallel()

	c := NewOrderCache(nil)
	c.Set(&repository.Order{ID: "ORD-1", Status: "accepted"})

	_, ok := c.Get("ORD-1")
	require.True(t, ok)

	c.Set(&repository.Order{ID: "ORD-1", Status: "completed"})

	_, ok = c.Get("ORD-1")
	assert.False(t, ok)
}

func TestDelete(t *testing.T) {
	t.Parallel()

	c := NewOrderCache(nil)
	c.Set(&repository.Order{ID: "ORD-1", Status: "pending"})
	c.Delete("ORD-1")
	c.Delete("ORD-1") // idempotent

	_, ok := c.Get("ORD-1")
	assert.False(t, ok)
}
