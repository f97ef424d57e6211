package cache

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront/backend/internal/domain/catalog"
)

func snapshot(name string, price string) catalog.ProductSnapshot {
	return catalog.ProductSnapshot{
		ProductID: uuid.New(),
		Name:      name,
		Price:     decimal.RequireFromString(price),
	}
}

func TestInMemoryCartStore_LoadMissingReturnsEmptyCart(t *testing.T) {
	store := NewInMemoryCartStore()
	userID := uuid.New()

	cart, err := store.Load(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, userID, cart.UserID)
	assert.True(t, cart.IsEmpty())
}

func TestInMemoryCartStore_SaveAndLoad(t *testing.T) {
	store := NewInMemoryCartStore()
	ctx := context.Background()
	userID := uuid.New()

	cart, err := store.Load(ctx, userID)
	require.NoError(t, err)
	require.NoError(t, cart.AddItem(snapshot("Mouse", "99.90"), 2))
	require.NoError(t, store.Save(ctx, cart))

	loaded, err := store.Load(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.ItemCount())
	assert.Equal(t, "199.80 BRL", loaded.Total().String())
}

func TestInMemoryCartStore_LoadReturnsCopy(t *testing.T) {
	store := NewInMemoryCartStore()
	ctx := context.Background()
	userID := uuid.New()

	cart, _ := store.Load(ctx, userID)
	require.NoError(t, cart.AddItem(snapshot("Mouse", "99.90"), 1))
	require.NoError(t, store.Save(ctx, cart))

	first, err := store.Load(ctx, userID)
	require.NoError(t, err)
	require.NoError(t, first.AddItem(snapshot("Keyboard", "120.00"), 1))

	second, err := store.Load(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, second.Items, 1)
}

func TestInMemoryCartStore_SaveEmptyCartDeletes(t *testing.T) {
	store := NewInMemoryCartStore()
	ctx := context.Background()
	userID := uuid.New()

	cart, _ := store.Load(ctx, userID)
	require.NoError(t, cart.AddItem(snapshot("Mouse", "99.90"), 1))
	require.NoError(t, store.Save(ctx, cart))

	cart.Clear()
	require.NoError(t, store.Save(ctx, cart))

	store.mu.RLock()
	_, exists := store.carts[userID]
	store.mu.RUnlock()
	assert.False(t, exists)
}
